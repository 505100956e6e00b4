// Package netutil provides loopback port probing used to place proxy-client
// instances on free local ports.
package netutil

import "net"

// maxProbes bounds how many consecutive ports FindNextFreePort will try
// before giving up, per spec section 4.3.
const maxProbes = 10000

// FindNextFreePort probes TCP binds on 127.0.0.1 starting at start, trying
// up to maxProbes consecutive ports (never past 65535), and returns the
// first port that accepted a bind. It reports false if none did.
func FindNextFreePort(start int) (int, bool) {
	for i, port := 0, start; i < maxProbes && port <= 65535; i, port = i+1, port+1 {
		if port < 1 {
			continue
		}
		if tryBind(port) {
			return port, true
		}
	}
	return 0, false
}

func tryBind(port int) bool {
	l, err := net.ListenTCP("tcp", &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: port})
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}
