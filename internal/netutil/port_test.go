package netutil

import (
	"net"
	"testing"
)

func TestFindNextFreePortFindsABindablePort(t *testing.T) {
	port, ok := FindNextFreePort(20000)
	if !ok {
		t.Fatal("expected to find a free port starting at 20000")
	}
	if port < 20000 {
		t.Errorf("expected port >= 20000, got %d", port)
	}
}

func TestFindNextFreePortSkipsOccupiedPort(t *testing.T) {
	l, err := net.ListenTCP("tcp", &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatalf("failed to reserve a test port: %v", err)
	}
	defer l.Close()
	occupied := l.Addr().(*net.TCPAddr).Port

	port, ok := FindNextFreePort(occupied)
	if !ok {
		t.Fatal("expected to find a free port")
	}
	if port == occupied {
		t.Error("expected FindNextFreePort to skip the occupied port")
	}
}

func TestFindNextFreePortReportsAbsenceNearTopOfRange(t *testing.T) {
	// Only ports 65535 and nothing above exist; probing from 65536 is out of
	// bounds immediately so it must report absence without scanning forever.
	_, ok := FindNextFreePort(65536)
	if ok {
		t.Fatal("expected absence when start is already past 65535")
	}
}
