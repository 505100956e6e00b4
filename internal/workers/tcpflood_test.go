package workers

import (
	"io"
	"net"
	"testing"
	"time"

	"herscat/internal/stats"
)

func TestFloodOneConnectionRespectsPerConnectionLimit(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		buf := make([]byte, 64)
		for {
			if _, err := server.Read(buf); err != nil {
				return
			}
		}
	}()

	var counters stats.Counters
	payload := make([]byte, 16)

	floodOneConnection(client, payload, 5, nil, &counters, time.Time{})

	snap := counters.Snapshot(time.Now().Add(-time.Second))
	if snap.PacketsSent != 5 {
		t.Errorf("expected exactly 5 packets for a limit of 5, got %d", snap.PacketsSent)
	}
}

func TestFloodOneConnectionStopsOnWriteError(t *testing.T) {
	client, server := net.Pipe()
	server.Close() // closing the peer makes writes on client fail immediately
	defer client.Close()

	var counters stats.Counters
	payload := make([]byte, 16)

	done := make(chan struct{})
	go func() {
		floodOneConnection(client, payload, 0, nil, &counters, time.Time{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("floodOneConnection did not return after a write error")
	}

	snap := counters.Snapshot(time.Now().Add(-time.Second))
	if snap.FailureEvents != 1 {
		t.Errorf("expected 1 failure event, got %d", snap.FailureEvents)
	}
}

func TestFloodOneConnectionStopsAtDeadline(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go io.Copy(io.Discard, server)

	var counters stats.Counters
	payload := make([]byte, 16)

	done := make(chan struct{})
	go func() {
		floodOneConnection(client, payload, 0, nil, &counters, time.Now().Add(50*time.Millisecond))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("floodOneConnection did not honor its deadline")
	}
}
