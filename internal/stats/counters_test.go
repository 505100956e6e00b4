package stats

import (
	"sync"
	"testing"
	"time"
)

func TestCountersMonotonicUnderConcurrency(t *testing.T) {
	var c Counters
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordSuccess()
				c.RecordPacket(64)
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot(start)
	if snap.SuccessEvents != 50*100+50*100 {
		t.Errorf("expected %d success events, got %d", 50*100+50*100, snap.SuccessEvents)
	}
	if snap.PacketsSent != 50*100 {
		t.Errorf("expected %d packets, got %d", 50*100, snap.PacketsSent)
	}
	if snap.BytesTransferred != uint64(50*100*64) {
		t.Errorf("expected %d bytes, got %d", 50*100*64, snap.BytesTransferred)
	}
}

func TestSnapshotRatesZeroOnNonpositiveElapsed(t *testing.T) {
	var c Counters
	snap := Snapshot{StartTime: time.Now(), SuccessEvents: 0}
	_ = snap
	// A snapshot whose start time lies after the moment it is taken has
	// negative elapsed time; rate helpers must return 0 rather than divide.
	s := c.Snapshot(time.Now().Add(time.Hour))
	if s.BytesPerSecond() != 0 {
		t.Errorf("expected 0 bytes/sec for nonpositive elapsed, got %f", s.BytesPerSecond())
	}
	if s.PacketsPerSecond() != 0 {
		t.Errorf("expected 0 packets/sec for nonpositive elapsed, got %f", s.PacketsPerSecond())
	}
}
