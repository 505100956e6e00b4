// Package stats provides the lock-free shared counters workers write to and
// the derived-rate snapshots the live reporter reads from.
package stats

import (
	"sync/atomic"
	"time"
)

// Counters holds the four monotonic counters shared by every worker and the
// reporter. All mutation is relaxed-ordering atomic addition; there is no
// cross-counter consistency guarantee beyond per-counter monotonicity.
type Counters struct {
	successEvents    atomic.Uint64
	failureEvents    atomic.Uint64
	bytesTransferred atomic.Uint64
	packetsSent      atomic.Uint64
}

// RecordSuccess increments the success counter by one.
func (c *Counters) RecordSuccess() {
	c.successEvents.Add(1)
}

// RecordFailure increments the failure counter by one.
func (c *Counters) RecordFailure() {
	c.failureEvents.Add(1)
}

// RecordBytes adds n to the byte counter.
func (c *Counters) RecordBytes(n uint64) {
	c.bytesTransferred.Add(n)
}

// RecordPacket increments the packet and success counters by one and adds
// payloadLen to the byte counter — the combined update flood workers use per
// datagram or per write.
func (c *Counters) RecordPacket(payloadLen uint64) {
	c.successEvents.Add(1)
	c.packetsSent.Add(1)
	c.bytesTransferred.Add(payloadLen)
}

// Snapshot is an immutable point-in-time read of the counters plus the run's
// start time, from which derived rates are computed.
type Snapshot struct {
	SuccessEvents    uint64
	FailureEvents    uint64
	BytesTransferred uint64
	PacketsSent      uint64
	StartTime        time.Time
	takenAt          time.Time
}

// Snapshot reads all four counters and pairs them with the supplied start
// time. Reads are independent relaxed loads; a tiny skew between counters is
// expected and acceptable for a live gauge.
func (c *Counters) Snapshot(start time.Time) Snapshot {
	return Snapshot{
		SuccessEvents:    c.successEvents.Load(),
		FailureEvents:    c.failureEvents.Load(),
		BytesTransferred: c.bytesTransferred.Load(),
		PacketsSent:      c.packetsSent.Load(),
		StartTime:        start,
		takenAt:          time.Now(),
	}
}

// Elapsed returns the wall-clock duration between the run's start and when
// the snapshot was taken.
func (s Snapshot) Elapsed() time.Duration {
	return s.takenAt.Sub(s.StartTime)
}

// BytesPerSecond returns the average byte rate since StartTime.
func (s Snapshot) BytesPerSecond() float64 {
	secs := s.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.BytesTransferred) / secs
}

// PacketsPerSecond returns the average packet rate since StartTime.
func (s Snapshot) PacketsPerSecond() float64 {
	secs := s.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.PacketsSent) / secs
}
