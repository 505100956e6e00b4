// Package stress implements the per-mode orchestrator that fans work out to
// C8/C9/C10 workers across a fleet of local SOCKS5 endpoints and reports
// live throughput.
package stress

import (
	"time"

	"herscat/internal/targets"
	herrors "herscat/pkg/errors"
)

// Config is the validated input to a stress run (spec section 3's
// StressConfig).
type Config struct {
	Mode        targets.Mode
	Targets     []targets.Target
	Concurrency int
	Duration    time.Duration // zero means run indefinitely
	ProxyPorts  []int
	PacketSize  int
	PacketRate  float64 // packets/sec; zero means unpaced
	PacketsPerConnection int // zero means unlimited
}

// Validate enforces the StressConfig invariants from spec section 3.
func (c Config) Validate() error {
	if len(c.ProxyPorts) == 0 {
		return herrors.NewValidationError("proxy_ports", "", "at least one proxy port is required")
	}
	if c.Concurrency < 1 {
		return herrors.NewValidationError("concurrency", "", "concurrency must be >= 1")
	}
	if c.PacketSize < 1 {
		return herrors.NewValidationError("packet_size", "", "packet_size must be >= 1")
	}
	if c.PacketRate < 0 {
		return herrors.NewValidationError("packet_rate", "", "packet_rate must be > 0 when set")
	}
	if c.Mode.IsFlood() {
		hasSocket := false
		for _, t := range c.Targets {
			if t.Kind == targets.KindSocket {
				hasSocket = true
				break
			}
		}
		if !hasSocket {
			return herrors.ErrMissingTargets
		}
	}
	return nil
}

// Deadline returns the wall-clock time a worker loop should stop at, or the
// zero Value if Duration is zero (run indefinitely).
func (c Config) Deadline(start time.Time) time.Time {
	if c.Duration <= 0 {
		return time.Time{}
	}
	return start.Add(c.Duration)
}
