package stress

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"herscat/internal/stats"
	"herscat/internal/targets"
	"herscat/internal/workers"
)

const joinGrace = 2 * time.Second

// Runner drives one stress run to completion: it builds one WorkerFunc per
// worker slot per spec section 4.7's distribution contract, dispatches them,
// runs the live reporter alongside, and returns the final snapshot.
type Runner struct {
	cfg      Config
	counters *stats.Counters
}

// NewRunner validates cfg and builds a Runner.
func NewRunner(cfg Config) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, counters: &stats.Counters{}}, nil
}

// Run executes the configured mode until its deadline (or forever, if
// Duration is zero) and returns the final stats snapshot. statsInterval
// controls how often the live reporter logs; zero disables live reporting.
// Cancelling ctx (SIGINT/SIGTERM) ends the run immediately without waiting
// for worker cooperation, per spec section 5 — still-running workers are
// abandoned rather than joined.
func (r *Runner) Run(ctx context.Context, statsInterval time.Duration) stats.Snapshot {
	start := time.Now()
	deadline := r.cfg.Deadline(start)

	disp := newDispatcher(r.totalWorkers())
	r.launch(ctx, disp, deadline)

	stopReporter := func() {}
	if statsInterval > 0 {
		stopReporter = startReporter(r.cfg.Mode, r.counters, start, statsInterval)
	}

	disp.joinBounded(ctx, deadline, joinGrace)
	stopReporter()

	return r.counters.Snapshot(start)
}

func (r *Runner) totalWorkers() int {
	n := len(r.cfg.ProxyPorts)
	if r.cfg.Mode == targets.ModeDownload {
		total := 0
		for _, share := range downloadShares(r.cfg.Concurrency, n) {
			total += share
		}
		return total
	}
	return r.cfg.Concurrency * n
}

func (r *Runner) launch(ctx context.Context, disp *dispatcher, deadline time.Time) {
	switch r.cfg.Mode {
	case targets.ModeDownload:
		r.launchDownload(ctx, disp, deadline)
	case targets.ModeTCPFlood:
		r.launchFlood(ctx, disp, deadline, false)
	case targets.ModeUDPFlood:
		r.launchFlood(ctx, disp, deadline, true)
	default:
		slog.Error("unknown stress mode", "mode", r.cfg.Mode)
	}
}

func (r *Runner) launchDownload(ctx context.Context, disp *dispatcher, deadline time.Time) {
	urls := make([]string, 0, len(r.cfg.Targets))
	for _, t := range r.cfg.Targets {
		if t.Kind == targets.KindHTTP {
			urls = append(urls, t.URL)
		}
	}

	shares := downloadShares(r.cfg.Concurrency, len(r.cfg.ProxyPorts))
	for i, port := range r.cfg.ProxyPorts {
		if i >= len(shares) || shares[i] == 0 {
			continue
		}
		for w := 0; w < shares[i]; w++ {
			fn := workers.NewDownloadWorker(port, urls, r.counters)
			disp.spawn(ctx, fn, deadline, "download")
		}
	}
}

func (r *Runner) launchFlood(ctx context.Context, disp *dispatcher, deadline time.Time, udp bool) {
	socketTargets := make([]targets.Target, 0, len(r.cfg.Targets))
	for _, t := range r.cfg.Targets {
		if t.Kind == targets.KindSocket {
			socketTargets = append(socketTargets, t)
		}
	}

	for _, port := range r.cfg.ProxyPorts {
		for w := 0; w < r.cfg.Concurrency; w++ {
			var limiter *rate.Limiter
			if r.cfg.PacketRate > 0 {
				limiter = rate.NewLimiter(rate.Limit(r.cfg.PacketRate), 1)
			}

			var fn func(time.Time)
			if udp {
				fn = workers.NewUDPFloodWorker(port, socketTargets, r.cfg.PacketSize, r.cfg.PacketsPerConnection, limiter, r.counters)
				disp.spawn(ctx, fn, deadline, "udp-flood")
			} else {
				fn = workers.NewTCPFloodWorker(port, socketTargets, r.cfg.PacketSize, r.cfg.PacketsPerConnection, limiter, r.counters)
				disp.spawn(ctx, fn, deadline, "tcp-flood")
			}
		}
	}
}
