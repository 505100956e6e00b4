package stress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// WorkerFunc is one worker's full lifecycle: loop until deadline (the zero
// Value meaning "run indefinitely"), then return. Workers never return
// errors — transport failures are absorbed into counters per spec section 7.
type WorkerFunc func(deadline time.Time)

// downloadShares computes per-endpoint worker counts for download mode:
// concurrency split as evenly as possible, remainder going one-each to the
// first endpoints. Flood modes instead give every endpoint the full
// concurrency (see Runner.launchFlood).
func downloadShares(concurrency, n int) []int {
	if n == 0 {
		return nil
	}
	base := concurrency / n
	rem := concurrency % n
	shares := make([]int, n)
	for i := range shares {
		shares[i] = base
		if i < rem {
			shares[i]++
		}
	}
	return shares
}

// dispatcher fans WorkerFunc instances out across goroutines, bounds their
// runtime to deadline, and joins them without letting a stuck worker block
// shutdown forever.
type dispatcher struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

func newDispatcher(total int) *dispatcher {
	if total < 1 {
		total = 1
	}
	return &dispatcher{sem: semaphore.NewWeighted(int64(total))}
}

// spawn launches one worker under the dispatcher's semaphore, recovering and
// logging any panic individually so one bad worker never fails the run.
func (d *dispatcher) spawn(ctx context.Context, fn WorkerFunc, deadline time.Time, label string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		if err := d.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer d.sem.Release(1)

		defer func() {
			if r := recover(); r != nil {
				slog.Error("worker panicked", "worker", label, "panic", r)
			}
		}()

		fn(deadline)
	}()
}

// joinBounded waits for every spawned worker, but gives up as soon as ctx is
// cancelled (SIGINT/SIGTERM) or, failing that, after grace past the
// deadline, so a worker wedged in uncancellable I/O cannot hang the run.
// Abandoned goroutines are left to exit on their own the next time their
// loop checks the deadline; no I/O deadline is set on their connections.
func (d *dispatcher) joinBounded(ctx context.Context, deadline time.Time, grace time.Duration) {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	if deadline.IsZero() {
		select {
		case <-done:
		case <-ctx.Done():
			slog.Warn("dispatcher abandoning workers on shutdown signal")
		}
		return
	}

	wait := time.Until(deadline) + grace
	if wait < 0 {
		wait = grace
	}

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn("dispatcher abandoning workers on shutdown signal")
	case <-time.After(wait):
		slog.Warn("dispatcher giving up on stuck workers", "grace", grace)
	}
}
