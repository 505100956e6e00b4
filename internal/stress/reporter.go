package stress

import (
	"log/slog"
	"time"

	"herscat/internal/stats"
	"herscat/internal/targets"
)

const emaAlpha = 0.3

// startReporter launches a background goroutine that logs a live throughput
// line every interval. Per spec section 9, EMA smoothing (alpha 0.3,
// seeded with the first sample) applies only to download mode's byte rate;
// flood modes report the snapshot's own since-start averages directly. It
// returns a stop function.
func startReporter(mode targets.Mode, counters *stats.Counters, start time.Time, interval time.Duration) func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var (
			ema       float64
			emaSeeded bool
			prevBytes uint64
			prevAt    = start
		)

		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				snap := counters.Snapshot(start)
				deltaBytes := snap.BytesTransferred - prevBytes

				if mode == targets.ModeDownload {
					dt := now.Sub(prevAt).Seconds()
					var instant float64
					if dt > 0 {
						instant = float64(deltaBytes) / dt
					}
					if !emaSeeded {
						ema = instant
						emaSeeded = true
					} else {
						ema = emaAlpha*instant + (1-emaAlpha)*ema
					}
					prevAt = now
				}
				prevBytes = snap.BytesTransferred

				logSnapshot(mode, snap, ema, deltaBytes)
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

func logSnapshot(mode targets.Mode, snap stats.Snapshot, emaBytesPerSec float64, deltaBytes uint64) {
	gb := float64(snap.BytesTransferred) / (1 << 30)

	switch mode {
	case targets.ModeDownload:
		slog.Info("stress stats",
			"mode", mode,
			"mb_per_sec", round2(emaBytesPerSec/(1<<20)),
			"mbit_per_sec", round2(emaBytesPerSec*8/1_000_000),
			"total_gb", round2(gb),
			"success", snap.SuccessEvents,
			"failure", snap.FailureEvents,
			"elapsed", snap.Elapsed().Round(time.Second),
		)
	default:
		bps := snap.BytesPerSecond()
		slog.Info("stress stats",
			"mode", mode,
			"mb_per_sec", round2(bps/(1<<20)),
			"mbit_per_sec", round2(bps*8/1_000_000),
			"delta_mb", round2(float64(deltaBytes)/(1<<20)),
			"total_gb", round2(gb),
			"packets_per_sec", round2(snap.PacketsPerSecond()),
			"packets_sent", snap.PacketsSent,
			"failure", snap.FailureEvents,
			"elapsed", snap.Elapsed().Round(time.Second),
		)
	}
}

func round2(f float64) float64 {
	return float64(int(f*100)) / 100
}
