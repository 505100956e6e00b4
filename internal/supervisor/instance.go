// Package supervisor launches, monitors, restarts, and tears down the
// external proxy-client subprocesses that back each local SOCKS5 endpoint.
package supervisor

import (
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"herscat/internal/proxyuri"
)

// instance tracks one running (or recently-running) proxy-client subprocess.
// It is mutated only by the Supervisor under its mutex; workers never touch
// it directly.
//
// exitedFlag is set exactly once by the reaper goroutine started in spawn
// (or in sweep, on restart), and read without holding the supervisor's
// mutex, so it is an atomic rather than a plain field.
type instance struct {
	id           string
	port         int
	record       *proxyuri.ProxyRecord
	cmd          *exec.Cmd
	configPath   string
	restartCount int
	startedAt    time.Time

	exitedFlag atomic.Bool
	done       chan struct{}
}

// exited performs a non-blocking liveness check: it reports whether the
// child has already exited, without ever blocking on it.
func (inst *instance) exited() bool {
	return inst.exitedFlag.Load()
}

// markExited is invoked exactly once by the reaper goroutine.
func (inst *instance) markExited() {
	inst.exitedFlag.Store(true)
	close(inst.done)
}

func newInstanceID() string {
	return uuid.NewString()
}
