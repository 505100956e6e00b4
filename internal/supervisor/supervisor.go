package supervisor

import (
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"herscat/internal/netutil"
	"herscat/internal/proxyuri"
	"herscat/internal/xrayconfig"
	herrors "herscat/pkg/errors"
)

// Supervisor owns the live set of proxy-client subprocesses and the config
// generator backing them. Every mutation of the instance set happens under
// mu; workers never reach into the set directly — they only ever see the
// port numbers StartInstances returns.
type Supervisor struct {
	binary string
	gen    *xrayconfig.Generator

	mu        sync.Mutex
	instances map[int]*instance // keyed by port
	stopMonitor chan struct{}
}

// New creates a Supervisor that spawns binary (conventionally "xray") for
// each instance.
func New(binary string) *Supervisor {
	return &Supervisor{
		binary:    binary,
		gen:       xrayconfig.New(),
		instances: make(map[int]*instance),
	}
}

// StartInstances scans for free ports starting at basePort, spawning one
// subprocess per instance with records assigned round-robin, and returns the
// ports that came up successfully. It fails only when every instance failed
// to start.
func (s *Supervisor) StartInstances(records []*proxyuri.ProxyRecord, basePort, n int) ([]int, error) {
	if len(records) == 0 {
		return nil, herrors.NewValidationError("records", "", "no proxy records supplied")
	}

	var ports []int
	nextPort := basePort

	for i := 0; i < n; i++ {
		port, ok := netutil.FindNextFreePort(nextPort)
		if !ok {
			slog.Warn("no free port found", "from", nextPort, "instance", i)
			continue
		}
		nextPort = port + 1

		record := records[i%len(records)]
		if err := s.spawn(port, record); err != nil {
			slog.Warn("instance failed to start", "port", port, "instance", i, "error", err)
			continue
		}
		ports = append(ports, port)
	}

	if len(ports) == 0 {
		return nil, fmt.Errorf("%w: no instance started successfully", herrors.ErrResourceUnavailable)
	}
	return ports, nil
}

// spawn generates the config, launches the subprocess detached into its own
// process group, and performs one non-blocking liveness check before
// registering the instance.
func (s *Supervisor) spawn(port int, record *proxyuri.ProxyRecord) error {
	configPath, err := s.gen.Generate(record, port)
	if err != nil {
		return &herrors.SubprocessError{Port: port, Op: "generate-config", Err: err}
	}

	cmd := exec.Command(s.binary, "-c", configPath)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return &herrors.SubprocessError{Port: port, Op: "spawn", Err: err}
	}

	inst := &instance{
		id:         newInstanceID(),
		port:       port,
		record:     record,
		cmd:        cmd,
		configPath: configPath,
		startedAt:  time.Now(),
		done:       make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()
		inst.markExited()
	}()

	// One non-blocking poll to catch immediate config-rejection crashes.
	time.Sleep(50 * time.Millisecond)
	if inst.exited() {
		return &herrors.SubprocessError{Port: port, Op: "spawn", Err: fmt.Errorf("child exited immediately")}
	}

	s.mu.Lock()
	s.instances[port] = inst
	s.mu.Unlock()

	return nil
}

// StartMonitor launches a background goroutine that, every interval, sweeps
// the instance set for crashed children and respawns them on the same port
// with a freshly regenerated config. It returns a stop function.
func (s *Supervisor) StartMonitor(interval time.Duration) func() {
	stop := make(chan struct{})
	s.mu.Lock()
	s.stopMonitor = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()

	return func() { close(stop) }
}

func (s *Supervisor) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for port, inst := range s.instances {
		if !inst.exited() {
			continue
		}

		inst.restartCount++
		slog.Warn("instance crashed, restarting", "id", inst.id, "port", port, "restart_count", inst.restartCount)

		configPath, err := s.gen.Generate(inst.record, port)
		if err != nil {
			slog.Warn("restart: config regeneration failed", "port", port, "error", err)
			continue
		}

		cmd := exec.Command(s.binary, "-c", configPath)
		cmd.Stdout = nil
		cmd.Stderr = nil
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

		if err := cmd.Start(); err != nil {
			slog.Warn("restart: spawn failed", "port", port, "error", err)
			continue
		}

		newInst := &instance{
			id:           inst.id,
			port:         port,
			record:       inst.record,
			cmd:          cmd,
			configPath:   configPath,
			restartCount: inst.restartCount,
			startedAt:    time.Now(),
			done:         make(chan struct{}),
		}
		go func(ni *instance) {
			_ = ni.cmd.Wait()
			ni.markExited()
		}(newInst)

		s.instances[port] = newInst
	}
}

// Outcome classifies how a single instance's termination went.
type Outcome int

const (
	OutcomeKilled Outcome = iota
	OutcomeAlreadyExited
	OutcomeRaceExited
)

// TerminateAll best-effort kills and reaps every instance, then clears the
// set and releases the scratch directory. It never returns an error for any
// single child failure — those are logged and skipped.
func (s *Supervisor) TerminateAll() {
	if stop := s.monitorStop(); stop != nil {
		stop()
	}

	s.mu.Lock()
	instances := s.instances
	s.instances = make(map[int]*instance)
	s.mu.Unlock()

	for port, inst := range instances {
		outcome := terminateOne(inst)
		slog.Info("instance terminated", "id", inst.id, "port", port, "outcome", outcomeString(outcome))
	}

	s.gen.CleanupAll()
}

func (s *Supervisor) monitorStop() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	stop := s.stopMonitor
	s.stopMonitor = nil
	return stop
}

// terminateOne sends a kill signal and waits briefly for the reaper
// goroutine to observe the exit, classifying races where the child exited
// during the kill window as non-errors.
func terminateOne(inst *instance) Outcome {
	if inst.exited() {
		return OutcomeAlreadyExited
	}

	err := inst.cmd.Process.Kill()
	if err != nil {
		if isRaceExit(err) {
			return OutcomeRaceExited
		}
		return OutcomeAlreadyExited
	}

	select {
	case <-inst.done:
	case <-time.After(2 * time.Second):
	}

	if inst.exited() {
		return OutcomeKilled
	}
	return OutcomeAlreadyExited
}

func isRaceExit(err error) bool {
	return err == syscall.ESRCH || err == syscall.EINVAL || err.Error() == "os: process already finished"
}

func outcomeString(o Outcome) string {
	switch o {
	case OutcomeKilled:
		return "killed"
	case OutcomeAlreadyExited:
		return "already_exited"
	case OutcomeRaceExited:
		return "race_exited"
	default:
		return "unknown"
	}
}
