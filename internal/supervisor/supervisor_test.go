package supervisor

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"herscat/internal/proxyuri"
)

func TestOutcomeStringCoversAllOutcomes(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeKilled:       "killed",
		OutcomeAlreadyExited: "already_exited",
		OutcomeRaceExited:    "race_exited",
	}
	for outcome, want := range cases {
		if got := outcomeString(outcome); got != want {
			t.Errorf("outcomeString(%v) = %q, want %q", outcome, got, want)
		}
	}
}

func TestIsRaceExitRecognizesKnownRaces(t *testing.T) {
	if !isRaceExit(syscall.ESRCH) {
		t.Error("expected ESRCH to be classified as a race exit")
	}
	if !isRaceExit(syscall.EINVAL) {
		t.Error("expected EINVAL to be classified as a race exit")
	}
	if !isRaceExit(errors.New("os: process already finished")) {
		t.Error("expected the stdlib already-finished message to be classified as a race exit")
	}
	if isRaceExit(errors.New("permission denied")) {
		t.Error("did not expect an unrelated error to be classified as a race exit")
	}
}

// StartInstances with an empty record list should fail cleanly rather than
// silently returning an empty, successful result.
func TestStartInstancesFailsWithNoRecords(t *testing.T) {
	sup := New("xray")
	if _, err := sup.StartInstances(nil, 20100, 1); err == nil {
		t.Fatal("expected error for empty record list")
	}
}

func TestStartInstancesFailsWhenBinaryMissing(t *testing.T) {
	sup := New("herscat-definitely-not-a-real-binary")
	records := []*proxyuri.ProxyRecord{
		{
			Protocol: proxyuri.ProtocolVless,
			Vless: &proxyuri.Vless{
				ID: "id", Host: "h", Port: 443, Network: "tcp", Security: "none",
			},
		},
	}
	if _, err := sup.StartInstances(records, 20200, 1); err == nil {
		t.Fatal("expected error when the proxy-client binary cannot be spawned")
	}
}

func TestTerminateAllIsSafeWithNoInstances(t *testing.T) {
	sup := New("xray")
	done := make(chan struct{})
	go func() {
		sup.TerminateAll()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("TerminateAll blocked with no instances registered")
	}
}
