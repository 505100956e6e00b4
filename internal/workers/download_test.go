package workers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"herscat/internal/stats"
)

func TestRunDownloadOnceRecordsSuccessAndBytes(t *testing.T) {
	body := []byte("hello from the origin server")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	var counters stats.Counters
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}

	runDownloadOnce(server.Client(), req, &counters)

	snap := counters.Snapshot(time.Now().Add(-time.Second))
	if snap.SuccessEvents != 1 {
		t.Errorf("expected 1 success event, got %d", snap.SuccessEvents)
	}
	if snap.BytesTransferred != uint64(len(body)) {
		t.Errorf("expected %d bytes transferred, got %d", len(body), snap.BytesTransferred)
	}
	if snap.FailureEvents != 0 {
		t.Errorf("expected no failures, got %d", snap.FailureEvents)
	}
}

func TestRunDownloadOnceRecordsFailureOnDialError(t *testing.T) {
	var counters stats.Counters
	req, err := http.NewRequest(http.MethodGet, "http://127.0.0.1:1", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("User-Agent", userAgents[0])

	client := &http.Client{Timeout: 2 * time.Second}
	runDownloadOnce(client, req, &counters)

	snap := counters.Snapshot(time.Now().Add(-time.Second))
	if snap.FailureEvents != 1 {
		t.Errorf("expected 1 failure event for an unreachable origin, got %d", snap.FailureEvents)
	}
	if snap.SuccessEvents != 0 {
		t.Errorf("expected no success events, got %d", snap.SuccessEvents)
	}
}

func TestNewDownloadWorkerSkipsUnparsableURLs(t *testing.T) {
	worker := NewDownloadWorker(10800, []string{"http://[::1"}, &stats.Counters{})
	// The malformed URL is dropped from the request set, leaving zero
	// requests; the worker must return immediately rather than loop forever.
	done := make(chan struct{})
	go func() {
		worker(time.Time{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker with no valid requests did not return")
	}
}
