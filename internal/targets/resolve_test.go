package targets

import (
	"strings"
	"testing"
)

func TestResolveDownloadFallsBackToDefaults(t *testing.T) {
	resolved, err := Resolve(ModeDownload, "")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(resolved) != len(defaultDownloadTargets) {
		t.Fatalf("expected %d default targets, got %d", len(defaultDownloadTargets), len(resolved))
	}
}

func TestResolveFloodRequiresTargets(t *testing.T) {
	if _, err := Resolve(ModeTCPFlood, ""); err == nil {
		t.Fatal("expected error for flood mode with no targets")
	}
}

func TestResolveSocketRoundTrip(t *testing.T) {
	raw := "10.0.0.1:9000,example.com:443,[::1]:53"
	resolved, err := Resolve(ModeTCPFlood, raw)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	tokens := strings.Split(raw, ",")
	if len(resolved) != len(tokens) {
		t.Fatalf("expected %d targets, got %d", len(tokens), len(resolved))
	}
	for i, target := range resolved {
		if target.Kind != KindSocket {
			t.Errorf("target %d: expected KindSocket, got %v", i, target.Kind)
		}
		if target.String() != tokens[i] {
			t.Errorf("target %d: round-trip mismatch: got %q, want %q", i, target.String(), tokens[i])
		}
	}
}

func TestResolveHTTPRejectsNonHTTPScheme(t *testing.T) {
	if _, err := Resolve(ModeDownload, "ftp://example.com/file"); err == nil {
		t.Fatal("expected error for non-http(s) scheme")
	}
}

func TestResolveSocketRejectsBadPort(t *testing.T) {
	if _, err := Resolve(ModeTCPFlood, "host:notaport"); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
	if _, err := Resolve(ModeTCPFlood, "host:70000"); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}
