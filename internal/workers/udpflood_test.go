package workers

import (
	"bytes"
	"testing"

	"herscat/internal/targets"
)

func TestFrameDatagramIPv4Target(t *testing.T) {
	target := targets.Target{Kind: targets.KindSocket, Host: "1.2.3.4", Port: 53}
	payload := []byte{0xAA, 0xBB}

	got, err := frameDatagram(target, payload)
	if err != nil {
		t.Fatalf("frameDatagram returned error: %v", err)
	}

	want := []byte{0x00, 0x00, 0x00, 0x01, 0x01, 0x02, 0x03, 0x04, 0x00, 0x35, 0xAA, 0xBB}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestFrameDatagramDomainTarget(t *testing.T) {
	target := targets.Target{Kind: targets.KindSocket, Host: "example.com", Port: 443}

	got, err := frameDatagram(target, nil)
	if err != nil {
		t.Fatalf("frameDatagram returned error: %v", err)
	}

	want := []byte{
		0x00, 0x00, 0x00, 0x03, 0x0B,
		'e', 'x', 'a', 'm', 'p', 'l', 'e', '.', 'c', 'o', 'm',
		0x01, 0xBB,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestFrameDatagramRejectsOversizeDomain(t *testing.T) {
	target := targets.Target{Kind: targets.KindSocket, Host: string(make([]byte, 256)), Port: 80}
	if _, err := frameDatagram(target, []byte{0x01}); err == nil {
		t.Fatal("expected error for domain longer than 255 bytes")
	}
}

func TestFrameDatagramIPv6Target(t *testing.T) {
	target := targets.Target{Kind: targets.KindSocket, Host: "::1", Port: 8080}

	got, err := frameDatagram(target, []byte{0x01})
	if err != nil {
		t.Fatalf("frameDatagram returned error: %v", err)
	}
	if got[3] != 0x04 {
		t.Errorf("expected ATYP 0x04 for IPv6, got %#x", got[3])
	}
	if len(got) != 3+1+16+2+1 {
		t.Errorf("unexpected frame length %d", len(got))
	}
}
