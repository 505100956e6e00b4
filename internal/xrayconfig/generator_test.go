package xrayconfig

import (
	"encoding/json"
	"os"
	"testing"

	"herscat/internal/proxyuri"
)

func realityRecord() *proxyuri.ProxyRecord {
	return &proxyuri.ProxyRecord{
		Protocol: proxyuri.ProtocolVless,
		Vless: &proxyuri.Vless{
			ID:          "uuid",
			Host:        "server.domain.com",
			Port:        443,
			Network:     "tcp",
			Security:    "reality",
			SNI:         "server.domain.com",
			Flow:        "xtls-rprx-vision",
			PublicKey:   "public_key",
			ShortID:     "123",
			SpiderX:     "/",
			Fingerprint: "chrome",
		},
	}
}

func TestGenerateRealityVlessHasNonEmptyRealitySettings(t *testing.T) {
	gen := New()
	defer gen.CleanupAll()

	path, err := gen.Generate(realityRecord(), 19999)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading generated config: %v", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshalling generated config: %v", err)
	}

	if len(cfg.Outbounds) != 1 {
		t.Fatalf("expected exactly 1 outbound, got %d", len(cfg.Outbounds))
	}
	stream := cfg.Outbounds[0].StreamSettings
	if stream == nil || stream.RealitySettings == nil {
		t.Fatal("expected realitySettings to be present")
	}
	if stream.RealitySettings.PublicKey == "" {
		t.Error("expected non-empty publicKey")
	}
	if stream.RealitySettings.ShortID == "" {
		t.Error("expected non-empty shortId")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	gen := New()
	defer gen.CleanupAll()

	record := realityRecord()

	path1, err := gen.Generate(record, 19998)
	if err != nil {
		t.Fatalf("first Generate returned error: %v", err)
	}
	data1, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("reading first config: %v", err)
	}

	path2, err := gen.Generate(record, 19998)
	if err != nil {
		t.Fatalf("second Generate returned error: %v", err)
	}
	data2, err := os.ReadFile(path2)
	if err != nil {
		t.Fatalf("reading second config: %v", err)
	}

	var a, b map[string]any
	if err := json.Unmarshal(data1, &a); err != nil {
		t.Fatalf("unmarshal first: %v", err)
	}
	if err := json.Unmarshal(data2, &b); err != nil {
		t.Fatalf("unmarshal second: %v", err)
	}

	reA, _ := json.Marshal(a)
	reB, _ := json.Marshal(b)
	if string(reA) != string(reB) {
		t.Error("expected byte-identical output modulo key order for identical input")
	}
}

func TestGenerateRejectsRealityWithoutTrojanSupport(t *testing.T) {
	gen := New()
	defer gen.CleanupAll()

	record := &proxyuri.ProxyRecord{
		Protocol: proxyuri.ProtocolTrojan,
		Trojan: &proxyuri.Trojan{
			Password: "secret",
			Server:   "h",
			Port:     443,
			Security: "reality",
		},
	}

	if _, err := gen.Generate(record, 19997); err == nil {
		t.Fatal("expected error for reality security on a trojan record")
	}
}

func TestCleanupAllRemovesScratchDir(t *testing.T) {
	gen := New()

	path, err := gen.Generate(realityRecord(), 19996)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	gen.CleanupAll()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected config file to be removed after CleanupAll")
	}
}
