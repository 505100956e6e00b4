package xrayconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"herscat/internal/proxyuri"
	herrors "herscat/pkg/errors"
)

// scratchSuffix names the scoped scratch directory created under the OS temp
// area, matching spec section 6's documented config path.
const scratchSuffix = "herscat_configs"

// Generator owns a scratch directory holding one config file per spawned
// instance. The directory is created lazily and idempotently on first use,
// and released by CleanupAll on every exit path the caller drives.
type Generator struct {
	mu   sync.Mutex
	dir  string
	once bool
}

// New creates a Generator. The scratch directory is not created until the
// first call to Generate.
func New() *Generator {
	return &Generator{}
}

// scratchDir returns the generator's scratch directory, creating it on first
// use.
func (g *Generator) scratchDir() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.once {
		return g.dir, nil
	}

	dir := filepath.Join(os.TempDir(), scratchSuffix)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("%w: create scratch dir: %v", herrors.ErrResourceUnavailable, err)
	}

	g.dir = dir
	g.once = true
	return dir, nil
}

// Generate renders record into the JSON document consumed by the proxy
// subprocess, writes it to <scratch>/config_<port>.json, and returns the
// path. Writes are best-effort atomic: content is written to a temp sibling
// file then renamed into place.
func (g *Generator) Generate(record *proxyuri.ProxyRecord, port int) (string, error) {
	cfg, err := buildConfig(record, port)
	if err != nil {
		return "", err
	}

	payload, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal xray config: %w", err)
	}

	dir, err := g.scratchDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("config_%d.json", port))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return "", fmt.Errorf("write xray config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize xray config: %w", err)
	}

	return path, nil
}

// CleanupAll removes the entire scratch directory and its contents. Safe to
// call even if Generate was never invoked.
func (g *Generator) CleanupAll() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.once {
		return
	}
	_ = os.RemoveAll(g.dir)
	g.once = false
}

func buildConfig(record *proxyuri.ProxyRecord, port int) (*Config, error) {
	outbound, err := buildOutbound(record)
	if err != nil {
		return nil, err
	}

	return &Config{
		Inbounds: []Inbound{{
			Port:     port,
			Listen:   "127.0.0.1",
			Protocol: "socks",
			Settings: InboundSettings{
				Auth: "noauth",
				UDP:  true,
				IP:   "127.0.0.1",
			},
		}},
		Outbounds: []Outbound{*outbound},
	}, nil
}

func buildOutbound(record *proxyuri.ProxyRecord) (*Outbound, error) {
	switch record.Protocol {
	case proxyuri.ProtocolVless:
		return buildVlessOutbound(record.Vless)
	case proxyuri.ProtocolTrojan:
		return buildTrojanOutbound(record.Trojan)
	case proxyuri.ProtocolShadowsocks:
		return buildShadowsocksOutbound(record.Shadowsocks)
	default:
		return nil, fmt.Errorf("%w: %s", herrors.ErrUnsupportedProtocol, record.Protocol)
	}
}
