// Package xrayconfig renders a proxyuri.ProxyRecord into the JSON document
// consumed by the external proxy-client subprocess: a single no-auth,
// UDP-enabled SOCKS5 inbound on 127.0.0.1 paired with one outbound whose
// shape depends on the proxy protocol.
package xrayconfig

// Config is the root JSON document written to disk for the subprocess.
type Config struct {
	Inbounds  []Inbound  `json:"inbounds"`
	Outbounds []Outbound `json:"outbounds"`
}

// Inbound is the local SOCKS5 listener every instance exposes.
type Inbound struct {
	Port     int             `json:"port"`
	Listen   string          `json:"listen"`
	Protocol string          `json:"protocol"`
	Settings InboundSettings `json:"settings"`
}

// InboundSettings enables no-auth access with UDP relaying turned on, which
// C10's UDP-ASSOCIATE flow depends on.
type InboundSettings struct {
	Auth string `json:"auth"`
	UDP  bool   `json:"udp"`
	IP   string `json:"ip"`
}

// Outbound carries the protocol-specific settings plus, for VLESS/Trojan,
// the transport/TLS stream settings.
type Outbound struct {
	Protocol       string          `json:"protocol"`
	Settings       map[string]any  `json:"settings"`
	StreamSettings *StreamSettings `json:"streamSettings,omitempty"`
}

// StreamSettings mirrors Xray's transport + security document.
type StreamSettings struct {
	Network         string           `json:"network"`
	Security        string           `json:"security"`
	TLSSettings     *TLSSettings     `json:"tlsSettings,omitempty"`
	RealitySettings *RealitySettings `json:"realitySettings,omitempty"`
	WSSettings      *WSSettings      `json:"wsSettings,omitempty"`
	GRPCSettings    *GRPCSettings    `json:"grpcSettings,omitempty"`
}

// TLSSettings configures standard TLS for VLESS/Trojan outbounds.
type TLSSettings struct {
	AllowInsecure bool     `json:"allowInsecure"`
	ServerName    string   `json:"serverName,omitempty"`
	Fingerprint   string   `json:"fingerprint,omitempty"`
	ALPN          []string `json:"alpn,omitempty"`
}

// RealitySettings configures Xray's Reality transport. VLESS-only.
type RealitySettings struct {
	ServerName  string `json:"serverName,omitempty"`
	PublicKey   string `json:"publicKey"`
	ShortID     string `json:"shortId"`
	Fingerprint string `json:"fingerprint"`
	SpiderX     string `json:"spiderX,omitempty"`
}

// WSSettings configures a WebSocket transport.
type WSSettings struct {
	Path    string            `json:"path,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// GRPCSettings configures a gRPC transport.
type GRPCSettings struct {
	ServiceName string `json:"serviceName,omitempty"`
}

const defaultFingerprint = "chrome"
