// Package proxyuri decodes vless://, trojan://, and ss:// URIs into a typed
// ProxyRecord and provides best-effort parsing of newline-delimited lists.
package proxyuri

import "fmt"

// Protocol identifies which outbound a ProxyRecord describes.
type Protocol string

const (
	ProtocolVless       Protocol = "vless"
	ProtocolTrojan      Protocol = "trojan"
	ProtocolShadowsocks Protocol = "shadowsocks"
)

// Vless holds the fields of a parsed vless:// URI.
type Vless struct {
	ID            string
	Host          string
	Port          int
	Network       string // tcp, ws, grpc, h2, xhttp, httpupgrade
	Security      string // none, tls, reality
	SNI           string
	Flow          string
	PublicKey     string
	ShortID       string
	SpiderX       string
	Fingerprint   string
	Path          string
	HostHeader    string
	ServiceName   string
	ALPN          []string
	AllowInsecure bool
	// Settings holds query keys this record has no dedicated field for
	// (e.g. level, packetEncoding, xorMode, seconds, padding, reverse.tag).
	Settings map[string]string
}

// Trojan holds the fields of a parsed trojan:// URI.
type Trojan struct {
	Password      string
	Server        string
	Port          int
	Security      string
	Network       string
	SNI           string
	Fingerprint   string
	Path          string
	Host          string
	ServiceName   string
	ALPN          []string
	AllowInsecure bool
	Settings      map[string]string
}

// Shadowsocks holds the fields of a parsed ss:// URI.
type Shadowsocks struct {
	Method   string
	Password string
	Server   string
	Port     int
	Name     string
}

// ProxyRecord is a tagged union over the three supported proxy variants.
// Exactly one of Vless, Trojan, Shadowsocks is non-nil, selected by Protocol.
type ProxyRecord struct {
	Protocol    Protocol
	Vless       *Vless
	Trojan      *Trojan
	Shadowsocks *Shadowsocks
}

func (r *ProxyRecord) String() string {
	switch r.Protocol {
	case ProtocolVless:
		return fmt.Sprintf("vless %s:%d", r.Vless.Host, r.Vless.Port)
	case ProtocolTrojan:
		return fmt.Sprintf("trojan %s:%d", r.Trojan.Server, r.Trojan.Port)
	case ProtocolShadowsocks:
		return fmt.Sprintf("shadowsocks %s:%d", r.Shadowsocks.Server, r.Shadowsocks.Port)
	default:
		return "unknown"
	}
}

// Address returns the outbound server host and port regardless of variant.
func (r *ProxyRecord) Address() (host string, port int) {
	switch r.Protocol {
	case ProtocolVless:
		return r.Vless.Host, r.Vless.Port
	case ProtocolTrojan:
		return r.Trojan.Server, r.Trojan.Port
	case ProtocolShadowsocks:
		return r.Shadowsocks.Server, r.Shadowsocks.Port
	default:
		return "", 0
	}
}
