package proxyuri

import (
	"net/url"
	"strconv"
	"strings"
)

var validVlessNetworks = map[string]bool{
	"tcp": true, "ws": true, "grpc": true, "h2": true, "xhttp": true, "httpupgrade": true,
}

var validVlessSecurity = map[string]bool{
	"none": true, "tls": true, "reality": true,
}

// vlessFieldKeys are the query keys that map to a dedicated Vless field;
// every other non-empty key is kept in Vless.Settings.
var vlessFieldKeys = map[string]bool{
	"type": true, "security": true, "sni": true, "flow": true, "pbk": true, "sid": true, "spx": true,
	"fp": true, "path": true, "serviceName": true, "host": true, "alpn": true, "allowInsecure": true,
}

// parseVless decodes vless://uuid@host:port?params#remark.
func parseVless(s string) (*ProxyRecord, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, wrapValidation("uri", s, "malformed vless uri: "+err.Error())
	}

	id := u.User.Username()
	if id == "" {
		return nil, wrapValidation("id", "", "vless id is required")
	}

	host := u.Hostname()
	if host == "" {
		return nil, wrapValidation("host", "", "vless host is required")
	}

	port, err := parsePort(u.Port())
	if err != nil {
		return nil, err
	}

	q := u.Query()

	network := q.Get("type")
	if network == "" {
		network = "tcp"
	}
	if !validVlessNetworks[network] {
		return nil, validationf("network", network, "unrecognized vless network %q", network)
	}

	security := q.Get("security")
	if security == "" {
		security = "none"
	}
	if !validVlessSecurity[security] {
		return nil, validationf("security", security, "unrecognized vless security %q", security)
	}

	v := &Vless{
		ID:          id,
		Host:        host,
		Port:        port,
		Network:     network,
		Security:    security,
		SNI:         q.Get("sni"),
		Flow:        q.Get("flow"),
		PublicKey:   q.Get("pbk"),
		ShortID:     q.Get("sid"),
		SpiderX:     q.Get("spx"),
		Fingerprint: q.Get("fp"),
		Path:        q.Get("path"),
		ServiceName: q.Get("serviceName"),
	}

	if host := q.Get("host"); host != "" {
		v.HostHeader = host
	}
	if alpn := q.Get("alpn"); alpn != "" {
		v.ALPN = strings.Split(alpn, ",")
	}
	if ai := q.Get("allowInsecure"); ai == "1" || strings.EqualFold(ai, "true") {
		v.AllowInsecure = true
	}

	for key := range q {
		if vlessFieldKeys[key] {
			continue
		}
		if val := q.Get(key); val != "" {
			if v.Settings == nil {
				v.Settings = make(map[string]string)
			}
			v.Settings[key] = val
		}
	}

	if security == "reality" && (v.PublicKey == "" || v.ShortID == "") {
		return nil, wrapValidation("security", "reality", "reality requires both pbk and sid")
	}

	return &ProxyRecord{Protocol: ProtocolVless, Vless: v}, nil
}

// parsePort validates the 1 < port <= 65535 invariant shared by all variants.
func parsePort(raw string) (int, error) {
	if raw == "" {
		return 0, wrapValidation("port", raw, "port is required")
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validationf("port", raw, "invalid port: %v", err)
	}
	if port <= 1 || port > 65535 {
		return 0, validationf("port", raw, "port out of range (1, 65535]")
	}
	return port, nil
}
