package proxyuri

import (
	"net/url"
	"strings"
)

// parseTrojan decodes trojan://password@server:port?params#remark.
func parseTrojan(s string) (*ProxyRecord, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, wrapValidation("uri", s, "malformed trojan uri: "+err.Error())
	}

	password := u.User.Username()
	if password == "" {
		return nil, wrapValidation("password", "", "trojan password is required")
	}

	server := u.Hostname()
	if server == "" {
		return nil, wrapValidation("server", "", "trojan server is required")
	}

	port, err := parsePort(u.Port())
	if err != nil {
		return nil, err
	}

	q := u.Query()

	t := &Trojan{
		Password:    password,
		Server:      server,
		Port:        port,
		Security:    q.Get("security"),
		Network:     q.Get("type"),
		SNI:         q.Get("sni"),
		Fingerprint: q.Get("fp"),
		Path:        q.Get("path"),
		Host:        q.Get("host"),
		ServiceName: q.Get("serviceName"),
	}

	if t.Network == "" {
		t.Network = "tcp"
	}
	if alpn := q.Get("alpn"); alpn != "" {
		t.ALPN = strings.Split(alpn, ",")
	}
	if ai := q.Get("allowInsecure"); ai == "1" || strings.EqualFold(ai, "true") {
		t.AllowInsecure = true
	}

	return &ProxyRecord{Protocol: ProtocolTrojan, Trojan: t}, nil
}
