package proxyuri

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// parseShadowsocks decodes ss://userinfo@server:port#remark where userinfo is
// method:password in one of four encodings, tried in order: plain,
// percent-encoded, base64-standard, base64-URL-safe.
func parseShadowsocks(s string) (*ProxyRecord, error) {
	rest := strings.TrimPrefix(s, "ss://")

	name := ""
	if h := strings.IndexByte(rest, '#'); h != -1 {
		if unescaped, err := url.QueryUnescape(rest[h+1:]); err == nil {
			name = unescaped
		} else {
			name = rest[h+1:]
		}
		rest = rest[:h]
	}

	at := strings.LastIndexByte(rest, '@')
	if at == -1 {
		return nil, wrapValidation("uri", s, "shadowsocks uri missing '@'")
	}
	userinfo, hostport := rest[:at], rest[at+1:]

	method, password, err := decodeShadowsocksUserinfo(userinfo)
	if err != nil {
		return nil, err
	}

	host, portStr, err := splitHostPort(hostport)
	if err != nil {
		return nil, wrapValidation("hostport", hostport, err.Error())
	}
	port, err := parsePort(portStr)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = host
	}

	return &ProxyRecord{
		Protocol: ProtocolShadowsocks,
		Shadowsocks: &Shadowsocks{
			Method:   method,
			Password: password,
			Server:   host,
			Port:     port,
			Name:     name,
		},
	}, nil
}

// decodeShadowsocksUserinfo tries each encoding in spec order and splits the
// decoded "method:password" on the first colon.
func decodeShadowsocksUserinfo(userinfo string) (method, password string, err error) {
	candidates := []string{userinfo}

	if unescaped, uerr := url.QueryUnescape(userinfo); uerr == nil && unescaped != userinfo {
		candidates = append(candidates, unescaped)
	}
	if decoded, derr := base64.StdEncoding.DecodeString(userinfo); derr == nil {
		candidates = append(candidates, string(decoded))
	}
	if decoded, derr := base64.URLEncoding.DecodeString(userinfo); derr == nil {
		candidates = append(candidates, string(decoded))
	}
	// Padding is frequently stripped from shadowsocks links; try raw variants too.
	if decoded, derr := base64.RawStdEncoding.DecodeString(userinfo); derr == nil {
		candidates = append(candidates, string(decoded))
	}
	if decoded, derr := base64.RawURLEncoding.DecodeString(userinfo); derr == nil {
		candidates = append(candidates, string(decoded))
	}

	for _, candidate := range candidates {
		if idx := strings.IndexByte(candidate, ':'); idx != -1 {
			return candidate[:idx], candidate[idx+1:], nil
		}
	}

	return "", "", wrapValidation("userinfo", userinfo, "could not decode method:password")
}

// splitHostPort splits "host:port", tolerating bracketed IPv6 literals.
func splitHostPort(hostport string) (host, port string, err error) {
	if strings.HasPrefix(hostport, "[") {
		end := strings.IndexByte(hostport, ']')
		if end == -1 {
			return "", "", errMalformedBracket
		}
		host = hostport[1:end]
		rest := hostport[end+1:]
		if !strings.HasPrefix(rest, ":") {
			return "", "", errMalformedBracket
		}
		return host, rest[1:], nil
	}

	idx := strings.LastIndexByte(hostport, ':')
	if idx == -1 {
		return "", "", errMissingPort
	}
	return hostport[:idx], hostport[idx+1:], nil
}
