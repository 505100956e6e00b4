package targets

import (
	"net/url"
	"strconv"
	"strings"

	herrors "herscat/pkg/errors"
)

// defaultDownloadTargets is the built-in, deterministic list of well-known
// public speed-test endpoints used when download mode gets no --targets.
var defaultDownloadTargets = []string{
	"https://speed.cloudflare.com/__down?bytes=104857600",
	"https://proof.ovh.net/files/100Mb.dat",
	"http://ipv4.download.thinkbroadband.com/100MB.zip",
	"https://speedtest.tele2.net/100MB.zip",
}

// Resolve splits raw on commas and parses each token per mode. With raw
// empty, download mode falls back to the built-in target list and flood
// modes fail with ErrMissingTargets.
func Resolve(mode Mode, raw string) ([]Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if mode.IsFlood() {
			return nil, herrors.ErrMissingTargets
		}
		return parseAll(mode, defaultDownloadTargets)
	}

	var tokens []string
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		if mode.IsFlood() {
			return nil, herrors.ErrMissingTargets
		}
		return parseAll(mode, defaultDownloadTargets)
	}

	return parseAll(mode, tokens)
}

func parseAll(mode Mode, tokens []string) ([]Target, error) {
	out := make([]Target, 0, len(tokens))
	for _, tok := range tokens {
		var (
			t   Target
			err error
		)
		if mode == ModeDownload {
			t, err = parseHTTP(tok)
		} else {
			t, err = parseSocket(tok)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseHTTP(tok string) (Target, error) {
	u, err := url.Parse(tok)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Target{}, herrors.NewValidationError("target", tok, "not a valid absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Target{}, herrors.NewValidationError("target", tok, "scheme must be http or https")
	}
	return Target{Kind: KindHTTP, URL: tok}, nil
}

func parseSocket(tok string) (Target, error) {
	host, portStr, err := splitHostPort(tok)
	if err != nil {
		return Target{}, herrors.NewValidationError("target", tok, err.Error())
	}
	if host == "" {
		return Target{}, herrors.NewValidationError("target", tok, "host is required")
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Target{}, herrors.NewValidationError("target", tok, "port must be 1-65535")
	}
	return Target{Kind: KindSocket, Host: host, Port: port}, nil
}

// splitHostPort accepts "host:port" and bracketed IPv6 "[addr]:port".
func splitHostPort(tok string) (host, port string, err error) {
	if strings.HasPrefix(tok, "[") {
		end := strings.IndexByte(tok, ']')
		if end == -1 {
			return "", "", errMalformedBracket
		}
		rest := tok[end+1:]
		if !strings.HasPrefix(rest, ":") {
			return "", "", errMalformedBracket
		}
		return tok[1:end], rest[1:], nil
	}

	idx := strings.LastIndexByte(tok, ':')
	if idx == -1 {
		return "", "", errMissingPort
	}
	return tok[:idx], tok[idx+1:], nil
}
