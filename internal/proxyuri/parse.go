package proxyuri

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"
)

// ParseURL decodes a single vless://, trojan://, or ss:// URI into a
// ProxyRecord, dispatching on scheme.
func ParseURL(s string) (*ProxyRecord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, wrapValidation("uri", s, "empty input")
	}

	idx := strings.Index(s, "://")
	if idx == -1 {
		return nil, wrapValidation("uri", s, "missing scheme")
	}

	switch strings.ToLower(s[:idx]) {
	case "vless":
		return parseVless(s)
	case "trojan":
		return parseTrojan(s)
	case "ss":
		return parseShadowsocks(s)
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedProtocol, s[:idx])
	}
}

// ParseList parses newline-delimited URIs, skipping blank lines and
// #-prefixed comments. Per-line failures are logged at warning level and
// otherwise ignored; ParseList only fails when no line survives.
func ParseList(text string) ([]*ProxyRecord, error) {
	var records []*ProxyRecord

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		record, err := ParseURL(line)
		if err != nil {
			slog.Warn("skipping unparsable proxy URI", "line", lineNo, "error", err)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, wrapValidation("list", "", "no valid proxy records in list")
	}
	return records, nil
}
