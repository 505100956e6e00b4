package xrayconfig

import (
	"fmt"

	"herscat/internal/proxyuri"
	herrors "herscat/pkg/errors"
)

func buildVlessOutbound(v *proxyuri.Vless) (*Outbound, error) {
	if v.Security == "reality" && (v.PublicKey == "" || v.ShortID == "") {
		return nil, fmt.Errorf("%w: reality requires public_key and short_id", herrors.ErrProtocolInvariant)
	}

	user := map[string]any{
		"id":         v.ID,
		"encryption": "none",
	}
	if v.Flow != "" {
		user["flow"] = v.Flow
	}
	for _, key := range []string{"level", "packetEncoding", "xorMode", "seconds", "padding"} {
		if val, ok := v.Settings[key]; ok && val != "" {
			user[key] = val
		}
	}
	if tag, ok := v.Settings["reverse.tag"]; ok && tag != "" {
		user["reverse"] = map[string]any{"tag": tag}
	}

	outbound := &Outbound{
		Protocol: "vless",
		Settings: map[string]any{
			"vnext": []map[string]any{
				{
					"address": v.Host,
					"port":    v.Port,
					"users":   []map[string]any{user},
				},
			},
		},
	}

	stream, err := buildStreamSettings(v.Network, v.Security, streamParams{
		sni:           v.SNI,
		fingerprint:   v.Fingerprint,
		allowInsecure: v.AllowInsecure,
		alpn:          v.ALPN,
		publicKey:     v.PublicKey,
		shortID:       v.ShortID,
		spiderX:       v.SpiderX,
		path:          v.Path,
		hostHeader:    v.HostHeader,
		serviceName:   v.ServiceName,
		host:          v.Host,
		isVless:       true,
	})
	if err != nil {
		return nil, err
	}
	outbound.StreamSettings = stream

	return outbound, nil
}
