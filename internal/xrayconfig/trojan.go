package xrayconfig

import "herscat/internal/proxyuri"

func buildTrojanOutbound(t *proxyuri.Trojan) (*Outbound, error) {
	outbound := &Outbound{
		Protocol: "trojan",
		Settings: map[string]any{
			"servers": []map[string]any{
				{
					"address":  t.Server,
					"port":     t.Port,
					"password": t.Password,
				},
			},
		},
	}

	security := t.Security
	if security == "" {
		security = "tls"
	}

	stream, err := buildStreamSettings(t.Network, security, streamParams{
		sni:           t.SNI,
		fingerprint:   t.Fingerprint,
		allowInsecure: t.AllowInsecure,
		alpn:          t.ALPN,
		path:          t.Path,
		hostHeader:    t.Host,
		serviceName:   t.ServiceName,
		host:          t.Server,
		isVless:       false,
	})
	if err != nil {
		return nil, err
	}
	outbound.StreamSettings = stream

	return outbound, nil
}
