package xrayconfig

import "herscat/internal/proxyuri"

func buildShadowsocksOutbound(s *proxyuri.Shadowsocks) (*Outbound, error) {
	return &Outbound{
		Protocol: "shadowsocks",
		Settings: map[string]any{
			"servers": []map[string]any{
				{
					"address":  s.Server,
					"port":     s.Port,
					"method":   s.Method,
					"password": s.Password,
				},
			},
		},
	}, nil
}
