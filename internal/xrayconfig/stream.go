package xrayconfig

// streamParams collects the fields needed to build streamSettings across
// both VLESS and Trojan outbounds; most are optional and simply omitted
// when empty.
type streamParams struct {
	sni           string
	fingerprint   string
	allowInsecure bool
	alpn          []string
	publicKey     string
	shortID       string
	spiderX       string
	path          string
	hostHeader    string
	serviceName   string
	host          string
	isVless       bool
}

// buildStreamSettings emits the network + security document shared by
// VLESS and Trojan outbounds. Reality is rejected for non-VLESS protocols.
func buildStreamSettings(network, security string, p streamParams) (*StreamSettings, error) {
	if security == "reality" && !p.isVless {
		return nil, errRealityRequiresVless
	}

	ss := &StreamSettings{
		Network:  network,
		Security: security,
	}

	switch security {
	case "tls":
		serverName := p.sni
		if serverName == "" {
			serverName = p.host
		}
		fingerprint := p.fingerprint
		if fingerprint == "" {
			fingerprint = defaultFingerprint
		}
		ss.TLSSettings = &TLSSettings{
			AllowInsecure: p.allowInsecure,
			ServerName:    serverName,
			Fingerprint:   fingerprint,
			ALPN:          p.alpn,
		}
	case "reality":
		fingerprint := p.fingerprint
		if fingerprint == "" {
			fingerprint = defaultFingerprint
		}
		ss.RealitySettings = &RealitySettings{
			ServerName:  p.sni,
			PublicKey:   p.publicKey,
			ShortID:     p.shortID,
			Fingerprint: fingerprint,
			SpiderX:     p.spiderX,
		}
	}

	switch network {
	case "ws":
		ws := &WSSettings{Path: p.path}
		if p.hostHeader != "" {
			ws.Headers = map[string]string{"Host": p.hostHeader}
		}
		ss.WSSettings = ws
	case "grpc":
		if p.serviceName != "" {
			ss.GRPCSettings = &GRPCSettings{ServiceName: p.serviceName}
		}
	}

	return ss, nil
}
