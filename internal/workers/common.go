package workers

import (
	"crypto/tls"
	"time"
)

// pastDeadline reports whether deadline has passed. The zero Value means
// "no deadline" (run indefinitely), per spec section 8's boundary case.
func pastDeadline(deadline time.Time) bool {
	return !deadline.IsZero() && !time.Now().Before(deadline)
}

// insecureTLSConfig skips certificate verification. HTTPS download targets
// are reached over TLS sessions that run end to end through the SOCKS5
// tunnel, and their certificates are accepted without validation.
func insecureTLSConfig() *tls.Config {
	return &tls.Config{InsecureSkipVerify: true}
}
