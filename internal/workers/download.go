// Package workers implements the three traffic engines — HTTP download, TCP
// flood, UDP flood — that a stress run drives through a local SOCKS5
// endpoint. Each constructor closes over its endpoint and targets and
// returns a stress.WorkerFunc that loops until its deadline.
package workers

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"

	"herscat/internal/stats"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15",
	"Mozilla/5.0 (Android 14; Mobile) AppleWebKit/537.36",
}

const (
	downloadDialTimeout    = 10 * time.Second
	downloadRequestTimeout = 600 * time.Second
)

// NewDownloadWorker builds a worker that repeatedly GETs a random URL from
// urls through the SOCKS5 endpoint at 127.0.0.1:proxyPort, draining the body
// as a chunked stream so bytesTransferred reflects what actually crossed the
// wire rather than the advertised Content-Length.
func NewDownloadWorker(proxyPort int, urls []string, counters *stats.Counters) func(deadline time.Time) {
	client := newSocksHTTPClient(proxyPort)

	requests := make([]*http.Request, 0, len(urls))
	for _, u := range urls {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			continue
		}
		requests = append(requests, req)
	}

	return func(deadline time.Time) {
		if len(requests) == 0 {
			return
		}
		for !pastDeadline(deadline) {
			req := requests[rand.IntN(len(requests))].Clone(context.Background())
			req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])

			runDownloadOnce(client, req, counters)
			time.Sleep(time.Duration(rand.IntN(10)) * time.Millisecond)
		}
	}
}

func runDownloadOnce(client *http.Client, req *http.Request, counters *stats.Counters) {
	resp, err := client.Do(req)
	if err != nil {
		counters.RecordFailure()
		return
	}
	defer resp.Body.Close()

	counters.RecordSuccess()

	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			counters.RecordBytes(uint64(n))
		}
		if err != nil {
			if err != io.EOF {
				counters.RecordFailure()
			}
			return
		}
	}
}

// newSocksHTTPClient builds an http.Client that tunnels every connection
// through the local SOCKS5 endpoint, with certificate verification of the
// HTTPS targets disabled.
func newSocksHTTPClient(proxyPort int) *http.Client {
	dialer, _ := proxy.SOCKS5("tcp", fmt.Sprintf("127.0.0.1:%d", proxyPort), nil, &net.Dialer{Timeout: downloadDialTimeout, KeepAlive: 60 * time.Second})

	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
		TLSClientConfig:     insecureTLSConfig(),
		IdleConnTimeout:     60 * time.Second,
		MaxIdleConnsPerHost: 8,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   downloadRequestTimeout,
	}
}

