package crawl

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"time"
)

const (
	DefaultDialTimeout = 10 * time.Second
)

var logger = log.New(os.Stderr, "", 0)

// NewTransport returns a transport that dials only over protocol ("tcp", "tcp4" or "tcp6").
func NewTransport(protocol string, dialTimeout time.Duration) *http.Transport {
	// cf. https://go.googlesource.com/go/+/refs/tags/go1.22.1/src/net/http/transport.go#43
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, _, addr string) (net.Conn, error) {
			return (&net.Dialer{
				Timeout:   dialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext(ctx, protocol, addr)
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// NewFetcher returns a Fetcher whose client dials only over protocol.
func NewFetcher(protocol string) *Fetcher {
	return &Fetcher{
		Client: &http.Client{Transport: NewTransport(protocol, DefaultDialTimeout)},
	}
}
