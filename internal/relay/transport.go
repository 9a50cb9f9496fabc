package relay

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultTimeout bounds a whole request including reading the body
	DefaultTimeout = 60 * time.Second

	// DefaultDialTimeout bounds connection setup and waiting for response headers
	DefaultDialTimeout = 30 * time.Second
)

// TransportOptions configures the session transport
type TransportOptions struct {
	// Timeout is the total request timeout (default 60s)
	Timeout time.Duration

	// DialTimeout is the connect and response-header timeout (default 30s)
	DialTimeout time.Duration

	// VerifyTLS enables certificate verification. Relays ship self-signed
	// certificates, so verification is off unless asked for.
	VerifyTLS bool
}

// DefaultTransportOptions returns the options used by NewClient
func DefaultTransportOptions() TransportOptions {
	return TransportOptions{
		Timeout:     DefaultTimeout,
		DialTimeout: DefaultDialTimeout,
	}
}

// NewHTTPClient builds an HTTP client that accepts self-signed relay
// certificates, keeps cookies across requests and applies timeouts.
func NewHTTPClient(opts TransportOptions) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}

	dialer := &net.Dialer{
		Timeout:   opts.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: !opts.VerifyTLS},
		TLSHandshakeTimeout:   opts.DialTimeout,
		ResponseHeaderTimeout: opts.DialTimeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   2,
	}

	return &http.Client{
		Transport: transport,
		Jar:       newCookieJar(),
		Timeout:   opts.Timeout,
	}
}

func newCookieJar() http.CookieJar {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		// The explicit Cookie header still carries the session without a jar.
		return nil
	}
	return jar
}
