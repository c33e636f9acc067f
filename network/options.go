package network

import (
	"crypto/tls"
	"crypto/x509"
	"log/slog"
	"net/http"
	"time"
)

type Option func(Client) Client

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c Client) Client {
		c.httpClient = hc
		return c
	}
}

// WithTimeout bounds every call. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c Client) Client {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
		return c
	}
}

// WithRootCAs trusts only the given pool when talking to an https server.
func WithRootCAs(certPool *x509.CertPool) Option {
	return func(c Client) Client {
		hc := *c.httpClient
		hc.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{RootCAs: certPool},
		}
		c.httpClient = &hc
		return c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c Client) Client {
		c.logger = logger
		return c
	}
}
