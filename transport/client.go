// transport/client.go
package transport

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/pinning"
	"github.com/mckinley/go-api-rest-client/redirecthandler"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request, connection through body.
const DefaultTimeout = 60 * time.Second

// ClientOptions configures the *http.Client built by NewHTTPClient.
type ClientOptions struct {
	Timeout         time.Duration
	Verifier        *pinning.Verifier // nil means standard TLS verification only
	TLSConfig       *tls.Config       // base TLS settings, e.g. RootCAs
	EnableCookieJar bool
	FollowRedirects bool
	MaxRedirects    int
	Proxy           ProxyConfig
}

// NewHTTPClient builds the shared *http.Client: timeout, pinned TLS, cookie jar, proxy and
// redirect policy.
func NewHTTPClient(opts ClientOptions, log logger.Logger) (*http.Client, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig(opts)

	if err := configureProxy(transport, opts.Proxy, log); err != nil {
		return nil, err
	}

	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}

	if err := SetupCookieJar(client, opts.EnableCookieJar, log); err != nil {
		return nil, err
	}
	if err := redirecthandler.SetupRedirectHandler(client, opts.FollowRedirects, opts.MaxRedirects, log); err != nil {
		return nil, err
	}

	log.Debug("HTTP client built",
		zap.Duration("timeout", opts.Timeout),
		zap.Bool("certificate_pinning", opts.Verifier != nil),
		zap.Bool("cookie_jar", opts.EnableCookieJar),
		zap.Bool("follow_redirects", opts.FollowRedirects),
	)
	return client, nil
}

func tlsConfig(opts ClientOptions) *tls.Config {
	if opts.Verifier != nil {
		return opts.Verifier.TLSConfig(opts.TLSConfig)
	}
	if opts.TLSConfig != nil {
		return opts.TLSConfig.Clone()
	}
	return &tls.Config{MinVersion: tls.VersionTLS12}
}
