// transport/proxy.go
package transport

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/mckinley/go-api-rest-client/logger"
	"go.uber.org/zap"
)

// ProxyConfig routes requests through an HTTP(S) proxy. Credentials are optional.
type ProxyConfig struct {
	URL      string
	Username string
	Password string
}

// configureProxy points transport at the configured proxy. An empty URL leaves the
// transport's environment-based proxy in place.
func configureProxy(transport *http.Transport, proxy ProxyConfig, log logger.Logger) error {
	if proxy.URL == "" {
		return nil
	}

	parsedProxyURL, err := url.Parse(proxy.URL)
	if err != nil {
		log.Error("Failed to parse proxy URL", zap.Error(err))
		return fmt.Errorf("invalid proxy URL: %w", err)
	}
	if parsedProxyURL.Scheme == "" || parsedProxyURL.Host == "" {
		log.Error("Proxy URL must be absolute", zap.String("ProxyURL", proxy.URL))
		return fmt.Errorf("invalid proxy URL %q: must be absolute", proxy.URL)
	}

	if proxy.Username != "" && proxy.Password != "" {
		parsedProxyURL.User = url.UserPassword(proxy.Username, proxy.Password)
	}
	transport.Proxy = http.ProxyURL(parsedProxyURL)

	log.Info("Proxy configured", zap.String("ProxyURL", parsedProxyURL.Redacted()))
	return nil
}
