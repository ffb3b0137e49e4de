// transport/cookies.go
package transport

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/mckinley/go-api-rest-client/logger"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

// sensitiveCookieNames are redacted when cookies are logged. Keys are lower case.
var sensitiveCookieNames = map[string]bool{
	"sessionid": true,
	"session":   true,
	"token":     true,
}

// SetupCookieJar gives client a cookie jar scoped by the public suffix list when enabled.
func SetupCookieJar(client *http.Client, enableCookieJar bool, log logger.Logger) error {
	if !enableCookieJar {
		return nil
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		log.Error("Failed to create cookie jar", zap.Error(err))
		return fmt.Errorf("setupCookieJar failed: %w", err)
	}
	client.Jar = jar
	log.Debug("Cookie jar enabled")
	return nil
}

// RedactSensitiveCookies returns copies of cookies with sensitive values redacted.
func RedactSensitiveCookies(cookies []*http.Cookie) []*http.Cookie {
	redacted := make([]*http.Cookie, 0, len(cookies))
	for _, cookie := range cookies {
		copied := *cookie
		if sensitiveCookieNames[strings.ToLower(cookie.Name)] {
			copied.Value = logger.RedactedValue
		}
		redacted = append(redacted, &copied)
	}
	return redacted
}

// logResponseCookies logs Set-Cookie headers of resp at debug level.
func logResponseCookies(log logger.Logger, resp *http.Response) {
	if log.GetLogLevel() > logger.LogLevelDebug {
		return
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return
	}

	names := make([]string, 0, len(cookies))
	for _, cookie := range RedactSensitiveCookies(cookies) {
		names = append(names, cookie.Name+"="+cookie.Value)
	}
	log.Debug("Response cookies", zap.Strings("cookies", names))
}
