// request/headers.go
package request

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/mckinley/go-api-rest-client/logger"
	"go.uber.org/zap"
)

// sensitiveHeaders are redacted from logs when sensitive data is hidden. Keys are lower case.
var sensitiveHeaders = map[string]bool{
	"accesstoken":   true,
	"authorization": true,
	"cookie":        true,
}

// RedactSensitiveHeaderData redacts sensitive data based on the hideSensitiveData flag.
func RedactSensitiveHeaderData(hideSensitiveData bool, key, value string) string {
	if hideSensitiveData && sensitiveHeaders[strings.ToLower(key)] {
		return logger.RedactedValue
	}
	return value
}

// HeadersToString converts a http.Header to a string for logging, one header per line in
// name order.
func HeadersToString(headers http.Header) string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	headerStrings := make([]string, 0, len(names))
	for _, name := range names {
		headerStrings = append(headerStrings, fmt.Sprintf("%s: %s", name, strings.Join(headers[name], ", ")))
	}
	return strings.Join(headerStrings, "\n")
}

// LogHeaders logs the request headers at debug level, redacting sensitive values when
// hideSensitiveData is set.
func LogHeaders(log logger.Logger, req *http.Request, hideSensitiveData bool) {
	if log.GetLogLevel() > logger.LogLevelDebug {
		return
	}

	redactedHeaders := http.Header{}
	for name, values := range req.Header {
		for _, value := range values {
			redactedHeaders.Add(name, RedactSensitiveHeaderData(hideSensitiveData, name, value))
		}
	}

	log.Debug("HTTP Request Headers", zap.String("Headers", HeadersToString(redactedHeaders)))
}

// CheckDeprecationHeader checks the response headers for the Deprecation header and logs a warning if present.
func CheckDeprecationHeader(resp *http.Response, log logger.Logger) {
	deprecationHeader := resp.Header.Get("Deprecation")
	if deprecationHeader == "" {
		return
	}

	endpoint := ""
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.URL.String()
	}
	log.Warn("API endpoint is deprecated",
		zap.String("Date", deprecationHeader),
		zap.String("Endpoint", endpoint),
	)
}
