// response/parse.go
package response

import (
	"mime"
	"strings"
)

// ParseContentTypeHeader returns the lower cased media type of a Content-Type header and its
// parameters. A header with malformed parameters still yields its media type.
func ParseContentTypeHeader(header string) (string, map[string]string) {
	mediaType, params, err := mime.ParseMediaType(header)
	if err == nil {
		return mediaType, params
	}
	mediaType, _, _ = strings.Cut(header, ";")
	return strings.ToLower(strings.TrimSpace(mediaType)), map[string]string{}
}
