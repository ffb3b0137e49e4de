package response

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// TestParseErrorBody checks message extraction for each supported error body format.
func TestParseErrorBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantDetail  string
	}{
		{
			name:        "json message",
			contentType: "application/json",
			body:        `{"message": "Internal Server Error", "details": ["Server crashed"]}`,
			wantDetail:  "Internal Server Error; Server crashed",
		},
		{
			name:        "json error string",
			contentType: "application/json; charset=utf-8",
			body:        `{"error": "Missing password"}`,
			wantDetail:  "Missing password",
		},
		{
			name:        "json nested error",
			contentType: "application/problem+json",
			body:        `{"error": {"code": "400", "message": "Bad Request"}}`,
			wantDetail:  "Bad Request",
		},
		{
			name:        "json error list",
			contentType: "application/json",
			body:        `{"errors": [{"code": "E1", "field": "name", "description": "required"}, {"code": "E2"}]}`,
			wantDetail:  "name: required; E2",
		},
		{
			name:        "malformed json falls back to raw",
			contentType: "application/json",
			body:        `{"message": `,
			wantDetail:  `{"message":`,
		},
		{
			name:        "xml",
			contentType: "application/xml",
			body:        `<error><code>404</code><message>No such record</message></error>`,
			wantDetail:  "404; No such record",
		},
		{
			name:        "html",
			contentType: "text/html; charset=utf-8",
			body:        `<html><head><title>502 Bad Gateway</title></head><body><p>Upstream failed, see <a href="https://status.example.com">status</a></p></body></html>`,
			wantDetail:  "502 Bad Gateway; Upstream failed, see [Link: https://status.example.com] status",
		},
		{
			name:        "plain text",
			contentType: "text/plain",
			body:        "  Service Unavailable \n",
			wantDetail:  "Service Unavailable",
		},
		{
			name:        "unknown content type",
			contentType: "",
			body:        "boom",
			wantDetail:  "boom",
		},
		{
			name:        "empty body",
			contentType: "application/json",
			body:        "",
			wantDetail:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseErrorBody(tt.contentType, []byte(tt.body))
			assert.Equal(t, tt.body, parsed.Raw)
			assert.Equal(t, tt.wantDetail, parsed.Detail())
		})
	}
}

func TestErrorBody_DetailIsTruncated(t *testing.T) {
	long := strings.Repeat("x", maxDetailLength+10)

	detail := ParseErrorBody("text/plain", []byte(long)).Detail()

	assert.Len(t, detail, maxDetailLength+3)
	assert.True(t, strings.HasSuffix(detail, "..."))
}

func TestErrorBody_DetailTruncatesOnRuneBoundary(t *testing.T) {
	long := "x" + strings.Repeat("é", maxDetailLength)

	detail := ParseErrorBody("text/plain", []byte(long)).Detail()

	assert.True(t, utf8.ValidString(detail))
	assert.True(t, strings.HasSuffix(detail, "..."))
	assert.LessOrEqual(t, len(detail), maxDetailLength+3)
	assert.Equal(t, "x"+strings.Repeat("é", (maxDetailLength-1)/2)+"...", detail)
}
