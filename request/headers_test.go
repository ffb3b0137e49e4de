// request/headers_test.go
package request

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/mocklogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestRedactSensitiveHeaderData(t *testing.T) {
	assert.Equal(t, "REDACTED", RedactSensitiveHeaderData(true, "Authorization", "Bearer abc"))
	assert.Equal(t, "REDACTED", RedactSensitiveHeaderData(true, "Accesstoken", "abc"))
	assert.Equal(t, "Bearer abc", RedactSensitiveHeaderData(false, "Authorization", "Bearer abc"))
	assert.Equal(t, "application/json", RedactSensitiveHeaderData(true, "Content-Type", "application/json"))
}

func TestHeadersToString(t *testing.T) {
	headers := http.Header{}
	headers.Add("X-B", "2")
	headers.Add("X-A", "1")
	headers.Add("X-A", "3")

	assert.Equal(t, "X-A: 1, 3\nX-B: 2", HeadersToString(headers))
}

func TestLogHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
	req.Header.Set("Authorization", "Bearer secret")

	mockLog := mocklogger.NewMockLogger()
	mockLog.SetLevel(logger.LogLevelDebug)
	mockLog.On("Debug", "HTTP Request Headers", []zap.Field{zap.String("Headers", "Authorization: REDACTED")}).Once()

	LogHeaders(mockLog, req, true)

	mockLog.AssertExpectations(t)
}

func TestLogHeaders_SkippedAboveDebug(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)

	mockLog := mocklogger.NewMockLogger()
	mockLog.SetLevel(logger.LogLevelInfo)

	LogHeaders(mockLog, req, true)

	mockLog.AssertNotCalled(t, "Debug", mock.Anything, mock.Anything)
}

func TestCheckDeprecationHeader(t *testing.T) {
	resp := &http.Response{
		Header:  http.Header{"Deprecation": []string{"Sun, 01 Jan 2023 00:00:00 GMT"}},
		Request: &http.Request{URL: &url.URL{Scheme: "https", Host: "reqres.in", Path: "/"}},
	}

	mockLog := mocklogger.NewMockLogger()
	mockLog.On("Warn", "API endpoint is deprecated", mock.Anything).Once()

	CheckDeprecationHeader(resp, mockLog)
	mockLog.AssertExpectations(t)

	quiet := mocklogger.NewMockLogger()
	CheckDeprecationHeader(&http.Response{Header: http.Header{}}, quiet)
	quiet.AssertNotCalled(t, "Warn", mock.Anything, mock.Anything)
}
