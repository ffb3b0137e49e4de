package request

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"testing"

	"github.com/mckinley/go-api-rest-client/apierror"
	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/mocklogger"
	"github.com/mckinley/go-api-rest-client/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func readBody(t *testing.T, req *http.Request) string {
	t.Helper()
	if req.Body == nil {
		return ""
	}
	data, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	return string(data)
}

func TestBuild_LoginPost(t *testing.T) {
	b := NewBuilder(logger.NewNopLogger(), Options{})

	req, err := b.Build(context.Background(), Spec{
		URL:     "https://reqres.in/",
		Method:  "post",
		Headers: map[string]string{"server": "cloudflare-nginx"},
		Params:  map[string]any{"user1": "pass1"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "https://reqres.in/", req.URL.String())
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "cloudflare-nginx", req.Header.Get("Server"))
	assert.Equal(t, version.GetUserAgentHeader(), req.Header.Get("User-Agent"))
	assert.JSONEq(t, `{"user1":"pass1"}`, readBody(t, req))
}

func TestBuild_EmptyMethodDefaultsToPost(t *testing.T) {
	req, err := NewBuilder(nil, Options{}).Build(context.Background(), Spec{URL: "https://reqres.in/"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Nil(t, req.Body)
	assert.Empty(t, req.Header.Get("Content-Type"))
}

func TestBuild_NonEmptyParamsOnly(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req, err := NewBuilder(nil, Options{}).Build(context.Background(), Spec{
				URL:    "https://api.example.com/items/1",
				Method: method,
				Params: map[string]any{},
			})
			require.NoError(t, err)
			assert.Equal(t, method, req.Method)
			assert.Equal(t, "", readBody(t, req))
			assert.Empty(t, req.Header.Get("Content-Type"))
		})
	}
}

func TestBuild_JSONBodyTypes(t *testing.T) {
	req, err := NewBuilder(nil, Options{}).Build(context.Background(), Spec{
		URL:    "https://api.example.com/items",
		Method: http.MethodPut,
		Params: map[string]any{"count": 3, "tags": []string{"a", "b"}, "active": true},
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(readBody(t, req)), &decoded))
	assert.EqualValues(t, 3, decoded["count"])
	assert.Equal(t, []any{"a", "b"}, decoded["tags"])
	assert.Equal(t, true, decoded["active"])
}

func TestBuild_GetQueryRoundTrip(t *testing.T) {
	params := map[string]string{
		"plain":      "value",
		"spaced key": "a value with spaces",
		"delims":     "a&b=c?d#e/f+g",
		"unicode":    "héllo wörld",
		"empty":      "",
		"reserved":   ":@!$'()*,;[]",
	}
	anyParams := make(map[string]any, len(params))
	for k, v := range params {
		anyParams[k] = v
	}

	req, err := NewBuilder(nil, Options{}).Build(context.Background(), Spec{
		URL:    "https://api.example.com/search",
		Method: http.MethodGet,
		Params: anyParams,
	})
	require.NoError(t, err)

	assert.Nil(t, req.Body)
	decoded, err := DecodeQuery(req.URL.RawQuery)
	require.NoError(t, err)
	assert.Equal(t, params, decoded)
}

func TestBuild_GetKeepsExistingQuery(t *testing.T) {
	req, err := NewBuilder(nil, Options{}).Build(context.Background(), Spec{
		URL:    "https://api.example.com/search?page=2",
		Method: http.MethodGet,
		Params: map[string]any{"q": "go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "page=2&q=go", req.URL.RawQuery)
}

func TestBuild_GetNonStringParams(t *testing.T) {
	spec := Spec{
		URL:    "https://api.example.com/search",
		Method: http.MethodGet,
		Params: map[string]any{"page": 2},
	}

	t.Run("legacy drops query", func(t *testing.T) {
		mockLog := mocklogger.NewMockLogger()
		mockLog.SetLevel(logger.LogLevelInfo)
		mockLog.On("Warn", "Dropping query parameters", mock.Anything).Once()
		mockLog.On("Debug", mock.Anything, mock.Anything)

		req, err := NewBuilder(mockLog, Options{}).Build(context.Background(), spec)
		require.NoError(t, err)
		assert.Empty(t, req.URL.RawQuery)
		mockLog.AssertExpectations(t)
	})

	t.Run("strict fails", func(t *testing.T) {
		_, err := NewBuilder(nil, Options{Strict: true}).Build(context.Background(), spec)
		assert.ErrorIs(t, err, apierror.ErrRequestEncoding)
	})
}

func TestBuild_UnencodableBody(t *testing.T) {
	spec := Spec{
		URL:    "https://api.example.com/items",
		Method: http.MethodPost,
		Params: map[string]any{"ratio": math.NaN()},
	}

	req, err := NewBuilder(nil, Options{}).Build(context.Background(), spec)
	require.NoError(t, err)
	assert.Nil(t, req.Body)

	_, err = NewBuilder(nil, Options{Strict: true}).Build(context.Background(), spec)
	assert.ErrorIs(t, err, apierror.ErrRequestEncoding)
}

func TestBuild_InvalidEndpoint(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"unsupported method", Spec{URL: "https://reqres.in/", Method: "PATCH"}},
		{"relative url", Spec{URL: "/api/login", Method: http.MethodPost}},
		{"bad scheme", Spec{URL: "ftp://reqres.in/", Method: http.MethodGet}},
		{"unparseable", Spec{URL: "https://[::1", Method: http.MethodGet}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(nil, Options{}).Build(context.Background(), tt.spec)
			assert.ErrorIs(t, err, apierror.ErrInvalidEndpoint)
		})
	}
}

func TestBuild_HeadersAddedVerbatim(t *testing.T) {
	req, err := NewBuilder(nil, Options{UserAgent: "custom/1"}).Build(context.Background(), Spec{
		URL: "https://reqres.in/",
		Headers: map[string]string{
			"access-control-allow-origin":  "*",
			"access-control-allow-methods": "GET, POST, PUT",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "*", req.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT", req.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "custom/1", req.Header.Get("User-Agent"))
}

func TestBuildUpload(t *testing.T) {
	req, err := NewBuilder(nil, Options{}).BuildUpload(context.Background(), "https://reqres.in/",
		map[string]string{"server": "cloudflare-nginx"}, []byte("--B--\r\n"), "B")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "multipart/form-data; boundary=B", req.Header.Get("Content-Type"))
	assert.Equal(t, int64(len("--B--\r\n")), req.ContentLength)
	assert.Equal(t, "--B--\r\n", readBody(t, req))

	_, err = NewBuilder(nil, Options{}).BuildUpload(context.Background(), "not a url", nil, nil, "B")
	assert.ErrorIs(t, err, apierror.ErrInvalidEndpoint)
}

func TestQueryEscape(t *testing.T) {
	assert.Equal(t, "a%20b", QueryEscape("a b"))
	assert.Equal(t, "a%2Bb%26c%3Dd", QueryEscape("a+b&c=d"))
	assert.Equal(t, "AZaz09-._~", QueryEscape("AZaz09-._~"))
	assert.Equal(t, "%C3%A9", QueryEscape("é"))
}

func TestEncodeQuery_SortedKeys(t *testing.T) {
	assert.Equal(t, "a=1&b=2&c=3", EncodeQuery(map[string]string{"c": "3", "a": "1", "b": "2"}))
	assert.Equal(t, "", EncodeQuery(nil))

	parsed, err := url.ParseQuery(EncodeQuery(map[string]string{"k": "v w"}))
	require.NoError(t, err)
	assert.Equal(t, "v w", parsed.Get("k"))
}
