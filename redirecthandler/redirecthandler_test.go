package redirecthandler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/mocklogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mustRequest(t *testing.T, method, rawURL string, resp *http.Response) *http.Request {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return &http.Request{Method: method, URL: u, Header: http.Header{}, Response: resp}
}

// TestRedirectHandler_CheckRedirect covers the policy decisions taken before following a redirect.
func TestRedirectHandler_CheckRedirect(t *testing.T) {
	tests := []struct {
		name        string
		req         *http.Request
		via         []*http.Request
		max         int
		expectedErr error
		check       func(t *testing.T, req *http.Request)
	}{
		{
			name:        "non-idempotent method",
			req:         mustRequest(t, http.MethodPost, "http://example.com/new", nil),
			via:         []*http.Request{mustRequest(t, http.MethodPost, "http://example.com/old", nil)},
			max:         10,
			expectedErr: http.ErrUseLastResponse,
		},
		{
			name:        "maximum redirects reached",
			req:         mustRequest(t, http.MethodGet, "http://example.com/c", nil),
			via:         []*http.Request{mustRequest(t, http.MethodGet, "http://example.com/a", nil), mustRequest(t, http.MethodGet, "http://example.com/b", nil)},
			max:         2,
			expectedErr: &MaxRedirectsError{MaxRedirects: 2},
		},
		{
			name:        "redirect loop",
			req:         mustRequest(t, http.MethodGet, "http://example.com/a", nil),
			via:         []*http.Request{mustRequest(t, http.MethodGet, "http://example.com/a", nil), mustRequest(t, http.MethodGet, "http://example.com/b", nil)},
			max:         10,
			expectedErr: &RedirectLoopError{URL: "http://example.com/a"},
		},
		{
			name: "cross host strips sensitive headers",
			req: func() *http.Request {
				r := mustRequest(t, http.MethodGet, "http://anotherdomain.com/new", nil)
				r.Header.Set("Authorization", "Bearer abc")
				r.Header.Set("Cookie", "session=1")
				r.Header.Set("Accept", "application/json")
				return r
			}(),
			via: []*http.Request{mustRequest(t, http.MethodGet, "http://example.com/old", nil)},
			max: 10,
			check: func(t *testing.T, req *http.Request) {
				assert.Empty(t, req.Header.Get("Authorization"))
				assert.Empty(t, req.Header.Get("Cookie"))
				assert.Equal(t, "application/json", req.Header.Get("Accept"))
			},
		},
		{
			name: "see other becomes GET",
			req: func() *http.Request {
				r := mustRequest(t, http.MethodPut, "http://example.com/new", nil)
				r.Header.Set("Content-Type", "application/json")
				r.ContentLength = 12
				return r
			}(),
			via: []*http.Request{mustRequest(t, http.MethodPut, "http://example.com/old", &http.Response{StatusCode: http.StatusSeeOther})},
			max: 10,
			check: func(t *testing.T, req *http.Request) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Zero(t, req.ContentLength)
				assert.Empty(t, req.Header.Get("Content-Type"))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewRedirectHandler(nil, tc.max)

			err := handler.checkRedirect(tc.req, tc.via)

			assert.Equal(t, tc.expectedErr, err)
			if tc.check != nil {
				tc.check(t, tc.req)
			}
		})
	}
}

func TestRedirectHandler_FollowsWithClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("arrived"))
	})
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	client := &http.Client{}
	require.NoError(t, SetupRedirectHandler(client, true, 5, logger.NewNopLogger()))

	resp, err := client.Get(ts.URL + "/old")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/new"))

	_, err = client.Get(ts.URL + "/loop")
	var loopErr *RedirectLoopError
	assert.True(t, errors.As(err, &loopErr))
}

func TestSetupRedirectHandler(t *testing.T) {
	t.Run("disabled returns first response", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
		}))
		defer ts.Close()

		client := &http.Client{}
		require.NoError(t, SetupRedirectHandler(client, false, 0, logger.NewNopLogger()))

		resp, err := client.Get(ts.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
	})

	t.Run("invalid max redirects", func(t *testing.T) {
		mockLog := mocklogger.NewMockLogger()
		mockLog.On("Error", "Invalid maxRedirects value", mock.Anything).Once()

		err := SetupRedirectHandler(&http.Client{}, true, 0, mockLog)
		assert.Error(t, err)
		mockLog.AssertExpectations(t)
	})
}
