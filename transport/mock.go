// transport/mock.go
package transport

import (
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockExecutor is an HTTPExecutor returning a canned response or error. Requests it receives
// are recorded.
type MockExecutor struct {
	StatusCode int
	Header     http.Header
	Body       string
	Err        error
	NilResp    bool

	mu       sync.Mutex
	requests []*http.Request
}

// Do records req and returns the canned result.
func (m *MockExecutor) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.NilResp {
		return nil, nil
	}

	header := m.Header
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: m.StatusCode,
		Status:     http.StatusText(m.StatusCode),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(m.Body)),
		Request:    req,
	}, nil
}

// Requests returns the requests received so far.
func (m *MockExecutor) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request(nil), m.requests...)
}
