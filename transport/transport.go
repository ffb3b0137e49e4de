// transport/transport.go
/* Package transport executes built requests and hands back the raw status, headers and body.
It never interprets the status code; that is the response package's job. */
package transport

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/mckinley/go-api-rest-client/apierror"
	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/request"
	"go.uber.org/zap"
)

// HTTPExecutor sends a request and returns the response. *http.Client satisfies it.
type HTTPExecutor interface {
	Do(req *http.Request) (*http.Response, error)
}

// Outcome is a completed exchange: the response metadata and its fully read body.
type Outcome struct {
	Response *http.Response
	Body     []byte
}

// StatusCode returns the response status, or 0 when there is no response.
func (o Outcome) StatusCode() int {
	if o.Response == nil {
		return 0
	}
	return o.Response.StatusCode
}

// Executor performs requests through an HTTPExecutor.
type Executor struct {
	mu                sync.RWMutex
	client            HTTPExecutor
	log               logger.Logger
	hideSensitiveData bool
}

// NewExecutor returns an Executor sending through client.
func NewExecutor(client HTTPExecutor, log logger.Logger, hideSensitiveData bool) *Executor {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Executor{client: client, log: log, hideSensitiveData: hideSensitiveData}
}

// SetClient replaces the HTTPExecutor used by later requests. Requests already sent keep
// the client they started with.
func (e *Executor) SetClient(client HTTPExecutor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.client = client
}

// Client returns the HTTPExecutor requests are currently sent through.
func (e *Executor) Client() HTTPExecutor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.client
}

// Execute sends req and reads the whole response body.
//
// A failure to send (including a rejected TLS handshake) is a transportError. A missing
// response or an unreadable body is an invalidResponse.
func (e *Executor) Execute(req *http.Request) (Outcome, error) {
	method, url := req.Method, req.URL.String()
	e.log.LogRequestStart("request_start", method, url, redactedHeaders(req.Header, e.hideSensitiveData))

	start := time.Now()
	resp, err := e.Client().Do(req)
	if err != nil {
		e.log.LogError("request_failed", method, url, 0, err, "")
		return Outcome{}, apierror.Wrap(apierror.KindTransport, err)
	}
	if resp == nil {
		e.log.Error("Received no response", zap.String("method", method), zap.String("url", url))
		return Outcome{}, apierror.Wrap(apierror.KindInvalidResponse, errors.New("no response received"))
	}
	if resp.Body == nil {
		e.log.Error("Received response without body", zap.String("method", method), zap.String("url", url))
		return Outcome{}, apierror.Wrap(apierror.KindInvalidResponse, errors.New("response has no body"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e.log.LogError("response_read_failed", method, url, resp.StatusCode, err, "")
		return Outcome{}, &apierror.Error{Kind: apierror.KindInvalidResponse, StatusCode: resp.StatusCode, Err: err}
	}

	e.log.LogRequestEnd("request_end", method, url, resp.StatusCode, time.Since(start))
	e.log.Debug("Raw HTTP Response",
		zap.String("url", url),
		zap.Int("status_code", resp.StatusCode),
		zap.String("Body", string(body)),
	)
	request.CheckDeprecationHeader(resp, e.log)
	logResponseCookies(e.log, resp)

	return Outcome{Response: resp, Body: body}, nil
}

// Go runs Execute on its own goroutine and calls completion exactly once with the result.
func (e *Executor) Go(req *http.Request, completion func(Outcome, error)) {
	go func() {
		outcome, err := e.Execute(req)
		completion(outcome, err)
	}()
}

func redactedHeaders(headers http.Header, hideSensitiveData bool) map[string][]string {
	redacted := make(map[string][]string, len(headers))
	for name, values := range headers {
		copied := make([]string, len(values))
		for i, value := range values {
			copied[i] = request.RedactSensitiveHeaderData(hideSensitiveData, name, value)
		}
		redacted[name] = copied
	}
	return redacted
}
