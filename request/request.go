// request/request.go
/* Package request turns an endpoint call into a fully formed *http.Request before any I/O happens.
GET parameters travel in the query string, every other method sends them as a JSON object body. */
package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mckinley/go-api-rest-client/apierror"
	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/multipart"
	"github.com/mckinley/go-api-rest-client/version"
	"go.uber.org/zap"
)

// Spec describes a single outgoing call.
type Spec struct {
	URL     string
	Method  string // GET, POST, PUT or DELETE; empty means POST
	Headers map[string]string
	Params  map[string]any
}

// Options controls how the Builder treats parameters it cannot encode.
type Options struct {
	// Strict makes unencodable parameters a requestEncodingError. When false the
	// failure is logged and the body or query is left off.
	Strict            bool
	HideSensitiveData bool
	UserAgent         string
}

// Builder builds requests from Specs.
type Builder struct {
	log  logger.Logger
	opts Options
}

// NewBuilder returns a Builder. An empty UserAgent defaults to the module's own.
func NewBuilder(log logger.Logger, opts Options) *Builder {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = version.GetUserAgentHeader()
	}
	return &Builder{log: log, opts: opts}
}

// NormalizeMethod upper-cases method, maps "" to POST and rejects anything other
// than GET, POST, PUT or DELETE with invalidEndpoint.
func NormalizeMethod(method string) (string, error) {
	if method == "" {
		return http.MethodPost, nil
	}
	switch m := strings.ToUpper(method); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return m, nil
	default:
		return "", apierror.Wrap(apierror.KindInvalidEndpoint, fmt.Errorf("unsupported HTTP method %q", method))
	}
}

// parseURL rejects anything that is not an absolute http(s) URL.
func parseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, apierror.Wrap(apierror.KindInvalidEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apierror.Wrap(apierror.KindInvalidEndpoint, fmt.Errorf("endpoint URL %q is not absolute", rawURL))
	}
	return u, nil
}

// Build constructs the request described by spec.
//
// GET parameters must all be strings and are appended to the URL's query. POST, PUT and
// DELETE parameters are marshalled into a JSON body with Content-Type application/json,
// but only when there is at least one parameter. Spec headers are added as is.
func (b *Builder) Build(ctx context.Context, spec Spec) (*http.Request, error) {
	method, err := NormalizeMethod(spec.Method)
	if err != nil {
		return nil, err
	}

	u, err := parseURL(spec.URL)
	if err != nil {
		return nil, err
	}

	var body []byte
	switch method {
	case http.MethodGet:
		if err := b.applyQuery(u, spec.Params); err != nil {
			return nil, err
		}
	default:
		body, err = b.encodeBody(spec.Params)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader(body))
	if err != nil {
		return nil, apierror.Wrap(apierror.KindInvalidEndpoint, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	b.applyHeaders(req, spec.Headers)

	b.log.Debug("Built request",
		zap.String("method", method),
		zap.String("url", req.URL.String()),
		zap.Int("param_count", len(spec.Params)),
	)
	LogHeaders(b.log, req, b.opts.HideSensitiveData)

	return req, nil
}

// BuildUpload constructs a multipart POST carrying body, delimited by boundary.
func (b *Builder) BuildUpload(ctx context.Context, rawURL string, headers map[string]string, body []byte, boundary string) (*http.Request, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, apierror.Wrap(apierror.KindInvalidEndpoint, err)
	}

	b.applyHeaders(req, headers)
	req.Header.Set("Content-Type", multipart.ContentType(boundary))

	b.log.Debug("Built upload request",
		zap.String("url", req.URL.String()),
		zap.Int("body_bytes", len(body)),
	)
	LogHeaders(b.log, req, b.opts.HideSensitiveData)

	return req, nil
}

// applyQuery appends string params to u's query.
func (b *Builder) applyQuery(u *url.URL, params map[string]any) error {
	if len(params) == 0 {
		return nil
	}

	query := make(map[string]string, len(params))
	for key, value := range params {
		s, ok := value.(string)
		if !ok {
			err := fmt.Errorf("GET parameter %q must be a string, got %T", key, value)
			if b.opts.Strict {
				return apierror.Wrap(apierror.KindRequestEncoding, err)
			}
			b.log.Warn("Dropping query parameters", zap.Error(err))
			return nil
		}
		query[key] = s
	}

	encoded := EncodeQuery(query)
	if u.RawQuery != "" {
		u.RawQuery += "&" + encoded
	} else {
		u.RawQuery = encoded
	}
	return nil
}

// encodeBody returns the JSON body for params, or nil when there is nothing to send.
func (b *Builder) encodeBody(params map[string]any) ([]byte, error) {
	if len(params) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(params)
	if err != nil {
		if b.opts.Strict {
			return nil, apierror.Wrap(apierror.KindRequestEncoding, err)
		}
		b.log.Warn("Failed to encode request body, sending without body", zap.Error(err))
		return nil, nil
	}
	return data, nil
}

func (b *Builder) applyHeaders(req *http.Request, headers map[string]string) {
	req.Header.Set("User-Agent", b.opts.UserAgent)
	for key, value := range headers {
		req.Header.Add(key, value)
	}
}

func bodyReader(body []byte) io.Reader {
	if body == nil {
		return nil
	}
	return bytes.NewReader(body)
}
