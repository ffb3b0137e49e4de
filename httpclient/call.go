// httpclient/call.go
package httpclient

import (
	"context"
	"net/http"

	"github.com/mckinley/go-api-rest-client/endpoint"
	"github.com/mckinley/go-api-rest-client/multipart"
	"github.com/mckinley/go-api-rest-client/request"
	"github.com/mckinley/go-api-rest-client/response"
	"github.com/mckinley/go-api-rest-client/transport"
	"go.uber.org/zap"
)

// Result carries the outcome of an asynchronous call: a decoded value or an error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Call sends params to the named endpoint using method and decodes a 200, 201 or 204 answer
// into T. An empty method is sent as POST. GET params travel in the query string, all other
// methods send them as a JSON body.
func Call[T any](ctx context.Context, c *Client, name, method string, params map[string]any) (T, error) {
	req, err := c.buildCall(ctx, name, method, params)
	if err != nil {
		var zero T
		return zero, err
	}

	outcome, err := c.executor.Execute(req)
	if err != nil {
		var zero T
		return zero, err
	}
	return response.DecodeData[T](c.decoder, outcome, req.Method)
}

// CallAsync runs Call on the transport's goroutine and hands the result to completion, which
// is invoked exactly once and never on the caller's goroutine.
func CallAsync[T any](ctx context.Context, c *Client, name, method string, params map[string]any, completion func(Result[T])) {
	req, err := c.buildCall(ctx, name, method, params)
	if err != nil {
		go completion(Result[T]{Err: err})
		return
	}

	c.executor.Go(req, func(outcome transport.Outcome, err error) {
		if err != nil {
			completion(Result[T]{Err: err})
			return
		}
		value, err := response.DecodeData[T](c.decoder, outcome, req.Method)
		completion(Result[T]{Value: value, Err: err})
	})
}

// Upload posts params and files to the named endpoint as multipart/form-data and decodes a
// 2xx answer into T.
func Upload[T any](ctx context.Context, c *Client, name string, params map[string]string, files map[string]multipart.File) (T, error) {
	req, err := c.buildUpload(ctx, name, params, files)
	if err != nil {
		var zero T
		return zero, err
	}

	outcome, err := c.executor.Execute(req)
	if err != nil {
		var zero T
		return zero, err
	}
	return response.DecodeUpload[T](c.decoder, outcome)
}

// UploadAsync is the asynchronous form of Upload. completion is invoked exactly once.
func UploadAsync[T any](ctx context.Context, c *Client, name string, params map[string]string, files map[string]multipart.File, completion func(Result[T])) {
	req, err := c.buildUpload(ctx, name, params, files)
	if err != nil {
		go completion(Result[T]{Err: err})
		return
	}

	c.executor.Go(req, func(outcome transport.Outcome, err error) {
		if err != nil {
			completion(Result[T]{Err: err})
			return
		}
		value, err := response.DecodeUpload[T](c.decoder, outcome)
		completion(Result[T]{Value: value, Err: err})
	})
}

// Login posts the credentials to the login endpoint as {"<id>": "<password>"}.
func Login[T any](ctx context.Context, c *Client, id, password string) (T, error) {
	return Call[T](ctx, c, endpoint.Login, http.MethodPost, map[string]any{id: password})
}

func (c *Client) buildCall(ctx context.Context, name, method string, params map[string]any) (*http.Request, error) {
	ep, err := c.lookup(name)
	if err != nil {
		return nil, err
	}

	c.Logger.Info("API call",
		zap.String("endpoint", ep.Name),
		zap.String("url", ep.URL),
		zap.String("method", method),
	)
	c.Logger.Debug("API call parameters", zap.String("endpoint", ep.Name), zap.Any("params", params))

	return c.requests.Build(ctx, request.Spec{
		URL:     ep.URL,
		Method:  method,
		Headers: ep.Headers,
		Params:  params,
	})
}

func (c *Client) buildUpload(ctx context.Context, name string, params map[string]string, files map[string]multipart.File) (*http.Request, error) {
	ep, err := c.lookup(name)
	if err != nil {
		return nil, err
	}

	c.Logger.Info("API upload",
		zap.String("endpoint", ep.Name),
		zap.String("url", ep.URL),
		zap.Int("files", len(files)),
	)
	c.Logger.Debug("API upload parameters", zap.String("endpoint", ep.Name), zap.Any("params", params))

	boundary := multipart.NewBoundary()
	body, err := c.multipart.Build(ctx, params, files, boundary)
	if err != nil {
		return nil, err
	}
	return c.requests.BuildUpload(ctx, ep.URL, ep.Headers, body, boundary)
}

func (c *Client) lookup(name string) (endpoint.Endpoint, error) {
	ep, err := c.Registry.Lookup(name)
	if err != nil {
		c.Logger.Error("Unknown endpoint", zap.String("endpoint", name), zap.Error(err))
		return endpoint.Endpoint{}, err
	}
	return ep, nil
}
