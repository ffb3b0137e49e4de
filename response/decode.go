// response/decode.go
/* Package response maps a completed exchange to a typed value or a typed error. The status code
alone decides the error kind; the body only ever adds a readable detail. */
package response

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/mckinley/go-api-rest-client/apierror"
	"github.com/mckinley/go-api-rest-client/logger"
	"github.com/mckinley/go-api-rest-client/status"
	"github.com/mckinley/go-api-rest-client/transport"
	"go.uber.org/zap"
)

// Decoder carries the per-client settings used to decode response bodies.
type Decoder struct {
	DateLayout string // layout for Date fields
	log        logger.Logger
}

// NewDecoder returns a Decoder parsing Date fields with dateLayout, or DefaultDateLayout when
// it is empty.
func NewDecoder(dateLayout string, log logger.Logger) *Decoder {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Decoder{DateLayout: dateLayout, log: log}
}

func (d *Decoder) logOrNop() logger.Logger {
	if d == nil || d.log == nil {
		return logger.NewNopLogger()
	}
	return d.log
}

func (d *Decoder) dateLayout() string {
	if d == nil || d.DateLayout == "" {
		return DefaultDateLayout
	}
	return d.DateLayout
}

// DecodeData maps the outcome of a data call.
//
// 200, 201 and 204 are decoded into T. 404, 500 and 422 map to their dedicated kinds and
// any other status to invalidResponse, without attempting to decode. A body that does not
// decode is decodeError, except for a DELETE answered with 204, which is successWith204.
func DecodeData[T any](dec *Decoder, outcome transport.Outcome, method string) (T, error) {
	var zero T
	log := dec.logOrNop()
	if outcome.Response == nil {
		return zero, apierror.New(apierror.KindInvalidResponse)
	}

	statusCode := outcome.StatusCode()
	if !status.IsSuccessStatusCode(statusCode) {
		return zero, errorFromOutcome(outcome, log)
	}

	value, err := decodeJSON[T](outcome.Body, dec.dateLayout())
	if err != nil {
		if method == http.MethodDelete && statusCode == http.StatusNoContent {
			log.Info("Successfully processed DELETE request",
				zap.String("url", requestURL(outcome)), zap.Int("status_code", statusCode))
			return zero, &apierror.Error{Kind: apierror.KindSuccessWith204, StatusCode: statusCode}
		}
		log.Error("JSON Unmarshal error", zap.String("url", requestURL(outcome)), zap.Error(err))
		return zero, &apierror.Error{Kind: apierror.KindDecode, StatusCode: statusCode, Err: err}
	}

	log.Info("Successfully unmarshalled JSON response",
		zap.String("url", requestURL(outcome)), zap.Int("status_code", statusCode))
	return value, nil
}

// DecodeUpload maps the outcome of a multipart upload. Any status from 200 through 298 is
// decoded into T; everything else is invalidResponse.
func DecodeUpload[T any](dec *Decoder, outcome transport.Outcome) (T, error) {
	var zero T
	log := dec.logOrNop()
	if outcome.Response == nil {
		return zero, apierror.New(apierror.KindInvalidResponse)
	}

	statusCode := outcome.StatusCode()
	if !status.IsUploadSuccessStatusCode(statusCode) {
		body := ParseErrorBody(outcome.Response.Header.Get("Content-Type"), outcome.Body)
		log.LogError("upload_failed", http.MethodPost, requestURL(outcome), statusCode, nil, body.Raw)
		return zero, &apierror.Error{Kind: apierror.KindInvalidResponse, StatusCode: statusCode, Detail: body.Detail()}
	}

	value, err := decodeJSON[T](outcome.Body, dec.dateLayout())
	if err != nil {
		log.Error("JSON Unmarshal error", zap.String("url", requestURL(outcome)), zap.Error(err))
		return zero, &apierror.Error{Kind: apierror.KindDecode, StatusCode: statusCode, Err: err}
	}
	return value, nil
}

// errorFromOutcome builds the typed error for a non-success data call.
func errorFromOutcome(outcome transport.Outcome, log logger.Logger) error {
	statusCode := outcome.StatusCode()
	body := ParseErrorBody(outcome.Response.Header.Get("Content-Type"), outcome.Body)
	apiErr := apierror.FromStatus(statusCode, body.Detail())

	method := ""
	if outcome.Response.Request != nil {
		method = outcome.Response.Request.Method
	}
	log.LogError("api_error", method, requestURL(outcome), statusCode, apiErr, body.Raw)
	log.Debug("Error response",
		zap.Int("status_code", statusCode),
		zap.String("status_message", status.TranslateStatusCode(statusCode)),
		zap.String("kind", apiErr.Kind.String()),
	)
	return apiErr
}

func decodeJSON[T any](body []byte, dateLayout string) (T, error) {
	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return value, err
	}
	if err := parseDates(reflect.ValueOf(&value), dateLayout); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

func requestURL(outcome transport.Outcome) string {
	if outcome.Response == nil || outcome.Response.Request == nil || outcome.Response.Request.URL == nil {
		return ""
	}
	return outcome.Response.Request.URL.String()
}
