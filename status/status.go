// status.go
// Package status classifies HTTP status codes for the response mapper and the redirect policy.
package status

import (
	"net/http"
)

// Upload responses are accepted in [UploadSuccessMin, UploadSuccessMax].
const (
	UploadSuccessMin = 200
	UploadSuccessMax = 298
)

// IsSuccessStatusCode reports whether a data call response is eligible for decoding:
// 200 OK, 201 Created or 204 No Content.
func IsSuccessStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusOK,
		http.StatusCreated,
		http.StatusNoContent:
		return true
	default:
		return false
	}
}

// IsUploadSuccessStatusCode reports whether an upload response is eligible for decoding.
func IsUploadSuccessStatusCode(statusCode int) bool {
	return statusCode >= UploadSuccessMin && statusCode <= UploadSuccessMax
}

// IsRedirectStatusCode checks if the provided HTTP status code is one of the redirect codes.
//
// - 301 Moved Permanently
// - 302 Found
// - 303 See Other: the follow-up request must use GET.
// - 307 Temporary Redirect
// - 308 Permanent Redirect
func IsRedirectStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// IsPermanentRedirect checks if the provided HTTP status code is one of the permanent redirect codes.
func IsPermanentRedirect(statusCode int) bool {
	switch statusCode {
	case http.StatusMovedPermanently,
		http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

// TranslateStatusCode provides a human-readable message for HTTP status codes.
func TranslateStatusCode(statusCode int) string {
	messages := map[int]string{
		http.StatusOK:                  "Request successful.",
		http.StatusCreated:             "Request to create or update resource successful.",
		http.StatusNoContent:           "Request successful. No content to send for this request.",
		http.StatusBadRequest:          "Bad request. Verify the syntax of the request.",
		http.StatusUnauthorized:        "Authentication failed. Verify the credentials being used for the request.",
		http.StatusForbidden:           "Access denied. The request is not permitted for these credentials.",
		http.StatusNotFound:            "Not Found",
		http.StatusUnprocessableEntity: "Validation Error",
		http.StatusInternalServerError: "Internal Server Error",
		http.StatusBadGateway:          "Bad gateway. The upstream server returned an invalid response.",
		http.StatusServiceUnavailable:  "Service unavailable. The server is not ready to handle the request.",
	}

	if message, ok := messages[statusCode]; ok {
		return message
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return "Unknown status code received."
}
