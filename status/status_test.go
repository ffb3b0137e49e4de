package status

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSuccessStatusCode(t *testing.T) {
	for _, code := range []int{200, 201, 204} {
		assert.True(t, IsSuccessStatusCode(code), "code %d", code)
	}
	for _, code := range []int{202, 203, 299, 301, 404, 500} {
		assert.False(t, IsSuccessStatusCode(code), "code %d", code)
	}
}

func TestIsUploadSuccessStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{199, false},
		{200, true},
		{202, true},
		{298, true},
		{299, false},
		{300, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsUploadSuccessStatusCode(tt.code), "code %d", tt.code)
	}
}

func TestRedirectClassification(t *testing.T) {
	assert.True(t, IsRedirectStatusCode(http.StatusSeeOther))
	assert.False(t, IsRedirectStatusCode(http.StatusNotModified))
	assert.True(t, IsPermanentRedirect(http.StatusPermanentRedirect))
	assert.False(t, IsPermanentRedirect(http.StatusFound))
}

func TestTranslateStatusCode(t *testing.T) {
	assert.Equal(t, "Not Found", TranslateStatusCode(http.StatusNotFound))
	assert.Equal(t, "I'm a teapot", TranslateStatusCode(http.StatusTeapot))
	assert.Equal(t, "Unknown status code received.", TranslateStatusCode(799))
}
