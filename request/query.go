// request/query.go
package request

import (
	"net/url"
	"sort"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// shouldEscape reports whether c must be percent-encoded in a query name or value.
// Only RFC 3986 unreserved characters pass through.
func shouldEscape(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return false
	}
	switch c {
	case '-', '.', '_', '~':
		return false
	}
	return true
}

// QueryEscape percent-encodes every byte of s outside the unreserved set.
// Unlike url.QueryEscape, space becomes %20 rather than '+'.
func QueryEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// EncodeQuery renders params as "k1=v1&k2=v2" in key order.
func EncodeQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, QueryEscape(k)+"="+QueryEscape(params[k]))
	}
	return strings.Join(pairs, "&")
}

// DecodeQuery parses a raw query into a flat map, keeping the last value of repeated keys.
func DecodeQuery(rawQuery string) (map[string]string, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	params := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[len(v)-1]
		}
	}
	return params, nil
}
