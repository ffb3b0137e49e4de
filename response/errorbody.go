// response/errorbody.go
package response

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
)

// maxDetailLength caps the detail kept from an error body.
const maxDetailLength = 512

// ErrorBody is the readable content of a non-success response body.
type ErrorBody struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	Errors  []Errors `json:"errors,omitempty"`
	Raw     string   `json:"-"`
}

// Errors represents individual error details within an API error response.
type Errors struct {
	Code        string `json:"code,omitempty"`
	Field       string `json:"field,omitempty"`
	Description string `json:"description,omitempty"`
}

// Detail returns a one-line summary of the body suitable for an error message.
func (b ErrorBody) Detail() string {
	parts := make([]string, 0, 1+len(b.Details)+len(b.Errors))
	if b.Message != "" {
		parts = append(parts, b.Message)
	}
	parts = append(parts, b.Details...)
	for _, e := range b.Errors {
		switch {
		case e.Field != "" && e.Description != "":
			parts = append(parts, e.Field+": "+e.Description)
		case e.Description != "":
			parts = append(parts, e.Description)
		case e.Code != "":
			parts = append(parts, e.Code)
		}
	}

	detail := strings.Join(parts, "; ")
	if detail == "" {
		detail = strings.TrimSpace(b.Raw)
	}
	if len(detail) > maxDetailLength {
		cut := maxDetailLength
		for cut > 0 && !utf8.RuneStart(detail[cut]) {
			cut--
		}
		detail = detail[:cut] + "..."
	}
	return detail
}

// ParseErrorBody extracts messages from an error response body according to its Content-Type.
func ParseErrorBody(contentType string, body []byte) ErrorBody {
	errorBody := ErrorBody{Raw: string(body)}
	if len(bytes.TrimSpace(body)) == 0 {
		return errorBody
	}

	mimeType, _ := ParseContentTypeHeader(contentType)
	switch {
	case mimeType == "application/json" || strings.HasSuffix(mimeType, "+json"):
		parseJSONResponse(body, &errorBody)
	case mimeType == "application/xml" || mimeType == "text/xml":
		parseXMLResponse(body, &errorBody)
	case mimeType == "text/html":
		parseHTMLResponse(body, &errorBody)
	default:
		errorBody.Message = strings.TrimSpace(string(body))
	}
	return errorBody
}

// jsonError accepts the common shapes of JSON error payloads.
type jsonError struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Details []string        `json:"details"`
	Errors  json.RawMessage `json:"errors"`
}

func parseJSONResponse(body []byte, errorBody *ErrorBody) {
	var payload jsonError
	if err := json.Unmarshal(body, &payload); err != nil {
		return
	}

	errorBody.Message = payload.Message
	errorBody.Details = payload.Details

	if errorBody.Message == "" && len(payload.Error) > 0 {
		var s string
		if json.Unmarshal(payload.Error, &s) == nil {
			errorBody.Message = s
		} else {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(payload.Error, &nested) == nil {
				errorBody.Message = nested.Message
			}
		}
	}

	if len(payload.Errors) > 0 {
		var list []Errors
		if json.Unmarshal(payload.Errors, &list) == nil {
			errorBody.Errors = list
			return
		}
		// Validation errors keyed by field: {"email": ["is invalid"]}
		var byField map[string][]string
		if json.Unmarshal(payload.Errors, &byField) == nil {
			for _, field := range sortedFieldNames(byField) {
				for _, description := range byField[field] {
					errorBody.Errors = append(errorBody.Errors, Errors{Field: field, Description: description})
				}
			}
		}
	}
}

// parseXMLResponse collects every non-empty text node of an XML error body.
func parseXMLResponse(body []byte, errorBody *ErrorBody) {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if (n.Type == xmlquery.TextNode || n.Type == xmlquery.CharDataNode) && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	errorBody.Message = strings.Join(messages, "; ")
}

// parseHTMLResponse concatenates the text of the title and every <p>, including link targets.
func parseHTMLResponse(body []byte, errorBody *ErrorBody) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return
	}

	var messages []string
	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "title" || n.Data == "h1") {
			if content := nodeText(n); content != "" {
				messages = append(messages, content)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}
	parse(doc)

	errorBody.Message = strings.Join(messages, "; ")
}

func nodeText(n *html.Node) string {
	var content strings.Builder
	var traverse func(*html.Node)
	traverse = func(c *html.Node) {
		if c.Type == html.TextNode {
			if text := strings.TrimSpace(c.Data); text != "" {
				content.WriteString(text + " ")
			}
		} else if c.Type == html.ElementNode && c.Data == "a" {
			for _, attr := range c.Attr {
				if attr.Key == "href" {
					content.WriteString("[Link: " + attr.Val + "] ")
					break
				}
			}
		}
		for child := c.FirstChild; child != nil; child = child.NextSibling {
			traverse(child)
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		traverse(child)
	}
	return strings.TrimSpace(content.String())
}

func sortedFieldNames(m map[string][]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
