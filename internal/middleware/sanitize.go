package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// htmlPolicy is the fixed allow-list: basic formatting tags, links with a
// restricted attribute set, and only safe URL schemes. Everything else is
// stripped, not escaped.
var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "a", "p", "ul", "ol", "li", "br", "span")
	p.AllowAttrs("href", "name", "target").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto", "tel")
	return p
}()

// SanitizeHTMLString strips disallowed HTML from a single string.
func SanitizeHTMLString(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return htmlPolicy.Sanitize(s)
}

// DeepSanitize walks a decoded JSON value and sanitizes every string leaf
// at any nesting depth. Numbers, booleans and nulls pass through unchanged.
func DeepSanitize(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return SanitizeHTMLString(val)
	case map[string]interface{}:
		for k, item := range val {
			val[k] = DeepSanitize(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = DeepSanitize(item)
		}
		return val
	default:
		return v
	}
}

// SanitizeInput rewrites the request body, query string and path params so
// every string leaf is HTML-sanitized before validation runs. Ordering
// matters: validated lengths and patterns must reflect sanitized content.
func SanitizeInput() gin.HandlerFunc {
	return func(c *gin.Context) {
		sanitizeBody(c)
		sanitizeQuery(c)
		sanitizeParams(c)
		c.Next()
	}
}

func sanitizeBody(c *gin.Context) {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return
	}
	if !strings.Contains(c.ContentType(), "application/json") {
		return
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return
	}
	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// Malformed JSON passes through untouched; validation rejects it.
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		return
	}
	clean, err := json.Marshal(DeepSanitize(payload))
	if err != nil {
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(clean))
	c.Request.ContentLength = int64(len(clean))
}

func sanitizeQuery(c *gin.Context) {
	q := c.Request.URL.Query()
	changed := false
	for key, values := range q {
		for i, v := range values {
			if s := SanitizeHTMLString(v); s != v {
				values[i] = s
				changed = true
			}
		}
		q[key] = values
	}
	if changed {
		c.Request.URL.RawQuery = url.Values(q).Encode()
	}
}

func sanitizeParams(c *gin.Context) {
	for i, p := range c.Params {
		if s := SanitizeHTMLString(p.Value); s != p.Value {
			c.Params[i].Value = s
		}
	}
}
