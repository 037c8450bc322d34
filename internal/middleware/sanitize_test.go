package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSanitizeHTMLString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"script stripped", `<script>alert("x")</script>hello`, "hello"},
		{"allowed tag kept", "<b>bold</b>", "<b>bold</b>"},
		{"disallowed tag stripped", "<iframe src=x></iframe>text", "text"},
		{"event handler stripped", `<b onclick="evil()">x</b>`, "<b>x</b>"},
		{"javascript scheme stripped", `<a href="javascript:alert(1)">link</a>`, "link"},
		{"https link kept", `<a href="https://example.com">link</a>`, `<a href="https://example.com">link</a>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeHTMLString(tt.in); got != tt.want {
				t.Fatalf("SanitizeHTMLString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeepSanitizeNestedStructures(t *testing.T) {
	payload := map[string]interface{}{
		"name": `<script>x</script>Alice`,
		"tags": []interface{}{"<i>ok</i>", "<object>bad</object>rest"},
		"nested": map[string]interface{}{
			"note": "<b>keep</b><style>drop</style>",
		},
		"age":    float64(42),
		"active": true,
		"extra":  nil,
	}

	out := DeepSanitize(payload).(map[string]interface{})
	if out["name"] != "Alice" {
		t.Fatalf("name not sanitized: %q", out["name"])
	}
	tags := out["tags"].([]interface{})
	if tags[0] != "<i>ok</i>" || tags[1] != "rest" {
		t.Fatalf("slice leaves not sanitized: %v", tags)
	}
	nested := out["nested"].(map[string]interface{})
	if nested["note"] != "<b>keep</b>" {
		t.Fatalf("nested leaf not sanitized: %q", nested["note"])
	}
	if out["age"] != float64(42) || out["active"] != true || out["extra"] != nil {
		t.Fatal("non-string leaves were altered")
	}
}

func TestSanitizeInputRewritesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SanitizeInput())

	var seen map[string]interface{}
	router.POST("/echo", func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		_ = json.Unmarshal(raw, &seen)
		c.Status(http.StatusOK)
	})

	body := `{"comment":"<script>steal()</script><b>fine</b>","count":3}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if seen["comment"] != "<b>fine</b>" {
		t.Fatalf("body not sanitized before handler: %q", seen["comment"])
	}
	if seen["count"] != float64(3) {
		t.Fatalf("numeric field altered: %v", seen["count"])
	}
}

func TestSanitizeInputLeavesMalformedJSONForValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SanitizeInput())

	var got string
	router.POST("/echo", func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		got = string(raw)
		c.Status(http.StatusOK)
	})

	body := `{"broken":`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got != body {
		t.Fatalf("malformed JSON was altered: %q", got)
	}
}

func TestSanitizeInputRewritesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SanitizeInput())

	var got string
	router.GET("/search", func(c *gin.Context) {
		got = c.Query("q")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/search?q="+
		"%3Cscript%3Ex%3C%2Fscript%3Eterm", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got != "term" {
		t.Fatalf("query not sanitized: %q", got)
	}
}
