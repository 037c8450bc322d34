package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type signupPayload struct {
	FirstName string `json:"firstName" binding:"required,min=2"`
	Email     string `json:"email" binding:"required,email"`
}

type searchQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

func decodeValidation(t *testing.T, w *httptest.ResponseRecorder) validationResponse {
	t.Helper()
	var resp validationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode validation response: %v", err)
	}
	return resp
}

func TestValidateBodyRejectsWithFieldDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup",
		ValidateBody(func() interface{} { return &signupPayload{} }),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decodeValidation(t, w)
	if resp.Error != "VALIDATION_ERROR" {
		t.Fatalf("error = %q", resp.Error)
	}
	if resp.Timestamp == "" {
		t.Fatal("missing timestamp")
	}
	if len(resp.Details) != 2 {
		t.Fatalf("details = %v, want 2 entries", resp.Details)
	}

	fields := map[string]string{}
	for _, d := range resp.Details {
		fields[d.Field] = d.Code
	}
	// json tag names, not Go field names
	if fields["firstName"] != "required" {
		t.Fatalf("firstName detail missing or wrong code: %v", fields)
	}
	if fields["email"] != "email" {
		t.Fatalf("email detail missing or wrong code: %v", fields)
	}
}

func TestValidateBodyPassesTypedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var got *signupPayload
	router.POST("/signup",
		ValidateBody(func() interface{} { return &signupPayload{} }),
		func(c *gin.Context) {
			got = BodyFrom[signupPayload](c)
			c.Status(http.StatusOK)
		})

	req := httptest.NewRequest(http.MethodPost, "/signup",
		strings.NewReader(`{"firstName":"Alice","email":"alice@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got == nil || got.FirstName != "Alice" || got.Email != "alice@example.com" {
		t.Fatalf("typed payload not committed to context: %+v", got)
	}
}

func TestValidateBodyMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup",
		ValidateBody(func() interface{} { return &signupPayload{} }),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"broken":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decodeValidation(t, w)
	if len(resp.Details) != 1 || resp.Details[0].Code != "invalid_payload" {
		t.Fatalf("details = %v", resp.Details)
	}
}

func TestValidateQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items",
		ValidateQuery(func() interface{} { return &searchQuery{} }),
		func(c *gin.Context) {
			q := QueryFrom[searchQuery](c)
			c.JSON(http.StatusOK, gin.H{"status": q.Status})
		})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?status=active", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("valid query rejected: %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items?status=bogus", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid query accepted: %d", w.Code)
	}
}

func TestValidateParams(t *testing.T) {
	type idParams struct {
		ID string `uri:"id" binding:"required,uuid"`
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items/:id",
		ValidateParams(func() interface{} { return &idParams{} }),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/items/0f8fad5b-d9cb-469f-a165-70867728950e", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("valid uuid param rejected: %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/not-a-uuid", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid uuid param accepted: %d", w.Code)
	}
}

func TestValidateMultipleAccumulatesAllSources(t *testing.T) {
	type idParams struct {
		ID string `uri:"id" binding:"required,uuid"`
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.PUT("/items/:id",
		ValidateMultiple(MultiSpec{
			Params: func() interface{} { return &idParams{} },
			Body:   func() interface{} { return &signupPayload{} },
		}),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPut, "/items/not-a-uuid",
		strings.NewReader(`{"email":"bad"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decodeValidation(t, w)

	sources := map[string]bool{}
	for _, d := range resp.Details {
		sources[d.Source] = true
	}
	if !sources["body"] || !sources["params"] {
		t.Fatalf("expected errors from both sources, got %v", resp.Details)
	}
}

func TestValidateMultipleNoPartialCommit(t *testing.T) {
	type idParams struct {
		ID string `uri:"id" binding:"required,uuid"`
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	reached := false
	router.PUT("/items/:id",
		ValidateMultiple(MultiSpec{
			Params: func() interface{} { return &idParams{} },
			Body:   func() interface{} { return &signupPayload{} },
		}),
		func(c *gin.Context) {
			reached = true
			c.Status(http.StatusOK)
		})

	// Valid params, invalid body: handler must not run.
	req := httptest.NewRequest(http.MethodPut,
		"/items/0f8fad5b-d9cb-469f-a165-70867728950e",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if reached {
		t.Fatal("handler ran despite validation failure")
	}
}

func TestValidationMessageLocalization(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/signup",
		ValidateBody(func() interface{} { return &signupPayload{} }),
		func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "ar")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := decodeValidation(t, w)
	if !strings.Contains(resp.Message, "فشل") {
		t.Fatalf("expected Arabic summary, got %q", resp.Message)
	}
}
