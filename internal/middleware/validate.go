package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Context keys under which validated payloads are stored for handlers.
const (
	ctxValidatedBody   = "validatedBody"
	ctxValidatedQuery  = "validatedQuery"
	ctxValidatedParams = "validatedParams"
)

// FieldError is one entry of the details array on a validation 400.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Source  string `json:"source,omitempty"` // body, query or params (ValidateMultiple only)
}

type validationResponse struct {
	Error     string       `json:"error"`
	Message   string       `json:"message"`
	Details   []FieldError `json:"details"`
	Timestamp string       `json:"timestamp"`
}

var tagNamesOnce sync.Once

// ensureTagNames makes validator report json field names instead of Go
// struct field names in error details.
func ensureTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters or items"
	case "max":
		return "must be at most " + fe.Param() + " characters or items"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "datetime":
		return "must match the date format " + fe.Param()
	default:
		return "is invalid"
	}
}

// localizedMessage picks the user-facing summary by Accept-Language.
func localizedMessage(c *gin.Context, internal bool) string {
	arabic := strings.Contains(c.GetHeader("Accept-Language"), "ar")
	if internal {
		if arabic {
			return "حدث خطأ غير متوقع"
		}
		return "An unexpected error occurred"
	}
	if arabic {
		return "فشل التحقق من صحة البيانات المدخلة"
	}
	return "Request validation failed"
}

func detailsFrom(err error, source string) ([]FieldError, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{
				Field:   fe.Field(),
				Message: fe.Field() + " " + fieldMessage(fe),
				Code:    fe.Tag(),
				Source:  source,
			})
		}
		return details, true
	}
	// Bind failure below the validator (malformed JSON, bad types) is still
	// a user-correctable 400, reported as a single payload-level detail.
	return []FieldError{{
		Field:   source,
		Message: "payload could not be parsed",
		Code:    "invalid_payload",
		Source:  source,
	}}, false
}

func respondValidation(c *gin.Context, details []FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, validationResponse{
		Error:     "VALIDATION_ERROR",
		Message:   localizedMessage(c, false),
		Details:   details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondInternal(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error":   "INTERNAL_ERROR",
		"message": localizedMessage(c, true),
	})
}

// recoverValidation converts a panicking binder into a generic 500,
// distinct from the validation-failure 400 path.
func recoverValidation(c *gin.Context) {
	if r := recover(); r != nil {
		respondInternal(c)
	}
}

// ValidateBody binds and validates the JSON body against a fresh instance
// from proto. On success the typed value replaces the raw body for the
// handler (fetch with BodyFrom); on failure the request ends here with 400.
func ValidateBody(proto func() interface{}) gin.HandlerFunc {
	ensureTagNames()
	return func(c *gin.Context) {
		defer recoverValidation(c)
		obj := proto()
		if err := c.ShouldBindJSON(obj); err != nil {
			details, _ := detailsFrom(err, "body")
			for i := range details {
				details[i].Source = ""
			}
			respondValidation(c, details)
			return
		}
		c.Set(ctxValidatedBody, obj)
		c.Next()
	}
}

// ValidateQuery binds and validates the query string.
func ValidateQuery(proto func() interface{}) gin.HandlerFunc {
	ensureTagNames()
	return func(c *gin.Context) {
		defer recoverValidation(c)
		obj := proto()
		if err := c.ShouldBindQuery(obj); err != nil {
			details, _ := detailsFrom(err, "query")
			for i := range details {
				details[i].Source = ""
			}
			respondValidation(c, details)
			return
		}
		c.Set(ctxValidatedQuery, obj)
		c.Next()
	}
}

// ValidateParams binds and validates the URI path params.
func ValidateParams(proto func() interface{}) gin.HandlerFunc {
	ensureTagNames()
	return func(c *gin.Context) {
		defer recoverValidation(c)
		obj := proto()
		if err := c.ShouldBindUri(obj); err != nil {
			details, _ := detailsFrom(err, "params")
			for i := range details {
				details[i].Source = ""
			}
			respondValidation(c, details)
			return
		}
		c.Set(ctxValidatedParams, obj)
		c.Next()
	}
}

// MultiSpec names the sources ValidateMultiple should check. Nil entries
// are skipped.
type MultiSpec struct {
	Body   func() interface{}
	Query  func() interface{}
	Params func() interface{}
}

// ValidateMultiple validates every provided source independently and
// accumulates ALL errors, tagged with their source, into one combined 400.
// Nothing is committed to the context unless every source passes.
func ValidateMultiple(spec MultiSpec) gin.HandlerFunc {
	ensureTagNames()
	return func(c *gin.Context) {
		defer recoverValidation(c)

		var details []FieldError
		var body, query, params interface{}

		if spec.Body != nil {
			body = spec.Body()
			if err := c.ShouldBindJSON(body); err != nil {
				d, _ := detailsFrom(err, "body")
				details = append(details, d...)
			}
		}
		if spec.Query != nil {
			query = spec.Query()
			if err := c.ShouldBindQuery(query); err != nil {
				d, _ := detailsFrom(err, "query")
				details = append(details, d...)
			}
		}
		if spec.Params != nil {
			params = spec.Params()
			if err := c.ShouldBindUri(params); err != nil {
				d, _ := detailsFrom(err, "params")
				details = append(details, d...)
			}
		}

		if len(details) > 0 {
			respondValidation(c, details)
			return
		}
		if body != nil {
			c.Set(ctxValidatedBody, body)
		}
		if query != nil {
			c.Set(ctxValidatedQuery, query)
		}
		if params != nil {
			c.Set(ctxValidatedParams, params)
		}
		c.Next()
	}
}

// BodyFrom returns the validated body previously stored by ValidateBody.
func BodyFrom[T any](c *gin.Context) *T {
	v, ok := c.Get(ctxValidatedBody)
	if !ok {
		return nil
	}
	t, _ := v.(*T)
	return t
}

// QueryFrom returns the validated query payload.
func QueryFrom[T any](c *gin.Context) *T {
	v, ok := c.Get(ctxValidatedQuery)
	if !ok {
		return nil
	}
	t, _ := v.(*T)
	return t
}

// ParamsFrom returns the validated path params payload.
func ParamsFrom[T any](c *gin.Context) *T {
	v, ok := c.Get(ctxValidatedParams)
	if !ok {
		return nil
	}
	t, _ := v.(*T)
	return t
}
