package response

import (
	"hrms/pkg/apperrors"
)

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Code       string      `json:"code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ErrorCode returns an error response tagged with a stable machine code,
// e.g. AUTHENTICATION_ERROR on every 401.
func ErrorCode(statusCode int, code string, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Code:       code,
		Error:      err,
	}
}

// FromAppError maps a typed application error onto the envelope.
func FromAppError(err *apperrors.Error) Response {
	return ErrorCode(err.Status, string(err.Code), err.Message)
}
