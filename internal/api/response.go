package api

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pageza/mealplanner/backend/internal/apperr"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status string         `json:"status"`
	Data   any            `json:"data,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
	Error  *ErrorBody     `json:"error,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Success writes a success envelope with the given status code.
func Success(c *gin.Context, status int, data any, meta map[string]any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{Status: StatusSuccess, Data: data, Meta: meta})
}

// Error renders err as an error envelope and aborts the chain. Only the
// user-facing message is sent; the cause is logged and reduced to its type.
func Error(c *gin.Context, log *zap.Logger, err error) {
	appErr := apperr.From(err)
	status := appErr.HTTPStatus()

	var details map[string]any
	if len(appErr.Details) > 0 || appErr.Err != nil {
		details = make(map[string]any, len(appErr.Details)+1)
		for k, v := range appErr.Details {
			details[k] = v
		}
		if appErr.Err != nil {
			details["error_type"] = apperr.ErrorType(appErr.Err)
		}
	}

	fields := []zap.Field{
		zap.String("code", appErr.Code),
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	}
	if status >= 500 {
		log.Error("request failed", fields...)
	} else {
		log.Warn("request rejected", fields...)
	}

	c.AbortWithStatusJSON(status, Envelope{
		Status: StatusError,
		Error: &ErrorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

// bindError converts a request binding failure into a validation error.
func bindError(op string, err error) *apperr.Error {
	appErr := apperr.Validation(apperr.CodeValidationError, op, "Invalid request body")

	var verrs validator.ValidationErrors
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		appErr.WithDetail("fields", fields)
	case errors.As(err, &typeErr):
		appErr.WithDetail("fields", map[string]string{typeErr.Field: "type"})
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		appErr.WithDetail("reason", "malformed_json")
	}
	return appErr
}

// NotFoundHandler renders unknown routes.
func NotFoundHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		Error(c, log, apperr.NoRoute(c.Request.URL.Path))
	}
}

// MethodNotAllowedHandler renders known routes called with the wrong method.
func MethodNotAllowedHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		Error(c, log, apperr.MethodNotAllowed(c.Request.Method))
	}
}
