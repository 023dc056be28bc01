package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"
	CodeBadGateway   = "BAD_GATEWAY"
	CodeInvalidInput = "INVALID_INPUT"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	if e.HTTPStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTPStatus
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func New(code, message string, httpStatus int) *AppError {
	return newError(code, httpStatus, message)
}

func Wrap(err error, code, message string, httpStatus int) *AppError {
	e := newError(code, httpStatus, message)
	e.Err = err
	return e
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single key to Details, allocating the map on first use.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

func NotFound(resource string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

func NotFoundWithID(resource, id string) *AppError {
	return NotFound(resource).WithDetails(map[string]any{
		"resource": resource,
		"id":       id,
	})
}

func Validation(message string, details map[string]any) *AppError {
	return newError(CodeValidation, http.StatusUnprocessableEntity, message).WithDetails(details)
}

func InvalidInput(message string) *AppError {
	return newError(CodeInvalidInput, http.StatusBadRequest, message)
}

func Unauthorized(message string) *AppError {
	return newError(CodeUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return newError(CodeForbidden, http.StatusForbidden, message)
}

func Conflict(message string) *AppError {
	return newError(CodeConflict, http.StatusConflict, message)
}

func Internal(message string, err error) *AppError {
	e := newError(CodeInternal, http.StatusInternalServerError, message)
	e.Err = err
	return e
}

func Timeout(message string) *AppError {
	return newError(CodeTimeout, http.StatusGatewayTimeout, message)
}

// Unavailable reports a dependency that is down or not configured, such as
// media storage when no bucket is set.
func Unavailable(service string) *AppError {
	return newError(CodeUnavailable, http.StatusServiceUnavailable, service+" is temporarily unavailable")
}

// BadGateway reports a failed call to an upstream collaborator such as a
// payment gateway. The message stays generic; err carries the detail for logs.
func BadGateway(service string, err error) *AppError {
	e := newError(CodeBadGateway, http.StatusBadGateway, service+" request failed")
	e.Err = err
	return e
}

func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}
