package serrors

import (
	"fmt"
	"net/http"
)

// BaseError is a comparable sentinel carrying a stable code.
type BaseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewError(code, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

func (e *BaseError) Error() string {
	return e.Message
}

// ServiceError is returned by services when a failure maps to a specific HTTP status.
type ServiceError struct {
	Status  int
	Code    string
	Message string
	Meta    map[string]string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ServiceError) Unwrap() error { return e.Cause }

func NewServiceError(status int, code, message string, cause error) *ServiceError {
	return &ServiceError{Status: status, Code: code, Message: message, Cause: cause}
}

func Unauthorized(code, message string) *ServiceError {
	return NewServiceError(http.StatusUnauthorized, code, message, nil)
}

func NotFound(code, message string, cause error) *ServiceError {
	return NewServiceError(http.StatusNotFound, code, message, cause)
}

func Conflict(code, message string, cause error) *ServiceError {
	return NewServiceError(http.StatusConflict, code, message, cause)
}

func Invalid(code, message string, meta map[string]string) *ServiceError {
	err := NewServiceError(http.StatusUnprocessableEntity, code, message, nil)
	err.Meta = meta
	return err
}

// WithMeta sets a meta entry and returns e.
func (e *ServiceError) WithMeta(key, value string) *ServiceError {
	if e.Meta == nil {
		e.Meta = map[string]string{}
	}
	e.Meta[key] = value
	return e
}
