package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies where in the request lifecycle an error originated.
type Kind int

const (
	// KindValidation is a local, field-scoped input error. It never
	// reaches the network layer.
	KindValidation Kind = iota + 1
	// KindAuth is a server-reported credential or registration failure.
	KindAuth
	// KindTransport is a network or parse failure before a usable
	// response was obtained.
	KindTransport
	// KindData is a fetch/create failure reported by the patient API.
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindTransport:
		return "transport"
	case KindData:
		return "data"
	}
	return "unknown"
}

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewValidation(message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Message: message,
	}
}

func NewAuth(message string) *AppError {
	return &AppError{
		Kind:    KindAuth,
		Message: message,
	}
}

func NewTransport(message string, err error) *AppError {
	return &AppError{
		Kind:    KindTransport,
		Message: message,
		Err:     err,
	}
}

func NewData(message string, err error) *AppError {
	return &AppError{
		Kind:    KindData,
		Message: message,
		Err:     err,
	}
}

// KindOf reports the Kind of err, or zero when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// MessageOf returns the user-facing message of err. Errors that are not
// AppErrors fall back to Error().
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
