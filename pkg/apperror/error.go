package apperror

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

// Kind is the machine-readable error code rendered in the response envelope.
type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindDuplicate       Kind = "DUPLICATE_ERROR"
	KindDatabase        Kind = "DATABASE_ERROR"
	KindFileUpload      Kind = "FILE_UPLOAD_ERROR"
	KindTooManyRequests Kind = "TOO_MANY_REQUESTS"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Status  int          `json:"-"`
	Kind    Kind         `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
	Err     error        `json:"-"`
	Stack   []byte       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(status int, kind Kind, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func Validation(message string, details ...FieldError) *AppError {
	e := New(http.StatusBadRequest, KindValidation, message, nil)
	e.Details = details
	return e
}

// NotFound builds "<resource> not found".
func NotFound(resource string) *AppError {
	return New(http.StatusNotFound, KindNotFound, resource+" not found", nil)
}

// Duplicate reports a uniqueness conflict on field.
func Duplicate(field string) *AppError {
	e := New(http.StatusConflict, KindDuplicate, fmt.Sprintf("A record with this %s already exists", field), nil)
	e.Details = []FieldError{{Field: field, Message: "already exists"}}
	return e
}

// Database wraps a storage failure. The cause and its stack are kept for
// logging and never rendered.
func Database(message string, err error) *AppError {
	e := New(http.StatusInternalServerError, KindDatabase, message, err)
	if err != nil {
		e.Stack = goerrors.Wrap(err, 1).Stack()
	}
	return e
}

func FileUpload(message string) *AppError {
	return New(http.StatusBadRequest, KindFileUpload, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, KindTooManyRequests, message, nil)
}

func Internal(err error) *AppError {
	e := New(http.StatusInternalServerError, KindInternal, "Internal server error", err)
	if err != nil {
		e.Stack = goerrors.Wrap(err, 1).Stack()
	}
	return e
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// Wrap returns typed errors unchanged and turns anything else into a
// DatabaseError carrying message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Database(message, err)
}
