package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error that knows its HTTP status.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches err to a copy of base.
func Wrap(err error, base *Error) *Error {
	clone := *base
	clone.Err = err
	return &clone
}

var (
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrMalformedFavorites = New("MALFORMED_FAVORITES", http.StatusInternalServerError, "stored favorites are not a valid teacher list")
	ErrStorage            = New("STORAGE_ERROR", http.StatusInternalServerError, "device storage is unavailable")
	ErrSuperseded         = New("SUPERSEDED", http.StatusConflict, "a newer filter submission replaced this one")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal)
}
