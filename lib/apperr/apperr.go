// Package apperr is the error taxonomy shared by the service layers and the
// HTTP surface. Store failures become Database, integrity faults Internal.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindValidation
	KindUnauthorized
	KindDatabase
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindDatabase:
		return "database"
	default:
		return "internal"
	}
}

// FieldError names one request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var ErrUnauthorized = &Error{Kind: KindUnauthorized, Message: "Unauthorized"}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func BadRequest(message string) error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func BadRequestf(format string, args ...any) error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized() error {
	return ErrUnauthorized
}

func Validation(fields []FieldError) error {
	return &Error{Kind: KindValidation, Message: "Validation failed", Fields: fields}
}

func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

func Database(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: KindDatabase, Message: op, Err: err}
}

// KindOf reports the kind of err; anything outside the taxonomy is Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest, KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text a client may see; Internal and Database details stay in the log.
func PublicMessage(err error) string {
	var ae *Error
	if !errors.As(err, &ae) {
		return "Internal server error"
	}
	switch ae.Kind {
	case KindInternal, KindDatabase:
		return "Internal server error"
	default:
		return ae.Message
	}
}

func FieldsOf(err error) []FieldError {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Fields
	}
	return nil
}
