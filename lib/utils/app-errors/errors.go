package apperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
	KindInternal
)

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindUnauthorized:    http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindTooManyRequests: http.StatusTooManyRequests,
	KindInternal:        http.StatusInternalServerError,
}

var kindName = map[Kind]string{
	KindValidation:      "ValidationError",
	KindUnauthorized:    "UnauthorizedError",
	KindForbidden:       "ForbiddenError",
	KindNotFound:        "NotFoundError",
	KindConflict:        "ConflictError",
	KindTooManyRequests: "TooManyRequestsError",
	KindInternal:        "InternalError",
}

func (k Kind) String() string {
	if name, ok := kindName[k]; ok {
		return name
	}
	return "UnknownError"
}

// Error error de dominio con código estable y mensaje para el usuario
type Error struct {
	Kind    Kind
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Cause() error {
	return e.cause
}

// WithCause copia con causa, el mensaje visible no cambia
func (e *Error) WithCause(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, cause: cause}
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func NewValidation(code, message string) *Error {
	return newError(KindValidation, code, message)
}

func NewUnauthorized(code, message string) *Error {
	return newError(KindUnauthorized, code, message)
}

func NewForbidden(code, message string) *Error {
	return newError(KindForbidden, code, message)
}

func NewNotFound(code, message string) *Error {
	return newError(KindNotFound, code, message)
}

func NewConflict(code, message string) *Error {
	return newError(KindConflict, code, message)
}

func NewInternal(err error) *Error {
	return ErrInternal.WithCause(err)
}

// From devuelve el error tipado, cualquier otro se trata como interno
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}

func HTTPStatus(err error) int {
	appErr := From(err)
	if appErr == nil {
		return http.StatusOK
	}
	if status, ok := kindStatus[appErr.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func KindOf(err error) Kind {
	appErr := From(err)
	if appErr == nil {
		return 0
	}
	return appErr.Kind
}

func CodeOf(err error) string {
	appErr := From(err)
	if appErr == nil {
		return ""
	}
	return appErr.Code
}

func HasCode(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
