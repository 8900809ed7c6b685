package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the API surfaces.
type Kind int

const (
	Internal Kind = iota
	Validation
	Unauthenticated
	AccessDenied
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "ValidationError"
	case Unauthenticated:
		return "Unauthenticated"
	case AccessDenied:
		return "AccessDenied"
	case NotFound:
		return "NotFound"
	default:
		return "ConflictOrInternal"
	}
}

// Status returns the HTTP status code used for the kind.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case AccessDenied:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified, user-facing error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind and message so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

var (
	ErrNoToken        = &Error{Kind: Unauthenticated, Message: "No token provided"}
	ErrInvalidToken   = &Error{Kind: Unauthenticated, Message: "Invalid token"}
	ErrSessionExpired = &Error{Kind: Unauthenticated, Message: "Token is invalid or expired"}
	ErrAccessDenied   = &Error{Kind: AccessDenied, Message: "Access denied"}

	// ErrInternal stands in for unexpected failures in client responses.
	ErrInternal = &Error{Kind: Internal, Message: "Internal Server Error"}
)

func Validationf(format string, args ...any) error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies an unexpected failure as Internal.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: Internal, Message: fmt.Sprintf("%s: %v", msg, err), Err: err}
}

// Public returns err as it may be shown to a client. Internal failures are
// replaced by ErrInternal so storage details stay in the server log.
func Public(err error) error {
	if err == nil || KindOf(err) != Internal {
		return err
	}
	return ErrInternal
}

// KindOf reports the kind of err; unclassified errors are Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Extensions exposes the kind to GraphQL clients as errors[].extensions.code.
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Kind.String()}
}
