package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrKind groups error codes into the categories the HTTP layer maps to statuses.
type ErrKind string

const (
	KindValidation     ErrKind = "validation"     // 400
	KindAuth           ErrKind = "auth"           // 401
	KindForbidden      ErrKind = "forbidden"      // 403
	KindNotFound       ErrKind = "not_found"      // 404
	KindConflict       ErrKind = "conflict"       // 409
	KindUpstream       ErrKind = "upstream"       // Error.Status, 502 when unset
	KindInfrastructure ErrKind = "infrastructure" // 503
	KindInternal       ErrKind = "internal"       // 500
)

// Stable machine codes. Clients match on these; do not rename.
const (
	CodeInvalidJSON        = "invalid_json"
	CodeMissingField       = "missing_field"
	CodeInvalidField       = "invalid_field"
	CodeValidationFailed   = "validation_failed"
	CodeNothingToUpdate    = "nothing_to_update"
	CodeInvalidCredentials = "invalid_credentials"
	CodeTokenMissing       = "token_missing"
	CodeTokenInvalid       = "token_invalid"
	CodeTokenExpired       = "token_expired"
	CodeTokenRevoked       = "token_revoked"
	CodeTargetMismatch     = "target_mismatch"
	CodeUserNotFound       = "user_not_found"
	CodeEmailExists        = "email_already_exists"
	CodeUpstreamFailure    = "upstream_failure"
	CodeProfileUnavailable = "profile_unavailable"
	CodeDBUnavailable      = "db_unavailable"
	CodeRabbitUnavailable  = "rabbit_unavailable"
	CodeHashFailed         = "hash_failed"
	CodeTokenSignFailed    = "token_sign_failed"
	CodeInternal           = "internal_error"
)

// Error is the only error type that crosses the application boundary.
// Message is safe to show to clients; Cause is for logs only.
// Status is honoured for KindUpstream so a downstream failure keeps its status.
type Error struct {
	Kind    ErrKind
	Code    string
	Message string
	Meta    map[string]string
	Status  int
	Cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s/%s: %s", e.Kind, e.Code, e.Message)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind ErrKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind ErrKind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

func WithMeta(err *Error, meta map[string]string) *Error {
	err.Meta = meta
	return err
}

// Is reports whether err wraps a *Error with the given code.
func Is(err error, code string) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// request shape

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, CodeInvalidJSON, "invalid JSON body", cause)
}

func ErrMissingField(field string) *Error {
	return WithMeta(New(KindValidation, CodeMissingField, "missing required field"),
		map[string]string{"field": field})
}

func ErrInvalidField(field, reason string) *Error {
	return WithMeta(New(KindValidation, CodeInvalidField, "invalid field"),
		map[string]string{"field": field, "reason": reason})
}

// ErrValidationFailed carries one message per offending field.
func ErrValidationFailed(fields map[string]string) *Error {
	return WithMeta(New(KindValidation, CodeValidationFailed, "request validation failed"), fields)
}

func ErrNothingToUpdate() *Error {
	return New(KindValidation, CodeNothingToUpdate, "no fields to update")
}

// credentials and tokens

// ErrInvalidCredentials is returned for every login failure so that unknown
// emails and wrong passwords look the same.
func ErrInvalidCredentials() *Error {
	return New(KindAuth, CodeInvalidCredentials, "Invalid email or password")
}

func ErrTokenMissing() *Error { return New(KindAuth, CodeTokenMissing, "no token provided") }
func ErrTokenInvalid() *Error { return New(KindAuth, CodeTokenInvalid, "invalid token") }
func ErrTokenExpired() *Error { return New(KindAuth, CodeTokenExpired, "token is expired") }
func ErrTokenRevoked() *Error { return New(KindAuth, CodeTokenRevoked, "token has been revoked") }

// ownership

// ErrTargetMismatch is returned when the caller tries to mutate another account.
func ErrTargetMismatch() *Error {
	return New(KindForbidden, CodeTargetMismatch, "cannot modify another user")
}

// lookups

func ErrUserNotFound() *Error { return New(KindNotFound, CodeUserNotFound, "User not found") }

func ErrEmailAlreadyExists() *Error {
	return New(KindConflict, CodeEmailExists, "Email already exists")
}

// downstream services

// ErrUpstream surfaces a downstream failure with its own status and message.
// Statuses outside 4xx/5xx collapse to 502.
func ErrUpstream(status int, msg string) *Error {
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	e := New(KindUpstream, CodeUpstreamFailure, msg)
	e.Status = status
	return e
}

func ErrProfileUnavailable(cause error) *Error {
	e := Wrap(KindUpstream, CodeProfileUnavailable, "profile service unavailable", cause)
	e.Status = http.StatusBadGateway
	return e
}

// infrastructure

func ErrDBUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, CodeDBUnavailable, "database unavailable", cause)
}

func ErrRabbitUnavailable(cause error) *Error {
	return Wrap(KindInfrastructure, CodeRabbitUnavailable, "message broker unavailable", cause)
}

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, CodeHashFailed, "password hashing failed", cause)
}

func ErrTokenSignFailed(cause error) *Error {
	return Wrap(KindInternal, CodeTokenSignFailed, "token signing failed", cause)
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, CodeInternal, "internal error", cause)
}
