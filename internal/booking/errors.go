package booking

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
)

// Kind classifies engine failures for the request layer.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindBadRequest Kind = "bad_request"
	KindConflict   Kind = "conflict"
	KindInternal   Kind = "internal"
)

const pgUniqueViolation = "23505"

// Error is the typed failure returned by every engine operation.
type Error struct {
	Op      string
	Kind    Kind
	Message string
	// Reasons lists every individual problem when several were found at once.
	Reasons []string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if len(e.Reasons) > 0 {
		msg += ": " + strings.Join(e.Reasons, "; ")
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(op string, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Op: op, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(op, format string, args ...interface{}) *Error {
	return newError(op, KindNotFound, format, args...)
}

func badRequest(op, format string, args ...interface{}) *Error {
	return newError(op, KindBadRequest, format, args...)
}

func conflict(op, format string, args ...interface{}) *Error {
	return newError(op, KindConflict, format, args...)
}

// KindOf classifies any error; errors not produced by the engine are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonsOf returns the aggregated reasons carried by an engine error.
func ReasonsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reasons
	}
	return nil
}

// persistenceError turns a raw storage failure into a typed one. Unique
// constraint violations are conflicts, everything else is internal.
func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &Error{Op: op, Kind: KindConflict, Message: "duplicate value violates " + pgErr.ConstraintName, Err: err}
	}
	return &Error{Op: op, Kind: KindInternal, Message: "storage failure", Err: err}
}
