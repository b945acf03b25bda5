// Package errors implements the error taxonomy shared by the agents and the
// record store: generation, validation, store, routing, and not-found kinds,
// each with defined surfacing behavior at the agent boundary.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary handling.
type Kind int

const (
	// KindGeneration indicates malformed or unparsable model output.
	KindGeneration Kind = iota

	// KindValidation indicates a schema or bounds violation on a candidate
	// record. The failing field is named in the message.
	KindValidation

	// KindStore indicates a connection, constraint, or transaction failure.
	// Store errors are always rolled back, never partially committed.
	KindStore

	// KindRouting indicates no handler could be identified for an utterance,
	// or a raw query was rejected by the safety classifier.
	KindRouting

	// KindNotFound indicates a delete or detail lookup on an absent name.
	KindNotFound
)

var kindNames = map[Kind]string{
	KindGeneration: "generation",
	KindValidation: "validation",
	KindStore:      "store",
	KindRouting:    "routing",
	KindNotFound:   "not_found",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error carries a kind alongside the usual message and wrapped cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and operation to an underlying error.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of err, or ok=false if err carries no kind.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return Is(err, KindNotFound)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return Is(err, KindValidation)
}
