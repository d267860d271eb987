// Package parseerr defines the error kinds used across eagerparse. Each kind
// carries a human-readable diagnostic; everything that reaches a CLI or
// server boundary is meant to be printed once and acted on, never retried.
package parseerr

import "fmt"

// Kind distinguishes the error categories surfaced by eagerparse.
type Kind int

const (
	// InputParse is a malformed corpus line, bad header, or unreadable file.
	InputParse Kind = iota

	// TemplateParse is an unbalanced parenthesis, unknown operator, or
	// unknown location name in a feature template.
	TemplateParse

	// Invariant is an internal assertion failure: a transition
	// precondition was violated, or a non-terminal configuration had no
	// legal move. It indicates a bug, not bad input.
	Invariant

	// MissingVocabulary is a frozen-dictionary lookup of an unseen string.
	// It is handled silently (mapped to the absent id) and this kind exists
	// only for documentation; nothing in eagerparse constructs a
	// MissingVocabulary error value.
	MissingVocabulary

	// OutputFailure is an unopenable predictions file.
	OutputFailure

	// ConfigParse is a malformed TOML run-configuration file.
	ConfigParse

	// ModelStore is an unreadable model file/DB, or a fingerprint mismatch
	// on load.
	ModelStore

	// Auth is a bad API key or bearer token presented to the server.
	Auth
)

func (k Kind) String() string {
	switch k {
	case InputParse:
		return "input parse error"
	case TemplateParse:
		return "template parse error"
	case Invariant:
		return "internal invariant violation"
	case MissingVocabulary:
		return "missing vocabulary"
	case OutputFailure:
		return "output failure"
	case ConfigParse:
		return "config parse error"
	case ModelStore:
		return "model store error"
	case Auth:
		return "auth error"
	default:
		return "error"
	}
}

// Error is the concrete error type produced by every constructor in this
// package. Callers normally only need the Kind and Error() string; File/Line
// and the source-line/cursor rendering exist for the two kinds (InputParse,
// TemplateParse) that can point at an offending line of user input.
type Error struct {
	kind Kind
	msg  string
	wrap error

	file string
	line int // 1-indexed; 0 means unset

	sourceLine string
	col        int // 1-indexed; 0 means unset
}

func (e *Error) Error() string {
	msg := e.msg
	if e.wrap != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.wrap)
	}
	switch {
	case e.file != "" && e.line > 0:
		return fmt.Sprintf("%s: %s:%d: %s", e.kind, e.file, e.line, msg)
	case e.file != "":
		return fmt.Sprintf("%s: %s: %s", e.kind, e.file, msg)
	default:
		return fmt.Sprintf("%s: %s", e.kind, msg)
	}
}

// Unwrap returns the wrapped error, if any, so that errors.Is/As work
// against the underlying cause.
func (e *Error) Unwrap() error {
	return e.wrap
}

// Kind returns the error's category.
func (e *Error) Kind() Kind {
	return e.kind
}

// FullMessage renders the error along with the offending source line and a
// cursor pointing at the column, when those are available. Falls back to
// Error() otherwise.
func (e *Error) FullMessage() string {
	if e.sourceLine == "" {
		return e.Error()
	}
	cursor := make([]byte, 0, e.col)
	for i := 0; i < e.col-1; i++ {
		cursor = append(cursor, ' ')
	}
	cursor = append(cursor, '^')
	return fmt.Sprintf("%s\n%s\n%s", e.sourceLine, string(cursor), e.Error())
}

// NewInputParse reports a malformed corpus line at file:line.
func NewInputParse(file string, line int, format string, a ...interface{}) error {
	return &Error{kind: InputParse, file: file, line: line, msg: fmt.Sprintf(format, a...)}
}

// WrapInputParse wraps an underlying error (such as an os.Open failure) as
// an InputParse error.
func WrapInputParse(err error, file string, format string, a ...interface{}) error {
	return &Error{kind: InputParse, file: file, msg: fmt.Sprintf(format, a...), wrap: err}
}

// NewTemplateParse reports a malformed feature template, optionally with the
// offending source line and 1-indexed column for a cursor rendering.
func NewTemplateParse(sourceLine string, col int, format string, a ...interface{}) error {
	return &Error{kind: TemplateParse, sourceLine: sourceLine, col: col, msg: fmt.Sprintf(format, a...)}
}

// Invariantf panics with an Invariant-kind error. Callers enforcing
// transition preconditions and other "cannot happen" states use this
// instead of returning an error, since an invariant violation indicates a
// bug rather than recoverable bad input.
func Invariantf(format string, a ...interface{}) {
	panic(&Error{kind: Invariant, msg: fmt.Sprintf(format, a...)})
}

// NewOutputFailure wraps a failure to open or write the predictions file.
func NewOutputFailure(err error, format string, a ...interface{}) error {
	return &Error{kind: OutputFailure, msg: fmt.Sprintf(format, a...), wrap: err}
}

// NewConfigParse reports a malformed run-configuration file.
func NewConfigParse(err error, file string, format string, a ...interface{}) error {
	return &Error{kind: ConfigParse, file: file, msg: fmt.Sprintf(format, a...), wrap: err}
}

// NewModelStore reports a model store failure (unreadable file/DB, bad
// format, fingerprint mismatch).
func NewModelStore(err error, format string, a ...interface{}) error {
	return &Error{kind: ModelStore, msg: fmt.Sprintf(format, a...), wrap: err}
}

// NewAuth reports a bad API key or bearer token.
func NewAuth(format string, a ...interface{}) error {
	return &Error{kind: Auth, msg: fmt.Sprintf(format, a...)}
}

// AsInvariant recovers a panic value produced by Invariantf, returning the
// underlying error and true if r was one, else nil and false. Intended for
// use in a deferred recover() at a process or request boundary.
func AsInvariant(r interface{}) (error, bool) {
	if r == nil {
		return nil, false
	}
	if e, ok := r.(*Error); ok && e.kind == Invariant {
		return e, true
	}
	return nil, false
}
