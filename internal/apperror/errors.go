package apperror

import "errors"

// Kind classifies an error so the transport layer can pick a status code
// without inspecting message strings.
type Kind int

const (
	KindValidation Kind = iota + 1 // missing/invalid input -> 400
	KindNotFound                   // session/message/answer absent -> 404
	KindProvider                   // completion provider failed -> 500
	KindPersistence                // store read/write failed -> 500
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, never serialized to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Provider wraps a completion-provider failure. The client-facing message is
// generic; the cause stays wrapped for logs only.
func Provider(err error) *Error {
	return &Error{Kind: KindProvider, Message: "Internal server error", Err: err}
}

func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "Internal server error", Err: err}
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}
