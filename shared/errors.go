package shared

import "errors"

type ErrorKind int

const (
	// KindInternal errors reach the user only as a generic failure reply.
	KindInternal ErrorKind = iota
	// KindUsage marks malformed or incomplete commands; the Message is the
	// usage hint sent back to the chat. Never logged as an audit entry.
	KindUsage
	// KindUser marks operational failures the user should see verbatim,
	// e.g. a meme render that could not decode its source.
	KindUser
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Usage builds a usage-hint error for a malformed command.
func Usage(message string) error {
	return &AppError{Kind: KindUsage, Message: message}
}

// UserError wraps an operational failure with a user-facing message.
func UserError(message string, err error) error {
	return &AppError{Kind: KindUser, Message: message, Err: err}
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
