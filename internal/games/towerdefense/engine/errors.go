package engine

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a rejected command.
type ErrorCode string

const (
	CodeInvalidPlacement  ErrorCode = "INVALID_PLACEMENT"
	CodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	CodeUnknownEntity     ErrorCode = "UNKNOWN_ENTITY"
	CodeInvalidState      ErrorCode = "INVALID_STATE"
)

// CommandError is returned when a command is rejected. The session state is
// left untouched whenever one is returned.
type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%s]", e.Code)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is matches any CommandError with the same code, so the sentinels below
// work with errors.Is.
func (e *CommandError) Is(target error) bool {
	var t *CommandError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrInvalidPlacement  = &CommandError{Code: CodeInvalidPlacement}
	ErrInsufficientFunds = &CommandError{Code: CodeInsufficientFunds}
	ErrUnknownEntity     = &CommandError{Code: CodeUnknownEntity}
	ErrInvalidState      = &CommandError{Code: CodeInvalidState}
)

// ErrNegativeDelta is returned by Update for dt < 0.
var ErrNegativeDelta = errors.New("engine: negative delta time")

func rejectf(code ErrorCode, format string, args ...any) error {
	return &CommandError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of a CommandError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

// ValidationError reports bad authored data: layouts and rule tables.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
