package errors

import (
	stdErrors "errors"
	"fmt"
)

type AppError struct {
	Code Code
	Op   string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Op)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func WrapWithCode(code Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code: code,
		Op:   op,
		Err:  err,
	}
}

// New builds an AppError whose cause is a plain message.
func New(code Code, op, msg string) error {
	return &AppError{
		Code: code,
		Op:   op,
		Err:  stdErrors.New(msg),
	}
}

// CodeOf returns the code of the outermost AppError in err's chain, or "" if there is none.
func CodeOf(err error) Code {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Message is the cause text without the code/op prefix, suitable for a response body.
func Message(err error) string {
	var appErr *AppError
	if stdErrors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return err.Error()
}
