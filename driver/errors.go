package driver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"modernc.org/sqlite"
)

// Predefined errors
var (
	// ErrInvalidPosition is returned when a value is bound to a position below 1
	ErrInvalidPosition = errors.New("sqlmodel driver: invalid parameter position")

	// ErrClosed is returned when a closed connection or statement is used
	ErrClosed = errors.New("sqlmodel driver: connection is closed")

	// ErrArgumentCount is returned when the bound values do not match the
	// placeholders of a statement
	ErrArgumentCount = errors.New("sqlmodel driver: wrong number of arguments")
)

// Error is a structured database failure.
type Error struct {
	// Message is the text reported by the driver
	Message string
	// DatabaseMessage is the database-specific description of Code, if known
	DatabaseMessage string
	// Code is the native error code, empty when unknown
	Code string
	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// newError decodes err into an *Error. SQLite errors carry their result code
// and its description; other drivers are decoded through the Code() int or
// SQLState() string methods many of them expose.
func newError(err error) *Error {
	var driverErr *Error
	if errors.As(err, &driverErr) {
		return driverErr
	}

	e := &Error{Message: err.Error(), Err: err}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		e.Code = strconv.Itoa(code)
		e.DatabaseMessage = sqliteCodeText(code)
		return e
	}

	var stateErr interface{ SQLState() string }
	if errors.As(err, &stateErr) {
		e.Code = stateErr.SQLState()
		return e
	}

	var codeErr interface{ Code() int }
	if errors.As(err, &codeErr) {
		e.Code = strconv.Itoa(codeErr.Code())
	}
	return e
}

// sqliteCodeText describes an SQLite result code, falling back to the
// primary code when an extended code has no description.
func sqliteCodeText(code int) string {
	if text, ok := sqlite.ErrorCodeString[code]; ok {
		return text
	}
	return sqlite.ErrorCodeString[code&0xff]
}

// argumentCountMessages are the texts database/sql and modernc.org/sqlite
// report when the arguments do not cover the placeholders. Both are plain
// errors without a sentinel.
var argumentCountMessages = []string{
	" arguments, got ",
	"missing argument with index ",
	"missing named argument ",
}

// newBindError tags a placeholder count mismatch with ErrArgumentCount and
// returns nil for any other error.
func newBindError(err error) *Error {
	msg := err.Error()
	for _, text := range argumentCountMessages {
		if strings.Contains(msg, text) {
			return &Error{Message: msg, Err: fmt.Errorf("%w: %w", ErrArgumentCount, err)}
		}
	}
	return nil
}
