package sqlmodel

import (
	"errors"

	sqldriver "github.com/mtoolkit/sqlmodel/driver"
)

// ErrorType classifies where a query failed. The numeric values are stable.
type ErrorType int

const (
	// ErrorTypeNone means no error occurred
	ErrorTypeNone ErrorType = 0
	// ErrorTypeConnection means the statement could not be prepared on the connection
	ErrorTypeConnection ErrorType = 1
	// ErrorTypeStatement means the statement failed while executing
	ErrorTypeStatement ErrorType = 2
	// ErrorTypeTransaction means a transaction failed
	ErrorTypeTransaction ErrorType = 3
	// ErrorTypeUnknown means the failure could not be classified
	ErrorTypeUnknown ErrorType = 4
	// ErrorTypeBinding means a parameter could not be bound
	ErrorTypeBinding ErrorType = 5
)

// String returns the string representation of ErrorType
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeNone:
		return "none"
	case ErrorTypeConnection:
		return "connection"
	case ErrorTypeStatement:
		return "statement"
	case ErrorTypeTransaction:
		return "transaction"
	case ErrorTypeBinding:
		return "binding"
	default:
		return "unknown"
	}
}

// SQLError describes the failure of the last query execution.
// The zero value means "no error".
type SQLError struct {
	driverText   string
	databaseText string
	errType      ErrorType
	code         string
	err          error
}

// NewSQLError creates an SQLError
func NewSQLError(driverText, databaseText string, errType ErrorType, code string) SQLError {
	return SQLError{
		driverText:   driverText,
		databaseText: databaseText,
		errType:      errType,
		code:         code,
	}
}

// newSQLErrorFrom classifies err as errType and decodes the driver details it carries
func newSQLErrorFrom(err error, errType ErrorType) SQLError {
	e := SQLError{driverText: err.Error(), errType: errType, err: err}

	var driverErr *sqldriver.Error
	if errors.As(err, &driverErr) {
		e.driverText = driverErr.Message
		e.databaseText = driverErr.DatabaseMessage
		e.code = driverErr.Code
		return e
	}

	var stateErr interface{ SQLState() string }
	if errors.As(err, &stateErr) {
		e.code = stateErr.SQLState()
	}
	return e
}

// DriverText returns the message reported by the driver
func (e SQLError) DriverText() string { return e.driverText }

// DatabaseText returns the message reported by the database
func (e SQLError) DatabaseText() string { return e.databaseText }

// Type returns the failure classification
func (e SQLError) Type() ErrorType { return e.errType }

// Code returns the native error code
func (e SQLError) Code() string { return e.code }

// HasError reports whether the SQLError describes an actual failure.
// It is false only when every field is at its zero value.
func (e SQLError) HasError() bool {
	return e.driverText != "" || e.databaseText != "" || e.errType != ErrorTypeNone || e.code != ""
}

// IsValid is an alias of HasError.
//
// Deprecated: the name reads as "no error"; use HasError.
func (e SQLError) IsValid() bool {
	return e.HasError()
}

// Text returns the database text and the driver text joined by " - ".
// Empty sides are kept.
func (e SQLError) Text() string {
	return e.databaseText + " - " + e.driverText
}

// Error implements the error interface
func (e SQLError) Error() string {
	return "sqlmodel: " + e.errType.String() + " error: " + e.Text()
}

// Unwrap returns the error the SQLError was decoded from, if any
func (e SQLError) Unwrap() error {
	return e.err
}
