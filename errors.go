package sqlmodel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mtoolkit/sqlmodel/domain/model"
	sqldriver "github.com/mtoolkit/sqlmodel/driver"
)

// Standard error messages and error creation functions for consistency
var (
	// ErrInvalidParameterType is returned when a value of a non-bindable kind is bound
	ErrInvalidParameterType = errors.New("sqlmodel: invalid parameter type")

	// ErrInvalidBindKind indicates a parameter whose kind cannot be mapped to a
	// database bind type. It is an internal error, never a caller mistake.
	ErrInvalidBindKind = errors.New("sqlmodel: invalid bind kind")

	// ErrReadOnly is returned by write operations on read-only models
	ErrReadOnly = model.ErrReadOnly

	// ErrOutOfRange is returned when a cell outside the result is addressed
	ErrOutOfRange = errors.New("sqlmodel: out of range")

	// ErrIndexOutOfRange is returned when the cursor or a row index is outside the result
	ErrIndexOutOfRange = errors.New("sqlmodel: index out of range")

	// ErrUnsupportedConnection is returned when a connection handle of an unknown kind is supplied
	ErrUnsupportedConnection = errors.New("sqlmodel: connection not supported")

	// ErrNoConnection is returned when no connection is registered under the requested name
	ErrNoConnection = errors.New("sqlmodel: no connection")

	// ErrConversion is returned when a value cannot be coerced to the requested type
	ErrConversion = errors.New("sqlmodel: conversion failed")

	// ErrInvalidTarget is returned when a row is projected onto something other than a struct pointer
	ErrInvalidTarget = errors.New("sqlmodel: invalid target")

	// ErrUnsupportedFormat indicates an unsupported export format or compression
	ErrUnsupportedFormat = errors.New("sqlmodel: unsupported format")

	// ErrArgumentCount is reported by statements whose bound values do not
	// match their placeholders. Exec classifies it as a binding failure.
	ErrArgumentCount = sqldriver.ErrArgumentCount
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	Column    string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithColumn adds column context to the error
func (ec *ErrorContext) WithColumn(column string) *ErrorContext {
	ec.Column = column
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{fmt.Sprintf("sqlmodel: %s failed", ec.Operation)}

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.Column != "" {
		parts = append(parts, "column: "+ec.Column)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return errors.New(context)
}
