// Package model provides domain model for sqlmodel
package model

import "errors"

// ErrReadOnly is returned when a write is attempted on a read-only model
var ErrReadOnly = errors.New("sqlmodel: model is read-only")
