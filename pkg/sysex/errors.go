package sysex

import (
	"errors"
	"fmt"
)

// Decode failure causes, matched with errors.Is
var (
	ErrBadHeader    = errors.New("bad header")
	ErrBadChecksum  = errors.New("bad checksum")
	ErrInvalidField = errors.New("invalid field value")
	ErrTruncated    = errors.New("truncated data")
	ErrSizeMismatch = errors.New("data size mismatch")
)

// SizeError reports a buffer whose length differs from the entity size
type SizeError struct {
	Got  int
	Want int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%v: got %d bytes, want %d", ErrSizeMismatch, e.Got, e.Want)
}

func (e *SizeError) Unwrap() error {
	return ErrSizeMismatch
}

// DecodeError reports a structural problem found while decoding
type DecodeError struct {
	Cause  error  // one of the Err* sentinels
	Entity string // e.g. "bank", "single A-1"
	Field  string
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	msg := e.Cause.Error()
	if e.Entity != "" {
		msg = e.Entity + ": " + msg
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" in %s", e.Field)
	}
	msg += fmt.Sprintf(" at offset %d", e.Offset)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Within returns a copy of e relocated into an enclosing entity
func (e *DecodeError) Within(entity string, base int) *DecodeError {
	out := *e
	out.Offset += base
	if out.Entity == "" {
		out.Entity = entity
	} else if entity != "" {
		out.Entity = entity + " " + out.Entity
	}
	return &out
}

// HeaderError creates a DecodeError for a wrong header byte
func HeaderError(field string, offset int, got, want byte) *DecodeError {
	return &DecodeError{
		Cause:  ErrBadHeader,
		Field:  field,
		Offset: offset,
		Detail: fmt.Sprintf("got 0x%02X, want 0x%02X", got, want),
	}
}

// FieldError creates a DecodeError for a value outside its legal range
func FieldError(field string, offset, got, max int) *DecodeError {
	return &DecodeError{
		Cause:  ErrInvalidField,
		Field:  field,
		Offset: offset,
		Detail: fmt.Sprintf("value %d exceeds maximum %d", got, max),
	}
}

// ChecksumError creates a DecodeError for a checksum mismatch
func ChecksumError(offset int, got, want byte) *DecodeError {
	return &DecodeError{
		Cause:  ErrBadChecksum,
		Field:  "checksum",
		Offset: offset,
		Detail: fmt.Sprintf("got 0x%02X, computed 0x%02X", got, want),
	}
}
