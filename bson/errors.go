// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"fmt"

	"github.com/go-stack/stack"
	"github.com/pkg/errors"
)

// ErrUnknownType is matched by errors.Is for every UnknownTypeError.
var ErrUnknownType = errors.New("unknown BSON type")

// ErrMalformedDocument is matched by errors.Is for every MalformedDocumentError.
var ErrMalformedDocument = errors.New("malformed BSON document")

// ErrUnsupportedOperation is matched by errors.Is for every UnsupportedOperationError.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// ErrInvalidKey indicates that a key cannot be written as a cstring because it
// contains a null byte.
var ErrInvalidKey = errors.New("invalid document key")

// ErrNilValue indicates that a nil *Value was provided when none was expected.
var ErrNilValue = errors.New("value is nil")

// UnknownTypeError is returned when a value carries a type tag the encoder or
// decoder does not recognize.
type UnknownTypeError struct {
	Type Type
	Key  string
}

// Error implements the error interface.
func (ute UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown BSON type 0x%02X for element %q", byte(ute.Type), ute.Key)
}

// Is reports whether target is ErrUnknownType.
func (ute UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

// MalformedDocumentError indicates that bytes being decoded are truncated or
// structurally invalid. Offset is the position in the input at which the
// problem was detected.
type MalformedDocumentError struct {
	Offset int64
	Msg    string
	Err    error
	Stack  stack.CallStack
}

func newMalformedDocumentError(offset int64, err error, format string, args ...interface{}) *MalformedDocumentError {
	return &MalformedDocumentError{
		Offset: offset,
		Msg:    fmt.Sprintf(format, args...),
		Err:    err,
		Stack:  stack.Trace().TrimRuntime(),
	}
}

// Error implements the error interface.
func (mde *MalformedDocumentError) Error() string {
	if mde.Err != nil {
		return fmt.Sprintf("malformed BSON document at offset %d: %s: %v", mde.Offset, mde.Msg, mde.Err)
	}
	return fmt.Sprintf("malformed BSON document at offset %d: %s", mde.Offset, mde.Msg)
}

// Unwrap returns the underlying error, usually from the byte source.
func (mde *MalformedDocumentError) Unwrap() error { return mde.Err }

// Is reports whether target is ErrMalformedDocument.
func (mde *MalformedDocumentError) Is(target error) bool { return target == ErrMalformedDocument }

// ErrorStack returns a string representing the stack at the point where the error occurred.
func (mde *MalformedDocumentError) ErrorStack() string {
	s := bytes.NewBufferString(mde.Error())
	s.WriteString(": [")

	for i, call := range mde.Stack {
		if i != 0 {
			s.WriteString(", ")
		}

		// go vet doesn't like %k even though it's part of stack's API.
		callFormat := "%k.%n %v"

		s.WriteString(fmt.Sprintf(callFormat, call, call, call))
	}

	s.WriteRune(']')

	return s.String()
}

// UnsupportedOperationError signals a capability gap rather than bad data.
type UnsupportedOperationError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (uoe UnsupportedOperationError) Error() string {
	return "unsupported operation " + uoe.Op + ": " + uoe.Reason
}

// Is reports whether target is ErrUnsupportedOperation.
func (uoe UnsupportedOperationError) Is(target error) bool { return target == ErrUnsupportedOperation }

// ElementTypeError specifies that a method to obtain a BSON value an incorrect type was called on a bson.Value.
// It is used as a panic value, since asking a Value for the wrong payload is a programming error.
type ElementTypeError struct {
	Method string
	Type   Type
}

// Error implements the error interface.
func (ete ElementTypeError) Error() string {
	return "Call of " + ete.Method + " on " + ete.Type.String() + " type"
}
