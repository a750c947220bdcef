// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonoptions

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DBRefPolicy controls what the encoder does with DBRef values.
type DBRefPolicy int

// These constants are the valid DBRef policies.
const (
	// DBRefError fails the encode with an unsupported operation error.
	DBRefError DBRefPolicy = iota
	// DBRefSkip drops the element from the output and logs a warning.
	DBRefSkip
)

func (p DBRefPolicy) String() string {
	switch p {
	case DBRefError:
		return "error"
	case DBRefSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// EncoderOptions represents all possible options for document encoding.
type EncoderOptions struct {
	Logger      logrus.FieldLogger // Receives debug and warning entries. Defaults to a logger that discards output.
	Seekable    *bool              // Specifies if an io.WriteSeeker sink may be back-patched in place. Defaults to true.
	DBRefPolicy *DBRefPolicy       // Specifies how DBRef values are handled. Defaults to DBRefError.
}

// Encoder creates a new *EncoderOptions
func Encoder() *EncoderOptions {
	return &EncoderOptions{}
}

// SetLogger specifies the logger used by the encoder.
func (e *EncoderOptions) SetLogger(l logrus.FieldLogger) *EncoderOptions {
	e.Logger = l
	return e
}

// SetSeekable specifies if an io.WriteSeeker sink may be back-patched in place. When false, every
// document is buffered in memory before it is written. Defaults to true.
func (e *EncoderOptions) SetSeekable(b bool) *EncoderOptions {
	e.Seekable = &b
	return e
}

// SetDBRefPolicy specifies how DBRef values are handled. Defaults to DBRefError.
func (e *EncoderOptions) SetDBRefPolicy(p DBRefPolicy) *EncoderOptions {
	e.DBRefPolicy = &p
	return e
}

// MergeEncoderOptions combines the given *EncoderOptions into a single *EncoderOptions in a last one wins fashion.
// Unset fields of the result are filled with their defaults.
func MergeEncoderOptions(opts ...*EncoderOptions) *EncoderOptions {
	seekable := true
	policy := DBRefError
	e := &EncoderOptions{
		Logger:      discardLogger,
		Seekable:    &seekable,
		DBRefPolicy: &policy,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Logger != nil {
			e.Logger = opt.Logger
		}
		if opt.Seekable != nil {
			e.Seekable = opt.Seekable
		}
		if opt.DBRefPolicy != nil {
			e.DBRefPolicy = opt.DBRefPolicy
		}
	}

	return e
}

var discardLogger = newDiscardLogger()

func newDiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
