// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bsonoptions

import "github.com/sirupsen/logrus"

// DefaultMaxDepth is the deepest level of nested documents a decoder accepts by default.
const DefaultMaxDepth = 1024

// DecoderOptions represents all possible options for document decoding.
type DecoderOptions struct {
	Logger   logrus.FieldLogger // Receives debug entries for rejected input. Defaults to a logger that discards output.
	MaxDepth *int               // Specifies the maximum nesting of documents, arrays and scopes. Defaults to DefaultMaxDepth.
}

// Decoder creates a new *DecoderOptions
func Decoder() *DecoderOptions {
	return &DecoderOptions{}
}

// SetLogger specifies the logger used by the decoder.
func (d *DecoderOptions) SetLogger(l logrus.FieldLogger) *DecoderOptions {
	d.Logger = l
	return d
}

// SetMaxDepth specifies the maximum nesting of documents, arrays and scopes. Defaults to DefaultMaxDepth.
func (d *DecoderOptions) SetMaxDepth(depth int) *DecoderOptions {
	d.MaxDepth = &depth
	return d
}

// MergeDecoderOptions combines the given *DecoderOptions into a single *DecoderOptions in a last one wins fashion.
// Unset fields of the result are filled with their defaults.
func MergeDecoderOptions(opts ...*DecoderOptions) *DecoderOptions {
	depth := DefaultMaxDepth
	d := &DecoderOptions{
		Logger:   discardLogger,
		MaxDepth: &depth,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if opt.Logger != nil {
			d.Logger = opt.Logger
		}
		if opt.MaxDepth != nil {
			d.MaxDepth = opt.MaxDepth
		}
	}

	return d
}
