// Copyright (C) MongoDB, Inc. 2025-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"io"
)

// byteSrc is the raw cursor the Iterator reads from. Positions are absolute
// offsets from the first byte of the top-level document.
type byteSrc interface {
	io.ByteReader

	// next returns the following n bytes in a newly allocated slice, or
	// io.ErrUnexpectedEOF if fewer remain. The slice never grows larger than
	// the bytes actually available.
	next(n int64) ([]byte, error)

	// readSlice returns the bytes up to and including delim.
	readSlice(delim byte) ([]byte, error)

	pos() int64

	// remaining returns how many bytes may still be read.
	remaining() int64
}

// bufferedByteSrc implements the low-level byteSrc interface by reading
// directly from an in-memory byte slice that holds exactly one document.
type bufferedByteSrc struct {
	buf    []byte // entire BSON document
	offset int64  // Current read index into buf
}

var _ byteSrc = (*bufferedByteSrc)(nil)

func (b *bufferedByteSrc) next(n int64) ([]byte, error) {
	if n > b.remaining() {
		b.offset = int64(len(b.buf))
		return nil, io.ErrUnexpectedEOF
	}
	p := make([]byte, n)
	copy(p, b.buf[b.offset:])
	b.offset += n
	return p, nil
}

// ReadByte returns the single byte at buf[offset] and advances offset by 1.
func (b *bufferedByteSrc) ReadByte() (byte, error) {
	if b.offset >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	b.offset++
	return b.buf[b.offset-1], nil
}

// readSlice scans buf[offset:] for the first occurrence of delim, returns
// buf[offset:idx+1], and advances offset past it; errors if delim not found.
func (b *bufferedByteSrc) readSlice(delim byte) ([]byte, error) {
	if b.offset >= int64(len(b.buf)) {
		return nil, io.EOF
	}

	rem := b.buf[b.offset:]
	idx := bytes.IndexByte(rem, delim)
	if idx < 0 {
		return nil, io.ErrUnexpectedEOF
	}

	result := rem[:idx+1]
	b.offset += int64(idx + 1)

	return result, nil
}

func (b *bufferedByteSrc) pos() int64 {
	return b.offset
}

func (b *bufferedByteSrc) remaining() int64 {
	return int64(len(b.buf)) - b.offset
}
