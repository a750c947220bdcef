// Copyright (C) MongoDB, Inc. 2025-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bufio"
	"bytes"
	"io"
)

// streamingByteSrc reads from an io.Reader wrapped in a bufio.Reader. The
// caller reads the BSON length header first; the source then never reads past
// the declared end of the document, so the underlying reader is left
// positioned at the next document.
//
// Note: this approach trades memory usage for extra buffering and reader calls,
// so it is slower than the in-memory bufferedByteSrc.
type streamingByteSrc struct {
	br     *bufio.Reader
	offset int64 // offset is the current read position in the document
	limit  int64 // limit is the declared document length
}

var _ byteSrc = (*streamingByteSrc)(nil)

// newStreamingByteSrc returns a source positioned just after a length prefix
// that declared length bytes.
func newStreamingByteSrc(r io.Reader, length int32) *streamingByteSrc {
	return &streamingByteSrc{
		br:     bufio.NewReader(io.LimitReader(r, int64(length)-4)),
		offset: 4,
		limit:  int64(length),
	}
}

// smallRead is the largest payload allocated up front. Longer payloads are
// copied into a growing buffer so a forged length cannot force a large
// allocation before the bytes arrive.
const smallRead = 4096

func (s *streamingByteSrc) next(n int64) ([]byte, error) {
	if n <= smallRead {
		p := make([]byte, n)
		m, err := io.ReadFull(s.br, p)
		s.offset += int64(m)
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return p, err
	}

	var buf bytes.Buffer
	m, err := io.CopyN(&buf, s.br, n)
	s.offset += m
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return buf.Bytes(), err
}

// ReadByte returns the next byte and advances offset by 1.
func (s *streamingByteSrc) ReadByte() (byte, error) {
	c, err := s.br.ReadByte()
	if err == nil {
		s.offset++
	}
	return c, err
}

// readSlice reads until the first occurrence of delim, returning a slice
// containing the data up to and including the delimiter, and advances offset
// past it; errors if delim not found.
func (s *streamingByteSrc) readSlice(delim byte) ([]byte, error) {
	var full [][]byte
	var frag []byte
	var err error
	var n int

	for {
		if len(frag) > 0 {
			// Make a copy of the fragment to accumulate full buffers.
			full = append(full, bytes.Clone(frag))
		}
		frag, err = s.br.ReadSlice(delim)
		n += len(frag)
		if err != bufio.ErrBufferFull {
			break
		}
	}
	s.offset += int64(n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}

	if len(full) == 0 {
		return frag, err
	}

	buf := make([]byte, 0, n)
	for i := range full {
		buf = append(buf, full[i]...)
	}
	return append(buf, frag...), err
}

func (s *streamingByteSrc) pos() int64 {
	return s.offset
}

func (s *streamingByteSrc) remaining() int64 {
	return s.limit - s.offset
}
