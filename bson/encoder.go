// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/ejdb/ejdb-go/bson/bsoncore"
	"github.com/ejdb/ejdb-go/bson/bsonoptions"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// This is here so that during testing we can change it and not require
// allocating a 2GB slice.
var maxSize int64 = math.MaxInt32

type errMaxDocumentSizeExceeded struct {
	size int64
}

func (mdse errMaxDocumentSizeExceeded) Error() string {
	return fmt.Sprintf("document size (%d) is larger than the max int32", mdse.size)
}

// ErrInvalidCString indicates that a regex pattern or options string contains
// a null byte and cannot be written as a cstring.
var ErrInvalidCString = errors.New("cstring contains a null byte")

// ErrAppendOnlySink indicates that a seekable writer did not write at its seek
// position, as happens with files opened with os.O_APPEND. Such writers need
// bsonoptions.Encoder().SetSeekable(false).
var ErrAppendOnlySink = errors.New("sink does not write at its seek position")

// Encoder writes Documents to an io.Writer in the BSON wire format.
//
// When the writer is an io.WriteSeeker whose position can be queried, each
// document is written in a single pass: four bytes are reserved for the
// length, the elements and terminator are written, and the length is then
// back-patched. Any other writer gets each document serialized into memory
// first so the length can be written ahead of it. Both strategies produce the
// same bytes, and nested documents use the same strategy as their parent.
//
// If encoding fails, a buffered write leaves the writer untouched. A seekable
// writer keeps the bytes of the elements written before the failure, and its
// position is moved back to where the document started.
//
// A file opened with os.O_APPEND reports a position but writes every byte at
// its end, so the length cannot be back-patched. The encoder detects this and
// fails with ErrAppendOnlySink; the output written so far is not a valid
// document. Encode to such files with SetSeekable(false).
type Encoder struct {
	w        io.Writer
	log      logrus.FieldLogger
	seekable bool
	dbref    bsonoptions.DBRefPolicy
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...*bsonoptions.EncoderOptions) *Encoder {
	o := bsonoptions.MergeEncoderOptions(opts...)
	return &Encoder{
		w:        w,
		log:      o.Logger,
		seekable: *o.Seekable,
		dbref:    *o.DBRefPolicy,
	}
}

// Encode writes the BSON encoding of d to the underlying writer.
func (e *Encoder) Encode(d *Document) error {
	_, err := e.encodeTop(d)
	return err
}

func (e *Encoder) encodeTop(d *Document) (int64, error) {
	strategy := "buffer"
	if _, ok := e.seeker(e.w); ok {
		strategy = "seek"
	}
	n, err := e.encode(e.w, d)
	if err != nil {
		return 0, err
	}
	e.log.WithFields(logrus.Fields{
		"strategy": strategy,
		"size":     n,
		"elements": d.Len(),
	}).Debug("encoded BSON document")
	return n, nil
}

// seeker returns w as an io.WriteSeeker together with its current position
// if w supports seeking and the encoder is allowed to use it.
func (e *Encoder) seeker(w io.Writer) (int64, bool) {
	if !e.seekable {
		return 0, false
	}
	ws, ok := w.(io.WriteSeeker)
	if !ok {
		return 0, false
	}
	pos, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, false
	}
	return pos, true
}

func (e *Encoder) encode(w io.Writer, d *Document) (int64, error) {
	if start, ok := e.seeker(w); ok {
		return e.encodeSeekable(w.(io.WriteSeeker), start, d)
	}
	return e.encodeBuffered(w, d)
}

func (e *Encoder) encodeSeekable(ws io.WriteSeeker, start int64, d *Document) (int64, error) {
	var lengthPlaceholder [4]byte
	if _, err := ws.Write(lengthPlaceholder[:]); err != nil {
		return 0, errors.Wrap(err, "cannot reserve document length")
	}
	if err := checkPosition(ws, start+4); err != nil {
		return 0, err
	}
	rewind := func(err error) (int64, error) {
		if _, serr := ws.Seek(start, io.SeekStart); serr != nil {
			return 0, errors.Wrapf(err, "cannot rewind sink: %v", serr)
		}
		return 0, err
	}

	for _, v := range d.Values() {
		if err := e.writeElement(ws, v); err != nil {
			return rewind(err)
		}
	}
	if _, err := ws.Write([]byte{0x00}); err != nil {
		return rewind(errors.Wrap(err, "cannot write document terminator"))
	}

	end, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return rewind(errors.Wrap(err, "cannot determine sink position"))
	}
	size := end - start
	if size > maxSize {
		return rewind(errMaxDocumentSizeExceeded{size: size})
	}
	if _, err := ws.Seek(start, io.SeekStart); err != nil {
		return 0, errors.Wrap(err, "cannot seek to document length")
	}
	if _, err := ws.Write(bsoncore.AppendInt32(lengthPlaceholder[:0], int32(size))); err != nil {
		return 0, errors.Wrap(err, "cannot write document length")
	}
	if err := checkPosition(ws, start+4); err != nil {
		return 0, err
	}
	if _, err := ws.Seek(end, io.SeekStart); err != nil {
		return 0, errors.Wrap(err, "cannot seek to document end")
	}
	return size, nil
}

// checkPosition fails with ErrAppendOnlySink unless ws is positioned at want.
func checkPosition(ws io.WriteSeeker, want int64) error {
	pos, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return errors.Wrap(err, "cannot determine sink position")
	}
	if pos != want {
		return errors.Wrapf(ErrAppendOnlySink, "position is %d after writing the length at %d", pos, want-4)
	}
	return nil
}

func (e *Encoder) encodeBuffered(w io.Writer, d *Document) (int64, error) {
	var buf bytes.Buffer
	for _, v := range d.Values() {
		if err := e.writeElement(&buf, v); err != nil {
			return 0, err
		}
	}

	size := int64(buf.Len()) + 4 + 1
	if size > maxSize {
		return 0, errMaxDocumentSizeExceeded{size: size}
	}
	out := make([]byte, 0, size)
	out = bsoncore.AppendInt32(out, int32(size))
	out = append(out, buf.Bytes()...)
	out = append(out, 0x00)
	n, err := w.Write(out)
	if err != nil {
		return int64(n), errors.Wrap(err, "cannot write document")
	}
	return int64(n), nil
}

// writeElement writes the type, key and payload of v to w.
func (e *Encoder) writeElement(w io.Writer, v *Value) error {
	if v.t == TypeEOO {
		return nil
	}
	if !bsoncore.ValidCString(v.key) {
		return errors.Wrapf(ErrInvalidKey, "key %q contains a null byte", v.key)
	}

	b := bsoncore.AppendHeader(make([]byte, 0, len(v.key)+2+8), byte(v.t), v.key)

	switch v.t {
	case TypeNull, TypeUndefined, TypeMaxKey, TypeMinKey:
	case TypeObjectID:
		b = bsoncore.AppendObjectID(b, v.ObjectID())
	case TypeString, TypeJavaScript, TypeSymbol:
		b = bsoncore.AppendString(b, v.data.(string))
	case TypeBoolean:
		b = bsoncore.AppendBoolean(b, v.Boolean())
	case TypeInt32:
		b = bsoncore.AppendInt32(b, v.Int32())
	case TypeInt64:
		b = bsoncore.AppendInt64(b, v.Int64())
	case TypeEmbeddedDocument, TypeArray:
		if _, err := w.Write(b); err != nil {
			return errors.Wrap(err, "cannot write element header")
		}
		if _, err := e.encode(w, v.data.(*Document)); err != nil {
			return errors.Wrapf(err, "element %q", v.key)
		}
		return nil
	case TypeDateTime:
		b = bsoncore.AppendDateTime(b, dateTimeMillis(v.DateTime()))
	case TypeDouble:
		b = bsoncore.AppendDouble(b, v.Double())
	case TypeRegex:
		re := v.Regex()
		if !bsoncore.ValidCString(re.Pattern) || !bsoncore.ValidCString(re.Options) {
			return errors.Wrapf(ErrInvalidCString, "regex element %q", v.key)
		}
		b = bsoncore.AppendRegex(b, re.Pattern, re.Options)
	case TypeBinary:
		bin := v.Binary()
		b = bsoncore.AppendBinary(b, bin.Subtype, bin.Data)
	case TypeDBPointer:
		if e.dbref == bsonoptions.DBRefSkip {
			e.log.WithField("key", v.key).Warn("DBRef values are not supported, element dropped")
			return nil
		}
		return UnsupportedOperationError{
			Op:     "encode",
			Reason: fmt.Sprintf("DBRef element %q cannot be encoded", v.key),
		}
	case TypeTimestamp:
		ts := v.Timestamp()
		b = bsoncore.AppendTimestamp(b, ts.Increment, ts.Seconds)
	case TypeCodeWithScope:
		cws, err := e.codeWithScopePayload(v.CodeWithScope())
		if err != nil {
			return errors.Wrapf(err, "element %q", v.key)
		}
		b = append(b, cws...)
	default:
		return UnknownTypeError{Type: v.t, Key: v.key}
	}

	if _, err := w.Write(b); err != nil {
		return errors.Wrapf(err, "cannot write element %q", v.key)
	}
	return nil
}

// codeWithScopePayload serializes the code and scope into memory and returns
// them prefixed by their total length, which counts the prefix itself.
func (e *Encoder) codeWithScopePayload(cws CodeWithScope) ([]byte, error) {
	var buf bytes.Buffer
	idx, b := bsoncore.ReserveLength(make([]byte, 0, 4+4+len(cws.Code)+1))
	b = bsoncore.AppendString(b, cws.Code)
	buf.Write(b)
	if _, err := e.encodeBuffered(&buf, cws.Scope); err != nil {
		return nil, err
	}
	out := buf.Bytes()
	return bsoncore.UpdateLength(out, idx, int32(len(out))), nil
}
