// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"io"
	"time"
	"unicode/utf8"

	"github.com/ejdb/ejdb-go/bson/bsoncore"
	"github.com/ejdb/ejdb-go/bson/bsonoptions"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Iterator decodes the elements of one BSON document, in order, from a byte
// slice or a stream. Call Next to advance to an element and FetchCurrentValue
// to materialize it; elements that are not fetched are skipped.
//
//	it := bson.NewIterator(b)
//	for it.Next() != bson.TypeEOO {
//		v, err := it.FetchCurrentValue()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// All failures are reported as a *MalformedDocumentError.
type Iterator struct {
	src      byteSrc
	log      logrus.FieldLogger
	maxDepth int
	depth    int

	start  int64 // position of the length prefix
	length int32

	t     Type
	key   string
	value *Value
	done  bool
	err   error
}

// NewIterator returns an Iterator over the document held in b. Bytes after the
// declared document length are ignored.
func NewIterator(b []byte, opts ...*bsonoptions.DecoderOptions) *Iterator {
	it := newIterator(opts)
	length, _, ok := bsoncore.ReadInt32(b)
	switch {
	case !ok:
		it.fail(newMalformedDocumentError(0, io.ErrUnexpectedEOF, "cannot read document length"))
	case length < 5:
		it.fail(newMalformedDocumentError(0, nil, "document length %d is too small", length))
	case int64(length) > int64(len(b)):
		it.fail(newMalformedDocumentError(int64(len(b)), io.ErrUnexpectedEOF,
			"document length %d exceeds the %d bytes available", length, len(b)))
	default:
		it.src = &bufferedByteSrc{buf: b[:length], offset: 4}
		it.length = length
	}
	return it
}

// NewStreamIterator returns an Iterator reading one document from r. It reads
// no further than the end of the declared document.
func NewStreamIterator(r io.Reader, opts ...*bsonoptions.DecoderOptions) *Iterator {
	it := newIterator(opts)
	var lb [4]byte
	n, err := io.ReadFull(r, lb[:])
	if err != nil {
		it.fail(newMalformedDocumentError(int64(n), err, "cannot read document length"))
		return it
	}
	length, _, _ := bsoncore.ReadInt32(lb[:])
	if length < 5 {
		it.fail(newMalformedDocumentError(0, nil, "document length %d is too small", length))
		return it
	}
	it.src = newStreamingByteSrc(r, length)
	it.length = length
	return it
}

func newIterator(opts []*bsonoptions.DecoderOptions) *Iterator {
	o := bsonoptions.MergeDecoderOptions(opts...)
	return &Iterator{log: o.Logger, maxDepth: *o.MaxDepth}
}

// child returns an Iterator over the document starting at the current
// position of the shared source.
func (it *Iterator) child() (*Iterator, error) {
	c := &Iterator{src: it.src, log: it.log, maxDepth: it.maxDepth, depth: it.depth + 1}
	if c.depth > c.maxDepth {
		return nil, newMalformedDocumentError(it.src.pos(), nil, "nesting exceeds the maximum depth of %d", it.maxDepth)
	}
	c.start = it.src.pos()
	length, err := it.readInt32()
	if err != nil {
		return nil, err
	}
	if length < 5 {
		return nil, newMalformedDocumentError(c.start, nil, "document length %d is too small", length)
	}
	if int64(length)-4 > it.src.remaining() {
		return nil, newMalformedDocumentError(c.start, io.ErrUnexpectedEOF,
			"document length %d exceeds the %d bytes remaining", length, it.src.remaining()+4)
	}
	c.length = length
	return c, nil
}

// Next advances to the next element and returns its type. It returns TypeEOO
// once the end of the document is reached or when an error occurs; call Err to
// tell the two apart.
func (it *Iterator) Next() Type {
	if it.done || it.err != nil {
		return TypeEOO
	}
	if it.t != TypeEOO && it.value == nil {
		if _, err := it.readValue(); err != nil {
			it.fail(err)
			return TypeEOO
		}
	}
	it.t, it.key, it.value = TypeEOO, "", nil

	off := it.src.pos()
	b, err := it.src.ReadByte()
	if err != nil {
		it.fail(newMalformedDocumentError(off, io.ErrUnexpectedEOF, "missing document terminator"))
		return TypeEOO
	}
	t := Type(b)
	if t == TypeEOO {
		if consumed := it.src.pos() - it.start; consumed != int64(it.length) {
			it.fail(newMalformedDocumentError(off, nil,
				"document length %d does not match the %d bytes consumed", it.length, consumed))
			return TypeEOO
		}
		it.done = true
		return TypeEOO
	}
	if !t.IsValid() {
		it.fail(newMalformedDocumentError(off, UnknownTypeError{Type: t}, "invalid element type"))
		return TypeEOO
	}
	key, err := it.readCString()
	if err != nil {
		it.fail(err)
		return TypeEOO
	}
	it.t, it.key = t, key
	return t
}

// Type returns the type of the current element, or TypeEOO if there is none.
func (it *Iterator) Type() Type { return it.t }

// Key returns the key of the current element.
func (it *Iterator) Key() string { return it.key }

// Err returns the error that stopped iteration, or nil if none occurred.
func (it *Iterator) Err() error { return it.err }

// FetchCurrentValue decodes the current element. Nested documents, arrays and
// code with scope are decoded recursively. Calling it again before Next
// returns the same *Value.
func (it *Iterator) FetchCurrentValue() (*Value, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.t == TypeEOO {
		return nil, errors.New("bson: FetchCurrentValue called without a current element")
	}
	if it.value != nil {
		return it.value, nil
	}
	v, err := it.readValue()
	if err != nil {
		it.fail(err)
		return nil, err
	}
	it.value = v
	return v, nil
}

func (it *Iterator) fail(err error) {
	it.err = err
	it.done = true
	var mde *MalformedDocumentError
	if it.depth == 0 && errors.As(err, &mde) {
		it.log.WithError(err).WithFields(logrus.Fields{
			"offset": mde.Offset,
			"depth":  it.depth,
		}).Debug("rejecting malformed BSON")
	}
}

func (it *Iterator) readValue() (*Value, error) {
	key := it.key
	off := it.src.pos()
	switch it.t {
	case TypeDouble:
		b, err := it.readN(8)
		if err != nil {
			return nil, err
		}
		f, _, _ := bsoncore.ReadDouble(b)
		return C.Double(key, f), nil
	case TypeString, TypeJavaScript, TypeSymbol:
		s, err := it.readString()
		if err != nil {
			return nil, err
		}
		return &Value{t: it.t, key: key, data: s}, nil
	case TypeEmbeddedDocument, TypeArray:
		d, err := it.readDocument()
		if err != nil {
			return nil, errors.Wrapf(err, "element %q", key)
		}
		return &Value{t: it.t, key: key, data: d}, nil
	case TypeBinary:
		l, err := it.readInt32()
		if err != nil {
			return nil, err
		}
		if l < 0 {
			return nil, newMalformedDocumentError(off, nil, "binary length %d is negative", l)
		}
		subtype, err := it.readByte()
		if err != nil {
			return nil, err
		}
		data, err := it.readN(int64(l))
		if err != nil {
			return nil, err
		}
		return C.BinaryWithSubtype(key, data, subtype), nil
	case TypeUndefined, TypeNull, TypeMinKey, TypeMaxKey:
		return &Value{t: it.t, key: key}, nil
	case TypeObjectID:
		oid, err := it.readObjectID()
		if err != nil {
			return nil, err
		}
		return C.ObjectID(key, oid), nil
	case TypeBoolean:
		b, err := it.readByte()
		if err != nil {
			return nil, err
		}
		if b > 1 {
			return nil, newMalformedDocumentError(off, nil, "invalid boolean byte 0x%02X", b)
		}
		return C.Boolean(key, b == 1), nil
	case TypeDateTime:
		b, err := it.readN(8)
		if err != nil {
			return nil, err
		}
		ms, _, _ := bsoncore.ReadInt64(b)
		return C.DateTime(key, time.UnixMilli(ms).UTC()), nil
	case TypeRegex:
		pattern, err := it.readCString()
		if err != nil {
			return nil, err
		}
		options, err := it.readCString()
		if err != nil {
			return nil, err
		}
		return C.Regex(key, pattern, options), nil
	case TypeDBPointer:
		ns, err := it.readString()
		if err != nil {
			return nil, err
		}
		oid, err := it.readObjectID()
		if err != nil {
			return nil, err
		}
		return C.DBRef(key, ns, oid), nil
	case TypeCodeWithScope:
		total, err := it.readInt32()
		if err != nil {
			return nil, err
		}
		code, err := it.readString()
		if err != nil {
			return nil, err
		}
		scope, err := it.readDocument()
		if err != nil {
			return nil, errors.Wrapf(err, "element %q", key)
		}
		if consumed := it.src.pos() - off; consumed != int64(total) {
			return nil, newMalformedDocumentError(off, nil,
				"code with scope length %d does not match the %d bytes consumed", total, consumed)
		}
		return C.CodeWithScope(key, code, scope), nil
	case TypeInt32:
		i, err := it.readInt32()
		if err != nil {
			return nil, err
		}
		return C.Int32(key, i), nil
	case TypeTimestamp:
		b, err := it.readN(8)
		if err != nil {
			return nil, err
		}
		inc, rem, _ := bsoncore.ReadUint32(b)
		secs, _, _ := bsoncore.ReadUint32(rem)
		return C.Timestamp(key, inc, secs), nil
	case TypeInt64:
		b, err := it.readN(8)
		if err != nil {
			return nil, err
		}
		i, _, _ := bsoncore.ReadInt64(b)
		return C.Int64(key, i), nil
	default:
		return nil, newMalformedDocumentError(off, UnknownTypeError{Type: it.t, Key: key}, "invalid element type")
	}
}

func (it *Iterator) readDocument() (*Document, error) {
	c, err := it.child()
	if err != nil {
		return nil, err
	}
	return NewDocumentFromIterator(c)
}

func (it *Iterator) readN(n int64) ([]byte, error) {
	off := it.src.pos()
	if n > it.src.remaining() {
		return nil, newMalformedDocumentError(off, io.ErrUnexpectedEOF,
			"need %d bytes but only %d remain", n, it.src.remaining())
	}
	b, err := it.src.next(n)
	if err != nil {
		return nil, newMalformedDocumentError(off, err, "need %d bytes", n)
	}
	return b, nil
}

func (it *Iterator) readByte() (byte, error) {
	off := it.src.pos()
	b, err := it.src.ReadByte()
	if err != nil {
		return 0, newMalformedDocumentError(off, io.ErrUnexpectedEOF, "need 1 byte")
	}
	return b, nil
}

func (it *Iterator) readInt32() (int32, error) {
	b, err := it.readN(4)
	if err != nil {
		return 0, err
	}
	i, _, _ := bsoncore.ReadInt32(b)
	return i, nil
}

func (it *Iterator) readObjectID() (ObjectID, error) {
	b, err := it.readN(12)
	if err != nil {
		return NilObjectID, err
	}
	return ObjectIDFromBytes(b)
}

func (it *Iterator) readCString() (string, error) {
	off := it.src.pos()
	b, err := it.src.readSlice(0x00)
	if err != nil {
		return "", newMalformedDocumentError(off, err, "unterminated cstring")
	}
	b = b[:len(b)-1]
	if !utf8.Valid(b) {
		return "", newMalformedDocumentError(off, nil, "cstring is not valid UTF-8")
	}
	return string(b), nil
}

func (it *Iterator) readString() (string, error) {
	off := it.src.pos()
	l, err := it.readInt32()
	if err != nil {
		return "", err
	}
	if l < 1 {
		return "", newMalformedDocumentError(off, nil, "string length %d is too small", l)
	}
	b, err := it.readN(int64(l))
	if err != nil {
		return "", err
	}
	if b[l-1] != 0x00 {
		return "", newMalformedDocumentError(off, nil, "string is not null terminated")
	}
	b = b[:l-1]
	if !utf8.Valid(b) {
		return "", newMalformedDocumentError(off, nil, "string is not valid UTF-8")
	}
	return string(b), nil
}
