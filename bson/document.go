// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"bytes"
	"io"

	"github.com/ejdb/ejdb-go/bson/bsonoptions"
	"github.com/pkg/errors"
)

// ErrOutOfBounds indicates that an index provided to access something was invalid.
var ErrOutOfBounds = errors.New("out of bounds")

// Document is a mutable ordered map that represents a BSON document. The order
// in which elements are added is the order in which they are encoded.
//
// Keyed access is served by an index that is built from the element list on
// first use. Add does not check for duplicate keys; Set does. When duplicates
// exist the index always refers to the first element with the key, whether
// the index was built before or after the duplicates were added.
//
// A Document is not safe for concurrent mutation.
type Document struct {
	elems []*Value

	// index is nil while the document is unindexed. Once built it maps each
	// key to the first element in elems with that key.
	index map[string]*Value
}

// NewDocument creates a Document holding the given values in order. It panics
// if any value is nil.
func NewDocument(values ...*Value) *Document {
	d := &Document{elems: make([]*Value, 0, len(values))}
	for _, v := range values {
		d.Add(v)
	}
	return d
}

// Len returns the number of elements in the document, counting duplicates.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.elems)
}

// Indexed reports whether the key index has been built.
func (d *Document) Indexed() bool {
	return d != nil && d.index != nil
}

// Keys returns the keys of the elements in order, including duplicates.
func (d *Document) Keys() []string {
	keys := make([]string, 0, d.Len())
	if d == nil {
		return keys
	}
	for _, v := range d.elems {
		keys = append(keys, v.key)
	}
	return keys
}

// Values returns the elements of the document in order. The slice is a copy;
// the values are shared with the document.
func (d *Document) Values() []*Value {
	if d == nil {
		return nil
	}
	return append([]*Value(nil), d.elems...)
}

// ElementAt retrieves the element at the given position in the document.
func (d *Document) ElementAt(index uint) (*Value, error) {
	if int(index) >= d.Len() {
		return nil, ErrOutOfBounds
	}
	return d.elems[index], nil
}

// ensureIndexed builds the index from the element list if it has not been
// built yet and returns it.
func (d *Document) ensureIndexed() map[string]*Value {
	if d.index != nil {
		return d.index
	}
	size := len(d.elems) + 1
	if size < 32 {
		size = 32
	}
	d.index = make(map[string]*Value, size)
	for _, v := range d.elems {
		if _, ok := d.index[v.key]; !ok {
			d.index[v.key] = v
		}
	}
	return d.index
}

// Add appends v to the end of the document without checking for an existing
// element with the same key. If the index has been built and does not hold
// the key yet, v is added to it. Add panics if v is nil.
func (d *Document) Add(v *Value) *Document {
	if v == nil {
		panic(ErrNilValue)
	}
	d.elems = append(d.elems, v)
	if d.index != nil {
		if _, ok := d.index[v.key]; !ok {
			d.index[v.key] = v
		}
	}
	return d
}

// Get returns the element with the given key, or nil if there is none.
func (d *Document) Get(key string) *Value {
	if d == nil {
		return nil
	}
	return d.ensureIndexed()[key]
}

// GetRaw returns the payload of the element with the given key. The boolean
// is false if there is no such element; null-like elements return nil, true.
func (d *Document) GetRaw(key string) (interface{}, bool) {
	v := d.Get(key)
	if v == nil {
		return nil, false
	}
	return v.data, true
}

// Lookup searches the document and any embedded documents or arrays for the
// provided path of keys. It returns nil if any step of the path is missing or
// is not a document.
func (d *Document) Lookup(key ...string) *Value {
	if len(key) == 0 {
		return nil
	}
	v := d.Get(key[0])
	if v == nil || len(key) == 1 {
		return v
	}
	switch v.t {
	case TypeEmbeddedDocument, TypeArray:
		return v.data.(*Document).Lookup(key[1:]...)
	default:
		return nil
	}
}

// Set stores v under key. If an element with key exists, that element is
// overwritten in place with the type and a deep copy of the payload of v, so
// every reference to the existing *Value observes the change and its position
// is kept; the existing element is returned. Otherwise v is appended and
// returned, or a copy of v keyed by key when v.Key() differs from key; v itself
// is never re-keyed. Set panics if v is nil.
func (d *Document) Set(key string, v *Value) *Value {
	if v == nil {
		panic(ErrNilValue)
	}
	index := d.ensureIndexed()
	if old, ok := index[key]; ok {
		if old != v {
			old.assign(key, v)
		}
		return old
	}
	if v.key != key {
		v = v.Copy()
		v.key = key
	}
	d.elems = append(d.elems, v)
	index[key] = v
	return v
}

// SetRaw stores a Go value under key, inferring its BSON type as described on
// Constructor.InterfaceErr. Unsupported Go types return an
// UnsupportedOperationError and leave the document unchanged.
func (d *Document) SetRaw(key string, value interface{}) (*Value, error) {
	v, err := C.InterfaceErr(key, value)
	if err != nil {
		return nil, errors.Wrapf(err, "key %q", key)
	}
	return d.Set(key, v), nil
}

// Remove deletes every element with the given key and returns the one the
// index held, or nil if the key was not present.
func (d *Document) Remove(key string) *Value {
	if d == nil {
		return nil
	}
	index := d.ensureIndexed()
	v, ok := index[key]
	if !ok {
		return nil
	}
	delete(index, key)
	kept := d.elems[:0]
	for _, e := range d.elems {
		if e.key != key {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(d.elems); i++ {
		d.elems[i] = nil
	}
	d.elems = kept
	return v
}

// Reset clears a document so it can be reused. This method clears references
// to the underlying pointers to elements so they can be garbage collected.
func (d *Document) Reset() {
	for idx := range d.elems {
		d.elems[idx] = nil
	}
	d.elems = d.elems[:0]
	d.index = nil
}

// Copy returns a deep copy of the document.
func (d *Document) Copy() *Document {
	if d == nil {
		return nil
	}
	c := &Document{elems: make([]*Value, 0, len(d.elems))}
	for _, v := range d.elems {
		c.elems = append(c.elems, v.Copy())
	}
	return c
}

// Equal compares this document to another, returning true if they hold equal
// elements in the same order. A nil document equals an empty one.
func (d *Document) Equal(d2 *Document) bool {
	if d.Len() != d2.Len() {
		return false
	}
	for i := 0; i < d.Len(); i++ {
		if !d.elems[i].Equal(d2.elems[i]) {
			return false
		}
	}
	return true
}

// NewDocumentFromIterator drains it into a new Document. If decoding fails no
// document is returned.
func NewDocumentFromIterator(it *Iterator) (*Document, error) {
	d := NewDocument()
	for it.Next() != TypeEOO {
		v, err := it.FetchCurrentValue()
		if err != nil {
			return nil, err
		}
		d.Add(v)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadDocument decodes the document held in b.
func ReadDocument(b []byte, opts ...*bsonoptions.DecoderOptions) (*Document, error) {
	return NewDocumentFromIterator(NewIterator(b, opts...))
}

// ReadDocumentFrom decodes one document from r, reading no further than its
// declared length.
func ReadDocumentFrom(r io.Reader, opts ...*bsonoptions.DecoderOptions) (*Document, error) {
	return NewDocumentFromIterator(NewStreamIterator(r, opts...))
}

// MarshalBSON implements the Marshaler interface.
func (d *Document) MarshalBSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBSON implements the Unmarshaler interface. It replaces the contents
// of d; on error d is left unchanged.
func (d *Document) UnmarshalBSON(b []byte) error {
	doc, err := ReadDocument(b)
	if err != nil {
		return err
	}
	d.elems, d.index = doc.elems, nil
	return nil
}

// WriteTo implements the io.WriterTo interface. If w is an io.WriteSeeker the
// length prefix is back-patched in place; otherwise the document is buffered.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return NewEncoder(w).encodeTop(d)
}

// ReadFrom will read one BSON document from the given io.Reader and replace
// the contents of d with it.
func (d *Document) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	doc, err := ReadDocumentFrom(cr)
	if err != nil {
		return cr.n, err
	}
	d.elems, d.index = doc.elems, nil
	return cr.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
