// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"strconv"
	"time"
)

// C is a convenience variable provided for access to the Constructor methods.
var C Constructor

// Constructor is used as a namespace for document element constructor functions.
// There is exactly one constructor per BSON type, so the tag of a Value always
// matches the payload it holds.
type Constructor struct{}

// Double creates a double element with the given key and value.
func (Constructor) Double(key string, f float64) *Value {
	return &Value{t: TypeDouble, key: key, data: f}
}

// String creates a string element with the given key and value.
func (Constructor) String(key string, val string) *Value {
	return &Value{t: TypeString, key: key, data: val}
}

// SubDocument creates a subdocument element with the given key and value. A
// nil document is replaced by an empty one.
func (Constructor) SubDocument(key string, d *Document) *Value {
	if d == nil {
		d = NewDocument()
	}
	return &Value{t: TypeEmbeddedDocument, key: key, data: d}
}

// SubDocumentFromElements creates a subdocument element with the given key. The elements passed as
// arguments will be used to create a new document as the value.
func (c Constructor) SubDocumentFromElements(key string, values ...*Value) *Value {
	return c.SubDocument(key, NewDocument(values...))
}

// Array creates an array element with the given key and value. The keys of
// the elements of a are used as is; use ArrayOf to number them.
func (Constructor) Array(key string, a *Document) *Value {
	if a == nil {
		a = NewDocument()
	}
	return &Value{t: TypeArray, key: key, data: a}
}

// ArrayFromElements creates an array element with the given key. The elements
// passed are re-keyed "0", "1", ... in order.
func (c Constructor) ArrayFromElements(key string, values ...*Value) *Value {
	return c.Array(key, ArrayOf(values...))
}

// Binary creates a binary element with the given key and value.
func (c Constructor) Binary(key string, b []byte) *Value {
	return c.BinaryWithSubtype(key, b, TypeBinaryGeneric)
}

// BinaryWithSubtype creates a binary element with the given key. It will
// create a new BSON binary value with the given data and subtype.
func (Constructor) BinaryWithSubtype(key string, b []byte, btype byte) *Value {
	return &Value{t: TypeBinary, key: key, data: Binary{Subtype: btype, Data: b}}
}

// Undefined creates a undefined element with the given key.
func (Constructor) Undefined(key string) *Value {
	return &Value{t: TypeUndefined, key: key}
}

// ObjectID creates a objectid element with the given key and value.
func (Constructor) ObjectID(key string, oid ObjectID) *Value {
	return &Value{t: TypeObjectID, key: key, data: oid}
}

// Boolean creates a boolean element with the given key and value.
func (Constructor) Boolean(key string, b bool) *Value {
	return &Value{t: TypeBoolean, key: key, data: b}
}

// DateTime creates a datetime element with the given key and value. The time
// is stored as given; it is converted to milliseconds since the Unix epoch
// when encoded.
func (Constructor) DateTime(key string, t time.Time) *Value {
	return &Value{t: TypeDateTime, key: key, data: t}
}

// DateTimeMillis creates a datetime element from milliseconds since the Unix epoch.
func (c Constructor) DateTimeMillis(key string, ms int64) *Value {
	return c.DateTime(key, time.UnixMilli(ms).UTC())
}

// Null creates a null element with the given key.
func (Constructor) Null(key string) *Value {
	return &Value{t: TypeNull, key: key}
}

// Regex creates a regex element with the given key and value.
func (Constructor) Regex(key string, pattern, options string) *Value {
	return &Value{t: TypeRegex, key: key, data: Regex{Pattern: pattern, Options: options}}
}

// DBRef creates a dbpointer element with the given key and value.
func (Constructor) DBRef(key string, collection string, id ObjectID) *Value {
	return &Value{t: TypeDBPointer, key: key, data: DBRef{Collection: collection, ID: id}}
}

// JavaScript creates a JavaScript code element with the given key and value.
func (Constructor) JavaScript(key string, code string) *Value {
	return &Value{t: TypeJavaScript, key: key, data: code}
}

// Symbol creates a symbol element with the given key and value.
func (Constructor) Symbol(key string, symbol string) *Value {
	return &Value{t: TypeSymbol, key: key, data: symbol}
}

// CodeWithScope creates a JavaScript code with scope element with the given key and value.
func (Constructor) CodeWithScope(key string, code string, scope *Document) *Value {
	if scope == nil {
		scope = NewDocument()
	}
	return &Value{t: TypeCodeWithScope, key: key, data: CodeWithScope{Code: code, Scope: scope}}
}

// Int32 creates a int32 element with the given key and value.
func (Constructor) Int32(key string, i int32) *Value {
	return &Value{t: TypeInt32, key: key, data: i}
}

// Timestamp creates a timestamp element with the given key and value.
func (Constructor) Timestamp(key string, increment, seconds uint32) *Value {
	return &Value{t: TypeTimestamp, key: key, data: Timestamp{Increment: increment, Seconds: seconds}}
}

// Int64 creates a int64 element with the given key and value.
func (Constructor) Int64(key string, i int64) *Value {
	return &Value{t: TypeInt64, key: key, data: i}
}

// MinKey creates a minkey element with the given key and value.
func (Constructor) MinKey(key string) *Value {
	return &Value{t: TypeMinKey, key: key}
}

// MaxKey creates a maxkey element with the given key and value.
func (Constructor) MaxKey(key string) *Value {
	return &Value{t: TypeMaxKey, key: key}
}

// InterfaceErr will attempt to turn the provided key and Go value into a
// Value by inferring the BSON type from the Go type:
//
//	nil                                 null
//	bool                                boolean
//	int8, int16, int32, uint8, uint16   32-bit integer
//	int, int64, uint32                  64-bit integer
//	float32, float64                    double
//	string                              string
//	[]byte                              binary (generic subtype)
//	time.Time                           UTC datetime
//	ObjectID                            objectID
//	Binary, Regex, Timestamp,
//	CodeWithScope, DBRef                their own types
//	*Document                           embedded document
//	*Value                              a copy of the value under key
//
// Any other type, including uint and uint64 which may not fit in a BSON
// integer, returns an UnsupportedOperationError.
func (c Constructor) InterfaceErr(key string, value interface{}) (*Value, error) {
	switch t := value.(type) {
	case nil:
		return c.Null(key), nil
	case bool:
		return c.Boolean(key, t), nil
	case int8:
		return c.Int32(key, int32(t)), nil
	case int16:
		return c.Int32(key, int32(t)), nil
	case int32:
		return c.Int32(key, t), nil
	case uint8:
		return c.Int32(key, int32(t)), nil
	case uint16:
		return c.Int32(key, int32(t)), nil
	case int:
		return c.Int64(key, int64(t)), nil
	case int64:
		return c.Int64(key, t), nil
	case uint32:
		return c.Int64(key, int64(t)), nil
	case float32:
		return c.Double(key, float64(t)), nil
	case float64:
		return c.Double(key, t), nil
	case string:
		return c.String(key, t), nil
	case []byte:
		return c.Binary(key, t), nil
	case time.Time:
		return c.DateTime(key, t), nil
	case ObjectID:
		return c.ObjectID(key, t), nil
	case Binary:
		return c.BinaryWithSubtype(key, t.Data, t.Subtype), nil
	case Regex:
		return c.Regex(key, t.Pattern, t.Options), nil
	case Timestamp:
		return c.Timestamp(key, t.Increment, t.Seconds), nil
	case CodeWithScope:
		return c.CodeWithScope(key, t.Code, t.Scope), nil
	case DBRef:
		return c.DBRef(key, t.Collection, t.ID), nil
	case *Document:
		return c.SubDocument(key, t), nil
	case *Value:
		if t == nil {
			return c.Null(key), nil
		}
		v := t.Copy()
		v.key = key
		return v, nil
	default:
		return nil, UnsupportedOperationError{
			Op:     "InterfaceErr",
			Reason: fmt.Sprintf("cannot infer a BSON type for %T", value),
		}
	}
}

// ArrayOf creates a document holding values as array elements keyed by their
// decimal index. Values whose key already matches their index are added as is;
// the others are copied under the new key, leaving the values passed in
// unchanged. Nil values are skipped.
func ArrayOf(values ...*Value) *Document {
	a := NewDocument()
	for _, v := range values {
		if v == nil {
			continue
		}
		if key := strconv.Itoa(a.Len()); v.key != key {
			v = v.Copy()
			v.key = key
		}
		a.Add(v)
	}
	return a
}
