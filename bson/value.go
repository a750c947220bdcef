// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"fmt"
	"math"
	"time"
)

// Value represents a BSON element: a type tag, a key, and the payload for that
// tag. Values are created with the C constructors. The tag decides which
// payload is held; calling an accessor for a different tag panics with an
// ElementTypeError.
//
// The payload held for each tag is:
//
//	TypeDouble                          float64
//	TypeString, TypeJavaScript,
//	TypeSymbol                          string
//	TypeEmbeddedDocument, TypeArray     *Document
//	TypeBinary                          Binary
//	TypeObjectID                        ObjectID
//	TypeBoolean                         bool
//	TypeDateTime                        time.Time
//	TypeRegex                           Regex
//	TypeDBPointer                       DBRef
//	TypeCodeWithScope                   CodeWithScope
//	TypeInt32                           int32
//	TypeTimestamp                       Timestamp
//	TypeInt64                           int64
//	TypeNull, TypeUndefined,
//	TypeMinKey, TypeMaxKey              nil
type Value struct {
	t    Type
	key  string
	data interface{}
}

// Type returns the BSON type tag of the value.
func (v *Value) Type() Type {
	if v == nil {
		return TypeEOO
	}
	return v.t
}

// Key returns the key of the value.
func (v *Value) Key() string {
	if v == nil {
		return ""
	}
	return v.key
}

// Interface returns the unwrapped payload of the value.
func (v *Value) Interface() interface{} {
	if v == nil {
		return nil
	}
	return v.data
}

// assign overwrites the tag, key and payload of v with those of src while
// keeping the identity of v. The payload is deep copied so v and src do not
// share nested documents or binary data afterwards.
func (v *Value) assign(key string, src *Value) {
	v.t = src.t
	v.key = key
	v.data = src.Copy().data
}

func (v *Value) mustBe(method string, t Type) {
	if v.t != t {
		panic(ElementTypeError{Method: method, Type: v.t})
	}
}

// Double returns the float64 value for this element.
// It panics if e's BSON type is not TypeDouble.
func (v *Value) Double() float64 {
	v.mustBe("bson.Value.Double", TypeDouble)
	return v.data.(float64)
}

// DoubleOK is the same as Double, but returns a boolean instead of panicking.
func (v *Value) DoubleOK() (float64, bool) {
	if v == nil || v.t != TypeDouble {
		return 0, false
	}
	return v.Double(), true
}

// StringValue returns the string value for this element.
// It panics if e's BSON type is not TypeString.
//
// NOTE: This method is called StringValue to avoid a collision with the String method which
// implements the fmt.Stringer interface.
func (v *Value) StringValue() string {
	v.mustBe("bson.Value.StringValue", TypeString)
	return v.data.(string)
}

// StringValueOK is the same as StringValue, but returns a boolean instead of
// panicking.
func (v *Value) StringValueOK() (string, bool) {
	if v == nil || v.t != TypeString {
		return "", false
	}
	return v.StringValue(), true
}

// Document returns the embedded document for this element.
// It panics if e's BSON type is not TypeEmbeddedDocument.
func (v *Value) Document() *Document {
	v.mustBe("bson.Value.Document", TypeEmbeddedDocument)
	return v.data.(*Document)
}

// DocumentOK is the same as Document, except it returns a boolean instead of
// panicking.
func (v *Value) DocumentOK() (*Document, bool) {
	if v == nil || v.t != TypeEmbeddedDocument {
		return nil, false
	}
	return v.Document(), true
}

// Array returns the array for this element. Arrays are documents keyed by
// "0", "1", ... in order.
// It panics if e's BSON type is not TypeArray.
func (v *Value) Array() *Document {
	v.mustBe("bson.Value.Array", TypeArray)
	return v.data.(*Document)
}

// ArrayOK is the same as Array, except it returns a boolean
// instead of panicking.
func (v *Value) ArrayOK() (*Document, bool) {
	if v == nil || v.t != TypeArray {
		return nil, false
	}
	return v.Array(), true
}

// Binary returns the BSON binary value the Value represents. It panics if the value is a BSON type
// other than binary.
func (v *Value) Binary() Binary {
	v.mustBe("bson.Value.Binary", TypeBinary)
	return v.data.(Binary)
}

// BinaryOK is the same as Binary, except it returns a boolean instead of
// panicking.
func (v *Value) BinaryOK() (Binary, bool) {
	if v == nil || v.t != TypeBinary {
		return Binary{}, false
	}
	return v.Binary(), true
}

// ObjectID returns the BSON objectid value the Value represents. It panics if the value is a BSON
// type other than objectid.
func (v *Value) ObjectID() ObjectID {
	v.mustBe("bson.Value.ObjectID", TypeObjectID)
	return v.data.(ObjectID)
}

// ObjectIDOK is the same as ObjectID, except it returns a boolean instead of
// panicking.
func (v *Value) ObjectIDOK() (ObjectID, bool) {
	if v == nil || v.t != TypeObjectID {
		return NilObjectID, false
	}
	return v.ObjectID(), true
}

// Boolean returns the boolean value the Value represents. It panics if the
// value is a BSON type other than boolean.
func (v *Value) Boolean() bool {
	v.mustBe("bson.Value.Boolean", TypeBoolean)
	return v.data.(bool)
}

// BooleanOK is the same as Boolean, except it returns a boolean instead of
// panicking.
func (v *Value) BooleanOK() (bool, bool) {
	if v == nil || v.t != TypeBoolean {
		return false, false
	}
	return v.Boolean(), true
}

// DateTime returns the BSON datetime value the Value represents. It panics if the value is a BSON
// type other than datetime.
func (v *Value) DateTime() time.Time {
	v.mustBe("bson.Value.DateTime", TypeDateTime)
	return v.data.(time.Time)
}

// DateTimeOK is the same as DateTime, except it returns a boolean instead of
// panicking.
func (v *Value) DateTimeOK() (time.Time, bool) {
	if v == nil || v.t != TypeDateTime {
		return time.Time{}, false
	}
	return v.DateTime(), true
}

// Regex returns the BSON regex value the Value represents. It panics if the value is a BSON
// type other than regex.
func (v *Value) Regex() Regex {
	v.mustBe("bson.Value.Regex", TypeRegex)
	return v.data.(Regex)
}

// RegexOK is the same as Regex, except it returns a boolean instead of
// panicking.
func (v *Value) RegexOK() (Regex, bool) {
	if v == nil || v.t != TypeRegex {
		return Regex{}, false
	}
	return v.Regex(), true
}

// DBRef returns the BSON dbpointer value the Value represents. It panics if the value is a BSON
// type other than dbpointer.
func (v *Value) DBRef() DBRef {
	v.mustBe("bson.Value.DBRef", TypeDBPointer)
	return v.data.(DBRef)
}

// DBRefOK is the same as DBRef, except it returns a boolean instead of
// panicking.
func (v *Value) DBRefOK() (DBRef, bool) {
	if v == nil || v.t != TypeDBPointer {
		return DBRef{}, false
	}
	return v.DBRef(), true
}

// JavaScript returns the BSON JavaScript code value the Value represents. It panics if the value is
// a BSON type other than JavaScript code.
func (v *Value) JavaScript() string {
	v.mustBe("bson.Value.JavaScript", TypeJavaScript)
	return v.data.(string)
}

// JavaScriptOK is the same as Javascript, excepti that it returns a boolean
// instead of panicking.
func (v *Value) JavaScriptOK() (string, bool) {
	if v == nil || v.t != TypeJavaScript {
		return "", false
	}
	return v.JavaScript(), true
}

// Symbol returns the BSON symbol value the Value represents. It panics if the value is a BSON
// type other than symbol.
func (v *Value) Symbol() string {
	v.mustBe("bson.Value.Symbol", TypeSymbol)
	return v.data.(string)
}

// SymbolOK is the same as Symbol, excepti that it returns a boolean
// instead of panicking.
func (v *Value) SymbolOK() (string, bool) {
	if v == nil || v.t != TypeSymbol {
		return "", false
	}
	return v.Symbol(), true
}

// CodeWithScope returns the BSON code with scope value the Value represents. It panics if the
// value is a BSON type other than code with scope.
func (v *Value) CodeWithScope() CodeWithScope {
	v.mustBe("bson.Value.CodeWithScope", TypeCodeWithScope)
	return v.data.(CodeWithScope)
}

// CodeWithScopeOK is the same as CodeWithScope, except that it returns a
// boolean instead of panicking.
func (v *Value) CodeWithScopeOK() (CodeWithScope, bool) {
	if v == nil || v.t != TypeCodeWithScope {
		return CodeWithScope{}, false
	}
	return v.CodeWithScope(), true
}

// Int32 returns the int32 the Value represents. It panics if the value is a BSON type other than
// int32.
func (v *Value) Int32() int32 {
	v.mustBe("bson.Value.Int32", TypeInt32)
	return v.data.(int32)
}

// Int32OK is the same as Int32, except that it returns a boolean instead of
// panicking.
func (v *Value) Int32OK() (int32, bool) {
	if v == nil || v.t != TypeInt32 {
		return 0, false
	}
	return v.Int32(), true
}

// Timestamp returns the BSON timestamp value the Value represents. It panics if the value is a
// BSON type other than timestamp.
func (v *Value) Timestamp() Timestamp {
	v.mustBe("bson.Value.Timestamp", TypeTimestamp)
	return v.data.(Timestamp)
}

// TimestampOK is the same as Timestamp, except that it returns a boolean
// instead of panicking.
func (v *Value) TimestampOK() (Timestamp, bool) {
	if v == nil || v.t != TypeTimestamp {
		return Timestamp{}, false
	}
	return v.Timestamp(), true
}

// Int64 returns the int64 the Value represents. It panics if the value is a BSON type other than
// int64.
func (v *Value) Int64() int64 {
	v.mustBe("bson.Value.Int64", TypeInt64)
	return v.data.(int64)
}

// Int64OK is the same as Int64, except that it returns a boolean instead of
// panicking.
func (v *Value) Int64OK() (int64, bool) {
	if v == nil || v.t != TypeInt64 {
		return 0, false
	}
	return v.Int64(), true
}

// IsNumber returns true if the type of v is a numeric BSON type.
func (v *Value) IsNumber() bool {
	switch v.Type() {
	case TypeDouble, TypeInt32, TypeInt64:
		return true
	default:
		return false
	}
}

// Copy returns a deep copy of v. Nested documents and binary data are copied
// as well.
func (v *Value) Copy() *Value {
	if v == nil {
		return nil
	}
	c := &Value{t: v.t, key: v.key, data: v.data}
	switch data := v.data.(type) {
	case *Document:
		c.data = data.Copy()
	case Binary:
		c.data = Binary{Subtype: data.Subtype, Data: append([]byte(nil), data.Data...)}
	case CodeWithScope:
		c.data = CodeWithScope{Code: data.Code, Scope: data.Scope.Copy()}
	}
	return c
}

// Equal compares v to v2 and returns true if they are equal. Two values are
// equal when they would encode to the same bytes, so datetimes are compared at
// millisecond precision and doubles by their bit pattern.
func (v *Value) Equal(v2 *Value) bool {
	if v == nil && v2 == nil {
		return true
	}
	if v == nil || v2 == nil {
		return false
	}
	if v.t != v2.t || v.key != v2.key {
		return false
	}

	switch v.t {
	case TypeDouble:
		return math.Float64bits(v.data.(float64)) == math.Float64bits(v2.data.(float64))
	case TypeEmbeddedDocument, TypeArray:
		return v.data.(*Document).Equal(v2.data.(*Document))
	case TypeBinary:
		return v.data.(Binary).Equal(v2.data.(Binary))
	case TypeDateTime:
		return dateTimeMillis(v.data.(time.Time)) == dateTimeMillis(v2.data.(time.Time))
	case TypeCodeWithScope:
		return v.data.(CodeWithScope).Equal(v2.data.(CodeWithScope))
	case TypeNull, TypeUndefined, TypeMinKey, TypeMaxKey:
		return true
	default:
		return v.data == v2.data
	}
}

// String returns the relaxed extended JSON form of the element as a single
// key/value pair.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	b := append(appendJSONString([]byte{'{'}, v.key), ':')
	b, err := appendJSONValue(b, v)
	if err != nil {
		return fmt.Sprintf("<invalid element: %v>", err)
	}
	return string(append(b, '}'))
}

// dateTimeMillis returns the milliseconds since the Unix epoch for t, flooring
// any sub-millisecond remainder. Nanosecond is always non-negative, so this
// floors for times before the epoch as well.
func dateTimeMillis(t time.Time) int64 {
	return t.Unix()*1e3 + int64(t.Nanosecond())/1e6
}
