// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		handle := func(t *testing.T, method string, want Type) {
			t.Helper()
			rec := recover()
			require.NotNil(t, rec, "Expected a panic calling %s", method)
			ete, ok := rec.(ElementTypeError)
			require.True(t, ok, "Expected an ElementTypeError, got %T", rec)
			assert.Equal(t, method, ete.Method)
			assert.Equal(t, want, ete.Type)
		}

		testCases := []struct {
			name   string
			fn     func(*Value)
			method string
			v      *Value
		}{
			{"Double", func(v *Value) { v.Double() }, "bson.Value.Double", C.String("a", "")},
			{"StringValue", func(v *Value) { v.StringValue() }, "bson.Value.StringValue", C.Int32("a", 1)},
			{"Document", func(v *Value) { v.Document() }, "bson.Value.Document", C.ArrayFromElements("a")},
			{"Array", func(v *Value) { v.Array() }, "bson.Value.Array", C.SubDocumentFromElements("a")},
			{"Binary", func(v *Value) { v.Binary() }, "bson.Value.Binary", C.Null("a")},
			{"ObjectID", func(v *Value) { v.ObjectID() }, "bson.Value.ObjectID", C.Null("a")},
			{"Boolean", func(v *Value) { v.Boolean() }, "bson.Value.Boolean", C.Int32("a", 1)},
			{"DateTime", func(v *Value) { v.DateTime() }, "bson.Value.DateTime", C.Int64("a", 1)},
			{"Regex", func(v *Value) { v.Regex() }, "bson.Value.Regex", C.String("a", "")},
			{"DBRef", func(v *Value) { v.DBRef() }, "bson.Value.DBRef", C.Null("a")},
			{"JavaScript", func(v *Value) { v.JavaScript() }, "bson.Value.JavaScript", C.Symbol("a", "")},
			{"Symbol", func(v *Value) { v.Symbol() }, "bson.Value.Symbol", C.JavaScript("a", "")},
			{"CodeWithScope", func(v *Value) { v.CodeWithScope() }, "bson.Value.CodeWithScope", C.JavaScript("a", "")},
			{"Int32", func(v *Value) { v.Int32() }, "bson.Value.Int32", C.Int64("a", 1)},
			{"Timestamp", func(v *Value) { v.Timestamp() }, "bson.Value.Timestamp", C.DateTimeMillis("a", 1)},
			{"Int64", func(v *Value) { v.Int64() }, "bson.Value.Int64", C.Int32("a", 1)},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				defer handle(t, tc.method, tc.v.Type())
				tc.fn(tc.v)
			})
		}
	})

	t.Run("accessors", func(t *testing.T) {
		oid := NewObjectID()
		now := time.Date(2020, time.January, 2, 3, 4, 5, 6000000, time.UTC)
		scope := NewDocument(C.Int32("x", 1))

		testCases := []struct {
			name string
			fn   func(*Value) (interface{}, bool)
			v    *Value
			want interface{}
		}{
			{"DoubleOK", func(v *Value) (interface{}, bool) { return v.DoubleOK() }, C.Double("a", 3.14), 3.14},
			{"StringValueOK", func(v *Value) (interface{}, bool) { return v.StringValueOK() }, C.String("a", "hi"), "hi"},
			{"BinaryOK", func(v *Value) (interface{}, bool) { return v.BinaryOK() }, C.BinaryWithSubtype("a", []byte{1}, TypeBinaryUUID), Binary{Subtype: TypeBinaryUUID, Data: []byte{1}}},
			{"ObjectIDOK", func(v *Value) (interface{}, bool) { return v.ObjectIDOK() }, C.ObjectID("a", oid), oid},
			{"BooleanOK", func(v *Value) (interface{}, bool) { return v.BooleanOK() }, C.Boolean("a", true), true},
			{"DateTimeOK", func(v *Value) (interface{}, bool) { return v.DateTimeOK() }, C.DateTime("a", now), now},
			{"RegexOK", func(v *Value) (interface{}, bool) { return v.RegexOK() }, C.Regex("a", "^a", "i"), Regex{Pattern: "^a", Options: "i"}},
			{"DBRefOK", func(v *Value) (interface{}, bool) { return v.DBRefOK() }, C.DBRef("a", "coll", oid), DBRef{Collection: "coll", ID: oid}},
			{"JavaScriptOK", func(v *Value) (interface{}, bool) { return v.JavaScriptOK() }, C.JavaScript("a", "x()"), "x()"},
			{"SymbolOK", func(v *Value) (interface{}, bool) { return v.SymbolOK() }, C.Symbol("a", "sym"), "sym"},
			{"CodeWithScopeOK", func(v *Value) (interface{}, bool) { return v.CodeWithScopeOK() }, C.CodeWithScope("a", "x", scope), CodeWithScope{Code: "x", Scope: scope}},
			{"Int32OK", func(v *Value) (interface{}, bool) { return v.Int32OK() }, C.Int32("a", 42), int32(42)},
			{"TimestampOK", func(v *Value) (interface{}, bool) { return v.TimestampOK() }, C.Timestamp("a", 1, 2), Timestamp{Increment: 1, Seconds: 2}},
			{"Int64OK", func(v *Value) (interface{}, bool) { return v.Int64OK() }, C.Int64("a", 42), int64(42)},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				got, ok := tc.fn(tc.v)
				require.True(t, ok)
				assert.Equal(t, tc.want, got)

				_, ok = tc.fn(C.Null("a"))
				assert.False(t, ok, "Expected %s to report false for a null value", tc.name)
				_, ok = tc.fn(nil)
				assert.False(t, ok, "Expected %s to report false for a nil value", tc.name)
			})
		}
	})

	t.Run("nil value", func(t *testing.T) {
		var v *Value
		assert.Equal(t, TypeEOO, v.Type())
		assert.Equal(t, "", v.Key())
		assert.Nil(t, v.Interface())
		assert.Nil(t, v.Copy())
		assert.False(t, v.IsNumber())
		assert.Equal(t, "<nil>", v.String())
	})

	t.Run("IsNumber", func(t *testing.T) {
		assert.True(t, C.Double("a", 1).IsNumber())
		assert.True(t, C.Int32("a", 1).IsNumber())
		assert.True(t, C.Int64("a", 1).IsNumber())
		assert.False(t, C.String("a", "1").IsNumber())
	})
}

func TestValueEqual(t *testing.T) {
	nan := math.NaN()
	testCases := []struct {
		name  string
		v1    *Value
		v2    *Value
		equal bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", C.Null("a"), nil, false},
		{"different keys", C.Int32("a", 1), C.Int32("b", 1), false},
		{"different types", C.Int32("a", 1), C.Int64("a", 1), false},
		{"different values", C.Int32("a", 1), C.Int32("a", 2), false},
		{"same int32", C.Int32("a", 1), C.Int32("a", 1), true},
		{"NaN", C.Double("a", nan), C.Double("a", nan), true},
		{"signed zero", C.Double("a", 0), C.Double("a", math.Copysign(0, -1)), false},
		{"null", C.Null("a"), C.Null("a"), true},
		{"minkey", C.MinKey("a"), C.MinKey("a"), true},
		{
			"datetime sub-millisecond",
			C.DateTime("a", time.Unix(0, 1500000)),
			C.DateTime("a", time.Unix(0, 1999999)),
			true,
		},
		{
			"datetime location",
			C.DateTime("a", time.Unix(10, 0).UTC()),
			C.DateTime("a", time.Unix(10, 0).In(time.FixedZone("x", 3600))),
			true,
		},
		{"binary", C.Binary("a", []byte{1, 2}), C.Binary("a", []byte{1, 2}), true},
		{"binary subtype", C.Binary("a", []byte{1, 2}), C.BinaryWithSubtype("a", []byte{1, 2}, TypeBinaryMD5), false},
		{
			"document",
			C.SubDocumentFromElements("a", C.String("x", "y")),
			C.SubDocumentFromElements("a", C.String("x", "y")),
			true,
		},
		{
			"document order",
			C.SubDocumentFromElements("a", C.Null("x"), C.Null("y")),
			C.SubDocumentFromElements("a", C.Null("y"), C.Null("x")),
			false,
		},
		{
			"code with scope",
			C.CodeWithScope("a", "x", NewDocument(C.Int32("x", 1))),
			C.CodeWithScope("a", "x", NewDocument(C.Int32("x", 2))),
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.equal, tc.v1.Equal(tc.v2))
			assert.Equal(t, tc.equal, tc.v2.Equal(tc.v1))
		})
	}
}

func TestValueCopy(t *testing.T) {
	orig := C.SubDocumentFromElements("a",
		C.Binary("bin", []byte{1, 2, 3}),
		C.CodeWithScope("cws", "x", NewDocument(C.Int32("x", 1))),
	)
	c := orig.Copy()
	require.True(t, orig.Equal(c))

	c.Document().Get("bin").Binary().Data[0] = 0xFF
	c.Document().Get("cws").CodeWithScope().Scope.Set("x", C.Int32("x", 2))
	c.Document().Add(C.Null("extra"))

	assert.Equal(t, byte(1), orig.Document().Get("bin").Binary().Data[0])
	assert.Equal(t, int32(1), orig.Document().Get("cws").CodeWithScope().Scope.Get("x").Int32())
	assert.Equal(t, 2, orig.Document().Len())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, `{"a":1}`, C.Int32("a", 1).String())
	assert.Equal(t, `{"b":"hi"}`, C.String("b", "hi").String())
	assert.Equal(t, `{"c":{"x":true}}`, C.SubDocumentFromElements("c", C.Boolean("x", true)).String())
}
