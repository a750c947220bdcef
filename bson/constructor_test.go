// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructor(t *testing.T) {
	t.Run("SubDocument nil", func(t *testing.T) {
		v := C.SubDocument("a", nil)
		require.NotNil(t, v.Document())
		assert.Equal(t, 0, v.Document().Len())
	})
	t.Run("CodeWithScope nil scope", func(t *testing.T) {
		v := C.CodeWithScope("a", "x", nil)
		require.NotNil(t, v.CodeWithScope().Scope)
		assert.Equal(t, 0, v.CodeWithScope().Scope.Len())
	})
	t.Run("ArrayFromElements", func(t *testing.T) {
		v := C.ArrayFromElements("a", C.String("x", "zero"), nil, C.Int32("y", 1))
		assert.Equal(t, []string{"0", "1"}, v.Array().Keys())
		assert.Equal(t, "zero", v.Array().Get("0").StringValue())
		assert.Equal(t, int32(1), v.Array().Get("1").Int32())
	})
	t.Run("DateTimeMillis", func(t *testing.T) {
		v := C.DateTimeMillis("a", -1)
		assert.Equal(t, time.Date(1969, time.December, 31, 23, 59, 59, 999000000, time.UTC), v.DateTime())
	})
}

func TestConstructorInterfaceErr(t *testing.T) {
	oid := NewObjectID()
	now := time.Now()
	doc := NewDocument(C.Null("x"))

	testCases := []struct {
		name  string
		value interface{}
		want  *Value
	}{
		{"nil", nil, C.Null("key")},
		{"bool", true, C.Boolean("key", true)},
		{"int8", int8(-8), C.Int32("key", -8)},
		{"int16", int16(-16), C.Int32("key", -16)},
		{"int32", int32(-32), C.Int32("key", -32)},
		{"uint8", uint8(8), C.Int32("key", 8)},
		{"uint16", uint16(16), C.Int32("key", 16)},
		{"int", int(-64), C.Int64("key", -64)},
		{"int64", int64(-64), C.Int64("key", -64)},
		{"uint32", uint32(4294967295), C.Int64("key", 4294967295)},
		{"float32", float32(1.5), C.Double("key", 1.5)},
		{"float64", 2.5, C.Double("key", 2.5)},
		{"string", "hello", C.String("key", "hello")},
		{"[]byte", []byte{1, 2}, C.Binary("key", []byte{1, 2})},
		{"time.Time", now, C.DateTime("key", now)},
		{"ObjectID", oid, C.ObjectID("key", oid)},
		{"Binary", Binary{Subtype: 0x80, Data: []byte{3}}, C.BinaryWithSubtype("key", []byte{3}, 0x80)},
		{"Regex", Regex{Pattern: "^a", Options: "i"}, C.Regex("key", "^a", "i")},
		{"Timestamp", Timestamp{Increment: 1, Seconds: 2}, C.Timestamp("key", 1, 2)},
		{"CodeWithScope", CodeWithScope{Code: "x", Scope: doc}, C.CodeWithScope("key", "x", doc)},
		{"DBRef", DBRef{Collection: "c", ID: oid}, C.DBRef("key", "c", oid)},
		{"*Document", doc, C.SubDocument("key", doc)},
		{"*Value", C.Int32("other", 7), C.Int32("key", 7)},
		{"nil *Value", (*Value)(nil), C.Null("key")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := C.InterfaceErr("key", tc.value)
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "got %v; want %v", got, tc.want)
		})
	}

	unsupported := []interface{}{uint(1), uint64(1), struct{}{}, map[string]interface{}{}, []int{1}}
	for _, value := range unsupported {
		_, err := C.InterfaceErr("key", value)
		require.Error(t, err, "Expected %T to be unsupported", value)
		assert.True(t, errors.Is(err, ErrUnsupportedOperation), "got %v", err)
	}

	t.Run("*Value is copied", func(t *testing.T) {
		src := C.String("other", "x")
		got, err := C.InterfaceErr("key", src)
		require.NoError(t, err)
		assert.NotSame(t, src, got)
		assert.Equal(t, "other", src.Key())
	})
}

func TestArrayOf(t *testing.T) {
	z, first := C.Int32("z", 1), C.Int32("0", 0)
	a := ArrayOf(C.Int32("z", 1), C.Int32("y", 2), C.Int32("x", 3))
	assert.Equal(t, []string{"0", "1", "2"}, a.Keys())

	t.Run("values are not re-keyed", func(t *testing.T) {
		d := NewDocument(z)
		require.Same(t, z, d.Get("z"))

		arr := ArrayOf(first, z)
		assert.Equal(t, []string{"0", "1"}, arr.Keys())
		assert.Same(t, first, arr.Get("0"))
		assert.NotSame(t, z, arr.Get("1"))
		assert.Equal(t, "z", z.Key())
		assert.Same(t, z, d.Get("z"))
		assert.Equal(t, []string{"z"}, d.Keys())
	})

	assert.Equal(t, `[1,2,3]`, string(mustJSON(t, C.Array("a", a))))
}

func mustJSON(t *testing.T, v *Value) []byte {
	t.Helper()
	b, err := appendJSONValue(nil, v)
	require.NoError(t, err)
	return b
}
