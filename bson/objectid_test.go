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

func TestNew(t *testing.T) {
	// Ensure that objectid.NewObjectID() doesn't panic.
	NewObjectID()
}

func TestObjectIDUnique(t *testing.T) {
	seen := make(map[ObjectID]struct{})
	for i := 0; i < 1000; i++ {
		oid := NewObjectID()
		_, dup := seen[oid]
		require.False(t, dup, "duplicate ObjectID %s", oid)
		seen[oid] = struct{}{}
	}
}

func TestObjectIDFromHex(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		oid := NewObjectID()
		got, err := ObjectIDFromHex(oid.Hex())
		require.NoError(t, err)
		assert.Equal(t, oid, got)
	})
	t.Run("known value", func(t *testing.T) {
		oid, err := ObjectIDFromHex("5ef7fdd91c19e3222b41b839")
		require.NoError(t, err)
		assert.Equal(t, `ObjectID("5ef7fdd91c19e3222b41b839")`, oid.String())
		assert.Equal(t, time.Date(2020, time.June, 28, 2, 18, 1, 0, time.UTC), oid.Timestamp())
	})

	invalid := []string{"", "abc", "5ef7fdd91c19e3222b41b83", "zzf7fdd91c19e3222b41b839"}
	for _, s := range invalid {
		t.Run("invalid "+s, func(t *testing.T) {
			_, err := ObjectIDFromHex(s)
			assert.True(t, errors.Is(err, ErrInvalidHex), "got %v", err)
		})
	}
}

func TestObjectIDFromBytes(t *testing.T) {
	_, err := ObjectIDFromBytes(make([]byte, 11))
	assert.True(t, errors.Is(err, ErrInvalidObjectIDLength), "got %v", err)

	b := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	oid, err := ObjectIDFromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, "0102030405060708090a0b0c", oid.Hex())
}

func TestTimeStamp(t *testing.T) {
	want := time.Date(2017, time.March, 9, 12, 30, 0, 0, time.UTC)
	oid := NewObjectIDFromTimestamp(want)
	assert.Equal(t, want, oid.Timestamp())
}

func TestObjectIDText(t *testing.T) {
	oid := NewObjectID()
	b, err := oid.MarshalText()
	require.NoError(t, err)

	var got ObjectID
	require.NoError(t, got.UnmarshalText(b))
	assert.Equal(t, oid, got)

	require.NoError(t, got.UnmarshalText(nil))
	assert.Equal(t, oid, got)
	assert.False(t, got.IsZero())
	assert.True(t, NilObjectID.IsZero())
}
