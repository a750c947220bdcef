// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bsoncore contains functions that can be used to encode and decode the
// primitive pieces of a BSON document: little-endian integers, doubles,
// cstrings, length-prefixed strings and element headers. These functions do
// not know anything about documents as a whole; the bson package composes them.
//
// The Append functions take a destination slice, append to it and return the
// extended slice. The Read functions take a source slice and return the value,
// the remaining bytes, and whether enough bytes were available.
package bsoncore

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
)

// AppendType will append t to dst and return the extended buffer.
func AppendType(dst []byte, t byte) []byte { return append(dst, t) }

// AppendKey will append key to dst and return the extended buffer.
func AppendKey(dst []byte, key string) []byte { return append(append(dst, key...), 0x00) }

// AppendHeader will append the type and key to dst and return the extended
// buffer.
func AppendHeader(dst []byte, t byte, key string) []byte {
	dst = AppendType(dst, t)
	return AppendKey(dst, key)
}

// AppendInt32 will append i32 to dst and return the extended buffer.
func AppendInt32(dst []byte, i32 int32) []byte { return appendi32(dst, i32) }

// AppendUint32 will append u32 to dst and return the extended buffer.
func AppendUint32(dst []byte, u32 uint32) []byte { return appendu32(dst, u32) }

// AppendInt64 will append i64 to dst and return the extended buffer.
func AppendInt64(dst []byte, i64 int64) []byte { return appendi64(dst, i64) }

// AppendDouble will append f to dst and return the extended buffer.
func AppendDouble(dst []byte, f float64) []byte {
	return appendu64(dst, math.Float64bits(f))
}

// AppendBoolean will append b to dst and return the extended buffer.
func AppendBoolean(dst []byte, b bool) []byte {
	if b {
		return append(dst, 0x01)
	}
	return append(dst, 0x00)
}

// AppendString will append s to dst as a length-prefixed string. The length
// includes the trailing null byte.
func AppendString(dst []byte, s string) []byte {
	dst = appendi32(dst, int32(len(s))+1)
	dst = append(dst, s...)
	return append(dst, 0x00)
}

// AppendCString will append s to dst followed by a null byte.
func AppendCString(dst []byte, s string) []byte {
	return AppendKey(dst, s)
}

// AppendBinary will append subtype and b to dst and return the extended buffer.
func AppendBinary(dst []byte, subtype byte, b []byte) []byte {
	dst = appendi32(dst, int32(len(b)))
	dst = append(dst, subtype)
	return append(dst, b...)
}

// AppendObjectID will append oid to dst and return the extended buffer.
func AppendObjectID(dst []byte, oid [12]byte) []byte { return append(dst, oid[:]...) }

// AppendDateTime will append dt, milliseconds since the Unix epoch, to dst.
func AppendDateTime(dst []byte, dt int64) []byte { return appendi64(dst, dt) }

// AppendRegex will append pattern and options as two cstrings to dst.
func AppendRegex(dst []byte, pattern, options string) []byte {
	return AppendCString(AppendCString(dst, pattern), options)
}

// AppendTimestamp will append the increment and then the seconds to dst.
func AppendTimestamp(dst []byte, increment, seconds uint32) []byte {
	return appendu32(appendu32(dst, increment), seconds)
}

// ReserveLength reserves the space required for a BSON length and returns the
// index where the length starts and the extended buffer.
func ReserveLength(dst []byte) (int32, []byte) {
	index := len(dst)
	return int32(index), append(dst, 0x00, 0x00, 0x00, 0x00)
}

// UpdateLength updates the length at index with length and returns the buffer.
func UpdateLength(dst []byte, index, length int32) []byte {
	_ = dst[index+3] // BCE
	dst[index] = byte(length)
	dst[index+1] = byte(length >> 8)
	dst[index+2] = byte(length >> 16)
	dst[index+3] = byte(length >> 24)
	return dst
}

// ValidCString reports whether s can be written as a cstring, i.e. it does
// not contain a null byte.
func ValidCString(s string) bool {
	return strings.IndexByte(s, 0x00) == -1
}

// ReadInt32 will read an int32 from src. If there are not enough bytes it
// will return false.
func ReadInt32(src []byte) (int32, []byte, bool) { return readi32(src) }

// ReadUint32 will read a uint32 from src.
func ReadUint32(src []byte) (uint32, []byte, bool) {
	if len(src) < 4 {
		return 0, src, false
	}
	return binary.LittleEndian.Uint32(src), src[4:], true
}

// ReadInt64 will read an int64 from src.
func ReadInt64(src []byte) (int64, []byte, bool) { return readi64(src) }

// ReadDouble will read a float64 from src.
func ReadDouble(src []byte) (float64, []byte, bool) {
	if len(src) < 8 {
		return 0, src, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(src)), src[8:], true
}

// ReadCString will read a cstring from src. The returned string does not
// include the terminating null byte.
func ReadCString(src []byte) (string, []byte, bool) {
	idx := bytes.IndexByte(src, 0x00)
	if idx < 0 {
		return "", src, false
	}
	return string(src[:idx]), src[idx+1:], true
}

// ReadString will read a length-prefixed string from src. It returns false if
// the length is invalid or the string is not null terminated.
func ReadString(src []byte) (string, []byte, bool) {
	l, rem, ok := readi32(src)
	if !ok || l < 1 || int(l) > len(rem) {
		return "", src, false
	}
	if rem[l-1] != 0x00 {
		return "", src, false
	}
	return string(rem[:l-1]), rem[l:], true
}

func appendi32(dst []byte, i32 int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(i32))
}

func appendu32(dst []byte, u32 uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, u32)
}

func appendi64(dst []byte, i64 int64) []byte {
	return binary.LittleEndian.AppendUint64(dst, uint64(i64))
}

func appendu64(dst []byte, u64 uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, u64)
}

func readi32(src []byte) (int32, []byte, bool) {
	if len(src) < 4 {
		return 0, src, false
	}
	return int32(binary.LittleEndian.Uint32(src)), src[4:], true
}

func readi64(src []byte) (int64, []byte, bool) {
	if len(src) < 8 {
		return 0, src, false
	}
	return int64(binary.LittleEndian.Uint64(src)), src[8:], true
}
