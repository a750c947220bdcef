// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/pretty"
)

// MarshalJSON renders the document as relaxed extended JSON. Arrays are
// rendered as JSON arrays in element order; their keys are not checked.
func (d *Document) MarshalJSON() ([]byte, error) {
	return appendJSONDocument(nil, d, false)
}

// String returns the relaxed extended JSON form of the document on a single
// line.
func (d *Document) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return string(b)
}

// PrettyString returns the relaxed extended JSON form of the document,
// indented for reading.
func (d *Document) PrettyString() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return string(pretty.Pretty(b))
}

func appendJSONDocument(dst []byte, d *Document, array bool) ([]byte, error) {
	open, closing := byte('{'), byte('}')
	if array {
		open, closing = '[', ']'
	}
	dst = append(dst, open)
	for i, v := range d.Values() {
		if i > 0 {
			dst = append(dst, ',')
		}
		if !array {
			dst = appendJSONString(dst, v.key)
			dst = append(dst, ':')
		}
		var err error
		if dst, err = appendJSONValue(dst, v); err != nil {
			return nil, err
		}
	}
	return append(dst, closing), nil
}

func appendJSONString(dst []byte, s string) []byte {
	b, _ := json.Marshal(s)
	return append(dst, b...)
}

func appendJSONValue(dst []byte, v *Value) ([]byte, error) {
	switch v.t {
	case TypeDouble:
		return appendJSONDouble(dst, v.Double()), nil
	case TypeString:
		return appendJSONString(dst, v.StringValue()), nil
	case TypeEmbeddedDocument:
		return appendJSONDocument(dst, v.Document(), false)
	case TypeArray:
		return appendJSONDocument(dst, v.Array(), true)
	case TypeBinary:
		bin := v.Binary()
		dst = append(dst, `{"$binary":{"base64":"`...)
		dst = append(dst, base64.StdEncoding.EncodeToString(bin.Data)...)
		return append(dst, fmt.Sprintf(`","subType":"%02x"}}`, bin.Subtype)...), nil
	case TypeUndefined:
		return append(dst, `{"$undefined":true}`...), nil
	case TypeObjectID:
		return append(dst, `{"$oid":"`+v.ObjectID().Hex()+`"}`...), nil
	case TypeBoolean:
		return strconv.AppendBool(dst, v.Boolean()), nil
	case TypeDateTime:
		dst = append(dst, `{"$date":{"$numberLong":"`...)
		dst = strconv.AppendInt(dst, dateTimeMillis(v.DateTime()), 10)
		return append(dst, `"}}`...), nil
	case TypeNull:
		return append(dst, "null"...), nil
	case TypeRegex:
		re := v.Regex()
		dst = append(dst, `{"$regularExpression":{"pattern":`...)
		dst = appendJSONString(dst, re.Pattern)
		dst = append(dst, `,"options":`...)
		dst = appendJSONString(dst, re.Options)
		return append(dst, "}}"...), nil
	case TypeDBPointer:
		ref := v.DBRef()
		dst = append(dst, `{"$dbPointer":{"$ref":`...)
		dst = appendJSONString(dst, ref.Collection)
		return append(dst, `,"$id":{"$oid":"`+ref.ID.Hex()+`"}}}`...), nil
	case TypeJavaScript:
		dst = append(dst, `{"$code":`...)
		dst = appendJSONString(dst, v.JavaScript())
		return append(dst, '}'), nil
	case TypeSymbol:
		dst = append(dst, `{"$symbol":`...)
		dst = appendJSONString(dst, v.Symbol())
		return append(dst, '}'), nil
	case TypeCodeWithScope:
		cws := v.CodeWithScope()
		dst = append(dst, `{"$code":`...)
		dst = appendJSONString(dst, cws.Code)
		dst = append(dst, `,"$scope":`...)
		dst, err := appendJSONDocument(dst, cws.Scope, false)
		if err != nil {
			return nil, err
		}
		return append(dst, '}'), nil
	case TypeInt32:
		return strconv.AppendInt(dst, int64(v.Int32()), 10), nil
	case TypeTimestamp:
		ts := v.Timestamp()
		return append(dst, fmt.Sprintf(`{"$timestamp":{"t":%d,"i":%d}}`, ts.Seconds, ts.Increment)...), nil
	case TypeInt64:
		return strconv.AppendInt(dst, v.Int64(), 10), nil
	case TypeMinKey:
		return append(dst, `{"$minKey":1}`...), nil
	case TypeMaxKey:
		return append(dst, `{"$maxKey":1}`...), nil
	default:
		return nil, UnknownTypeError{Type: v.t, Key: v.key}
	}
}

func appendJSONDouble(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, `{"$numberDouble":"NaN"}`...)
	case math.IsInf(f, 1):
		return append(dst, `{"$numberDouble":"Infinity"}`...)
	case math.IsInf(f, -1):
		return append(dst, `{"$numberDouble":"-Infinity"}`...)
	}
	s := strconv.FormatFloat(f, 'G', -1, 64)
	if !strings.ContainsAny(s, ".E") {
		s += ".0"
	}
	return append(dst, s...)
}
