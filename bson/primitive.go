// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

package bson

import "bytes"

// Binary represents a BSON binary value.
type Binary struct {
	Subtype byte
	Data    []byte
}

// Equal compares bp to bp2 and returns true if they are equal.
func (bp Binary) Equal(bp2 Binary) bool {
	return bp.Subtype == bp2.Subtype && bytes.Equal(bp.Data, bp2.Data)
}

// Regex represents a BSON regex value. An empty Pattern or Options is written
// as an empty cstring.
type Regex struct {
	Pattern string
	Options string
}

func (rp Regex) String() string {
	b := appendJSONString([]byte(`{"pattern": `), rp.Pattern)
	b = appendJSONString(append(b, `, "options": `...), rp.Options)
	return string(append(b, '}'))
}

// Timestamp represents a BSON timestamp value. On the wire the increment is
// written before the seconds.
type Timestamp struct {
	Increment uint32
	Seconds   uint32
}

// CodeWithScope represents a BSON JavaScript code with scope value.
type CodeWithScope struct {
	Code  string
	Scope *Document
}

// Equal compares cws to cws2 and returns true if they are equal.
func (cws CodeWithScope) Equal(cws2 CodeWithScope) bool {
	return cws.Code == cws2.Code && cws.Scope.Equal(cws2.Scope)
}

// DBRef represents a BSON DBPointer value: a collection name and the ObjectID
// of a document in it.
type DBRef struct {
	Collection string
	ID         ObjectID
}
