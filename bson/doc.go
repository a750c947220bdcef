// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bson is a library for building, querying, reading and writing BSON
// documents.
//
// A Document is an ordered list of typed elements (*Value) with lookup by key.
// Elements are created with the C constructors, one per BSON type:
//
//	doc := bson.NewDocument(
//		bson.C.Int32("a", 1),
//		bson.C.String("b", "hi"),
//		bson.C.SubDocumentFromElements("c", bson.C.Boolean("x", true)),
//	)
//	doc.Set("a", bson.C.Int64("a", 2))
//	v := doc.Get("b")
//
// Documents are written with an Encoder, or the MarshalBSON and WriteTo
// methods:
//
//	b, err := doc.MarshalBSON()
//	if err != nil { return err }
//
// and read back with ReadDocument, ReadDocumentFrom, or an Iterator when the
// elements should be visited one at a time:
//
//	doc, err := bson.ReadDocument(b)
//	if err != nil { return err }
//
// Errors are matched with errors.Is against ErrUnknownType,
// ErrMalformedDocument and ErrUnsupportedOperation. A missing key is not an
// error; Get returns nil.
package bson
