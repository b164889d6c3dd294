// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultfmt discovers and reads benchmark result files written
// by heterogeneous producers.
//
// Producers write results as whole JSON documents, JSON arrays,
// line-delimited JSON, or CSV. This package does not impose a schema:
// every record is returned as an untyped key/value map, and it is up
// to package canonical to reconcile the different key sets.
//
// Like a bufio.Scanner, the Reader and Files types are streaming
// iterators. Malformed input is reported in-band as a *ParseError
// record rather than as a Go error, so one bad producer file never
// stops the rest of a results tree from being read.
package resultfmt

import "fmt"

// A Record is a single record read from a results file. It is either
// a *Raw or a *ParseError.
type Record interface {
	// Pos returns the position of this record as a file name and a
	// 1-based position within that file. For line-oriented formats
	// the position is a line number; for JSON arrays it is the
	// element index plus one. Records not read from a file return
	// "", 0.
	Pos() (fileName string, pos int)
}

var _ Record = (*Raw)(nil)
var _ Record = (*ParseError)(nil)

// A Raw is one untyped result record as emitted by a producer.
type Raw struct {
	// Fields maps keys to decoded JSON values (string, json.Number,
	// bool, nil, []any or map[string]any). Records read from CSV
	// have only string values.
	Fields map[string]any

	fileName string
	pos      int
}

// NewRaw returns a Raw with the given fields and no position.
func NewRaw(fields map[string]any) *Raw {
	return &Raw{Fields: fields}
}

func (r *Raw) Pos() (fileName string, pos int) {
	return r.fileName, r.pos
}

// Get returns the value of key and whether it is present.
func (r *Raw) Get(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// A ParseError reports that a results file, or part of one, could
// not be parsed. It is a record, not a fatal error: readers continue
// with the next file after producing one.
type ParseError struct {
	FileName string
	Line     int // 0 if the failure concerns the whole file
	Err      error
}

func (e *ParseError) Pos() (fileName string, pos int) {
	return e.FileName, e.Line
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Failed to parse %s: %v", e.FileName, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
