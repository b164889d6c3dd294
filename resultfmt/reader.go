// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// A Format identifies how a results file is laid out.
type Format int

const (
	// FormatLines is line-delimited JSON: one object per line.
	// Lines that fail to parse are skipped.
	FormatLines Format = iota
	// FormatJSON is a single JSON document holding either one
	// record object or an array of record objects.
	FormatJSON
	// FormatCSV is comma-separated values with a header row.
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	}
	return "jsonl"
}

// FormatOf returns the Format for path based on its extension,
// compared case-insensitively. Anything that is not ".json" or ".csv",
// including files with no extension, is read as line-delimited JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	}
	return FormatLines
}

// maxLineSize bounds a single line of line-delimited JSON.
const maxLineSize = 4 << 20

// A Reader reads result records from one results file.
//
// Its API is modeled on bufio.Scanner. To construct a Reader, call
// NewReader, or call Reset on a zeroed Reader.
type Reader struct {
	r        io.Reader
	fileName string
	format   Format

	// q is the queue of records to return before reading more
	// input. qPos is the index of the current record in q.
	q    []Record
	qPos int

	started bool
	done    bool
	err     error

	lines   *bufio.Scanner
	csv     *csv.Reader
	header  []string
	line    int
	skipped int
}

var noResult = &ParseError{"", 0, fmt.Errorf("Reader.Scan has not been called")}

// NewReader returns a Reader that parses r in the given format.
// fileName is used in positions and error messages; it is purely
// diagnostic.
func NewReader(r io.Reader, fileName string, format Format) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName, format)
	return reader
}

// Reset resets the reader to begin reading from a new input.
func (r *Reader) Reset(ior io.Reader, fileName string, format Format) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	*r = Reader{
		r:        ior,
		fileName: fileName,
		format:   format,
		q:        r.q[:0],
	}
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Result method to get the
// record. Scan returns false at the end of the input. Parse failures
// are returned as *ParseError records, not through Err.
func (r *Reader) Scan() bool {
	if r.qPos+1 < len(r.q) {
		r.qPos++
		return true
	}
	r.qPos = 0
	r.q = r.q[:0]

	for len(r.q) == 0 && !r.done {
		if !r.started {
			r.started = true
			r.start()
			continue
		}
		switch r.format {
		case FormatCSV:
			r.nextCSV()
		case FormatLines:
			r.nextLine()
		default:
			r.done = true
		}
	}
	return len(r.q) > 0
}

// Result returns the record that was just read by Scan. This is either
// a *Raw or a *ParseError.
func (r *Reader) Result() Record {
	if r.qPos >= len(r.q) {
		return noResult
	}
	return r.q[r.qPos]
}

// Err returns the first error that stopped the Reader. Because file
// content problems are reported as *ParseError records, Err is
// currently always nil; it exists so Reader and Files share an
// iteration protocol.
func (r *Reader) Err() error {
	return r.err
}

// Skipped returns the number of non-blank lines of line-delimited
// JSON that were skipped because they were not JSON objects.
func (r *Reader) Skipped() int {
	return r.skipped
}

func (r *Reader) fail(line int, err error) {
	r.q = append(r.q, &ParseError{FileName: r.fileName, Line: line, Err: err})
	r.done = true
}

func (r *Reader) start() {
	switch r.format {
	case FormatJSON:
		r.readDocument()
	case FormatCSV:
		r.csv = csv.NewReader(r.r)
		r.csv.FieldsPerRecord = -1
		header, err := r.csv.Read()
		if err == io.EOF {
			r.done = true
			return
		}
		if err != nil {
			r.fail(0, err)
			return
		}
		if len(header) > 0 {
			header[0] = strings.TrimPrefix(header[0], "\ufeff")
		}
		r.header = header
	default:
		r.lines = bufio.NewScanner(r.r)
		r.lines.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	}
}

// readDocument parses the whole input as one JSON value and queues
// its records. An invalid document produces exactly one ParseError
// and no records.
func (r *Reader) readDocument() {
	r.done = true
	data, err := io.ReadAll(r.r)
	if err != nil {
		r.fail(0, err)
		return
	}
	val, err := decodeValue(data)
	if err != nil {
		r.fail(0, err)
		return
	}
	switch val := val.(type) {
	case map[string]any:
		r.q = append(r.q, &Raw{Fields: val, fileName: r.fileName, pos: 1})
	case []any:
		for i, elem := range val {
			obj, ok := elem.(map[string]any)
			if !ok {
				err := fmt.Errorf("element %d is %s, not an object", i, jsonKind(elem))
				r.q = append(r.q, &ParseError{FileName: r.fileName, Line: i + 1, Err: err})
				continue
			}
			r.q = append(r.q, &Raw{Fields: obj, fileName: r.fileName, pos: i + 1})
		}
	}
	// Any other JSON value holds no records.
}

func (r *Reader) nextCSV() {
	row, err := r.csv.Read()
	if err == io.EOF {
		r.done = true
		return
	}
	if err != nil {
		r.fail(0, err)
		return
	}
	line, _ := r.csv.FieldPos(0)
	fields := make(map[string]any, len(r.header))
	for i, key := range r.header {
		if i >= len(row) {
			break
		}
		fields[key] = row[i]
	}
	r.q = append(r.q, &Raw{Fields: fields, fileName: r.fileName, pos: line})
}

func (r *Reader) nextLine() {
	if !r.lines.Scan() {
		r.done = true
		if err := r.lines.Err(); err != nil {
			r.fail(r.line+1, err)
		}
		return
	}
	r.line++
	line := bytes.TrimSpace(r.lines.Bytes())
	if len(line) == 0 {
		return
	}
	val, err := decodeValue(line)
	obj, ok := val.(map[string]any)
	if err != nil || !ok {
		// Line-oriented logs commonly contain partial or
		// interleaved writes.
		r.skipped++
		return
	}
	r.q = append(r.q, &Raw{Fields: obj, fileName: r.fileName, pos: r.line})
}

// decodeValue decodes exactly one JSON value from data, keeping
// numbers as json.Number so integers survive unchanged.
func decodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var val any
	if err := dec.Decode(&val); err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid character after top-level value at offset %d", dec.InputOffset())
	}
	return val, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case []any:
		return "an array"
	}
	return fmt.Sprintf("%T", v)
}
