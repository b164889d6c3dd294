// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mdtab builds GitHub-flavored markdown tables.
//
// Unlike a text table, a markdown table is not padded: each row is
// written as "| a | b |" and the renderer that displays it does the
// layout. This keeps generated pages small and makes a changed cell
// show up as a one-line diff.
package mdtab

import (
	"fmt"
	"strings"
)

// Table builds a markdown table. The first row is the header.
//
// Many of its methods return the Table so callers can easily chain
// them to build up many cells at once.
type Table struct {
	rows  [][]string
	cols  int
	align []Align
}

// Align is the alignment of a column, which markdown records in the
// delimiter row.
type Align int

const (
	Default Align = iota
	Left
	Center
	Right
)

func (a Align) delim() string {
	switch a {
	default:
		return "---"
	case Left:
		return ":---"
	case Center:
		return ":---:"
	case Right:
		return "---:"
	}
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, nil)
	return t
}

// Cell appends a cell to the current row. Rows shorter than the
// widest row are padded with empty cells.
func (t *Table) Cell(value string) *Table {
	if len(t.rows) == 0 {
		t.Row()
	}
	last := len(t.rows) - 1
	t.rows[last] = append(t.rows[last], value)
	if n := len(t.rows[last]); n > t.cols {
		t.cols = n
	}
	return t
}

// Cells adds a cell for each value.
func (t *Table) Cells(values ...string) *Table {
	for _, v := range values {
		t.Cell(v)
	}
	return t
}

// Cellf adds a cell formatted with fmt.Sprintf.
func (t *Table) Cellf(format string, args ...any) *Table {
	return t.Cell(fmt.Sprintf(format, args...))
}

// SetAlign sets the alignment of column col.
func (t *Table) SetAlign(col int, a Align) *Table {
	for len(t.align) < col+1 {
		t.align = append(t.align, Default)
	}
	t.align[col] = a
	return t
}

// Lines returns the lines of t: the header, the delimiter row, and
// one line per body row. It returns nil for an empty table.
func (t *Table) Lines() []string {
	if len(t.rows) == 0 {
		return nil
	}
	lines := make([]string, 0, len(t.rows)+1)
	lines = append(lines, t.line(t.rows[0]))

	var delim strings.Builder
	delim.WriteString("|")
	for col := 0; col < t.cols; col++ {
		a := Default
		if col < len(t.align) {
			a = t.align[col]
		}
		delim.WriteString(a.delim())
		delim.WriteString("|")
	}
	lines = append(lines, delim.String())

	for _, row := range t.rows[1:] {
		lines = append(lines, t.line(row))
	}
	return lines
}

func (t *Table) line(row []string) string {
	var b strings.Builder
	b.WriteString("|")
	for col := 0; col < t.cols; col++ {
		var v string
		if col < len(row) {
			v = Escape(row[col])
		}
		b.WriteString(" ")
		b.WriteString(v)
		b.WriteString(" |")
	}
	return b.String()
}

var escaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// Escape makes s safe to use as the content of a table cell.
func Escape(s string) string {
	return escaper.Replace(s)
}
