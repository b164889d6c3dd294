// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdtab

import (
	"strings"
	"testing"
)

func TestAlign(t *testing.T) {
	check := func(a Align, want string) {
		t.Helper()
		if got := a.delim(); got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check(Default, "---")
	check(Left, ":---")
	check(Center, ":---:")
	check(Right, "---:")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		got := strings.Join(tab.Lines(), "\n")
		if got != "" {
			got += "\n"
		}
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		// Reset tab.
		tab = Table{}
	}

	// Empty table.
	check("")

	// Header only.
	tab.Row().Cell("a").Cell("b")
	check("| a | b |\n|---|---|\n")

	// Basic test.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("| a | b | c |\n|---|---|---|\n| d | e | f |\n")

	// No padding for long cells.
	tab.Row().Cells("a", "b")
	tab.Row().Cells("long", "x")
	check("| a | b |\n|---|---|\n| long | x |\n")

	// Column alignment.
	tab.Row().Cells("a", "b", "c", "d")
	tab.Row().Cells("1", "2", "3", "4")
	tab.SetAlign(1, Left).SetAlign(2, Right).SetAlign(3, Center)
	check("| a | b | c | d |\n|---|:---|---:|:---:|\n| 1 | 2 | 3 | 4 |\n")

	// Missing cells at the end.
	tab.Row().Cells("a", "b", "c")
	tab.Row().Cell("d")
	check("| a | b | c |\n|---|---|---|\n| d |  |  |\n")

	// Body rows wider than the header.
	tab.Row().Cell("a")
	tab.Row().Cells("b", "c")
	check("| a |  |\n|---|---|\n| b | c |\n")

	// Formatted cells.
	tab.Row().Cell("x")
	tab.Row().Cellf("%.0f", 2.5)
	check("| x |\n|---|\n| 2 |\n")

	// Cell without an explicit row.
	tab.Cell("x")
	check("| x |\n|---|\n")
}

func TestEscape(t *testing.T) {
	check := func(s, want string) {
		t.Helper()
		if got := Escape(s); got != want {
			t.Errorf("Escape(%q) = %q, want %q", s, got, want)
		}
	}
	check("plain", "plain")
	check("a|b", `a\|b`)
	check("two\nlines", "two lines")
	check("crlf\r\nline", "crlf line")
}
