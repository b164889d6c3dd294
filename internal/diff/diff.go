// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares generated pages in tests.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Diff returns a human-readable description of the differences between
// old and new. If the "diff" command is available, it returns the
// output of unified diff on old and new; otherwise it reports the
// first differing line. The result is empty if and only if the strings
// are equal.
func Diff(old, new string) string {
	if old == new {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return firstDiff(old, new)
	}
	f1, err := writeTemp(old)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(f1)
	f2, err := writeTemp(new)
	if err != nil {
		return err.Error()
	}
	defer os.Remove(f2)

	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}

	data, err := exec.Command(cmd, "-u", f1, f2).CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		// Ignore that failure as long as we get output.
		err = nil
	}
	if err != nil {
		data = append(data, []byte(err.Error())...)
	}
	if len(data) == 0 {
		// Identical after diff's own normalization.
		return firstDiff(old, new)
	}
	return string(data)
}

func writeTemp(s string) (string, error) {
	f, err := os.CreateTemp("", "perfreport_test")
	if err != nil {
		return "", err
	}
	_, err = f.WriteString(s)
	if err1 := f.Close(); err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func firstDiff(old, new string) string {
	ol, nl := strings.Split(old, "\n"), strings.Split(new, "\n")
	for i := 0; i < len(ol) || i < len(nl); i++ {
		var o, n string
		if i < len(ol) {
			o = ol[i]
		}
		if i < len(nl) {
			n = nl[i]
		}
		if o != n || i >= len(ol) || i >= len(nl) {
			return fmt.Sprintf("line %d:\nold: %q\nnew: %q", i+1, o, n)
		}
	}
	return fmt.Sprintf("old: %q\nnew: %q", old, new)
}
