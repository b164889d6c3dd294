// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"fmt"
	"strings"
)

// Sanitize maps a language or encoding name to a single safe path
// component. Characters outside [A-Za-z0-9._-] become '_', and names
// that would be empty or refer to a directory ("." or "..") become
// "_".
func Sanitize(name string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		}
		return '_'
	}, name)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// A namer assigns distinct sanitized path components to distinct
// names. If two names sanitize to the same component, the later one
// gets a numeric suffix. Callers must present names in a
// deterministic order.
type namer struct {
	byName map[string]string
	used   map[string]bool
}

func newNamer() *namer {
	return &namer{byName: make(map[string]string), used: make(map[string]bool)}
}

// reserve marks component as unavailable.
func (n *namer) reserve(component string) {
	n.used[strings.ToLower(component)] = true
}

func (n *namer) name(s string) string {
	if c, ok := n.byName[s]; ok {
		return c
	}
	base := Sanitize(s)
	c := base
	// Compare case-insensitively so pages don't collide on
	// case-insensitive file systems.
	for i := 2; n.used[strings.ToLower(c)]; i++ {
		c = fmt.Sprintf("%s-%d", base, i)
	}
	n.used[strings.ToLower(c)] = true
	n.byName[s] = c
	return c
}
