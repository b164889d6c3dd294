// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ManifestName is the file in a reports root that lists the pages the
// last Write produced.
const ManifestName = ".perfreport-manifest"

// A Page is one rendered document.
type Page struct {
	// Path is the slash-separated path of the page relative to the
	// reports root.
	Path string
	Data []byte
}

// A Tree is a rendered report.
type Tree struct {
	Mode  Mode
	Pages []*Page // in rendering order
}

func (t *Tree) add(p string, lines []string) {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	t.Pages = append(t.Pages, &Page{Path: p, Data: buf.Bytes()})
}

// Page returns the page at slash-separated path p.
func (t *Tree) Page(p string) (*Page, bool) {
	for _, pg := range t.Pages {
		if pg.Path == p {
			return pg, true
		}
	}
	return nil, false
}

// Paths returns the paths of all pages in t in lexical order.
func (t *Tree) Paths() []string {
	paths := make([]string, len(t.Pages))
	for i, pg := range t.Pages {
		paths[i] = pg.Path
	}
	sort.Strings(paths)
	return paths
}

// WriteResult reports what Write changed on disk.
type WriteResult struct {
	Written int      // pages written
	Removed []string // stale pages removed, slash-separated
}

// Write writes t under root, creating root if necessary.
//
// Write replaces the previous report wholesale: pages listed in root's
// manifest by an earlier Write that t does not contain are removed,
// along with any directories that become empty. Files Write did not
// create are never touched.
func (t *Tree) Write(root string) (*WriteResult, error) {
	if err := os.MkdirAll(root, 0o777); err != nil {
		return nil, errors.Wrap(err, "creating reports root")
	}
	old, err := readManifest(filepath.Join(root, ManifestName))
	if err != nil {
		return nil, err
	}

	res := &WriteResult{}
	current := make(map[string]bool)
	for _, pg := range t.Pages {
		if !validPath(pg.Path) {
			return nil, errors.Errorf("invalid page path %q", pg.Path)
		}
		current[pg.Path] = true
		dst := filepath.Join(root, filepath.FromSlash(pg.Path))
		if err := os.MkdirAll(filepath.Dir(dst), 0o777); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", pg.Path)
		}
		if err := writeFile(dst, pg.Data); err != nil {
			return nil, errors.Wrapf(err, "writing %s", pg.Path)
		}
		res.Written++
	}

	for _, p := range old {
		if current[p] || !validPath(p) {
			continue
		}
		err := os.Remove(filepath.Join(root, filepath.FromSlash(p)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "removing stale page %s", p)
		}
		if err == nil {
			res.Removed = append(res.Removed, p)
		}
		pruneDirs(root, path.Dir(p))
	}

	var manifest bytes.Buffer
	for _, p := range t.Paths() {
		manifest.WriteString(p)
		manifest.WriteByte('\n')
	}
	if err := writeFile(filepath.Join(root, ManifestName), manifest.Bytes()); err != nil {
		return nil, errors.Wrap(err, "writing manifest")
	}
	return res, nil
}

// writeFile writes data to name unless name already holds exactly
// data, so an unchanged report leaves modification times alone.
func writeFile(name string, data []byte) error {
	if old, err := os.ReadFile(name); err == nil && bytes.Equal(old, data) {
		return nil
	}
	return os.WriteFile(name, data, 0o666)
}

func readManifest(name string) ([]string, error) {
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}
	defer f.Close()

	var paths []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if p := strings.TrimSpace(s.Text()); p != "" {
			paths = append(paths, p)
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}
	return paths, nil
}

// validPath reports whether p names a file strictly inside the
// reports root other than the manifest.
func validPath(p string) bool {
	return fs.ValidPath(p) && p != "." && p != ManifestName && !strings.Contains(p, `\`)
}

// pruneDirs removes dir and its parents, up to but excluding root,
// while they are empty.
func pruneDirs(root, dir string) {
	for dir != "." && dir != "/" && dir != "" {
		if err := os.Remove(filepath.Join(root, filepath.FromSlash(dir))); err != nil {
			return
		}
		dir = path.Dir(dir)
	}
}
