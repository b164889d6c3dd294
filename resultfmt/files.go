// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// An Entry is one item found by Walk: a candidate results file, or a
// directory below the root that could not be read.
type Entry struct {
	Path string
	Err  error // non-nil for an unreadable directory
}

// Walk returns every regular file reachable from root, at any depth,
// in lexical order.
//
// Symbolic links are followed, both at the root and below it. Each
// directory is read once, however many links lead to it, so link
// cycles terminate. Dangling links are ignored.
//
// A root that does not exist holds no files; this is the "no results
// yet" condition and is not an error. Walk returns an error only if
// root itself cannot be read. Directories below root that cannot be
// read are returned as entries with Err set, in their place in the
// order.
func Walk(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	switch {
	case info.Mode().IsRegular():
		return []Entry{{Path: root}}, nil
	case !info.IsDir():
		return nil, nil
	}

	w := &walker{root: root}
	if err := w.dir(root, info); err != nil {
		return nil, err
	}
	return w.entries, nil
}

type walker struct {
	root    string
	entries []Entry
	seen    []fs.FileInfo // directories already read
}

func (w *walker) dir(dir string, info fs.FileInfo) error {
	for _, s := range w.seen {
		if os.SameFile(s, info) {
			return nil
		}
	}
	w.seen = append(w.seen, info)

	ents, err := os.ReadDir(dir)
	if err != nil {
		if dir == w.root {
			return err
		}
		w.entries = append(w.entries, Entry{Path: dir, Err: err})
		return nil
	}
	for _, e := range ents {
		path := filepath.Join(dir, e.Name())
		typ := e.Type()
		if typ&fs.ModeSymlink != 0 {
			fi, err := os.Stat(path)
			if err != nil {
				continue
			}
			if fi.Mode().IsRegular() {
				w.entries = append(w.entries, Entry{Path: path})
			} else if fi.IsDir() {
				w.dir(path, fi)
			}
			continue
		}
		switch {
		case typ.IsRegular():
			w.entries = append(w.entries, Entry{Path: path})
		case typ.IsDir():
			fi, err := e.Info()
			if err != nil {
				w.entries = append(w.entries, Entry{Path: path, Err: err})
				continue
			}
			w.dir(path, fi)
		}
	}
	return nil
}

// A Files reads result records from every file under a results root.
//
// Each file is parsed according to FormatOf. A file or directory that
// cannot be read or parsed produces a *ParseError record and reading
// continues with the next entry.
type Files struct {
	// Root is the results directory to scan.
	Root string

	// entries is the sequence of remaining Walk entries.
	entries []Entry
	init    bool

	reader  Reader
	file    *os.File
	pending *ParseError
	nFiles  int
	skipped int
	err     error
}

// Scan advances to the next record in the sequence of files and
// reports whether a record was read. If Scan reaches the end of the
// results tree, or if the root could not be read, it returns false.
// In this case, the caller should use the Err method to check for
// errors.
func (f *Files) Scan() bool {
	if f.err != nil {
		return false
	}
	f.pending = nil
	if !f.init {
		f.init = true
		f.entries, f.err = Walk(f.Root)
		if f.err != nil {
			return false
		}
	}

	for {
		if f.file == nil {
			if len(f.entries) == 0 {
				return false
			}
			ent := f.entries[0]
			f.entries = f.entries[1:]
			if ent.Err != nil {
				f.pending = &ParseError{FileName: ent.Path, Err: ent.Err}
				return true
			}
			f.nFiles++

			file, err := os.Open(ent.Path)
			if err != nil {
				// Report the unreadable file in-band.
				f.pending = &ParseError{FileName: ent.Path, Err: err}
				return true
			}
			f.file = file
			f.reader.Reset(file, ent.Path, FormatOf(ent.Path))
		}

		if f.reader.Scan() {
			return true
		}
		f.skipped += f.reader.Skipped()
		f.file.Close()
		f.file = nil
	}
}

// Result returns the record that was just read by Scan.
// See Reader.Result.
func (f *Files) Result() Record {
	if f.pending != nil {
		return f.pending
	}
	return f.reader.Result()
}

// Err returns the error that stopped Scan, if any. Only failures to
// read the results root are errors; problems with individual files
// and directories are reported as *ParseError records.
func (f *Files) Err() error {
	return f.err
}

// Close releases the file being read, if any. It is only needed when
// iteration stops before Scan returns false.
func (f *Files) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

// Files returns the number of files opened so far.
func (f *Files) Files() int {
	return f.nFiles
}

// Skipped returns the number of unparseable lines skipped in files
// that have been read to completion.
func (f *Files) Skipped() int {
	return f.skipped
}
