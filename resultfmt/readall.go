// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"
)

// A Snapshot is every record read from a results tree in one pass.
type Snapshot struct {
	// Records holds the records of every file, grouped by file in
	// lexical path order and in input order within a file.
	Records []Record

	// Files is the number of candidate files found.
	Files int

	// Skipped is the number of unparseable lines skipped in
	// line-delimited JSON files.
	Skipped int
}

type fileResult struct {
	records []Record
	skipped int
}

// ReadAll reads every file under root using up to workers concurrent
// parsers. With one worker (or fewer) the tree is read sequentially
// with Files. Otherwise per-file results are merged in path order
// regardless of which parser finishes first, so the result is the
// same for any number of workers.
//
// ReadAll returns an error only if root cannot be read or ctx is
// canceled.
func ReadAll(ctx context.Context, root string, workers int) (*Snapshot, error) {
	if workers <= 1 {
		return readSequential(ctx, root)
	}
	entries, err := Walk(root)
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, ent := range entries {
		i, ent := i, ent
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = readEntry(ent)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	for i, res := range results {
		if entries[i].Err == nil {
			snap.Files++
		}
		snap.Records = append(snap.Records, res.records...)
		snap.Skipped += res.skipped
	}
	return snap, nil
}

func readSequential(ctx context.Context, root string) (*Snapshot, error) {
	f := &Files{Root: root}
	defer f.Close()
	snap := &Snapshot{}
	for f.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap.Records = append(snap.Records, f.Result())
	}
	if err := f.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap.Files, snap.Skipped = f.Files(), f.Skipped()
	return snap, nil
}

func readEntry(ent Entry) fileResult {
	if ent.Err != nil {
		return fileResult{records: []Record{&ParseError{FileName: ent.Path, Err: ent.Err}}}
	}
	file, err := os.Open(ent.Path)
	if err != nil {
		return fileResult{records: []Record{&ParseError{FileName: ent.Path, Err: err}}}
	}
	defer file.Close()

	var res fileResult
	r := NewReader(file, ent.Path, FormatOf(ent.Path))
	for r.Scan() {
		res.records = append(res.records, r.Result())
	}
	res.skipped = r.Skipped()
	return res
}
