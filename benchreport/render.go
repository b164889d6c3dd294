// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchreport renders grouped benchmark records as a tree of
// markdown pages.
//
// A populated report has three tiers:
//
//	index.md              one row per language
//	<lang>/index.md       one row per (encoding, variant, QoS) bucket
//	<lang>/<enc>.md       latency distributions for one encoding
//
// A report over no records is a single placeholder index.md. The
// choice between the two is made once, by Render, and recorded in
// Tree.Mode.
//
// Rendering is pure: Render builds the whole tree in memory and
// Tree.Write puts it on disk. Pages are byte-for-byte identical for
// identical input.
package benchreport

import (
	"fmt"
	"path"
	"strings"

	"github.com/mqttcompare/perfreport/benchmath"
	"github.com/mqttcompare/perfreport/benchproc"
	"github.com/mqttcompare/perfreport/canonical"
	"github.com/mqttcompare/perfreport/internal/mdtab"
)

// Mode is the rendering mode of a report.
type Mode int

const (
	// ModeEmpty renders only a placeholder index page.
	ModeEmpty Mode = iota
	// ModePopulated renders the full three-tier tree.
	ModePopulated
)

func (m Mode) String() string {
	switch m {
	case ModeEmpty:
		return "empty"
	case ModePopulated:
		return "populated"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options configures Render.
type Options struct {
	// ResultsRoot is the results directory named in the report's
	// introductory text. If empty, "results" is used.
	ResultsRoot string
}

func (o Options) resultsRoot() string {
	root := strings.TrimRight(strings.ReplaceAll(o.ResultsRoot, `\`, "/"), "/")
	if root == "" {
		return "results"
	}
	return root
}

// IndexPage is the path of the root page of every report.
const IndexPage = "index.md"

// Render renders groups as a report tree.
func Render(groups benchproc.Groups, opts Options) *Tree {
	t := &Tree{}
	if groups.Len() == 0 {
		t.Mode = ModeEmpty
		t.add(IndexPage, placeholder(opts))
		return t
	}
	t.Mode = ModePopulated

	langs := groups.Langs()
	t.add(IndexPage, globalIndex(groups, langs, opts))

	dirs := newNamer()
	dirs.reserve(IndexPage)
	dirs.reserve(ManifestName)
	for _, lang := range langs {
		recs := groups[lang]
		dir := dirs.name(lang)
		t.add(path.Join(dir, IndexPage), langIndex(lang, recs))

		files := newNamer()
		files.reserve(strings.TrimSuffix(IndexPage, ".md"))
		for _, enc := range benchproc.Encodings(recs) {
			t.add(path.Join(dir, files.name(enc)+".md"), encPage(lang, enc, benchproc.FilterEnc(recs, enc)))
		}
	}
	return t
}

func placeholder(opts Options) []string {
	return []string{
		"# Benchmark Reports",
		"",
		fmt.Sprintf("_No results yet. Run the harness to populate `%s/`._", opts.resultsRoot()),
	}
}

func globalIndex(groups benchproc.Groups, langs []string, opts Options) []string {
	lines := []string{
		"# Benchmark Reports",
		"",
		fmt.Sprintf("This section is generated from `%s/`. Missing pages mean no data yet.", opts.resultsRoot()),
		"",
	}

	var tab mdtab.Table
	tab.Row().Cells("Language", "Encodings", "Latest Samples")
	for _, lang := range langs {
		recs := groups[lang]
		tab.Row().
			Cell("**" + lang + "**").
			Cell(strings.Join(benchproc.Encodings(recs), ", ")).
			Cell(benchproc.Latest(recs))
	}
	return append(lines, tab.Lines()...)
}

func langIndex(lang string, recs []*canonical.Record) []string {
	lines := []string{"# " + strings.ToUpper(lang), ""}

	var tab mdtab.Table
	tab.Row().Cells("enc", "variant", "qos", "count", "bytes(avg)", "pub_ms", "recv_ms", "tps")
	tab.SetAlign(2, mdtab.Right).SetAlign(3, mdtab.Right).SetAlign(4, mdtab.Right)
	buckets := benchproc.GroupByBucket(recs)
	for _, k := range benchproc.SortedBuckets(buckets) {
		xs := buckets[k]
		tab.Row().
			Cell(k.Enc).
			Cell(k.Variant).
			Cellf("%d", k.QoS).
			Cellf("%d", len(xs)).
			Cellf("%.0f", benchmath.SummarizeField(xs, canonical.FieldBytes).Avg).
			Cell(benchmath.SummarizeField(xs, canonical.FieldPubMS).String()).
			Cell(benchmath.SummarizeField(xs, canonical.FieldRecvMS).String()).
			Cell(benchmath.SummarizeField(xs, canonical.FieldTPS).String())
	}
	return append(lines, tab.Lines()...)
}

func encPage(lang, enc string, recs []*canonical.Record) []string {
	lines := []string{
		fmt.Sprintf("# %s — %s", strings.ToUpper(lang), strings.ToUpper(enc)),
		"",
		fmt.Sprintf("_Samples: %d_", len(recs)),
	}
	for _, field := range []string{canonical.FieldPubMS, canonical.FieldRecvMS} {
		lines = append(lines,
			"",
			fmt.Sprintf("## Distribution (%s)", field),
			"",
			"```text",
			benchmath.SummarizeField(recs, field).String(),
			"```",
		)
	}
	return lines
}
