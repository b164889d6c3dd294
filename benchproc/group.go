// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mqttcompare/perfreport/canonical"
)

// Groups maps each language to its records. Within a language,
// records are in input order.
type Groups map[string][]*canonical.Record

// GroupByLang partitions records by language.
func GroupByLang(records []*canonical.Record) Groups {
	g := make(Groups)
	for _, r := range records {
		g[r.Lang] = append(g[r.Lang], r)
	}
	return g
}

// Langs returns the languages in g in lexical order.
func (g Groups) Langs() []string {
	langs := maps.Keys(g)
	slices.Sort(langs)
	return langs
}

// Len returns the total number of records in g.
func (g Groups) Len() int {
	n := 0
	for _, rs := range g {
		n += len(rs)
	}
	return n
}

// A BucketKey identifies the records of one language that share an
// encoding, payload variant and QoS level.
type BucketKey struct {
	Enc     string
	Variant string
	QoS     int
}

func (k BucketKey) String() string {
	return fmt.Sprintf("%s/%s/qos%d", k.Enc, k.Variant, k.QoS)
}

// Less reports whether k sorts before o: by encoding and variant
// lexically, then by QoS numerically.
func (k BucketKey) Less(o BucketKey) bool {
	if k.Enc != o.Enc {
		return k.Enc < o.Enc
	}
	if k.Variant != o.Variant {
		return k.Variant < o.Variant
	}
	return k.QoS < o.QoS
}

// KeyOf returns the bucket key of r.
func KeyOf(r *canonical.Record) BucketKey {
	return BucketKey{r.Enc, r.Variant, r.QoS}
}

// GroupByBucket partitions records by bucket key.
func GroupByBucket(records []*canonical.Record) map[BucketKey][]*canonical.Record {
	b := make(map[BucketKey][]*canonical.Record)
	for _, r := range records {
		k := KeyOf(r)
		b[k] = append(b[k], r)
	}
	return b
}

// Encodings returns the distinct encodings of records in lexical
// order.
func Encodings(records []*canonical.Record) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		set[r.Enc] = struct{}{}
	}
	encs := maps.Keys(set)
	slices.Sort(encs)
	return encs
}

// Latest returns the greatest timestamp among records, comparing
// timestamps as strings, or "" if records is empty.
func Latest(records []*canonical.Record) string {
	latest := ""
	for _, r := range records {
		if r.TS > latest {
			latest = r.TS
		}
	}
	return latest
}
