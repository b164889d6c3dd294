// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchreport

import (
	"encoding/json"
	"io"

	"github.com/mqttcompare/perfreport/benchmath"
	"github.com/mqttcompare/perfreport/benchproc"
	"github.com/mqttcompare/perfreport/canonical"
)

// A Summary is the machine-readable form of a report: the same
// statistics the pages show, keyed the same way.
type Summary struct {
	Mode      string         `json:"mode"`
	Records   int            `json:"records"`
	Languages []*LangSummary `json:"languages"`
}

// A LangSummary summarizes the records of one language.
type LangSummary struct {
	Lang      string           `json:"lang"`
	Samples   int              `json:"samples"`
	Encodings []string         `json:"encodings"`
	Latest    string           `json:"latest"`
	Buckets   []*BucketSummary `json:"buckets"`
}

// A BucketSummary summarizes one (encoding, variant, QoS) bucket.
type BucketSummary struct {
	Enc      string            `json:"enc"`
	Variant  string            `json:"variant"`
	QoS      int               `json:"qos"`
	Count    int               `json:"count"`
	BytesAvg float64           `json:"bytes_avg"`
	PubMS    benchmath.Summary `json:"pub_ms"`
	RecvMS   benchmath.Summary `json:"recv_ms"`
	TPS      benchmath.Summary `json:"tps"`
}

// Summarize computes the Summary of groups.
func Summarize(groups benchproc.Groups) *Summary {
	s := &Summary{Mode: ModeEmpty.String(), Records: groups.Len(), Languages: []*LangSummary{}}
	if s.Records > 0 {
		s.Mode = ModePopulated.String()
	}
	for _, lang := range groups.Langs() {
		recs := groups[lang]
		ls := &LangSummary{
			Lang:      lang,
			Samples:   len(recs),
			Encodings: benchproc.Encodings(recs),
			Latest:    benchproc.Latest(recs),
		}
		buckets := benchproc.GroupByBucket(recs)
		for _, k := range benchproc.SortedBuckets(buckets) {
			xs := buckets[k]
			ls.Buckets = append(ls.Buckets, &BucketSummary{
				Enc:      k.Enc,
				Variant:  k.Variant,
				QoS:      k.QoS,
				Count:    len(xs),
				BytesAvg: benchmath.SummarizeField(xs, canonical.FieldBytes).Avg,
				PubMS:    benchmath.SummarizeField(xs, canonical.FieldPubMS),
				RecvMS:   benchmath.SummarizeField(xs, canonical.FieldRecvMS),
				TPS:      benchmath.SummarizeField(xs, canonical.FieldTPS),
			})
		}
		s.Languages = append(s.Languages, ls)
	}
	return s
}

// WriteJSON writes s to w as indented JSON.
func (s *Summary) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(s)
}
