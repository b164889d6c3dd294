// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath computes order statistics over distributions of
// benchmark measurements.
//
// This package is deliberately simple. It doesn't interpolate
// quantiles or test significance: a report reader should be able to
// find every number it prints in the underlying samples.
package benchmath

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/mqttcompare/perfreport/canonical"
)

// A Sample is a set of repeated measurements of one metric.
type Sample struct {
	// Values are the measured values, in ascending order.
	Values []float64
}

// NewSample constructs a Sample from a set of measurements. It sorts
// values in place.
func NewSample(values []float64) *Sample {
	// Sort values for fast order statistics.
	sort.Float64s(values)
	return &Sample{values}
}

func (s *Sample) sample() stats.Sample {
	return stats.Sample{Xs: s.Values, Sorted: true}
}

// Quantile returns the nearest-rank q-quantile of s, that is, the
// value at index floor(q*(n-1)) of the sorted sample. q is clamped to
// [0, 1]. It returns NaN for an empty sample.
func (s *Sample) Quantile(q float64) float64 {
	n := len(s.Values)
	if n == 0 {
		return math.NaN()
	}
	q = math.Max(0, math.Min(1, q))
	return s.Values[int(q*float64(n-1))]
}

// A Summary summarizes a Sample. A Summary with N == 0 describes an
// empty sample and its other fields are zero.
type Summary struct {
	N   int     `json:"n"`
	Min float64 `json:"min"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// Summary returns the order statistics of s.
func (s *Sample) Summary() Summary {
	if len(s.Values) == 0 {
		return Summary{}
	}
	ss := s.sample()
	lo, hi := ss.Bounds()
	return Summary{
		N:   len(s.Values),
		Min: lo,
		Max: hi,
		P50: s.Quantile(0.5),
		P95: s.Quantile(0.95),
		// The plain sum over n, not the incremental stats.Mean,
		// which can differ in the last bit and flip a rounded
		// avg.
		Avg: ss.Sum() / ss.Weight(),
	}
}

// Summarize returns the order statistics of values. It does not
// modify values.
func Summarize(values []float64) Summary {
	return NewSample(append([]float64(nil), values...)).Summary()
}

// SummarizeField summarizes the numeric canonical field named field
// across records. It panics if field is not numeric.
func SummarizeField(records []*canonical.Record, field string) Summary {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		v, ok := r.Metric(field)
		if !ok {
			panic(fmt.Sprintf("benchmath: %q is not a numeric field", field))
		}
		values = append(values, v)
	}
	return NewSample(values).Summary()
}

// String returns the one-line form of s, "n=0" for an empty sample and
// otherwise "n=N min=X p50=X p95=X max=X avg=X" with two decimals.
func (s Summary) String() string {
	if s.N == 0 {
		return "n=0"
	}
	return fmt.Sprintf("n=%d min=%.2f p50=%.2f p95=%.2f max=%.2f avg=%.2f",
		s.N, s.Min, s.P50, s.P95, s.Max, s.Avg)
}
