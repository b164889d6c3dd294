// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canonical

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"k8s.io/utils/clock"

	"github.com/mqttcompare/perfreport/resultfmt"
)

// ErrorKey is the key that marks a raw record as an error.
const ErrorKey = "_error"

// Aliases maps each canonical field name to the raw keys that may
// hold its value, in order of preference.
type Aliases map[string][]string

// DefaultAliases recognizes both the compact schema written by the
// publisher and subscriber clients and the verbose schema written by
// the benchmark harness.
var DefaultAliases = Aliases{
	FieldLang:    {"lang", "language"},
	FieldRole:    {"role"},
	FieldEnc:     {"enc", "encoding"},
	FieldVariant: {"variant", "payload_size", "payload"},
	FieldQoS:     {"qos"},
	FieldBytes:   {"bytes", "payload_bytes", "bytes_sent"},
	FieldPubMS:   {"pub_ms"},
	FieldRecvMS:  {"recv_ms"},
	FieldTPS:     {"tps", "messages_per_second"},
	FieldTS:      {"ts", "timestamp"},
}

// keys returns the alias chain for field. A field with no entry is
// looked up under its own name.
func (a Aliases) keys(field string) []string {
	if keys, ok := a[field]; ok {
		return keys
	}
	return []string{field}
}

// A Result is the outcome of normalizing one record. Exactly one of
// Record and Err is set.
type Result struct {
	Record *Record
	Err    error
}

// OK reports whether r holds a clean Record.
func (r Result) OK() bool {
	return r.Err == nil
}

// A MarkedError is a raw record that carries an error marker instead
// of measurements.
type MarkedError struct {
	FileName string
	Line     int
	Reason   string
}

func (e *MarkedError) Error() string {
	return e.Reason
}

// A Normalizer maps raw records onto Records.
//
// The zero Normalizer uses DefaultAliases and the wall clock.
type Normalizer struct {
	// Clock supplies the timestamp of records that have none.
	Clock clock.PassiveClock

	// Aliases overrides DefaultAliases if non-nil.
	Aliases Aliases
}

func (n *Normalizer) clock() clock.PassiveClock {
	if n.Clock == nil {
		return clock.RealClock{}
	}
	return n.Clock
}

func (n *Normalizer) aliases() Aliases {
	if n.Aliases == nil {
		return DefaultAliases
	}
	return n.Aliases
}

// Normalize maps rec onto a Record. Parse errors and raw records
// carrying ErrorKey produce an error Result; every other record
// produces a Record with all fields populated.
func (n *Normalizer) Normalize(rec resultfmt.Record) Result {
	var raw *resultfmt.Raw
	switch rec := rec.(type) {
	case *resultfmt.ParseError:
		return Result{Err: rec}
	case *resultfmt.Raw:
		raw = rec
	default:
		name, pos := rec.Pos()
		return Result{Err: &MarkedError{name, pos, fmt.Sprintf("unexpected record type %T", rec)}}
	}
	if reason, ok := raw.Get(ErrorKey); ok {
		name, pos := raw.Pos()
		return Result{Err: &MarkedError{name, pos, fmt.Sprint(reason)}}
	}
	return Result{Record: n.Map(raw.Fields)}
}

// Map maps a generic key/value structure onto a Record. It is total:
// absent or uncoercible values take the field's default.
func (n *Normalizer) Map(fields map[string]any) *Record {
	a := n.aliases()
	get := func(field string) (any, bool) {
		for _, key := range a.keys(field) {
			if v, ok := fields[key]; ok && present(v) {
				return v, true
			}
		}
		return nil, false
	}

	r := &Record{
		Lang:    DefaultLang,
		Role:    DefaultRole,
		Enc:     DefaultEnc,
		Variant: DefaultVariant,
		QoS:     DefaultQoS,
	}
	setString := func(field string, dst *string) {
		if v, ok := get(field); ok {
			if s, ok := toString(v); ok && s != "" {
				*dst = s
			}
		}
	}
	setFloat := func(field string, dst *float64) {
		if v, ok := get(field); ok {
			if f, ok := toFloat(v); ok && f >= 0 {
				*dst = f
			}
		}
	}

	setString(FieldLang, &r.Lang)
	setString(FieldRole, &r.Role)
	setString(FieldEnc, &r.Enc)
	setString(FieldVariant, &r.Variant)
	if v, ok := get(FieldQoS); ok {
		if i, ok := toInt(v); ok && i >= math.MinInt32 && i <= math.MaxInt32 {
			r.QoS = int(i)
		}
	}
	if v, ok := get(FieldBytes); ok {
		if i, ok := toInt(v); ok && i >= 0 {
			r.Bytes = i
		}
	}
	setFloat(FieldPubMS, &r.PubMS)
	setFloat(FieldRecvMS, &r.RecvMS)
	setFloat(FieldTPS, &r.TPS)
	setString(FieldTS, &r.TS)
	if r.TS == "" {
		r.TS = n.clock().Now().UTC().Format(TimestampLayout)
	}
	return r
}

// NormalizeAll normalizes every record, returning the clean Records
// and the errors separately, each in input order.
func (n *Normalizer) NormalizeAll(recs []resultfmt.Record) (clean []*Record, errs []error) {
	for _, rec := range recs {
		res := n.Normalize(rec)
		if res.OK() {
			clean = append(clean, res.Record)
		} else {
			errs = append(errs, res.Err)
		}
	}
	return clean, errs
}

// present reports whether v counts as a value for alias lookup.
// JSON null and the empty string are treated as absent, so an empty
// CSV cell falls through to the next alias or the default.
func present(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	}
	return true
}

// numeric converts a json.Number into int64 or float64 so weak
// decoding truncates fractional values into integer fields instead of
// rejecting them.
func numeric(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return string(n)
}

func toString(v any) (string, bool) {
	var s string
	if err := mapstructure.WeakDecode(v, &s); err != nil {
		return "", false
	}
	return s, true
}

func toInt(v any) (int64, bool) {
	v = numeric(v)
	switch x := v.(type) {
	case string:
		// Weak decoding would read "010" as octal.
		i, err := strconv.ParseInt(x, 10, 64)
		return i, err == nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) >= 1<<63 {
			return 0, false
		}
	}
	var i int64
	if err := mapstructure.WeakDecode(v, &i); err != nil {
		return 0, false
	}
	return i, true
}

func toFloat(v any) (float64, bool) {
	v = numeric(v)
	if s, ok := v.(string); ok {
		// mapstructure accepts Go float syntax; producers write
		// decimal floats, so reject the special spellings.
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	var f float64
	if err := mapstructure.WeakDecode(v, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
