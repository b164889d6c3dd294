// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canonical reconciles the record schemas of different
// benchmark producers into one fixed record shape.
//
// Producers disagree on key names and value types: one writes
// "language" and "messages_per_second" as JSON numbers, another writes
// "lang" and "tps" as CSV strings. A Normalizer maps each raw record
// onto a Record by following an alias chain per field, coercing the
// first present value to the field's type, and falling back to the
// field's default when the value is absent or cannot be coerced.
// Normalization never fails for a raw record; only records that were
// already errors when read produce an error Result.
package canonical

// Canonical field names. These are also the JSON keys of Record and
// the keys of an Aliases table.
const (
	FieldLang    = "lang"
	FieldRole    = "role"
	FieldEnc     = "enc"
	FieldVariant = "variant"
	FieldQoS     = "qos"
	FieldBytes   = "bytes"
	FieldPubMS   = "pub_ms"
	FieldRecvMS  = "recv_ms"
	FieldTPS     = "tps"
	FieldTS      = "ts"
)

// Fields lists the canonical field names in record order.
var Fields = []string{
	FieldLang, FieldRole, FieldEnc, FieldVariant, FieldQoS,
	FieldBytes, FieldPubMS, FieldRecvMS, FieldTPS, FieldTS,
}

// Defaults for absent or uncoercible fields. The default timestamp is
// not a constant: it is the Normalizer's clock reading.
const (
	DefaultLang    = "unknown"
	DefaultRole    = "pub"
	DefaultEnc     = "json"
	DefaultVariant = "small"
	DefaultQoS     = 1
)

// TimestampLayout is the layout of default timestamps. It matches the
// ISO-8601 form the producers write, so timestamps from either source
// compare correctly as strings.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// A Record is one normalized benchmark measurement. Every field is
// always populated.
type Record struct {
	Lang    string  `json:"lang"`
	Role    string  `json:"role"`
	Enc     string  `json:"enc"`
	Variant string  `json:"variant"`
	QoS     int     `json:"qos"`
	Bytes   int64   `json:"bytes"`
	PubMS   float64 `json:"pub_ms"`
	RecvMS  float64 `json:"recv_ms"`
	TPS     float64 `json:"tps"`
	TS      string  `json:"ts"`
}

// Metric returns the value of the numeric field named field, or false
// if field is not a numeric canonical field.
func (r *Record) Metric(field string) (float64, bool) {
	switch field {
	case FieldQoS:
		return float64(r.QoS), true
	case FieldBytes:
		return float64(r.Bytes), true
	case FieldPubMS:
		return r.PubMS, true
	case FieldRecvMS:
		return r.RecvMS, true
	case FieldTPS:
		return r.TPS, true
	}
	return 0, false
}
