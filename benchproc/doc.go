// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchproc provides tools for grouping and sorting canonical
// benchmark records.
//
// Grouping is two-level. GroupByLang partitions a record set by
// language. Within one language, GroupByBucket partitions the records
// by the (encoding, variant, QoS) tuple named by a BucketKey.
//
// Every function in this package is a pure function of its input.
// Grouping keys match exactly, and the iteration order a caller
// should use (Groups.Langs, SortBuckets, Encodings) is derived from
// the keys, never from the order records arrived in. Two runs over the
// same records therefore produce the same output even if the records
// were read concurrently.
package benchproc
