// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mqttcompare/perfreport/canonical"
)

// SortBuckets sorts a slice of BucketKeys using BucketKey.Less.
func SortBuckets(keys []BucketKey) {
	slices.SortFunc(keys, BucketKey.Less)
}

// SortedBuckets returns the keys of buckets in BucketKey.Less order.
func SortedBuckets(buckets map[BucketKey][]*canonical.Record) []BucketKey {
	keys := maps.Keys(buckets)
	SortBuckets(keys)
	return keys
}
