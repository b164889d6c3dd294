// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import "github.com/mqttcompare/perfreport/canonical"

// Filter returns the records for which keep returns true, in input
// order. It does not modify records.
func Filter(records []*canonical.Record, keep func(*canonical.Record) bool) []*canonical.Record {
	var out []*canonical.Record
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterEnc returns the records whose encoding is exactly enc.
func FilterEnc(records []*canonical.Record, enc string) []*canonical.Record {
	return Filter(records, func(r *canonical.Record) bool {
		return r.Enc == enc
	})
}
