// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Perfreport renders the MQTT client benchmark results as a markdown
// report tree.
//
// Usage:
//
//	perfreport [--results dir] [--reports dir] [--config file] [flags]
//	perfreport version
//
// Perfreport reads every file under the results directory (default
// "results"), whatever producer wrote it: JSON documents, JSON arrays,
// line-delimited JSON and CSV are all accepted, with either the
// compact or the verbose key schema. It normalizes each record, groups
// the records by language and by (encoding, variant, QoS) bucket, and
// writes
//
//	index.md              one row per language
//	<lang>/index.md       one row per bucket with latency and throughput statistics
//	<lang>/<enc>.md       latency distributions for one encoding
//
// under the reports directory (default "docs/reports"). If there are
// no usable records, only a placeholder index.md is written. Pages
// from an earlier run that the current run does not produce are
// removed.
//
// Files that cannot be parsed are logged and skipped; they never cause
// a nonzero exit status. Perfreport exits with status 1 only if the
// configuration is invalid or the report cannot be written.
//
// The --summary-json flag additionally writes the report's statistics
// as JSON. The --archive-driver and --archive-dsn flags store the
// canonical records of each run in a sqlite3 or MySQL database.
//
// Every flag can also be set in the YAML file named by --config, or
// through an environment variable named PERFREPORT_ followed by the
// flag name in upper case with dashes replaced by underscores.
package main

import (
	"os"

	"github.com/mqttcompare/perfreport/cmd/perfreport/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
