// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/mqttcompare/perfreport/benchreport"
	"github.com/mqttcompare/perfreport/internal/config"
	"github.com/mqttcompare/perfreport/internal/diff"
	"github.com/mqttcompare/perfreport/storage/db"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var now = time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

func newClock() *clocktesting.FakePassiveClock {
	return clocktesting.NewFakePassiveClock(now)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o777))
		require.NoError(t, os.WriteFile(path, []byte(data), 0o666))
	}
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Results = filepath.Join(dir, "results")
	cfg.Reports = filepath.Join(dir, "docs", "reports")
	cfg.Workers = 4
	return &cfg
}

var mixed = map[string]string{
	"python/benchmark_results.json": `[{"language":"python","encoding":"json","payload_size":"small","message_count":100,"duration":0.83,"messages_per_second":120.5,"bytes_sent":6400}]`,
	"rust/pub.jsonl": `{"lang":"rust","role":"pub","enc":"msgpack","variant":"small","qos":1,"bytes":64,"pub_ms":0.8,"ts":"2026-10-15T10:00:00.000000"}
{"lang":"rust","role":"pub","enc":"msgpack","variant":"small","qos":1,"bytes":64,"pub_ms":1.2,"ts":"2026-10-15T10:00:01.000000"}
partial write {"lang":
`,
	"c/sub.csv": "lang,role,enc,variant,qos,bytes,pub_ms,recv_ms,tps,ts\n" +
		"c,sub,cbor,large,2,4096,,2.5,,2026-10-14T09:00:00.000000\n",
	"broken.json": `{"lang": "cpp", "enc": `,
}

func TestRunMixedSchemas(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.Results, mixed)

	st, err := Run(context.Background(), cfg, newClock())
	require.NoError(t, err)
	assert.Equal(t, 4, st.Files)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, 4, st.Records)
	assert.Equal(t, 1, st.Errors)
	assert.Equal(t, 3, st.Languages)
	assert.Equal(t, benchreport.ModePopulated, st.Mode)
	require.NotNil(t, st.Diagnostics)
	require.Len(t, st.Diagnostics.Errors, 1)
	assert.Contains(t, st.Diagnostics.Errors[0].Error(), "Failed to parse ")
	assert.Contains(t, st.Diagnostics.Errors[0].Error(), "broken.json")

	files := readTree(t, cfg.Reports)
	assert.ElementsMatch(t, []string{
		benchreport.ManifestName,
		"index.md",
		"c/index.md",
		"c/cbor.md",
		"python/index.md",
		"python/json.md",
		"rust/index.md",
		"rust/msgpack.md",
	}, keys(files))

	wantIndex := "# Benchmark Reports\n" +
		"\n" +
		"This section is generated from `" + filepath.ToSlash(cfg.Results) + "/`. Missing pages mean no data yet.\n" +
		"\n" +
		"| Language | Encodings | Latest Samples |\n" +
		"|---|---|---|\n" +
		"| **c** | cbor | 2026-10-14T09:00:00.000000 |\n" +
		"| **python** | json | 2026-10-16T08:00:00.000000 |\n" +
		"| **rust** | msgpack | 2026-10-15T10:00:01.000000 |\n"
	if d := diff.Diff(wantIndex, files["index.md"]); d != "" {
		t.Errorf("index.md (-want +got):\n%s", d)
	}

	assert.Contains(t, files["python/index.md"],
		"| json | small | 1 | 1 | 6400 | n=1 min=0.00 p50=0.00 p95=0.00 max=0.00 avg=0.00 | n=1 min=0.00 p50=0.00 p95=0.00 max=0.00 avg=0.00 | n=1 min=120.50 p50=120.50 p95=120.50 max=120.50 avg=120.50 |\n")
	assert.Contains(t, files["rust/msgpack.md"], "n=2 min=0.80 p50=0.80 p95=0.80 max=1.20 avg=1.00")
	assert.Contains(t, files["c/index.md"], "| cbor | large | 2 | 1 | 4096 |")
	for name, data := range files {
		assert.NotContains(t, data, "cpp", name)
	}
}

func TestRunSymlinkedResults(t *testing.T) {
	cfg := testConfig(t)
	target := filepath.Join(t.TempDir(), "shared")
	writeTree(t, target, map[string]string{"r.jsonl": `{"lang":"go","enc":"json","pub_ms":2}` + "\n"})
	writeTree(t, cfg.Results, map[string]string{"rust/pub.jsonl": mixed["rust/pub.jsonl"]})
	if err := os.Symlink(target, filepath.Join(cfg.Results, "linked")); err != nil {
		t.Skipf("cannot create symlinks: %v", err)
	}
	root := filepath.Join(t.TempDir(), "results-link")
	require.NoError(t, os.Symlink(cfg.Results, root))
	cfg.Results = root

	st, err := Run(context.Background(), cfg, newClock())
	require.NoError(t, err)
	assert.Equal(t, 2, st.Files)
	assert.Equal(t, 3, st.Records)
	assert.Equal(t, benchreport.ModePopulated, st.Mode)
	assert.FileExists(t, filepath.Join(cfg.Reports, "go", "json.md"))
	assert.FileExists(t, filepath.Join(cfg.Reports, "rust", "msgpack.md"))
}

func TestRunTwiceIdentical(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.Results, mixed)

	_, err := Run(context.Background(), cfg, newClock())
	require.NoError(t, err)
	first := readTree(t, cfg.Reports)

	st, err := Run(context.Background(), cfg, newClock())
	require.NoError(t, err)
	assert.Empty(t, st.Removed)
	assert.Equal(t, first, readTree(t, cfg.Reports))
}

func TestRunEmpty(t *testing.T) {
	for _, setup := range []struct {
		name string
		fn   func(t *testing.T, cfg *config.Config)
	}{
		{"missing root", func(t *testing.T, cfg *config.Config) {}},
		{"empty root", func(t *testing.T, cfg *config.Config) {
			require.NoError(t, os.MkdirAll(filepath.Join(cfg.Results, "python"), 0o777))
		}},
		{"only errors", func(t *testing.T, cfg *config.Config) {
			writeTree(t, cfg.Results, map[string]string{"bad.json": "{", "log": "not json\n"})
		}},
	} {
		t.Run(setup.name, func(t *testing.T) {
			cfg := testConfig(t)
			setup.fn(t, cfg)
			st, err := Run(context.Background(), cfg, newClock())
			require.NoError(t, err)
			assert.Equal(t, benchreport.ModeEmpty, st.Mode)
			assert.Equal(t, 0, st.Records)

			files := readTree(t, cfg.Reports)
			assert.ElementsMatch(t, []string{benchreport.ManifestName, "index.md"}, keys(files))
			assert.True(t, strings.HasPrefix(files["index.md"], "# Benchmark Reports\n\n_No results yet."))
		})
	}
}

func TestRunRemovesStalePages(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.Results, mixed)
	_, err := Run(context.Background(), cfg, newClock())
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(cfg.Results))
	st, err := Run(context.Background(), cfg, newClock())
	require.NoError(t, err)
	assert.Equal(t, benchreport.ModeEmpty, st.Mode)
	assert.Len(t, st.Removed, 6)
	assert.ElementsMatch(t, []string{benchreport.ManifestName, "index.md"}, keys(readTree(t, cfg.Reports)))
}

func TestRunSummaryJSON(t *testing.T) {
	cfg := testConfig(t)
	cfg.SummaryJSON = filepath.Join(t.TempDir(), "summary.json")
	writeTree(t, cfg.Results, mixed)

	_, err := Run(context.Background(), cfg, newClock())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.SummaryJSON)
	require.NoError(t, err)
	var s benchreport.Summary
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, "populated", s.Mode)
	assert.Equal(t, 4, s.Records)
	require.Len(t, s.Languages, 3)
	assert.Equal(t, "rust", s.Languages[2].Lang)
	assert.Equal(t, 2, s.Languages[2].Buckets[0].PubMS.N)
}

func TestRunArchive(t *testing.T) {
	cfg := testConfig(t)
	cfg.ArchiveDriver = "sqlite3"
	cfg.ArchiveDSN = filepath.Join(t.TempDir(), "archive.db")
	writeTree(t, cfg.Results, mixed)

	st, err := Run(context.Background(), cfg, newClock())
	require.NoError(t, err)
	assert.Equal(t, "20261016.1", st.RunID)

	st, err = Run(context.Background(), cfg, newClock())
	require.NoError(t, err)
	assert.Equal(t, "20261016.2", st.RunID)

	d, err := db.OpenSQL(cfg.ArchiveDriver, cfg.ArchiveDSN)
	require.NoError(t, err)
	defer d.Close()
	runs, err := d.CountRuns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, runs)
	n, err := d.CountRecords(context.Background(), st.RunID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestRunUnwritableReports(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.Results, mixed)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Reports), 0o777))
	require.NoError(t, os.WriteFile(cfg.Reports, []byte("not a directory"), 0o666))

	_, err := Run(context.Background(), cfg, newClock())
	assert.Error(t, err)
}

func TestRunCanceled(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.Results, mixed)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, cfg, newClock())
	assert.ErrorIs(t, err, context.Canceled)
}

func keys(m map[string]string) []string {
	var ks []string
	for k := range m {
		ks = append(ks, k)
	}
	return ks
}
