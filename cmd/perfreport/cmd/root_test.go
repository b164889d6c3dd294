// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	clk := clocktesting.NewFakePassiveClock(time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC))
	cmd := newRootCmd(clk)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootPopulated(t *testing.T) {
	dir := t.TempDir()
	results := filepath.Join(dir, "results")
	reports := filepath.Join(dir, "reports")
	require.NoError(t, os.MkdirAll(filepath.Join(results, "go"), 0o777))
	require.NoError(t, os.WriteFile(filepath.Join(results, "go", "pub.jsonl"),
		[]byte(`{"lang":"go","enc":"json","pub_ms":1.5}`+"\n"), 0o666))
	require.NoError(t, os.WriteFile(filepath.Join(results, "bad.json"), []byte("{"), 0o666))

	stdout, stderr, err := execute(t, "--results", results, "--reports", reports, "--log-format", "json")
	require.NoError(t, err)
	assert.Equal(t, "populated report: 1 records from 2 files (1 errors) -> "+reports+"\n", stdout)
	assert.Contains(t, stderr, `"level":"warning"`)
	assert.Contains(t, stderr, "bad.json")

	for _, p := range []string{"index.md", "go/index.md", "go/json.md"} {
		assert.FileExists(t, filepath.Join(reports, filepath.FromSlash(p)))
	}
}

func TestRootEmpty(t *testing.T) {
	dir := t.TempDir()
	reports := filepath.Join(dir, "reports")
	stdout, _, err := execute(t, "--results", filepath.Join(dir, "missing"), "--reports", reports)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "empty report: 0 records from 0 files"))

	data, err := os.ReadFile(filepath.Join(reports, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "_No results yet.")
}

func TestRootConfigFile(t *testing.T) {
	dir := t.TempDir()
	reports := filepath.Join(dir, "from-config")
	file := filepath.Join(dir, "perfreport.yaml")
	require.NoError(t, os.WriteFile(file, []byte("reports: "+reports+"\nresults: "+filepath.Join(dir, "none")+"\n"), 0o666))

	_, _, err := execute(t, "--config", file)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(reports, "index.md"))
}

func TestRootArchive(t *testing.T) {
	dir := t.TempDir()
	results := filepath.Join(dir, "results")
	require.NoError(t, os.MkdirAll(results, 0o777))
	require.NoError(t, os.WriteFile(filepath.Join(results, "r.csv"),
		[]byte("lang,enc,tps\nrust,cbor,900\n"), 0o666))

	stdout, _, err := execute(t,
		"--results", results,
		"--reports", filepath.Join(dir, "reports"),
		"--archive-driver", "sqlite3",
		"--archive-dsn", filepath.Join(dir, "archive.db"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "archived as run 20261016.1\n")
}

func TestRootInvalidConfig(t *testing.T) {
	_, stderr, err := execute(t, "--workers", "0", "--archive-driver", "postgres")
	require.Error(t, err)
	assert.Contains(t, stderr, "workers must be at least 1")
	assert.Contains(t, stderr, "archive-driver and archive-dsn must be set together")
}

func TestRootRejectsArgs(t *testing.T) {
	_, _, err := execute(t, "results")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "perfreport devel (sqlite 3."), stdout)
}
