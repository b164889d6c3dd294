// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	defer Configure("info", "text", os.Stderr)

	var buf bytes.Buffer
	require.NoError(t, Configure("warn", "json", &buf))
	log.Info("dropped")
	log.WithField("files", 3).Warn("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, float64(3), entry["files"])
}

func TestConfigureText(t *testing.T) {
	defer Configure("info", "text", os.Stderr)

	var buf bytes.Buffer
	require.NoError(t, Configure("debug", "text", &buf))
	log.WithField("mode", "empty").Debug("rendered")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), `msg=rendered`)
	assert.Contains(t, buf.String(), "mode=empty")
}

func TestConfigureErrors(t *testing.T) {
	assert.Error(t, Configure("loud", "text", os.Stderr))
	assert.Error(t, Configure("info", "xml", os.Stderr))
}
