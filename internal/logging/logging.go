// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Configure sets the level and format of the standard logger and
// directs it to w. format is "text" or "json".
func Configure(level, format string, w io.Writer) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	var f log.Formatter
	switch format {
	case "text":
		f = &log.TextFormatter{FullTimestamp: true}
	case "json":
		f = &log.JSONFormatter{}
	default:
		return errors.Errorf("unsupported log format %q", format)
	}
	log.SetLevel(lvl)
	log.SetFormatter(f)
	log.SetOutput(w)
	return nil
}
