// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline runs one report generation: scan the results tree,
// normalize, aggregate, render, write, and optionally archive.
package pipeline

import (
	"context"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/mqttcompare/perfreport/benchproc"
	"github.com/mqttcompare/perfreport/benchreport"
	"github.com/mqttcompare/perfreport/canonical"
	"github.com/mqttcompare/perfreport/internal/config"
	"github.com/mqttcompare/perfreport/resultfmt"
	"github.com/mqttcompare/perfreport/storage/db"
	_ "github.com/mqttcompare/perfreport/storage/db/sqlite3"
)

// Stats describes a completed run.
type Stats struct {
	Files     int // files found under the results root
	Skipped   int // unparseable lines skipped in line-delimited files
	Records   int // canonical records aggregated
	Errors    int // error records excluded from aggregation
	Languages int

	Mode    benchreport.Mode
	Written int      // pages written
	Removed []string // stale pages removed

	// RunID is the archive ID of this run, or "" if archiving is
	// disabled.
	RunID string

	// Diagnostics combines the error records of the run, or is nil
	// if there were none. They never fail a run.
	Diagnostics *multierror.Error
}

// Run generates the report described by cfg. clk supplies the run's
// start time and the timestamp of records that carry none; nil means
// the wall clock.
//
// Malformed input never fails a run; it shows up in
// Stats.Diagnostics. Run returns an error only if the results root
// cannot be read or an output cannot be written.
func Run(ctx context.Context, cfg *config.Config, clk clock.PassiveClock) (*Stats, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}
	start := clk.Now()
	logger := log.WithFields(log.Fields{"results": cfg.Results, "reports": cfg.Reports})

	snap, err := resultfmt.ReadAll(ctx, cfg.Results, cfg.Workers)
	if err != nil {
		return nil, errors.Wrapf(err, "reading results from %s", cfg.Results)
	}
	st := &Stats{Files: snap.Files, Skipped: snap.Skipped}
	if snap.Skipped > 0 {
		logger.WithField("lines", snap.Skipped).Debug("skipped unparseable lines")
	}

	norm := &canonical.Normalizer{Clock: clk}
	clean, errs := norm.NormalizeAll(snap.Records)
	for _, err := range errs {
		logger.Warn(err)
		st.Diagnostics = multierror.Append(st.Diagnostics, err)
	}
	st.Records, st.Errors = len(clean), len(errs)

	groups := benchproc.GroupByLang(clean)
	st.Languages = len(groups)
	tree := benchreport.Render(groups, benchreport.Options{ResultsRoot: cfg.Results})
	st.Mode = tree.Mode

	res, err := tree.Write(cfg.Reports)
	if err != nil {
		return nil, errors.Wrapf(err, "writing report to %s", cfg.Reports)
	}
	st.Written, st.Removed = res.Written, res.Removed
	for _, p := range res.Removed {
		logger.WithField("page", p).Debug("removed stale page")
	}

	if cfg.SummaryJSON != "" {
		if err := writeSummary(cfg.SummaryJSON, benchreport.Summarize(groups)); err != nil {
			return nil, err
		}
	}

	if cfg.Archived() {
		st.RunID, err = archive(ctx, cfg, db.Run{
			StartedAt:   start,
			ResultsRoot: cfg.Results,
			Files:       st.Files,
			Errors:      st.Errors,
		}, clean)
		if err != nil {
			return nil, err
		}
	}

	logger.WithFields(log.Fields{
		"files":     st.Files,
		"records":   st.Records,
		"errors":    st.Errors,
		"languages": st.Languages,
		"mode":      st.Mode.String(),
		"pages":     st.Written,
	}).Info("report generated")
	return st, nil
}

func writeSummary(path string, s *benchreport.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating summary")
	}
	if err := s.WriteJSON(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing summary to %s", path)
	}
	return errors.Wrapf(f.Close(), "writing summary to %s", path)
}

func archive(ctx context.Context, cfg *config.Config, run db.Run, records []*canonical.Record) (string, error) {
	d, err := db.OpenSQL(cfg.ArchiveDriver, cfg.ArchiveDSN)
	if err != nil {
		return "", errors.Wrapf(err, "opening %s archive", cfg.ArchiveDriver)
	}
	defer d.Close()
	id, err := d.InsertRun(ctx, run, records)
	if err != nil {
		return "", errors.Wrap(err, "archiving run")
	}
	log.WithFields(log.Fields{"run": id, "records": len(records)}).Info("archived run")
	return id, nil
}
