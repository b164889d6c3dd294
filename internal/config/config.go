// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads perfreport's configuration from flags, the
// environment and an optional YAML file.
//
// Precedence, highest first: explicitly set flags, PERFREPORT_*
// environment variables, the config file, flag defaults. An
// environment variable's name is the flag name upper-cased with '-'
// replaced by '_', so --archive-dsn is PERFREPORT_ARCHIVE_DSN.
package config

import (
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override
// configuration keys.
const EnvPrefix = "PERFREPORT"

// Config is the complete configuration of a report run.
type Config struct {
	// Results is the root of the results tree to read.
	Results string `mapstructure:"results"`
	// Reports is the root of the report tree to write.
	Reports string `mapstructure:"reports"`
	// Workers bounds the number of files parsed concurrently.
	Workers int `mapstructure:"workers"`
	// SummaryJSON, if set, is a file to write the JSON summary to.
	SummaryJSON string `mapstructure:"summary-json"`

	// ArchiveDriver and ArchiveDSN select the optional SQL archive.
	// Both or neither must be set.
	ArchiveDriver string `mapstructure:"archive-driver"`
	ArchiveDSN    string `mapstructure:"archive-dsn"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Results:   "results",
		Reports:   "docs/reports",
		Workers:   runtime.GOMAXPROCS(0),
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// RegisterFlags defines a flag for every configuration key on fs, with
// the values of Default as defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("results", d.Results, "root `dir`ectory of benchmark result files")
	fs.String("reports", d.Reports, "`dir`ectory to write the markdown report to")
	fs.Int("workers", d.Workers, "number of result files to parse concurrently")
	fs.String("summary-json", d.SummaryJSON, "also write a JSON summary of the report to `file`")
	fs.String("archive-driver", d.ArchiveDriver, "archive canonical records with SQL `driver` (sqlite3 or mysql)")
	fs.String("archive-dsn", d.ArchiveDSN, "data source name of the archive database")
	fs.String("log-level", d.LogLevel, "log `level` (trace, debug, info, warn, error)")
	fs.String("log-format", d.LogFormat, "log `format` (text or json)")
}

// Load builds a Config from fs, the environment and, if file is not
// empty, the YAML config file at file. fs must have been populated by
// RegisterFlags and parsed.
func Load(fs *pflag.FlagSet, file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", file)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem with c.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Results == "" {
		result = multierror.Append(result, errors.New("results directory must not be empty"))
	}
	if c.Reports == "" {
		result = multierror.Append(result, errors.New("reports directory must not be empty"))
	}
	if c.Workers < 1 {
		result = multierror.Append(result, errors.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	switch c.ArchiveDriver {
	case "", "sqlite3", "mysql":
	default:
		result = multierror.Append(result, errors.Errorf("unsupported archive driver %q", c.ArchiveDriver))
	}
	if (c.ArchiveDriver == "") != (c.ArchiveDSN == "") {
		result = multierror.Append(result, errors.New("archive-driver and archive-dsn must be set together"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		result = multierror.Append(result, errors.Errorf("unsupported log format %q", c.LogFormat))
	}
	return result.ErrorOrNil()
}

// Archived reports whether c enables the SQL archive.
func (c *Config) Archived() bool {
	return c.ArchiveDriver != ""
}
