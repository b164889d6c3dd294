// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"k8s.io/utils/clock"

	"github.com/mqttcompare/perfreport/internal/config"
	"github.com/mqttcompare/perfreport/internal/logging"
	"github.com/mqttcompare/perfreport/internal/pipeline"
	"github.com/mqttcompare/perfreport/storage/db/sqlite3"
)

// Version is the perfreport version. It is set at link time.
var Version = "devel"

// RootCmd is the root Cobra command that gets called from the main func.
func RootCmd() *cobra.Command {
	return newRootCmd(clock.RealClock{})
}

func newRootCmd(clk clock.PassiveClock) *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:   "perfreport",
		Short: "perfreport renders benchmark results as a markdown report.",
		Long: `perfreport reads the result files under --results, normalizes them,
and writes a markdown report tree under --reports.

Configuration can also be given in a YAML file passed with --config,
and through PERFREPORT_* environment variables, e.g.
PERFREPORT_ARCHIVE_DSN for --archive-dsn.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return report(cmd, err)
			}
			if err := logging.Configure(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
				return report(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			st, err := pipeline.Run(ctx, cfg, clk)
			if err != nil {
				return report(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s report: %d records from %d files (%d errors) -> %s\n",
				st.Mode, st.Records, st.Files, st.Errors, cfg.Reports)
			if st.RunID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "archived as run %s\n", st.RunID)
			}
			return nil
		},
	}
	cmd.SetContext(context.Background())
	cmd.Flags().StringVar(&configFile, "config", "", "read configuration from YAML `file`")
	config.RegisterFlags(cmd.Flags())

	cmd.AddCommand(versionCmd())
	return cmd
}

// Print version info and exit.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "perfreport %s (sqlite %s)\n", Version, sqlite3.Version())
			return nil
		},
	}
}

func report(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "perfreport: %v\n", err)
	return err
}
