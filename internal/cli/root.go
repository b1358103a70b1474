/*
 * root.go, part of polytop.
 *
 * Copyright 2025 The polytop authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package cli implements the polytop command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rmera/polytop/internal/config"
	"github.com/rmera/polytop/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

type contextKey struct{}

//RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

//Context carries the configuration and logger to the subcommands.
type Context struct {
	Config *config.Config
	Log    *zap.Logger
}

//NewRootCommand returns the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	cmd := &cobra.Command{
		Use:   "polytop",
		Short: "Build polymer topologies by splicing GROMACS itp fragments",
		Long: "polytop joins molecules described by a PDB and a GROMACS itp file. Fragments of\n" +
			"a target molecule are superimposed on fragments of a reference, and the two\n" +
			"topologies are merged into one.",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	cmd.AddCommand(newConvertCmd(), newCheckCmd(), newSpliceCmd(), newUniverseCmd())
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, contextKey{}, &Context{Config: cfg, Log: log}))
	return nil
}

//getContext returns the context set up by the root command, or the defaults
//with a no-op logger.
func getContext(cmd *cobra.Command) *Context {
	if ctx := cmd.Context(); ctx != nil {
		if c, ok := ctx.Value(contextKey{}).(*Context); ok {
			return c
		}
	}
	return &Context{Config: config.Default(), Log: zap.NewNop()}
}

//Execute runs the root command with the process arguments.
func Execute() error {
	root := NewRootCommand()
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "polytop: %v\n", err)
	}
	return err
}
