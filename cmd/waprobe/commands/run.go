package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/logging"
	"github.com/entrhq/waprobe/pkg/runner"
)

func runCmd(opts *globalOptions) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check every number in the input file (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, rf)
		},
	}
	bindRunFlags(cmd.Flags(), rf)
	return cmd
}

func runBatch(cmd *cobra.Command, opts *globalOptions, rf *runFlags) error {
	cfg, err := loadRunConfig(cmd.Flags(), opts.configPath, rf)
	if err != nil {
		return err
	}
	return execute(cmd.Context(), cmd.OutOrStdout(), opts, cfg)
}

// loadRunConfig layers the flags the user set over the config file.
func loadRunConfig(fs *pflag.FlagSet, path string, rf *runFlags) (*config.AppConfig, error) {
	base, err := config.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s (run 'waprobe setup' to create one)", path)
		}
		return nil, err
	}

	cfg := config.Merge(base, rf.overrides(fs))
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrInputRequired) {
			return nil, err
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// execute runs one batch with cfg.
func execute(ctx context.Context, out io.Writer, opts *globalOptions, cfg *config.AppConfig) error {
	if err := configureLogging(opts.verbose, cfg.LogLevel, cfg.LogDir); err != nil {
		return err
	}
	if path := logging.LogPath(); path != "" {
		cmdLog.Infof("Run %s logging to %s", logging.GetRunID(), path)
	}
	cmdLog.Debugf("Using config: %+v", *cfg)

	r, err := runner.New(cfg, runner.WithOutput(out))
	if err != nil {
		return err
	}
	_, err = r.Run(ctx)
	return err
}
