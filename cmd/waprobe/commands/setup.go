package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/entrhq/waprobe/pkg/setup"
)

func setupCmd(opts *globalOptions) *cobra.Command {
	var autoRun, skipVerify bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Create or update the config file and sample data files",
		Long: "Walks through every configuration field, writes the config file, creates a sample\n" +
			"input file and empty output files, then checks that the browser can be launched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup.Run(cmd.Context(), setup.Options{
				ConfigPath: opts.configPath,
				SkipVerify: skipVerify,
			})
			if errors.Is(err, setup.ErrCancelled) {
				cmdLog.Infof("Setup cancelled, nothing was written.")
				return nil
			}
			if err != nil {
				return err
			}

			if autoRun {
				cmdLog.Infof("Auto-running app after successful setup...")
				return execute(cmd.Context(), cmd.OutOrStdout(), opts, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoRun, "auto-run", false, "run once with the new config after a successful setup")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "only write the config and data files")
	cmd.MarkFlagsMutuallyExclusive("auto-run", "skip-verify")
	return cmd
}
