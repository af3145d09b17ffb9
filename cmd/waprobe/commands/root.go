package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/logging"
)

const version = "0.1.0"

// globalOptions are shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
}

// runFlags mirror the config file fields that can be overridden.
type runFlags struct {
	input         string
	validOutput   string
	invalidOutput string
	browser       string
	headless      bool
	delay         float64
	mode          string
	threads       int
	chunkSize     int
	driverPath    string
	logFile       string
}

var cmdLog = logging.NewLogger("waprobe")

// Execute runs the CLI with ctx as the root context.
func Execute(ctx context.Context) error {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cmdLog.Errorf("%v", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rf := &runFlags{}

	root := &cobra.Command{
		Use:           "waprobe",
		Short:         "Filter phone numbers by WhatsApp registration using WhatsApp Web",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(opts.verbose, "info", "")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, rf)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to config file (YAML or JSON)")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "show debug output")
	bindRunFlags(root.Flags(), rf)

	root.AddCommand(
		runCmd(opts),
		setupCmd(opts),
		profilesCmd(opts),
		examplesCmd(),
	)

	return root
}

func bindRunFlags(fs *pflag.FlagSet, rf *runFlags) {
	fs.StringVarP(&rf.input, "input", "i", "", "override config 'input' file path")
	fs.StringVar(&rf.validOutput, "valid-output", "", "override config 'valid_output'")
	fs.StringVar(&rf.invalidOutput, "invalid-output", "", "override config 'invalid_output'")
	fs.StringVar(&rf.browser, "browser", "", "override config 'browser' (chrome, firefox, edge)")
	fs.BoolVar(&rf.headless, "headless", false, "run the browser headless")
	fs.Float64Var(&rf.delay, "delay", 0, "override config 'delay' in seconds")
	fs.StringVar(&rf.mode, "mode", "", "override config 'mode' (single, onedriver, threaded)")
	fs.IntVar(&rf.threads, "threads", 0, "override config 'threads'")
	fs.IntVar(&rf.chunkSize, "chunk-size", 0, "override config 'chunk_size'")
	fs.StringVar(&rf.driverPath, "driver-path", "", "override config 'driver_path'")
	fs.StringVar(&rf.logFile, "log-file", "", "override config 'log_file'")
}

// overrides returns the flags the user actually set.
func (rf *runFlags) overrides(fs *pflag.FlagSet) config.Overrides {
	var o config.Overrides
	if fs.Changed("input") {
		o.Input = &rf.input
	}
	if fs.Changed("valid-output") {
		o.ValidOutput = &rf.validOutput
	}
	if fs.Changed("invalid-output") {
		o.InvalidOutput = &rf.invalidOutput
	}
	if fs.Changed("browser") {
		o.Browser = &rf.browser
	}
	if fs.Changed("headless") {
		o.Headless = &rf.headless
	}
	if fs.Changed("delay") {
		o.Delay = &rf.delay
	}
	if fs.Changed("mode") {
		o.Mode = &rf.mode
	}
	if fs.Changed("threads") {
		o.Threads = &rf.threads
	}
	if fs.Changed("chunk-size") {
		o.ChunkSize = &rf.chunkSize
	}
	if fs.Changed("driver-path") {
		o.DriverPath = &rf.driverPath
	}
	if fs.Changed("log-file") {
		o.LogFile = &rf.logFile
	}
	return o
}

// configureLogging applies the console level and optional run log directory.
// --verbose always wins over the configured level.
func configureLogging(verbose bool, level, dir string) error {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		lvl = logging.LevelDebug
	}

	if err := logging.Configure(logging.Options{Level: lvl, Dir: dir}); err != nil {
		cmdLog.Warnf("File logging disabled: %v", err)
	}
	return nil
}
