package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const examplesText = `
=== CLI Usage Examples ===

# 1) First-time interactive setup and auto-run
waprobe setup --auto-run

# 2) Just edit the config (no browser check)
waprobe setup --skip-verify

# 3) Run using config.yaml from the current folder
waprobe

# 4) Override input and mode from the CLI
waprobe -i data/input_numbers.txt --mode threaded --threads 4

# 5) One-session threaded mode
waprobe --mode onedriver --threads 4

# 6) Multi-session threaded mode (requires a single-mode login first)
# 6.1) Run single to create the logged-in profile
waprobe --mode single
# 6.2) Then run threaded
waprobe --mode threaded --threads 4 --chunk-size 50

# 7) List the browser profiles created so far
waprobe profiles
==========================
`

func examplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show CLI usage examples",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printExamples(cmd.OutOrStdout())
		},
	}
}

func printExamples(w io.Writer) {
	fmt.Fprint(w, examplesText)
}
