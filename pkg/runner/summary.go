package runner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/dispatch"
	"github.com/entrhq/waprobe/pkg/ui"
)

const timestampLayout = "2006-01-02 15:04:05"

// Paths are the absolute locations a run reads and writes.
type Paths struct {
	Input   string
	Valid   string
	Invalid string
	Log     string
}

// Summary describes a finished (or aborted) run.
type Summary struct {
	Mode     config.Mode
	Paths    Paths
	Started  time.Time
	Finished time.Time
	Loaded   int
	Valid    int
	Invalid  int
	Failures []dispatch.ChunkError
	Err      error
}

// Duration returns the wall-clock time of the run.
func (s Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Line renders the one-line record appended to the run log.
func (s Summary) Line() string {
	return fmt.Sprintf("Run finished: %s | Duration: %.1fs | Mode: %s | Input: %s | Valid: %d -> %s | Invalid: %d -> %s",
		s.Finished.Format(timestampLayout),
		s.Duration().Seconds(),
		s.Mode,
		s.Paths.Input,
		s.Valid, s.Paths.Valid,
		s.Invalid, s.Paths.Invalid,
	)
}

// Print writes a styled summary box to w.
func (s Summary) Print(w io.Writer) {
	const labelWidth = 10

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("RUN SUMMARY"))
	b.WriteString("\n\n")

	status := ui.SuccessStyle.Render("✓ SUCCESS")
	switch {
	case s.Err != nil:
		status = ui.ErrorStyle.Render("✗ FAILED")
	case len(s.Failures) > 0:
		status = ui.ErrorStyle.Render("⚠ PARTIAL")
	}
	b.WriteString(ui.LabelStyle.Render(fmt.Sprintf("%-*s", labelWidth+1, "Status:")) + status + "\n")

	rows := [][2]string{
		{"Mode", string(s.Mode)},
		{"Duration", s.Duration().Round(100 * time.Millisecond).String()},
		{"Input", fmt.Sprintf("%s (%d numbers)", s.Paths.Input, s.Loaded)},
		{"Valid", fmt.Sprintf("%d -> %s", s.Valid, s.Paths.Valid)},
		{"Invalid", fmt.Sprintf("%d -> %s", s.Invalid, s.Paths.Invalid)},
		{"Log", s.Paths.Log},
	}
	for _, row := range rows {
		b.WriteString(ui.Field(row[0], labelWidth, row[1]))
		b.WriteString("\n")
	}

	if len(s.Failures) > 0 {
		b.WriteString("\n")
		b.WriteString(ui.ErrorStyle.Render(fmt.Sprintf("Failed chunks: %d", len(s.Failures))))
		b.WriteString("\n")
		for _, f := range s.Failures {
			b.WriteString(ui.HintStyle.Render("  • " + f.Error()))
			b.WriteString("\n")
		}
	}
	if s.Err != nil {
		b.WriteString("\n")
		b.WriteString(ui.ErrorStyle.Render("Error: ") + s.Err.Error())
		b.WriteString("\n")
	}

	fmt.Fprintln(w, ui.BoxStyle.Render(strings.TrimRight(b.String(), "\n")))
}
