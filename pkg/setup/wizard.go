package setup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/waprobe/pkg/config"
	"github.com/entrhq/waprobe/pkg/ui"
)

// DefaultInput is the input path proposed when no config exists yet.
const DefaultInput = "data/input_numbers.txt"

// Wizard is a bubbletea model that walks through every configuration field.
//
// Text fields start empty with the current value as placeholder; Enter on an
// empty field keeps it. Choice fields cycle with the arrow keys. After the last
// field the wizard asks whether to save.
type Wizard struct {
	cfg    *config.AppConfig
	fresh  bool
	fields []field
	index  int

	input  textinput.Model
	choice int
	errMsg string

	confirming bool
	saved      bool
	cancelled  bool
	done       bool
}

// NewWizard creates a wizard seeded from existing, or from defaults when nil.
func NewWizard(existing *config.AppConfig) *Wizard {
	cfg := config.DefaultConfig()
	cfg.Input = DefaultInput
	if existing != nil {
		copied := *existing
		cfg = &copied
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 512
	ti.Width = 60

	w := &Wizard{
		cfg:    cfg,
		fresh:  existing == nil,
		fields: configFields(),
		input:  ti,
	}
	w.focusField()
	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if w.confirming || w.current().kind == fieldChoice {
			return w, nil
		}
		var cmd tea.Cmd
		w.input, cmd = w.input.Update(msg)
		return w, cmd
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		w.cancelled = true
		w.done = true
		return w, tea.Quit
	}

	if w.confirming {
		return w.updateConfirm(keyMsg)
	}

	f := w.current()
	switch keyMsg.Type {
	case tea.KeyEnter:
		return w.commit()
	case tea.KeyShiftTab:
		if w.index > 0 {
			w.index--
			w.focusField()
		}
		return w, nil
	}

	if f.kind == fieldChoice {
		switch keyMsg.String() {
		case "left", "up", "h", "k":
			w.choice = (w.choice + len(f.options) - 1) % len(f.options)
		case "right", "down", "l", "j", "tab", " ":
			w.choice = (w.choice + 1) % len(f.options)
		}
		return w, nil
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	w.errMsg = ""
	return w, cmd
}

func (w *Wizard) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		w.saved = true
	case "n":
		w.saved = false
	case "shift+tab":
		w.confirming = false
		w.index = len(w.fields) - 1
		w.focusField()
		return w, nil
	default:
		return w, nil
	}
	w.done = true
	return w, tea.Quit
}

// commit stores the current field's value and advances.
func (w *Wizard) commit() (tea.Model, tea.Cmd) {
	f := w.current()

	var value string
	if f.kind == fieldChoice {
		value = f.options[w.choice]
	} else {
		value = strings.TrimSpace(w.input.Value())
	}

	if value != "" {
		if err := f.set(w.cfg, value); err != nil {
			w.errMsg = err.Error()
			return w, nil
		}
	}

	w.errMsg = ""
	if w.index == len(w.fields)-1 {
		w.confirming = true
		w.input.Blur()
		return w, nil
	}
	w.index++
	return w, w.focusField()
}

// focusField prepares the editor for the field at w.index.
func (w *Wizard) focusField() tea.Cmd {
	f := w.current()
	w.errMsg = ""

	if f.kind == fieldChoice {
		w.choice = indexOf(f.options, f.get(w.cfg))
		w.input.Blur()
		return nil
	}

	w.input.SetValue("")
	w.input.Placeholder = f.get(w.cfg)
	return w.input.Focus()
}

func (w *Wizard) current() field {
	return w.fields[w.index]
}

// View implements tea.Model.
func (w *Wizard) View() string {
	if w.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("waprobe configuration"))
	b.WriteString("\n")
	if w.fresh {
		b.WriteString(ui.HintStyle.Render("No existing config found. Creating a new one."))
	} else {
		b.WriteString(ui.HintStyle.Render("Existing configuration detected. Press ENTER to keep current values."))
	}
	b.WriteString("\n\n")

	if w.confirming {
		b.WriteString(w.renderSummary())
		b.WriteString("\n")
		b.WriteString(ui.LabelStyle.Render("Save this configuration? (y/n) [y]"))
		b.WriteString("\n")
		return ui.BoxStyle.Render(b.String())
	}

	f := w.current()
	b.WriteString(ui.HintStyle.Render(fmt.Sprintf("[%d/%d] %s", w.index+1, len(w.fields), f.key)))
	b.WriteString("\n")
	b.WriteString(ui.LabelStyle.Render(f.label))
	b.WriteString("\n")

	if f.kind == fieldChoice {
		b.WriteString(w.renderChoices(f))
	} else {
		b.WriteString(w.input.View())
	}
	b.WriteString("\n")

	if w.errMsg != "" {
		b.WriteString(ui.ErrorStyle.Render(w.errMsg))
		b.WriteString("\n")
	}

	hint := "enter: next • shift+tab: back • esc: cancel"
	if f.optional {
		hint = fmt.Sprintf("%q clears • %s", clearValue, hint)
	}
	b.WriteString("\n")
	b.WriteString(ui.HintStyle.Render(hint))

	return ui.BoxStyle.Render(b.String())
}

func (w *Wizard) renderChoices(f field) string {
	parts := make([]string, len(f.options))
	for i, option := range f.options {
		style := lipgloss.NewStyle().Foreground(ui.BrightWhite)
		bullet := "○"
		if i == w.choice {
			bullet = "●"
			style = style.Foreground(ui.MintGreen).Bold(true)
		}
		parts[i] = style.Render(bullet + " " + option)
	}
	return strings.Join(parts, "    ")
}

func (w *Wizard) renderSummary() string {
	const labelWidth = 17

	var b strings.Builder
	b.WriteString(ui.LabelStyle.Render("Configuration summary:"))
	b.WriteString("\n")
	for _, f := range w.fields {
		value := f.get(w.cfg)
		if value == "" {
			value = "(none)"
		}
		b.WriteString("  " + ui.Field(f.key, labelWidth, value))
		b.WriteString("\n")
	}
	return b.String()
}

// Result returns the edited configuration and whether the user chose to save it.
func (w *Wizard) Result() (*config.AppConfig, bool) {
	return w.cfg, w.saved && !w.cancelled
}

// Cancelled reports whether the wizard was aborted with Esc or Ctrl-C.
func (w *Wizard) Cancelled() bool {
	return w.cancelled
}

// RunWizard runs the wizard on the terminal.
func RunWizard(existing *config.AppConfig, opts ...tea.ProgramOption) (*config.AppConfig, bool, error) {
	w := NewWizard(existing)
	if _, err := tea.NewProgram(w, opts...).Run(); err != nil {
		return nil, false, fmt.Errorf("setup wizard failed: %w", err)
	}
	cfg, saved := w.Result()
	return cfg, saved, nil
}
