package setup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/entrhq/waprobe/pkg/config"
)

// fieldKind selects how a field is edited.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldFloat
	fieldInt
	fieldChoice
)

// clearValue empties an optional field.
const clearValue = "-"

var yesNo = []string{"yes", "no"}

// field is one wizard prompt bound to an AppConfig attribute.
type field struct {
	key      string
	label    string
	kind     fieldKind
	options  []string
	optional bool

	get func(c *config.AppConfig) string
	set func(c *config.AppConfig, v string) error
}

func textField(key, label string, ptr func(c *config.AppConfig) *string) field {
	return field{
		key:   key,
		label: label,
		kind:  fieldText,
		get:   func(c *config.AppConfig) string { return *ptr(c) },
		set: func(c *config.AppConfig, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

func optionalField(key, label string, ptr func(c *config.AppConfig) *string) field {
	f := textField(key, label, ptr)
	f.optional = true
	f.set = func(c *config.AppConfig, v string) error {
		if v == clearValue {
			v = ""
		}
		*ptr(c) = v
		return nil
	}
	return f
}

func boolField(key, label string, ptr func(c *config.AppConfig) *bool) field {
	return field{
		key:     key,
		label:   label,
		kind:    fieldChoice,
		options: yesNo,
		get: func(c *config.AppConfig) string {
			if *ptr(c) {
				return "yes"
			}
			return "no"
		},
		set: func(c *config.AppConfig, v string) error {
			*ptr(c) = v == "yes"
			return nil
		},
	}
}

func floatField(key, label string, ptr func(c *config.AppConfig) *float64) field {
	return field{
		key:   key,
		label: label,
		kind:  fieldFloat,
		get:   func(c *config.AppConfig) string { return strconv.FormatFloat(*ptr(c), 'f', -1, 64) },
		set: func(c *config.AppConfig, v string) error {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("please enter a valid number")
			}
			if n < 0 {
				return fmt.Errorf("value cannot be negative")
			}
			*ptr(c) = n
			return nil
		},
	}
}

func intField(key, label string, ptr func(c *config.AppConfig) *int) field {
	return field{
		key:   key,
		label: label,
		kind:  fieldInt,
		get:   func(c *config.AppConfig) string { return strconv.Itoa(*ptr(c)) },
		set: func(c *config.AppConfig, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("please enter a valid integer")
			}
			if n < 1 {
				return fmt.Errorf("value must be at least 1")
			}
			*ptr(c) = n
			return nil
		},
	}
}

func choiceField(key, label string, options []string, ptr func(c *config.AppConfig) *string) field {
	return field{
		key:     key,
		label:   label,
		kind:    fieldChoice,
		options: options,
		get:     func(c *config.AppConfig) string { return *ptr(c) },
		set: func(c *config.AppConfig, v string) error {
			*ptr(c) = v
			return nil
		},
	}
}

// configFields lists every prompt in order.
func configFields() []field {
	modes := make([]string, len(config.Modes))
	for i, m := range config.Modes {
		modes[i] = string(m)
	}

	return []field{
		textField("input", "Input file path (phone numbers, one per line)", func(c *config.AppConfig) *string { return &c.Input }),
		textField("valid_output", "Valid output file path", func(c *config.AppConfig) *string { return &c.ValidOutput }),
		textField("invalid_output", "Invalid output file path", func(c *config.AppConfig) *string { return &c.InvalidOutput }),
		choiceField("browser", "Browser", config.Browsers, func(c *config.AppConfig) *string { return &c.Browser }),
		boolField("headless", "Run browser in headless mode?", func(c *config.AppConfig) *bool { return &c.Headless }),
		floatField("delay", "Delay in seconds between checks", func(c *config.AppConfig) *float64 { return &c.Delay }),
		{
			key:     "mode",
			label:   "Mode",
			kind:    fieldChoice,
			options: modes,
			get:     func(c *config.AppConfig) string { return string(c.Mode) },
			set: func(c *config.AppConfig, v string) error {
				c.Mode = config.Mode(v)
				return nil
			},
		},
		intField("threads", "Number of threads for threaded modes", func(c *config.AppConfig) *int { return &c.Threads }),
		intField("chunk_size", "Chunk size for multi-session threaded mode", func(c *config.AppConfig) *int { return &c.ChunkSize }),
		optionalField("driver_path", "Optional browser executable path", func(c *config.AppConfig) *string { return &c.DriverPath }),
		textField("log_file", "Run log file path", func(c *config.AppConfig) *string { return &c.LogFile }),
		floatField("login_timeout", "Seconds to wait for the WhatsApp login", func(c *config.AppConfig) *float64 { return &c.LoginTimeout }),
		floatField("classify_timeout", "Seconds to wait per number", func(c *config.AppConfig) *float64 { return &c.ClassifyTimeout }),
		textField("profiles_dir", "Browser profiles directory", func(c *config.AppConfig) *string { return &c.ProfilesDir }),
		choiceField("log_level", "Console log level", []string{"debug", "info", "warn", "error"}, func(c *config.AppConfig) *string { return &c.LogLevel }),
		optionalField("log_dir", "Optional directory for per-run log files", func(c *config.AppConfig) *string { return &c.LogDir }),
		boolField("skip_install", "Skip the Playwright install step?", func(c *config.AppConfig) *bool { return &c.SkipInstall }),
	}
}

// indexOf returns the position of v in options, or 0.
func indexOf(options []string, v string) int {
	for i, o := range options {
		if strings.EqualFold(o, v) {
			return i
		}
	}
	return 0
}
