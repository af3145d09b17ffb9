package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Overrides carries CLI values. A nil field leaves the file value untouched.
type Overrides struct {
	Input         *string
	ValidOutput   *string
	InvalidOutput *string
	Browser       *string
	Headless      *bool
	Delay         *float64
	Mode          *string
	Threads       *int
	ChunkSize     *int
	DriverPath    *string
	LogFile       *string
	LogLevel      *string
}

// Load reads a YAML (.yaml, .yml) or JSON (.json) config file on top of DefaultConfig.
// A missing file returns an error wrapping os.ErrNotExist.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	switch suffix := strings.ToLower(filepath.Ext(path)); suffix {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", suffix)
	}

	return cfg, nil
}

// Merge applies every non-nil override to a copy of base.
func Merge(base *AppConfig, o Overrides) *AppConfig {
	merged := *base

	setString(&merged.Input, o.Input)
	setString(&merged.ValidOutput, o.ValidOutput)
	setString(&merged.InvalidOutput, o.InvalidOutput)
	setString(&merged.Browser, o.Browser)
	setString(&merged.DriverPath, o.DriverPath)
	setString(&merged.LogFile, o.LogFile)
	setString(&merged.LogLevel, o.LogLevel)

	if o.Mode != nil {
		merged.Mode = Mode(*o.Mode)
	}
	if o.Headless != nil {
		merged.Headless = *o.Headless
	}
	if o.Delay != nil {
		merged.Delay = *o.Delay
	}
	if o.Threads != nil {
		merged.Threads = *o.Threads
	}
	if o.ChunkSize != nil {
		merged.ChunkSize = *o.ChunkSize
	}

	return &merged
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Save writes cfg as a commented YAML file, creating parent directories.
func Save(path string, cfg *AppConfig) error {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# Configuration for waprobe\n\n")
	buf.Write(body)

	// Atomic rename
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write temp config file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
