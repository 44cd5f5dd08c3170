package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"karta/internal/driver"
)

const configFileName = "karta.toml"

type projectConfig struct {
	Parse  parseConfig  `toml:"parse"`
	Check  checkConfig  `toml:"check"`
	Output outputConfig `toml:"output"`
}

type parseConfig struct {
	StrictFields bool `toml:"strict_fields"`
	RequireEOF   bool `toml:"require_eof"`
	MaxDepth     uint `toml:"max_depth"`
	NormalizeNFC bool `toml:"normalize_nfc"`
}

type checkConfig struct {
	Jobs      int    `toml:"jobs"`
	Cache     bool   `toml:"cache"`
	Extension string `toml:"extension"`
}

type outputConfig struct {
	Color  string `toml:"color"`
	Format string `toml:"format"`
}

// settings is the merged view of defaults, karta.toml and flags.
type settings struct {
	driver.Options

	ConfigPath string // empty when no karta.toml was used
	Jobs       int
	Cache      bool
	Extension  string
	Color      string
	Format     string
	Quiet      bool
	Timings    bool
}

func defaultConfig() projectConfig {
	return projectConfig{
		Check:  checkConfig{Cache: true, Extension: driver.DefaultExtension},
		Output: outputConfig{Color: "auto", Format: "pretty"},
	}
}

func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig decodes path on top of the defaults. Unknown keys are errors so
// that typos do not pass silently.
func loadConfig(path string) (projectConfig, error) {
	cfg := defaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return projectConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c projectConfig) validate() error {
	if c.Check.Jobs < 0 {
		return fmt.Errorf("[check].jobs must not be negative")
	}
	if !strings.HasPrefix(c.Check.Extension, ".") || len(c.Check.Extension) < 2 {
		return fmt.Errorf("[check].extension must look like \".karta\", got %q", c.Check.Extension)
	}
	if _, err := readSwitch("[output].color", c.Output.Color); err != nil {
		return err
	}
	switch c.Output.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("[output].format must be pretty or json, got %q", c.Output.Format)
	}
	return nil
}

// resolveSettings merges karta.toml (from --config or the nearest parent
// directory) with the flags the user actually set.
func resolveSettings(cmd *cobra.Command) (*settings, error) {
	pf := cmd.Root().PersistentFlags()

	configPath, err := pf.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, ok, err := findConfig(wd)
		if err != nil {
			return nil, err
		}
		if ok {
			configPath = found
		}
	}

	cfg := defaultConfig()
	if configPath != "" {
		if cfg, err = loadConfig(configPath); err != nil {
			return nil, err
		}
	}

	s := &settings{
		Options: driver.Options{
			StrictFields: cfg.Parse.StrictFields,
			RequireEOF:   cfg.Parse.RequireEOF,
			MaxDepth:     cfg.Parse.MaxDepth,
			NormalizeNFC: cfg.Parse.NormalizeNFC,
		},
		ConfigPath: configPath,
		Jobs:       cfg.Check.Jobs,
		Cache:      cfg.Check.Cache,
		Extension:  cfg.Check.Extension,
		Color:      cfg.Output.Color,
		Format:     cfg.Output.Format,
	}

	if s.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return nil, err
	}
	if s.Quiet, err = pf.GetBool("quiet"); err != nil {
		return nil, err
	}
	if s.Timings, err = pf.GetBool("timings"); err != nil {
		return nil, err
	}
	if pf.Changed("color") {
		if s.Color, err = pf.GetString("color"); err != nil {
			return nil, err
		}
		if _, err := readSwitch("--color", s.Color); err != nil {
			return nil, err
		}
	}
	if pf.Changed("strict") {
		s.StrictFields, _ = pf.GetBool("strict")
	}
	if pf.Changed("require-eof") {
		s.RequireEOF, _ = pf.GetBool("require-eof")
	}
	if pf.Changed("max-depth") {
		s.MaxDepth, _ = pf.GetUint("max-depth")
	}
	if pf.Changed("nfc") {
		s.NormalizeNFC, _ = pf.GetBool("nfc")
	}
	return s, nil
}

// outputFormat returns the command's --format when given, else the
// configured default.
func (s *settings) outputFormat(cmd *cobra.Command) (string, error) {
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		return f.Value.String(), nil
	}
	return s.Format, nil
}
