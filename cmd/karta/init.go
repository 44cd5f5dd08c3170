package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a karta.toml with the default settings",
		Long: `Init writes karta.toml and an example document into dir (default: the
	current directory). The directory is created when missing. An existing
	karta.toml is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	return cmd
}

const defaultConfigText = `# Karta project settings. Command-line flags override these values.

[parse]
strict_fields = false
require_eof = false
max_depth = 0 # 0 = unlimited
normalize_nfc = false

[check]
jobs = 0 # 0 = one worker per CPU
cache = true
extension = ".karta"

[output]
color = "auto" # auto|on|off
format = "pretty" # pretty|json
`

const exampleDocument = `{
  .name = "example",
  .port = 8080,
  .ratio = 0.75,
  .enabled = .t,
  .tags = [.fast, .small]
}
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	configPath := filepath.Join(target, configFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("already initialized: %s exists", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigText), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFileName, err)
	}

	examplePath := filepath.Join(target, "example"+".karta")
	createdExample := false
	if _, err := os.Stat(examplePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(examplePath, []byte(exampleDocument), 0o644); err != nil {
			return fmt.Errorf("failed to write example: %w", err)
		}
		createdExample = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized karta project in %s\n", target)
	fmt.Fprintf(out, "  - %s\n", configFileName)
	if createdExample {
		fmt.Fprintf(out, "  - %s\n", filepath.Base(examplePath))
	}
	return nil
}
