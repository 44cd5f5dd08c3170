package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"karta/internal/diag"
	"karta/internal/diagfmt"
	"karta/internal/driver"
	"karta/internal/observ"
	"karta/internal/ui"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Parse many Karta files and report diagnostics",
		Long: `Check parses every given file, and every source below every given directory,
	in parallel and reports their diagnostics. Results are cached per file
	content and parse options. Without paths the current directory is checked.`,
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

type checkOutcome struct {
	result *driver.CheckResult
	err    error
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	format, err := s.outputFormat(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("jobs") {
		s.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); noCache {
		s.Cache = false
	}
	uiFlag, _ := cmd.Flags().GetString("ui")
	mode, err := readSwitch("--ui", uiFlag)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{"."}
	}
	paths, err := driver.ExpandPaths(args, s.Extension)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		s.warnf(cmd.ErrOrStderr(), "no %s files found", s.Extension)
		return nil
	}

	timer := observ.NewTimer()
	opts := driver.CheckOptions{Options: s.Options, Jobs: s.Jobs, Timer: timer}
	if s.Cache {
		cache, err := driver.OpenDiskCache("karta")
		if err != nil {
			s.warnf(cmd.ErrOrStderr(), "cache disabled: %v", err)
		} else {
			opts.Cache = cache
		}
	}

	var result *driver.CheckResult
	if mode.enabled(os.Stdout) && format == "pretty" && !s.Quiet {
		result, err = runCheckWithUI(cmd.Context(), paths, opts)
	} else {
		result, err = driver.Check(cmd.Context(), paths, opts)
	}
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		for _, fr := range result.Files {
			s.printDiagnostics(cmd.ErrOrStderr(), fr.Bag, result.FileSet)
		}
		if !s.Quiet {
			fmt.Fprintln(cmd.OutOrStdout(), checkSummary(result))
		}
	case "json":
		all := diag.NewBag(0)
		for _, fr := range result.Files {
			all.Merge(fr.Bag)
		}
		all.Sort()
		all.Dedup()
		if err := diagfmt.JSON(cmd.OutOrStdout(), all, result.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              s.MaxDiagnostics,
		}); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	s.printTimings(cmd.ErrOrStderr(), timer)

	if n := result.Failed(); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(result.Files))
	}
	return nil
}

func checkSummary(r *driver.CheckResult) string {
	cached, warned := 0, 0
	for _, fr := range r.Files {
		if fr.Cached {
			cached++
		}
		if fr.Bag != nil && fr.Bag.HasWarnings() && !fr.Bag.HasErrors() {
			warned++
		}
	}
	line := fmt.Sprintf("checked %d files: %d ok, %d failed, %d cached", len(r.Files), len(r.Files)-r.Failed(), r.Failed(), cached)
	if warned > 0 {
		line += fmt.Sprintf(", %d with warnings", warned)
	}
	return line
}

func runCheckWithUI(ctx context.Context, paths []string, opts driver.CheckOptions) (*driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Check(ctx, paths, o)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.RunCheckProgress(os.Stdout, "check", paths, events)
	if uiErr != nil {
		// UI упал: дочитываем события, чтобы не блокировать Check
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	return outcome.result, errors.Join(outcome.err, uiErr)
}
