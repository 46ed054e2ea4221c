package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tensorscript/tsc/internal/diag"
	"github.com/tensorscript/tsc/internal/modreg"
	"github.com/tensorscript/tsc/internal/pipeline"
	"github.com/tensorscript/tsc/internal/tsast"
	"github.com/tensorscript/tsc/internal/tscfg"
)

// Exit codes (spec.md §6's exit-code contract): 0 means the pass produced
// no diagnostics at all; 1 means it produced only recoverable diagnostics;
// 2 means it produced at least one fatal diagnostic, or the pass could not
// even run (load/config/decode failure).
const (
	exitClean     = 0
	exitRecovered = 1
	exitFatal     = 2
)

func newCheckCmd() *cobra.Command {
	var jsonOut bool
	var noColor bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "check <file.tsir.json>",
		Short: "Type-check a TensorScript typed-IR file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runCheck(cmd, args[0], configPath, jsonOut, noColor)
			if err != nil {
				return err
			}
			os.Exit(code)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit diagnostics as newline-delimited JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	cmd.Flags().StringVar(&configPath, "config", ".tensorscript.yaml", "project config path")
	return cmd
}

func runCheck(cmd *cobra.Command, path, configPath string, jsonOut, noColor bool) (int, error) {
	cfg, err := tscfg.LoadOrDefault(configPath)
	if err != nil {
		return exitFatal, fmt.Errorf("tscheck: %w", err)
	}
	if jsonOut {
		cfg.JSON = true
	}
	if noColor {
		cfg.NoColor = true
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return exitFatal, fmt.Errorf("tscheck: %w", err)
	}
	file, err := tsast.DecodeFile(data)
	if err != nil {
		return exitFatal, fmt.Errorf("tscheck: %s: %w", path, err)
	}

	registry := modreg.NewWithPrelude()
	if cfg.PreludeManifest != "" {
		manifestPath := cfg.PreludeManifest
		if !filepath.IsAbs(manifestPath) {
			manifestPath = filepath.Join(filepath.Dir(configPath), manifestPath)
		}
		m, err := modreg.LoadManifest(manifestPath)
		if err != nil {
			return exitFatal, fmt.Errorf("tscheck: %w", err)
		}
		if err := registry.Apply(m); err != nil {
			return exitFatal, fmt.Errorf("tscheck: %w", err)
		}
	}

	result := pipeline.Run(pipeline.Config{MaxIterations: cfg.MaxIterations, Registry: registry}, file)

	if cfg.JSON {
		for _, r := range result.Reports {
			b, err := r.ToJSON(false)
			if err != nil {
				return exitFatal, err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		}
	} else {
		printer := diag.NewPrinter(cmd.OutOrStdout())
		printer.NoColor = cfg.NoColor
		printer.PrintAll(result.Reports)
	}

	if hasFatal(result.Reports) {
		return exitFatal, nil
	}
	if len(result.Reports) > 0 {
		return exitRecovered, nil
	}
	return exitClean, nil
}

func hasFatal(reports []*diag.Report) bool {
	for _, r := range reports {
		if diag.IsFatal(r.Code) {
			return true
		}
	}
	return false
}
