package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chris-regnier/whensort/internal/config"
	"github.com/chris-regnier/whensort/internal/driver"
	"github.com/chris-regnier/whensort/internal/input"
	"github.com/chris-regnier/whensort/internal/output"
)

var (
	flagFix       bool
	flagFormat    string
	flagConfig    string
	flagMaxPasses int
)

func init() {
	checkCmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Ruby files for misordered case/when splat conditions",
		Long: `Check Ruby files (or directories of them) for when clauses whose splat
conditions are not placed at the end of the branch list. With --fix,
offending files are rewritten in place until no offense remains.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}

	checkCmd.Flags().BoolVar(&flagFix, "fix", false, "Rewrite offending files in place")
	checkCmd.Flags().StringVar(&flagFormat, "format", "", "Output format: json, sarif, markdown, pretty (default: by TTY)")
	checkCmd.Flags().StringVar(&flagConfig, "config", ".whensort.yaml", "Path to the project config file")
	checkCmd.Flags().IntVar(&flagMaxPasses, "max-passes", 0, "Cap autocorrect rounds per file (0 = derive from clause count)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	machineConfig := os.ExpandEnv("$HOME/.config/whensort/config.yaml")
	cfg, err := config.LoadTiered(machineConfig, flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagFormat != "" {
		cfg.Output.Format = flagFormat
	}
	if flagMaxPasses > 0 {
		cfg.Rule.MaxPasses = flagMaxPasses
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if !cfg.RuleEnabled() {
		slog.Info("rule disabled by configuration, nothing to do")
		return nil
	}

	h := input.NewHandler(cfg.Input.Extensions)
	artifacts, err := h.ReadPaths(args)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	report := &output.Report{Tool: "whensort", Version: version}
	for _, art := range artifacts {
		fr, err := checkArtifact(ctx, art, cfg)
		if err != nil {
			return fmt.Errorf("checking %s: %w", art.Path, err)
		}
		report.Files = append(report.Files, fr)
	}

	stdoutIsTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	format := output.ResolveFormat(cfg.Output.Format, stdoutIsTTY)
	formatter, err := output.NewFormatter(format)
	if err != nil {
		return err
	}

	rendered, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	if _, err := os.Stdout.Write(rendered); err != nil {
		return err
	}

	if total := report.TotalOffenses(); total > 0 && !flagFix {
		return fmt.Errorf("found %d offense(s)", total)
	}
	return nil
}

func checkArtifact(ctx context.Context, art input.Artifact, cfg *config.Config) (output.FileReport, error) {
	fr := output.FileReport{Path: art.Path, Source: art.Content}

	if !flagFix {
		diags, err := driver.Check(ctx, art.Content)
		if err != nil {
			return fr, err
		}
		fr.Diagnostics = diags
		return fr, nil
	}

	res, err := driver.Fix(ctx, art.Content, driver.Options{MaxPasses: cfg.Rule.MaxPasses})
	if err != nil {
		return fr, err
	}
	fr.Diagnostics = res.Diagnostics
	fr.Passes = res.Passes

	if !res.Converged {
		slog.Warn("pass cap reached before convergence", "path", art.Path, "passes", res.Passes)
	}
	if res.Changed() {
		if err := writeFile(art.Path, res.Fixed); err != nil {
			return fr, err
		}
		fr.Fixed = true
		slog.Info("rewrote file", "path", art.Path, "passes", res.Passes)
	}
	return fr, nil
}

func writeFile(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, content, info.Mode().Perm())
}
