package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dgallion1/docnorm/internal/blankline"
	"github.com/dgallion1/docnorm/internal/config"
	"github.com/dgallion1/docnorm/internal/parser"
	"github.com/dgallion1/docnorm/internal/report"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [flags] <file.docx> [more files...]",
	Short: "Normalize blank lines and indentation in .docx files",
	Long:  "Parse each document, run the blank-line rule engine, and print the mutation counts.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNormalize,
}

func init() {
	normalizeCmd.Flags().String("options", "", "TOML file with blank style and list indent settings")
	normalizeCmd.Flags().Bool("json", false, "print results as JSON")
	normalizeCmd.Flags().String("report-dir", "", "write an HTML change report per file into this directory")
}

type fileResult struct {
	Filename   string           `json:"filename"`
	Counts     blankline.Counts `json:"counts"`
	DurationMs int64            `json:"duration_ms"`
	Error      string           `json:"error,omitempty"`
}

func runNormalize(cmd *cobra.Command, args []string) error {
	optionsPath, err := cmd.Flags().GetString("options")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	reportDir, err := cmd.Flags().GetString("report-dir")
	if err != nil {
		return err
	}

	opts, err := config.LoadOptions(optionsPath)
	if err != nil {
		return err
	}
	if reportDir != "" {
		if err := os.MkdirAll(reportDir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	results := make([]fileResult, 0, len(args))
	failed := 0
	for _, path := range args {
		res := normalizeFile(path, opts, reportDir)
		if res.Error != "" {
			failed++
		}
		results = append(results, res)
		if !asJSON {
			printResult(res)
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func normalizeFile(path string, opts blankline.Options, reportDir string) fileResult {
	res := fileResult{Filename: path}

	f, err := os.Open(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	tree, err := parser.Parse(f, filepath.Base(path))
	if err != nil {
		res.Error = err.Error()
		return res
	}

	start := time.Now()
	res.Counts = blankline.Normalize(tree, opts)
	elapsed := time.Since(start)
	res.DurationMs = elapsed.Milliseconds()

	if reportDir != "" {
		md := report.BuildMarkdown(filepath.Base(path), "", res.Counts, elapsed)
		html, err := report.RenderHTML(md)
		if err != nil {
			res.Error = "render report: " + err.Error()
			return res
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".html"
		if err := os.WriteFile(filepath.Join(reportDir, name), []byte(html), 0o644); err != nil {
			res.Error = "write report: " + err.Error()
		}
	}
	return res
}

func printResult(res fileResult) {
	if res.Error != "" {
		color.Red("✗ %s: %s", res.Filename, res.Error)
		return
	}
	color.Green("✓ %s", res.Filename)
	fmt.Printf("  removed %d, added %d, preserved %d, indents fixed %d (%dms)\n",
		res.Counts.Removed, res.Counts.Added, res.Counts.Preserved,
		res.Counts.IndentFixed, res.DurationMs)
}
