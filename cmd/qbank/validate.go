package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/report"
)

// maxListed caps how many errors are printed.
const maxListed = 50

var (
	validateQ          string
	validatePublicRoot string
	validateHTML       string
	validateNoRanges   bool
)

var errValidation = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a question bank for missing answers, options and assets",
	Long: `Validate checks the bank against its JSON schema, then checks every
question: ids and prompts present, four options and a valid answer for mcq,
R or W for row, and every asset file present under --public-root.
Type-range expectations are reported as warnings.

Exits non-zero when hard errors are found.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(validateQ)
		if err != nil {
			return fmt.Errorf("read questions: %w", err)
		}
		if err := report.CheckSchema(raw); err != nil {
			return err
		}
		ds, err := bank.ReadFile(validateQ)
		if err != nil {
			return err
		}

		opts := report.Options{PublicRoot: validatePublicRoot}
		if !validateNoRanges {
			opts.TypeRanges = report.DefaultTypeRanges
		}
		rep := report.Validate(ds, opts)
		printReport(cmd, rep)

		if validateHTML != "" {
			body, err := report.HTML(ds, rep)
			if err != nil {
				return err
			}
			if err := os.WriteFile(validateHTML, body, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
		if !rep.OK() {
			return fmt.Errorf("%w: %d errors", errValidation, len(rep.Errors))
		}
		return nil
	},
}

func printReport(cmd *cobra.Command, rep report.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "===== QBANK VALIDATION REPORT =====")
	fmt.Fprintf(out, "Total:  %d\nROW:    %d\nMCQ:    %d\nAssets: %d\n\n", rep.Total, rep.Row, rep.MCQ, rep.Assets)

	if len(rep.Warnings) > 0 {
		fmt.Fprintln(out, "Type mismatches (soft checks):")
		for _, w := range rep.Warnings {
			fmt.Fprintln(out, " - "+w)
		}
		fmt.Fprintln(out)
	}
	if rep.OK() {
		fmt.Fprintln(out, "No hard errors found.")
		return
	}
	fmt.Fprintf(out, "Errors (%d):\n", len(rep.Errors))
	for i, e := range rep.Errors {
		if i == maxListed {
			fmt.Fprintf(out, "...and %d more\n", len(rep.Errors)-maxListed)
			break
		}
		fmt.Fprintln(out, " - "+e)
	}
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&validateQ, "q", "", "questions JSON to check")
	f.StringVar(&validatePublicRoot, "public-root", "public", "directory asset srcs are relative to")
	f.StringVar(&validateHTML, "html", "", "also write an HTML review report to this path")
	f.BoolVar(&validateNoRanges, "no-ranges", false, "skip the expected type-range checks")
	validateCmd.MarkFlagRequired("q")
}
