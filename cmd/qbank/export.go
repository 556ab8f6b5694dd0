package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/export"
)

var (
	exportQ          string
	exportFormat     string
	exportOut        string
	exportPublicRoot string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a question bank to xlsx, docx or sqlite",
	Long: `Export writes the bank for editorial review (xlsx, docx) or app
packaging (sqlite). The format defaults to the --out extension.

Examples:
  qbank export --q questions.json --out review.xlsx
  qbank export --q questions.json --out print.docx --public-root public
  qbank export --q questions.json --format sqlite --out bank.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		if format == "" {
			format = export.FormatFromPath(exportOut)
		}
		if format == "" {
			return fmt.Errorf("cannot infer format from %q; use --format (%s)", exportOut, strings.Join(export.Formats, ", "))
		}
		ds, err := bank.ReadFile(exportQ)
		if err != nil {
			return err
		}
		if err := export.WriteFile(cmd.Context(), format, exportOut, ds, exportPublicRoot); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s (%s, %d questions)\n", exportOut, format, len(ds.Questions))
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportQ, "q", "", "questions JSON to export")
	f.StringVar(&exportFormat, "format", "", "xlsx, docx or sqlite")
	f.StringVar(&exportOut, "out", "", "output file")
	f.StringVar(&exportPublicRoot, "public-root", "public", "directory asset srcs are relative to (docx images)")
	exportCmd.MarkFlagRequired("q")
	exportCmd.MarkFlagRequired("out")
}
