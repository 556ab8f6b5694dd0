package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/qbank/internal/binder"
	"github.com/dgallion1/qbank/internal/extract"
	"github.com/dgallion1/qbank/internal/pipeline"
	"github.com/dgallion1/qbank/internal/source"
)

var extractPDF string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract questions and images from an exam PDF",
	Long: `Extract reads the PDF, rebuilds reading order across both columns,
segments numbered questions, resolves answers and binds images, then writes
questions.raw.json and images/ into the output directory.

Examples:
  qbank extract --pdf exam.pdf --slug 2023-test1 --out public/qbank/2023-test1
  qbank extract --pdf exam.pdf --out out --answer-window 9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Slug == "" {
			base := filepath.Base(extractPDF)
			cfg.Slug = extract.Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
		}
		if err := cfg.ValidateExtract(); err != nil {
			return err
		}
		log := cliLogger(cfg).With("pdf", filepath.Base(extractPDF), "slug", cfg.Slug)

		doc, err := source.ForFile(extractPDF, source.DefaultOptions())
		if err != nil {
			return err
		}
		defer doc.Close()

		res, err := pipeline.Run(cmd.Context(), doc, pipeline.RunOptions(cfg, cfg.Slug, cfg.OutDir), log)
		if err != nil {
			return fmt.Errorf("extract %s: %w", filepath.Base(extractPDF), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Summary())
		return nil
	},
}

func init() {
	f := extractCmd.Flags()
	f.StringVar(&extractPDF, "pdf", "", "path to the source PDF")
	f.String("out", "", "output directory, e.g. public/qbank/2023-test1")
	f.String("slug", "", "dataset slug used in image URLs (default: from the PDF name)")
	f.String("public-prefix", "/qbank", "URL prefix of published datasets")
	f.Int("answer-window", extract.DefaultAnswerWindow, "lines searched after a bare Answer: marker")
	f.Float64("overlap-threshold", binder.DefaultOverlapThreshold, "minimum image overlap ratio to bind an image to a question")
	f.Int("id-width", 4, "zero padding of question ids")
	extractCmd.MarkFlagRequired("pdf")
}
