package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/report"
)

var (
	tagIn       string
	tagOut      string
	tagKeepUser bool
	tagMax      int
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Add structural, range and suggested tags to a question bank",
	Long: `Tag writes tags.auto (#mcq or #row, #pic for questions with images,
topic tags by question number) and tags.suggested (dictionary matches for
review) on every question.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := bank.ReadFile(tagIn)
		if err != nil {
			return err
		}
		report.Tag(ds, report.TagOptions{
			Ranges:       report.DefaultRanges,
			Dictionary:   report.DefaultDictionary,
			MaxSuggested: tagMax,
			KeepUserTags: tagKeepUser,
		})
		if err := os.MkdirAll(filepath.Dir(tagOut), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := bank.WriteFile(tagOut, ds); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s (%d questions)\n", tagOut, len(ds.Questions))
		return nil
	},
}

func init() {
	f := tagCmd.Flags()
	f.StringVar(&tagIn, "in", "", "questions.raw.json to read")
	f.StringVar(&tagOut, "out", "", "questions.json to write")
	f.BoolVar(&tagKeepUser, "keep-user", false, "keep existing tags.user instead of resetting them")
	f.IntVar(&tagMax, "max-suggested", 6, "maximum suggested tags per question")
	tagCmd.MarkFlagRequired("in")
	tagCmd.MarkFlagRequired("out")
}
