package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/qbank/internal/bank"
)

// maxPromptChars trims prompts in the review table.
const maxPromptChars = 80

// Markdown renders a review summary of ds: counts, validation findings and
// the questions with no resolved answer.
func Markdown(ds *bank.Dataset, rep Report) string {
	var b strings.Builder

	title := ds.Meta.Slug
	if title == "" {
		title = ds.Meta.PDF
	}
	fmt.Fprintf(&b, "# Question bank: %s\n\n", title)
	if ds.Meta.PDF != "" {
		fmt.Fprintf(&b, "Source `%s`, extracted %s.\n\n", ds.Meta.PDF, ds.Meta.ExtractedAt)
	}

	b.WriteString("| Total | MCQ | Row | Assets | Errors | Warnings |\n")
	b.WriteString("|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n",
		rep.Total, rep.MCQ, rep.Row, rep.Assets, len(rep.Errors), len(rep.Warnings))

	writeList(&b, "Errors", rep.Errors)
	writeList(&b, "Warnings", rep.Warnings)

	var open []bank.Question
	for _, q := range ds.Questions {
		if q.CorrectRow == nil && q.CorrectOptionID == nil {
			open = append(open, q)
		}
	}
	if len(open) > 0 {
		fmt.Fprintf(&b, "## Unanswered (%d)\n\n", len(open))
		b.WriteString("| # | Type | Raw answer | Prompt |\n")
		b.WriteString("|---:|---|---|---|\n")
		for _, q := range open {
			raw := ""
			if q.AnswerRaw != nil {
				raw = *q.AnswerRaw
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", q.Number, q.Type, cell(raw), cell(truncate(q.Prompt, maxPromptChars)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// HTML renders Markdown(ds, rep) as an HTML fragment.
func HTML(ds *bank.Dataset, rep Report) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(ds, rep)), &buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s (%d)\n\n", heading, len(items))
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
