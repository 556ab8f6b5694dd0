// Package report checks, tags and summarizes question bank datasets for
// editorial review.
package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/qbank/internal/bank"
)

// TypeRange is a soft expectation that questions numbered From..To share a
// type.
type TypeRange struct {
	From, To int
	Type     bank.QuestionType
}

func (r TypeRange) contains(n int) bool { return n >= r.From && n <= r.To }

// MinTypeMatch is the rounded percentage of a TypeRange that must match
// before a warning is raised.
const MinTypeMatch = 95

// Options configures Validate.
type Options struct {
	// PublicRoot is the directory asset srcs are relative to. Asset files
	// are not checked when it is empty.
	PublicRoot string
	// AssetFile maps an asset src to a file path, overriding PublicRoot.
	// An empty result skips the check.
	AssetFile  func(src string) string
	TypeRanges []TypeRange
}

// Report is the outcome of Validate. Errors are hard failures; Warnings come
// from soft type-range checks.
type Report struct {
	Total    int      `json:"total"`
	MCQ      int      `json:"mcq"`
	Row      int      `json:"row"`
	Assets   int      `json:"assets"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// OK reports whether there were no hard errors.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// Validate checks every question for the fields a quiz renderer relies on.
func Validate(ds *bank.Dataset, opts Options) Report {
	rep := Report{Total: len(ds.Questions), Errors: []string{}, Warnings: []string{}}
	errf := func(format string, args ...any) {
		rep.Errors = append(rep.Errors, fmt.Sprintf(format, args...))
	}

	for _, q := range ds.Questions {
		if q.ID == "" || q.Prompt == "" {
			errf("Missing id/prompt at #%d", q.Number)
		}
		switch q.Type {
		case bank.TypeMCQ:
			rep.MCQ++
			if len(q.Options) != len(bank.ChoiceKeys) {
				errf("MCQ #%d has %d options", q.Number, len(q.Options))
			}
			if q.CorrectOptionID == nil || !hasOption(q.Options, *q.CorrectOptionID) {
				errf("MCQ #%d missing/invalid correctOptionId", q.Number)
			}
		default:
			rep.Row++
			if q.CorrectRow == nil || (*q.CorrectRow != bank.RowRight && *q.CorrectRow != bank.RowWrong) {
				errf("ROW #%d missing/invalid correctRow", q.Number)
			}
		}

		for _, a := range q.Assets {
			rep.Assets++
			if a.Src == "" {
				errf("Asset missing src at #%d", q.Number)
				continue
			}
			disk := assetFile(opts, a.Src)
			if disk == "" {
				continue
			}
			if _, err := os.Stat(disk); err != nil {
				errf("Missing asset file for #%d: %s", q.Number, disk)
			}
		}
	}

	for _, r := range opts.TypeRanges {
		var total, ok int
		for _, q := range ds.Questions {
			if !r.contains(q.Number) {
				continue
			}
			total++
			if q.Type == r.Type {
				ok++
			}
		}
		if total == 0 {
			continue
		}
		pct := int(math.Round(float64(ok) * 100 / float64(total)))
		if pct < MinTypeMatch {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("Range %d-%d expected %s: %d%% match (%d/%d)",
				r.From, r.To, r.Type, pct, ok, total))
		}
	}
	return rep
}

func assetFile(opts Options, src string) string {
	if opts.AssetFile != nil {
		return opts.AssetFile(src)
	}
	if opts.PublicRoot == "" {
		return ""
	}
	return filepath.Join(opts.PublicRoot, filepath.FromSlash(strings.TrimPrefix(src, "/")))
}

func hasOption(opts []bank.Option, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}
