// Package export writes question banks to review and packaging formats:
// XLSX and DOCX for editors, SQLite for apps.
package export

import (
	"fmt"
	"strings"

	"github.com/dgallion1/qbank/internal/bank"
)

// Formats lists the names accepted by Write.
var Formats = []string{"xlsx", "docx", "sqlite"}

// answerLabel is the human form of a question's resolved answer: R or W for
// row questions, the option's original key for mcq. Empty when unresolved.
func answerLabel(q bank.Question) string {
	if q.Type == bank.TypeMCQ {
		if q.CorrectOptionID == nil {
			return ""
		}
		for _, o := range q.Options {
			if o.ID == *q.CorrectOptionID {
				return o.OriginalKey
			}
		}
		return ""
	}
	if q.CorrectRow == nil {
		return ""
	}
	return string(*q.CorrectRow)
}

// optionText returns the text of the option labeled key, if any.
func optionText(q bank.Question, key string) string {
	for _, o := range q.Options {
		if o.OriginalKey == key {
			return o.Text
		}
	}
	return ""
}

func tagList(q bank.Question) string {
	if q.Tags == nil {
		return ""
	}
	all := append(append([]string(nil), q.Tags.Auto...), q.Tags.User...)
	return strings.Join(all, " ")
}

func assetList(q bank.Question) string {
	srcs := make([]string, 0, len(q.Assets))
	for _, a := range q.Assets {
		srcs = append(srcs, a.Src)
	}
	return strings.Join(srcs, "\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func unknownFormat(name string) error {
	return fmt.Errorf("unknown export format %q (want one of %s)", name, strings.Join(Formats, ", "))
}
