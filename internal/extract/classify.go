package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/segment"
)

// Option keys take Latin and full-width separators: "A.", "B)", "C:", "D．".
var optionRe = regexp.MustCompile(`^\s*([A-D])\s*[.):：、．·。]\s*(.+?)\s*$`)

var choiceLetterRe = regexp.MustCompile(`[A-D]`)

func matchOption(line string) (key, text string, ok bool) {
	m := optionRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// Classify returns TypeMCQ when any content line is an option line.
func Classify(content []string) bank.QuestionType {
	for _, l := range content {
		if _, _, ok := matchOption(l); ok {
			return bank.TypeMCQ
		}
	}
	return bank.TypeRow
}

// NormalizeRow maps a raw answer to R or W. Affirmative patterns are tested
// first, so "right or wrong" is R. Unrecognized answers give nil.
func NormalizeRow(raw *string) *bank.RowAnswer {
	if raw == nil {
		return nil
	}
	ar := strings.ToLower(strings.TrimSpace(*raw))
	if ar == "" {
		return nil
	}

	var v bank.RowAnswer
	switch {
	case ar == "right" || ar == "true" || ar == "correct" || ar == "yes" || ar == "√" ||
		strings.HasPrefix(ar, "r") || strings.Contains(ar, "right"):
		v = bank.RowRight
	case ar == "wrong" || ar == "false" || ar == "incorrect" || ar == "no" || ar == "×" ||
		strings.HasPrefix(ar, "w") || strings.Contains(ar, "wrong"):
		v = bank.RowWrong
	default:
		return nil
	}
	return &v
}

// ParseRow builds the prompt and answer of a row question.
func ParseRow(content []string, raw *string) (prompt string, correct *bank.RowAnswer) {
	return bank.NormalizeSpace(strings.Join(content, " ")), NormalizeRow(raw)
}

// MCQ is a parsed multiple-choice body.
type MCQ struct {
	Prompt    string
	Options   []bank.Option
	CorrectID *string
}

// ParseMCQ splits content into prompt and options. Lines after an option
// line continue that option until the next one. Options without text are
// omitted but keep their slot, so option ids depend only on the key.
func ParseMCQ(questionID string, content []string, raw *string) MCQ {
	var (
		promptParts []string
		texts       = make(map[string]string, len(bank.ChoiceKeys))
		current     string
	)
	for _, l := range content {
		if key, text, ok := matchOption(l); ok {
			current = key
			texts[key] = text
			continue
		}
		if current != "" {
			texts[current] = strings.TrimSpace(texts[current] + " " + l)
		} else {
			promptParts = append(promptParts, l)
		}
	}

	out := MCQ{
		Prompt:  bank.NormalizeSpace(strings.Join(promptParts, " ")),
		Options: []bank.Option{},
	}
	ids := make(map[string]string, len(bank.ChoiceKeys))
	for i, key := range bank.ChoiceKeys {
		text := bank.NormalizeSpace(texts[key])
		if text == "" {
			continue
		}
		id := bank.OptionID(questionID, i+1)
		ids[key] = id
		out.Options = append(out.Options, bank.Option{ID: id, OriginalKey: key, Text: text})
	}

	if raw != nil {
		if letter := choiceLetterRe.FindString(strings.ToUpper(*raw)); letter != "" {
			if id, ok := ids[letter]; ok {
				out.CorrectID = &id
			}
		}
	}
	return out
}

// Options configures Build.
type Options struct {
	PDFName string // Recorded as source.pdf
	IDWidth int    // Zero padding of question ids; 4 when unset
	Window  int    // Answer look-ahead; DefaultAnswerWindow when unset
}

// Build turns a closed block into a question record with no assets.
func Build(b segment.Block, opts Options) bank.Question {
	width := opts.IDWidth
	if width <= 0 {
		width = 4
	}
	id := bank.QuestionID(b.Number, width)
	ex := Scanner{Window: opts.Window}.Scan(b.Lines)

	q := bank.Question{
		ID:        id,
		Number:    b.Number,
		Type:      Classify(ex.Content),
		Options:   []bank.Option{},
		AnswerRaw: ex.Raw,
		Regions:   b.RegionList(),
		Assets:    []bank.Asset{},
		Source:    bank.Source{PDF: opts.PDFName},
	}
	switch q.Type {
	case bank.TypeMCQ:
		m := ParseMCQ(id, ex.Content, ex.Raw)
		q.Prompt, q.Options, q.CorrectOptionID = m.Prompt, m.Options, m.CorrectID
	default:
		q.Prompt, q.CorrectRow = ParseRow(ex.Content, ex.Raw)
	}
	return q
}
