package report

import (
	"sort"
	"strings"

	"github.com/dgallion1/qbank/internal/bank"
)

// Structural tags applied to every question.
const (
	TagMCQ = "#mcq"
	TagRow = "#row"
	TagPic = "#pic"
)

// RangeRule adds topic tags to questions numbered From..To.
type RangeRule struct {
	From, To int
	Add      []string
}

// DictEntry suggests Tag when any keyword occurs in a question's text.
type DictEntry struct {
	Tag      string
	Keywords []string
}

// TagOptions configures Tag.
type TagOptions struct {
	Ranges       []RangeRule
	Dictionary   []DictEntry
	MaxSuggested int // 6 when zero
	KeepUserTags bool
}

// Tag sets tags.auto on every question: its type tag, #pic when it has
// assets, then range tags. Dictionary matches become suggestions only.
// User tags are reset unless KeepUserTags is set.
func Tag(ds *bank.Dataset, opts TagOptions) {
	limit := opts.MaxSuggested
	if limit <= 0 {
		limit = 6
	}
	for i := range ds.Questions {
		q := &ds.Questions[i]

		var auto []string
		seen := make(map[string]bool)
		add := func(tag string) {
			if !seen[tag] {
				seen[tag] = true
				auto = append(auto, tag)
			}
		}
		if q.Type == bank.TypeMCQ {
			add(TagMCQ)
		} else {
			add(TagRow)
		}
		if len(q.Assets) > 0 {
			add(TagPic)
		}
		for _, r := range opts.Ranges {
			if q.Number >= r.From && q.Number <= r.To {
				for _, t := range r.Add {
					add(t)
				}
			}
		}

		user := []string{}
		if opts.KeepUserTags && q.Tags != nil && q.Tags.User != nil {
			user = q.Tags.User
		}
		q.Tags = &bank.Tags{
			Auto:      auto,
			User:      user,
			Suggested: Suggest(searchText(*q), opts.Dictionary, limit),
		}
	}
}

func searchText(q bank.Question) string {
	parts := []string{q.Prompt}
	if q.Type == bank.TypeMCQ {
		for _, o := range q.Options {
			parts = append(parts, o.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Suggest scores dictionary tags by how many of their keywords occur in
// text, highest first, ties in dictionary order.
func Suggest(text string, dict []DictEntry, limit int) []bank.Suggestion {
	t := strings.ToLower(text)
	scores := make(map[string]int)
	var order []string
	for _, e := range dict {
		score := 0
		for _, kw := range e.Keywords {
			if k := strings.ToLower(kw); k != "" && strings.Contains(t, k) {
				score++
			}
		}
		if score == 0 {
			continue
		}
		if _, ok := scores[e.Tag]; !ok {
			order = append(order, e.Tag)
		}
		scores[e.Tag] += score
	}

	out := make([]bank.Suggestion, 0, len(order))
	for _, tag := range order {
		out = append(out, bank.Suggestion{Tag: tag, Score: scores[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// NormalizeTag lowercases a tag and adds the leading '#'.
func NormalizeTag(t string) string {
	s := strings.ToLower(strings.TrimSpace(t))
	if s == "" || strings.HasPrefix(s, "#") {
		return s
	}
	return "#" + s
}
