package extract

import (
	"regexp"
	"strings"
)

// DefaultAnswerWindow is how many lines after a bare "Answer:" marker are
// searched for the answer token.
const DefaultAnswerWindow = 7

var answerRe = regexp.MustCompile(`(?i)^\s*Answer:\s*(.*?)\s*$`)

var rowTokens = map[string]bool{
	"right": true, "wrong": true,
	"true": true, "false": true,
	"correct": true, "incorrect": true,
	"yes": true, "no": true,
	"√": true, "×": true,
}

// MatchAnswer reports whether line is an "Answer:" marker and returns the
// trimmed text following it, which may be empty.
func MatchAnswer(line string) (tail string, ok bool) {
	m := answerRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// IsRowToken reports whether s is a true/false answer on its own.
func IsRowToken(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "" {
		return false
	}
	return rowTokens[t] || strings.HasPrefix(t, "right") || strings.HasPrefix(t, "wrong")
}

// IsChoiceToken reports whether s is a single option letter A-D.
func IsChoiceToken(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

func isToken(s string) bool {
	return IsRowToken(s) || IsChoiceToken(s)
}

// candidate reports whether a line following a bare marker resolves it: a
// token by itself, or another marker whose tail is a token.
func candidate(line string) (string, bool) {
	c := strings.TrimSpace(line)
	if tail, ok := MatchAnswer(c); ok {
		if tail != "" && isToken(tail) {
			return tail, true
		}
		return "", false
	}
	if isToken(c) {
		return c, true
	}
	return "", false
}

// Extraction is a block's content lines with the answer lines removed.
type Extraction struct {
	Content []string
	Raw     *string // nil when no marker resolved
}

func (e *Extraction) resolve(raw string) {
	if e.Raw != nil {
		return
	}
	e.Raw = &raw
}

type scanState int

const (
	stateScanning scanState = iota
	stateLookahead
)

// Scanner separates answer markers from content.
//
// In stateScanning each line is content, an inline marker ("Answer: B"), or
// a bare marker. A bare marker enters stateLookahead, which examines at most
// Window following lines for a candidate. On a hit, the lines between marker
// and candidate stay content and scanning resumes after the candidate. On a
// miss the marker line is dropped and scanning resumes on the line after it.
//
// The first resolved marker of a block sets the raw answer. Later markers are
// consumed the same way but do not replace it.
type Scanner struct {
	Window int
}

func (s Scanner) window() int {
	if s.Window <= 0 {
		return DefaultAnswerWindow
	}
	return s.Window
}

// Scan runs the scanner over one block's lines.
func (s Scanner) Scan(lines []string) Extraction {
	window := s.window()
	var (
		ex     Extraction
		st     = stateScanning
		marker int
		i      int
	)
	for {
		switch st {
		case stateScanning:
			if i >= len(lines) {
				return ex
			}
			tail, ok := MatchAnswer(lines[i])
			switch {
			case !ok:
				ex.Content = append(ex.Content, lines[i])
			case tail != "":
				ex.resolve(tail)
			default:
				marker, st = i, stateLookahead
			}
			i++

		case stateLookahead:
			if i >= len(lines) || i > marker+window {
				i, st = marker+1, stateScanning
				continue
			}
			if tok, ok := candidate(lines[i]); ok {
				ex.Content = append(ex.Content, lines[marker+1:i]...)
				ex.resolve(tok)
				st = stateScanning
			}
			i++
		}
	}
}
