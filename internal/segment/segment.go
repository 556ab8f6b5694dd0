// Package segment splits an ordered line stream into per-question blocks.
package segment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/qbank/internal/bank"
)

var startRe = regexp.MustCompile(`^\s*(\d{1,4})\.\s+(.+)$`)

// MatchStart reports whether text opens a question ("12. Prompt..."), and
// returns the number and the remainder of the line.
func MatchStart(text string) (number int, rest string, ok bool) {
	m := startRe.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, strings.TrimSpace(m[2]), true
}

type regionKey struct {
	page, column int
}

// Block is the raw material of one question.
type Block struct {
	Number int
	Lines  []string

	regions map[regionKey]bank.BBox
	keys    []regionKey
}

// grow extends the region of the line's page and column to cover it.
func (b *Block) grow(l bank.TextLine) {
	k := regionKey{l.Page, l.Column}
	if cur, ok := b.regions[k]; ok {
		b.regions[k] = cur.Union(l.BBox)
		return
	}
	b.regions[k] = l.BBox
	b.keys = append(b.keys, k)
}

// RegionList returns the block's regions in the order their page and column
// were first seen.
func (b *Block) RegionList() []bank.Region {
	out := make([]bank.Region, 0, len(b.keys))
	for _, k := range b.keys {
		out = append(out, bank.Region{Page: k.page, Column: k.column, BBox: b.regions[k]})
	}
	return out
}

type state int

const (
	noBlockOpen state = iota
	blockOpen
)

// Segmenter is a two-state machine. Lines seen with no block open are
// dropped; a start marker closes the open block and opens the next one.
type Segmenter struct {
	state  state
	open   *Block
	closed []Block
}

// Feed consumes the next line in reading order.
func (s *Segmenter) Feed(l bank.TextLine) {
	if n, rest, ok := MatchStart(l.Text); ok {
		s.closeOpen()
		s.open = &Block{Number: n, regions: make(map[regionKey]bank.BBox)}
		if rest != "" {
			s.open.Lines = append(s.open.Lines, rest)
		}
		s.open.grow(l)
		s.state = blockOpen
		return
	}

	switch s.state {
	case noBlockOpen:
		return
	case blockOpen:
		s.open.Lines = append(s.open.Lines, l.Text)
		s.open.grow(l)
	}
}

// Close ends the input and returns every block in discovery order.
func (s *Segmenter) Close() []Block {
	s.closeOpen()
	out := s.closed
	s.closed = nil
	return out
}

func (s *Segmenter) closeOpen() {
	if s.state == blockOpen {
		s.closed = append(s.closed, *s.open)
		s.open = nil
		s.state = noBlockOpen
	}
}

// Segment runs a Segmenter over lines.
func Segment(lines []bank.TextLine) []Block {
	var s Segmenter
	for _, l := range lines {
		s.Feed(l)
	}
	return s.Close()
}
