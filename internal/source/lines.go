package source

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/qbank/internal/bank"
)

// Run is a positioned piece of text in PDF space: origin at the bottom-left,
// Y is the baseline.
type Run struct {
	X, Y float64
	W    float64
	Size float64
	S    string
}

// LineOptions controls how runs are grouped into lines.
type LineOptions struct {
	RowTolerance float64 // Max baseline distance (points) for runs on one row
	GapFactor    float64 // A gap wider than GapFactor*fontSize starts a new line
	SpaceFactor  float64 // A gap wider than SpaceFactor*fontSize becomes a space
}

// DefaultLineOptions suits typeset exam pages.
func DefaultLineOptions() LineOptions {
	return LineOptions{
		RowTolerance: 2.0,
		GapFactor:    1.5,
		SpaceFactor:  0.15,
	}
}

// MediaBox is a page rectangle in PDF space.
type MediaBox struct {
	LLX, LLY, URX, URY float64
}

func (m MediaBox) Width() float64  { return m.URX - m.LLX }
func (m MediaBox) Height() float64 { return m.URY - m.LLY }

// ToPage converts PDF-space bounds to a top-left origin box.
func (m MediaBox) ToPage(minX, minY, maxX, maxY float64) bank.BBox {
	return bank.BBox{minX - m.LLX, m.URY - maxY, maxX - m.LLX, m.URY - minY}
}

// BuildLines groups text runs into lines. Runs sharing a baseline form a row;
// a row is split wherever the horizontal gap is wide enough to be a column
// gutter, so a row crossing both columns yields two lines.
func BuildLines(runs []Run, box MediaBox, opts LineOptions) []Span {
	sorted := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.S != "" {
			sorted = append(sorted, r)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var spans []Span
	for start := 0; start < len(sorted); {
		anchor := sorted[start].Y
		end := start + 1
		for end < len(sorted) && math.Abs(sorted[end].Y-anchor) <= opts.RowTolerance {
			end++
		}
		row := append([]Run(nil), sorted[start:end]...)
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		spans = append(spans, splitRow(row, box, opts)...)
		start = end
	}
	return spans
}

func splitRow(row []Run, box MediaBox, opts LineOptions) []Span {
	var spans []Span
	var (
		text                   strings.Builder
		minX, minY, maxX, maxY float64
		prev                   *Run
	)
	flush := func() {
		t := bank.NormalizeSpace(norm.NFC.String(text.String()))
		if t != "" {
			spans = append(spans, Span{BBox: box.ToPage(minX, minY, maxX, maxY), Text: t})
		}
		text.Reset()
		prev = nil
	}

	for i := range row {
		r := row[i]
		size := math.Max(r.Size, 1)
		if prev != nil {
			gap := r.X - (prev.X + prev.W)
			if gap > opts.GapFactor*math.Max(size, prev.Size) {
				flush()
			} else if gap > opts.SpaceFactor*size && !strings.HasSuffix(text.String(), " ") && !strings.HasPrefix(r.S, " ") {
				text.WriteByte(' ')
			}
		}
		top := r.Y + 0.8*size
		bottom := r.Y - 0.2*size
		if prev == nil {
			minX, maxX, minY, maxY = r.X, r.X+r.W, bottom, top
		} else {
			minX = math.Min(minX, r.X)
			maxX = math.Max(maxX, r.X+r.W)
			minY = math.Min(minY, bottom)
			maxY = math.Max(maxY, top)
		}
		text.WriteString(r.S)
		prev = &row[i]
	}
	if prev != nil {
		flush()
	}
	return spans
}
