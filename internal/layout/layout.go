// Package layout reconstructs reading order on two-column exam pages.
package layout

import (
	"sort"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/source"
)

// Column assigns a left edge to column 0 or 1 by the page midpoint. Lines
// straddling the midpoint go by their left edge alone.
func Column(x0, pageWidth float64) int {
	if x0 < pageWidth/2 {
		return 0
	}
	return 1
}

// Order returns every non-empty line of pages in reading order: per page, the
// left column top to bottom, then the right column. Pages keep their order.
func Order(pages []source.Page) []bank.TextLine {
	var out []bank.TextLine
	for _, p := range pages {
		lines := make([]bank.TextLine, 0, len(p.Lines))
		for _, s := range p.Lines {
			text := bank.NormalizeSpace(s.Text)
			if text == "" {
				continue
			}
			lines = append(lines, bank.TextLine{
				Page:   p.Number,
				Column: Column(s.BBox.X0(), p.Width),
				BBox:   s.BBox,
				Text:   text,
			})
		}
		sort.SliceStable(lines, func(i, j int) bool {
			a, b := lines[i], lines[j]
			if a.Column != b.Column {
				return a.Column < b.Column
			}
			if a.BBox.Y0() != b.BBox.Y0() {
				return a.BBox.Y0() < b.BBox.Y0()
			}
			return a.BBox.X0() < b.BBox.X0()
		})
		out = append(out, lines...)
	}
	return out
}
