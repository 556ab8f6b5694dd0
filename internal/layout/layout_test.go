package layout

import (
	"testing"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/source"
)

func span(x0, y0 float64, text string) source.Span {
	return source.Span{BBox: bank.BBox{x0, y0, x0 + 100, y0 + 10}, Text: text}
}

func TestColumn(t *testing.T) {
	tests := []struct {
		x0   float64
		want int
	}{
		{0, 0},
		{305.9, 0},
		{306, 1},
		{500, 1},
	}
	for _, tt := range tests {
		if got := Column(tt.x0, 612); got != tt.want {
			t.Errorf("Column(%v) = %d, want %d", tt.x0, got, tt.want)
		}
	}
}

func TestOrder_LeftColumnThenRight(t *testing.T) {
	pages := []source.Page{{
		Number: 1,
		Width:  612,
		Lines: []source.Span{
			span(320, 50, "right top"),
			span(40, 300, "left bottom"),
			span(320, 10, "right first"),
			span(40, 20, "left top"),
		},
	}}

	got := Order(pages)
	want := []string{"left top", "left bottom", "right first", "right top"}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].Text != w {
			t.Errorf("line %d = %q, want %q", i, got[i].Text, w)
		}
	}
	if got[0].Column != 0 || got[3].Column != 1 {
		t.Errorf("unexpected columns %d, %d", got[0].Column, got[3].Column)
	}
}

func TestOrder_SameRowByX(t *testing.T) {
	pages := []source.Page{{
		Number: 1,
		Width:  612,
		Lines:  []source.Span{span(120, 40, "second"), span(40, 40, "first")},
	}}
	got := Order(pages)
	if got[0].Text != "first" || got[1].Text != "second" {
		t.Fatalf("got %q, %q", got[0].Text, got[1].Text)
	}
}

func TestOrder_PagesInSequence(t *testing.T) {
	pages := []source.Page{
		{Number: 1, Width: 612, Lines: []source.Span{span(320, 10, "p1 right")}},
		{Number: 2, Width: 612, Lines: []source.Span{span(40, 10, "p2 left")}},
	}
	got := Order(pages)
	if len(got) != 2 || got[0].Page != 1 || got[1].Page != 2 {
		t.Fatalf("unexpected page order %+v", got)
	}
}

func TestOrder_StraddlingLineUsesLeftEdge(t *testing.T) {
	pages := []source.Page{{
		Number: 1,
		Width:  612,
		Lines:  []source.Span{{BBox: bank.BBox{300, 10, 500, 20}, Text: "wide"}},
	}}
	if got := Order(pages); got[0].Column != 0 {
		t.Fatalf("expected column 0, got %d", got[0].Column)
	}
}

func TestOrder_NormalizesAndDropsBlank(t *testing.T) {
	pages := []source.Page{{
		Number: 1,
		Width:  612,
		Lines:  []source.Span{span(40, 10, "   "), span(40, 20, "  a   b ")},
	}}
	got := Order(pages)
	if len(got) != 1 || got[0].Text != "a b" {
		t.Fatalf("unexpected lines %+v", got)
	}
}

func TestOrder_Deterministic(t *testing.T) {
	pages := []source.Page{{
		Number: 1,
		Width:  612,
		Lines:  []source.Span{span(40, 10, "x"), span(40, 10, "y"), span(320, 10, "z")},
	}}
	first := Order(pages)
	for i := 0; i < 5; i++ {
		again := Order(pages)
		for j := range first {
			if first[j].Text != again[j].Text {
				t.Fatalf("run %d differs at %d", i, j)
			}
		}
	}
	if first[0].Text != "x" || first[1].Text != "y" {
		t.Fatalf("equal keys should keep input order, got %q %q", first[0].Text, first[1].Text)
	}
}
