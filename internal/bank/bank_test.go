package bank

import (
	"bytes"
	"strings"
	"testing"
)

func TestQuestionID_ZeroPadded(t *testing.T) {
	if got := QuestionID(12, 4); got != "q0012" {
		t.Errorf("expected %q, got %q", "q0012", got)
	}
	if got := QuestionID(12345, 4); got != "q12345" {
		t.Errorf("expected wide numbers to keep all digits, got %q", got)
	}
}

func TestOptionID(t *testing.T) {
	if got := OptionID("q0012", 3); got != "q0012_o3" {
		t.Errorf("expected %q, got %q", "q0012_o3", got)
	}
}

func TestNormalizeSpace(t *testing.T) {
	got := NormalizeSpace("  What \t is\n 2+2?  ")
	if got != "What is 2+2?" {
		t.Errorf("expected collapsed text, got %q", got)
	}
}

func TestBBox_AreaDegenerate(t *testing.T) {
	if a := (BBox{10, 10, 10, 50}).Area(); a != 0 {
		t.Errorf("expected zero-width box to have area 0, got %f", a)
	}
	if a := (BBox{10, 50, 20, 10}).Area(); a != 0 {
		t.Errorf("expected inverted box to have area 0, got %f", a)
	}
	if a := (BBox{0, 0, 4, 5}).Area(); a != 20 {
		t.Errorf("expected area 20, got %f", a)
	}
}

func TestBBox_IntersectionArea(t *testing.T) {
	a := BBox{0, 0, 10, 10}
	b := BBox{5, 5, 15, 15}
	if got := a.IntersectionArea(b); got != 25 {
		t.Errorf("expected 25, got %f", got)
	}
	c := BBox{10, 0, 20, 10}
	if got := a.IntersectionArea(c); got != 0 {
		t.Errorf("expected touching boxes to share no area, got %f", got)
	}
}

func TestBBox_Union(t *testing.T) {
	got := (BBox{5, 10, 20, 30}).Union(BBox{0, 15, 25, 28})
	want := BBox{0, 10, 25, 30}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestEncode_NullFieldsAndEmptyLists(t *testing.T) {
	ds := &Dataset{
		Meta: Meta{Slug: "demo", PDF: "exam.pdf", QuestionCount: 1},
		Questions: []Question{{
			ID:      "q0007",
			Number:  7,
			Type:    TypeRow,
			Prompt:  "The sky is green.",
			Options: []Option{},
			Regions: []Region{},
			Assets:  []Asset{},
		}},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, ds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`"correctRow": null`, `"correctOptionId": null`, `"answerRaw": null`, `"options": []`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s\n%s", want, out)
		}
	}
	if strings.Contains(out, `"tags"`) {
		t.Errorf("expected tags to be omitted when unset")
	}

	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if back.Questions[0].Prompt != "The sky is green." {
		t.Errorf("expected prompt to survive encoding, got %q", back.Questions[0].Prompt)
	}
}
