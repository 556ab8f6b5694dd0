package extract

import (
	"testing"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/segment"
)

func strp(s string) *string { return &s }

func block(t *testing.T, texts ...string) segment.Block {
	t.Helper()
	lines := make([]bank.TextLine, len(texts))
	for i, text := range texts {
		y := float64(10 + 12*i)
		lines[i] = bank.TextLine{Page: 1, Column: 0, BBox: bank.BBox{40, y, 280, y + 10}, Text: text}
	}
	blocks := segment.Segment(lines)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	return blocks[0]
}

func TestClassify(t *testing.T) {
	tests := []struct {
		content []string
		want    bank.QuestionType
	}{
		{[]string{"The sky is green."}, bank.TypeRow},
		{[]string{"Pick one", "A. red"}, bank.TypeMCQ},
		{[]string{"Pick one", "B) red"}, bank.TypeMCQ},
		{[]string{"Pick one", "C: red"}, bank.TypeMCQ},
		{[]string{"Pick one", "D．赤"}, bank.TypeMCQ},
		{[]string{"Pick one", "A、红色"}, bank.TypeMCQ},
		{[]string{"a. lower case is not a key"}, bank.TypeRow},
		{[]string{"E. out of range"}, bank.TypeRow},
		{[]string{"A."}, bank.TypeRow},
		{nil, bank.TypeRow},
	}
	for _, tt := range tests {
		if got := Classify(tt.content); got != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.content, got, tt.want)
		}
	}
}

func TestNormalizeRow(t *testing.T) {
	tests := []struct {
		raw  *string
		want string
	}{
		{strp("Right"), "R"},
		{strp("true"), "R"},
		{strp("Correct"), "R"},
		{strp("YES"), "R"},
		{strp("√"), "R"},
		{strp("r"), "R"},
		{strp("not right"), "R"},
		{strp("Wrong"), "W"},
		{strp("false"), "W"},
		{strp("Incorrect"), "W"},
		{strp("no"), "W"},
		{strp("×"), "W"},
		{strp("w"), "W"},
		{strp("very wrong"), "W"},
		{strp("maybe"), ""},
		{strp("B"), ""},
		{strp("   "), ""},
		{nil, ""},
	}
	for _, tt := range tests {
		got := NormalizeRow(tt.raw)
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("NormalizeRow(%q) = %s, want nil", *tt.raw, *got)
		case tt.want != "" && (got == nil || string(*got) != tt.want):
			t.Errorf("NormalizeRow(%q) = %v, want %s", *tt.raw, got, tt.want)
		}
	}
}

func TestParseMCQ_ContinuationLines(t *testing.T) {
	m := ParseMCQ("q0001", []string{
		"Which sign",
		"means stop?",
		"A. red",
		"octagon",
		"B. green circle",
	}, strp("A"))

	if m.Prompt != "Which sign means stop?" {
		t.Errorf("prompt = %q", m.Prompt)
	}
	if len(m.Options) != 2 || m.Options[0].Text != "red octagon" || m.Options[1].Text != "green circle" {
		t.Fatalf("options = %+v", m.Options)
	}
	if m.CorrectID == nil || *m.CorrectID != "q0001_o1" {
		t.Fatalf("correct = %v", m.CorrectID)
	}
}

func TestParseMCQ_IdsArePositional(t *testing.T) {
	sparse := ParseMCQ("q0003", []string{"P", "A. one", "C. three"}, strp("C"))
	full := ParseMCQ("q0003", []string{"P", "A. one", "B. two", "C. three", "D. four"}, strp("C"))

	if len(sparse.Options) != 2 || len(full.Options) != 4 {
		t.Fatalf("unexpected option counts %d, %d", len(sparse.Options), len(full.Options))
	}
	if sparse.Options[0].ID != full.Options[0].ID || sparse.Options[1].ID != full.Options[2].ID {
		t.Fatalf("ids differ: sparse %+v full %+v", sparse.Options, full.Options)
	}
	if sparse.Options[1].ID != "q0003_o3" {
		t.Errorf("C id = %s, want q0003_o3", sparse.Options[1].ID)
	}
	if sparse.CorrectID == nil || *sparse.CorrectID != "q0003_o3" {
		t.Errorf("correct = %v", sparse.CorrectID)
	}
}

func TestParseMCQ_AnswerForMissingOptionIsNull(t *testing.T) {
	m := ParseMCQ("q0004", []string{"P", "A. one", "C. three"}, strp("B"))
	if m.CorrectID != nil {
		t.Fatalf("correct = %s, want nil", *m.CorrectID)
	}
}

func TestParseMCQ_AnswerLetterAnywhere(t *testing.T) {
	m := ParseMCQ("q0005", []string{"P", "A. one", "B. two", "C. three"}, strp("(c)"))
	if m.CorrectID == nil || *m.CorrectID != "q0005_o3" {
		t.Fatalf("correct = %v", m.CorrectID)
	}
	m = ParseMCQ("q0005", []string{"P", "A. one"}, nil)
	if m.CorrectID != nil {
		t.Fatalf("nil raw should give nil correct, got %s", *m.CorrectID)
	}
}

func TestParseMCQ_RepeatedKeyReplacesText(t *testing.T) {
	m := ParseMCQ("q0006", []string{"A. first", "A. second"}, nil)
	if len(m.Options) != 1 || m.Options[0].Text != "second" {
		t.Fatalf("options = %+v", m.Options)
	}
	if m.Prompt != "" {
		t.Fatalf("prompt = %q", m.Prompt)
	}
}

func TestBuild_ScenarioMCQ(t *testing.T) {
	q := Build(block(t, "12. What is 2+2?", "A. 3", "B. 4", "Answer: B"), Options{PDFName: "exam.pdf"})

	if q.ID != "q0012" || q.Number != 12 || q.Type != bank.TypeMCQ {
		t.Fatalf("unexpected header %s %d %s", q.ID, q.Number, q.Type)
	}
	if q.Prompt != "What is 2+2?" {
		t.Errorf("prompt = %q", q.Prompt)
	}
	if len(q.Options) != 2 ||
		q.Options[0] != (bank.Option{ID: "q0012_o1", OriginalKey: "A", Text: "3"}) ||
		q.Options[1] != (bank.Option{ID: "q0012_o2", OriginalKey: "B", Text: "4"}) {
		t.Fatalf("options = %+v", q.Options)
	}
	if q.CorrectOptionID == nil || *q.CorrectOptionID != q.Options[1].ID {
		t.Fatalf("correct = %v", q.CorrectOptionID)
	}
	if q.CorrectRow != nil {
		t.Errorf("mcq should not carry correctRow")
	}
	if q.AnswerRaw == nil || *q.AnswerRaw != "B" {
		t.Errorf("answerRaw = %v", q.AnswerRaw)
	}
	if q.Source.PDF != "exam.pdf" || len(q.Regions) != 1 || q.Assets == nil {
		t.Errorf("unexpected source/regions/assets %+v %+v %v", q.Source, q.Regions, q.Assets)
	}
}

func TestBuild_ScenarioDeferredRow(t *testing.T) {
	q := Build(block(t, "7. The sky is green.", "Answer:", "Wrong"), Options{})
	if q.Number != 7 || q.Type != bank.TypeRow || q.Prompt != "The sky is green." {
		t.Fatalf("unexpected question %+v", q)
	}
	if q.CorrectRow == nil || *q.CorrectRow != bank.RowWrong {
		t.Fatalf("correctRow = %v", q.CorrectRow)
	}
	if q.CorrectOptionID != nil || q.Options == nil || len(q.Options) != 0 {
		t.Errorf("row should have empty options and nil correctOptionId")
	}
}

func TestBuild_ScenarioContinuationAfterMarker(t *testing.T) {
	q := Build(block(t, "958. You should pass horses", "Answer:", "slowly.", "Right"), Options{})
	if q.Prompt != "You should pass horses slowly." {
		t.Fatalf("prompt = %q", q.Prompt)
	}
	if q.CorrectRow == nil || *q.CorrectRow != bank.RowRight {
		t.Fatalf("correctRow = %v", q.CorrectRow)
	}
}

func TestBuild_UnresolvedAnswerKeepsRecord(t *testing.T) {
	q := Build(block(t, "3. Unclear", "Answer: ask the examiner"), Options{})
	if q.CorrectRow != nil {
		t.Fatalf("correctRow = %s, want nil", *q.CorrectRow)
	}
	if q.AnswerRaw == nil || *q.AnswerRaw != "ask the examiner" {
		t.Fatalf("answerRaw = %v", q.AnswerRaw)
	}

	q = Build(block(t, "4. No marker at all"), Options{})
	if q.AnswerRaw != nil || q.CorrectRow != nil {
		t.Fatalf("expected nil answer fields, got %+v", q)
	}
}

func TestBuild_IDWidth(t *testing.T) {
	q := Build(block(t, "5. x"), Options{IDWidth: 6})
	if q.ID != "q000005" {
		t.Fatalf("id = %s", q.ID)
	}
}
