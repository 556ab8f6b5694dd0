package export

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/qbank/internal/bank"
)

func strPtr(s string) *string { return &s }

func sampleDataset() *bank.Dataset {
	right := bank.RowRight
	return &bank.Dataset{
		Meta: bank.Meta{Slug: "exam", PDF: "exam.pdf", ExtractedAt: "2026-01-02T03:04:05.000000Z", QuestionCount: 3},
		Questions: []bank.Question{
			{
				ID: "q0001", Number: 1, Type: bank.TypeRow, Prompt: "Drivers must yield to ambulances.",
				Options: []bank.Option{}, CorrectRow: &right, AnswerRaw: strPtr("Right"),
				Assets: []bank.Asset{{Kind: "image", Src: "/qbank/exam/images/img_a.png", Page: 1,
					BBox: bank.BBox{1, 2, 3, 4}, Hash: "0123456789abcdef0123456789abcdef"}},
				Tags: &bank.Tags{Auto: []string{"#row", "#pic"}, User: []string{}},
			},
			{
				ID: "q0002", Number: 2, Type: bank.TypeMCQ, Prompt: "Which light means stop?",
				Options: []bank.Option{
					{ID: "q0002_o1", OriginalKey: "A", Text: "Green"},
					{ID: "q0002_o2", OriginalKey: "B", Text: "Red"},
					{ID: "q0002_o3", OriginalKey: "C", Text: "Yellow"},
					{ID: "q0002_o4", OriginalKey: "D", Text: "Blue"},
				},
				CorrectOptionID: strPtr("q0002_o2"), AnswerRaw: strPtr("B"),
				Assets: []bank.Asset{},
			},
			{
				ID: "q0003", Number: 3, Type: bank.TypeRow, Prompt: "Unanswered statement.",
				Options: []bank.Option{}, Assets: []bank.Asset{},
			},
		},
	}
}

func TestAnswerLabel(t *testing.T) {
	ds := sampleDataset()
	want := []string{"R", "B", ""}
	for i, q := range ds.Questions {
		if got := answerLabel(q); got != want[i] {
			t.Errorf("answerLabel(%s) = %q, want %q", q.ID, got, want[i])
		}
	}
}

func TestXLSX_Rows(t *testing.T) {
	var buf bytes.Buffer
	if err := XLSX(&buf, sampleDataset()); err != nil {
		t.Fatalf("XLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(questionSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][3] != "Prompt" {
		t.Errorf("header = %v", rows[0])
	}
	mcq := rows[2]
	if mcq[0] != "q0002" || mcq[1] != "2" || mcq[2] != "mcq" {
		t.Errorf("mcq row = %v", mcq)
	}
	if mcq[5] != "Red" || mcq[8] != "B" {
		t.Errorf("option B = %q, answer = %q", mcq[5], mcq[8])
	}
	if rows[1][10] != "/qbank/exam/images/img_a.png" || rows[1][11] != "#row #pic" {
		t.Errorf("row 1 images/tags = %v", rows[1])
	}

	meta, err := f.GetRows(metaSheet)
	if err != nil {
		t.Fatalf("GetRows meta: %v", err)
	}
	if len(meta) != 4 || meta[0][1] != "exam" || meta[3][1] != "3" {
		t.Errorf("meta = %v", meta)
	}
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func TestDOCX_Paragraphs(t *testing.T) {
	var buf bytes.Buffer
	if err := DOCX(&buf, sampleDataset(), DOCXOptions{}); err != nil {
		t.Fatalf("DOCX: %v", err)
	}

	doc, err := docx.Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var texts []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			if s := paragraphText(p); s != "" {
				texts = append(texts, s)
			}
		}
	}
	joined := strings.Join(texts, "\n")
	for _, want := range []string{
		"exam",
		"1. Drivers must yield to ambulances.",
		"[image /qbank/exam/images/img_a.png]",
		"Answer: R",
		"B. Red",
		"Answer: B",
		"Answer: ?",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}

func TestSQLite_Tables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "bank.db")
	ctx := context.Background()
	ds := sampleDataset()
	if err := SQLite(ctx, path, ds); err != nil {
		t.Fatalf("SQLite: %v", err)
	}
	// A second export replaces the first.
	if err := SQLite(ctx, path, ds); err != nil {
		t.Fatalf("SQLite again: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	counts := map[string]int{"meta": 1, "questions": 3, "options": 4, "assets": 1}
	for table, want := range counts {
		var got int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}

	var row, opt sql.NullString
	if err := db.QueryRow("SELECT correct_row, correct_option_id FROM questions WHERE id = 'q0003'").Scan(&row, &opt); err != nil {
		t.Fatal(err)
	}
	if row.Valid || opt.Valid {
		t.Errorf("unanswered question stored %v / %v", row, opt)
	}
	var correct string
	if err := db.QueryRow("SELECT correct_option_id FROM questions WHERE id = 'q0002'").Scan(&correct); err != nil {
		t.Fatal(err)
	}
	if correct != "q0002_o2" {
		t.Errorf("correct_option_id = %q", correct)
	}
}

func TestWriteFile_Formats(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	for _, name := range []string{"bank.xlsx", "bank.docx", "bank.db"} {
		path := filepath.Join(dir, name)
		format := FormatFromPath(path)
		if format == "" {
			t.Fatalf("no format for %s", name)
		}
		if err := WriteFile(ctx, format, path, sampleDataset(), ""); err != nil {
			t.Errorf("WriteFile(%s): %v", format, err)
		}
	}
	if err := WriteFile(ctx, "pdf", filepath.Join(dir, "bank.pdf"), sampleDataset(), ""); err == nil {
		t.Error("expected error for unknown format")
	}
}
