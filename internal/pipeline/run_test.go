package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/source"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func left(y float64, text string) source.Span {
	return source.Span{BBox: bank.BBox{40, y, 280, y + 10}, Text: text}
}

func right(y float64, text string) source.Span {
	return source.Span{BBox: bank.BBox{320, y, 570, y + 10}, Text: text}
}

func examDoc() *source.Memory {
	figure := []byte("figure bytes")
	return &source.Memory{
		DocName: "/exams/2023 test1.pdf",
		Pages: []source.Page{{
			Width:  612,
			Height: 792,
			Lines: []source.Span{
				right(100, "7. The sky is green."),
				left(50, "Theory Test 2023"),
				left(100, "12. What is 2+2?"),
				left(112, "A. 3"),
				left(124, "B. 4"),
				left(136, "Answer: B"),
				right(112, "Answer:"),
				right(124, "Wrong"),
			},
			Images: []source.Placement{
				{BBox: bank.BBox{60, 104, 160, 140}, Handle: 11},
				{BBox: bank.BBox{330, 104, 430, 130}, Handle: 12},
				{BBox: bank.BBox{60, 600, 160, 700}, Handle: 13},
			},
		}},
		Images: map[int]source.ImageData{
			11: {Bytes: figure, Format: "png"},
			12: {Bytes: figure, Format: "png"},
			13: {Bytes: []byte("orphan"), Format: "png"},
		},
	}
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
}

func TestRun_EndToEnd(t *testing.T) {
	out := t.TempDir()
	var phases []JobStatus
	res, err := Run(context.Background(), examDoc(), Options{
		Slug:    "2023-test1",
		OutDir:  out,
		Now:     fixedClock,
		OnPhase: func(s JobStatus) { phases = append(phases, s) },
	}, quiet)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantPhases := []JobStatus{StatusReading, StatusSegmenting, StatusBinding, StatusWriting}
	if !reflect.DeepEqual(phases, wantPhases) {
		t.Errorf("phases = %v", phases)
	}

	ds, err := bank.ReadFile(filepath.Join(out, OutputFile))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if ds.Meta.Slug != "2023-test1" || ds.Meta.PDF != "2023 test1.pdf" || ds.Meta.QuestionCount != 2 {
		t.Errorf("unexpected meta %+v", ds.Meta)
	}
	if ds.Meta.ExtractedAt != "2026-03-01T11:00:00.000000Z" {
		t.Errorf("extractedAt = %q", ds.Meta.ExtractedAt)
	}

	if len(ds.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(ds.Questions))
	}
	mcq, row := ds.Questions[0], ds.Questions[1]
	if mcq.ID != "q0012" || mcq.Type != bank.TypeMCQ || *mcq.CorrectOptionID != "q0012_o2" {
		t.Errorf("unexpected first question %+v", mcq)
	}
	if row.ID != "q0007" || row.Type != bank.TypeRow || *row.CorrectRow != bank.RowWrong {
		t.Errorf("unexpected second question %+v", row)
	}

	if len(mcq.Assets) != 1 || len(row.Assets) != 1 {
		t.Fatalf("assets = %d, %d", len(mcq.Assets), len(row.Assets))
	}
	if mcq.Assets[0].Hash != row.Assets[0].Hash {
		t.Error("identical figures should share a hash")
	}
	if !strings.HasPrefix(mcq.Assets[0].Src, "/qbank/2023-test1/images/img_") {
		t.Errorf("src = %q", mcq.Assets[0].Src)
	}

	files, err := os.ReadDir(filepath.Join(out, ImageDir))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 stored image, got %d", len(files))
	}

	if res.MCQ != 1 || res.Row != 1 || res.Assets != 2 || res.ImageFiles != 1 || res.Pages != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if !strings.Contains(res.Summary(), "Extracted 2 questions") {
		t.Errorf("summary = %q", res.Summary())
	}
}

func TestRun_EmptyDocumentStillWrites(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out")
	res, err := Run(context.Background(), &source.Memory{DocName: "blank.pdf", Pages: []source.Page{{Width: 612}}},
		Options{Slug: "blank", OutDir: out, Now: fixedClock}, quiet)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	raw, err := os.ReadFile(res.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"questions": []`) {
		t.Errorf("expected empty questions array, got %s", raw)
	}
	if _, err := os.Stat(filepath.Join(out, ImageDir)); err != nil {
		t.Errorf("image dir missing: %v", err)
	}
}

type brokenDoc struct {
	source.Memory
}

func (b *brokenDoc) Page(n int) (source.Page, error) {
	return source.Page{}, errors.New("xref table damaged")
}

func TestRun_ProviderFailureAborts(t *testing.T) {
	out := t.TempDir()
	doc := &brokenDoc{Memory: source.Memory{DocName: "bad.pdf", Pages: []source.Page{{}}}}
	if _, err := Run(context.Background(), doc, Options{Slug: "bad", OutDir: out}, quiet); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(filepath.Join(out, OutputFile)); !os.IsNotExist(err) {
		t.Fatalf("no output should be written, stat err = %v", err)
	}
}

func TestRun_MissingImageAborts(t *testing.T) {
	doc := examDoc()
	delete(doc.Images, 11)
	_, err := Run(context.Background(), doc, Options{Slug: "s", OutDir: t.TempDir()}, quiet)
	if !errors.Is(err, source.ErrImageNotFound) {
		t.Fatalf("expected ErrImageNotFound, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, examDoc(), Options{Slug: "s", OutDir: t.TempDir()}, quiet); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAssemble(t *testing.T) {
	qs := []bank.Question{{ID: "q0002"}, {ID: "q0001"}}
	ds := Assemble("s", "/a/b/exam.pdf", qs, fixedClock())
	if ds.Meta.PDF != "exam.pdf" || ds.Meta.QuestionCount != 2 {
		t.Errorf("unexpected meta %+v", ds.Meta)
	}
	if ds.Questions[0].ID != "q0002" {
		t.Error("Assemble must keep discovery order")
	}
	if empty := Assemble("s", "x.pdf", nil, fixedClock()); empty.Questions == nil {
		t.Error("questions should be an empty list, not null")
	}
}
