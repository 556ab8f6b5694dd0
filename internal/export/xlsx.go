package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/qbank/internal/bank"
)

const (
	questionSheet = "Questions"
	metaSheet     = "Meta"
)

var xlsxHeader = []any{
	"ID", "Number", "Type", "Prompt", "A", "B", "C", "D", "Answer", "Answer (raw)", "Images", "Tags",
}

// XLSX writes one row per question plus a Meta sheet.
func XLSX(w io.Writer, ds *bank.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", questionSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(questionSheet, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(questionSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(questionSheet, "D", "D", 80); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for i, q := range ds.Questions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			q.ID, q.Number, string(q.Type), q.Prompt,
			optionText(q, "A"), optionText(q, "B"), optionText(q, "C"), optionText(q, "D"),
			answerLabel(q), deref(q.AnswerRaw), assetList(q), tagList(q),
		}
		if err := f.SetSheetRow(questionSheet, cell, &row); err != nil {
			return fmt.Errorf("write question %s: %w", q.ID, err)
		}
	}

	if _, err := f.NewSheet(metaSheet); err != nil {
		return fmt.Errorf("create meta sheet: %w", err)
	}
	meta := [][]any{
		{"slug", ds.Meta.Slug},
		{"pdf", ds.Meta.PDF},
		{"extractedAt", ds.Meta.ExtractedAt},
		{"questionCount", ds.Meta.QuestionCount},
	}
	for i, r := range meta {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(metaSheet, cell, &r); err != nil {
			return fmt.Errorf("write meta: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
