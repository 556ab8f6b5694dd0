package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/qbank/internal/bank"
)

// WriteFile exports ds to path in the named format. imageRoot is passed to
// DOCX for embedding images.
func WriteFile(ctx context.Context, format, path string, ds *bank.Dataset, imageRoot string) error {
	format = strings.ToLower(format)
	if format == "sqlite" {
		return SQLite(ctx, path, ds)
	}
	if format != "xlsx" && format != "docx" {
		return unknownFormat(format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if format == "xlsx" {
		err = XLSX(f, ds)
	} else {
		err = DOCX(f, ds, DOCXOptions{ImageRoot: imageRoot})
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// FormatFromPath guesses the export format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "xlsx"
	case ".docx":
		return "docx"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	}
	return ""
}
