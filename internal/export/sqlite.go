package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dgallion1/qbank/internal/bank"
)

const schemaSQL = `
CREATE TABLE meta (
	slug           TEXT NOT NULL,
	pdf            TEXT NOT NULL,
	extracted_at   TEXT NOT NULL,
	question_count INTEGER NOT NULL
);
CREATE TABLE questions (
	id                TEXT PRIMARY KEY,
	number            INTEGER NOT NULL,
	type              TEXT NOT NULL CHECK (type IN ('row', 'mcq')),
	prompt            TEXT NOT NULL,
	correct_row       TEXT,
	correct_option_id TEXT,
	answer_raw        TEXT,
	tags              TEXT NOT NULL DEFAULT ''
);
CREATE TABLE options (
	id           TEXT PRIMARY KEY,
	question_id  TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	original_key TEXT NOT NULL,
	text         TEXT NOT NULL
);
CREATE TABLE assets (
	question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	src         TEXT NOT NULL,
	page        INTEGER NOT NULL,
	x0 REAL, y0 REAL, x1 REAL, y1 REAL,
	hash        TEXT NOT NULL
);
CREATE INDEX idx_options_question ON options(question_id);
CREATE INDEX idx_assets_question ON assets(question_id);
`

// SQLite writes ds into a fresh database at path, replacing any existing
// file.
func SQLite(ctx context.Context, path string, ds *bank.Dataset) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating db directory: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old database: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return inTx(ctx, db, func(tx *sql.Tx) error {
		return insertDataset(ctx, tx, ds)
	})
}

func insertDataset(ctx context.Context, tx *sql.Tx, ds *bank.Dataset) error {
	m := ds.Meta
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (slug, pdf, extracted_at, question_count) VALUES (?, ?, ?, ?)`,
		m.Slug, m.PDF, m.ExtractedAt, m.QuestionCount); err != nil {
		return fmt.Errorf("inserting meta: %w", err)
	}

	qStmt, err := tx.PrepareContext(ctx, `INSERT INTO questions
		(id, number, type, prompt, correct_row, correct_option_id, answer_raw, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer qStmt.Close()
	oStmt, err := tx.PrepareContext(ctx, `INSERT INTO options (id, question_id, original_key, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer oStmt.Close()
	aStmt, err := tx.PrepareContext(ctx, `INSERT INTO assets
		(question_id, src, page, x0, y0, x1, y1, hash) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer aStmt.Close()

	for _, q := range ds.Questions {
		var row sql.NullString
		if q.CorrectRow != nil {
			row = sql.NullString{String: string(*q.CorrectRow), Valid: true}
		}
		if _, err := qStmt.ExecContext(ctx, q.ID, q.Number, string(q.Type), q.Prompt,
			row, nullString(q.CorrectOptionID), nullString(q.AnswerRaw), strings.TrimSpace(tagList(q))); err != nil {
			return fmt.Errorf("inserting question %s: %w", q.ID, err)
		}
		for _, o := range q.Options {
			if _, err := oStmt.ExecContext(ctx, o.ID, q.ID, o.OriginalKey, o.Text); err != nil {
				return fmt.Errorf("inserting option %s: %w", o.ID, err)
			}
		}
		for _, a := range q.Assets {
			if _, err := aStmt.ExecContext(ctx, q.ID, a.Src, a.Page,
				a.BBox[0], a.BBox[1], a.BBox[2], a.BBox[3], a.Hash); err != nil {
				return fmt.Errorf("inserting asset for %s: %w", q.ID, err)
			}
		}
	}
	return nil
}

func inTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
