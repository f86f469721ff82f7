package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aevon-lab/download-stats/internal/core/document"
	"github.com/aevon-lab/download-stats/internal/core/downloads"
	"github.com/aevon-lab/download-stats/internal/core/storage"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanDocumentRow scans a download_documents row.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
func scanDocumentRow(row scanner) (*document.Document, error) {
	var (
		name    string
		data    downloads.Overrides
		content string
	)
	if err := row.Scan(&name, &data.Repo, &data.Start, &data.Prop, &content); err != nil {
		return nil, fmt.Errorf("failed to scan document row: %w", err)
	}
	return document.New(name, []byte(content), data), nil
}

func scanRunRow(row scanner) (storage.RunRecord, error) {
	var run storage.RunRecord
	err := row.Scan(
		&run.ID,
		&run.Document,
		&run.Repo,
		&run.Mode,
		&run.StartedAt,
		&run.FinishedAt,
		&run.Fetched,
		&run.Added,
		&run.Error,
	)
	if err != nil {
		return storage.RunRecord{}, fmt.Errorf("failed to scan run row: %w", err)
	}
	return run, nil
}

// nullableString maps "" to SQL NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
