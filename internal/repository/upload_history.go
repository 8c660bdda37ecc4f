package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/mapscraper/internal/models"
)

const defaultHistoryLimit = 10

// UploadHistoryRepository stores the upload audit trail.
type UploadHistoryRepository struct {
	db *sql.DB
}

// NewUploadHistoryRepository creates an upload history repository.
func NewUploadHistoryRepository(db *sql.DB) *UploadHistoryRepository {
	return &UploadHistoryRepository{db: db}
}

// Record appends one upload to the history. The record's ID and timestamp
// are assigned here.
func (r *UploadHistoryRepository) Record(ctx context.Context, rec *models.UploadRecord) error {
	rec.ID = uuid.New().String()
	rec.UploadedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO upload_history (
			id, filename, file_hash, file_size_bytes,
			keywords_count, new_keywords, mode, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Filename,
		rec.FileHash,
		rec.FileSizeBytes,
		rec.KeywordsCount,
		rec.NewKeywords,
		string(rec.Mode),
		rec.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert upload record: %w", err)
	}

	return nil
}

// Recent returns the most recent uploads, newest first.
func (r *UploadHistoryRepository) Recent(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, file_hash, file_size_bytes,
		       keywords_count, new_keywords, mode, uploaded_at
		FROM upload_history
		ORDER BY uploaded_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query upload history: %w", err)
	}
	defer rows.Close()

	records := make([]models.UploadRecord, 0, limit)
	for rows.Next() {
		var rec models.UploadRecord
		var mode string
		if scanErr := rows.Scan(
			&rec.ID,
			&rec.Filename,
			&rec.FileHash,
			&rec.FileSizeBytes,
			&rec.KeywordsCount,
			&rec.NewKeywords,
			&mode,
			&rec.UploadedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan upload record: %w", scanErr)
		}
		rec.Mode = models.IngestMode(mode)
		records = append(records, rec)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate upload history: %w", rowsErr)
	}

	return records, nil
}
