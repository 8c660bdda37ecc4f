// Package repository implements persistence for the keyword lifecycle
// contract.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/mapscraper/internal/logger"
	"github.com/jonesrussell/mapscraper/internal/models"
)

const (
	// DefaultPageLimit is used when a list request omits the limit.
	DefaultPageLimit = 100
	// MaxPageLimit caps a single page.
	MaxPageLimit = 500
)

// ErrNoPending is returned by ClaimNextPending when the pending set is
// empty.
var ErrNoPending = errors.New("no pending keywords")

// IngestStats reports what an upload actually did. Operations never report
// a bare boolean: the caller gets inserted vs skipped row counts.
type IngestStats struct {
	Inserted int
	Skipped  int
	Deleted  int // replace mode only
}

// KeywordRepository stores keyword records in SQLite.
type KeywordRepository struct {
	db     *sql.DB
	logger logger.Logger
}

// NewKeywordRepository creates a keyword repository.
func NewKeywordRepository(db *sql.DB, log logger.Logger) *KeywordRepository {
	return &KeywordRepository{
		db:     db,
		logger: log,
	}
}

// ListPage returns one page of keywords, 1-based. An empty status lists
// all records; an invalid status is an error.
func (r *KeywordRepository) ListPage(
	ctx context.Context,
	page, limit int,
	status models.KeywordStatus,
) (*models.KeywordPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("invalid status filter %q", status)
	}

	where := ""
	args := []any{}
	if status != "" {
		where = " WHERE status = ?"
		args = append(args, string(status))
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM keywords"+where, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("count keywords: %w", err)
	}

	offset := (page - 1) * limit
	query := "SELECT id, text, city, status, updated_at FROM keywords" +
		where + " ORDER BY rowid LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	items := make([]models.Keyword, 0, limit)
	for rows.Next() {
		var kw models.Keyword
		if scanErr := rows.Scan(&kw.ID, &kw.Text, &kw.City, &kw.Status, &kw.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("scan keyword: %w", scanErr)
		}
		items = append(items, kw)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate keywords: %w", rowsErr)
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	return &models.KeywordPage{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Ingest reconciles parsed upload rows against existing records.
//
//   - add:  insert rows whose (text, city) identity is absent; existing
//     records are untouched.
//   - sync: identical insertion behavior; existing records keep their
//     status (no deletions, no implicit retry).
//   - replace: delete everything, then insert the file fresh at pending.
//
// The whole operation runs in one transaction.
func (r *KeywordRepository) Ingest(
	ctx context.Context,
	rows []models.KeywordRow,
	mode models.IngestMode,
) (*IngestStats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin ingest: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stats := &IngestStats{}
	now := time.Now().UTC()

	if mode == models.ModeReplace {
		res, delErr := tx.ExecContext(ctx, "DELETE FROM keywords")
		if delErr != nil {
			return nil, fmt.Errorf("replace: delete keywords: %w", delErr)
		}
		deleted, _ := res.RowsAffected()
		stats.Deleted = int(deleted)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO keywords (id, text, city, status, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (text, city) DO NOTHING
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		res, insErr := stmt.ExecContext(ctx,
			uuid.New().String(),
			row.Text,
			row.City,
			string(models.StatusPending),
			now,
		)
		if insErr != nil {
			return nil, fmt.Errorf("insert keyword %q: %w", row.Text, insErr)
		}
		affected, _ := res.RowsAffected()
		if affected > 0 {
			stats.Inserted++
		} else {
			stats.Skipped++
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return nil, fmt.Errorf("commit ingest: %w", commitErr)
	}

	r.logger.Info("Keywords ingested",
		logger.String("mode", string(mode)),
		logger.Int("inserted", stats.Inserted),
		logger.Int("skipped", stats.Skipped),
		logger.Int("deleted", stats.Deleted),
	)

	return stats, nil
}

// ResetFailed moves every failed record back to pending.
func (r *KeywordRepository) ResetFailed(ctx context.Context) (int, error) {
	return r.reset(ctx, models.StatusFailed)
}

// ResetSkipped moves every skipped record back to pending.
func (r *KeywordRepository) ResetSkipped(ctx context.Context) (int, error) {
	return r.reset(ctx, models.StatusSkipped)
}

// ResetProcessing moves stuck processing records back to pending. The
// engine runs this on start so keywords interrupted by a stop or crash
// get retried.
func (r *KeywordRepository) ResetProcessing(ctx context.Context) (int, error) {
	return r.reset(ctx, models.StatusProcessing)
}

// ResetAll moves failed, skipped, and stuck processing records back to
// pending. Done records are never reset.
func (r *KeywordRepository) ResetAll(ctx context.Context) (int, error) {
	return r.reset(ctx,
		models.StatusFailed,
		models.StatusSkipped,
		models.StatusProcessing,
	)
}

func (r *KeywordRepository) reset(ctx context.Context, from ...models.KeywordStatus) (int, error) {
	placeholders := ""
	args := make([]any, 0, len(from)+2)
	args = append(args, string(models.StatusPending), time.Now().UTC())
	for i, s := range from {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, string(s))
	}

	res, err := r.db.ExecContext(ctx,
		"UPDATE keywords SET status = ?, updated_at = ? WHERE status IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("reset keywords: %w", err)
	}

	affected, _ := res.RowsAffected()
	return int(affected), nil
}

// CountsByStatus recomputes the aggregate metrics snapshot.
func (r *KeywordRepository) CountsByStatus(ctx context.Context) (*models.MetricsSnapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM keywords GROUP BY status",
	)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	snapshot := &models.MetricsSnapshot{}
	for rows.Next() {
		var status string
		var count int
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return nil, fmt.Errorf("scan count: %w", scanErr)
		}
		snapshot.Total += count
		switch models.KeywordStatus(status) {
		case models.StatusDone:
			snapshot.Done = count
		case models.StatusPending:
			snapshot.Pending = count
		case models.StatusProcessing:
			snapshot.Processing = count
		case models.StatusFailed:
			snapshot.Failed = count
		case models.StatusSkipped:
			snapshot.Skipped = count
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate counts: %w", rowsErr)
	}

	return snapshot, nil
}

// ClaimNextPending atomically marks the oldest pending keyword as
// processing and returns it. Returns ErrNoPending when nothing is
// waiting.
func (r *KeywordRepository) ClaimNextPending(ctx context.Context) (*models.Keyword, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var kw models.Keyword
	err = tx.QueryRowContext(ctx, `
		SELECT id, text, city, status, updated_at FROM keywords
		WHERE status = ? ORDER BY rowid LIMIT 1
	`, string(models.StatusPending)).Scan(&kw.ID, &kw.Text, &kw.City, &kw.Status, &kw.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoPending
	}
	if err != nil {
		return nil, fmt.Errorf("select pending: %w", err)
	}

	kw.Status = models.StatusProcessing
	kw.UpdatedAt = time.Now().UTC()
	if _, updErr := tx.ExecContext(ctx,
		"UPDATE keywords SET status = ?, updated_at = ? WHERE id = ?",
		string(kw.Status), kw.UpdatedAt, kw.ID,
	); updErr != nil {
		return nil, fmt.Errorf("claim keyword: %w", updErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return nil, fmt.Errorf("commit claim: %w", commitErr)
	}

	return &kw, nil
}

// SetStatus applies a lifecycle transition to one record, enforcing the
// contract's transition rules.
func (r *KeywordRepository) SetStatus(ctx context.Context, id string, to models.KeywordStatus) error {
	var current models.KeywordStatus
	err := r.db.QueryRowContext(ctx,
		"SELECT status FROM keywords WHERE id = ?", id,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("keyword %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("load keyword status: %w", err)
	}

	if valErr := models.ValidateKeywordTransition(current, to); valErr != nil {
		return valErr
	}

	if _, updErr := r.db.ExecContext(ctx,
		"UPDATE keywords SET status = ?, updated_at = ? WHERE id = ?",
		string(to), time.Now().UTC(), id,
	); updErr != nil {
		return fmt.Errorf("update keyword status: %w", updErr)
	}

	return nil
}
