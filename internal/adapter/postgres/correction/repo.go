// Package correction implements the Correction repository using PostgreSQL.
// It persists user corrections per chunk and exposes the count queries the
// reprocessing status tracker falls back on when the cache has no entry.
package correction

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/paddockvision/paddock-backend/internal/adapter/postgres"
	"github.com/paddockvision/paddock-backend/internal/domain"
)

const table = "corrections"

var columns = []string{
	"id", "chunk_id", "user_id", "detection_index", "frame_index",
	"correction_type", "original_horse_id", "corrected_horse_id",
	"corrected_horse_name", "status", "failure_reason", "created_at",
}

// psql builds queries with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides correction persistence backed by PostgreSQL.
type Repo struct {
	db  postgres.Querier
	txm *postgres.TxManager
}

// New creates a new correction repository.
func New(db postgres.Querier, txm *postgres.TxManager) *Repo {
	return &Repo{db: db, txm: txm}
}

// rowCorrection is the scany row mapping for the corrections table.
type rowCorrection struct {
	ID                 uuid.UUID `db:"id"`
	ChunkID            string    `db:"chunk_id"`
	UserID             uuid.UUID `db:"user_id"`
	DetectionIndex     int       `db:"detection_index"`
	FrameIndex         int       `db:"frame_index"`
	CorrectionType     string    `db:"correction_type"`
	OriginalHorseID    string    `db:"original_horse_id"`
	CorrectedHorseID   *string   `db:"corrected_horse_id"`
	CorrectedHorseName *string   `db:"corrected_horse_name"`
	Status             string    `db:"status"`
	FailureReason      *string   `db:"failure_reason"`
	CreatedAt          time.Time `db:"created_at"`
}

func (r rowCorrection) toDomain() domain.Correction {
	return domain.Correction{
		ID:                 r.ID,
		ChunkID:            r.ChunkID,
		UserID:             r.UserID,
		DetectionIndex:     r.DetectionIndex,
		FrameIndex:         r.FrameIndex,
		CorrectionType:     domain.CorrectionType(r.CorrectionType),
		OriginalHorseID:    r.OriginalHorseID,
		CorrectedHorseID:   r.CorrectedHorseID,
		CorrectedHorseName: r.CorrectedHorseName,
		Status:             domain.CorrectionStatus(r.Status),
		FailureReason:      r.FailureReason,
		CreatedAt:          r.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// CreateBatch inserts all corrections in one transaction. The batch is
// all-or-nothing: a failure on any row rolls back the rest, so a partially
// persisted submission can never exist.
func (r *Repo) CreateBatch(ctx context.Context, corrections []*domain.Correction) error {
	if len(corrections) == 0 {
		return nil
	}

	return r.txm.RunInTx(ctx, func(txCtx context.Context) error {
		q := postgres.QuerierFromCtx(txCtx, r.db)

		for _, c := range corrections {
			sql, args, err := psql.Insert(table).
				Columns(columns...).
				Values(
					c.ID, c.ChunkID, c.UserID, c.DetectionIndex, c.FrameIndex,
					c.CorrectionType.String(), c.OriginalHorseID, c.CorrectedHorseID,
					c.CorrectedHorseName, c.Status.String(), c.FailureReason, c.CreatedAt,
				).
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert: %w", err)
			}

			if _, err := q.Exec(txCtx, sql, args...); err != nil {
				return postgres.MapError(err, "correction", c.ID.String())
			}
		}

		return nil
	})
}

// UpdateStatus sets the status (and optional failure reason) of one correction.
// Returns domain.ErrNotFound if the correction does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CorrectionStatus, reason *string) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Update(table).
		Set("status", status.String()).
		Set("failure_reason", reason).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "correction", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("correction %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// MarkFailed transitions the given corrections to status=failed with the
// supplied reason. Returns the number of rows updated.
func (r *Repo) MarkFailed(ctx context.Context, ids []uuid.UUID, reason string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Update(table).
		Set("status", domain.CorrectionStatusFailed.String()).
		Set("failure_reason", reason).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("mark corrections failed: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// DeletePending removes pending corrections for a chunk. Idempotent: deleting
// from a chunk with none is not an error. Returns the number of deleted rows.
func (r *Repo) DeletePending(ctx context.Context, chunkID string) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Delete(table).
		Where(sq.Eq{
			"chunk_id": chunkID,
			"status":   domain.CorrectionStatusPending.String(),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "correction", chunkID)
	}

	return int(tag.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByChunk returns the correction history for a chunk, oldest first.
// Returns an empty slice if the chunk has no corrections.
func (r *Repo) ListByChunk(ctx context.Context, chunkID string) ([]domain.Correction, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Select(columns...).
		From(table).
		Where(sq.Eq{"chunk_id": chunkID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "correction", chunkID)
	}

	var dbRows []rowCorrection
	if err := pgxscan.ScanAll(&dbRows, rows); err != nil {
		return nil, fmt.Errorf("scan corrections: %w", err)
	}

	corrections := make([]domain.Correction, len(dbRows))
	for i, row := range dbRows {
		corrections[i] = row.toDomain()
	}

	return corrections, nil
}

// CountByChunk returns the total number of corrections for a chunk.
func (r *Repo) CountByChunk(ctx context.Context, chunkID string) (int, error) {
	return r.count(ctx, sq.Eq{"chunk_id": chunkID})
}

// CountPendingByChunk returns the number of pending corrections for a chunk.
func (r *Repo) CountPendingByChunk(ctx context.Context, chunkID string) (int, error) {
	return r.count(ctx, sq.Eq{
		"chunk_id": chunkID,
		"status":   domain.CorrectionStatusPending.String(),
	})
}

func (r *Repo) count(ctx context.Context, where sq.Eq) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := psql.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := q.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count corrections: %w", err)
	}

	return count, nil
}
