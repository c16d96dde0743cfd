package correction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paddockvision/paddock-backend/internal/adapter/rediscache"
	"github.com/paddockvision/paddock-backend/internal/domain"
)

// GetStatus returns the re-processing status view for a chunk.
//
// Read path: cache first (populated by the external ML job while it runs),
// then database-derived counts. Cache failures are logged and never surfaced;
// the view degrades rather than erroring. The result is a reconstruction,
// not a durable source of truth: between the job's final cache write and the
// database catching up, last write wins.
func (s *Service) GetStatus(ctx context.Context, chunkID string) (domain.ReprocessingProgress, error) {
	if s.cache != nil {
		state, err := s.cache.GetReprocessingState(ctx, chunkID)
		switch {
		case err != nil:
			s.log.WarnContext(ctx, "cache read failed, falling back to database",
				slog.String("chunk_id", chunkID),
				slog.String("error", err.Error()),
			)
		case state != nil:
			return fromCachedState(chunkID, state), nil
		}
	}

	return s.statusFromCounts(ctx, chunkID), nil
}

// fromCachedState maps a live cache entry to the status view. A job that is
// writing state but omitted a field gets running/0/"Processing..." defaults.
func fromCachedState(chunkID string, state *rediscache.ReprocessingState) domain.ReprocessingProgress {
	progress := domain.ReprocessingProgress{
		ChunkID:     chunkID,
		Status:      domain.ReprocessingStatusRunning,
		CurrentStep: "Processing...",
		Error:       state.Error,
		StartedAt:   state.StartedAt,
		CompletedAt: state.CompletedAt,
	}

	if state.Status != "" {
		progress.Status = domain.ReprocessingStatus(state.Status)
	}
	if state.Progress != nil {
		progress.Progress = *state.Progress
	}
	if state.Step != "" {
		progress.CurrentStep = state.Step
	}

	return progress
}

// statusFromCounts approximates terminal state from correction counts when
// no live cache entry exists (before the job starts writing, or after a
// restart). Database errors degrade to the idle view.
func (s *Service) statusFromCounts(ctx context.Context, chunkID string) domain.ReprocessingProgress {
	idle := domain.ReprocessingProgress{
		ChunkID:     chunkID,
		Status:      domain.ReprocessingStatusIdle,
		Progress:    0,
		CurrentStep: "No corrections applied",
	}

	if s.repo == nil {
		return idle
	}

	pending, err := s.repo.CountPendingByChunk(ctx, chunkID)
	if err != nil {
		s.log.WarnContext(ctx, "pending count failed, reporting idle",
			slog.String("chunk_id", chunkID),
			slog.String("error", err.Error()),
		)
		return idle
	}

	if pending > 0 {
		return domain.ReprocessingProgress{
			ChunkID:     chunkID,
			Status:      domain.ReprocessingStatusPending,
			Progress:    0,
			CurrentStep: "Waiting to start...",
		}
	}

	total, err := s.repo.CountByChunk(ctx, chunkID)
	if err != nil {
		s.log.WarnContext(ctx, "total count failed, reporting idle",
			slog.String("chunk_id", chunkID),
			slog.String("error", err.Error()),
		)
		return idle
	}

	if total > 0 {
		return domain.ReprocessingProgress{
			ChunkID:     chunkID,
			Status:      domain.ReprocessingStatusCompleted,
			Progress:    100,
			CurrentStep: "Completed",
		}
	}

	return idle
}

// CancelPendingCorrections deletes pending corrections for a chunk and
// returns the deleted count. Unlike reads, this hard-fails without a
// persistence backend.
func (s *Service) CancelPendingCorrections(ctx context.Context, chunkID string) (int, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("database not available: %w", domain.ErrUnavailable)
	}

	deleted, err := s.repo.DeletePending(ctx, chunkID)
	if err != nil {
		return 0, fmt.Errorf("cancel pending corrections for chunk %s: %w", chunkID, err)
	}

	s.log.InfoContext(ctx, "pending corrections cancelled",
		slog.String("chunk_id", chunkID),
		slog.Int("deleted_count", deleted),
	)

	return deleted, nil
}

// ListCorrections returns the correction history for a chunk. Without a
// persistence backend the history is simply empty, not an error.
func (s *Service) ListCorrections(ctx context.Context, chunkID string) ([]domain.Correction, error) {
	if s.repo == nil {
		s.log.DebugContext(ctx, "no database configured, returning empty history",
			slog.String("chunk_id", chunkID),
		)
		return []domain.Correction{}, nil
	}

	corrections, err := s.repo.ListByChunk(ctx, chunkID)
	if err != nil {
		return nil, fmt.Errorf("list corrections for chunk %s: %w", chunkID, err)
	}

	return corrections, nil
}
