package correction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paddockvision/paddock-backend/internal/domain"
)

// SubmitResult is returned to the caller on successful submission. The
// reprocessing URL is polled by the client until a terminal status.
type SubmitResult struct {
	Message          string `json:"message"`
	ReprocessingURL  string `json:"reprocessing_url"`
	CorrectionsCount int    `json:"corrections_count"`
	ChunkID          string `json:"chunk_id"`
}

// Submit validates a correction batch, persists it best-effort, and triggers
// the external re-processing job exactly once.
//
// The structural pre-check is atomic over the batch: a single bad payload
// rejects the whole submission before any write. Persistence failures do not
// abort submission (degraded mode); trigger failures do, and flip any
// records written in this call to status=failed.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	for i, p := range input.Corrections {
		if err := validateStructural(p); err != nil {
			return nil, fmt.Errorf("invalid correction at index %d: %w", i, err)
		}
	}

	outcome := s.persistBatch(ctx, input)
	if !outcome.Persisted() {
		s.log.WarnContext(ctx, "submitting without durable records",
			slog.String("chunk_id", input.ChunkID),
			slog.String("reason", outcome.DegradedReason),
		)
	}

	if err := s.trigger.TriggerReprocess(ctx, input.ChunkID, input.Corrections); err != nil {
		s.failPersisted(ctx, outcome, err)
		return nil, fmt.Errorf("submit corrections for chunk %s: %w", input.ChunkID, err)
	}

	s.log.InfoContext(ctx, "corrections submitted",
		slog.String("stream_id", input.StreamID),
		slog.String("chunk_id", input.ChunkID),
		slog.String("user_id", input.UserID.String()),
		slog.Int("count", len(input.Corrections)),
		slog.Bool("persisted", outcome.Persisted()),
	)

	return &SubmitResult{
		Message:          "Corrections accepted for re-processing",
		ReprocessingURL:  fmt.Sprintf("/streams/%s/chunks/%s/corrections/status", input.StreamID, input.ChunkID),
		CorrectionsCount: len(input.Corrections),
		ChunkID:          input.ChunkID,
	}, nil
}

// persistBatch writes durable records for every payload, or reports why it
// could not. Both "no backend configured" and "insert failed" degrade.
func (s *Service) persistBatch(ctx context.Context, input SubmitInput) PersistOutcome {
	if s.repo == nil {
		return degraded("database not configured")
	}

	now := time.Now().UTC()
	records := make([]*domain.Correction, len(input.Corrections))
	for i, p := range input.Corrections {
		records[i] = &domain.Correction{
			ID:              uuid.New(),
			ChunkID:         input.ChunkID,
			UserID:          input.UserID,
			DetectionIndex:  p.DetectionIndex,
			FrameIndex:      p.FrameIndex,
			CorrectionType:  p.CorrectionType,
			OriginalHorseID: p.OriginalHorseID,
			Status:          domain.CorrectionStatusPending,
			CreatedAt:       now,
		}
		if p.CorrectedHorseID != "" {
			id := p.CorrectedHorseID
			records[i].CorrectedHorseID = &id
		}
		if p.CorrectedHorseName != "" {
			name := p.CorrectedHorseName
			records[i].CorrectedHorseName = &name
		}
	}

	if err := s.repo.CreateBatch(ctx, records); err != nil {
		s.log.ErrorContext(ctx, "persist corrections failed",
			slog.String("chunk_id", input.ChunkID),
			slog.String("error", err.Error()),
		)
		return degraded(fmt.Sprintf("persist failed: %v", err))
	}

	return persisted(records)
}

// failPersisted marks every record created in this submission as failed,
// embedding the trigger failure detail. Nothing to do in degraded mode.
func (s *Service) failPersisted(ctx context.Context, outcome PersistOutcome, cause error) {
	if !outcome.Persisted() {
		return
	}

	ids := make([]uuid.UUID, len(outcome.Records))
	for i, r := range outcome.Records {
		ids[i] = r.ID
	}

	n, err := s.repo.MarkFailed(ctx, ids, cause.Error())
	if err != nil {
		s.log.ErrorContext(ctx, "mark corrections failed errored",
			slog.Int("records", len(ids)),
			slog.String("error", err.Error()),
		)
		return
	}

	s.log.InfoContext(ctx, "corrections marked failed after trigger failure",
		slog.Int("updated", n),
		slog.String("cause", cause.Error()),
	)
}
