// Package correction implements the correction submission orchestrator and
// the re-processing status tracker.
package correction

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/paddockvision/paddock-backend/internal/adapter/rediscache"
	"github.com/paddockvision/paddock-backend/internal/domain"
)

// Repo is the persistence capability. It may be absent (nil) at runtime:
// the service then runs in degraded mode and callers branch on
// PersistenceAvailable instead of probing for errors.
type Repo interface {
	CreateBatch(ctx context.Context, corrections []*domain.Correction) error
	ListByChunk(ctx context.Context, chunkID string) ([]domain.Correction, error)
	CountByChunk(ctx context.Context, chunkID string) (int, error)
	CountPendingByChunk(ctx context.Context, chunkID string) (int, error)
	MarkFailed(ctx context.Context, ids []uuid.UUID, reason string) (int, error)
	DeletePending(ctx context.Context, chunkID string) (int, error)
}

// StateReader reads re-processing state written by the external ML job.
type StateReader interface {
	GetReprocessingState(ctx context.Context, chunkID string) (*rediscache.ReprocessingState, error)
}

// Trigger starts a re-processing job on the external ML service.
type Trigger interface {
	TriggerReprocess(ctx context.Context, chunkID string, corrections []domain.CorrectionPayload) error
}

// HorseLookup resolves horse identifiers against the registry. Optional:
// when absent, the target-existence validation rule is skipped.
type HorseLookup interface {
	HorseExists(ctx context.Context, horseID string) (bool, error)
}

// Service orchestrates correction submission and tracks re-processing status.
type Service struct {
	repo    Repo
	cache   StateReader
	trigger Trigger
	horses  HorseLookup
	log     *slog.Logger
}

// NewService creates the correction service. repo and horses may be nil;
// cache and trigger are required.
func NewService(
	log *slog.Logger,
	repo Repo,
	cache StateReader,
	trigger Trigger,
	horses HorseLookup,
) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		trigger: trigger,
		horses:  horses,
		log:     log.With("service", "correction"),
	}
}

// PersistenceAvailable reports whether durable correction records can be
// written. False means the service runs in degraded, in-memory-only mode.
func (s *Service) PersistenceAvailable() bool {
	return s.repo != nil
}
