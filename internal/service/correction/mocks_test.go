package correction

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/paddockvision/paddock-backend/internal/adapter/rediscache"
	"github.com/paddockvision/paddock-backend/internal/domain"
)

var _ Repo = &repoMock{}

type repoMock struct {
	mu sync.Mutex

	CreateBatchFunc         func(ctx context.Context, corrections []*domain.Correction) error
	ListByChunkFunc         func(ctx context.Context, chunkID string) ([]domain.Correction, error)
	CountByChunkFunc        func(ctx context.Context, chunkID string) (int, error)
	CountPendingByChunkFunc func(ctx context.Context, chunkID string) (int, error)
	MarkFailedFunc          func(ctx context.Context, ids []uuid.UUID, reason string) (int, error)
	DeletePendingFunc       func(ctx context.Context, chunkID string) (int, error)

	createBatchCalls   [][]*domain.Correction
	markFailedCalls    []markFailedCall
	deletePendingCalls []string
}

type markFailedCall struct {
	IDs    []uuid.UUID
	Reason string
}

func (m *repoMock) CreateBatch(ctx context.Context, corrections []*domain.Correction) error {
	m.mu.Lock()
	m.createBatchCalls = append(m.createBatchCalls, corrections)
	m.mu.Unlock()
	if m.CreateBatchFunc == nil {
		return nil
	}
	return m.CreateBatchFunc(ctx, corrections)
}

func (m *repoMock) ListByChunk(ctx context.Context, chunkID string) ([]domain.Correction, error) {
	if m.ListByChunkFunc == nil {
		return []domain.Correction{}, nil
	}
	return m.ListByChunkFunc(ctx, chunkID)
}

func (m *repoMock) CountByChunk(ctx context.Context, chunkID string) (int, error) {
	if m.CountByChunkFunc == nil {
		return 0, nil
	}
	return m.CountByChunkFunc(ctx, chunkID)
}

func (m *repoMock) CountPendingByChunk(ctx context.Context, chunkID string) (int, error) {
	if m.CountPendingByChunkFunc == nil {
		return 0, nil
	}
	return m.CountPendingByChunkFunc(ctx, chunkID)
}

func (m *repoMock) MarkFailed(ctx context.Context, ids []uuid.UUID, reason string) (int, error) {
	m.mu.Lock()
	m.markFailedCalls = append(m.markFailedCalls, markFailedCall{IDs: ids, Reason: reason})
	m.mu.Unlock()
	if m.MarkFailedFunc == nil {
		return len(ids), nil
	}
	return m.MarkFailedFunc(ctx, ids, reason)
}

func (m *repoMock) DeletePending(ctx context.Context, chunkID string) (int, error) {
	m.mu.Lock()
	m.deletePendingCalls = append(m.deletePendingCalls, chunkID)
	m.mu.Unlock()
	if m.DeletePendingFunc == nil {
		return 0, nil
	}
	return m.DeletePendingFunc(ctx, chunkID)
}

var _ Trigger = &triggerMock{}

type triggerMock struct {
	mu sync.Mutex

	TriggerReprocessFunc func(ctx context.Context, chunkID string, corrections []domain.CorrectionPayload) error

	calls []triggerCall
}

type triggerCall struct {
	ChunkID     string
	Corrections []domain.CorrectionPayload
}

func (m *triggerMock) TriggerReprocess(ctx context.Context, chunkID string, corrections []domain.CorrectionPayload) error {
	m.mu.Lock()
	m.calls = append(m.calls, triggerCall{ChunkID: chunkID, Corrections: corrections})
	m.mu.Unlock()
	if m.TriggerReprocessFunc == nil {
		return nil
	}
	return m.TriggerReprocessFunc(ctx, chunkID, corrections)
}

var _ StateReader = &cacheMock{}

type cacheMock struct {
	GetReprocessingStateFunc func(ctx context.Context, chunkID string) (*rediscache.ReprocessingState, error)
}

func (m *cacheMock) GetReprocessingState(ctx context.Context, chunkID string) (*rediscache.ReprocessingState, error) {
	if m.GetReprocessingStateFunc == nil {
		return nil, nil
	}
	return m.GetReprocessingStateFunc(ctx, chunkID)
}

var _ HorseLookup = &horsesMock{}

type horsesMock struct {
	HorseExistsFunc func(ctx context.Context, horseID string) (bool, error)
}

func (m *horsesMock) HorseExists(ctx context.Context, horseID string) (bool, error) {
	if m.HorseExistsFunc == nil {
		return true, nil
	}
	return m.HorseExistsFunc(ctx, horseID)
}

// newTestService wires a Service with the given fakes; nil repo/horses model
// the degraded and lookup-less configurations.
func newTestService(t *testing.T, repo Repo, cache StateReader, trigger Trigger, horses HorseLookup) *Service {
	t.Helper()
	return NewService(slog.Default(), repo, cache, trigger, horses)
}
