package domain

import "time"

// ReprocessingProgress is the status view for a chunk's re-processing run.
// It is not a durable source of truth: it is reconstructed from whichever
// backing store answers first (cache, else database-derived counts).
type ReprocessingProgress struct {
	ChunkID     string             `json:"chunk_id"`
	Status      ReprocessingStatus `json:"status"`
	Progress    int                `json:"progress"`
	CurrentStep string             `json:"current_step"`
	Error       *string            `json:"error,omitempty"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}
