package domain

import (
	"time"

	"github.com/google/uuid"
)

// CorrectionPayload is the submitted unit of work: one user edit to a single
// detection within a chunk. The Corrected* fields are conditionally required
// depending on CorrectionType; see the service-level validator.
type CorrectionPayload struct {
	DetectionIndex     int            `json:"detection_index"`
	FrameIndex         int            `json:"frame_index"`
	CorrectionType     CorrectionType `json:"correction_type"`
	OriginalHorseID    string         `json:"original_horse_id"`
	CorrectedHorseID   string         `json:"corrected_horse_id,omitempty"`
	CorrectedHorseName string         `json:"corrected_horse_name,omitempty"`
}

// PendingCorrection is a client-side queue entry: a payload that has been
// confirmed in the UI but not yet submitted. It lives only in the local
// correction queue and is dropped on submission.
type PendingCorrection struct {
	ID        uuid.UUID         `json:"id"`
	ChunkID   string            `json:"chunk_id"`
	Payload   CorrectionPayload `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
}

// Correction is the durable record created by the submission orchestrator.
// Status transitions: pending -> applied (by the re-processing job) or
// pending -> failed (trigger failure, with FailureReason set).
type Correction struct {
	ID                 uuid.UUID        `json:"id"`
	ChunkID            string           `json:"chunk_id"`
	UserID             uuid.UUID        `json:"user_id"`
	DetectionIndex     int              `json:"detection_index"`
	FrameIndex         int              `json:"frame_index"`
	CorrectionType     CorrectionType   `json:"correction_type"`
	OriginalHorseID    string           `json:"original_horse_id"`
	CorrectedHorseID   *string          `json:"corrected_horse_id,omitempty"`
	CorrectedHorseName *string          `json:"corrected_horse_name,omitempty"`
	Status             CorrectionStatus `json:"status"`
	FailureReason      *string          `json:"failure_reason,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

// Payload reconstructs the submitted payload from a persisted record.
func (c Correction) Payload() CorrectionPayload {
	p := CorrectionPayload{
		DetectionIndex:  c.DetectionIndex,
		FrameIndex:      c.FrameIndex,
		CorrectionType:  c.CorrectionType,
		OriginalHorseID: c.OriginalHorseID,
	}
	if c.CorrectedHorseID != nil {
		p.CorrectedHorseID = *c.CorrectedHorseID
	}
	if c.CorrectedHorseName != nil {
		p.CorrectedHorseName = *c.CorrectedHorseName
	}
	return p
}
