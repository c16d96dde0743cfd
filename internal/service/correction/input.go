package correction

import (
	"github.com/google/uuid"

	"github.com/paddockvision/paddock-backend/internal/domain"
)

// SubmitInput holds the parameters for submitting a correction batch.
type SubmitInput struct {
	StreamID    string
	ChunkID     string
	UserID      uuid.UUID
	Corrections []domain.CorrectionPayload
}

// Validate checks the batch envelope and collects all errors.
// Per-payload rules are checked separately by the structural pre-check.
func (i SubmitInput) Validate() error {
	var errs []domain.FieldError

	if i.StreamID == "" {
		errs = append(errs, domain.FieldError{Field: "stream_id", Message: "required"})
	}
	if i.ChunkID == "" {
		errs = append(errs, domain.FieldError{Field: "chunk_id", Message: "required"})
	}
	if len(i.Corrections) == 0 {
		errs = append(errs, domain.FieldError{Field: "corrections", Message: "at least one correction is required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
