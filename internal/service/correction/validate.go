package correction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paddockvision/paddock-backend/internal/domain"
)

// ValidationResult reports every violated rule for a payload, not just the
// first one.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate applies all correction rules independently and collects every
// violation. The horse-registry existence check only runs when a lookup
// capability is configured; a lookup transport failure downgrades to a
// warning instead of failing the payload.
func (s *Service) Validate(ctx context.Context, p domain.CorrectionPayload) ValidationResult {
	var errs []string

	switch p.CorrectionType {
	case domain.CorrectionTypeReassign:
		if p.CorrectedHorseID == "" {
			errs = append(errs, "Reassign correction requires corrected_horse_id")
		}
		// Runs even when the target id is missing: both errors can co-occur.
		if p.CorrectedHorseID == p.OriginalHorseID {
			errs = append(errs, "Cannot reassign detection to the same horse")
		}
		if p.CorrectedHorseID != "" && s.horses != nil {
			exists, err := s.horses.HorseExists(ctx, p.CorrectedHorseID)
			switch {
			case err != nil:
				s.log.WarnContext(ctx, "horse lookup unavailable, skipping existence check",
					slog.String("horse_id", p.CorrectedHorseID),
					slog.String("error", err.Error()),
				)
			case !exists:
				errs = append(errs, fmt.Sprintf("Target horse %s does not exist", p.CorrectedHorseID))
			}
		}

	case domain.CorrectionTypeNewGuest:
		if p.CorrectedHorseName == "" {
			errs = append(errs, "New guest correction requires corrected_horse_name")
		}

	case domain.CorrectionTypeMarkIncorrect:
		// No type-specific requirement beyond the index checks.

	default:
		errs = append(errs, fmt.Sprintf("Unknown correction type: %s", p.CorrectionType))
	}

	if p.DetectionIndex < 0 {
		errs = append(errs, "detection_index must be >= 0")
	}
	if p.FrameIndex < 0 {
		errs = append(errs, "frame_index must be >= 0")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// validateStructural is the lightweight pre-check the orchestrator runs over
// a whole batch: type known, per-type required fields present, indexes
// non-negative. First violation wins; no registry lookups happen here.
func validateStructural(p domain.CorrectionPayload) error {
	if !p.CorrectionType.IsValid() {
		return domain.NewValidationError("correction_type",
			fmt.Sprintf("must be one of reassign, new_guest, mark_incorrect (got %q)", p.CorrectionType))
	}
	if p.DetectionIndex < 0 {
		return domain.NewValidationError("detection_index", "must be >= 0")
	}
	if p.FrameIndex < 0 {
		return domain.NewValidationError("frame_index", "must be >= 0")
	}
	if p.CorrectionType == domain.CorrectionTypeReassign && p.CorrectedHorseID == "" {
		return domain.NewValidationError("corrected_horse_id", "required for reassign corrections")
	}
	if p.CorrectionType == domain.CorrectionTypeNewGuest && p.CorrectedHorseName == "" {
		return domain.NewValidationError("corrected_horse_name", "required for new_guest corrections")
	}
	return nil
}
