package correction

import "github.com/paddockvision/paddock-backend/internal/domain"

// PersistOutcome is the explicit result of the persistence step of a
// submission. Degraded (no durable records) is a normal, observable mode,
// not a swallowed exception: submission continues, but there is nothing to
// mark failed if the trigger call later fails.
type PersistOutcome struct {
	Records        []*domain.Correction
	DegradedReason string
}

// Persisted reports whether durable records were written.
func (o PersistOutcome) Persisted() bool {
	return o.DegradedReason == "" && len(o.Records) > 0
}

func persisted(records []*domain.Correction) PersistOutcome {
	return PersistOutcome{Records: records}
}

func degraded(reason string) PersistOutcome {
	return PersistOutcome{DegradedReason: reason}
}
