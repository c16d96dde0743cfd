package domain

// CorrectionType represents the kind of edit a user made to a detection.
type CorrectionType string

const (
	CorrectionTypeReassign      CorrectionType = "reassign"
	CorrectionTypeNewGuest      CorrectionType = "new_guest"
	CorrectionTypeMarkIncorrect CorrectionType = "mark_incorrect"
)

func (t CorrectionType) String() string { return string(t) }

func (t CorrectionType) IsValid() bool {
	switch t {
	case CorrectionTypeReassign, CorrectionTypeNewGuest, CorrectionTypeMarkIncorrect:
		return true
	}
	return false
}

// CorrectionStatus represents the lifecycle state of a persisted correction.
type CorrectionStatus string

const (
	CorrectionStatusPending CorrectionStatus = "pending"
	CorrectionStatusApplied CorrectionStatus = "applied"
	CorrectionStatusFailed  CorrectionStatus = "failed"
)

func (s CorrectionStatus) String() string { return string(s) }

func (s CorrectionStatus) IsValid() bool {
	switch s {
	case CorrectionStatusPending, CorrectionStatusApplied, CorrectionStatusFailed:
		return true
	}
	return false
}

// ReprocessingStatus represents the state of an external re-processing job
// for a chunk.
type ReprocessingStatus string

const (
	ReprocessingStatusIdle      ReprocessingStatus = "idle"
	ReprocessingStatusPending   ReprocessingStatus = "pending"
	ReprocessingStatusRunning   ReprocessingStatus = "running"
	ReprocessingStatusCompleted ReprocessingStatus = "completed"
	ReprocessingStatusFailed    ReprocessingStatus = "failed"
)

func (s ReprocessingStatus) String() string { return string(s) }

func (s ReprocessingStatus) IsValid() bool {
	switch s {
	case ReprocessingStatusIdle, ReprocessingStatusPending, ReprocessingStatusRunning,
		ReprocessingStatusCompleted, ReprocessingStatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends a re-processing run.
// Polling clients stop on terminal statuses.
func (s ReprocessingStatus) IsTerminal() bool {
	return s == ReprocessingStatusCompleted || s == ReprocessingStatusFailed
}
