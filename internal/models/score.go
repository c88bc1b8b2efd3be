package models

import "time"

// Score lifecycle statuses. Transitions are forward only: a score moves
// PENDING -> IN_PROGRESS -> COMPLETED, or into FAILED when a strategy
// errors out. COMPLETED and FAILED are terminal.
const (
	ScoreStatusPending    = "PENDING"
	ScoreStatusInProgress = "IN_PROGRESS"
	ScoreStatusCompleted  = "COMPLETED"
	ScoreStatusFailed     = "FAILED"
)

var statusRank = map[string]int{
	ScoreStatusPending:    0,
	ScoreStatusInProgress: 1,
	ScoreStatusCompleted:  2,
	ScoreStatusFailed:     2,
}

// ValidScoreStatus reports whether the given value is a known score status.
func ValidScoreStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}

// Score is the authoritative grading record for one submission. The unique
// index on SubmissionID guarantees at most one row per submission and is
// what makes concurrent duplicate deliveries safe.
type Score struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SubmissionID    uint      `gorm:"not null;uniqueIndex" json:"submission_id"`
	ExamID          uint      `gorm:"not null;index" json:"exam_id"`
	StudentID       uint      `gorm:"not null;index" json:"student_id"`
	TotalScore      float64   `json:"total_score"`
	MaxScore        float64   `gorm:"not null" json:"max_score"`
	PercentageScore float64   `json:"percentage_score"`
	Status          string    `gorm:"size:32;not null;index" json:"status"`
	GradingDetails  string    `gorm:"type:text" json:"grading_details"`
	CorrectorID     *uint     `json:"corrector_id"`
	Algorithm       string    `gorm:"size:64" json:"algorithm"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsCompleted reports whether the score reached its final graded state.
func (s Score) IsCompleted() bool {
	return s.Status == ScoreStatusCompleted
}

// CanTransition reports whether the score may move to the next status.
// Staying on the current status is always allowed so repeated updates
// remain idempotent.
func (s Score) CanTransition(next string) bool {
	if !ValidScoreStatus(next) {
		return false
	}
	if s.Status == next {
		return true
	}
	return statusRank[next] > statusRank[s.Status]
}
