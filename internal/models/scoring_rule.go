package models

import "time"

// ScoringRule describes a grading criterion attached to an exam or a
// single question. Rules are reference data for correctors; the built-in
// strategies do not consult them.
type ScoringRule struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExamID     uint      `gorm:"not null;index" json:"exam_id"`
	QuestionID *uint     `gorm:"index" json:"question_id"`
	RuleName   string    `gorm:"size:128" json:"rule_name"`
	Criteria   string    `gorm:"type:text" json:"criteria"`
	Points     float64   `json:"points"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
