package models

import (
	"time"

	"gorm.io/datatypes"
)

// GradingResult is an audit row recording one grading event against a
// score. It is owned by exactly one Score and cannot outlive it.
type GradingResult struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	ScoreID         uint              `gorm:"not null;index" json:"score_id"`
	QuestionID      *uint             `gorm:"index" json:"question_id"`
	PointsEarned    float64           `json:"points_earned"`
	PointsPossible  float64           `json:"points_possible"`
	Feedback        string            `gorm:"type:text" json:"feedback"`
	Corrections     string            `gorm:"type:text" json:"corrections"`
	AutoGraded      bool              `json:"auto_graded"`
	GradedAt        time.Time         `json:"graded_at"`
	GradingMetadata datatypes.JSONMap `json:"grading_metadata"`
	Score           Score             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
