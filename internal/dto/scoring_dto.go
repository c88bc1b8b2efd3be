package dto

import (
	"strings"
	"time"

	"github.com/assessai/scoring-api/internal/models"
)

// ScoringRequest describes one submission to grade. Blank content is
// accepted and simply scores zero; the identifiers are mandatory.
type ScoringRequest struct {
	SubmissionID uint                   `json:"submission_id" validate:"required,gt=0"`
	ExamID       uint                   `json:"exam_id" validate:"required,gt=0"`
	StudentID    uint                   `json:"student_id" validate:"required,gt=0"`
	Content      string                 `json:"content"`
	Metadata     map[string]interface{} `json:"metadata"`
	Algorithm    string                 `json:"algorithm"`
	CorrectorID  *uint                  `json:"corrector_id"`
}

// Keywords extracts the expected keyword list from the request metadata.
// JSON decoding yields []interface{}, so both shapes are handled.
func (r ScoringRequest) Keywords() []string {
	raw, ok := r.Metadata["keywords"]
	if !ok {
		return nil
	}

	switch values := raw.(type) {
	case []string:
		return values
	case []interface{}:
		keywords := make([]string, 0, len(values))
		for _, value := range values {
			if keyword, ok := value.(string); ok && strings.TrimSpace(keyword) != "" {
				keywords = append(keywords, keyword)
			}
		}
		return keywords
	}

	return nil
}

// ScoreUpdateRequest applies a partial update to an existing score. Only
// non-nil fields are touched.
type ScoreUpdateRequest struct {
	TotalScore     *float64 `json:"total_score" validate:"omitempty,gte=0"`
	Status         *string  `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED FAILED"`
	GradingDetails *string  `json:"grading_details"`
	CorrectorID    *uint    `json:"corrector_id"`
}

// ScoreFilter narrows score listings.
type ScoreFilter struct {
	ExamID    *uint
	StudentID *uint
	Status    *string
}

// ScoreResponse is returned to API clients when viewing scores.
type ScoreResponse struct {
	ID              uint      `json:"id"`
	SubmissionID    uint      `json:"submission_id"`
	ExamID          uint      `json:"exam_id"`
	StudentID       uint      `json:"student_id"`
	TotalScore      float64   `json:"total_score"`
	MaxScore        float64   `json:"max_score"`
	PercentageScore float64   `json:"percentage_score"`
	Status          string    `json:"status"`
	GradingDetails  string    `json:"grading_details"`
	CorrectorID     *uint     `json:"corrector_id"`
	Algorithm       string    `json:"algorithm"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewScoreResponse converts a Score model into a DTO.
func NewScoreResponse(model models.Score) ScoreResponse {
	return ScoreResponse{
		ID:              model.ID,
		SubmissionID:    model.SubmissionID,
		ExamID:          model.ExamID,
		StudentID:       model.StudentID,
		TotalScore:      model.TotalScore,
		MaxScore:        model.MaxScore,
		PercentageScore: model.PercentageScore,
		Status:          model.Status,
		GradingDetails:  model.GradingDetails,
		CorrectorID:     model.CorrectorID,
		Algorithm:       model.Algorithm,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewScoreResponseSlice converts score models into DTOs.
func NewScoreResponseSlice(scores []models.Score) []ScoreResponse {
	responses := make([]ScoreResponse, 0, len(scores))
	for _, score := range scores {
		responses = append(responses, NewScoreResponse(score))
	}

	return responses
}

// GradingResultResponse serializes one grading audit row.
type GradingResultResponse struct {
	ID              uint                   `json:"id"`
	ScoreID         uint                   `json:"score_id"`
	QuestionID      *uint                  `json:"question_id"`
	PointsEarned    float64                `json:"points_earned"`
	PointsPossible  float64                `json:"points_possible"`
	Feedback        string                 `json:"feedback"`
	Corrections     string                 `json:"corrections"`
	AutoGraded      bool                   `json:"auto_graded"`
	GradedAt        time.Time              `json:"graded_at"`
	GradingMetadata map[string]interface{} `json:"grading_metadata"`
}

// NewGradingResultResponse converts a GradingResult model into a DTO.
func NewGradingResultResponse(model models.GradingResult) GradingResultResponse {
	return GradingResultResponse{
		ID:              model.ID,
		ScoreID:         model.ScoreID,
		QuestionID:      model.QuestionID,
		PointsEarned:    model.PointsEarned,
		PointsPossible:  model.PointsPossible,
		Feedback:        model.Feedback,
		Corrections:     model.Corrections,
		AutoGraded:      model.AutoGraded,
		GradedAt:        model.GradedAt,
		GradingMetadata: model.GradingMetadata,
	}
}

// NewGradingResultResponseSlice converts grading result models into DTOs.
func NewGradingResultResponseSlice(results []models.GradingResult) []GradingResultResponse {
	responses := make([]GradingResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewGradingResultResponse(result))
	}

	return responses
}

// ExamStatisticsResponse aggregates all scores recorded for one exam.
// Average covers completed scores only and is nil when none exist.
type ExamStatisticsResponse struct {
	ExamID  uint            `json:"exam_id"`
	Count   int64           `json:"count"`
	Average *float64        `json:"average"`
	Scores  []ScoreResponse `json:"scores"`
}

// ScoringRuleResponse serializes a scoring rule for correctors.
type ScoringRuleResponse struct {
	ID         uint      `json:"id"`
	ExamID     uint      `json:"exam_id"`
	QuestionID *uint     `json:"question_id"`
	RuleName   string    `json:"rule_name"`
	Criteria   string    `json:"criteria"`
	Points     float64   `json:"points"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewScoringRuleResponseSlice converts scoring rule models into DTOs.
func NewScoringRuleResponseSlice(rules []models.ScoringRule) []ScoringRuleResponse {
	responses := make([]ScoringRuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, ScoringRuleResponse{
			ID:         rule.ID,
			ExamID:     rule.ExamID,
			QuestionID: rule.QuestionID,
			RuleName:   rule.RuleName,
			Criteria:   rule.Criteria,
			Points:     rule.Points,
			IsActive:   rule.IsActive,
			CreatedAt:  rule.CreatedAt,
		})
	}

	return responses
}
