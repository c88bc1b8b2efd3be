package dto

// EvaluationRequest asks for a quick, stateless evaluation of a student
// text against an optional reference text.
type EvaluationRequest struct {
	StudentText   string `json:"student_text" validate:"required"`
	ReferenceText string `json:"reference_text"`
}

// EvaluationResponse carries the computed evaluation. Nothing is persisted.
type EvaluationResponse struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage float64 `json:"percentage"`
	Feedback   string  `json:"feedback"`
}
