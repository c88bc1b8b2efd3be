package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/pkg/textstat"
)

const evaluationMaxScore = 20.0

// EvaluationService gives a quick, stateless estimate of an answer's
// quality without persisting anything.
type EvaluationService interface {
	Evaluate(ctx context.Context, request dto.EvaluationRequest) (dto.EvaluationResponse, error)
}

type evaluationService struct {
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEvaluationService constructs the quick evaluation service.
func NewEvaluationService(validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		validator: validate,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
	}
}

// Evaluate scores the student text on length, blended with its word overlap
// against the reference text when one is provided.
func (s *evaluationService) Evaluate(ctx context.Context, request dto.EvaluationRequest) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(request); err != nil {
		return dto.EvaluationResponse{}, err
	}

	base := float64(len([]rune(request.StudentText))) / 10.0
	if base > evaluationMaxScore {
		base = evaluationMaxScore
	}

	score := base
	if strings.TrimSpace(request.ReferenceText) != "" {
		similarity := textstat.OverlapSimilarity(strings.ToLower(request.ReferenceText), strings.ToLower(request.StudentText))
		score = base*0.5 + similarity*evaluationMaxScore*0.5
	}
	score = textstat.Round2(score)

	response := dto.EvaluationResponse{
		Score:      score,
		MaxScore:   evaluationMaxScore,
		Percentage: textstat.Round2(score / evaluationMaxScore * 100),
		Feedback:   evaluationFeedback(score),
	}

	s.logger.Debug().Float64("score", score).Msg("quick evaluation computed")

	return response, nil
}

func evaluationFeedback(score float64) string {
	switch {
	case score < 10:
		return "Le texte est trop court ou manque de substance. Développez davantage votre réponse."
	case score < 15:
		return "Bon effort. La réponse peut encore être enrichie avec plus de détails."
	default:
		return "Excellent travail. La réponse est complète et bien développée."
	}
}
