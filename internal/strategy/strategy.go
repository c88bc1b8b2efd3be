// Package strategy implements the pluggable grading algorithms and the
// registry that resolves them by name.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/internal/models"
	"github.com/assessai/scoring-api/pkg/textstat"
)

// DefaultAlgorithm is used when a request does not name one.
const DefaultAlgorithm = "AUTOMATIC"

// DefaultMaxScore is the grading scale shared by the built-in strategies.
const DefaultMaxScore = 20.0

// ErrUnknownAlgorithm indicates the requested algorithm has no registered
// strategy. This is a configuration failure and is never retried.
var ErrUnknownAlgorithm = errors.New("no strategy registered for algorithm")

// Strategy computes a draft score for a scoring request. Implementations
// are pure: they never touch storage, never mutate shared state, and are
// safe for concurrent use.
type Strategy interface {
	Name() string
	Supports(algorithm string) bool
	Process(request dto.ScoringRequest) (models.Score, error)
}

// Registry holds the fixed strategy set built once at process start.
type Registry struct {
	strategies []Strategy
}

// NewRegistry builds a registry over the given strategies. With no
// arguments it registers the built-in variants.
func NewRegistry(strategies ...Strategy) *Registry {
	if len(strategies) == 0 {
		strategies = []Strategy{NewAutomatic(), NewKeywordBased()}
	}

	return &Registry{strategies: strategies}
}

// Resolve returns the strategy supporting the given algorithm name,
// comparing case-insensitively. A blank name falls back to DefaultAlgorithm.
func (r *Registry) Resolve(algorithm string) (Strategy, error) {
	name := strings.TrimSpace(algorithm)
	if name == "" {
		name = DefaultAlgorithm
	}

	for _, strategy := range r.strategies {
		if strategy.Supports(name) {
			return strategy, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
}

// newDraft assembles a completed draft score on the default 0-20 scale.
func newDraft(request dto.ScoringRequest, algorithm string, total float64, details string) models.Score {
	total = textstat.Round2(total)

	return models.Score{
		SubmissionID:    request.SubmissionID,
		ExamID:          request.ExamID,
		StudentID:       request.StudentID,
		TotalScore:      total,
		MaxScore:        DefaultMaxScore,
		PercentageScore: textstat.Round2(total / DefaultMaxScore * 100),
		Status:          models.ScoreStatusCompleted,
		GradingDetails:  details,
		CorrectorID:     request.CorrectorID,
		Algorithm:       algorithm,
	}
}
