package service

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/assessai/scoring-api/internal/dto"
)

func newTestEvaluationService() EvaluationService {
	return NewEvaluationService(validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestEvaluateRequiresStudentText(t *testing.T) {
	svc := newTestEvaluationService()

	_, err := svc.Evaluate(context.Background(), dto.EvaluationRequest{})
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestEvaluateScoresOnLengthWithoutReference(t *testing.T) {
	svc := newTestEvaluationService()

	response, err := svc.Evaluate(context.Background(), dto.EvaluationRequest{StudentText: "court"})
	require.NoError(t, err)
	require.Equal(t, 0.5, response.Score)
	require.Equal(t, 20.0, response.MaxScore)
	require.Equal(t, 2.5, response.Percentage)
	require.Contains(t, response.Feedback, "trop court")
}

func TestEvaluateCapsLengthScore(t *testing.T) {
	svc := newTestEvaluationService()

	response, err := svc.Evaluate(context.Background(), dto.EvaluationRequest{
		StudentText: strings.Repeat("a", 500),
	})
	require.NoError(t, err)
	require.Equal(t, 20.0, response.Score)
	require.Equal(t, 100.0, response.Percentage)
	require.Contains(t, response.Feedback, "Excellent")
}

func TestEvaluateBlendsSimilarityWithReference(t *testing.T) {
	svc := newTestEvaluationService()

	// 13 runes of student text give a base of 1.3; three of the four
	// reference words overlap, so similarity is 0.75.
	response, err := svc.Evaluate(context.Background(), dto.EvaluationRequest{
		StudentText:   "le chat mange",
		ReferenceText: "le chat mange bien",
	})
	require.NoError(t, err)
	require.Equal(t, 8.15, response.Score)
	require.Equal(t, 40.75, response.Percentage)
}

func TestEvaluateSimilarityIsCaseInsensitive(t *testing.T) {
	svc := newTestEvaluationService()

	lower, err := svc.Evaluate(context.Background(), dto.EvaluationRequest{
		StudentText:   "le chat mange",
		ReferenceText: "le chat mange bien",
	})
	require.NoError(t, err)

	upper, err := svc.Evaluate(context.Background(), dto.EvaluationRequest{
		StudentText:   "LE CHAT MANGE",
		ReferenceText: "le chat mange bien",
	})
	require.NoError(t, err)
	require.Equal(t, lower.Score, upper.Score)
}
