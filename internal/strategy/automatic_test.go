package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/internal/models"
	"github.com/assessai/scoring-api/pkg/textstat"
)

func scoringRequest(content string) dto.ScoringRequest {
	return dto.ScoringRequest{
		SubmissionID: 1,
		ExamID:       2,
		StudentID:    3,
		Content:      content,
	}
}

func TestAutomaticKnownValue(t *testing.T) {
	// 10 words (1.0), no paragraph break (2.5), one period (0.5),
	// 10 distinct words (2.0).
	content := "un deux trois quatre cinq six sept huit neuf dix."

	score, err := NewAutomatic().Process(scoringRequest(content))
	require.NoError(t, err)
	require.Equal(t, 6.0, score.TotalScore)
	require.Equal(t, 30.0, score.PercentageScore)
	require.Equal(t, 20.0, score.MaxScore)
	require.Equal(t, models.ScoreStatusCompleted, score.Status)
	require.Equal(t, "AUTOMATIC", score.Algorithm)
}

func TestAutomaticEmptyContentScoresZero(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t "} {
		score, err := NewAutomatic().Process(scoringRequest(content))
		require.NoError(t, err)
		require.Equal(t, 0.0, score.TotalScore)
		require.Equal(t, 0.0, score.PercentageScore)
		require.Equal(t, models.ScoreStatusCompleted, score.Status)
	}
}

func TestAutomaticParagraphBreakAddsStructurePoints(t *testing.T) {
	base := "quelques mots sans structure particulière"
	withBreak := base + "\n\nsecond paragraphe"

	flat, err := NewAutomatic().Process(scoringRequest(base))
	require.NoError(t, err)
	structured, err := NewAutomatic().Process(scoringRequest(withBreak))
	require.NoError(t, err)

	// The appended paragraph also adds words, so only assert the
	// structured text scores strictly higher.
	require.Greater(t, structured.TotalScore, flat.TotalScore)
}

func TestAutomaticDeterministic(t *testing.T) {
	content := "Ceci est un exemple. Il contient une analyse et une conclusion."

	first, err := NewAutomatic().Process(scoringRequest(content))
	require.NoError(t, err)
	second, err := NewAutomatic().Process(scoringRequest(content))
	require.NoError(t, err)

	require.Equal(t, first.TotalScore, second.TotalScore)
	require.Equal(t, first.PercentageScore, second.PercentageScore)
}

func TestAutomaticBoundsAndPercentage(t *testing.T) {
	contents := []string{
		"court",
		"Un texte. Avec plusieurs. Phrases! Et encore? Une de plus. Finale.",
		"beaucoup de mots divers et variés pour pousser la diversité lexicale au maximum possible dans ce test de bornes supérieures du score automatique calculé ici",
	}

	for _, content := range contents {
		score, err := NewAutomatic().Process(scoringRequest(content))
		require.NoError(t, err)
		require.GreaterOrEqual(t, score.TotalScore, 0.0)
		require.LessOrEqual(t, score.TotalScore, score.MaxScore)
		require.Equal(t, textstat.Round2(score.TotalScore/score.MaxScore*100), score.PercentageScore)
	}
}

func TestAutomaticSupportsIsCaseInsensitive(t *testing.T) {
	s := NewAutomatic()
	require.True(t, s.Supports("automatic"))
	require.True(t, s.Supports("Automatic"))
	require.False(t, s.Supports("KEYWORD_BASED"))
}
