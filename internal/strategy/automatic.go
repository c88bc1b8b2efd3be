package strategy

import (
	"math"
	"strings"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/internal/models"
	"github.com/assessai/scoring-api/pkg/textstat"
)

type automatic struct{}

// NewAutomatic returns the heuristic strategy grading raw content on
// length, structure, punctuation and lexical diversity, each sub-score
// capped at 5 points for a 0-20 total.
func NewAutomatic() Strategy {
	return automatic{}
}

func (automatic) Name() string { return "AUTOMATIC" }

func (a automatic) Supports(algorithm string) bool {
	return strings.EqualFold(algorithm, a.Name())
}

func (a automatic) Process(request dto.ScoringRequest) (models.Score, error) {
	total := automaticScore(request.Content)
	return newDraft(request, a.Name(), total, "Scoring automatique effectué avec succès"), nil
}

func automaticScore(content string) float64 {
	if strings.TrimSpace(content) == "" {
		return 0
	}

	lengthScore := math.Min(5.0, float64(textstat.WordCount(content))/10.0)

	structureScore := 2.5
	if textstat.HasParagraphBreaks(content) {
		structureScore = 5.0
	}

	punctuationScore := math.Min(5.0, float64(textstat.PunctuationCount(content))*0.5)

	diversityScore := math.Min(5.0, float64(textstat.DistinctWordCount(content))/5.0)

	return lengthScore + structureScore + punctuationScore + diversityScore
}
