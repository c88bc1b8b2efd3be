package strategy

import (
	"math"
	"strings"

	"github.com/assessai/scoring-api/internal/dto"
	"github.com/assessai/scoring-api/internal/models"
)

// defaultKeywords is used when the request metadata carries no keyword list.
var defaultKeywords = []string{"analyse", "exemple", "conclusion", "développement", "argument"}

type keywordBased struct{}

// NewKeywordBased returns the strategy awarding points for each expected
// keyword found in the content, plus a coverage bonus when at least one
// keyword matched.
func NewKeywordBased() Strategy {
	return keywordBased{}
}

func (keywordBased) Name() string { return "KEYWORD_BASED" }

func (k keywordBased) Supports(algorithm string) bool {
	return strings.EqualFold(algorithm, k.Name())
}

func (k keywordBased) Process(request dto.ScoringRequest) (models.Score, error) {
	total := keywordScore(request.Content, request.Keywords())
	return newDraft(request, k.Name(), total, "Scoring basé sur les mots-clés effectué"), nil
}

func keywordScore(content string, keywords []string) float64 {
	if strings.TrimSpace(content) == "" {
		return 0
	}

	if len(keywords) == 0 {
		keywords = defaultKeywords
	}

	contentLower := strings.ToLower(content)
	pointsPerKeyword := DefaultMaxScore / float64(len(keywords))

	score := 0.0
	matched := 0
	for _, keyword := range keywords {
		if strings.Contains(contentLower, strings.ToLower(keyword)) {
			score += pointsPerKeyword
			matched++
		}
	}

	if matched > 0 {
		score += float64(matched) / float64(len(keywords)) * 5.0
	}

	return math.Min(score, DefaultMaxScore)
}
