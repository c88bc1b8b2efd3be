package textstat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assessai/scoring-api/pkg/textstat"
)

func TestWordCount(t *testing.T) {
	require.Equal(t, 0, textstat.WordCount(""))
	require.Equal(t, 0, textstat.WordCount("   \n\t"))
	require.Equal(t, 3, textstat.WordCount("un deux trois"))
	require.Equal(t, 3, textstat.WordCount("  un\ndeux  trois "))
}

func TestDistinctWordCountIsCaseInsensitive(t *testing.T) {
	require.Equal(t, 2, textstat.DistinctWordCount("Chat chat CHIEN"))
	require.Equal(t, 0, textstat.DistinctWordCount(""))
}

func TestPunctuationCount(t *testing.T) {
	require.Equal(t, 0, textstat.PunctuationCount("aucune ponctuation"))
	require.Equal(t, 3, textstat.PunctuationCount("Oui. Non! Peut-être?"))
}

func TestHasParagraphBreaks(t *testing.T) {
	require.True(t, textstat.HasParagraphBreaks("premier\n\nsecond"))
	require.True(t, textstat.HasParagraphBreaks("a. b. c. d. e"))
	require.False(t, textstat.HasParagraphBreaks("une seule phrase. et demie"))
}

func TestOverlapSimilarity(t *testing.T) {
	require.Equal(t, 1.0, textstat.OverlapSimilarity("le chat dort", "le chat dort"))
	require.Equal(t, 0.0, textstat.OverlapSimilarity("le chat dort", "un chien court vite"))
	// 2 common words out of max(3, 4)
	require.InDelta(t, 0.5, textstat.OverlapSimilarity("le chat dort", "le chat mange bien"), 1e-9)
	require.Equal(t, 0.0, textstat.OverlapSimilarity("", ""))
}

func TestRound2HalfUp(t *testing.T) {
	require.Equal(t, 15.0, textstat.Round2(15.0))
	require.Equal(t, 12.35, textstat.Round2(12.345))
	require.Equal(t, 0.5, textstat.Round2(0.499999999))
}
