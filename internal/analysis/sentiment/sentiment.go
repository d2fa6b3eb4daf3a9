// Package sentiment classifies comment text. The default classifier is
// a fixed bilingual keyword list; the interface exists so it can later
// be swapped for a statistical or model-based approach without touching
// the extraction pipeline.
package sentiment

import (
	"strings"

	"github.com/drey-val/instapilot/internal/types"
)

// Classifier assigns a sentiment to a piece of text.
type Classifier interface {
	Classify(text string) types.Sentiment
}

// Keyword lists matched as case-insensitive substrings.
var (
	positiveWords = []string{
		"excelente", "genial", "me gusta", "perfecto", "👍", "❤️", "😍",
		"hermoso", "increíble", "fantástico", "maravilloso", "espectacular",
		"bueno", "bonito", "lindo", "agradable", "divertido", "interesante",
	}
	negativeWords = []string{
		"malo", "terrible", "no me gusta", "👎", "😞", "horrible",
		"feo", "aburrido", "molesto", "frustrante", "decepcionante",
	}
)

// KeywordClassifier is the default fixed-list classifier. Positive
// keywords present with no negative keyword yields positive, the
// reverse yields negative; ties and absence of either yield neutral.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(text string) types.Sentiment {
	lower := strings.ToLower(text)

	hasPositive := containsAny(lower, positiveWords)
	hasNegative := containsAny(lower, negativeWords)

	switch {
	case hasPositive && !hasNegative:
		return types.SentimentPositive
	case hasNegative && !hasPositive:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
