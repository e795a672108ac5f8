package classify

import (
	"strings"
	"unicode"

	"accesspoint/internal/domain"
)

// SentimentClassifier scores comment text against positive/negative
// lexicons. It is stateless after construction and safe for concurrent
// use.
type SentimentClassifier struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

func NewSentimentClassifier(positive, negative []string) *SentimentClassifier {
	c := &SentimentClassifier{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		c.positive[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range negative {
		c.negative[strings.ToLower(w)] = struct{}{}
	}
	return c
}

func DefaultSentimentClassifier() *SentimentClassifier {
	return NewSentimentClassifier(defaultPositiveWords, defaultNegativeWords)
}

// Classify returns Positive, Negative or Neutral from the signed lexicon
// score over the tokens of text. Empty or whitespace-only text is Neutral.
func (c *SentimentClassifier) Classify(text string) domain.Sentiment {
	score := 0
	for _, tok := range tokenize(text) {
		if _, ok := c.positive[tok]; ok {
			score++
		}
		if _, ok := c.negative[tok]; ok {
			score--
		}
	}
	switch {
	case score > 0:
		return domain.SentimentPositive
	case score < 0:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
