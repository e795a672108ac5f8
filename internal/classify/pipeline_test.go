package classify

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"accesspoint/internal/domain"
)

func TestSentiment_Classify(t *testing.T) {
	c := DefaultSentimentClassifier()

	tests := []struct {
		name string
		text string
		want domain.Sentiment
	}{
		{"positive english", "great place, very friendly staff", domain.SentimentPositive},
		{"negative english", "terrible, never again", domain.SentimentNegative},
		{"negative spanish", "pesimo servicio, nunca vuelvo", domain.SentimentNegative},
		{"positive spanish", "excelente y muy accesible", domain.SentimentPositive},
		{"neutral no lexicon hits", "the door is on the left", domain.SentimentNeutral},
		{"mixed cancels out", "good food but terrible service", domain.SentimentNeutral},
		{"empty", "", domain.SentimentNeutral},
		{"case insensitive", "GREAT PLACE", domain.SentimentPositive},
		{"punctuation does not hide words", "terrible!!!", domain.SentimentNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestEvaluateCoherence(t *testing.T) {
	tests := []struct {
		name       string
		rating     int
		sentiment  domain.Sentiment
		wantVer    string
		wantAction domain.SuggestedAction
	}{
		{"5 stars negative comment", 5, domain.SentimentNegative, VerdictHighNegative, domain.ActionManualReview},
		{"4 stars negative comment", 4, domain.SentimentNegative, VerdictHighNegative, domain.ActionManualReview},
		{"5 stars positive comment", 5, domain.SentimentPositive, VerdictHighOK, domain.ActionAutoValidate},
		{"4 stars neutral comment", 4, domain.SentimentNeutral, VerdictHighOK, domain.ActionAutoValidate},
		{"3 stars any sentiment", 3, domain.SentimentNegative, VerdictMedium, domain.ActionAutoValidate},
		{"1 star positive comment", 1, domain.SentimentPositive, VerdictLowPositive, domain.ActionManualReview},
		{"2 stars positive comment", 2, domain.SentimentPositive, VerdictLowPositive, domain.ActionManualReview},
		{"1 star negative comment", 1, domain.SentimentNegative, VerdictLowOK, domain.ActionAutoValidate},
		{"2 stars neutral comment", 2, domain.SentimentNeutral, VerdictLowOK, domain.ActionAutoValidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, action := EvaluateCoherence(tt.rating, tt.sentiment)
			assert.Equal(t, tt.wantVer, verdict)
			assert.Equal(t, tt.wantAction, action)
		})
	}
}

func TestOffensiveDetector_Detect(t *testing.T) {
	d := DefaultOffensiveDetector()

	t.Run("clean text", func(t *testing.T) {
		res := d.Detect("lovely place, clean and quiet")
		assert.False(t, res.Offensive)
		assert.Empty(t, res.Matches)
	})

	t.Run("blocked term spanish", func(t *testing.T) {
		res := d.Detect("this place is basura")
		assert.True(t, res.Offensive)
		assert.Equal(t, []string{"basura"}, res.Matches)
	})

	t.Run("case insensitive and deduped", func(t *testing.T) {
		res := d.Detect("Trash. Absolute TRASH and garbage.")
		assert.True(t, res.Offensive)
		assert.Equal(t, []string{"trash", "garbage"}, res.Matches)
	})

	t.Run("word boundary respected", func(t *testing.T) {
		// "scrap" contains no standalone blocked term
		res := d.Detect("the scrapbook corner was nice")
		assert.False(t, res.Offensive)
	})

	t.Run("empty detector never matches", func(t *testing.T) {
		empty := NewOffensiveDetector(nil)
		assert.False(t, empty.Detect("basura").Offensive)
	})
}

func TestOffensiveDetector_Censor(t *testing.T) {
	d := DefaultOffensiveDetector()

	t.Run("keeps first char and length", func(t *testing.T) {
		in := "this place is basura"
		out := d.Censor(in)
		assert.Equal(t, "this place is b*****", out)
		assert.Equal(t, utf8.RuneCountInString(in), utf8.RuneCountInString(out))
	})

	t.Run("multiple terms", func(t *testing.T) {
		assert.Equal(t, "t**** and g******", d.Censor("trash and garbage"))
	})

	t.Run("clean text untouched", func(t *testing.T) {
		assert.Equal(t, "all good here", d.Censor("all good here"))
	})
}

func TestPipeline_Run(t *testing.T) {
	p := DefaultPipeline()

	t.Run("incoherent high rating", func(t *testing.T) {
		res := p.Run(5, "terrible, never again")
		assert.Equal(t, domain.SentimentNegative, res.Sentiment)
		assert.Equal(t, VerdictHighNegative, res.Coherence)
		assert.Equal(t, domain.ActionManualReview, res.SuggestedAction)
		assert.False(t, res.Offensive)
	})

	t.Run("numeric only review", func(t *testing.T) {
		res := p.Run(1, "")
		assert.Equal(t, domain.SentimentNoComment, res.Sentiment)
		assert.Equal(t, VerdictNoComment, res.Coherence)
		assert.Equal(t, domain.ActionAutoValidate, res.SuggestedAction)
	})

	t.Run("whitespace counts as no comment", func(t *testing.T) {
		res := p.Run(5, "   ")
		assert.Equal(t, domain.SentimentNoComment, res.Sentiment)
	})

	t.Run("offensive comment flagged", func(t *testing.T) {
		res := p.Run(1, "the soup was basura")
		assert.True(t, res.Offensive)
		assert.Equal(t, []string{"basura"}, res.OffensiveTerms)
		// offensive but coherent: low rating, negative-free text is neutral
		assert.Equal(t, domain.SentimentNeutral, res.Sentiment)
		assert.Equal(t, VerdictLowOK, res.Coherence)
	})

	t.Run("coherent positive autovalidates", func(t *testing.T) {
		res := p.Run(5, "excellent service and friendly staff")
		assert.Equal(t, domain.SentimentPositive, res.Sentiment)
		assert.Equal(t, domain.ActionAutoValidate, res.SuggestedAction)
	})
}
