package classify

import (
	"strings"

	"accesspoint/internal/domain"
)

// Pipeline bundles the classifiers a review runs through before it is
// persisted. All steps are pure; a failure here is a programming defect,
// not a runtime condition.
type Pipeline struct {
	sentiment *SentimentClassifier
	offensive *OffensiveDetector
}

func NewPipeline(sentiment *SentimentClassifier, offensive *OffensiveDetector) *Pipeline {
	return &Pipeline{sentiment: sentiment, offensive: offensive}
}

func DefaultPipeline() *Pipeline {
	return NewPipeline(DefaultSentimentClassifier(), DefaultOffensiveDetector())
}

type Result struct {
	Sentiment       domain.Sentiment
	Coherence       string
	SuggestedAction domain.SuggestedAction
	Offensive       bool
	OffensiveTerms  []string
}

// Run classifies a (rating, comment) pair. An empty comment short-circuits:
// coherence is never evaluated against an absent comment.
func (p *Pipeline) Run(rating int, comment string) Result {
	if strings.TrimSpace(comment) == "" {
		return Result{
			Sentiment:       domain.SentimentNoComment,
			Coherence:       VerdictNoComment,
			SuggestedAction: domain.ActionAutoValidate,
		}
	}

	sentiment := p.sentiment.Classify(comment)
	verdict, action := EvaluateCoherence(rating, sentiment)
	off := p.offensive.Detect(comment)

	return Result{
		Sentiment:       sentiment,
		Coherence:       verdict,
		SuggestedAction: action,
		Offensive:       off.Offensive,
		OffensiveTerms:  off.Matches,
	}
}

// Censor exposes the detector's censoring for presentation layers.
func (p *Pipeline) Censor(text string) string {
	return p.offensive.Censor(text)
}
