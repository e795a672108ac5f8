package classify

import "accesspoint/internal/domain"

// Coherence verdicts. Verdict strings are persisted on the review; the
// Coherent/Incoherent prefix is what the moderation UI keys on.
const (
	VerdictHighNegative = "Incoherent: high rating with negative comment"
	VerdictHighOK       = "Coherent: high rating with positive/neutral comment"
	VerdictMedium       = "Coherent: medium rating"
	VerdictLowPositive  = "Incoherent: low rating with positive comment"
	VerdictLowOK        = "Coherent: low rating with negative/neutral comment"
	VerdictNoComment    = "Only numeric rating"
)

// EvaluateCoherence checks whether a star rating agrees with the detected
// sentiment of its comment. Rules are ordered; first match wins.
func EvaluateCoherence(rating int, sentiment domain.Sentiment) (string, domain.SuggestedAction) {
	switch {
	case rating >= 4 && sentiment == domain.SentimentNegative:
		return VerdictHighNegative, domain.ActionManualReview
	case rating >= 4:
		return VerdictHighOK, domain.ActionAutoValidate
	case rating == 3:
		return VerdictMedium, domain.ActionAutoValidate
	case sentiment == domain.SentimentPositive:
		return VerdictLowPositive, domain.ActionManualReview
	default:
		return VerdictLowOK, domain.ActionAutoValidate
	}
}
