package domain

import "time"

// Sentiment is the lexicon classifier's label for a review comment.
type Sentiment string

const (
	SentimentPositive  Sentiment = "Positive"
	SentimentNegative  Sentiment = "Negative"
	SentimentNeutral   Sentiment = "Neutral"
	SentimentNoComment Sentiment = "NoComment"
)

// SuggestedAction is the coherence evaluator's recommendation.
type SuggestedAction string

const (
	ActionAutoValidate SuggestedAction = "AutoValidate"
	ActionManualReview SuggestedAction = "ManualReview"
)

type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "Approved"
	ReviewInReview ReviewStatus = "InReview"
	ReviewRejected ReviewStatus = "Rejected"
)

type Review struct {
	ID              int64           `json:"id"`
	BusinessID      int64           `json:"business_id"`
	UserID          int64           `json:"user_id"`
	Rating          int             `json:"rating"`
	Comment         string          `json:"comment,omitempty"`
	CategoryTag     string          `json:"category_tag,omitempty"`
	Sentiment       Sentiment       `json:"sentiment"`
	Coherence       string          `json:"coherence"`
	SuggestedAction SuggestedAction `json:"suggested_action"`
	IsOffensive     bool            `json:"is_offensive"`
	AdminReviewed   bool            `json:"admin_reviewed"`
	Status          ReviewStatus    `json:"status"`
	OwnerReply      *string         `json:"owner_reply,omitempty"`
	RepliedAt       *time.Time      `json:"replied_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Visible reports whether the review counts toward listings and the
// business average. Rejected reviews are kept for audit but hidden.
func (r *Review) Visible() bool { return r.Status != ReviewRejected }
