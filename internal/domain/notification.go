package domain

import "time"

type NotificationType string

const (
	// Suggestion notifications are the only type regular accounts read:
	// top-rated business suggestions and moderation outcome notices.
	NotifSuggestion NotificationType = "Suggestion"
	// ReviewAlert goes to admins when a user files a report.
	NotifReviewAlert NotificationType = "ReviewAlert"
	// ReviewAttention goes to admins when a new review is auto-flagged
	// for manual review.
	NotifReviewAttention NotificationType = "ReviewAttention"
)

// AdminNotificationTypes and UserNotificationTypes partition the
// retrieval audience: filtering happens at read time based on role.
var (
	AdminNotificationTypes = []NotificationType{NotifReviewAlert, NotifReviewAttention}
	UserNotificationTypes  = []NotificationType{NotifSuggestion}
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	RelatedID int64            `json:"related_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
