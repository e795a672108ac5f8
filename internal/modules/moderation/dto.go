package moderation

import "accesspoint/internal/domain"

type CreateReportRequest struct {
	ReviewID int64  `json:"review_id" binding:"required,gt=0"`
	Reason   string `json:"reason" binding:"required,min=10,max=500"`
}

type ResolveReportRequest struct {
	Decision     string `json:"decision" binding:"required,oneof=Accepted Rejected"`
	StrikeAction string `json:"strike_action,omitempty" binding:"omitempty,oneof=WithStrike WithoutStrike"`
	AdminNotes   string `json:"admin_notes,omitempty" binding:"omitempty,max=500"`
}

type ReportUserRequest struct {
	Reason string `json:"reason" binding:"required,min=10,max=500"`
}

type SettleFlaggedRequest struct {
	Approve bool `json:"approve"`
}

type ResolveReportResponse struct {
	Report        *domain.ReviewReport    `json:"report"`
	ReviewStatus  domain.ReviewStatus     `json:"review_status"`
	ActionTaken   domain.ModerationAction `json:"action_taken"`
	AuthorStrikes int                     `json:"author_strikes,omitempty"`
	AuthorBanned  bool                    `json:"author_banned"`
	NewAverage    float64                 `json:"new_average,omitempty"`
}

type StrikeStatusResponse struct {
	UserID     int64 `json:"user_id"`
	Strikes    int   `json:"strikes"`
	MaxStrikes int   `json:"max_strikes"`
	Banned     bool  `json:"banned"`
}
