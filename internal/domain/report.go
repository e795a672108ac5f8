package domain

import "time"

type ReportStatus string

const (
	ReportPending  ReportStatus = "Pending"
	ReportAccepted ReportStatus = "Accepted"
	ReportRejected ReportStatus = "Rejected"
)

type StrikeAction string

const (
	StrikeWith    StrikeAction = "WithStrike"
	StrikeWithout StrikeAction = "WithoutStrike"
	StrikeNone    StrikeAction = "None"
)

// ModerationAction records what a resolution actually did, for the
// append-only history.
type ModerationAction string

const (
	ActionDeleted     ModerationAction = "Deleted"
	ActionWarningSent ModerationAction = "WarningSent"
	ActionStrikeAdded ModerationAction = "StrikeAdded"
	ActionBanApplied  ModerationAction = "BanApplied"
	ActionNoAction    ModerationAction = "NoAction"
)

type ReviewReport struct {
	ID           int64        `json:"id"`
	ReviewID     int64        `json:"review_id"`
	ReporterID   int64        `json:"reporter_id"`
	AdminID      *int64       `json:"admin_id,omitempty"`
	Reason       string       `json:"reason"`
	Status       ReportStatus `json:"status"`
	StrikeAction StrikeAction `json:"strike_action"`
	AdminNotes   *string      `json:"admin_notes,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

const (
	ReportTypeReview = "review_report"
	ReportTypeUser   = "user_report"
)

// ReportHistory is an immutable audit record appended when a report is
// resolved or an admin sanctions a user directly. It snapshots the
// reported content so the decision stays reviewable after the review
// itself is rejected or deleted.
type ReportHistory struct {
	ID              string           `json:"id"`
	ReportID        *int64           `json:"report_id,omitempty"`
	ReportType      string           `json:"report_type"`
	ReviewID        *int64           `json:"review_id,omitempty"`
	ReporterID      *int64           `json:"reporter_id,omitempty"`
	ReportedUserID  int64            `json:"reported_user_id"`
	AdminID         int64            `json:"admin_id"`
	Decision        ReportStatus     `json:"decision"`
	Reason          string           `json:"reason"`
	AdminNotes      string           `json:"admin_notes,omitempty"`
	ContentSnapshot string           `json:"content_snapshot,omitempty"`
	RatingSnapshot  int              `json:"rating_snapshot,omitempty"`
	ActionTaken     ModerationAction `json:"action_taken"`
	CreatedAt       time.Time        `json:"created_at"`
}
