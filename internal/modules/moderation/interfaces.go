package moderation

import (
	"context"

	"accesspoint/internal/domain"
	"accesspoint/internal/repository"
)

type ReportStore interface {
	Create(ctx context.Context, rep *domain.ReviewReport) error
	GetByID(ctx context.Context, id int64) (*domain.ReviewReport, error)
	HasPendingForReview(ctx context.Context, reviewID int64) (bool, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.ReviewReport, int64, error)
	Resolve(ctx context.Context, p repository.ResolveParams) (*repository.ResolveOutcome, error)
}

type HistoryStore interface {
	List(ctx context.Context, decision string, limit, offset int) ([]domain.ReportHistory, int64, error)
}

type ReviewStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Review, int64, error)
	ListFlagged(ctx context.Context, limit, offset int) ([]domain.Review, int64, error)
	SettleFlagged(ctx context.Context, reviewID int64, approve bool) (*domain.Review, float64, error)
	UpdateClassification(ctx context.Context, reviewID int64, sentiment domain.Sentiment, coherence string, action domain.SuggestedAction, offensive bool) error
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	AddStrike(ctx context.Context, userID int64, max int, rec *domain.ReportHistory) (*repository.StrikeOutcome, error)
}

type NotificationSender interface {
	NotifyReportCreated(ctx context.Context, reportID, reviewID int64) error
	NotifyReportRejected(ctx context.Context, reporterID, reviewID int64) error
	NotifyContentRemoved(ctx context.Context, authorID, reviewID int64) error
	NotifyStrike(ctx context.Context, authorID, reviewID int64, strikes, max int, banned bool) error
	NotifyUserSanction(ctx context.Context, userID int64, strikes, max int, banned bool) error
}
