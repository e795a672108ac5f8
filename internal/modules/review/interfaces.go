package review

import (
	"context"

	"accesspoint/internal/domain"
)

type ReviewStore interface {
	CreateAndRecalc(ctx context.Context, rv *domain.Review) (float64, error)
	UpdateAndRecalc(ctx context.Context, rv *domain.Review) (float64, error)
	DeleteAndRecalc(ctx context.Context, reviewID, businessID int64, force bool) (float64, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsByUserAndBusiness(ctx context.Context, userID, businessID int64) (bool, error)
	ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]domain.Review, int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Review, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Review, int64, error)
	SetOwnerReply(ctx context.Context, reviewID int64, reply string) (*domain.Review, error)
}

type BusinessGate interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

type ReportGate interface {
	HasPendingForReview(ctx context.Context, reviewID int64) (bool, error)
}

type LikeStore interface {
	Add(ctx context.Context, reviewID, userID int64) error
	Remove(ctx context.Context, reviewID, userID int64) error
	Count(ctx context.Context, reviewID int64) (int64, error)
	Exists(ctx context.Context, reviewID, userID int64) (bool, error)
}

type NotificationSender interface {
	NotifyReviewAttention(ctx context.Context, reviewID int64, excerpt string) error
}
