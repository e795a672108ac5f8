package repository

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"accesspoint/internal/domain"
)

type reviewModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	BusinessID      int64      `gorm:"column:business_id;uniqueIndex:idx_one_review_per_user"`
	UserID          int64      `gorm:"column:user_id;uniqueIndex:idx_one_review_per_user"`
	Rating          int        `gorm:"column:rating"`
	Comment         *string    `gorm:"column:comment"`
	CategoryTag     *string    `gorm:"column:category_tag"`
	Sentiment       string     `gorm:"column:sentiment"`
	Coherence       string     `gorm:"column:coherence"`
	SuggestedAction string     `gorm:"column:suggested_action"`
	IsOffensive     bool       `gorm:"column:is_offensive;index"`
	AdminReviewed   bool       `gorm:"column:admin_reviewed"`
	Status          string     `gorm:"column:status;index"`
	OwnerReply      *string    `gorm:"column:owner_reply"`
	RepliedAt       *time.Time `gorm:"column:replied_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) domain.Review {
	rv := domain.Review{
		ID:              m.ID,
		BusinessID:      m.BusinessID,
		UserID:          m.UserID,
		Rating:          m.Rating,
		Sentiment:       domain.Sentiment(m.Sentiment),
		Coherence:       m.Coherence,
		SuggestedAction: domain.SuggestedAction(m.SuggestedAction),
		IsOffensive:     m.IsOffensive,
		AdminReviewed:   m.AdminReviewed,
		Status:          domain.ReviewStatus(m.Status),
		OwnerReply:      m.OwnerReply,
		RepliedAt:       m.RepliedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Comment != nil {
		rv.Comment = *m.Comment
	}
	if m.CategoryTag != nil {
		rv.CategoryTag = *m.CategoryTag
	}
	return rv
}

func toReviewModel(rv *domain.Review) reviewModel {
	return reviewModel{
		ID:              rv.ID,
		BusinessID:      rv.BusinessID,
		UserID:          rv.UserID,
		Rating:          rv.Rating,
		Comment:         nullable(rv.Comment),
		CategoryTag:     nullable(rv.CategoryTag),
		Sentiment:       string(rv.Sentiment),
		Coherence:       rv.Coherence,
		SuggestedAction: string(rv.SuggestedAction),
		IsOffensive:     rv.IsOffensive,
		AdminReviewed:   rv.AdminReviewed,
		Status:          string(rv.Status),
		OwnerReply:      rv.OwnerReply,
		RepliedAt:       rv.RepliedAt,
		CreatedAt:       rv.CreatedAt,
		UpdatedAt:       rv.UpdatedAt,
	}
}

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) DB() *gorm.DB { return r.db }

// recalcAverage recomputes a business's average rating from the visible
// reviews and stores it. Runs inside the caller's transaction; the caller
// must already hold the business row lock so concurrent writers to the
// same business serialize and never publish a stale aggregate.
func recalcAverage(tx *gorm.DB, businessID int64) (float64, error) {
	var avg *float64
	err := tx.Model(&reviewModel{}).
		Where("business_id = ? AND status <> ?", businessID, string(domain.ReviewRejected)).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}

	v := 0.0
	if avg != nil {
		v = math.Round(*avg*100) / 100
	}

	err = tx.Model(&businessModel{}).
		Where("id = ?", businessID).
		Updates(map[string]any{
			"average_rating": v,
			"updated_at":     time.Now().UTC(),
		}).Error
	if err != nil {
		return 0, err
	}
	return v, nil
}

// lockBusiness takes the per-business write lock that serializes every
// operation touching the aggregate rating.
func lockBusiness(tx *gorm.DB, businessID int64) error {
	var b businessModel
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, businessID).Error
}

// CreateAndRecalc persists a new review and recomputes the business
// average in the same transaction. Returns the fresh average.
func (r *ReviewRepository) CreateAndRecalc(ctx context.Context, rv *domain.Review) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBusiness(tx, rv.BusinessID); err != nil {
			return err
		}

		m := toReviewModel(rv)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*rv = toDomainReview(m)

		a, err := recalcAverage(tx, rv.BusinessID)
		if err != nil {
			return err
		}
		avg = a
		return nil
	})
	return avg, err
}

// UpdateAndRecalc applies a full review update and refreshes the average.
func (r *ReviewRepository) UpdateAndRecalc(ctx context.Context, rv *domain.Review) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBusiness(tx, rv.BusinessID); err != nil {
			return err
		}

		m := toReviewModel(rv)
		res := tx.Model(&reviewModel{}).Where("id = ?", rv.ID).Updates(map[string]any{
			"rating":           m.Rating,
			"comment":          m.Comment,
			"category_tag":     m.CategoryTag,
			"sentiment":        m.Sentiment,
			"coherence":        m.Coherence,
			"suggested_action": m.SuggestedAction,
			"is_offensive":     m.IsOffensive,
			"admin_reviewed":   m.AdminReviewed,
			"status":           m.Status,
			"updated_at":       time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		a, err := recalcAverage(tx, rv.BusinessID)
		if err != nil {
			return err
		}
		avg = a
		return nil
	})
	return avg, err
}

// DeleteAndRecalc removes a review together with its likes and reports,
// then refreshes the average. Unless force is set, a pending report on
// the review blocks deletion with ErrPendingReports: the open moderation
// case has to be resolved first.
func (r *ReviewRepository) DeleteAndRecalc(ctx context.Context, reviewID, businessID int64, force bool) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBusiness(tx, businessID); err != nil {
			return err
		}

		if !force {
			var pending int64
			err := tx.Model(&reportModel{}).
				Where("review_id = ? AND status = ?", reviewID, string(domain.ReportPending)).
				Count(&pending).Error
			if err != nil {
				return err
			}
			if pending > 0 {
				return ErrPendingReports
			}
		}

		if err := tx.Where("review_id = ?", reviewID).Delete(&likeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", reviewID).Delete(&reportModel{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&reviewModel{}, reviewID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		a, err := recalcAverage(tx, businessID)
		if err != nil {
			return err
		}
		avg = a
		return nil
	})
	return avg, err
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	var m reviewModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	rv := toDomainReview(m)
	return &rv, nil
}

func (r *ReviewRepository) ExistsByUserAndBusiness(ctx context.Context, userID, businessID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("business_id = ? AND status <> ?", businessID, string(domain.ReviewRejected))
	return r.list(q, limit, offset)
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("user_id = ?", userID)
	return r.list(q, limit, offset)
}

func (r *ReviewRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&reviewModel{})
	return r.list(q, limit, offset)
}

// ListFlagged returns the auto-flagged worklist: offensive comments no
// admin has settled yet. Independent of the report-driven worklist.
func (r *ReviewRepository) ListFlagged(ctx context.Context, limit, offset int) ([]domain.Review, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("is_offensive = ? AND admin_reviewed = ?", true, false)
	return r.list(q, limit, offset)
}

func (r *ReviewRepository) list(q *gorm.DB, limit, offset int) ([]domain.Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reviewModel
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReview(m))
	}
	return out, total, nil
}

func (r *ReviewRepository) SetOwnerReply(ctx context.Context, reviewID int64, reply string) (*domain.Review, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", reviewID).
		Updates(map[string]any{
			"owner_reply": reply,
			"replied_at":  now,
			"updated_at":  now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, reviewID)
}

// SettleFlagged closes an auto-flagged review: approve keeps it visible,
// reject hides it. The business average moves with the status change.
// A review under an open report cannot be settled here; the report
// resolution owns its fate and SettleFlagged returns ErrPendingReports.
func (r *ReviewRepository) SettleFlagged(ctx context.Context, reviewID int64, approve bool) (*domain.Review, float64, error) {
	rv, err := r.GetByID(ctx, reviewID)
	if err != nil {
		return nil, 0, err
	}

	status := domain.ReviewApproved
	if !approve {
		status = domain.ReviewRejected
	}

	var avg float64
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBusiness(tx, rv.BusinessID); err != nil {
			return err
		}

		var pending int64
		if err := tx.Model(&reportModel{}).
			Where("review_id = ? AND status = ?", reviewID, string(domain.ReportPending)).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return ErrPendingReports
		}

		res := tx.Model(&reviewModel{}).Where("id = ?", reviewID).Updates(map[string]any{
			"admin_reviewed": true,
			"status":         string(status),
			"updated_at":     time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		a, err := recalcAverage(tx, rv.BusinessID)
		if err != nil {
			return err
		}
		avg = a
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	rv.AdminReviewed = true
	rv.Status = status
	return rv, avg, nil
}

// UpdateClassification rewrites only the classifier output columns.
// Used by the maintenance re-classification pass; ratings are untouched.
func (r *ReviewRepository) UpdateClassification(ctx context.Context, reviewID int64, sentiment domain.Sentiment, coherence string, action domain.SuggestedAction, offensive bool) error {
	return r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("id = ?", reviewID).
		Updates(map[string]any{
			"sentiment":        string(sentiment),
			"coherence":        coherence,
			"suggested_action": string(action),
			"is_offensive":     offensive,
			"updated_at":       time.Now().UTC(),
		}).Error
}
