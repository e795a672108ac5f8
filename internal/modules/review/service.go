package review

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"accesspoint/internal/classify"
	"accesspoint/internal/domain"
	"accesspoint/internal/repository"
)

type Service struct {
	reviews    ReviewStore
	businesses BusinessGate
	reports    ReportGate
	likes      LikeStore
	notifs     NotificationSender
	pipeline   *classify.Pipeline
}

func NewService(
	reviews ReviewStore,
	businesses BusinessGate,
	reports ReportGate,
	likes LikeStore,
	notifs NotificationSender,
	pipeline *classify.Pipeline,
) *Service {
	return &Service{
		reviews:    reviews,
		businesses: businesses,
		reports:    reports,
		likes:      likes,
		notifs:     notifs,
		pipeline:   pipeline,
	}
}

// Create classifies and persists a new review, refreshing the business
// average in the same transaction. Auto-flagged reviews go straight to
// the admin worklist.
func (s *Service) Create(ctx context.Context, userID int64, req CreateReviewRequest) (*CreatedReview, error) {
	if userID <= 0 || req.BusinessID <= 0 || req.Rating < 1 || req.Rating > 5 {
		return nil, ErrValidation
	}

	if _, err := s.businesses.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	exists, err := s.reviews.ExistsByUserAndBusiness(ctx, userID, req.BusinessID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	res := s.pipeline.Run(req.Rating, req.Comment)

	rv := &domain.Review{
		BusinessID:      req.BusinessID,
		UserID:          userID,
		Rating:          req.Rating,
		Comment:         strings.TrimSpace(req.Comment),
		CategoryTag:     strings.TrimSpace(req.CategoryTag),
		Sentiment:       res.Sentiment,
		Coherence:       res.Coherence,
		SuggestedAction: res.SuggestedAction,
		IsOffensive:     res.Offensive,
		Status:          statusFor(res.SuggestedAction, false),
	}

	avg, err := s.reviews.CreateAndRecalc(ctx, rv)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if rv.SuggestedAction == domain.ActionManualReview {
		if err := s.notifs.NotifyReviewAttention(ctx, rv.ID, excerpt(rv.Comment)); err != nil {
			log.Printf("review attention fan-out failed review_id=%d error=%v", rv.ID, err)
		}
	}

	out := s.present(*rv)
	return &CreatedReview{Review: &out, Average: avg}, nil
}

// Update re-runs classification over the merged rating/comment before
// applying the change. Author only.
func (s *Service) Update(ctx context.Context, reviewID, userID int64, req UpdateReviewRequest) (*CreatedReview, error) {
	rv, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if rv.UserID != userID {
		return nil, ErrForbidden
	}

	reclassify := false
	if req.Rating != nil && *req.Rating != rv.Rating {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, ErrValidation
		}
		rv.Rating = *req.Rating
		reclassify = true
	}
	if req.Comment != nil && strings.TrimSpace(*req.Comment) != rv.Comment {
		rv.Comment = strings.TrimSpace(*req.Comment)
		reclassify = true
	}
	if req.CategoryTag != nil {
		rv.CategoryTag = strings.TrimSpace(*req.CategoryTag)
	}

	if reclassify {
		res := s.pipeline.Run(rv.Rating, rv.Comment)
		rv.Sentiment = res.Sentiment
		rv.Coherence = res.Coherence
		rv.SuggestedAction = res.SuggestedAction
		rv.IsOffensive = res.Offensive
		rv.AdminReviewed = false

		// A moderation rejection is terminal: editing the text never
		// restores visibility. Only the admin worklist can do that.
		if rv.Status != domain.ReviewRejected {
			reported, err := s.reports.HasPendingForReview(ctx, rv.ID)
			if err != nil {
				return nil, err
			}
			rv.Status = statusFor(res.SuggestedAction, reported)
		}
	}

	avg, err := s.reviews.UpdateAndRecalc(ctx, rv)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if reclassify && rv.SuggestedAction == domain.ActionManualReview && rv.Status != domain.ReviewRejected {
		if err := s.notifs.NotifyReviewAttention(ctx, rv.ID, excerpt(rv.Comment)); err != nil {
			log.Printf("review attention fan-out failed review_id=%d error=%v", rv.ID, err)
		}
	}

	out := s.present(*rv)
	return &CreatedReview{Review: &out, Average: avg}, nil
}

// Delete removes a review and returns the refreshed average. Authors may
// not delete a review with an open report; admins may.
func (s *Service) Delete(ctx context.Context, reviewID, userID int64, isAdmin bool) (float64, error) {
	rv, err := s.getReview(ctx, reviewID)
	if err != nil {
		return 0, err
	}
	if !isAdmin && rv.UserID != userID {
		return 0, ErrForbidden
	}

	avg, err := s.reviews.DeleteAndRecalc(ctx, reviewID, rv.BusinessID, isAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrPendingReports) {
			return 0, ErrConflict
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return avg, nil
}

// SetOwnerReply stores the business owner's reply. No re-classification.
func (s *Service) SetOwnerReply(ctx context.Context, reviewID, userID int64, reply string) (*domain.Review, error) {
	if strings.TrimSpace(reply) == "" {
		return nil, ErrValidation
	}

	rv, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	b, err := s.businesses.GetByID(ctx, rv.BusinessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.OwnerID != userID {
		return nil, ErrForbidden
	}

	updated, err := s.reviews.SetOwnerReply(ctx, reviewID, strings.TrimSpace(reply))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	out := s.present(*updated)
	return &out, nil
}

func (s *Service) Like(ctx context.Context, reviewID, userID int64) error {
	if _, err := s.getReview(ctx, reviewID); err != nil {
		return err
	}

	liked, err := s.likes.Exists(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if liked {
		return ErrConflict
	}

	if err := s.likes.Add(ctx, reviewID, userID); err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *Service) Unlike(ctx context.Context, reviewID, userID int64) error {
	if err := s.likes.Remove(ctx, reviewID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *Service) LikeStatus(ctx context.Context, reviewID, userID int64) (*LikeStatus, error) {
	count, err := s.likes.Count(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	liked := false
	if userID > 0 {
		liked, err = s.likes.Exists(ctx, reviewID, userID)
		if err != nil {
			return nil, err
		}
	}
	return &LikeStatus{Count: count, Liked: liked}, nil
}

func (s *Service) ForBusiness(ctx context.Context, businessID int64, limit, offset int) ([]domain.Review, int64, error) {
	if businessID <= 0 {
		return nil, 0, ErrValidation
	}
	if _, err := s.businesses.GetByID(ctx, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	items, total, err := s.reviews.ListByBusiness(ctx, businessID, limit, offset)
	return s.presentAll(items), total, err
}

func (s *Service) Mine(ctx context.Context, userID int64, limit, offset int) ([]domain.Review, int64, error) {
	items, total, err := s.reviews.ListByUser(ctx, userID, limit, offset)
	return s.presentAll(items), total, err
}

func (s *Service) All(ctx context.Context, limit, offset int) ([]domain.Review, int64, error) {
	return s.reviews.ListAll(ctx, limit, offset)
}

func (s *Service) getReview(ctx context.Context, reviewID int64) (*domain.Review, error) {
	if reviewID <= 0 {
		return nil, ErrValidation
	}
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

// present censors a flagged comment until an admin has settled it.
// Admin-facing listings (All) skip this and see the original text.
func (s *Service) present(rv domain.Review) domain.Review {
	if rv.IsOffensive && !rv.AdminReviewed {
		rv.Comment = s.pipeline.Censor(rv.Comment)
	}
	return rv
}

func (s *Service) presentAll(items []domain.Review) []domain.Review {
	for i := range items {
		items[i] = s.present(items[i])
	}
	return items
}

func statusFor(action domain.SuggestedAction, reported bool) domain.ReviewStatus {
	if action == domain.ActionManualReview || reported {
		return domain.ReviewInReview
	}
	return domain.ReviewApproved
}

func excerpt(comment string) string {
	const max = 80
	runes := []rune(comment)
	if len(runes) <= max {
		return comment
	}
	return string(runes[:max]) + "..."
}
