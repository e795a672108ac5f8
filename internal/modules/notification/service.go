package notification

import (
	"context"
	"fmt"

	"accesspoint/internal/domain"
	"accesspoint/internal/repository"
)

// UserDirectory resolves fan-out audiences.
type UserDirectory interface {
	IDsByRole(ctx context.Context, role domain.Role) ([]int64, error)
	IDsExcludingRole(ctx context.Context, role domain.Role) ([]int64, error)
}

type Service struct {
	repo  *repository.NotificationRepository
	users UserDirectory
	hub   *Hub
}

func NewService(repo *repository.NotificationRepository, users UserDirectory, hub *Hub) *Service {
	return &Service{repo: repo, users: users, hub: hub}
}

// fanOut persists one row per recipient, then pushes to whoever is
// connected. Persistence is the contract; the live push is best effort.
func (s *Service) fanOut(ctx context.Context, recipients []int64, t domain.NotificationType, message string, relatedID int64) error {
	ns := make([]domain.Notification, 0, len(recipients))
	for _, id := range recipients {
		ns = append(ns, domain.Notification{
			UserID:    id,
			Type:      t,
			Message:   message,
			RelatedID: relatedID,
		})
	}
	if err := s.repo.CreateBatch(ctx, ns); err != nil {
		return err
	}
	if s.hub != nil {
		for _, n := range ns {
			s.hub.Push(n.UserID, n)
		}
	}
	return nil
}

func (s *Service) notifyAdmins(ctx context.Context, t domain.NotificationType, message string, relatedID int64) error {
	admins, err := s.users.IDsByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	return s.fanOut(ctx, admins, t, message, relatedID)
}

func (s *Service) NotifyUser(ctx context.Context, userID int64, t domain.NotificationType, message string, relatedID int64) error {
	return s.fanOut(ctx, []int64{userID}, t, message, relatedID)
}

// NotifyReviewAttention alerts every admin that a new review was
// auto-flagged for manual review.
func (s *Service) NotifyReviewAttention(ctx context.Context, reviewID int64, excerpt string) error {
	msg := fmt.Sprintf("Review #%d needs manual review: %q", reviewID, excerpt)
	return s.notifyAdmins(ctx, domain.NotifReviewAttention, msg, reviewID)
}

// NotifyReportCreated alerts every admin that a user filed a report.
func (s *Service) NotifyReportCreated(ctx context.Context, reportID, reviewID int64) error {
	msg := fmt.Sprintf("Report #%d filed against review #%d", reportID, reviewID)
	return s.notifyAdmins(ctx, domain.NotifReviewAlert, msg, reviewID)
}

// NotifyReportRejected tells the original reporter their report did not
// stand. Typed Suggestion so a regular account can read it.
func (s *Service) NotifyReportRejected(ctx context.Context, reporterID, reviewID int64) error {
	msg := fmt.Sprintf("Your report on review #%d was reviewed and rejected", reviewID)
	return s.NotifyUser(ctx, reporterID, domain.NotifSuggestion, msg, reviewID)
}

// NotifyContentRemoved tells an author their review was removed without
// sanction.
func (s *Service) NotifyContentRemoved(ctx context.Context, authorID, reviewID int64) error {
	msg := fmt.Sprintf("Your review #%d was removed after a moderation decision. No strike was recorded.", reviewID)
	return s.NotifyUser(ctx, authorID, domain.NotifSuggestion, msg, reviewID)
}

// NotifyStrike tells an author about a recorded strike, and about the
// ban when the threshold is reached.
func (s *Service) NotifyStrike(ctx context.Context, authorID, reviewID int64, strikes, max int, banned bool) error {
	msg := fmt.Sprintf("Your review #%d was removed and a strike was recorded (%d of %d)", reviewID, strikes, max)
	if banned {
		msg = fmt.Sprintf("Your review #%d was removed. Strike %d of %d: your account is now banned.", reviewID, strikes, max)
	}
	return s.NotifyUser(ctx, authorID, domain.NotifSuggestion, msg, reviewID)
}

// NotifyUserSanction tells a user about a strike recorded directly by an
// admin, outside the report flow.
func (s *Service) NotifyUserSanction(ctx context.Context, userID int64, strikes, max int, banned bool) error {
	msg := fmt.Sprintf("A moderator recorded a strike against your account (%d of %d)", strikes, max)
	if banned {
		msg = fmt.Sprintf("Strike %d of %d: your account is now banned.", strikes, max)
	}
	return s.NotifyUser(ctx, userID, domain.NotifSuggestion, msg, userID)
}

// NotifyTopRated suggests the current top-rated business to every
// non-admin account.
func (s *Service) NotifyTopRated(ctx context.Context, businessID int64, name string, average float64) error {
	users, err := s.users.IDsExcludingRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Top rated right now: %s (%.2f). Worth a visit!", name, average)
	return s.fanOut(ctx, users, domain.NotifSuggestion, msg, businessID)
}

// typesForRoles applies the read-time audience rule: admins see the
// moderation worklist types only, everyone else sees suggestions only.
func typesForRoles(roles []string) []domain.NotificationType {
	for _, r := range roles {
		if r == string(domain.RoleAdmin) {
			return domain.AdminNotificationTypes
		}
	}
	return domain.UserNotificationTypes
}

func (s *Service) ListForUser(ctx context.Context, userID int64, roles []string, limit, offset int) ([]domain.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, typesForRoles(roles), limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, userID int64, roles []string) (int64, error) {
	return s.repo.CountUnread(ctx, userID, typesForRoles(roles))
}

func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
