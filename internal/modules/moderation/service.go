package moderation

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

// MaxStrikes is the number of accepted strikes that bans a user. The ban
// never resets automatically.
const MaxStrikes = 3

const (
	minReasonLen = 10
	maxReasonLen = 500
)

type Service struct {
	reports  ReportStore
	history  HistoryStore
	reviews  ReviewStore
	users    UserStore
	notifs   NotificationSender
	pipeline *classify.Pipeline
}

func NewService(
	reports ReportStore,
	history HistoryStore,
	reviews ReviewStore,
	users UserStore,
	notifs NotificationSender,
	pipeline *classify.Pipeline,
) *Service {
	return &Service{
		reports:  reports,
		history:  history,
		reviews:  reviews,
		users:    users,
		notifs:   notifs,
		pipeline: pipeline,
	}
}

// CreateReport opens a moderation case against a review. One pending
// report per review; authors cannot report themselves.
func (s *Service) CreateReport(ctx context.Context, reporterID int64, req CreateReportRequest) (*domain.ReviewReport, error) {
	reason := strings.TrimSpace(req.Reason)
	if reporterID <= 0 || req.ReviewID <= 0 || len(reason) < minReasonLen || len(reason) > maxReasonLen {
		return nil, ErrValidation
	}

	rv, err := s.reviews.GetByID(ctx, req.ReviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if rv.UserID == reporterID {
		return nil, ErrForbidden
	}

	pending, err := s.reports.HasPendingForReview(ctx, req.ReviewID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrConflict
	}

	rep := &domain.ReviewReport{
		ReviewID:   req.ReviewID,
		ReporterID: reporterID,
		Reason:     reason,
	}
	if err := s.reports.Create(ctx, rep); err != nil {
		// The pending check above races with concurrent reporters; the
		// partial unique index is the backstop.
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if err := s.notifs.NotifyReportCreated(ctx, rep.ID, rep.ReviewID); err != nil {
		log.Printf("report alert fan-out failed report_id=%d error=%v", rep.ID, err)
	}
	return rep, nil
}

// Resolve settles a pending report. Terminal reports stay terminal:
// a second resolution fails with Conflict and never re-applies strikes.
func (s *Service) Resolve(ctx context.Context, reportID, adminID int64, req ResolveReportRequest) (*ResolveReportResponse, error) {
	if reportID <= 0 || adminID <= 0 {
		return nil, ErrValidation
	}

	decision := domain.ReportStatus(req.Decision)
	strikeAction := domain.StrikeAction(req.StrikeAction)
	switch decision {
	case domain.ReportRejected:
		strikeAction = domain.StrikeNone
	case domain.ReportAccepted:
		if strikeAction != domain.StrikeWith && strikeAction != domain.StrikeWithout {
			return nil, ErrValidation
		}
	default:
		return nil, ErrValidation
	}

	out, err := s.reports.Resolve(ctx, repository.ResolveParams{
		ReportID:     reportID,
		AdminID:      adminID,
		Decision:     decision,
		StrikeAction: strikeAction,
		AdminNotes:   strings.TrimSpace(req.AdminNotes),
		MaxStrikes:   MaxStrikes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyResolved) {
			return nil, ErrConflict
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.notifyResolution(ctx, out)

	return &ResolveReportResponse{
		Report:        &out.Report,
		ReviewStatus:  out.Review.Status,
		ActionTaken:   out.Action,
		AuthorStrikes: out.Strikes,
		AuthorBanned:  out.Banned,
		NewAverage:    out.NewAverage,
	}, nil
}

func (s *Service) notifyResolution(ctx context.Context, out *repository.ResolveOutcome) {
	var err error
	switch {
	case out.Report.Status == domain.ReportRejected:
		err = s.notifs.NotifyReportRejected(ctx, out.Report.ReporterID, out.Review.ID)
	case out.Report.StrikeAction == domain.StrikeWith:
		err = s.notifs.NotifyStrike(ctx, out.Review.UserID, out.Review.ID, out.Strikes, MaxStrikes, out.Banned)
	default:
		err = s.notifs.NotifyContentRemoved(ctx, out.Review.UserID, out.Review.ID)
	}
	if err != nil {
		log.Printf("resolution notification failed report_id=%d error=%v", out.Report.ID, err)
	}
}

// ReportUser applies a strike directly, outside the report flow. The
// audit history record is written in the same transaction as the strike.
func (s *Service) ReportUser(ctx context.Context, adminID, userID int64, req ReportUserRequest) (*StrikeStatusResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if adminID <= 0 || userID <= 0 || len(reason) < minReasonLen || len(reason) > maxReasonLen {
		return nil, ErrValidation
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec := &domain.ReportHistory{
		ReportType:     domain.ReportTypeUser,
		ReportedUserID: userID,
		AdminID:        adminID,
		Decision:       domain.ReportAccepted,
		Reason:         reason,
	}
	out, err := s.users.AddStrike(ctx, userID, MaxStrikes, rec)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.notifs.NotifyUserSanction(ctx, userID, out.Strikes, MaxStrikes, out.Banned); err != nil {
		log.Printf("sanction notification failed user_id=%d error=%v", userID, err)
	}

	return &StrikeStatusResponse{
		UserID:     userID,
		Strikes:    out.Strikes,
		MaxStrikes: MaxStrikes,
		Banned:     out.Banned,
	}, nil
}

func (s *Service) StrikeStatus(ctx context.Context, userID int64) (*StrikeStatusResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &StrikeStatusResponse{
		UserID:     u.ID,
		Strikes:    u.OffensiveStrikes,
		MaxStrikes: MaxStrikes,
		Banned:     u.Banned,
	}, nil
}

func (s *Service) ListPending(ctx context.Context, limit, offset int) ([]domain.ReviewReport, int64, error) {
	return s.reports.ListPending(ctx, limit, offset)
}

func (s *Service) ListHistory(ctx context.Context, decision string, limit, offset int) ([]domain.ReportHistory, int64, error) {
	switch decision {
	case "", string(domain.ReportAccepted), string(domain.ReportRejected):
	default:
		return nil, 0, ErrValidation
	}
	return s.history.List(ctx, decision, limit, offset)
}

func (s *Service) ListFlagged(ctx context.Context, limit, offset int) ([]domain.Review, int64, error) {
	return s.reviews.ListFlagged(ctx, limit, offset)
}

// SettleFlagged closes an auto-flagged review from the offensive
// worklist: approve keeps it, reject hides it.
func (s *Service) SettleFlagged(ctx context.Context, reviewID int64, approve bool) (*domain.Review, error) {
	if reviewID <= 0 {
		return nil, ErrValidation
	}
	rv, _, err := s.reviews.SettleFlagged(ctx, reviewID, approve)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrPendingReports) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return rv, nil
}

// ReclassifyAll re-runs the classification pipeline over every stored
// review. Ratings are never altered; only classifier output columns are
// rewritten. Returns the number of reviews processed.
func (s *Service) ReclassifyAll(ctx context.Context) (int, error) {
	const batch = 100

	processed := 0
	for offset := 0; ; offset += batch {
		items, _, err := s.reviews.ListAll(ctx, batch, offset)
		if err != nil {
			return processed, err
		}
		if len(items) == 0 {
			return processed, nil
		}

		for i := range items {
			rv := &items[i]
			res := s.pipeline.Run(rv.Rating, rv.Comment)
			err := s.reviews.UpdateClassification(ctx, rv.ID, res.Sentiment, res.Coherence, res.SuggestedAction, res.Offensive)
			if err != nil {
				return processed, err
			}
			processed++
		}

		if len(items) < batch {
			return processed, nil
		}
	}
}
