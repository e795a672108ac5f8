package moderation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"accesspoint/internal/classify"
	"accesspoint/internal/domain"
	"accesspoint/internal/repository"
)

// Mock repositories

type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) Create(ctx context.Context, rep *domain.ReviewReport) error {
	args := m.Called(ctx, rep)
	if rep != nil && args.Error(0) == nil {
		rep.ID = 500 // simulate DB insert
		rep.Status = domain.ReportPending
	}
	return args.Error(0)
}

func (m *MockReportStore) GetByID(ctx context.Context, id int64) (*domain.ReviewReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewReport), args.Error(1)
}

func (m *MockReportStore) HasPendingForReview(ctx context.Context, reviewID int64) (bool, error) {
	args := m.Called(ctx, reviewID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReportStore) ListPending(ctx context.Context, limit, offset int) ([]domain.ReviewReport, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.ReviewReport), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportStore) Resolve(ctx context.Context, p repository.ResolveParams) (*repository.ResolveOutcome, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ResolveOutcome), args.Error(1)
}

type MockHistoryStore struct {
	mock.Mock
}

func (m *MockHistoryStore) List(ctx context.Context, decision string, limit, offset int) ([]domain.ReportHistory, int64, error) {
	args := m.Called(ctx, decision, limit, offset)
	return args.Get(0).([]domain.ReportHistory), args.Get(1).(int64), args.Error(2)
}

type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewStore) ListAll(ctx context.Context, limit, offset int) ([]domain.Review, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewStore) ListFlagged(ctx context.Context, limit, offset int) ([]domain.Review, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewStore) SettleFlagged(ctx context.Context, reviewID int64, approve bool) (*domain.Review, float64, error) {
	args := m.Called(ctx, reviewID, approve)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*domain.Review), args.Get(1).(float64), args.Error(2)
}

func (m *MockReviewStore) UpdateClassification(ctx context.Context, reviewID int64, sentiment domain.Sentiment, coherence string, action domain.SuggestedAction, offensive bool) error {
	args := m.Called(ctx, reviewID, sentiment, coherence, action, offensive)
	return args.Error(0)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) AddStrike(ctx context.Context, userID int64, max int, rec *domain.ReportHistory) (*repository.StrikeOutcome, error) {
	args := m.Called(ctx, userID, max, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.StrikeOutcome), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyReportCreated(ctx context.Context, reportID, reviewID int64) error {
	args := m.Called(ctx, reportID, reviewID)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyReportRejected(ctx context.Context, reporterID, reviewID int64) error {
	args := m.Called(ctx, reporterID, reviewID)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyContentRemoved(ctx context.Context, authorID, reviewID int64) error {
	args := m.Called(ctx, authorID, reviewID)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyStrike(ctx context.Context, authorID, reviewID int64, strikes, max int, banned bool) error {
	args := m.Called(ctx, authorID, reviewID, strikes, max, banned)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyUserSanction(ctx context.Context, userID int64, strikes, max int, banned bool) error {
	args := m.Called(ctx, userID, strikes, max, banned)
	return args.Error(0)
}

func newTestService() (*Service, *MockReportStore, *MockHistoryStore, *MockReviewStore, *MockUserStore, *MockNotificationSender) {
	reports := new(MockReportStore)
	history := new(MockHistoryStore)
	reviews := new(MockReviewStore)
	users := new(MockUserStore)
	notifs := new(MockNotificationSender)
	svc := NewService(reports, history, reviews, users, notifs, classify.DefaultPipeline())
	return svc, reports, history, reviews, users, notifs
}

func TestService_CreateReport_Success(t *testing.T) {
	svc, reports, _, reviews, _, notifs := newTestService()

	reviews.On("GetByID", mock.Anything, int64(10)).Return(&domain.Review{ID: 10, UserID: 7}, nil)
	reports.On("HasPendingForReview", mock.Anything, int64(10)).Return(false, nil)
	reports.On("Create", mock.Anything, mock.Anything).Return(nil)
	notifs.On("NotifyReportCreated", mock.Anything, int64(500), int64(10)).Return(nil)

	rep, err := svc.CreateReport(context.Background(), 8, CreateReportRequest{
		ReviewID: 10,
		Reason:   "misleading and abusive content",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(500), rep.ID)
	assert.Equal(t, domain.ReportPending, rep.Status)
	notifs.AssertExpectations(t)
}

func TestService_CreateReport_SelfReport(t *testing.T) {
	svc, _, _, reviews, _, _ := newTestService()

	reviews.On("GetByID", mock.Anything, int64(10)).Return(&domain.Review{ID: 10, UserID: 7}, nil)

	_, err := svc.CreateReport(context.Background(), 7, CreateReportRequest{
		ReviewID: 10,
		Reason:   "trying to delete my own review",
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_CreateReport_DuplicatePending(t *testing.T) {
	svc, reports, _, reviews, _, _ := newTestService()

	reviews.On("GetByID", mock.Anything, int64(10)).Return(&domain.Review{ID: 10, UserID: 7}, nil)
	reports.On("HasPendingForReview", mock.Anything, int64(10)).Return(true, nil)

	_, err := svc.CreateReport(context.Background(), 8, CreateReportRequest{
		ReviewID: 10,
		Reason:   "offensive language in the comment",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_CreateReport_LostRaceToOtherReporter(t *testing.T) {
	svc, reports, _, reviews, _, _ := newTestService()

	reviews.On("GetByID", mock.Anything, int64(10)).Return(&domain.Review{ID: 10, UserID: 7}, nil)
	reports.On("HasPendingForReview", mock.Anything, int64(10)).Return(false, nil)
	reports.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.CreateReport(context.Background(), 8, CreateReportRequest{
		ReviewID: 10,
		Reason:   "offensive language in the comment",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_SettleFlagged_BlockedByPendingReport(t *testing.T) {
	svc, _, _, reviews, _, _ := newTestService()

	reviews.On("SettleFlagged", mock.Anything, int64(10), true).
		Return(nil, 0.0, repository.ErrPendingReports)

	_, err := svc.SettleFlagged(context.Background(), 10, true)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_CreateReport_ReasonTooShort(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.CreateReport(context.Background(), 8, CreateReportRequest{ReviewID: 10, Reason: "too short"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Resolve_AcceptedWithStrike(t *testing.T) {
	svc, reports, _, _, _, notifs := newTestService()

	outcome := &repository.ResolveOutcome{
		Report: domain.ReviewReport{
			ID:           500,
			ReviewID:     10,
			ReporterID:   8,
			Status:       domain.ReportAccepted,
			StrikeAction: domain.StrikeWith,
		},
		Review:     domain.Review{ID: 10, UserID: 7, Status: domain.ReviewRejected},
		Action:     domain.ActionStrikeAdded,
		Strikes:    1,
		NewAverage: 4.67,
	}
	reports.On("Resolve", mock.Anything, repository.ResolveParams{
		ReportID:     500,
		AdminID:      1,
		Decision:     domain.ReportAccepted,
		StrikeAction: domain.StrikeWith,
		MaxStrikes:   MaxStrikes,
	}).Return(outcome, nil)
	notifs.On("NotifyStrike", mock.Anything, int64(7), int64(10), 1, MaxStrikes, false).Return(nil)

	res, err := svc.Resolve(context.Background(), 500, 1, ResolveReportRequest{
		Decision:     "Accepted",
		StrikeAction: "WithStrike",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ReviewRejected, res.ReviewStatus)
	assert.Equal(t, domain.ActionStrikeAdded, res.ActionTaken)
	assert.Equal(t, 1, res.AuthorStrikes)
	assert.Equal(t, 4.67, res.NewAverage)
	notifs.AssertExpectations(t)
}

func TestService_Resolve_ThirdStrikeBans(t *testing.T) {
	svc, reports, _, _, _, notifs := newTestService()

	outcome := &repository.ResolveOutcome{
		Report: domain.ReviewReport{
			ID:           501,
			ReviewID:     11,
			Status:       domain.ReportAccepted,
			StrikeAction: domain.StrikeWith,
		},
		Review:     domain.Review{ID: 11, UserID: 7, Status: domain.ReviewRejected},
		Action:     domain.ActionBanApplied,
		Strikes:    3,
		Banned:     true,
		JustBanned: true,
	}
	reports.On("Resolve", mock.Anything, mock.Anything).Return(outcome, nil)
	notifs.On("NotifyStrike", mock.Anything, int64(7), int64(11), 3, MaxStrikes, true).Return(nil)

	res, err := svc.Resolve(context.Background(), 501, 1, ResolveReportRequest{
		Decision:     "Accepted",
		StrikeAction: "WithStrike",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ActionBanApplied, res.ActionTaken)
	assert.True(t, res.AuthorBanned)
	notifs.AssertExpectations(t)
}

func TestService_Resolve_RejectedNotifiesReporter(t *testing.T) {
	svc, reports, _, _, _, notifs := newTestService()

	outcome := &repository.ResolveOutcome{
		Report: domain.ReviewReport{
			ID:         502,
			ReviewID:   12,
			ReporterID: 8,
			Status:     domain.ReportRejected,
		},
		Review: domain.Review{ID: 12, UserID: 7, Status: domain.ReviewApproved},
		Action: domain.ActionNoAction,
	}
	reports.On("Resolve", mock.Anything, mock.MatchedBy(func(p repository.ResolveParams) bool {
		// a rejection never carries a strike action
		return p.Decision == domain.ReportRejected && p.StrikeAction == domain.StrikeNone
	})).Return(outcome, nil)
	notifs.On("NotifyReportRejected", mock.Anything, int64(8), int64(12)).Return(nil)

	res, err := svc.Resolve(context.Background(), 502, 1, ResolveReportRequest{
		Decision:     "Rejected",
		StrikeAction: "WithStrike",
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, res.ReviewStatus)
	assert.Equal(t, domain.ActionNoAction, res.ActionTaken)
	notifs.AssertExpectations(t)
}

func TestService_Resolve_AcceptedRequiresStrikeAction(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.Resolve(context.Background(), 500, 1, ResolveReportRequest{Decision: "Accepted"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Resolve_AlreadyResolved(t *testing.T) {
	svc, reports, _, _, _, _ := newTestService()

	reports.On("Resolve", mock.Anything, mock.Anything).Return(nil, repository.ErrAlreadyResolved)

	_, err := svc.Resolve(context.Background(), 500, 1, ResolveReportRequest{
		Decision:     "Accepted",
		StrikeAction: "WithoutStrike",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_ReportUser_StrikeProgression(t *testing.T) {
	svc, _, _, _, users, notifs := newTestService()

	users.On("GetByID", mock.Anything, int64(7)).Return(&domain.User{ID: 7}, nil)
	users.On("AddStrike", mock.Anything, int64(7), MaxStrikes, mock.Anything).
		Return(&repository.StrikeOutcome{Strikes: 2}, nil)
	notifs.On("NotifyUserSanction", mock.Anything, int64(7), 2, MaxStrikes, false).Return(nil)

	res, err := svc.ReportUser(context.Background(), 1, 7, ReportUserRequest{
		Reason: "repeated offensive comments",
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Strikes)
	assert.False(t, res.Banned)

	// the audit record carries the direct-sanction shape
	rec := users.Calls[1].Arguments.Get(3).(*domain.ReportHistory)
	assert.Equal(t, domain.ReportTypeUser, rec.ReportType)
	assert.Equal(t, int64(7), rec.ReportedUserID)
	assert.Equal(t, int64(1), rec.AdminID)
}

func TestService_ReportUser_UserMissing(t *testing.T) {
	svc, _, _, _, users, _ := newTestService()

	users.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ReportUser(context.Background(), 1, 404, ReportUserRequest{
		Reason: "repeated offensive comments",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ListHistory_InvalidDecision(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, _, err := svc.ListHistory(context.Background(), "Pending", 20, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_ReclassifyAll(t *testing.T) {
	svc, _, _, reviews, _, _ := newTestService()

	stored := []domain.Review{
		{ID: 1, Rating: 5, Comment: "terrible, never again"},
		{ID: 2, Rating: 4, Comment: "great place"},
		{ID: 3, Rating: 2, Comment: ""},
	}
	reviews.On("ListAll", mock.Anything, 100, 0).Return(stored, int64(3), nil)
	reviews.On("UpdateClassification", mock.Anything, int64(1), domain.SentimentNegative, classify.VerdictHighNegative, domain.ActionManualReview, false).Return(nil)
	reviews.On("UpdateClassification", mock.Anything, int64(2), domain.SentimentPositive, classify.VerdictHighOK, domain.ActionAutoValidate, false).Return(nil)
	reviews.On("UpdateClassification", mock.Anything, int64(3), domain.SentimentNoComment, classify.VerdictNoComment, domain.ActionAutoValidate, false).Return(nil)

	n, err := svc.ReclassifyAll(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	reviews.AssertExpectations(t)
}
