package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"accesspoint/internal/domain"
)

// newTestDB opens a private in-memory database per test. cache=shared
// keeps the schema visible across the pool's connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedBusiness(t *testing.T, db *gorm.DB) *domain.Business {
	t.Helper()
	b := &domain.Business{OwnerID: 1, Name: "Coffee Lab"}
	require.NoError(t, NewBusinessRepository(db).Create(context.Background(), b))
	return b
}

func addReview(t *testing.T, repo *ReviewRepository, businessID, userID int64, rating int) (*domain.Review, float64) {
	t.Helper()
	rv := &domain.Review{
		BusinessID: businessID,
		UserID:     userID,
		Rating:     rating,
		Status:     domain.ReviewApproved,
	}
	avg, err := repo.CreateAndRecalc(context.Background(), rv)
	require.NoError(t, err)
	return rv, avg
}

func TestReviewRepository_AverageLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)
	b := seedBusiness(t, db)

	_, avg := addReview(t, repo, b.ID, 1, 5)
	assert.InDelta(t, 5.0, avg, 0.001)

	_, avg = addReview(t, repo, b.ID, 2, 5)
	assert.InDelta(t, 5.0, avg, 0.001)

	_, avg = addReview(t, repo, b.ID, 3, 4)
	assert.InDelta(t, 4.67, avg, 0.001)

	low, avg := addReview(t, repo, b.ID, 4, 2)
	assert.InDelta(t, 4.0, avg, 0.001)

	// the stored aggregate tracks the returned one
	stored, err := NewBusinessRepository(db).GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, stored.AverageRating, 0.001)

	avg, err = repo.DeleteAndRecalc(ctx, low.ID, b.ID, false)
	require.NoError(t, err)
	assert.InDelta(t, 4.67, avg, 0.001)
}

func TestReviewRepository_AverageZeroWhenEmpty(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)
	b := seedBusiness(t, db)

	rv, avg := addReview(t, repo, b.ID, 1, 3)
	assert.InDelta(t, 3.0, avg, 0.001)

	avg, err := repo.DeleteAndRecalc(ctx, rv.ID, b.ID, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, avg, 0.001)
}

func TestReviewRepository_RejectedExcludedFromAverage(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	b := seedBusiness(t, db)

	addReview(t, repo, b.ID, 1, 5)
	rv := &domain.Review{
		BusinessID: b.ID,
		UserID:     2,
		Rating:     1,
		Status:     domain.ReviewRejected,
	}
	avg, err := repo.CreateAndRecalc(context.Background(), rv)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, avg, 0.001)
}

func TestReviewRepository_OneReviewPerUserPerBusiness(t *testing.T) {
	db := newTestDB(t)
	repo := NewReviewRepository(db)
	b := seedBusiness(t, db)

	addReview(t, repo, b.ID, 1, 5)

	dup := &domain.Review{BusinessID: b.ID, UserID: 1, Rating: 1, Status: domain.ReviewApproved}
	_, err := repo.CreateAndRecalc(context.Background(), dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}

func TestReviewRepository_DeleteBlockedByPendingReport(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)
	b := seedBusiness(t, db)

	rv, _ := addReview(t, repo, b.ID, 1, 2)

	rep := &domain.ReviewReport{ReviewID: rv.ID, ReporterID: 2, Reason: "inappropriate language here"}
	require.NoError(t, NewReportRepository(db).Create(ctx, rep))

	_, err := repo.DeleteAndRecalc(ctx, rv.ID, b.ID, false)
	assert.ErrorIs(t, err, ErrPendingReports)

	// admins force through
	avg, err := repo.DeleteAndRecalc(ctx, rv.ID, b.ID, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, avg, 0.001)
}

func TestReviewRepository_SettleFlaggedBlockedByPendingReport(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)
	b := seedBusiness(t, db)

	rv, _ := addReview(t, repo, b.ID, 1, 2)

	rep := &domain.ReviewReport{ReviewID: rv.ID, ReporterID: 2, Reason: "inappropriate language here"}
	require.NoError(t, NewReportRepository(db).Create(ctx, rep))

	_, _, err := repo.SettleFlagged(ctx, rv.ID, true)
	assert.ErrorIs(t, err, ErrPendingReports)

	// the report resolution still owns the review
	got, err := repo.GetByID(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewInReview, got.Status)
	assert.False(t, got.AdminReviewed)
}

func TestReportRepository_OnePendingReportPerReview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	reportRepo := NewReportRepository(db)
	b := seedBusiness(t, db)

	rv, _ := addReview(t, NewReviewRepository(db), b.ID, 1, 2)

	first := &domain.ReviewReport{ReviewID: rv.ID, ReporterID: 2, Reason: "inappropriate language here"}
	require.NoError(t, reportRepo.Create(ctx, first))

	second := &domain.ReviewReport{ReviewID: rv.ID, ReporterID: 3, Reason: "also looks like spam to me"}
	err := reportRepo.Create(ctx, second)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestReportRepository_CreateMarksReviewInReview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	reviewRepo := NewReviewRepository(db)
	b := seedBusiness(t, db)

	rv, _ := addReview(t, reviewRepo, b.ID, 1, 2)

	rep := &domain.ReviewReport{ReviewID: rv.ID, ReporterID: 2, Reason: "inappropriate language here"}
	require.NoError(t, NewReportRepository(db).Create(ctx, rep))
	assert.Equal(t, domain.ReportPending, rep.Status)

	got, err := reviewRepo.GetByID(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewInReview, got.Status)
}

func TestReportRepository_ResolveAcceptedWithStrike(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	reviewRepo := NewReviewRepository(db)
	reportRepo := NewReportRepository(db)
	userRepo := NewUserRepository(db)
	b := seedBusiness(t, db)

	author := &domain.User{Email: "author@example.com", Role: domain.RoleUser}
	require.NoError(t, userRepo.Create(ctx, author))

	addReview(t, reviewRepo, b.ID, 99, 5)
	bad := &domain.Review{
		BusinessID: b.ID,
		UserID:     author.ID,
		Rating:     1,
		Comment:    "this place is basura",
		Status:     domain.ReviewApproved,
	}
	_, err := reviewRepo.CreateAndRecalc(ctx, bad)
	require.NoError(t, err)

	rep := &domain.ReviewReport{ReviewID: bad.ID, ReporterID: 98, Reason: "offensive language in comment"}
	require.NoError(t, reportRepo.Create(ctx, rep))

	out, err := reportRepo.Resolve(ctx, ResolveParams{
		ReportID:     rep.ID,
		AdminID:      1,
		Decision:     domain.ReportAccepted,
		StrikeAction: domain.StrikeWith,
		MaxStrikes:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReportAccepted, out.Report.Status)
	assert.Equal(t, domain.ReviewRejected, out.Review.Status)
	assert.Equal(t, domain.ActionStrikeAdded, out.Action)
	assert.Equal(t, 1, out.Strikes)
	assert.False(t, out.Banned)
	// the rejected review no longer counts
	assert.InDelta(t, 5.0, out.NewAverage, 0.001)

	// audit record snapshots the content
	hist, total, err := NewHistoryRepository(db).List(ctx, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "this place is basura", hist[0].ContentSnapshot)
	assert.Equal(t, 1, hist[0].RatingSnapshot)
	assert.Equal(t, domain.ActionStrikeAdded, hist[0].ActionTaken)

	// resolutions are one-shot
	_, err = reportRepo.Resolve(ctx, ResolveParams{
		ReportID:     rep.ID,
		AdminID:      1,
		Decision:     domain.ReportAccepted,
		StrikeAction: domain.StrikeWith,
		MaxStrikes:   3,
	})
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	// and the strike was not double counted
	u, err := userRepo.GetByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.OffensiveStrikes)
}

func TestReportRepository_ResolveRejectedRestoresReview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	reviewRepo := NewReviewRepository(db)
	reportRepo := NewReportRepository(db)
	b := seedBusiness(t, db)

	rv, _ := addReview(t, reviewRepo, b.ID, 1, 4)
	rep := &domain.ReviewReport{ReviewID: rv.ID, ReporterID: 2, Reason: "I simply disagree with it"}
	require.NoError(t, reportRepo.Create(ctx, rep))

	out, err := reportRepo.Resolve(ctx, ResolveParams{
		ReportID: rep.ID,
		AdminID:  1,
		Decision: domain.ReportRejected,
		// a rejection ignores whatever strike action was sent
		StrikeAction: domain.StrikeWith,
		MaxStrikes:   3,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ActionNoAction, out.Action)
	assert.Equal(t, domain.StrikeNone, out.Report.StrikeAction)

	got, err := reviewRepo.GetByID(ctx, rv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, got.Status)
}

func TestUserRepository_AddStrike_BanAtThreshold(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := &domain.User{Email: "strikes@example.com", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, u))

	for i := 1; i <= 3; i++ {
		out, err := repo.AddStrike(ctx, u.ID, 3, &domain.ReportHistory{
			ReportType:     domain.ReportTypeUser,
			ReportedUserID: u.ID,
			AdminID:        1,
			Decision:       domain.ReportAccepted,
			Reason:         "repeated offensive comments",
		})
		require.NoError(t, err)
		assert.Equal(t, i, out.Strikes)
		assert.Equal(t, i == 3, out.Banned)
		assert.Equal(t, i == 3, out.JustBanned)
	}

	// a fourth strike never un-bans or re-bans
	out, err := repo.AddStrike(ctx, u.ID, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, out.Strikes)
	assert.True(t, out.Banned)
	assert.False(t, out.JustBanned)

	_, total, err := NewHistoryRepository(db).List(ctx, "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestNotificationRepository_TypeFiltering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewNotificationRepository(db)

	batch := []domain.Notification{
		{UserID: 1, Type: domain.NotifReviewAlert, Message: "report filed"},
		{UserID: 1, Type: domain.NotifSuggestion, Message: "top rated"},
		{UserID: 2, Type: domain.NotifSuggestion, Message: "top rated"},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	admin, total, err := repo.ListByUser(ctx, 1, domain.AdminNotificationTypes, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, domain.NotifReviewAlert, admin[0].Type)

	user, total, err := repo.ListByUser(ctx, 1, domain.UserNotificationTypes, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, domain.NotifSuggestion, user[0].Type)

	unread, err := repo.CountUnread(ctx, 2, domain.UserNotificationTypes)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, repo.MarkAllRead(ctx, 2))
	unread, err = repo.CountUnread(ctx, 2, domain.UserNotificationTypes)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
