package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"accesspoint/internal/domain"
)

type reportModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	ReviewID     int64     `gorm:"column:review_id;index"`
	ReporterID   int64     `gorm:"column:reporter_id;index"`
	AdminID      *int64    `gorm:"column:admin_id"`
	Reason       string    `gorm:"column:reason"`
	Status       string    `gorm:"column:status;index"`
	StrikeAction string    `gorm:"column:strike_action"`
	AdminNotes   *string   `gorm:"column:admin_notes"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (reportModel) TableName() string { return "review_reports" }

func toDomainReport(m reportModel) domain.ReviewReport {
	return domain.ReviewReport{
		ID:           m.ID,
		ReviewID:     m.ReviewID,
		ReporterID:   m.ReporterID,
		AdminID:      m.AdminID,
		Reason:       m.Reason,
		Status:       domain.ReportStatus(m.Status),
		StrikeAction: domain.StrikeAction(m.StrikeAction),
		AdminNotes:   m.AdminNotes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) DB() *gorm.DB { return r.db }

// Create files a report and forces the parent review into InReview, as
// one transaction.
func (r *ReportRepository) Create(ctx context.Context, rep *domain.ReviewReport) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := reportModel{
			ReviewID:     rep.ReviewID,
			ReporterID:   rep.ReporterID,
			Reason:       rep.Reason,
			Status:       string(domain.ReportPending),
			StrikeAction: string(domain.StrikeNone),
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*rep = toDomainReport(m)

		return tx.Model(&reviewModel{}).
			Where("id = ?", rep.ReviewID).
			Updates(map[string]any{
				"status":     string(domain.ReviewInReview),
				"updated_at": time.Now().UTC(),
			}).Error
	})
}

func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*domain.ReviewReport, error) {
	var m reportModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	rep := toDomainReport(m)
	return &rep, nil
}

func (r *ReportRepository) HasPendingForReview(ctx context.Context, reviewID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reportModel{}).
		Where("review_id = ? AND status = ?", reviewID, string(domain.ReportPending)).
		Count(&count).Error
	return count > 0, err
}

func (r *ReportRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.ReviewReport, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).
		Model(&reportModel{}).
		Where("status = ?", string(domain.ReportPending))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reportModel
	err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.ReviewReport, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainReport(m))
	}
	return out, total, nil
}

type ResolveParams struct {
	ReportID     int64
	AdminID      int64
	Decision     domain.ReportStatus
	StrikeAction domain.StrikeAction
	AdminNotes   string
	MaxStrikes   int
}

type ResolveOutcome struct {
	Report     domain.ReviewReport
	Review     domain.Review
	Action     domain.ModerationAction
	Strikes    int
	Banned     bool
	JustBanned bool
	NewAverage float64
}

// Resolve settles a pending report. The report row is locked for the
// duration, so a concurrent or repeated resolution sees the terminal
// status and fails with ErrAlreadyResolved instead of re-applying strike
// effects. Status transition, review visibility, strike increment, ban
// flag and the history record commit or roll back together.
func (r *ReportRepository) Resolve(ctx context.Context, p ResolveParams) (*ResolveOutcome, error) {
	out := &ResolveOutcome{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rep reportModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rep, p.ReportID).Error; err != nil {
			return err
		}
		if rep.Status != string(domain.ReportPending) {
			return ErrAlreadyResolved
		}

		var rvm reviewModel
		if err := tx.First(&rvm, rep.ReviewID).Error; err != nil {
			return err
		}
		rv := toDomainReview(rvm)

		now := time.Now().UTC()
		strikeAction := p.StrikeAction
		if p.Decision == domain.ReportRejected {
			strikeAction = domain.StrikeNone
		}

		res := tx.Model(&reportModel{}).Where("id = ?", p.ReportID).Updates(map[string]any{
			"status":        string(p.Decision),
			"strike_action": string(strikeAction),
			"admin_id":      p.AdminID,
			"admin_notes":   nullable(p.AdminNotes),
			"updated_at":    now,
		})
		if res.Error != nil {
			return res.Error
		}

		switch p.Decision {
		case domain.ReportRejected:
			// The report did not stand; the review is visible again.
			err := tx.Model(&reviewModel{}).Where("id = ?", rv.ID).Updates(map[string]any{
				"status":     string(domain.ReviewApproved),
				"updated_at": now,
			}).Error
			if err != nil {
				return err
			}
			rv.Status = domain.ReviewApproved
			out.Action = domain.ActionNoAction

		case domain.ReportAccepted:
			if err := lockBusiness(tx, rv.BusinessID); err != nil {
				return err
			}
			err := tx.Model(&reviewModel{}).Where("id = ?", rv.ID).Updates(map[string]any{
				"status":     string(domain.ReviewRejected),
				"updated_at": now,
			}).Error
			if err != nil {
				return err
			}
			rv.Status = domain.ReviewRejected

			avg, err := recalcAverage(tx, rv.BusinessID)
			if err != nil {
				return err
			}
			out.NewAverage = avg
			out.Action = domain.ActionDeleted

			if strikeAction == domain.StrikeWith {
				so, err := applyStrike(tx, rv.UserID, p.MaxStrikes)
				if err != nil {
					return err
				}
				out.Strikes = so.Strikes
				out.Banned = so.Banned
				out.JustBanned = so.JustBanned
				out.Action = domain.ActionStrikeAdded
				if so.JustBanned {
					out.Action = domain.ActionBanApplied
				}
			}
		}

		adminID := p.AdminID
		rec := &domain.ReportHistory{
			ReportID:        &rep.ID,
			ReportType:      domain.ReportTypeReview,
			ReviewID:        &rv.ID,
			ReporterID:      &rep.ReporterID,
			ReportedUserID:  rv.UserID,
			AdminID:         adminID,
			Decision:        p.Decision,
			Reason:          rep.Reason,
			AdminNotes:      p.AdminNotes,
			ContentSnapshot: rv.Comment,
			RatingSnapshot:  rv.Rating,
			ActionTaken:     out.Action,
		}
		if err := appendHistory(tx, rec); err != nil {
			return err
		}

		rep.Status = string(p.Decision)
		rep.StrikeAction = string(strikeAction)
		rep.AdminID = &adminID
		out.Report = toDomainReport(rep)
		out.Review = rv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
