package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accesspoint/internal/domain"
)

type historyModel struct {
	ID              string    `gorm:"column:id;primaryKey"`
	ReportID        *int64    `gorm:"column:report_id;index"`
	ReportType      string    `gorm:"column:report_type"`
	ReviewID        *int64    `gorm:"column:review_id"`
	ReporterID      *int64    `gorm:"column:reporter_id"`
	ReportedUserID  int64     `gorm:"column:reported_user_id;index"`
	AdminID         int64     `gorm:"column:admin_id"`
	Decision        string    `gorm:"column:decision;index"`
	Reason          string    `gorm:"column:reason"`
	AdminNotes      *string   `gorm:"column:admin_notes"`
	ContentSnapshot *string   `gorm:"column:content_snapshot"`
	RatingSnapshot  int       `gorm:"column:rating_snapshot"`
	ActionTaken     string    `gorm:"column:action_taken"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (historyModel) TableName() string { return "report_history" }

func toDomainHistory(m historyModel) domain.ReportHistory {
	h := domain.ReportHistory{
		ID:             m.ID,
		ReportID:       m.ReportID,
		ReportType:     m.ReportType,
		ReviewID:       m.ReviewID,
		ReporterID:     m.ReporterID,
		ReportedUserID: m.ReportedUserID,
		AdminID:        m.AdminID,
		Decision:       domain.ReportStatus(m.Decision),
		Reason:         m.Reason,
		RatingSnapshot: m.RatingSnapshot,
		ActionTaken:    domain.ModerationAction(m.ActionTaken),
		CreatedAt:      m.CreatedAt,
	}
	if m.AdminNotes != nil {
		h.AdminNotes = *m.AdminNotes
	}
	if m.ContentSnapshot != nil {
		h.ContentSnapshot = *m.ContentSnapshot
	}
	return h
}

// appendHistory writes one immutable audit record inside the caller's
// transaction.
func appendHistory(tx *gorm.DB, rec *domain.ReportHistory) error {
	m := historyModel{
		ID:              uuid.NewString(),
		ReportID:        rec.ReportID,
		ReportType:      rec.ReportType,
		ReviewID:        rec.ReviewID,
		ReporterID:      rec.ReporterID,
		ReportedUserID:  rec.ReportedUserID,
		AdminID:         rec.AdminID,
		Decision:        string(rec.Decision),
		Reason:          rec.Reason,
		AdminNotes:      nullable(rec.AdminNotes),
		ContentSnapshot: nullable(rec.ContentSnapshot),
		RatingSnapshot:  rec.RatingSnapshot,
		ActionTaken:     string(rec.ActionTaken),
	}
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	rec.ID = m.ID
	rec.CreatedAt = m.CreatedAt
	return nil
}

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) DB() *gorm.DB { return r.db }

// List returns resolved-report history, newest first, optionally filtered
// by decision ("Accepted"/"Rejected").
func (r *HistoryRepository) List(ctx context.Context, decision string, limit, offset int) ([]domain.ReportHistory, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&historyModel{})
	if decision != "" {
		q = q.Where("decision = ?", decision)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []historyModel
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.ReportHistory, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainHistory(m))
	}
	return out, total, nil
}
