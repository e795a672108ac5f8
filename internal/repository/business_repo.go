package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"accesspoint/internal/domain"
)

type businessModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	OwnerID       int64     `gorm:"column:owner_id;index"`
	Name          string    `gorm:"column:name"`
	Description   *string   `gorm:"column:description"`
	Category      *string   `gorm:"column:category"`
	Address       *string   `gorm:"column:address"`
	AverageRating float64   `gorm:"column:average_rating;index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (businessModel) TableName() string { return "businesses" }

func toDomainBusiness(m businessModel) domain.Business {
	b := domain.Business{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		Name:          m.Name,
		AverageRating: m.AverageRating,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Description != nil {
		b.Description = *m.Description
	}
	if m.Category != nil {
		b.Category = *m.Category
	}
	if m.Address != nil {
		b.Address = *m.Address
	}
	return b
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) DB() *gorm.DB { return r.db }

func (r *BusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	m := businessModel{
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: nullable(b.Description),
		Category:    nullable(b.Category),
		Address:     nullable(b.Address),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = toDomainBusiness(m)
	return nil
}

func (r *BusinessRepository) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	var m businessModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	b := toDomainBusiness(m)
	return &b, nil
}

func (r *BusinessRepository) List(ctx context.Context, limit, offset int) ([]domain.Business, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&businessModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []businessModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Business, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainBusiness(m))
	}
	return out, total, nil
}

// TopRatedAbove returns the single best-rated business with an average
// strictly above min. Ties break toward the most recently created id.
// gorm.ErrRecordNotFound when no business qualifies.
func (r *BusinessRepository) TopRatedAbove(ctx context.Context, min float64) (*domain.Business, error) {
	var m businessModel
	err := r.db.WithContext(ctx).
		Where("average_rating > ?", min).
		Order("average_rating DESC, id DESC").
		First(&m).Error
	if err != nil {
		return nil, err
	}
	b := toDomainBusiness(m)
	return &b, nil
}
