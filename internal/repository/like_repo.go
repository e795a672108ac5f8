package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type likeModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	ReviewID  int64     `gorm:"column:review_id;uniqueIndex:idx_one_like_per_user"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_one_like_per_user"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (likeModel) TableName() string { return "review_likes" }

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) DB() *gorm.DB { return r.db }

func (r *LikeRepository) Add(ctx context.Context, reviewID, userID int64) error {
	m := likeModel{ReviewID: reviewID, UserID: userID}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *LikeRepository) Remove(ctx context.Context, reviewID, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&likeModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *LikeRepository) Count(ctx context.Context, reviewID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&likeModel{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error
	return count, err
}

func (r *LikeRepository) Exists(ctx context.Context, reviewID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&likeModel{}).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Count(&count).Error
	return count > 0, err
}
