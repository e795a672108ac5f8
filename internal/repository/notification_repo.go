package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"accesspoint/internal/domain"
)

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index:idx_notifications_user_read"`
	Type      string    `gorm:"column:type;index"`
	Message   string    `gorm:"column:message"`
	RelatedID int64     `gorm:"column:related_id"`
	IsRead    bool      `gorm:"column:is_read;index:idx_notifications_user_read"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) domain.Notification {
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Type),
		Message:   m.Message,
		RelatedID: m.RelatedID,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) DB() *gorm.DB { return r.db }

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		UserID:    n.UserID,
		Type:      string(n.Type),
		Message:   n.Message,
		RelatedID: n.RelatedID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*n = toDomainNotification(m)
	return nil
}

// CreateBatch persists one row per recipient in a single transaction, so
// a fan-out either reaches every resolved recipient or none.
func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	rows := make([]notificationModel, 0, len(ns))
	for _, n := range ns {
		rows = append(rows, notificationModel{
			UserID:    n.UserID,
			Type:      string(n.Type),
			Message:   n.Message,
			RelatedID: n.RelatedID,
		})
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, 200).Error
	})
}

// ListByUser returns a user's notifications restricted to types, newest
// first. The caller passes the role-appropriate type set.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, types []domain.NotificationType, limit, offset int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND type IN ?", userID, typeStrings(types))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []notificationModel
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, total, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64, types []domain.NotificationType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ? AND type IN ?", userID, false, typeStrings(types)).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func typeStrings(types []domain.NotificationType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}
