package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"accesspoint/internal/domain"
)

type userModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	Email            string    `gorm:"column:email;uniqueIndex"`
	PasswordHash     string    `gorm:"column:password_hash"`
	Name             string    `gorm:"column:name"`
	Role             string    `gorm:"column:role;index"`
	OffensiveStrikes int       `gorm:"column:offensive_strikes"`
	Banned           bool      `gorm:"column:banned"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) domain.User {
	return domain.User{
		ID:               m.ID,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		Name:             m.Name,
		Role:             domain.Role(m.Role),
		OffensiveStrikes: m.OffensiveStrikes,
		Banned:           m.Banned,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := userModel{
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		Name:             u.Name,
		Role:             string(u.Role),
		OffensiveStrikes: u.OffensiveStrikes,
		Banned:           u.Banned,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*u = toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	u := toDomainUser(m)
	return &u, nil
}

// IDsByRole returns the ids of every user holding role. Used by the
// notification fan-out resolvers.
func (r *UserRepository) IDsByRole(ctx context.Context, role domain.Role) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("role = ?", string(role)).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// IDsExcludingRole returns the ids of every user NOT holding role.
func (r *UserRepository) IDsExcludingRole(ctx context.Context, role domain.Role) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("role <> ?", string(role)).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

// StrikeOutcome reports the strike counter after an increment.
type StrikeOutcome struct {
	Strikes    int
	Banned     bool
	JustBanned bool
}

// applyStrike increments a user's offensive-strike counter inside tx,
// flipping the banned flag exactly when the counter reaches max. The row
// is locked so concurrent resolutions serialize on the same user.
func applyStrike(tx *gorm.DB, userID int64, max int) (*StrikeOutcome, error) {
	var m userModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, userID).Error; err != nil {
		return nil, err
	}

	m.OffensiveStrikes++
	out := &StrikeOutcome{Strikes: m.OffensiveStrikes, Banned: m.Banned}
	if !m.Banned && m.OffensiveStrikes >= max {
		m.Banned = true
		out.Banned = true
		out.JustBanned = true
	}

	err := tx.Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"offensive_strikes": m.OffensiveStrikes,
			"banned":            m.Banned,
			"updated_at":        time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AddStrike applies a strike outside the report flow (the admin direct
// report). Strike, ban flag and the audit history record are one atomic
// unit.
func (r *UserRepository) AddStrike(ctx context.Context, userID int64, max int, rec *domain.ReportHistory) (*StrikeOutcome, error) {
	var out *StrikeOutcome
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := applyStrike(tx, userID, max)
		if err != nil {
			return err
		}
		out = o

		if rec != nil {
			rec.ActionTaken = domain.ActionStrikeAdded
			if o.JustBanned {
				rec.ActionTaken = domain.ActionBanApplied
			}
			if err := appendHistory(tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
