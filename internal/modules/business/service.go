package business

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"accesspoint/internal/domain"
)

type Store interface {
	Create(ctx context.Context, b *domain.Business) error
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	List(ctx context.Context, limit, offset int) ([]domain.Business, int64, error)
	TopRatedAbove(ctx context.Context, min float64) (*domain.Business, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateBusinessRequest) (*domain.Business, error) {
	b := &domain.Business{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Address:     req.Address,
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Business, int64, error) {
	return s.store.List(ctx, limit, offset)
}

// TopRated returns the best-rated business above the threshold, or nil
// when nothing qualifies yet.
func (s *Service) TopRated(ctx context.Context, min float64) (*domain.Business, error) {
	b, err := s.store.TopRatedAbove(ctx, min)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}
