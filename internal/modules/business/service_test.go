package business

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"accesspoint/internal/domain"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, b *domain.Business) error {
	args := m.Called(ctx, b)
	if b != nil && args.Error(0) == nil {
		b.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockStore) GetByID(ctx context.Context, id int64) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *MockStore) List(ctx context.Context, limit, offset int) ([]domain.Business, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Business), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) TopRatedAbove(ctx context.Context, min float64) (*domain.Business, error) {
	args := m.Called(ctx, min)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func TestService_Create_BindsOwner(t *testing.T) {
	store := new(MockStore)
	store.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(store)

	b, err := svc.Create(context.Background(), 7, CreateBusinessRequest{Name: "Coffee Lab"})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), b.OwnerID)
	assert.Equal(t, int64(42), b.ID)
}

func TestService_GetByID_Missing(t *testing.T) {
	store := new(MockStore)
	store.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)
	svc := NewService(store)

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_TopRated(t *testing.T) {
	store := new(MockStore)
	store.On("TopRatedAbove", mock.Anything, 4.0).
		Return(&domain.Business{ID: 3, Name: "Green Garden", AverageRating: 4.8}, nil)
	svc := NewService(store)

	top, err := svc.TopRated(context.Background(), 4.0)
	assert.NoError(t, err)
	assert.Equal(t, "Green Garden", top.Name)
}

func TestService_TopRated_NoneQualifies(t *testing.T) {
	store := new(MockStore)
	store.On("TopRatedAbove", mock.Anything, 4.0).Return(nil, gorm.ErrRecordNotFound)
	svc := NewService(store)

	top, err := svc.TopRated(context.Background(), 4.0)
	assert.NoError(t, err)
	assert.Nil(t, top)
}
