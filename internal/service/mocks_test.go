package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"tourcatalog/internal/auth"
	"tourcatalog/internal/model"
	"tourcatalog/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) SetResetTicket(ctx context.Context, userID uint, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) FindByResetTicket(ctx context.Context, email, tokenHash string, now time.Time) (*model.User, error) {
	args := m.Called(ctx, email, tokenHash, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ConsumeResetTicket(ctx context.Context, email, tokenHash string, now time.Time, passwordHash string) (bool, error) {
	args := m.Called(ctx, email, tokenHash, now, passwordHash)
	return args.Bool(0), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, sub auth.Subject, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, sub, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (auth.Subject, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(auth.Subject), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockResetMailer is a mock implementation of ResetMailer.
type MockResetMailer struct {
	mock.Mock
}

func (m *MockResetMailer) SendPasswordReset(ctx context.Context, toEmail, resetURL string, expiresIn time.Duration) error {
	args := m.Called(ctx, toEmail, resetURL, expiresIn)
	return args.Error(0)
}

// MockAttractionRepository is a mock implementation of AttractionRepository.
type MockAttractionRepository struct {
	mock.Mock
}

func (m *MockAttractionRepository) SearchPublished(ctx context.Context, filter model.AttractionFilter) ([]model.Attraction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Attraction), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttractionRepository) SearchAll(ctx context.Context, filter model.AttractionFilter) ([]model.Attraction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Attraction), args.Get(1).(int64), args.Error(2)
}

func (m *MockAttractionRepository) FindByID(ctx context.Context, id uint) (*model.Attraction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attraction), args.Error(1)
}

func (m *MockAttractionRepository) FindPublishedByID(ctx context.Context, id uint) (*model.Attraction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attraction), args.Error(1)
}

func (m *MockAttractionRepository) FindByName(ctx context.Context, name string) (*model.Attraction, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attraction), args.Error(1)
}

func (m *MockAttractionRepository) Create(ctx context.Context, attraction *model.Attraction) error {
	args := m.Called(ctx, attraction)
	return args.Error(0)
}

func (m *MockAttractionRepository) Update(ctx context.Context, attraction *model.Attraction) error {
	args := m.Called(ctx, attraction)
	return args.Error(0)
}

func (m *MockAttractionRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	args := m.Called(ctx, id, published)
	return args.Error(0)
}

func (m *MockAttractionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAttractionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.AttractionRepository) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}
