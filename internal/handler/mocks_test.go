package handler

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"

	"tourcatalog/internal/model"
	"tourcatalog/internal/service"
)

// MockAttractionQueryService is a mock implementation of AttractionQueryService.
type MockAttractionQueryService struct {
	mock.Mock
}

func (m *MockAttractionQueryService) Query(ctx context.Context, raw url.Values) (*model.PaginationResult, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaginationResult), args.Error(1)
}

func (m *MockAttractionQueryService) Search(ctx context.Context, filter model.AttractionFilter) (*model.PaginationResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaginationResult), args.Error(1)
}

func (m *MockAttractionQueryService) GetPublished(ctx context.Context, id uint) (*model.Attraction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attraction), args.Error(1)
}

// MockPasswordResetService is a mock implementation of PasswordResetService.
type MockPasswordResetService struct {
	mock.Mock
}

func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockPasswordResetService) ValidateToken(ctx context.Context, rawToken, email string) (*service.ResetTokenStatus, error) {
	args := m.Called(ctx, rawToken, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResetTokenStatus), args.Error(1)
}

func (m *MockPasswordResetService) ConsumeReset(ctx context.Context, rawToken, email, newPassword string) error {
	args := m.Called(ctx, rawToken, email, newPassword)
	return args.Error(0)
}

// MockImportService is a mock implementation of ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Import(ctx context.Context, bundle *service.CatalogBundle) (*service.ImportSummary, error) {
	args := m.Called(ctx, bundle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportSummary), args.Error(1)
}
