package handler

import (
	"context"

	"hope-store/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, query string, limit, offset int) ([]model.Product, int, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockSignupService is a mock implementation of SignupService.
type MockSignupService struct {
	mock.Mock
}

func (m *MockSignupService) Subscribe(ctx context.Context, req model.SignupRequest) (*model.SignupResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SignupResponse), args.Error(1)
}

// MockInquiryService is a mock implementation of InquiryService.
type MockInquiryService struct {
	mock.Mock
}

func (m *MockInquiryService) Log(ctx context.Context, inquiry model.Inquiry) (*model.InquiryResponse, error) {
	args := m.Called(ctx, inquiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InquiryResponse), args.Error(1)
}

func (m *MockInquiryService) PurgeExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
