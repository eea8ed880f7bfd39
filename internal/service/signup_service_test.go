package service

import (
	"context"
	"errors"
	"testing"

	"hope-store/internal/model"
	"hope-store/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSignupRepository is a mock implementation of SignupRepository.
type MockSignupRepository struct {
	mock.Mock
}

func (m *MockSignupRepository) Insert(ctx context.Context, signup model.Signup) error {
	args := m.Called(ctx, signup)
	return args.Error(0)
}

func TestSignupService_Subscribe(t *testing.T) {
	storeErr := &repository.StoreError{Backend: repository.BackendSupabase, Status: 503, Details: "down"}

	tests := []struct {
		name           string
		req            model.SignupRequest
		setupMock      func(*MockSignupRepository)
		expectedResp   *model.SignupResponse
		expectedErr    error
		expectStoreErr bool
	}{
		{
			name: "Success - normalised email and default source",
			req:  model.SignupRequest{Email: "  User@Example.COM "},
			setupMock: func(m *MockSignupRepository) {
				m.On("Insert", mock.Anything, model.Signup{Email: "user@example.com", Source: "footer"}).Return(nil)
			},
			expectedResp: &model.SignupResponse{OK: true, Logged: true},
		},
		{
			name: "Success - trimmed source",
			req:  model.SignupRequest{Email: "user@example.com", Source: " popup "},
			setupMock: func(m *MockSignupRepository) {
				m.On("Insert", mock.Anything, model.Signup{Email: "user@example.com", Source: "popup"}).Return(nil)
			},
			expectedResp: &model.SignupResponse{OK: true, Logged: true},
		},
		{
			name: "Already subscribed",
			req:  model.SignupRequest{Email: "user@example.com"},
			setupMock: func(m *MockSignupRepository) {
				m.On("Insert", mock.Anything, mock.Anything).Return(model.ErrAlreadySubscribed)
			},
			expectedResp: &model.SignupResponse{OK: true, Logged: true, AlreadySubscribed: true},
		},
		{
			name:        "Blank email",
			req:         model.SignupRequest{Email: "   "},
			setupMock:   func(m *MockSignupRepository) {},
			expectedErr: model.ErrEmailRequired,
		},
		{
			name:        "Invalid email",
			req:         model.SignupRequest{Email: "user@@example.com"},
			setupMock:   func(m *MockSignupRepository) {},
			expectedErr: model.ErrInvalidEmail,
		},
		{
			name: "Store failure",
			req:  model.SignupRequest{Email: "user@example.com"},
			setupMock: func(m *MockSignupRepository) {
				m.On("Insert", mock.Anything, mock.Anything).Return(storeErr)
			},
			expectStoreErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSignupRepository)
			tt.setupMock(repo)
			svc := NewSignupService(repo, zerolog.Nop())

			resp, err := svc.Subscribe(context.Background(), tt.req)

			switch {
			case tt.expectedErr != nil:
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, resp)
				repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
			case tt.expectStoreErr:
				require.Error(t, err)
				var se *repository.StoreError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, 503, se.HTTPStatus())
				assert.Nil(t, resp)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.expectedResp, resp)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestSignupService_NoStore(t *testing.T) {
	svc := NewSignupService(nil, zerolog.Nop())

	resp, err := svc.Subscribe(context.Background(), model.SignupRequest{Email: "user@example.com"})
	assert.ErrorIs(t, err, model.ErrStoreNotConfigured)
	assert.Nil(t, resp)

	// Validation still runs first.
	_, err = svc.Subscribe(context.Background(), model.SignupRequest{Email: "nope"})
	assert.ErrorIs(t, err, model.ErrInvalidEmail)
}
