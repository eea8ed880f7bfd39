package newsletter

import (
	"context"
	"errors"
	"testing"

	"hope-store/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSubscriber is a mock implementation of Subscriber.
type MockSubscriber struct {
	mock.Mock
}

func (m *MockSubscriber) Subscribe(ctx context.Context, email, source string) (model.SignupResponse, error) {
	args := m.Called(ctx, email, source)
	return args.Get(0).(model.SignupResponse), args.Error(1)
}

// blockingSubscriber holds every call until release is closed.
type blockingSubscriber struct {
	started chan struct{}
	release chan struct{}
	resp    model.SignupResponse
}

func (b *blockingSubscriber) Subscribe(ctx context.Context, email, source string) (model.SignupResponse, error) {
	close(b.started)
	<-b.release
	return b.resp, nil
}

func TestForm_InvalidEmailSkipsNetwork(t *testing.T) {
	sub := new(MockSubscriber)
	form := NewForm(sub, zerolog.Nop())
	assert.Equal(t, StateIdle, form.State())

	form.SetEmail("bad-email")
	result, err := form.Submit(context.Background(), "footer")

	require.NoError(t, err)
	assert.Equal(t, StateError, result.State)
	assert.Equal(t, "Please enter a valid email address.", result.Feedback)
	assert.Equal(t, StateError, form.State())
	sub.AssertNotCalled(t, "Subscribe", mock.Anything, mock.Anything, mock.Anything)
}

func TestForm_Submit(t *testing.T) {
	tests := []struct {
		name             string
		resp             model.SignupResponse
		err              error
		expectedState    State
		expectedFeedback string
		expectedAlready  bool
	}{
		{
			name:             "First signup",
			resp:             model.SignupResponse{OK: true, Logged: true},
			expectedState:    StateDone,
			expectedFeedback: "Thanks for signing up!",
		},
		{
			name:             "Already subscribed",
			resp:             model.SignupResponse{OK: true, Logged: true, AlreadySubscribed: true},
			expectedState:    StateDone,
			expectedFeedback: "You're already on the list.",
			expectedAlready:  true,
		},
		{
			name:             "API error with message",
			err:              &model.APIError{Status: 502, Message: "Failed to save newsletter signup."},
			expectedState:    StateError,
			expectedFeedback: "Failed to save newsletter signup.",
		},
		{
			name:             "API error without message",
			err:              &model.APIError{Status: 500},
			expectedState:    StateError,
			expectedFeedback: "Something went wrong. Please try again.",
		},
		{
			name:             "Network failure",
			err:              errors.New("dial tcp: connection refused"),
			expectedState:    StateError,
			expectedFeedback: "Something went wrong. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := new(MockSubscriber)
			sub.On("Subscribe", mock.Anything, "user@example.com", "footer").Return(tt.resp, tt.err).Once()

			form := NewForm(sub, zerolog.Nop())
			form.SetEmail("  user@example.com ")

			result, err := form.Submit(context.Background(), "footer")

			require.NoError(t, err)
			assert.Equal(t, tt.expectedState, result.State)
			assert.Equal(t, tt.expectedFeedback, result.Feedback)
			assert.Equal(t, tt.expectedAlready, result.AlreadySubscribed)
			assert.False(t, result.Stale)
			assert.Equal(t, tt.expectedState, form.State())
			assert.Equal(t, tt.expectedFeedback, form.Feedback())
			sub.AssertExpectations(t)
		})
	}
}

func TestForm_EditResetsToIdle(t *testing.T) {
	sub := new(MockSubscriber)
	sub.On("Subscribe", mock.Anything, "user@example.com", "footer").
		Return(model.SignupResponse{OK: true, Logged: true}, nil)

	form := NewForm(sub, zerolog.Nop())
	form.SetEmail("user@example.com")
	_, err := form.Submit(context.Background(), "footer")
	require.NoError(t, err)
	require.Equal(t, StateDone, form.State())

	form.SetEmail("other@example.com")
	assert.Equal(t, StateIdle, form.State())
	assert.Empty(t, form.Feedback())
	assert.Equal(t, "other@example.com", form.Email())

	form.SetEmail("user@example.com")
	result, err := form.Submit(context.Background(), "footer")
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	sub.AssertNumberOfCalls(t, "Subscribe", 2)
}

func TestForm_SubmitWhileLoading(t *testing.T) {
	sub := &blockingSubscriber{
		started: make(chan struct{}),
		release: make(chan struct{}),
		resp:    model.SignupResponse{OK: true, Logged: true},
	}
	form := NewForm(sub, zerolog.Nop())
	form.SetEmail("user@example.com")

	done := make(chan Result)
	go func() {
		result, _ := form.Submit(context.Background(), "footer")
		done <- result
	}()
	<-sub.started

	assert.Equal(t, StateLoading, form.State())
	_, err := form.Submit(context.Background(), "footer")
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(sub.release)
	result := <-done
	assert.Equal(t, StateDone, result.State)
	assert.Equal(t, "Thanks for signing up!", form.Feedback())
}

func TestForm_StaleResponseIgnored(t *testing.T) {
	sub := &blockingSubscriber{
		started: make(chan struct{}),
		release: make(chan struct{}),
		resp:    model.SignupResponse{OK: true, Logged: true},
	}
	form := NewForm(sub, zerolog.Nop())
	form.SetEmail("usr@example.com")

	done := make(chan Result)
	go func() {
		result, _ := form.Submit(context.Background(), "footer")
		done <- result
	}()
	<-sub.started

	// The user corrects the address while the first request is in flight.
	form.SetEmail("user@example.com")
	close(sub.release)

	result := <-done
	assert.True(t, result.Stale)
	assert.Equal(t, StateIdle, result.State)
	assert.Equal(t, StateIdle, form.State())
	assert.Empty(t, form.Feedback())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", State(42).String())
}
