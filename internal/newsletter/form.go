package newsletter

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hope-store/internal/model"

	"github.com/rs/zerolog"
)

// Feedback messages shown under the form.
const (
	MsgInvalidEmail      = "Please enter a valid email address."
	MsgAlreadySubscribed = "You're already on the list."
	MsgThanks            = "Thanks for signing up!"
	MsgGeneric           = "Something went wrong. Please try again."
)

// ErrSubmitInFlight is returned by Submit while a submission is loading.
var ErrSubmitInFlight = errors.New("a signup is already in flight")

// Subscriber performs the signup write.
type Subscriber interface {
	Subscribe(ctx context.Context, email, source string) (model.SignupResponse, error)
}

// State is the form's feedback state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Submit call.
type Result struct {
	State             State
	Feedback          string
	AlreadySubscribed bool
	// Stale is set when the email was edited while the request was in
	// flight; the response was ignored and the form left as it was.
	Stale bool
}

// Form is the signup form state machine.
type Form struct {
	subscriber Subscriber
	logger     zerolog.Logger

	mu       sync.Mutex
	email    string
	state    State
	feedback string
	seq      uint64
}

// NewForm creates an idle form.
func NewForm(subscriber Subscriber, logger zerolog.Logger) *Form {
	return &Form{
		subscriber: subscriber,
		logger:     logger.With().Str("component", "newsletter-form").Logger(),
	}
}

// State returns the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Feedback returns the message for the current state.
func (f *Form) Feedback() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedback
}

// Email returns the current field value.
func (f *Form) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// SetEmail edits the field. Any state other than idle goes back to idle
// with no feedback, and a response still in flight will be ignored.
func (f *Form) SetEmail(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.email = email
	if f.state == StateIdle {
		return
	}
	f.seq++
	f.state = StateIdle
	f.feedback = ""
}

// Submit validates the current email and, if it is valid, sends it to the
// Subscriber. An invalid address fails without any network call.
func (f *Form) Submit(ctx context.Context, source string) (Result, error) {
	f.mu.Lock()
	if f.state == StateLoading {
		f.mu.Unlock()
		return Result{}, ErrSubmitInFlight
	}
	f.seq++
	seq := f.seq
	email := strings.TrimSpace(f.email)
	f.state = StateLoading
	f.feedback = ""
	f.mu.Unlock()

	if !IsValidEmail(email) {
		return f.settle(seq, StateError, MsgInvalidEmail, false), nil
	}

	resp, err := f.subscriber.Subscribe(ctx, email, source)
	if err != nil {
		f.logger.Warn().Err(err).Msg("newsletter signup failed")
		return f.settle(seq, StateError, failureMessage(err), false), nil
	}

	if resp.AlreadySubscribed {
		return f.settle(seq, StateDone, MsgAlreadySubscribed, true), nil
	}
	return f.settle(seq, StateDone, MsgThanks, false), nil
}

// settle applies a finished submission unless a newer edit superseded it.
func (f *Form) settle(seq uint64, state State, feedback string, already bool) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.seq {
		f.logger.Debug().Uint64("seq", seq).Uint64("latest", f.seq).Msg("discarding stale signup response")
		return Result{State: f.state, Feedback: f.feedback, Stale: true}
	}

	f.state = state
	f.feedback = feedback
	return Result{State: state, Feedback: feedback, AlreadySubscribed: already}
}

// failureMessage uses the API's error text when there is one.
func failureMessage(err error) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return MsgGeneric
}
