package order

import (
	"context"
	"sync"
	"time"

	"hope-store/internal/model"

	"github.com/rs/zerolog"
)

// DefaultLogTimeout bounds a single inquiry log call.
const DefaultLogTimeout = 10 * time.Second

// InquiryLogger records that a customer started an order.
type InquiryLogger interface {
	LogInquiry(ctx context.Context, inquiry model.Inquiry) error
}

// Flow tracks the active order and fires the inquiry log for each new one.
// Log failures never reach the caller; they go to the logger only.
type Flow struct {
	builder    *Builder
	inquiries  InquiryLogger
	logger     zerolog.Logger
	logTimeout time.Duration

	mu           sync.Mutex
	active       *model.Product
	imageLoading bool

	pending sync.WaitGroup
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithLogTimeout overrides DefaultLogTimeout.
func WithLogTimeout(d time.Duration) FlowOption {
	return func(f *Flow) {
		if d > 0 {
			f.logTimeout = d
		}
	}
}

// NewFlow creates a Flow. A nil InquiryLogger disables inquiry logging.
func NewFlow(builder *Builder, inquiries InquiryLogger, logger zerolog.Logger, opts ...FlowOption) *Flow {
	f := &Flow{
		builder:    builder,
		inquiries:  inquiries,
		logger:     logger.With().Str("component", "order-flow").Logger(),
		logTimeout: DefaultLogTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Builder returns the message builder used by the flow.
func (f *Flow) Builder() *Builder {
	return f.builder
}

// StartOrder makes p the active order and logs an inquiry for it in the
// background. Starting the product that is already active does nothing.
// It reports whether the active order changed.
func (f *Flow) StartOrder(ctx context.Context, p model.Product) bool {
	f.mu.Lock()
	if f.active != nil && f.active.ID == p.ID {
		f.mu.Unlock()
		return false
	}
	active := p
	f.active = &active
	f.imageLoading = true
	f.mu.Unlock()

	f.logger.Info().Str("product_id", p.ID).Msg("order started")

	if f.inquiries == nil {
		return true
	}

	inquiry := f.builder.Inquiry(p)
	logCtx := context.WithoutCancel(ctx)

	f.pending.Add(1)
	go func() {
		defer f.pending.Done()

		ctx, cancel := context.WithTimeout(logCtx, f.logTimeout)
		defer cancel()

		if err := f.inquiries.LogInquiry(ctx, inquiry); err != nil {
			f.logger.Warn().Err(err).Str("product_id", inquiry.ItemID).Msg("failed to log inquiry")
			return
		}
		f.logger.Debug().Str("product_id", inquiry.ItemID).Msg("inquiry logged")
	}()

	return true
}

// CancelOrder clears the active order.
func (f *Flow) CancelOrder() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = nil
	f.imageLoading = false
}

// Active returns the active order's product.
func (f *Flow) Active() (model.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil {
		return model.Product{}, false
	}
	return *f.active, true
}

// CodeImageLoading reports whether the active order's code image has not
// yet loaded or failed.
func (f *Flow) CodeImageLoading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageLoading
}

// CodeImageSettled records that the code image finished loading, whether
// it succeeded or failed.
func (f *Flow) CodeImageSettled() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageLoading = false
}

// Wait blocks until every background inquiry log has finished.
func (f *Flow) Wait() {
	f.pending.Wait()
}
