package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hope-store/internal/model"
	"hope-store/internal/repository"

	"github.com/rs/zerolog"
)

// DefaultInquiryTTL is how long an inquiry is kept.
const DefaultInquiryTTL = 3 * time.Hour

// inquiryService implements InquiryService.
type inquiryService struct {
	repo   repository.InquiryRepository
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// InquiryOption configures the inquiry service.
type InquiryOption func(*inquiryService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) InquiryOption {
	return func(s *inquiryService) {
		s.now = now
	}
}

// NewInquiryService creates an inquiry service. A nil repository means no
// store is configured; inquiries are then accepted but not logged.
func NewInquiryService(repo repository.InquiryRepository, ttl time.Duration, logger zerolog.Logger, opts ...InquiryOption) InquiryService {
	if ttl <= 0 {
		ttl = DefaultInquiryTTL
	}
	s := &inquiryService{
		repo:   repo,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("service", "inquiry").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Log stores the inquiry with an expiry of now plus the TTL.
func (s *inquiryService) Log(ctx context.Context, inquiry model.Inquiry) (*model.InquiryResponse, error) {
	for _, field := range []string{
		inquiry.ItemID,
		inquiry.Model,
		inquiry.Storage,
		inquiry.Price,
		inquiry.Message,
		inquiry.WhatsappURL,
	} {
		if strings.TrimSpace(field) == "" {
			return nil, model.ErrMissingInquiryFields
		}
	}

	if s.repo == nil {
		s.logger.Warn().Str("item_id", inquiry.ItemID).Msg("inquiry store is not configured, skipping")
		return &model.InquiryResponse{
			OK:     true,
			Logged: false,
			Reason: model.ErrStoreNotConfigured.Message,
		}, nil
	}

	expiresAt := s.now().Add(s.ttl).UTC().Truncate(time.Millisecond)
	record := &model.InquiryRecord{
		ItemID:      inquiry.ItemID,
		Model:       inquiry.Model,
		Storage:     inquiry.Storage,
		Price:       inquiry.Price,
		Message:     inquiry.Message,
		WhatsappURL: inquiry.WhatsappURL,
		ExpiresAt:   expiresAt,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("item_id", inquiry.ItemID).Msg("failed to save wishlist inquiry")
		return nil, fmt.Errorf("failed to save wishlist inquiry: %w", err)
	}

	s.logger.Info().
		Str("item_id", inquiry.ItemID).
		Time("expires_at", expiresAt).
		Msg("wishlist inquiry logged")

	return &model.InquiryResponse{
		OK:        true,
		Logged:    true,
		ExpiresAt: model.FormatTimestamp(expiresAt),
	}, nil
}

// PurgeExpired removes inquiries whose expiry has passed.
func (s *inquiryService) PurgeExpired(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, nil
	}

	removed, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired inquiries: %w", err)
	}

	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("purged expired inquiries")
	}
	return removed, nil
}
