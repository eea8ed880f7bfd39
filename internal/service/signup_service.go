package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hope-store/internal/model"
	"hope-store/internal/newsletter"
	"hope-store/internal/repository"

	"github.com/rs/zerolog"
)

// signupService implements SignupService.
type signupService struct {
	repo   repository.SignupRepository
	logger zerolog.Logger
}

// NewSignupService creates a signup service. A nil repository means no
// store is configured and every valid signup fails with
// model.ErrStoreNotConfigured.
func NewSignupService(repo repository.SignupRepository, logger zerolog.Logger) SignupService {
	return &signupService{
		repo:   repo,
		logger: logger.With().Str("service", "signup").Logger(),
	}
}

// Subscribe stores a signup. The email is trimmed and lowercased before
// validation; the source is trimmed and defaults to "footer".
func (s *signupService) Subscribe(ctx context.Context, req model.SignupRequest) (*model.SignupResponse, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, model.ErrEmailRequired
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !newsletter.IsValidEmail(email) {
		return nil, model.ErrInvalidEmail
	}

	if s.repo == nil {
		s.logger.Error().Msg("signup store is not configured")
		return nil, model.ErrStoreNotConfigured
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = model.DefaultSignupSource
	}

	err := s.repo.Insert(ctx, model.Signup{Email: email, Source: source})
	if errors.Is(err, model.ErrAlreadySubscribed) {
		s.logger.Info().Str("source", source).Msg("signup for existing subscriber")
		return &model.SignupResponse{OK: true, Logged: true, AlreadySubscribed: true}, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("source", source).Msg("failed to save newsletter signup")
		return nil, fmt.Errorf("failed to save newsletter signup: %w", err)
	}

	s.logger.Info().Str("source", source).Msg("newsletter signup stored")

	return &model.SignupResponse{OK: true, Logged: true}, nil
}
