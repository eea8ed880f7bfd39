package repository

import (
	"context"
	"errors"
	"net/http"

	"hope-store/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// uniqueViolation is the SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// signupRepository implements SignupRepository using PostgreSQL.
type signupRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSignupRepository creates a PostgreSQL-backed signup repository.
func NewSignupRepository(pool *pgxpool.Pool, logger zerolog.Logger) SignupRepository {
	return &signupRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "signup").Logger(),
	}
}

// Insert stores a signup; a duplicate email is reported as
// model.ErrAlreadySubscribed.
func (r *signupRepository) Insert(ctx context.Context, signup model.Signup) error {
	query := `
		INSERT INTO newsletter_signups (email, source)
		VALUES ($1, $2)
	`

	_, err := r.pool.Exec(ctx, query, signup.Email, signup.Source)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Debug().Str("source", signup.Source).Msg("email already subscribed")
			return model.ErrAlreadySubscribed
		}

		r.logger.Error().Err(err).Str("source", signup.Source).Msg("failed to insert signup")
		return pgStoreError(err)
	}

	r.logger.Debug().Str("source", signup.Source).Msg("signup stored")
	return nil
}

// pgStoreError classifies a pgx error: server errors are rejections, all
// others mean the database could not be reached.
func pgStoreError(err error) *StoreError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &StoreError{
			Backend: BackendPostgres,
			Status:  http.StatusInternalServerError,
			Details: pgErr.Message,
			Err:     err,
		}
	}
	return &StoreError{
		Backend:     BackendPostgres,
		Details:     err.Error(),
		Unreachable: true,
		Err:         err,
	}
}
