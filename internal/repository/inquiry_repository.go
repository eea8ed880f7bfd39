package repository

import (
	"context"
	"time"

	"hope-store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// inquiryRepository implements InquiryRepository using PostgreSQL.
type inquiryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInquiryRepository creates a PostgreSQL-backed inquiry repository.
func NewInquiryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InquiryRepository {
	return &inquiryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inquiry").Logger(),
	}
}

// Insert stores an inquiry. A nil ID is replaced with a new one.
func (r *inquiryRepository) Insert(ctx context.Context, record *model.InquiryRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query := `
		INSERT INTO wishlist_inquiries (id, item_id, model, storage, price, message, whatsapp_url, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.ItemID,
		record.Model,
		record.Storage,
		record.Price,
		record.Message,
		record.WhatsappURL,
		record.ExpiresAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("item_id", record.ItemID).
			Msg("failed to insert inquiry")
		return pgStoreError(err)
	}

	r.logger.Debug().
		Str("inquiry_id", record.ID.String()).
		Str("item_id", record.ItemID).
		Msg("inquiry stored")

	return nil
}

// DeleteExpired removes inquiries whose expiry is before the given time.
func (r *inquiryRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wishlist_inquiries WHERE expires_at < $1`, before)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete expired inquiries")
		return 0, pgStoreError(err)
	}
	return tag.RowsAffected(), nil
}
