package repository

import (
	"context"
	"time"

	"hope-store/internal/model"
)

// SignupRepository stores newsletter signups.
type SignupRepository interface {
	// Insert stores signup. It returns model.ErrAlreadySubscribed when the
	// email is already on the list and a *StoreError when the store fails.
	Insert(ctx context.Context, signup model.Signup) error
}

// InquiryRepository stores wishlist inquiries.
type InquiryRepository interface {
	// Insert stores record. It returns a *StoreError when the store fails.
	Insert(ctx context.Context, record *model.InquiryRecord) error

	// DeleteExpired removes inquiries that expired before the given time and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
