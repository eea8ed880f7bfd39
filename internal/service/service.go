package service

import (
	"context"

	"hope-store/internal/model"
)

// ProductService serves the product catalogue.
type ProductService interface {
	// List returns one page of the products whose model or id contains
	// query (case-insensitive), in catalogue order, plus the total match count.
	List(ctx context.Context, query string, limit, offset int) ([]model.Product, int, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs resolves ids in the given order, skipping unknown ones.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// SignupService records newsletter signups.
type SignupService interface {
	// Subscribe normalises and validates the request and stores the signup.
	Subscribe(ctx context.Context, req model.SignupRequest) (*model.SignupResponse, error)
}

// InquiryService records wishlist inquiries.
type InquiryService interface {
	// Log validates the inquiry and stores it with an expiry. Without a
	// configured store it succeeds without logging.
	Log(ctx context.Context, inquiry model.Inquiry) (*model.InquiryResponse, error)

	// PurgeExpired removes inquiries past their expiry.
	PurgeExpired(ctx context.Context) (int64, error)
}
