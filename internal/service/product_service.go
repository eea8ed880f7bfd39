package service

import (
	"context"
	"strings"

	"hope-store/internal/model"

	"github.com/rs/zerolog"
)

// Catalog is the read side of the product catalogue.
type Catalog interface {
	All() []model.Product
	Lookup(id string) (model.Product, bool)
}

// productService implements ProductService.
type productService struct {
	catalog Catalog
	logger  zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(catalog Catalog, logger zerolog.Logger) ProductService {
	return &productService{
		catalog: catalog,
		logger:  logger.With().Str("service", "product").Logger(),
	}
}

// List returns one page of matching products.
func (s *productService) List(ctx context.Context, query string, limit, offset int) ([]model.Product, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	matches := s.catalog.All()
	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		filtered := matches[:0]
		for _, p := range matches {
			if strings.Contains(strings.ToLower(p.Model), q) || strings.Contains(strings.ToLower(p.ID), q) {
				filtered = append(filtered, p)
			}
		}
		matches = filtered
	}

	total := len(matches)
	if offset >= total {
		return []model.Product{}, total, nil
	}
	end := min(offset+limit, total)

	s.logger.Debug().
		Str("query", query).
		Int("total", total).
		Int("limit", limit).
		Int("offset", offset).
		Msg("listed products")

	return matches[offset:end], total, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, ok := s.catalog.Lookup(id)
	if !ok {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return &product, nil
}

// GetByIDs resolves ids in order, skipping unknown ones.
func (s *productService) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.catalog.Lookup(id); ok {
			products = append(products, p)
		}
	}

	s.logger.Debug().
		Int("requested", len(ids)).
		Int("found", len(products)).
		Msg("retrieved products by IDs")

	return products, nil
}
