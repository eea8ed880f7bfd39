package catalog

import (
	"context"
	"fmt"

	"hope-store/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultPaths lists the catalogue files the storefront ships with.
func DefaultPaths() []string {
	return []string{
		"data/catalog/phones.json",
		"data/catalog/accessories.json",
	}
}

// LoadAll loads several catalogue files concurrently and merges them in the
// order given. A product id may appear in only one file. The first failing
// file cancels the rest.
func LoadAll(ctx context.Context, loader Loader, paths []string, logger zerolog.Logger) (*Catalog, error) {
	logger = logger.With().Str("component", "catalog").Logger()
	logger.Info().Int("file_count", len(paths)).Msg("loading catalogue")

	parts := make([]*Catalog, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			c, err := loader.Load(gctx, path)
			if err != nil {
				logger.Error().Err(err).Str("file", path).Msg("catalogue file unusable")
				return fmt.Errorf("failed to load catalogue file %s: %w", path, err)
			}
			parts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var products []model.Product
	for _, part := range parts {
		products = append(products, part.products...)
	}

	merged, err := New(products)
	if err != nil {
		return nil, fmt.Errorf("failed to merge catalogue files: %w", err)
	}

	logger.Info().Int("total_products", merged.Len()).Msg("catalogue loaded")
	return merged, nil
}
