// Package catalog holds the immutable product list the storefront sells
// from, and the loaders that read it from disk or S3.
package catalog

import (
	"context"

	"hope-store/internal/model"
)

// Resolver resolves product identifiers against the catalogue.
type Resolver interface {
	// Lookup returns the product with the given id.
	Lookup(id string) (model.Product, bool)

	// Has reports whether id names a known product.
	Has(id string) bool
}

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a catalogue file (a JSON array of products, optionally
	// gzipped) and returns the parsed Catalog.
	Load(ctx context.Context, path string) (*Catalog, error)
}
