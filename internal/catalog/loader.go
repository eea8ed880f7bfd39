package catalog

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"hope-store/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for catalogue files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a catalogue file. Paths ending in .gz are decompressed first.
func (l *fileLoader) Load(ctx context.Context, path string) (*Catalog, error) {
	l.logger.Info().Str("file", path).Msg("loading catalogue file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	c, err := decode(ctx, file, strings.HasSuffix(path, ".gz"))
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to decode catalogue file")
		return nil, fmt.Errorf("failed to decode catalogue file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("products_loaded", c.Len()).
		Msg("catalogue file loaded successfully")

	return c, nil
}

// decode parses a JSON array of products from r.
func decode(ctx context.Context, r io.Reader, gzipped bool) (*Catalog, error) {
	if gzipped {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	var products []model.Product
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, fmt.Errorf("invalid catalogue JSON: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return New(products)
}
