package catalog

import (
	"context"
	"fmt"

	"hope-store/internal/config"

	"github.com/rs/zerolog"
)

// Open builds the loader described by cfg and loads every path. When S3 is
// enabled each file is read from the bucket first and from disk if that
// fails; an S3 client that cannot be created leaves only the disk.
func Open(ctx context.Context, cfg config.S3Config, paths []string, logger zerolog.Logger) (*Catalog, error) {
	fileLoader := NewFileLoader(logger)

	var s3 Loader
	if cfg.Enabled {
		var err error
		s3, err = NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		}
	} else {
		logger.Info().Msg("using local file system for catalogue files (S3 disabled)")
	}

	loader := NewFallbackLoader(s3, fileLoader, cfg.Prefix, cfg.Enabled, logger)

	c, err := LoadAll(ctx, loader, paths, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue: %w", err)
	}
	return c, nil
}
