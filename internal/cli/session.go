package cli

import (
	"context"
	"fmt"

	"hope-store/internal/cart"
	"hope-store/internal/catalog"
	"hope-store/internal/storage"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// session is one tab: the catalogue, the cart engine and the storage it
// writes through.
type session struct {
	catalog *catalog.Catalog
	store   *cart.Store
	engine  *cart.Engine
	badge   *cart.Badge
	logger  zerolog.Logger
	close   func()
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger writes diagnostics to stderr, and only with --verbose.
func newLogger(opts *RootOptions, cmd *cobra.Command) zerolog.Logger {
	level := zerolog.WarnLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Str("service", "cartctl").
		Logger()
}

func openSession(ctx context.Context, opts *RootOptions, logger zerolog.Logger) (*session, error) {
	products, err := catalog.LoadAll(ctx, catalog.NewFileLoader(logger), opts.CatalogPaths, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load catalogue", err)
	}

	st, closeStorage, err := openStorage(ctx, opts, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open cart storage", err)
	}

	store := cart.NewStore(st, storage.NewBus(), products, logger)
	engine := cart.NewEngine(ctx, store, products, logger)
	badge := cart.NewBadge(ctx, store, logger)

	return &session{
		catalog: products,
		store:   store,
		engine:  engine,
		badge:   badge,
		logger:  logger,
		close: func() {
			badge.Close()
			engine.Close()
			closeStorage()
		},
	}, nil
}

func openStorage(ctx context.Context, opts *RootOptions, logger zerolog.Logger) (storage.Storage, func(), error) {
	if opts.storage != nil {
		return opts.storage, func() {}, nil
	}

	if opts.RedisAddr == "" {
		logger.Debug().Msg("no redis address, using a throwaway in-memory profile")
		tab := storage.NewMemoryProfile().Open()
		return tab, tab.Close, nil
	}

	rs, err := storage.NewRedisStorage(ctx, opts.RedisAddr, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("redis %s: %w", opts.RedisAddr, err)
	}
	return rs, func() {
		if err := rs.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis storage")
		}
	}, nil
}
