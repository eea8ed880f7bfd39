package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hope-store/internal/catalog"
	"hope-store/internal/config"
	"hope-store/internal/database"
	"hope-store/internal/handler"
	"hope-store/internal/repository"
	"hope-store/internal/router"
	"hope-store/internal/service"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const purgeInterval = 15 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stores holds the repositories of the configured backend. Both are nil
// when no backend is configured.
type stores struct {
	signups   repository.SignupRepository
	inquiries repository.InquiryRepository
	close     func()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("store_backend", cfg.Store.Backend).Msg("starting hope-store API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products, err := catalog.Open(ctx, cfg.S3, cfg.Catalog.Paths, logger)
	if err != nil {
		return err
	}
	logger.Info().Int("products", products.Len()).Msg("catalogue loaded")

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	productService := service.NewProductService(products, logger)
	signupService := service.NewSignupService(st.signups, logger)
	inquiryService := service.NewInquiryService(st.inquiries, cfg.Inquiry.TTL, logger)

	mux := router.New(router.Handlers{
		Products:   handler.NewProductHandler(productService, logger),
		Newsletter: handler.NewNewsletterHandler(signupService, logger),
		Inquiries:  handler.NewInquiryHandler(inquiryService, logger),
	}, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	if st.inquiries != nil {
		g.Go(func() error {
			purgeExpired(gctx, inquiryService, logger)
			return nil
		})
	}

	return g.Wait()
}

// openStores builds the signup and inquiry repositories for the configured
// backend. Missing Supabase credentials are not fatal: requests report them.
func openStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*stores, error) {
	st := &stores{close: func() {}}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		st.signups = repository.NewSignupRepository(pool, logger)
		st.inquiries = repository.NewInquiryRepository(pool, logger)
		st.close = pool.Close

	case config.BackendSupabase:
		if !cfg.Supabase.Configured() {
			logger.Warn().Msg("supabase credentials missing, signups will fail and inquiries will not be logged")
			return st, nil
		}
		client := repository.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey, nil, logger)
		st.signups = repository.NewSupabaseSignupRepository(client)
		st.inquiries = repository.NewSupabaseInquiryRepository(client)

	default:
		logger.Warn().Msg("no store backend configured")
	}

	return st, nil
}

// purgeExpired deletes expired inquiries until ctx is done.
func purgeExpired(ctx context.Context, inquiries service.InquiryService, logger zerolog.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := inquiries.PurgeExpired(ctx); err != nil {
				logger.Warn().Err(err).Msg("failed to purge expired inquiries")
			}
		}
	}
}
