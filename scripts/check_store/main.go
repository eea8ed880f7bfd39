package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"hope-store/internal/config"
	"hope-store/internal/database"

	"github.com/rs/zerolog"
)

// check_store connects to the Postgres store named by the DB_* variables,
// applies the schema and reports what it found.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg.Database.AutoMigrate = true
	pool, err := database.NewPool(ctx, cfg.Database, zerolog.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	var signups, inquiries int
	err = pool.QueryRow(ctx, `SELECT current_database(),
		(SELECT COUNT(*) FROM newsletter_signups),
		(SELECT COUNT(*) FROM wishlist_inquiries)`).Scan(&dbName, &signups, &inquiries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)
	fmt.Printf("newsletter_signups: %d, wishlist_inquiries: %d\n", signups, inquiries)
}
