// Package cli implements cartctl, a terminal tab on the storefront cart.
package cli

import (
	"fmt"
	"slices"

	"hope-store/internal/config"
	"hope-store/internal/storage"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose       bool
	Format        string // "json" | "text"
	CatalogPaths  []string
	RedisAddr     string
	APIURL        string
	ContactName   string
	ContactNumber string

	// storage replaces the Redis or in-memory tab when set.
	storage storage.Storage
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for cartctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	defaults := config.LoadCLI()

	cmd := &cobra.Command{
		Use:   "cartctl",
		Short: "cartctl - hope-store cart from the terminal",
		Long: `Acts as one storefront tab: manages the shared wishlist cart,
starts orders and signs up for the newsletter.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringSliceVar(&opts.CatalogPaths, "catalog", defaults.Catalog.Paths, "catalogue files")
	cmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis", defaults.Redis.Addr, "shared cart storage (empty for a throwaway in-memory profile)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", defaults.APIURL, "storefront API base URL")
	cmd.PersistentFlags().StringVar(&opts.ContactName, "contact-name", defaults.Contact.Name, "sales contact name")
	cmd.PersistentFlags().StringVar(&opts.ContactNumber, "contact-number", defaults.Contact.Number, "sales contact phone number")

	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewOrderCommand(opts))
	cmd.AddCommand(NewNewsletterCommand(opts))

	return cmd
}
