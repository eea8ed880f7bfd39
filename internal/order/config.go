// Package order turns "buy this product" into a contact message, a
// messaging deep link and a scannable code image of that link, and logs
// each new order as a best-effort inquiry.
package order

import "strings"

// Config holds the fixed contact details and URL templates.
type Config struct {
	ContactName     string
	ContactNumber   string
	CountryCode     string
	VendorPrefix    string
	StorageFallback string
	LinkBase        string
	CodeImageBase   string
	CodeImageSize   int
}

// DefaultConfig returns the storefront's contact details.
func DefaultConfig() Config {
	return Config{
		ContactName:     "Wandile",
		ContactNumber:   "0815909191",
		CountryCode:     "27",
		VendorPrefix:    "Apple",
		StorageFallback: "Storage option",
		LinkBase:        "https://wa.me/",
		CodeImageBase:   "https://api.qrserver.com/v1/create-qr-code/",
		CodeImageSize:   160,
	}
}

// withDefaults fills every blank field from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if strings.TrimSpace(c.ContactName) == "" {
		c.ContactName = d.ContactName
	}
	if strings.TrimSpace(c.ContactNumber) == "" {
		c.ContactNumber = d.ContactNumber
	}
	if c.CountryCode == "" {
		c.CountryCode = d.CountryCode
	}
	if c.StorageFallback == "" {
		c.StorageFallback = d.StorageFallback
	}
	if c.LinkBase == "" {
		c.LinkBase = d.LinkBase
	}
	if c.CodeImageBase == "" {
		c.CodeImageBase = d.CodeImageBase
	}
	if c.CodeImageSize <= 0 {
		c.CodeImageSize = d.CodeImageSize
	}
	return c
}
