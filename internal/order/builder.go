package order

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"hope-store/internal/model"
)

// Builder formats contact messages and links. It has no side effects.
type Builder struct {
	cfg    Config
	prefix *regexp.Regexp
}

// NewBuilder creates a Builder; blank config fields take their defaults.
// An empty VendorPrefix disables prefix stripping.
func NewBuilder(cfg Config) *Builder {
	cfg = cfg.withDefaults()

	b := &Builder{cfg: cfg}
	if p := strings.TrimSpace(cfg.VendorPrefix); p != "" {
		b.prefix = regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(p) + `\s+`)
	}
	return b
}

// Config returns the effective configuration.
func (b *Builder) Config() Config {
	return b.cfg
}

// DisplayName is the product model with the vendor prefix removed.
func (b *Builder) DisplayName(p model.Product) string {
	if b.prefix == nil {
		return p.Model
	}
	return b.prefix.ReplaceAllString(p.Model, "")
}

// PrimaryStorage returns the first storage option, or the fallback label.
func (b *Builder) PrimaryStorage(p model.Product) string {
	if len(p.StorageOptions) == 0 {
		return b.cfg.StorageFallback
	}
	return p.StorageOptions[0]
}

// Message builds the pre-filled contact message for p.
func (b *Builder) Message(p model.Product) string {
	return fmt.Sprintf(
		"Hi %s, i am contacting you regarding the %s, %s, %s in price i would like to know available colors and continue with buying",
		b.cfg.ContactName, b.DisplayName(p), b.PrimaryStorage(p), p.Price,
	)
}

// Link builds the messaging deep link carrying Message(p).
func (b *Builder) Link(p model.Product) string {
	return b.cfg.LinkBase + b.NormalizePhone(b.cfg.ContactNumber) + "?text=" + EncodeComponent(b.Message(p))
}

// CodeImageURL builds the URL of a code image that encodes Link(p).
func (b *Builder) CodeImageURL(p model.Product) string {
	return fmt.Sprintf("%s?size=%dx%d&data=%s",
		b.cfg.CodeImageBase, b.cfg.CodeImageSize, b.cfg.CodeImageSize, EncodeComponent(b.Link(p)))
}

// NormalizePhone keeps only digits and swaps a leading trunk 0 for the
// country code.
func (b *Builder) NormalizePhone(s string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)

	if strings.HasPrefix(digits, "0") {
		return b.cfg.CountryCode + digits[1:]
	}
	return digits
}

// Inquiry builds the inquiry record logged for p.
func (b *Builder) Inquiry(p model.Product) model.Inquiry {
	return model.Inquiry{
		ItemID:      p.ID,
		Model:       p.Model,
		Storage:     b.PrimaryStorage(p),
		Price:       p.Price,
		Message:     b.Message(p),
		WhatsappURL: b.Link(p),
	}
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s for use as a single URL component.
// Letters, digits and -_.!~*'() are left as they are.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
