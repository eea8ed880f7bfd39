package model

// NoImage is the image sentinel for products without a photo.
const NoImage = "/"

// Product represents a phone listed in the storefront catalogue.
type Product struct {
	ID             string   `json:"id"`
	Model          string   `json:"model"`
	StorageOptions []string `json:"storageOptions"`
	Condition      string   `json:"condition"`
	Price          string   `json:"price"` // pre-formatted display text, e.g. "R 3000"
	CTALabel       string   `json:"ctaLabel"`
	Image          string   `json:"image"`
}

// HasImage reports whether the product carries a real image URL.
func (p Product) HasImage() bool {
	return p.Image != "" && p.Image != NoImage
}
