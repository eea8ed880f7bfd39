package model

import (
	"time"

	"github.com/google/uuid"
)

// Inquiry is the payload recorded when a shopper starts an order for an item.
type Inquiry struct {
	ItemID      string `json:"itemId"`
	Model       string `json:"model"`
	Storage     string `json:"storage"`
	Price       string `json:"price"`
	Message     string `json:"message"`
	WhatsappURL string `json:"whatsappUrl"`
}

// InquiryRecord is an inquiry as written to the durable store.
type InquiryRecord struct {
	ID          uuid.UUID `json:"-" db:"id"`
	ItemID      string    `json:"item_id" db:"item_id"`
	Model       string    `json:"model" db:"model"`
	Storage     string    `json:"storage" db:"storage"`
	Price       string    `json:"price" db:"price"`
	Message     string    `json:"message" db:"message"`
	WhatsappURL string    `json:"whatsapp_url" db:"whatsapp_url"`
	ExpiresAt   time.Time `json:"expires_at" db:"expires_at"`
}

// InquiryResponse is returned by the wishlist inquiry endpoint.
type InquiryResponse struct {
	OK        bool   `json:"ok"`
	Logged    bool   `json:"logged"`
	ExpiresAt string `json:"expiresAt,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// TimestampLayout renders times as ISO-8601 UTC with millisecond precision,
// e.g. 2025-01-02T15:04:05.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp formats t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
