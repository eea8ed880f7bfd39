package handler

import (
	"net/http"

	"hope-store/internal/model"
	"hope-store/internal/service"

	"github.com/rs/zerolog"
)

// InquiryHandler handles wishlist inquiry requests.
type InquiryHandler struct {
	service service.InquiryService
	logger  zerolog.Logger
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(service service.InquiryService, logger zerolog.Logger) *InquiryHandler {
	return &InquiryHandler{
		service: service,
		logger:  logger.With().Str("handler", "inquiry").Logger(),
	}
}

// Create handles POST /api/wishlist-inquiries requests.
func (h *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		writeServiceError(w, r, err, "", h.logger)
		return
	}

	inquiry := model.Inquiry{
		ItemID:      textField(payload, "itemId"),
		Model:       textField(payload, "model"),
		Storage:     textField(payload, "storage"),
		Price:       textField(payload, "price"),
		Message:     textField(payload, "message"),
		WhatsappURL: textField(payload, "whatsappUrl"),
	}

	resp, err := h.service.Log(r.Context(), inquiry)
	if err != nil {
		writeServiceError(w, r, err, "Failed to save wishlist inquiry.", h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, resp, h.logger)
}
