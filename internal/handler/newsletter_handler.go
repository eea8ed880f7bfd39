package handler

import (
	"net/http"

	"hope-store/internal/model"
	"hope-store/internal/service"

	"github.com/rs/zerolog"
)

// NewsletterHandler handles newsletter signup requests.
type NewsletterHandler struct {
	service service.SignupService
	logger  zerolog.Logger
}

// NewNewsletterHandler creates a new newsletter handler.
func NewNewsletterHandler(service service.SignupService, logger zerolog.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		service: service,
		logger:  logger.With().Str("handler", "newsletter").Logger(),
	}
}

// Create handles POST /api/newsletter-signups requests.
func (h *NewsletterHandler) Create(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		writeServiceError(w, r, err, "", h.logger)
		return
	}

	req := model.SignupRequest{
		Email:  textField(payload, "email"),
		Source: textField(payload, "source"),
	}

	resp, err := h.service.Subscribe(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to save newsletter signup.", h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, resp, h.logger)
}
