package handler

import (
	"net/http"
	"strconv"
	"strings"

	"hope-store/internal/model"
	"hope-store/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// TotalCountHeader carries the number of matching products.
const TotalCountHeader = "X-Total-Count"

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products. It supports q, limit and offset, or
// ids=a,b to resolve a cart selection in order.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if ids := query.Get("ids"); ids != "" {
		products, err := h.service.GetByIDs(r.Context(), splitIDs(ids))
		if err != nil {
			writeServiceError(w, r, err, "Failed to retrieve products.", h.logger)
			return
		}
		w.Header().Set(TotalCountHeader, strconv.Itoa(len(products)))
		writeJSON(w, r, http.StatusOK, products, h.logger)
		return
	}

	limit, ok := intParam(query.Get("limit"), 20)
	if !ok {
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{Error: "Invalid limit parameter."}, h.logger)
		return
	}

	offset, ok := intParam(query.Get("offset"), 0)
	if !ok {
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{Error: "Invalid offset parameter."}, h.logger)
		return
	}

	products, total, err := h.service.List(r.Context(), query.Get("q"), limit, offset)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve products.", h.logger)
		return
	}

	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	writeJSON(w, r, http.StatusOK, products, h.logger)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["id"]

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to retrieve product.", h.logger)
		return
	}

	writeJSON(w, r, http.StatusOK, product, h.logger)
}

func intParam(raw string, fallback int) (int, bool) {
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	return n, err == nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
