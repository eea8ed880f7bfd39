package router

import (
	"net/http"

	"hope-store/internal/handler"
	"hope-store/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Products   *handler.ProductHandler
	Newsletter *handler.NewsletterHandler
	Inquiries  *handler.InquiryHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()
	r.StrictSlash(true)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.Products.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.Products.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/newsletter-signups", h.Newsletter.Create).Methods(http.MethodPost)
	api.HandleFunc("/wishlist-inquiries", h.Inquiries.Create).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePlainError(w, http.StatusNotFound, "Not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writePlainError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	// Apply middleware in order: Recovery -> CorrelationID -> Logging -> CORS.
	// CORS wraps the router itself so preflight requests never reach the
	// method matcher.
	var root http.Handler = r
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.CorrelationID(root)
	root = middleware.Recovery(logger)(root)

	return root
}

func writePlainError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error": "` + message + `"}`))
}
