package catalog

import (
	"net/http"

	"github.com/bissquit/gov-status/internal/domain"
	"github.com/bissquit/gov-status/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Handler serves the read-only service catalog.
type Handler struct {
	catalog *Catalog
}

// NewHandler creates a new catalog handler.
func NewHandler(catalog *Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes registers public catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/services", h.ListServices)
	r.Get("/services/{id}", h.GetService)
}

// ListServices handles GET /services request.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services := h.catalog.Services()

	if category := r.URL.Query().Get("category"); category != "" {
		if !domain.ServiceCategory(category).IsValid() {
			httputil.Error(w, http.StatusBadRequest, "invalid category")
			return
		}
		filtered := make([]domain.ServiceDescriptor, 0, len(services))
		for _, s := range services {
			if s.Category == domain.ServiceCategory(category) {
				filtered = append(filtered, s)
			}
		}
		services = filtered
	}

	httputil.Success(w, http.StatusOK, services)
}

// GetService handles GET /services/{id} request.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	for _, s := range h.catalog.Services() {
		if s.ID == id {
			httputil.Success(w, http.StatusOK, s)
			return
		}
	}

	httputil.Error(w, http.StatusNotFound, "service not found")
}
