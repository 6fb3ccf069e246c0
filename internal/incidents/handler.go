// Package incidents serves the historical incident feed.
package incidents

import (
	"net/http"
	"time"

	"github.com/bissquit/gov-status/internal/catalog"
	"github.com/bissquit/gov-status/internal/domain"
	"github.com/bissquit/gov-status/internal/pkg/ctxlog"
	"github.com/bissquit/gov-status/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// Lister provides the incident catalog in insertion order.
type Lister interface {
	Incidents() []domain.Incident
}

// Handler serves GET and POST /incidents.
type Handler struct {
	lister Lister
	now    func() time.Time
}

// NewHandler creates a new incidents handler.
func NewHandler(lister Lister) *Handler {
	return &Handler{lister: lister, now: time.Now}
}

// RegisterRoutes registers the incident routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/incidents", h.ListIncidents)
	r.Post("/incidents", h.SubmitIncident)
}

// Metadata summarizes the feed.
type Metadata struct {
	Total                int                         `json:"total"`
	ConstitutionalCrises int                         `json:"constitutional_crises"`
	ServiceOutages       int                         `json:"service_outages"`
	ByType               map[domain.IncidentType]int `json:"by_type"`
}

// FeedResponse is the body of GET /incidents.
type FeedResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Incidents []domain.Incident `json:"incidents"`
	Metadata  Metadata          `json:"metadata"`
}

// ListIncidents handles GET /incidents request.
// Incidents are ordered most recent first.
func (h *Handler) ListIncidents(w http.ResponseWriter, _ *http.Request) {
	sorted := catalog.SortByRecency(h.lister.Incidents())
	counts := catalog.CountByType(sorted)

	httputil.JSON(w, http.StatusOK, FeedResponse{
		Timestamp: h.now().UTC(),
		Incidents: sorted,
		Metadata: Metadata{
			Total:                len(sorted),
			ConstitutionalCrises: counts[domain.IncidentTypeConstitutionalCrisis],
			ServiceOutages:       counts[domain.IncidentTypeServiceOutage],
			ByType:               counts,
		},
	})
}

// SubmitIncident handles POST /incidents request.
// The catalog is compiled in and has no write path, so every submission is rejected.
func (h *Handler) SubmitIncident(w http.ResponseWriter, r *http.Request) {
	ctxlog.FromContext(r.Context()).Warn("rejected incident submission",
		"remote_addr", r.RemoteAddr,
	)
	httputil.Error(w, http.StatusUnauthorized, "admin authentication required")
}
