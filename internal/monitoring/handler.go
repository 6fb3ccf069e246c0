package monitoring

import (
	"net/http"
	"time"

	"github.com/bissquit/gov-status/internal/domain"
	"github.com/bissquit/gov-status/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
)

// StatusSource provides the latest service statuses.
type StatusSource interface {
	Snapshot() ([]domain.ServiceDescriptor, time.Time)
	Interval() time.Duration
}

// Handler serves the current status of monitored services.
type Handler struct {
	source StatusSource
	now    func() time.Time
}

// NewHandler creates a new status handler.
func NewHandler(source StatusSource) *Handler {
	return &Handler{source: source, now: time.Now}
}

// RegisterRoutes registers the status route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/status", h.GetStatus)
}

// StatusMetadata tells clients when the statuses were taken and when to ask again.
type StatusMetadata struct {
	LastUpdate time.Time `json:"last_update"`
	NextUpdate time.Time `json:"next_update"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Timestamp time.Time                  `json:"timestamp"`
	Services  []domain.ServiceDescriptor `json:"services"`
	Metadata  StatusMetadata             `json:"metadata"`
}

// GetStatus handles GET /status request.
func (h *Handler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	now := h.now().UTC()
	services, lastUpdate := h.source.Snapshot()

	// Without a completed poll the static catalog is current as of now.
	if lastUpdate.IsZero() {
		lastUpdate = now
	}
	lastUpdate = lastUpdate.UTC()

	next := lastUpdate.Add(h.source.Interval())
	if next.Before(now) {
		next = now.Add(h.source.Interval())
	}

	httputil.JSON(w, http.StatusOK, StatusResponse{
		Timestamp: now,
		Services:  services,
		Metadata: StatusMetadata{
			LastUpdate: lastUpdate,
			NextUpdate: next,
		},
	})
}
