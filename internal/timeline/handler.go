package timeline

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bissquit/gov-status/internal/domain"
	"github.com/bissquit/gov-status/internal/pkg/httputil"
	"github.com/bissquit/gov-status/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

// HandlerConfig configures the default observation window.
type HandlerConfig struct {
	// DefaultStart is used when the request has no start parameter.
	DefaultStart time.Time
	// Now returns the current time; the default window ends today.
	Now func() time.Time
}

// Handler serves the monthly grid and uptime over HTTP.
type Handler struct {
	engine    *Engine
	config    HandlerConfig
	validator *validator.Validate
}

// NewHandler creates a new timeline handler.
func NewHandler(engine *Engine, config HandlerConfig) *Handler {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Handler{
		engine:    engine,
		config:    config,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public timeline routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/timeline", h.GetTimeline)
	r.Get("/uptime", h.GetUptime)
}

// WindowQuery holds the optional window bounds of a request.
type WindowQuery struct {
	Start string `validate:"omitempty,datetime=2006-01-02"`
	End   string `validate:"omitempty,datetime=2006-01-02"`
}

// UptimeResponse is an uptime result with a display-formatted percentage.
type UptimeResponse struct {
	domain.UptimeResult
	UptimeDisplay string `json:"uptime_display"`
}

// Summary is the headline shown above the grid.
type Summary struct {
	YearsTracked      int `json:"years_tracked"`
	CrisisDays        int `json:"constitutional_crisis_days"`
	ServiceOutageDays int `json:"service_outage_days"`
}

// TimelineResponse is the body of GET /timeline.
type TimelineResponse struct {
	Start   string             `json:"start"`
	End     string             `json:"end"`
	Months  []domain.MonthCell `json:"months"`
	Uptime  *UptimeResponse    `json:"uptime"`
	Summary Summary            `json:"summary"`
	Legend  []LegendEntry      `json:"legend"`
}

var windowErrors = []httputil.ErrorMapping{
	{Error: ErrInvalidWindow, Status: http.StatusBadRequest},
	{Error: ErrEmptyWindow, Status: http.StatusUnprocessableEntity},
}

// GetTimeline handles GET /timeline request.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.parseWindow(r)
	if err != nil {
		metrics.TimelineQueries.WithLabelValues("timeline", "bad_request").Inc()
		httputil.ValidationError(w, err)
		return
	}

	months, err := h.engine.GenerateMonthlyData(start, end)
	if err != nil {
		metrics.TimelineQueries.WithLabelValues("timeline", outcome(err)).Inc()
		httputil.HandleError(r.Context(), w, err, windowErrors)
		return
	}

	resp := TimelineResponse{
		Start:   start.Format(dateLayout),
		End:     end.Format(dateLayout),
		Months:  months,
		Summary: summarize(start, end, months),
		Legend:  Legend(),
	}

	// A same-day window still has a grid; it just has no uptime figure.
	uptime, err := h.engine.CalculateUptime(start, end)
	switch {
	case err == nil:
		resp.Uptime = newUptimeResponse(uptime)
	case !errors.Is(err, ErrEmptyWindow):
		metrics.TimelineQueries.WithLabelValues("timeline", outcome(err)).Inc()
		httputil.HandleError(r.Context(), w, err, windowErrors)
		return
	}

	metrics.TimelineQueries.WithLabelValues("timeline", "ok").Inc()
	httputil.Success(w, http.StatusOK, resp)
}

// GetUptime handles GET /uptime request.
func (h *Handler) GetUptime(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.parseWindow(r)
	if err != nil {
		metrics.TimelineQueries.WithLabelValues("uptime", "bad_request").Inc()
		httputil.ValidationError(w, err)
		return
	}

	uptime, err := h.engine.CalculateUptime(start, end)
	if err != nil {
		metrics.TimelineQueries.WithLabelValues("uptime", outcome(err)).Inc()
		httputil.HandleError(r.Context(), w, err, windowErrors)
		return
	}

	metrics.TimelineQueries.WithLabelValues("uptime", "ok").Inc()
	httputil.Success(w, http.StatusOK, newUptimeResponse(uptime))
}

func (h *Handler) parseWindow(r *http.Request) (time.Time, time.Time, error) {
	q := WindowQuery{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
	if err := h.validator.Struct(q); err != nil {
		return time.Time{}, time.Time{}, err
	}

	start := h.config.DefaultStart
	if q.Start != "" {
		start, _ = time.Parse(dateLayout, q.Start)
	}

	now := h.config.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if q.End != "" {
		end, _ = time.Parse(dateLayout, q.End)
	}

	return start, end, nil
}

func newUptimeResponse(u domain.UptimeResult) *UptimeResponse {
	return &UptimeResponse{
		UptimeResult:  u,
		UptimeDisplay: fmt.Sprintf("%.6f%%", u.UptimePercentage),
	}
}

func summarize(start, end time.Time, months []domain.MonthCell) Summary {
	s := Summary{YearsTracked: end.Year() - start.Year()}

	// Count each incident once even when it spans several months.
	seen := make(map[string]struct{})
	for _, m := range months {
		for _, inc := range m.Incidents {
			key := inc.ID
			if key == "" {
				key = inc.Name + inc.StartDate.String()
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			switch inc.Type {
			case domain.IncidentTypeConstitutionalCrisis:
				s.CrisisDays += inc.Duration
			case domain.IncidentTypeServiceOutage:
				s.ServiceOutageDays += inc.Duration
			}
		}
	}
	return s
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrInvalidWindow):
		return "invalid_window"
	case errors.Is(err, ErrEmptyWindow):
		return "empty_window"
	default:
		return "error"
	}
}
