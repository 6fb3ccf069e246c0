package timeline

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	h := NewHandler(newDefaultEngine(t), HandlerConfig{
		DefaultStart: day(1975, 1, 1),
		Now: func() time.Time {
			return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
		},
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_GetTimeline(t *testing.T) {
	router := newTestRouter(t)

	rec := get(t, router, "/timeline?start=1975-01-01&end=1975-12-31")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data TimelineResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	resp := body.Data
	assert.Equal(t, "1975-01-01", resp.Start)
	assert.Equal(t, "1975-12-31", resp.End)
	assert.Len(t, resp.Months, 12)
	require.NotNil(t, resp.Uptime)
	assert.Equal(t, 27, resp.Uptime.DowntimeDays)
	assert.Equal(t, "92.582418%", resp.Uptime.UptimeDisplay)
	assert.Equal(t, Summary{YearsTracked: 0, CrisisDays: 27, ServiceOutageDays: 0}, resp.Summary)
	assert.Equal(t, Legend(), resp.Legend)
}

func TestHandler_GetTimeline_DefaultWindow(t *testing.T) {
	router := newTestRouter(t)

	rec := get(t, router, "/timeline")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data TimelineResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	resp := body.Data
	assert.Equal(t, "1975-01-01", resp.Start)
	assert.Equal(t, "2025-06-15", resp.End)
	assert.Len(t, resp.Months, 50*12+6)
	assert.Equal(t, 50, resp.Summary.YearsTracked)
	assert.Equal(t, 27, resp.Summary.CrisisDays)
	assert.Equal(t, 4, resp.Summary.ServiceOutageDays)
}

func TestHandler_GetTimeline_SameDayHasNoUptime(t *testing.T) {
	router := newTestRouter(t)

	rec := get(t, router, "/timeline?start=2016-08-10&end=2016-08-10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, "null", string(body.Data["uptime"]))
}

func TestHandler_GetUptime(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantDisplay string
	}{
		{"census month", "?start=2016-08-01&end=2016-08-31", http.StatusOK, "100.000000%"},
		{"crisis year", "?start=1975-01-01&end=1975-12-31", http.StatusOK, "92.582418%"},
		{"empty window", "?start=2000-01-01&end=2000-01-01", http.StatusUnprocessableEntity, ""},
		{"reversed window", "?start=2000-02-01&end=2000-01-01", http.StatusBadRequest, ""},
		{"bad start", "?start=1975-13-01", http.StatusBadRequest, ""},
		{"bad end", "?end=yesterday", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, router, "/uptime"+tt.query)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				var body struct {
					Error struct {
						Message string `json:"message"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body.Error.Message)
				return
			}

			var body struct {
				Data UptimeResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDisplay, body.Data.UptimeDisplay)
		})
	}
}
