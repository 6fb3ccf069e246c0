// Package timeline aggregates the incident catalog into a monthly severity
// grid and an uptime statistic over an observation window.
//
// Everything here is a pure function of the incidents and the window: no
// clock reads, no logging, no shared mutable state.
package timeline

import (
	"fmt"
	"time"

	"github.com/bissquit/gov-status/internal/domain"
)

// IncidentSource provides the incidents the engine aggregates.
type IncidentSource interface {
	Incidents() []domain.Incident
}

// Engine computes timeline views over a fixed set of incidents.
type Engine struct {
	incidents []domain.Incident
}

// NewEngine creates an engine over a snapshot of the source's incidents.
func NewEngine(source IncidentSource) *Engine {
	return &Engine{incidents: source.Incidents()}
}

// CalculateUptime returns the uptime over [start, end].
//
// TotalDays counts whole elapsed days between start and end, with no
// fencepost adjustment. Downtime sums the Duration of constitutional-crisis
// incidents that started within the window, ends inclusive; no other type
// counts. A window shorter than one day returns ErrEmptyWindow.
func (e *Engine) CalculateUptime(start, end time.Time) (domain.UptimeResult, error) {
	if err := checkWindow(start, end); err != nil {
		return domain.UptimeResult{}, err
	}

	totalDays := wholeDaysBetween(start, end)
	if totalDays == 0 {
		return domain.UptimeResult{}, fmt.Errorf("%w: %s to %s", ErrEmptyWindow,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	downtimeDays := 0
	for i := range e.incidents {
		inc := &e.incidents[i]
		if inc.Type.CountsAsDowntime() && inc.StartsWithin(start, end) {
			downtimeDays += inc.Duration
		}
	}

	return domain.UptimeResult{
		UptimePercentage: float64(totalDays-downtimeDays) / float64(totalDays) * 100,
		TotalDays:        totalDays,
		DowntimeDays:     downtimeDays,
	}, nil
}

// GenerateMonthlyData returns one cell per calendar month from the month
// containing start through the month containing end, in chronological order.
// An incident appears in every month it overlaps.
func (e *Engine) GenerateMonthlyData(start, end time.Time) ([]domain.MonthCell, error) {
	if err := checkWindow(start, end); err != nil {
		return nil, err
	}

	months := make([]domain.MonthCell, 0, monthsSpanned(start, end))

	for cursor := firstOfMonth(start); !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		monthStart := cursor
		monthEnd := lastOfMonth(cursor)

		incidents := make([]domain.Incident, 0)
		for i := range e.incidents {
			if e.incidents[i].Overlaps(monthStart, monthEnd) {
				incidents = append(incidents, e.incidents[i])
			}
		}

		months = append(months, domain.MonthCell{
			Year:          cursor.Year(),
			Month:         int(cursor.Month()) - 1,
			MonthName:     shortMonthName(cursor.Month()),
			FullMonthName: cursor.Month().String(),
			HasIncident:   len(incidents) > 0,
			Incidents:     incidents,
			Severity:      TierFor(incidents),
		})
	}

	return months, nil
}

func checkWindow(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidWindow,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func monthsSpanned(start, end time.Time) int {
	return max(0, (end.Year()-start.Year())*12+int(end.Month())-int(start.Month())+1)
}
