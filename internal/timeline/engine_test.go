package timeline

import (
	"testing"
	"time"

	"github.com/bissquit/gov-status/internal/catalog"
	"github.com/bissquit/gov-status/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type incidentList []domain.Incident

func (l incidentList) Incidents() []domain.Incident { return l }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newDefaultEngine(t *testing.T) *Engine {
	t.Helper()
	c, err := catalog.LoadDefault()
	require.NoError(t, err)
	return NewEngine(c)
}

func TestEngine_Crisis1975(t *testing.T) {
	e := newDefaultEngine(t)
	start, end := day(1975, 1, 1), day(1975, 12, 31)

	months, err := e.GenerateMonthlyData(start, end)
	require.NoError(t, err)
	require.Len(t, months, 12)

	for _, m := range months {
		switch m.Month {
		case 9, 10:
			assert.True(t, m.HasIncident, m.FullMonthName)
			assert.Equal(t, domain.TierCritical, m.Severity, m.FullMonthName)
			require.Len(t, m.Incidents, 1)
			assert.Equal(t, "1975 Australian Constitutional Crisis", m.Incidents[0].Name)
			assert.Equal(t, 27, m.Incidents[0].Duration)
		default:
			assert.False(t, m.HasIncident, m.FullMonthName)
			assert.Equal(t, domain.TierNormal, m.Severity, m.FullMonthName)
			assert.Empty(t, m.Incidents)
		}
	}

	uptime, err := e.CalculateUptime(start, end)
	require.NoError(t, err)
	assert.Equal(t, 364, uptime.TotalDays)
	assert.Equal(t, 27, uptime.DowntimeDays)
	assert.InDelta(t, float64(364-27)/364*100, uptime.UptimePercentage, 1e-9)
}

func TestEngine_CensusOutageIsNotDowntime(t *testing.T) {
	e := newDefaultEngine(t)
	start, end := day(2016, 8, 1), day(2016, 8, 31)

	months, err := e.GenerateMonthlyData(start, end)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, 2016, months[0].Year)
	assert.Equal(t, 7, months[0].Month)
	assert.Equal(t, "Aug", months[0].MonthName)
	assert.Equal(t, "August", months[0].FullMonthName)
	assert.True(t, months[0].HasIncident)
	assert.Equal(t, domain.TierWarning, months[0].Severity)

	uptime, err := e.CalculateUptime(start, end)
	require.NoError(t, err)
	assert.Equal(t, 0, uptime.DowntimeDays)
	assert.Equal(t, 30, uptime.TotalDays)
	assert.Equal(t, 100.0, uptime.UptimePercentage)
}

func TestEngine_QuietMonth(t *testing.T) {
	e := newDefaultEngine(t)
	start, end := day(1980, 1, 1), day(1980, 1, 31)

	months, err := e.GenerateMonthlyData(start, end)
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.False(t, months[0].HasIncident)
	assert.Equal(t, domain.TierNormal, months[0].Severity)
	assert.NotNil(t, months[0].Incidents)

	uptime, err := e.CalculateUptime(start, end)
	require.NoError(t, err)
	assert.Equal(t, 0, uptime.DowntimeDays)
	assert.Equal(t, 100.0, uptime.UptimePercentage)
}

func TestEngine_CalculateUptime_EmptyWindow(t *testing.T) {
	e := newDefaultEngine(t)

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"same instant", day(1975, 10, 15), day(1975, 10, 15)},
		{"same day", day(1975, 10, 15), day(1975, 10, 15).Add(23 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CalculateUptime(tt.start, tt.end)
			assert.ErrorIs(t, err, ErrEmptyWindow)
		})
	}
}

func TestEngine_SameDayWindowStillHasGrid(t *testing.T) {
	e := newDefaultEngine(t)

	months, err := e.GenerateMonthlyData(day(1975, 10, 15), day(1975, 10, 15))
	require.NoError(t, err)
	require.Len(t, months, 1)
	assert.Equal(t, domain.TierCritical, months[0].Severity)
}

func TestEngine_InvalidWindow(t *testing.T) {
	e := newDefaultEngine(t)

	_, err := e.CalculateUptime(day(2000, 1, 2), day(2000, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = e.GenerateMonthlyData(day(2000, 1, 2), day(2000, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestEngine_DowntimeIsMonotonic(t *testing.T) {
	e := NewEngine(incidentList{
		{Name: "a", StartDate: day(2000, 3, 1), EndDate: day(2000, 3, 5), Duration: 4, Type: domain.IncidentTypeConstitutionalCrisis},
		{Name: "b", StartDate: day(2001, 7, 1), EndDate: day(2001, 7, 2), Duration: 1, Type: domain.IncidentTypeServiceOutage},
		{Name: "c", StartDate: day(2003, 1, 1), EndDate: day(2003, 2, 1), Duration: 31, Type: domain.IncidentTypeConstitutionalCrisis},
	})

	start := day(1999, 1, 1)
	prev := 0
	for end := day(1999, 6, 1); end.Before(day(2005, 1, 1)); end = end.AddDate(0, 3, 0) {
		u, err := e.CalculateUptime(start, end)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, u.DowntimeDays, prev, end)
		prev = u.DowntimeDays
	}
	assert.Equal(t, 35, prev)
}

func TestEngine_DowntimeCountsByStartDateOnly(t *testing.T) {
	e := NewEngine(incidentList{
		{Name: "spans", StartDate: day(2000, 1, 25), EndDate: day(2000, 2, 10), Duration: 16, Type: domain.IncidentTypeConstitutionalCrisis},
	})

	// Started before the window: not counted even though it overlaps.
	u, err := e.CalculateUptime(day(2000, 2, 1), day(2000, 2, 29))
	require.NoError(t, err)
	assert.Equal(t, 0, u.DowntimeDays)

	// Start date on the window end is inclusive; the full duration counts.
	u, err = e.CalculateUptime(day(2000, 1, 1), day(2000, 1, 25))
	require.NoError(t, err)
	assert.Equal(t, 16, u.DowntimeDays)
	assert.Equal(t, 24, u.TotalDays)
}

func TestEngine_MonthsAreContiguous(t *testing.T) {
	e := newDefaultEngine(t)

	months, err := e.GenerateMonthlyData(day(1975, 1, 1), day(2025, 6, 15))
	require.NoError(t, err)
	require.Len(t, months, 50*12+6)

	for i := 1; i < len(months); i++ {
		prev, cur := months[i-1], months[i]
		wantYear, wantMonth := prev.Year, prev.Month+1
		if wantMonth == 12 {
			wantYear, wantMonth = wantYear+1, 0
		}
		assert.Equal(t, wantYear, cur.Year)
		assert.Equal(t, wantMonth, cur.Month)
	}
}

func TestEngine_YearRolloverAndLeapFebruary(t *testing.T) {
	e := NewEngine(incidentList{
		{Name: "leap day", StartDate: day(2024, 2, 29), EndDate: day(2024, 2, 29), Duration: 0, Type: domain.IncidentTypeServiceOutage},
		{Name: "new year", StartDate: day(2023, 12, 31), EndDate: day(2024, 1, 1), Duration: 1, Type: domain.IncidentTypeFundingDelay},
	})

	months, err := e.GenerateMonthlyData(day(2023, 11, 30), day(2024, 3, 1))
	require.NoError(t, err)
	require.Len(t, months, 5)

	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.MonthName
	}
	assert.Equal(t, []string{"Nov", "Dec", "Jan", "Feb", "Mar"}, labels)

	assert.Equal(t, 2023, months[1].Year)
	assert.Equal(t, 2024, months[2].Year)

	// The year-end incident shows in both months but does not raise the tier.
	assert.True(t, months[1].HasIncident)
	assert.True(t, months[2].HasIncident)
	assert.Equal(t, domain.TierNormal, months[1].Severity)
	assert.Equal(t, domain.TierNormal, months[2].Severity)

	assert.Equal(t, domain.TierWarning, months[3].Severity)
	assert.Equal(t, "leap day", months[3].Incidents[0].Name)
	assert.False(t, months[4].HasIncident)
}

func TestEngine_MonthEndStartDoesNotSkipFebruary(t *testing.T) {
	e := NewEngine(incidentList{})

	months, err := e.GenerateMonthlyData(day(2023, 1, 31), day(2023, 3, 31))
	require.NoError(t, err)
	require.Len(t, months, 3)
	assert.Equal(t, "February", months[1].FullMonthName)
}

func TestEngine_IncidentOccurrences(t *testing.T) {
	incidents := incidentList{
		{Name: "three months", StartDate: day(2010, 1, 20), EndDate: day(2010, 3, 2), Duration: 41, Type: domain.IncidentTypePartialDisruption},
		{Name: "one month", StartDate: day(2010, 2, 10), EndDate: day(2010, 2, 12), Duration: 2, Type: domain.IncidentTypeServiceOutage},
		{Name: "outside", StartDate: day(2012, 1, 1), EndDate: day(2012, 1, 2), Duration: 1, Type: domain.IncidentTypeServiceOutage},
	}
	e := NewEngine(incidents)

	months, err := e.GenerateMonthlyData(day(2010, 1, 1), day(2010, 12, 31))
	require.NoError(t, err)

	occurrences := map[string]int{}
	for _, m := range months {
		for _, inc := range m.Incidents {
			occurrences[inc.Name]++
		}
	}
	assert.Equal(t, map[string]int{"three months": 3, "one month": 1}, occurrences)

	// Insertion order is preserved within a month.
	feb := months[1]
	require.Len(t, feb.Incidents, 2)
	assert.Equal(t, "three months", feb.Incidents[0].Name)
	assert.Equal(t, "one month", feb.Incidents[1].Name)
	assert.Equal(t, domain.TierWarning, feb.Severity)
	assert.Equal(t, domain.TierNormal, months[0].Severity)
}

func TestEngine_IsDeterministic(t *testing.T) {
	e := newDefaultEngine(t)

	a, err := e.GenerateMonthlyData(day(1975, 1, 1), day(2024, 12, 31))
	require.NoError(t, err)
	b, err := e.GenerateMonthlyData(day(1975, 1, 1), day(2024, 12, 31))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
