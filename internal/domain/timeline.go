package domain

// Tier is the month-level severity used to color a calendar cell.
type Tier string

// Month tiers.
const (
	TierCritical Tier = "critical"
	TierWarning  Tier = "warning"
	TierNormal   Tier = "normal"
)

// MonthCell is one calendar month of the timeline grid.
// Month is 0-based (January is 0).
type MonthCell struct {
	Year          int        `json:"year"`
	Month         int        `json:"month"`
	MonthName     string     `json:"month_name"`
	FullMonthName string     `json:"full_month_name"`
	HasIncident   bool       `json:"has_incident"`
	Incidents     []Incident `json:"incidents"`
	Severity      Tier       `json:"severity"`
}

// UptimeResult is the aggregate uptime over an observation window.
type UptimeResult struct {
	UptimePercentage float64 `json:"uptime_percentage"`
	TotalDays        int     `json:"total_days"`
	DowntimeDays     int     `json:"downtime_days"`
}
