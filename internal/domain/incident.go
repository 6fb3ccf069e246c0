package domain

import "time"

// IncidentType classifies what kind of disruption an incident was.
// It drives downtime accounting and the monthly severity tier.
type IncidentType string

// Incident types.
const (
	IncidentTypeConstitutionalCrisis IncidentType = "constitutional-crisis"
	IncidentTypePartialDisruption    IncidentType = "partial-disruption"
	IncidentTypeServiceOutage        IncidentType = "service-outage"
	IncidentTypeFundingDelay         IncidentType = "funding-delay"
)

// IncidentTypes lists every incident type in declaration order.
var IncidentTypes = []IncidentType{
	IncidentTypeConstitutionalCrisis,
	IncidentTypePartialDisruption,
	IncidentTypeServiceOutage,
	IncidentTypeFundingDelay,
}

// IsValid checks if the incident type is valid.
func (t IncidentType) IsValid() bool {
	switch t {
	case IncidentTypeConstitutionalCrisis, IncidentTypePartialDisruption,
		IncidentTypeServiceOutage, IncidentTypeFundingDelay:
		return true
	}
	return false
}

// CountsAsDowntime reports whether incidents of this type are full downtime
// for uptime accounting. Only constitutional crises qualify.
func (t IncidentType) CountsAsDowntime() bool {
	return t == IncidentTypeConstitutionalCrisis
}

// Severity represents the display severity of an incident.
type Severity string

// Severity levels.
const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity is valid.
func (s Severity) IsValid() bool {
	return s == SeverityMinor || s == SeverityMajor || s == SeverityCritical
}

// Incident is a recorded disruption to government operations or a service.
// Duration is authoritative for day counts and is never recomputed from the dates.
type Incident struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	StartDate        time.Time    `json:"start_date"`
	EndDate          time.Time    `json:"end_date"`
	Duration         int          `json:"duration"`
	Type             IncidentType `json:"type"`
	Severity         Severity     `json:"severity"`
	Description      string       `json:"description"`
	AffectedServices []string     `json:"affected_services"`
	Sources          []string     `json:"sources"`
}

// Overlaps reports whether the incident intersects [from, to], both ends inclusive.
func (i *Incident) Overlaps(from, to time.Time) bool {
	return !i.StartDate.After(to) && !i.EndDate.Before(from)
}

// StartsWithin reports whether the incident started within [from, to], both ends inclusive.
func (i *Incident) StartsWithin(from, to time.Time) bool {
	return !i.StartDate.Before(from) && !i.StartDate.After(to)
}
