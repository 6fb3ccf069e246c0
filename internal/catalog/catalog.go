// Package catalog holds the immutable incident and service tables the
// timeline is computed from, and serves the service list over HTTP.
package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bissquit/gov-status/internal/domain"
)

// Catalog is a read-only snapshot of incidents and monitored services.
// It is built once at start-up and never mutated, so it is safe for
// concurrent use without locking.
type Catalog struct {
	incidents []domain.Incident
	services  []domain.ServiceDescriptor
}

// New validates the given records and builds a catalog from them.
// Incident order is preserved as given.
func New(incidents []domain.Incident, services []domain.ServiceDescriptor) (*Catalog, error) {
	for i := range incidents {
		if err := validateIncident(&incidents[i]); err != nil {
			return nil, fmt.Errorf("%w: #%d %q: %w", ErrMalformedIncident, i, incidents[i].Name, err)
		}
	}

	seen := make(map[string]struct{}, len(services))
	for i := range services {
		if err := validateService(&services[i]); err != nil {
			return nil, fmt.Errorf("%w: #%d %q: %w", ErrMalformedService, i, services[i].ID, err)
		}
		if _, ok := seen[services[i].ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateService, services[i].ID)
		}
		seen[services[i].ID] = struct{}{}
	}

	c := &Catalog{
		incidents: make([]domain.Incident, len(incidents)),
		services:  make([]domain.ServiceDescriptor, len(services)),
	}
	for i := range incidents {
		c.incidents[i] = cloneIncident(incidents[i])
	}
	copy(c.services, services)

	return c, nil
}

// Incidents returns the incidents in catalog order.
// The result is a copy; modifying it does not affect the catalog.
func (c *Catalog) Incidents() []domain.Incident {
	out := make([]domain.Incident, len(c.incidents))
	for i := range c.incidents {
		out[i] = cloneIncident(c.incidents[i])
	}
	return out
}

// Services returns the monitored services in catalog order.
func (c *Catalog) Services() []domain.ServiceDescriptor {
	return slices.Clone(c.services)
}

// IncidentCount returns the number of incidents in the catalog.
func (c *Catalog) IncidentCount() int {
	return len(c.incidents)
}

// ServiceCount returns the number of services in the catalog.
func (c *Catalog) ServiceCount() int {
	return len(c.services)
}

// SortByRecency returns a copy of incidents ordered by start date, most recent first.
// Incidents sharing a start date keep their relative order.
func SortByRecency(incidents []domain.Incident) []domain.Incident {
	sorted := slices.Clone(incidents)
	slices.SortStableFunc(sorted, func(a, b domain.Incident) int {
		return b.StartDate.Compare(a.StartDate)
	})
	return sorted
}

// CountByType returns the number of incidents per type.
// Every known type is present in the result, zero when absent.
func CountByType(incidents []domain.Incident) map[domain.IncidentType]int {
	counts := make(map[domain.IncidentType]int, len(domain.IncidentTypes))
	for _, t := range domain.IncidentTypes {
		counts[t] = 0
	}
	for i := range incidents {
		counts[incidents[i].Type]++
	}
	return counts
}

// TotalDuration sums the duration of every incident of the given type.
func TotalDuration(incidents []domain.Incident, t domain.IncidentType) int {
	total := 0
	for i := range incidents {
		if incidents[i].Type == t {
			total += incidents[i].Duration
		}
	}
	return total
}

func validateIncident(inc *domain.Incident) error {
	switch {
	case inc.Name == "":
		return errors.New("name is required")
	case inc.StartDate.IsZero() || inc.EndDate.IsZero():
		return errors.New("start and end dates are required")
	case inc.EndDate.Before(inc.StartDate):
		return fmt.Errorf("end date %s is before start date %s",
			inc.EndDate.Format(DateLayout), inc.StartDate.Format(DateLayout))
	case inc.Duration < 0:
		return fmt.Errorf("negative duration %d", inc.Duration)
	case !inc.Type.IsValid():
		return fmt.Errorf("invalid type %q", inc.Type)
	case !inc.Severity.IsValid():
		return fmt.Errorf("invalid severity %q", inc.Severity)
	}
	return nil
}

func validateService(svc *domain.ServiceDescriptor) error {
	switch {
	case svc.ID == "":
		return errors.New("id is required")
	case svc.Name == "":
		return errors.New("name is required")
	case !svc.Category.IsValid():
		return fmt.Errorf("invalid category %q", svc.Category)
	case !svc.Status.IsValid():
		return fmt.Errorf("invalid status %q", svc.Status)
	}
	return nil
}

func cloneIncident(inc domain.Incident) domain.Incident {
	inc.AffectedServices = slices.Clone(inc.AffectedServices)
	inc.Sources = slices.Clone(inc.Sources)
	return inc
}
