package domain

import "time"

// ServiceStatus represents the operational status of a monitored service.
type ServiceStatus string

// Service statuses.
const (
	ServiceStatusOperational ServiceStatus = "operational"
	ServiceStatusDegraded    ServiceStatus = "degraded"
	ServiceStatusOutage      ServiceStatus = "outage"
	ServiceStatusUnknown     ServiceStatus = "unknown"
)

// IsValid checks if the service status is valid.
func (s ServiceStatus) IsValid() bool {
	switch s {
	case ServiceStatusOperational, ServiceStatusDegraded,
		ServiceStatusOutage, ServiceStatusUnknown:
		return true
	}
	return false
}

// ServiceCategory groups monitored services for display.
type ServiceCategory string

// Service categories.
const (
	ServiceCategoryCore           ServiceCategory = "core"
	ServiceCategoryTaxation       ServiceCategory = "taxation"
	ServiceCategorySocialServices ServiceCategory = "social-services"
	ServiceCategoryHealth         ServiceCategory = "health"
	ServiceCategoryParliament     ServiceCategory = "parliament"
	ServiceCategoryOther          ServiceCategory = "other"
)

// IsValid checks if the service category is valid.
func (c ServiceCategory) IsValid() bool {
	switch c {
	case ServiceCategoryCore, ServiceCategoryTaxation,
		ServiceCategorySocialServices, ServiceCategoryHealth,
		ServiceCategoryParliament, ServiceCategoryOther:
		return true
	}
	return false
}

// ServiceDescriptor describes a monitored government service.
type ServiceDescriptor struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      ServiceCategory `json:"category"`
	Status        ServiceStatus   `json:"status"`
	URL           string          `json:"url,omitempty"`
	StatusPageURL string          `json:"status_page_url,omitempty"`
	LastChecked   *time.Time      `json:"last_checked,omitempty"`
	Uptime        *float64        `json:"uptime,omitempty"`
}
