package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bissquit/gov-status/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DateLayout is the calendar date format used in data files and query parameters.
const DateLayout = "2006-01-02"

//go:embed data/*.yaml
var dataFS embed.FS

// incidentNamespace seeds the name-based UUIDs assigned to incidents.
var incidentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/bissquit/gov-status/incidents"))

type incidentRecord struct {
	Name             string   `yaml:"name" validate:"required"`
	StartDate        string   `yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string   `yaml:"end_date" validate:"required,datetime=2006-01-02"`
	Duration         int      `yaml:"duration" validate:"gte=0"`
	Type             string   `yaml:"type" validate:"required,oneof=constitutional-crisis partial-disruption service-outage funding-delay"`
	Severity         string   `yaml:"severity" validate:"required,oneof=critical major minor"`
	Description      string   `yaml:"description"`
	AffectedServices []string `yaml:"affected_services"`
	Sources          []string `yaml:"sources" validate:"dive,url"`
}

type serviceRecord struct {
	ID            string `yaml:"id" validate:"required"`
	Name          string `yaml:"name" validate:"required"`
	Category      string `yaml:"category" validate:"required,oneof=core taxation social-services health parliament other"`
	Status        string `yaml:"status" validate:"omitempty,oneof=operational degraded outage unknown"`
	URL           string `yaml:"url" validate:"omitempty,url"`
	StatusPageURL string `yaml:"status_page_url" validate:"omitempty,url"`
}

// Sources names where the catalog tables come from.
// Empty paths select the tables embedded in the binary.
type Sources struct {
	IncidentsPath string
	ServicesPath  string
}

// Load reads both tables once and builds the catalog.
func Load(src Sources) (*Catalog, error) {
	incidentsData, err := readTable(src.IncidentsPath, "data/incidents.yaml")
	if err != nil {
		return nil, fmt.Errorf("read incidents: %w", err)
	}

	servicesData, err := readTable(src.ServicesPath, "data/services.yaml")
	if err != nil {
		return nil, fmt.Errorf("read services: %w", err)
	}

	return Parse(incidentsData, servicesData)
}

// LoadDefault builds the catalog from the embedded tables.
func LoadDefault() (*Catalog, error) {
	return Load(Sources{})
}

// Parse decodes YAML incident and service tables and builds the catalog.
func Parse(incidentsData, servicesData []byte) (*Catalog, error) {
	validate := validator.New()

	var incidentRecords []incidentRecord
	if err := decodeStrict(incidentsData, &incidentRecords); err != nil {
		return nil, fmt.Errorf("%w: decode table: %w", ErrMalformedIncident, err)
	}

	var serviceRecords []serviceRecord
	if err := decodeStrict(servicesData, &serviceRecords); err != nil {
		return nil, fmt.Errorf("%w: decode table: %w", ErrMalformedService, err)
	}

	incidents := make([]domain.Incident, 0, len(incidentRecords))
	for i, rec := range incidentRecords {
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: #%d %q: %w", ErrMalformedIncident, i, rec.Name, err)
		}
		inc, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: #%d %q: %w", ErrMalformedIncident, i, rec.Name, err)
		}
		incidents = append(incidents, inc)
	}

	services := make([]domain.ServiceDescriptor, 0, len(serviceRecords))
	for i, rec := range serviceRecords {
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: #%d %q: %w", ErrMalformedService, i, rec.ID, err)
		}
		services = append(services, rec.toDomain())
	}

	return New(incidents, services)
}

// IncidentID returns the stable identifier assigned to an incident.
func IncidentID(name string, start time.Time) string {
	return uuid.NewSHA1(incidentNamespace, []byte(name+"|"+start.Format(DateLayout))).String()
}

func (r incidentRecord) toDomain() (domain.Incident, error) {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return domain.Incident{}, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return domain.Incident{}, fmt.Errorf("parse end date: %w", err)
	}

	affected := r.AffectedServices
	if affected == nil {
		affected = make([]string, 0)
	}
	sources := r.Sources
	if sources == nil {
		sources = make([]string, 0)
	}

	return domain.Incident{
		ID:               IncidentID(r.Name, start),
		Name:             r.Name,
		StartDate:        start,
		EndDate:          end,
		Duration:         r.Duration,
		Type:             domain.IncidentType(r.Type),
		Severity:         domain.Severity(r.Severity),
		Description:      r.Description,
		AffectedServices: affected,
		Sources:          sources,
	}, nil
}

func (r serviceRecord) toDomain() domain.ServiceDescriptor {
	status := domain.ServiceStatus(r.Status)
	if status == "" {
		status = domain.ServiceStatusUnknown
	}

	return domain.ServiceDescriptor{
		ID:            r.ID,
		Name:          r.Name,
		Category:      domain.ServiceCategory(r.Category),
		Status:        status,
		URL:           r.URL,
		StatusPageURL: r.StatusPageURL,
	}
}

func readTable(path, embedded string) ([]byte, error) {
	if path == "" {
		return dataFS.ReadFile(embedded)
	}
	return os.ReadFile(path)
}

func decodeStrict(data []byte, out interface{}) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
