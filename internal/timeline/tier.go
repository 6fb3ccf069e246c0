package timeline

import (
	"strings"

	"github.com/bissquit/gov-status/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tierRule elevates a month to Tier when any overlapping incident has Type.
type tierRule struct {
	Type domain.IncidentType
	Tier domain.Tier
}

// tierPrecedence is evaluated in order; the first matching rule wins.
// Partial disruptions and funding delays have no rule and leave a month normal.
var tierPrecedence = []tierRule{
	{Type: domain.IncidentTypeConstitutionalCrisis, Tier: domain.TierCritical},
	{Type: domain.IncidentTypeServiceOutage, Tier: domain.TierWarning},
}

// TierFor derives the month tier from the incidents overlapping that month.
func TierFor(incidents []domain.Incident) domain.Tier {
	for _, rule := range tierPrecedence {
		for i := range incidents {
			if incidents[i].Type == rule.Type {
				return rule.Tier
			}
		}
	}
	return domain.TierNormal
}

// LegendEntry labels a tier for display.
type LegendEntry struct {
	Tier  domain.Tier `json:"tier"`
	Label string      `json:"label"`
}

// Legend returns display labels for every tier, least severe first.
func Legend() []LegendEntry {
	legend := []LegendEntry{{Tier: domain.TierNormal, Label: "Operational"}}
	for i := len(tierPrecedence) - 1; i >= 0; i-- {
		legend = append(legend, LegendEntry{
			Tier:  tierPrecedence[i].Tier,
			Label: TypeLabel(tierPrecedence[i].Type),
		})
	}
	return legend
}

// TypeLabel turns an incident type into a title-cased label,
// e.g. "constitutional-crisis" becomes "Constitutional Crisis".
func TypeLabel(t domain.IncidentType) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "-", " "))
}
