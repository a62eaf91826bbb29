package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/five82/fauna/internal/layout"
)

// Resource names a paginated collection served under /api/<resource>.
type Resource string

const (
	ResourceRecords    Resource = "records"
	ResourceTraits     Resource = "traits"
	ResourceBiomes     Resource = "biomes"
	ResourceSpecies    Resource = "species"
	ResourceEcosystems Resource = "ecosystems"
)

// Resources lists every resource in tab order.
var Resources = []Resource{ResourceRecords, ResourceTraits, ResourceBiomes, ResourceSpecies, ResourceEcosystems}

// ParseResource accepts a resource name in either number, any case.
func ParseResource(name string) (Resource, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, r := range Resources {
		if n == string(r) || n+"s" == string(r) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q (want one of %s)", name, strings.Join(resourceNames(), ", "))
}

func resourceNames() []string {
	names := make([]string, len(Resources))
	for i, r := range Resources {
		names[i] = string(r)
	}
	return names
}

// Path returns the API path of the resource.
func (r Resource) Path() string {
	return "/api/" + string(r)
}

// Title returns a display name.
func (r Resource) Title() string {
	s := string(r)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Columns returns the table columns of the resource.
func (r Resource) Columns() []layout.Column {
	switch r {
	case ResourceRecords:
		return []layout.Column{
			{ID: "id", Title: "ID", Width: 7, Sortable: true},
			{ID: "speciesName", Title: "Species", Width: 24, Sortable: true},
			{ID: "observer", Title: "Observer", Width: 16, Sortable: true},
			{ID: "location", Title: "Location", Width: 20},
			{ID: "count", Title: "Count", Width: 6, Sortable: true},
			{ID: "verified", Title: "Verified", Width: 8},
			{ID: "observedAt", Title: "Observed", Width: 16, Sortable: true},
			{ID: "notes", Title: "Notes", Width: 30, Hidden: true},
		}
	case ResourceTraits:
		return []layout.Column{
			{ID: "id", Title: "ID", Width: 6, Sortable: true},
			{ID: "name", Title: "Name", Width: 22, Sortable: true},
			{ID: "category", Title: "Category", Width: 14, Sortable: true},
			{ID: "unit", Title: "Unit", Width: 8},
			{ID: "description", Title: "Description", Width: 36},
		}
	case ResourceBiomes:
		return []layout.Column{
			{ID: "id", Title: "ID", Width: 6, Sortable: true},
			{ID: "name", Title: "Name", Width: 22, Sortable: true},
			{ID: "climate", Title: "Climate", Width: 14, Sortable: true},
			{ID: "areaKm2", Title: "Area km²", Width: 12, Sortable: true},
			{ID: "description", Title: "Description", Width: 36, Hidden: true},
		}
	case ResourceSpecies:
		return []layout.Column{
			{ID: "id", Title: "ID", Width: 6, Sortable: true},
			{ID: "scientificName", Title: "Scientific name", Width: 26, Sortable: true},
			{ID: "commonName", Title: "Common name", Width: 20, Sortable: true},
			{ID: "family", Title: "Family", Width: 16, Sortable: true},
			{ID: "conservationStatus", Title: "Status", Width: 8, Sortable: true},
			{ID: "biomeName", Title: "Biome", Width: 16},
			{ID: "updatedAt", Title: "Updated", Width: 16, Sortable: true, Hidden: true},
		}
	case ResourceEcosystems:
		return []layout.Column{
			{ID: "id", Title: "ID", Width: 6, Sortable: true},
			{ID: "name", Title: "Name", Width: 24, Sortable: true},
			{ID: "biomeName", Title: "Biome", Width: 16, Sortable: true},
			{ID: "region", Title: "Region", Width: 18, Sortable: true},
			{ID: "speciesCount", Title: "Species", Width: 8, Sortable: true},
		}
	default:
		return nil
	}
}

// Row is an entity that can fill table cells by column id.
type Row interface {
	Cell(column string) string
}

// Record is a field observation.
type Record struct {
	ID          int64  `json:"id"`
	SpeciesName string `json:"speciesName"`
	Observer    string `json:"observer"`
	Location    string `json:"location"`
	Count       int    `json:"count"`
	Verified    bool   `json:"verified"`
	ObservedAt  string `json:"observedAt"`
	Notes       string `json:"notes"`
}

// Cell implements Row.
func (r Record) Cell(column string) string {
	switch column {
	case "id":
		return strconv.FormatInt(r.ID, 10)
	case "speciesName":
		return r.SpeciesName
	case "observer":
		return r.Observer
	case "location":
		return r.Location
	case "count":
		return strconv.Itoa(r.Count)
	case "verified":
		return yesNo(r.Verified)
	case "observedAt":
		return formatTime(r.ParsedObservedAt())
	case "notes":
		return r.Notes
	}
	return ""
}

// ParsedObservedAt returns the parsed ObservedAt timestamp.
func (r Record) ParsedObservedAt() time.Time {
	return parseTime(r.ObservedAt)
}

// Trait is a measurable characteristic of a species.
type Trait struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// Cell implements Row.
func (t Trait) Cell(column string) string {
	switch column {
	case "id":
		return strconv.FormatInt(t.ID, 10)
	case "name":
		return t.Name
	case "category":
		return t.Category
	case "unit":
		return t.Unit
	case "description":
		return t.Description
	}
	return ""
}

// Biome is a climatic region.
type Biome struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Climate     string  `json:"climate"`
	AreaKm2     float64 `json:"areaKm2"`
	Description string  `json:"description"`
}

// Cell implements Row.
func (b Biome) Cell(column string) string {
	switch column {
	case "id":
		return strconv.FormatInt(b.ID, 10)
	case "name":
		return b.Name
	case "climate":
		return b.Climate
	case "areaKm2":
		if b.AreaKm2 == 0 {
			return ""
		}
		return strconv.FormatFloat(b.AreaKm2, 'f', 0, 64)
	case "description":
		return b.Description
	}
	return ""
}

// Species is a taxon tracked by the dashboard.
type Species struct {
	ID                 int64  `json:"id"`
	ScientificName     string `json:"scientificName"`
	CommonName         string `json:"commonName"`
	Family             string `json:"family"`
	ConservationStatus string `json:"conservationStatus"`
	BiomeName          string `json:"biomeName"`
	UpdatedAt          string `json:"updatedAt"`
}

// Cell implements Row.
func (s Species) Cell(column string) string {
	switch column {
	case "id":
		return strconv.FormatInt(s.ID, 10)
	case "scientificName":
		return s.ScientificName
	case "commonName":
		return s.CommonName
	case "family":
		return s.Family
	case "conservationStatus":
		return s.ConservationStatus
	case "biomeName":
		return s.BiomeName
	case "updatedAt":
		return formatTime(s.ParsedUpdatedAt())
	}
	return ""
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (s Species) ParsedUpdatedAt() time.Time {
	return parseTime(s.UpdatedAt)
}

// Ecosystem is a community of species within a biome.
type Ecosystem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	BiomeName    string `json:"biomeName"`
	Region       string `json:"region"`
	SpeciesCount int    `json:"speciesCount"`
}

// Cell implements Row.
func (e Ecosystem) Cell(column string) string {
	switch column {
	case "id":
		return strconv.FormatInt(e.ID, 10)
	case "name":
		return e.Name
	case "biomeName":
		return e.BiomeName
	case "region":
		return e.Region
	case "speciesCount":
		return strconv.Itoa(e.SpeciesCount)
	}
	return ""
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

const dashboardTimestampLayout = "2006-01-02 15:04:05"

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	for _, layout := range []string{dashboardTimestampLayout, time.DateOnly} {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts
		}
	}
	return time.Time{}
}
