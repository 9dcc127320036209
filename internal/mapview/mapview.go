// Package mapview turns session state into the JSON payload the Leaflet
// frontend draws. It never filters: it renders exactly the entities the
// state manager already decided are visible.
package mapview

import (
	"fmt"

	"company-map/internal/geo"
	"company-map/internal/models"
	"company-map/internal/state"
)

// Icon identifiers understood by the frontend.
const (
	IconProject   = "star-red"
	IconHighlight = "star-blue"
	IconCompany   = "pin-black"
)

// cosmeticCircleMeters is the fixed company dot size in project mode.
// It is not a filter, just a visual anchor around each marker.
const cosmeticCircleMeters = 200.0

const (
	defaultZoom = 10
	worldZoom   = 2
	fillOpacity = 0.3
	refOpacity  = 0.2
	refColor    = "red"
)

type Marker struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
	Icon  string  `json:"icon"`
}

type Circle struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	RadiusM     float64 `json:"radiusM"`
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor,omitempty"`
	FillOpacity float64 `json:"fillOpacity"`
}

type LegendEntry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type View struct {
	CenterLat      float64       `json:"centerLat"`
	CenterLon      float64       `json:"centerLon"`
	Zoom           int           `json:"zoom"`
	ProjectMarkers []Marker      `json:"projectMarkers"`
	CompanyMarkers []Marker      `json:"companyMarkers"`
	Circles        []Circle      `json:"circles"`
	Legend         []LegendEntry `json:"legend"`
}

// Build renders the current session into a View. highlightGroup names
// the one company group drawn with a blue star instead of a plain pin.
func Build(s *state.Session, highlightGroup string) *View {
	v := &View{Zoom: defaultZoom}

	visible := s.VisibleCompanies()
	v.CenterLat, v.CenterLon, v.Zoom = center(s, visible)

	ref, hasRef := s.ReferenceProject()

	for _, p := range s.Projects() {
		if !p.Visible {
			continue
		}
		v.ProjectMarkers = append(v.ProjectMarkers, Marker{
			Name:  p.Name,
			Lat:   p.Loc.Lat,
			Lon:   p.Loc.Lon,
			Popup: p.Name,
			Icon:  IconProject,
		})
		if s.Mode == models.ModeProjectRadius && hasRef && p.Name == ref.Name {
			v.Circles = append(v.Circles, Circle{
				Lat:         p.Loc.Lat,
				Lon:         p.Loc.Lon,
				RadiusM:     geo.MilesToMeters(s.RadiusMiles),
				Color:       refColor,
				FillColor:   refColor,
				FillOpacity: refOpacity,
			})
		}
	}

	for _, c := range visible {
		popup := c.Location
		if s.Mode == models.ModeProjectRadius {
			if d, ok := s.Distances[c.Location]; ok {
				popup = fmt.Sprintf("%s (%.2f mi)", c.Location, d)
			}
		}

		icon := IconCompany
		if c.Name == highlightGroup {
			icon = IconHighlight
		}

		v.CompanyMarkers = append(v.CompanyMarkers, Marker{
			Name:  c.Location,
			Lat:   c.Loc.Lat,
			Lon:   c.Loc.Lon,
			Popup: popup,
			Icon:  icon,
		})

		radiusM := cosmeticCircleMeters
		if s.Mode == models.ModeAllCompanies {
			radiusM = geo.MilesToKm(s.RadiusMiles) * 1000
		}
		color := s.Palette.Color(c.Name)
		v.Circles = append(v.Circles, Circle{
			Lat:         c.Loc.Lat,
			Lon:         c.Loc.Lon,
			RadiusM:     radiusM,
			Color:       color,
			FillColor:   color,
			FillOpacity: fillOpacity,
		})
	}

	for _, name := range s.GroupNames() {
		v.Legend = append(v.Legend, LegendEntry{Name: name, Color: s.Palette.Color(name)})
	}

	return v
}

// center picks the map focus: mean of visible companies, else mean of
// visible projects, else a zoomed-out world view.
func center(s *state.Session, visible []models.Company) (lat, lon float64, zoom int) {
	if len(visible) > 0 {
		for _, c := range visible {
			lat += c.Loc.Lat
			lon += c.Loc.Lon
		}
		n := float64(len(visible))
		return lat / n, lon / n, defaultZoom
	}

	var n float64
	for _, p := range s.Projects() {
		if p.Visible {
			lat += p.Loc.Lat
			lon += p.Loc.Lon
			n++
		}
	}
	if n > 0 {
		return lat / n, lon / n, defaultZoom
	}
	return 0, 0, worldZoom
}
