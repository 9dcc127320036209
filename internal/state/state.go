// Package state holds the per-session domain state of the map viewer:
// which companies and project sites exist, which are visible, and the
// radius bookkeeping that drives the "within radius of project" mode.
//
// All mutation goes through methods on Session so the rules stay in one
// place: a radius change in project mode overwrites every visibility
// flag (manual toggles made since the previous recompute are discarded
// on purpose), while re-applying the same radius is a no-op.
package state

import (
	"fmt"
	"sort"

	"company-map/internal/excel"
	"company-map/internal/geo"
	"company-map/internal/models"
	"company-map/internal/palette"
)

const (
	// DefaultRadiusMiles mirrors the slider's initial position.
	DefaultRadiusMiles = 10.0
	// noRadius is the sentinel meaning no recompute has happened yet.
	noRadius = -1.0
)

// Session is the whole in-memory state owned by one browser session.
type Session struct {
	// Companies holds the rows of the most recent successful upload,
	// in sheet order.
	Companies []models.Company

	// CompanyVisibility keys by company location label. Every location
	// ever seen has an entry; entries are never removed.
	CompanyVisibility map[string]bool

	// allCompanies records every location label across all uploads, in
	// first-seen order. Bulk "select all" acts on this set, not just on
	// the rows of the latest upload.
	allCompanies []string
	companySeen  map[string]bool

	projects     map[string]*models.ProjectSite
	projectOrder []string

	// Distances holds miles-from-reference per company location from
	// the most recent project-mode pass, for marker popups.
	Distances map[string]float64

	Mode        models.Mode
	RadiusMiles float64
	lastRadius  float64

	Palette *palette.Palette
}

func NewSession() *Session {
	return &Session{
		CompanyVisibility: make(map[string]bool),
		companySeen:       make(map[string]bool),
		projects:          make(map[string]*models.ProjectSite),
		Distances:         make(map[string]float64),
		Mode:              models.ModeAllCompanies,
		RadiusMiles:       DefaultRadiusMiles,
		lastRadius:        noRadius,
		Palette:           palette.New(),
	}
}

// LoadWorkbook installs a parsed upload into the session. Companies from
// earlier uploads keep their visibility flags; new locations default to
// visible. Project rows seed the project sites only when the session has
// none yet, so re-uploads do not clobber manual project management.
func (s *Session) LoadWorkbook(wb *excel.Workbook) {
	s.Companies = wb.Companies
	for _, c := range wb.Companies {
		s.Palette.Assign(c.Name)
		if !s.companySeen[c.Location] {
			s.companySeen[c.Location] = true
			s.allCompanies = append(s.allCompanies, c.Location)
		}
		if _, ok := s.CompanyVisibility[c.Location]; !ok {
			s.CompanyVisibility[c.Location] = true
		}
	}

	if len(s.projects) == 0 {
		for _, p := range wb.Projects {
			site := p
			s.upsertProject(&site)
		}
	}
}

func (s *Session) upsertProject(p *models.ProjectSite) {
	if _, ok := s.projects[p.Name]; !ok {
		s.projectOrder = append(s.projectOrder, p.Name)
	}
	s.projects[p.Name] = p
}

// AddProject creates or replaces a manually entered project site.
func (s *Session) AddProject(name string, lat, lon float64) {
	s.upsertProject(&models.ProjectSite{
		Name:    name,
		Loc:     models.Coordinate{Lat: lat, Lon: lon},
		Visible: true,
	})
}

// DeleteProject removes a project site entirely.
func (s *Session) DeleteProject(name string) {
	if _, ok := s.projects[name]; !ok {
		return
	}
	delete(s.projects, name)
	for i, n := range s.projectOrder {
		if n == name {
			s.projectOrder = append(s.projectOrder[:i], s.projectOrder[i+1:]...)
			break
		}
	}
}

// Project returns the named project site.
func (s *Session) Project(name string) (*models.ProjectSite, bool) {
	p, ok := s.projects[name]
	return p, ok
}

// Projects returns all project sites in insertion order.
func (s *Session) Projects() []*models.ProjectSite {
	out := make([]*models.ProjectSite, 0, len(s.projectOrder))
	for _, name := range s.projectOrder {
		out = append(out, s.projects[name])
	}
	return out
}

// ReferenceProject is the first visible project in insertion order. It
// anchors the radius filter in project mode.
func (s *Session) ReferenceProject() (*models.ProjectSite, bool) {
	for _, name := range s.projectOrder {
		if p := s.projects[name]; p.Visible {
			return p, true
		}
	}
	return nil, false
}

// SetProjectVisible flips one project's flag.
func (s *Session) SetProjectVisible(name string, visible bool) error {
	p, ok := s.projects[name]
	if !ok {
		return fmt.Errorf("unknown project %q", name)
	}
	p.Visible = visible
	return nil
}

// SetCompanyVisible flips one company location's flag.
func (s *Session) SetCompanyVisible(location string, visible bool) error {
	if !s.companySeen[location] {
		return fmt.Errorf("unknown company location %q", location)
	}
	s.CompanyVisibility[location] = visible
	return nil
}

// SetMode switches the filtering strategy. Switching alone never
// recomputes visibility; only a radius change does.
func (s *Session) SetMode(m models.Mode) {
	s.Mode = m
}

// SetRadius records the requested radius. The recompute itself happens
// in Refresh so that the same-radius guard has a single home.
func (s *Session) SetRadius(miles float64) {
	s.RadiusMiles = miles
}

// Refresh applies the radius filter when it is due. In project mode
// with a visible reference it always refreshes the distance table (the
// popups want it), but it overwrites visibility flags only when the
// radius actually changed since the last applied value. Without a
// visible project there is no reference point and nothing happens.
func (s *Session) Refresh() {
	if s.Mode != models.ModeProjectRadius {
		return
	}
	ref, ok := s.ReferenceProject()
	if !ok {
		return
	}

	for _, c := range s.Companies {
		s.Distances[c.Location] = geo.Haversine(ref.Loc.Lat, ref.Loc.Lon, c.Loc.Lat, c.Loc.Lon)
	}

	if s.RadiusMiles == s.lastRadius {
		return
	}
	for _, c := range s.Companies {
		s.CompanyVisibility[c.Location] = s.Distances[c.Location] <= s.RadiusMiles
	}
	for _, name := range s.projectOrder {
		p := s.projects[name]
		d := geo.Haversine(ref.Loc.Lat, ref.Loc.Lon, p.Loc.Lat, p.Loc.Lon)
		p.Visible = d <= s.RadiusMiles
	}
	s.lastRadius = s.RadiusMiles
}

// allVisible reports whether every location in the given set is visible.
// Locations without an explicit entry count as visible, matching the
// default-on-first-sight rule.
func (s *Session) allVisible(locations []string) bool {
	for _, loc := range locations {
		if v, ok := s.CompanyVisibility[loc]; ok && !v {
			return false
		}
	}
	return true
}

// ToggleAll is the global select/deselect-all action: if every known
// company is visible the whole set goes dark, otherwise everything
// lights up.
func (s *Session) ToggleAll() {
	target := !s.allVisible(s.allCompanies)
	for _, loc := range s.allCompanies {
		s.CompanyVisibility[loc] = target
	}
}

// GroupLocations returns the location labels of one company group, in
// sheet order of the current upload.
func (s *Session) GroupLocations(group string) []string {
	var locs []string
	for _, c := range s.Companies {
		if c.Name == group {
			locs = append(locs, c.Location)
		}
	}
	return locs
}

// ToggleGroup applies the select/deselect-all action to one company
// group, with the same aggregate rule as ToggleAll.
func (s *Session) ToggleGroup(group string) error {
	locs := s.GroupLocations(group)
	if len(locs) == 0 {
		return fmt.Errorf("unknown company group %q", group)
	}
	target := !s.allVisible(locs)
	for _, loc := range locs {
		s.CompanyVisibility[loc] = target
	}
	return nil
}

// VisibleCompanies returns the rows of the current upload whose
// location flag is on, in sheet order.
func (s *Session) VisibleCompanies() []models.Company {
	var out []models.Company
	for _, c := range s.Companies {
		if s.CompanyVisibility[c.Location] {
			out = append(out, c)
		}
	}
	return out
}

// GroupNames returns the distinct company group names sorted
// alphabetically, the order the legend uses.
func (s *Session) GroupNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range s.Companies {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}
