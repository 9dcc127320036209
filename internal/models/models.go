package models

type Coordinate struct {
	Lat float64
	Lon float64
}

// Company is one row of the "Companies" sheet. Location is the unique
// key used for visibility tracking; Name groups locations that belong
// to the same company.
type Company struct {
	Name     string
	Location string
	Loc      Coordinate
}

// ProjectSite is one row of the "Projects" sheet, or a site the user
// added by hand.
type ProjectSite struct {
	Name    string
	Loc     Coordinate
	Visible bool
}

// Mode selects the radius filtering strategy.
type Mode string

const (
	// ModeAllCompanies draws the filter radius around every visible company.
	ModeAllCompanies Mode = "all"
	// ModeProjectRadius hides everything farther than the filter radius
	// from the reference project.
	ModeProjectRadius Mode = "project"
)

func (m Mode) Valid() bool {
	return m == ModeAllCompanies || m == ModeProjectRadius
}
