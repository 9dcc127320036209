package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-map/internal/excel"
	"company-map/internal/models"
	"company-map/internal/state"
)

func buildSession(t *testing.T) *state.Session {
	t.Helper()
	s := state.NewSession()
	s.LoadWorkbook(&excel.Workbook{
		Companies: []models.Company{
			{Name: "Raptor Materials", Location: "A", Loc: models.Coordinate{Lat: 0, Lon: 0}},
			{Name: "Granite Co", Location: "B", Loc: models.Coordinate{Lat: 0, Lon: 0.1}},
		},
		Projects: []models.ProjectSite{
			{Name: "P", Loc: models.Coordinate{Lat: 0, Lon: 0}, Visible: true},
		},
	})
	return s
}

func TestBuildAllCompaniesMode(t *testing.T) {
	s := buildSession(t)
	s.SetRadius(10)
	v := Build(s, "Raptor Materials")

	require.Len(t, v.CompanyMarkers, 2)
	assert.Equal(t, IconHighlight, v.CompanyMarkers[0].Icon)
	assert.Equal(t, IconCompany, v.CompanyMarkers[1].Icon)
	assert.Equal(t, "A", v.CompanyMarkers[0].Popup) // no distance suffix in all mode

	require.Len(t, v.ProjectMarkers, 1)
	assert.Equal(t, IconProject, v.ProjectMarkers[0].Icon)

	// One circle per company, radius = miles in km * 1000, no reference circle.
	require.Len(t, v.Circles, 2)
	assert.InDelta(t, 16093.4, v.Circles[0].RadiusM, 0.1)
	assert.Equal(t, v.Circles[0].Color, v.Circles[0].FillColor)
}

func TestBuildProjectRadiusMode(t *testing.T) {
	s := buildSession(t)
	s.SetMode(models.ModeProjectRadius)
	s.SetRadius(10)
	s.Refresh()
	v := Build(s, "")

	// Reference circle uses the filter radius in meters.
	var refCircles, cosmetic int
	for _, c := range v.Circles {
		switch {
		case c.Color == "red":
			refCircles++
			assert.InDelta(t, 16093.4, c.RadiusM, 0.1)
		default:
			cosmetic++
			assert.Equal(t, 200.0, c.RadiusM)
		}
	}
	assert.Equal(t, 1, refCircles)
	assert.Equal(t, 2, cosmetic)

	// Popups carry the computed distance.
	require.Len(t, v.CompanyMarkers, 2)
	assert.Equal(t, "A (0.00 mi)", v.CompanyMarkers[0].Popup)
	assert.Contains(t, v.CompanyMarkers[1].Popup, " mi)")
}

func TestBuildDrawsOnlyVisible(t *testing.T) {
	s := buildSession(t)
	require.NoError(t, s.SetCompanyVisible("A", false))
	require.NoError(t, s.SetProjectVisible("P", false))
	v := Build(s, "")

	require.Len(t, v.CompanyMarkers, 1)
	assert.Equal(t, "B", v.CompanyMarkers[0].Name)
	assert.Empty(t, v.ProjectMarkers)
}

func TestLegendSortedWithColors(t *testing.T) {
	s := buildSession(t)
	v := Build(s, "")

	require.Len(t, v.Legend, 2)
	assert.Equal(t, "Granite Co", v.Legend[0].Name)
	assert.Equal(t, "Raptor Materials", v.Legend[1].Name)
	assert.NotEmpty(t, v.Legend[0].Color)
	assert.NotEqual(t, v.Legend[0].Color, v.Legend[1].Color)
}

func TestCenterFallbacks(t *testing.T) {
	s := buildSession(t)
	v := Build(s, "")
	assert.InDelta(t, 0.05, v.CenterLon, 1e-9) // mean of visible companies
	assert.Equal(t, 10, v.Zoom)

	s.ToggleAll() // hide every company
	v = Build(s, "")
	assert.Equal(t, 0.0, v.CenterLat) // falls back to visible project
	assert.Equal(t, 10, v.Zoom)

	require.NoError(t, s.SetProjectVisible("P", false))
	v = Build(s, "")
	assert.Equal(t, 2, v.Zoom) // nothing visible: world view
}
