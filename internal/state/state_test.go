package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-map/internal/excel"
	"company-map/internal/models"
)

func company(group, location string, lat, lon float64) models.Company {
	return models.Company{
		Name:     group,
		Location: location,
		Loc:      models.Coordinate{Lat: lat, Lon: lon},
	}
}

// testWorkbook gives project P at the origin and three companies at
// 0 mi, ~6.9 mi and ~69 mi from it.
func testWorkbook() *excel.Workbook {
	return &excel.Workbook{
		Companies: []models.Company{
			company("Raptor Materials", "A", 0, 0),
			company("Raptor Materials", "B", 0, 0.1),
			company("Granite Co", "C", 1, 0),
		},
		Projects: []models.ProjectSite{
			{Name: "P", Loc: models.Coordinate{Lat: 0, Lon: 0}, Visible: true},
		},
	}
}

func loadedSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.LoadWorkbook(testWorkbook())
	return s
}

func TestLoadDefaultsVisible(t *testing.T) {
	s := loadedSession(t)

	for _, loc := range []string{"A", "B", "C"} {
		assert.True(t, s.CompanyVisibility[loc], loc)
	}
	p, ok := s.Project("P")
	require.True(t, ok)
	assert.True(t, p.Visible)
}

func TestReloadKeepsFlagsAndProjects(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SetCompanyVisible("B", false))
	s.AddProject("Q", 5, 5)

	// Second upload with an extra project row: company flags survive,
	// project sites are not reseeded.
	wb := testWorkbook()
	wb.Projects = append(wb.Projects, models.ProjectSite{Name: "R", Visible: true})
	s.LoadWorkbook(wb)

	assert.False(t, s.CompanyVisibility["B"])
	_, ok := s.Project("R")
	assert.False(t, ok)
	_, ok = s.Project("Q")
	assert.True(t, ok)
}

func TestRadiusRecomputeBoundaryInclusive(t *testing.T) {
	s := loadedSession(t)
	s.SetMode(models.ModeProjectRadius)
	s.SetRadius(10)
	s.Refresh()

	assert.True(t, s.CompanyVisibility["A"])  // 0 mi
	assert.True(t, s.CompanyVisibility["B"])  // ~6.9 mi
	assert.False(t, s.CompanyVisibility["C"]) // ~69 mi

	// Exactly-on-the-boundary stays visible.
	s2 := loadedSession(t)
	s2.SetMode(models.ModeProjectRadius)
	d := func() float64 {
		s2.SetRadius(1000)
		s2.Refresh()
		return s2.Distances["B"]
	}()
	s2.SetRadius(d)
	s2.Refresh()
	assert.True(t, s2.CompanyVisibility["B"])
}

func TestRadiusRecomputeOverwritesManualToggles(t *testing.T) {
	s := loadedSession(t)
	s.SetMode(models.ModeProjectRadius)
	s.SetRadius(10)
	s.Refresh()

	// Manually hide B, then change the radius: the recompute is a full
	// overwrite, so B comes back.
	require.NoError(t, s.SetCompanyVisible("B", false))
	s.SetRadius(20)
	s.Refresh()
	assert.True(t, s.CompanyVisibility["B"])
}

func TestSameRadiusIsNoOp(t *testing.T) {
	s := loadedSession(t)
	s.SetMode(models.ModeProjectRadius)
	s.SetRadius(10)
	s.Refresh()

	require.NoError(t, s.SetCompanyVisible("A", false))
	s.SetRadius(10)
	s.Refresh()
	// Manual toggle survives a refresh at an unchanged radius.
	assert.False(t, s.CompanyVisibility["A"])
}

func TestRefreshWithoutVisibleProjectSkips(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SetProjectVisible("P", false))
	require.NoError(t, s.SetCompanyVisible("C", false))

	s.SetMode(models.ModeProjectRadius)
	s.SetRadius(10)
	s.Refresh()

	// No reference point, so nothing moved.
	assert.True(t, s.CompanyVisibility["A"])
	assert.False(t, s.CompanyVisibility["C"])
}

func TestRefreshInAllModeSkips(t *testing.T) {
	s := loadedSession(t)
	s.SetRadius(1)
	s.Refresh()
	assert.True(t, s.CompanyVisibility["C"])
}

func TestRecomputeFiltersProjects(t *testing.T) {
	s := loadedSession(t)
	s.AddProject("Far", 10, 10)
	s.SetMode(models.ModeProjectRadius)
	s.SetRadius(10)
	s.Refresh()

	p, _ := s.Project("P")
	assert.True(t, p.Visible) // reference is 0 mi from itself
	far, _ := s.Project("Far")
	assert.False(t, far.Visible)
}

func TestReferenceProjectInsertionOrder(t *testing.T) {
	s := NewSession()
	s.AddProject("first", 1, 1)
	s.AddProject("second", 2, 2)

	ref, ok := s.ReferenceProject()
	require.True(t, ok)
	assert.Equal(t, "first", ref.Name)

	require.NoError(t, s.SetProjectVisible("first", false))
	ref, ok = s.ReferenceProject()
	require.True(t, ok)
	assert.Equal(t, "second", ref.Name)

	s.DeleteProject("second")
	_, ok = s.ReferenceProject()
	assert.False(t, ok)
}

func TestToggleAllAggregateRule(t *testing.T) {
	s := loadedSession(t)

	// All visible -> everything off.
	s.ToggleAll()
	for _, loc := range []string{"A", "B", "C"} {
		assert.False(t, s.CompanyVisibility[loc])
	}

	// Mixed -> everything on.
	require.NoError(t, s.SetCompanyVisible("A", true))
	s.ToggleAll()
	for _, loc := range []string{"A", "B", "C"} {
		assert.True(t, s.CompanyVisibility[loc])
	}
}

func TestToggleGroupAggregateRule(t *testing.T) {
	s := loadedSession(t)

	require.NoError(t, s.ToggleGroup("Raptor Materials"))
	assert.False(t, s.CompanyVisibility["A"])
	assert.False(t, s.CompanyVisibility["B"])
	assert.True(t, s.CompanyVisibility["C"]) // other group untouched

	// Mixed group -> all on.
	require.NoError(t, s.SetCompanyVisible("A", true))
	require.NoError(t, s.ToggleGroup("Raptor Materials"))
	assert.True(t, s.CompanyVisibility["A"])
	assert.True(t, s.CompanyVisibility["B"])

	assert.Error(t, s.ToggleGroup("No Such Group"))
}

func TestAddProjectRetrievableByName(t *testing.T) {
	s := NewSession()
	s.AddProject("X", 40.0, -75.0)

	p, ok := s.Project("X")
	require.True(t, ok)
	assert.Equal(t, 40.0, p.Loc.Lat)
	assert.Equal(t, -75.0, p.Loc.Lon)
	assert.True(t, p.Visible)
}

func TestDeleteProject(t *testing.T) {
	s := NewSession()
	s.AddProject("X", 1, 1)
	s.DeleteProject("X")
	_, ok := s.Project("X")
	assert.False(t, ok)
	assert.Empty(t, s.Projects())

	// Deleting an unknown name is a no-op.
	s.DeleteProject("never existed")
}

func TestManualTogglesDoNotTouchOthers(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SetCompanyVisible("B", false))
	assert.True(t, s.CompanyVisibility["A"])
	assert.True(t, s.CompanyVisibility["C"])

	assert.Error(t, s.SetCompanyVisible("nope", true))
	assert.Error(t, s.SetProjectVisible("nope", true))
}

func TestVisibleCompaniesAndGroups(t *testing.T) {
	s := loadedSession(t)
	require.NoError(t, s.SetCompanyVisible("B", false))

	vis := s.VisibleCompanies()
	require.Len(t, vis, 2)
	assert.Equal(t, "A", vis[0].Location)
	assert.Equal(t, "C", vis[1].Location)

	assert.Equal(t, []string{"Granite Co", "Raptor Materials"}, s.GroupNames())
	assert.Equal(t, []string{"A", "B"}, s.GroupLocations("Raptor Materials"))
}
