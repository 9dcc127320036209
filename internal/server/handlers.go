package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"company-map/internal/excel"
	"company-map/internal/mapview"
	"company-map/internal/models"
)

// fail writes the error envelope. Every failure is an inline message
// for the page to show; the session state before the action survives.
func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}

func ok(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("workbook")
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("please choose a file to upload"))
		return
	}
	if file.Size > s.cfg.MaxUploadMB<<20 {
		fail(c, http.StatusBadRequest, fmt.Errorf("file exceeds %d MB limit", s.cfg.MaxUploadMB))
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	defer src.Close()

	wb, err := excel.Load(src)
	if err != nil {
		s.log.Warn("workbook rejected", "file", file.Filename, "error", err)
		fail(c, http.StatusUnprocessableEntity, fmt.Errorf("error loading file: %w", err))
		return
	}

	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.state.LoadWorkbook(wb)
	entry.state.Refresh()

	s.log.Info("workbook loaded", "file", file.Filename,
		"companies", len(wb.Companies), "projects", len(wb.Projects))
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"companies": len(wb.Companies),
		"projects":  len(wb.Projects),
	})
}

type memberPayload struct {
	Location string `json:"location"`
	Visible  bool   `json:"visible"`
}

type groupPayload struct {
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	AllVisible bool            `json:"allVisible"`
	Members    []memberPayload `json:"members"`
}

type projectPayload struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Visible bool    `json:"visible"`
}

func (s *Server) handleState(c *gin.Context) {
	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	st := entry.state
	st.Refresh()

	var projects []projectPayload
	for _, p := range st.Projects() {
		projects = append(projects, projectPayload{
			Name: p.Name, Lat: p.Loc.Lat, Lon: p.Loc.Lon, Visible: p.Visible,
		})
	}

	var groups []groupPayload
	for _, name := range st.GroupNames() {
		g := groupPayload{Name: name, Color: st.Palette.Color(name), AllVisible: true}
		for _, loc := range st.GroupLocations(name) {
			visible := st.CompanyVisibility[loc]
			if !visible {
				g.AllVisible = false
			}
			g.Members = append(g.Members, memberPayload{Location: loc, Visible: visible})
		}
		groups = append(groups, g)
	}

	reference := ""
	if ref, ok := st.ReferenceProject(); ok {
		reference = ref.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"hasData":     len(st.Companies) > 0,
		"mode":        st.Mode,
		"radiusMiles": st.RadiusMiles,
		"reference":   reference,
		"projects":    projects,
		"groups":      groups,
		"view":        mapview.Build(st, s.cfg.HighlightGroup),
	})
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required"`
}

func (s *Server) handleSetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	mode := models.Mode(req.Mode)
	if !mode.Valid() {
		fail(c, http.StatusBadRequest, fmt.Errorf("unknown mode %q", req.Mode))
		return
	}

	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.state.SetMode(mode)
	entry.state.Refresh()
	ok(c)
}

type radiusRequest struct {
	// The page slider runs 1..60; the exact-entry field is authoritative
	// and allows up to 500.
	RadiusMiles float64 `json:"radiusMiles" validate:"gte=1,lte=500"`
}

func (s *Server) handleSetRadius(c *gin.Context) {
	var req radiusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.state.SetRadius(req.RadiusMiles)
	entry.state.Refresh()
	ok(c)
}

type addProjectRequest struct {
	Name string  `json:"name" validate:"required"`
	Lat  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon  float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (s *Server) handleAddProject(c *gin.Context) {
	var req addProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.state.AddProject(req.Name, req.Lat, req.Lon)
	entry.state.Refresh()
	s.log.Info("project added", "name", req.Name)
	ok(c)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	name := c.Param("name")

	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.state.DeleteProject(name)
	entry.state.Refresh()
	ok(c)
}

type visibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

func (s *Server) handleProjectVisibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.state.SetProjectVisible(c.Param("name"), *req.Visible); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	entry.state.Refresh()
	ok(c)
}

type companyVisibilityRequest struct {
	Location string `json:"location" validate:"required"`
	Visible  *bool  `json:"visible" validate:"required"`
}

func (s *Server) handleCompanyVisibility(c *gin.Context) {
	var req companyVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.state.SetCompanyVisible(req.Location, *req.Visible); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	ok(c)
}

func (s *Server) handleToggleAll(c *gin.Context) {
	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.state.ToggleAll()
	ok(c)
}

type toggleGroupRequest struct {
	Group string `json:"group" validate:"required"`
}

func (s *Server) handleToggleGroup(c *gin.Context) {
	var req toggleGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	entry := s.session(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := entry.state.ToggleGroup(req.Group); err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}
	ok(c)
}
