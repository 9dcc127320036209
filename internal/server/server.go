// Package server wires the map viewer's HTTP surface: a Gin router, a
// cookie-identified session store, the upload endpoint and the JSON API
// the frontend drives.
package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"company-map/internal/state"
)

const sessionIDKey = "sid"

// Server owns every live session. Sessions are identified by a UUID in
// the signed cookie and live until the process exits; there is no
// persistence across restarts.
type Server struct {
	cfg      *Config
	log      *slog.Logger
	validate *validator.Validate

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// sessionEntry serializes access to one session's state. Each user
// interaction is a single synchronous pass over the state.
type sessionEntry struct {
	mu    sync.Mutex
	state *state.Session
}

func New(cfg *Config, log *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		validate: validator.New(),
		sessions: make(map[string]*sessionEntry),
	}
}

// Router builds the Gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = s.cfg.MaxUploadMB << 20

	store := cookie.NewStore([]byte(s.cfg.SessionSecret))
	r.Use(sessions.Sessions("companymap", store))

	if s.cfg.TemplateGlob != "" {
		r.LoadHTMLGlob(s.cfg.TemplateGlob)
		r.GET("/", s.handleIndex)
	}
	if s.cfg.StaticDir != "" {
		r.Static("/static", s.cfg.StaticDir)
	}

	r.POST("/upload", s.handleUpload)

	api := r.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.POST("/mode", s.handleSetMode)
		api.POST("/radius", s.handleSetRadius)
		api.POST("/projects", s.handleAddProject)
		api.DELETE("/projects/:name", s.handleDeleteProject)
		api.POST("/projects/:name/visibility", s.handleProjectVisibility)
		api.POST("/companies/visibility", s.handleCompanyVisibility)
		api.POST("/toggle-all", s.handleToggleAll)
		api.POST("/groups/toggle-all", s.handleToggleGroup)
	}

	return r
}

// session resolves the caller's state, creating it on first contact.
func (s *Server) session(c *gin.Context) *sessionEntry {
	sess := sessions.Default(c)
	id, _ := sess.Get(sessionIDKey).(string)
	if id == "" {
		id = uuid.New().String()
		sess.Set(sessionIDKey, id)
		if err := sess.Save(); err != nil {
			s.log.Warn("save session cookie", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		entry = &sessionEntry{state: state.NewSession()}
		s.sessions[id] = entry
	}
	return entry
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title": "Company Map Viewer",
	})
}
