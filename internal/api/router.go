package api

import (
	"database/sql"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"modelforge/internal/gen"
	"modelforge/internal/logger"
	"modelforge/internal/session"
	"modelforge/internal/suggest"
	"modelforge/internal/template"
	"modelforge/internal/wizard"
)

// Server holds what the handlers share.
type Server struct {
	Store    *session.Store
	Gen      *gen.Generator
	Pipeline *wizard.Pipeline
	Suggest  suggest.Client // nil: suggestions disabled
	DB       *sql.DB        // nil: apply disabled
	Log      *logger.Logger

	TemplatesDir string
	ExportRoot   string
	AutoApply    bool   // apply the full DDL after every generate
	SystemName   string // default for sessions created without one

	mu        sync.RWMutex
	templates *template.Catalog
}

func NewServer(store *session.Store, catalog *template.Catalog, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	g := gen.New()
	return &Server{
		Store:     store,
		Gen:       g,
		Pipeline:  wizard.New(wizard.WithGenerator(g)),
		Log:       log,
		templates: catalog,
	}
}

func (s *Server) catalog() *template.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates
}

func (s *Server) setCatalog(c *template.Catalog) {
	s.mu.Lock()
	s.templates = c
	s.mu.Unlock()
}

func NewRouter(srv *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), srv.Log.Middleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/meta", MetaHandler(srv))
		apiGroup.GET("/typemap", TypemapHandler())
		apiGroup.GET("/templates", TemplatesHandler(srv))
		apiGroup.POST("/admin/reload", AdminReloadHandler(srv))

		// stateless tools
		apiGroup.POST("/convert", ConvertHandler())
		apiGroup.POST("/diagram/parse", DiagramHandler())
		apiGroup.POST("/suggest", SuggestHandler(srv))

		// sessions: static sub-routes first
		apiGroup.POST("/sessions/:id/import", ImportHandler(srv))
		apiGroup.GET("/sessions/:id/export", ExportHandler(srv))
		apiGroup.POST("/sessions/:id/export", ExportFilesHandler(srv))
		apiGroup.POST("/sessions/:id/lint", LintHandler(srv))
		apiGroup.POST("/sessions/:id/generate", GenerateHandler(srv))
		apiGroup.GET("/sessions/:id/files/*path", FileHandler(srv))
		apiGroup.GET("/sessions/:id/tables/:name", TableMetaHandler(srv))
		apiGroup.POST("/sessions/:id/apply", ApplyHandler(srv))

		apiGroup.POST("/sessions", CreateHandler(srv))
		apiGroup.GET("/sessions", ListHandler(srv))
		apiGroup.GET("/sessions/:id", GetOneHandler(srv))
		apiGroup.PUT("/sessions/:id", UpdateHandler(srv))
		apiGroup.DELETE("/sessions/:id", DeleteHandler(srv))
	}
	return r
}
