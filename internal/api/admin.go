package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"modelforge/internal/lint"
	"modelforge/internal/template"
)

type reloadReq struct {
	TemplatesDir string `json:"templates_dir"`
}

// POST /api/admin/reload re-reads the starter templates. Templates with
// blocking issues (no usable entity or duplicate names) keep the old catalog
// in place.
func AdminReloadHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reloadReq
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				abort(c, http.StatusBadRequest, ErrInvalidJSON, "Invalid JSON")
				return
			}
		}
		dir := strings.TrimSpace(req.TemplatesDir)
		if dir == "" {
			dir = srv.TemplatesDir
		}

		next, err := template.LoadCatalog(dir)
		if err != nil {
			abort(c, http.StatusBadRequest, ErrImportInvalid, err.Error())
			return
		}

		// lint on the new catalog before swapping
		blocking := map[string]lint.Issues{}
		for _, t := range next.List() {
			if t.Name == template.Blank {
				continue
			}
			for _, is := range lint.Lint(t.Document) {
				switch is.Code {
				case lint.CodeNoTables, lint.CodeDuplicateEntity, lint.CodeEmptyEntityName:
					blocking[t.Name] = append(blocking[t.Name], is)
				}
			}
		}
		if len(blocking) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":  "templates have blocking issues",
				"code":   ErrLintBlocking,
				"issues": blocking,
				"dir":    dir,
			})
			return
		}

		srv.setCatalog(next)
		srv.Log.Info("templates reloaded", "dir", dir, "templates", len(next.List()))
		c.JSON(http.StatusOK, gin.H{"ok": true, "dir": dir, "templates": len(next.List())})
	}
}
