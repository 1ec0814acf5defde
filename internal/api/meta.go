package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"modelforge/internal/gen"
	"modelforge/internal/model"
	"modelforge/internal/typemap"
)

type metaTemplate struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Format      model.Format `json:"format"`
	Entities    int          `json:"entities"`
}

// GET /api/meta
func MetaHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"formats":   []model.Format{model.FormatWizard, model.FormatModeler, model.FormatTable, model.FormatPlanning},
			"artifacts": artifacts,
			"templates": len(srv.catalog().List()),
			"sessions":  len(srv.Store.List()),
			"database":  srv.DB != nil,
			"suggest":   srv.Suggest != nil,
		})
	}
}

// GET /api/typemap
func TypemapHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, typemap.Catalog())
	}
}

// GET /api/templates
func TemplatesHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := srv.catalog().List()
		out := make([]metaTemplate, 0, len(list))
		for _, t := range list {
			out = append(out, metaTemplate{
				Name:        t.Name,
				Title:       t.Title,
				Description: t.Description,
				Format:      t.Document.Format,
				Entities:    t.Document.Len(),
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

type metaRelation struct {
	To          string `json:"to"`
	Cardinality string `json:"cardinality"`
	Label       string `json:"label,omitempty"`
	Column      string `json:"column,omitempty"`
}

type metaTable struct {
	gen.TableSpec
	Outgoing []metaRelation `json:"outgoing"`
	Incoming []metaRelation `json:"incoming"`
}

// GET /api/sessions/:id/tables/:name returns the normalised table with its
// relationships in both directions.
func TableMetaHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionOf(c, srv)
		if !ok {
			return
		}
		s, _ := gen.Normalize(sess.Document)
		t, ok := resolveTable(s, c.Param("name"))
		if !ok {
			abort(c, http.StatusNotFound, ErrNotFound, "table not found")
			return
		}

		out := metaTable{TableSpec: t, Outgoing: []metaRelation{}, Incoming: []metaRelation{}}
		for _, r := range s.Relations {
			switch t.Entity {
			case r.From:
				out.Outgoing = append(out.Outgoing, metaRelation{To: r.To, Cardinality: string(r.Cardinality), Label: r.Label})
			case r.To:
				out.Incoming = append(out.Incoming, metaRelation{To: r.From, Cardinality: string(r.Cardinality), Label: r.Label})
			}
		}
		for _, fk := range s.ForeignKeys {
			if fk.Table != t.Table {
				continue
			}
			for i := range out.Outgoing {
				if out.Outgoing[i].To == fk.To && out.Outgoing[i].Column == "" {
					out.Outgoing[i].Column = fk.Column
					break
				}
			}
		}
		c.JSON(http.StatusOK, out)
	}
}
