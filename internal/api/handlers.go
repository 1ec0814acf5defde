package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"modelforge/internal/model"
)

type createReq struct {
	Template string          `json:"template"`
	Document *model.Document `json:"document"`
}

// POST /api/sessions
func CreateHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createReq
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				abort(c, http.StatusBadRequest, ErrInvalidJSON, "Invalid JSON")
				return
			}
		}

		var doc model.Document
		switch {
		case req.Document != nil:
			doc = *req.Document
			if ers := validateDocument(&doc); len(ers) > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": ers[0].Message, "code": ers[0].Code, "errors": ers})
				return
			}
		default:
			var ok bool
			doc, ok = srv.catalog().Instantiate(strings.TrimSpace(req.Template))
			if !ok {
				abort(c, http.StatusNotFound, ErrNotFound, "template not found")
				return
			}
		}

		if doc.Context.SystemName == "" {
			doc.Context.SystemName = srv.SystemName
		}
		sess := srv.Store.Create(req.Template, doc)
		srv.Log.Info("session created", "id", sess.ID, "template", req.Template, "entities", doc.Len())
		setETag(c, sess.Version)
		c.JSON(http.StatusCreated, sess)
	}
}

// GET /api/sessions
func ListHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		lp := parseListParams(c.Request.URL.Query())
		items := filterSessions(srv.Store.List(), lp)
		sortSessions(items, lp.Sort)
		c.JSON(http.StatusOK, gin.H{
			"items":  page(items, lp.Limit, lp.Offset),
			"total":  len(items),
			"limit":  lp.Limit,
			"offset": lp.Offset,
		})
	}
}

// GET /api/sessions/:id
func GetOneHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionOf(c, srv)
		if !ok {
			return
		}
		setETag(c, sess.Version)
		c.JSON(http.StatusOK, sess)
	}
}

type updateReq struct {
	Document *model.Document `json:"document"`
	Version  int64           `json:"version"`
}

// PUT /api/sessions/:id replaces the whole document. The expected version
// comes from If-Match or body.version; without one the write is
// unconditional.
func UpdateHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, ErrInvalidJSON, "Invalid JSON")
			return
		}
		if req.Document == nil {
			abort(c, http.StatusBadRequest, ErrRequired, "document is required")
			return
		}
		expect, err := readExpectedVersion(c, req.Version)
		if err != nil {
			abort(c, http.StatusBadRequest, ErrInvalidValue, err.Error())
			return
		}
		doc := *req.Document
		if ers := validateDocument(&doc); len(ers) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": ers[0].Message, "code": ers[0].Code, "errors": ers})
			return
		}

		sess, err := srv.Store.Put(c.Param("id"), doc, expect)
		if err != nil {
			fail(c, err)
			return
		}
		setETag(c, sess.Version)
		c.JSON(http.StatusOK, sess)
	}
}

// DELETE /api/sessions/:id
func DeleteHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := srv.Store.Delete(c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
