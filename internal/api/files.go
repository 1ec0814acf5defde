package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"modelforge/internal/artifact"
	"modelforge/internal/dsl"
	"modelforge/internal/naming"
)

const maxImport = 4 << 20

// POST /api/sessions/:id/import
//
// Accepts a multipart upload (field "file") or the raw document as body.
// ?format=json|yaml|dsl overrides detection from the file extension or
// content. The session is replaced only when the whole import decodes.
func ImportHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		source := strings.ToLower(strings.TrimSpace(c.Query("format")))

		var data []byte
		if file, hdr, err := c.Request.FormFile("file"); err == nil {
			defer file.Close()
			if source == "" {
				source = sourceFromName(safeName(hdr))
			}
			data, err = io.ReadAll(io.LimitReader(file, maxImport))
			if err != nil {
				abort(c, http.StatusBadRequest, ErrImportInvalid, "cannot read upload")
				return
			}
		} else {
			data, err = io.ReadAll(io.LimitReader(c.Request.Body, maxImport))
			if err != nil {
				abort(c, http.StatusBadRequest, ErrImportInvalid, "cannot read body")
				return
			}
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			abort(c, http.StatusBadRequest, ErrRequired, "empty import")
			return
		}

		expect, err := readExpectedVersion(c, 0)
		if err != nil {
			abort(c, http.StatusBadRequest, ErrInvalidValue, err.Error())
			return
		}
		sess, err := srv.Store.Import(c.Param("id"), data, source, expect)
		if err != nil {
			srv.Log.Warn("import rejected", "id", c.Param("id"), "error", err)
			fail(c, err)
			return
		}
		srv.Log.Info("session imported", "id", sess.ID, "format", sess.Document.Format, "entities", sess.Document.Len())
		setETag(c, sess.Version)
		c.JSON(http.StatusOK, sess)
	}
}

func safeName(h *multipart.FileHeader) string {
	name := strings.TrimSpace(filepath.Base(h.Filename))
	if name == "" || name == "." {
		return "file"
	}
	return name
}

func sourceFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return dsl.SourceJSON
	case ".yaml", ".yml":
		return dsl.SourceYAML
	case ".dsl":
		return dsl.SourceDSL
	}
	return ""
}

// GET /api/sessions/:id/export?format=json|yaml downloads the document.
func ExportHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionOf(c, srv)
		if !ok {
			return
		}
		base := naming.Snake(sess.Document.Context.SystemName)
		if base == "" {
			base = "model"
		}

		var (
			body []byte
			err  error
			ext  string
		)
		switch strings.ToLower(c.DefaultQuery("format", "json")) {
		case "yaml", "yml":
			body, err = yaml.Marshal(sess.Document)
			ext = ".yaml"
		case "json":
			body, err = json.MarshalIndent(sess.Document, "", "  ")
			ext = ".json"
		default:
			abort(c, http.StatusBadRequest, ErrInvalidValue, "format must be json or yaml")
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		ctype := mime.TypeByExtension(ext)
		if ext == ".yaml" {
			ctype = "application/yaml"
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`, base, ext))
		setETag(c, sess.Version)
		c.Data(http.StatusOK, ctype, body)
	}
}

// GET /api/sessions/:id/files/*path serves one generated file.
func FileHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionOf(c, srv)
		if !ok {
			return
		}
		p := strings.TrimPrefix(path.Clean(c.Param("path")), "/")
		res, err := srv.Pipeline.Run(c.Request.Context(), sess.Document, nil)
		if err != nil {
			fail(c, err)
			return
		}
		content, found := res.Files[p]
		if !found {
			abort(c, http.StatusNotFound, ErrNotFound, "file not found")
			return
		}
		ctype := "text/plain; charset=utf-8"
		switch path.Ext(p) {
		case ".md":
			ctype = "text/markdown; charset=utf-8"
		case ".sql":
			ctype = "application/sql"
		}
		if c.Query("download") != "" {
			c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, path.Base(p)))
		}
		c.Data(http.StatusOK, ctype, []byte(content))
	}
}

// POST /api/sessions/:id/export writes every generated file under
// <exportRoot>/<session id>/.
func ExportFilesHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(srv.ExportRoot) == "" {
			abort(c, http.StatusServiceUnavailable, ErrInvalidValue, "export root not configured")
			return
		}
		sess, ok := sessionOf(c, srv)
		if !ok {
			return
		}
		res, err := srv.Pipeline.Run(c.Request.Context(), sess.Document, nil)
		if err != nil {
			fail(c, err)
			return
		}
		dir := filepath.Join(srv.ExportRoot, sess.ID)
		written, err := artifact.Export(&artifact.LocalExporter{Root: dir}, res.Files)
		if err != nil {
			srv.Log.Error("export failed", "id", sess.ID, "error", err)
			fail(c, err)
			return
		}
		srv.Log.Info("session exported", "id", sess.ID, "files", len(written), "dir", dir)
		c.JSON(http.StatusOK, gin.H{"dir": dir, "files": written})
	}
}
