package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"modelforge/internal/artifact"
	"modelforge/internal/convert"
	"modelforge/internal/diagram"
	"modelforge/internal/gen"
	"modelforge/internal/lint"
	"modelforge/internal/model"
	"modelforge/internal/pg"
	"modelforge/internal/suggest"
)

type generateResp struct {
	Artifact string         `json:"artifact"`
	Content  string         `json:"content,omitempty"`
	Files    artifact.Files `json:"files,omitempty"`
	Tree     *artifact.Node `json:"tree,omitempty"`
	Analysis *gen.Analysis  `json:"analysis,omitempty"`
	Warnings lint.Issues    `json:"warnings"`
	Applied  *pg.Report     `json:"applied,omitempty"`
}

// POST /api/sessions/:id/generate?artifact=sql|prisma|zod|routes|bundle|all
func GenerateHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := strings.ToLower(c.DefaultQuery("artifact", ArtifactAll))
		sess, ok := sessionOf(c, srv)
		if !ok {
			return
		}
		doc := sess.Document
		resp := generateResp{Artifact: kind, Warnings: lint.Issues{}}

		switch kind {
		case ArtifactSQL:
			resp.Content, resp.Warnings = srv.Gen.SQL(doc)
		case ArtifactPrisma:
			resp.Content, resp.Warnings = srv.Gen.Prisma(doc)
		case ArtifactZod:
			resp.Content, resp.Warnings = srv.Gen.Zod(doc)
		case ArtifactRoutes:
			s, issues := gen.Normalize(doc)
			resp.Content, resp.Warnings = srv.Gen.Routes(gen.CRUDEndpoints(s), s.SystemName), issues
		case ArtifactBundle:
			b := srv.Gen.Bundle(doc)
			resp.Files, resp.Tree = b.Files, b.Files.Tree()
			resp.Analysis, resp.Warnings = &b.Analysis, b.Warnings
		case ArtifactAll:
			res, err := srv.Pipeline.Run(c.Request.Context(), doc, nil)
			if err != nil {
				fail(c, err)
				return
			}
			resp.Files, resp.Tree = res.Files, res.Files.Tree()
			resp.Analysis, resp.Warnings = &res.Analysis, res.Warnings
		default:
			abort(c, http.StatusBadRequest, ErrInvalidValue, "artifact must be one of "+strings.Join(artifacts, ", "))
			return
		}
		if resp.Warnings == nil {
			resp.Warnings = lint.Issues{}
		}
		if len(resp.Warnings) > 0 {
			srv.Log.Debug("generated with warnings", "id", sess.ID, "artifact", kind, "warnings", len(resp.Warnings))
		}
		if srv.AutoApply && srv.DB != nil {
			s, _ := gen.Normalize(doc)
			rep, err := pg.Apply(c.Request.Context(), srv.DB, gen.BuildDDL(s, gen.Full), srv.Log.With("session", sess.ID))
			if err != nil {
				srv.Log.Error("auto apply failed", "id", sess.ID, "error", err)
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
					"error": err.Error(), "code": ErrApplyFailed, "report": rep,
				})
				return
			}
			resp.Applied = &rep
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /api/sessions/:id/apply runs the full DDL against the configured
// database. ?scope=schema limits it to tables, indexes and foreign keys.
func ApplyHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if srv.DB == nil {
			abort(c, http.StatusServiceUnavailable, ErrDBUnavailable, "database not configured")
			return
		}
		sess, ok := sessionOf(c, srv)
		if !ok {
			return
		}
		opts := gen.Full
		if c.Query("scope") == "schema" {
			opts = gen.DDLOptions{}
		}
		s, issues := gen.Normalize(sess.Document)
		stmts := gen.BuildDDL(s, opts)

		rep, err := pg.Apply(c.Request.Context(), srv.DB, stmts, srv.Log.With("session", sess.ID))
		if err != nil {
			srv.Log.Error("apply failed", "id", sess.ID, "error", err)
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error": err.Error(), "code": ErrApplyFailed, "report": rep,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"report": rep, "warnings": nonNil(issues)})
	}
}

func nonNil(is lint.Issues) lint.Issues {
	if is == nil {
		return lint.Issues{}
	}
	return is
}

type convertReq struct {
	Document model.Document `json:"document"`
	Target   string         `json:"target"`
}

// POST /api/convert re-expresses a document in another format.
func ConvertHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req convertReq
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, ErrInvalidJSON, "Invalid JSON")
			return
		}
		if ers := validateDocument(&req.Document); len(ers) > 0 {
			abort(c, http.StatusBadRequest, ers[0].Code, ers[0].Message)
			return
		}
		target, err := model.ParseFormat(req.Target)
		if err != nil || strings.TrimSpace(req.Target) == "" {
			abort(c, http.StatusBadRequest, ErrInvalidValue, "target must be wizard, modeler or table")
			return
		}
		out, err := convert.Convert(req.Document, target)
		if err != nil {
			abort(c, http.StatusBadRequest, ErrInvalidValue, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"document": out})
	}
}

type diagramReq struct {
	Text string `json:"text"`
}

// POST /api/diagram/parse. An unknown dialect is not an error: the answer
// carries an empty diagram with fallback=true and the caller shows the raw
// text.
func DiagramHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req diagramReq
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, ErrInvalidJSON, "Invalid JSON")
			return
		}
		d := diagram.Parse(req.Text)
		c.JSON(http.StatusOK, gin.H{
			"diagram":  d,
			"layout":   diagram.Arrange(d),
			"fallback": d.Empty(),
		})
	}
}

type suggestReq struct {
	Prompt    string   `json:"prompt"`
	Goal      string   `json:"goal"`
	SessionID string   `json:"sessionId"`
	Fields    []string `json:"fields"`
}

// POST /api/suggest. One request to the model endpoint, no retry.
func SuggestHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if srv.Suggest == nil {
			abort(c, http.StatusServiceUnavailable, ErrAIUnavailable, "suggestions not configured")
			return
		}
		var req suggestReq
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, ErrInvalidJSON, "Invalid JSON")
			return
		}

		shape := suggest.PlanningShape
		if len(req.Fields) > 0 {
			shape = suggest.Shape{Fields: req.Fields}
		}
		prompt := strings.TrimSpace(req.Prompt)
		if prompt == "" {
			var ctx model.Context
			var names []string
			if req.SessionID != "" {
				sess, err := srv.Store.Get(req.SessionID)
				if err != nil {
					fail(c, err)
					return
				}
				ctx = sess.Document.Context
				s, _ := gen.Normalize(sess.Document)
				for _, t := range s.Tables {
					names = append(names, t.Entity)
				}
			}
			if ctx.SystemName == "" && req.Goal == "" && len(names) == 0 {
				abort(c, http.StatusBadRequest, ErrRequired, "prompt, goal or sessionId is required")
				return
			}
			prompt = suggest.PlanningPrompt(ctx, req.Goal, names)
		}

		out, err := srv.Suggest.Suggest(c.Request.Context(), prompt, shape)
		if err != nil {
			srv.Log.Warn("suggest failed", "error", err)
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": out})
	}
}
