package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"modelforge/internal/lint"
)

// POST /api/sessions/:id/lint reports the warnings generation would give,
// grouped by entity. Warnings never block generation.
func LintHandler(srv *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := sessionOf(c, srv)
		if !ok {
			return
		}
		issues := lint.Lint(sess.Document)
		sort.SliceStable(issues, func(i, j int) bool { return issues[i].Entity < issues[j].Entity })

		codes := map[string]int{}
		for _, is := range issues {
			codes[is.Code]++
		}
		c.JSON(http.StatusOK, gin.H{
			"issues": nonNil(issues),
			"codes":  codes,
			"ok":     len(issues) == 0,
		})
	}
}
