package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"modelforge/internal/dsl"
	"modelforge/internal/session"
	"modelforge/internal/suggest"
	"modelforge/internal/wizard"
)

// abort writes the error body every handler uses.
func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

// fail maps a domain error onto a status and code.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		abort(c, http.StatusNotFound, ErrNotFound, "session not found")
	case errors.Is(err, session.ErrConflict):
		abort(c, http.StatusConflict, ErrVersionConflict, err.Error())
	case errors.Is(err, dsl.ErrImport):
		abort(c, http.StatusBadRequest, ErrImportInvalid, err.Error())
	case errors.Is(err, suggest.ErrUnavailable):
		abort(c, http.StatusBadGateway, ErrAIUnavailable, err.Error())
	case errors.Is(err, wizard.ErrCanceled):
		// 499: client closed request
		abort(c, 499, ErrCanceled, err.Error())
	default:
		abort(c, http.StatusInternalServerError, ErrInternal, err.Error())
	}
}

func setETag(c *gin.Context, version int64) {
	c.Header("ETag", fmt.Sprintf(`"%d"`, version))
}

// readExpectedVersion reads the version from If-Match ("3", W/"3") or from
// the body's version field. Zero means the client did not send one.
func readExpectedVersion(c *gin.Context, bodyVersion int64) (int64, error) {
	ifMatch := strings.TrimSpace(c.GetHeader("If-Match"))
	if ifMatch == "" || ifMatch == "*" {
		return bodyVersion, nil
	}
	ifMatch = strings.TrimPrefix(ifMatch, "W/")
	ifMatch = strings.Trim(ifMatch, `"'`)
	v, err := strconv.ParseInt(ifMatch, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad If-Match %q", c.GetHeader("If-Match"))
	}
	return v, nil
}

// sessionOf loads the :id session or writes the 404.
func sessionOf(c *gin.Context, srv *Server) (session.Session, bool) {
	sess, err := srv.Store.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return session.Session{}, false
	}
	return sess, true
}
