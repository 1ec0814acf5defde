package api

import (
	"fmt"
	"strings"

	"modelforge/internal/model"
)

type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error codes of the JSON error body.
const (
	ErrInvalidJSON     = "invalid_json"
	ErrRequired        = "required"
	ErrInvalidValue    = "invalid_value"
	ErrNotFound        = "not_found"
	ErrVersionConflict = "version_conflict"
	ErrImportInvalid   = "import_invalid"
	ErrAIUnavailable   = "ai_unavailable"
	ErrDBUnavailable   = "db_unavailable"
	ErrApplyFailed     = "apply_failed"
	ErrCanceled        = "canceled"
	ErrInternal        = "internal"
	ErrLintBlocking    = "lint_blocking"
)

func ferr(code, field, msg string) FieldError { return FieldError{Code: code, Field: field, Message: msg} }

// artifacts the generate endpoint can produce
const (
	ArtifactSQL    = "sql"
	ArtifactPrisma = "prisma"
	ArtifactZod    = "zod"
	ArtifactRoutes = "routes"
	ArtifactBundle = "bundle"
	ArtifactAll    = "all"
)

var artifacts = []string{ArtifactSQL, ArtifactPrisma, ArtifactZod, ArtifactRoutes, ArtifactBundle, ArtifactAll}

// validateDocument checks what a stored document must satisfy: a known
// format tag. Entity content is never rejected; generators skip what they
// cannot use and report it as warnings.
func validateDocument(d *model.Document) []FieldError {
	var errs []FieldError
	f, err := model.ParseFormat(string(d.Format))
	if err != nil {
		errs = append(errs, ferr(ErrInvalidValue, "format", err.Error()))
	} else {
		d.Format = f
	}
	for i, p := range d.Context.UserProfiles {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, ferr(ErrRequired, fmt.Sprintf("context.userProfiles[%d].name", i), "profile name is required"))
		}
	}
	return errs
}
