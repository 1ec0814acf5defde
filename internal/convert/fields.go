// Package convert maps entities between the wizard, entity-modeler and
// table-editor representations. The mappings are lossy: a round trip through
// a poorer format drops what it cannot carry and the reverse direction takes
// the original entity as a merge base to get it back.
package convert

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"modelforge/internal/model"
	"modelforge/internal/typemap"
)

func newID() string { return uuid.NewString() }

// FieldsToAttributes turns wizard fields into modeler attributes, numbered
// from 1 in field order. Validations have no modeler counterpart and are dropped.
func FieldsToAttributes(fields []model.Field) []model.Attribute {
	out := make([]model.Attribute, 0, len(fields))
	for i, f := range fields {
		out = append(out, model.Attribute{
			ID:           i + 1,
			Name:         f.Name,
			Type:         typemap.WizardToModeler(f.Type),
			IsNN:         f.Required,
			IsUnique:     f.Unique,
			IsSearchable: f.Indexed,
			DefaultValue: f.DefaultValue,
		})
	}
	return out
}

// AttributesToFields is the inverse of FieldsToAttributes. The implicit id
// primary key is not a user field and is skipped.
func AttributesToFields(attrs []model.Attribute) []model.Field {
	out := make([]model.Field, 0, len(attrs))
	for _, a := range attrs {
		if a.IsPK && strings.EqualFold(a.Name, model.ColumnID) {
			continue
		}
		out = append(out, model.Field{
			ID:           attrFieldID(a.ID),
			Name:         a.Name,
			Type:         typemap.ModelerToWizard(a.Type),
			Required:     a.IsNN,
			Unique:       a.IsUnique,
			Indexed:      a.IsSearchable,
			DefaultValue: a.DefaultValue,
		})
	}
	return out
}

func attrFieldID(id int) string {
	if id <= 0 {
		return newID()
	}
	return "attr-" + strconv.Itoa(id)
}

// WizardToModeler lifts a wizard entity to the modeler shape. Timestamps
// become security.hasAudit; soft deletes have no modeler equivalent.
func WizardToModeler(e model.WizardEntity) model.Entity {
	out := model.Entity{
		ID:          e.ID,
		Description: e.Description,
		Attributes:  FieldsToAttributes(e.Fields),
		Security:    model.Security{HasAudit: e.Timestamps},
	}
	out.Rename(e.Name)
	return out
}

// ModelerToWizard flattens a modeler entity. Relationships, lifecycle,
// policies and metadata blocks are dropped.
func ModelerToWizard(e model.Entity) model.WizardEntity {
	return model.WizardEntity{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Fields:      AttributesToFields(e.Attributes),
		Timestamps:  e.Security.HasAudit,
	}
}
