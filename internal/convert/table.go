package convert

import (
	"strconv"
	"strings"

	"modelforge/internal/model"
	"modelforge/internal/naming"
	"modelforge/internal/typemap"
)

const timestampType = "TIMESTAMP"

func pkColumn(entityID string) model.Column {
	return model.Column{
		ID:           "pk-" + entityID,
		Name:         model.ColumnID,
		DataType:     "UUID",
		IsPrimaryKey: true,
		IsNullable:   false,
		Description:  "Primary key",
	}
}

func timestampColumns(entityID string, created, deleted bool) []model.Column {
	var out []model.Column
	if created {
		out = append(out,
			model.Column{ID: "ts-created-" + entityID, Name: model.ColumnCreatedAt, DataType: timestampType, Description: "Creation time"},
			model.Column{ID: "ts-updated-" + entityID, Name: model.ColumnUpdatedAt, DataType: timestampType, Description: "Last update time"},
		)
	}
	if deleted {
		out = append(out, model.Column{ID: "ts-deleted-" + entityID, Name: model.ColumnDeletedAt, DataType: timestampType, IsNullable: true, Description: "Soft delete marker"})
	}
	return out
}

// userColumns drops the primary key and the timestamp columns and reports
// which timestamp columns were present.
func userColumns(cols []model.Column) (user []model.Column, created, deleted bool) {
	for _, c := range cols {
		switch strings.ToLower(strings.TrimSpace(c.Name)) {
		case model.ColumnCreatedAt:
			created = true
			continue
		case model.ColumnUpdatedAt:
			continue
		case model.ColumnDeletedAt:
			deleted = true
			continue
		}
		if c.IsPrimaryKey {
			continue
		}
		user = append(user, c)
	}
	return user, created, deleted
}

// WizardToTable always synthesizes a leading id column, whether or not the
// entity declares one, then one column per field and the timestamp columns.
func WizardToTable(e model.WizardEntity) model.Table {
	t := model.Table{ID: e.ID, Name: e.Name, Description: e.Description}
	t.Columns = append(t.Columns, pkColumn(e.ID))
	for _, f := range e.Fields {
		t.Columns = append(t.Columns, model.Column{
			ID:           f.ID,
			Name:         f.Name,
			DataType:     typemap.WizardToTable(f.Type),
			IsForeignKey: f.Type == model.FieldForeignKey,
			IsNullable:   !f.Required,
			IsIndexed:    f.Indexed,
			Validations:  f.Validations,
		})
	}
	t.Columns = append(t.Columns, timestampColumns(e.ID, e.Timestamps, e.SoftDeletes)...)
	return t
}

// TableToWizard applies an edited table on top of original. Unique and
// default values are not shown in the table editor and come from the
// original field with the same id (or name).
func TableToWizard(t model.Table, original model.WizardEntity) model.WizardEntity {
	out := original
	if out.ID == "" {
		out.ID = t.ID
	}
	out.Name = t.Name
	out.Description = t.Description

	user, created, deleted := userColumns(t.Columns)
	out.Timestamps = created
	out.SoftDeletes = deleted

	byID := map[string]model.Field{}
	byName := map[string]model.Field{}
	for _, f := range original.Fields {
		byID[f.ID] = f
		byName[naming.Snake(f.Name)] = f
	}

	out.Fields = make([]model.Field, 0, len(user))
	for _, c := range user {
		base, ok := byID[c.ID]
		if !ok || c.ID == "" {
			base = byName[naming.Snake(c.Name)]
		}
		f := model.Field{
			ID:           c.ID,
			Name:         c.Name,
			Type:         typemap.TableToWizard(c.DataType),
			Required:     !c.IsNullable,
			Unique:       base.Unique,
			Indexed:      c.IsIndexed,
			DefaultValue: base.DefaultValue,
			Validations:  c.Validations,
		}
		if c.IsForeignKey {
			f.Type = model.FieldForeignKey
		}
		if f.ID == "" {
			f.ID = base.ID
		}
		if f.ID == "" {
			f.ID = newID()
		}
		if f.Validations == nil {
			f.Validations = base.Validations
		}
		out.Fields = append(out.Fields, f)
	}
	return out
}

// ModelerToTable renders a modeler entity for the table editor. hasAudit
// drives the timestamp columns.
func ModelerToTable(e model.Entity) model.Table {
	t := model.Table{ID: e.ID, Name: e.Name, Description: e.Description}
	t.Columns = append(t.Columns, pkColumn(e.ID))

	fks := map[string]bool{}
	for _, r := range e.Relationships {
		if r.FKField != "" {
			fks[naming.Snake(r.FKField)] = true
		}
	}
	for _, a := range e.Attributes {
		col := naming.Snake(a.Name)
		if a.IsPK && col == model.ColumnID {
			continue
		}
		isUUID := typemap.ModelerSQL(a.Type, 0) == "UUID"
		t.Columns = append(t.Columns, model.Column{
			ID:           strconv.Itoa(a.ID),
			Name:         a.Name,
			DataType:     typemap.ModelerSQL(a.Type, a.Length),
			IsPrimaryKey: a.IsPK,
			IsForeignKey: fks[col] || (isUUID && strings.HasSuffix(col, "_id")),
			IsNullable:   !a.IsNN,
			IsIndexed:    a.IsSearchable,
		})
	}
	t.Columns = append(t.Columns, timestampColumns(e.ID, e.Security.HasAudit, false)...)
	return t
}

// TableToModeler applies an edited table on top of original. Relationships,
// lifecycle, security policies and metadata blocks are kept from original;
// with a zero original they are lost.
func TableToModeler(t model.Table, original model.Entity) model.Entity {
	out := original
	if out.ID == "" {
		out.ID = t.ID
	}
	if out.Name != t.Name || out.PhysicalName == "" {
		out.Rename(t.Name)
	}
	out.Description = t.Description

	user, created, _ := userColumns(t.Columns)
	out.Security.HasAudit = created

	byID := map[int]model.Attribute{}
	byName := map[string]model.Attribute{}
	next := 0
	for _, a := range original.Attributes {
		byID[a.ID] = a
		byName[naming.Snake(a.Name)] = a
		if a.ID > next {
			next = a.ID
		}
	}

	out.Attributes = make([]model.Attribute, 0, len(user))
	for _, c := range user {
		var base model.Attribute
		var found bool
		if id, err := strconv.Atoi(c.ID); err == nil {
			base, found = byID[id]
		}
		if !found {
			base, found = byName[naming.Snake(c.Name)]
		}
		dt, length := typemap.ParseDataType(c.DataType)
		a := model.Attribute{
			ID:           base.ID,
			Name:         c.Name,
			Type:         dt,
			IsNN:         !c.IsNullable,
			IsUnique:     base.IsUnique,
			IsSearchable: c.IsIndexed,
			Length:       length,
			DefaultValue: base.DefaultValue,
		}
		if !found {
			next++
			a.ID = next
		}
		out.Attributes = append(out.Attributes, a)
	}
	return out
}
