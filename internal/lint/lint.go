// Package lint reports contradictions in an entity document. Issues are
// warnings: nothing here blocks generation.
package lint

import (
	"fmt"
	"strings"

	"modelforge/internal/model"
	"modelforge/internal/naming"
	"modelforge/internal/typemap"
)

type Issue struct {
	Entity  string `json:"entity"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	loc := i.Entity
	if i.Field != "" {
		loc += "." + i.Field
	}
	if loc == "" {
		return fmt.Sprintf("%s: %s", i.Code, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, i.Code, i.Message)
}

const (
	CodeEmptyEntityName  = "entity_name_empty"
	CodeEmptyFieldName   = "field_name_empty"
	CodeDuplicateEntity  = "entity_duplicate"
	CodeDuplicateColumn  = "column_duplicate"
	CodeShadowedColumn   = "column_shadows_structural"
	CodeUnknownType      = "type_unknown"
	CodeDanglingRelation = "relationship_target_missing"
	CodeUnknownCardinal  = "relationship_type_unknown"
	CodeNotMaterialized  = "relationship_not_materialized"
	CodeOnDeleteUnknown  = "on_delete_unknown"
	CodeRequiredSetNull  = "required_conflicts_on_delete"
	CodeNoTables         = "no_tables"
	CodeBadValidation    = "validation_invalid"
	CodeBadDefault       = "default_invalid"
	CodeMissingID        = "entity_id_missing"
	CodeDuplicateID      = "entity_id_duplicate"
	CodeReciprocal       = "relationship_reciprocal"
)

// Issues accumulates warnings.
type Issues []Issue

func (is *Issues) Add(entity, field, code, format string, args ...any) {
	*is = append(*is, Issue{Entity: entity, Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether any issue carries code.
func (is Issues) Has(code string) bool {
	for _, i := range is {
		if i.Code == code {
			return true
		}
	}
	return false
}

// Lint checks names, types, duplicates and relationships of d.
func Lint(d model.Document) Issues {
	var out Issues
	ix := model.IndexOf(d)
	seen := map[string]string{}
	var keys foreignKeys

	entity := func(name string) bool {
		if strings.TrimSpace(name) == "" {
			out.Add("", "", CodeEmptyEntityName, "entity without a name is skipped")
			return false
		}
		tbl := naming.Table(name)
		if prev, dup := seen[tbl]; dup {
			out.Add(name, "", CodeDuplicateEntity, "table %q already produced by entity %q", tbl, prev)
		}
		seen[tbl] = name
		return true
	}
	columns := func(ent string, names []string) {
		cols := map[string]bool{}
		for _, n := range names {
			if strings.TrimSpace(n) == "" {
				out.Add(ent, "", CodeEmptyFieldName, "field without a name is skipped")
				continue
			}
			c := naming.Snake(n)
			if model.IsStructural(c) {
				out.Add(ent, n, CodeShadowedColumn, "column %q is generated automatically", c)
				continue
			}
			if cols[c] {
				out.Add(ent, n, CodeDuplicateColumn, "column %q declared twice", c)
			}
			cols[c] = true
		}
	}

	switch d.Format {
	case model.FormatModeler:
		for i, e := range d.Modeler {
			if !entity(e.Name) {
				continue
			}
			var names []string
			for _, a := range e.Attributes {
				if a.IsPK && naming.Snake(a.Name) == model.ColumnID {
					continue
				}
				names = append(names, a.Name)
				if !typemap.KnownModeler(a.Type) {
					out.Add(e.Name, a.Name, CodeUnknownType, "type %q falls back to %s", a.Type, typemap.FallbackSQL)
				}
				dt := model.DataType(strings.ToUpper(string(a.Type)))
				if !typemap.ModelerToWizard(dt).ValidDefault(a.DefaultValue) {
					badDefault(&out, e.Name, a.Name, a.DefaultValue)
				}
			}
			columns(e.Name, names)
			for _, r := range e.Relationships {
				to, ok := ix.PosByName(r.TargetEntity)
				if !ok {
					out.Add(e.Name, r.Name, CodeDanglingRelation, "target entity %q does not exist", r.TargetEntity)
				} else {
					keys.add(i, to, r.Type)
				}
				relationship(&out, e.Name, r.Name, r.Type, r.OnDelete, requiredFK(e, r.FKField))
			}
		}
	case model.FormatTable:
		for _, t := range d.Tables {
			if !entity(t.Name) {
				continue
			}
			var names []string
			for _, c := range t.Columns {
				if c.IsPrimaryKey || model.IsStructural(naming.Snake(c.Name)) {
					continue
				}
				names = append(names, c.Name)
			}
			columns(t.Name, names)
		}
	case model.FormatPlanning:
		for _, e := range d.Planning {
			if !entity(e.Name) {
				continue
			}
			var names []string
			for _, f := range e.Fields {
				names = append(names, f.Name)
				if !typemap.KnownPlanning(f.Type) {
					out.Add(e.Name, f.Name, CodeUnknownType, "type %q falls back to %s", f.Type, typemap.FallbackSQL)
				}
				if !f.Type.ValidDefault(f.DefaultValue) {
					badDefault(&out, e.Name, f.Name, f.DefaultValue)
				}
			}
			columns(e.Name, names)
		}
	default:
		for _, e := range d.Wizard {
			if !entity(e.Name) {
				continue
			}
			var names []string
			for _, f := range e.Fields {
				names = append(names, f.Name)
				if f.Name != "" && !f.Type.Known() {
					out.Add(e.Name, f.Name, CodeUnknownType, "type %q falls back to %s", f.Type, typemap.FallbackSQL)
				}
				if !f.Type.ValidDefault(f.DefaultValue) {
					badDefault(&out, e.Name, f.Name, f.DefaultValue)
				}
			}
			columns(e.Name, names)
		}
	}

	ids(&out, ix, len(d.Links) > 0)
	for _, l := range d.Links {
		from, okFrom := ix.PosByID(l.FromEntityID)
		to, okTo := ix.PosByID(l.ToEntityID)
		if !okFrom || !okTo {
			name := ""
			if okFrom {
				name = ix.Name(from)
			}
			out.Add(name, "", CodeDanglingRelation, "relationship %q: endpoint %q -> %q does not resolve", l.ID, l.FromEntityID, l.ToEntityID)
			continue
		}
		keys.add(from, to, l.Type)
		relationship(&out, ix.Name(from), l.ID, l.Type, l.OnDelete, false)
	}
	for _, p := range keys.reciprocal() {
		out.Add(ix.Name(p[0]), "", CodeReciprocal,
			"%q and %q both hold a 1:N foreign key to each other", ix.Name(p[0]), ix.Name(p[1]))
	}
	if len(seen) == 0 {
		out.Add("", "", CodeNoTables, "document has no named entities")
	}
	return out
}

func badDefault(out *Issues, entity, field, v string) {
	out.Add(entity, field, CodeBadDefault, "default %q does not fit the column type and is dropped", v)
}

// ids reports entities links cannot address: duplicated ids always, missing
// ids only when the document has links.
func ids(out *Issues, ix *model.Index, links bool) {
	reported := map[string]bool{}
	for i := 0; i < ix.Len(); i++ {
		id, name := ix.ID(i), ix.Name(i)
		switch {
		case id == "" && links && strings.TrimSpace(name) != "":
			out.Add(name, "", CodeMissingID, "entity has no id, relationships cannot reference it")
		case id != "" && ix.Duplicated(id) && !reported[id]:
			reported[id] = true
			out.Add(name, "", CodeDuplicateID, "id %q is used by more than one entity", id)
		}
	}
}

// foreignKeys records resolved 1:N edges by entity position; the source
// holds the key.
type foreignKeys struct {
	edges [][2]int
	set   map[[2]int]bool
}

func (k *foreignKeys) add(from, to int, typ string) {
	if card, ok := model.ParseCardinality(typ); !ok || card != model.OneToMany {
		return
	}
	e := [2]int{from, to}
	if k.set == nil {
		k.set = map[[2]int]bool{}
	}
	if !k.set[e] {
		k.set[e] = true
		k.edges = append(k.edges, e)
	}
}

// reciprocal returns each pair of distinct entities keyed to each other
// once, in declaration order.
func (k *foreignKeys) reciprocal() [][2]int {
	var out [][2]int
	done := map[[2]int]bool{}
	for _, e := range k.edges {
		back := [2]int{e[1], e[0]}
		if e[0] == e[1] || !k.set[back] || done[e] {
			continue
		}
		done[back] = true
		out = append(out, e)
	}
	return out
}

func relationship(out *Issues, entity, name, typ, onDelete string, required bool) {
	card, ok := model.ParseCardinality(typ)
	switch {
	case !ok:
		out.Add(entity, name, CodeUnknownCardinal, "relationship type %q is not recognised", typ)
	case card != model.OneToMany:
		out.Add(entity, name, CodeNotMaterialized, "%s relationships are not written to DDL", card)
	}
	pol, ok := model.ParseAction(onDelete, model.OnDeleteCascade)
	if !ok {
		out.Add(entity, name, CodeOnDeleteUnknown, "unknown on delete policy %q (allowed: cascade|restrict|set null|no action)", onDelete)
	}
	if required && pol == model.OnDeleteSetNull {
		out.Add(entity, name, CodeRequiredSetNull, "required reference cannot use SET NULL")
	}
}

// requiredFK reports whether the attribute backing fkField is NOT NULL.
func requiredFK(e model.Entity, fkField string) bool {
	if fkField == "" {
		return false
	}
	for _, a := range e.Attributes {
		if naming.Snake(a.Name) == naming.Snake(fkField) {
			return a.IsNN
		}
	}
	return false
}
