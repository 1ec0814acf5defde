// Package gen turns an entity document into scaffold artifacts: SQL DDL,
// a database bundle with auth/RLS/trigger scaffolding and docs, a Prisma
// schema, Zod validators and REST route stubs.
//
// Every generator is a pure function of its input apart from the
// "Generated at:" header line. Malformed input is skipped, never fatal;
// what was skipped is reported as lint issues.
package gen

import (
	"strings"

	"modelforge/internal/lint"
	"modelforge/internal/model"
	"modelforge/internal/naming"
	"modelforge/internal/typemap"
)

// ColumnSpec is one user column after type resolution.
type ColumnSpec struct {
	Name        string             `json:"name"`   // as entered
	Column      string             `json:"column"` // snake_case
	SQLType     string             `json:"sqlType"`
	PrismaType  string             `json:"prismaType"`
	ZodType     string             `json:"zodType"`
	TSType      string             `json:"tsType"`
	Literal     bool               `json:"-"` // defaults are written unquoted
	Required    bool               `json:"required"`
	Unique      bool               `json:"unique"`
	Indexed     bool               `json:"indexed"`
	Default     string             `json:"default,omitempty"`
	Validations []model.Validation `json:"validations,omitempty"`
}

// TableSpec is one entity after normalisation.
type TableSpec struct {
	ID          string           `json:"id"`
	Entity      string           `json:"entity"` // display name
	Table       string           `json:"table"`
	Description string           `json:"description,omitempty"`
	Columns     []ColumnSpec     `json:"columns"`
	Timestamps  bool             `json:"timestamps"`
	SoftDeletes bool             `json:"softDeletes"`
	Lifecycle   *model.Lifecycle `json:"lifecycle,omitempty"`
	Policies    []string         `json:"policies,omitempty"`

	pos int // position of the entity in the source document
}

// HasColumn reports whether col is a user column or a synthesized one.
func (t TableSpec) HasColumn(col string) bool {
	switch col {
	case model.ColumnID:
		return true
	case model.ColumnCreatedAt, model.ColumnUpdatedAt:
		return t.Timestamps
	case model.ColumnDeletedAt:
		return t.SoftDeletes
	}
	for _, c := range t.Columns {
		if c.Column == col {
			return true
		}
	}
	return false
}

// ForeignKey is a materialised 1:N relationship.
type ForeignKey struct {
	Name     string // constraint name
	Table    string
	Column   string
	Existing bool // column already declared, only the constraint is added
	RefTable string
	OnDelete model.OnDeletePolicy
	OnUpdate model.OnDeletePolicy // empty: omitted
	From, To string               // entity names
}

// Relation is any resolved relationship, materialised or not.
type Relation struct {
	From, To    string
	Cardinality model.Cardinality
	Label       string
}

// Ends orders the relation for display. From holds the foreign key, so for
// 1:N the referenced entity (the one side) comes first.
func (r Relation) Ends() (string, string) {
	if r.Cardinality == model.OneToMany {
		return r.To, r.From
	}
	return r.From, r.To
}

func (r Relation) String() string {
	a, b := r.Ends()
	return a + " " + string(r.Cardinality) + " " + b
}

// Schema is the shared intermediate every generator consumes.
type Schema struct {
	SystemName  string
	Profiles    []model.Profile
	Tables      []TableSpec
	ForeignKeys []ForeignKey
	Relations   []Relation
}

// at looks a table up by the position of its entity in the document.
// Entities dropped during normalisation do not resolve.
func (s Schema) at(pos int) (TableSpec, bool) {
	for _, t := range s.Tables {
		if t.pos == pos {
			return t, true
		}
	}
	return TableSpec{}, false
}

// Normalize resolves types and relationships of d into a Schema. Entities
// and fields without a name, structural or duplicate columns and
// relationships that do not resolve are left out and reported.
func Normalize(d model.Document) (Schema, lint.Issues) {
	issues := lint.Lint(d)
	s := Schema{SystemName: d.Context.SystemName, Profiles: d.Context.UserProfiles}

	switch d.Format {
	case model.FormatModeler:
		s.Tables = modelerTables(d.Modeler)
	case model.FormatTable:
		s.Tables = tableTables(d.Tables)
	case model.FormatPlanning:
		s.Tables = planningTables(d.Planning)
	default:
		s.Tables = wizardTables(d.Wizard)
	}
	s.Tables = dedupeTables(s.Tables)

	ix := model.IndexOf(d)
	if d.Format == model.FormatModeler {
		for i, e := range d.Modeler {
			for _, r := range e.Relationships {
				to, ok := ix.PosByName(r.TargetEntity)
				if !ok {
					continue
				}
				s.relate(i, to, r.Type, r.Name, r.FKField, r.OnDelete, r.OnUpdate, &issues)
			}
		}
	}
	for _, l := range d.Links {
		from, okFrom := ix.PosByID(l.FromEntityID)
		to, okTo := ix.PosByID(l.ToEntityID)
		if !okFrom || !okTo {
			continue
		}
		s.relate(from, to, l.Type, l.ID, l.FKField, l.OnDelete, l.OnUpdate, &issues)
	}
	return s, issues
}

func (s *Schema) relate(fromPos, toPos int, typ, label, fkField, onDelete, onUpdate string, issues *lint.Issues) {
	from, okFrom := s.at(fromPos)
	to, okTo := s.at(toPos)
	if !okFrom || !okTo {
		return
	}
	card, ok := model.ParseCardinality(typ)
	if !ok {
		return
	}
	s.Relations = append(s.Relations, Relation{From: from.Entity, To: to.Entity, Cardinality: card, Label: label})
	if card != model.OneToMany {
		return
	}

	col := naming.Snake(fkField)
	if col == "" {
		col = naming.Snake(to.Entity) + "_id"
	}
	for _, fk := range s.ForeignKeys {
		if fk.Table == from.Table && fk.Column == col {
			issues.Add(from.Entity, col, lint.CodeDuplicateColumn, "foreign key column %q already added", col)
			return
		}
	}
	del, _ := model.ParseAction(onDelete, model.OnDeleteCascade)
	var upd model.OnDeletePolicy
	if strings.TrimSpace(onUpdate) != "" {
		upd, _ = model.ParseAction(onUpdate, model.OnDeleteNoAction)
	}
	s.ForeignKeys = append(s.ForeignKeys, ForeignKey{
		Name:     "fk_" + from.Table + "_" + col,
		Table:    from.Table,
		Column:   col,
		Existing: from.HasColumn(col),
		RefTable: to.Table,
		OnDelete: del,
		OnUpdate: upd,
		From:     from.Entity,
		To:       to.Entity,
	})
}

// dedupeTables drops unnamed entities and later entities mapping to a table
// name already taken.
func dedupeTables(in []TableSpec) []TableSpec {
	seen := map[string]bool{}
	out := make([]TableSpec, 0, len(in))
	for _, t := range in {
		if strings.TrimSpace(t.Entity) == "" || t.Table == "" || seen[t.Table] {
			continue
		}
		seen[t.Table] = true
		out = append(out, t)
	}
	return out
}

// columnSet keeps the first declaration of every user column and drops
// the structural ones.
type columnSet struct {
	seen map[string]bool
	cols []ColumnSpec
}

func (cs *columnSet) add(c ColumnSpec) {
	if cs.seen == nil {
		cs.seen = map[string]bool{}
	}
	if strings.TrimSpace(c.Name) == "" || c.Column == "" || model.IsStructural(c.Column) || cs.seen[c.Column] {
		return
	}
	cs.seen[c.Column] = true
	cs.cols = append(cs.cols, c)
}

// keepDefault drops defaults that would not be valid SQL for the column
// type. Lint reports them.
func keepDefault(v string, valid func(string) bool) string {
	if !valid(v) {
		return ""
	}
	return v
}

func wizardTables(entities []model.WizardEntity) []TableSpec {
	out := make([]TableSpec, 0, len(entities))
	for i, e := range entities {
		var cs columnSet
		for _, f := range e.Fields {
			cs.add(ColumnSpec{
				Name:        f.Name,
				Column:      naming.Snake(f.Name),
				SQLType:     typemap.WizardSQL(f.Type),
				PrismaType:  typemap.WizardPrisma(f.Type),
				ZodType:     typemap.WizardZod(f.Type),
				TSType:      typemap.WizardTS(f.Type),
				Literal:     f.Type.Literal(),
				Required:    f.Required,
				Unique:      f.Unique,
				Indexed:     f.Indexed,
				Default:     keepDefault(f.DefaultValue, f.Type.ValidDefault),
				Validations: f.Validations,
			})
		}
		out = append(out, TableSpec{
			ID:          e.ID,
			Entity:      e.Name,
			Table:       naming.Table(e.Name),
			Description: e.Description,
			Columns:     cs.cols,
			Timestamps:  e.Timestamps,
			SoftDeletes: e.SoftDeletes,
			pos:         i,
		})
	}
	return out
}

func modelerTables(entities []model.Entity) []TableSpec {
	out := make([]TableSpec, 0, len(entities))
	for i, e := range entities {
		var cs columnSet
		for _, a := range e.Attributes {
			dt := model.DataType(strings.ToUpper(string(a.Type)))
			cs.add(ColumnSpec{
				Name:       a.Name,
				Column:     naming.Snake(a.Name),
				SQLType:    typemap.ModelerSQL(dt, a.Length),
				PrismaType: typemap.ModelerPrisma(dt),
				ZodType:    typemap.ModelerZod(dt),
				TSType:     typemap.ModelerTS(dt),
				Literal:    typemap.ModelerToWizard(dt).Literal(),
				Required:   a.IsNN || a.IsPK,
				Unique:     a.IsUnique,
				Indexed:    a.IsSearchable,
				Default:    keepDefault(a.DefaultValue, typemap.ModelerToWizard(dt).ValidDefault),
			})
		}
		t := TableSpec{
			ID:          e.ID,
			Entity:      e.Name,
			Table:       e.TableName(),
			Description: e.Description,
			Columns:     cs.cols,
			Timestamps:  e.Security.HasAudit,
			Lifecycle:   e.Lifecycle,
			Policies:    e.Security.Policies,
			pos:         i,
		}
		if strings.TrimSpace(e.Name) == "" {
			t.Table = ""
		}
		out = append(out, t)
	}
	return out
}

func tableTables(tables []model.Table) []TableSpec {
	out := make([]TableSpec, 0, len(tables))
	for i, t := range tables {
		var cs columnSet
		spec := TableSpec{ID: t.ID, Entity: t.Name, Table: naming.Table(t.Name), Description: t.Description, pos: i}
		for _, c := range t.Columns {
			col := naming.Snake(c.Name)
			switch col {
			case model.ColumnCreatedAt:
				spec.Timestamps = true
			case model.ColumnDeletedAt:
				spec.SoftDeletes = true
			}
			if c.IsPrimaryKey {
				continue
			}
			sqlType := strings.TrimSpace(c.DataType)
			if sqlType == "" {
				sqlType = typemap.FallbackSQL
			}
			wt := typemap.TableToWizard(c.DataType)
			if c.IsForeignKey {
				wt = model.FieldForeignKey
			}
			cs.add(ColumnSpec{
				Name:        c.Name,
				Column:      col,
				SQLType:     sqlType,
				PrismaType:  typemap.WizardPrisma(wt),
				ZodType:     typemap.WizardZod(wt),
				TSType:      typemap.WizardTS(wt),
				Literal:     wt.Literal(),
				Required:    !c.IsNullable,
				Indexed:     c.IsIndexed,
				Validations: c.Validations,
			})
		}
		spec.Columns = cs.cols
		out = append(out, spec)
	}
	return out
}

func planningTables(entities []model.PlanningEntity) []TableSpec {
	out := make([]TableSpec, 0, len(entities))
	for i, e := range entities {
		var cs columnSet
		for _, f := range e.Fields {
			cs.add(ColumnSpec{
				Name:       f.Name,
				Column:     naming.Snake(f.Name),
				SQLType:    typemap.PlanningSQL(f.Type),
				PrismaType: typemap.PlanningPrisma(f.Type),
				ZodType:    typemap.PlanningZod(f.Type),
				Literal:    f.Type.Literal(),
				Required:   f.Required,
				Unique:     f.Unique,
				Default:    keepDefault(f.DefaultValue, f.Type.ValidDefault),
			})
		}
		out = append(out, TableSpec{
			ID:          e.ID,
			Entity:      e.Name,
			Table:       naming.Table(e.Name),
			Description: e.Description,
			Columns:     cs.cols,
			Timestamps:  e.Timestamps,
			pos:         i,
		})
	}
	return out
}
