package convert

import (
	"fmt"

	"modelforge/internal/model"
	"modelforge/internal/typemap"
)

// PlanningToTable renders a planning entity with the planning SQL table.
func PlanningToTable(e model.PlanningEntity) model.Table {
	t := model.Table{ID: e.ID, Name: e.Name, Description: e.Description}
	t.Columns = append(t.Columns, pkColumn(e.ID))
	for i, f := range e.Fields {
		t.Columns = append(t.Columns, model.Column{
			ID:         fmt.Sprintf("%s-f%d", e.ID, i+1),
			Name:       f.Name,
			DataType:   typemap.PlanningSQL(f.Type),
			IsNullable: !f.Required,
		})
	}
	t.Columns = append(t.Columns, timestampColumns(e.ID, e.Timestamps, false)...)
	return t
}

// ToTables renders any document as table-editor entities.
func ToTables(d model.Document) ([]model.Table, error) {
	var out []model.Table
	switch d.Format {
	case model.FormatWizard:
		for _, e := range d.Wizard {
			out = append(out, WizardToTable(e))
		}
	case model.FormatModeler:
		for _, e := range d.Modeler {
			out = append(out, ModelerToTable(e))
		}
	case model.FormatTable:
		out = append(out, d.Tables...)
	case model.FormatPlanning:
		for _, e := range d.Planning {
			out = append(out, PlanningToTable(e))
		}
	default:
		return nil, fmt.Errorf("convert: unknown format %q", d.Format)
	}
	return out, nil
}

// ToWizard renders any document as wizard entities.
func ToWizard(d model.Document) ([]model.WizardEntity, error) {
	var out []model.WizardEntity
	switch d.Format {
	case model.FormatWizard:
		out = append(out, d.Wizard...)
	case model.FormatModeler:
		for _, e := range d.Modeler {
			out = append(out, ModelerToWizard(e))
		}
	case model.FormatTable, model.FormatPlanning:
		tables, err := ToTables(d)
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			out = append(out, TableToWizard(t, model.WizardEntity{}))
		}
	default:
		return nil, fmt.Errorf("convert: unknown format %q", d.Format)
	}
	return out, nil
}

// ToModeler renders any document as modeler entities. Links become
// name-based relationships on their source entity.
func ToModeler(d model.Document) ([]model.Entity, error) {
	var out []model.Entity
	switch d.Format {
	case model.FormatModeler:
		return append(out, d.Modeler...), nil
	case model.FormatWizard:
		for _, e := range d.Wizard {
			out = append(out, WizardToModeler(e))
		}
	case model.FormatTable, model.FormatPlanning:
		tables, err := ToTables(d)
		if err != nil {
			return nil, err
		}
		for _, t := range tables {
			out = append(out, TableToModeler(t, model.Entity{}))
		}
	default:
		return nil, fmt.Errorf("convert: unknown format %q", d.Format)
	}

	ix := model.IndexOf(d)
	for _, l := range d.Links {
		i, ok := ix.PosByID(l.FromEntityID)
		target, okTo := ix.ByID(l.ToEntityID)
		if !ok || !okTo || i >= len(out) {
			continue
		}
		out[i].Relationships = append(out[i].Relationships, model.Relationship{
			ID:           l.ID,
			TargetEntity: target,
			Type:         l.Type,
			FKField:      l.FKField,
			OnDelete:     l.OnDelete,
			OnUpdate:     l.OnUpdate,
		})
	}
	return out, nil
}

// Links extracts id-based links from modeler relationships. Targets that do
// not resolve and entities without an id are dropped.
func Links(entities []model.Entity) []model.Link {
	ids := make([]string, len(entities))
	names := make([]string, len(entities))
	for i, e := range entities {
		ids[i], names[i] = e.ID, e.Name
	}
	ix := model.NewIndex(ids, names)

	var out []model.Link
	for _, e := range entities {
		for _, r := range e.Relationships {
			to, ok := ix.ByName(r.TargetEntity)
			if !ok || to == "" || e.ID == "" {
				continue
			}
			out = append(out, model.Link{
				ID:           r.ID,
				FromEntityID: e.ID,
				ToEntityID:   to,
				Type:         r.Type,
				OnDelete:     r.OnDelete,
				OnUpdate:     r.OnUpdate,
				FKField:      r.FKField,
			})
		}
	}
	return out
}

// Convert re-expresses d in the target format.
func Convert(d model.Document, target model.Format) (model.Document, error) {
	out := model.Document{Format: target, Context: d.Context}
	links := d.Links
	if d.Format == model.FormatModeler {
		links = Links(d.Modeler)
	}

	var err error
	switch target {
	case model.FormatWizard:
		out.Wizard, err = ToWizard(d)
		out.Links = links
	case model.FormatModeler:
		out.Modeler, err = ToModeler(d)
	case model.FormatTable:
		out.Tables, err = ToTables(d)
		out.Links = links
	case model.FormatPlanning:
		err = fmt.Errorf("convert: %s is an input-only format", target)
	default:
		err = fmt.Errorf("convert: unknown format %q", target)
	}
	if err != nil {
		return model.Document{}, err
	}
	return out, nil
}
