package gen

import (
	"fmt"
	"strings"

	"modelforge/internal/artifact"
	"modelforge/internal/diagram"
	"modelforge/internal/lint"
	"modelforge/internal/model"
	"modelforge/internal/naming"
)

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Analysis is a rough size estimate shown next to the bundle.
type Analysis struct {
	Complexity    Complexity `json:"complexity"`
	EstimatedTime string     `json:"estimatedTime"`
	Tables        int        `json:"tables"`
	Relationships int        `json:"relationships"`
}

func analyze(s Schema) Analysis {
	a := Analysis{Tables: len(s.Tables), Relationships: len(s.Relations)}
	switch {
	case a.Tables <= 3 && a.Relationships <= 2:
		a.Complexity, a.EstimatedTime = ComplexityLow, "1-2 weeks"
	case a.Tables <= 8:
		a.Complexity, a.EstimatedTime = ComplexityMedium, "3-4 weeks"
	default:
		a.Complexity, a.EstimatedTime = ComplexityHigh, "6-8 weeks"
	}
	return a
}

type Bundle struct {
	Files      artifact.Files `json:"files"`
	Analysis   Analysis       `json:"analysis"`
	Statements []Statement    `json:"-"`
	Warnings   lint.Issues    `json:"warnings"`
}

// Bundle writes the full database package: schema, auth scaffold, RLS
// policies, triggers, per-table docs, the endpoint list and diagrams.
func (g *Generator) Bundle(d model.Document) Bundle {
	s, issues := Normalize(d)
	stmts := BuildDDL(s, Full)

	sqlFile := func(title string, kinds ...Kind) string {
		return g.header("--", title, s.SystemName) + "\n" + Render(stmts, kinds...)
	}
	files := artifact.Files{
		"database/schema.sql":   sqlFile("database schema", KindTable, KindIndex, KindForeignKey),
		"database/auth.sql":     sqlFile("auth scaffold", KindAuth),
		"database/policies.sql": sqlFile("row level security (illustrative)", KindPolicy),
		"database/triggers.sql": sqlFile("triggers", KindTrigger),
		"docs/endpoints.md":     endpointsDoc(CRUDEndpoints(s)),
		"diagrams/er.md":        diagram.Markdown("Entity relationships", erGraph(s)),
		"diagrams/sequence.md":  diagram.Markdown("Request flow", requestFlow(s)),
	}
	for _, t := range s.Tables {
		files["docs/tables/"+t.Table+".md"] = tableDoc(s, t)
	}
	return Bundle{Files: files, Analysis: analyze(s), Statements: stmts, Warnings: issues}
}

func tableDoc(s Schema, t TableSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Entity)
	if t.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", t.Description)
	}
	fmt.Fprintf(&b, "Table: `%s`\n\n", t.Table)
	b.WriteString("| Column | Type | Required | Unique | Default |\n|---|---|---|---|---|\n")
	b.WriteString("| id | UUID | yes | yes | gen_random_uuid() |\n")
	for _, c := range t.Columns {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", c.Column, c.SQLType, yesNo(c.Required), yesNo(c.Unique), c.Default)
	}
	for _, fk := range s.ForeignKeys {
		if fk.Table == t.Table && !fk.Existing {
			fmt.Fprintf(&b, "| %s | UUID | no | no | |\n", fk.Column)
		}
	}
	if t.Timestamps {
		b.WriteString("| created_at | TIMESTAMP | no | no | CURRENT_TIMESTAMP |\n")
		b.WriteString("| updated_at | TIMESTAMP | no | no | CURRENT_TIMESTAMP |\n")
	}
	if t.SoftDeletes {
		b.WriteString("| deleted_at | TIMESTAMP | no | no | |\n")
	}

	if rels := relationsOf(s, t.Entity); len(rels) > 0 {
		b.WriteString("\n## Relationships\n\n")
		for _, r := range rels {
			fmt.Fprintf(&b, "- %s", r)
			if r.Cardinality != model.OneToMany {
				b.WriteString(" (not materialised in DDL)")
			}
			b.WriteString("\n")
		}
	}
	if lc := t.Lifecycle; lc != nil {
		b.WriteString("\n## Lifecycle\n\n")
		fmt.Fprintf(&b, "Status field: `%s`, default `%s`.\n", lc.StatusField, lc.DefaultStatus)
		if len(lc.Transitions) > 0 {
			b.WriteString("\n| From | To | Action |\n|---|---|---|\n")
			for _, tr := range lc.Transitions {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", tr.From, tr.To, tr.Action)
			}
		}
	}
	if len(t.Policies) > 0 {
		b.WriteString("\n## Policies\n\n")
		for _, p := range t.Policies {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	return b.String()
}

func endpointsDoc(eps []Endpoint) string {
	var b strings.Builder
	b.WriteString("# API endpoints\n")
	entity := "\x00"
	for _, e := range eps {
		if e.Entity != entity {
			entity = e.Entity
			fmt.Fprintf(&b, "\n## %s\n\n| Method | Path | Description |\n|---|---|---|\n", entity)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", e.Method, e.Path, e.Summary)
	}
	return b.String()
}

func erGraph(s Schema) string {
	nodes := make([]diagram.Node, 0, len(s.Tables))
	for _, t := range s.Tables {
		nodes = append(nodes, diagram.Node{ID: naming.Pascal(t.Entity), Label: t.Table})
	}
	edges := make([]diagram.Edge, 0, len(s.Relations))
	for _, r := range s.Relations {
		a, b := r.Ends()
		edges = append(edges, diagram.Edge{From: naming.Pascal(a), To: naming.Pascal(b), Label: string(r.Cardinality)})
	}
	return diagram.Graph("TD", nodes, edges)
}

func requestFlow(s Schema) string {
	var msgs []diagram.Edge
	for _, t := range s.Tables {
		msgs = append(msgs,
			diagram.Edge{From: "Client", To: "API", Label: "POST /" + t.Table},
			diagram.Edge{From: "API", To: "Database", Label: "INSERT INTO " + t.Table},
			diagram.Edge{From: "Database", To: "API", Label: "row"},
			diagram.Edge{From: "API", To: "Client", Label: "201 " + naming.Pascal(t.Entity)},
		)
	}
	return diagram.Sequence([]string{"Client", "API", "Database"}, msgs)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
