package gen

import (
	"fmt"
	"strings"

	"modelforge/internal/lint"
	"modelforge/internal/model"
	"modelforge/internal/naming"
)

type prismaField struct {
	name, typ, attrs string
}

// Prisma renders one model per table. Relation fields are not generated;
// models taking part in a relationship get a comment listing them instead.
func (g *Generator) Prisma(d model.Document) (string, lint.Issues) {
	s, issues := Normalize(d)

	var b strings.Builder
	b.WriteString(g.header("//", "Prisma schema", s.SystemName))
	b.WriteString(`
generator client {
  provider = "prisma-client-js"
}

datasource db {
  provider = "postgresql"
  url      = env("DATABASE_URL")
}
`)
	for _, t := range s.Tables {
		b.WriteString("\n")
		writeModel(&b, t, relationsOf(s, t.Entity))
	}
	return b.String(), issues
}

func writeModel(b *strings.Builder, t TableSpec, rels []Relation) {
	fields := []prismaField{{"id", "String", "@id @default(uuid())"}}
	for _, c := range t.Columns {
		f := prismaField{name: naming.Camel(c.Column), typ: c.PrismaType}
		if !c.Required {
			f.typ += "?"
		}
		var attrs []string
		if c.Unique {
			attrs = append(attrs, "@unique")
		}
		if v := strings.TrimSpace(c.Default); v != "" {
			if !c.Literal {
				v = fmt.Sprintf("%q", v)
			}
			attrs = append(attrs, "@default("+v+")")
		}
		if f.name != c.Column {
			attrs = append(attrs, fmt.Sprintf("@map(%q)", c.Column))
		}
		f.attrs = strings.Join(attrs, " ")
		fields = append(fields, f)
	}
	if t.Timestamps {
		fields = append(fields,
			prismaField{"createdAt", "DateTime", `@default(now()) @map("created_at")`},
			prismaField{"updatedAt", "DateTime", `@updatedAt @map("updated_at")`})
	}
	if t.SoftDeletes {
		fields = append(fields, prismaField{"deletedAt", "DateTime?", `@map("deleted_at")`})
	}

	nameW, typeW := 0, 0
	for _, f := range fields {
		nameW = max(nameW, len(f.name))
		typeW = max(typeW, len(f.typ))
	}

	fmt.Fprintf(b, "model %s {\n", naming.Pascal(t.Entity))
	for _, f := range fields {
		line := fmt.Sprintf("  %-*s %-*s %s", nameW, f.name, typeW, f.typ, f.attrs)
		b.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	if len(rels) > 0 {
		b.WriteString("\n  // Relation fields must be added manually:\n")
		for _, r := range rels {
			fmt.Fprintf(b, "  //   %s\n", r)
		}
	}
	fmt.Fprintf(b, "\n  @@map(%q)\n}\n", t.Table)
}

func relationsOf(s Schema, entity string) []Relation {
	var out []Relation
	for _, r := range s.Relations {
		if r.From == entity || r.To == entity {
			out = append(out, r)
		}
	}
	return out
}
