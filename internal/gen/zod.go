package gen

import (
	"fmt"
	"strconv"
	"strings"

	"modelforge/internal/lint"
	"modelforge/internal/model"
	"modelforge/internal/naming"
)

// chainOrder is fixed so output does not depend on declaration order.
var chainOrder = []model.ValidationType{
	model.ValidateMin, model.ValidateMax, model.ValidateEmail, model.ValidateURL, model.ValidatePattern,
}

// Zod renders a z.object schema and its inferred type for every table.
func (g *Generator) Zod(d model.Document) (string, lint.Issues) {
	s, issues := Normalize(d)

	var b strings.Builder
	b.WriteString(g.header("//", "Zod schemas", s.SystemName))
	b.WriteString("\nimport { z } from 'zod';\n")
	for _, t := range s.Tables {
		name := naming.Camel(t.Entity) + "Schema"
		fmt.Fprintf(&b, "\nexport const %s = z.object({\n", name)
		for _, c := range t.Columns {
			fmt.Fprintf(&b, "  %s: %s,\n", naming.Camel(c.Column), zodChain(t.Entity, c, &issues))
		}
		b.WriteString("});\n")
		fmt.Fprintf(&b, "export type %s = z.infer<typeof %s>;\n", naming.Pascal(t.Entity), name)
	}
	return b.String(), issues
}

func zodChain(entity string, c ColumnSpec, issues *lint.Issues) string {
	chain := c.ZodType
	for _, vt := range chainOrder {
		for _, v := range c.Validations {
			if v.Type != vt {
				continue
			}
			switch vt {
			case model.ValidateMin, model.ValidateMax:
				n := strings.TrimSpace(v.Value)
				if _, err := strconv.ParseFloat(n, 64); err != nil {
					issues.Add(entity, c.Name, lint.CodeBadValidation, "%s value %q is not a number", vt, v.Value)
					continue
				}
				chain += "." + string(vt) + "(" + n + ")"
			case model.ValidateEmail:
				chain += ".email()"
			case model.ValidateURL:
				chain += ".url()"
			case model.ValidatePattern:
				chain += ".regex(/" + strings.ReplaceAll(v.Value, "/", `\/`) + "/)"
			}
		}
	}
	if !c.Required {
		chain += ".optional()"
	}
	return chain
}
