package gen

import (
	"fmt"
	"regexp"
	"strings"

	"modelforge/internal/naming"
)

// Endpoint is one REST operation a route stub is generated for.
type Endpoint struct {
	Method  string `json:"method"`
	Path    string `json:"path"` // "{id}" style placeholders
	Name    string `json:"name,omitempty"`
	Entity  string `json:"entity,omitempty"`
	Summary string `json:"summary,omitempty"`
}

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Params lists the placeholder names in path order.
func (e Endpoint) Params() []string {
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(e.Path, -1) {
		out = append(out, m[1])
	}
	return out
}

// LogicName is the business function the handler delegates to.
func (e Endpoint) LogicName() string {
	if e.Name != "" {
		return e.Name
	}
	return naming.Camel(strings.ToLower(e.Method) + " " + placeholder.ReplaceAllString(e.Path, "by $1"))
}

// CRUDEndpoints suggests list/create/get/update/delete for every table.
func CRUDEndpoints(s Schema) []Endpoint {
	var out []Endpoint
	for _, t := range s.Tables {
		one := naming.Pascal(t.Entity)
		many := naming.Pascal(t.Table)
		base := "/" + t.Table
		out = append(out,
			Endpoint{Method: "GET", Path: base, Name: "list" + many, Entity: t.Entity, Summary: "List " + t.Table},
			Endpoint{Method: "POST", Path: base, Name: "create" + one, Entity: t.Entity, Summary: "Create " + t.Entity},
			Endpoint{Method: "GET", Path: base + "/{id}", Name: "get" + one, Entity: t.Entity, Summary: "Get " + t.Entity + " by id"},
			Endpoint{Method: "PUT", Path: base + "/{id}", Name: "update" + one, Entity: t.Entity, Summary: "Update " + t.Entity},
			Endpoint{Method: "DELETE", Path: base + "/{id}", Name: "delete" + one, Entity: t.Entity, Summary: "Delete " + t.Entity},
		)
	}
	return out
}

// routeFile maps "/pedidos/{id}" to "app/api/pedidos/[id]/route.ts".
func routeFile(path string) string {
	p := strings.Trim(placeholder.ReplaceAllString(path, "[$1]"), "/")
	if p == "" {
		return "app/api/route.ts"
	}
	return "app/api/" + p + "/route.ts"
}

func logicFile(e Endpoint) string {
	seg := strings.Split(strings.Trim(e.Path, "/"), "/")[0]
	if seg == "" || placeholder.MatchString(seg) {
		seg = "index"
	}
	return "lib/logic/" + seg + ".ts"
}

// Routes writes one handler per endpoint. The business logic file each
// handler imports is written as a comment block right after it.
func (g *Generator) Routes(endpoints []Endpoint, system string) string {
	var b strings.Builder
	b.WriteString(g.header("//", "route handlers", system))
	for _, e := range endpoints {
		method := strings.ToUpper(strings.TrimSpace(e.Method))
		if method == "" || strings.TrimSpace(e.Path) == "" {
			continue
		}
		fn := e.LogicName()
		params := e.Params()
		lf := logicFile(e)

		fmt.Fprintf(&b, "\n// ===== %s (%s %s) =====\n", routeFile(e.Path), method, e.Path)
		b.WriteString("import { NextRequest, NextResponse } from 'next/server';\n")
		fmt.Fprintf(&b, "import { %s } from '@/%s';\n\n", fn, strings.TrimSuffix(lf, ".ts"))

		sig := "req: NextRequest"
		if len(params) > 0 {
			fields := make([]string, len(params))
			for i, p := range params {
				fields[i] = p + ": string"
			}
			sig += fmt.Sprintf(", { params }: { params: { %s } }", strings.Join(fields, "; "))
		}
		var args []string
		for _, p := range params {
			args = append(args, "params."+p)
		}
		if hasBody(method) {
			args = append(args, "body")
		}

		fmt.Fprintf(&b, "export async function %s(%s) {\n", method, sig)
		b.WriteString("  try {\n")
		if hasBody(method) {
			b.WriteString("    const body = await req.json();\n")
		}
		fmt.Fprintf(&b, "    const result = await %s(%s);\n", fn, strings.Join(args, ", "))
		if method == "POST" {
			b.WriteString("    return NextResponse.json(result, { status: 201 });\n")
		} else {
			b.WriteString("    return NextResponse.json(result);\n")
		}
		b.WriteString("  } catch (error) {\n")
		b.WriteString("    return NextResponse.json({ error: 'Internal server error' }, { status: 500 });\n")
		b.WriteString("  }\n}\n")

		var logicArgs []string
		for _, p := range params {
			logicArgs = append(logicArgs, p+": string")
		}
		if hasBody(method) {
			logicArgs = append(logicArgs, "data: unknown")
		}
		fmt.Fprintf(&b, "\n/* ----- %s -----\n", lf)
		fmt.Fprintf(&b, "export async function %s(%s) {\n", fn, strings.Join(logicArgs, ", "))
		if e.Summary != "" {
			fmt.Fprintf(&b, "  // %s\n", e.Summary)
		}
		b.WriteString("  throw new Error('not implemented');\n}\n*/\n")
	}
	return b.String()
}

func hasBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}
