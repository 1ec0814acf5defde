package gen

import (
	"fmt"
	"strings"

	"modelforge/internal/naming"
)

// Kind groups statements by the bundle file they end up in.
type Kind string

const (
	KindTable      Kind = "table"
	KindIndex      Kind = "index"
	KindForeignKey Kind = "foreign_key"
	KindAuth       Kind = "auth"
	KindPolicy     Kind = "policy"
	KindTrigger    Kind = "trigger"
)

// Statement is one executable DDL statement.
type Statement struct {
	Kind  Kind   `json:"kind"`
	Table string `json:"table,omitempty"`
	SQL   string `json:"sql"`
}

// DDLOptions switches on the scaffolding the bundle adds on top of the plain
// schema.
type DDLOptions struct {
	Auth     bool
	Policies bool
	Triggers bool
}

// Full enables every section.
var Full = DDLOptions{Auth: true, Policies: true, Triggers: true}

const triggerFunc = "update_updated_at_column"

// BuildDDL emits statements in dependency order: auth scaffold, tables and
// their indexes, foreign keys (after every table exists), row level security
// and triggers.
func BuildDDL(s Schema, opts DDLOptions) []Statement {
	var out []Statement
	if opts.Auth {
		out = append(out, authStatements()...)
	}

	indexes := map[string]bool{}
	for _, t := range s.Tables {
		out = append(out, Statement{Kind: KindTable, Table: t.Table, SQL: createTable(t)})
		for _, c := range t.Columns {
			if !c.Indexed || c.Unique {
				continue
			}
			name := "idx_" + t.Table + "_" + c.Column
			indexes[name] = true
			out = append(out, Statement{Kind: KindIndex, Table: t.Table,
				SQL: fmt.Sprintf("CREATE INDEX %s ON %s(%s);", name, quote(t.Table), quote(c.Column))})
		}
	}

	// phase B: relationships, after all tables
	for _, fk := range s.ForeignKeys {
		if !fk.Existing {
			out = append(out, Statement{Kind: KindForeignKey, Table: fk.Table,
				SQL: fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s UUID;", quote(fk.Table), quote(fk.Column))})
		}
		sql := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(id) ON DELETE %s",
			quote(fk.Table), fk.Name, quote(fk.Column), quote(fk.RefTable), fk.OnDelete)
		if fk.OnUpdate != "" {
			sql += " ON UPDATE " + string(fk.OnUpdate)
		}
		out = append(out, Statement{Kind: KindForeignKey, Table: fk.Table, SQL: sql + ";"})

		idx := "idx_" + fk.Table + "_" + fk.Column
		if !indexes[idx] {
			indexes[idx] = true
			out = append(out, Statement{Kind: KindForeignKey, Table: fk.Table,
				SQL: fmt.Sprintf("CREATE INDEX %s ON %s(%s);", idx, quote(fk.Table), quote(fk.Column))})
		}
	}

	if opts.Policies {
		out = append(out, policyStatements(s)...)
	}
	if opts.Triggers {
		out = append(out, triggerStatements(s)...)
	}
	return out
}

func createTable(t TableSpec) string {
	cols := []string{"id UUID PRIMARY KEY DEFAULT gen_random_uuid()"}
	for _, c := range t.Columns {
		def := quote(c.Column) + " " + c.SQLType
		if c.Required {
			def += " NOT NULL"
		}
		if c.Unique {
			def += " UNIQUE"
		}
		if strings.TrimSpace(c.Default) != "" {
			def += " DEFAULT " + sqlDefault(c)
		}
		cols = append(cols, def)
	}
	if t.Timestamps {
		cols = append(cols,
			"created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP",
			"updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP")
	}
	if t.SoftDeletes {
		cols = append(cols, "deleted_at TIMESTAMP")
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", quote(t.Table), strings.Join(cols, ",\n  "))
}

func sqlDefault(c ColumnSpec) string {
	v := strings.TrimSpace(c.Default)
	if c.Literal {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func quote(ident string) string { return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"` }

func authStatements() []Statement {
	return []Statement{
		{Kind: KindAuth, SQL: "CREATE SCHEMA IF NOT EXISTS auth;"},
		{Kind: KindAuth, Table: "auth.users", SQL: `CREATE TABLE IF NOT EXISTS auth.users (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  email VARCHAR(255) NOT NULL UNIQUE,
  role VARCHAR(50) NOT NULL DEFAULT 'authenticated',
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`},
		{Kind: KindAuth, SQL: `CREATE OR REPLACE FUNCTION auth.uid() RETURNS UUID AS $$
  SELECT nullif(current_setting('request.jwt.claim.sub', true), '')::uuid;
$$ LANGUAGE sql STABLE;`},
		{Kind: KindAuth, SQL: `CREATE OR REPLACE FUNCTION auth.role() RETURNS TEXT AS $$
  SELECT nullif(current_setting('request.jwt.claim.role', true), '')::text;
$$ LANGUAGE sql STABLE;`},
		{Kind: KindAuth, Table: "auth.users", SQL: "ALTER TABLE auth.users ENABLE ROW LEVEL SECURITY;"},
	}
}

// isUserEntity matches the entity the own-row policy is written for.
func isUserEntity(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "usuario", "user":
		return true
	}
	return false
}

// policyStatements enables RLS on every table and writes illustrative
// policies: an own-row SELECT policy for the user entity and one policy block
// per declared profile. The role checks are placeholders for the project's
// real claims.
func policyStatements(s Schema) []Statement {
	var out []Statement
	for _, t := range s.Tables {
		out = append(out, Statement{Kind: KindPolicy, Table: t.Table,
			SQL: fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", quote(t.Table))})
	}
	for _, t := range s.Tables {
		if !isUserEntity(t.Entity) {
			continue
		}
		out = append(out, Statement{Kind: KindPolicy, Table: t.Table,
			SQL: fmt.Sprintf("CREATE POLICY %s ON %s FOR SELECT USING (auth.uid() = id);",
				quote(t.Table+"_select_own"), quote(t.Table))})
	}
	for _, p := range s.Profiles {
		role := naming.Snake(p.Name)
		if role == "" {
			continue
		}
		for _, t := range s.Tables {
			out = append(out, Statement{Kind: KindPolicy, Table: t.Table,
				SQL: fmt.Sprintf("CREATE POLICY %s ON %s FOR ALL USING (auth.role() = '%s');",
					quote(role+"_access_"+t.Table), quote(t.Table), role)})
		}
	}
	return out
}

func triggerStatements(s Schema) []Statement {
	out := []Statement{{Kind: KindTrigger, SQL: `CREATE OR REPLACE FUNCTION ` + triggerFunc + `()
RETURNS TRIGGER AS $$
BEGIN
  NEW.updated_at = CURRENT_TIMESTAMP;
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;`}}
	for _, t := range s.Tables {
		if !t.Timestamps {
			continue
		}
		out = append(out, Statement{Kind: KindTrigger, Table: t.Table,
			SQL: fmt.Sprintf("CREATE TRIGGER update_%s_updated_at BEFORE UPDATE ON %s FOR EACH ROW EXECUTE FUNCTION %s();",
				t.Table, quote(t.Table), triggerFunc)})
	}
	return out
}

// Render joins statements of the given kinds, all of them when kinds is
// empty, separated by blank lines.
func Render(stmts []Statement, kinds ...Kind) string {
	var parts []string
	for _, st := range stmts {
		if len(kinds) > 0 && !hasKind(kinds, st.Kind) {
			continue
		}
		parts = append(parts, st.SQL)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
