package gen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelforge/internal/diagram"
	"modelforge/internal/lint"
	"modelforge/internal/model"
)

var fixed = WithClock(func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) })

func squash(s string) string { return strings.Join(strings.Fields(s), " ") }

func pedidoDoc() model.Document {
	return model.Document{
		Format: model.FormatWizard,
		Wizard: []model.WizardEntity{{
			ID:         "p",
			Name:       "Pedido",
			Fields:     []model.Field{{ID: "f1", Name: "total", Type: model.FieldNumber, Required: true}},
			Timestamps: true,
		}},
	}
}

func TestSQLPedido(t *testing.T) {
	out, issues := New(fixed).SQL(pedidoDoc())
	assert.Empty(t, issues)
	assert.Equal(t, `-- database schema
-- Generated at: 2026-01-02T03:04:05Z

CREATE TABLE "pedidos" (
  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  "total" INT NOT NULL,
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
  updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`, out)
}

func TestSQLColumnClauses(t *testing.T) {
	doc := model.Document{Format: model.FormatWizard, Wizard: []model.WizardEntity{{
		ID: "c", Name: "ClienteVip", SoftDeletes: true,
		Fields: []model.Field{
			{Name: "Email", Type: model.FieldString, Required: true, Unique: true},
			{Name: "ativo", Type: model.FieldBoolean, DefaultValue: "true"},
			{Name: "apelido", Type: model.FieldString, DefaultValue: "d'Ávila", Indexed: true},
			{Name: "", Type: model.FieldString},
			{Name: "id", Type: model.FieldString},
		},
	}}}
	out, issues := New(fixed).SQL(doc)
	assert.Contains(t, out, `CREATE TABLE "cliente_vips" (`)
	assert.Contains(t, out, `"email" VARCHAR(255) NOT NULL UNIQUE,`)
	assert.Contains(t, out, `"ativo" BOOLEAN DEFAULT true,`)
	assert.Contains(t, out, `"apelido" VARCHAR(255) DEFAULT 'd''Ávila',`)
	assert.Contains(t, out, "  deleted_at TIMESTAMP\n);")
	assert.Contains(t, out, `CREATE INDEX idx_cliente_vips_apelido ON "cliente_vips"("apelido");`)
	assert.NotContains(t, out, "created_at")
	assert.Equal(t, 1, strings.Count(out, "id UUID PRIMARY KEY"), "declared id is shadowed by the synthesized key")
	assert.True(t, issues.Has(lint.CodeEmptyFieldName))
	assert.True(t, issues.Has(lint.CodeShadowedColumn))
}

func TestSQLOneCreateTablePerNamedEntity(t *testing.T) {
	doc := model.Document{Format: model.FormatWizard, Wizard: []model.WizardEntity{
		{ID: "1", Name: "Cliente"}, {ID: "2", Name: ""}, {ID: "3", Name: "Status"}, {ID: "4", Name: "Produto"},
	}}
	out, _ := New().SQL(doc)
	assert.Equal(t, 3, strings.Count(out, "CREATE TABLE"))
	for _, tbl := range []string{"clientes", "statuss", "produtos"} {
		assert.Contains(t, out, `CREATE TABLE "`+tbl+`"`)
	}
}

func modelerDoc() model.Document {
	cliente := model.Entity{ID: "1", Name: "Cliente",
		Relationships: []model.Relationship{{ID: "r1", Name: "pedidos", TargetEntity: "Pedido", Type: "1:N"}}}
	pedido := model.Entity{ID: "2", Name: "Pedido", Attributes: []model.Attribute{
		{ID: 1, Name: "id", Type: model.TypeUUID, IsPK: true, IsNN: true},
		{ID: 2, Name: "valor", Type: model.TypeDecimal, Length: 12, IsNN: true},
	}, Security: model.Security{HasAudit: true}}
	return model.Document{Format: model.FormatModeler, Modeler: []model.Entity{cliente, pedido}}
}

func TestSQLOneToManyForeignKey(t *testing.T) {
	out, issues := New().SQL(modelerDoc())
	assert.Empty(t, issues)
	assert.Contains(t, out, `CREATE TABLE "clientes"`)
	assert.Contains(t, out, `CREATE TABLE "pedidos"`)
	assert.Contains(t, out, `"valor" DECIMAL(12,2) NOT NULL`)
	assert.Equal(t, 1, strings.Count(out, "FOREIGN KEY"))
	assert.Contains(t, out, `ALTER TABLE "clientes" ADD COLUMN "pedido_id" UUID;`)
	assert.Contains(t, out,
		`ALTER TABLE "clientes" ADD CONSTRAINT fk_clientes_pedido_id FOREIGN KEY ("pedido_id") REFERENCES "pedidos"(id) ON DELETE CASCADE;`)
	assert.Contains(t, out, `CREATE INDEX idx_clientes_pedido_id ON "clientes"("pedido_id");`)
	assert.Less(t, strings.LastIndex(out, "CREATE TABLE"), strings.Index(out, "ALTER TABLE"), "foreign keys follow all tables")
}

func TestSQLForeignKeyOnExistingColumn(t *testing.T) {
	doc := model.Document{
		Format: model.FormatWizard,
		Wizard: []model.WizardEntity{
			{ID: "c", Name: "Cliente", Fields: []model.Field{{Name: "pedido_ref", Type: model.FieldForeignKey}}},
			{ID: "p", Name: "Pedido"},
		},
		Links: []model.Link{{ID: "l", FromEntityID: "c", ToEntityID: "p", Type: "one-to-many",
			FKField: "pedidoRef", OnDelete: "set_null", OnUpdate: "cascade"}},
	}
	out, _ := New().SQL(doc)
	assert.NotContains(t, out, "ADD COLUMN")
	assert.Contains(t, out, `FOREIGN KEY ("pedido_ref") REFERENCES "pedidos"(id) ON DELETE SET NULL ON UPDATE CASCADE;`)
}

func TestSQLSkipsUnmaterializedAndDangling(t *testing.T) {
	doc := modelerDoc()
	doc.Modeler[0].Relationships = []model.Relationship{
		{Name: "fantasma", TargetEntity: "Fantasma", Type: "1:N"},
		{Name: "perfil", TargetEntity: "Pedido", Type: "1:1"},
		{Name: "tags", TargetEntity: "pedido", Type: "N:N"},
	}
	out, issues := New().SQL(doc)
	assert.NotContains(t, out, "ALTER TABLE")
	assert.True(t, issues.Has(lint.CodeDanglingRelation))
	assert.True(t, issues.Has(lint.CodeNotMaterialized))
	assert.Equal(t, 2, strings.Count(out, "CREATE TABLE"))
}

func TestSQLModelerWithoutIDs(t *testing.T) {
	doc := model.Document{Format: model.FormatModeler, Modeler: []model.Entity{
		{Name: "Cliente"},
		{Name: "Pedido", Relationships: []model.Relationship{{TargetEntity: "Cliente", Type: "1:N"}}},
	}}
	out, issues := New().SQL(doc)
	assert.Empty(t, issues)
	assert.Contains(t, out, `ALTER TABLE "pedidos" ADD COLUMN "cliente_id" UUID;`)
	assert.Contains(t, out, `ALTER TABLE "pedidos" ADD CONSTRAINT fk_pedidos_cliente_id FOREIGN KEY ("cliente_id") REFERENCES "clientes"(id)`)
	assert.NotContains(t, out, `ALTER TABLE "clientes"`)
}

func TestSQLLinksNeedUniqueIDs(t *testing.T) {
	doc := model.Document{
		Format: model.FormatWizard,
		Wizard: []model.WizardEntity{{ID: "x", Name: "Cliente"}, {ID: "x", Name: "Pedido"}, {Name: "Loja"}},
		Links: []model.Link{
			{ID: "l1", FromEntityID: "x", ToEntityID: "x", Type: "1:N"},
			{ID: "l2", FromEntityID: "", ToEntityID: "x", Type: "1:N"},
		},
	}
	out, issues := New().SQL(doc)
	assert.NotContains(t, out, "ALTER TABLE")
	assert.Equal(t, 3, strings.Count(out, "CREATE TABLE"))
	assert.True(t, issues.Has(lint.CodeDuplicateID))
	assert.True(t, issues.Has(lint.CodeMissingID))
	assert.True(t, issues.Has(lint.CodeDanglingRelation))
}

func TestSQLDropsInvalidLiteralDefaults(t *testing.T) {
	doc := model.Document{Format: model.FormatWizard, Wizard: []model.WizardEntity{{ID: "p", Name: "Pedido", Fields: []model.Field{
		{Name: "total", Type: model.FieldNumber, DefaultValue: "abc"},
		{Name: "pago", Type: model.FieldBoolean, DefaultValue: "sim"},
		{Name: "parcelas", Type: model.FieldNumber, DefaultValue: "-1.5e2"},
	}}}}
	out, issues := New().SQL(doc)
	assert.NotContains(t, out, "DEFAULT abc")
	assert.NotContains(t, out, "DEFAULT sim")
	assert.Contains(t, out, "DEFAULT -1.5e2")
	n := 0
	for _, is := range issues {
		if is.Code == lint.CodeBadDefault {
			n++
		}
	}
	assert.Equal(t, 2, n)
}

func TestSQLTableAndPlanningFormats(t *testing.T) {
	tables := model.Document{Format: model.FormatTable, Tables: []model.Table{{ID: "t", Name: "Item", Columns: []model.Column{
		{Name: "id", DataType: "UUID", IsPrimaryKey: true},
		{Name: "nome", DataType: "VARCHAR(80)"},
		{Name: "created_at", DataType: "TIMESTAMP"},
	}}}}
	out, _ := New().SQL(tables)
	assert.Contains(t, out, `"nome" VARCHAR(80) NOT NULL`)
	assert.Contains(t, out, "updated_at TIMESTAMP")

	plan := model.Document{Format: model.FormatPlanning, Planning: []model.PlanningEntity{{ID: "e", Name: "Evento",
		Fields: []model.PlanningField{{Name: "inicio", Type: model.PlanDateTime, Required: true}, {Name: "vagas", Type: model.PlanInteger, DefaultValue: "10"}}}}}
	out, _ = New().SQL(plan)
	assert.Contains(t, out, `"inicio" TIMESTAMP NOT NULL`)
	assert.Contains(t, out, `"vagas" INTEGER DEFAULT 10`)
}

func TestZodPedido(t *testing.T) {
	out, _ := New(fixed).Zod(pedidoDoc())
	assert.Contains(t, squash(out), "export const pedidoSchema = z.object({ total: z.number().int(), });")
	assert.Contains(t, out, "import { z } from 'zod';")
	assert.Contains(t, out, "export type Pedido = z.infer<typeof pedidoSchema>;")
}

func TestZodChainOrder(t *testing.T) {
	doc := model.Document{Format: model.FormatWizard, Wizard: []model.WizardEntity{{ID: "u", Name: "user_account", Fields: []model.Field{{
		Name: "home_page", Type: model.FieldString,
		Validations: []model.Validation{
			{Type: model.ValidatePattern, Value: "^https?://"},
			{Type: model.ValidateURL},
			{Type: model.ValidateMax, Value: "200"},
			{Type: model.ValidateEmail},
			{Type: model.ValidateMin, Value: "5"},
			{Type: model.ValidateMin, Value: "many"},
		},
	}}}}}
	out, issues := New().Zod(doc)
	assert.Contains(t, out, "export const userAccountSchema = z.object({")
	assert.Contains(t, out, `  homePage: z.string().min(5).max(200).email().url().regex(/^https?:\/\//).optional(),`)
	assert.True(t, issues.Has(lint.CodeBadValidation))
}

func TestPrisma(t *testing.T) {
	doc := model.Document{
		Format: model.FormatWizard,
		Wizard: []model.WizardEntity{
			{ID: "c", Name: "cliente", SoftDeletes: true, Fields: []model.Field{
				{Name: "nome_completo", Type: model.FieldString, Required: true, Unique: true},
				{Name: "limite", Type: model.FieldNumber, DefaultValue: "100"},
				{Name: "tipo", Type: model.FieldString, DefaultValue: "pf"},
			}},
			{ID: "p", Name: "Pedido", Timestamps: true},
		},
		Links: []model.Link{{ID: "l", FromEntityID: "c", ToEntityID: "p", Type: "1:N"}},
	}
	out, _ := New(fixed).Prisma(doc)
	s := squash(out)
	assert.Contains(t, s, "model Cliente { id String @id @default(uuid())")
	assert.Contains(t, s, `nomeCompleto String @unique @map("nome_completo")`)
	assert.Contains(t, s, "limite Int? @default(100)")
	assert.Contains(t, s, `tipo String? @default("pf")`)
	assert.Contains(t, s, `deletedAt DateTime? @map("deleted_at")`)
	assert.Contains(t, s, `createdAt DateTime @default(now()) @map("created_at")`)
	assert.Contains(t, s, `updatedAt DateTime @updatedAt @map("updated_at")`)
	assert.Contains(t, s, `@@map("clientes") }`)
	assert.Contains(t, out, "// Relation fields must be added manually:")
	assert.Equal(t, 2, strings.Count(out, "//   Pedido 1:N cliente"), "cliente holds the key, so Pedido is the one side")
	assert.NotContains(t, out, "@relation")
}

func TestRoutes(t *testing.T) {
	s, _ := Normalize(pedidoDoc())
	eps := CRUDEndpoints(s)
	require.Len(t, eps, 5)
	assert.Equal(t, "/pedidos/{id}", eps[2].Path)

	out := New(fixed).Routes(eps, "Loja")
	assert.Contains(t, out, "// Loja route handlers")
	assert.Equal(t, 5, strings.Count(out, "export async function "+"GET")+strings.Count(out, "export async function POST")+
		strings.Count(out, "export async function PUT")+strings.Count(out, "export async function DELETE"))
	assert.Contains(t, out, "// ===== app/api/pedidos/[id]/route.ts (PUT /pedidos/{id}) =====")
	assert.Contains(t, out, "export async function PUT(req: NextRequest, { params }: { params: { id: string } }) {")
	assert.Contains(t, out, "const result = await updatePedido(params.id, body);")
	assert.Contains(t, out, "/* ----- lib/logic/pedidos.ts -----\nexport async function updatePedido(id: string, data: unknown) {")
	assert.Contains(t, out, "const result = await listPedidos();")
	assert.Contains(t, out, "{ status: 201 }")
}

func TestEndpointLogicName(t *testing.T) {
	e := Endpoint{Method: "get", Path: "/orders/{orderId}/items"}
	assert.Equal(t, []string{"orderId"}, e.Params())
	assert.Equal(t, "getOrdersByOrderIdItems", e.LogicName())
	assert.Equal(t, "app/api/orders/[orderId]/items/route.ts", routeFile(e.Path))
}

func TestBundle(t *testing.T) {
	doc := modelerDoc()
	doc.Modeler = append(doc.Modeler, model.Entity{ID: "3", Name: "Usuario", Security: model.Security{HasAudit: true}})
	doc.Modeler[1].Lifecycle = &model.Lifecycle{StatusField: "status", DefaultStatus: "aberto",
		Transitions: []model.Transition{{From: "aberto", To: "pago", Action: "pagar"}}}
	doc.Context = model.Context{SystemName: "Loja", UserProfiles: []model.Profile{{Name: "Gerente Loja"}}}

	b := New(fixed).Bundle(doc)
	for _, p := range []string{
		"database/schema.sql", "database/auth.sql", "database/policies.sql", "database/triggers.sql",
		"docs/endpoints.md", "docs/tables/clientes.md", "docs/tables/pedidos.md", "docs/tables/usuarios.md",
		"diagrams/er.md", "diagrams/sequence.md",
	} {
		assert.Contains(t, b.Files, p)
	}

	assert.Contains(t, b.Files["database/auth.sql"], "CREATE TABLE IF NOT EXISTS auth.users")
	assert.Contains(t, b.Files["database/auth.sql"], "ENABLE ROW LEVEL SECURITY")
	pol := b.Files["database/policies.sql"]
	assert.Contains(t, pol, `CREATE POLICY "usuarios_select_own" ON "usuarios" FOR SELECT USING (auth.uid() = id);`)
	assert.Equal(t, 3, strings.Count(pol, "auth.role() = 'gerente_loja'"))
	assert.Equal(t, 3, strings.Count(pol, "ENABLE ROW LEVEL SECURITY"))

	trg := b.Files["database/triggers.sql"]
	assert.Contains(t, trg, "CREATE OR REPLACE FUNCTION update_updated_at_column()")
	assert.Equal(t, 2, strings.Count(trg, "CREATE TRIGGER"), "pedidos and usuarios are timestamped")

	assert.Contains(t, b.Files["docs/tables/pedidos.md"], "| aberto | pago | pagar |")
	assert.Contains(t, b.Files["docs/tables/clientes.md"], "| pedido_id | UUID | no | no | |")
	assert.Contains(t, b.Files["docs/endpoints.md"], "| DELETE | /usuarios/{id} | Delete Usuario |")

	er := diagram.Parse(b.Files["diagrams/er.md"])
	assert.Equal(t, diagram.KindGraph, er.Kind)
	assert.Len(t, er.Nodes, 3)
	assert.Equal(t, []diagram.Edge{{From: "Pedido", To: "Cliente", Label: "1:N"}}, er.Edges)

	seq := diagram.Parse(b.Files["diagrams/sequence.md"])
	assert.Len(t, seq.Edges, 12)

	assert.Equal(t, Analysis{Complexity: ComplexityLow, EstimatedTime: "1-2 weeks", Tables: 3, Relationships: 1}, b.Analysis)
}

func TestBundleSchemaMatchesSQLGenerator(t *testing.T) {
	g := New(fixed)
	sql, _ := g.SQL(modelerDoc())
	b := g.Bundle(modelerDoc())
	assert.Equal(t, sql, b.Files["database/schema.sql"])
}

func TestDeterministicApartFromHeader(t *testing.T) {
	doc := modelerDoc()
	a, _ := New().SQL(doc)
	b, _ := New(WithClock(func() time.Time { return time.Now().Add(time.Hour) })).SQL(doc)
	assert.NotEqual(t, a, b)
	assert.Equal(t, StripHeader(a), StripHeader(b))

	g := New(fixed)
	assert.Equal(t, g.Bundle(doc).Files, g.Bundle(doc).Files)
	p1, _ := g.Prisma(doc)
	p2, _ := g.Prisma(doc)
	assert.Equal(t, p1, p2)
}

func TestAnalyze(t *testing.T) {
	many := Schema{Tables: make([]TableSpec, 9)}
	assert.Equal(t, ComplexityHigh, analyze(many).Complexity)
	mid := Schema{Tables: make([]TableSpec, 2), Relations: make([]Relation, 3)}
	assert.Equal(t, ComplexityMedium, analyze(mid).Complexity)
}
