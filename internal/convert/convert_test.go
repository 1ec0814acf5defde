package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelforge/internal/model"
)

func pedido() model.WizardEntity {
	return model.WizardEntity{
		ID:   "e-pedido",
		Name: "Pedido",
		Fields: []model.Field{
			{ID: "f1", Name: "numero", Type: model.FieldString, Required: true, Unique: true},
			{ID: "f2", Name: "total", Type: model.FieldNumber, Required: true, DefaultValue: "0"},
			{ID: "f3", Name: "observacao", Type: model.FieldText, Indexed: true},
			{ID: "f4", Name: "pago", Type: model.FieldBoolean},
			{ID: "f5", Name: "entrega", Type: model.FieldDate},
			{ID: "f6", Name: "cliente_id", Type: model.FieldForeignKey, Required: true},
			{ID: "f7", Name: "extra", Type: model.FieldJSON,
				Validations: []model.Validation{{Type: model.ValidateMin, Value: "1"}}},
		},
	}
}

func TestWizardToTableSynthesizesPrimaryKey(t *testing.T) {
	tbl := WizardToTable(pedido())
	require.NotEmpty(t, tbl.Columns)
	pk := tbl.Columns[0]
	assert.Equal(t, "id", pk.Name)
	assert.Equal(t, "UUID", pk.DataType)
	assert.True(t, pk.IsPrimaryKey)
	assert.False(t, pk.IsNullable)
	assert.Len(t, tbl.Columns, 8)

	e := pedido()
	e.Timestamps = true
	tbl = WizardToTable(e)
	assert.Equal(t, "created_at", tbl.Columns[len(tbl.Columns)-2].Name)
	assert.Equal(t, "updated_at", tbl.Columns[len(tbl.Columns)-1].Name)
}

func TestWizardTableRoundTripPreservesFields(t *testing.T) {
	orig := pedido()
	back := TableToWizard(WizardToTable(orig), orig)
	assert.Equal(t, orig.Fields, back.Fields)
	assert.False(t, back.Timestamps)
	assert.Equal(t, orig.Name, back.Name)
}

func TestTableToWizardIsPartialUpdate(t *testing.T) {
	orig := pedido()
	tbl := WizardToTable(orig)
	tbl.Columns[1].Name = "codigo"            // renamed in the editor
	tbl.Columns[2].DataType = "BIGINT"        // type drift: number stays number
	tbl.Columns[3].DataType = "VARCHAR(40)"   // text -> string
	tbl.Columns = append(tbl.Columns, model.Column{Name: "created_at", DataType: "TIMESTAMP"})
	tbl.Columns = append(tbl.Columns, model.Column{Name: "novo", DataType: "INTEGER", IsNullable: true})

	back := TableToWizard(tbl, orig)
	assert.True(t, back.Timestamps)
	require.Len(t, back.Fields, 8)
	assert.Equal(t, "codigo", back.Fields[0].Name)
	assert.True(t, back.Fields[0].Unique, "unique comes from the merge base")
	assert.Equal(t, "0", back.Fields[1].DefaultValue)
	assert.Equal(t, model.FieldString, back.Fields[2].Type)
	assert.Equal(t, "novo", back.Fields[7].Name)
	assert.NotEmpty(t, back.Fields[7].ID)
	assert.Equal(t, model.FieldNumber, back.Fields[7].Type)
}

func TestTableToWizardFiltersStructuralColumns(t *testing.T) {
	tbl := model.Table{ID: "t1", Name: "Item", Columns: []model.Column{
		{ID: "c0", Name: "codigo", DataType: "UUID", IsPrimaryKey: true},
		{ID: "c1", Name: "nome", DataType: "VARCHAR(255)"},
		{ID: "c2", Name: "updated_at", DataType: "TIMESTAMP"},
		{ID: "c3", Name: "deleted_at", DataType: "TIMESTAMP", IsNullable: true},
	}}
	back := TableToWizard(tbl, model.WizardEntity{})
	require.Len(t, back.Fields, 1)
	assert.Equal(t, "nome", back.Fields[0].Name)
	assert.False(t, back.Timestamps, "timestamps follow created_at only")
	assert.True(t, back.SoftDeletes)
	assert.Equal(t, "t1", back.ID)
}

func modelerPedido() model.Entity {
	e := model.Entity{
		ID: "m1",
		Attributes: []model.Attribute{
			{ID: 1, Name: "id", Type: model.TypeUUID, IsPK: true, IsNN: true},
			{ID: 2, Name: "numero", Type: model.TypeVarchar, Length: 20, IsNN: true, IsUnique: true},
			{ID: 3, Name: "valor", Type: model.TypeDecimal, Length: 12},
			{ID: 4, Name: "cliente_id", Type: model.TypeUUID, IsNN: true},
		},
		Relationships: []model.Relationship{{ID: "r1", TargetEntity: "Cliente", Type: "N:1", FKField: "cliente_id"}},
		Lifecycle:     &model.Lifecycle{StatusField: "status", DefaultStatus: "aberto"},
		Security:      model.Security{HasAudit: true, Policies: []string{"owner_only"}},
	}
	e.Rename("Pedido")
	return e
}

func TestModelerToTable(t *testing.T) {
	tbl := ModelerToTable(modelerPedido())
	names := []string{}
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "numero", "valor", "cliente_id", "created_at", "updated_at"}, names)
	assert.Equal(t, "VARCHAR(20)", tbl.Columns[1].DataType)
	assert.Equal(t, "DECIMAL(12,2)", tbl.Columns[2].DataType)
	assert.True(t, tbl.Columns[3].IsForeignKey)
}

func TestModelerTableRoundTripKeepsMergeBase(t *testing.T) {
	orig := modelerPedido()
	back := TableToModeler(ModelerToTable(orig), orig)

	assert.Equal(t, orig.Relationships, back.Relationships)
	assert.Equal(t, orig.Lifecycle, back.Lifecycle)
	assert.Equal(t, orig.Security.Policies, back.Security.Policies)
	assert.True(t, back.Security.HasAudit)
	require.Len(t, back.Attributes, 3, "declared id primary key is structural")
	assert.Equal(t, 2, back.Attributes[0].ID)
	assert.Equal(t, model.TypeVarchar, back.Attributes[0].Type)
	assert.Equal(t, 20, back.Attributes[0].Length)
	assert.True(t, back.Attributes[0].IsUnique)
	assert.Equal(t, model.TypeDecimal, back.Attributes[1].Type)
}

func TestModelerTableRoundTripWithoutBaseLosesMetadata(t *testing.T) {
	orig := modelerPedido()
	back := TableToModeler(ModelerToTable(orig), model.Entity{})
	assert.Empty(t, back.Relationships)
	assert.Nil(t, back.Lifecycle)
	assert.Empty(t, back.Security.Policies)
	assert.Equal(t, "pedidos", back.PhysicalName)
	assert.False(t, back.Attributes[0].IsUnique)
	assert.Equal(t, 1, back.Attributes[0].ID)
}

func TestFieldsAttributesRoundTrip(t *testing.T) {
	fields := pedido().Fields
	attrs := FieldsToAttributes(fields)
	require.Len(t, attrs, len(fields))
	assert.Equal(t, model.TypeUUID, attrs[5].Type)
	assert.Equal(t, 6, attrs[5].ID)

	back := AttributesToFields(attrs)
	require.Len(t, back, len(fields))
	for i := range fields {
		assert.Equal(t, fields[i].Name, back[i].Name)
		assert.Equal(t, fields[i].Type, back[i].Type)
		assert.Equal(t, fields[i].Required, back[i].Required)
		assert.Equal(t, fields[i].Unique, back[i].Unique)
	}
}

func TestConvertWizardToModelerFoldsLinks(t *testing.T) {
	doc := model.Document{
		Format: model.FormatWizard,
		Wizard: []model.WizardEntity{
			{ID: "c", Name: "Cliente"},
			{ID: "p", Name: "Pedido", Timestamps: true},
		},
		Links: []model.Link{
			{ID: "l1", FromEntityID: "c", ToEntityID: "p", Type: "1:N", OnDelete: "cascade"},
			{ID: "l2", FromEntityID: "c", ToEntityID: "ghost", Type: "1:N"},
		},
	}
	out, err := Convert(doc, model.FormatModeler)
	require.NoError(t, err)
	require.Len(t, out.Modeler, 2)
	require.Len(t, out.Modeler[0].Relationships, 1)
	assert.Equal(t, "Pedido", out.Modeler[0].Relationships[0].TargetEntity)
	assert.True(t, out.Modeler[1].Security.HasAudit)

	back, err := Convert(out, model.FormatWizard)
	require.NoError(t, err)
	require.Len(t, back.Links, 1)
	assert.Equal(t, "p", back.Links[0].ToEntityID)
}

func TestConvertRejectsPlanningTarget(t *testing.T) {
	_, err := Convert(model.Document{Format: model.FormatWizard}, model.FormatPlanning)
	assert.Error(t, err)
}

func TestPlanningToTableKeepsPlanningVocabulary(t *testing.T) {
	tbl := PlanningToTable(model.PlanningEntity{ID: "x", Name: "Evento", Fields: []model.PlanningField{
		{Name: "inicio", Type: model.PlanDateTime, Required: true},
		{Name: "preco", Type: model.PlanFloat},
	}})
	require.Len(t, tbl.Columns, 3)
	assert.Equal(t, "TIMESTAMP", tbl.Columns[1].DataType)
	assert.Equal(t, "DECIMAL(10,2)", tbl.Columns[2].DataType)
}
