package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"modelforge/internal/model"
)

func TestWizardTablesAreTotal(t *testing.T) {
	for _, ft := range model.FieldTypes {
		assert.NotEmpty(t, WizardToTable(ft), ft)
		assert.NotEmpty(t, WizardPrisma(ft), ft)
		assert.NotEmpty(t, WizardZod(ft), ft)
		assert.NotEmpty(t, WizardTS(ft), ft)
	}
	assert.Equal(t, FallbackSQL, WizardToTable("money"))
	assert.Equal(t, FallbackPrisma, WizardPrisma("money"))
	assert.Equal(t, FallbackZod, WizardZod("money"))
	assert.Equal(t, FallbackTS, WizardTS("money"))
}

func TestWizardTableRoundTripForCanonicalTypes(t *testing.T) {
	for _, ft := range model.FieldTypes {
		assert.Equal(t, ft, TableToWizard(WizardToTable(ft)), ft)
	}
}

func TestTableToWizardIsLossy(t *testing.T) {
	tests := []struct {
		in   string
		want model.FieldType
	}{
		{"VARCHAR(100)", model.FieldString},
		{"varchar", model.FieldString},
		{"BIGINT", model.FieldNumber},
		{"DECIMAL(10,2)", model.FieldNumber},
		{"timestamp", model.FieldDate},
		{"JSON", model.FieldJSON},
		{"GEOMETRY", model.FieldString},
		{"", model.FieldString},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TableToWizard(tt.in))
		})
	}
	// many-to-one: number -> INT, but BIGINT -> number -> INT
	assert.Equal(t, "INT", WizardToTable(TableToWizard("BIGINT")))
}

func TestModelerSQL(t *testing.T) {
	assert.Equal(t, "VARCHAR(255)", ModelerSQL(model.TypeVarchar, 0))
	assert.Equal(t, "VARCHAR(80)", ModelerSQL(model.TypeVarchar, 80))
	assert.Equal(t, "DECIMAL(12,2)", ModelerSQL(model.TypeDecimal, 12))
	assert.Equal(t, "DECIMAL", ModelerSQL(model.TypeDecimal, 0))
	assert.Equal(t, "UUID", ModelerSQL("uuid", 0))
	assert.Equal(t, FallbackSQL, ModelerSQL("POINT", 0))
}

func TestModelerTablesAreTotal(t *testing.T) {
	for _, dt := range model.DataTypes {
		assert.True(t, KnownModeler(dt))
		assert.NotEqual(t, "", ModelerTS(dt))
		assert.NotEqual(t, "", ModelerPrisma(dt))
		assert.NotEqual(t, "", ModelerZod(dt))
	}
	assert.Equal(t, FallbackPrisma, ModelerPrisma("POINT"))
	assert.Equal(t, FallbackZod, ModelerZod("POINT"))
	assert.Equal(t, FallbackTS, ModelerTS("POINT"))
}

func TestParseDataType(t *testing.T) {
	dt, n := ParseDataType("VARCHAR(100)")
	assert.Equal(t, model.TypeVarchar, dt)
	assert.Equal(t, 100, n)

	dt, _ = ParseDataType("INT")
	assert.Equal(t, model.TypeInteger, dt)

	dt, _ = ParseDataType("timestamptz")
	assert.Equal(t, model.TypeDateTime, dt)

	dt, _ = ParseDataType("bool")
	assert.Equal(t, model.TypeBoolean, dt)
}

func TestPlanningTables(t *testing.T) {
	for _, pt := range model.PlanningTypes {
		assert.True(t, KnownPlanning(pt))
	}
	assert.Equal(t, "INTEGER", PlanningSQL(model.PlanInteger))
	assert.Equal(t, "DateTime", PlanningPrisma(model.PlanDateTime))
	assert.Equal(t, "z.string().uuid()", PlanningZod(model.PlanUUID))
	// the wizard spelling is not part of the planning vocabulary
	assert.False(t, KnownPlanning("string"))
	assert.Equal(t, FallbackSQL, PlanningSQL("string"))
}

func TestCatalog(t *testing.T) {
	c := Catalog()
	assert.Len(t, c["wizard"], len(model.FieldTypes))
	assert.Len(t, c["modeler"], len(model.DataTypes))
	assert.Len(t, c["planning"], len(model.PlanningTypes))
}
