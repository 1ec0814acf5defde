// Package typemap translates logical field types into the type tokens of each
// target surface. Forward and backward tables are defined independently:
// Backward(Forward(x)) is not guaranteed to equal x, and changing that would
// change generated schemas for existing projects.
package typemap

import (
	"fmt"
	"strings"

	"modelforge/internal/model"
)

// Fallbacks for tokens outside a table's declared domain.
const (
	FallbackSQL    = "TEXT"
	FallbackPrisma = "String"
	FallbackZod    = "z.string()"
	FallbackTS     = "string"
)

// ---- wizard field type ----

var wizardTable = map[model.FieldType]string{
	model.FieldString:     "VARCHAR(255)",
	model.FieldText:       "TEXT",
	model.FieldNumber:     "INT",
	model.FieldBoolean:    "BOOLEAN",
	model.FieldDate:       "DATE",
	model.FieldForeignKey: "UUID",
	model.FieldJSON:       "JSONB",
}

// tableWizard collapses every known table token to one canonical wizard type.
var tableWizard = map[string]model.FieldType{
	"VARCHAR":           model.FieldString,
	"CHAR":              model.FieldString,
	"CHARACTER VARYING": model.FieldString,
	"TEXT":              model.FieldText,
	"INT":               model.FieldNumber,
	"INTEGER":           model.FieldNumber,
	"BIGINT":            model.FieldNumber,
	"SMALLINT":          model.FieldNumber,
	"SERIAL":            model.FieldNumber,
	"FLOAT":             model.FieldNumber,
	"DOUBLE PRECISION":  model.FieldNumber,
	"DECIMAL":           model.FieldNumber,
	"NUMERIC":           model.FieldNumber,
	"BOOLEAN":           model.FieldBoolean,
	"BOOL":              model.FieldBoolean,
	"DATE":              model.FieldDate,
	"TIMESTAMP":         model.FieldDate,
	"TIMESTAMPTZ":       model.FieldDate,
	"DATETIME":          model.FieldDate,
	"UUID":              model.FieldForeignKey,
	"JSON":              model.FieldJSON,
	"JSONB":             model.FieldJSON,
}

var wizardPrisma = map[model.FieldType]string{
	model.FieldString:     "String",
	model.FieldText:       "String",
	model.FieldNumber:     "Int",
	model.FieldBoolean:    "Boolean",
	model.FieldDate:       "DateTime",
	model.FieldForeignKey: "String",
	model.FieldJSON:       "Json",
}

var wizardZod = map[model.FieldType]string{
	model.FieldString:     "z.string()",
	model.FieldText:       "z.string()",
	model.FieldNumber:     "z.number().int()",
	model.FieldBoolean:    "z.boolean()",
	model.FieldDate:       "z.coerce.date()",
	model.FieldForeignKey: "z.string().uuid()",
	model.FieldJSON:       "z.any()",
}

var wizardTS = map[model.FieldType]string{
	model.FieldString:     "string",
	model.FieldText:       "string",
	model.FieldNumber:     "number",
	model.FieldBoolean:    "boolean",
	model.FieldDate:       "Date",
	model.FieldForeignKey: "string",
	model.FieldJSON:       "Record<string, unknown>",
}

// WizardToTable is the table-editor dataType of a wizard field type.
func WizardToTable(t model.FieldType) string { return lookup(wizardTable, t, FallbackSQL) }

// WizardSQL is the DDL column type of a wizard field type.
func WizardSQL(t model.FieldType) string { return WizardToTable(t) }

func WizardPrisma(t model.FieldType) string { return lookup(wizardPrisma, t, FallbackPrisma) }
func WizardZod(t model.FieldType) string    { return lookup(wizardZod, t, FallbackZod) }
func WizardTS(t model.FieldType) string     { return lookup(wizardTS, t, FallbackTS) }

// TableToWizard maps a table dataType back to a wizard type. Lengths and
// precision ("VARCHAR(100)", "DECIMAL(10,2)") and case are ignored; unknown
// tokens become string.
func TableToWizard(dataType string) model.FieldType {
	if t, ok := tableWizard[BaseToken(dataType)]; ok {
		return t
	}
	return model.FieldString
}

// BaseToken uppercases a dataType and strips any "(...)" suffix.
func BaseToken(dataType string) string {
	s := strings.ToUpper(strings.TrimSpace(dataType))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.Join(strings.Fields(s), " ")
}

// ---- entity-modeler DataType ----

var modelerSQL = map[model.DataType]string{
	model.TypeVarchar:  "VARCHAR",
	model.TypeText:     "TEXT",
	model.TypeInteger:  "INTEGER",
	model.TypeFloat:    "DOUBLE PRECISION",
	model.TypeBoolean:  "BOOLEAN",
	model.TypeDate:     "DATE",
	model.TypeDateTime: "TIMESTAMP",
	model.TypeJSON:     "JSON",
	model.TypeJSONB:    "JSONB",
	model.TypeUUID:     "UUID",
	model.TypeBigInt:   "BIGINT",
	model.TypeEnum:     "VARCHAR(50)",
	model.TypeDecimal:  "DECIMAL",
}

var modelerTS = map[model.DataType]string{
	model.TypeVarchar:  "string",
	model.TypeText:     "string",
	model.TypeInteger:  "number",
	model.TypeFloat:    "number",
	model.TypeBoolean:  "boolean",
	model.TypeDate:     "Date",
	model.TypeDateTime: "Date",
	model.TypeJSON:     "Record<string, unknown>",
	model.TypeJSONB:    "Record<string, unknown>",
	model.TypeUUID:     "string",
	model.TypeBigInt:   "bigint",
	model.TypeEnum:     "string",
	model.TypeDecimal:  "number",
}

var modelerPrisma = map[model.DataType]string{
	model.TypeVarchar:  "String",
	model.TypeText:     "String",
	model.TypeInteger:  "Int",
	model.TypeFloat:    "Float",
	model.TypeBoolean:  "Boolean",
	model.TypeDate:     "DateTime",
	model.TypeDateTime: "DateTime",
	model.TypeJSON:     "Json",
	model.TypeJSONB:    "Json",
	model.TypeUUID:     "String",
	model.TypeBigInt:   "BigInt",
	model.TypeEnum:     "String",
	model.TypeDecimal:  "Decimal",
}

var modelerZod = map[model.DataType]string{
	model.TypeVarchar:  "z.string()",
	model.TypeText:     "z.string()",
	model.TypeInteger:  "z.number().int()",
	model.TypeFloat:    "z.number()",
	model.TypeBoolean:  "z.boolean()",
	model.TypeDate:     "z.coerce.date()",
	model.TypeDateTime: "z.coerce.date()",
	model.TypeJSON:     "z.any()",
	model.TypeJSONB:    "z.any()",
	model.TypeUUID:     "z.string().uuid()",
	model.TypeBigInt:   "z.bigint()",
	model.TypeEnum:     "z.string()",
	model.TypeDecimal:  "z.number()",
}

var modelerWizard = map[model.DataType]model.FieldType{
	model.TypeVarchar:  model.FieldString,
	model.TypeText:     model.FieldText,
	model.TypeInteger:  model.FieldNumber,
	model.TypeFloat:    model.FieldNumber,
	model.TypeBoolean:  model.FieldBoolean,
	model.TypeDate:     model.FieldDate,
	model.TypeDateTime: model.FieldDate,
	model.TypeJSON:     model.FieldJSON,
	model.TypeJSONB:    model.FieldJSON,
	model.TypeUUID:     model.FieldForeignKey,
	model.TypeBigInt:   model.FieldNumber,
	model.TypeEnum:     model.FieldString,
	model.TypeDecimal:  model.FieldNumber,
}

var wizardModeler = map[model.FieldType]model.DataType{
	model.FieldString:     model.TypeVarchar,
	model.FieldText:       model.TypeText,
	model.FieldNumber:     model.TypeInteger,
	model.FieldBoolean:    model.TypeBoolean,
	model.FieldDate:       model.TypeDate,
	model.FieldForeignKey: model.TypeUUID,
	model.FieldJSON:       model.TypeJSONB,
}

// ModelerSQL renders a modeler type as a DDL type. VARCHAR takes length
// (255 when unset); DECIMAL takes length as precision with scale 2.
func ModelerSQL(t model.DataType, length int) string {
	base := lookup(modelerSQL, normalizeDataType(t), FallbackSQL)
	switch normalizeDataType(t) {
	case model.TypeVarchar:
		if length <= 0 {
			length = 255
		}
		return fmt.Sprintf("%s(%d)", base, length)
	case model.TypeDecimal:
		if length > 0 {
			return fmt.Sprintf("%s(%d,2)", base, length)
		}
	}
	return base
}

func ModelerTS(t model.DataType) string {
	return lookup(modelerTS, normalizeDataType(t), FallbackTS)
}

func ModelerPrisma(t model.DataType) string {
	return lookup(modelerPrisma, normalizeDataType(t), FallbackPrisma)
}

func ModelerZod(t model.DataType) string {
	return lookup(modelerZod, normalizeDataType(t), FallbackZod)
}

// ModelerToWizard picks the wizard type for a modeler type; unknown -> string.
func ModelerToWizard(t model.DataType) model.FieldType {
	if w, ok := modelerWizard[normalizeDataType(t)]; ok {
		return w
	}
	return model.FieldString
}

// WizardToModeler picks the modeler type for a wizard type; unknown -> VARCHAR.
func WizardToModeler(t model.FieldType) model.DataType {
	if d, ok := wizardModeler[t]; ok {
		return d
	}
	return model.TypeVarchar
}

// ParseDataType reads a table dataType ("VARCHAR(100)") as a modeler type
// plus length. Unknown tokens map through the wizard vocabulary.
func ParseDataType(dataType string) (model.DataType, int) {
	base := BaseToken(dataType)
	length := 0
	if i := strings.IndexByte(dataType, '('); i >= 0 {
		fmt.Sscanf(dataType[i+1:], "%d", &length)
	}
	switch base {
	case "INT":
		return model.TypeInteger, length
	case "TIMESTAMP", "TIMESTAMPTZ":
		return model.TypeDateTime, length
	case "DOUBLE PRECISION":
		return model.TypeFloat, length
	case "NUMERIC":
		return model.TypeDecimal, length
	}
	if _, ok := modelerSQL[model.DataType(base)]; ok {
		return model.DataType(base), length
	}
	return WizardToModeler(TableToWizard(dataType)), length
}

func normalizeDataType(t model.DataType) model.DataType {
	return model.DataType(strings.ToUpper(strings.TrimSpace(string(t))))
}

// ---- planning type ----

var planningSQL = map[model.PlanningType]string{
	model.PlanString:   "VARCHAR(255)",
	model.PlanText:     "TEXT",
	model.PlanInteger:  "INTEGER",
	model.PlanFloat:    "DECIMAL(10,2)",
	model.PlanBoolean:  "BOOLEAN",
	model.PlanDate:     "DATE",
	model.PlanDateTime: "TIMESTAMP",
	model.PlanJSON:     "JSONB",
	model.PlanUUID:     "UUID",
}

var planningPrisma = map[model.PlanningType]string{
	model.PlanString:   "String",
	model.PlanText:     "String",
	model.PlanInteger:  "Int",
	model.PlanFloat:    "Float",
	model.PlanBoolean:  "Boolean",
	model.PlanDate:     "DateTime",
	model.PlanDateTime: "DateTime",
	model.PlanJSON:     "Json",
	model.PlanUUID:     "String",
}

var planningZod = map[model.PlanningType]string{
	model.PlanString:   "z.string()",
	model.PlanText:     "z.string()",
	model.PlanInteger:  "z.number().int()",
	model.PlanFloat:    "z.number()",
	model.PlanBoolean:  "z.boolean()",
	model.PlanDate:     "z.coerce.date()",
	model.PlanDateTime: "z.coerce.date()",
	model.PlanJSON:     "z.any()",
	model.PlanUUID:     "z.string().uuid()",
}

func PlanningSQL(t model.PlanningType) string    { return lookup(planningSQL, t, FallbackSQL) }
func PlanningPrisma(t model.PlanningType) string { return lookup(planningPrisma, t, FallbackPrisma) }
func PlanningZod(t model.PlanningType) string    { return lookup(planningZod, t, FallbackZod) }

// KnownPlanning reports whether t belongs to the planning vocabulary.
func KnownPlanning(t model.PlanningType) bool { _, ok := planningSQL[t]; return ok }

// KnownModeler reports whether t belongs to the modeler vocabulary.
func KnownModeler(t model.DataType) bool { _, ok := modelerSQL[normalizeDataType(t)]; return ok }

func lookup[K comparable](m map[K]string, k K, fallback string) string {
	if v, ok := m[k]; ok {
		return v
	}
	return fallback
}

// Row is one line of the catalog served to editors.
type Row struct {
	Input  string `json:"input"`
	SQL    string `json:"sql"`
	Prisma string `json:"prisma"`
	Zod    string `json:"zod"`
	TS     string `json:"ts,omitempty"`
}

// Catalog dumps every forward table, grouped by input vocabulary.
func Catalog() map[string][]Row {
	out := map[string][]Row{}
	for _, t := range model.FieldTypes {
		out["wizard"] = append(out["wizard"], Row{
			Input: string(t), SQL: WizardSQL(t), Prisma: WizardPrisma(t), Zod: WizardZod(t), TS: WizardTS(t),
		})
	}
	for _, t := range model.DataTypes {
		out["modeler"] = append(out["modeler"], Row{
			Input: string(t), SQL: ModelerSQL(t, 0), Prisma: ModelerPrisma(t), Zod: ModelerZod(t), TS: ModelerTS(t),
		})
	}
	for _, t := range model.PlanningTypes {
		out["planning"] = append(out["planning"], Row{
			Input: string(t), SQL: PlanningSQL(t), Prisma: PlanningPrisma(t), Zod: PlanningZod(t),
		})
	}
	return out
}
