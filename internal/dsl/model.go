package dsl

import (
	"errors"
	"fmt"

	"modelforge/internal/model"
)

// ErrImport wraps every failure of Parse and Import; on error no document is
// returned.
var ErrImport = errors.New("import failed")

// SyntaxError points at the offending DSL line.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// typeAliases maps DSL type tokens to wizard field types. enum, ref and
// array are handled by the parser.
var typeAliases = map[string]model.FieldType{
	"string":   model.FieldString,
	"varchar":  model.FieldString,
	"text":     model.FieldText,
	"number":   model.FieldNumber,
	"int":      model.FieldNumber,
	"integer":  model.FieldNumber,
	"float":    model.FieldNumber,
	"money":    model.FieldNumber,
	"bool":     model.FieldBoolean,
	"boolean":  model.FieldBoolean,
	"date":     model.FieldDate,
	"datetime": model.FieldDate,
	"json":     model.FieldJSON,
	"uuid":     model.FieldForeignKey,
}
