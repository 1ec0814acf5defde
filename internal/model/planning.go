package model

import "strings"

// PlanningType is the vocabulary of the planning step. It overlaps with
// FieldType conceptually but is kept separate: the two wizard phases use
// different spellings and neither is derived from the other.
type PlanningType string

const (
	PlanString   PlanningType = "String"
	PlanText     PlanningType = "Text"
	PlanInteger  PlanningType = "Integer"
	PlanFloat    PlanningType = "Float"
	PlanBoolean  PlanningType = "Boolean"
	PlanDate     PlanningType = "Date"
	PlanDateTime PlanningType = "DateTime"
	PlanJSON     PlanningType = "JSON"
	PlanUUID     PlanningType = "UUID"
)

var PlanningTypes = []PlanningType{
	PlanString, PlanText, PlanInteger, PlanFloat, PlanBoolean, PlanDate, PlanDateTime, PlanJSON, PlanUUID,
}

// Literal reports whether defaults of this type are written without quotes.
func (t PlanningType) Literal() bool {
	return t == PlanInteger || t == PlanFloat || t == PlanBoolean
}

// ValidDefault reports whether v can be written as a default of type t.
func (t PlanningType) ValidDefault(v string) bool {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return true
	case t == PlanInteger:
		return integerLiteral.MatchString(v)
	case t == PlanFloat:
		return numberLiteral.MatchString(v)
	case t == PlanBoolean:
		return boolLiteral(v)
	}
	return true
}

type PlanningEntity struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []PlanningField `json:"fields" yaml:"fields"`
	Timestamps  bool            `json:"timestamps" yaml:"timestamps"`
}

type PlanningField struct {
	Name         string       `json:"name" yaml:"name"`
	Type         PlanningType `json:"type" yaml:"type"`
	Required     bool         `json:"required" yaml:"required"`
	Unique       bool         `json:"unique,omitempty" yaml:"unique,omitempty"`
	DefaultValue string       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}
