package model

import (
	"regexp"
	"strings"
)

// FieldType is the wizard field vocabulary.
type FieldType string

const (
	FieldString     FieldType = "string"
	FieldText       FieldType = "text"
	FieldNumber     FieldType = "number"
	FieldBoolean    FieldType = "boolean"
	FieldDate       FieldType = "date"
	FieldForeignKey FieldType = "foreign_key"
	FieldJSON       FieldType = "json"
)

var FieldTypes = []FieldType{
	FieldString, FieldText, FieldNumber, FieldBoolean, FieldDate, FieldForeignKey, FieldJSON,
}

// Known reports whether t belongs to the wizard vocabulary.
func (t FieldType) Known() bool {
	for _, k := range FieldTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Literal reports whether defaults of this type are written without quotes.
func (t FieldType) Literal() bool { return t == FieldNumber || t == FieldBoolean }

var (
	numberLiteral  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	integerLiteral = regexp.MustCompile(`^[+-]?\d+$`)
)

func boolLiteral(v string) bool {
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "false")
}

// ValidDefault reports whether v can be written as a default of type t.
// Quoted types accept anything; an empty v means no default.
func (t FieldType) ValidDefault(v string) bool {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return true
	case t == FieldNumber:
		return numberLiteral.MatchString(v)
	case t == FieldBoolean:
		return boolLiteral(v)
	}
	return true
}

// WizardEntity is the flat shape the step-based planning wizard edits.
type WizardEntity struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
	Timestamps  bool    `json:"timestamps" yaml:"timestamps"`
	SoftDeletes bool    `json:"softDeletes" yaml:"softDeletes"`
}

type Field struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Type         FieldType    `json:"type" yaml:"type"`
	Required     bool         `json:"required" yaml:"required"`
	Unique       bool         `json:"unique" yaml:"unique"`
	Indexed      bool         `json:"indexed" yaml:"indexed"`
	DefaultValue string       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Validations  []Validation `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// ValidationType names a validator rule. Generators chain them in the order
// min, max, email, url, pattern regardless of declaration order.
type ValidationType string

const (
	ValidateMin     ValidationType = "min"
	ValidateMax     ValidationType = "max"
	ValidateEmail   ValidationType = "email"
	ValidateURL     ValidationType = "url"
	ValidatePattern ValidationType = "pattern"
)

type Validation struct {
	Type  ValidationType `json:"type" yaml:"type"`
	Value string         `json:"value,omitempty" yaml:"value,omitempty"`
}

// Link is a wizard-level relationship between two entities, by id.
type Link struct {
	ID           string `json:"id" yaml:"id"`
	FromEntityID string `json:"fromEntityId" yaml:"fromEntityId"`
	ToEntityID   string `json:"toEntityId" yaml:"toEntityId"`
	Type         string `json:"type" yaml:"type"`
	OnDelete     string `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate     string `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
	FKField      string `json:"fkField,omitempty" yaml:"fkField,omitempty"`
}
