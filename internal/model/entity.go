// Package model holds the entity representations the editors and the
// generators exchange: the entity-modeler superset, the wizard field list,
// the table-editor column grid and the planning vocabulary.
package model

import (
	"strings"

	"modelforge/internal/naming"
)

// DataType is the entity-modeler column type vocabulary.
type DataType string

const (
	TypeVarchar  DataType = "VARCHAR"
	TypeText     DataType = "TEXT"
	TypeInteger  DataType = "INTEGER"
	TypeFloat    DataType = "FLOAT"
	TypeBoolean  DataType = "BOOLEAN"
	TypeDate     DataType = "DATE"
	TypeDateTime DataType = "DATETIME"
	TypeJSON     DataType = "JSON"
	TypeJSONB    DataType = "JSONB"
	TypeUUID     DataType = "UUID"
	TypeBigInt   DataType = "BIGINT"
	TypeEnum     DataType = "ENUM"
	TypeDecimal  DataType = "DECIMAL"
)

// DataTypes lists the declared modeler types in display order.
var DataTypes = []DataType{
	TypeVarchar, TypeText, TypeInteger, TypeFloat, TypeBoolean, TypeDate, TypeDateTime,
	TypeJSON, TypeJSONB, TypeUUID, TypeBigInt, TypeEnum, TypeDecimal,
}

// Entity is the entity-modeler shape, the superset of the three editor formats.
type Entity struct {
	ID               string         `json:"id" yaml:"id"`
	Name             string         `json:"name" yaml:"name"`
	PhysicalName     string         `json:"physicalName,omitempty" yaml:"physicalName,omitempty"`
	PhysicalOverride bool           `json:"physicalOverride,omitempty" yaml:"physicalOverride,omitempty"`
	Description      string         `json:"description,omitempty" yaml:"description,omitempty"`
	Attributes       []Attribute    `json:"attributes" yaml:"attributes"`
	Relationships    []Relationship `json:"relationships" yaml:"relationships"`
	Lifecycle        *Lifecycle     `json:"lifecycle,omitempty" yaml:"lifecycle,omitempty"`
	Security         Security       `json:"security" yaml:"security"`

	// Descriptive blocks; carried through untouched.
	Integration    map[string]any `json:"integration,omitempty" yaml:"integration,omitempty"`
	Indexing       map[string]any `json:"indexing,omitempty" yaml:"indexing,omitempty"`
	DataGovernance map[string]any `json:"dataGovernance,omitempty" yaml:"dataGovernance,omitempty"`
	DataFlow       map[string]any `json:"dataFlow,omitempty" yaml:"dataFlow,omitempty"`
}

// Attribute is one typed property of a modeler entity.
type Attribute struct {
	ID           int      `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Type         DataType `json:"type" yaml:"type"`
	IsPK         bool     `json:"isPK,omitempty" yaml:"isPK,omitempty"`
	IsNN         bool     `json:"isNN,omitempty" yaml:"isNN,omitempty"`
	IsUnique     bool     `json:"isUnique,omitempty" yaml:"isUnique,omitempty"`
	IsSearchable bool     `json:"isSearchable,omitempty" yaml:"isSearchable,omitempty"`
	Length       int      `json:"length,omitempty" yaml:"length,omitempty"`
	DefaultValue string   `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Relationship points at its target by entity name, not id. Renaming the
// target does not cascade; dangling targets are reported by lint.
type Relationship struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	TargetEntity string `json:"targetEntity" yaml:"targetEntity"`
	Type         string `json:"type" yaml:"type"`
	FKField      string `json:"fkField,omitempty" yaml:"fkField,omitempty"`
	OnDelete     string `json:"onDelete,omitempty" yaml:"onDelete,omitempty"`
	OnUpdate     string `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty"`
}

// Lifecycle describes a state machine on top of the entity. Nothing enforces it.
type Lifecycle struct {
	StatusField   string       `json:"statusField" yaml:"statusField"`
	DefaultStatus string       `json:"defaultStatus" yaml:"defaultStatus"`
	Transitions   []Transition `json:"transitions" yaml:"transitions"`
}

type Transition struct {
	From   string `json:"from" yaml:"from"`
	To     string `json:"to" yaml:"to"`
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
}

type Security struct {
	Policies        []string `json:"policies,omitempty" yaml:"policies,omitempty"`
	ValidationRules []string `json:"validationRules,omitempty" yaml:"validationRules,omitempty"`
	HasAudit        bool     `json:"hasAudit" yaml:"hasAudit"`
	IsVersioned     bool     `json:"isVersioned" yaml:"isVersioned"`
}

// DerivePhysicalName is the storage name of an entity called name.
func DerivePhysicalName(name string) string { return naming.Table(name) }

// Rename sets the display name and recomputes PhysicalName unless it was
// overridden explicitly.
func (e *Entity) Rename(name string) {
	e.Name = name
	if !e.PhysicalOverride {
		e.PhysicalName = DerivePhysicalName(name)
	}
}

// SetPhysicalName pins the storage name; later renames keep it.
func (e *Entity) SetPhysicalName(p string) {
	e.PhysicalName = strings.TrimSpace(p)
	e.PhysicalOverride = e.PhysicalName != ""
	if !e.PhysicalOverride {
		e.PhysicalName = DerivePhysicalName(e.Name)
	}
}

// TableName is the physical name when overridden, the derived one otherwise.
func (e *Entity) TableName() string {
	if e.PhysicalOverride && e.PhysicalName != "" {
		return e.PhysicalName
	}
	return DerivePhysicalName(e.Name)
}
