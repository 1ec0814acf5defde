package model

import (
	"fmt"
	"strings"
)

// Format tags which representation a Document carries.
type Format string

const (
	FormatWizard   Format = "wizard"
	FormatModeler  Format = "modeler"
	FormatTable    Format = "table"
	FormatPlanning Format = "planning"
)

// ParseFormat accepts the canonical tags and a few editor aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wizard", "":
		return FormatWizard, nil
	case "modeler", "entity-modeler", "entity_modeler", "entitymodeler":
		return FormatModeler, nil
	case "table", "tables":
		return FormatTable, nil
	case "planning", "plan":
		return FormatPlanning, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Document is the tagged input every converter and generator dispatches on.
// Only the slice matching Format is read.
type Document struct {
	Format   Format           `json:"format" yaml:"format"`
	Wizard   []WizardEntity   `json:"wizard,omitempty" yaml:"wizard,omitempty"`
	Modeler  []Entity         `json:"modeler,omitempty" yaml:"modeler,omitempty"`
	Tables   []Table          `json:"tables,omitempty" yaml:"tables,omitempty"`
	Planning []PlanningEntity `json:"planning,omitempty" yaml:"planning,omitempty"`

	// Links are id-based relationships used by the wizard, table and planning
	// formats. Modeler entities carry their own name-based Relationships.
	Links []Link `json:"relationships,omitempty" yaml:"relationships,omitempty"`

	Context Context `json:"context" yaml:"context"`
}

type Context struct {
	SystemName   string    `json:"systemName,omitempty" yaml:"systemName,omitempty"`
	UserProfiles []Profile `json:"userProfiles,omitempty" yaml:"userProfiles,omitempty"`
}

type Profile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Len is the number of entities in the active representation.
func (d Document) Len() int {
	switch d.Format {
	case FormatModeler:
		return len(d.Modeler)
	case FormatTable:
		return len(d.Tables)
	case FormatPlanning:
		return len(d.Planning)
	default:
		return len(d.Wizard)
	}
}

// Cardinality is the normalised relationship type.
type Cardinality string

const (
	OneToOne   Cardinality = "1:1"
	OneToMany  Cardinality = "1:N"
	ManyToOne  Cardinality = "N:1"
	ManyToMany Cardinality = "N:N"
)

// ParseCardinality folds the legacy spellings editors have used over time.
func ParseCardinality(s string) (Cardinality, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer(" ", "", "_", "-").Replace(k)
	switch k {
	case "1:1", "1-1", "one-to-one", "onetoone", "hasone":
		return OneToOne, true
	case "1:n", "1-n", "1:m", "one-to-many", "onetomany", "hasmany":
		return OneToMany, true
	case "n:1", "n-1", "m:1", "many-to-one", "manytoone", "belongsto":
		return ManyToOne, true
	case "n:n", "n-n", "m:n", "n:m", "many-to-many", "manytomany", "belongstomany":
		return ManyToMany, true
	}
	return "", false
}

// OnDeletePolicy is the referential action written into FK constraints.
type OnDeletePolicy string

const (
	OnDeleteCascade  OnDeletePolicy = "CASCADE"
	OnDeleteRestrict OnDeletePolicy = "RESTRICT"
	OnDeleteSetNull  OnDeletePolicy = "SET NULL"
	OnDeleteNoAction OnDeletePolicy = "NO ACTION"
)

// ParseAction maps user spellings to an action; empty or unknown input yields
// fallback and ok=false for unknown (non-empty) input.
func ParseAction(s string, fallback OnDeletePolicy) (OnDeletePolicy, bool) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("_", " ", "-", " ").Replace(k)
	switch k {
	case "":
		return fallback, true
	case "cascade":
		return OnDeleteCascade, true
	case "restrict":
		return OnDeleteRestrict, true
	case "set null", "setnull":
		return OnDeleteSetNull, true
	case "no action", "noaction":
		return OnDeleteNoAction, true
	}
	return fallback, false
}
