package template

import "modelforge/internal/model"

// Template is a named starter document a modeling session can begin from.
type Template struct {
	Name        string         `yaml:"name" json:"name"`
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Document    model.Document `yaml:"document" json:"document"`
}

// Blank is always in the catalog.
const Blank = "blank"

func builtins() map[string]Template {
	return map[string]Template{
		Blank: {
			Name:        Blank,
			Title:       "Blank",
			Description: "Empty wizard document",
			Document:    model.Document{Format: model.FormatWizard},
		},
	}
}
