package dsl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"modelforge/internal/model"
)

// Source formats accepted by Import.
const (
	SourceJSON = "json"
	SourceYAML = "yaml"
	SourceDSL  = "dsl"
)

// Sniff guesses the source format of data.
func Sniff(data []byte) string {
	t := bytes.TrimSpace(data)
	if len(t) > 0 && (t[0] == '{' || t[0] == '[') {
		return SourceJSON
	}
	for _, l := range strings.Split(string(t), "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "entity ") {
			return SourceDSL
		}
	}
	return SourceYAML
}

// Import decodes a whole document. JSON and YAML carry the document shape
// (format tag, entities, relationships, context); a bare JSON array is read
// as a list of wizard entities. Missing entity and field ids are filled in.
// Nothing is returned on error.
func Import(data []byte, source string) (model.Document, error) {
	if source == "" {
		source = Sniff(data)
	}
	var doc model.Document
	switch strings.ToLower(source) {
	case SourceDSL:
		return Parse(bytes.NewReader(data))
	case SourceJSON:
		t := bytes.TrimSpace(data)
		if len(t) > 0 && t[0] == '[' {
			doc.Format = model.FormatWizard
			if err := json.Unmarshal(t, &doc.Wizard); err != nil {
				return model.Document{}, fmt.Errorf("%w: %w", ErrImport, err)
			}
			break
		}
		dec := json.NewDecoder(bytes.NewReader(t))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return model.Document{}, fmt.Errorf("%w: %w", ErrImport, err)
		}
	case SourceYAML, "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return model.Document{}, fmt.Errorf("%w: %w", ErrImport, err)
		}
	default:
		return model.Document{}, fmt.Errorf("%w: unknown source format %q", ErrImport, source)
	}

	f, err := model.ParseFormat(string(doc.Format))
	if err != nil {
		return model.Document{}, fmt.Errorf("%w: %w", ErrImport, err)
	}
	doc.Format = f
	fillIDs(&doc)
	return doc, nil
}

func fillIDs(d *model.Document) {
	ensure := func(id *string) {
		if strings.TrimSpace(*id) == "" {
			*id = uuid.NewString()
		}
	}
	for i := range d.Wizard {
		ensure(&d.Wizard[i].ID)
		for j := range d.Wizard[i].Fields {
			ensure(&d.Wizard[i].Fields[j].ID)
		}
	}
	for i := range d.Modeler {
		ensure(&d.Modeler[i].ID)
		if d.Modeler[i].PhysicalName == "" {
			d.Modeler[i].Rename(d.Modeler[i].Name)
		}
	}
	for i := range d.Tables {
		ensure(&d.Tables[i].ID)
		for j := range d.Tables[i].Columns {
			ensure(&d.Tables[i].Columns[j].ID)
		}
	}
	for i := range d.Planning {
		ensure(&d.Planning[i].ID)
	}
	for i := range d.Links {
		ensure(&d.Links[i].ID)
	}
}
