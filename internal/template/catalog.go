package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"modelforge/internal/dsl"
	"modelforge/internal/model"
)

type Catalog struct {
	items map[string]Template
}

// LoadCatalog reads every .yaml/.yml and .dsl file of dir next to the
// built-in templates. The template name comes from the file's name key, or
// the file name without extension. A missing dir yields the built-ins only.
func LoadCatalog(dir string) (*Catalog, error) {
	c := &Catalog{items: builtins()}
	files, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		path := filepath.Join(dir, file.Name())
		base := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))

		var t Template
		switch strings.ToLower(filepath.Ext(file.Name())) {
		case ".yaml", ".yml":
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if err := yaml.Unmarshal(data, &t); err != nil {
				return nil, fmt.Errorf("template %s: %w", path, err)
			}
			f, err := model.ParseFormat(string(t.Document.Format))
			if err != nil {
				return nil, fmt.Errorf("template %s: %w", path, err)
			}
			t.Document.Format = f
		case ".dsl":
			doc, err := dsl.LoadFile(path)
			if err != nil {
				return nil, fmt.Errorf("template %s: %w", path, err)
			}
			t = Template{Document: doc, Description: doc.Context.SystemName}
		default:
			continue
		}
		if t.Name == "" {
			t.Name = base
		}
		if t.Title == "" {
			t.Title = t.Name
		}
		c.items[t.Name] = t
	}
	return c, nil
}

// List returns the templates sorted by name.
func (c *Catalog) List() []Template {
	out := make([]Template, 0, len(c.items))
	for _, t := range c.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Instantiate returns a copy of the named template's document with fresh
// entity ids; relationships follow the new ids.
func (c *Catalog) Instantiate(name string) (model.Document, bool) {
	if name == "" {
		name = Blank
	}
	t, ok := c.items[name]
	if !ok {
		return model.Document{}, false
	}
	return fresh(t.Document), true
}

func fresh(src model.Document) model.Document {
	var d model.Document
	// deep copy; the document only holds JSON-safe values
	b, _ := json.Marshal(src)
	_ = json.Unmarshal(b, &d)

	ids := map[string]string{}
	remap := func(id *string) {
		n := uuid.NewString()
		if *id != "" {
			ids[*id] = n
		}
		*id = n
	}
	for i := range d.Wizard {
		remap(&d.Wizard[i].ID)
		for j := range d.Wizard[i].Fields {
			d.Wizard[i].Fields[j].ID = uuid.NewString()
		}
	}
	for i := range d.Modeler {
		remap(&d.Modeler[i].ID)
	}
	for i := range d.Tables {
		remap(&d.Tables[i].ID)
	}
	for i := range d.Planning {
		remap(&d.Planning[i].ID)
	}
	for i := range d.Links {
		d.Links[i].ID = uuid.NewString()
		if id, ok := ids[d.Links[i].FromEntityID]; ok {
			d.Links[i].FromEntityID = id
		}
		if id, ok := ids[d.Links[i].ToEntityID]; ok {
			d.Links[i].ToEntityID = id
		}
	}
	return d
}
