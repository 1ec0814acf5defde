package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"modelforge/internal/dsl"
	"modelforge/internal/model"
)

// loadDocument reads a document file or merges every .dsl file of a
// directory. format overrides the source guessed from the extension.
func loadDocument(path, format string) (model.Document, error) {
	st, err := os.Stat(path)
	if err != nil {
		return model.Document{}, err
	}
	if st.IsDir() {
		return dsl.LoadDir(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, err
	}
	if format == "" {
		format = sourceOf(path)
	}
	doc, err := dsl.Import(data, format)
	if err != nil {
		return model.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func sourceOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return dsl.SourceJSON
	case ".yaml", ".yml":
		return dsl.SourceYAML
	case ".dsl":
		return dsl.SourceDSL
	}
	return ""
}
