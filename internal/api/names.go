package api

import (
	"strings"

	"modelforge/internal/gen"
)

// resolveTable finds a table by entity name or table name, exact match
// first, then case-insensitively. A case-insensitive name shared by two
// tables does not resolve.
func resolveTable(s gen.Schema, name string) (gen.TableSpec, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return gen.TableSpec{}, false
	}
	for _, t := range s.Tables {
		if t.Entity == name || t.Table == name {
			return t, true
		}
	}

	var found *gen.TableSpec
	for i := range s.Tables {
		t := &s.Tables[i]
		if !strings.EqualFold(t.Entity, name) && !strings.EqualFold(t.Table, name) {
			continue
		}
		if found != nil && found.Table != t.Table {
			return gen.TableSpec{}, false
		}
		found = t
	}
	if found == nil {
		return gen.TableSpec{}, false
	}
	return *found, true
}
