package model

import "strings"

// Index resolves entity references by id or by name to positions in the
// entity slice. Empty and duplicated ids never resolve.
type Index struct {
	byID   map[string]int
	dupIDs map[string]bool
	byName map[string]int // exact name -> first position
	names  []string
	ids    []string
}

// NewIndex builds an index from parallel id/name slices.
func NewIndex(ids, names []string) *Index {
	ix := &Index{byID: map[string]int{}, dupIDs: map[string]bool{}, byName: map[string]int{}}
	for i := range ids {
		if id := ids[i]; id != "" {
			if _, dup := ix.byID[id]; dup {
				ix.dupIDs[id] = true
			} else {
				ix.byID[id] = i
			}
		}
		if _, dup := ix.byName[names[i]]; !dup {
			ix.byName[names[i]] = i
		}
	}
	ix.ids = ids
	ix.names = names
	return ix
}

// IndexOf builds the index for whichever representation d carries.
func IndexOf(d Document) *Index {
	var ids, names []string
	switch d.Format {
	case FormatModeler:
		for _, e := range d.Modeler {
			ids, names = append(ids, e.ID), append(names, e.Name)
		}
	case FormatTable:
		for _, t := range d.Tables {
			ids, names = append(ids, t.ID), append(names, t.Name)
		}
	case FormatPlanning:
		for _, e := range d.Planning {
			ids, names = append(ids, e.ID), append(names, e.Name)
		}
	default:
		for _, e := range d.Wizard {
			ids, names = append(ids, e.ID), append(names, e.Name)
		}
	}
	return NewIndex(ids, names)
}

// Len is the number of indexed entities.
func (ix *Index) Len() int { return len(ix.ids) }

// ID returns the id at position i.
func (ix *Index) ID(i int) string { return ix.ids[i] }

// Name returns the name at position i.
func (ix *Index) Name(i int) string { return ix.names[i] }

// Duplicated reports whether id is carried by more than one entity.
func (ix *Index) Duplicated(id string) bool { return ix.dupIDs[id] }

// PosByID returns the position of the entity with the given id.
func (ix *Index) PosByID(id string) (int, bool) {
	if id == "" || ix.dupIDs[id] {
		return 0, false
	}
	i, ok := ix.byID[id]
	return i, ok
}

// ByID returns the name of the entity with the given id.
func (ix *Index) ByID(id string) (string, bool) {
	i, ok := ix.PosByID(id)
	if !ok {
		return "", false
	}
	return ix.names[i], true
}

// PosByName resolves a name: exact match first, then a case-insensitive
// match that must be unique.
func (ix *Index) PosByName(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	if i, ok := ix.byName[name]; ok {
		return i, true
	}
	found, hits := 0, 0
	for i, n := range ix.names {
		if strings.EqualFold(n, name) {
			found = i
			hits++
		}
	}
	return found, hits == 1
}

// ByName is PosByName returning the entity id, which may be empty.
func (ix *Index) ByName(name string) (string, bool) {
	i, ok := ix.PosByName(name)
	if !ok {
		return "", false
	}
	return ix.ids[i], true
}
