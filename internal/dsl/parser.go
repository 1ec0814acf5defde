// Package dsl reads entity definitions into a wizard document, either from
// the line-based entity DSL or from JSON/YAML exports.
//
//	system Loja
//	profile Gerente: approves orders
//
//	entity Cliente: timestamps
//	  nome: string required
//	  email: string unique email
//
//	entity Pedido: timestamps soft_deletes
//	  total: number required default=0 min=0
//	  status: enum[aberto, pago] default=aberto
//	  cliente_id: ref[Cliente] on_delete=restrict
//
//	entity Pagamento:
//	  valor: number required
//
//	relation Pedido 1:N Pagamento on_delete=cascade
//
// A ref field and "relation A 1:N B" describe the same thing from both
// ends: the many side (the entity with the ref, or B) holds the foreign
// key. Both produce a link from the many side to the one side; "A N:1 B"
// is read as "B 1:N A".
package dsl

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"modelforge/internal/model"
)

var (
	systemRe   = regexp.MustCompile(`^system\s+(.+)$`)
	profileRe  = regexp.MustCompile(`^profile\s+([^:]+?)\s*(?::\s*(.*))?$`)
	entityRe   = regexp.MustCompile(`^entity\s+(\w+)\s*:(.*)$`)
	fieldRe    = regexp.MustCompile(`^([\w_]+):\s*([^\s#]+)(.*)$`)
	relationRe = regexp.MustCompile(`^relation\s+(\w+)\s+(\S+)\s+(\w+)(.*)$`)
	enumRe     = regexp.MustCompile(`^enum\[(.*)\]$`)
	refRe      = regexp.MustCompile(`^ref\[(\w+)\]$`)
	arrayRe    = regexp.MustCompile(`^array\[(.+)\]$`)
)

// splitOptionTokens splits "k=v k2='v 2' pattern=^[A-Z0-9 _-]+$" on blanks
// outside quotes and brackets.
func splitOptionTokens(s string) []string {
	var out []string
	var buf []rune
	inSingle, inDouble := false, false
	bracketDepth := 0

	flush := func() {
		if len(buf) > 0 {
			out = append(out, string(buf))
			buf = buf[:0]
		}
	}

	for _, r := range s {
		switch r {
		case '\'':
			if !inDouble && bracketDepth == 0 {
				inSingle = !inSingle
			}
			buf = append(buf, r)
		case '"':
			if !inSingle && bracketDepth == 0 {
				inDouble = !inDouble
			}
			buf = append(buf, r)
		case '[':
			if !inSingle && !inDouble {
				bracketDepth++
			}
			buf = append(buf, r)
		case ']':
			if !inSingle && !inDouble && bracketDepth > 0 {
				bracketDepth--
			}
			buf = append(buf, r)
		default:
			if (r == ' ' || r == '\t') && !inSingle && !inDouble && bracketDepth == 0 {
				flush()
				continue
			}
			buf = append(buf, r)
		}
	}
	flush()
	return out
}

// options turns the tokens after a field type into key/value pairs. Bare
// flags get "true".
func options(tail string) map[string]string {
	raw := strings.TrimSpace(tail)
	if i := strings.Index(raw, " #"); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	} else if strings.HasPrefix(raw, "#") {
		raw = ""
	}
	raw = strings.ReplaceAll(raw, ",", " ")

	out := map[string]string{}
	for _, tok := range splitOptionTokens(raw) {
		if !strings.Contains(tok, "=") {
			out[strings.ToLower(tok)] = "true"
			continue
		}
		kv := strings.SplitN(tok, "=", 2)
		k := strings.ToLower(strings.TrimSpace(kv[0]))
		v := strings.TrimSpace(kv[1])
		if len(v) >= 2 {
			if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
				v = v[1 : len(v)-1]
			}
		}
		if k != "" {
			out[k] = v
		}
	}
	return out
}

type parser struct {
	doc     model.Document
	current *model.WizardEntity
	ids     map[string]string // entity name -> id
	pending []pendingLink
}

// pendingLink is resolved once every entity is known.
type pendingLink struct {
	line     int
	from, to string
	card     string
	fkField  string
	onDelete string
	onUpdate string
}

// Parse reads one DSL source. Any unrecognised line aborts the parse.
func Parse(r io.Reader) (model.Document, error) {
	p := &parser{doc: model.Document{Format: model.FormatWizard}, ids: map[string]string{}}

	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := p.line(n, line); err != nil {
			return model.Document{}, fmt.Errorf("%w: %w", ErrImport, err)
		}
	}
	if err := sc.Err(); err != nil {
		return model.Document{}, fmt.Errorf("%w: %w", ErrImport, err)
	}
	p.flush()
	if err := p.resolve(); err != nil {
		return model.Document{}, fmt.Errorf("%w: %w", ErrImport, err)
	}
	return p.doc, nil
}

func (p *parser) line(n int, line string) error {
	if m := systemRe.FindStringSubmatch(line); m != nil {
		p.doc.Context.SystemName = strings.TrimSpace(m[1])
		return nil
	}
	if m := profileRe.FindStringSubmatch(line); m != nil {
		p.doc.Context.UserProfiles = append(p.doc.Context.UserProfiles,
			model.Profile{Name: strings.TrimSpace(m[1]), Description: strings.TrimSpace(m[2])})
		return nil
	}
	if m := relationRe.FindStringSubmatch(line); m != nil {
		opts := options(m[4])
		l := pendingLink{line: n, from: m[1], card: m[2], to: m[3],
			fkField: opts["fk"], onDelete: opts["on_delete"], onUpdate: opts["on_update"]}
		switch card, _ := model.ParseCardinality(m[2]); card {
		case model.OneToMany:
			l.from, l.to = m[3], m[1]
			l.card = string(model.OneToMany)
		case model.ManyToOne:
			l.card = string(model.OneToMany)
		}
		p.pending = append(p.pending, l)
		return nil
	}
	if m := entityRe.FindStringSubmatch(line); m != nil {
		p.flush()
		if _, dup := p.ids[m[1]]; dup {
			return &SyntaxError{Line: n, Text: line, Msg: "duplicate entity"}
		}
		e := &model.WizardEntity{ID: uuid.NewString(), Name: m[1]}
		opts := options(m[2])
		e.Timestamps = opts["timestamps"] == "true"
		e.SoftDeletes = opts["soft_deletes"] == "true" || opts["softdeletes"] == "true"
		e.Description = opts["description"]
		p.ids[e.Name] = e.ID
		p.current = e
		return nil
	}
	if p.current == nil {
		return &SyntaxError{Line: n, Text: line, Msg: "statement outside entity"}
	}
	m := fieldRe.FindStringSubmatch(line)
	if m == nil {
		return &SyntaxError{Line: n, Text: line, Msg: "expected field"}
	}
	return p.field(n, m[1], m[2], m[3])
}

func (p *parser) field(n int, name, rawType, tail string) error {
	// glue "enum[a, b]" back together when the list had blanks
	if strings.HasPrefix(rawType, "enum[") || strings.HasPrefix(rawType, "array[") {
		if !strings.Contains(rawType, "]") {
			if idx := strings.Index(tail, "]"); idx >= 0 {
				rawType += tail[:idx+1]
				tail = tail[idx+1:]
			}
		}
	}
	opts := options(tail)
	f := model.Field{ID: uuid.NewString(), Name: name}

	switch {
	case enumRe.MatchString(rawType):
		f.Type = model.FieldString
		var vals []string
		for _, v := range strings.Split(enumRe.FindStringSubmatch(rawType)[1], ",") {
			if v = strings.Trim(strings.TrimSpace(v), `"'`); v != "" {
				vals = append(vals, regexp.QuoteMeta(v))
			}
		}
		if len(vals) > 0 {
			f.Validations = append(f.Validations, model.Validation{Type: model.ValidatePattern, Value: "^(" + strings.Join(vals, "|") + ")$"})
		}
	case refRe.MatchString(rawType):
		f.Type = model.FieldForeignKey
		p.pending = append(p.pending, pendingLink{line: n, from: p.current.Name, to: refRe.FindStringSubmatch(rawType)[1],
			card: string(model.OneToMany), fkField: name, onDelete: opts["on_delete"], onUpdate: opts["on_update"]})
	case arrayRe.MatchString(rawType):
		f.Type = model.FieldJSON
	default:
		t, ok := typeAliases[strings.ToLower(rawType)]
		if !ok {
			return &SyntaxError{Line: n, Text: rawType, Msg: "unknown type"}
		}
		f.Type = t
	}

	f.Required = opts["required"] == "true"
	f.Unique = opts["unique"] == "true"
	f.Indexed = opts["indexed"] == "true" || opts["index"] == "true"
	f.DefaultValue = opts["default"]
	for _, vt := range []model.ValidationType{model.ValidateMin, model.ValidateMax, model.ValidateEmail, model.ValidateURL, model.ValidatePattern} {
		v, ok := opts[string(vt)]
		if !ok {
			continue
		}
		if vt == model.ValidateEmail || vt == model.ValidateURL {
			v = ""
		}
		f.Validations = append(f.Validations, model.Validation{Type: vt, Value: v})
	}
	p.current.Fields = append(p.current.Fields, f)
	return nil
}

func (p *parser) flush() {
	if p.current != nil {
		p.doc.Wizard = append(p.doc.Wizard, *p.current)
		p.current = nil
	}
}

func (p *parser) resolve() error {
	for i, l := range p.pending {
		from, ok := p.ids[l.from]
		if !ok {
			return &SyntaxError{Line: l.line, Text: l.from, Msg: "unknown entity"}
		}
		to, ok := p.ids[l.to]
		if !ok {
			return &SyntaxError{Line: l.line, Text: l.to, Msg: "unknown entity"}
		}
		if _, ok := model.ParseCardinality(l.card); !ok {
			return &SyntaxError{Line: l.line, Text: l.card, Msg: "unknown relationship type"}
		}
		p.doc.Links = append(p.doc.Links, model.Link{
			ID:           fmt.Sprintf("rel-%d", i+1),
			FromEntityID: from,
			ToEntityID:   to,
			Type:         l.card,
			FKField:      l.fkField,
			OnDelete:     l.onDelete,
			OnUpdate:     l.onUpdate,
		})
	}
	return nil
}

// LoadFile parses one .dsl file.
func LoadFile(path string) (model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Document{}, err
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return model.Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// LoadDir merges every .dsl file under root, in walk order. Entity names
// must be unique across files; relations may only name entities of their
// own file.
func LoadDir(root string) (model.Document, error) {
	out := model.Document{Format: model.FormatWizard}
	seen := map[string]string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".dsl") {
			return nil
		}
		doc, err := LoadFile(path)
		if err != nil {
			return err
		}
		for _, e := range doc.Wizard {
			if prev, exists := seen[e.Name]; exists {
				return fmt.Errorf("%w: duplicate entity %q (%s and %s)", ErrImport, e.Name, prev, path)
			}
			seen[e.Name] = path
		}
		out.Wizard = append(out.Wizard, doc.Wizard...)
		for _, l := range doc.Links {
			l.ID = fmt.Sprintf("rel-%d", len(out.Links)+1)
			out.Links = append(out.Links, l)
		}
		if doc.Context.SystemName != "" {
			out.Context.SystemName = doc.Context.SystemName
		}
		out.Context.UserProfiles = append(out.Context.UserProfiles, doc.Context.UserProfiles...)
		return nil
	})
	if err != nil {
		return model.Document{}, err
	}
	return out, nil
}
