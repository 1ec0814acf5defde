package gen

import (
	"fmt"
	"strings"
	"time"

	"modelforge/internal/lint"
	"modelforge/internal/model"
)

// HeaderPrefix starts the only line of generated output that varies between
// runs on identical input.
const HeaderPrefix = "Generated at: "

type Generator struct {
	now func() time.Time
}

type Option func(*Generator)

// WithClock fixes the timestamp written into headers.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

// header writes a two line comment block using the target's comment marker.
func (g *Generator) header(marker, title, system string) string {
	if system = strings.TrimSpace(system); system != "" {
		title = system + " " + title
	}
	return fmt.Sprintf("%s %s\n%s %s%s\n", marker, title, marker, HeaderPrefix, g.now().UTC().Format(time.RFC3339))
}

// SQL renders CREATE TABLE statements followed by the 1:N foreign keys.
func (g *Generator) SQL(d model.Document) (string, lint.Issues) {
	s, issues := Normalize(d)
	body := Render(BuildDDL(s, DDLOptions{}))
	return g.header("--", "database schema", s.SystemName) + "\n" + body, issues
}

// StripHeader drops header timestamp lines, for comparing outputs of two runs.
func StripHeader(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.Contains(l, HeaderPrefix) {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
