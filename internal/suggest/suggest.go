// Package suggest asks an external model endpoint for structured
// suggestions: a free-text prompt goes out together with the names of the
// string-array fields the answer must carry.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"modelforge/internal/model"
)

// ErrUnavailable wraps every failure of the suggestion endpoint. There is no
// retry and no fallback content.
var ErrUnavailable = errors.New("suggestions unavailable")

// Shape names the top-level array fields expected in the answer.
type Shape struct {
	Fields []string `json:"fields"`
}

// Schema renders the shape as a JSON-schema object.
func (s Shape) Schema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		props[f] = map[string]any{"type": "array", "items": map[string]string{"type": "string"}}
	}
	req := append([]string(nil), s.Fields...)
	sort.Strings(req)
	return map[string]any{"type": "object", "properties": props, "required": req}
}

// Suggestions maps each shape field to its proposed values.
type Suggestions map[string][]string

type Client interface {
	Suggest(ctx context.Context, prompt string, shape Shape) (Suggestions, error)
}

// PlanningShape is what the planning step asks for.
var PlanningShape = Shape{Fields: []string{"kpis", "events"}}

// PlanningPrompt describes the system being modelled so the endpoint can
// propose KPIs and business events for it.
func PlanningPrompt(ctx model.Context, goal string, entities []string) string {
	var b strings.Builder
	name := ctx.SystemName
	if name == "" {
		name = "an information system"
	}
	fmt.Fprintf(&b, "We are planning %s.\n", name)
	if g := strings.TrimSpace(goal); g != "" {
		fmt.Fprintf(&b, "Business goal: %s\n", g)
	}
	if len(ctx.UserProfiles) > 0 {
		b.WriteString("User profiles:\n")
		for _, p := range ctx.UserProfiles {
			if p.Description != "" {
				fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", p.Name)
			}
		}
	}
	if len(entities) > 0 {
		fmt.Fprintf(&b, "Known entities: %s\n", strings.Join(entities, ", "))
	}
	b.WriteString("Suggest key performance indicators (kpis) and business events (events) worth tracking.")
	return b.String()
}
