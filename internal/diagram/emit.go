package diagram

import (
	"fmt"
	"strings"
)

// Sequence writes a sequenceDiagram with participants in the given order.
func Sequence(participants []string, messages []Edge) string {
	var b strings.Builder
	b.WriteString("sequenceDiagram\n")
	for _, p := range participants {
		fmt.Fprintf(&b, "    participant %s\n", p)
	}
	for _, m := range messages {
		fmt.Fprintf(&b, "    %s->>%s: %s\n", m.From, m.To, m.Label)
	}
	return b.String()
}

// Graph writes a graph in the given direction. Nodes are declared inline on
// their first edge; nodes without edges get a line of their own.
func Graph(direction string, nodes []Node, edges []Edge) string {
	if direction == "" {
		direction = "TD"
	}
	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.Label
	}
	declared := map[string]bool{}
	ref := func(id string) string {
		if declared[id] || labels[id] == "" {
			declared[id] = true
			return id
		}
		declared[id] = true
		return id + "[" + labels[id] + "]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "graph %s\n", direction)
	for _, e := range edges {
		arrow := "-->"
		if e.Label != "" {
			arrow += "|" + e.Label + "|"
		}
		fmt.Fprintf(&b, "    %s %s %s\n", ref(e.From), arrow, ref(e.To))
	}
	for _, n := range nodes {
		if !declared[n.ID] {
			fmt.Fprintf(&b, "    %s\n", ref(n.ID))
		}
	}
	return b.String()
}

// Markdown wraps markup into a fenced block under a title.
func Markdown(title, markup string) string {
	return fmt.Sprintf("# %s\n\n```mermaid\n%s```\n", title, markup)
}
