// Package diagram reads the two diagram dialects the artifact viewer shows
// (sequence diagrams and top-down graphs) into nodes and edges, lays them
// out on a grid and writes them back as markup.
package diagram

import (
	"bufio"
	"regexp"
	"strings"
)

type Kind string

const (
	KindUnknown  Kind = ""
	KindSequence Kind = "sequence"
	KindGraph    Kind = "graph"
)

type Node struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// Diagram keeps nodes in declaration order and edges in file order; for
// sequence diagrams edge order is the top to bottom order.
type Diagram struct {
	Kind      Kind   `json:"kind"`
	Direction string `json:"direction,omitempty"`
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
}

// Empty reports whether nothing was recognised; callers then show the raw
// text.
func (d Diagram) Empty() bool { return len(d.Nodes) == 0 && len(d.Edges) == 0 }

var (
	participantRe = regexp.MustCompile(`^(?:participant|actor)\s+([^\s]+)(?:\s+as\s+(.+))?$`)
	messageRe     = regexp.MustCompile(`^([^\s:>-]+)\s*(-{1,2}>>|-{1,2}\))\s*([^\s:]+)\s*(?::\s*(.*))?$`)
	graphHeadRe   = regexp.MustCompile(`^(?:graph|flowchart)\s+(TD|TB|BT|LR|RL)\b`)
	graphEdgeRe   = regexp.MustCompile(`^(\w+)(?:\[([^\]]*)\])?\s*-->\s*(?:\|([^|]*)\|\s*)?(\w+)(?:\[([^\]]*)\])?\s*;?$`)
	graphNodeRe   = regexp.MustCompile(`^(\w+)(?:\[([^\]]*)\])?\s*;?$`)
)

// Parse detects the dialect from the first non-empty line. Unknown dialects
// give an empty diagram, not an error. When text is markdown holding a
// mermaid block only that block is read; %% comments are ignored.
func Parse(text string) Diagram {
	text = unfence(text)
	var (
		d     Diagram
		nodes = map[string]int{}
	)
	addNode := func(id, label string) {
		if i, ok := nodes[id]; ok {
			if d.Nodes[i].Label == "" && label != "" {
				d.Nodes[i].Label = label
			}
			return
		}
		nodes[id] = len(d.Nodes)
		d.Nodes = append(d.Nodes, Node{ID: id, Label: label})
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%%") {
			continue
		}
		if d.Kind == KindUnknown {
			switch {
			case line == "sequenceDiagram":
				d.Kind = KindSequence
			case graphHeadRe.MatchString(line):
				d.Kind = KindGraph
				d.Direction = graphHeadRe.FindStringSubmatch(line)[1]
			default:
				return Diagram{}
			}
			continue
		}

		switch d.Kind {
		case KindSequence:
			if m := participantRe.FindStringSubmatch(line); m != nil {
				addNode(m[1], strings.TrimSpace(m[2]))
				continue
			}
			if m := messageRe.FindStringSubmatch(line); m != nil {
				addNode(m[1], "")
				addNode(m[3], "")
				d.Edges = append(d.Edges, Edge{From: m[1], To: m[3], Label: strings.TrimSpace(m[4])})
			}
		case KindGraph:
			if m := graphEdgeRe.FindStringSubmatch(line); m != nil {
				addNode(m[1], strings.TrimSpace(m[2]))
				addNode(m[4], strings.TrimSpace(m[5]))
				d.Edges = append(d.Edges, Edge{From: m[1], To: m[4], Label: strings.TrimSpace(m[3])})
			} else if m := graphNodeRe.FindStringSubmatch(line); m != nil {
				addNode(m[1], strings.TrimSpace(m[2]))
			}
		}
	}
	return d
}

func unfence(text string) string {
	const open = "```mermaid"
	i := strings.Index(text, open)
	if i < 0 {
		return text
	}
	body := text[i+len(open):]
	if j := strings.Index(body, "```"); j >= 0 {
		body = body[:j]
	}
	return body
}
