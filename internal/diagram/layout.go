package diagram

// Cell is a grid position: Col counts from the left, Row from the top.
type Cell struct {
	ID  string `json:"id"`
	Col int    `json:"col"`
	Row int    `json:"row"`
}

// Row places one edge. Sequence messages each get their own row; graph
// edges carry the row of their source.
type Row struct {
	From string `json:"from"`
	To   string `json:"to"`
	Row  int    `json:"row"`
}

type Layout struct {
	Nodes    []Cell `json:"nodes"`
	Edges    []Row  `json:"edges"`
	Cols     int    `json:"cols"`
	Rows     int    `json:"rows"`
	Circular bool   `json:"circular,omitempty"`
}

// Arrange lays a diagram out. Sequence participants become lanes in
// declaration order with messages stacked below them. Graph nodes are
// layered by their longest path from a root, then ordered by first
// appearance within a layer. Cycles are cut after len(nodes) passes and
// flagged.
func Arrange(d Diagram) Layout {
	switch d.Kind {
	case KindSequence:
		return arrangeSequence(d)
	case KindGraph:
		return arrangeGraph(d)
	}
	return Layout{}
}

func arrangeSequence(d Diagram) Layout {
	l := Layout{Cols: len(d.Nodes), Rows: len(d.Edges) + 1}
	for i, n := range d.Nodes {
		l.Nodes = append(l.Nodes, Cell{ID: n.ID, Col: i})
	}
	for i, e := range d.Edges {
		l.Edges = append(l.Edges, Row{From: e.From, To: e.To, Row: i + 1})
	}
	return l
}

func arrangeGraph(d Diagram) Layout {
	level := make(map[string]int, len(d.Nodes))
	var l Layout

	// Bellman-Ford style relaxation; stable after at most len(nodes) passes
	// on a DAG.
	changed := true
	for pass := 0; changed; pass++ {
		if pass > len(d.Nodes) {
			l.Circular = true
			break
		}
		changed = false
		for _, e := range d.Edges {
			if e.From == e.To {
				l.Circular = true
				continue
			}
			if level[e.To] < level[e.From]+1 {
				level[e.To] = level[e.From] + 1
				changed = true
			}
		}
	}

	width := map[int]int{}
	for _, n := range d.Nodes {
		row := level[n.ID]
		l.Nodes = append(l.Nodes, Cell{ID: n.ID, Col: width[row], Row: row})
		width[row]++
		l.Cols = max(l.Cols, width[row])
		l.Rows = max(l.Rows, row+1)
	}
	for _, e := range d.Edges {
		l.Edges = append(l.Edges, Row{From: e.From, To: e.To, Row: level[e.From]})
	}
	return l
}
