// Package artifact holds generated output: virtual "/"-delimited paths
// mapped to file contents, the tree view over them and local export.
package artifact

import (
	"sort"
	"strings"
)

// Files maps a virtual path ("database/schema.sql") to its content.
type Files map[string]string

// Paths returns the paths in lexical order.
func (f Files) Paths() []string {
	out := make([]string, 0, len(f))
	for p := range f {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Merge copies other into f, overwriting equal paths.
func (f Files) Merge(other Files) {
	for p, c := range other {
		f[p] = c
	}
}

// Node is one entry of the tree view. Directories have Children; files
// have Path set to the full virtual path.
type Node struct {
	Name     string  `json:"name"`
	Path     string  `json:"path,omitempty"`
	Size     int     `json:"size,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

func (n *Node) IsDir() bool { return n.Path == "" }

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name && c.IsDir() {
			return c
		}
	}
	c := &Node{Name: name}
	n.Children = append(n.Children, c)
	return c
}

// Tree groups the paths into nested directories by splitting on "/".
// Directories sort before files, each group by name.
func (f Files) Tree() *Node {
	root := &Node{Name: ""}
	for _, p := range f.Paths() {
		parts := strings.Split(strings.Trim(p, "/"), "/")
		cur := root
		for _, dir := range parts[:len(parts)-1] {
			if dir == "" {
				continue
			}
			cur = cur.child(dir)
		}
		cur.Children = append(cur.Children, &Node{Name: parts[len(parts)-1], Path: p, Size: len(f[p])})
	}
	sortTree(root)
	return root
}

func sortTree(n *Node) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir() != b.IsDir() {
			return a.IsDir()
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.IsDir() {
			sortTree(c)
		}
	}
}
