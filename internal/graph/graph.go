// Package graph builds the class inheritance graph of a reflection dump.
package graph

import (
	"sort"

	"github.com/duyhunghd6/gdref-cli/internal/model"
)

// Graph holds a directed adjacency list. In an inheritance graph edges point
// from a class to its parent.
type Graph struct {
	Forward map[string][]string // node → outgoing edges
	Reverse map[string][]string // node → incoming edges
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Forward: make(map[string][]string),
		Reverse: make(map[string][]string),
	}
}

// BuildInheritance adds one edge per link of every class's extends chain:
// class → chain[0] → chain[1] → ...
func BuildInheritance(classes *model.Collection) *Graph {
	g := NewGraph()
	for _, class := range classes.Classes() {
		child := class.Name
		for _, parent := range class.Extends {
			if parent == "" {
				break
			}
			g.AddEdge(child, parent)
			child = parent
		}
	}
	return g
}

// AddEdge adds a directed edge from source to target.
func (g *Graph) AddEdge(source, target string) {
	if source == target {
		return
	}
	// Avoid duplicates
	for _, t := range g.Forward[source] {
		if t == target {
			return
		}
	}
	g.Forward[source] = append(g.Forward[source], target)
	g.Reverse[target] = append(g.Reverse[target], source)
}

// Successors returns all direct successors of a node.
func (g *Graph) Successors(node string) []string {
	return g.Forward[node]
}

// Predecessors returns all direct predecessors of a node.
func (g *Graph) Predecessors(node string) []string {
	return g.Reverse[node]
}

// Ancestors returns the classes node inherits from, nearest first.
func (g *Graph) Ancestors(node string) []string {
	return g.walk(node, g.Successors)
}

// Descendants returns every class inheriting from node, in breadth-first
// order.
func (g *Graph) Descendants(node string) []string {
	return g.walk(node, g.Predecessors)
}

func (g *Graph) walk(start string, next func(string) []string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	var out []string

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, neighbor := range next(node) {
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			out = append(out, neighbor)
			queue = append(queue, neighbor)
		}
	}
	return out
}

// Roots returns the nodes without parents, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for node := range g.Reverse {
		if len(g.Forward[node]) == 0 {
			roots = append(roots, node)
		}
	}
	sort.Strings(roots)
	return roots
}

// NodeCount returns the number of unique nodes.
func (g *Graph) NodeCount() int {
	nodes := make(map[string]bool)
	for k, vs := range g.Forward {
		nodes[k] = true
		for _, v := range vs {
			nodes[v] = true
		}
	}
	return len(nodes)
}

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, vs := range g.Forward {
		count += len(vs)
	}
	return count
}

// Stats returns statistics about the graph.
func (g *Graph) Stats() map[string]int {
	return map[string]int{"nodes": g.NodeCount(), "edges": g.EdgeCount(), "roots": len(g.Roots())}
}
