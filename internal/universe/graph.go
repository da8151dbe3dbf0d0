// Package universe models the jump graph walked by the reachability estimate.
//
// Nodes live in an arena indexed by integer; each node owns its adjacency list.
// Edges are followed in the direction they were stored, so a connection
// listed only on one side is one-way. Only nodes registered as systems are
// candidates for start positions and targets; every other node is
// traversable but never sampled.
package universe

import "slices"

// NotFound is returned by ShortestHops when no target is reachable.
const NotFound = -1

// Graph is an arena of nodes with per-node adjacency lists.
type Graph struct {
	ids       []string
	index     map[string]int
	adjacency [][]int
	isSystem  []bool
	systems   []int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// node returns the arena index for id, allocating a record when needed.
func (g *Graph) node(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = i
	g.adjacency = append(g.adjacency, nil)
	g.isSystem = append(g.isSystem, false)
	return i
}

// AddSystem registers id as a start/target candidate.
func (g *Graph) AddSystem(id string) {
	i := g.node(id)
	if !g.isSystem[i] {
		g.isSystem[i] = true
		g.systems = append(g.systems, i)
	}
}

// Connect adds a directed edge from -> to. Duplicate edges are ignored.
func (g *Graph) Connect(from, to string) {
	f, t := g.node(from), g.node(to)
	if !slices.Contains(g.adjacency[f], t) {
		g.adjacency[f] = append(g.adjacency[f], t)
	}
}

// ConnectBoth adds edges in both directions.
func (g *Graph) ConnectBoth(a, b string) {
	g.Connect(a, b)
	g.Connect(b, a)
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int { return len(g.ids) }

// SystemCount returns the number of start/target candidates.
func (g *Graph) SystemCount() int { return len(g.systems) }

// Systems returns the candidate system IDs in registration order.
func (g *Graph) Systems() []string {
	out := make([]string, len(g.systems))
	for i, n := range g.systems {
		out[i] = g.ids[n]
	}
	return out
}

// SystemAt returns the arena index of the i-th system.
func (g *Graph) SystemAt(i int) int { return g.systems[i] }

// Index returns the arena index of id.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// ID returns the identifier stored at arena index i.
func (g *Graph) ID(i int) string { return g.ids[i] }

// Neighbors returns the IDs reachable in one hop from id.
func (g *Graph) Neighbors(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, len(g.adjacency[i]))
	for k, n := range g.adjacency[i] {
		out[k] = g.ids[n]
	}
	return out
}

// EdgeCount returns the number of stored directed edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, adj := range g.adjacency {
		n += len(adj)
	}
	return n
}
