package universe

// TargetSet is the set of node IDs marked as targets for one run.
type TargetSet map[string]struct{}

// NewTargetSet builds a TargetSet from ids.
func NewTargetSet(ids ...string) TargetSet {
	t := make(TargetSet, len(ids))
	for _, id := range ids {
		t[id] = struct{}{}
	}
	return t
}

// Contains reports whether id is a target.
func (t TargetSet) Contains(id string) bool {
	_, ok := t[id]
	return ok
}

// Mask converts targets into a lookup indexed by arena index.
// Targets unknown to the graph are dropped.
func (g *Graph) Mask(targets TargetSet) []bool {
	mask := make([]bool, len(g.ids))
	for id := range targets {
		if i, ok := g.index[id]; ok {
			mask[i] = true
		}
	}
	return mask
}

// ShortestHops returns the number of hops from start to the nearest target,
// 0 when start is itself a target, or NotFound.
func (g *Graph) ShortestHops(start string, targets TargetSet) int {
	if targets.Contains(start) {
		return 0
	}
	s, ok := g.index[start]
	if !ok {
		return NotFound
	}
	return g.NewSearcher().ShortestHops(s, g.Mask(targets))
}

type queued struct {
	node, hops int
}

// Searcher runs breadth-first searches over one graph, reusing its buffers
// between calls. A Searcher is not safe for concurrent use; the graph is.
type Searcher struct {
	g     *Graph
	seen  []uint32
	epoch uint32
	queue []queued
}

// NewSearcher returns a Searcher bound to g.
func (g *Graph) NewSearcher() *Searcher {
	return &Searcher{g: g, seen: make([]uint32, len(g.ids))}
}

// ShortestHops searches from arena index start for the first node with
// mask[node] set, counting hops at dequeue time.
func (s *Searcher) ShortestHops(start int, mask []bool) int {
	s.epoch++
	if s.epoch == 0 {
		clear(s.seen)
		s.epoch = 1
	}

	s.queue = append(s.queue[:0], queued{node: start})
	s.seen[start] = s.epoch

	for head := 0; head < len(s.queue); head++ {
		cur := s.queue[head]
		if mask[cur.node] {
			return cur.hops
		}
		for _, next := range s.g.adjacency[cur.node] {
			if s.seen[next] != s.epoch {
				s.seen[next] = s.epoch
				s.queue = append(s.queue, queued{node: next, hops: cur.hops + 1})
			}
		}
	}
	return NotFound
}
