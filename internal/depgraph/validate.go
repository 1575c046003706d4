package depgraph

import "slices"

// Validate checks the stored edges for a cycle, which can only exist when
// task files were edited by hand. It returns a *GraphError wrapping
// ErrCycleFound with one stable witness path, e.g. 1 -> 2 -> 1.
func (g *Graph) Validate() error {
	const (
		white = iota
		gray
		black
	)

	ids := make([]int, 0, len(g.forward))
	for id := range g.forward {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	color := map[int]int{}
	parent := map[int]int{}
	var cycle []int

	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range g.BlockedBy(u) {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back edge u -> v: walk parents from u back to v.
				cycle = []int{v}
				for cur := u; cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				slices.Reverse(cycle)
				return true
			}
		}
		color[u] = black
		return false
	}

	for _, id := range ids {
		if color[id] == white && dfs(id) {
			return &GraphError{Kind: ErrCycleFound, Cycle: cycle}
		}
	}
	return nil
}
