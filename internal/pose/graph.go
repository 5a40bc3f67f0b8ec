package pose

// CostFunc weights a candidate edge given the expected and measured
// distance between its endpoints. Any consistent non-negative function
// works; SquaredError is the default.
type CostFunc func(expected, measured float64) float64

// SquaredError is the default edge cost: (expected - measured)².
// It favours edges whose measured length is close to the anatomical
// prior.
func SquaredError(expected, measured float64) float64 {
	d := expected - measured
	return d * d
}

type edge struct {
	to     int
	weight float64
}

// Graph is a sparse weighted DAG over hypothesis indices. An edge
// (u, v) exists only when the pair (label u, label v) appears in the
// length table, so edges always run from lower to higher labels and
// the label-sorted index order is topological.
type Graph struct {
	pop *Population
	adj [][]edge
}

// BuildGraph constructs the candidate graph for one frame. Pairs whose
// labels are absent from the table receive no edge; graph sparsity is
// label-driven, not distance-driven.
func BuildGraph(pop *Population, table *LengthTable, cost CostFunc) *Graph {
	if cost == nil {
		cost = SquaredError
	}

	n := pop.Len()
	g := &Graph{pop: pop, adj: make([][]edge, n)}

	for u := 0; u < n; u++ {
		labelU := pop.Label(u)
		for v := 0; v < n; v++ {
			expected, ok := table.Get(labelU, pop.Label(v))
			if !ok {
				continue
			}
			measured := pop.Point(u).Dist(pop.Point(v))
			g.adj[u] = append(g.adj[u], edge{to: v, weight: cost(expected, measured)})
		}
	}
	return g
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.adj) }
