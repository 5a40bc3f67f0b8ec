package pose

import "math"

// noPrev marks a node with no predecessor on its shortest path.
const noPrev = -1

// ShortestPaths computes, for every node, the minimum cumulative edge
// weight from any of the source nodes, together with the predecessor
// on that minimum path.
//
// The graph is a DAG whose label-sorted index order is topological, so
// a single relaxation pass suffices and the search is O(V + E).
// Unreached nodes keep an infinite distance and predecessor -1.
func (g *Graph) ShortestPaths(sources []int) (dist []float64, prev []int) {
	n := g.Len()
	dist = make([]float64, n)
	prev = make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = noPrev
	}
	for _, s := range sources {
		dist[s] = 0
	}

	for _, u := range g.pop.LabelOrder() {
		if math.IsInf(dist[u], 1) {
			continue
		}
		for _, e := range g.adj[u] {
			if d := dist[u] + e.weight; d < dist[e.to] {
				dist[e.to] = d
				prev[e.to] = u
			}
		}
	}
	return dist, prev
}

// TracePath follows predecessors from target back to a source and
// returns the path in forward order.
func TracePath(prev []int, target int) []int {
	var path []int
	for u := target; u != noPrev; u = prev[u] {
		path = append(path, u)
	}
	// Reverse into source → target order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// FootPaths returns the shortest path to every reachable foot node
// (hypotheses carrying the population's maximum label) and the path
// distances. Returns ErrUnreachableFoot when no foot is reachable.
func (g *Graph) FootPaths(dist []float64, prev []int) (paths [][]int, pathDist []float64, err error) {
	for _, foot := range g.pop.Indices(g.pop.MaxLabel()) {
		if math.IsInf(dist[foot], 1) {
			continue
		}
		paths = append(paths, TracePath(prev, foot))
		pathDist = append(pathDist, dist[foot])
	}
	if len(paths) == 0 {
		return nil, nil, ErrUnreachableFoot
	}
	return paths, pathDist, nil
}
