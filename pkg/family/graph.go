package family

import "sort"

// graph is the explicit adjacency structure used for connected-component
// extraction. Edge weights keep the smallest distance seen for a pair.
type graph struct {
	adj map[int]map[int]float64
}

func newGraph() *graph {
	return &graph{adj: make(map[int]map[int]float64)}
}

func (g *graph) addNode(n int) {
	if _, ok := g.adj[n]; !ok {
		g.adj[n] = make(map[int]float64)
	}
}

func (g *graph) addEdge(a, b int, w float64) {
	g.addNode(a)
	g.addNode(b)
	if old, ok := g.adj[a][b]; !ok || w < old {
		g.adj[a][b] = w
		g.adj[b][a] = w
	}
}

// components returns the connected components, each sorted ascending,
// ordered by their smallest member for deterministic output.
func (g *graph) components() [][]int {
	visited := make(map[int]bool)
	var comps [][]int

	nodes := make([]int, 0, len(g.adj))
	for n := range g.adj {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)

	for _, start := range nodes {
		if visited[start] {
			continue
		}
		var comp []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			comp = append(comp, n)
			for nb := range g.adj[n] {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		sort.Ints(comp)
		comps = append(comps, comp)
	}
	return comps
}
