package featureconfig

import (
	"sort"

	"github.com/espressomd/featuregen/pkg/featuredefs"
)

// Graph is the directed implication graph: an edge A -> B means
// "A implies B".
type Graph struct {
	edges map[string][]string
	nodes []string
}

// NewGraph builds the graph from implication pairs. Duplicate pairs are
// collapsed.
func NewGraph(pairs []featuredefs.Implication) *Graph {
	adj := make(map[string]featuredefs.NameSet)
	nodes := featuredefs.NameSet{}
	for _, p := range pairs {
		if adj[p.Feature] == nil {
			adj[p.Feature] = featuredefs.NameSet{}
		}
		adj[p.Feature].Add(p.Implied)
		nodes.Add(p.Feature)
		nodes.Add(p.Implied)
	}

	g := &Graph{edges: make(map[string][]string, len(adj)), nodes: nodes.Sorted()}
	for from, to := range adj {
		g.edges[from] = to.Sorted()
	}
	return g
}

// Nodes returns every feature that takes part in an implication, sorted.
func (g *Graph) Nodes() []string {
	return g.nodes
}

// Successors returns the direct implications of name, sorted.
func (g *Graph) Successors(name string) []string {
	return g.edges[name]
}

// Reachable returns every feature transitively implied by name, sorted.
// name itself is included only if it lies on a cycle.
func (g *Graph) Reachable(name string) []string {
	seen := featuredefs.NameSet{}
	stack := append([]string(nil), g.edges[name]...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen.Has(n) {
			continue
		}
		seen.Add(n)
		stack = append(stack, g.edges[n]...)
	}
	return seen.Sorted()
}

// Closure returns the transitive closure as implication pairs, sorted by
// feature and then implied feature. Self pairs are omitted.
func (g *Graph) Closure() []featuredefs.Implication {
	var out []featuredefs.Implication
	for _, from := range g.nodes {
		for _, to := range g.Reachable(from) {
			if to == from {
				continue
			}
			out = append(out, featuredefs.Implication{Feature: from, Implied: to})
		}
	}
	return out
}

// Cycles returns the strongly connected components that contain a cycle,
// each sorted, ordered by their first member.
func (g *Graph) Cycles() [][]string {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: featuredefs.NameSet{},
	}
	for _, n := range g.nodes {
		if _, visited := t.index[n]; !visited {
			t.connect(n)
		}
	}

	var cycles [][]string
	for _, scc := range t.components {
		if len(scc) > 1 || g.hasSelfLoop(scc[0]) {
			sort.Strings(scc)
			cycles = append(cycles, scc)
		}
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}

func (g *Graph) hasSelfLoop(n string) bool {
	for _, s := range g.edges[n] {
		if s == n {
			return true
		}
	}
	return false
}

type tarjan struct {
	g          *Graph
	counter    int
	index      map[string]int
	lowlink    map[string]int
	stack      []string
	onStack    featuredefs.NameSet
	components [][]string
}

func (t *tarjan) connect(v string) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack.Add(v)

	for _, w := range t.g.edges[v] {
		if _, visited := t.index[w]; !visited {
			t.connect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack.Has(w) {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}
	var scc []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		delete(t.onStack, w)
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.components = append(t.components, scc)
}
