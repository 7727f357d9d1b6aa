// Package aco implements the ant-colony pathfinder: a stochastic
// shortest-path search between two nodes driven by pheromone trails
// that reinforce short paths and evaporate over iterations.
package aco

import (
	"context"
	"math"
	"sort"

	channerics "github.com/niceyeti/channerics/channels"

	"routex/atomicf"
	"routex/graph"
	"routex/prng"
)

// Params bundles the ACO tuning constants. Defaults match the spec's
// fixed reference values; callers that want the config-provided values
// must build Params explicitly rather than use Default.
type Params struct {
	Alpha       float64
	Beta        float64
	Evaporation float64
	Ants        int
	Iterations  int
}

// Default returns the spec's reference parameters.
func Default() Params {
	return Params{Alpha: 1.0, Beta: 3.0, Evaporation: 0.5, Ants: 20, Iterations: 20}
}

// Colony holds one pheromone table, initialised by New. Successive
// BestPath calls on the same Colony start from the pheromone left by
// the previous ones; the table is never shared between Colonies.
type Colony struct {
	g      *graph.Store
	params Params
	rng    *prng.Source
	pher   map[graph.EdgeKey]*atomicf.Float64
}

// New builds a Colony over g with pheromone initialised to 1.0 on
// every edge.
func New(g *graph.Store, params Params, rng *prng.Source) *Colony {
	c := &Colony{g: g, params: params, rng: rng, pher: map[graph.EdgeKey]*atomicf.Float64{}}
	for _, u := range g.NodeIDs() {
		for _, v := range g.Neighbours(u) {
			if u < v {
				c.pher[graph.NewEdgeKey(u, v)] = atomicf.New(1.0)
			}
		}
	}
	return c
}

type candidate struct {
	antIndex int
	path     []int
	length   float64
}

// BestPath runs the full iteration budget and returns the best path
// found across all ants and iterations, or nil if no ant ever reached
// dst. Each ant within one iteration walks in its own goroutine, and
// results are fanned in with channerics.Merge; each ant
// draws from its own *prng.Source, seeded deterministically and
// single-threaded before fan-out, so the parallel walks neither race on
// c.rng nor let goroutine scheduling perturb the draw sequence —
// results are identical to a serial run for a fixed seed.
func (c *Colony) BestPath(ctx context.Context, src, dst int) []int {
	if src == dst {
		return []int{src}
	}

	var best []int
	bestLen := 0.0
	haveBest := false

	for iter := 0; iter < c.params.Iterations; iter++ {
		candidates := c.runIteration(ctx, src, dst)

		c.evaporate()
		c.deposit(candidates)

		for _, cand := range candidates {
			if !haveBest || cand.length < bestLen {
				best = cand.path
				bestLen = cand.length
				haveBest = true
			}
		}
	}

	return best
}

// runIteration walks c.params.Ants ants from src and returns the
// candidates that reached dst, sorted by ant index so the reduction in
// BestPath/deposit is independent of goroutine scheduling. Per-ant
// sub-seeds are drawn from c.rng single-threaded, before any goroutine
// starts, so the only concurrent access to randomness is each ant's own
// private Source.
func (c *Colony) runIteration(ctx context.Context, src, dst int) []candidate {
	seeds := make([]int64, c.params.Ants)
	for i := range seeds {
		seeds[i] = c.rng.Int63()
	}

	workers := make([]<-chan candidate, 0, c.params.Ants)
	for i := 0; i < c.params.Ants; i++ {
		workers = append(workers, c.antWorker(i, prng.New(seeds[i]), src, dst))
	}

	done := ctx.Done()
	var results []candidate
	for cand := range channerics.Merge(done, workers...) {
		results = append(results, cand)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].antIndex < results[j].antIndex })
	return results
}

// antWorker walks a single ant from src using its own rng and emits a
// candidate on its returned channel if it reaches dst, then closes the
// channel.
func (c *Colony) antWorker(antIndex int, rng *prng.Source, src, dst int) <-chan candidate {
	out := make(chan candidate, 1)
	go func() {
		defer close(out)
		path, ok := c.walk(rng, src, dst)
		if !ok {
			return
		}
		out <- candidate{antIndex: antIndex, path: path, length: graph.PathLength(c.g, path)}
	}()
	return out
}

// walk runs one ant from src, choosing its next node at each step with
// probability proportional to tau(u,v)^alpha * (1/weight(u,v))^beta
// among unvisited neighbours. The ant dies (returns ok=false) if it
// reaches a node with no unvisited neighbours before reaching dst.
func (c *Colony) walk(rng *prng.Source, src, dst int) (path []int, ok bool) {
	visited := map[int]bool{src: true}
	curr := src
	path = []int{src}

	for curr != dst {
		next, found := c.chooseNext(rng, curr, visited)
		if !found {
			return nil, false
		}
		path = append(path, next)
		visited[next] = true
		curr = next
	}
	return path, true
}

func (c *Colony) chooseNext(rng *prng.Source, u int, visited map[int]bool) (int, bool) {
	var nbrs []int
	for _, v := range c.g.Neighbours(u) {
		if !visited[v] {
			nbrs = append(nbrs, v)
		}
	}
	if len(nbrs) == 0 {
		return 0, false
	}

	weights := make([]float64, len(nbrs))
	sum := 0.0
	for i, v := range nbrs {
		weights[i] = c.edgeWeight(u, v)
		sum += weights[i]
	}

	if sum == 0 {
		return nbrs[rng.Intn(len(nbrs))], true
	}

	r := rng.Float64() * sum
	cum := 0.0
	for i, v := range nbrs {
		cum += weights[i]
		if r <= cum {
			return v, true
		}
	}
	return nbrs[len(nbrs)-1], true
}

func (c *Colony) edgeWeight(u, v int) float64 {
	tau := c.pheromone(u, v)
	w, _ := c.g.Weight(u, v)
	return math.Pow(tau, c.params.Alpha) * math.Pow(1.0/w, c.params.Beta)
}

func (c *Colony) pheromone(u, v int) float64 {
	return c.pher[graph.NewEdgeKey(u, v)].Load()
}

func (c *Colony) evaporate() {
	factor := 1.0 - c.params.Evaporation
	for _, p := range c.pher {
		p.Store(p.Load() * factor)
	}
}

func (c *Colony) deposit(candidates []candidate) {
	for _, cand := range candidates {
		if cand.length <= 0 {
			continue
		}
		for i := 0; i+1 < len(cand.path); i++ {
			key := graph.NewEdgeKey(cand.path[i], cand.path[i+1])
			c.pher[key].Add(1.0 / cand.length)
		}
	}
}
