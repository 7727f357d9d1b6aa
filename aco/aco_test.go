package aco

import (
	"context"
	"testing"

	"routex/graph"
	"routex/prng"
)

func lineGraph(n int) *graph.Store {
	s := graph.NewStore()
	for i := 0; i < n; i++ {
		s.AddNode(i, graph.Pos{X: float64(i), Y: 0})
	}
	for i := 0; i+1 < n; i++ {
		s.AddEdge(i, i+1, 1.0)
	}
	return s
}

// meshGraph builds a graph with many equal-cost alternate routes between
// 0 and n-1, so that chooseNext's rng draws actually influence which
// path an ant takes — unlike lineGraph, where the path is forced and a
// determinism bug in the rng draws would go unnoticed.
func meshGraph(width, depth int) *graph.Store {
	s := graph.NewStore()
	id := func(d, w int) int { return d*width + w }
	for d := 0; d < depth; d++ {
		for w := 0; w < width; w++ {
			s.AddNode(id(d, w), graph.Pos{X: float64(d), Y: float64(w)})
		}
	}
	for d := 0; d+1 < depth; d++ {
		for w := 0; w < width; w++ {
			for w2 := 0; w2 < width; w2++ {
				s.AddEdge(id(d, w), id(d+1, w2), 1.0)
			}
		}
	}
	return s
}

func TestBestPathFindsDestination(t *testing.T) {
	g := lineGraph(5)
	params := Params{Alpha: 1.0, Beta: 2.0, Evaporation: 0.5, Ants: 5, Iterations: 5}
	colony := New(g, params, prng.New(1))

	path := colony.BestPath(context.Background(), 0, 4)
	if path == nil {
		t.Fatalf("expected a path")
	}
	if path[0] != 0 || path[len(path)-1] != 4 {
		t.Fatalf("unexpected path endpoints: %v", path)
	}
}

func TestBestPathSameSrcDst(t *testing.T) {
	g := lineGraph(3)
	colony := New(g, Default(), prng.New(1))
	path := colony.BestPath(context.Background(), 1, 1)
	if len(path) != 1 || path[0] != 1 {
		t.Fatalf("expected trivial single-node path, got %v", path)
	}
}

func TestBestPathUnreachable(t *testing.T) {
	s := graph.NewStore()
	s.AddNode(0, graph.Pos{})
	s.AddNode(1, graph.Pos{})
	colony := New(s, Params{Alpha: 1, Beta: 2, Evaporation: 0.5, Ants: 3, Iterations: 3}, prng.New(1))
	path := colony.BestPath(context.Background(), 0, 1)
	if path != nil {
		t.Fatalf("expected nil path between disconnected nodes, got %v", path)
	}
}

func TestBestPathDeterministic(t *testing.T) {
	g := lineGraph(6)
	params := Params{Alpha: 1.0, Beta: 2.0, Evaporation: 0.4, Ants: 8, Iterations: 8}

	a := New(g, params, prng.New(7)).BestPath(context.Background(), 0, 5)
	b := New(g, params, prng.New(7)).BestPath(context.Background(), 0, 5)

	if len(a) != len(b) {
		t.Fatalf("expected identical path lengths across runs with same seed, got %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("paths diverge at index %d: %v vs %v", i, a, b)
		}
	}
}

// TestBestPathDeterministicWithBranching uses a mesh with many equal-cost
// alternate routes, so that a stray shared-rng race or scheduler-order
// dependence among parallel ants (unlike lineGraph's single forced path)
// would actually show up as a differing path across repeated runs with
// the same seed.
func TestBestPathDeterministicWithBranching(t *testing.T) {
	width, depth := 5, 5
	g := meshGraph(width, depth)
	src, dst := 0, (depth-1)*width
	params := Params{Alpha: 1.0, Beta: 2.0, Evaporation: 0.3, Ants: 16, Iterations: 10}

	var paths [][]int
	for i := 0; i < 5; i++ {
		paths = append(paths, New(g, params, prng.New(42)).BestPath(context.Background(), src, dst))
	}

	for i := 1; i < len(paths); i++ {
		if len(paths[i]) != len(paths[0]) {
			t.Fatalf("run %d path length differs from run 0: %v vs %v", i, paths[i], paths[0])
		}
		for j := range paths[0] {
			if paths[i][j] != paths[0][j] {
				t.Fatalf("run %d path diverges from run 0 at index %d: %v vs %v", i, j, paths[i], paths[0])
			}
		}
	}
}
