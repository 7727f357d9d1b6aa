package graph

import (
	"fmt"

	"routex/prng"
)

// ErrUnsupportedMode is returned by Build for any mode other than
// "synthetic" — the only graph source this module implements; real
// map-source loading is a declared collaborator, not part of this
// core.
type ErrUnsupportedMode struct{ Mode string }

func (e *ErrUnsupportedMode) Error() string {
	return fmt.Sprintf("graph: unsupported mode %q", e.Mode)
}

const (
	// connectionRadius is the Euclidean distance within which two
	// points are joined by an edge during synthetic generation.
	connectionRadius = 0.25
	// blockPenalty is the multiplicative weight penalty applied to a
	// blocked edge, once per road_block event (see events package).
	blockPenalty = 10.0
)

// Build constructs a synthetic random-geometric graph: nNodes points
// placed uniformly in the unit square by the given seed, connected
// within connectionRadius, with any resulting disconnection repaired
// by wiring one representative node per component to the next, then
// every edge weighted by Euclidean distance. For a fixed (nNodes,
// seed) the result is byte-stable across runs, since the only
// randomness is the seeded point placement and no map iteration order
// feeds the output (edges are derived by a double loop over sorted
// node ids).
func Build(mode string, nNodes int, seed int64) (*Store, error) {
	if mode != "synthetic" {
		return nil, &ErrUnsupportedMode{Mode: mode}
	}

	rnd := prng.New(seed)
	s := NewStore()

	for i := 0; i < nNodes; i++ {
		s.AddNode(i, Pos{X: rnd.Float64(), Y: rnd.Float64()})
	}

	for u := 0; u < nNodes; u++ {
		for v := u + 1; v < nNodes; v++ {
			d := Euclidean(s.Positions[u], s.Positions[v])
			if d <= connectionRadius {
				s.AddEdge(u, v, d)
			}
		}
	}

	repairConnectivity(s)

	return s, nil
}

// repairConnectivity wires the components produced by the radius
// connection step into one, by adding an edge between the first node
// of component i and the first node of component i+1, for every
// adjacent pair of components in iteration order. Components are
// identified by ConnectedComponents, which visits nodes in ascending
// id order, so "first node" is well defined and deterministic.
func repairConnectivity(s *Store) {
	comps := ConnectedComponents(s)
	for i := 0; i+1 < len(comps); i++ {
		a := comps[i][0]
		b := comps[i+1][0]
		d := Euclidean(s.Positions[a], s.Positions[b])
		s.AddEdge(a, b, d)
	}
}
