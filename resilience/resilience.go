// Package resilience computes the scalar health proxy over the
// current graph/fleet/route state.
package resilience

import (
	"math"

	"routex/graph"
)

// Score returns |deliveries| / (1 + 0.01*sum(|route|) + |blocked_edges|),
// rounded to 4 decimals. It is monotone non-increasing in the blocked
// edge count with all else held equal, since the denominator only
// grows as blocks accumulate.
func Score(s *graph.Store) float64 {
	routeLen := 0
	for _, route := range s.LastRoutes {
		routeLen += len(route)
	}

	denom := 1.0 + 0.01*float64(routeLen) + float64(len(s.Blocked))
	raw := float64(len(s.Deliveries)) / denom

	return math.Round(raw*10000) / 10000
}
