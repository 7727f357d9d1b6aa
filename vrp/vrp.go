// Package vrp implements the initial planner: a greedy nearest-by-
// shortest-path assignment of deliveries to vehicles, respecting load
// capacity where possible and overflowing it, rather than failing,
// when no vehicle qualifies.
package vrp

import (
	"sort"

	"routex/graph"
)

type spEntry struct {
	path []int
	dist float64
}

type spCache map[string]map[string]spEntry

// Plan returns, for every vehicle, its route starting at its own start
// node, and the sum of shortest-path weights actually traversed.
func Plan(g *graph.Store, vehicleIDs []string, vehicles map[string]graph.Vehicle, deliveries map[string]graph.Delivery) (routes map[string][]int, totalCost float64) {
	sp := buildSPCache(g, vehicleIDs, vehicles, deliveries)

	remaining := map[string]float64{}
	routes = map[string][]int{}
	for _, vid := range vehicleIDs {
		remaining[vid] = vehicles[vid].LoadCapacity
		routes[vid] = []int{vehicles[vid].StartNode}
	}

	for _, d := range sortedByDemandDesc(deliveries) {
		vid, chosen, ok := sp.bestQualifying(vehicleIDs, remaining, d)
		if !ok {
			vid, chosen, ok = sp.mostRemainingCapacity(vehicleIDs, remaining, d)
		}
		if !ok {
			continue // no qualifying vehicle and not the fallback vehicle reaches dst; delivery is skipped
		}

		routes[vid] = append(routes[vid], chosen.path[1:]...)
		remaining[vid] -= d.Demand
		totalCost += chosen.dist
	}

	return routes, totalCost
}

func buildSPCache(g *graph.Store, vehicleIDs []string, vehicles map[string]graph.Vehicle, deliveries map[string]graph.Delivery) spCache {
	sp := spCache{}
	for _, vid := range vehicleIDs {
		start := vehicles[vid].StartNode
		sp[vid] = map[string]spEntry{}
		for did, d := range deliveries {
			path, dist, ok := graph.Dijkstra(g, start, d.Node)
			if !ok {
				continue
			}
			sp[vid][did] = spEntry{path: path, dist: dist}
		}
	}
	return sp
}

func sortedByDemandDesc(deliveries map[string]graph.Delivery) []graph.Delivery {
	ordered := make([]graph.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		ordered = append(ordered, d)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Demand != ordered[j].Demand {
			return ordered[i].Demand > ordered[j].Demand
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// bestQualifying picks, among vehicles with enough remaining capacity,
// the one whose cached shortest path to d.Node is shortest.
func (sp spCache) bestQualifying(vehicleIDs []string, remaining map[string]float64, d graph.Delivery) (vid string, chosen spEntry, ok bool) {
	for _, candidate := range vehicleIDs {
		if remaining[candidate] < d.Demand {
			continue
		}
		entry, has := sp[candidate][d.ID]
		if !has {
			continue
		}
		if !ok || entry.dist < chosen.dist {
			vid, chosen, ok = candidate, entry, true
		}
	}
	return
}

// mostRemainingCapacity is the overflow fallback: no vehicle had
// enough capacity, so assign to whichever has the most (capacity then
// goes negative, a deliberate violation surfaced in the fleet's
// subsequent remaining-capacity accounting rather than rejected here).
func (sp spCache) mostRemainingCapacity(vehicleIDs []string, remaining map[string]float64, d graph.Delivery) (vid string, chosen spEntry, ok bool) {
	best := ""
	bestCap := 0.0
	for i, candidate := range vehicleIDs {
		if i == 0 || remaining[candidate] > bestCap {
			best, bestCap = candidate, remaining[candidate]
		}
	}
	entry, has := sp[best][d.ID]
	return best, entry, has
}
