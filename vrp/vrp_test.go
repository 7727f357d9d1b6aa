package vrp

import (
	"testing"

	"routex/graph"
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

func TestPlanAssignsNearestVehicle(t *testing.T) {
	g := lineGraph(10)
	vehicleIDs := []string{"v1", "v2"}
	vehicles := map[string]graph.Vehicle{
		"v1": {ID: "v1", StartNode: 0, LoadCapacity: 10},
		"v2": {ID: "v2", StartNode: 9, LoadCapacity: 10},
	}
	deliveries := map[string]graph.Delivery{
		"d1": {ID: "d1", Node: 1, Demand: 1},
		"d2": {ID: "d2", Node: 8, Demand: 1},
	}

	routes, cost := Plan(g, vehicleIDs, vehicles, deliveries)

	if len(routes["v1"]) < 2 || routes["v1"][len(routes["v1"])-1] != 1 {
		t.Fatalf("expected v1 to serve node 1, got route %v", routes["v1"])
	}
	if len(routes["v2"]) < 2 || routes["v2"][len(routes["v2"])-1] != 8 {
		t.Fatalf("expected v2 to serve node 8, got route %v", routes["v2"])
	}
	if cost <= 0 {
		t.Fatalf("expected positive total cost, got %v", cost)
	}
}

func TestPlanOverflowFallback(t *testing.T) {
	g := lineGraph(5)
	vehicleIDs := []string{"v1"}
	vehicles := map[string]graph.Vehicle{
		"v1": {ID: "v1", StartNode: 0, LoadCapacity: 1},
	}
	deliveries := map[string]graph.Delivery{
		"d1": {ID: "d1", Node: 1, Demand: 1},
		"d2": {ID: "d2", Node: 2, Demand: 1},
	}

	routes, _ := Plan(g, vehicleIDs, vehicles, deliveries)

	route := routes["v1"]
	hasD1 := false
	hasD2 := false
	for _, n := range route {
		if n == 1 {
			hasD1 = true
		}
		if n == 2 {
			hasD2 = true
		}
	}
	if !hasD1 || !hasD2 {
		t.Fatalf("expected both deliveries served via overflow, got route %v", route)
	}
}

func TestPlanSkipsUnreachableDelivery(t *testing.T) {
	g := graph.NewStore()
	g.AddNode(0, graph.Pos{})
	g.AddNode(1, graph.Pos{})
	vehicleIDs := []string{"v1"}
	vehicles := map[string]graph.Vehicle{
		"v1": {ID: "v1", StartNode: 0, LoadCapacity: 10},
	}
	deliveries := map[string]graph.Delivery{
		"d1": {ID: "d1", Node: 1, Demand: 1},
	}

	routes, cost := Plan(g, vehicleIDs, vehicles, deliveries)

	if len(routes["v1"]) != 1 {
		t.Fatalf("expected unreachable delivery to be skipped, got route %v", routes["v1"])
	}
	if cost != 0 {
		t.Fatalf("expected zero cost for an all-skipped plan, got %v", cost)
	}
}
