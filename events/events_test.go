package events

import (
	"testing"

	"routex/graph"
)

func twoNodeGraph() *graph.Store {
	s := graph.NewStore()
	s.AddNode(0, graph.Pos{})
	s.AddNode(1, graph.Pos{})
	s.AddEdge(0, 1, 1.0)
	return s
}

func TestIngestRoadBlock(t *testing.T) {
	s := twoNodeGraph()
	Ingest(s, RoadBlock{U: 0, V: 1})
	if !s.IsBlocked(0, 1) {
		t.Fatalf("expected edge (0,1) to be blocked")
	}
}

func TestIngestRoadBlockMissingEdgeNoop(t *testing.T) {
	s := graph.NewStore()
	s.AddNode(0, graph.Pos{})
	s.AddNode(1, graph.Pos{})
	Ingest(s, RoadBlock{U: 0, V: 1})
	if s.IsBlocked(0, 1) {
		t.Fatalf("expected no-op when edge does not exist")
	}
}

func TestReblockCompounds(t *testing.T) {
	s := twoNodeGraph()
	before, _ := s.Weight(0, 1)

	Ingest(s, RoadBlock{U: 0, V: 1})
	once, _ := s.Weight(0, 1)

	Ingest(s, RoadBlock{U: 0, V: 1})
	twice, _ := s.Weight(0, 1)

	if once != before*blockPenalty {
		t.Fatalf("expected first block to multiply weight by %v, got %v -> %v", blockPenalty, before, once)
	}
	if twice != once*blockPenalty {
		t.Fatalf("expected re-block to compound the penalty again, got %v -> %v", once, twice)
	}
}

func TestIngestFuelShortageFloorsAtZero(t *testing.T) {
	s := twoNodeGraph()
	s.Vehicles = map[string]graph.Vehicle{
		"v1": {ID: "v1", StartNode: 0, FuelCapacity: 5},
	}
	Ingest(s, FuelShortage{VehicleID: "v1", Reduction: 10})
	if s.Vehicles["v1"].FuelCapacity != 0 {
		t.Fatalf("expected fuel floored at 0, got %v", s.Vehicles["v1"].FuelCapacity)
	}
}

func TestIngestFuelShortageUnknownVehicleNoop(t *testing.T) {
	s := twoNodeGraph()
	s.Vehicles = map[string]graph.Vehicle{}
	Ingest(s, FuelShortage{VehicleID: "ghost", Reduction: 10})
	if len(s.Vehicles) != 0 {
		t.Fatalf("expected no vehicle to be created")
	}
}

func TestIngestNewOrderInsertsAndOverwrites(t *testing.T) {
	s := twoNodeGraph()
	s.Deliveries = map[string]graph.Delivery{}

	Ingest(s, NewOrder{Delivery: graph.Delivery{ID: "d1", Node: 1, Demand: 3}})
	if s.Deliveries["d1"].Demand != 3 {
		t.Fatalf("expected delivery inserted with demand 3")
	}

	Ingest(s, NewOrder{Delivery: graph.Delivery{ID: "d1", Node: 1, Demand: 7}})
	if s.Deliveries["d1"].Demand != 7 {
		t.Fatalf("expected delivery overwritten with demand 7")
	}
}
