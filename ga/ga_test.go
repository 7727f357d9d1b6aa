package ga

import (
	"context"
	"testing"

	"routex/graph"
	"routex/prng"
)

func fixtureFleet() ([]string, map[string]graph.Vehicle, map[string]graph.Delivery) {
	vehicleIDs := []string{"v1", "v2"}
	vehicles := map[string]graph.Vehicle{
		"v1": {ID: "v1", StartNode: 0, LoadCapacity: 5},
		"v2": {ID: "v2", StartNode: 1, LoadCapacity: 5},
	}
	jobs := map[string]graph.Delivery{
		"d1": {ID: "d1", Node: 2, Demand: 1},
		"d2": {ID: "d2", Node: 3, Demand: 1},
		"d3": {ID: "d3", Node: 4, Demand: 1},
		"d4": {ID: "d4", Node: 5, Demand: 1},
	}
	return vehicleIDs, vehicles, jobs
}

func TestPlanAssignsEveryJobExactlyOnce(t *testing.T) {
	vehicleIDs, vehicles, jobs := fixtureFleet()
	p := New(vehicleIDs, vehicles, jobs, Default(), prng.New(3))

	chrom := p.Plan(context.Background())

	seen := map[string]int{}
	for _, ids := range chrom {
		for _, jid := range ids {
			seen[jid]++
		}
	}
	if len(seen) != len(jobs) {
		t.Fatalf("expected all %d jobs assigned, got %d distinct", len(jobs), len(seen))
	}
	for jid, count := range seen {
		if count != 1 {
			t.Fatalf("job %s assigned %d times, expected 1", jid, count)
		}
	}
}

func TestPlanDeterministic(t *testing.T) {
	vehicleIDs, vehicles, jobs := fixtureFleet()
	params := Params{Population: 10, Generations: 5, MutateRate: 0.3}

	a := New(vehicleIDs, vehicles, jobs, params, prng.New(9)).Plan(context.Background())
	b := New(vehicleIDs, vehicles, jobs, params, prng.New(9)).Plan(context.Background())

	for _, vid := range vehicleIDs {
		if len(a[vid]) != len(b[vid]) {
			t.Fatalf("vehicle %s route length differs across runs with same seed", vid)
		}
		for i := range a[vid] {
			if a[vid][i] != b[vid][i] {
				t.Fatalf("vehicle %s job order diverges: %v vs %v", vid, a[vid], b[vid])
			}
		}
	}
}

func TestFitnessPenalisesOverflow(t *testing.T) {
	vehicleIDs, vehicles, jobs := fixtureFleet()
	// Capacity 2 lets the balanced split fit exactly, while all four
	// unit-demand jobs on v1 overflow it by 2.
	vehicles["v1"] = graph.Vehicle{ID: "v1", StartNode: 0, LoadCapacity: 2}
	vehicles["v2"] = graph.Vehicle{ID: "v2", StartNode: 1, LoadCapacity: 2}
	p := New(vehicleIDs, vehicles, jobs, Default(), prng.New(1))

	balanced := Chromosome{"v1": {"d1", "d2"}, "v2": {"d3", "d4"}}
	overflowing := Chromosome{"v1": {"d1", "d2", "d3", "d4"}, "v2": nil}

	if p.fitness(overflowing) >= p.fitness(balanced) {
		t.Fatalf("expected overflowing chromosome to score worse: overflow=%v balanced=%v",
			p.fitness(overflowing), p.fitness(balanced))
	}
}

func TestCrossoverAssignsEveryJobOnce(t *testing.T) {
	vehicleIDs, vehicles, jobs := fixtureFleet()
	p := New(vehicleIDs, vehicles, jobs, Default(), prng.New(5))

	a := Chromosome{"v1": {"d1", "d2"}, "v2": {"d3", "d4"}}
	b := Chromosome{"v1": {"d1", "d3"}, "v2": {"d2", "d4"}}

	child := p.crossover(a, b)

	seen := map[string]int{}
	for _, ids := range child {
		for _, jid := range ids {
			seen[jid]++
		}
	}
	if len(seen) != len(jobs) {
		t.Fatalf("expected all jobs present in child, got %d distinct", len(seen))
	}
	for jid, count := range seen {
		if count != 1 {
			t.Fatalf("job %s appears %d times in child, expected 1", jid, count)
		}
	}
}
