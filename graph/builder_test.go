package graph

import (
	"reflect"
	"testing"
)

func TestBuildDeterministic(t *testing.T) {
	a, err := Build("synthetic", 30, 42)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := Build("synthetic", 30, 42)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !reflect.DeepEqual(a.Positions, b.Positions) {
		t.Fatalf("positions differ across builds with the same seed")
	}

	for _, u := range a.NodeIDs() {
		for _, v := range a.Neighbours(u) {
			wa, _ := a.Weight(u, v)
			wb, okB := b.Weight(u, v)
			if !okB || wa != wb {
				t.Fatalf("edge (%d,%d) weight differs: %v vs %v", u, v, wa, wb)
			}
		}
	}
}

func TestBuildConnected(t *testing.T) {
	g, err := Build("synthetic", 30, 42)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !Connected(g) {
		t.Fatalf("expected synthetic graph to be connected")
	}
	if g.NodeCount() != 30 {
		t.Fatalf("expected 30 nodes, got %d", g.NodeCount())
	}
	if g.EdgeCount() == 0 {
		t.Fatalf("expected at least one edge")
	}
}

func TestBuildUnsupportedMode(t *testing.T) {
	if _, err := Build("geojson", 10, 1); err == nil {
		t.Fatalf("expected UnsupportedMode error")
	}
}
