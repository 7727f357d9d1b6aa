// Package engine owns the explicit Engine value that composes the
// graph store, fleet, event ingester, GA/ACO/Q-learning orchestrator,
// initial planner, and resilience scorer into the six operations a
// surrounding dispatcher calls. Per the spec's redesign note this
// replaces a process-wide global record: a caller that wants per-tenant
// isolation simply builds one Engine per tenant.
package engine

import (
	"context"
	"sort"

	"routex/aco"
	"routex/config"
	"routex/events"
	"routex/graph"
	"routex/orchestrator"
	"routex/prng"
	"routex/resilience"
	"routex/rl"
	"routex/vrp"
)

// Engine is not internally synchronized (§5) — a caller multiplexing
// requests across goroutines must serialize calls itself; the server
// package does this with a single mutex.
type Engine struct {
	graph *graph.Store
	orch  *orchestrator.Orchestrator
	rng   *prng.Source

	defaultGraphN int
}

// New returns an Engine with no graph loaded yet, a fresh
// process-lifetime Q-table, and an ACO colony builder, all configured
// from cfg. RLAlpha/RLGamma/RLEpsilon seed the Q-learner and
// ACOAnts/ACOIters size every adaptive-route Colony; cfg.DefaultGraphN
// is the node count LoadGraph falls back to when a caller doesn't name
// one. GAPop/GAGens are not read here — see DESIGN.md's resolution of
// the spec's config-vs-hard-coded GA params open question.
func New(seed int64, cfg *config.Config) *Engine {
	rng := prng.New(seed)
	ql := rl.New(cfg.RLAlpha, cfg.RLGamma, cfg.RLEpsilon, rng)

	acoParams := aco.Default()
	acoParams.Ants = cfg.ACOAnts
	acoParams.Iterations = cfg.ACOIters

	return &Engine{
		orch:          orchestrator.New(ql, rng, acoParams),
		rng:           rng,
		defaultGraphN: cfg.DefaultGraphN,
	}
}

// LoadGraphResult is the response shape for LoadGraph.
type LoadGraphResult struct {
	Nodes, Edges int
}

// LoadGraph builds a fresh graph store, discarding fleet/deliveries and
// any previously computed routes — a new graph invalidates them.
// nNodes <= 0 falls back to the configured DefaultGraphN.
func (e *Engine) LoadGraph(mode string, nNodes int, seed int64) (LoadGraphResult, error) {
	if nNodes <= 0 {
		nNodes = e.defaultGraphN
	}
	g, err := graph.Build(mode, nNodes, seed)
	if err != nil {
		return LoadGraphResult{}, newError("load_graph", UnsupportedMode)
	}
	e.graph = g
	return LoadGraphResult{Nodes: g.NodeCount(), Edges: g.EdgeCount()}, nil
}

// RegisterVehicles replaces the entire fleet and returns its size.
func (e *Engine) RegisterVehicles(vehicles []graph.Vehicle) (int, error) {
	if e.graph == nil {
		return 0, newError("register_vehicles", GraphNotLoaded)
	}
	e.graph.Vehicles = make(map[string]graph.Vehicle, len(vehicles))
	for _, v := range vehicles {
		e.graph.Vehicles[v.ID] = v
	}
	return len(vehicles), nil
}

// RegisterDeliveries replaces the entire delivery set and returns its
// size.
func (e *Engine) RegisterDeliveries(deliveries []graph.Delivery) (int, error) {
	if e.graph == nil {
		return 0, newError("register_deliveries", GraphNotLoaded)
	}
	e.graph.Deliveries = make(map[string]graph.Delivery, len(deliveries))
	for _, d := range deliveries {
		e.graph.Deliveries[d.ID] = d
	}
	return len(deliveries), nil
}

// InitialRouteResult is the response shape for InitialRoute and
// AdaptiveRoute's routes/cost fields.
type InitialRouteResult struct {
	Routes    map[string][]int
	TotalCost float64
}

// InitialRoute runs the greedy VRP heuristic and persists its routes as
// the store's last routes.
func (e *Engine) InitialRoute() (InitialRouteResult, error) {
	if e.graph == nil {
		return InitialRouteResult{}, newError("initial_route", GraphNotLoaded)
	}
	if len(e.graph.Vehicles) == 0 || len(e.graph.Deliveries) == 0 {
		return InitialRouteResult{}, newError("initial_route", FleetEmpty)
	}

	vehicleIDs := make([]string, 0, len(e.graph.Vehicles))
	for id := range e.graph.Vehicles {
		vehicleIDs = append(vehicleIDs, id)
	}
	sort.Strings(vehicleIDs)

	routes, cost := vrp.Plan(e.graph, vehicleIDs, e.graph.Vehicles, e.graph.Deliveries)
	e.graph.LastRoutes = routes

	return InitialRouteResult{Routes: routes, TotalCost: cost}, nil
}

// PostEvent applies an already-typed event to the graph store. Unknown
// event *kinds* are a dispatcher-layer concern (translating an untyped
// wire payload into one of events.Event's three cases); by the time an
// events.Event reaches here it is always one of the three, so there is
// no unknown-kind error; the only error is GraphNotLoaded.
func (e *Engine) PostEvent(ev events.Event) error {
	if e.graph == nil {
		return newError("post_event", GraphNotLoaded)
	}
	events.Ingest(e.graph, ev)
	return nil
}

// AdaptiveRouteResult is the response shape for AdaptiveRoute.
type AdaptiveRouteResult struct {
	Routes    map[string][]int
	TotalCost float64
	Segments  map[string][]orchestrator.Segment
}

// AdaptiveRoute runs GA -> per-vehicle ACO chaining -> Q-update and
// persists the produced routes.
func (e *Engine) AdaptiveRoute(ctx context.Context) (AdaptiveRouteResult, error) {
	if e.graph == nil {
		return AdaptiveRouteResult{}, newError("adaptive_route", GraphNotLoaded)
	}
	result := e.orch.Recompute(ctx, e.graph)
	return AdaptiveRouteResult{Routes: result.Routes, TotalCost: result.TotalCost, Segments: result.Segments}, nil
}

// ResilienceScore reads the current scalar health proxy. It never
// errors: a nil graph simply scores 0 deliveries over blocks of 0,
// which is a well-defined (if uninteresting) score.
func (e *Engine) ResilienceScore() float64 {
	if e.graph == nil {
		return 0
	}
	return resilience.Score(e.graph)
}

// Graph exposes the underlying store for callers (tests, the demo CLI,
// the reference server) that need read access beyond the six
// operations above — e.g. to report node/edge counts post-load.
func (e *Engine) Graph() *graph.Store { return e.graph }
