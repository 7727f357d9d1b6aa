/*
routex-demo wires up a routex Engine and runs it through the six
literal scenarios of the adaptive routing engine's test plan: load a
synthetic graph, register a fleet, compute an initial route, post a
road-block disruption, recompute adaptively, and read the resulting
resilience score. This mirrors the teacher's main.go (load config,
build the domain object, run it, optionally serve) and the original
Python service's demo.py, which this CLI traces step for step.
*/
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"routex/config"
	"routex/engine"
	"routex/events"
	"routex/graph"
	"routex/server"
)

var (
	serve *bool
	seed  *int64
	nodes *int
)

func init() {
	serve = flag.Bool("serve", false, "start the reference HTTP/websocket dispatcher after the demo trace")
	seed = flag.Int64("seed", 42, "PRNG seed for the demo graph")
	nodes = flag.Int("nodes", 30, "node count for the demo graph")
	flag.Parse()
}

func runDemo(eng *engine.Engine) error {
	fmt.Println("routex adaptive routing engine demo")
	fmt.Println("====================================")

	fmt.Println("\nLoading synthetic graph...")
	loaded, err := eng.LoadGraph("synthetic", *nodes, *seed)
	if err != nil {
		return err
	}
	printJSON("graph loaded", loaded)

	fmt.Println("\nRegistering vehicles...")
	vehicles := []graph.Vehicle{
		{ID: "v1", StartNode: 0, FuelCapacity: 100, LoadCapacity: 10},
		{ID: "v2", StartNode: 1, FuelCapacity: 100, LoadCapacity: 10},
	}
	vcount, err := eng.RegisterVehicles(vehicles)
	if err != nil {
		return err
	}
	printJSON("vehicles registered", map[string]int{"count": vcount})

	fmt.Println("\nRegistering deliveries...")
	deliveries := []graph.Delivery{
		{ID: "d1", Node: 5, Demand: 2},
		{ID: "d2", Node: 10, Demand: 2},
		{ID: "d3", Node: 15, Demand: 2},
	}
	dcount, err := eng.RegisterDeliveries(deliveries)
	if err != nil {
		return err
	}
	printJSON("deliveries registered", map[string]int{"count": dcount})

	fmt.Println("\nComputing initial routes...")
	initial, err := eng.InitialRoute()
	if err != nil {
		return err
	}
	printJSON("initial routes", initial)

	fmt.Println("\nPosting road-block disruption...")
	if err := eng.PostEvent(events.RoadBlock{U: 0, V: 1}); err != nil {
		return err
	}
	fmt.Println("event posted")

	fmt.Println("\nComputing adaptive routes...")
	adaptive, err := eng.AdaptiveRoute(context.Background())
	if err != nil {
		return err
	}
	printJSON("adaptive routes", adaptive)

	fmt.Println("\nComputing resilience score...")
	score := eng.ResilienceScore()
	printJSON("resilience score", map[string]float64{"score": score})

	fmt.Println("\nDemo completed successfully!")
	return nil
}

func printJSON(label string, v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(label+":", v)
		return
	}
	fmt.Printf("%s:\n%s\n", label, b)
}

func runApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	eng := engine.New(*seed, cfg)

	if err := runDemo(eng); err != nil {
		return err
	}

	if !*serve {
		return nil
	}

	srv := server.New(cfg.Addr, eng)
	fmt.Printf("\nserving on %s\n", cfg.Addr)
	return srv.Serve()
}

func main() {
	if err := runApp(); err != nil {
		log.Fatal(err)
	}
}
