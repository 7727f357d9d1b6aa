// Package events defines the tagged event variant applied to a graph
// store by the ingester, replacing the free-form payload bag of the
// original service with three closed, typed cases.
package events

import "routex/graph"

// Event is a closed tagged union: RoadBlock, FuelShortage, or NewOrder.
// Unrecognised payloads never reach this type — the dispatcher decides
// what to construct; Ingest itself does not parse wire formats.
type Event interface {
	isEvent()
}

// RoadBlock marks the edge (U,V) as blocked, if it exists.
type RoadBlock struct {
	U, V int
}

func (RoadBlock) isEvent() {}

// FuelShortage reduces a vehicle's fuel capacity by Reduction, floored
// at zero. Unknown vehicle ids are a silent no-op.
type FuelShortage struct {
	VehicleID string
	Reduction float64
}

func (FuelShortage) isEvent() {}

// NewOrder inserts or overwrites a delivery by id.
type NewOrder struct {
	Delivery graph.Delivery
}

func (NewOrder) isEvent() {}

// blockPenalty is the multiplicative weight penalty applied to a
// blocked edge. Re-blocking an already-blocked edge compounds the
// penalty again — see DESIGN.md's resolution of the spec's open
// question on re-blocking; membership in the blocked set is idempotent,
// weight is not.
const blockPenalty = 10.0

// Ingest applies ev to s. Event types not among the three cases above
// cannot be constructed, so there is no "unknown type" branch; a caller
// translating an untyped wire event into one of these cases is where
// unknown-type-is-a-no-op (per the spec) belongs.
func Ingest(s *graph.Store, ev Event) {
	switch e := ev.(type) {
	case RoadBlock:
		if s.HasEdge(e.U, e.V) {
			s.Block(e.U, e.V, blockPenalty)
		}
	case FuelShortage:
		v, ok := s.Vehicles[e.VehicleID]
		if !ok {
			return
		}
		v.FuelCapacity -= e.Reduction
		if v.FuelCapacity < 0 {
			v.FuelCapacity = 0
		}
		s.Vehicles[e.VehicleID] = v
	case NewOrder:
		s.Deliveries[e.Delivery.ID] = e.Delivery
	}
}
