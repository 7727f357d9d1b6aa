// Package server is the reference request dispatcher around an Engine:
// illustrative wiring, not the core itself (the request surface is a
// declared collaborator, per spec.md §1, not a module this spec
// defines). It exposes the six §6 operations as JSON endpoints and
// pushes the latest adaptive_route segment diagnostics to a connected
// websocket client, adapted from the teacher's server/server.go
// (same ping/pong and close-sequence constants, same read-pump-drives-
// pong-handler shape, single-client prototype scope kept on purpose).
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"

	"routex/engine"
	"routex/events"
	"routex/graph"
	"routex/orchestrator"
)

var upgrader = websocket.Upgrader{}

const (
	// Time allowed to write a message to the peer.
	writeWait = 1 * time.Second
	// Maximum message size allowed from peer.
	maxMessageSize = 8192
	// Time to wait before force close on connection.
	closeGracePeriod = 10 * time.Second
)

// Server serializes every call into the Engine behind a single mutex,
// satisfying §5's "single writer, no concurrent readers" requirement
// for a host runtime that multiplexes requests. Like the teacher's
// Server, this publishes to one connected websocket client at a time;
// a production dispatcher would fan segment updates out to many.
type Server struct {
	addr string

	mu  sync.Mutex
	eng *engine.Engine

	segUpdates chan map[string][]orchestrator.Segment
}

// New wraps eng behind the reference HTTP/websocket dispatcher.
func New(addr string, eng *engine.Engine) *Server {
	return &Server{
		addr:       addr,
		eng:        eng,
		segUpdates: make(chan map[string][]orchestrator.Segment, 1),
	}
}

// Serve blocks, serving the dispatcher's routes until the process
// exits or ListenAndServe errors.
func (srv *Server) Serve() (err error) {
	r := mux.NewRouter()
	r.HandleFunc("/graph/load", srv.handleLoadGraph).Methods(http.MethodPost)
	r.HandleFunc("/vehicles", srv.handleRegisterVehicles).Methods(http.MethodPost)
	r.HandleFunc("/deliveries", srv.handleRegisterDeliveries).Methods(http.MethodPost)
	r.HandleFunc("/route/initial", srv.handleInitialRoute).Methods(http.MethodPost)
	r.HandleFunc("/events", srv.handlePostEvent).Methods(http.MethodPost)
	r.HandleFunc("/route/adaptive", srv.handleAdaptiveRoute).Methods(http.MethodPost)
	r.HandleFunc("/score/resilience", srv.handleResilienceScore).Methods(http.MethodGet)
	r.HandleFunc("/ws/segments", srv.handleSegmentsWebsocket)

	if err = http.ListenAndServe(srv.addr, r); err != nil {
		err = fmt.Errorf("serve: %w", err)
	}
	return
}

type loadGraphRequest struct {
	Mode   string `json:"mode"`
	NNodes int    `json:"n_nodes"`
	Seed   int64  `json:"seed"`
}

func (srv *Server) handleLoadGraph(w http.ResponseWriter, r *http.Request) {
	var req loadGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	srv.mu.Lock()
	result, err := srv.eng.LoadGraph(req.Mode, req.NNodes, req.Seed)
	srv.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, result)
}

func (srv *Server) handleRegisterVehicles(w http.ResponseWriter, r *http.Request) {
	var vehicles []graph.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicles); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	srv.mu.Lock()
	count, err := srv.eng.RegisterVehicles(vehicles)
	srv.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]int{"count": count})
}

func (srv *Server) handleRegisterDeliveries(w http.ResponseWriter, r *http.Request) {
	var deliveries []graph.Delivery
	if err := json.NewDecoder(r.Body).Decode(&deliveries); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	srv.mu.Lock()
	count, err := srv.eng.RegisterDeliveries(deliveries)
	srv.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]int{"count": count})
}

func (srv *Server) handleInitialRoute(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	result, err := srv.eng.InitialRoute()
	srv.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, result)
}

type eventRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func (srv *Server) handlePostEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ev, ok := decodeEvent(req)
	if !ok {
		writeJSON(w, map[string]bool{"ok": true}) // unknown type: no-op, per §4.6
		return
	}

	srv.mu.Lock()
	err := srv.eng.PostEvent(ev)
	srv.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func decodeEvent(req eventRequest) (events.Event, bool) {
	switch req.Type {
	case "road_block":
		var p struct{ U, V int }
		if json.Unmarshal(req.Payload, &p) != nil {
			return nil, false
		}
		return events.RoadBlock{U: p.U, V: p.V}, true
	case "fuel_shortage":
		var p struct {
			VehicleID string  `json:"vehicle_id"`
			Reduction float64 `json:"reduction"`
		}
		if json.Unmarshal(req.Payload, &p) != nil {
			return nil, false
		}
		return events.FuelShortage{VehicleID: p.VehicleID, Reduction: p.Reduction}, true
	case "new_order":
		var d graph.Delivery
		if json.Unmarshal(req.Payload, &d) != nil {
			return nil, false
		}
		return events.NewOrder{Delivery: d}, true
	default:
		return nil, false
	}
}

func (srv *Server) handleAdaptiveRoute(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	result, err := srv.eng.AdaptiveRoute(r.Context())
	srv.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	select {
	case srv.segUpdates <- result.Segments:
	default:
		// drop: no client connected, or client hasn't drained the last push yet
	}

	writeJSON(w, result)
}

func (srv *Server) handleResilienceScore(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	score := srv.eng.ResilienceScore()
	srv.mu.Unlock()
	writeJSON(w, map[string]float64{"score": score})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("write response:", err)
	}
}

// handleSegmentsWebsocket upgrades the connection and pushes every
// subsequent adaptive_route's segment diagnostics until the client
// disconnects. TODO: as in the teacher, this assumes a single client;
// fanning segUpdates out to many connections needs a broadcast, not a
// single channel.
func (srv *Server) handleSegmentsWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		log.Println("upgrade:", err)
		return
	}

	defer srv.closeWebsocket(ws)
	srv.publishSegmentUpdates(r.Context(), ws)
}

// publishSegmentUpdates mirrors the teacher's publishEleUpdates: a
// ticker drives pings, a read-pump goroutine exists solely so the
// gorilla/websocket library's pong handler actually gets invoked, and
// write failures or missed pongs tear down the publish loop.
func (srv *Server) publishSegmentUpdates(ctx context.Context, ws *websocket.Conn) {
	pingResolution := time.Millisecond * 500
	pubCtx, cancelPub := context.WithCancel(ctx)
	defer cancelPub()
	pinger := channerics.NewTicker(pubCtx.Done(), pingResolution)
	lastPong := time.Now()

	pong := make(chan struct{})
	defer close(pong)
	ws.SetPongHandler(func(string) error {
		pong <- struct{}{}
		return nil
	})

	go func() {
		for {
			select {
			case <-pubCtx.Done():
				return
			default:
				if _, _, err := ws.ReadMessage(); err != nil {
					cancelPub()
					if isClosure(err) {
						return
					}
					log.Println("read pump:", err)
				}
			}
		}
	}()

	for {
		select {
		case <-pubCtx.Done():
			return
		case <-pinger:
			if time.Since(lastPong) > pingResolution*2 {
				return
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				if isError(err) {
					log.Printf("ping failed: %T %v", err, err)
				}
				return
			}
		case <-pong:
			lastPong = time.Now()
		case segs := <-srv.segUpdates:
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteJSON(segs); err != nil {
				if isError(err) {
					log.Printf("publish failed: %T %v", err, err)
				}
				return
			}
		}
	}
}

func isError(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func (srv *Server) closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	ws.Close()
}
