// Package rl implements the tabular Q-learner that closes the
// feedback loop between the orchestrator's recomputations and the
// blocked-edges state of the graph.
package rl

import (
	"container/list"

	"routex/prng"
)

// State and Action are opaque, comparable keys — canonical string
// encodings of the sorted-blocked-edges tuple and the sorted
// (vehicle-id, sorted job-id tuple) assignment respectively, built by
// the orchestrator. Using strings rather than Go's uncomparable slice
// types lets them serve directly as map keys.
type State string
type Action string

// MaxEntries bounds the Q-table's (state,action) pair count. Tabular Q
// over arbitrary tuples grows without eviction in the original design;
// this module evicts the least-recently-touched entry once the cap is
// reached, per the design note inviting implementers to bound it for
// long-running workloads.
const MaxEntries = 100_000

type key struct {
	s State
	a Action
}

// QLearner holds Q[s][a] with LRU eviction across the whole table.
type QLearner struct {
	Alpha, Gamma, Epsilon float64

	values map[key]float64
	lru    *list.List
	elem   map[key]*list.Element
	rng    *prng.Source
}

// New builds a QLearner with the given hyperparameters.
func New(alpha, gamma, epsilon float64, rng *prng.Source) *QLearner {
	return &QLearner{
		Alpha:   alpha,
		Gamma:   gamma,
		Epsilon: epsilon,
		values:  map[key]float64{},
		lru:     list.New(),
		elem:    map[key]*list.Element{},
		rng:     rng,
	}
}

// value returns Q[s][a], defaulting to 0, and touches its LRU entry.
func (q *QLearner) value(s State, a Action) float64 {
	k := key{s, a}
	v := q.values[k]
	if el, ok := q.elem[k]; ok {
		q.lru.MoveToFront(el)
	}
	return v
}

func (q *QLearner) set(s State, a Action, v float64) {
	k := key{s, a}
	q.values[k] = v
	if el, ok := q.elem[k]; ok {
		q.lru.MoveToFront(el)
		return
	}
	el := q.lru.PushFront(k)
	q.elem[k] = el
	if q.lru.Len() > MaxEntries {
		q.evictOldest()
	}
}

func (q *QLearner) evictOldest() {
	oldest := q.lru.Back()
	if oldest == nil {
		return
	}
	q.lru.Remove(oldest)
	k := oldest.Value.(key)
	delete(q.values, k)
	delete(q.elem, k)
}

// Choose returns an action for state s among actions, or the zero
// value and false if actions is empty. With probability Epsilon it
// returns a uniformly random action; otherwise it returns the
// highest-valued action, the first-seen winning ties.
func (q *QLearner) Choose(s State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return "", false
	}
	if q.rng.Float64() < q.Epsilon {
		return actions[q.rng.Intn(len(actions))], true
	}

	best := actions[0]
	bestVal := q.value(s, best)
	for _, a := range actions[1:] {
		v := q.value(s, a)
		if v > bestVal {
			best, bestVal = a, v
		}
	}
	return best, true
}

// Update applies one Bellman step:
//
//	Q[s][a] += alpha * (r + gamma * max_{a' in actionsNext} Q[s'][a'] - Q[s][a])
//
// maxNext defaults to 0 if actionsNext is empty.
func (q *QLearner) Update(s State, a Action, r float64, sNext State, actionsNext []Action) {
	maxNext := 0.0
	for i, an := range actionsNext {
		v := q.value(sNext, an)
		if i == 0 || v > maxNext {
			maxNext = v
		}
	}

	old := q.value(s, a)
	q.set(s, a, old+q.Alpha*(r+q.Gamma*maxNext-old))
}
