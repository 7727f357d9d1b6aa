package graph

import (
	"container/heap"
)

// Dijkstra returns the shortest path from src to dst by current edge
// weight (post-blocking-penalty) and its total length. The returned
// path is nil if dst is unreachable. Used both as the VRP planner's
// distance oracle and as the orchestrator's fallback when ACO fails to
// find a path within its iteration budget.
func Dijkstra(s *Store, src, dst int) (path []int, length float64, ok bool) {
	dist := map[int]float64{src: 0}
	prev := map[int]int{}

	pq := &priorityQueue{{node: src, dist: 0}}
	visited := map[int]bool{}

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		u := item.node
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == dst {
			break
		}
		for _, v := range s.Neighbours(u) {
			w, _ := s.Weight(u, v)
			nd := dist[u] + w
			if cur, ok := dist[v]; !ok || nd < cur {
				dist[v] = nd
				prev[v] = u
				heap.Push(pq, pqItem{node: v, dist: nd})
			}
		}
	}

	d, reached := dist[dst]
	if !reached {
		return nil, 0, false
	}

	// Reconstruct path by walking prev back to src.
	path = []int{dst}
	cur := dst
	for cur != src {
		p, ok := prev[cur]
		if !ok {
			return nil, 0, false
		}
		path = append([]int{p}, path...)
		cur = p
	}
	return path, d, true
}

// PathLength sums edge weights along a sequence of adjacent nodes.
func PathLength(s *Store, path []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		w, _ := s.Weight(path[i], path[i+1])
		total += w
	}
	return total
}

type pqItem struct {
	node int
	dist float64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
