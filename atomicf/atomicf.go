// Package atomicf provides a lock-free float64 accumulator, adapted
// from the teacher project's atomic_float package. It holds the ACO
// pathfinder's pheromone values, which the per-ant goroutines read
// while they walk; evaporation and deposit run after the walks of an
// iteration have finished.
package atomicf

import (
	"math"
	"sync/atomic"
	"unsafe"
)

// Float64 encapsulates a float64 for non-locking atomic operations.
// As in the teacher's version: minimize critical regions, never hold
// an unsafe.Pointer derived from it across more than a few lines, and
// don't trust this to be anything but "passes the race detector."
type Float64 struct {
	val float64
}

// New returns a Float64 initialised to val.
func New(val float64) *Float64 {
	return &Float64{val: val}
}

// Load atomically reads the float64.
func (f *Float64) Load() float64 {
	bits := atomic.LoadUint64((*uint64)(unsafe.Pointer(&f.val)))
	return math.Float64frombits(bits)
}

// Add spins a compare-and-swap loop until the addend is applied
// against whatever the current value is at swap time — unlike a naive
// read-add-write, a concurrent writer's update is never silently lost.
func (f *Float64) Add(addend float64) (newVal float64) {
	for {
		old := f.Load()
		newVal = old + addend
		if atomic.CompareAndSwapUint64(
			(*uint64)(unsafe.Pointer(&f.val)),
			math.Float64bits(old),
			math.Float64bits(newVal),
		) {
			return newVal
		}
	}
}

// Store atomically overwrites the float64.
func (f *Float64) Store(newVal float64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(&f.val)), math.Float64bits(newVal))
}
