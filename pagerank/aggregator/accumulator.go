package aggregator

import (
	"math"
	"sync/atomic"
)

// Float64Accumulator implements a concurrent-safe accumulator for float64 values.
type Float64Accumulator struct {
	bits uint64
}

// Get returns the current value of the accumulator.
func (a *Float64Accumulator) Get() float64 {
	return math.Float64frombits(atomic.LoadUint64(&a.bits))
}

// Set the current value of the accumulator.
func (a *Float64Accumulator) Set(v float64) {
	atomic.StoreUint64(&a.bits, math.Float64bits(v))
}

// Aggregate adds a float64 value to the accumulator.
func (a *Float64Accumulator) Aggregate(v float64) {
	for {
		oldBits := atomic.LoadUint64(&a.bits)
		newV := math.Float64frombits(oldBits) + v
		if atomic.CompareAndSwapUint64(&a.bits, oldBits, math.Float64bits(newV)) {
			return
		}
	}
}

// Float64MaxAccumulator implements a concurrent-safe accumulator that keeps
// track of the largest float64 value it has been given.
type Float64MaxAccumulator struct {
	bits uint64
}

// Get returns the largest value observed since the last call to Set.
func (a *Float64MaxAccumulator) Get() float64 {
	return math.Float64frombits(atomic.LoadUint64(&a.bits))
}

// Set the current value of the accumulator.
func (a *Float64MaxAccumulator) Set(v float64) {
	atomic.StoreUint64(&a.bits, math.Float64bits(v))
}

// Aggregate replaces the accumulator value with v if v is larger.
func (a *Float64MaxAccumulator) Aggregate(v float64) {
	for {
		oldBits := atomic.LoadUint64(&a.bits)
		if math.Float64frombits(oldBits) >= v {
			return
		}
		if atomic.CompareAndSwapUint64(&a.bits, oldBits, math.Float64bits(v)) {
			return
		}
	}
}
