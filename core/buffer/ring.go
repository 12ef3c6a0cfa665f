// Package buffer implements the per-equipment sliding window history:
// a bounded FIFO that silently evicts the oldest reading once full.
package buffer

import "petrasense/core/model"

// Ring is a fixed-capacity ring buffer of sensor readings. It is not
// safe for concurrent use; the inference engine owns each instance and
// serializes access.
type Ring struct {
	data []model.SensorReading
	head int // index of the oldest element
	size int
}

// NewRing creates a buffer holding at most capacity readings.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{data: make([]model.SensorReading, capacity)}
}

// Append adds a reading in O(1), evicting the oldest when full.
func (r *Ring) Append(rd model.SensorReading) {
	if r.size < len(r.data) {
		r.data[(r.head+r.size)%len(r.data)] = rd
		r.size++
		return
	}
	r.data[r.head] = rd
	r.head = (r.head + 1) % len(r.data)
}

// Len returns the number of buffered readings.
func (r *Ring) Len() int { return r.size }

// Cap returns the buffer capacity.
func (r *Ring) Cap() int { return len(r.data) }

// Last returns the most recent n readings in arrival order. When fewer
// than n readings exist it returns nil.
func (r *Ring) Last(n int) []model.SensorReading {
	if n <= 0 || r.size < n {
		return nil
	}
	out := make([]model.SensorReading, n)
	start := r.size - n
	for i := 0; i < n; i++ {
		out[i] = r.data[(r.head+start+i)%len(r.data)]
	}
	return out
}

// Snapshot returns all buffered readings in arrival order.
func (r *Ring) Snapshot() []model.SensorReading {
	out := make([]model.SensorReading, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.data[(r.head+i)%len(r.data)]
	}
	return out
}
