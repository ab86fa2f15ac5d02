package vgl

import (
	"log/slog"
	"unsafe"
)

// DefaultBatchCapacity is the number of primitives a batch holds
// when no capacity is configured.
const DefaultBatchCapacity = 1024

// BatchBuffer accumulates draw calls for a frame.
// Storage is allocated once and never grows; appends past capacity are
// dropped so per-draw cost stays allocation-free.
type BatchBuffer struct {
	calls  []DrawCall  // Vertex data, contiguous and pointer-free
	prims  []Primitive // Per-call transform/texture state
	cursor int         // Next free slot, also the count of valid calls

	dropped int // Appends rejected since the last Reset
	logger  *slog.Logger
}

// NewBatchBuffer creates a batch holding at most capacity primitives.
// A non-positive capacity uses DefaultBatchCapacity.
func NewBatchBuffer(capacity int) *BatchBuffer {
	if capacity <= 0 {
		capacity = DefaultBatchCapacity
	}
	return &BatchBuffer{
		calls: make([]DrawCall, capacity),
		prims: make([]Primitive, capacity),
	}
}

// Append stores one draw call at the cursor.
// The returned pointer is valid until the next Reset. When the buffer is
// full the call is dropped, a diagnostic is logged, and ok is false.
func (b *BatchBuffer) Append(call DrawCall, prim Primitive) (dc *DrawCall, ok bool) {
	if b.cursor >= len(b.calls) {
		b.dropped++
		log := b.log()
		if b.dropped == 1 {
			log.Warn("batch full, dropping draw calls", "capacity", len(b.calls))
		}
		log.Debug("dropped draw call", "cursor", b.cursor, "dropped", b.dropped)
		return nil, false
	}
	b.calls[b.cursor] = call
	b.prims[b.cursor] = prim
	dc = &b.calls[b.cursor]
	b.cursor++
	return dc, true
}

// Reset empties the batch for a new frame.
// Retains allocated storage.
func (b *BatchBuffer) Reset() {
	b.cursor = 0
	b.dropped = 0
}

// Len returns the number of valid draw calls.
func (b *BatchBuffer) Len() int { return b.cursor }

// Cap returns the fixed capacity.
func (b *BatchBuffer) Cap() int { return len(b.calls) }

// Dropped returns how many appends were rejected since the last Reset.
func (b *BatchBuffer) Dropped() int { return b.dropped }

// At returns the i-th draw call and its primitive state.
// It panics if i is not in [0, Len()).
func (b *BatchBuffer) At(i int) (*DrawCall, *Primitive) {
	if i < 0 || i >= b.cursor {
		panic("vgl: batch index out of range")
	}
	return &b.calls[i], &b.prims[i]
}

// Vertices returns the vertices of all valid calls as one contiguous slice,
// ready to be uploaded in a single transfer.
func (b *BatchBuffer) Vertices() []Vertex {
	if b.cursor == 0 {
		return nil
	}
	return unsafe.Slice(&b.calls[0].Verts[0], b.cursor*VerticesPerQuad)
}

// SizeBytes returns the GPU storage the full-capacity batch requires.
func (b *BatchBuffer) SizeBytes() int {
	return len(b.calls) * drawCallSize
}

func (b *BatchBuffer) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return Logger()
}
