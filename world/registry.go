// Package world holds the live set of pieces and the machinery that mutates
// it once per step: a deferred command buffer and an ordered system scheduler.
package world

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/plus3/suika/internal/slots"
	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/rank"
)

// Piece is one fruit in the container. Its rank never changes: a merge
// destroys both inputs and creates a new piece. Body is a back-reference to
// the engine body the piece owns; Position is refreshed from it every step.
type Piece struct {
	ID       PieceID
	Rank     rank.Rank
	Position mgl64.Vec2
	Body     physics.Handle
}

// Registry is the authoritative set of live pieces. It is owned by the
// stepping goroutine and is not safe for concurrent use.
type Registry struct {
	pieces slots.Store[PieceID, Piece]
	byBody *intmap.Map[physics.Handle, PieceID]
}

// RegistryStats summarizes slot usage for the debug overlay and soak reports.
type RegistryStats struct {
	Live      int
	FreeSlots int
	Capacity  int
	Blocks    int
}

func NewRegistry() *Registry {
	return &Registry{
		byBody: intmap.New[physics.Handle, PieceID](64),
	}
}

// Insert registers a piece for an already-created body and returns it with
// its freshly assigned id.
func (r *Registry) Insert(rk rank.Rank, pos mgl64.Vec2, body physics.Handle) Piece {
	id, p := r.pieces.Insert(Piece{Rank: rk, Position: pos, Body: body})
	p.ID = id
	r.byBody.Put(body, id)
	return *p
}

// Get returns the live piece with the given id, or nil.
func (r *Registry) Get(id PieceID) *Piece {
	return r.pieces.Get(id)
}

// ByBody returns the live piece owning body h, or nil.
func (r *Registry) ByBody(h physics.Handle) *Piece {
	id, ok := r.byBody.Get(h)
	if !ok {
		return nil
	}
	return r.pieces.Get(id)
}

// Remove drops a piece from the registry. The caller removes its body from
// the engine.
func (r *Registry) Remove(id PieceID) (Piece, bool) {
	p, ok := r.pieces.Remove(id)
	if !ok {
		return Piece{}, false
	}
	r.byBody.Del(p.Body)
	return p, true
}

func (r *Registry) Len() int {
	return r.pieces.Len()
}

// All iterates live pieces in slot order. Do not insert or remove while iterating.
func (r *Registry) All() iter.Seq[*Piece] {
	return func(yield func(*Piece) bool) {
		for _, p := range r.pieces.All() {
			if !yield(p) {
				return
			}
		}
	}
}

// Snapshot copies the live pieces.
func (r *Registry) Snapshot() []Piece {
	out := make([]Piece, 0, r.pieces.Len())
	for p := range r.All() {
		out = append(out, *p)
	}
	return out
}

// Clear removes every piece and returns what was removed. Slot generations
// are kept, so ids issued before the clear never come back.
func (r *Registry) Clear() []Piece {
	removed := r.Snapshot()
	r.pieces.Reset()
	r.byBody.Clear()
	return removed
}

func (r *Registry) CollectStats() RegistryStats {
	return RegistryStats{
		Live:      r.pieces.Len(),
		FreeSlots: r.pieces.FreeSlots(),
		Capacity:  r.pieces.Capacity(),
		Blocks:    r.pieces.Blocks(),
	}
}
