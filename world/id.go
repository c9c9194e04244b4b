package world

import "fmt"

// PieceID encodes both the slot generation (upper 32 bits) and the slot index (lower 32 bits).
// Generations start at 1, so the zero PieceID never names a piece.
type PieceID uint64

// NewPieceID creates a PieceID from a generation and slot index.
func NewPieceID(generation uint32, index uint32) PieceID {
	return PieceID(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the slot generation from the id.
func (id PieceID) Generation() uint32 {
	return uint32(id >> 32)
}

// Index extracts the slot index from the id.
func (id PieceID) Index() uint32 {
	return uint32(id & 0xFFFFFFFF)
}

func (id PieceID) String() string {
	return fmt.Sprintf("piece#%d.%d", id.Index(), id.Generation())
}
