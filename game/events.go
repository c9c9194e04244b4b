package game

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/plus3/suika/rank"
	"github.com/plus3/suika/world"
)

// Event is something presentation may want to react to. Events accumulate
// during steps and are handed out by Game.DrainEvents.
type Event interface {
	event()
}

// PreviewChanged is emitted whenever the two upcoming ranks change.
type PreviewChanged struct {
	Next      rank.Descriptor
	AfterNext rank.Descriptor
}

// PieceSpawned is emitted for every piece dropped by the player.
type PieceSpawned struct {
	Piece world.Piece
}

// PieceMerged is emitted when two pieces fuse. The produced piece appears in
// the registry once the step's commands are flushed.
type PieceMerged struct {
	Consumed [2]world.PieceID
	Rank     rank.Rank
	Position mgl64.Vec2
	Points   int
}

// Culled is emitted when the overflow policy wipes the container.
type Culled struct {
	Removed int
}

// GameOver is emitted once, on the transition out of Playing.
type GameOver struct {
	Session uuid.UUID
	Details *orderedmap.OrderedMap[string, any]
}

func (PreviewChanged) event() {}
func (PieceSpawned) event()   {}
func (PieceMerged) event()    {}
func (Culled) event()         {}
func (GameOver) event()       {}
