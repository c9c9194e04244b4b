package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/plus3/suika/rank"
)

// SpawnRequest describes a piece to create when commands are flushed.
type SpawnRequest struct {
	Rank     rank.Rank
	Position mgl64.Vec2
}

// Applier carries out structural changes on behalf of Commands.Flush.
// Implementations keep the registry and the physics engine in step.
type Applier interface {
	DeletePiece(id PieceID)
	SpawnPiece(req SpawnRequest)
}

// Commands buffers structural changes requested while a step is running so
// the registry and engine are never mutated mid-step. Pieces can be claimed
// so that two requests in one step never consume the same piece.
type Commands struct {
	deletes []PieceID
	spawns  []SpawnRequest
	defers  []func()
	claimed *intmap.Set[PieceID]
}

func NewCommands() *Commands {
	return &Commands{
		claimed: intmap.NewSet[PieceID](16),
	}
}

// Claim marks a piece as consumed for this step. It returns false if the
// piece was already claimed.
func (c *Commands) Claim(id PieceID) bool {
	if c.claimed.Has(id) {
		return false
	}
	c.claimed.Add(id)
	return true
}

func (c *Commands) Claimed(id PieceID) bool {
	return c.claimed.Has(id)
}

// Delete queues a piece deletion.
func (c *Commands) Delete(id PieceID) {
	c.deletes = append(c.deletes, id)
}

// Spawn queues a piece creation.
func (c *Commands) Spawn(req SpawnRequest) {
	c.spawns = append(c.spawns, req)
}

// Defer queues a function to run after all deletions and spawns.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending reports the number of queued operations.
func (c *Commands) Pending() int {
	return len(c.deletes) + len(c.spawns) + len(c.defers)
}

// Flush applies every queued deletion, then every spawn, then every deferred
// function, and resets the buffer. Deleting the same piece twice applies once.
func (c *Commands) Flush(a Applier) {
	deleted := intmap.NewSet[PieceID](len(c.deletes))
	for _, id := range c.deletes {
		if deleted.Has(id) {
			continue
		}
		deleted.Add(id)
		a.DeletePiece(id)
	}

	for _, req := range c.spawns {
		a.SpawnPiece(req)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.deletes = c.deletes[:0]
	c.spawns = c.spawns[:0]
	c.defers = c.defers[:0]
	c.claimed.Clear()
}
