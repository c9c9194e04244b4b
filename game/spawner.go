package game

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/world"
)

type dropRequest struct {
	x, y float64
}

// Spawner turns player drops into pieces. Drops may be requested from any
// goroutine; they are applied at the start of the next step, before the
// engine moves, so a new piece never shows up in a collision batch it did
// not take part in.
type Spawner struct {
	state *State

	mu      sync.Mutex
	pending []dropRequest
}

func NewSpawner(state *State) *Spawner {
	return &Spawner{state: state}
}

// Request queues a drop at (x, y) for the next step.
func (sp *Spawner) Request(x, y float64) {
	sp.mu.Lock()
	sp.pending = append(sp.pending, dropRequest{x: x, y: y})
	sp.mu.Unlock()
}

// Discard forgets drops that have not been applied yet.
func (sp *Spawner) Discard() {
	sp.mu.Lock()
	sp.pending = sp.pending[:0]
	sp.mu.Unlock()
}

// TrySpawn consumes the next rank from the queue and drops a piece of that
// rank at x. The piece is never created below the ceiling line: its center
// is raised to ceilingY - radius when requestedY is lower.
func (sp *Spawner) TrySpawn(x, requestedY float64) (world.Piece, error) {
	s := sp.state
	if s.Phase == Over {
		return world.Piece{}, ErrGameOver
	}

	rk, err := s.Queue.Advance()
	if err != nil {
		return world.Piece{}, fmt.Errorf("failed to spawn piece: %w", err)
	}

	desc, err := s.Table.Describe(rk)
	if err != nil {
		return world.Piece{}, fmt.Errorf("failed to spawn piece: %w", err)
	}

	y := math.Min(requestedY, s.Container.CeilingY-desc.Radius)
	p, err := s.Place(rk, mgl64.Vec2{x, y}, physics.BodyDef{
		Density:     DropDensity,
		Restitution: DropRestitution,
		Friction:    DropFriction,
	})
	if err != nil {
		return world.Piece{}, err
	}

	s.Emit(PieceSpawned{Piece: p})
	s.Logger.Debug("piece spawned", "piece", p.ID, "rank", p.Rank, "x", x, "y", y)
	return p, nil
}

func (sp *Spawner) Execute(frame *world.Frame) {
	sp.mu.Lock()
	drops := sp.pending
	sp.pending = nil
	sp.mu.Unlock()

	for _, d := range drops {
		if _, err := sp.TrySpawn(d.x, d.y); err != nil {
			if errors.Is(err, ErrGameOver) {
				sp.state.Logger.Debug("drop ignored", "error", err)
				continue
			}
			sp.state.Logger.Error("drop failed", "error", err)
		}
	}
}
