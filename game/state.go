// Package game is the merge-progression state machine: it turns player drops
// and per-step collision batches into piece spawns, merges and the end of
// the game, while keeping the registry and the physics engine in step.
package game

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/rank"
	"github.com/plus3/suika/world"
)

type Phase uint8

const (
	Playing Phase = iota
	Over
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Over:
		return "game over"
	default:
		return "unknown"
	}
}

// Material of pieces dropped by the player. Merged pieces use engine defaults.
const (
	DropDensity     = 0.001
	DropRestitution = 0.6
	DropFriction    = 0.5
)

// State is everything one game owns. It is mutated only from the goroutine
// that steps the game.
type State struct {
	Phase     Phase
	Table     *rank.Table
	Queue     *SpawnQueue
	Pieces    *world.Registry
	Bounds    Boundary
	Engine    physics.Engine
	Container Container
	Session   uuid.UUID
	Score     int
	Logger    *slog.Logger

	events []Event
}

var _ world.Applier = (*State)(nil)

// Emit appends an event for presentation.
func (s *State) Emit(ev Event) {
	s.events = append(s.events, ev)
}

func (s *State) drainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

func (s *State) watchQueue() {
	s.Queue.Subscribe(func(next, afterNext rank.Rank) {
		s.Emit(PreviewChanged{
			Next:      s.Table.MustDescribe(next),
			AfterNext: s.Table.MustDescribe(afterNext),
		})
	})
}

// Place creates a body for a piece of rank rk at pos, adds it to the engine
// and registers the piece. Zero material fields fall back to engine defaults.
func (s *State) Place(rk rank.Rank, pos mgl64.Vec2, material physics.BodyDef) (world.Piece, error) {
	desc, err := s.Table.Describe(rk)
	if err != nil {
		return world.Piece{}, fmt.Errorf("failed to place piece: %w", err)
	}

	h := s.Engine.CreateBody(physics.BodyDef{
		Shape:       physics.Circle,
		Position:    pos,
		Radius:      desc.Radius,
		Density:     material.Density,
		Restitution: material.Restitution,
		Friction:    material.Friction,
		Label:       desc.Name,
	})
	s.Engine.Add(h)

	return s.Pieces.Insert(rk, pos, h), nil
}

// DeletePiece removes a piece from the registry and its body from the engine.
func (s *State) DeletePiece(id world.PieceID) {
	p, ok := s.Pieces.Remove(id)
	if !ok {
		return
	}
	s.Engine.Remove(p.Body)
}

// SpawnPiece creates the product of a merge with default body properties.
func (s *State) SpawnPiece(req world.SpawnRequest) {
	if _, err := s.Place(req.Rank, req.Position, physics.BodyDef{}); err != nil {
		s.Logger.Error("merge spawn failed", "rank", req.Rank, "error", err)
	}
}

// cull clears every piece and body, then rebuilds the boundary.
func (s *State) cull() int {
	removed := s.Pieces.Clear()
	s.Engine.Clear()
	s.Bounds = NewBoundary(s.Engine, s.Container)
	return len(removed)
}
