// Package physics defines the contract between the game logic and a 2D
// rigid-body engine, and ships Sim, a small circle simulator that satisfies it.
//
// The game never reaches into engine internals: it creates bodies from a
// BodyDef, adds and removes them by Handle, steps the engine and reads back
// positions plus the batch of contacts that began during the step.
package physics

import "github.com/go-gl/mathgl/mgl64"

// Handle encodes both the slot generation (upper 32 bits) and the slot index (lower 32 bits).
// The zero Handle never refers to a body.
type Handle uint64

// NewHandle creates a Handle from a generation and slot index.
func NewHandle(generation uint32, index uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the slot generation from the handle.
func (h Handle) Generation() uint32 {
	return uint32(h >> 32)
}

// Index extracts the slot index from the handle.
func (h Handle) Index() uint32 {
	return uint32(h & 0xFFFFFFFF)
}

type Shape uint8

const (
	Circle Shape = iota
	Rectangle
)

func (s Shape) String() string {
	switch s {
	case Circle:
		return "circle"
	case Rectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Material defaults applied when a BodyDef leaves a field at zero.
const (
	DefaultDensity     = 0.001
	DefaultRestitution = 0.0
	DefaultFriction    = 0.1
)

// BodyDef describes a body to create. Position is the body's center.
// Circles use Radius, rectangles use Width and Height.
type BodyDef struct {
	Shape    Shape
	Position mgl64.Vec2
	Radius   float64
	Width    float64
	Height   float64

	// Static bodies never move. Sensors report contacts but are never
	// pushed and never push anything.
	Static bool
	Sensor bool

	Density     float64
	Restitution float64
	Friction    float64

	Label string
}

// CollisionPair names two bodies whose contact began during one step.
type CollisionPair struct {
	A, B Handle
}

// Other returns the body of the pair that is not h.
func (p CollisionPair) Other(h Handle) Handle {
	if p.A == h {
		return p.B
	}
	return p.A
}

// Engine is what the game logic needs from a physics engine.
// All methods are called from a single goroutine.
type Engine interface {
	// CreateBody allocates a body. It is not simulated until added.
	CreateBody(def BodyDef) Handle
	Add(handles ...Handle)
	// Remove takes bodies out of the world and releases them.
	Remove(handles ...Handle)
	// Clear removes and releases every body.
	Clear()
	// Step advances the simulation by dt seconds and returns the pairs
	// that started touching during the step. Pairs already touching
	// before the step are not reported again.
	Step(dt float64) []CollisionPair
	Position(h Handle) (mgl64.Vec2, bool)
}
