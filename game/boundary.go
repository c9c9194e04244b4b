package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/suika/physics"
)

// Container is the playfield geometry in screen space (+Y down).
type Container struct {
	Width          float64
	Height         float64
	FloorThickness float64
	WallThickness  float64
	// CeilingY is the height of the game-over line.
	CeilingY float64
	// DropY is where the player's pieces are released.
	DropY float64
}

func DefaultContainer() Container {
	return Container{
		Width:          620,
		Height:         850,
		FloorThickness: 60,
		WallThickness:  30,
		CeilingY:       150,
		DropY:          50,
	}
}

// Inner returns the horizontal span a piece center may occupy without
// overlapping a wall.
func (c Container) Inner(radius float64) (minX, maxX float64) {
	return c.WallThickness + radius, c.Width - c.WallThickness - radius
}

// Boundary is the static geometry of one game: three solid rectangles and
// a non-solid sensor on the ceiling line.
type Boundary struct {
	Floor   physics.Handle
	Left    physics.Handle
	Right   physics.Handle
	Ceiling physics.Handle
}

// NewBoundary creates the boundary bodies and adds them to engine.
func NewBoundary(engine physics.Engine, c Container) Boundary {
	wallHeight := c.Height - c.FloorThickness

	b := Boundary{
		Floor: engine.CreateBody(physics.BodyDef{
			Shape:    physics.Rectangle,
			Position: mgl64.Vec2{c.Width / 2, c.Height - c.FloorThickness/2},
			Width:    c.Width,
			Height:   c.FloorThickness,
			Static:   true,
			Label:    "floor",
		}),
		Left: engine.CreateBody(physics.BodyDef{
			Shape:    physics.Rectangle,
			Position: mgl64.Vec2{c.WallThickness / 2, wallHeight / 2},
			Width:    c.WallThickness,
			Height:   wallHeight,
			Static:   true,
			Label:    "left-wall",
		}),
		Right: engine.CreateBody(physics.BodyDef{
			Shape:    physics.Rectangle,
			Position: mgl64.Vec2{c.Width - c.WallThickness/2, wallHeight / 2},
			Width:    c.WallThickness,
			Height:   wallHeight,
			Static:   true,
			Label:    "right-wall",
		}),
		Ceiling: engine.CreateBody(physics.BodyDef{
			Shape:    physics.Rectangle,
			Position: mgl64.Vec2{c.Width / 2, c.CeilingY},
			Width:    c.Width,
			Height:   2,
			Static:   true,
			Sensor:   true,
			Label:    "ceiling",
		}),
	}

	engine.Add(b.Handles()...)
	return b
}

func (b Boundary) Handles() []physics.Handle {
	return []physics.Handle{b.Floor, b.Left, b.Right, b.Ceiling}
}

// Contains reports whether h is one of the boundary bodies.
func (b Boundary) Contains(h physics.Handle) bool {
	return h != 0 && (h == b.Floor || h == b.Left || h == b.Right || h == b.Ceiling)
}
