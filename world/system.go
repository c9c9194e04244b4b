package world

import (
	"time"

	"github.com/plus3/suika/physics"
)

// System is one stage of the step pipeline. Systems run in registration
// order and may keep state between frames.
type System interface {
	Execute(frame *Frame)
}

// Frame is what a system sees during one step. Collisions is filled by the
// stage that steps the physics engine and is read by later stages.
type Frame struct {
	DeltaTime  float64
	Now        time.Time
	Commands   *Commands
	Collisions []physics.CollisionPair
}
