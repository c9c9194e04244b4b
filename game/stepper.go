package game

import "github.com/plus3/suika/world"

// Stepper advances the physics engine, records the step's begin-contact
// batch in the frame and copies body positions back onto the pieces.
type Stepper struct {
	state *State
}

func NewStepper(state *State) *Stepper {
	return &Stepper{state: state}
}

func (st *Stepper) Execute(frame *world.Frame) {
	s := st.state
	frame.Collisions = s.Engine.Step(frame.DeltaTime)

	for piece := range s.Pieces.All() {
		if pos, ok := s.Engine.Position(piece.Body); ok {
			piece.Position = pos
		}
	}
}
