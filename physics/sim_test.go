package physics_test

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/suika/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEncoding(t *testing.T) {
	tests := []struct {
		generation uint32
		index      uint32
	}{
		{0, 0},
		{1, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("gen=%d,index=%d", tt.generation, tt.index), func(t *testing.T) {
			h := physics.NewHandle(tt.generation, tt.index)
			assert.Equal(t, tt.generation, h.Generation())
			assert.Equal(t, tt.index, h.Index())
		})
	}
}

func newFloorSim(t *testing.T) (*physics.Sim, physics.Handle) {
	t.Helper()
	sim := physics.NewSim(physics.DefaultSimConfig())
	floor := sim.CreateBody(physics.BodyDef{
		Shape:    physics.Rectangle,
		Position: mgl64.Vec2{300, 520},
		Width:    600,
		Height:   40,
		Static:   true,
		Label:    "floor",
	})
	sim.Add(floor)
	return sim, floor
}

func ball(x, y, r float64) physics.BodyDef {
	return physics.BodyDef{
		Shape:    physics.Circle,
		Position: mgl64.Vec2{x, y},
		Radius:   r,
		Label:    "ball",
	}
}

func TestGravityPullsDown(t *testing.T) {
	sim := physics.NewSim(physics.DefaultSimConfig())
	h := sim.CreateBody(ball(100, 100, 10))
	sim.Add(h)

	sim.Step(1.0 / 60)
	pos, ok := sim.Position(h)
	require.True(t, ok)
	assert.Greater(t, pos.Y(), 100.0)
	assert.InDelta(t, 100.0, pos.X(), 1e-9)
}

func TestBodyRestsOnFloor(t *testing.T) {
	sim, floor := newFloorSim(t)
	h := sim.CreateBody(ball(300, 100, 20))
	sim.Add(h)

	var floorContacts int
	for range 240 {
		for _, pair := range sim.Step(1.0 / 60) {
			if pair.Other(h) == floor {
				floorContacts++
			}
		}
	}

	pos, _ := sim.Position(h)
	assert.InDelta(t, 480.0, pos.Y(), 1.5)

	vel, _ := sim.Velocity(h)
	assert.Less(t, vel.Len(), 10.0)

	assert.Equal(t, 1, floorContacts, "resting contact must not be reported again")
}

func TestCoincidentCirclesBeginContact(t *testing.T) {
	sim := physics.NewSim(physics.DefaultSimConfig())
	a := sim.CreateBody(ball(310, 50, 33))
	b := sim.CreateBody(ball(310, 50, 33))
	sim.Add(a, b)

	pairs := sim.Step(1.0 / 60)
	require.Len(t, pairs, 1)
	assert.ElementsMatch(t, []physics.Handle{a, b}, []physics.Handle{pairs[0].A, pairs[0].B})

	pa, _ := sim.Position(a)
	pb, _ := sim.Position(b)
	assert.Greater(t, pb.Sub(pa).Len(), 0.0, "overlapping circles are pushed apart")
}

func TestSensorDetectsWithoutBlocking(t *testing.T) {
	sim := physics.NewSim(physics.DefaultSimConfig())
	sensor := sim.CreateBody(physics.BodyDef{
		Shape:    physics.Rectangle,
		Position: mgl64.Vec2{300, 150},
		Width:    600,
		Height:   2,
		Static:   true,
		Sensor:   true,
	})
	h := sim.CreateBody(ball(300, 100, 20))
	sim.Add(sensor, h)

	sawSensor := false
	for range 60 {
		for _, pair := range sim.Step(1.0 / 60) {
			if pair.Other(h) == sensor {
				sawSensor = true
			}
		}
	}

	pos, _ := sim.Position(h)
	assert.True(t, sawSensor)
	assert.Greater(t, pos.Y(), 200.0, "sensor must not stop the body")
}

func TestRemoveInvalidatesHandle(t *testing.T) {
	sim := physics.NewSim(physics.DefaultSimConfig())
	h := sim.CreateBody(ball(0, 0, 5))
	sim.Add(h)
	assert.Equal(t, 1, sim.Len())

	sim.Remove(h)
	assert.Equal(t, 0, sim.Len())
	_, ok := sim.Position(h)
	assert.False(t, ok)

	reused := sim.CreateBody(ball(1, 1, 5))
	assert.Equal(t, h.Index(), reused.Index(), "slot is reused")
	assert.NotEqual(t, h, reused, "generation differs")

	_, ok = sim.Position(h)
	assert.False(t, ok, "stale handle must not resolve to the new body")

	// Removing twice is harmless.
	sim.Remove(h)
	_, ok = sim.Position(reused)
	assert.True(t, ok)
}

func TestRemovedPairCanBeginAgain(t *testing.T) {
	sim, floor := newFloorSim(t)
	h := sim.CreateBody(ball(300, 480, 20))
	sim.Add(h)

	pairs := sim.Step(1.0 / 60)
	require.Len(t, pairs, 1)

	sim.Remove(h)
	h2 := sim.CreateBody(ball(300, 480, 20))
	sim.Add(h2)

	pairs = sim.Step(1.0 / 60)
	require.Len(t, pairs, 1)
	assert.Equal(t, floor, pairs[0].Other(h2))
}

func TestClear(t *testing.T) {
	sim, floor := newFloorSim(t)
	h := sim.CreateBody(ball(300, 100, 20))
	sim.Add(h)

	sim.Clear()
	assert.Equal(t, 0, sim.Len())
	_, ok := sim.Position(floor)
	assert.False(t, ok)
	_, ok = sim.Position(h)
	assert.False(t, ok)
	assert.Empty(t, sim.Step(1.0/60))
}

func TestStepWithoutTime(t *testing.T) {
	sim := physics.NewSim(physics.DefaultSimConfig())
	h := sim.CreateBody(ball(0, 0, 5))
	sim.Add(h)

	assert.Nil(t, sim.Step(0))
	pos, _ := sim.Position(h)
	assert.Equal(t, mgl64.Vec2{0, 0}, pos)
}

func TestCreateBodyRejectsBadShapes(t *testing.T) {
	sim := physics.NewSim(physics.DefaultSimConfig())

	assert.Panics(t, func() { sim.CreateBody(ball(0, 0, 0)) })
	assert.Panics(t, func() {
		sim.CreateBody(physics.BodyDef{Shape: physics.Rectangle, Width: 10, Height: 10})
	})
	assert.Panics(t, func() {
		sim.CreateBody(physics.BodyDef{Shape: physics.Rectangle, Width: 0, Height: 10, Static: true})
	})
}

func TestWallsKeepBodiesInside(t *testing.T) {
	sim, _ := newFloorSim(t)
	wall := sim.CreateBody(physics.BodyDef{
		Shape:    physics.Rectangle,
		Position: mgl64.Vec2{15, 300},
		Width:    30,
		Height:   600,
		Static:   true,
	})
	sim.Add(wall)

	// Dropped overlapping the wall: pushed out to the right.
	h := sim.CreateBody(ball(30, 100, 20))
	sim.Add(h)
	for range 120 {
		sim.Step(1.0 / 60)
	}

	pos, _ := sim.Position(h)
	assert.GreaterOrEqual(t, pos.X(), 49.0)
}
