package world_test

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/world"
)

// registryApplier applies commands directly to a registry. Real appliers
// also create and remove engine bodies.
type registryApplier struct {
	reg  *world.Registry
	next uint32
}

func (a *registryApplier) DeletePiece(id world.PieceID) {
	a.reg.Remove(id)
}

func (a *registryApplier) SpawnPiece(req world.SpawnRequest) {
	a.next++
	a.reg.Insert(req.Rank, req.Position, physics.NewHandle(1, 100+a.next))
}

// ExampleCommands shows a merge expressed as commands: both inputs are
// claimed so no other request can use them, then deleted, and their
// successor is spawned. Nothing changes until Flush.
func ExampleCommands() {
	reg := world.NewRegistry()
	a := reg.Insert(0, mgl64.Vec2{100, 400}, physics.NewHandle(1, 0))
	b := reg.Insert(0, mgl64.Vec2{140, 400}, physics.NewHandle(1, 1))

	cmds := world.NewCommands()
	if cmds.Claim(a.ID) && cmds.Claim(b.ID) {
		cmds.Delete(a.ID)
		cmds.Delete(b.ID)
		cmds.Spawn(world.SpawnRequest{
			Rank:     a.Rank + 1,
			Position: a.Position.Add(b.Position).Mul(0.5),
		})
	}
	fmt.Println("before flush:", reg.Len())

	cmds.Flush(&registryApplier{reg: reg})

	for p := range reg.All() {
		fmt.Printf("after flush: rank %d at (%.0f, %.0f)\n", p.Rank, p.Position.X(), p.Position.Y())
	}

	// Output:
	// before flush: 2
	// after flush: rank 1 at (120, 400)
}
