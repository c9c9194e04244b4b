package game_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/plus3/suika/game"
	"github.com/plus3/suika/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrySpawnClampsBelowCeiling(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	spawner := game.NewSpawner(st)
	ceiling := st.Container.CeilingY

	for _, y := range []float64{-500, 0, 50, 100, 149, 150, 151, 400, 2000} {
		t.Run(fmt.Sprintf("y=%v", y), func(t *testing.T) {
			p, err := spawner.TrySpawn(310, y)
			require.NoError(t, err)

			r := st.Table.MustDescribe(p.Rank).Radius
			assert.LessOrEqual(t, p.Position.Y(), ceiling-r)
			if y <= ceiling-r {
				assert.Equal(t, y, p.Position.Y(), "higher requests are kept")
			}
		})
	}
}

func TestTrySpawnConsumesQueue(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	spawner := game.NewSpawner(st)

	next, after := st.Queue.PeekNext(), st.Queue.PeekAfterNext()
	f.game.DrainEvents()

	p, err := spawner.TrySpawn(200, 50)
	require.NoError(t, err)
	assert.Equal(t, next, p.Rank)
	assert.Equal(t, after, st.Queue.PeekNext())

	events := f.game.DrainEvents()
	require.Len(t, events, 2)
	preview, ok := events[0].(game.PreviewChanged)
	require.True(t, ok)
	assert.Equal(t, after, preview.Next.Rank)
	spawned, ok := events[1].(game.PieceSpawned)
	require.True(t, ok)
	assert.Equal(t, p, spawned.Piece)
}

func TestTrySpawnBody(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()

	// x is left to the walls.
	p, err := game.NewSpawner(st).TrySpawn(-40, 50)
	require.NoError(t, err)
	assert.Equal(t, -40.0, p.Position.X())

	def := f.engine.defs[p.Body]
	assert.Equal(t, physics.Circle, def.Shape)
	assert.Equal(t, st.Table.MustDescribe(p.Rank).Radius, def.Radius)
	assert.Equal(t, game.DropDensity, def.Density)
	assert.Equal(t, game.DropRestitution, def.Restitution)
	assert.Equal(t, game.DropFriction, def.Friction)
	assert.True(t, f.engine.added[p.Body])

	got := st.Pieces.ByBody(p.Body)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
}

func TestDropAppliedBeforePhysicsStep(t *testing.T) {
	f := newFixture(t, game.Options{})

	f.game.Drop(310, 50)
	assert.Equal(t, 0, f.state().Pieces.Len(), "drops wait for the next step")

	f.game.Step(1.0 / 60)
	assert.Equal(t, 1, f.engine.steps)
	assert.Equal(t, 1, f.state().Pieces.Len())
}

func TestConcurrentDrops(t *testing.T) {
	f := newFixture(t, game.Options{})

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 10 {
				f.game.Drop(float64(100+i*40), float64(j))
			}
		}()
	}
	wg.Wait()

	f.game.Step(1.0 / 60)
	assert.Equal(t, 80, f.state().Pieces.Len())
}

func TestTrySpawnAfterGameOver(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	st.Phase = game.Over

	next := st.Queue.PeekNext()
	_, err := game.NewSpawner(st).TrySpawn(310, 50)
	assert.ErrorIs(t, err, game.ErrGameOver)
	assert.Equal(t, 0, st.Pieces.Len())
	assert.Equal(t, next, st.Queue.PeekNext(), "queue untouched")

	f.game.Drop(310, 50)
	f.game.Step(1.0 / 60)
	assert.Equal(t, 0, st.Pieces.Len())
}
