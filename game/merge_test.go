package game_test

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/suika/game"
	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/rank"
	"github.com/plus3/suika/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(t *testing.T, st *game.State, rk rank.Rank, x, y float64) world.Piece {
	t.Helper()
	p, err := st.Place(rk, mgl64.Vec2{x, y}, physics.BodyDef{})
	require.NoError(t, err)
	return p
}

func pair(a, b world.Piece) physics.CollisionPair {
	return physics.CollisionPair{A: a.Body, B: b.Body}
}

func TestMergeProducesNextRankAtMidpoint(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()

	for r := range st.Table.Highest() {
		t.Run(fmt.Sprintf("rank=%d", r), func(t *testing.T) {
			st.Pieces.Clear()
			a := place(t, st, r, 200, 500)
			b := place(t, st, r, 260, 540)

			f.engine.queue(pair(a, b))
			f.game.Step(1.0 / 60)

			require.Equal(t, 1, st.Pieces.Len())
			assert.Nil(t, st.Pieces.Get(a.ID))
			assert.Nil(t, st.Pieces.Get(b.ID))
			_, ok := f.engine.Position(a.Body)
			assert.False(t, ok, "consumed bodies leave the engine")

			merged := st.Pieces.Snapshot()[0]
			assert.Equal(t, r+1, merged.Rank)
			assert.Equal(t, mgl64.Vec2{230, 520}, merged.Position)
			assert.Equal(t, st.Table.MustDescribe(r+1).Radius, f.engine.defs[merged.Body].Radius)
		})
	}
}

func TestMergedPieceUsesEngineDefaults(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	a := place(t, st, 0, 200, 500)
	b := place(t, st, 0, 240, 500)

	f.engine.queue(pair(a, b))
	f.game.Step(1.0 / 60)

	merged := st.Pieces.Snapshot()[0]
	def := f.engine.defs[merged.Body]
	assert.Zero(t, def.Density)
	assert.Zero(t, def.Restitution)
	assert.Zero(t, def.Friction)
}

func TestHighestRankNeverMerges(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	top := st.Table.Highest()
	a := place(t, st, top, 200, 500)
	b := place(t, st, top, 400, 500)

	merges := game.NewMergeResolver(st).Resolve([]physics.CollisionPair{pair(a, b)}, world.NewCommands())
	assert.Zero(t, merges)

	f.engine.queue(pair(a, b))
	f.game.Step(1.0 / 60)
	assert.Equal(t, 2, st.Pieces.Len())
	assert.NotNil(t, st.Pieces.Get(a.ID))
	assert.NotNil(t, st.Pieces.Get(b.ID))
}

func TestDifferentRanksNeverMerge(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	a := place(t, st, 1, 200, 500)
	b := place(t, st, 2, 260, 500)

	f.engine.queue(pair(a, b))
	f.game.Step(1.0 / 60)

	assert.Equal(t, 2, st.Pieces.Len())
	assert.Zero(t, f.game.Score())
}

func TestFirstComeClaimsSharedPiece(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	a := place(t, st, 3, 100, 500)
	b := place(t, st, 3, 200, 500)
	c := place(t, st, 3, 300, 500)

	cmds := world.NewCommands()
	merges := game.NewMergeResolver(st).Resolve([]physics.CollisionPair{pair(a, b), pair(b, c)}, cmds)
	assert.Equal(t, 1, merges)
	assert.Equal(t, 3, st.Pieces.Len(), "nothing changes before the flush")

	cmds.Flush(st)

	require.Equal(t, 2, st.Pieces.Len())
	assert.Nil(t, st.Pieces.Get(a.ID))
	assert.Nil(t, st.Pieces.Get(b.ID))
	assert.NotNil(t, st.Pieces.Get(c.ID))

	var derived *world.Piece
	for p := range st.Pieces.All() {
		if p.ID != c.ID {
			derived = p
		}
	}
	require.NotNil(t, derived)
	assert.Equal(t, rank.Rank(4), derived.Rank)
	assert.Equal(t, mgl64.Vec2{150, 500}, derived.Position)
}

func TestMergeIsSymmetric(t *testing.T) {
	outcome := func(swap bool) (rank.Rank, mgl64.Vec2) {
		f := newFixture(t, game.Options{})
		st := f.state()
		a := place(t, st, 2, 120, 610)
		b := place(t, st, 2, 180, 650)

		p := pair(a, b)
		if swap {
			p = physics.CollisionPair{A: b.Body, B: a.Body}
		}
		f.engine.queue(p)
		f.game.Step(1.0 / 60)

		require.Equal(t, 1, st.Pieces.Len())
		merged := st.Pieces.Snapshot()[0]
		return merged.Rank, merged.Position
	}

	r1, p1 := outcome(false)
	r2, p2 := outcome(true)
	assert.Equal(t, r1, r2)
	assert.Equal(t, p1, p2)
}

func TestBoundaryPairsAreSkipped(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	a := place(t, st, 0, 300, 757)

	f.engine.queue(
		physics.CollisionPair{A: a.Body, B: st.Bounds.Floor},
		physics.CollisionPair{A: st.Bounds.Ceiling, B: a.Body},
	)
	f.game.Step(1.0 / 60)

	assert.Equal(t, 1, st.Pieces.Len())
	assert.NotContains(t, f.logs.String(), "collision skipped")
}

func TestInvalidCollisionDoesNotAbortBatch(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	a := place(t, st, 0, 200, 500)
	b := place(t, st, 0, 240, 500)
	ghost := physics.NewHandle(99, 12345)

	f.engine.queue(
		physics.CollisionPair{A: a.Body, B: ghost},
		pair(a, b),
	)
	f.game.Step(1.0 / 60)

	assert.Contains(t, f.logs.String(), "collision skipped")
	assert.Contains(t, f.logs.String(), game.ErrInvalidCollision.Error())
	require.Equal(t, 1, st.Pieces.Len())
	assert.Equal(t, rank.Rank(1), st.Pieces.Snapshot()[0].Rank)
}

func TestMergeScoresProducedRank(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	a := place(t, st, 0, 200, 500)
	b := place(t, st, 0, 240, 500)
	c := place(t, st, 4, 400, 500)
	d := place(t, st, 4, 480, 500)
	f.game.DrainEvents()

	f.engine.queue(pair(a, b), pair(c, d))
	f.game.Step(1.0 / 60)

	want := st.Table.MustDescribe(1).Points + st.Table.MustDescribe(5).Points
	assert.Equal(t, want, f.game.Score())

	var merged []game.PieceMerged
	for _, ev := range f.game.DrainEvents() {
		if m, ok := ev.(game.PieceMerged); ok {
			merged = append(merged, m)
		}
	}
	require.Len(t, merged, 2)
	assert.Equal(t, [2]world.PieceID{a.ID, b.ID}, merged[0].Consumed)
	assert.Equal(t, rank.Rank(5), merged[1].Rank)
}

func TestNoMergesAfterGameOver(t *testing.T) {
	f := newFixture(t, game.Options{})
	st := f.state()
	a := place(t, st, 0, 200, 500)
	b := place(t, st, 0, 240, 500)
	st.Phase = game.Over

	cmds := world.NewCommands()
	assert.Zero(t, game.NewMergeResolver(st).Resolve([]physics.CollisionPair{pair(a, b)}, cmds))
	assert.Zero(t, cmds.Pending())

	f.engine.queue(pair(a, b))
	f.game.Step(1.0 / 60)
	assert.Equal(t, 2, st.Pieces.Len())
}

// Two cherries dropped on the same spot and forced to collide become one
// strawberry on that spot.
func TestTwinDropScenario(t *testing.T) {
	f := newFixture(t, game.Options{Droppable: 1})
	st := f.state()
	spawner := game.NewSpawner(st)

	a, err := spawner.TrySpawn(310, 50)
	require.NoError(t, err)
	b, err := spawner.TrySpawn(310, 50)
	require.NoError(t, err)
	require.Equal(t, 2, st.Pieces.Len())
	assert.Equal(t, rank.Rank(0), a.Rank)
	assert.Equal(t, rank.Rank(0), b.Rank)

	f.engine.queue(pair(a, b))
	f.game.Step(1.0 / 60)

	require.Equal(t, 1, st.Pieces.Len())
	merged := st.Pieces.Snapshot()[0]
	assert.Equal(t, rank.Rank(1), merged.Rank)
	assert.Equal(t, mgl64.Vec2{310, 50}, merged.Position)
}
