package game_test

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/suika/game"
	"github.com/plus3/suika/physics"
	"github.com/stretchr/testify/require"
)

// fakeEngine never moves anything. Tests script the collision batch each
// Step returns and move bodies by hand.
type fakeEngine struct {
	next    uint32
	defs    map[physics.Handle]physics.BodyDef
	pos     map[physics.Handle]mgl64.Vec2
	added   map[physics.Handle]bool
	batches [][]physics.CollisionPair
	steps   int
}

var _ physics.Engine = (*fakeEngine)(nil)

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		defs:  make(map[physics.Handle]physics.BodyDef),
		pos:   make(map[physics.Handle]mgl64.Vec2),
		added: make(map[physics.Handle]bool),
	}
}

func (e *fakeEngine) CreateBody(def physics.BodyDef) physics.Handle {
	e.next++
	h := physics.NewHandle(1, e.next)
	e.defs[h] = def
	e.pos[h] = def.Position
	return h
}

func (e *fakeEngine) Add(handles ...physics.Handle) {
	for _, h := range handles {
		if _, ok := e.defs[h]; ok {
			e.added[h] = true
		}
	}
}

func (e *fakeEngine) Remove(handles ...physics.Handle) {
	for _, h := range handles {
		delete(e.defs, h)
		delete(e.pos, h)
		delete(e.added, h)
	}
}

func (e *fakeEngine) Clear() {
	clear(e.defs)
	clear(e.pos)
	clear(e.added)
}

func (e *fakeEngine) Step(dt float64) []physics.CollisionPair {
	e.steps++
	if len(e.batches) == 0 {
		return nil
	}
	batch := e.batches[0]
	e.batches = e.batches[1:]
	return batch
}

func (e *fakeEngine) Position(h physics.Handle) (mgl64.Vec2, bool) {
	p, ok := e.pos[h]
	return p, ok
}

func (e *fakeEngine) queue(pairs ...physics.CollisionPair) {
	e.batches = append(e.batches, pairs)
}

func (e *fakeEngine) move(h physics.Handle, p mgl64.Vec2) {
	e.pos[h] = p
}

// labels counts simulated bodies by label.
func (e *fakeEngine) labels() map[string]int {
	out := make(map[string]int)
	for h := range e.added {
		out[e.defs[h].Label]++
	}
	return out
}

// fakeClock is advanced by hand.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

type fixture struct {
	game   *game.Game
	engine *fakeEngine
	clock  *fakeClock
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, opts game.Options) *fixture {
	t.Helper()

	f := &fixture{
		engine: newFakeEngine(),
		clock:  newFakeClock(),
		logs:   &bytes.Buffer{},
	}
	if opts.Rand == nil {
		opts.Rand = seeded(1)
	}
	opts.Clock = f.clock.Now
	opts.Logger = slog.New(slog.NewTextHandler(f.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	g, err := game.New(f.engine, opts)
	require.NoError(t, err)
	f.game = g
	return f
}

func (f *fixture) state() *game.State {
	return f.game.State()
}
