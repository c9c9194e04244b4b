package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/rank"
	"github.com/plus3/suika/world"
)

// DefaultDroppable is how many of the smallest ranks the player can be handed.
const DefaultDroppable = 5

// DefaultGrace is the ceiling sensor's grace period.
const DefaultGrace = 2 * time.Second

type Options struct {
	Table     *rank.Table
	Container Container
	// Droppable is the number of ranks the spawn queue draws from.
	Droppable int
	// Policy decides when the game ends. Defaults to a CeilingSensor.
	Policy Policy
	Rand   *rand.Rand
	Clock  func() time.Time
	Logger *slog.Logger
}

func (o *Options) setDefaults() {
	if o.Table == nil {
		o.Table = rank.Default()
	}
	if o.Container == (Container{}) {
		o.Container = DefaultContainer()
	}
	if o.Droppable == 0 {
		o.Droppable = DefaultDroppable
	}
	if o.Policy == nil {
		o.Policy = NewCeilingSensor(DefaultGrace)
	}
	if o.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		o.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// View is a piece as presentation sees it.
type View struct {
	ID       world.PieceID
	Rank     rank.Rank
	Name     string
	Position mgl64.Vec2
	Radius   float64
	Scale    float64
	Asset    string
}

// Game wires the state, its systems and the scheduler together. Drop is safe
// to call from any goroutine; every other method belongs to the goroutine
// that calls Step.
type Game struct {
	state     *State
	spawner   *Spawner
	merger    *MergeResolver
	monitor   *Monitor
	scheduler *world.Scheduler
	rng       *rand.Rand
	droppable int
}

// New starts a game on engine, which should be empty.
func New(engine physics.Engine, opts Options) (*Game, error) {
	if engine == nil {
		return nil, errors.New("game needs a physics engine")
	}
	opts.setDefaults()
	if opts.Droppable > opts.Table.Count() {
		return nil, fmt.Errorf("droppable ranks %d exceed table size %d", opts.Droppable, opts.Table.Count())
	}

	state := &State{
		Table:     opts.Table,
		Pieces:    world.NewRegistry(),
		Engine:    engine,
		Container: opts.Container,
		Logger:    opts.Logger,
	}

	g := &Game{
		state:     state,
		spawner:   NewSpawner(state),
		merger:    NewMergeResolver(state),
		monitor:   NewMonitor(state, opts.Policy),
		rng:       opts.Rand,
		droppable: opts.Droppable,
	}

	g.scheduler = world.NewScheduler(state, opts.Clock)
	g.scheduler.Register(g.spawner)
	g.scheduler.Register(NewStepper(state))
	g.scheduler.Register(g.merger)
	g.scheduler.Register(g.monitor)

	if err := g.start(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) start() error {
	s := g.state
	queue, err := NewSpawnQueue(g.droppable, g.rng)
	if err != nil {
		return fmt.Errorf("failed to create spawn queue: %w", err)
	}

	s.Phase = Playing
	s.Queue = queue
	s.Session = uuid.New()
	s.Score = 0
	s.Bounds = NewBoundary(s.Engine, s.Container)
	s.watchQueue()

	s.Emit(PreviewChanged{
		Next:      s.Table.MustDescribe(queue.PeekNext()),
		AfterNext: s.Table.MustDescribe(queue.PeekAfterNext()),
	})
	s.Logger.Info("game started", "session", s.Session, "droppable", g.droppable, "ranks", s.Table.Count())
	return nil
}

// Drop asks for the next piece to be released at (x, y). It is applied at
// the start of the next step.
func (g *Game) Drop(x, y float64) {
	g.spawner.Request(x, y)
}

// Step runs one pipeline pass: pending drops, physics, merges, the
// termination check and the command flush.
func (g *Game) Step(dt float64) {
	g.scheduler.Once(dt)
}

// Reset starts a new session on the same engine.
func (g *Game) Reset() error {
	g.spawner.Discard()
	g.state.Pieces = world.NewRegistry()
	g.state.Engine.Clear()
	g.monitor.policy.Reset()
	g.state.events = nil
	return g.start()
}

func (g *Game) Phase() Phase {
	return g.state.Phase
}

func (g *Game) Score() int {
	return g.state.Score
}

func (g *Game) Session() uuid.UUID {
	return g.state.Session
}

func (g *Game) Table() *rank.Table {
	return g.state.Table
}

func (g *Game) Container() Container {
	return g.state.Container
}

// Preview returns the two upcoming droppable pieces.
func (g *Game) Preview() (next, afterNext rank.Descriptor) {
	q := g.state.Queue
	return g.state.Table.MustDescribe(q.PeekNext()), g.state.Table.MustDescribe(q.PeekAfterNext())
}

// Pieces returns the live pieces with their presentation attributes.
func (g *Game) Pieces() []View {
	s := g.state
	views := make([]View, 0, s.Pieces.Len())
	for p := range s.Pieces.All() {
		desc := s.Table.MustDescribe(p.Rank)
		views = append(views, View{
			ID:       p.ID,
			Rank:     p.Rank,
			Name:     desc.Name,
			Position: p.Position,
			Radius:   desc.Radius,
			Scale:    desc.Scale,
			Asset:    desc.Asset,
		})
	}
	return views
}

// Policy returns the termination policy the game was built with.
func (g *Game) Policy() Policy {
	return g.monitor.Policy()
}

// DrainEvents returns the events emitted since the last call.
func (g *Game) DrainEvents() []Event {
	return g.state.drainEvents()
}

func (g *Game) Stats() *world.SchedulerStats {
	return g.scheduler.GetStats()
}

func (g *Game) RegistryStats() world.RegistryStats {
	return g.state.Pieces.CollectStats()
}

// State exposes the live state for debugging tools.
func (g *Game) State() *State {
	return g.state
}
