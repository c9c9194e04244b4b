package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/plus3/suika/game"
	"github.com/plus3/suika/physics"
)

// Soak plays random drops against a game on a simulated clock. Game time
// runs ahead of the wall clock, so the termination policies read Soak's
// clock instead of time.Now.
type Soak struct {
	game   *game.Game
	report *Report
	rand   *rand.Rand

	now       time.Time
	dt        float64
	step      time.Duration
	dropEvery time.Duration
	sinceDrop time.Duration
}

func NewSoak(engine physics.Engine, opts game.Options, tps int, dropEvery time.Duration, r *rand.Rand, report *Report) (*Soak, error) {
	s := &Soak{
		report:    report,
		rand:      r,
		now:       time.Unix(0, 0),
		dt:        1.0 / float64(tps),
		dropEvery: dropEvery,
	}
	s.step = time.Duration(s.dt * float64(time.Second))
	opts.Clock = s.clock

	g, err := game.New(engine, opts)
	if err != nil {
		return nil, err
	}
	s.game = g
	report.Games = append(report.Games, GameResult{Session: g.Session().String(), started: s.now})
	return s, nil
}

func (s *Soak) clock() time.Time {
	return s.now
}

// Tick runs one step: a drop when one is due, the game step, event
// accounting and a restart after game over.
func (s *Soak) Tick() error {
	g := s.game

	s.sinceDrop += s.step
	if s.sinceDrop >= s.dropEvery && g.Phase() == game.Playing {
		s.sinceDrop = 0
		next, _ := g.Preview()
		minX, maxX := g.Container().Inner(next.Radius)
		g.Drop(minX+s.rand.Float64()*(maxX-minX), g.Container().DropY)
	}

	stepStart := time.Now()
	g.Step(s.dt)
	s.report.StepTime.Samples = append(s.report.StepTime.Samples, time.Since(stepStart))
	s.now = s.now.Add(s.step)
	s.report.SimulatedTime += s.step

	current := &s.report.Games[len(s.report.Games)-1]
	for _, ev := range g.DrainEvents() {
		s.report.record(current, ev)
	}

	if g.Phase() == game.Over {
		current.Score = g.Score()
		current.Lasted = s.now.Sub(current.started)
		if err := g.Reset(); err != nil {
			return fmt.Errorf("failed to reset game: %w", err)
		}
		s.report.Games = append(s.report.Games, GameResult{Session: g.Session().String(), started: s.now})
	}
	return nil
}

// Finish closes the running game's entry and collects the final stats.
func (s *Soak) Finish() {
	last := &s.report.Games[len(s.report.Games)-1]
	last.Score = s.game.Score()
	last.Lasted = s.now.Sub(last.started)
	last.Unfinished = true

	s.report.StepTime.Finalize()
	s.report.Systems = s.game.Stats().Systems
	s.report.Registry = s.game.RegistryStats()
}
