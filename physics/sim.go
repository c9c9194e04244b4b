package physics

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/kamstrup/intmap"
	"github.com/plus3/suika/internal/slots"
)

type body struct {
	def     BodyDef
	pos     mgl64.Vec2
	vel     mgl64.Vec2
	invMass float64
	inWorld bool
}

// SimConfig tunes the reference simulator.
type SimConfig struct {
	// Gravity in units per second squared. Screen space, so +Y is down.
	Gravity mgl64.Vec2
	// SubSteps splits every Step into equal slices.
	SubSteps int
	// Iterations is the number of constraint passes per sub-step.
	Iterations int
	// ContactSlop is the gap under which two bodies still count as touching.
	ContactSlop float64
	// AirDamping is the fraction of velocity lost per second.
	AirDamping float64
	// BounceThreshold is the closing speed below which restitution is ignored.
	BounceThreshold float64
}

func DefaultSimConfig() SimConfig {
	return SimConfig{
		Gravity:         mgl64.Vec2{0, 980},
		SubSteps:        4,
		Iterations:      4,
		ContactSlop:     0.5,
		AirDamping:      0.6,
		BounceThreshold: 40,
	}
}

// Sim is a small impulse-based simulator for dynamic circles against
// static rectangles and each other. Dynamic rectangles are not supported.
type Sim struct {
	cfg      SimConfig
	bodies   slots.Store[Handle, body]
	world    []Handle
	contacts *intmap.Set[uint64]
}

var _ Engine = (*Sim)(nil)

func NewSim(cfg SimConfig) *Sim {
	if cfg.SubSteps <= 0 {
		cfg.SubSteps = 1
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1
	}
	return &Sim{
		cfg:      cfg,
		contacts: intmap.NewSet[uint64](64),
	}
}

// CreateBody panics if the shape dimensions are not positive.
func (s *Sim) CreateBody(def BodyDef) Handle {
	switch def.Shape {
	case Circle:
		if def.Radius <= 0 {
			panic(fmt.Sprintf("circle body %q needs a positive radius", def.Label))
		}
	case Rectangle:
		if def.Width <= 0 || def.Height <= 0 {
			panic(fmt.Sprintf("rectangle body %q needs a positive size", def.Label))
		}
		if !def.Static && !def.Sensor {
			panic(fmt.Sprintf("rectangle body %q must be static", def.Label))
		}
	default:
		panic(fmt.Sprintf("body %q has unknown shape %d", def.Label, def.Shape))
	}

	if def.Density == 0 {
		def.Density = DefaultDensity
	}
	if def.Friction == 0 {
		def.Friction = DefaultFriction
	}

	b := body{def: def, pos: def.Position}
	if !def.Static && !def.Sensor {
		b.invMass = 1 / (def.Density * area(def))
	}

	h, _ := s.bodies.Insert(b)
	return h
}

func (s *Sim) Add(handles ...Handle) {
	for _, h := range handles {
		b := s.bodies.Get(h)
		if b == nil || b.inWorld {
			continue
		}
		b.inWorld = true
		s.world = append(s.world, h)
	}
}

func (s *Sim) Remove(handles ...Handle) {
	for _, h := range handles {
		b := s.bodies.Get(h)
		if b == nil {
			continue
		}
		if b.inWorld {
			s.world = slices.DeleteFunc(s.world, func(w Handle) bool { return w == h })
		}
		s.forgetContacts(h.Index())
		s.bodies.Remove(h)
	}
}

func (s *Sim) Clear() {
	s.bodies.Reset()
	s.world = s.world[:0]
	s.contacts.Clear()
}

func (s *Sim) Position(h Handle) (mgl64.Vec2, bool) {
	b := s.bodies.Get(h)
	if b == nil {
		return mgl64.Vec2{}, false
	}
	return b.pos, true
}

func (s *Sim) Velocity(h Handle) (mgl64.Vec2, bool) {
	b := s.bodies.Get(h)
	if b == nil {
		return mgl64.Vec2{}, false
	}
	return b.vel, true
}

// Len returns the number of bodies currently simulated.
func (s *Sim) Len() int {
	return len(s.world)
}

func (s *Sim) Step(dt float64) []CollisionPair {
	if dt <= 0 {
		return nil
	}

	h := dt / float64(s.cfg.SubSteps)
	for range s.cfg.SubSteps {
		s.integrate(h)
		for range s.cfg.Iterations {
			s.solve()
		}
	}

	return s.beginContacts()
}

func (s *Sim) integrate(h float64) {
	damping := math.Max(0, 1-s.cfg.AirDamping*h)
	for _, handle := range s.world {
		b := s.bodies.Get(handle)
		if b.invMass == 0 {
			continue
		}
		b.vel = b.vel.Add(s.cfg.Gravity.Mul(h)).Mul(damping)
		b.pos = b.pos.Add(b.vel.Mul(h))
	}
}

func (s *Sim) solve() {
	for i := 0; i < len(s.world); i++ {
		a := s.bodies.Get(s.world[i])
		for j := i + 1; j < len(s.world); j++ {
			b := s.bodies.Get(s.world[j])
			if a.invMass == 0 && b.invMass == 0 {
				continue
			}
			if a.def.Sensor || b.def.Sensor {
				continue
			}

			n, pen, ok := collide(a, b)
			if !ok || pen <= 0 {
				continue
			}
			s.resolve(a, b, n, pen)
		}
	}
}

func (s *Sim) resolve(a, b *body, n mgl64.Vec2, pen float64) {
	sum := a.invMass + b.invMass

	const correction = 0.8
	push := math.Max(pen-s.cfg.ContactSlop*0.5, 0) / sum * correction
	a.pos = a.pos.Sub(n.Mul(push * a.invMass))
	b.pos = b.pos.Add(n.Mul(push * b.invMass))

	rv := b.vel.Sub(a.vel)
	vn := rv.Dot(n)
	if vn > 0 {
		return
	}

	e := math.Max(a.def.Restitution, b.def.Restitution)
	if -vn < s.cfg.BounceThreshold {
		e = 0
	}
	j := -(1 + e) * vn / sum
	impulse := n.Mul(j)
	a.vel = a.vel.Sub(impulse.Mul(a.invMass))
	b.vel = b.vel.Add(impulse.Mul(b.invMass))

	rv = b.vel.Sub(a.vel)
	tangent := rv.Sub(n.Mul(rv.Dot(n)))
	if tangent.LenSqr() < 1e-12 {
		return
	}
	tangent = tangent.Normalize()

	mu := math.Sqrt(a.def.Friction * b.def.Friction)
	jt := -rv.Dot(tangent) / sum
	jt = math.Max(-j*mu, math.Min(jt, j*mu))

	friction := tangent.Mul(jt)
	a.vel = a.vel.Sub(friction.Mul(a.invMass))
	b.vel = b.vel.Add(friction.Mul(b.invMass))
}

// beginContacts diffs the touching set against the previous step.
func (s *Sim) beginContacts() []CollisionPair {
	current := intmap.NewSet[uint64](s.contacts.Len() + 8)
	var began []CollisionPair

	for i := 0; i < len(s.world); i++ {
		a := s.bodies.Get(s.world[i])
		for j := i + 1; j < len(s.world); j++ {
			b := s.bodies.Get(s.world[j])
			if a.invMass == 0 && b.invMass == 0 {
				continue
			}

			_, pen, ok := collide(a, b)
			if !ok || pen <= -s.cfg.ContactSlop {
				continue
			}

			key := contactKey(s.world[i].Index(), s.world[j].Index())
			current.Add(key)
			if !s.contacts.Has(key) {
				began = append(began, CollisionPair{A: s.world[i], B: s.world[j]})
			}
		}
	}

	s.contacts = current
	return began
}

func (s *Sim) forgetContacts(index uint32) {
	var stale []uint64
	s.contacts.ForEach(func(key uint64) bool {
		if uint32(key>>32) == index || uint32(key) == index {
			stale = append(stale, key)
		}
		return true
	})
	for _, key := range stale {
		s.contacts.Del(key)
	}
}

func contactKey(i, j uint32) uint64 {
	if i > j {
		i, j = j, i
	}
	return uint64(i)<<32 | uint64(j)
}

func area(def BodyDef) float64 {
	if def.Shape == Circle {
		return math.Pi * def.Radius * def.Radius
	}
	return def.Width * def.Height
}
