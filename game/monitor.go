package game

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/kamstrup/intmap"
	"github.com/plus3/suika/world"
)

type Verdict uint8

const (
	Continue Verdict = iota
	// Cull wipes every piece and rebuilds the boundary. The game goes on.
	Cull
	// End moves the game to Over.
	End
)

func (v Verdict) String() string {
	switch v {
	case Continue:
		return "continue"
	case Cull:
		return "cull"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Policy decides, once per step, whether the game continues. Policies are
// checked against the injected clock and must not block.
type Policy interface {
	Check(now time.Time, s *State) Verdict
	Reset()
}

// Explainer is implemented by policies that can say why they ended a game.
type Explainer interface {
	Explain(details *orderedmap.OrderedMap[string, any])
}

// OverflowCull clears the container whenever, at a check every Interval, it
// holds more than Threshold pieces.
type OverflowCull struct {
	Threshold int
	Interval  time.Duration

	lastCheck time.Time
}

func (p *OverflowCull) Check(now time.Time, s *State) Verdict {
	if p.lastCheck.IsZero() {
		p.lastCheck = now
		return Continue
	}
	if now.Sub(p.lastCheck) < p.Interval {
		return Continue
	}
	p.lastCheck = now

	if s.Pieces.Len() > p.Threshold {
		return Cull
	}
	return Continue
}

func (p *OverflowCull) Reset() {
	p.lastCheck = time.Time{}
}

// CeilingSensor ends the game when a piece's top edge stays at or above the
// ceiling line for longer than Grace. A piece counts as settled over the line
// once it has stayed there past Grace; velocity is not consulted. Freshly
// dropped pieces start above the line and fall through it well within the
// grace period, so only a piece held up by the pile lasts that long.
type CeilingSensor struct {
	Grace time.Duration

	over     *intmap.Map[world.PieceID, time.Time]
	offender world.Piece
	overFor  time.Duration
}

func NewCeilingSensor(grace time.Duration) *CeilingSensor {
	return &CeilingSensor{Grace: grace}
}

func (p *CeilingSensor) Check(now time.Time, s *State) Verdict {
	if p.over == nil {
		p.over = intmap.New[world.PieceID, time.Time](16)
	}

	// Pieces that fell back below the line or disappeared are dropped by
	// rebuilding the set from scratch.
	still := intmap.New[world.PieceID, time.Time](p.over.Len())
	verdict := Continue

	for piece := range s.Pieces.All() {
		desc := s.Table.MustDescribe(piece.Rank)
		if piece.Position.Y()-desc.Radius > s.Container.CeilingY {
			continue
		}

		since, ok := p.over.Get(piece.ID)
		if !ok {
			since = now
		}
		still.Put(piece.ID, since)

		if verdict == Continue && now.Sub(since) > p.Grace {
			verdict = End
			p.offender = *piece
			p.overFor = now.Sub(since)
		}
	}

	p.over = still
	return verdict
}

func (p *CeilingSensor) Reset() {
	p.over = nil
	p.offender = world.Piece{}
	p.overFor = 0
}

// Tracking reports how many pieces are currently over the line.
func (p *CeilingSensor) Tracking() int {
	if p.over == nil {
		return 0
	}
	return p.over.Len()
}

func (p *CeilingSensor) Explain(details *orderedmap.OrderedMap[string, any]) {
	details.Set("piece", p.offender.ID.String())
	details.Set("rank", int(p.offender.Rank))
	details.Set("y", p.offender.Position.Y())
	details.Set("over_line", p.overFor)
}

// Monitor runs the termination policy after merges have been resolved.
type Monitor struct {
	state  *State
	policy Policy
}

func NewMonitor(state *State, policy Policy) *Monitor {
	return &Monitor{state: state, policy: policy}
}

func (m *Monitor) Policy() Policy {
	return m.policy
}

func (m *Monitor) Execute(frame *world.Frame) {
	s := m.state
	if s.Phase == Over {
		return
	}

	switch m.policy.Check(frame.Now, s) {
	case Cull:
		// Runs after the step's merges are applied so none of them can
		// bring a piece back once the container is empty.
		frame.Commands.Defer(func() {
			removed := s.cull()
			s.Emit(Culled{Removed: removed})
			s.Logger.Info("container culled", "session", s.Session, "removed", removed)
		})
	case End:
		m.end()
	}
}

func (m *Monitor) end() {
	s := m.state
	s.Phase = Over

	details := orderedmap.NewOrderedMap[string, any]()
	details.Set("session", s.Session.String())
	details.Set("score", s.Score)
	details.Set("pieces", s.Pieces.Len())
	if explainer, ok := m.policy.(Explainer); ok {
		explainer.Explain(details)
	}

	s.Emit(GameOver{Session: s.Session, Details: details})

	attrs := make([]any, 0, details.Len()*2)
	for el := details.Front(); el != nil; el = el.Next() {
		attrs = append(attrs, el.Key, el.Value)
	}
	s.Logger.Info("game over", attrs...)
}
