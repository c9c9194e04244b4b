package game

import (
	"fmt"

	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/world"
)

// MergeResolver decides which colliding pairs fuse. It only queues commands;
// nothing is removed or created until the step's commands are flushed, and
// claims keep a piece from being used by two merges in one batch.
type MergeResolver struct {
	state *State
}

func NewMergeResolver(state *State) *MergeResolver {
	return &MergeResolver{state: state}
}

func (m *MergeResolver) Execute(frame *world.Frame) {
	m.Resolve(frame.Collisions, frame.Commands)
}

// Resolve processes one step's begin-contact batch in order and returns the
// number of merges queued. A bad pair is logged and skipped; it never stops
// the rest of the batch.
func (m *MergeResolver) Resolve(pairs []physics.CollisionPair, cmds *world.Commands) int {
	if m.state.Phase == Over {
		return 0
	}

	merges := 0
	for _, pair := range pairs {
		merged, err := m.resolvePair(pair, cmds)
		if err != nil {
			m.state.Logger.Warn("collision skipped", "a", pair.A, "b", pair.B, "error", err)
			continue
		}
		if merged {
			merges++
		}
	}
	return merges
}

func (m *MergeResolver) resolvePair(pair physics.CollisionPair, cmds *world.Commands) (bool, error) {
	s := m.state
	if s.Bounds.Contains(pair.A) || s.Bounds.Contains(pair.B) {
		return false, nil
	}

	a := s.Pieces.ByBody(pair.A)
	if a == nil {
		return false, fmt.Errorf("%w: body %d", ErrInvalidCollision, pair.A)
	}
	b := s.Pieces.ByBody(pair.B)
	if b == nil {
		return false, fmt.Errorf("%w: body %d", ErrInvalidCollision, pair.B)
	}

	if a.ID == b.ID || cmds.Claimed(a.ID) || cmds.Claimed(b.ID) {
		return false, nil
	}
	if a.Rank != b.Rank || a.Rank == s.Table.Highest() {
		return false, nil
	}

	next := a.Rank + 1
	desc := s.Table.MustDescribe(next)

	cmds.Claim(a.ID)
	cmds.Claim(b.ID)
	cmds.Delete(a.ID)
	cmds.Delete(b.ID)

	mid := a.Position.Add(b.Position).Mul(0.5)
	cmds.Spawn(world.SpawnRequest{Rank: next, Position: mid})

	s.Score += desc.Points
	s.Emit(PieceMerged{
		Consumed: [2]world.PieceID{a.ID, b.ID},
		Rank:     next,
		Position: mid,
		Points:   desc.Points,
	})
	s.Logger.Debug("pieces merged", "a", a.ID, "b", b.ID, "rank", next)
	return true, nil
}
