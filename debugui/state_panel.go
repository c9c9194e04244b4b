package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/suika/game"
)

// StatePanel shows the session, the spawn queue and the termination policy,
// and can restart the game.
type StatePanel struct {
	lastError error
}

func NewStatePanel() *StatePanel {
	return &StatePanel{}
}

func (sp *StatePanel) Render(g *game.Game) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(300, 260), imgui.CondOnce)

	if !imgui.BeginV("Game State", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	st := g.State()
	imgui.Text(fmt.Sprintf("Session: %s", st.Session))
	imgui.Text(fmt.Sprintf("Phase: %s", st.Phase))
	imgui.Text(fmt.Sprintf("Score: %d", st.Score))
	imgui.Separator()

	next, after := g.Preview()
	imgui.Text(fmt.Sprintf("Next: %s (rank %d)", next.Name, next.Rank))
	imgui.Text(fmt.Sprintf("Then: %s (rank %d)", after.Name, after.Rank))
	imgui.Text(fmt.Sprintf("Droppable ranks: %d of %d", st.Queue.Droppable(), st.Table.Count()))
	imgui.Separator()

	stats := g.RegistryStats()
	imgui.Text(fmt.Sprintf("Live pieces: %d", stats.Live))
	imgui.Text(fmt.Sprintf("Slots: %d (%d free, %d blocks)", stats.Capacity, stats.FreeSlots, stats.Blocks))

	if imgui.TreeNodeStr("Termination") {
		sp.renderPolicy(g)
		imgui.TreePop()
	}

	if imgui.Button("Reset") {
		sp.lastError = g.Reset()
	}
	if sp.lastError != nil {
		imgui.SameLine()
		imgui.Text(sp.lastError.Error())
	}

	imgui.End()
}

func (sp *StatePanel) renderPolicy(g *game.Game) {
	switch p := g.Policy().(type) {
	case *game.CeilingSensor:
		imgui.BulletText(fmt.Sprintf("Ceiling sensor, grace %s", p.Grace))
		imgui.BulletText(fmt.Sprintf("Pieces over the line: %d", p.Tracking()))
	case *game.OverflowCull:
		imgui.BulletText(fmt.Sprintf("Overflow cull above %d pieces every %s", p.Threshold, p.Interval))
	default:
		imgui.BulletText(fmt.Sprintf("%T", p))
	}
}
