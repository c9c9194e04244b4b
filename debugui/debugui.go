// Package debugui renders Dear ImGui panels for inspecting a running game:
// a piece browser and inspector, the game state and queue, and step timings.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/suika/game"
)

// Overlay owns every debug panel. Call Render between the ImGui backend's
// BeginFrame and EndFrame.
type Overlay struct {
	Browser     *PieceBrowser
	Inspector   *PieceInspector
	State       *StatePanel
	Performance *PerformanceStats
}

func New() *Overlay {
	return &Overlay{
		Browser:     NewPieceBrowser(50),
		Inspector:   NewPieceInspector(),
		State:       NewStatePanel(),
		Performance: NewPerformanceStats(120),
	}
}

func (o *Overlay) Render(g *game.Game, deltaTime float32) {
	selected := o.Browser.Render(g)
	o.Inspector.Render(g, selected)
	o.State.Render(g)
	o.Performance.Render(g, deltaTime)
}

// WantCaptureMouse reports whether ImGui is consuming mouse input, in which
// case clicks must not drop pieces.
func WantCaptureMouse() bool {
	return imgui.CurrentIO().WantCaptureMouse()
}

func WantCaptureKeyboard() bool {
	return imgui.CurrentIO().WantCaptureKeyboard()
}
