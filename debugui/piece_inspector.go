package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/suika/game"
	"github.com/plus3/suika/world"
)

type PieceInspector struct{}

func NewPieceInspector() *PieceInspector {
	return &PieceInspector{}
}

func (pi *PieceInspector) Render(g *game.Game, selected world.PieceID) {
	if !imgui.BeginV("Piece Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if selected == 0 {
		imgui.Text("No piece selected")
		imgui.End()
		return
	}

	st := g.State()
	piece := st.Pieces.Get(selected)
	if piece == nil {
		imgui.Text(fmt.Sprintf("%v is gone", selected))
		imgui.End()
		return
	}
	desc := st.Table.MustDescribe(piece.Rank)

	imgui.Text(fmt.Sprintf("Piece: %v", piece.ID))
	imgui.Text(fmt.Sprintf("Slot %d, generation %d", piece.ID.Index(), piece.ID.Generation()))
	imgui.Separator()

	if imgui.TreeNodeStr("Rank") {
		imgui.Text(fmt.Sprintf("Rank: %d (%s)", desc.Rank, desc.Name))
		imgui.Text(fmt.Sprintf("Radius: %.1f", desc.Radius))
		imgui.Text(fmt.Sprintf("Scale: %.2f", desc.Scale))
		imgui.Text(fmt.Sprintf("Points on merge: %d", desc.Points))
		imgui.Text(fmt.Sprintf("Asset: %s", desc.Asset))
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Body") {
		imgui.Text(fmt.Sprintf("Handle: slot %d, generation %d", piece.Body.Index(), piece.Body.Generation()))
		imgui.Text(fmt.Sprintf("Position: (%.2f, %.2f)", piece.Position.X(), piece.Position.Y()))
		top := piece.Position.Y() - desc.Radius
		imgui.Text(fmt.Sprintf("Top edge: %.1f (ceiling %.0f)", top, st.Container.CeilingY))
		imgui.TreePop()
	}

	imgui.End()
}
