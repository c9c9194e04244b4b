package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/suika/game"
	"github.com/plus3/suika/world"
)

type PieceInfo struct {
	ID   world.PieceID
	Rank int
	Name string
	X, Y float64
}

type PieceBrowser struct {
	rows          []PieceInfo
	selected      world.PieceID
	filterText    string
	sortColumn    int
	sortAscending bool
	perPage       int
	currentPage   int
}

func NewPieceBrowser(perPage int) *PieceBrowser {
	return &PieceBrowser{
		sortAscending: true,
		perPage:       perPage,
	}
}

// Render draws the browser and returns the selected piece, or zero.
func (pb *PieceBrowser) Render(g *game.Game) world.PieceID {
	if !imgui.BeginV("Pieces", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return pb.selected
	}

	pb.Refresh(g.Pieces())

	imgui.InputTextWithHint("##search", "Search...", &pb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		pb.filterText = ""
	}

	filtered := pb.Filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PieceTable", 4, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Piece")
		imgui.TableSetupColumn("Rank")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Position")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			pb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		start, end := pb.pageBounds(len(filtered))
		for _, piece := range filtered[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(piece.ID.String(), pb.selected == piece.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				pb.selected = piece.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", piece.Rank))

			imgui.TableNextColumn()
			imgui.Text(piece.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("(%.0f, %.0f)", piece.X, piece.Y))
		}

		imgui.EndTable()
	}

	if len(filtered) > pb.perPage {
		totalPages := (len(filtered) + pb.perPage - 1) / pb.perPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d pieces)", pb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && pb.currentPage > 0 {
			pb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && pb.currentPage < totalPages-1 {
			pb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d pieces", len(filtered)))
	}

	imgui.End()
	return pb.selected
}

// Refresh replaces the rows with the current pieces, keeping the sort order.
// A selection whose piece is gone is cleared.
func (pb *PieceBrowser) Refresh(views []game.View) {
	pb.rows = pb.rows[:0]
	found := false
	for _, v := range views {
		pb.rows = append(pb.rows, PieceInfo{
			ID:   v.ID,
			Rank: int(v.Rank),
			Name: v.Name,
			X:    v.Position.X(),
			Y:    v.Position.Y(),
		})
		if v.ID == pb.selected {
			found = true
		}
	}
	if !found {
		pb.selected = 0
	}
	pb.sortRows()
}

func (pb *PieceBrowser) SortBy(column int, ascending bool) {
	pb.sortColumn = column
	pb.sortAscending = ascending
	pb.sortRows()
}

func (pb *PieceBrowser) sortRows() {
	sort.SliceStable(pb.rows, func(i, j int) bool {
		a, b := pb.rows[i], pb.rows[j]
		var less bool

		switch pb.sortColumn {
		case 1:
			less = a.Rank < b.Rank
		case 2:
			less = a.Name < b.Name
		case 3:
			less = a.Y < b.Y
		default:
			less = a.ID < b.ID
		}

		if !pb.sortAscending {
			return !less
		}
		return less
	})
}

// SetFilter sets the search text. Matching is by id, rank or name.
func (pb *PieceBrowser) SetFilter(text string) {
	pb.filterText = text
	pb.currentPage = 0
}

func (pb *PieceBrowser) Filtered() []PieceInfo {
	if pb.filterText == "" {
		return pb.rows
	}

	filterLower := strings.ToLower(pb.filterText)
	filtered := make([]PieceInfo, 0, len(pb.rows))
	for _, row := range pb.rows {
		if strings.Contains(row.ID.String(), filterLower) ||
			strings.Contains(fmt.Sprintf("%d", row.Rank), filterLower) ||
			strings.Contains(strings.ToLower(row.Name), filterLower) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

func (pb *PieceBrowser) pageBounds(n int) (int, int) {
	start := pb.currentPage * pb.perPage
	if start > n {
		pb.currentPage = 0
		start = 0
	}
	return start, min(start+pb.perPage, n)
}

func (pb *PieceBrowser) Select(id world.PieceID) {
	pb.selected = id
}

func (pb *PieceBrowser) Selected() world.PieceID {
	return pb.selected
}
