// Package render draws a game snapshot with ebiten. It only reads what the
// game exposes through Game.Pieces, Game.Preview and events.
package render

import (
	"errors"
	"fmt"
	"image/color"
	_ "image/png"
	"io/fs"

	"github.com/chewxy/math32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/suika/game"
	"github.com/plus3/suika/rank"
)

type Theme struct {
	Background color.RGBA
	Wall       color.RGBA
	Ceiling    color.RGBA
	Guide      color.RGBA
	Text       color.RGBA
	Palette    []color.RGBA
}

func DefaultTheme() Theme {
	return Theme{
		Background: color.RGBA{247, 244, 200, 255},
		Wall:       color.RGBA{230, 177, 67, 255},
		Ceiling:    color.RGBA{220, 80, 60, 255},
		Guide:      color.RGBA{120, 100, 60, 120},
		Text:       color.RGBA{60, 40, 20, 255},
		Palette: []color.RGBA{
			{220, 20, 60, 255},
			{255, 99, 71, 255},
			{148, 0, 211, 255},
			{255, 165, 0, 255},
			{255, 140, 0, 255},
			{204, 0, 0, 255},
			{240, 230, 140, 255},
			{255, 182, 193, 255},
			{255, 215, 0, 255},
			{154, 205, 50, 255},
			{34, 139, 34, 255},
		},
	}
}

// PieceColor returns the fill for a rank, cycling the palette for tables
// longer than it.
func (t Theme) PieceColor(rk rank.Rank) color.RGBA {
	if len(t.Palette) == 0 {
		return t.Wall
	}
	return t.Palette[int(rk)%len(t.Palette)]
}

// Frame is everything drawn for one screen.
type Frame struct {
	Pieces    []game.View
	Next      rank.Descriptor
	AfterNext rank.Descriptor
	CursorX   float64
	Score     int
	Phase     game.Phase
	// Elapsed drives the game-over pulse, in seconds.
	Elapsed float64
}

type Renderer struct {
	theme     Theme
	container game.Container
	sprites   map[rank.Rank]*ebiten.Image
}

func New(container game.Container, theme Theme) *Renderer {
	return &Renderer{
		theme:     theme,
		container: container,
		sprites:   make(map[rank.Rank]*ebiten.Image),
	}
}

// LoadSprites loads every rank's asset from fsys. Ranks whose asset is
// missing keep being drawn as plain circles; their errors are returned joined.
func (r *Renderer) LoadSprites(fsys fs.FS, table *rank.Table) error {
	var errs []error
	for _, desc := range table.Descriptors() {
		if desc.Asset == "" {
			continue
		}
		img, _, err := ebitenutil.NewImageFromFileSystem(fsys, desc.Asset)
		if err != nil {
			errs = append(errs, fmt.Errorf("sprite for %s: %w", desc.Name, err))
			continue
		}
		r.sprites[desc.Rank] = img
	}
	return errors.Join(errs...)
}

// Size is the logical screen size: the container plus the side panel.
func (r *Renderer) Size() (int, int) {
	return int(r.container.Width) + PanelWidth, int(r.container.Height)
}

// PanelWidth is the width of the preview and score column.
const PanelWidth = 180

func (r *Renderer) Draw(screen *ebiten.Image, f Frame) {
	screen.Fill(r.theme.Background)
	r.drawContainer(screen)

	if f.Phase == game.Playing {
		r.drawGuide(screen, f)
	}

	for _, p := range f.Pieces {
		r.drawPiece(screen, float32(p.Position.X()), float32(p.Position.Y()), float32(p.Radius), p.Rank, p.Scale)
	}

	r.drawPanel(screen, f)

	if f.Phase == game.Over {
		r.drawGameOver(screen, f)
	}
}

func (r *Renderer) drawContainer(screen *ebiten.Image) {
	c := r.container
	w, h := float32(c.Width), float32(c.Height)
	wall, floor := float32(c.WallThickness), float32(c.FloorThickness)

	vector.DrawFilledRect(screen, 0, h-floor, w, floor, r.theme.Wall, false)
	vector.DrawFilledRect(screen, 0, 0, wall, h-floor, r.theme.Wall, false)
	vector.DrawFilledRect(screen, w-wall, 0, wall, h-floor, r.theme.Wall, false)

	ceiling := float32(c.CeilingY)
	for x := wall; x < w-wall; x += 16 {
		vector.StrokeLine(screen, x, ceiling, math32.Min(x+8, w-wall), ceiling, 2, r.theme.Ceiling, false)
	}
}

func (r *Renderer) drawGuide(screen *ebiten.Image, f Frame) {
	x := GuideX(f.CursorX, f.Next.Radius, r.container)
	top := float32(r.container.DropY)
	bottom := float32(r.container.Height - r.container.FloorThickness)

	vector.StrokeLine(screen, x, top, x, bottom, 1, r.theme.Guide, false)
	r.drawPiece(screen, x, top, float32(f.Next.Radius), f.Next.Rank, f.Next.Scale)
}

func (r *Renderer) drawPiece(screen *ebiten.Image, x, y, radius float32, rk rank.Rank, scale float64) {
	if sprite, ok := r.sprites[rk]; ok {
		b := sprite.Bounds()
		size := math32.Max(float32(b.Dx()), float32(b.Dy()))
		s := 2 * radius / size * float32(scale)

		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
		opts.GeoM.Scale(float64(s), float64(s))
		opts.GeoM.Translate(float64(x), float64(y))
		opts.Filter = ebiten.FilterLinear
		screen.DrawImage(sprite, opts)
		return
	}

	vector.DrawFilledCircle(screen, x, y, radius, r.theme.PieceColor(rk), true)
	vector.StrokeCircle(screen, x, y, radius, 2, r.theme.Text, true)
}

func (r *Renderer) drawPanel(screen *ebiten.Image, f Frame) {
	left := float32(r.container.Width) + 20
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %d", f.Score), int(left), 20)

	ebitenutil.DebugPrintAt(screen, "NEXT", int(left), 60)
	cx := left + PanelWidth/2 - 20
	r.drawPiece(screen, cx, 140, PreviewRadius(f.Next.Radius, 60), f.Next.Rank, f.Next.Scale)
	ebitenutil.DebugPrintAt(screen, f.Next.Name, int(left), 210)

	ebitenutil.DebugPrintAt(screen, "THEN", int(left), 250)
	r.drawPiece(screen, cx, 300, PreviewRadius(f.AfterNext.Radius, 40), f.AfterNext.Rank, f.AfterNext.Scale)
	ebitenutil.DebugPrintAt(screen, f.AfterNext.Name, int(left), 350)
}

func (r *Renderer) drawGameOver(screen *ebiten.Image, f Frame) {
	w, h := float32(r.container.Width), float32(r.container.Height)
	shade := color.RGBA{0, 0, 0, uint8(120 * Pulse(f.Elapsed))}
	vector.DrawFilledRect(screen, 0, 0, w, h, shade, false)

	msg := fmt.Sprintf("GAME OVER  score %d  press R", f.Score)
	ebitenutil.DebugPrintAt(screen, msg, int(w/2)-len(msg)*3, int(h/2))
}

// GuideX clamps the cursor so a piece of the given radius dropped there
// starts clear of both walls.
func GuideX(cursorX, radius float64, c game.Container) float32 {
	minX, maxX := c.Inner(radius)
	x := float32(cursorX)
	return math32.Max(float32(minX), math32.Min(x, float32(maxX)))
}

// PreviewRadius shrinks large pieces to fit a preview slot of the given size.
func PreviewRadius(radius, limit float64) float32 {
	return math32.Min(float32(radius), float32(limit))
}

// Pulse oscillates between 0.5 and 1 with a two second period.
func Pulse(elapsed float64) float32 {
	return 0.75 + 0.25*math32.Sin(float32(elapsed)*math32.Pi)
}
