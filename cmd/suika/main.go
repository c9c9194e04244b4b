package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/suika/config"
	"github.com/plus3/suika/debugui"
	debugui_ebiten "github.com/plus3/suika/debugui/ebiten"
	"github.com/plus3/suika/game"
	"github.com/plus3/suika/physics"
	"github.com/plus3/suika/render"
)

type App struct {
	game     *game.Game
	renderer *render.Renderer
	tps      int
	elapsed  float64

	imguiBackend *debugui_ebiten.ImguiBackend
	overlay      *debugui.Overlay
	frameTimer   *debugui.FrameTimer
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file. The embedded defaults are used when empty.")
	assetsDir := flag.String("assets", "", "Directory holding the piece sprites. Pieces are drawn as circles when empty.")
	debug := flag.Bool("debug", false, "Show the debug overlay.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	level, err := cfg.LogLevel()
	if err != nil {
		log.Fatalf("Failed to read log level: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts, err := cfg.GameOptions(logger)
	if err != nil {
		log.Fatalf("Failed to build game options: %v", err)
	}

	g, err := game.New(physics.NewSim(cfg.SimConfig()), opts)
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}

	renderer := render.New(g.Container(), render.DefaultTheme())
	if *assetsDir != "" {
		if err := renderer.LoadSprites(os.DirFS(*assetsDir), g.Table()); err != nil {
			log.Printf("Some sprites failed to load: %v", err)
		}
	}

	app := &App{
		game:     g,
		renderer: renderer,
		tps:      cfg.Window.TPS,
	}

	w, h := renderer.Size()
	if *debug || cfg.Window.Debug {
		app.imguiBackend = debugui_ebiten.New("Suika", int(float64(w)*cfg.Window.Scale), int(float64(h)*cfg.Window.Scale))
		app.overlay = debugui.New()
		app.frameTimer = debugui.NewFrameTimer()
	} else {
		ebiten.SetWindowSize(int(float64(w)*cfg.Window.Scale), int(float64(h)*cfg.Window.Scale))
		ebiten.SetWindowTitle("Suika")
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(app.tps)

	log.Printf("Starting session %s", g.Session())
	if err := ebiten.RunGame(app); err != nil {
		log.Fatalf("Game exited with error: %v", err)
	}
	log.Printf("Final score: %d", g.Score())
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if a.imguiBackend != nil {
		a.imguiBackend.BeginFrame()
		a.overlay.Render(a.game, a.frameTimer.GetDeltaTime())
		a.imguiBackend.EndFrame()
	}

	captured := a.imguiBackend != nil && debugui.WantCaptureMouse()
	if !captured && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		next, _ := a.game.Preview()
		x := render.GuideX(a.cursorX(), next.Radius, a.game.Container())
		a.game.Drop(float64(x), a.game.Container().DropY)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := a.game.Reset(); err != nil {
			return err
		}
		a.elapsed = 0
	}

	dt := 1.0 / float64(a.tps)
	a.game.Step(dt)
	a.elapsed += dt

	for _, ev := range a.game.DrainEvents() {
		if over, ok := ev.(game.GameOver); ok {
			log.Printf("Game over: session %s, score %d", over.Session, a.game.Score())
		}
	}
	return nil
}

func (a *App) cursorX() float64 {
	x, _ := ebiten.CursorPosition()
	return float64(x)
}

func (a *App) Draw(screen *ebiten.Image) {
	next, after := a.game.Preview()
	a.renderer.Draw(screen, render.Frame{
		Pieces:    a.game.Pieces(),
		Next:      next,
		AfterNext: after,
		CursorX:   a.cursorX(),
		Score:     a.game.Score(),
		Phase:     a.game.Phase(),
		Elapsed:   a.elapsed,
	})

	if a.imguiBackend != nil {
		a.imguiBackend.Draw(screen)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if a.imguiBackend != nil {
		a.imguiBackend.Layout(outsideWidth, outsideHeight)
	}
	return a.renderer.Size()
}
