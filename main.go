package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/OpticalFlyer/berry/config"
	"github.com/OpticalFlyer/berry/ecs"
	"github.com/OpticalFlyer/berry/fonts"
	"github.com/OpticalFlyer/berry/layout"
	"github.com/OpticalFlyer/berry/picture"
	"github.com/OpticalFlyer/berry/pointer"
	"github.com/OpticalFlyer/berry/proj"
	"github.com/OpticalFlyer/berry/render"
	"github.com/OpticalFlyer/berry/snapshot"
	"github.com/OpticalFlyer/berry/ui"
)

// Berry implements ebiten.Game interface.
type Berry struct {
	cfg      *config.Config
	ui       *ui.UI
	renderer *render.Renderer
	mapView  *ui.MapView
	status   ecs.Entity
	clicks   int

	debugMode bool
	width     int
	height    int

	lastZoomTime float64 // Track last zoom time

	// Touch state for the primary touch and pinch zoom
	touches touchState
}

func (g *Berry) Update() error {
	frame := ui.Frame{
		Viewport: layout.Viewport{Width: uint32(g.width), Height: uint32(g.height)},
		Pointer:  g.samplePointer(),
	}
	// Layout failures are logged by the UI; the frame is drawn with
	// whatever was solved.
	_ = g.ui.Maintain(frame)

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debugMode = !g.debugMode
		g.renderer.Debug = g.debugMode || g.cfg.UI.Debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.writeSnapshot(frame.Viewport)
	}

	// Only handle map interactions if we're not interacting with UI
	if g.mapView != nil && !g.ui.Controller().IsInteractingWithUI() {
		g.handleMapKeys()
		g.handleTouchZoom()
	}
	g.renderer.Forget(g.ui.World())
	return nil
}

func (g *Berry) samplePointer() pointer.State {
	x, y := ebiten.CursorPosition()
	st := pointer.State{
		X:      int32(x),
		Y:      int32(y),
		Left:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Middle: ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		Right:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
	}
	if tx, ty, ok := g.touches.primary(); ok {
		st.X, st.Y, st.Left = int32(tx), int32(ty), true
	}
	return st
}

func (g *Berry) handleMapKeys() {
	// Handle keyboard zooming
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || // = key
		inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) { // numpad +
		g.zoom(true, float64(g.width)/2, float64(g.height)/2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || // - key
		inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) { // numpad -
		g.zoom(false, float64(g.width)/2, float64(g.height)/2)
	}

	// Handle mouse wheel zooming with time-based throttling
	currentTime := float64(time.Now().UnixNano()) / 1e9 // Current time in seconds
	_, wheelY := ebiten.Wheel()
	if wheelY != 0 && (currentTime-g.lastZoomTime) > 0.1 { // 100ms between zooms
		x, y := ebiten.CursorPosition()
		g.zoom(wheelY > 0, float64(x), float64(y))
		g.lastZoomTime = currentTime
	}

	// Handle keyboard panning
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		g.mapView.Pan(g.ui, ui.PanLeft)
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		g.mapView.Pan(g.ui, ui.PanRight)
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		g.mapView.Pan(g.ui, ui.PanUp)
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		g.mapView.Pan(g.ui, ui.PanDown)
	}
}

func (g *Berry) zoom(in bool, x, y float64) {
	if err := g.mapView.ZoomAtPoint(g.ui, in, x, y); err != nil {
		log.Printf("zoom failed: %v", err)
	}
}

func (g *Berry) writeSnapshot(vp layout.Viewport) {
	path := fmt.Sprintf("berry-%s.pdf", time.Now().Format("20060102-150405"))
	opts := snapshot.Options{FontSize: g.cfg.UI.FontSize}
	if err := snapshot.WriteFile(path, g.ui.World(), vp, opts); err != nil {
		log.Printf("snapshot failed: %v", err)
		return
	}
	log.Printf("snapshot written to %s", path)
}

func (g *Berry) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.ui.World())

	// Draw debug overlay if enabled
	if g.debugMode {
		render.DebugOverlay(screen, g.ui.World())
	}
}

func (g *Berry) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width = outsideWidth
	g.height = outsideHeight
	return outsideWidth, outsideHeight
}

// build creates the demo widgets: a docking panel holding a click
// counter, a centered title and the optional shapefile map
func (g *Berry) build() error {
	u := g.ui

	if g.cfg.Map.Shapefile != "" {
		opts := picture.ShapefileOptions{
			Projection: proj.ByName(g.cfg.Map.Projection),
			Fill:       color.RGBA{120, 160, 120, 255},
			Background: color.RGBA{200, 220, 240, 255},
		}
		load := func(w, h float64) (picture.Picture, error) {
			opts.Width, opts.Height = w, h
			return picture.LoadShapefile(g.cfg.Map.Shapefile, opts)
		}
		mv, err := ui.NewMapView(u, load, float64(g.cfg.Map.Width), float64(g.cfg.Map.Height), 240, 60, 0)
		if err != nil {
			return err
		}
		g.mapView = mv
	}

	ui.NewElement().
		Name("title").
		Text(ui.Text{FontSize: g.cfg.UI.FontSize * 1.5, Color: color.RGBA{230, 230, 230, 255}, Text: g.cfg.Window.Title}).
		ShrinkToContents().
		XConstraints(func(self ecs.Entity) layout.Constraints {
			return layout.Constraints{
				ui.Left(self).Add(ui.Width(self).Mul(0.5)).Eq(ui.Width(ui.Stage).Mul(0.5)),
			}
		}).
		Top(ui.Const(10)).
		ZIndex(ui.Const(1)).
		Build(u)

	panel := ui.NewPanel(u, 10, 40, 200, 300, 10, "Map Controls")
	body := panel.Body()

	g.status = ui.NewElement().
		Name("status").
		Text(ui.Text{FontSize: g.cfg.UI.FontSize, Color: color.RGBA{255, 255, 255, 255}, Text: "No clicks yet"}).
		ShrinkToContents().
		Left(ui.Left(body).Plus(10)).
		Top(ui.Top(body).Plus(70)).
		ZIndex(ui.ZIndex(body).Plus(3)).
		Build(u)

	place := ui.NewElement().
		Left(ui.Left(body).Plus(10)).
		Top(ui.Top(body).Plus(30)).
		ZIndex(ui.ZIndex(body).Plus(3))
	style := ui.DefaultButtonStyle
	style.FontSize = g.cfg.UI.FontSize
	ui.NewButton(u, place, "Click me", style, func() {
		g.clicks++
		u.SetText(g.status, ui.Text{
			FontSize: g.cfg.UI.FontSize,
			Color:    color.RGBA{255, 255, 255, 255},
			Text:     fmt.Sprintf("Clicked %d times", g.clicks),
		})
	})
	return nil
}

func main() {
	dir := flag.String("config", ".", "directory holding "+config.FileName)
	flag.Parse()

	cfg, err := config.LoadOptional(*dir)
	if err != nil {
		log.Fatal(err)
	}

	fc, err := fonts.New()
	if err != nil {
		log.Fatal(err)
	}
	renderer := render.New(fc, cfg.UI.FontSize, log.Default())
	renderer.Debug = cfg.UI.Debug

	opts := []ui.Option{ui.WithMeasurer(renderer), ui.WithLogger(log.Default())}
	if cfg.UI.Shrinkwrap == "once" {
		opts = append(opts, ui.WithShrinkwrapOnce())
	}

	app := &Berry{
		cfg:          cfg,
		ui:           ui.New(opts...),
		renderer:     renderer,
		width:        cfg.Window.Width,
		height:       cfg.Window.Height,
		lastZoomTime: float64(time.Now().UnixNano()) / 1e9,
	}
	if err := app.build(); err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)

	if err := ebiten.RunGame(app); err != nil {
		log.Fatal(err)
	}
}
