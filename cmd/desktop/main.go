// =============================================================================
// BULLET HELL - DESKTOP
// =============================================================================
// Plays the simulation in a window. The host owns the frame loop: every
// ebiten update steps the engine once with the keys held at that moment.
//
// Arrows/WASD move, R starts a new round, Esc quits.
// =============================================================================
package main

import (
	"fmt"
	"time"

	"bullet-hell/internal/config"
	"bullet-hell/internal/game"
	"bullet-hell/internal/logger"
	"bullet-hell/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/joho/godotenv"
)

// keyBindings maps window keys onto movement keys
var keyBindings = []struct {
	key  game.Key
	keys []ebiten.Key
}{
	{game.KeyUp, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}},
	{game.KeyDown, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}},
	{game.KeyLeft, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}},
	{game.KeyRight, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}},
}

// Desktop is the ebiten.Game driving the engine
type Desktop struct {
	engine   *game.Engine
	renderer *render.Renderer
	frame    *ebiten.Image
	elapsed  time.Duration
	over     bool
}

func newDesktop(rules config.RulesConfig, width, height int) *Desktop {
	engine := game.NewEngine(game.EngineConfig{Rules: rules})
	renderer := render.New(width, height, rules.Simulation)
	w, h := renderer.Size()
	return &Desktop{
		engine:   engine,
		renderer: renderer,
		frame:    ebiten.NewImage(w, h),
		elapsed:  engine.TickInterval(),
	}
}

func heldKeys() game.KeySet {
	var ks game.KeySet
	for _, b := range keyBindings {
		for _, k := range b.keys {
			if ebiten.IsKeyPressed(k) {
				ks = ks.With(b.key)
				break
			}
		}
	}
	return ks
}

func (d *Desktop) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		d.engine.Reset()
		d.over = false
	}

	stats := d.engine.Step(d.elapsed, heldKeys())
	if stats.Phase == game.PhaseGameOver && !d.over {
		d.over = true
		logger.Log.WithField("outcome", d.engine.GetSnapshot().Outcome.String()).Info("Press R to play again")
	}
	return nil
}

func (d *Desktop) Draw(screen *ebiten.Image) {
	img := d.renderer.RenderFrom(d.engine)
	d.frame.WritePixels(img.Pix)
	screen.DrawImage(d.frame, nil)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%.0f tps", ebiten.ActualTPS()), 8, 40)
}

func (d *Desktop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return d.renderer.Size()
}

func main() {
	_ = godotenv.Load(".env")
	logger.Init()

	rules := config.Load().Rules
	desktop := newDesktop(rules, 960, 540)
	w, h := desktop.renderer.Size()

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Bullet Hell")
	ebiten.SetTPS(int(time.Second / desktop.elapsed))

	if err := ebiten.RunGame(desktop); err != nil {
		logger.Log.WithError(err).Fatal("Desktop host failed")
	}
}
