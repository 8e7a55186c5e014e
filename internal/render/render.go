// Package render draws simulation snapshots with fogleman/gg.
// It is a debug view: the server serves it as /api/frame.png and the desktop
// host blits it to the window every frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"bullet-hell/internal/config"
	"bullet-hell/internal/game"

	"github.com/fogleman/gg"
)

// Default frame size
const (
	DefaultWidth  = 640
	DefaultHeight = 360
)

// Palette
var (
	colorBackground = color.RGBA{18, 20, 28, 255}
	colorGrid       = color.RGBA{40, 44, 58, 255}
	colorBorder     = color.RGBA{90, 96, 120, 255}
	colorPlayer     = color.RGBA{0, 200, 255, 255}
	colorEnemy      = color.RGBA{255, 70, 110, 255}
	colorDead       = color.RGBA{90, 90, 90, 255}
	colorHUD        = color.RGBA{230, 230, 230, 255}
	colorBanner     = color.RGBA{255, 215, 0, 255}
	colorHPBack     = color.RGBA{51, 51, 51, 255}
	colorHPHigh     = color.RGBA{83, 255, 69, 255}
	colorHPMid      = color.RGBA{255, 149, 0, 255}
	colorHPLow      = color.RGBA{255, 62, 62, 255}
)

// SnapshotSource is anything that publishes snapshots (the engine)
type SnapshotSource interface {
	GetSnapshot() *game.GameSnapshot
}

// Renderer draws snapshots onto a reused canvas. Arena coordinates are
// centered on the origin with Y up; the canvas is scaled to fit the arena.
type Renderer struct {
	mu     sync.Mutex
	dc     *gg.Context
	width  int
	height int
	scale  float64
}

// New creates a renderer for the given arena. A zero arena size (culling
// disabled) falls back to the default arena for framing.
func New(width, height int, sim config.SimulationConfig) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	arenaW, arenaH := sim.ArenaWidth, sim.ArenaHeight
	if arenaW <= 0 || arenaH <= 0 {
		def := config.DefaultSimulation()
		arenaW, arenaH = def.ArenaWidth, def.ArenaHeight
	}

	return &Renderer{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
		scale:  math.Min(float64(width)/arenaW, float64(height)/arenaH),
	}
}

// Size returns the frame dimensions in pixels
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// toScreen maps arena coordinates to canvas pixels
func (r *Renderer) toScreen(x, y float64) (float64, float64) {
	return float64(r.width)/2 + x*r.scale, float64(r.height)/2 - y*r.scale
}

// Render draws snap and returns a copy of the frame
func (r *Renderer) Render(snap *game.GameSnapshot) *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(snap)
	src := r.dc.Image().(*image.RGBA)
	out := image.NewRGBA(src.Rect)
	copy(out.Pix, src.Pix)
	return out
}

// RenderFrom draws the latest snapshot of src
func (r *Renderer) RenderFrom(src SnapshotSource) *image.RGBA {
	return r.Render(src.GetSnapshot())
}

// WritePNG draws snap and encodes the frame as PNG
func (r *Renderer) WritePNG(w io.Writer, snap *game.GameSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.draw(snap)
	if err := r.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	return nil
}

func (r *Renderer) draw(snap *game.GameSnapshot) {
	dc := r.dc
	r.drawBackground(dc)
	if snap == nil {
		return
	}

	for _, b := range snap.Bullets {
		if b.Active {
			r.drawBullet(dc, b)
		}
	}
	for _, e := range snap.Entities {
		r.drawEntity(dc, e)
	}
	r.drawHUD(dc, snap)
}

func (r *Renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(colorBackground)
	dc.Clear()

	// Grid every 80 arena units, through the origin
	step := 80 * r.scale
	cx, cy := float64(r.width)/2, float64(r.height)/2
	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	for x := math.Mod(cx, step); x < float64(r.width); x += step {
		dc.DrawLine(x, 0, x, float64(r.height))
	}
	for y := math.Mod(cy, step); y < float64(r.height); y += step {
		dc.DrawLine(0, y, float64(r.width), y)
	}
	dc.Stroke()

	dc.SetColor(colorBorder)
	dc.SetLineWidth(2)
	dc.DrawRectangle(1, 1, float64(r.width)-2, float64(r.height)-2)
	dc.Stroke()
}

func sideColor(tag game.Tag) color.RGBA {
	if tag == game.TagEnemy {
		return colorEnemy
	}
	return colorPlayer
}

func (r *Renderer) drawBullet(dc *gg.Context, b game.BulletSnapshot) {
	x, y := r.toScreen(b.X, b.Y)
	dc.SetColor(sideColor(b.Tag))
	dc.DrawCircle(x, y, math.Max(2, 6*r.scale))
	dc.Fill()
}

func (r *Renderer) drawEntity(dc *gg.Context, e game.EntitySnapshot) {
	x, y := r.toScreen(e.X, e.Y)
	radius := math.Max(4, 20*r.scale)

	body := sideColor(e.Tag)
	if e.Dead {
		body = colorDead
	}
	dc.SetColor(body)
	dc.DrawCircle(x, y, radius)
	dc.Fill()

	// Hitbox outline
	if e.HitboxRadius > 0 {
		dc.SetColor(color.White)
		dc.SetLineWidth(1)
		dc.DrawCircle(x, y, e.HitboxRadius*r.scale)
		dc.Stroke()
	}

	if e.MaxHealth == 0 {
		return
	}

	// Health bar
	barW := math.Max(24, 80*r.scale)
	barH := math.Max(3, 8*r.scale)
	barY := y - radius - barH - 4
	hpPercent := float64(e.Health) / float64(e.MaxHealth)

	dc.SetColor(colorHPBack)
	dc.DrawRectangle(x-barW/2, barY, barW, barH)
	dc.Fill()

	if hpPercent > 0.5 {
		dc.SetColor(colorHPHigh)
	} else if hpPercent > 0.25 {
		dc.SetColor(colorHPMid)
	} else {
		dc.SetColor(colorHPLow)
	}
	dc.DrawRectangle(x-barW/2, barY, barW*hpPercent, barH)
	dc.Fill()
}

func (r *Renderer) drawHUD(dc *gg.Context, snap *game.GameSnapshot) {
	dc.SetColor(colorHUD)
	dc.DrawString(fmt.Sprintf("tick %d  dt %s", snap.TickNumber, snap.LastDelta), 8, 16)
	dc.DrawString(fmt.Sprintf("bullets %d/%d  dropped %d/%d",
		snap.ActiveBullets[game.TagPlayer], snap.ActiveBullets[game.TagEnemy],
		snap.DroppedShots[game.TagPlayer], snap.DroppedShots[game.TagEnemy]), 8, 30)

	if snap.Phase == game.PhaseGameOver {
		dc.SetColor(colorBanner)
		dc.DrawStringAnchored("GAME OVER: "+snap.Outcome.String(),
			float64(r.width)/2, float64(r.height)/2, 0.5, 0.5)
	}
}
