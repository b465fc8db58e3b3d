// Package playing provides the demo gameplay scene: a player walking a tile
// stage under a following camera.
package playing

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/younwookim/stagekit/internal/application/app"
	"github.com/younwookim/stagekit/internal/application/scene"
	"github.com/younwookim/stagekit/internal/domain/entity"
	"github.com/younwookim/stagekit/internal/infrastructure/config"
	"github.com/younwookim/stagekit/internal/infrastructure/logging"
	"github.com/younwookim/stagekit/internal/infrastructure/resource"
)

// Asset keys used by the demo
const (
	StageKey  = "stages/demo.json"
	SpriteKey = "sprites/player.png"
)

const (
	moveSpeed  = 120.0 // Pixels per second at full axis
	followRate = 8.0   // Camera catch-up per second

	placeholderW = 12
	placeholderH = 20
)

// Colors for rendering
var (
	colorBG     = color.RGBA{26, 26, 46, 255}
	colorWall   = color.RGBA{80, 80, 100, 255}
	colorWater  = color.RGBA{40, 90, 200, 255}
	colorPlayer = color.RGBA{100, 200, 100, 255}
	colorCursor = color.RGBA{255, 255, 255, 64}
)

// Playing is the main gameplay scene
type Playing struct {
	scene.Base

	ctx       *app.Context
	stageKey  string
	spriteKey string
	newPause  func() scene.Scene

	stageHandle  *resource.Handle
	spriteHandle *resource.Handle
	sprite       *resource.Image // Nil when the placeholder is drawn

	stage      *entity.Stage
	background color.RGBA
	playerW    int
	playerH    int
	x, y       float64
	paused     bool
	err        error

	pixel *ebiten.Image
	log   *slog.Logger
}

// New creates a Playing scene over the given stage and sprite assets.
// newPause builds the overlay pushed when the pause button is pressed.
func New(ctx *app.Context, stageKey, spriteKey string, newPause func() scene.Scene) *Playing {
	return &Playing{
		ctx:       ctx,
		stageKey:  stageKey,
		spriteKey: spriteKey,
		newPause:  newPause,
		log:       logging.For("playing"),
	}
}

// OnEnter acquires the stage and sprite (implements scene.Scene).
// If the stage cannot be loaded the next Update leaves the scene; a missing
// sprite falls back to a placeholder box.
func (p *Playing) OnEnter() {
	p.err = p.loadStage()
	if p.err != nil {
		return
	}
	p.loadSprite()

	p.x = float64(p.stage.SpawnX)
	p.y = float64(p.stage.SpawnY)

	cam := p.ctx.Camera
	cam.Rotation = 0
	cx, cy := p.center()
	cam.Follow(cx, cy, 1)
	cam.ClampTo(float64(p.stage.PixelWidth()), float64(p.stage.PixelHeight()))
}

func (p *Playing) loadStage() error {
	h, err := p.ctx.Resources.GetOrLoad(context.Background(), p.stageKey)
	if err != nil {
		return fmt.Errorf("failed to load stage: %w", err)
	}
	p.stageHandle = h

	data, ok := resource.As[resource.Data](h)
	if !ok {
		return fmt.Errorf("stage %q is not a JSON document", p.stageKey)
	}
	cfg, err := config.ParseStage(data)
	if err != nil {
		return err
	}

	p.stage = BuildStage(cfg)
	p.background = colorBG
	if cfg.Background.Color != "" {
		if c, err := ParseColor(cfg.Background.Color); err == nil {
			p.background = c
		} else {
			p.log.Warn("ignoring background", "stage", cfg.ID, "err", err)
		}
	}
	return nil
}

func (p *Playing) loadSprite() {
	p.playerW, p.playerH = placeholderW, placeholderH

	h, err := p.ctx.Resources.GetOrLoad(context.Background(), p.spriteKey)
	if err != nil {
		var le *resource.LoadError
		if errors.As(err, &le) {
			p.log.Warn("using placeholder sprite", "key", le.Key, "kind", le.Kind, "err", le.Err)
		}
		return
	}

	img, ok := resource.As[*resource.Image](h)
	if !ok {
		p.log.Warn("sprite is not an image", "key", p.spriteKey)
		h.Release()
		return
	}
	p.spriteHandle = h
	p.sprite = img
	p.playerW, p.playerH = img.Bounds().Dx(), img.Bounds().Dy()
}

// OnExit releases the assets acquired in OnEnter (implements scene.Scene).
func (p *Playing) OnExit() {
	if p.stageHandle != nil {
		p.stageHandle.Release()
		p.stageHandle = nil
	}
	if p.spriteHandle != nil {
		p.spriteHandle.Release()
		p.spriteHandle = nil
	}
	p.sprite = nil
	p.stage = nil
}

// OnPause implements scene.Pauser.
func (p *Playing) OnPause() {
	p.paused = true
}

// OnResume implements scene.Pauser.
func (p *Playing) OnResume() {
	p.paused = false
}

// Err returns the stage failure that made the scene give up, if any.
func (p *Playing) Err() error {
	return p.err
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update(dt float64) (*scene.Transition, error) {
	if p.err != nil {
		p.log.Warn("leaving stage", "key", p.stageKey, "err", p.err)
		return scene.Pop(), nil
	}

	in := p.ctx.Input
	if in.Pressed("pause") {
		return scene.Push(p.newPause()), nil
	}
	if in.Pressed("cancel") {
		return scene.Pop(), nil
	}

	p.move(in.Axis("horizontal")*moveSpeed*dt, in.Axis("vertical")*moveSpeed*dt)

	cam := p.ctx.Camera
	step := p.ctx.Config.Camera.ZoomStep * dt
	if in.Held("zoomIn") {
		cam.SetZoom(cam.Zoom + step)
	}
	if in.Held("zoomOut") {
		cam.SetZoom(cam.Zoom - step)
	}

	cx, cy := p.center()
	cam.Follow(cx, cy, math.Min(1, followRate*dt))
	cam.ClampTo(float64(p.stage.PixelWidth()), float64(p.stage.PixelHeight()))

	return nil, nil // nil = stay on this scene
}

// move slides the player one pixel at a time and stops each axis at the
// first solid tile.
func (p *Playing) move(dx, dy float64) {
	p.x = p.slide(p.x, dx, func(v float64) bool { return p.blocked(v, p.y) })
	p.y = p.slide(p.y, dy, func(v float64) bool { return p.blocked(p.x, v) })
}

func (p *Playing) slide(pos, delta float64, blocked func(float64) bool) float64 {
	for delta != 0 {
		step := math.Max(-1, math.Min(1, delta))
		if blocked(pos + step) {
			return pos
		}
		pos += step
		delta -= step
	}
	return pos
}

func (p *Playing) blocked(x, y float64) bool {
	return p.stage.BoxBlocked(int(math.Floor(x)), int(math.Floor(y)), p.playerW, p.playerH)
}

func (p *Playing) center() (float64, float64) {
	return p.x + float64(p.playerW)/2, p.y + float64(p.playerH)/2
}

// Position returns the player's top-left corner in world pixels.
func (p *Playing) Position() (float64, float64) {
	return p.x, p.y
}

// Draw renders the stage and the player through the camera (implements scene.Scene)
func (p *Playing) Draw(screen *ebiten.Image) {
	if p.stage == nil {
		return
	}
	if p.pixel == nil {
		p.pixel = ebiten.NewImage(1, 1)
		p.pixel.Fill(color.White)
	}

	screen.Fill(p.background)
	cam := p.ctx.Camera

	x0, y0, x1, y1 := p.visibleTiles(screen)
	ts := float64(p.stage.TileSize)
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			var c color.Color
			switch p.stage.GetTile(tx, ty).Type {
			case entity.TileWall:
				c = colorWall
			case entity.TileWater:
				c = colorWater
			default:
				continue
			}
			p.fillWorldRect(screen, float64(tx)*ts, float64(ty)*ts, ts, ts, c)
		}
	}

	if tex := p.spriteTexture(); tex != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(math.Floor(p.x), math.Floor(p.y))
		cam.Apply(op)
		screen.DrawImage(tex, op)
	} else {
		p.fillWorldRect(screen, p.x, p.y, float64(p.playerW), float64(p.playerH), colorPlayer)
	}

	// The overlay owns the cursor and the bottom line while paused
	if p.paused {
		return
	}

	// Highlight the tile under the cursor
	mx, my := ebiten.CursorPosition()
	wx, wy := cam.ScreenToWorld(float64(mx), float64(my))
	p.fillWorldRect(screen, math.Floor(wx/ts)*ts, math.Floor(wy/ts)*ts, ts, ts, colorCursor)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom %.2f  pos %.0f,%.0f  tile %.0f,%.0f",
		cam.Zoom, p.x, p.y, math.Floor(wx/ts), math.Floor(wy/ts)), 4, screen.Bounds().Dy()-16)
}

func (p *Playing) spriteTexture() *ebiten.Image {
	if p.sprite == nil {
		return nil
	}
	return p.sprite.Texture()
}

// visibleTiles returns the tile range covering the screen corners in world space.
func (p *Playing) visibleTiles(screen *ebiten.Image) (x0, y0, x1, y1 int) {
	b := screen.Bounds()
	cam := p.ctx.Camera
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range [][2]float64{
		{0, 0}, {float64(b.Dx()), 0}, {0, float64(b.Dy())}, {float64(b.Dx()), float64(b.Dy())},
	} {
		wx, wy := cam.ScreenToWorld(pt[0], pt[1])
		minX, maxX = math.Min(minX, wx), math.Max(maxX, wx)
		minY, maxY = math.Min(minY, wy), math.Max(maxY, wy)
	}

	ts := float64(p.stage.TileSize)
	x0 = max(0, int(math.Floor(minX/ts)))
	y0 = max(0, int(math.Floor(minY/ts)))
	x1 = min(p.stage.Width-1, int(math.Floor(maxX/ts)))
	y1 = min(p.stage.Height-1, int(math.Floor(maxY/ts)))
	return x0, y0, x1, y1
}

// fillWorldRect draws a filled world-space rectangle through the camera,
// so it follows zoom and rotation.
func (p *Playing) fillWorldRect(screen *ebiten.Image, x, y, w, h float64, c color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	p.ctx.Camera.Apply(op)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(p.pixel, op)
}
