// Package title provides the demo main menu.
package title

import (
	"context"
	"image/color"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/younwookim/stagekit/internal/application/app"
	"github.com/younwookim/stagekit/internal/application/scene"
	"github.com/younwookim/stagekit/internal/infrastructure/logging"
	"github.com/younwookim/stagekit/internal/infrastructure/resource"
	"golang.org/x/image/font"
)

// FontKey is the face used for the heading
const FontKey = "fonts/go-regular.ttf"

const headingSize = 24

var (
	colorBG      = color.RGBA{16, 16, 32, 255}
	colorHeading = color.RGBA{230, 230, 240, 255}
)

// Title is the menu at the bottom of the stack.
//
//	confirm       -> push the game
//	cancel, quit  -> end the run
type Title struct {
	scene.Base

	ctx     *app.Context
	newGame func() scene.Scene

	font  *resource.Handle
	xface font.Face
	face  text.Face // Nil falls back to debug text
	time  float64

	log *slog.Logger
}

// New creates the menu. newGame builds the scene pushed on confirm.
func New(ctx *app.Context, newGame func() scene.Scene) *Title {
	return &Title{ctx: ctx, newGame: newGame, log: logging.For("title")}
}

// OnEnter implements scene.Scene.
func (t *Title) OnEnter() {
	h, err := t.ctx.Resources.GetOrLoad(context.Background(), FontKey)
	if err != nil {
		t.log.Warn("heading font unavailable", "err", err)
		return
	}
	f, ok := resource.As[*resource.Font](h)
	if !ok {
		h.Release()
		return
	}
	xface, err := f.Face(headingSize)
	if err != nil {
		t.log.Warn("failed to create face", "err", err)
		h.Release()
		return
	}
	t.font = h
	t.xface = xface
	t.face = text.NewGoXFace(xface)
}

// OnExit implements scene.Scene.
func (t *Title) OnExit() {
	if t.xface != nil {
		_ = t.xface.Close()
		t.xface = nil
	}
	t.face = nil
	if t.font != nil {
		t.font.Release()
		t.font = nil
	}
}

// Update implements scene.Scene.
func (t *Title) Update(dt float64) (*scene.Transition, error) {
	t.time += dt

	in := t.ctx.Input
	switch {
	case in.Pressed("confirm"):
		return scene.Push(t.newGame()), nil
	case in.Pressed("cancel"), in.Pressed("quit"):
		return scene.Quit(), nil
	}
	return nil, nil
}

// Draw implements scene.Scene.
func (t *Title) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	heading := t.ctx.Config.Display.Title
	if heading == "" {
		heading = "stagekit"
	}
	if t.face != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(w)/2, float64(h)/3)
		op.PrimaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(colorHeading)
		text.Draw(screen, heading, t.face, op)
	} else {
		ebitenutil.DebugPrintAt(screen, heading, w/2-len(heading)*3, h/3)
	}

	// Blink the prompt twice a second
	if math.Mod(t.time, 1) < 0.5 {
		ebitenutil.DebugPrintAt(screen, "ENTER: Start   Q: Quit", w/2-66, h*2/3)
	}
}
