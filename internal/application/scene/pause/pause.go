// Package pause provides the overlay shown over a paused scene.
package pause

import (
	"context"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/younwookim/stagekit/internal/application/app"
	"github.com/younwookim/stagekit/internal/application/scene"
	"github.com/younwookim/stagekit/internal/infrastructure/logging"
	"github.com/younwookim/stagekit/internal/infrastructure/resource"
)

// SoundKey is the cue held while the overlay is open
const SoundKey = "sounds/select.wav"

var colorOverlay = color.RGBA{0, 0, 0, 160}

// Pause draws over the scene below and blocks its updates.
//
//	pause  -> back to the game
//	cancel -> back to the scene under the game
//	quit   -> end the run
type Pause struct {
	scene.Base

	ctx   *app.Context
	sound *resource.Handle
	log   *slog.Logger
}

// New creates a pause overlay.
func New(ctx *app.Context) *Pause {
	return &Pause{ctx: ctx, log: logging.For("pause")}
}

// DrawsBelow keeps the paused scene visible under the overlay.
func (p *Pause) DrawsBelow() bool { return true }

// OnEnter implements scene.Scene.
func (p *Pause) OnEnter() {
	h, err := p.ctx.Resources.GetOrLoad(context.Background(), SoundKey)
	if err != nil {
		p.log.Warn("pause cue unavailable", "err", err)
		return
	}
	p.sound = h
	if s, ok := resource.As[*resource.Sound](h); ok {
		p.log.Debug("pause cue ready", "duration", s.Duration())
	}
}

// OnExit implements scene.Scene.
func (p *Pause) OnExit() {
	if p.sound != nil {
		p.sound.Release()
		p.sound = nil
	}
}

// Update implements scene.Scene.
func (p *Pause) Update(float64) (*scene.Transition, error) {
	in := p.ctx.Input
	switch {
	case in.Pressed("pause"):
		return scene.Pop(), nil
	case in.Pressed("cancel"):
		return scene.PopN(2), nil
	case in.Pressed("quit"):
		return scene.Quit(), nil
	}
	return nil, nil
}

// Draw implements scene.Scene.
func (p *Pause) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	ebitenutil.DrawRect(screen, 0, 0, float64(w), float64(h), colorOverlay)

	text := "PAUSED\n\nESC: Resume\nBACKSPACE: Menu\nQ: Quit"
	ebitenutil.DebugPrintAt(screen, text, w/2-50, h/2-30)
}
