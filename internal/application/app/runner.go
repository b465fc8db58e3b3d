package app

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/younwookim/stagekit/internal/application/game"
	"github.com/younwookim/stagekit/internal/application/scene"
	"github.com/younwookim/stagekit/internal/infrastructure/logging"
)

// finisher is implemented by sources that run out, such as a replay.
type finisher interface {
	Done() bool
}

// Runner implements ebiten.Game. It feeds input into the shared context
// before each tick of the scene stack.
type Runner struct {
	*game.Game
	ctx   *Context
	dt    float64
	debug bool
	log   *slog.Logger
}

// NewRunner wraps g. Frames advance by 1/framerate seconds.
func NewRunner(g *game.Game, ctx *Context) *Runner {
	fps := ctx.Config.Display.Framerate
	if fps <= 0 {
		fps = 60
	}
	r := &Runner{
		Game: g,
		ctx:  ctx,
		dt:   1.0 / float64(fps),
		log:  logging.For("app"),
	}
	g.SetDT(r.dt)
	return r
}

// SetDebug toggles the stack and cache overlay.
func (r *Runner) SetDebug(on bool) {
	r.debug = on
}

// Update implements ebiten.Game. A finished input source ends the run
// after every resident scene has exited.
func (r *Runner) Update() error {
	if f, ok := r.ctx.Source.(finisher); ok && f.Done() {
		r.log.Info("input source finished", "frame", r.Frame())
		r.Shutdown()
		return ebiten.Termination
	}
	r.ctx.BeginFrame(r.dt)
	return r.Game.Update()
}

// Shutdown exits every scene still on the stack, top to bottom, so their
// handles are released. It does nothing once the stack is empty.
func (r *Runner) Shutdown() {
	if !r.IsRunning() {
		return
	}
	if err := r.Apply(scene.Quit()); err != nil {
		r.log.Error("shutdown failed", "err", err)
	}
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	r.Game.Draw(screen)
	if r.debug {
		ebitenutil.DebugPrint(screen, r.DebugText())
	}
}

// DebugText describes the stack and the cache in a few lines.
func (r *Runner) DebugText() string {
	st := r.ctx.Resources.Stats()
	return fmt.Sprintf("TPS: %.0f  frame %d\nscenes: %d  top: %T\nassets: %d  hit %.0f%%  loads %d  failed %d",
		ebiten.ActualTPS(), r.Frame(),
		r.Depth(), r.Top(),
		st.Len, st.HitRate*100, st.Loads, st.Failures)
}
