// Package game provides the main game loop manager that owns the scene stack
// and applies scene transitions.
package game

import (
	"log/slog"
	"reflect"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/stagekit/internal/application/scene"
	"github.com/younwookim/stagekit/internal/application/state"
	"github.com/younwookim/stagekit/internal/infrastructure/logging"
)

// slot is one scene on the stack together with its lifecycle state.
type slot struct {
	scene scene.Scene
	state state.SceneState
}

// Game implements ebiten.Game and manages a stack of scenes.
//
// Each frame the top scene is updated, plus the scenes below it for as long
// as every scene above reports UpdatesBelow. Only the top scene may request
// a transition; it is applied after every scene in the run has been
// updated. Draw uses the same walk with DrawsBelow and renders bottom to top.
//
// An empty stack means the game is over.
type Game struct {
	stack   []slot
	screenW int
	screenH int
	dt      float64

	busy  bool // Dispatching or applying; the stack must not change
	frame uint64

	log *slog.Logger
}

// New creates a new Game with the given initial scene.
// The initial scene's OnEnter is called immediately. A nil scene starts the
// game with an empty stack; push one with Apply before running.
func New(initialScene scene.Scene, screenW, screenH int) *Game {
	g := &Game{
		stack:   make([]slot, 0, 4),
		screenW: screenW,
		screenH: screenH,
		dt:      1.0 / 60.0, // Default to 60 FPS
		log:     logging.For("game"),
	}
	if initialScene != nil {
		g.push(initialScene)
	}
	return g
}

// IsRunning reports whether any scene is left on the stack.
func (g *Game) IsRunning() bool {
	return len(g.stack) > 0
}

// Depth returns the number of scenes on the stack.
func (g *Game) Depth() int {
	return len(g.stack)
}

// Top returns the active scene, or nil when the stack is empty.
func (g *Game) Top() scene.Scene {
	if len(g.stack) == 0 {
		return nil
	}
	return g.stack[len(g.stack)-1].scene
}

// Stack returns a copy of the scenes, bottom first.
func (g *Game) Stack() []scene.Scene {
	out := make([]scene.Scene, len(g.stack))
	for i, sl := range g.stack {
		out[i] = sl.scene
	}
	return out
}

// StateOf reports where s is in its lifecycle. Scenes that are not on the
// stack are Detached.
func (g *Game) StateOf(s scene.Scene) state.SceneState {
	for _, sl := range g.stack {
		if sameScene(sl.scene, s) {
			return sl.state
		}
	}
	return state.StateDetached
}

// Frame returns the number of completed ticks.
func (g *Game) Frame() uint64 {
	return g.frame
}

// Tick runs one frame of scene updates with elapsed time dt, then applies
// the frame's transition, if any.
//
// A scene error is returned unchanged and no transition is applied. Two or
// more transitions in one frame yield ErrMultipleTransitions, and a request
// from a scene below the top yields ErrTransitionBelowTop.
func (g *Game) Tick(dt float64) error {
	if len(g.stack) == 0 {
		return nil
	}
	g.frame++

	run := g.run(scene.Scene.UpdatesBelow)

	var (
		pending   *scene.Transition
		requested int
		fromTop   bool
	)
	g.busy = true
	for i, s := range run {
		t, err := s.Update(dt)
		if err != nil {
			g.busy = false
			return err
		}
		if t != nil {
			requested++
			if pending == nil {
				pending, fromTop = t, i == 0
			}
		}
	}
	g.busy = false

	if requested > 1 {
		return &TransitionError{
			Err:        ErrMultipleTransitions,
			Transition: pending,
			Depth:      len(g.stack),
			Requested:  requested,
		}
	}
	if pending == nil {
		return nil
	}
	if !fromTop {
		return &TransitionError{Err: ErrTransitionBelowTop, Transition: pending, Depth: len(g.stack), Requested: 1}
	}
	return g.apply(pending)
}

// Apply applies t immediately. It is meant for the host, for example to
// seed the stack before the first frame. Scenes request transitions by
// returning them from Update instead.
func (g *Game) Apply(t *scene.Transition) error {
	if t == nil {
		return nil
	}
	if g.busy {
		return &TransitionError{Err: ErrReentrantTransition, Transition: t, Depth: len(g.stack), Requested: 1}
	}
	return g.apply(t)
}

// run collects the scenes from the top down while each scene passes through.
// The result is ordered top first and does not alias the stack.
func (g *Game) run(passes func(scene.Scene) bool) []scene.Scene {
	run := make([]scene.Scene, 0, 2)
	for i := len(g.stack) - 1; i >= 0; i-- {
		s := g.stack[i].scene
		run = append(run, s)
		if !passes(s) {
			break
		}
	}
	return run
}

func (g *Game) apply(t *scene.Transition) error {
	if err := g.validate(t); err != nil {
		return err
	}

	g.log.Debug("transition", "transition", t.String(), "depth", len(g.stack), "frame", g.frame)

	g.busy = true
	defer func() { g.busy = false }()

	switch t.Kind {
	case scene.KindPush:
		g.pauseTop()
		g.push(t.Scene)
	case scene.KindPop:
		if len(g.stack) == 1 {
			g.quit()
			return nil
		}
		g.pop()
		g.resumeTop()
	case scene.KindReplace:
		g.pop()
		g.push(t.Scene)
	case scene.KindPopN:
		for i := 0; i < t.Count && len(g.stack) > 0; i++ {
			g.pop()
		}
		g.resumeTop()
	case scene.KindQuit:
		g.quit()
	}
	return nil
}

func (g *Game) validate(t *scene.Transition) error {
	reject := func(err error) error {
		return &TransitionError{Err: err, Transition: t, Depth: len(g.stack), Requested: 1}
	}

	switch t.Kind {
	case scene.KindPush, scene.KindReplace:
		if t.Scene == nil {
			return reject(ErrInvalidTransition)
		}
		if t.Kind == scene.KindReplace && len(g.stack) == 0 {
			return reject(ErrInvalidPop)
		}
		for _, sl := range g.stack {
			if sameScene(sl.scene, t.Scene) {
				return reject(ErrInvalidTransition)
			}
		}
	case scene.KindPop:
		if len(g.stack) == 0 {
			return reject(ErrInvalidPop)
		}
	case scene.KindPopN:
		if t.Count <= 0 {
			return reject(ErrInvalidTransition)
		}
		if len(g.stack) == 0 {
			return reject(ErrInvalidPop)
		}
	case scene.KindQuit:
	default:
		return reject(ErrInvalidTransition)
	}
	return nil
}

// sameScene reports whether a and b are the same scene value. Scenes of
// non-comparable types are never considered equal.
func sameScene(a, b scene.Scene) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func (g *Game) push(s scene.Scene) {
	s.OnEnter()
	g.stack = append(g.stack, slot{scene: s, state: state.StateActive})
}

func (g *Game) pop() {
	top := len(g.stack) - 1
	g.stack[top].state = state.StateExited
	g.stack[top].scene.OnExit()
	g.stack[top] = slot{}
	g.stack = g.stack[:top]
}

func (g *Game) quit() {
	for len(g.stack) > 0 {
		g.pop()
	}
}

func (g *Game) pauseTop() {
	if len(g.stack) == 0 {
		return
	}
	top := &g.stack[len(g.stack)-1]
	if top.state != state.StateActive {
		return
	}
	top.state = state.StatePaused
	if p, ok := top.scene.(scene.Pauser); ok {
		p.OnPause()
	}
}

// resumeTop makes a covered top scene active again.
func (g *Game) resumeTop() {
	if len(g.stack) == 0 {
		return
	}
	top := &g.stack[len(g.stack)-1]
	if top.state != state.StatePaused {
		return
	}
	top.state = state.StateActive
	if p, ok := top.scene.(scene.Pauser); ok {
		p.OnResume()
	}
}

// Update advances the stack by one tick.
// Implements ebiten.Game interface; returns ebiten.Termination once the
// stack is empty.
func (g *Game) Update() error {
	if err := g.Tick(g.dt); err != nil {
		return err
	}
	if !g.IsRunning() {
		return ebiten.Termination
	}
	return nil
}

// Draw renders the visible scenes bottom to top.
// Implements ebiten.Game interface.
func (g *Game) Draw(screen *ebiten.Image) {
	run := g.run(scene.Scene.DrawsBelow)

	g.busy = true
	for i := len(run) - 1; i >= 0; i-- {
		run[i].Draw(screen)
	}
	g.busy = false
}

// Layout returns the game's logical screen dimensions.
// Implements ebiten.Game interface.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}

// SetDT sets the delta time used for updates.
// Useful for testing or custom frame rates.
func (g *Game) SetDT(dt float64) {
	g.dt = dt
}
