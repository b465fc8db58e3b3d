// Package scene defines the Scene interface for game screens.
//
// Each game screen (title, menu, playing, pause, etc.) implements the Scene
// interface to handle its own update logic and rendering. Scenes live on a
// stack owned by the game manager; a scene changes the stack by returning a
// Transition from Update.
package scene

import "github.com/hajimehoshi/ebiten/v2"

// Scene represents a game screen (title, menu, playing, pause, etc.)
//
// The game loop delegates Update and Draw calls to the scenes on top of the
// stack. Once pushed, a scene is owned by the stack.
type Scene interface {
	// Update updates the scene state.
	// dt is the delta time in seconds (typically 1/60).
	// Returns a transition to change the stack, nil to stay. Only the top
	// scene may return one; scenes updated beneath a pass-through overlay
	// must return nil.
	// Returns an error to terminate the game.
	Update(dt float64) (*Transition, error)

	// Draw renders the scene to the screen.
	Draw(screen *ebiten.Image)

	// OnEnter is called when the scene is pushed onto the stack.
	// Use this for initialization and for acquiring resources.
	OnEnter()

	// OnExit is called when the scene leaves the stack.
	// Use this for cleanup, saving state, or resource release.
	OnExit()

	// UpdatesBelow reports whether the scene beneath this one should also
	// be updated this frame. Read every frame.
	UpdatesBelow() bool

	// DrawsBelow reports whether the scene beneath this one should also
	// be drawn this frame. Read every frame.
	DrawsBelow() bool
}

// Pauser is implemented by scenes that want to know when another scene is
// pushed over them and when they become the top again.
type Pauser interface {
	OnPause()
	OnResume()
}

// Base provides no-op hooks and opaque pass-through flags.
// Embed it and override what the scene needs.
type Base struct{}

func (Base) Draw(*ebiten.Image) {}
func (Base) OnEnter()           {}
func (Base) OnExit()            {}
func (Base) UpdatesBelow() bool { return false }
func (Base) DrawsBelow() bool   { return false }
