package game

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/stagekit/internal/application/scene"
	"github.com/younwookim/stagekit/internal/application/state"
)

// mockScene is a test double for Scene interface.
// Hook calls are appended to a shared log so ordering can be checked.
type mockScene struct {
	name          string
	log           *[]string
	updateCalled  int
	drawCalled    int
	onEnterCalled int
	onExitCalled  int
	lastDT        float64
	next          *scene.Transition // Returned once, then cleared
	updateErr     error
	updatesBelow  bool
	drawsBelow    bool
}

func newMock(name string, log *[]string) *mockScene {
	return &mockScene{name: name, log: log}
}

func (m *mockScene) record(event string) {
	if m.log != nil {
		*m.log = append(*m.log, event+":"+m.name)
	}
}

func (m *mockScene) Update(dt float64) (*scene.Transition, error) {
	m.updateCalled++
	m.lastDT = dt
	m.record("update")
	next := m.next
	m.next = nil
	return next, m.updateErr
}

func (m *mockScene) Draw(screen *ebiten.Image) {
	m.drawCalled++
	m.record("draw")
}

func (m *mockScene) OnEnter() {
	m.onEnterCalled++
	m.record("enter")
}

func (m *mockScene) OnExit() {
	m.onExitCalled++
	m.record("exit")
}

func (m *mockScene) UpdatesBelow() bool { return m.updatesBelow }
func (m *mockScene) DrawsBelow() bool   { return m.drawsBelow }

// pausableScene also implements scene.Pauser.
type pausableScene struct {
	mockScene
	paused  int
	resumed int
}

func (p *pausableScene) OnPause()  { p.paused++ }
func (p *pausableScene) OnResume() { p.resumed++ }

// stackOf builds a game with the given scenes pushed bottom to top.
func stackOf(t *testing.T, scenes ...scene.Scene) *Game {
	t.Helper()
	g := New(scenes[0], 320, 240)
	for _, s := range scenes[1:] {
		require.NoError(t, g.Apply(scene.Push(s)))
	}
	return g
}

func TestNew(t *testing.T) {
	mockInitial := &mockScene{}
	g := New(mockInitial, 320, 240)

	assert.NotNil(t, g)
	assert.Equal(t, 1, mockInitial.onEnterCalled, "OnEnter should be called on initial scene")
	assert.True(t, g.IsRunning())
	assert.Equal(t, 1, g.Depth())
	assert.Same(t, mockInitial, g.Top())
}

func TestNew_NilInitialScene(t *testing.T) {
	g := New(nil, 320, 240)

	assert.False(t, g.IsRunning())
	assert.Nil(t, g.Top())
	assert.NoError(t, g.Tick(1.0/60.0))
	assert.ErrorIs(t, g.Update(), ebiten.Termination)

	s := &mockScene{}
	require.NoError(t, g.Apply(scene.Push(s)))
	assert.True(t, g.IsRunning())
	assert.Equal(t, 1, s.onEnterCalled)
}

func TestGame_Update_DelegatesToTopScene(t *testing.T) {
	bottom := &mockScene{}
	top := &mockScene{}
	g := stackOf(t, bottom, top)

	err := g.Update()
	assert.NoError(t, err)
	assert.Equal(t, 1, top.updateCalled, "Update should delegate to top scene")
	assert.Equal(t, 0, bottom.updateCalled, "opaque top blocks updates below")
	assert.Equal(t, uint64(1), g.Frame())
}

func TestGame_Draw_DelegatesToTopScene(t *testing.T) {
	bottom := &mockScene{}
	top := &mockScene{}
	g := stackOf(t, bottom, top)

	g.Draw(nil)

	assert.Equal(t, 1, top.drawCalled, "Draw should delegate to top scene")
	assert.Equal(t, 0, bottom.drawCalled)
}

func TestGame_Layout(t *testing.T) {
	mockInitial := &mockScene{}
	g := New(mockInitial, 320, 240)

	w, h := g.Layout(640, 480)
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
}

func TestGame_SetDT(t *testing.T) {
	s := &mockScene{}
	g := New(s, 320, 240)

	g.SetDT(1.0 / 30.0)
	require.NoError(t, g.Update())
	assert.Equal(t, 1.0/30.0, s.lastDT)

	require.NoError(t, g.Tick(0.5))
	assert.Equal(t, 0.5, s.lastDT)
}

func TestGame_UpdateRun_PassThrough(t *testing.T) {
	var log []string
	a := newMock("a", &log)
	b := newMock("b", &log)
	c := newMock("c", &log)
	g := stackOf(t, a, b, c)
	log = nil

	c.updatesBelow = true // c lets b update, b blocks a

	require.NoError(t, g.Tick(0.016))
	assert.Equal(t, []string{"update:c", "update:b"}, log, "top scene updates first")
	assert.Equal(t, 0, a.updateCalled)
}

func TestGame_DrawRun_IndependentOfUpdateRun(t *testing.T) {
	var log []string
	a := newMock("a", &log)
	b := newMock("b", &log)
	c := newMock("c", &log)
	g := stackOf(t, a, b, c)
	log = nil

	// c blocks updates but lets everything below draw.
	c.drawsBelow = true
	b.drawsBelow = true

	require.NoError(t, g.Tick(0.016))
	g.Draw(nil)

	assert.Equal(t, []string{"update:c", "draw:a", "draw:b", "draw:c"}, log, "draws go bottom to top")
}

func TestGame_PassThroughReadEachFrame(t *testing.T) {
	bottom := &mockScene{}
	top := &mockScene{updatesBelow: true}
	g := stackOf(t, bottom, top)

	require.NoError(t, g.Tick(0.016))
	assert.Equal(t, 1, bottom.updateCalled)

	top.updatesBelow = false
	require.NoError(t, g.Tick(0.016))
	assert.Equal(t, 1, bottom.updateCalled, "flag change takes effect next frame")

	top.drawsBelow = true
	g.Draw(nil)
	assert.Equal(t, 1, bottom.drawCalled)
}

func TestGame_Scenario_PushKeepsSceneBelow(t *testing.T) {
	mainMenu := &mockScene{name: "menu"}
	gameScene := &mockScene{name: "game"}
	mainMenu.next = scene.Push(gameScene)

	g := New(mainMenu, 320, 240)
	require.NoError(t, g.Update())

	assert.Equal(t, 2, g.Depth())
	assert.Same(t, gameScene, g.Top())
	assert.Equal(t, 0, mainMenu.onExitCalled, "Push does not exit the scene beneath")
	assert.Equal(t, 1, gameScene.onEnterCalled)
}

func TestGame_Scenario_PopDoesNotReenterPausedScene(t *testing.T) {
	mainMenu := &mockScene{name: "menu"}
	gameScene := &mockScene{name: "game"}
	g := stackOf(t, mainMenu, gameScene)

	gameScene.next = scene.Pop()
	require.NoError(t, g.Update())

	assert.Equal(t, 1, g.Depth())
	assert.Same(t, mainMenu, g.Top())
	assert.Equal(t, 1, gameScene.onExitCalled)
	assert.Equal(t, 1, mainMenu.onEnterCalled, "menu was only paused, not re-entered")
	assert.Equal(t, 0, mainMenu.onExitCalled)
}

func TestGame_Scenario_PopLastSceneQuits(t *testing.T) {
	only := &mockScene{}
	only.next = scene.Pop()
	g := New(only, 320, 240)

	err := g.Update()
	assert.ErrorIs(t, err, ebiten.Termination)
	assert.Equal(t, 1, only.onExitCalled)
	assert.Equal(t, 0, g.Depth())
	assert.False(t, g.IsRunning())

	// Ticking a finished game does nothing.
	assert.NoError(t, g.Tick(0.016))
	assert.Equal(t, 1, only.updateCalled)
}

func TestGame_Replace(t *testing.T) {
	var log []string
	a := newMock("a", &log)
	b := newMock("b", &log)
	g := New(a, 320, 240)
	log = nil

	a.next = scene.Replace(b)
	require.NoError(t, g.Tick(0.016))

	assert.Equal(t, []string{"update:a", "exit:a", "enter:b"}, log)
	assert.Equal(t, 1, g.Depth())
	assert.Same(t, b, g.Top())
}

func TestGame_PopN(t *testing.T) {
	var log []string
	a := newMock("a", &log)
	b := newMock("b", &log)
	c := newMock("c", &log)
	g := stackOf(t, a, b, c)
	log = nil

	c.next = scene.PopN(2)
	require.NoError(t, g.Tick(0.016))

	assert.Equal(t, []string{"update:c", "exit:c", "exit:b"}, log, "exits run top to bottom")
	assert.Equal(t, 1, g.Depth())
	assert.Same(t, a, g.Top())
	assert.Equal(t, 1, a.onEnterCalled)
}

func TestGame_PopN_BeyondDepthEmptiesStack(t *testing.T) {
	a := &mockScene{}
	b := &mockScene{}
	g := stackOf(t, a, b)

	b.next = scene.PopN(10)
	err := g.Update()

	assert.ErrorIs(t, err, ebiten.Termination)
	assert.Equal(t, 0, g.Depth())
	assert.Equal(t, 1, a.onExitCalled)
	assert.Equal(t, 1, b.onExitCalled)
}

func TestGame_Quit_ExitsAllTopToBottom(t *testing.T) {
	var log []string
	a := newMock("a", &log)
	b := newMock("b", &log)
	c := newMock("c", &log)
	g := stackOf(t, a, b, c)
	log = nil

	c.next = scene.Quit()
	require.NoError(t, g.Tick(0.016))

	assert.Equal(t, []string{"update:c", "exit:c", "exit:b", "exit:a"}, log)
	assert.False(t, g.IsRunning())
}

func TestGame_TransitionAppliedAfterDispatch(t *testing.T) {
	var log []string
	bottom := newMock("bottom", &log)
	top := newMock("top", &log)
	g := stackOf(t, bottom, top)
	log = nil

	top.updatesBelow = true
	top.next = scene.Pop()

	require.NoError(t, g.Tick(0.016))
	assert.Equal(t, []string{"update:top", "update:bottom", "exit:top"}, log,
		"the whole run updates before the stack changes")
}

func TestGame_MultipleTransitions(t *testing.T) {
	bottom := &mockScene{}
	top := &mockScene{updatesBelow: true}
	g := stackOf(t, bottom, top)

	top.next = scene.Pop()
	bottom.next = scene.Push(&mockScene{})

	err := g.Tick(0.016)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMultipleTransitions)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 2, te.Requested)
	assert.Equal(t, 2, te.Depth)
	assert.Contains(t, te.Error(), "2 transitions requested")

	assert.Equal(t, 2, g.Depth(), "nothing applied")
	assert.Equal(t, 0, top.onExitCalled)
}

func TestGame_TransitionBelowTop(t *testing.T) {
	bottom := &mockScene{}
	overlay := &mockScene{updatesBelow: true}
	g := stackOf(t, bottom, overlay)

	bottom.next = scene.Pop()

	err := g.Tick(0.016)
	require.ErrorIs(t, err, ErrTransitionBelowTop)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, scene.KindPop, te.Transition.Kind)
	assert.Equal(t, 2, te.Depth)

	assert.Equal(t, 1, bottom.updateCalled, "the scene below was updated")
	assert.Equal(t, 2, g.Depth(), "the overlay was not popped")
	assert.Equal(t, 0, overlay.onExitCalled)
}

func TestGame_UpdateError(t *testing.T) {
	scene1 := &mockScene{updateErr: assert.AnError}
	scene1.next = scene.Quit()

	g := New(scene1, 320, 240)

	err := g.Update()
	assert.ErrorIs(t, err, assert.AnError, "Error should propagate from scene")
	assert.True(t, g.IsRunning(), "no transition applied after a scene error")
}

func TestGame_Apply_Errors(t *testing.T) {
	t.Run("pop on empty stack", func(t *testing.T) {
		g := New(nil, 320, 240)
		assert.ErrorIs(t, g.Apply(scene.Pop()), ErrInvalidPop)
		assert.ErrorIs(t, g.Apply(scene.PopN(1)), ErrInvalidPop)
		assert.ErrorIs(t, g.Apply(scene.Replace(&mockScene{})), ErrInvalidPop)
		assert.NoError(t, g.Apply(scene.Quit()), "quitting an empty stack is harmless")
	})

	t.Run("nil scene", func(t *testing.T) {
		g := New(&mockScene{}, 320, 240)
		assert.ErrorIs(t, g.Apply(scene.Push(nil)), ErrInvalidTransition)
		assert.ErrorIs(t, g.Apply(scene.Replace(nil)), ErrInvalidTransition)
	})

	t.Run("non-positive PopN", func(t *testing.T) {
		g := New(&mockScene{}, 320, 240)
		assert.ErrorIs(t, g.Apply(scene.PopN(0)), ErrInvalidTransition)
		assert.ErrorIs(t, g.Apply(scene.PopN(-1)), ErrInvalidTransition)
	})

	t.Run("scene already on the stack", func(t *testing.T) {
		s := &mockScene{}
		g := New(s, 320, 240)
		err := g.Apply(scene.Push(s))
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, 1, g.Depth())
		assert.Equal(t, 1, s.onEnterCalled)
	})

	t.Run("unknown kind", func(t *testing.T) {
		g := New(&mockScene{}, 320, 240)
		assert.ErrorIs(t, g.Apply(&scene.Transition{Kind: scene.TransitionKind(42)}), ErrInvalidTransition)
	})

	t.Run("nil transition is a no-op", func(t *testing.T) {
		g := New(&mockScene{}, 320, 240)
		assert.NoError(t, g.Apply(nil))
		assert.Equal(t, 1, g.Depth())
	})
}

func TestGame_InvalidTransitionFromScene(t *testing.T) {
	s := &mockScene{}
	s.next = scene.PopN(0)
	g := New(s, 320, 240)

	err := g.Update()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 1, g.Depth())
}

// reentrantScene tries to change the stack from inside a hook.
type reentrantScene struct {
	mockScene
	g   *Game
	err error
}

func (r *reentrantScene) OnEnter() {
	r.err = r.g.Apply(scene.Push(&mockScene{}))
}

func (r *reentrantScene) Draw(*ebiten.Image) {
	r.err = r.g.Apply(scene.Pop())
}

func TestGame_ReentrantApply(t *testing.T) {
	g := New(&mockScene{}, 320, 240)
	r := &reentrantScene{g: g}

	require.NoError(t, g.Apply(scene.Push(r)))
	assert.ErrorIs(t, r.err, ErrReentrantTransition)
	assert.Equal(t, 2, g.Depth())

	r.err = nil
	g.Draw(nil)
	assert.ErrorIs(t, r.err, ErrReentrantTransition)
	assert.Equal(t, 2, g.Depth())
}

func TestGame_PauserHooks(t *testing.T) {
	under := &pausableScene{}
	g := New(under, 320, 240)

	over := &mockScene{}
	require.NoError(t, g.Apply(scene.Push(over)))
	assert.Equal(t, 1, under.paused)
	assert.Equal(t, 0, under.resumed)

	require.NoError(t, g.Apply(scene.Pop()))
	assert.Equal(t, 1, under.resumed)
	assert.Equal(t, 1, under.onEnterCalled, "resume is not a re-enter")

	// Replace over a pausable scene exits it instead of pausing.
	require.NoError(t, g.Apply(scene.Replace(&mockScene{})))
	assert.Equal(t, 1, under.paused)
	assert.Equal(t, 1, under.onExitCalled)
}

func TestGame_NoTransitionWhenNil(t *testing.T) {
	scene1 := &mockScene{}

	g := New(scene1, 320, 240)

	// Multiple updates, no transition
	for i := 0; i < 5; i++ {
		err := g.Update()
		assert.NoError(t, err)
	}

	assert.Equal(t, 5, scene1.updateCalled, "All updates go to scene1")
	assert.Equal(t, 0, scene1.onExitCalled, "No OnExit when no transition")
}

func TestGame_DepthArithmeticAndPairedHooks(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 50; run++ {
		var all []*mockScene
		newScene := func() *mockScene {
			s := &mockScene{name: fmt.Sprintf("s%d", len(all))}
			all = append(all, s)
			return s
		}

		g := New(newScene(), 320, 240)
		depth := 1

		for step := 0; step < 40 && depth > 0; step++ {
			var tr *scene.Transition
			switch rng.Intn(4) {
			case 0:
				tr = scene.Push(newScene())
			case 1:
				tr = scene.Pop()
			case 2:
				tr = scene.Replace(newScene())
			case 3:
				tr = scene.PopN(1 + rng.Intn(3))
			}

			want := depth + tr.Delta(depth)
			g.Stack()[len(g.Stack())-1].(*mockScene).next = tr
			require.NoError(t, g.Tick(0.016))
			require.Equal(t, want, g.Depth(), "run %d step %d: %s", run, step, tr)
			depth = want
		}

		resident := make(map[*mockScene]bool)
		for _, s := range g.Stack() {
			resident[s.(*mockScene)] = true
		}
		for _, s := range all {
			assert.Equal(t, 1, s.onEnterCalled, "%s entered once", s.name)
			if resident[s] {
				assert.Equal(t, 0, s.onExitCalled, "%s still resident", s.name)
			} else {
				assert.Equal(t, 1, s.onExitCalled, "%s exited once", s.name)
			}
		}
	}
}

func TestTransitionError_Error(t *testing.T) {
	err := &TransitionError{Err: ErrInvalidPop, Transition: scene.Pop(), Depth: 0, Requested: 1}
	assert.Equal(t, "scene stack: Pop at depth 0: pop on an empty scene stack", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidPop))
}

// stateProbe records its own lifecycle state from inside OnExit.
type stateProbe struct {
	mockScene
	g      *Game
	inExit state.SceneState
}

func (p *stateProbe) OnExit() {
	p.inExit = p.g.StateOf(p)
}

func TestGame_StateOf(t *testing.T) {
	bottom := &mockScene{}
	g := New(bottom, 320, 240)
	top := &stateProbe{g: g}

	assert.Equal(t, state.StateActive, g.StateOf(bottom))
	assert.Equal(t, state.StateDetached, g.StateOf(top))

	require.NoError(t, g.Apply(scene.Push(top)))
	assert.Equal(t, state.StatePaused, g.StateOf(bottom))
	assert.Equal(t, state.StateActive, g.StateOf(top))

	require.NoError(t, g.Apply(scene.Pop()))
	assert.Equal(t, state.StateExited, top.inExit)
	assert.Equal(t, state.StateDetached, g.StateOf(top))
	assert.Equal(t, state.StateActive, g.StateOf(bottom))
}
