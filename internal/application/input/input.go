// Package input maps raw key and mouse events to logical buttons and axes.
//
// Events are fed as they happen; Update is called once per frame and turns
// the physical state into pressed, held and released edges per button and
// a smoothed position per axis.
package input

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// Button is a logical button name such as "confirm" or "pause".
type Button string

// Axis is a logical axis name such as "horizontal".
type Axis string

// Device identifies where a trigger comes from
type Device uint8

const (
	DeviceKeyboard Device = iota
	DeviceMouse
)

// String returns the string representation of the device
func (d Device) String() string {
	switch d {
	case DeviceKeyboard:
		return "Keyboard"
	case DeviceMouse:
		return "Mouse"
	default:
		return "Unknown"
	}
}

// Trigger is one physical key or mouse button.
type Trigger struct {
	Device Device `json:"d"`
	Code   int    `json:"c"`
}

// Key returns the trigger for keyboard key k.
func Key(k ebiten.Key) Trigger {
	return Trigger{Device: DeviceKeyboard, Code: int(k)}
}

// Mouse returns the trigger for mouse button b.
func Mouse(b ebiten.MouseButton) Trigger {
	return Trigger{Device: DeviceMouse, Code: int(b)}
}

func (t Trigger) String() string {
	switch t.Device {
	case DeviceKeyboard:
		return ebiten.Key(t.Code).String()
	case DeviceMouse:
		return "Mouse" + mouseName(ebiten.MouseButton(t.Code))
	default:
		return "Unknown"
	}
}

// Event is a raw trigger going down or up.
type Event struct {
	Trigger
	Down bool `json:"down,omitempty"`
}

// Press returns a down event for t.
func Press(t Trigger) Event { return Event{Trigger: t, Down: true} }

// Release returns an up event for t.
func Release(t Trigger) Event { return Event{Trigger: t} }

// Source produces raw events for a manager once per frame.
type Source interface {
	Poll(m *Manager)
}

// Default axis speeds, in units per second.
const (
	DefaultAcceleration = 4.0
	DefaultGravity      = 3.0
)

type effect struct {
	button   Button
	axis     Axis
	positive bool
	isAxis   bool
}

type buttonState struct {
	triggers []Trigger
	tapped   bool // Went down during the current frame
	cur      bool
	prev     bool
}

type axisState struct {
	positive     []Trigger
	negative     []Trigger
	position     float64 // In [-1, 1]
	direction    float64 // -1, 0 or +1
	acceleration float64
	gravity      float64
}

// Manager tracks logical input state. It is not safe for concurrent use;
// call it from the game loop.
type Manager struct {
	bindings map[Trigger][]effect
	down     map[Trigger]bool
	buttons  map[Button]*buttonState
	axes     map[Axis]*axisState

	pending []Event
	applied []Event
}

// NewManager creates a manager with no bindings.
func NewManager() *Manager {
	return &Manager{
		bindings: make(map[Trigger][]effect),
		down:     make(map[Trigger]bool),
		buttons:  make(map[Button]*buttonState),
		axes:     make(map[Axis]*axisState),
	}
}

// BindButton binds t to button b. A trigger may drive several buttons.
func (m *Manager) BindButton(t Trigger, b Button) *Manager {
	bs := m.button(b)
	bs.triggers = append(bs.triggers, t)
	m.bindings[t] = append(m.bindings[t], effect{button: b})
	return m
}

// BindAxis binds t to one direction of axis a.
func (m *Manager) BindAxis(t Trigger, a Axis, positive bool) *Manager {
	as := m.axis(a)
	if positive {
		as.positive = append(as.positive, t)
	} else {
		as.negative = append(as.negative, t)
	}
	m.bindings[t] = append(m.bindings[t], effect{axis: a, positive: positive, isAxis: true})
	return m
}

// SetAxisSpeed sets how fast axis a moves toward the pressed direction and
// how fast it falls back to zero. Non-positive values keep the current speed.
func (m *Manager) SetAxisSpeed(a Axis, acceleration, gravity float64) {
	as := m.axis(a)
	if acceleration > 0 {
		as.acceleration = acceleration
	}
	if gravity > 0 {
		as.gravity = gravity
	}
}

func (m *Manager) button(b Button) *buttonState {
	bs, ok := m.buttons[b]
	if !ok {
		bs = &buttonState{}
		m.buttons[b] = bs
	}
	return bs
}

func (m *Manager) axis(a Axis) *axisState {
	as, ok := m.axes[a]
	if !ok {
		as = &axisState{acceleration: DefaultAcceleration, gravity: DefaultGravity}
		m.axes[a] = as
	}
	return as
}

// Triggers returns every bound trigger in a stable order.
func (m *Manager) Triggers() []Trigger {
	out := make([]Trigger, 0, len(m.bindings))
	for t := range m.bindings {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Device != out[j].Device {
			return out[i].Device < out[j].Device
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Feed records a raw event. Events for unbound triggers are ignored.
// The logical state changes on the next Update.
func (m *Manager) Feed(e Event) {
	effects, ok := m.bindings[e.Trigger]
	if !ok {
		return
	}
	m.down[e.Trigger] = e.Down
	if e.Down {
		for _, eff := range effects {
			if !eff.isAxis {
				m.buttons[eff.button].tapped = true
			}
		}
	}
	m.pending = append(m.pending, e)
}

// Update advances the logical state by one frame of dt seconds.
func (m *Manager) Update(dt float64) {
	for _, bs := range m.buttons {
		bs.prev = bs.cur
		bs.cur = bs.tapped || m.anyDown(bs.triggers)
		bs.tapped = false
	}

	for _, as := range m.axes {
		as.direction = 0
		pos, neg := m.anyDown(as.positive), m.anyDown(as.negative)
		switch {
		case pos && !neg:
			as.direction = 1
		case neg && !pos:
			as.direction = -1
		}
		as.step(dt)
	}

	m.applied = m.pending
	m.pending = nil
}

func (m *Manager) anyDown(triggers []Trigger) bool {
	for _, t := range triggers {
		if m.down[t] {
			return true
		}
	}
	return false
}

func (as *axisState) step(dt float64) {
	if as.direction != 0 {
		as.position += as.direction * as.acceleration * dt
		as.position = max(-1, min(1, as.position))
		return
	}
	d := min(as.gravity*dt, abs(as.position))
	if as.position > 0 {
		as.position -= d
	} else {
		as.position += d
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Pressed reports whether b went down this frame.
func (m *Manager) Pressed(b Button) bool {
	bs, ok := m.buttons[b]
	return ok && bs.cur && !bs.prev
}

// Held reports whether b is down this frame.
func (m *Manager) Held(b Button) bool {
	bs, ok := m.buttons[b]
	return ok && bs.cur
}

// Released reports whether b went up this frame.
func (m *Manager) Released(b Button) bool {
	bs, ok := m.buttons[b]
	return ok && !bs.cur && bs.prev
}

// Axis returns the smoothed position of a in [-1, 1].
func (m *Manager) Axis(a Axis) float64 {
	if as, ok := m.axes[a]; ok {
		return as.position
	}
	return 0
}

// AxisRaw returns the direction a is being pushed: -1, 0 or +1.
func (m *Manager) AxisRaw(a Axis) float64 {
	if as, ok := m.axes[a]; ok {
		return as.direction
	}
	return 0
}

// Reset releases everything and centres every axis.
func (m *Manager) Reset() {
	clear(m.down)
	for _, bs := range m.buttons {
		*bs = buttonState{triggers: bs.triggers}
	}
	for _, as := range m.axes {
		as.position = 0
		as.direction = 0
	}
	m.pending = nil
	m.applied = nil
}

// FrameEvents returns the events applied by the last Update.
func (m *Manager) FrameEvents() []Event {
	return m.applied
}
