package input

import "github.com/hajimehoshi/ebiten/v2"

// EbitenSource polls ebiten for every bound trigger and feeds the changes.
type EbitenSource struct {
	isDown func(Trigger) bool
	last   map[Trigger]bool
}

// NewEbitenSource creates a source backed by ebiten's input state.
func NewEbitenSource() *EbitenSource {
	return &EbitenSource{isDown: ebitenDown, last: make(map[Trigger]bool)}
}

func ebitenDown(t Trigger) bool {
	switch t.Device {
	case DeviceKeyboard:
		return ebiten.IsKeyPressed(ebiten.Key(t.Code))
	case DeviceMouse:
		return ebiten.IsMouseButtonPressed(ebiten.MouseButton(t.Code))
	default:
		return false
	}
}

// Poll feeds an event for each bound trigger whose state changed since the
// previous poll.
func (s *EbitenSource) Poll(m *Manager) {
	for _, t := range m.Triggers() {
		down := s.isDown(t)
		if down == s.last[t] {
			continue
		}
		s.last[t] = down
		m.Feed(Event{Trigger: t, Down: down})
	}
}
