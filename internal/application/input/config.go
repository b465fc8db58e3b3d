package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/stagekit/internal/infrastructure/config"
)

var mouseNames = map[string]ebiten.MouseButton{
	"left":   ebiten.MouseButtonLeft,
	"right":  ebiten.MouseButtonRight,
	"middle": ebiten.MouseButtonMiddle,
}

func mouseName(b ebiten.MouseButton) string {
	switch b {
	case ebiten.MouseButtonLeft:
		return "Left"
	case ebiten.MouseButtonRight:
		return "Right"
	case ebiten.MouseButtonMiddle:
		return "Middle"
	default:
		return fmt.Sprintf("%d", int(b))
	}
}

// ParseKey parses an ebiten key name such as "W" or "ArrowUp".
func ParseKey(name string) (Trigger, error) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return Trigger{}, fmt.Errorf("unknown key %q: %w", name, err)
	}
	return Key(k), nil
}

// ParseMouse parses "Left", "Right" or "Middle".
func ParseMouse(name string) (Trigger, error) {
	b, ok := mouseNames[strings.ToLower(name)]
	if !ok {
		return Trigger{}, fmt.Errorf("unknown mouse button %q", name)
	}
	return Mouse(b), nil
}

// FromConfig builds a manager from the bindings in settings.json.
func FromConfig(cfg config.InputConfig) (*Manager, error) {
	m := NewManager()

	for _, name := range sortedKeys(cfg.Buttons) {
		b := cfg.Buttons[name]
		for _, k := range b.Keys {
			t, err := ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("failed to bind button %s: %w", name, err)
			}
			m.BindButton(t, Button(name))
		}
		for _, mb := range b.Mouse {
			t, err := ParseMouse(mb)
			if err != nil {
				return nil, fmt.Errorf("failed to bind button %s: %w", name, err)
			}
			m.BindButton(t, Button(name))
		}
	}

	for _, name := range sortedKeys(cfg.Axes) {
		a := cfg.Axes[name]
		for _, k := range a.Positive {
			t, err := ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("failed to bind axis %s: %w", name, err)
			}
			m.BindAxis(t, Axis(name), true)
		}
		for _, k := range a.Negative {
			t, err := ParseKey(k)
			if err != nil {
				return nil, fmt.Errorf("failed to bind axis %s: %w", name, err)
			}
			m.BindAxis(t, Axis(name), false)
		}
		m.SetAxisSpeed(Axis(name), a.Acceleration, a.Gravity)
	}

	return m, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
