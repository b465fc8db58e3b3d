package config

import "fmt"

// Settings is the root config for settings.json
type Settings struct {
	Display DisplayConfig `json:"display"`
	Camera  CameraConfig  `json:"camera"`
	Assets  AssetsConfig  `json:"assets"`
	Input   InputConfig   `json:"input"`
}

type DisplayConfig struct {
	Title        string `json:"title"`
	ScreenWidth  int    `json:"screenWidth"`
	ScreenHeight int    `json:"screenHeight"`
	Scale        int    `json:"scale"`
	Framerate    int    `json:"framerate"`
}

// CameraConfig configures the shared camera
type CameraConfig struct {
	Zoom     float64 `json:"zoom"`
	MinZoom  float64 `json:"minZoom"`
	MaxZoom  float64 `json:"maxZoom"`
	ZoomStep float64 `json:"zoomStep"` // Zoom change per second while a zoom button is held
}

// AssetsConfig lists what the resource cache loads up front
type AssetsConfig struct {
	Preload     []string `json:"preload"`
	Concurrency int      `json:"concurrency"`
}

// InputConfig maps platform triggers to logical buttons and axes.
// Key names are ebiten key names ("W", "ArrowUp", "Enter", "Escape").
// Mouse names are "Left", "Right" and "Middle".
type InputConfig struct {
	Buttons map[string]ButtonBinding `json:"buttons"`
	Axes    map[string]AxisBinding   `json:"axes"`
}

type ButtonBinding struct {
	Keys  []string `json:"keys"`
	Mouse []string `json:"mouse,omitempty"`
}

type AxisBinding struct {
	Positive     []string `json:"positive"`
	Negative     []string `json:"negative"`
	Acceleration float64  `json:"acceleration,omitempty"` // Units per second toward the pressed direction
	Gravity      float64  `json:"gravity,omitempty"`      // Units per second back toward zero
}

// Defaults applied to zero values in settings.json
const (
	DefaultScreenWidth  = 320
	DefaultScreenHeight = 240
	DefaultScale        = 2
	DefaultFramerate    = 60
	DefaultZoom         = 1.0
	DefaultMinZoom      = 0.25
	DefaultMaxZoom      = 4.0
	DefaultZoomStep     = 1.0
	DefaultConcurrency  = 4
)

// ApplyDefaults fills zero values with defaults
func (s *Settings) ApplyDefaults() {
	if s.Display.ScreenWidth <= 0 {
		s.Display.ScreenWidth = DefaultScreenWidth
	}
	if s.Display.ScreenHeight <= 0 {
		s.Display.ScreenHeight = DefaultScreenHeight
	}
	if s.Display.Scale <= 0 {
		s.Display.Scale = DefaultScale
	}
	if s.Display.Framerate <= 0 {
		s.Display.Framerate = DefaultFramerate
	}
	if s.Camera.Zoom <= 0 {
		s.Camera.Zoom = DefaultZoom
	}
	if s.Camera.MinZoom <= 0 {
		s.Camera.MinZoom = DefaultMinZoom
	}
	if s.Camera.MaxZoom <= 0 {
		s.Camera.MaxZoom = DefaultMaxZoom
	}
	if s.Camera.ZoomStep <= 0 {
		s.Camera.ZoomStep = DefaultZoomStep
	}
	if s.Assets.Concurrency <= 0 {
		s.Assets.Concurrency = DefaultConcurrency
	}
}

// Validate reports settings that defaults cannot repair
func (s *Settings) Validate() error {
	if s.Camera.MinZoom > s.Camera.MaxZoom {
		return fmt.Errorf("camera minZoom %.2f exceeds maxZoom %.2f", s.Camera.MinZoom, s.Camera.MaxZoom)
	}
	for name, b := range s.Input.Buttons {
		if len(b.Keys) == 0 && len(b.Mouse) == 0 {
			return fmt.Errorf("button %q has no bindings", name)
		}
	}
	for name, a := range s.Input.Axes {
		if len(a.Positive) == 0 && len(a.Negative) == 0 {
			return fmt.Errorf("axis %q has no bindings", name)
		}
	}
	return nil
}
