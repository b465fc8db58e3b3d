// Package apptest builds app contexts over in-memory assets for scene tests.
package apptest

import (
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/require"
	"github.com/younwookim/stagekit/internal/application/app"
	"github.com/younwookim/stagekit/internal/application/input"
	"github.com/younwookim/stagekit/internal/infrastructure/config"
	"github.com/younwookim/stagekit/internal/infrastructure/resource"
)

// Frame is the time step used by Step.
const Frame = 1.0 / 60.0

// Settings returns settings with one key per logical button.
func Settings() *config.Settings {
	cfg := &config.Settings{
		Input: config.InputConfig{
			Buttons: map[string]config.ButtonBinding{
				"confirm": {Keys: []string{"Enter"}},
				"cancel":  {Keys: []string{"Backspace"}},
				"pause":   {Keys: []string{"Escape"}},
				"quit":    {Keys: []string{"Q"}},
				"zoomIn":  {Keys: []string{"E"}},
				"zoomOut": {Keys: []string{"R"}},
			},
			Axes: map[string]config.AxisBinding{
				"horizontal": {Positive: []string{"D"}, Negative: []string{"A"}},
				"vertical":   {Positive: []string{"S"}, Negative: []string{"W"}},
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// NewContext returns a context whose assets come from files.
func NewContext(t *testing.T, files fstest.MapFS) *app.Context {
	t.Helper()
	ctx, err := app.NewContext(Settings(), resource.NewFSLoader(files))
	require.NoError(t, err)
	t.Cleanup(ctx.Close)
	return ctx
}

// Step feeds events and advances input by one frame.
func Step(ctx *app.Context, events ...input.Event) {
	for _, e := range events {
		ctx.Input.Feed(e)
	}
	ctx.Input.Update(Frame)
}

// Tap presses and releases key within one frame, so the bound button reads
// as pressed until the next Step.
func Tap(ctx *app.Context, key ebiten.Key) {
	t := input.Key(key)
	Step(ctx, input.Press(t), input.Release(t))
}
