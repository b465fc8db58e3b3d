// Package app holds the services shared by every scene and the ebiten entry
// point that drives them.
package app

import (
	"context"
	"fmt"

	"github.com/younwookim/stagekit/internal/application/input"
	"github.com/younwookim/stagekit/internal/application/replay"
	"github.com/younwookim/stagekit/internal/domain/camera"
	"github.com/younwookim/stagekit/internal/infrastructure/config"
	"github.com/younwookim/stagekit/internal/infrastructure/resource"
)

// Context is passed to scenes when they are built. Scenes borrow its
// services; none of them owns the context.
type Context struct {
	Config    *config.Settings
	Resources *resource.Cache
	Input     *input.Manager
	Camera    *camera.Camera

	// Source feeds Input once per frame. Nil means input is fed by hand.
	Source input.Source
	// Recorder, when set, records the events applied each frame.
	Recorder *replay.Recorder
}

// NewContext builds the shared services from settings. Assets are read
// through loader.
func NewContext(cfg *config.Settings, loader resource.Loader) (*Context, error) {
	in, err := input.FromConfig(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to build input bindings: %w", err)
	}

	cache := resource.New(loader)
	cache.SetPreloadLimit(cfg.Assets.Concurrency)

	cam := camera.New(cfg.Display.ScreenWidth, cfg.Display.ScreenHeight)
	cam.SetZoomLimits(cfg.Camera.MinZoom, cfg.Camera.MaxZoom)
	cam.SetZoom(cfg.Camera.Zoom)

	return &Context{
		Config:    cfg,
		Resources: cache,
		Input:     in,
		Camera:    cam,
	}, nil
}

// Preload loads the assets listed in settings.json. Every asset is
// attempted; the first failure is returned.
func (c *Context) Preload(ctx context.Context) error {
	if len(c.Config.Assets.Preload) == 0 {
		return nil
	}
	if err := c.Resources.Preload(ctx, c.Config.Assets.Preload...); err != nil {
		return fmt.Errorf("failed to preload assets: %w", err)
	}
	return nil
}

// BeginFrame polls the input source and advances input state by dt.
// Call it once per frame before the scenes update.
func (c *Context) BeginFrame(dt float64) {
	if c.Source != nil {
		c.Source.Poll(c.Input)
	}
	c.Input.Update(dt)
	if c.Recorder != nil {
		c.Recorder.RecordFrame(c.Input.FrameEvents())
	}
}

// Close drops every cached asset. Handles still held by scenes stay valid
// until released.
func (c *Context) Close() {
	c.Resources.Clear()
}
