package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/stagekit/internal/application/app"
	"github.com/younwookim/stagekit/internal/application/game"
	"github.com/younwookim/stagekit/internal/application/input"
	"github.com/younwookim/stagekit/internal/application/replay"
	"github.com/younwookim/stagekit/internal/application/scene"
	"github.com/younwookim/stagekit/internal/application/scene/pause"
	"github.com/younwookim/stagekit/internal/application/scene/playing"
	"github.com/younwookim/stagekit/internal/application/scene/title"
	"github.com/younwookim/stagekit/internal/infrastructure/config"
	"github.com/younwookim/stagekit/internal/infrastructure/logging"
	"github.com/younwookim/stagekit/internal/infrastructure/resource"
)

const preloadTimeout = 10 * time.Second

// options selects where input and assets come from
type options struct {
	replay *replay.ReplayData // Plays back instead of polling ebiten
	record bool
}

// newRunner loads settings from configs, wires the shared context over
// assets and returns the runner with the title menu on the stack.
func newRunner(configs, assets fs.FS, opts options) (*app.Runner, *app.Context, error) {
	settings, err := config.NewFSLoader(configs).LoadSettings()
	if err != nil {
		return nil, nil, err
	}

	ctx, err := app.NewContext(settings, resource.NewFSLoader(assets))
	if err != nil {
		return nil, nil, err
	}

	pctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
	defer cancel()
	if err := ctx.Preload(pctx); err != nil {
		// Scenes fall back or report the failure when they acquire the asset
		logging.For("main").Warn("preload incomplete", "err", err)
	}

	if opts.replay != nil {
		ctx.Source = replay.NewReplayer(*opts.replay)
	} else {
		ctx.Source = input.NewEbitenSource()
	}
	if opts.record {
		ctx.Recorder = replay.NewRecorder("title")
	}

	newPause := func() scene.Scene { return pause.New(ctx) }
	newGame := func() scene.Scene {
		return playing.New(ctx, playing.StageKey, playing.SpriteKey, newPause)
	}

	d := settings.Display
	g := game.New(title.New(ctx, newGame), d.ScreenWidth, d.ScreenHeight)
	return app.NewRunner(g, ctx), ctx, nil
}

func main() {
	// Parse command line flags
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record replay.json)")
	replayFlag := flag.String("replay", "", "Play back input from a recorded file")
	debugFlag := flag.Bool("debug", false, "Log debug output and show the stack overlay")
	assetsFlag := flag.String("assets", "", "Read assets from a directory instead of the embedded copy")
	flag.Parse()

	if *debugFlag {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	configs, err := fs.Sub(embedded, "configs")
	if err != nil {
		log.Fatalf("Failed to get config subfs: %v", err)
	}
	assets, err := fs.Sub(embedded, "assets")
	if err != nil {
		log.Fatalf("Failed to get assets subfs: %v", err)
	}
	if *assetsFlag != "" {
		assets = os.DirFS(*assetsFlag)
	}

	opts := options{record: *recordFlag != ""}
	if *replayFlag != "" {
		data, err := replay.LoadReplay(*replayFlag)
		if err != nil {
			log.Fatalf("Failed to load replay: %v", err)
		}
		opts.replay = data
		log.Printf("Replaying %s (%d frames)", *replayFlag, len(data.Frames))
	}

	runner, ctx, err := newRunner(configs, assets, opts)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	runner.SetDebug(*debugFlag)

	// Set up ebiten
	d := ctx.Config.Display
	ebiten.SetWindowSize(d.ScreenWidth*d.Scale, d.ScreenHeight*d.Scale)
	ebiten.SetWindowTitle(d.Title)
	ebiten.SetTPS(d.Framerate)

	// Run game
	runErr := ebiten.RunGame(runner)

	// The window may close with scenes still resident
	runner.Shutdown()
	ctx.Close()

	if ctx.Recorder != nil {
		if err := ctx.Recorder.Save(*recordFlag); err != nil {
			log.Printf("Failed to save recording: %v", err)
		} else {
			fmt.Printf("Recording saved: %s (%d frames)\n", *recordFlag, ctx.Recorder.FrameCount())
		}
	}

	if runErr != nil {
		log.Fatal(runErr)
	}
}
