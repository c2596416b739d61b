// Command shadowdemo opens a window and renders a configured scene lit by a
// single shadow-casting directional light.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"shadow-renderer/config"
	"shadow-renderer/internal/opengl"
	"shadow-renderer/renderer"
	"shadow-renderer/window"
)

func main() {
	configPath := flag.String("config", "", "scene file (.yaml, .yml or .toml); built-in scene when empty")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	frames := flag.Int("frames", 0, "exit after this many frames; 0 runs until the window closes")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q: %v\n", *logLevel, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *frames, logger); err != nil {
		logger.Error("shadowdemo failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, frames int, logger *slog.Logger) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	wcfg := window.DefaultWindowConfig()
	wcfg.Width, wcfg.Height = cfg.Window.Width, cfg.Window.Height
	wcfg.Title = cfg.Window.Title
	wcfg.VSync = cfg.Window.VSync
	win, err := window.NewWindow(wcfg)
	if err != nil {
		return err
	}
	defer win.Destroy()

	dev, err := opengl.NewDevice(win.Width, win.Height, logger)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	engine, err := renderer.NewRenderEngine(context.Background(), cfg, dev, logger)
	if err != nil {
		return err
	}
	defer engine.Destroy()

	win.OnResize(engine.Resize)

	last := win.Time()
	for n := 0; !win.ShouldClose(); n++ {
		if frames > 0 && n >= frames {
			break
		}
		now := win.Time()
		engine.Update(float32(now - last))
		last = now

		if err := engine.Render(); err != nil {
			return err
		}
		win.SwapBuffers()
		win.PollEvents()
		if win.IsKeyPressed(window.KeyEscape) {
			win.Close()
		}
	}
	logger.Info("shadowdemo exiting")
	return nil
}
