package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/friendfinder/internal/config"
	"github.com/zeusync/friendfinder/internal/core/observability/log"
	"github.com/zeusync/friendfinder/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "friendfinder:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Logger.Info("Starting friendfinder",
		log.String("listen_addr", cfg.Bridge.ListenAddr),
		log.Bool("enabled_on_start", cfg.Tracker.EnabledOnStart),
		log.String("toggle_key", cfg.Keys.Toggle),
		log.String("cycle_key", cfg.Keys.Cycle),
		log.String("waypoint_key", cfg.Keys.AddWaypoint),
	)
	if err := app.Bridge.Run(ctx); err != nil {
		app.Logger.Error("Bridge failed", log.Error(err))
		return err
	}
	return nil
}
