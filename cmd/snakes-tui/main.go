// Command snakes-tui plays Snakes & Ladders in the terminal, either against
// an in-process game or mirroring a game on a server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"snakeladder/board"
	"snakeladder/client"
	"snakeladder/config"
	"snakeladder/game"
	"snakeladder/logging"
	"snakeladder/tui"
)

func main() {
	remote := flag.String("remote", "", "server URL to mirror, e.g. http://localhost:8080")
	gameID := flag.String("game", "", "room id on the remote server (default game if empty)")
	logFile := flag.String("log", "", "write logs to this file")
	flag.Parse()

	if err := run(*remote, *gameID, *logFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(remote, gameID, logFile string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if logFile != "" {
		if log, err = logging.New(cfg.LogLevel, cfg.Dev, logFile); err != nil {
			return err
		}
		defer log.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if remote == "" {
		return runLocal(ctx, cfg, log)
	}
	return runRemote(ctx, cfg, remote, gameID, log)
}

func runLocal(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	variant, err := cfg.Variant()
	if err != nil {
		return err
	}
	opts := game.Options{
		Variant:       variant,
		PlayerNames:   cfg.Names(),
		RedirectDelay: cfg.RedirectDelay,
		Immediate:     cfg.Immediate,
		Logger:        log,
	}
	if cfg.DiceSeed != 0 {
		opts.Die = game.NewRandomDie(cfg.DiceSeed)
	}
	g, err := game.New("local", opts)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Local(g), g.Variant(), g.PlayerNames())
}

func runRemote(ctx context.Context, cfg config.Config, remote, gameID string, log *zap.Logger) error {
	c, err := client.New(remote, client.Options{GameID: gameID, Logger: log})
	if err != nil {
		return err
	}

	var variant *board.Variant
	if variant, err = c.Board(ctx); err != nil {
		return err
	}
	if _, err = c.Fetch(ctx); err != nil {
		return err
	}

	// Snapshots name the winner only, so turn labels come from local config.
	names := cfg.Names()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Listen(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return tui.Run(ctx, tui.Remote(c), variant, names)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
