package tui

import (
	"context"

	"snakeladder/client"
	"snakeladder/game"
	"snakeladder/models"
)

// Backend is the game the terminal board drives.
type Backend interface {
	Roll(ctx context.Context) error
	Reset(ctx context.Context) error
	// OnUpdate registers fn to run after every state change. fn must not
	// block.
	OnUpdate(fn func(models.Snapshot))
	Current() models.Snapshot
}

type localBackend struct {
	g *game.Game
}

// Local drives a game running in this process.
func Local(g *game.Game) Backend {
	return localBackend{g: g}
}

func (b localBackend) Roll(context.Context) error {
	_, err := b.g.Roll()
	return err
}

func (b localBackend) Reset(context.Context) error {
	b.g.Reset()
	return nil
}

func (b localBackend) OnUpdate(fn func(models.Snapshot)) {
	b.g.Subscribe(fn)
}

func (b localBackend) Current() models.Snapshot {
	return b.g.Snapshot()
}

type remoteBackend struct {
	c *client.Client
}

// Remote drives a game hosted by a server. The caller runs c.Listen to keep
// the mirror current.
func Remote(c *client.Client) Backend {
	return remoteBackend{c: c}
}

func (b remoteBackend) Roll(ctx context.Context) error {
	return b.c.Roll(ctx)
}

func (b remoteBackend) Reset(ctx context.Context) error {
	return b.c.Reset(ctx)
}

func (b remoteBackend) OnUpdate(fn func(models.Snapshot)) {
	b.c.OnUpdate(fn)
}

func (b remoteBackend) Current() models.Snapshot {
	snap, _ := b.c.Snapshot()
	return snap
}
