package tui

import (
	"context"
	"fmt"

	"github.com/nsf/termbox-go"

	"snakeladder/board"
	"snakeladder/models"
)

type action int

const (
	actionNone action = iota
	actionQuit
)

// handleKey applies one key press and returns the status line to show.
func handleKey(ctx context.Context, backend Backend, ev termbox.Event) (action, string) {
	switch {
	case ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q':
		return actionQuit, ""
	case ev.Ch == 'r' || ev.Key == termbox.KeySpace:
		if err := backend.Roll(ctx); err != nil {
			return actionNone, err.Error()
		}
	case ev.Ch == 'n':
		if err := backend.Reset(ctx); err != nil {
			return actionNone, err.Error()
		}
	}
	return actionNone, ""
}

// Run shows the board in the terminal until the user quits or ctx is done.
func Run(ctx context.Context, backend Backend, variant *board.Variant, names [models.NumPlayers]string) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer termbox.Close()

	done := make(chan struct{})
	defer close(done)

	// Updates may arrive with the game locked, so they only signal here and
	// the redraw happens on the event loop.
	changed := make(chan struct{}, 1)
	backend.OnUpdate(func(models.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				termbox.Interrupt()
				return
			case <-changed:
				termbox.Interrupt()
			}
		}
	}()

	status := ""
	for {
		if err := draw(Frame(variant, names, backend.Current(), status)); err != nil {
			return err
		}

		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			var act action
			act, status = handleKey(ctx, backend, ev)
			if act == actionQuit {
				return nil
			}
		case termbox.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}
		case termbox.EventError:
			return fmt.Errorf("terminal: %w", ev.Err)
		}
	}
}

func draw(lines []string) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return err
	}
	for y, line := range lines {
		x := 0
		for _, ch := range line {
			termbox.SetCell(x, y, ch, termbox.ColorDefault, termbox.ColorDefault)
			x++
		}
	}
	return termbox.Flush()
}
