// Package board describes the 10x10 snake and ladder board: the redirect
// maps of each variant and the serpentine cell layout.
package board

import (
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

const (
	// Start is the cell every token begins on.
	Start = 1
	// Goal is the cell a token must reach exactly to win.
	Goal = 100
	// Size is the number of rows and columns.
	Size = 10
)

// DefaultVariant names the built-in board.
const DefaultVariant = "classic"

// Kind distinguishes snakes from ladders.
type Kind string

const (
	KindSnake  Kind = "snake"
	KindLadder Kind = "ladder"
)

// Redirect is a jump applied after a token lands on From.
type Redirect struct {
	Kind Kind `json:"kind"`
	From int  `json:"from"`
	To   int  `json:"to"`
}

// Variant is an immutable board configuration.
type Variant struct {
	Name    string      `json:"name" yaml:"name"`
	Snakes  map[int]int `json:"snakes" yaml:"snakes"`
	Ladders map[int]int `json:"ladders" yaml:"ladders"`
}

// Classic returns the board shipped with the game.
func Classic() *Variant {
	return &Variant{
		Name: DefaultVariant,
		Snakes: map[int]int{
			16: 5,
			57: 22,
			86: 66,
			98: 27,
			92: 71,
		},
		Ladders: map[int]int{
			13: 49,
			42: 79,
			52: 71,
		},
	}
}

// RedirectAt reports the jump for a token landing on cell. Snakes are
// checked before ladders.
func (v *Variant) RedirectAt(cell int) (Redirect, bool) {
	if to, ok := v.Snakes[cell]; ok {
		return Redirect{Kind: KindSnake, From: cell, To: to}, true
	}
	if to, ok := v.Ladders[cell]; ok {
		return Redirect{Kind: KindLadder, From: cell, To: to}, true
	}
	return Redirect{}, false
}

// Redirects lists every jump on the board ordered by source cell.
func (v *Variant) Redirects() []Redirect {
	out := make([]Redirect, 0, len(v.Snakes)+len(v.Ladders))
	for from, to := range v.Snakes {
		out = append(out, Redirect{Kind: KindSnake, From: from, To: to})
	}
	for from, to := range v.Ladders {
		out = append(out, Redirect{Kind: KindLadder, From: from, To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// Validate checks the redirect rules and reports every violation.
func (v *Variant) Validate() error {
	var err error
	if v.Name == "" {
		err = multierr.Append(err, fmt.Errorf("variant has no name"))
	}
	for from, to := range v.Snakes {
		err = multierr.Append(err, checkJump(v.Name, KindSnake, from, to))
		if to >= from {
			err = multierr.Append(err, fmt.Errorf("%s: snake %d->%d must lead down", v.Name, from, to))
		}
		if _, ok := v.Ladders[from]; ok {
			err = multierr.Append(err, fmt.Errorf("%s: cell %d is both a snake and a ladder", v.Name, from))
		}
	}
	for from, to := range v.Ladders {
		err = multierr.Append(err, checkJump(v.Name, KindLadder, from, to))
		if to <= from {
			err = multierr.Append(err, fmt.Errorf("%s: ladder %d->%d must lead up", v.Name, from, to))
		}
	}
	return err
}

func checkJump(name string, kind Kind, from, to int) error {
	var err error
	if from <= Start || from >= Goal {
		err = multierr.Append(err, fmt.Errorf("%s: %s source %d must be within %d..%d", name, kind, from, Start+1, Goal-1))
	}
	if to < Start || to > Goal {
		err = multierr.Append(err, fmt.Errorf("%s: %s target %d is off the board", name, kind, to))
	}
	return err
}
