package game

import (
	"errors"
	"fmt"

	"snakeladder/board"
	"snakeladder/models"
)

const (
	DiceMin = 1
	DiceMax = 6
)

// NoWinner marks a resolution that did not end the game.
const NoWinner = -1

var (
	// ErrInvalidRoll indicates a die value outside DiceMin..DiceMax.
	ErrInvalidRoll = errors.New("roll must be between 1 and 6")
	// ErrInvalidTurn indicates a player index other than 0 or 1.
	ErrInvalidTurn = errors.New("turn must be 0 or 1")
	// ErrInvalidPosition indicates a token off the board.
	ErrInvalidPosition = errors.New("position must be between 1 and 100")
	// ErrGameOver indicates a roll after a player has already won.
	ErrGameOver = errors.New("game is already won")
)

// Resolution is the outcome of one roll.
type Resolution struct {
	Player int
	Roll   int
	// Landing holds the positions right after the token moves by Roll,
	// before any snake or ladder applies.
	Landing models.Positions
	// Final holds the positions once the redirect, if any, has applied.
	Final     models.Positions
	Redirect  *board.Redirect
	Forfeited bool
	// NextTurn is the player to act after Final settles.
	NextTurn int
	Winner   int
}

// ResolveRoll moves the active player's token by roll on variant.
func ResolveRoll(variant *board.Variant, positions models.Positions, turn, roll int) (Resolution, error) {
	if roll < DiceMin || roll > DiceMax {
		return Resolution{}, fmt.Errorf("%w: got %d", ErrInvalidRoll, roll)
	}
	if turn < 0 || turn >= models.NumPlayers {
		return Resolution{}, fmt.Errorf("%w: got %d", ErrInvalidTurn, turn)
	}
	for player, pos := range positions {
		if pos < board.Start || pos > board.Goal {
			return Resolution{}, fmt.Errorf("%w: player %d at %d", ErrInvalidPosition, player, pos)
		}
	}
	if CheckWinner(positions) != NoWinner {
		return Resolution{}, ErrGameOver
	}

	res := Resolution{
		Player:  turn,
		Roll:    roll,
		Landing: positions,
		Final:   positions,
	}

	tentative := positions[turn] + roll
	if tentative > board.Goal {
		// Overshoot wastes the turn.
		res.Forfeited = true
	} else {
		res.Landing[turn] = tentative
		res.Final[turn] = tentative
		if r, ok := variant.RedirectAt(tentative); ok {
			res.Redirect = &r
			res.Final[turn] = r.To
		}
	}

	res.Winner = CheckWinner(res.Final)
	if res.Winner != NoWinner {
		res.NextTurn = res.Winner
	} else {
		res.NextTurn = OtherPlayer(turn)
	}
	return res, nil
}

// CheckWinner returns the index of the player on the goal cell, or NoWinner.
func CheckWinner(positions models.Positions) int {
	for player, pos := range positions {
		if pos == board.Goal {
			return player
		}
	}
	return NoWinner
}

// OtherPlayer returns the opponent of player.
func OtherPlayer(player int) int {
	return (player + 1) % models.NumPlayers
}

// InitialPositions returns the positions at game start.
func InitialPositions() models.Positions {
	return models.Positions{board.Start, board.Start}
}
