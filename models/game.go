package models

import (
	"context"
)

// NumPlayers is the number of tokens on the board.
const NumPlayers = 2

// Positions holds the cell index of each player's token.
type Positions [NumPlayers]int

// Snapshot is the full game state as exchanged with clients.
type Snapshot struct {
	GameID          string    `json:"gameId,omitempty" mapstructure:"gameId"`
	PlayerPositions Positions `json:"playerPositions" mapstructure:"playerPositions"`
	Turn            int       `json:"turn" mapstructure:"turn"`
	Dice            *int      `json:"dice" mapstructure:"dice"`
	Winner          *string   `json:"winner" mapstructure:"winner"`
	Version         uint64    `json:"version" mapstructure:"version"`
}

// HasWinner reports whether the game is over.
func (s Snapshot) HasWinner() bool {
	return s.Winner != nil
}

// EventGameUpdated is the realtime event carrying a Snapshot.
const EventGameUpdated = "gameUpdated"

type GameEvent struct {
	Type   string   `json:"event"`
	GameID string   `json:"-"`
	Data   Snapshot `json:"data"`
}

type GameSubscriber struct {
	ID      string
	GameID  string
	Channel chan GameEvent
	Context context.Context
}

// Default display names, indexed by player.
var DefaultPlayerNames = [NumPlayers]string{"Player 1", "Player 2"}
