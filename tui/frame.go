package tui

import (
	"fmt"
	"strings"

	"snakeladder/board"
	"snakeladder/models"
)

// Frame renders the board and status as plain text lines. Each cell shows
// its number followed by a marker: A or B for the players on it, "v" for a
// snake head, "^" for a ladder foot.
func Frame(variant *board.Variant, names [models.NumPlayers]string, snap models.Snapshot, status string) []string {
	layout := board.Layout()
	lines := make([]string, 0, len(layout)+8)

	for _, row := range layout {
		var b strings.Builder
		for _, cell := range row {
			fmt.Fprintf(&b, "%4d%-2s", cell, marker(variant, snap.PlayerPositions, cell))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	lines = append(lines, "")
	for player, name := range names {
		line := fmt.Sprintf("[%s] %s: %d", token(player), name, snap.PlayerPositions[player])
		if r, ok := variant.RedirectAt(snap.PlayerPositions[player]); ok {
			line += fmt.Sprintf(" (%s to %d)", r.Kind, r.To)
		}
		lines = append(lines, line)
	}

	if snap.HasWinner() {
		lines = append(lines, *snap.Winner+" wins!")
	} else {
		lines = append(lines, names[snap.Turn]+" to roll")
	}
	if snap.Dice != nil {
		lines = append(lines, fmt.Sprintf("Last roll: %d", *snap.Dice))
	}
	if status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, "", "r roll   n new game   q quit")
	return lines
}

func marker(variant *board.Variant, positions models.Positions, cell int) string {
	var tokens string
	for player, pos := range positions {
		if pos == cell {
			tokens += token(player)
		}
	}
	if tokens != "" {
		return tokens
	}
	if r, ok := variant.RedirectAt(cell); ok {
		if r.Kind == board.KindSnake {
			return "v"
		}
		return "^"
	}
	return ""
}

func token(player int) string {
	return string(rune('A' + player))
}
