package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snakeladder/board"
	"snakeladder/models"
)

func TestResolveRollPlainAdvance(t *testing.T) {
	v := board.Classic()
	for turn := 0; turn < models.NumPlayers; turn++ {
		for p := board.Start; p < board.Goal; p++ {
			for r := DiceMin; r <= DiceMax; r++ {
				target := p + r
				if target > board.Goal {
					continue
				}
				if _, jump := v.RedirectAt(target); jump {
					continue
				}
				positions := models.Positions{1, 1}
				positions[turn] = p

				res, err := ResolveRoll(v, positions, turn, r)
				require.NoError(t, err)
				assert.Equal(t, target, res.Final[turn], "p=%d r=%d", p, r)
				assert.Equal(t, target, res.Landing[turn])
				assert.Nil(t, res.Redirect)
				assert.False(t, res.Forfeited)
				if target == board.Goal {
					assert.Equal(t, turn, res.Winner)
					assert.Equal(t, turn, res.NextTurn)
				} else {
					assert.Equal(t, NoWinner, res.Winner)
					assert.Equal(t, OtherPlayer(turn), res.NextTurn)
				}
			}
		}
	}
}

func TestResolveRollOvershootForfeits(t *testing.T) {
	res, err := ResolveRoll(board.Classic(), models.Positions{98, 40}, 0, 6)
	require.NoError(t, err)

	assert.True(t, res.Forfeited)
	assert.Equal(t, models.Positions{98, 40}, res.Final)
	assert.Equal(t, models.Positions{98, 40}, res.Landing)
	assert.Equal(t, 1, res.NextTurn)
	assert.Equal(t, NoWinner, res.Winner)
}

func TestResolveRollLadder(t *testing.T) {
	res, err := ResolveRoll(board.Classic(), models.Positions{12, 1}, 0, 1)
	require.NoError(t, err)

	assert.Equal(t, 13, res.Landing[0])
	assert.Equal(t, 49, res.Final[0])
	require.NotNil(t, res.Redirect)
	assert.Equal(t, board.KindLadder, res.Redirect.Kind)
	assert.Equal(t, 1, res.NextTurn)
}

func TestResolveRollSnake(t *testing.T) {
	res, err := ResolveRoll(board.Classic(), models.Positions{3, 10}, 1, 6)
	require.NoError(t, err)

	assert.Equal(t, models.Positions{3, 16}, res.Landing)
	assert.Equal(t, models.Positions{3, 5}, res.Final)
	require.NotNil(t, res.Redirect)
	assert.Equal(t, board.KindSnake, res.Redirect.Kind)
	assert.Equal(t, 0, res.NextTurn)
}

func TestResolveRollWinThenGameOver(t *testing.T) {
	v := board.Classic()
	res, err := ResolveRoll(v, models.Positions{94, 50}, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Final[0])
	assert.Equal(t, 0, res.Winner)
	assert.Equal(t, 0, res.NextTurn)

	for turn := 0; turn < models.NumPlayers; turn++ {
		_, err = ResolveRoll(v, res.Final, turn, 1)
		assert.ErrorIs(t, err, ErrGameOver)
	}
}

func TestResolveRollLadderOntoGoalWins(t *testing.T) {
	v := &board.Variant{Name: "express", Snakes: map[int]int{}, Ladders: map[int]int{7: 100}}
	res, err := ResolveRoll(v, models.Positions{1, 1}, 1, 6)
	require.NoError(t, err)

	assert.Equal(t, 7, res.Landing[1])
	assert.Equal(t, 100, res.Final[1])
	assert.Equal(t, 1, res.Winner)
}

func TestResolveRollRejectsInvalidInput(t *testing.T) {
	v := board.Classic()
	cases := []struct {
		name      string
		positions models.Positions
		turn      int
		roll      int
		want      error
	}{
		{"roll too low", models.Positions{1, 1}, 0, 0, ErrInvalidRoll},
		{"roll too high", models.Positions{1, 1}, 0, 7, ErrInvalidRoll},
		{"negative turn", models.Positions{1, 1}, -1, 3, ErrInvalidTurn},
		{"turn past players", models.Positions{1, 1}, 2, 3, ErrInvalidTurn},
		{"position below start", models.Positions{0, 1}, 0, 3, ErrInvalidPosition},
		{"position past goal", models.Positions{1, 101}, 0, 3, ErrInvalidPosition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveRoll(v, tc.positions, tc.turn, tc.roll)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestCheckWinner(t *testing.T) {
	assert.Equal(t, NoWinner, CheckWinner(models.Positions{1, 99}))
	assert.Equal(t, 0, CheckWinner(models.Positions{100, 99}))
	assert.Equal(t, 1, CheckWinner(models.Positions{4, 100}))
}
