package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snakeladder/board"
)

func testOptions() Options {
	return Options{Die: NewScriptedDie(3), Scheduler: &fakeScheduler{}}
}

func TestStoreDefaultIsStable(t *testing.T) {
	store := NewStore(testOptions, nil)

	first, err := store.Default()
	require.NoError(t, err)
	second, err := store.Default()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, DefaultGameID, first.ID)
}

func TestStoreCreateAndGet(t *testing.T) {
	var created []string
	store := NewStore(testOptions, func(g *Game) { created = append(created, g.ID) })

	a, err := store.CreateGame()
	require.NoError(t, err)
	b, err := store.CreateGame()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	got, err := store.GetGame(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	assert.ElementsMatch(t, []string{a.ID, b.ID}, store.IDs())
	assert.Equal(t, []string{a.ID, b.ID}, created)
}

func TestStoreGamesAreIndependent(t *testing.T) {
	store := NewStore(testOptions, nil)
	a, err := store.CreateGame()
	require.NoError(t, err)
	b, err := store.CreateGame()
	require.NoError(t, err)

	_, err = a.Roll()
	require.NoError(t, err)

	assert.Equal(t, 4, a.Snapshot().PlayerPositions[0])
	assert.Equal(t, 1, b.Snapshot().PlayerPositions[0])
}

func TestStoreGetUnknown(t *testing.T) {
	store := NewStore(testOptions, nil)
	_, err := store.GetGame("missing")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestStoreRejectsInvalidOptions(t *testing.T) {
	store := NewStore(func() Options {
		return Options{Variant: &board.Variant{Name: "broken", Ladders: map[int]int{1: 50}}}
	}, nil)

	_, err := store.CreateGame()
	assert.Error(t, err)
	assert.Empty(t, store.IDs())
}
