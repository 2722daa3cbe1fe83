package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"slices"
	"sync"
)

// Die produces roll values in DiceMin..DiceMax.
type Die interface {
	Roll() int
}

// RandomDie is a uniform six-sided die.
type RandomDie struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomDie returns a die seeded with seed. The same seed always yields
// the same sequence of rolls.
func NewRandomDie(seed int64) *RandomDie {
	return &RandomDie{rng: rand.New(rand.NewSource(seed))}
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func (d *RandomDie) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Intn(DiceMax-DiceMin+1) + DiceMin
}

// ScriptedDie replays a fixed sequence of values, wrapping around at the end.
type ScriptedDie struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewScriptedDie panics if values is empty.
func NewScriptedDie(values ...int) *ScriptedDie {
	if len(values) == 0 {
		panic("game: scripted die needs at least one value")
	}
	return &ScriptedDie{values: slices.Clone(values)}
}

func (d *ScriptedDie) Roll() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.values[d.next%len(d.values)]
	d.next++
	return v
}
