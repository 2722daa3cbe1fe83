package game

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"snakeladder/board"
	"snakeladder/models"
)

// DefaultRedirectDelay is how long a token rests on a snake or ladder cell
// before it jumps.
const DefaultRedirectDelay = 800 * time.Millisecond

// Options configures a Game. Zero values select defaults.
type Options struct {
	Variant     *board.Variant
	PlayerNames [models.NumPlayers]string
	Die         Die
	Scheduler   Scheduler
	// RedirectDelay separates the landing update from the redirect update.
	// Zero selects DefaultRedirectDelay.
	RedirectDelay time.Duration
	// Immediate applies redirects in the same update as the landing, for
	// consumers that never render the intermediate cell.
	Immediate bool
	Logger    *zap.Logger
}

type pendingRedirect struct {
	player   int
	redirect board.Redirect
	timer    Timer
}

type subscription struct {
	id uint64
	fn func(models.Snapshot)
}

// Game is one game instance. All mutations go through its methods, which
// are safe for concurrent use.
type Game struct {
	ID string

	variant   *board.Variant
	names     [models.NumPlayers]string
	die       Die
	sched     Scheduler
	delay     time.Duration
	immediate bool
	log       *zap.Logger

	mu        sync.Mutex
	positions models.Positions
	turn      int
	dice      *int
	winner    int
	version   uint64
	pending   *pendingRedirect
	subs      []subscription
	nextSubID uint64
}

// New creates a game at its initial state.
func New(id string, opts Options) (*Game, error) {
	if opts.Variant == nil {
		opts.Variant = board.Classic()
	}
	if err := opts.Variant.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board %q: %w", opts.Variant.Name, err)
	}
	for i, name := range opts.PlayerNames {
		if name == "" {
			opts.PlayerNames[i] = models.DefaultPlayerNames[i]
		}
	}
	if opts.Die == nil {
		seed, err := NewSeed()
		if err != nil {
			return nil, err
		}
		opts.Die = NewRandomDie(seed)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = ClockScheduler()
	}
	if opts.RedirectDelay < 0 {
		return nil, fmt.Errorf("redirect delay must not be negative, got %s", opts.RedirectDelay)
	}
	if opts.RedirectDelay == 0 {
		opts.RedirectDelay = DefaultRedirectDelay
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Game{
		ID:        id,
		variant:   opts.Variant,
		names:     opts.PlayerNames,
		die:       opts.Die,
		sched:     opts.Scheduler,
		delay:     opts.RedirectDelay,
		immediate: opts.Immediate,
		log:       opts.Logger.With(zap.String("game_id", id)),
		positions: InitialPositions(),
		winner:    NoWinner,
	}, nil
}

// Variant returns the board this game is played on.
func (g *Game) Variant() *board.Variant {
	return g.variant
}

// PlayerNames returns the display names, indexed by player.
func (g *Game) PlayerNames() [models.NumPlayers]string {
	return g.names
}

// Roll throws the die for the player whose turn it is.
func (g *Game) Roll() (models.Snapshot, error) {
	return g.RollValue(g.die.Roll())
}

// RollValue resolves a roll of the given value for the player whose turn it
// is. A landing on a snake or ladder is published first; the jump follows
// after the redirect delay.
func (g *Game) RollValue(roll int) (models.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Positions must be settled before the next move resolves.
	g.settleLocked()

	res, err := ResolveRoll(g.variant, g.positions, g.turn, roll)
	if err != nil {
		return g.snapshotLocked(), err
	}

	dice := roll
	g.dice = &dice
	g.log.Debug("roll resolved",
		zap.Int("player", res.Player),
		zap.Int("roll", roll),
		zap.Int("landing", res.Landing[res.Player]),
		zap.Bool("forfeited", res.Forfeited),
	)

	if res.Redirect == nil || g.immediate {
		g.positions = res.Final
		g.turn = res.NextTurn
		g.winner = res.Winner
		g.commitLocked()
		g.logWinLocked()
		return g.snapshotLocked(), nil
	}

	g.positions = res.Landing
	g.turn = OtherPlayer(res.Player)
	g.commitLocked()

	p := &pendingRedirect{player: res.Player, redirect: *res.Redirect}
	g.pending = p
	p.timer = g.sched.AfterFunc(g.delay, func() { g.fire(p) })
	return g.snapshotLocked(), nil
}

// Reset restores the initial state and discards any pending redirect.
func (g *Game) Reset() models.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != nil {
		g.pending.timer.Stop()
		g.pending = nil
	}
	g.positions = InitialPositions()
	g.turn = 0
	g.dice = nil
	g.winner = NoWinner
	g.commitLocked()
	g.log.Info("game reset")
	return g.snapshotLocked()
}

// Snapshot returns the current state.
func (g *Game) Snapshot() models.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

// Pending reports whether a snake or ladder jump is waiting to apply.
func (g *Game) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}

// Subscribe registers fn to receive the full snapshot after every committed
// change, in commit order. fn runs with the game locked: it must not block
// or call back into the game. The returned func removes the subscription.
func (g *Game) Subscribe(fn func(models.Snapshot)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nextSubID++
	id := g.nextSubID
	g.subs = append(g.subs, subscription{id: id, fn: fn})

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		for i, s := range g.subs {
			if s.id == id {
				g.subs = append(g.subs[:i], g.subs[i+1:]...)
				return
			}
		}
	}
}

func (g *Game) fire(p *pendingRedirect) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending != p {
		g.log.Debug("dropping stale redirect",
			zap.Int("player", p.player),
			zap.Int("from", p.redirect.From),
			zap.Int("to", p.redirect.To),
		)
		return
	}
	g.applyLocked(p)
}

func (g *Game) settleLocked() {
	if g.pending == nil {
		return
	}
	p := g.pending
	p.timer.Stop()
	g.applyLocked(p)
}

func (g *Game) applyLocked(p *pendingRedirect) {
	g.pending = nil
	g.positions[p.player] = p.redirect.To
	g.winner = CheckWinner(g.positions)
	if g.winner != NoWinner {
		g.turn = g.winner
	}
	g.log.Debug("redirect applied",
		zap.String("kind", string(p.redirect.Kind)),
		zap.Int("player", p.player),
		zap.Int("from", p.redirect.From),
		zap.Int("to", p.redirect.To),
	)
	g.commitLocked()
	g.logWinLocked()
}

func (g *Game) logWinLocked() {
	if g.winner != NoWinner {
		g.log.Info("game won", zap.String("winner", g.names[g.winner]))
	}
}

func (g *Game) commitLocked() {
	g.version++
	snap := g.snapshotLocked()
	for _, s := range g.subs {
		s.fn(snap)
	}
}

func (g *Game) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		GameID:          g.ID,
		PlayerPositions: g.positions,
		Turn:            g.turn,
		Version:         g.version,
	}
	if g.dice != nil {
		d := *g.dice
		snap.Dice = &d
	}
	if g.winner != NoWinner {
		name := g.names[g.winner]
		snap.Winner = &name
	}
	return snap
}
