// Package client mirrors a game hosted by a remote server. The mirror is
// read-only: it changes only when the server broadcasts a snapshot.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"snakeladder/board"
	"snakeladder/models"
)

// ErrActionFailed wraps every transport or server failure.
var ErrActionFailed = errors.New("action failed")

// Options configures a Client.
type Options struct {
	// GameID selects a room. Empty means the server's default game.
	GameID     string
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
	Logger     *zap.Logger
}

// Client talks to one game on a remote server.
type Client struct {
	base   *url.URL
	gameID string
	http   *http.Client
	dialer *websocket.Dialer
	log    *zap.Logger

	mu        sync.Mutex
	snap      models.Snapshot
	have      bool
	listeners []func(models.Snapshot)
}

// New returns a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url %q must be http or https", baseURL)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		base:   base,
		gameID: opts.GameID,
		http:   opts.HTTPClient,
		dialer: opts.Dialer,
		log:    opts.Logger,
	}, nil
}

// OnUpdate registers fn to run after every accepted snapshot.
func (c *Client) OnUpdate(fn func(models.Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Snapshot returns the mirrored state and whether any has been received.
func (c *Client) Snapshot() (models.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap, c.have
}

// Fetch loads the current snapshot. The mirror takes it unless it already
// holds a newer version.
func (c *Client) Fetch(ctx context.Context) (models.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(""), nil)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: fetch: %w", ErrActionFailed, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: fetch: %w", ErrActionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Snapshot{}, fmt.Errorf("%w: fetch: %s", ErrActionFailed, describe(resp))
	}
	var snap models.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: fetch: decode: %w", ErrActionFailed, err)
	}
	c.apply(snap, false)
	return snap, nil
}

// Board loads the snakes and ladders of the mirrored game.
func (c *Client) Board(ctx context.Context) (*board.Variant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("board"), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: board: %w", ErrActionFailed, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: board: %w", ErrActionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: board: %s", ErrActionFailed, describe(resp))
	}
	var v board.Variant
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: board: decode: %w", ErrActionFailed, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: board: %w", ErrActionFailed, err)
	}
	return &v, nil
}

// Roll asks the server to roll for the player whose turn it is. The result
// arrives through Listen.
func (c *Client) Roll(ctx context.Context) error {
	return c.post(ctx, "roll")
}

// Reset asks the server to reset the game. The result arrives through Listen.
func (c *Client) Reset(ctx context.Context) error {
	return c.post(ctx, "reset")
}

func (c *Client) post(ctx context.Context, action string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(action), nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrActionFailed, action, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrActionFailed, action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%w: %s: %s", ErrActionFailed, action, describe(resp))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Listen subscribes to gameUpdated events and mirrors them until ctx is done
// or the connection fails. The first frame after connecting is taken as is;
// later frames older than the mirror are ignored.
func (c *Client) Listen(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.socketURL(), nil)
	if err != nil {
		return fmt.Errorf("%w: listen: %w", ErrActionFailed, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	first := true
	for {
		var frame struct {
			Event string         `json:"event"`
			Data  map[string]any `json:"data"`
		}
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: listen: %w", ErrActionFailed, err)
		}
		if frame.Event != models.EventGameUpdated {
			c.log.Debug("ignoring event", zap.String("event", frame.Event))
			continue
		}
		snap, err := decodeSnapshot(frame.Data)
		if err != nil {
			c.log.Warn("bad snapshot", zap.Error(err))
			continue
		}
		c.apply(snap, first)
		first = false
	}
}

func decodeSnapshot(data map[string]any) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := mapstructure.Decode(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// apply replaces the mirror with snap. Unless force is set, a snapshot
// older than the mirror is dropped.
func (c *Client) apply(snap models.Snapshot, force bool) bool {
	c.mu.Lock()
	if c.have && !force && snap.Version < c.snap.Version {
		c.mu.Unlock()
		c.log.Debug("ignoring stale snapshot",
			zap.Uint64("version", snap.Version),
			zap.Uint64("held", c.snap.Version),
		)
		return false
	}
	c.snap = snap
	c.have = true
	listeners := append(([]func(models.Snapshot))(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return true
}

func (c *Client) endpoint(action string) string {
	var path string
	switch {
	case c.gameID == "" && action == "":
		path = "/api/game"
	case c.gameID == "":
		path = "/api/" + action
	case action == "":
		path = "/api/games/" + url.PathEscape(c.gameID)
	default:
		path = "/api/games/" + url.PathEscape(c.gameID) + "/" + action
	}
	return c.base.String() + path
}

func (c *Client) socketURL() string {
	u := *c.base
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	if c.gameID == "" {
		return u.String() + "/socket"
	}
	return u.String() + "/api/games/" + url.PathEscape(c.gameID) + "/socket"
}

func describe(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Sprintf("%s: %s", resp.Status, body.Error)
	}
	return resp.Status
}
