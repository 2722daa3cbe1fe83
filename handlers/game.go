package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"snakeladder/board"
	"snakeladder/events"
	"snakeladder/game"
	"snakeladder/models"
)

// Options configures a Handler.
type Options struct {
	// AllowedOrigins lists the origins allowed to open a websocket. "*"
	// allows any origin.
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Handler serves the game API, the realtime streams and the board page.
type Handler struct {
	store    *game.Store
	hub      *events.Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func New(store *game.Store, hub *events.Hub, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Handler{
		store: store,
		hub:   hub,
		log:   opts.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
	}
}

// Routes registers every endpoint on r. Routes without an :id act on the
// default game.
func (h *Handler) Routes(r gin.IRouter) {
	// Pages
	r.GET("/", h.HomeHandler)
	r.GET("/new-game", h.NewGameHandler)
	r.GET("/game/:id", h.GamePageHandler)
	r.GET("/game/:id/board", h.BoardPartialHandler)

	// Default game
	r.GET("/api/game", h.GetGameHandler)
	r.POST("/api/roll", h.RollHandler)
	r.POST("/api/reset", h.ResetHandler)
	r.GET("/api/events", h.GameSSEHandler)
	r.GET("/api/board", h.BoardHandler)
	r.GET("/socket", h.GameSocketHandler)

	// Rooms
	r.GET("/api/games", h.ListGamesHandler)
	r.POST("/api/games", h.CreateGameHandler)
	r.GET("/api/games/:id", h.GetGameHandler)
	r.POST("/api/games/:id/roll", h.RollHandler)
	r.POST("/api/games/:id/reset", h.ResetHandler)
	r.GET("/api/games/:id/events", h.GameSSEHandler)
	r.GET("/api/games/:id/board", h.BoardHandler)
	r.GET("/api/games/:id/socket", h.GameSocketHandler)
}

func (h *Handler) HomeHandler(c *gin.Context) {
	g, err := h.store.Default()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderPage(c, g)
}

func (h *Handler) NewGameHandler(c *gin.Context) {
	g, err := h.store.CreateGame()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/game/"+g.ID)
}

func (h *Handler) GamePageHandler(c *gin.Context) {
	g, err := h.store.GetGame(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "404.html", gin.H{
			"Title": "Game Not Found",
		})
		return
	}
	h.renderPage(c, g)
}

func (h *Handler) BoardPartialHandler(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}
	renderGameBoard(c, g, g.Snapshot())
}

func (h *Handler) GetGameHandler(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, g.Snapshot())
}

func (h *Handler) CreateGameHandler(c *gin.Context) {
	g, err := h.store.CreateGame()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info("game created", zap.String("game_id", g.ID))
	c.JSON(http.StatusCreated, gin.H{"id": g.ID})
}

// RollHandler rolls for the player whose turn it is. An optional "value"
// query parameter fixes the roll instead of drawing from the die.
func (h *Handler) RollHandler(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}

	var (
		snap models.Snapshot
		err  error
	)
	if raw, set := c.GetQuery("value"); set {
		roll, convErr := strconv.Atoi(raw)
		if convErr != nil {
			err = fmt.Errorf("%w: got %q", game.ErrInvalidRoll, raw)
		} else {
			snap, err = g.RollValue(roll)
		}
	} else {
		snap, err = g.Roll()
	}

	if isHXRequest(c) {
		// The board is re-rendered whether or not the roll was accepted.
		view := newBoardView(g, g.Snapshot())
		if err != nil {
			view.Error = err.Error()
		}
		c.HTML(http.StatusOK, "board.html", view)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, snap)
}

func (h *Handler) ResetHandler(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}
	snap := g.Reset()
	if isHXRequest(c) {
		renderGameBoard(c, g, snap)
		return
	}
	c.JSON(http.StatusAccepted, snap)
}

type boardResponse struct {
	Name      string                      `json:"name"`
	Snakes    map[int]int                 `json:"snakes"`
	Ladders   map[int]int                 `json:"ladders"`
	Layout    [board.Size][board.Size]int `json:"layout"`
	Redirects []board.Redirect            `json:"redirects"`
}

type gameSummary struct {
	ID          string `json:"id"`
	Version     uint64 `json:"version"`
	Subscribers int    `json:"subscribers"`
}

// ListGamesHandler lists every stored game with its current version and
// how many realtime streams are watching it.
func (h *Handler) ListGamesHandler(c *gin.Context) {
	ids := h.store.IDs()
	slices.Sort(ids)

	games := make([]gameSummary, 0, len(ids))
	for _, id := range ids {
		g, err := h.store.GetGame(id)
		if err != nil {
			continue
		}
		games = append(games, gameSummary{
			ID:          id,
			Version:     g.Snapshot().Version,
			Subscribers: h.hub.SubscriberCount(id),
		})
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *Handler) BoardHandler(c *gin.Context) {
	g, ok := h.lookup(c)
	if !ok {
		return
	}
	v := g.Variant()
	c.JSON(http.StatusOK, boardResponse{
		Name:      v.Name,
		Snakes:    v.Snakes,
		Ladders:   v.Ladders,
		Layout:    board.Layout(),
		Redirects: v.Redirects(),
	})
}

// lookup resolves the game named by the :id parameter, or the default game
// when the route has none. On failure it writes the error response.
func (h *Handler) lookup(c *gin.Context) (*game.Game, bool) {
	var (
		g   *game.Game
		err error
	)
	if id := c.Param("id"); id != "" {
		g, err = h.store.GetGame(id)
	} else {
		g, err = h.store.Default()
	}
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return g, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, game.ErrInvalidRoll),
		errors.Is(err, game.ErrInvalidTurn),
		errors.Is(err, game.ErrInvalidPosition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isHXRequest(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func (h *Handler) renderPage(c *gin.Context, g *game.Game) {
	c.HTML(http.StatusOK, "game.html", gin.H{
		"Title": "Snakes & Ladders",
		"Board": newBoardView(g, g.Snapshot()),
	})
}

func renderGameBoard(c *gin.Context, g *game.Game, snap models.Snapshot) {
	c.HTML(http.StatusOK, "board.html", newBoardView(g, snap))
}
