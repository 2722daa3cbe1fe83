package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"snakeladder/config"
	"snakeladder/events"
	"snakeladder/game"
	"snakeladder/handlers"
	"snakeladder/logging"
)

const shutdownTimeout = 5 * time.Second

func setupRouter(h *handlers.Handler, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(logging.Middleware(log), gin.Recovery())
	r.HTMLRender = handlers.NewRenderer()
	h.Routes(r)
	return r
}

func gameOptions(cfg config.Config, log *zap.Logger) (func() game.Options, error) {
	variant, err := cfg.Variant()
	if err != nil {
		return nil, err
	}
	return func() game.Options {
		opts := game.Options{
			Variant:       variant,
			PlayerNames:   cfg.Names(),
			RedirectDelay: cfg.RedirectDelay,
			Immediate:     cfg.Immediate,
			Logger:        log,
		}
		if cfg.DiceSeed != 0 {
			opts.Die = game.NewRandomDie(cfg.DiceSeed)
		}
		return opts
	}, nil
}

func newServer(cfg config.Config, log *zap.Logger) (*http.Server, error) {
	opts, err := gameOptions(cfg, log)
	if err != nil {
		return nil, err
	}

	hub := events.NewHub(log)
	store := game.NewStore(opts, func(g *game.Game) {
		g.Subscribe(hub.Publish)
	})
	if _, err := store.Default(); err != nil {
		return nil, err
	}

	h := handlers.New(store, hub, handlers.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         log,
	})
	router := setupRouter(h, log)

	return &http.Server{
		Addr: cfg.Addr,
		Handler: cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "HX-Request", "HX-Target", "HX-Current-URL", "HX-Trigger"},
			MaxAge:         300,
		})(router),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	srv, err := newServer(cfg, log)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	// Streaming requests end when ctx does, so Shutdown does not wait on them.
	srv.BaseContext = func(net.Listener) context.Context { return ctx }
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logging.New(cfg.LogLevel, cfg.Dev)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
