// Command storefront runs the Book Nook gateway: it guards front-end
// navigation, owns each session's live update channel and forwards book,
// account and administration calls to the backend API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/booknook/storefront/docs"
	"github.com/booknook/storefront/internal/api"
	"github.com/booknook/storefront/internal/api/handler"
	"github.com/booknook/storefront/internal/core/ports"
	"github.com/booknook/storefront/internal/core/service"
	"github.com/booknook/storefront/internal/infrastructure/bookapi"
	"github.com/booknook/storefront/internal/infrastructure/cache"
	"github.com/booknook/storefront/internal/infrastructure/config"
	redisdb "github.com/booknook/storefront/internal/infrastructure/db/redis"
	"github.com/booknook/storefront/internal/infrastructure/queue"
	"github.com/booknook/storefront/internal/infrastructure/ws"
	"github.com/booknook/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg, err := config.Load(ctx, boot)
	if err != nil {
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("storefront stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	backend := bookapi.NewClient(bookapi.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})
	checkers := []handler.DependencyChecker{backend}

	// --- Identity cache: Redis when configured, process memory otherwise ---
	var identityCache ports.IdentityCache = cache.NewMemoryIdentityCache()
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		identityCache = redisdb.NewIdentityCache(rdb)
		checkers = append(checkers, redisdb.NewChecker(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("identity cache backed by redis")
	}

	identities := service.NewIdentityService(backend, identityCache, cfg.Cache.IdentityTTL, log)
	navigation := service.NewNavigationService(identities, cfg.Navigation.ResolveTimeout, log)

	// --- Mutation queue: outlives the HTTP server so in-flight writes finish ---
	queueCtx, stopQueue := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Queue.Workers, log)
	queueDone := dispatcher.Start(queueCtx)
	defer func() {
		stopQueue()
		<-queueDone
	}()

	wsURL, err := ws.WebSocketURL(cfg.API.BaseURL)
	if err != nil {
		log.Error().Err(err).Msg("live channel disabled: cannot derive websocket url from API_BASE_URL")
	}
	sessions := service.NewSessionManager(service.SessionDeps{
		NewChannel: func(token string) ports.LiveChannel {
			return ws.NewChannel(wsURL, liveOptions(cfg.Live, token), log)
		},
		NewCache:   func() ports.CollectionCache { return cache.NewQueryCache() },
		Decode:     ws.Decode,
		Queue:      dispatcher,
		Identities: identities,
		FeedLimit:  cfg.Navigation.NotificationLimit,
	}, log)
	defer sessions.CloseAll()

	orders := service.NewOrderService(backend, sessions, dispatcher, cfg.Cache.OrdersTTL, log)
	catalog := service.NewCatalogService(backend, identities, sessions, log)

	e := api.NewRouter(api.Dependencies{
		Navigation: navigation,
		Sessions:   sessions,
		Orders:     orders,
		Catalog:    catalog,
		Identities: identities,
		Checkers:   checkers,
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", backend.BaseURL()).Msg("storefront listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// liveOptions builds the handshake of one session's live channel. The token
// travels both as a bearer header and as the session cookie.
func liveOptions(cfg config.LiveConfig, token string) ws.Options {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Cookie", (&http.Cookie{Name: bookapi.SessionCookie, Value: token}).String())

	opts := ws.Options{Header: header, HandshakeTimeout: cfg.HandshakeTimeout}
	if cfg.MaxRetries > 0 {
		opts.Reconnect = ws.DefaultReconnectPolicy(cfg.MaxRetries)
		opts.Reconnect.InitialBackoff = cfg.InitialBackoff
		opts.Reconnect.MaxBackoff = cfg.MaxBackoff
	}
	return opts
}
