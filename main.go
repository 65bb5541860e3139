package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/emberworks/emberweb/internal/auth"
	"github.com/emberworks/emberweb/internal/config"
	"github.com/emberworks/emberweb/internal/csrf"
	"github.com/emberworks/emberweb/internal/httpserver"
	"github.com/emberworks/emberweb/internal/logging"
	"github.com/emberworks/emberweb/internal/pages"
	"github.com/emberworks/emberweb/internal/session"
	"github.com/emberworks/emberweb/internal/store"
	"github.com/emberworks/emberweb/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("loading config")
	}
	logger := logging.New(cfg.Dev())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening store")
	}
	defer st.Close()

	codec := session.NewCodec(cfg.SiteKey, cfg.SessionKey, cfg.Dev())
	guard := csrf.NewGuard(cfg.SiteKey, cfg.Dev())
	authority := &auth.Authority{Store: st, Codec: codec, CSRF: guard}
	account := &auth.Handler{Store: st, Codec: codec, CSRF: guard, Log: logger}

	r := chi.NewRouter()
	r.Use(logging.RequestLogger(logger))
	r.Use(logging.Recoverer(logger))
	r.Use(web.CORS(cfg.CORSAllowedOrigins))
	r.Mount("/api/account", account.Routes())
	r.Mount("/", pages.New(authority, account, logger).Routes())

	if err := httpserver.Serve(ctx, logger, ":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

// openStore picks the store backend from config: redis first, then
// postgres, then the in-memory store for development only.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.Store, error) {
	switch {
	case cfg.RedisURL != "":
		logger.Info().Msg("using redis store")
		return store.OpenRedis(ctx, cfg.RedisURL)
	case cfg.DatabaseURL != "":
		logger.Info().Msg("using postgres store")
		return store.OpenPostgres(cfg.DatabaseURL)
	case cfg.Dev():
		logger.Warn().Msg("no store configured, records will not survive a restart")
		return store.NewMemory(), nil
	default:
		return nil, errors.New("REDIS_URL or DATABASE_URL must be set")
	}
}
