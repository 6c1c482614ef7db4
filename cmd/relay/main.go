package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/Skribblers/skribbler/relay"
	"github.com/Skribblers/skribbler/shared/configs"
	"github.com/Skribblers/skribbler/shared/logger"
	"github.com/Skribblers/skribbler/transport"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownGrace = 5 * time.Second

var errNoUpstream = errors.New("UPSTREAM_URL is required")

func allowed(origins []string, origin string) bool {
	return origin == "" || slices.Contains(origins, origin)
}

func createRelay(ctx context.Context, cfg configs.Config) (*gin.Engine, *relay.Server, error) {
	if cfg.UpstreamURL == "" {
		return nil, nil, errNoUpstream
	}
	upgrader := transport.NewUpgrader(func(r *http.Request) bool {
		return allowed(cfg.AllowedOrigins, r.Header.Get("Origin"))
	})
	srv, err := relay.NewServer(ctx, cfg.UpstreamURL, upgrader)
	if err != nil {
		return nil, nil, err
	}
	srv.OnPairing = func(p *relay.Pairing) {
		p.Intercept(tracePackets(log.Logger.With().Str("pairing", p.ID()).Logger()))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })
	r.Use(func(ctx *gin.Context) {
		if !allowed(cfg.AllowedOrigins, ctx.Request.Header.Get("Origin")) {
			ctx.String(http.StatusForbidden, "forbidden origin")
			ctx.Abort()
			return
		}
		ctx.Next()
	})
	srv.RegisterRoutes(r)
	return r, srv, nil
}

// tracePackets logs the id of every frame and forwards it untouched.
func tracePackets(l zerolog.Logger) func(*relay.Message) relay.Verdict {
	return func(m *relay.Message) relay.Verdict {
		e := l.Debug()
		if !e.Enabled() {
			return relay.Forward
		}
		e = e.Stringer("dir", m.Direction).Int("bytes", len(m.Data))
		if env, err := m.Envelope(); err != nil {
			e.Err(err).Msg("opaque frame")
		} else {
			e.Int("packet", int(env.ID)).Msg("frame")
		}
		return relay.Forward
	}
}

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogPretty); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	r, _, err := createRelay(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("relay setup failed")
	}

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("relay failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("upstream", cfg.UpstreamURL).Msg("relay started")

	<-ctx.Done()
	log.Info().Msg("SIGTERM or SIGINT received, closing pairings")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
