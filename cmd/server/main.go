package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/Skribblers/skribbler/crypto"
	"github.com/Skribblers/skribbler/game"
	"github.com/Skribblers/skribbler/migrations"
	"github.com/Skribblers/skribbler/shared/configs"
	"github.com/Skribblers/skribbler/shared/logger"
	"github.com/Skribblers/skribbler/storage"
	"github.com/Skribblers/skribbler/transport"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownGrace = 10 * time.Second

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	// browsers always send Origin on cross site requests; native clients never do
	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func originChecker(allowedOrigins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowedOrigins, origin)
	}
}

// ticketIssuer returns a nil interface, not a nil *TicketManager, when
// tickets are disabled.
func ticketIssuer(cfg configs.Config) game.TicketIssuer {
	if len(cfg.JWTKey) == 0 {
		return nil
	}
	return crypto.NewTicketManager(string(cfg.JWTKey), cfg.TicketTTL)
}

func wordSource(ctx context.Context, cfg configs.Config) (game.RandomWordsGenerator, func(), error) {
	if cfg.PostgresURL == "" {
		return game.LoadWords(), func() {}, nil
	}
	if err := migrations.Migrate(cfg.PostgresURL); err != nil {
		return nil, nil, err
	}
	words, err := storage.NewPostgresWords(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if err := seedDictionary(ctx, words, game.LoadWords()); err != nil {
		words.Close()
		return nil, nil, err
	}
	return words, words.Close, nil
}

type wordSeeder interface {
	AddWords(ctx context.Context, lang int, words []string) error
}

// seedDictionary copies the built-in word list into the default language.
// Words already stored are kept.
func seedDictionary(ctx context.Context, s wordSeeder, d *game.Dictionary) error {
	words := d.Words(0)
	if len(words) == 0 {
		return nil
	}
	if err := s.AddWords(ctx, 0, words); err != nil {
		return fmt.Errorf("seeding dictionary: %w", err)
	}
	log.Info().Int("words", len(words)).Msg("dictionary seeded")
	return nil
}

// buildServer starts the lobby actor under ctx and mounts the game routes.
func buildServer(ctx context.Context, cfg configs.Config, words game.RandomWordsGenerator) *gin.Engine {
	idGen := game.NewIdGen()
	tickerGen := game.NewTickerGen()
	roomConfig := game.RoomConfig{Defaults: cfg.DefaultSettings, ReverseDrawOrder: cfg.ReverseDrawOrder}
	lobby := game.NewLobby(&idGen, &tickerGen, func(private bool, lang int) game.Room {
		return game.NewRoom(roomConfig, words, private, lang)
	})

	lobbyStarted := make(chan struct{})
	go lobby.LobbyActor(ctx, lobbyStarted)
	<-lobbyStarted

	r := CreateServer(cfg.AllowedOrigins)
	upgrader := transport.NewUpgrader(originChecker(cfg.AllowedOrigins))
	gameHandler := game.NewGameHandler(lobby, ticketIssuer(cfg), upgrader, cfg.PublicURL)
	gameHandler.RegisterRoutes(r)
	return r
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

	words, closeWords, err := wordSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("word source unavailable")
	}
	defer closeWords()

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: buildServer(ctx, cfg, words),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Bool("tickets", len(cfg.JWTKey) > 0).Bool("postgres", cfg.PostgresURL != "").Msg("server started")

	<-ctx.Done()
	log.Info().Msg("SIGTERM or SIGINT received, closing rooms and shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
