package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tablewire/tablewire/internal/audio"
	"github.com/tablewire/tablewire/internal/client"
	"github.com/tablewire/tablewire/internal/clock"
	"github.com/tablewire/tablewire/internal/observe"
	"github.com/tablewire/tablewire/internal/profile"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	config, err := loadConfig(getEnv("TABLEWIRE_CONFIG", "tablewire.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Profile store; fall back to memory so a broken disk never blocks play
	var repo profile.Repository
	repo, err = profile.NewSQLiteRepository(config.ProfileDB)
	if err != nil {
		log.Warn().Err(err).Str("path", config.ProfileDB).Msg("profile store unavailable, using memory")
		repo = profile.NewMemoryRepository()
	}
	defer repo.Close()

	profileSvc := profile.NewService(ctx, repo)
	if config.DisplayName != "" && config.DisplayName != profileSvc.Profile().Name {
		profileSvc.SetName(ctx, config.DisplayName)
	}
	prof := profileSvc.Profile()

	log.Info().
		Str("server", config.ServerURL).
		Str("room", config.RoomCode).
		Str("name", prof.Name).
		Msg("starting tablewire client")

	scheduler := audio.NewScheduler(audio.NewBeepSynth(), prof.Muted)
	director := audio.NewDirector(scheduler, prof.Name)

	turnClock := clock.New(clockwork.NewRealClock(), config.TurnSeconds, func(int) {
		scheduler.LowTimeTick()
	})
	defer turnClock.Stop()

	synchronizer := client.NewSynchronizer()
	synchronizer.Subscribe(turnClock.Observe)
	synchronizer.Subscribe(director.Observe)
	synchronizer.Subscribe(profileSvc.OnSnapshot)

	connConfig := client.DefaultConfig()
	connConfig.URL = config.ServerURL
	connConfig.ReconnectDelay = config.ReconnectDelay()

	var manager *client.Manager
	connConfig.OnOpen = func() {
		// Re-join on every open; the server resends the room snapshot
		manager.JoinRoom(config.RoomCode, profileSvc.Profile().Name)
	}
	manager = client.NewManager(connConfig, clockwork.NewRealClock(), synchronizer)
	defer manager.Close()

	observeServer := observe.NewServer(manager, synchronizer, turnClock, scheduler)
	httpServer := &http.Server{
		Addr:         config.ListenAddr,
		Handler:      observeServer.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("observe endpoint starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("observe endpoint failed")
		}
	}()

	if err := manager.Connect(); err != nil {
		// First dial failed; the reconnect timer takes it from here
		log.Warn().Err(err).Msg("initial connect failed, retrying")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("observe endpoint shutdown failed")
	}

	log.Info().Msg("tablewire client shutdown complete")
}
