package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/eduhub/classroom/internal/adapters/http"
	"github.com/eduhub/classroom/internal/app"
	"github.com/eduhub/classroom/internal/app/orch"
	"github.com/eduhub/classroom/internal/config"
	"github.com/eduhub/classroom/internal/identity"
	"github.com/eduhub/classroom/internal/repository"
	"github.com/eduhub/classroom/internal/repository/memory"
	redisrepo "github.com/eduhub/classroom/internal/repository/redis"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// The persistence collaborators: redis when configured, in-memory for dev.
	var (
		meetings      repository.MeetingRepository
		notifications repository.NotificationRepository
		directory     repository.UserDirectory
		tokens        repository.TokenStore
	)
	if cfg.Redis.Enabled {
		repo, err := redisrepo.NewRepository(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer repo.Close()
		meetings, notifications, directory, tokens = repo, repo, repo, repo
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis repository")
	} else {
		repo := memory.NewRepository()
		meetings, notifications, directory, tokens = repo, repo, repo, repo
		log.Warn().Msg("using in-memory repository, state is lost on restart")
	}

	presence := app.NewPresence()
	rooms := app.NewRoomSet()
	o := orch.New(presence, rooms, app.SimplePolicy{}, meetings, notifications, directory)
	resolver := identity.NewStoreResolver(tokens, directory)

	r := router.SetupRouter(ctx, cfg, o, resolver)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("classroom server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
