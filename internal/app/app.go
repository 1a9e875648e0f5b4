package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/tallyboard/tallyboard/internal/auth"
	"github.com/tallyboard/tallyboard/internal/config"
	"github.com/tallyboard/tallyboard/internal/db"
	"github.com/tallyboard/tallyboard/internal/http/api"
	"github.com/tallyboard/tallyboard/internal/session"
	"github.com/tallyboard/tallyboard/internal/store"

	log "github.com/sirupsen/logrus"
)

// sessionPurgeInterval is how often expired session bindings are swept.
const sessionPurgeInterval = time.Hour

// RunServer boots the HTTP server with database-backed components and blocks
// until the context is cancelled or the server fails.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	sessionCfg, _ := config.LoadSessionConfig(configPath)
	authCfg, _ := config.LoadAuthConfig(configPath)
	port := config.LoadPort(configPath, defaultPort)

	sessions := session.NewStore(conn, sessionCfg.TTL)
	authSvc := auth.New(store.New(conn), authCfg.BcryptCost)

	bootstrapCfg := config.LoadBootstrapConfig(configPath)
	if errBootstrap := BootstrapUser(ctx, authSvc, bootstrapCfg.Username, bootstrapCfg.Password); errBootstrap != nil {
		return errBootstrap
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.RegisterRoutes(engine, conn, authSvc, sessions, sessionCfg.CookieSecure)

	scheduler, errScheduler := gocron.NewScheduler()
	if errScheduler != nil {
		return fmt.Errorf("create scheduler: %w", errScheduler)
	}
	if _, errJob := scheduler.NewJob(
		gocron.DurationJob(sessionPurgeInterval),
		gocron.NewTask(func() {
			purgeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			deleted, errPurge := sessions.PurgeExpired(purgeCtx)
			if errPurge != nil {
				log.WithError(errPurge).Warn("session purge failed")
				return
			}
			if deleted > 0 {
				log.WithField("deleted", deleted).Info("purged expired sessions")
			}
		}),
	); errJob != nil {
		return fmt.Errorf("schedule session purge: %w", errJob)
	}
	scheduler.Start()
	defer func() {
		if errShutdown := scheduler.Shutdown(); errShutdown != nil {
			log.WithError(errShutdown).Warn("scheduler shutdown failed")
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", port).Info("server listening")
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
		}
	}()

	select {
	case errServe := <-errCh:
		return errServe
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		return fmt.Errorf("server shutdown: %w", errShutdown)
	}
	log.Info("server stopped")
	return nil
}
