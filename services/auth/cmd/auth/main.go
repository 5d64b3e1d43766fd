package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/token_auth/pkg/config"
	"github.com/Skotchmaster/token_auth/pkg/db"
	"github.com/Skotchmaster/token_auth/pkg/events"
	"github.com/Skotchmaster/token_auth/pkg/hash"
	"github.com/Skotchmaster/token_auth/pkg/logging"
	"github.com/Skotchmaster/token_auth/services/auth/internal/httpserver"
	"github.com/Skotchmaster/token_auth/services/auth/internal/models"
	"github.com/Skotchmaster/token_auth/services/auth/internal/repo"
	"github.com/Skotchmaster/token_auth/services/auth/internal/service"
)

func main() {
	cfg := config.MustLoad()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := db.Open(initCtx, cfg.StoreDSN, models.All()...)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)

	authHTTP := &httpserver.AuthHTTP{
		Svc: &service.AuthService{
			Repo:   repo.NewGormRepo(store.DB),
			Hasher: hash.NewBcrypt(),
			Tokens: service.TokenSettings{
				AccessSecret:  cfg.AccessSecret(),
				RefreshSecret: cfg.RefreshSecret(),
				AccessExpire:  cfg.AccessTokenExpire,
				RefreshExpire: cfg.RefreshTokenExpire,
			},
			Events: publisher,
		},
		SecureCookies: cfg.Production(),
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: authHTTP,
		Store:       store,
		Logger:      logger,
	})

	go func() {
		logger.Info("auth service listening", "addr", cfg.AuthAddr())
		if err := e.Start(cfg.AuthAddr()); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("events close: %v", err)
	}
	if err := store.Close(); err != nil {
		log.Printf("db close: %v", err)
	}
}
