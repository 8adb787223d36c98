// Command devbackend serves an in-memory copy of the REST backend contract
// for local development.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vertextarget/portal-gateway/internal/devbackend"
	"github.com/vertextarget/portal-gateway/internal/pkg/config"
	"github.com/vertextarget/portal-gateway/pkg/logger"
)

func main() {
	cfg := config.LoadDevBackend()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "vertex-devbackend"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := devbackend.New(devbackend.Config{
		JWTSecret:         cfg.JWTSecret,
		TokenTTL:          cfg.JWTTTL,
		SeedAdminEmail:    cfg.SeedAdminEmail,
		SeedAdminPassword: cfg.SeedAdminPassword,
		StrategyCacheTTL:  cfg.StrategyCacheTTL,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("dev backend init failed")
	}

	log.Info().Str("port", cfg.Port).Msg("dev backend listening")
	if err := srv.Serve(ctx, ":"+cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("dev backend stopped")
	}
}
