package main

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/midia/internal/configuration"
	"github.com/gestaozabele/midia/internal/db"
	"github.com/gestaozabele/midia/internal/logging"
)

func main() {
	logging.Setup(os.Getenv("LOG_LEVEL"), "console", os.Stderr)

	root := newRootCmd(openService)
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("mediaconfig falhou")
		os.Exit(1)
	}
}

func openService(ctx context.Context) (configurationService, func(), error) {
	_ = godotenv.Load()

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		return nil, nil, errDSNMissing
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return configuration.NewService(configuration.NewRepository(pool), 0, nil), pool.Close, nil
}
