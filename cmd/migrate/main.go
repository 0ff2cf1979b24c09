package main

import (
	"context"
	"flag"
	"fmt"

	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/platform/postgres"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.Env, cfg.LogLevel)

	if *command == "create" {
		if *name == "" {
			log.Fatal().Msg("name is required for 'create' command")
		}
		if err := goose.Create(nil, migrationsDir(), *name, "sql"); err != nil {
			log.Fatal().Err(err).Msg("create migration")
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	ctx := context.Background()
	pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, *command); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	fmt.Printf("Migration command %q finished\n", *command)
}
