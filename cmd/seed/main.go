package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/engagement-backend/internal/config"
	"github.com/ignatzorin/engagement-backend/internal/db"
	"github.com/ignatzorin/engagement-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/engagement-backend/internal/logger"
	"github.com/ignatzorin/engagement-backend/internal/seed"
)

func main() {
	path := flag.String("file", "seed/dev.yaml", "путь к YAML с фикстурами")
	migrate := flag.Bool("migrate", true, "применить миграции перед загрузкой")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Init("info")
	logger.SetTextFormatter()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("seed: ошибка загрузки конфигурации: %v", err)
	}
	if cfg.IsProduction() {
		logger.Log.Fatal("seed: загрузка фикстур в production запрещена")
	}

	fx, err := seed.LoadFile(*path)
	if err != nil {
		logger.Log.Fatal(err)
	}

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPool)
	if err != nil {
		logger.Log.Fatal(err)
	}
	defer conn.Close()

	if *migrate {
		if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
			logger.Log.Fatal(err)
		}
	}

	sum, err := seed.Apply(ctx, persistence.NewStore(conn), fx)
	if err != nil {
		logger.Log.Fatal(err)
	}
	logger.Log.WithFields(logrus.Fields{
		"employers": sum.Employers,
		"talents":   sum.Talents,
		"skills":    sum.Skills,
	}).Info("seed: фикстуры загружены")
}
