package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"musicapp/config"
	"musicapp/handlers"
	"musicapp/middleware"
	"musicapp/migrations"
	"musicapp/store"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis/v3"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := newLogger("info")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	app := &cli.Command{
		Name:  "musicapp",
		Usage: "Catalogue songs, reviews and playlists",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "migrate", Usage: "Apply pending migrations before serving"},
				},
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Manage the database schema",
				Commands: []*cli.Command{
					{Name: "up", Usage: "Apply all pending migrations", Action: migrateAction(migrations.Up)},
					{Name: "down", Usage: "Roll back the latest migration", Action: migrateAction(migrations.Down)},
					{Name: "status", Usage: "Show migration status", Action: migrateAction(migrations.Status)},
				},
			},
			{
				Name:  "config",
				Usage: "Configuration helpers",
				Commands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write an example config.toml",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							path := cmd.String("config")
							if err := config.WriteExample(path); err != nil {
								return err
							}
							logger.Info("config written", "path", path)
							return nil
						},
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		logger.Fatal("application error", "err", err)
	}
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func loadConfig(cmd *cli.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, newLogger(cfg.Log.Level), nil
}

type migrateFunc func(ctx context.Context, db *sql.DB, logger *log.Logger) error

func migrateAction(run migrateFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := migrations.Open(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		return run(ctx, db, logger)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("migrate") {
		if err := migrateAction(migrations.Up)(ctx, cmd); err != nil {
			return err
		}
	}

	db, err := store.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("connected to database")

	var storage fiber.Storage
	if cfg.Redis.Enabled {
		redisStore := redis.New(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			Database: cfg.Redis.Database,
		})
		defer redisStore.Close()
		storage = redisStore
		logger.Info("sessions stored in redis", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
	} else {
		logger.Warn("redis disabled, sessions are kept in memory")
	}

	sessions := middleware.NewSessions(storage, cfg.Session)
	app := handlers.NewApp(handlers.New(db, sessions, logger))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}()

	logger.Info("listening", "addr", cfg.Server.Addr())
	if err := app.Listen(cfg.Server.Addr()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
