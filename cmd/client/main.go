// Package main provides the Rock/Paper/Scissors console client.
// It connects to the game server's HTTP API and event hub and drives the
// player through the lobby and in-game menus.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
	"github.com/Vadimur/RockPaperScissorsGame/internal/lifecycle"
	"github.com/Vadimur/RockPaperScissorsGame/internal/observability"
)

// Version is the client version reported by the version command.
const Version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("loading .env file: %v", err)
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatalf("rps-client: %v", err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "rps-client",
		Usage:   "play Rock/Paper/Scissors against other players or the server bot",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "configs/client.yaml",
				Usage: "path to configuration file",
			},
			&cli.StringFlag{
				Name:  "player",
				Usage: "player id to play as (overrides user.player_id)",
			},
			&cli.StringFlag{
				Name:  "server",
				Usage: "game server base URL (overrides client.base_url)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: "print the client version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintf(cmd.Root().Writer, "rps-client %s\n", Version)
					return err
				},
			},
		},
		Action: run,
	}
}

// loadConfig reads the configuration and applies command-line overrides.
//
// Postcondition: Returns a valid Config with a non-empty player id, or an error.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if player := cmd.String("player"); player != "" {
		cfg.User.PlayerID = player
	}
	if server := cmd.String("server"); server != "" {
		cfg.Client.BaseURL = server
	}
	if cfg.User.PlayerID == "" {
		cfg.User.PlayerID = uuid.NewString()
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting client",
		zap.String("player_id", cfg.User.PlayerID),
		zap.String("base_url", cfg.Client.BaseURL),
		zap.Duration("move_timeout", cfg.Timeouts.MoveTimeout()),
		zap.Duration("series_timeout", cfg.Timeouts.SeriesTimeout()),
	)

	app, cleanup, err := initializeApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing client: %w", err)
	}
	defer cleanup()

	lobbyCtx, cancelLobby := context.WithCancel(ctx)
	defer cancelLobby()

	lc := lifecycle.New(logger)
	lc.Add("lobby", &lifecycle.FuncService{
		StartFn: func() error {
			return app.Lobby.Run(lobbyCtx)
		},
		StopFn: func() {
			cancelLobby()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Client.RequestTimeout)
			defer cancel()
			app.Lobby.Shutdown(shutdownCtx)
		},
	})

	logger.Info("client initialized", zap.Duration("startup", time.Since(start)))

	if err := lc.Run(ctx); err != nil {
		logger.Error("client error", zap.Error(err))
		return err
	}
	logger.Info("client stopped", zap.Bool("hub_connected", app.Hub.Connected()))
	return nil
}
