package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
	"github.com/Vadimur/RockPaperScissorsGame/internal/console"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/lobby"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/session"
	"github.com/Vadimur/RockPaperScissorsGame/internal/service"
	"github.com/Vadimur/RockPaperScissorsGame/internal/storage"
	"github.com/Vadimur/RockPaperScissorsGame/internal/transport/hub"
)

// App holds the top-level components the client runs.
type App struct {
	Lobby *lobby.Lobby
	Hub   *hub.Client
}

var appSet = wire.NewSet(
	wire.FieldsOf(new(config.Config), "Client", "User", "Lobby"),
	provideHub,
	service.NewHTTPClient,
	service.NewInGame,
	service.NewGame,
	console.Std,
	session.OptionsFromConfig,
	session.NewManager,
	provideTokens,
	lobby.New,
	wire.Bind(new(session.Gateway), new(*hub.Client)),
	wire.Bind(new(session.InGameService), new(*service.InGame)),
	wire.Bind(new(lobby.GameService), new(*service.Game)),
	wire.Struct(new(App), "*"),
)

func provideHub(cfg config.ClientConfig, logger *zap.Logger) (*hub.Client, func(), error) {
	c, err := hub.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return c, func() {
		if err := c.Close(); err != nil {
			logger.Warn("closing hub connection", zap.Error(err))
		}
	}, nil
}

func provideTokens() *storage.Single[string] {
	return storage.NewSingle[string]()
}
