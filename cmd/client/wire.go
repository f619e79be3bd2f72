//go:build wireinject

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
)

func initializeApp(cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(appSet)
	return nil, nil, nil
}
