package service

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/move"
)

// PlayerRequest identifies the requesting player.
type PlayerRequest struct {
	PlayerID string `json:"playerId"`
}

// BotRoundRequest is the body of a single round against the server bot.
type BotRoundRequest struct {
	PlayerID string    `json:"playerId"`
	Move     move.Move `json:"move"`
}

// RoomResponse carries a freshly created private room token.
type RoomResponse struct {
	RoomToken string `json:"roomToken"`
}

// MessageResponse carries a human readable server message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Game starts games: private rooms, public matchmaking and bot rounds.
type Game struct {
	api apiClient
}

// NewGame creates a Game client.
func NewGame(cfg config.ClientConfig, hc *http.Client, logger *zap.Logger) *Game {
	return &Game{api: newAPIClient(cfg, hc, logger)}
}

// CreatePrivateRoom creates a room and returns the token an opponent joins with.
func (s *Game) CreatePrivateRoom(ctx context.Context, playerID string) (string, error) {
	var resp RoomResponse
	if err := s.api.post(ctx, "/api/game/rooms", PlayerRequest{PlayerID: playerID}, &resp); err != nil {
		return "", err
	}
	return resp.RoomToken, nil
}

// JoinPrivateRoom joins the room identified by token.
func (s *Game) JoinPrivateRoom(ctx context.Context, playerID, token string) (string, error) {
	var resp MessageResponse
	path := "/api/game/rooms/" + url.PathEscape(token) + "/join"
	if err := s.api.post(ctx, path, PlayerRequest{PlayerID: playerID}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// FindPublicGame queues the player for a public game.
func (s *Game) FindPublicGame(ctx context.Context, playerID string) (string, error) {
	var resp MessageResponse
	if err := s.api.post(ctx, "/api/game/public", PlayerRequest{PlayerID: playerID}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// PlayRoundWithBot plays one round against the server bot and returns its summary.
func (s *Game) PlayRoundWithBot(ctx context.Context, playerID string, m move.Move) (string, error) {
	var resp MessageResponse
	if err := s.api.post(ctx, "/api/game/bot", BotRoundRequest{PlayerID: playerID, Move: m}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
