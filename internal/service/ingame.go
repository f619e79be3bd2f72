package service

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/move"
)

// MoveRequest is the body of a move submission.
type MoveRequest struct {
	PlayerID   string    `json:"playerId"`
	Move       move.Move `json:"move"`
	MadeInTime bool      `json:"isMoveMadeInTime"`
}

// LeaveRequest is the body of a leave-game request.
type LeaveRequest struct {
	PlayerID string `json:"playerId"`
}

// InGame submits moves and leave requests for a running game.
type InGame struct {
	api apiClient
}

// NewInGame creates an InGame client.
func NewInGame(cfg config.ClientConfig, hc *http.Client, logger *zap.Logger) *InGame {
	return &InGame{api: newAPIClient(cfg, hc, logger)}
}

// SubmitMove sends the player's figure for the current round.
func (s *InGame) SubmitMove(ctx context.Context, playerID string, m move.Move, madeInTime bool) error {
	return s.api.post(ctx, "/api/ingame/move", MoveRequest{
		PlayerID:   playerID,
		Move:       m,
		MadeInTime: madeInTime,
	}, nil)
}

// LeaveGame removes the player from the game they are in.
func (s *InGame) LeaveGame(ctx context.Context, playerID string) error {
	return s.api.post(ctx, "/api/ingame/leave", LeaveRequest{PlayerID: playerID}, nil)
}
