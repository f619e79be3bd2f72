package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
	"github.com/Vadimur/RockPaperScissorsGame/internal/game/move"
	"github.com/Vadimur/RockPaperScissorsGame/internal/service"
	"github.com/Vadimur/RockPaperScissorsGame/internal/testutil"
)

func clientConfig(baseURL string) config.ClientConfig {
	return config.ClientConfig{
		BaseURL:        baseURL + "/",
		HubPath:        testutil.HubPath,
		RequestTimeout: 2 * time.Second,
		PingInterval:   time.Second,
	}
}

func newServices(t *testing.T, api *testutil.FakeAPI) (*service.InGame, *service.Game) {
	t.Helper()
	cfg := clientConfig(api.URL())
	hc := service.NewHTTPClient(cfg)
	logger := zaptest.NewLogger(t)
	return service.NewInGame(cfg, hc, logger), service.NewGame(cfg, hc, logger)
}

func TestInGame_SubmitMove(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	ingame, _ := newServices(t, api)

	require.NoError(t, ingame.SubmitMove(context.Background(), "p1", move.Scissors, true))
	require.NoError(t, ingame.SubmitMove(context.Background(), "p1", move.Undefined, false))

	assert.Equal(t, []service.MoveRequest{
		{PlayerID: "p1", Move: move.Scissors, MadeInTime: true},
		{PlayerID: "p1", Move: move.Undefined, MadeInTime: false},
	}, api.Moves())
}

func TestInGame_LeaveGame(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	ingame, _ := newServices(t, api)

	require.NoError(t, ingame.LeaveGame(context.Background(), "p1"))
	assert.Equal(t, []string{"p1"}, api.Leaves())
}

func TestGame_Endpoints(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.SetRoomToken("tok-1")
	api.SetMessage("done")
	_, game := newServices(t, api)
	ctx := context.Background()

	token, err := game.CreatePrivateRoom(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	msg, err := game.JoinPrivateRoom(ctx, "p2", "room 7")
	require.NoError(t, err)
	assert.Equal(t, "done", msg)
	joined, ok := api.JoinedRoom("p2")
	require.True(t, ok)
	assert.Equal(t, "room 7", joined)

	msg, err = game.FindPublicGame(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, "done", msg)
	assert.Equal(t, []string{"p3"}, api.PublicRequests())

	msg, err = game.PlayRoundWithBot(ctx, "p4", move.Rock)
	require.NoError(t, err)
	assert.Equal(t, "done", msg)
	assert.Equal(t, []service.BotRoundRequest{{PlayerID: "p4", Move: move.Rock}}, api.BotRounds())
}

func TestStatusError(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.FailWith(http.StatusConflict)
	ingame, game := newServices(t, api)

	err := ingame.LeaveGame(context.Background(), "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrUnexpectedStatus)
	var statusErr *service.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
	assert.Equal(t, "forced failure", statusErr.Body)
	assert.Contains(t, err.Error(), "409")

	_, err = game.CreatePrivateRoom(context.Background(), "p1")
	assert.ErrorIs(t, err, service.ErrUnexpectedStatus)
}

func TestStatusError_EmptyBody(t *testing.T) {
	err := &service.StatusError{StatusCode: http.StatusBadGateway}
	assert.Equal(t, "server returned 502", err.Error())
}

func TestUndecodableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	cfg := clientConfig(srv.URL)
	game := service.NewGame(cfg, service.NewHTTPClient(cfg), zaptest.NewLogger(t))
	_, err := game.CreatePrivateRoom(context.Background(), "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
	assert.False(t, errors.Is(err, service.ErrUnexpectedStatus))
}

func TestContextCancelled(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	ingame, _ := newServices(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ingame.SubmitMove(ctx, "p1", move.Rock, true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, api.Moves())
}

func TestServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := clientConfig(url)
	ingame := service.NewInGame(cfg, service.NewHTTPClient(cfg), zaptest.NewLogger(t))
	err := ingame.LeaveGame(context.Background(), "p1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrUnexpectedStatus))
}
