package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/Vadimur/RockPaperScissorsGame/internal/config"
)

func runLoadConfig(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	cmd := newCommand()
	var cfg config.Config
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		var err error
		cfg, err = loadConfig(c)
		return err
	}
	err := cmd.Run(context.Background(), append([]string{"rps-client"}, args...))
	return cfg, err
}

func TestLoadConfig_DefaultsGeneratePlayerID(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	cfg, err := runLoadConfig(t, "--config", missing)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(cfg.User.PlayerID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "http://localhost:5000", cfg.Client.BaseURL)
	assert.Equal(t, config.DefaultMoveTimeoutMs, cfg.Timeouts.MoveTimeoutMs)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	cfg, err := runLoadConfig(t, "--config", missing, "--player", "p9", "--server", "https://rps.example.com")
	require.NoError(t, err)
	assert.Equal(t, "p9", cfg.User.PlayerID)
	assert.Equal(t, "https://rps.example.com", cfg.Client.BaseURL)
}

func TestLoadConfig_InvalidServerRejected(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")
	_, err := runLoadConfig(t, "--config", missing, "--server", "ftp://rps.example.com")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &buf

	require.NoError(t, cmd.Run(context.Background(), []string{"rps-client", "version"}))
	assert.Equal(t, "rps-client "+Version+"\n", buf.String())
}
