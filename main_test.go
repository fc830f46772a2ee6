package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/gogym/api"
	"github.com/wricardo/gogym/game/service"
	"github.com/wricardo/gogym/game/session"
	"github.com/wricardo/gogym/transport/mcp"
)

// parse runs the command line with every action replaced by a recorder
func parse(t *testing.T, args ...string) appConfig {
	t.Helper()
	var got appConfig
	record := func(ctx context.Context, cmd *cli.Command) error {
		got = configFromCommand(cmd)
		return nil
	}

	cmd := newCommand()
	cmd.Action = record
	for _, sub := range cmd.Commands {
		sub.Action = record
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{AppName}, args...)))
	return got
}

func testConfig(t *testing.T) appConfig {
	return appConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ConfigDir:       "configs",
		SessionTTL:      time.Hour,
		CleanupInterval: time.Hour,
		SyncInterval:    time.Hour,
	}
}

func TestFlagDefaults(t *testing.T) {
	cfg := parse(t)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "configs", cfg.ConfigDir)
	assert.Equal(t, session.DefaultSessionTTL, cfg.SessionTTL)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.NgrokEnabled)
	assert.Equal(t, "localhost:8080", cfg.addr())
}

func TestFlagsAndEnvironment(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("NGROK_AUTH_TOKEN", "secret")

	cfg := parse(t, "--host", "0.0.0.0", "--session-ttl", "30m", "--debug")
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "secret", cfg.NgrokAuth)

	cfg = parse(t, "--port", "9090")
	assert.Equal(t, 9090, cfg.Port, "flag wins over environment")
}

func TestMCPCommand(t *testing.T) {
	cfg := parse(t, "mcp")
	assert.Equal(t, "http://localhost:8080", cfg.External)

	cfg = parse(t, "stdio-mcp", "--api-url", "http://example.test")
	assert.Equal(t, "http://example.test", cfg.External)
}

func TestInitializeServices(t *testing.T) {
	svc, closeFn, err := initializeServices(context.Background(), testConfig(t), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer closeFn()

	info, err := svc.CreateSession(context.Background(), service.CreateSessionRequest{ConfigID: "small"})
	require.NoError(t, err)
	assert.Equal(t, 9, info.GameState.BoardSize)
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.ConfigDir = "/non/existent/path"

	_, _, err := initializeServices(context.Background(), cfg, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestInitializeServices_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	ctx := context.Background()

	svc, closeFn, err := initializeServices(ctx, cfg, zap.NewNop().Sugar())
	require.NoError(t, err)

	info, err := svc.CreateSession(ctx, service.CreateSessionRequest{BoardSize: 5})
	require.NoError(t, err)
	_, err = svc.Move(ctx, info.ID, 2, 2)
	require.NoError(t, err)
	closeFn()

	assert.True(t, mr.Exists(session.DefaultKeyPrefix+info.ID))

	// a fresh process picks the session back up
	restored, closeAgain, err := initializeServices(ctx, cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	defer closeAgain()

	state, err := restored.GetGameState(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.MoveNumber)
}

func TestInitializeServices_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1"

	_, _, err := initializeServices(context.Background(), cfg, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestRootHandler(t *testing.T) {
	svc, closeFn, err := initializeServices(context.Background(), testConfig(t), zap.NewNop().Sugar())
	require.NoError(t, err)
	defer closeFn()

	handler := newRootHandler(api.NewServer(svc, nil, nil), mcp.NewClient("http://127.0.0.1:0"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), AppName)
}

func TestAPIReachable(t *testing.T) {
	ts := httptest.NewServer(api.NewServer(nil, nil, nil))
	defer ts.Close()

	assert.True(t, apiReachable(context.Background(), ts.URL))
	assert.False(t, apiReachable(context.Background(), ""))
	assert.False(t, apiReachable(context.Background(), "http://127.0.0.1:1"))
}
