package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/gogym/api"
	"github.com/wricardo/gogym/game/config"
	"github.com/wricardo/gogym/game/service"
	"github.com/wricardo/gogym/game/session"
)

type toolHandler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// newTestClient points a client at a real API backed by the repository presets.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	configs, err := config.NewManager("../../configs")
	require.NoError(t, err)
	svc := service.NewGameService(session.NewManager(nil), configs, nil)

	ts := httptest.NewServer(api.NewServer(svc, nil, nil))
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func call(t *testing.T, h toolHandler, args map[string]interface{}) (string, bool) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args

	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text, res.IsError
}

func createSession(t *testing.T, c *Client, args map[string]interface{}) string {
	t.Helper()
	var info service.SessionInfo
	require.NoError(t, c.apiCall(context.Background(), "POST", "/api/sessions", args, &info))
	return info.ID
}

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:8080/")
	assert.Equal(t, "http://localhost:8080", c.baseURL)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.GetMCPServer())
}

func TestToolsList(t *testing.T) {
	c := NewClient("http://localhost:0")
	ctx := context.Background()

	c.GetMCPServer().HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`))
	resp := c.GetMCPServer().HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var body struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &body))

	names := make([]string, 0, len(body.Result.Tools))
	for _, tool := range body.Result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"bulk_step", "create_session", "describe_point", "end_game", "game_instructions",
		"game_state", "get_session", "legal_moves", "list_configs", "list_sessions",
		"move_history", "play_move", "reset_game", "step",
	}, names)
}

func TestApiCall_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"session not found"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	err := c.apiCall(context.Background(), "GET", "/json", nil, nil)
	assert.EqualError(t, err, "session not found")

	err = c.apiCall(context.Background(), "GET", "/plain", nil, nil)
	assert.EqualError(t, err, "API error: 500")

	unreachable := NewClient("http://127.0.0.1:1")
	assert.Error(t, unreachable.apiCall(context.Background(), "GET", "/", nil, nil))
}

func TestToInt(t *testing.T) {
	n, ok := toInt(float64(7))
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = toInt(7.5)
	assert.False(t, ok)

	_, ok = toInt("7")
	assert.False(t, ok)

	n, ok = toInt(json.Number("12"))
	assert.True(t, ok)
	assert.Equal(t, 12, n)
}

func TestCreateAndInspect(t *testing.T) {
	c := newTestClient(t)

	text, isErr := call(t, c.handleCreateSession, map[string]interface{}{"config_id": "tiny"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Created session:")
	assert.Contains(t, text, "Board: 5x5")
	assert.Contains(t, text, "To move: Black (X)")

	text, isErr = call(t, c.handleCreateSession, map[string]interface{}{"board_size": float64(3)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Board: 3x3")

	text, isErr = call(t, c.handleCreateSession, map[string]interface{}{"config_id": "huge"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	text, isErr = call(t, c.handleListSessions, nil)
	require.False(t, isErr)
	assert.Contains(t, text, "Active Sessions (2)")

	text, isErr = call(t, c.handleGetSession, map[string]interface{}{"session_id": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "session not found")

	text, isErr = call(t, c.handleListConfigs, nil)
	require.False(t, isErr)
	assert.Contains(t, text, "config_id: tiny")
	assert.Contains(t, text, "Board: 19x19")
}

func TestPlayAndCapture(t *testing.T) {
	c := newTestClient(t)
	id := createSession(t, c, map[string]interface{}{"board_size": 5})

	moves := [][2]float64{{0, 1}, {0, 0}, {1, 0}}
	var text string
	for _, m := range moves {
		var isErr bool
		text, isErr = call(t, c.handlePlayMove, map[string]interface{}{
			"session_id": id, "row": m[0], "col": m[1], "intent": "surround the corner",
		})
		require.False(t, isErr, text)
		require.Contains(t, text, "✓")
	}
	assert.Contains(t, text, "Captured: (0,0)")
	assert.Contains(t, text, "Captures: X=1 O=0")

	text, isErr := call(t, c.handlePlayMove, map[string]interface{}{"session_id": id, "row": float64(0), "col": float64(1)})
	require.False(t, isErr)
	assert.Contains(t, text, "✗ Move rejected: occupied")

	text, isErr = call(t, c.handlePlayMove, map[string]interface{}{"session_id": id, "row": "zero", "col": float64(1)})
	assert.True(t, isErr)
	assert.Contains(t, text, "integers")

	text, isErr = call(t, c.handleStep, map[string]interface{}{"session_id": id, "action": float64(0)})
	require.False(t, isErr)
	assert.Contains(t, text, "rejected: suicide")
	assert.Contains(t, text, "Reward: 0")

	text, isErr = call(t, c.handleDescribePoint, map[string]interface{}{"session_id": id, "row": float64(0), "col": float64(1)})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Group: 1 black stone(s) (0,1)")
	assert.Contains(t, text, "Liberties: 3 (0,0) (0,2) (1,1)")

	text, isErr = call(t, c.handleDescribePoint, map[string]interface{}{"session_id": id, "row": float64(9), "col": float64(0)})
	assert.True(t, isErr)
	assert.Contains(t, text, "off the board")

	text, isErr = call(t, c.handleLegalMoves, map[string]interface{}{"session_id": id})
	require.False(t, isErr)
	assert.Contains(t, text, "22 legal actions for White (O)")
	assert.Contains(t, text, "24(4,4)")

	text, isErr = call(t, c.handleMoveHistory, map[string]interface{}{"session_id": id, "order": "asc"})
	require.False(t, isErr)
	assert.Contains(t, text, "Total: 3 moves")
	assert.Contains(t, text, "#3 X (1,0) captured 1")
}

func TestBulkStepAndLifecycle(t *testing.T) {
	c := newTestClient(t)
	id := createSession(t, c, map[string]interface{}{"board_size": 3})

	text, isErr := call(t, c.handleBulkStep, map[string]interface{}{
		"session_id": id, "actions": []interface{}{float64(4), float64(0), float64(4)},
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Executed 2/3 actions")
	assert.Contains(t, text, "1. X action 4 (1,1) ✓")
	assert.Contains(t, text, "3. X action 4 (1,1) occupied ✗")

	text, isErr = call(t, c.handleBulkStep, map[string]interface{}{"session_id": id, "actions": []interface{}{}})
	assert.True(t, isErr)
	assert.Contains(t, text, "non-empty")

	text, isErr = call(t, c.handleEnd, map[string]interface{}{"session_id": id})
	require.False(t, isErr)
	assert.Contains(t, text, "GAME OVER")

	text, _ = call(t, c.handleStep, map[string]interface{}{"session_id": id, "action": float64(8)})
	assert.Contains(t, text, "game_not_in_progress")
	assert.Contains(t, text, "Done: true")

	text, isErr = call(t, c.handleReset, map[string]interface{}{"session_id": id})
	require.False(t, isErr)
	assert.Contains(t, text, "Moves: 0")
	assert.NotContains(t, text, "GAME OVER")
}

func TestGameInstructions(t *testing.T) {
	c := NewClient("http://localhost:0")
	text, isErr := call(t, c.handleGameInstructions, nil)
	assert.False(t, isErr)
	assert.Contains(t, text, "suicide")
	assert.Contains(t, text, "row*N + col")
}
