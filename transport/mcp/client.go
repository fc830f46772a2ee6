package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/gogym/game/engine"
	"github.com/wricardo/gogym/game/service"
)

const (
	ServerName    = "gogym"
	ServerVersion = "1.0.0"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`gogym - Go (weiqi) on a square board

This is a thin client that proxies all requests to the REST API server.

Black (X) moves first, then players alternate. Place a stone on an empty
point (.) to play. Groups without liberties are captured. A move that would
leave your own group without liberties is suicide and is rejected, unless it
captures first.

AVAILABLE TOOLS:
- create_session: Start a new game (optional config_id or board_size)
- list_sessions / get_session: Inspect sessions
- game_state: Board, player to move and captures
- play_move: Play at row/col for the player to move - requires intent explanation
- step: Play a flat action (row*size + col)
- bulk_step: Play several actions, stopping at the first rejected one
- legal_moves: Every legal action for the player to move
- describe_point: Stone, group and liberties at one point
- reset_game / end_game: Restart or finish
- move_history: Past moves
- list_configs: Available board presets
- game_instructions: Full rules

NOTE: The 'intent' parameter on play_move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionSchema(extra map[string]interface{}, required ...string) mcp.ToolInputSchema {
	props := map[string]interface{}{
		"session_id": map[string]interface{}{
			"type":        "string",
			"description": "Session ID",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   append([]string{"session_id"}, required...),
	}
}

func intProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session. Pick a preset with config_id or a board size with board_size.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use, see list_configs (optional)",
				},
				"board_size": intProp("Board size from 1 to 25, overrides the preset size (optional)"),
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionSchema(nil),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, the player to move and capture counts",
		InputSchema: sessionSchema(nil),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "play_move",
		Description: "Place a stone for the player to move. Rejected moves leave the game unchanged and report a reason.",
		InputSchema: sessionSchema(map[string]interface{}{
			"row": intProp("Row, 0-based from the top"),
			"col": intProp("Column, 0-based from the left"),
			"intent": map[string]interface{}{
				"type":        "string",
				"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
			},
		}, "row", "col"),
	}, c.handlePlayMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Play a flat action index (row*size + col) and get observation, reward and done",
		InputSchema: sessionSchema(map[string]interface{}{
			"action": intProp("Action index"),
		}, "action"),
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_step",
		Description: "Play several action indexes in order, stopping at the first rejected one",
		InputSchema: sessionSchema(map[string]interface{}{
			"actions": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "integer"},
				"description": "Action indexes",
			},
		}, "actions"),
	}, c.handleBulkStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "legal_moves",
		Description: "List every legal action for the player to move",
		InputSchema: sessionSchema(nil),
	}, c.handleLegalMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_point",
		Description: "Describe one board point: its stone, the group it belongs to and that group's liberties",
		InputSchema: sessionSchema(map[string]interface{}{
			"row": intProp("Row, 0-based"),
			"col": intProp("Column, 0-based"),
		}, "row", "col"),
	}, c.handleDescribePoint)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Clear the board and start a new game in the same session",
		InputSchema: sessionSchema(nil),
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_game",
		Description: "End the game. Later moves are rejected until reset.",
		InputSchema: sessionSchema(nil),
	}, c.handleEnd)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: sessionSchema(map[string]interface{}{
			"page":  intProp("Page number"),
			"limit": intProp("Items per page"),
			"order": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"asc", "desc"},
				"description": "Oldest first (asc) or newest first (desc)",
			},
		}),
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func sessionPath(id, suffix string) string {
	return "/api/sessions/" + url.PathEscape(id) + suffix
}

func argInt(args map[string]interface{}, key string) (int, bool) {
	return toInt(args[key])
}

// toInt accepts whole numbers only. JSON numbers arrive as float64.
func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), v == float64(int(v))
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func argString(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{}
	if id := argString(args, "config_id"); id != "" {
		body["config_id"] = id
	}
	if size, ok := argInt(args, "board_size"); ok {
		body["board_size"] = size
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		size, moves, status := 0, 0, engine.Status("")
		if s.GameState != nil {
			size, moves, status = s.GameState.BoardSize, s.GameState.MoveNumber, s.GameState.Status
		}
		fmt.Fprintf(&b, "- %s (Config: %s, %dx%d, Moves: %d, %s, Created: %s)\n",
			s.ID, s.ConfigName, size, size, moves, status, s.CreatedAt.Format("15:04:05"))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := argString(request.GetArguments(), "session_id")

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := argString(request.GetArguments(), "session_id")

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handlePlayMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := argString(args, "session_id")
	row, okRow := argInt(args, "row")
	col, okCol := argInt(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col must be integers"), nil
	}

	// intent is for the caller's benefit only
	_ = argString(args, "intent")

	var result service.MoveResult
	body := map[string]int{"row": row, "col": col}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := argString(args, "session_id")
	action, ok := argInt(args, "action")
	if !ok {
		return mcp.NewToolResultError("action must be an integer"), nil
	}

	var result service.StepResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/step"), map[string]int{"action": action}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatStepResult(&result)), nil
}

func (c *Client) handleBulkStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := argString(args, "session_id")
	raw, _ := args["actions"].([]interface{})

	actions := make([]int, 0, len(raw))
	for i := range raw {
		n, ok := toInt(raw[i])
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("actions[%d] is not an integer", i)), nil
		}
		actions = append(actions, n)
	}
	if len(actions) == 0 {
		return mcp.NewToolResultError("actions must be a non-empty array of integers"), nil
	}

	var result service.BulkStepResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/bulk-step"), map[string][]int{"actions": actions}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBulkStepResult(sessionID, &result)), nil
}

func (c *Client) handleLegalMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := argString(request.GetArguments(), "session_id")

	var result service.LegalActionsResult
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/legal"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLegalActions(&result)), nil
}

func (c *Client) handleDescribePoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := argString(args, "session_id")
	row, okRow := argInt(args, "row")
	col, okCol := argInt(args, "col")
	if !okRow || !okCol {
		return mcp.NewToolResultError("row and col must be integers"), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	board, err := engine.BoardFromState(&state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	at := engine.Coordinate{Row: row, Col: col}
	if !board.InBounds(at) {
		return mcp.NewToolResultError(fmt.Sprintf("Point %s is off the board. Board size is %dx%d (0-%d for both row and col)",
			at, board.Size(), board.Size(), board.Size()-1)), nil
	}
	return mcp.NewToolResultText(describePoint(board, at)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.lifecycle(ctx, request, "/reset")
}

func (c *Client) handleEnd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.lifecycle(ctx, request, "/end")
}

func (c *Client) lifecycle(ctx context.Context, request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	sessionID := argString(request.GetArguments(), "session_id")

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, suffix), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := argString(args, "session_id")

	query := url.Values{}
	if page, ok := argInt(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := argInt(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order := argString(args, "order"); order != "" {
		query.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Configs []service.ConfigInfo `json:"configs"`
	}
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range response.Configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Board: %dx%d\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.BoardSize, cfg.BoardSize)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `gogym - Complete Instructions

THE BOARD:
• A square grid of N x N points, N from 1 to 25
• Rows and columns are 0-based; (0,0) is the top-left point
• Action index = row*N + col, so a 9x9 board has actions 0..80
• '.' is empty, 'X' is a black stone, 'O' is a white stone

TURNS:
• Black moves first, then players alternate
• A rejected move does not pass the turn; the same player tries again
• There is no pass move. The game runs until it is ended with end_game.

GROUPS AND LIBERTIES:
• A group is a set of same-coloured stones joined through up/down/left/right
• A liberty is an empty point next to any stone of the group
• Diagonals never connect stones and are never liberties

CAPTURES:
• After a stone is placed, every opposing group left without liberties is removed
• Removed stones are counted as captures for the player who moved

ILLEGAL MOVES:
• out_of_bounds: the point is off the board
• occupied: the point already holds a stone
• suicide: the new stone's group would have no liberties and nothing is captured
• game_not_in_progress: the game has ended

A move that fills its own last liberty is legal when it captures: captures are
resolved first, and the freed points become liberties.

REWARDS (step and bulk_step):
• reward = number of stones the move captured; rejected actions earn 0
• done becomes true once the game has ended`
