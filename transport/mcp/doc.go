// Package mcp exposes gogym to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request to the REST API,
// and the JSON answer is rendered as text an agent can read. Boards are drawn
// with '.', 'X' (black) and 'O' (white), framed by row and column indexes.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, legal_moves, describe_point
//   - play_move (row/col), step and bulk_step (flat action indexes)
//   - reset_game, end_game, move_history
//   - list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// stdio
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP
//	http.Handle("/mcp", server.NewStreamableHTTPServer(client.GetMCPServer()))
package mcp
