// Package api exposes the game service over HTTP.
//
// Routes:
//
//	POST   /api/sessions                 create a session {config_id, board_size, session_id}
//	GET    /api/sessions                 list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//	GET    /api/sessions/{id}            session info with its game state
//	DELETE /api/sessions/{id}            delete a session
//	GET    /api/sessions/{id}/state      game state
//	POST   /api/sessions/{id}/move       play {row, col} for the player to move
//	POST   /api/sessions/{id}/step       play {action}, action = row*size + col
//	POST   /api/sessions/{id}/bulk-step  play {actions} until one is rejected
//	POST   /api/sessions/{id}/reset      start over
//	POST   /api/sessions/{id}/end        end the game
//	GET    /api/sessions/{id}/legal      legal actions for the player to move
//	GET    /api/sessions/{id}/history    paginated move history (?page&limit&order)
//	GET    /api/configs                  list presets
//	POST   /api/configs                  save a preset
//	GET    /api/configs/{name}           load a preset
//	GET    /ws?session={id}              live updates for a session
//	GET    /healthz                      liveness
//
// A rejected move is a normal outcome and answers 200 with accepted=false
// and a reason (out_of_bounds, occupied, suicide, game_not_in_progress).
// Errors answer {"error": "..."}: 404 for unknown sessions and presets, 409
// for a duplicate session id, 400 for bad input.
package api
