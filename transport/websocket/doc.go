// Package websocket pushes live game updates to spectators.
//
// A central Hub owns every connection. Clients join one session with the
// session query parameter (/ws?session=abc1) and receive a JSON Message
// after each change to that session:
//
//	{"session_id": "abc1", "event": "state_update", "game_state": {...}}
//
// Clients only listen. Anything they send is read and discarded so that
// pings, pongs and close frames keep flowing.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	hub.ServeWS(w, r, sessionID)
//	hub.BroadcastToSession(sessionID, engine.GetState())
//
// Broadcasts never block the caller. When the hub is backed up an update is
// dropped, and a client whose buffer is full is disconnected.
package websocket
