// Package session provides session management for gogym games.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Session ID generation from random UUIDs
//   - Snapshot and restore of a session's game
//   - A Redis-backed session store with expiry
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine instance plus metadata like
// creation time and last access time. RedisPersistence implements
// SessionPersistence by storing one JSON snapshot per session.
//
// Session Identifiers:
//
// Generated ids are the first 8 hex characters of a UUIDv4. Callers may pick
// their own id made of letters, digits, '-' and '_'. Lookups ignore case.
//
// Concurrency:
//
// The manager guards its map with an RWMutex. It does not lock the engines
// it hands out; the game service serialises every engine call.
//
// Usage:
//
//	store, err := session.NewRedisPersistenceFromURL(ctx, "redis://localhost:6379/0", time.Hour)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(store, logger)
//
//	sess, err := manager.Create(ctx, "", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(ctx, sess.ID)
//
// Cleanup:
//
// CleanupExpiredSessions drops idle sessions from memory. Stored snapshots
// expire on their own once the TTL passes without a save or access.
package session
