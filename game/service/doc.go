// Package service provides the business logic layer for gogym.
//
// The service package implements:
//   - Multi-session game management
//   - Move and step processing with events
//   - The learning-environment view of a game (observation, reward, done)
//   - Paginated move history
//   - Preset lookup and storage
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board presets.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Engines are not safe for concurrent use, so the service
// holds its mutex around every engine call. Each session owns its own engine.
//
// Usage:
//
//	sessionMgr := session.NewManager(logger)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	info, err := gameService.CreateSession(ctx, service.CreateSessionRequest{ConfigID: "small"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, 4, 4)
//	step, err := gameService.Step(ctx, info.ID, 40)
//
// Rewards:
//
// A step's reward is the number of opposing stones its move captured. Rejected
// actions earn 0 and leave the game untouched.
package service
