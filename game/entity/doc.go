// Package entity provides the client-side entity model for the paddle ball game.
//
// The entity package implements:
//   - Plain mutable records for paddles, the ball, players and match state
//   - The World arena that owns every entity of a session
//   - Lazy creation with stable identity (entities are never replaced)
//   - The tri-state match clock (absent, expired, running)
//
// Identity:
//
// Every entity lives in the World keyed by an ID. Once created, the pointer
// returned for an ID never changes, so a renderer holding a *Ball observes
// every later update without re-fetching it. Nothing is ever removed; a
// session ends by leaving it, not by clearing the world.
//
// Usage:
//
//	w := entity.NewWorld()
//	me := w.CreateMe(id, 0, true, entity.Paddle{X: 8, Y: 350, Width: 15, Height: 100})
//	paddle := w.PaddleOf(me)
//	paddle.SetVector(8, 360, 0, 6)
//
// Concurrency:
//
// A World is not safe for concurrent use. The session loop owns it and runs
// every handler to completion before the next one starts.
package entity
