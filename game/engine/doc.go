// Package engine applies server messages to the client world.
//
// The engine package implements:
//   - Frame dispatch: decode, route to exactly one handler, request one draw
//   - Snapshot reconciliation: the server is the only authority, every
//     snapshot overwrites position and velocity in place
//   - Lazy entity creation on first reference
//   - One-shot side effects (bounce cue, opponent-left notification)
//
// Missing payloads:
//
// An absent sub-object in a snapshot (ball, me, opponent or a paddle) means
// "no update" for that entity. If the entity does not exist yet it is
// created by the first snapshot that does carry it. This policy applies to
// both players alike.
//
// Usage:
//
//	world := entity.NewWorld()
//	var scheduler render.Scheduler
//	eng := engine.NewEngine(world, &scheduler, cues, engine.Hooks{
//		OnOpponentLeft: func() { navigation.Schedule() },
//	})
//
//	for frame := range conn.Frames() {
//		eng.Dispatch(frame)
//	}
package engine
