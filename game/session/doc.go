// Package session wires one client session together.
//
// A Session owns the explicit World and every component that touches it:
//
//   - the Engine that applies inbound frames to the world
//   - the input Tracker that forwards paddle intents
//   - the render Scheduler and Renderer that draw on demand
//   - the one-shot navigation task started by an opponent disconnect
//   - an optional Journal recording every inbound frame
//
// Session methods are not safe for concurrent use. Callers either drive a
// Session from a single goroutine (the desktop game loop does this) or run a
// Loop, which serializes frames, key events and queries through one
// goroutine in the same way the websocket hub serializes its clients.
//
// Usage:
//
//	sess := session.New(session.Options{
//		Sender:    conn,
//		Surface:   surface,
//		Navigator: session.NavigatorFunc(func() { ... }),
//	})
//	defer sess.Close()
//
//	loop := session.NewLoop(sess, conn.Frames())
//	go loop.Run(ctx)
//
//	loop.Press(input.KeyUp)
//	_ = loop.Do(ctx, func(s *session.Session) { snap = s.Snapshot() })
//
// Journals:
//
// FileJournal appends one JSON line per inbound frame to
// <dir>/<code>-<unix>.jsonl. ReadJournal loads a journal back so a match can
// be replayed through a fresh Session or analyzed offline.
package session
