// Package desktop runs a session in an ebiten window.
//
// The window drives the session from ebiten's single game goroutine: Update
// drains inbound frames and keyboard transitions into the session, and Draw
// flushes the pending render pass onto an offscreen canvas that is copied to
// the screen every tick. Ball collisions play a short generated tone, or a
// wav file when one is configured.
//
// Usage:
//
//	conn, err := websocket.Dial(ctx, target, websocket.Options{})
//	if err != nil {
//		return err
//	}
//	return desktop.Run(ctx, conn, desktop.Options{Title: "pong", Sound: true})
package desktop
