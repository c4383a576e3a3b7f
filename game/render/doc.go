// Package render draws the client world onto an injected surface.
//
// Rendering is on demand: every processed inbound message requests one draw
// pass from the Scheduler, and the host flushes it when its frame callback
// fires. Requests made before a flush coalesce into one pass because the pass
// always reads the freshest world state.
//
// The Renderer never talks to a window or canvas directly. It uses the
// Surface interface (clear, rectangles, circles, centered text), which keeps
// the draw pass testable headlessly with the Recorder surface.
//
// Draw order:
//
//  1. clear
//  2. countdown and "you are here" marker
//  3. match clock and streak, or the win/loss banner when the clock expired
//  4. opponent disconnected banner
//  5. ball
//  6. local paddle and score
//  7. opponent paddle and score
//
// Every step checks its own inputs, so a half-populated world still draws.
package render
