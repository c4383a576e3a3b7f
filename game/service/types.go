package service

import "github.com/wricardo/pong-client/game/render"

// FrameInfo is the last draw pass of a recording surface
type FrameInfo struct {
	Drawn bool        `json:"drawn"` // a pending pass was flushed by this call
	Ops   []render.Op `json:"ops"`
	Texts []string    `json:"texts"`
}

// InputResult describes the effect of one key transition
type InputResult struct {
	Key        string `json:"key"`
	Action     string `json:"action"`
	Forwarded  bool   `json:"forwarded"` // false when suppressed or before connection
	Dy         int    `json:"dy"`
	InputsSent int    `json:"inputs_sent"`
}
