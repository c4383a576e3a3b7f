package entity

import (
	"image/color"
)

// ID identifies an entity inside a World. The zero ID means "none".
type ID uint32

// BallColor is the fixed display color of the ball (#a103fc).
var BallColor = color.RGBA{R: 0xa1, G: 0x03, B: 0xfc, A: 0xff}

// Paddle is a player's paddle
type Paddle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Dx     int `json:"dx"`
	Dy     int `json:"dy"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SetVector overwrites position and velocity. Dimensions are left alone.
func (p *Paddle) SetVector(x, y, dx, dy int) {
	p.X = x
	p.Y = y
	p.Dx = dx
	p.Dy = dy
}

// Ball is the single ball of a match
type Ball struct {
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Dx     int        `json:"dx"`
	Dy     int        `json:"dy"`
	Radius int        `json:"radius"`
	Color  color.RGBA `json:"-"`
}

// SetVector overwrites position and velocity.
func (b *Ball) SetVector(x, y, dx, dy int) {
	b.X = x
	b.Y = y
	b.Dx = dx
	b.Dy = dy
}

// Player is either the local player ("me") or the opponent
type Player struct {
	ID     string `json:"id"`
	Score  int    `json:"score"`
	IsLeft bool   `json:"isLeft"`

	// Paddle is the arena ID of the owned paddle, zero until one is known.
	Paddle ID `json:"-"`
}

// Arena is the size of the playing field in server coordinates
type Arena struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Known reports whether both dimensions have been announced.
func (a Arena) Known() bool {
	return a.Width > 0 && a.Height > 0
}

// ClockState classifies MatchState.SecondsRemaining
type ClockState int

const (
	// ClockAbsent means no match timer is active.
	ClockAbsent ClockState = iota
	// ClockExpired means the match has just ended (exactly zero seconds left).
	ClockExpired
	// ClockRunning means the match is in progress.
	ClockRunning
)

func (c ClockState) String() string {
	switch c {
	case ClockExpired:
		return "expired"
	case ClockRunning:
		return "running"
	default:
		return "absent"
	}
}

// MatchState holds match-level values pushed by the server
type MatchState struct {
	// SecondsRemaining is nil when no match is active. Zero and nil are
	// different states and must not be collapsed.
	SecondsRemaining *int `json:"secondsRemaining"`
	Streak           int  `json:"streak"`

	// StartCountdown is shown while non-zero.
	StartCountdown int `json:"startCountdown"`

	// OpponentDisconnected is set once and never reset.
	OpponentDisconnected bool `json:"opponentDisconnected"`
}

// Clock returns the tri-state interpretation of SecondsRemaining.
// Negative values are treated as absent.
func (m *MatchState) Clock() ClockState {
	switch {
	case m.SecondsRemaining == nil:
		return ClockAbsent
	case *m.SecondsRemaining == 0:
		return ClockExpired
	case *m.SecondsRemaining > 0:
		return ClockRunning
	default:
		return ClockAbsent
	}
}

// SetSecondsRemaining copies v (which may be nil) into the match state.
func (m *MatchState) SetSecondsRemaining(v *int) {
	if v == nil {
		m.SecondsRemaining = nil
		return
	}
	secs := *v
	m.SecondsRemaining = &secs
}
