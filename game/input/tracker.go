// Package input turns keyboard transitions into paddle intent messages.
//
// The server integrates paddle position from velocity, so the client only
// reports changes of intent. A held key generates a storm of key-down
// repeats; only the first one after a release is forwarded. Releases are
// always forwarded.
package input

import (
	"github.com/inconshreveable/log15/v3"
	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/protocol"
)

// DefaultSpeed is the paddle speed sent while a direction key is held.
const DefaultSpeed = 6

// Key is a direction control
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "none"
	}
}

// ParseKey maps a key name to a Key. Unknown names return KeyNone.
func ParseKey(name string) Key {
	switch name {
	case "up", "ArrowUp", "w", "W":
		return KeyUp
	case "down", "ArrowDown", "s", "S":
		return KeyDown
	default:
		return KeyNone
	}
}

type event int

const (
	eventNone event = iota
	eventKeyDown
	eventKeyUp
)

// Sender transmits outbound messages
type Sender interface {
	Send(msg any) error
}

// Tracker forwards edge-triggered paddle intents
type Tracker struct {
	world  *entity.World
	sender Sender
	speed  int
	last   event
	sent   int
	log    log15.Logger
}

// NewTracker creates a tracker for the local paddle of world.
func NewTracker(world *entity.World, sender Sender, speed int) *Tracker {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Tracker{
		world:  world,
		sender: sender,
		speed:  speed,
		log:    log15.New("pkg", "input"),
	}
}

// KeyPressed handles a key-down transition, including key repeats.
func (t *Tracker) KeyPressed(k Key) {
	paddle := t.localPaddle()
	if paddle == nil || k == KeyNone {
		return
	}

	switch k {
	case KeyDown:
		paddle.Dy = t.speed
	case KeyUp:
		paddle.Dy = -t.speed
	}

	if t.last == eventKeyDown {
		return
	}
	t.send(paddle)
	t.last = eventKeyDown
}

// KeyReleased handles a key-up transition. The stop intent is always sent.
func (t *Tracker) KeyReleased(k Key) {
	paddle := t.localPaddle()
	if paddle == nil || k == KeyNone {
		return
	}

	paddle.Dy = 0
	t.send(paddle)
	t.last = eventKeyUp
}

// Sent returns the number of intents handed to the sender.
func (t *Tracker) Sent() int {
	return t.sent
}

func (t *Tracker) localPaddle() *entity.Paddle {
	return t.world.PaddleOf(t.world.Me())
}

func (t *Tracker) send(p *entity.Paddle) {
	msg := protocol.NewPlayerInput(protocol.Paddle{
		X:      p.X,
		Y:      p.Y,
		Dx:     p.Dx,
		Dy:     p.Dy,
		Width:  p.Width,
		Height: p.Height,
	})
	t.sent++
	if err := t.sender.Send(msg); err != nil {
		t.log.Warn("failed to send paddle input", "dy", p.Dy, "err", err)
	}
}
