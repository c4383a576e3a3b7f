package input

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/protocol"
)

type recordingSender struct {
	sent []protocol.PlayerInput
	err  error
}

func (r *recordingSender) Send(msg any) error {
	r.sent = append(r.sent, msg.(protocol.PlayerInput))
	return r.err
}

func (r *recordingSender) dys() []int {
	out := make([]int, 0, len(r.sent))
	for _, m := range r.sent {
		out = append(out, m.Paddle.Dy)
	}
	return out
}

func newConnectedWorld() *entity.World {
	w := entity.NewWorld()
	w.CreateMe(uuid.New().String(), 0, true, &entity.Paddle{X: 8, Y: 350, Width: 15, Height: 100})
	return w
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKeyRepeatSendsOnce(t *testing.T) {
	sender := &recordingSender{}
	tracker := NewTracker(newConnectedWorld(), sender, DefaultSpeed)

	for i := 0; i < 10; i++ {
		tracker.KeyPressed(KeyDown)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("Expected 1 message for repeated key-downs, got %d", len(sender.sent))
	}
	if sender.sent[0].Paddle.Dy != DefaultSpeed {
		t.Errorf("Expected dy %d, got %d", DefaultSpeed, sender.sent[0].Paddle.Dy)
	}
	if sender.sent[0].Type != protocol.MessageTypePlayerInput {
		t.Errorf("Expected type %d, got %d", protocol.MessageTypePlayerInput, sender.sent[0].Type)
	}
}

func TestPressThenReleaseSendsTwo(t *testing.T) {
	sender := &recordingSender{}
	tracker := NewTracker(newConnectedWorld(), sender, DefaultSpeed)

	tracker.KeyPressed(KeyUp)
	tracker.KeyReleased(KeyUp)

	if got := sender.dys(); !equalInts(got, []int{-DefaultSpeed, 0}) {
		t.Errorf("Expected dys [-6 0], got %v", got)
	}
}

func TestReleaseIsNeverSuppressed(t *testing.T) {
	sender := &recordingSender{}
	tracker := NewTracker(newConnectedWorld(), sender, DefaultSpeed)

	tracker.KeyReleased(KeyDown)
	tracker.KeyReleased(KeyDown)
	tracker.KeyReleased(KeyUp)

	if len(sender.sent) != 3 {
		t.Errorf("Expected every release to be sent, got %d", len(sender.sent))
	}
}

func TestSequences(t *testing.T) {
	type step struct {
		press bool
		key   Key
	}
	tests := []struct {
		name     string
		steps    []step
		expected []int
	}{
		{
			name:     "down hold release up hold release",
			steps:    []step{{true, KeyDown}, {true, KeyDown}, {false, KeyDown}, {true, KeyUp}, {true, KeyUp}, {false, KeyUp}},
			expected: []int{6, 0, -6, 0},
		},
		{
			name:     "direction switch without release is suppressed",
			steps:    []step{{true, KeyDown}, {true, KeyUp}, {false, KeyUp}},
			expected: []int{6, 0},
		},
		{
			name:     "unknown key ignored",
			steps:    []step{{true, KeyNone}, {false, KeyNone}},
			expected: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &recordingSender{}
			tracker := NewTracker(newConnectedWorld(), sender, 0)
			for _, s := range tt.steps {
				if s.press {
					tracker.KeyPressed(s.key)
				} else {
					tracker.KeyReleased(s.key)
				}
			}
			if got := sender.dys(); !equalInts(got, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
			if tracker.Sent() != len(tt.expected) {
				t.Errorf("Sent() = %d, want %d", tracker.Sent(), len(tt.expected))
			}
		})
	}
}

func TestNoPaddleNoAction(t *testing.T) {
	sender := &recordingSender{}
	tracker := NewTracker(entity.NewWorld(), sender, DefaultSpeed)

	tracker.KeyPressed(KeyDown)
	tracker.KeyReleased(KeyDown)

	if len(sender.sent) != 0 {
		t.Errorf("Expected nothing sent before connection, got %d", len(sender.sent))
	}
}

func TestPressUpdatesLocalPaddle(t *testing.T) {
	w := newConnectedWorld()
	sender := &recordingSender{}
	tracker := NewTracker(w, sender, DefaultSpeed)

	tracker.KeyPressed(KeyUp)
	if dy := w.PaddleOf(w.Me()).Dy; dy != -DefaultSpeed {
		t.Errorf("Expected local paddle dy -6, got %d", dy)
	}

	sent := sender.sent[0].Paddle
	if sent.X != 8 || sent.Y != 350 || sent.Width != 15 || sent.Height != 100 {
		t.Errorf("Outbound paddle should carry all fields, got %+v", sent)
	}

	tracker.KeyReleased(KeyUp)
	if dy := w.PaddleOf(w.Me()).Dy; dy != 0 {
		t.Errorf("Expected local paddle dy 0 after release, got %d", dy)
	}
}

func TestSendErrorDoesNotBreakPolicy(t *testing.T) {
	sender := &recordingSender{err: errors.New("closed")}
	tracker := NewTracker(newConnectedWorld(), sender, DefaultSpeed)

	tracker.KeyPressed(KeyDown)
	tracker.KeyPressed(KeyDown)

	if len(sender.sent) != 1 {
		t.Errorf("Expected suppression to hold even when sending fails, got %d", len(sender.sent))
	}
}

func TestParseKey(t *testing.T) {
	tests := map[string]Key{
		"up":        KeyUp,
		"ArrowUp":   KeyUp,
		"down":      KeyDown,
		"ArrowDown": KeyDown,
		"left":      KeyNone,
		"":          KeyNone,
	}
	for name, expected := range tests {
		if got := ParseKey(name); got != expected {
			t.Errorf("ParseKey(%q) = %s, want %s", name, got, expected)
		}
	}
}
