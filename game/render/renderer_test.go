package render

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/wricardo/pong-client/game/entity"
)

const (
	testWidth  = 1600
	testHeight = 800
)

func intPtr(v int) *int { return &v }

func newTestWorld(myScore, oppScore int) *entity.World {
	w := entity.NewWorld()
	w.CreateMe(uuid.New().String(), myScore, true, &entity.Paddle{X: 8, Y: 350, Width: 15, Height: 100})
	w.CreateOpponent(uuid.New().String(), oppScore, false, &entity.Paddle{X: 1577, Y: 350, Width: 15, Height: 100})
	return w
}

func draw(w *entity.World) *Recorder {
	rec := NewRecorder()
	NewRenderer(rec, testWidth, testHeight).Draw(w)
	return rec
}

func contains(texts []string, want string) bool {
	for _, s := range texts {
		if s == want {
			return true
		}
	}
	return false
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{120, "02:00"},
		{119, "01:59"},
		{59, "00:59"},
		{5, "00:05"},
		{0, "00:00"},
		{-3, "00:00"},
		{3600, "60:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.expected {
			t.Errorf("FormatClock(%d) = %s, want %s", tt.seconds, got, tt.expected)
		}
	}
}

func TestDrawClockStates(t *testing.T) {
	tests := []struct {
		name      string
		seconds   *int
		myScore   int
		oppScore  int
		wantTexts []string
		denyTexts []string
	}{
		{
			name:      "running clock",
			seconds:   intPtr(120),
			wantTexts: []string{"02:00", "streak: 0"},
			denyTexts: []string{"Winner!", "Loser!"},
		},
		{
			name:      "expired and winning",
			seconds:   intPtr(0),
			myScore:   30,
			oppScore:  10,
			wantTexts: []string{"Winner!"},
			denyTexts: []string{"Loser!", "00:00"},
		},
		{
			name:      "expired and losing",
			seconds:   intPtr(0),
			myScore:   10,
			oppScore:  30,
			wantTexts: []string{"Loser!"},
			denyTexts: []string{"Winner!"},
		},
		{
			name:      "expired and tied",
			seconds:   intPtr(0),
			myScore:   20,
			oppScore:  20,
			wantTexts: []string{"Loser!"},
		},
		{
			name:      "absent clock",
			seconds:   nil,
			denyTexts: []string{"Winner!", "Loser!", "00:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(tt.myScore, tt.oppScore)
			w.Match.SetSecondsRemaining(tt.seconds)

			texts := draw(w).Texts()
			for _, want := range tt.wantTexts {
				if !contains(texts, want) {
					t.Errorf("Expected %q in %v", want, texts)
				}
			}
			for _, deny := range tt.denyTexts {
				if contains(texts, deny) {
					t.Errorf("Did not expect %q in %v", deny, texts)
				}
			}
			for _, s := range texts {
				if strings.HasPrefix(s, "streak") && w.Match.Clock() != entity.ClockRunning {
					t.Errorf("Streak should only draw with a running clock, got %q", s)
				}
			}
		})
	}
}

func TestDrawOrder(t *testing.T) {
	w := newTestWorld(3, 4)
	w.Match.StartCountdown = 2
	w.Match.SetSecondsRemaining(intPtr(65))
	w.Match.Streak = 7
	w.Match.OpponentDisconnected = true
	w.EnsureBall(entity.Ball{X: 800, Y: 400, Radius: 10})

	got := draw(w).Ops()

	kinds := make([]string, 0, len(got))
	for _, op := range got {
		if op.Kind == "text" {
			kinds = append(kinds, op.Text)
		} else {
			kinds = append(kinds, op.Kind)
		}
	}

	expected := []string{
		"clear",
		"2", "you are here",
		"01:05", "streak: 7",
		"Opponent Disconnected",
		"circle",
		"3", "rect",
		"4", "rect",
	}
	if strings.Join(kinds, "|") != strings.Join(expected, "|") {
		t.Errorf("Draw order mismatch\n got: %v\nwant: %v", kinds, expected)
	}
}

func TestDrawPositionsBySide(t *testing.T) {
	w := newTestWorld(1, 2)
	w.Match.StartCountdown = 5

	for _, op := range draw(w).Ops() {
		if op.Kind != "text" {
			continue
		}
		switch op.Text {
		case "you are here":
			if op.X != 150 {
				t.Errorf("Left player marker at x=%.0f, want 150", op.X)
			}
		case "1":
			if op.X != 50 {
				t.Errorf("Left score at x=%.0f, want 50", op.X)
			}
		case "2":
			if op.X != testWidth-50 {
				t.Errorf("Right score at x=%.0f, want %d", op.X, testWidth-50)
			}
		}
	}
}

func TestDrawUsesAnnouncedArena(t *testing.T) {
	w := entity.NewWorld()
	w.CreateMe(uuid.New().String(), 4, false, &entity.Paddle{X: 777, Y: 150, Width: 15, Height: 100})
	w.Arena = entity.Arena{Width: 800, Height: 400}
	w.Match.StartCountdown = 2

	found := 0
	for _, op := range draw(w).Ops() {
		switch op.Text {
		case "2":
			found++
			if op.X != 400 || op.Y != 130 {
				t.Errorf("Countdown at %.0f,%.0f, want 400,130", op.X, op.Y)
			}
		case "you are here":
			found++
			if op.X != 650 || op.Y != 200 {
				t.Errorf("Marker at %.0f,%.0f, want 650,200", op.X, op.Y)
			}
		case "4":
			found++
			if op.X != 750 {
				t.Errorf("Score at x=%.0f, want 750", op.X)
			}
		}
	}
	if found != 3 {
		t.Errorf("Expected countdown, marker and score, found %d", found)
	}
}

func TestDrawCountdownZeroHidesOverlay(t *testing.T) {
	w := newTestWorld(0, 0)
	w.Match.StartCountdown = 0

	if contains(draw(w).Texts(), "you are here") {
		t.Error("Countdown 0 should hide the overlay")
	}
}

func TestDrawPartialState(t *testing.T) {
	tests := []struct {
		name  string
		world func() *entity.World
	}{
		{"nil world", func() *entity.World { return nil }},
		{"empty world", entity.NewWorld},
		{"countdown without me", func() *entity.World {
			w := entity.NewWorld()
			w.Match.StartCountdown = 3
			return w
		}},
		{"expired without opponent", func() *entity.World {
			w := entity.NewWorld()
			w.CreateMe(uuid.New().String(), 1, true, nil)
			w.Match.SetSecondsRemaining(intPtr(0))
			return w
		}},
		{"opponent without paddle", func() *entity.World {
			w := entity.NewWorld()
			w.CreateOpponent(uuid.New().String(), 1, false, nil)
			return w
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Draw panicked: %v", r)
				}
			}()
			ops := draw(tt.world()).Ops()
			if len(ops) == 0 || ops[0].Kind != "clear" {
				t.Error("Every pass should start by clearing the surface")
			}
		})
	}
}

func TestDrawBallUsesFixedColor(t *testing.T) {
	w := entity.NewWorld()
	w.EnsureBall(entity.Ball{X: 1, Y: 2, Radius: 10})

	for _, op := range draw(w).Ops() {
		if op.Kind == "circle" {
			if op.Color != entity.BallColor {
				t.Errorf("Ball drawn with %v, want %v", op.Color, entity.BallColor)
			}
			return
		}
	}
	t.Error("Ball was not drawn")
}

func TestRecorderString(t *testing.T) {
	rec := NewRecorder()
	rec.Clear()
	rec.Text("hi", 1, 2, 24, white)
	rec.FillRect(0, 0, 10, 20, white)

	out := rec.String()
	if !strings.Contains(out, `text "hi" 1,2 size=24`) || !strings.Contains(out, "rect 0,0 10x20") {
		t.Errorf("Unexpected recorder output:\n%s", out)
	}

	rec.Clear()
	if len(rec.Ops()) != 1 {
		t.Error("Clear should start a new frame")
	}
}
