package service_test

import (
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/pong-client/game/service"
	"github.com/wricardo/pong-client/game/session"
)

const connected = `{"type":1,"me":{"id":"7d444840-9dc0-11d1-b245-5ffdce74fad2","score":0,"isLeft":true,"paddle":{"x":8,"y":350,"dx":0,"dy":0,"width":15,"height":100}}}`

// directRunner runs functions inline for tests
type directRunner struct {
	sess *session.Session
	err  error
}

func (r *directRunner) Do(ctx context.Context, fn func(*session.Session)) error {
	if r.err != nil {
		return r.err
	}
	fn(r.sess)
	return nil
}

func newService(t *testing.T) (service.ClientService, *session.Session) {
	t.Helper()
	sess := session.New(session.Options{})
	t.Cleanup(func() { sess.Close() })
	svc := service.NewClientService(&directRunner{sess: sess}, service.Info{Server: "localhost:8080", Code: "abc"})
	return svc, sess
}

func TestState(t *testing.T) {
	svc, sess := newService(t)
	ctx := context.Background()

	state, err := svc.State(ctx)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.World.Me != nil || state.World.Clock != "absent" {
		t.Errorf("Expected empty world, got %+v", state.World)
	}
	if state.Code != "abc" || state.Server != "localhost:8080" {
		t.Errorf("Unexpected info: %+v", state.Info)
	}
	if state.Session == uuid.Nil {
		t.Error("Expected a session id to be assigned")
	}
	id := state.Session

	sess.HandleFrame([]byte(connected))
	sess.HandleFrame([]byte(`{"type":2,"state":{"secondsRemaining":0,"ball":{"x":1,"y":2,"dx":3,"dy":4,"radius":10}}}`))

	state, err = svc.State(ctx)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state.World.Me == nil || state.World.Ball == nil {
		t.Fatalf("Expected populated world, got %+v", state.World)
	}
	if state.World.Clock != "expired" {
		t.Errorf("Expected expired clock, got %s", state.World.Clock)
	}
	if state.Stats.Engine.Frames != 2 {
		t.Errorf("Expected 2 frames, got %d", state.Stats.Engine.Frames)
	}
	if state.Session != id {
		t.Errorf("Expected session id %s to be stable, got %s", id, state.Session)
	}
}

func TestInput(t *testing.T) {
	svc, sess := newService(t)
	ctx := context.Background()
	sess.HandleFrame([]byte(connected))

	tests := []struct {
		key       string
		action    string
		forwarded bool
		dy        int
	}{
		{"up", "press", true, -6},
		{"up", "press", false, -6},
		{"ArrowUp", "release", true, 0},
		{"down", "PRESS", true, 6},
		{"s", "release", true, 0},
	}

	for i, tt := range tests {
		result, err := svc.Input(ctx, tt.key, tt.action)
		if err != nil {
			t.Fatalf("Step %d: Input failed: %v", i, err)
		}
		if result.Forwarded != tt.forwarded {
			t.Errorf("Step %d: Expected forwarded=%v, got %v", i, tt.forwarded, result.Forwarded)
		}
		if result.Dy != tt.dy {
			t.Errorf("Step %d: Expected dy %d, got %d", i, tt.dy, result.Dy)
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.InputsSent != 4 {
		t.Errorf("Expected 4 inputs sent, got %d", stats.InputsSent)
	}
}

func TestInputValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Input(ctx, "left", "press"); !errors.Is(err, service.ErrUnknownKey) {
		t.Errorf("Expected ErrUnknownKey, got %v", err)
	}
	if _, err := svc.Input(ctx, "up", "hold"); !errors.Is(err, service.ErrUnknownAction) {
		t.Errorf("Expected ErrUnknownAction, got %v", err)
	}
}

func TestInputBeforeConnection(t *testing.T) {
	svc, _ := newService(t)

	result, err := svc.Input(context.Background(), "down", "press")
	if err != nil {
		t.Fatalf("Input failed: %v", err)
	}
	if result.Forwarded {
		t.Error("Expected no intent before the connection is acknowledged")
	}
}

func TestFrame(t *testing.T) {
	svc, sess := newService(t)
	ctx := context.Background()

	sess.HandleFrame([]byte(`{"type":4,"counter":3}`))

	frame, err := svc.Frame(ctx)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if !frame.Drawn {
		t.Error("Expected the pending pass to be drawn")
	}
	if len(frame.Texts) != 1 || frame.Texts[0] != "3" {
		t.Errorf("Expected countdown text, got %v", frame.Texts)
	}

	frame, err = svc.Frame(ctx)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if frame.Drawn {
		t.Error("Expected no new pass without new frames")
	}
	if len(frame.Ops) == 0 {
		t.Error("Expected the last frame to be returned")
	}
}

type blankSurface struct{}

func (blankSurface) Clear() {}
func (blankSurface) FillRect(x, y, w, h float64, c color.Color) {}
func (blankSurface) FillCircle(x, y, r float64, c color.Color) {}
func (blankSurface) Text(s string, x, y, size float64, c color.Color) {}

func TestFrameUnavailable(t *testing.T) {
	sess := session.New(session.Options{Surface: &blankSurface{}})
	defer sess.Close()
	svc := service.NewClientService(&directRunner{sess: sess}, service.Info{})

	if _, err := svc.Frame(context.Background()); !errors.Is(err, service.ErrFrameUnavailable) {
		t.Errorf("Expected ErrFrameUnavailable, got %v", err)
	}
}

func TestRunnerErrors(t *testing.T) {
	runner := &directRunner{err: session.ErrLoopStopped}
	svc := service.NewClientService(runner, service.Info{StartedAt: time.Now().Add(-time.Minute)})
	ctx := context.Background()

	if _, err := svc.State(ctx); !errors.Is(err, session.ErrLoopStopped) {
		t.Errorf("Expected wrapped ErrLoopStopped, got %v", err)
	}
	if _, err := svc.Stats(ctx); err == nil {
		t.Error("Expected Stats error")
	}

	health := svc.Health(ctx)
	if health.Status != "stopped" {
		t.Errorf("Expected stopped status, got %s", health.Status)
	}
	if health.Uptime != "1m0s" {
		t.Errorf("Expected uptime 1m0s, got %s", health.Uptime)
	}
}

func TestWithLoop(t *testing.T) {
	sess := session.New(session.Options{})
	defer sess.Close()

	frames := make(chan []byte, 1)
	loop := session.NewLoop(sess, frames)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	svc := service.NewClientService(loop, service.Info{})
	frames <- []byte(connected)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		state, err := svc.State(ctx)
		if err != nil {
			t.Fatalf("State failed: %v", err)
		}
		if state.World.Me != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if health := svc.Health(ctx); health.Status != "ok" {
		t.Errorf("Expected ok status, got %s", health.Status)
	}
}
