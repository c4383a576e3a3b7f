package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/input"
)

func TestLoopProcessesFramesAndQueries(t *testing.T) {
	sender := &recordingSender{}
	sess := New(Options{Sender: sender})
	defer sess.Close()

	frames := make(chan []byte, 4)
	loop := NewLoop(sess, frames)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	frames <- []byte(connected)
	frames <- []byte(stateFrame(90))

	var snap entity.Snapshot
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if err := loop.Do(ctx, func(s *Session) { snap = s.Snapshot() }); err != nil {
			t.Fatalf("Do failed: %v", err)
		}
		if snap.Ball != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if snap.Me == nil || snap.Ball == nil || snap.Clock != "running" {
		t.Fatalf("Unexpected snapshot: %+v", snap)
	}

	if err := loop.Press(input.KeyUp); err != nil {
		t.Fatalf("Press failed: %v", err)
	}
	if err := loop.Release(input.KeyUp); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	var stats Stats
	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		loop.Do(ctx, func(s *Session) { stats = s.Stats() })
		if stats.InputsSent == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if stats.InputsSent != 2 {
		t.Errorf("Expected 2 inputs, got %d", stats.InputsSent)
	}
	if stats.Drawn == 0 {
		t.Error("Expected the loop to flush draw passes")
	}

	close(frames)
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error when frames close, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Loop did not stop after frame source closed")
	}

	if err := loop.Do(context.Background(), func(*Session) {}); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Expected ErrLoopStopped, got %v", err)
	}
	if err := loop.Press(input.KeyDown); !errors.Is(err, ErrLoopStopped) {
		t.Errorf("Expected ErrLoopStopped from Press, got %v", err)
	}
}

func TestLoopStopsOnContext(t *testing.T) {
	sess := New(Options{})
	defer sess.Close()

	loop := NewLoop(sess, make(chan []byte))
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Loop did not stop on cancel")
	}

	<-loop.Done()
}
