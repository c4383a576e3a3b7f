package main

import (
	"testing"

	"github.com/wricardo/pong-client/game/entity"
)

func TestIntercept(t *testing.T) {
	s := NewTrackingStrategy(800, 10)

	tests := []struct {
		name     string
		ball     entity.Ball
		x        int
		expected int
	}{
		{"straight", entity.Ball{X: 815, Y: 400, Dx: -10}, 15, 400},
		{"diagonal", entity.Ball{X: 115, Y: 100, Dx: -10, Dy: -5}, 15, 50},
		{"bounce off top", entity.Ball{X: 115, Y: 20, Dx: -10, Dy: -5}, 15, 30},
		{"bounce off bottom", entity.Ball{X: 115, Y: 780, Dx: -10, Dy: 5}, 15, 770},
		{"moving away", entity.Ball{X: 115, Y: 100, Dx: 10, Dy: 5}, 15, 400},
		{"stationary", entity.Ball{X: 115, Y: 100}, 15, 400},
		{"right side", entity.Ball{X: 1500, Y: 400, Dx: 10, Dy: 2}, 1585, 417},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Intercept(tt.ball, tt.x); got != tt.expected {
				t.Errorf("Expected intercept %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		y        float64
		expected int
	}{
		{0, 0},
		{400, 400},
		{800, 800},
		{-30, 30},
		{830, 770},
		{1650, 50},
		{-1650, 50},
	}

	for _, tt := range tests {
		if got := fold(tt.y, 800); got != tt.expected {
			t.Errorf("fold(%.0f) = %d, want %d", tt.y, got, tt.expected)
		}
	}
}

func snapshotWithBall(ball *entity.Ball) entity.Snapshot {
	return entity.Snapshot{
		Ball: ball,
		Me: &entity.PlayerView{
			IsLeft: true,
			Paddle: &entity.Paddle{X: 8, Y: 350, Width: 15, Height: 100},
		},
	}
}

func withArena(s entity.Snapshot, height int) entity.Snapshot {
	s.Arena = entity.Arena{Width: 1600, Height: height}
	return s
}

func TestDirection(t *testing.T) {
	s := NewTrackingStrategy(800, 10)

	tests := []struct {
		name     string
		world    entity.Snapshot
		expected string
	}{
		{"ball above", snapshotWithBall(&entity.Ball{X: 115, Y: 100, Dx: -10, Dy: -5}), "up"},
		{"ball below", snapshotWithBall(&entity.Ball{X: 115, Y: 780, Dx: -10, Dy: 5}), "down"},
		{"inside deadzone", snapshotWithBall(&entity.Ball{X: 815, Y: 405, Dx: -10}), ""},
		{"no ball", snapshotWithBall(nil), ""},
		{"not connected", entity.Snapshot{Ball: &entity.Ball{X: 1, Y: 1, Dx: -1}}, ""},
		{"announced arena", withArena(snapshotWithBall(&entity.Ball{X: 115, Y: 380, Dx: -10, Dy: 5}), 400), "up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Direction(tt.world); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
