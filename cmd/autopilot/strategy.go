package main

import (
	"math"

	"github.com/wricardo/pong-client/game/entity"
)

// TrackingStrategy keeps the paddle centered on where the ball will cross it
type TrackingStrategy struct {
	height   int
	deadzone int
}

func NewTrackingStrategy(height, deadzone int) *TrackingStrategy {
	if deadzone < 0 {
		deadzone = 0
	}
	return &TrackingStrategy{height: height, deadzone: deadzone}
}

// Direction returns "up", "down", or "" to hold still. The arena height the
// server announced wins over the configured one.
func (s *TrackingStrategy) Direction(world entity.Snapshot) string {
	if world.Me == nil || world.Me.Paddle == nil || world.Ball == nil {
		return ""
	}

	height := s.height
	if world.Arena.Known() {
		height = world.Arena.Height
	}

	p := world.Me.Paddle
	target := intercept(*world.Ball, p.X+p.Width/2, height)
	center := p.Y + p.Height/2

	switch {
	case target < center-s.deadzone:
		return "up"
	case target > center+s.deadzone:
		return "down"
	default:
		return ""
	}
}

// Intercept predicts the ball's y when it reaches x, bouncing off the top and
// bottom walls. A ball that is not heading towards x yields the arena's
// vertical center.
func (s *TrackingStrategy) Intercept(b entity.Ball, x int) int {
	return intercept(b, x, s.height)
}

func intercept(b entity.Ball, x, height int) int {
	if b.Dx == 0 || (x-b.X)*b.Dx < 0 {
		return height / 2
	}
	ticks := float64(x-b.X) / float64(b.Dx)
	return fold(float64(b.Y)+ticks*float64(b.Dy), height)
}

// fold maps an unbounded y onto [0, height] as repeated wall reflections.
func fold(y float64, height int) int {
	if height <= 0 {
		return int(math.Round(y))
	}
	h := float64(height)
	m := math.Mod(y, 2*h)
	if m < 0 {
		m += 2 * h
	}
	if m > h {
		m = 2*h - m
	}
	return int(math.Round(m))
}
