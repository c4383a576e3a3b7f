package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/pong-client/game/input"
	"github.com/wricardo/pong-client/game/render"
	"github.com/wricardo/pong-client/game/session"
)

// clientServiceImpl implements ClientService
type clientServiceImpl struct {
	runner Runner
	info   Info
}

// State returns the current world and counters
func (s *clientServiceImpl) State(ctx context.Context) (*StateInfo, error) {
	result := &StateInfo{Info: s.info}
	err := s.runner.Do(ctx, func(sess *session.Session) {
		result.World = sess.Snapshot()
		result.Stats = sess.Stats()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	return result, nil
}

// Frame flushes a pending draw pass and returns the last recorded frame
func (s *clientServiceImpl) Frame(ctx context.Context) (*FrameInfo, error) {
	var (
		result FrameInfo
		ok     bool
	)
	err := s.runner.Do(ctx, func(sess *session.Session) {
		result.Drawn = sess.Render()
		var rec *render.Recorder
		rec, ok = sess.Surface().(*render.Recorder)
		if !ok {
			return
		}
		result.Ops = rec.Ops()
		result.Texts = rec.Texts()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	if !ok {
		return nil, ErrFrameUnavailable
	}
	return &result, nil
}

// Input applies one key transition
func (s *clientServiceImpl) Input(ctx context.Context, key, action string) (*InputResult, error) {
	k := input.ParseKey(key)
	if k == input.KeyNone {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	action = strings.ToLower(strings.TrimSpace(action))
	if action != ActionPress && action != ActionRelease {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	result := &InputResult{Key: k.String(), Action: action}
	err := s.runner.Do(ctx, func(sess *session.Session) {
		before := sess.Stats().InputsSent
		if action == ActionPress {
			sess.KeyPressed(k)
		} else {
			sess.KeyReleased(k)
		}
		after := sess.Stats().InputsSent
		result.Forwarded = after > before
		result.InputsSent = after
		if p := sess.World().PaddleOf(sess.World().Me()); p != nil {
			result.Dy = p.Dy
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply input: %w", err)
	}
	return result, nil
}

// Stats returns the session counters
func (s *clientServiceImpl) Stats(ctx context.Context) (*session.Stats, error) {
	var stats session.Stats
	if err := s.runner.Do(ctx, func(sess *session.Session) { stats = sess.Stats() }); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	return &stats, nil
}

// Health pings the session loop
func (s *clientServiceImpl) Health(ctx context.Context) *HealthInfo {
	info := &HealthInfo{
		Status: "ok",
		Uptime: time.Since(s.info.StartedAt).Round(time.Second).String(),
	}
	if err := s.runner.Do(ctx, func(*session.Session) {}); err != nil {
		info.Status = "stopped"
	}
	return info
}
