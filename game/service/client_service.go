package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/session"
)

var (
	ErrUnknownKey       = errors.New("unknown key")
	ErrUnknownAction    = errors.New("unknown action")
	ErrFrameUnavailable = errors.New("session does not record frames")
)

const (
	ActionPress   = "press"
	ActionRelease = "release"
)

// ClientService defines the operations available to control surfaces
type ClientService interface {
	State(ctx context.Context) (*StateInfo, error)
	Frame(ctx context.Context) (*FrameInfo, error)
	Input(ctx context.Context, key, action string) (*InputResult, error)
	Stats(ctx context.Context) (*session.Stats, error)
	Health(ctx context.Context) *HealthInfo
}

// Runner runs functions against a session on its owning goroutine
type Runner interface {
	Do(ctx context.Context, fn func(*session.Session)) error
}

// Info describes the connection a session belongs to
type Info struct {
	Session   uuid.UUID `json:"session"`
	Server    string    `json:"server"`
	Code      string    `json:"code"`
	StartedAt time.Time `json:"started_at"`
}

// StateInfo is the world as seen by the client
type StateInfo struct {
	Info
	World entity.Snapshot `json:"world"`
	Stats session.Stats   `json:"stats"`
}

// HealthInfo reports whether the session loop is still serving
type HealthInfo struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// NewClientService creates a service over runner.
func NewClientService(runner Runner, info Info) ClientService {
	if info.Session == uuid.Nil {
		info.Session = uuid.New()
	}
	if info.StartedAt.IsZero() {
		info.StartedAt = time.Now()
	}
	return &clientServiceImpl{runner: runner, info: info}
}
