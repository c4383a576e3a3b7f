// Command autopilot plays a match through a headless client's control API.
// It polls the world snapshot, predicts where the ball will reach the local
// paddle and holds the up or down key until the paddle is lined up.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inconshreveable/log15/v3"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/service"
)

// API is the part of the control API the pilot needs
type API interface {
	GetState() (*service.StateInfo, error)
	Press(key string) (*service.InputResult, error)
	Release(key string) (*service.InputResult, error)
}

// Pilot turns strategy decisions into key transitions
type Pilot struct {
	api      API
	strategy *TrackingStrategy
	held     string
	log      log15.Logger
}

func NewPilot(api API, strategy *TrackingStrategy) *Pilot {
	return &Pilot{
		api:      api,
		strategy: strategy,
		log:      log15.New("pkg", "autopilot"),
	}
}

// Held returns the key currently held down, or "".
func (p *Pilot) Held() string {
	return p.held
}

// Step polls once and steers. It reports false once the match is over.
func (p *Pilot) Step() (bool, error) {
	state, err := p.api.GetState()
	if err != nil {
		return true, err
	}

	w := state.World
	if w.Match.OpponentDisconnected || w.Match.Clock() == entity.ClockExpired {
		return false, p.steer("")
	}
	return true, p.steer(p.strategy.Direction(w))
}

// steer releases the held key before pressing a different one.
func (p *Pilot) steer(dir string) error {
	if dir == p.held {
		return nil
	}
	if p.held != "" {
		if _, err := p.api.Release(p.held); err != nil {
			return err
		}
		p.log.Debug("released", "key", p.held)
		p.held = ""
	}
	if dir != "" {
		if _, err := p.api.Press(dir); err != nil {
			return err
		}
		p.log.Debug("pressed", "key", dir)
		p.held = dir
	}
	return nil
}

// Fly steps every interval until the match ends, ctx is done, or maxErrors
// consecutive steps fail.
func (p *Pilot) Fly(ctx context.Context, interval time.Duration, maxErrors int) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		running, err := p.Step()
		if err != nil {
			failures++
			p.log.Warn("step failed", "err", err, "failures", failures)
			if failures >= maxErrors {
				return fmt.Errorf("giving up after %d consecutive failures: %w", failures, err)
			}
			continue
		}
		failures = 0
		if !running {
			return nil
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "autopilot",
		Usage: "play a match through a headless client's control API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://127.0.0.1:8081",
				Usage:   "base URL of the control API",
				Sources: cli.EnvVars("PONG_API"),
			},
			&cli.DurationFlag{
				Name:  "interval",
				Value: 50 * time.Millisecond,
				Usage: "delay between polls",
			},
			&cli.IntFlag{
				Name:  "height",
				Value: 800,
				Usage: "arena height used for wall bounces until the server announces one",
			},
			&cli.IntFlag{
				Name:  "deadzone",
				Value: 10,
				Usage: "pixels of tolerance around the paddle center",
			},
			&cli.IntFlag{
				Name:  "max-errors",
				Value: 20,
				Usage: "consecutive failures before giving up",
			},
			&cli.BoolFlag{
				Name:  "v",
				Usage: "verbose output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			lvl := log15.LvlInfo
			if cmd.Bool("v") {
				lvl = log15.LvlDebug
			}
			log15.Root().SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(os.Stderr, log15.LogfmtFormat())))

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := log15.New("pkg", "autopilot", "api", cmd.String("api"))
			logger.Info("taking control")

			client := NewClient(cmd.String("api"))
			pilot := NewPilot(client, NewTrackingStrategy(cmd.Int("height"), cmd.Int("deadzone")))
			err := pilot.Fly(ctx, cmd.Duration("interval"), cmd.Int("max-errors"))
			if errors.Is(err, context.Canceled) {
				err = nil
			}

			if state, serr := client.GetState(); serr == nil && state.World.Me != nil && state.World.Opponent != nil {
				logger.Info("match over", "me", state.World.Me.Score, "opponent", state.World.Opponent.Score)
			}
			return err
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "autopilot: %v\n", err)
		os.Exit(1)
	}
}
