//go:build !nodesktop

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/pong-client/desktop"
	"github.com/wricardo/pong-client/transport/websocket"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "open a window and play the match",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "mute",
				Usage: "disable the bounce sound",
			},
			&cli.StringFlag{
				Name:    "bounce-wav",
				Usage:   "wav file played on ball collisions",
				Sources: cli.EnvVars("PONG_BOUNCE_WAV"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, _, err := loadProfile(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			conn, err := websocket.Dial(ctx, targetFor(p), websocket.Options{})
			if err != nil {
				return err
			}
			defer conn.Close()

			journal, err := openJournal(p)
			if err != nil {
				return err
			}

			title := AppName
			if p.Code != "" {
				title = fmt.Sprintf("%s - %s", AppName, p.Code)
			}
			return desktop.Run(ctx, conn, desktop.Options{
				Title:         title,
				Width:         p.Width,
				Height:        p.Height,
				PaddleSpeed:   p.PaddleSpeed,
				NavigateDelay: p.NavigateDelay.Duration,
				Sound:         p.Sound && !cmd.Bool("mute"),
				BounceFile:    cmd.String("bounce-wav"),
				Journal:       journal,
			})
		},
	}
}
