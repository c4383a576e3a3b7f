//go:build nodesktop

package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"
)

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "open a window and play the match (unavailable in this build)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return errors.New("built with the nodesktop tag; use headless instead")
		},
	}
}
