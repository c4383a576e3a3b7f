// Command analyze prints quick, human-readable summaries of recorded frame
// journals: how many frames of each kind arrived, how many were malformed,
// how often the ball collided, the longest rally streak, and how the match
// ended.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/protocol"
	"github.com/wricardo/pong-client/game/render"
	"github.com/wricardo/pong-client/game/session"
)

// Report summarizes one journal
type Report struct {
	Path          string
	Frames        int
	Malformed     int
	ByKind        map[string]int
	Collisions    int
	MaxStreak     int
	Countdowns    []int
	// LastSeconds follows the clock of the latest snapshot and is nil while
	// no match is active.
	LastSeconds   *int
	Ended         bool
	MyScore       int
	OpponentScore int
	HasScores     bool
	OpponentLeft  bool
	Duration      time.Duration
}

// Outcome describes how the recorded match ended.
func (r Report) Outcome() string {
	switch {
	case r.OpponentLeft:
		return "opponent disconnected"
	case r.LastSeconds != nil && *r.LastSeconds > 0:
		return "in progress at " + render.FormatClock(*r.LastSeconds)
	case r.Ended && r.HasScores:
		return render.Banner(r.MyScore, r.OpponentScore)
	default:
		return "not started"
	}
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "summarize recorded frame journals",
		ArgsUsage: "[journal ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "journals",
				Usage:   "directory scanned when no journal is given",
				Sources: cli.EnvVars("JOURNAL_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				var err error
				paths, err = session.ListJournals(cmd.String("dir"))
				if err != nil {
					return err
				}
			}
			if len(paths) == 0 {
				fmt.Println("No journals found")
				return nil
			}
			for _, path := range paths {
				fmt.Printf("\n=== Analyzing %s ===\n", path)
				entries, err := session.ReadJournal(path)
				if err != nil {
					fmt.Printf("Error reading journal: %v\n", err)
					continue
				}
				report := Analyze(entries)
				report.Path = path
				printReport(os.Stdout, report)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
		os.Exit(1)
	}
}

// Analyze walks the entries in order.
func Analyze(entries []session.JournalEntry) Report {
	report := Report{ByKind: make(map[string]int)}
	if len(entries) > 0 {
		report.Duration = entries[len(entries)-1].At.Sub(entries[0].At)
	}

	for _, entry := range entries {
		report.Frames++
		msg, err := protocol.Decode(entry.Bytes())
		if err != nil {
			report.Malformed++
			continue
		}
		report.ByKind[msg.Kind().String()]++

		switch m := msg.(type) {
		case *protocol.GameState:
			state := m.State
			if state.Collision {
				report.Collisions++
			}
			if state.Streak > report.MaxStreak {
				report.MaxStreak = state.Streak
			}
			match := entity.MatchState{SecondsRemaining: state.SecondsRemaining}
			switch match.Clock() {
			case entity.ClockAbsent:
				report.LastSeconds = nil
			case entity.ClockExpired:
				report.Ended = true
				report.LastSeconds = new(int)
			case entity.ClockRunning:
				report.Ended = false
				seconds := *state.SecondsRemaining
				report.LastSeconds = &seconds
			}
			if state.Me != nil && state.Opponent != nil {
				report.MyScore = state.Me.Score
				report.OpponentScore = state.Opponent.Score
				report.HasScores = true
			}
		case *protocol.GameStartCountdown:
			report.Countdowns = append(report.Countdowns, m.Counter)
		case *protocol.OpponentDisconnected:
			report.OpponentLeft = true
		}
	}
	return report
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "Frames: %d (%d malformed)\n", r.Frames, r.Malformed)
	fmt.Fprintf(w, "Duration: %s\n", r.Duration.Round(time.Millisecond))

	kinds := make([]string, 0, len(r.ByKind))
	for kind := range r.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %-22s %d\n", kind, r.ByKind[kind])
	}

	if len(r.Countdowns) > 0 {
		fmt.Fprintf(w, "Countdown: %v\n", r.Countdowns)
	}
	fmt.Fprintf(w, "Collisions: %d\n", r.Collisions)
	fmt.Fprintf(w, "Max streak: %d\n", r.MaxStreak)
	if r.HasScores {
		fmt.Fprintf(w, "Score: %d - %d\n", r.MyScore, r.OpponentScore)
	}
	fmt.Fprintf(w, "Outcome: %s\n", r.Outcome())
}
