package session

import (
	"time"

	"github.com/inconshreveable/log15/v3"
	"github.com/wricardo/pong-client/game/engine"
	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/input"
	"github.com/wricardo/pong-client/game/render"
)

const (
	DefaultWidth         = 1600
	DefaultHeight        = 800
	DefaultNavigateDelay = 5 * time.Second
)

// Options configures a Session. Zero values select defaults.
type Options struct {
	Width         int
	Height        int
	PaddleSpeed   int
	NavigateDelay time.Duration

	// Surface receives draw passes. A Recorder is used when nil.
	Surface render.Surface
	Cues    render.CuePlayer
	// Sender carries outbound paddle intents. Intents are dropped when nil.
	Sender    input.Sender
	Navigator Navigator
	Journal   Journal
}

// Stats summarizes a session for the control API
type Stats struct {
	Engine     engine.Stats `json:"engine"`
	Requested  uint64       `json:"renders_requested"`
	Drawn      uint64       `json:"renders_drawn"`
	Superseded uint64       `json:"renders_superseded"`
	InputsSent int          `json:"inputs_sent"`
	Navigating bool         `json:"navigating"`
	Navigated  bool         `json:"navigated"`
	Journaled  int          `json:"frames_journaled"`
}

// Session is one connected client
type Session struct {
	world     *entity.World
	engine    *engine.Engine
	tracker   *input.Tracker
	scheduler *render.Scheduler
	renderer  *render.Renderer
	surface   render.Surface
	nav       *navigation
	journal   Journal
	journaled int
	log       log15.Logger
}

// New creates a session with an empty world.
func New(opts Options) *Session {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.NavigateDelay <= 0 {
		opts.NavigateDelay = DefaultNavigateDelay
	}
	if opts.Surface == nil {
		opts.Surface = render.NewRecorder()
	}
	if opts.Sender == nil {
		opts.Sender = discardSender{}
	}

	s := &Session{
		world:     entity.NewWorld(),
		scheduler: &render.Scheduler{},
		surface:   opts.Surface,
		nav:       newNavigation(opts.NavigateDelay, opts.Navigator),
		journal:   opts.Journal,
		log:       log15.New("pkg", "session"),
	}
	s.engine = engine.NewEngine(s.world, s.scheduler, opts.Cues, engine.Hooks{
		OnOpponentLeft: s.opponentLeft,
	})
	s.tracker = input.NewTracker(s.world, opts.Sender, opts.PaddleSpeed)
	s.renderer = render.NewRenderer(opts.Surface, opts.Width, opts.Height)
	return s
}

func (s *Session) opponentLeft() {
	if s.nav.Schedule() {
		s.log.Info("leaving session", "delay", s.nav.delay)
	}
}

// HandleFrame journals and dispatches one inbound frame.
func (s *Session) HandleFrame(frame []byte) error {
	if s.journal != nil {
		if err := s.journal.Record(frame); err != nil {
			s.log.Warn("failed to journal frame", "err", err)
		} else {
			s.journaled++
		}
	}
	return s.engine.Dispatch(frame)
}

// KeyPressed forwards a key-down transition.
func (s *Session) KeyPressed(k input.Key) {
	s.tracker.KeyPressed(k)
}

// KeyReleased forwards a key-up transition.
func (s *Session) KeyReleased(k input.Key) {
	s.tracker.KeyReleased(k)
}

// Render draws the pending pass, if any, and reports whether it drew.
func (s *Session) Render() bool {
	return s.scheduler.Flush(func() {
		s.renderer.Draw(s.world)
	})
}

// Pending reports whether a draw pass is waiting.
func (s *Session) Pending() bool {
	return s.scheduler.Pending()
}

// World returns the session state. Callers must respect the session's
// goroutine discipline.
func (s *Session) World() *entity.World {
	return s.world
}

// Surface returns the surface draw passes go to.
func (s *Session) Surface() render.Surface {
	return s.surface
}

// Snapshot returns a detached copy of the world.
func (s *Session) Snapshot() entity.Snapshot {
	return s.world.Snapshot()
}

// Stats returns counters for the session.
func (s *Session) Stats() Stats {
	requested, drawn, superseded := s.scheduler.Stats()
	return Stats{
		Engine:     s.engine.Stats(),
		Requested:  requested,
		Drawn:      drawn,
		Superseded: superseded,
		InputsSent: s.tracker.Sent(),
		Navigating: s.nav.Scheduled(),
		Navigated:  s.nav.Fired(),
		Journaled:  s.journaled,
	}
}

// Close cancels a pending navigation and closes the journal.
func (s *Session) Close() error {
	s.nav.Cancel()
	if s.journal != nil {
		return s.journal.Close()
	}
	return nil
}

type discardSender struct{}

func (discardSender) Send(any) error { return nil }
