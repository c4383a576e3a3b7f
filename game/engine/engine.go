package engine

import (
	"github.com/inconshreveable/log15/v3"
	"github.com/wricardo/pong-client/game/entity"
	"github.com/wricardo/pong-client/game/protocol"
	"github.com/wricardo/pong-client/game/render"
)

// Hooks are callbacks for side effects the engine does not own
type Hooks struct {
	// OnOpponentLeft is called for every OpponentDisconnected message. The
	// receiver is responsible for acting on it only once.
	OnOpponentLeft func()
}

// Stats counts processed frames
type Stats struct {
	Frames  uint64                          `json:"frames"`
	Dropped uint64                          `json:"dropped"`
	Ignored uint64                          `json:"ignored"`
	ByKind  map[protocol.MessageType]uint64 `json:"by_kind"`
}

// Engine owns the synchronization policy between server messages and the world
type Engine struct {
	world     *entity.World
	scheduler *render.Scheduler
	cues      render.CuePlayer
	hooks     Hooks
	stats     Stats
	log       log15.Logger
}

// NewEngine creates an engine mutating world and requesting passes from
// scheduler. cues may be nil.
func NewEngine(world *entity.World, scheduler *render.Scheduler, cues render.CuePlayer, hooks Hooks) *Engine {
	if cues == nil {
		cues = render.NopCues
	}
	return &Engine{
		world:     world,
		scheduler: scheduler,
		cues:      cues,
		hooks:     hooks,
		stats:     Stats{ByKind: make(map[protocol.MessageType]uint64)},
		log:       log15.New("pkg", "engine"),
	}
}

// World returns the world the engine mutates.
func (e *Engine) World() *entity.World {
	return e.world
}

// Stats returns a copy of the frame counters.
func (e *Engine) Stats() Stats {
	out := e.stats
	out.ByKind = make(map[protocol.MessageType]uint64, len(e.stats.ByKind))
	for k, v := range e.stats.ByKind {
		out.ByKind[k] = v
	}
	return out
}

// Dispatch decodes one inbound frame, applies it and requests one draw pass.
// Malformed frames are dropped without touching the world and the decode
// error is returned for the caller to log or ignore.
func (e *Engine) Dispatch(frame []byte) error {
	e.stats.Frames++

	msg, err := protocol.Decode(frame)
	if err != nil {
		e.stats.Dropped++
		e.log.Warn("dropping frame", "size", len(frame), "err", err)
		return err
	}

	e.Apply(msg)
	e.scheduler.Request()
	return nil
}

// Apply routes msg to its handler.
func (e *Engine) Apply(msg protocol.Message) {
	e.stats.ByKind[msg.Kind()]++

	switch m := msg.(type) {
	case *protocol.ClientConnected:
		e.applyClientConnected(m)
	case *protocol.GameState:
		e.applyGameState(&m.State)
	case *protocol.GameStartCountdown:
		e.world.Match.StartCountdown = m.Counter
	case *protocol.OpponentDisconnected:
		e.applyOpponentDisconnected()
	case *protocol.PlayerInput:
		e.stats.Ignored++
		e.log.Debug("ignoring inbound player input")
	default:
		e.stats.Ignored++
		e.log.Debug("ignoring unknown message", "type", int(msg.Kind()))
	}
}

func (e *Engine) applyClientConnected(m *protocol.ClientConnected) {
	if m.Me == nil {
		e.log.Warn("client connected without player payload")
		return
	}

	me, created := e.world.CreateMe(string(m.Me.ID), m.Me.Score, m.Me.IsLeft, toPaddle(m.Me.Paddle))
	if !created {
		e.log.Warn("duplicate client connected ignored", "id", m.Me.ID)
		return
	}
	e.log.Info("connected", "id", me.ID, "left", me.IsLeft)
}

func (e *Engine) applyGameState(st *protocol.State) {
	if arena := (entity.Arena{Width: st.Width, Height: st.Height}); arena.Known() && arena != e.world.Arena {
		e.log.Debug("arena size", "width", arena.Width, "height", arena.Height)
		e.world.Arena = arena
	}

	if st.Ball != nil {
		ball, created := e.world.EnsureBall(entity.Ball{
			X:      st.Ball.X,
			Y:      st.Ball.Y,
			Dx:     st.Ball.Dx,
			Dy:     st.Ball.Dy,
			Radius: st.Ball.Radius,
		})
		if created {
			e.log.Debug("ball created")
		}
		ball.SetVector(st.Ball.X, st.Ball.Y, st.Ball.Dx, st.Ball.Dy)
	}

	if st.Opponent != nil {
		opponent, created := e.world.CreateOpponent(string(st.Opponent.ID), st.Opponent.Score, st.Opponent.IsLeft, toPaddle(st.Opponent.Paddle))
		if created {
			e.log.Info("opponent joined", "id", opponent.ID, "left", opponent.IsLeft)
		}
		opponent.Score = st.Opponent.Score
		e.updatePaddle(opponent, st.Opponent.Paddle)
	}

	if me := e.world.Me(); me != nil && st.Me != nil {
		me.Score = st.Me.Score
		e.updatePaddle(me, st.Me.Paddle)
	}

	e.world.Match.Streak = st.Streak
	e.world.Match.SetSecondsRemaining(st.SecondsRemaining)

	if st.Collision {
		e.cues.Play(render.CueBounce)
	}
}

func (e *Engine) applyOpponentDisconnected() {
	if !e.world.Match.OpponentDisconnected {
		e.log.Info("opponent disconnected")
	}
	e.world.Match.OpponentDisconnected = true
	if e.hooks.OnOpponentLeft != nil {
		e.hooks.OnOpponentLeft()
	}
}

func (e *Engine) updatePaddle(p *entity.Player, wire *protocol.Paddle) {
	if wire == nil {
		return
	}
	paddle, _ := e.world.EnsurePaddle(p, *toPaddle(wire))
	paddle.SetVector(wire.X, wire.Y, wire.Dx, wire.Dy)
}

func toPaddle(p *protocol.Paddle) *entity.Paddle {
	if p == nil {
		return nil
	}
	return &entity.Paddle{
		X:      p.X,
		Y:      p.Y,
		Dx:     p.Dx,
		Dy:     p.Dy,
		Width:  p.Width,
		Height: p.Height,
	}
}
