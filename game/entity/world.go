package entity

// World is the explicit state of one client session. Components receive it by
// reference; nothing reaches it through package globals.
type World struct {
	nextID  ID
	paddles map[ID]*Paddle
	balls   map[ID]*Ball
	players map[ID]*Player

	me       ID
	opponent ID
	ball     ID

	// Arena is zero until the server announces the field size.
	Arena Arena
	Match MatchState
}

// NewWorld creates an empty world: no players, no ball, no active clock.
func NewWorld() *World {
	return &World{
		paddles: make(map[ID]*Paddle),
		balls:   make(map[ID]*Ball),
		players: make(map[ID]*Player),
	}
}

func (w *World) allocate() ID {
	w.nextID++
	return w.nextID
}

// Me returns the local player, or nil before the connection is acknowledged.
func (w *World) Me() *Player {
	return w.players[w.me]
}

// Opponent returns the remote player, or nil until a snapshot names one.
func (w *World) Opponent() *Player {
	return w.players[w.opponent]
}

// Ball returns the ball, or nil until a snapshot carries one.
func (w *World) Ball() *Ball {
	return w.balls[w.ball]
}

// PaddleOf returns the paddle owned by p, or nil if p or its paddle is unknown.
func (w *World) PaddleOf(p *Player) *Paddle {
	if p == nil {
		return nil
	}
	return w.paddles[p.Paddle]
}

// CreateMe creates the local player and its paddle. It is a no-op returning
// the existing player if one was already created; identity and side are
// write-once.
func (w *World) CreateMe(id string, score int, isLeft bool, paddle *Paddle) (*Player, bool) {
	if p := w.Me(); p != nil {
		return p, false
	}
	pid, p := w.newPlayer(id, score, isLeft, paddle)
	w.me = pid
	return p, true
}

// CreateOpponent creates the remote player. Like CreateMe it never replaces
// an existing player.
func (w *World) CreateOpponent(id string, score int, isLeft bool, paddle *Paddle) (*Player, bool) {
	if p := w.Opponent(); p != nil {
		return p, false
	}
	pid, p := w.newPlayer(id, score, isLeft, paddle)
	w.opponent = pid
	return p, true
}

// EnsureBall returns the ball, creating it from init on first use. The
// returned pointer is the same for the rest of the session.
func (w *World) EnsureBall(init Ball) (*Ball, bool) {
	if b := w.Ball(); b != nil {
		return b, false
	}
	b := init
	b.Color = BallColor
	id := w.allocate()
	w.balls[id] = &b
	w.ball = id
	return &b, true
}

// EnsurePaddle returns the paddle owned by p, creating it from init if p has
// none yet.
func (w *World) EnsurePaddle(p *Player, init Paddle) (*Paddle, bool) {
	if existing := w.PaddleOf(p); existing != nil {
		return existing, false
	}
	pd := init
	id := w.allocate()
	w.paddles[id] = &pd
	p.Paddle = id
	return &pd, true
}

func (w *World) newPlayer(id string, score int, isLeft bool, paddle *Paddle) (ID, *Player) {
	p := &Player{ID: id, Score: score, IsLeft: isLeft}
	pid := w.allocate()
	w.players[pid] = p
	if paddle != nil {
		w.EnsurePaddle(p, *paddle)
	}
	return pid, p
}

// PlayerView is a read-only copy of a player and its paddle
type PlayerView struct {
	ID     string  `json:"id"`
	Score  int     `json:"score"`
	IsLeft bool    `json:"isLeft"`
	Paddle *Paddle `json:"paddle,omitempty"`
}

// Snapshot is a detached copy of the world, safe to hand to other goroutines
type Snapshot struct {
	Arena    Arena       `json:"arena"`
	Ball     *Ball       `json:"ball,omitempty"`
	Me       *PlayerView `json:"me,omitempty"`
	Opponent *PlayerView `json:"opponent,omitempty"`
	Match    MatchState  `json:"match"`
	Clock    string      `json:"clock"`
}

// Snapshot copies the current state.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Arena:    w.Arena,
		Me:       w.view(w.Me()),
		Opponent: w.view(w.Opponent()),
		Clock:    w.Match.Clock().String(),
	}
	if b := w.Ball(); b != nil {
		cp := *b
		s.Ball = &cp
	}
	s.Match = w.Match
	s.Match.SetSecondsRemaining(w.Match.SecondsRemaining)
	return s
}

func (w *World) view(p *Player) *PlayerView {
	if p == nil {
		return nil
	}
	v := &PlayerView{ID: p.ID, Score: p.Score, IsLeft: p.IsLeft}
	if pd := w.PaddleOf(p); pd != nil {
		cp := *pd
		v.Paddle = &cp
	}
	return v
}
