package session

import (
	"context"
	"errors"

	"github.com/inconshreveable/log15/v3"
	"github.com/wricardo/pong-client/game/input"
)

// ErrLoopStopped is returned by Loop methods once Run has returned
var ErrLoopStopped = errors.New("session loop stopped")

type keyEvent struct {
	key     input.Key
	pressed bool
}

type query struct {
	fn   func(*Session)
	done chan struct{}
}

// Loop serializes every access to a Session through one goroutine
type Loop struct {
	session *Session
	frames  <-chan []byte
	keys    chan keyEvent
	queries chan query
	stopped chan struct{}
	log     log15.Logger
}

// NewLoop creates a loop feeding frames into s. Run returns when frames is
// closed.
func NewLoop(s *Session, frames <-chan []byte) *Loop {
	return &Loop{
		session: s,
		frames:  frames,
		keys:    make(chan keyEvent, 16),
		queries: make(chan query),
		stopped: make(chan struct{}),
		log:     log15.New("pkg", "session", "component", "loop"),
	}
}

// Run processes events until ctx is done or the frame source closes. After
// each event the pending draw pass is flushed once no more frames are
// queued, so bursts coalesce into a single pass.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case frame, ok := <-l.frames:
			if !ok {
				l.log.Info("frame source closed")
				l.session.Render()
				return nil
			}
			if err := l.session.HandleFrame(frame); err != nil {
				l.log.Debug("frame dropped", "err", err)
			}

		case ev := <-l.keys:
			if ev.pressed {
				l.session.KeyPressed(ev.key)
			} else {
				l.session.KeyReleased(ev.key)
			}

		case q := <-l.queries:
			q.fn(l.session)
			close(q.done)
		}

		if len(l.frames) == 0 {
			l.session.Render()
		}
	}
}

// Press queues a key-down transition.
func (l *Loop) Press(k input.Key) error {
	return l.key(keyEvent{key: k, pressed: true})
}

// Release queues a key-up transition.
func (l *Loop) Release(k input.Key) error {
	return l.key(keyEvent{key: k})
}

func (l *Loop) key(ev keyEvent) error {
	select {
	case <-l.stopped:
		return ErrLoopStopped
	default:
	}

	select {
	case l.keys <- ev:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func(*Session)) error {
	q := query{fn: fn, done: make(chan struct{})}

	select {
	case l.queries <- q:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.stopped
}
