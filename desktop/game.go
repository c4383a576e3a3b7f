package desktop

import (
	"context"
	"errors"
	"image/color"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/inconshreveable/log15/v3"
	"github.com/wricardo/pong-client/game/input"
	"github.com/wricardo/pong-client/game/render"
	"github.com/wricardo/pong-client/game/session"
	"github.com/wricardo/pong-client/transport/websocket"
)

var background = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}

type binding struct {
	key ebiten.Key
	dir input.Key
}

var bindings = []binding{
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyW, input.KeyUp},
	{ebiten.KeyArrowDown, input.KeyDown},
	{ebiten.KeyS, input.KeyDown},
}

// Options configures the window
type Options struct {
	Title         string
	Width         int
	Height        int
	PaddleSpeed   int
	NavigateDelay time.Duration
	Sound         bool
	// BounceFile is a wav played on collisions instead of the generated tone.
	BounceFile string
	Journal    session.Journal
}

// Game implements ebiten.Game over one session
type Game struct {
	session *session.Session
	surface *Surface
	frames  <-chan []byte
	stop    <-chan struct{}
	width   int
	height  int
	leave   atomic.Bool
	log     log15.Logger
}

// NewGame wires a session that reads frames and sends intents through the
// given channels. Closing stop ends the game on the next tick.
func NewGame(frames <-chan []byte, sender input.Sender, cues render.CuePlayer, stop <-chan struct{}, opts Options) *Game {
	if opts.Width <= 0 {
		opts.Width = session.DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = session.DefaultHeight
	}

	g := &Game{
		surface: NewSurface(opts.Width, opts.Height),
		frames:  frames,
		stop:    stop,
		width:   opts.Width,
		height:  opts.Height,
		log:     log15.New("pkg", "desktop"),
	}
	g.session = session.New(session.Options{
		Width:         opts.Width,
		Height:        opts.Height,
		PaddleSpeed:   opts.PaddleSpeed,
		NavigateDelay: opts.NavigateDelay,
		Surface:       g.surface,
		Cues:          cues,
		Sender:        sender,
		Navigator:     g,
		Journal:       opts.Journal,
	})
	return g
}

// Session returns the session the window drives.
func (g *Game) Session() *session.Session {
	return g.session
}

// Navigate asks the window to close. It runs on the navigation timer goroutine.
func (g *Game) Navigate() {
	g.leave.Store(true)
}

func (g *Game) Update() error {
	if g.leave.Load() {
		g.log.Info("leaving game")
		return ebiten.Termination
	}
	select {
	case <-g.stop:
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.drain()
	if a := g.session.World().Arena; a.Known() && (a.Width != g.width || a.Height != g.height) {
		g.log.Info("arena resized", "width", a.Width, "height", a.Height)
		g.width, g.height = a.Width, a.Height
		g.surface.Resize(a.Width, a.Height)
	}

	for _, b := range bindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.session.KeyPressed(b.dir)
		}
		if inpututil.IsKeyJustReleased(b.key) {
			g.session.KeyReleased(b.dir)
		}
	}
	return nil
}

// drain hands every frame received since the last tick to the session.
func (g *Game) drain() {
	for {
		select {
		case frame, ok := <-g.frames:
			if !ok {
				g.log.Info("connection closed, showing last frame")
				g.frames = nil
				return
			}
			if err := g.session.HandleFrame(frame); err != nil {
				g.log.Debug("frame dropped", "err", err)
			}
		default:
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.session.Render()
	screen.Fill(background)
	screen.DrawImage(g.surface.Image(), nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Run opens the window and plays until the window closes, the opponent leaves
// and the navigation delay passes, or ctx is cancelled. It must be called
// from the main goroutine.
func Run(ctx context.Context, conn *websocket.Conn, opts Options) error {
	logger := log15.New("pkg", "desktop", "url", conn.URL())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cues := render.NopCues
	if opts.Sound {
		b, err := NewBouncer(opts.BounceFile)
		if err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			cues = b
		}
	}

	g := NewGame(conn.Frames(), conn, cues, ctx.Done(), opts)
	defer g.session.Close()

	connErr := make(chan error, 1)
	go func() {
		connErr <- conn.Run(ctx)
	}()

	ebiten.SetWindowSize(g.width/2, g.height/2)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(g)
	cancel()
	conn.Close()

	if cerr := <-connErr; cerr != nil && !errors.Is(cerr, context.Canceled) {
		logger.Warn("connection ended with error", "err", cerr)
	}
	logger.Info("window closed", "frames", g.session.Stats().Engine.Frames)
	return err
}
