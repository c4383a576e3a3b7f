package render

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/wricardo/pong-client/game/entity"
)

const (
	bannerSize = 72
	clockSize  = 36
	labelSize  = 24

	scoreInset  = 50
	markerInset = 150
)

var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Renderer performs draw passes over a world
type Renderer struct {
	surface Surface
	width   float64
	height  float64
}

// NewRenderer creates a renderer for a surface of the given size.
func NewRenderer(surface Surface, width, height int) *Renderer {
	return &Renderer{
		surface: surface,
		width:   float64(width),
		height:  float64(height),
	}
}

// Draw renders w. It only reads the world. Layout follows the arena size the
// server announced, falling back to the renderer's own size.
func (r *Renderer) Draw(w *entity.World) {
	r.surface.Clear()
	if w == nil {
		return
	}

	width, height := r.width, r.height
	if w.Arena.Known() {
		width, height = float64(w.Arena.Width), float64(w.Arena.Height)
	}

	me := w.Me()
	opponent := w.Opponent()

	if w.Match.StartCountdown != 0 {
		r.surface.Text(strconv.Itoa(w.Match.StartCountdown), width/2, height/2-70, bannerSize, white)
		if me != nil {
			r.surface.Text("you are here", sideX(width, me.IsLeft, markerInset), height/2, labelSize, white)
		}
	}

	switch w.Match.Clock() {
	case entity.ClockRunning:
		r.surface.Text(FormatClock(*w.Match.SecondsRemaining), width/2, 30, clockSize, white)
		r.surface.Text(fmt.Sprintf("streak: %d", w.Match.Streak), width/2, 70, labelSize, white)
	case entity.ClockExpired:
		if me != nil && opponent != nil {
			r.surface.Text(Banner(me.Score, opponent.Score), width/2, height/2, bannerSize, white)
		}
	}

	if w.Match.OpponentDisconnected {
		r.surface.Text("Opponent Disconnected", width/2, height/2-70, bannerSize, white)
	}

	if b := w.Ball(); b != nil {
		r.surface.FillCircle(float64(b.X), float64(b.Y), float64(b.Radius), b.Color)
	}

	r.drawPlayer(w, me, width)
	r.drawPlayer(w, opponent, width)
}

func (r *Renderer) drawPlayer(w *entity.World, p *entity.Player, width float64) {
	paddle := w.PaddleOf(p)
	if paddle == nil {
		return
	}
	r.surface.Text(strconv.Itoa(p.Score), sideX(width, p.IsLeft, scoreInset), 30, labelSize, white)
	r.surface.FillRect(float64(paddle.X), float64(paddle.Y), float64(paddle.Width), float64(paddle.Height), white)
}

func sideX(width float64, isLeft bool, inset float64) float64 {
	if isLeft {
		return inset
	}
	return width - inset
}

// FormatClock formats seconds as zero-padded mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Banner returns the end-of-match text for the local player. Ties lose.
func Banner(myScore, opponentScore int) string {
	if myScore > opponentScore {
		return "Winner!"
	}
	return "Loser!"
}
