package render

import (
	"fmt"
	"image/color"
	"strings"
)

// Surface is the drawing capability the renderer needs
type Surface interface {
	Clear()
	FillRect(x, y, w, h float64, c color.Color)
	FillCircle(x, y, r float64, c color.Color)
	// Text draws s horizontally centered on x with its baseline at y.
	Text(s string, x, y, size float64, c color.Color)
}

// Cue names a one-shot sound
type Cue int

const (
	CueBounce Cue = iota + 1
)

func (c Cue) String() string {
	switch c {
	case CueBounce:
		return "bounce"
	default:
		return "unknown"
	}
}

// CuePlayer plays audio cues
type CuePlayer interface {
	Play(cue Cue)
}

// CuePlayerFunc adapts a function to CuePlayer
type CuePlayerFunc func(cue Cue)

// Play calls f(cue).
func (f CuePlayerFunc) Play(cue Cue) { f(cue) }

// NopCues discards every cue.
var NopCues CuePlayer = CuePlayerFunc(func(Cue) {})

// Op is one recorded drawing operation
type Op struct {
	Kind  string     `json:"kind"`
	Text  string     `json:"text,omitempty"`
	X     float64    `json:"x"`
	Y     float64    `json:"y"`
	W     float64    `json:"w,omitempty"`
	H     float64    `json:"h,omitempty"`
	R     float64    `json:"r,omitempty"`
	Size  float64    `json:"size,omitempty"`
	Color color.RGBA `json:"-"`
}

func (o Op) String() string {
	switch o.Kind {
	case "rect":
		return fmt.Sprintf("rect %.0f,%.0f %.0fx%.0f", o.X, o.Y, o.W, o.H)
	case "circle":
		return fmt.Sprintf("circle %.0f,%.0f r=%.0f", o.X, o.Y, o.R)
	case "text":
		return fmt.Sprintf("text %q %.0f,%.0f size=%.0f", o.Text, o.X, o.Y, o.Size)
	default:
		return o.Kind
	}
}

// Recorder is a Surface that keeps the operations of the last frame
type Recorder struct {
	ops []Op
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Clear starts a new frame.
func (r *Recorder) Clear() {
	r.ops = r.ops[:0]
	r.ops = append(r.ops, Op{Kind: "clear"})
}

// FillRect records a rectangle.
func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.ops = append(r.ops, Op{Kind: "rect", X: x, Y: y, W: w, H: h, Color: rgba(c)})
}

// FillCircle records a circle.
func (r *Recorder) FillCircle(x, y, radius float64, c color.Color) {
	r.ops = append(r.ops, Op{Kind: "circle", X: x, Y: y, R: radius, Color: rgba(c)})
}

// Text records a text draw.
func (r *Recorder) Text(s string, x, y, size float64, c color.Color) {
	r.ops = append(r.ops, Op{Kind: "text", Text: s, X: x, Y: y, Size: size, Color: rgba(c)})
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Texts returns the text of every text operation, in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// String renders the frame one operation per line.
func (r *Recorder) String() string {
	lines := make([]string, 0, len(r.ops))
	for _, op := range r.ops {
		lines = append(lines, op.String())
	}
	return strings.Join(lines, "\n")
}

func rgba(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{}
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
