package desktop

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Metrics of ebitenutil's debug font.
const (
	glyphWidth  = 6
	glyphHeight = 16
	glyphAscent = 12

	maxLabels = 64
)

// Surface draws render passes onto an offscreen ebiten image
type Surface struct {
	canvas *ebiten.Image
	labels map[string]*ebiten.Image
}

// NewSurface allocates a canvas of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{
		canvas: ebiten.NewImage(width, height),
		labels: make(map[string]*ebiten.Image),
	}
}

// Resize replaces the canvas with one of the new size.
func (s *Surface) Resize(width, height int) {
	s.canvas.Deallocate()
	s.canvas = ebiten.NewImage(width, height)
}

// Image returns the canvas.
func (s *Surface) Image() *ebiten.Image {
	return s.canvas
}

func (s *Surface) Clear() {
	s.canvas.Clear()
}

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.canvas, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (s *Surface) FillCircle(x, y, r float64, c color.Color) {
	vector.DrawFilledCircle(s.canvas, float32(x), float32(y), float32(r), c, true)
}

// Text scales the debug font to size pixels per line.
func (s *Surface) Text(str string, x, y, size float64, c color.Color) {
	if str == "" {
		return
	}
	scale := size / glyphHeight
	width := float64(len(str)*glyphWidth) * scale

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x-width/2, y-glyphAscent*scale)
	op.ColorScale.ScaleWithColor(c)
	s.canvas.DrawImage(s.label(str), op)
}

// label returns a cached unscaled rendering of str. The clock changes every
// second, so the cache is reset once it grows past maxLabels.
func (s *Surface) label(str string) *ebiten.Image {
	if img, ok := s.labels[str]; ok {
		return img
	}
	if len(s.labels) >= maxLabels {
		for k, img := range s.labels {
			img.Deallocate()
			delete(s.labels, k)
		}
	}
	img := ebiten.NewImage(len(str)*glyphWidth, glyphHeight)
	ebitenutil.DebugPrintAt(img, str, 0, 0)
	s.labels[str] = img
	return img
}
