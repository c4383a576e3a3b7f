package desktop

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/inconshreveable/log15/v3"
	"github.com/wricardo/pong-client/game/render"
)

const (
	sampleRate = 44100

	bounceHz     = 660
	bounceLength = 60 * time.Millisecond
	bounceVolume = 0.3
)

// Bouncer plays the collision cue
type Bouncer struct {
	player *audio.Player
	log    log15.Logger
}

// NewBouncer prepares the bounce sound. An empty path selects a generated tone.
func NewBouncer(path string) (*Bouncer, error) {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}

	pcm := Tone(bounceHz, bounceLength, ctx.SampleRate())
	if path != "" {
		var err error
		pcm, err = loadWAV(path, ctx.SampleRate())
		if err != nil {
			return nil, err
		}
	}

	return &Bouncer{
		player: ctx.NewPlayerFromBytes(pcm),
		log:    log15.New("pkg", "desktop"),
	}, nil
}

// Play restarts the sound for every bounce cue.
func (b *Bouncer) Play(cue render.Cue) {
	if cue != render.CueBounce {
		return
	}
	if err := b.player.Rewind(); err != nil {
		b.log.Warn("failed to rewind cue", "cue", cue, "err", err)
		return
	}
	b.player.Play()
}

// Tone returns 16-bit little-endian stereo PCM of a decaying sine wave.
func Tone(freq float64, d time.Duration, rate int) []byte {
	n := int(d.Seconds() * float64(rate))
	buf := make([]byte, n*4)
	for i := 0; i < n; i++ {
		env := 1 - float64(i)/float64(n)
		v := int16(math.Sin(2*math.Pi*freq*float64(i)/float64(rate)) * env * bounceVolume * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[4*i:], uint16(v))
		binary.LittleEndian.PutUint16(buf[4*i+2:], uint16(v))
	}
	return buf
}

func loadWAV(path string, rate int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound: %w", err)
	}
	defer f.Close()

	stream, err := wav.DecodeWithSampleRate(rate, f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return io.ReadAll(stream)
}

var _ render.CuePlayer = (*Bouncer)(nil)
