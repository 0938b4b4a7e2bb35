// Package synth is a self-contained AudioEngine with a tiny sine voice per
// held pitch, played through oto. It exists so note audition works out of
// the box without an external synth on a MIDI port.
package synth

import (
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/solardaw/pianoroll"
)

const (
	sampleRate   = 44100
	channelCount = 2

	// rampPerSample is the per-sample gain slew. Roughly a 5 ms attack and
	// release, enough to avoid clicks on note on/off.
	rampPerSample = 1.0 / (0.005 * sampleRate)

	masterGain = 0.2
)

type (
	Engine struct {
		pianoroll.ClipStore

		ctx    *oto.Context
		player *oto.Player

		mu     sync.Mutex
		voices map[int]*voice
	}

	voice struct {
		phase, step  float64
		gain, target float64
		amp          float64
	}

	// mixer is the io.Reader the oto player pulls samples from.
	mixer struct {
		engine *Engine
	}
)

// New starts the audio device. The returned engine keeps playing silence
// until a note arrives.
func New() (*Engine, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio context: %w", err)
	}
	<-ready
	e := &Engine{ctx: ctx, voices: make(map[int]*voice)}
	e.player = ctx.NewPlayer(mixer{engine: e})
	e.player.Play()
	return e, nil
}

func (e *Engine) SendNoteOn(trackID int64, pitch, velocity int) {
	pitch = pianoroll.ClampPitch(pitch)
	freq := 440 * math.Pow(2, float64(pitch-69)/12)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voices[pitch] = &voice{
		step:   2 * math.Pi * freq / sampleRate,
		target: 1,
		amp:    float64(pianoroll.ClampVelocity(velocity)) / pianoroll.MaxVelocity,
	}
}

func (e *Engine) SendNoteOff(trackID int64, pitch, releaseVelocity int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.voices[pianoroll.ClampPitch(pitch)]; ok {
		v.target = 0
	}
}

// Close silences and releases the audio device.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.voices = make(map[int]*voice)
	e.mu.Unlock()
	return e.player.Close()
}

// Read renders the held voices into signed 16-bit little-endian stereo.
func (x mixer) Read(buf []byte) (int, error) {
	e := x.engine
	e.mu.Lock()
	defer e.mu.Unlock()

	const frameBytes = 2 * channelCount
	frames := len(buf) / frameBytes
	for i := 0; i < frames; i++ {
		var sample float64
		for pitch, v := range e.voices {
			sample += math.Sin(v.phase) * v.gain * v.amp
			v.phase += v.step
			if v.gain < v.target {
				v.gain = math.Min(v.gain+rampPerSample, v.target)
			} else if v.gain > v.target {
				v.gain = math.Max(v.gain-rampPerSample, v.target)
			}
			if v.target == 0 && v.gain == 0 {
				delete(e.voices, pitch)
			}
		}
		s := int16(math.Max(math.Min(sample*masterGain, 1), -1) * math.MaxInt16)
		for ch := 0; ch < channelCount; ch++ {
			off := i*frameBytes + ch*2
			buf[off] = byte(s)
			buf[off+1] = byte(s >> 8)
		}
	}
	return frames * frameBytes, nil
}
