// Package player is the playback engine: it decodes a track, streams it to
// the output with pause and volume control, and taps the mix for analysis.
package player

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"

	"github.com/anodegrind/circuitplayer/internal/audio"
)

const (
	// SampleRate is the output rate; tracks are resampled to it.
	SampleRate     = beep.SampleRate(44100)
	resampleQual   = 4
	tapBufferSize  = audio.FFTSize * 8
	bufferDuration = time.Second / 10
)

// Player plays one track at a time.
type Player struct {
	out Output

	mu       sync.Mutex
	name     string
	stream   beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	tap      *audio.Tap
	end      *endNotifier
	volume   float64
	finished chan struct{}
}

// New initializes out at SampleRate.
func New(out Output) (*Player, error) {
	if out == nil {
		out = Speaker{}
	}
	if err := out.Init(SampleRate, SampleRate.N(bufferDuration)); err != nil {
		return nil, fmt.Errorf("init audio output: %w", err)
	}
	return &Player{
		out:      out,
		tap:      audio.NewTap(nil, tapBufferSize),
		volume:   1,
		finished: make(chan struct{}, 1),
	}, nil
}

// Load decodes r as the format named by name's extension and replaces the
// current track. The new track starts paused.
func (p *Player) Load(r io.ReadCloser, name string) error {
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	stream, format, err := decode(bytes.NewReader(data), name)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.out.Lock()
	p.out.Clear()
	if p.stream != nil {
		_ = p.stream.Close()
	}
	p.out.Unlock()

	select {
	case <-p.finished:
	default:
	}

	p.name = name
	p.stream = stream
	p.format = format
	p.end = newEndNotifier(p.source(), p.signalFinished)
	p.ctrl = &beep.Ctrl{Streamer: p.end, Paused: true}
	p.vol = &effects.Volume{Streamer: p.ctrl, Base: 2}
	applyVolume(p.vol, p.volume)
	p.out.Lock()
	p.tap.Attach(p.vol)
	p.out.Unlock()
	p.out.Play(p.tap)
	return nil
}

// Name returns the loaded track name.
func (p *Player) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// Play resumes playback. A finished track restarts from the beginning.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	p.out.Lock()
	defer p.out.Unlock()
	if p.end.done() {
		p.seekLocked(0)
	}
	p.ctrl.Paused = false
}

// Pause stops playback at the current position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
}

// Toggle flips between playing and paused and reports the new state.
func (p *Player) Toggle() bool {
	if p.Playing() {
		p.Pause()
		return false
	}
	p.Play()
	return p.Playing()
}

// Playing reports whether audio is currently audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return false
	}
	p.out.Lock()
	defer p.out.Unlock()
	return !p.ctrl.Paused && !p.end.done()
}

// SeekFraction jumps to f of the track length, f clamped to [0,1].
func (p *Player) SeekFraction(f float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return fmt.Errorf("no track loaded")
	}
	f = math.Max(0, math.Min(1, f))
	p.out.Lock()
	defer p.out.Unlock()
	target := int(f * float64(p.stream.Len()))
	if target >= p.stream.Len() {
		target = max(p.stream.Len()-1, 0)
	}
	return p.seekLocked(target)
}

// SeekBy moves the position by d, clamped to the track.
func (p *Player) SeekBy(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return fmt.Errorf("no track loaded")
	}
	p.out.Lock()
	defer p.out.Unlock()
	target := p.stream.Position() + p.format.SampleRate.N(d)
	target = max(0, min(target, p.stream.Len()-1))
	return p.seekLocked(target)
}

// SetVolume sets linear volume in [0,1]; 0 is silent.
func (p *Player) SetVolume(v float64) {
	v = math.Max(0, math.Min(1, v))
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
	if p.vol == nil {
		return
	}
	p.out.Lock()
	applyVolume(p.vol, v)
	p.out.Unlock()
}

// Volume returns the linear volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Position returns the elapsed time of the loaded track.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return 0
	}
	p.out.Lock()
	defer p.out.Unlock()
	return p.format.SampleRate.D(p.stream.Position())
}

// Duration returns the length of the loaded track.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return 0
	}
	p.out.Lock()
	defer p.out.Unlock()
	return p.format.SampleRate.D(p.stream.Len())
}

// Finished signals each time a track plays to its end.
func (p *Player) Finished() <-chan struct{} {
	return p.finished
}

// Samples implements audio.SampleSource over the current track's tap.
func (p *Player) Samples(n int) []float64 {
	return p.tap.Samples(n)
}

// Close stops output and releases the track.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.out.Lock()
	p.out.Clear()
	p.tap.Attach(nil)
	p.out.Unlock()
	if p.stream == nil {
		return nil
	}
	err := p.stream.Close()
	p.stream = nil
	p.ctrl = nil
	return err
}

// source resamples the stream to the output rate. Must hold p.mu.
func (p *Player) source() beep.Streamer {
	if p.format.SampleRate == SampleRate {
		return p.stream
	}
	return beep.Resample(resampleQual, p.format.SampleRate, SampleRate, p.stream)
}

// seekLocked must hold p.mu and the output lock. The resampler is rebuilt so
// it does not carry buffered samples from the old position.
func (p *Player) seekLocked(sample int) error {
	if err := p.stream.Seek(sample); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.end.reset(p.source())
	p.tap.Reset()
	return nil
}

func (p *Player) signalFinished() {
	select {
	case p.finished <- struct{}{}:
	default:
	}
}

func applyVolume(v *effects.Volume, linear float64) {
	v.Silent = linear <= 0
	if linear > 0 {
		v.Volume = math.Log2(linear)
	}
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

func decode(r *bytes.Reader, name string) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".wav":
		s, f, err := wav.Decode(r)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode wav %s: %w", name, err)
		}
		return s, f, nil
	case ".mp3":
		s, f, err := mp3.Decode(readSeekNopCloser{r})
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode mp3 %s: %w", name, err)
		}
		return s, f, nil
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", ext)
	}
}
