package player

import (
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output is the audio device the player streams to.
type Output interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

// Speaker is the default sound card output.
type Speaker struct{}

// Init implements Output.
func (Speaker) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

// Play implements Output.
func (Speaker) Play(s beep.Streamer) { speaker.Play(s) }

// Clear implements Output.
func (Speaker) Clear() { speaker.Clear() }

// Lock implements Output.
func (Speaker) Lock() { speaker.Lock() }

// Unlock implements Output.
func (Speaker) Unlock() { speaker.Unlock() }
