package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	// FFTSize is the analysis window length.
	FFTSize = 256
	// Bins is the number of usable frequency bins.
	Bins = FFTSize / 2

	minDecibels = -100.0
	maxDecibels = -30.0

	bassEnd = 10
	midEnd  = 100
)

// SampleSource supplies the most recent mono samples.
type SampleSource interface {
	Samples(n int) []float64
}

// Bands are average levels over the low, mid and high bins, each in [0,1].
type Bands struct {
	Bass float64
	Mid  float64
	High float64
}

// Overall is the mean of the three bands.
func (b Bands) Overall() float64 {
	return (b.Bass + b.Mid + b.High) / 3
}

// Analyzer computes spectrum levels from a SampleSource. Levels map bin
// magnitudes from [-100dB, -30dB] to [0,1].
type Analyzer struct {
	src    SampleSource
	active func() bool
}

// NewAnalyzer returns an analyzer over src. When active is non-nil and
// reports false, every reading is silent.
func NewAnalyzer(src SampleSource, active func() bool) *Analyzer {
	return &Analyzer{src: src, active: active}
}

// Spectrum returns Bins levels in [0,1], all zero when nothing is playing.
func (a *Analyzer) Spectrum() []float64 {
	levels := make([]float64, Bins)
	if a == nil || a.src == nil || (a.active != nil && !a.active()) {
		return levels
	}
	samples := a.src.Samples(FFTSize)
	if len(samples) < FFTSize {
		return levels
	}

	window.Apply(samples, window.Hann)
	coeffs := fft.FFTReal(samples)
	for i := range levels {
		mag := cmplx.Abs(coeffs[i]) / FFTSize
		if mag <= 0 {
			continue
		}
		db := 20 * math.Log10(mag)
		levels[i] = clamp01((db - minDecibels) / (maxDecibels - minDecibels))
	}
	return levels
}

// Levels resamples the spectrum to n bars; bar i reads bin floor(i*Bins/n).
func (a *Analyzer) Levels(n int) []float64 {
	if n <= 0 {
		return nil
	}
	return resample(a.Spectrum(), n)
}

// Bands averages the spectrum over bins [0,10], [10,100] and [100,127].
func (a *Analyzer) Bands() Bands {
	return bandsOf(a.Spectrum())
}

// Energy implements circuit.EnergySource.
func (a *Analyzer) Energy() float64 {
	return a.Bands().Overall()
}

func resample(spectrum []float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = spectrum[i*len(spectrum)/n]
	}
	return out
}

func bandsOf(spectrum []float64) Bands {
	return Bands{
		Bass: average(spectrum, 0, bassEnd),
		Mid:  average(spectrum, bassEnd, midEnd),
		High: average(spectrum, midEnd, len(spectrum)-1),
	}
}

// average is inclusive of both ends.
func average(values []float64, start, end int) float64 {
	sum, count := 0.0, 0
	for i := start; i <= end && i < len(values); i++ {
		sum += values[i]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
