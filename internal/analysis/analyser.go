// Package analysis turns recent output samples into the byte magnitude
// snapshots the spectrum renderer consumes.
//
// The scaling follows the usual browser analyser node: a Blackman window,
// a real FFT, magnitudes normalized by the window size, exponential smoothing
// over time, and a linear map of decibels onto 0..255.
package analysis

import (
	"context"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// Defaults match the player's analyser configuration.
const (
	DefaultFFTSize   = 512
	DefaultSmoothing = 0.6
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// SampleSource provides the most recent mono samples.
type SampleSource interface {
	Latest(dst []float64) int
}

// Analyser computes frequency snapshots from a SampleSource.
// It starts suspended and reports silence until Resume succeeds.
type Analyser struct {
	source    SampleSource
	size      int
	smoothing float64
	minDB     float64
	maxDB     float64
	onResume  func(ctx context.Context) error

	mu       sync.Mutex
	running  bool
	coeffs   []float64
	samples  []float64
	smoothed []float64
}

// Option configures an Analyser.
type Option func(*Analyser)

// WithFFTSize sets the transform size. Non power-of-two sizes are ignored.
func WithFFTSize(n int) Option {
	return func(a *Analyser) {
		if n >= 32 && n&(n-1) == 0 {
			a.size = n
		}
	}
}

// WithSmoothing sets the time constant in [0, 1).
func WithSmoothing(s float64) Option {
	return func(a *Analyser) {
		if s >= 0 && s < 1 {
			a.smoothing = s
		}
	}
}

// WithDecibelRange sets the range mapped onto 0..255.
func WithDecibelRange(minDB, maxDB float64) Option {
	return func(a *Analyser) {
		if minDB < maxDB {
			a.minDB = minDB
			a.maxDB = maxDB
		}
	}
}

// WithResumeHook registers a function run by Resume before the analyser
// starts reporting, typically resuming the output device.
func WithResumeHook(fn func(ctx context.Context) error) Option {
	return func(a *Analyser) {
		a.onResume = fn
	}
}

// NewAnalyser creates a suspended analyser reading from source.
func NewAnalyser(source SampleSource, opts ...Option) *Analyser {
	a := &Analyser{
		source:    source,
		size:      DefaultFFTSize,
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.coeffs = window.Blackman(a.size)
	a.samples = make([]float64, a.size)
	a.smoothed = make([]float64, a.size/2)
	return a
}

// FrequencyBinCount returns half the FFT size.
func (a *Analyser) FrequencyBinCount() int {
	return a.size / 2
}

// Resume runs the resume hook and starts reporting.
func (a *Analyser) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.onResume != nil {
		if err := a.onResume(ctx); err != nil {
			return err
		}
	}

	a.mu.Lock()
	a.running = true
	a.mu.Unlock()
	return nil
}

// Suspend stops reporting and forgets the smoothing history.
func (a *Analyser) Suspend() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running = false
	clear(a.smoothed)
}

// Running reports whether the analyser has been resumed.
func (a *Analyser) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// ByteFrequencyData fills dst with the current magnitude of each bin.
// Bins beyond FrequencyBinCount are zeroed.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	clear(dst)
	if !a.running {
		return
	}

	a.source.Latest(a.samples)
	for i, c := range a.coeffs {
		a.samples[i] *= c
	}
	spectrum := fft.FFTReal(a.samples)

	n := float64(a.size)
	scale := 255 / (a.maxDB - a.minDB)
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / n
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k >= len(dst) {
			continue
		}
		dst[k] = toByte(scale * (20*math.Log10(a.smoothed[k]) - a.minDB))
	}
}

func toByte(v float64) byte {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(math.Floor(v))
	}
}

var _ ports.Analyser = (*Analyser)(nil)
