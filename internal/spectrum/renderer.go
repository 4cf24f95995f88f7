// Package spectrum renders the mirrored, peak-holding bar equalizer.
//
// Each frame pulls a byte magnitude snapshot from the analyser, maps it onto
// VisibleBars mirrored buckets, smooths and scales the values, and paints
// stacked boxes, a peak marker and a faded reflection on a Surface.
package spectrum

import (
	"context"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// Rendering constants.
const (
	VisibleBars = 20

	barGap    = 2.0
	boxHeight = 10.0
	boxGap    = 2.0
	boxStep   = boxHeight + boxGap

	maxMagnitude    = 255.0
	smoothingFactor = 0.7
	heightScale     = 1.6
	midlineRatio    = 0.75

	peakHoldDuration = 800 * time.Millisecond
	peakFallSpeed    = 12.0

	reflectionScale = 0.5
	reflectionAlpha = 0.25

	// DefaultFrameInterval approximates a 60 Hz display refresh.
	DefaultFrameInterval = time.Second / 60
)

var peakColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}

// flusher is implemented by surfaces that publish a finished frame.
type flusher interface {
	Flush()
}

// BarState is the per-bar state the renderer carries across frames.
type BarState struct {
	Smoothed float64   // exponentially smoothed magnitude
	Height   float64   // pixel height of the last frame
	Peak     float64   // held peak height in pixels
	PeakAt   time.Time // when Peak was last raised
}

// updatePeak raises the peak immediately and lets it fall linearly
// once it has been held for peakHoldDuration, never below height.
func (b *BarState) updatePeak(height float64, now time.Time) {
	switch {
	case height > b.Peak:
		b.Peak = height
		b.PeakAt = now
	case now.Sub(b.PeakAt) > peakHoldDuration:
		b.Peak = math.Max(b.Peak-peakFallSpeed, height)
	}
}

// Renderer owns the bar state and paints frames on a surface.
type Renderer struct {
	analyser ports.Analyser
	surface  ports.Surface

	now      func() time.Time
	interval time.Duration
	onFrame  func()
	stopWhen func() bool

	mu   sync.Mutex
	data []byte
	bars [VisibleBars]BarState
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces the wall clock used for peak-hold timing.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// WithFrameInterval sets the delay between frames in Run.
func WithFrameInterval(d time.Duration) Option {
	return func(r *Renderer) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithFrameHook registers a function called after every frame painted by Run.
func WithFrameHook(fn func()) Option {
	return func(r *Renderer) {
		r.onFrame = fn
	}
}

// WithStopCondition sets the condition Run checks before each frame.
func WithStopCondition(fn func() bool) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.stopWhen = fn
		}
	}
}

// NewRenderer creates a renderer reading from analyser and painting on surface.
// The snapshot size is fixed to the analyser's bin count at construction.
func NewRenderer(analyser ports.Analyser, surface ports.Surface, opts ...Option) *Renderer {
	r := &Renderer{
		analyser: analyser,
		surface:  surface,
		now:      time.Now,
		interval: DefaultFrameInterval,
		stopWhen: func() bool { return false },
		data:     make([]byte, analyser.FrequencyBinCount()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bars returns a copy of the current bar state.
func (r *Renderer) Bars() [VisibleBars]BarState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bars
}

// Run paints a frame, waits one interval, and repeats until ctx is done
// or the stop condition holds. It returns ctx.Err() on cancellation and nil
// when stopped by the condition.
func (r *Renderer) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.stopWhen() {
			return nil
		}

		r.Frame()
		if r.onFrame != nil {
			r.onFrame()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Frame renders a single frame.
func (r *Renderer) Frame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.analyser.ByteFrequencyData(r.data)
	r.surface.Clear()

	barWidth := (r.surface.Width() - (VisibleBars-1)*barGap) / VisibleBars
	midY := r.surface.Height() * midlineRatio

	x := 0.0
	for i := range VisibleBars {
		mirror := MirrorIndex(i)
		raw := math.Min(maxMagnitude, r.bucketAverage(mirror)*emphasis(mirror))

		bar := &r.bars[i]
		bar.Smoothed = smoothingFactor*bar.Smoothed + (1-smoothingFactor)*raw
		bar.Height = bar.Smoothed * heightScale
		bar.updatePeak(bar.Height, now)

		r.drawStack(x, midY, barWidth, bar.Height)
		r.drawPeak(x, midY, barWidth, bar.Peak)
		r.drawReflection(x, midY, barWidth, bar.Height)

		x += barWidth + 1
	}

	if f, ok := r.surface.(flusher); ok {
		f.Flush()
	}
}

func (r *Renderer) bucketAverage(mirror int) float64 {
	start, end := BucketBounds(mirror, len(r.data))
	if end <= start {
		return 0
	}
	sum := 0
	for _, v := range r.data[start:end] {
		sum += int(v)
	}
	return float64(sum) / float64(end-start)
}

// drawStack paints boxes upward from the midline.
func (r *Renderer) drawStack(x, midY, barWidth, height float64) {
	boxes := boxCount(height)
	for j := range boxes {
		y := midY - float64(j)*boxStep - boxHeight
		ratio := float64(j) / float64(max(boxes, 1))
		r.surface.FillRect(x, y, barWidth-2, boxHeight, BoxColor(ratio), 1)
	}
}

// drawPeak paints the red marker at the box slot of the held peak.
func (r *Renderer) drawPeak(x, midY, barWidth, peak float64) {
	y := midY - float64(boxCount(peak))*boxStep - boxHeight
	r.surface.FillRect(x, y, barWidth-2, boxHeight, peakColor, 1)
}

// drawReflection paints the faded mirror below the midline.
// The color ratio spans reflected-1 boxes while the fade spans reflected boxes.
func (r *Renderer) drawReflection(x, midY, barWidth, height float64) {
	reflected := boxCount(height * reflectionScale)
	for j := range reflected {
		y := midY + float64(j)*boxStep
		ratio := float64(j) / float64(max(reflected-1, 1))
		alpha := reflectionAlpha * (1 - float64(j)/float64(reflected))
		r.surface.FillRect(x, y, barWidth-2, boxHeight, BoxColor(ratio), alpha)
	}
}
