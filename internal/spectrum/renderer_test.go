package spectrum

import (
	"context"
	"image/color"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/eqplayer/internal/testutil"
)

const (
	testWidth  = 640.0
	testHeight = 300.0
	testMidY   = testHeight * 0.75
	testBins   = 256
)

type fill struct {
	x, y, w, h float64
	c          color.RGBA
	alpha      float64
}

// recordingSurface records every draw call of a frame.
type recordingSurface struct {
	fills   []fill
	clears  int
	flushes int
}

func (s *recordingSurface) Width() float64  { return testWidth }
func (s *recordingSurface) Height() float64 { return testHeight }

func (s *recordingSurface) Clear() {
	s.clears++
	s.fills = nil
}

func (s *recordingSurface) FillRect(x, y, w, h float64, c color.RGBA, alpha float64) {
	s.fills = append(s.fills, fill{x: x, y: y, w: w, h: h, c: c, alpha: alpha})
}

func (s *recordingSurface) Flush() { s.flushes++ }

// levelAnalyser reports the same magnitude in every bin.
type levelAnalyser struct {
	level atomic.Int32
}

func (a *levelAnalyser) FrequencyBinCount() int { return testBins }

func (a *levelAnalyser) ByteFrequencyData(dst []byte) {
	v := byte(a.level.Load())
	for i := range dst {
		dst[i] = v
	}
}

func (a *levelAnalyser) Resume(context.Context) error { return nil }

func (a *levelAnalyser) set(v byte) { a.level.Store(int32(v)) }

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestRenderer(level byte) (*Renderer, *levelAnalyser, *recordingSurface, *fakeClock) {
	analyser := &levelAnalyser{}
	analyser.set(level)
	surface := &recordingSurface{}
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRenderer(analyser, surface, WithClock(clock.Now))
	return r, analyser, surface, clock
}

func TestFrame_SilenceDrawsOnlyPeakMarkers(t *testing.T) {
	r, _, surface, _ := newTestRenderer(0)

	r.Frame()

	assert.Equal(t, 1, surface.clears)
	assert.Equal(t, 1, surface.flushes)
	require.Len(t, surface.fills, VisibleBars)

	barWidth := (testWidth - 19*2) / 20
	for i, f := range surface.fills {
		assert.Equal(t, peakColor, f.c)
		assert.Equal(t, 1.0, f.alpha)
		assert.InDelta(t, float64(i)*(barWidth+1), f.x, 1e-9, "bar %d x", i)
		assert.InDelta(t, testMidY-10, f.y, 1e-9)
		assert.InDelta(t, barWidth-2, f.w, 1e-9)
		assert.Equal(t, 10.0, f.h)
	}
}

func TestFrame_FullScaleLayout(t *testing.T) {
	r, _, surface, _ := newTestRenderer(255)

	r.Frame()

	// smoothed 76.5 → height 122.4 → 10 stacked boxes, 1 peak, 5 reflected
	const perBar = 10 + 1 + 5
	require.Len(t, surface.fills, VisibleBars*perBar)

	bar := surface.fills[:perBar]

	stack := bar[:10]
	for j, f := range stack {
		assert.InDelta(t, testMidY-float64(j)*12-10, f.y, 1e-9, "stack box %d", j)
		assert.Equal(t, 1.0, f.alpha)
		assert.Equal(t, uint8(255), f.c.G|f.c.R)
		assert.Equal(t, uint8(0), f.c.B)
	}
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 0, A: 255}, stack[0].c)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 0, A: 255}, stack[5].c)

	peak := bar[10]
	assert.Equal(t, peakColor, peak.c)
	assert.InDelta(t, testMidY-10*12-10, peak.y, 1e-9)

	reflection := bar[11:]
	for j, f := range reflection {
		assert.InDelta(t, testMidY+float64(j)*12, f.y, 1e-9, "reflected box %d", j)
		assert.InDelta(t, 0.25*(1-float64(j)/5), f.alpha, 1e-9)
	}
	assert.Equal(t, color.RGBA{R: 0, G: 255, B: 0, A: 255}, reflection[0].c)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 0, A: 255}, reflection[2].c)
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, reflection[4].c)
}

func TestFrame_FrequencyEmphasis(t *testing.T) {
	r, _, _, _ := newTestRenderer(100)

	r.Frame()
	bars := r.Bars()

	// Bar 9 maps to bucket 0 (no boost), bar 0 to bucket 9 (1.45x)
	assert.InDelta(t, 0.3*100, bars[9].Smoothed, 1e-9)
	assert.InDelta(t, 0.3*145, bars[0].Smoothed, 1e-9)
	assert.InDelta(t, bars[0].Smoothed, bars[19].Smoothed, 1e-9)
	assert.InDelta(t, bars[9].Smoothed, bars[10].Smoothed, 1e-9)
	assert.InDelta(t, bars[9].Smoothed*1.6, bars[9].Height, 1e-9)
}

func TestFrame_EmphasisClampsToMaxMagnitude(t *testing.T) {
	r, _, _, _ := newTestRenderer(250)

	r.Frame()

	// 250 * 1.45 would exceed 255
	assert.InDelta(t, 0.3*255, r.Bars()[0].Smoothed, 1e-9)
}

func TestFrame_SmoothingConverges(t *testing.T) {
	const level = 200.0
	r, _, _, _ := newTestRenderer(byte(level))

	prev := 0.0
	for range 15 {
		r.Frame()
		got := r.Bars()[9].Smoothed
		assert.Greater(t, got, prev)
		assert.LessOrEqual(t, got, level)
		prev = got
	}

	assert.InDelta(t, level, prev, level*0.01)
}

func TestFrame_PeakHoldThenLinearFall(t *testing.T) {
	r, analyser, _, clock := newTestRenderer(255)

	r.Frame()
	spike := r.Bars()[9].Peak
	require.InDelta(t, 122.4, spike, 1e-9)

	analyser.set(0)

	// Inside the hold window the peak does not move.
	for range 8 {
		clock.advance(100 * time.Millisecond)
		r.Frame()
		assert.Equal(t, spike, r.Bars()[9].Peak)
	}

	// After the window the peak falls by 12 per frame until it meets the bar.
	prev := spike
	reachedBar := false
	for range 20 {
		clock.advance(100 * time.Millisecond)
		r.Frame()
		bar := r.Bars()[9]
		assert.GreaterOrEqual(t, bar.Peak, bar.Height)
		if bar.Peak == bar.Height {
			reachedBar = true
		} else {
			assert.InDelta(t, prev-12, bar.Peak, 1e-9)
		}
		prev = bar.Peak
	}
	assert.True(t, reachedBar)
}

func TestUpdatePeak(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bar := BarState{}

	bar.updatePeak(30, start)
	assert.Equal(t, 30.0, bar.Peak)
	assert.Equal(t, start, bar.PeakAt)

	// Exactly at the hold boundary nothing happens.
	bar.updatePeak(25, start.Add(800*time.Millisecond))
	assert.Equal(t, 30.0, bar.Peak)

	// Fall is floored at the current bar height.
	bar.updatePeak(25, start.Add(801*time.Millisecond))
	assert.Equal(t, 25.0, bar.Peak)

	// A higher bar raises the peak and restarts the hold.
	later := start.Add(2 * time.Second)
	bar.updatePeak(50, later)
	assert.Equal(t, 50.0, bar.Peak)
	assert.Equal(t, later, bar.PeakAt)
}

func TestUpdatePeak_ZeroTimestampDecaysImmediately(t *testing.T) {
	bar := BarState{Peak: 40}
	bar.updatePeak(10, time.Now())
	assert.Equal(t, 28.0, bar.Peak)
}

func TestFrame_EmptySnapshotIsSafe(t *testing.T) {
	surface := &recordingSurface{}
	r := NewRenderer(emptyAnalyser{}, surface)

	assert.NotPanics(t, r.Frame)
	assert.Len(t, surface.fills, VisibleBars)
}

type emptyAnalyser struct{}

func (emptyAnalyser) FrequencyBinCount() int        { return 0 }
func (emptyAnalyser) ByteFrequencyData([]byte)      {}
func (emptyAnalyser) Resume(context.Context) error { return nil }

func TestRun_StopsOnCancel(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	analyser := &levelAnalyser{}
	var frames atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	r := NewRenderer(analyser, &recordingSurface{},
		WithFrameInterval(time.Millisecond),
		WithFrameHook(func() {
			if frames.Add(1) == 3 {
				cancel()
			}
		}),
	)

	err := r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(3), frames.Load())
}

func TestRun_StopCondition(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	var frames atomic.Int32
	r := NewRenderer(&levelAnalyser{}, &recordingSurface{},
		WithFrameInterval(time.Millisecond),
		WithFrameHook(func() { frames.Add(1) }),
		WithStopCondition(func() bool { return frames.Load() >= 5 }),
	)

	err := r.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int32(5), frames.Load())
}
