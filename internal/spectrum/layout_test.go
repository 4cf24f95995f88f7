package spectrum

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMirrorIndex_Boundaries(t *testing.T) {
	assert.Equal(t, 9, MirrorIndex(0))
	assert.Equal(t, 0, MirrorIndex(9))
	assert.Equal(t, 0, MirrorIndex(10))
	assert.Equal(t, 9, MirrorIndex(19))
}

func TestMirrorIndex_Symmetry(t *testing.T) {
	for i := 0; i <= 9; i++ {
		assert.Equal(t, 9-i, MirrorIndex(i), "bar %d", i)
	}
	for i := 10; i < VisibleBars; i++ {
		assert.Equal(t, i-10, MirrorIndex(i), "bar %d", i)
	}
	for i := range VisibleBars / 2 {
		assert.Equal(t, MirrorIndex(i), MirrorIndex(VisibleBars-1-i))
	}
}

func TestBucketBounds(t *testing.T) {
	tests := []struct {
		mirror, bins int
		start, end   int
	}{
		{0, 256, 0, 25},
		{1, 256, 25, 51},
		{9, 256, 230, 256},
		{0, 10, 0, 1},
		{3, 5, 1, 2},
	}

	for _, tt := range tests {
		start, end := BucketBounds(tt.mirror, tt.bins)
		assert.Equal(t, tt.start, start, "mirror %d bins %d", tt.mirror, tt.bins)
		assert.Equal(t, tt.end, end, "mirror %d bins %d", tt.mirror, tt.bins)
	}
}

func TestBucketBounds_CoverAllBins(t *testing.T) {
	const bins = 256
	next := 0
	for m := range VisibleBars / 2 {
		start, end := BucketBounds(m, bins)
		assert.Equal(t, next, start)
		assert.Greater(t, end, start)
		next = end
	}
	assert.Equal(t, bins, next)
}

func TestEmphasis(t *testing.T) {
	assert.Equal(t, 1.0, emphasis(0))
	assert.InDelta(t, 1.45, emphasis(9), 1e-12)
}

func TestBoxColor(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  color.RGBA
	}{
		{"green at bottom", 0, color.RGBA{R: 0, G: 255, B: 0, A: 255}},
		{"floored quarter", 0.25, color.RGBA{R: 127, G: 255, B: 0, A: 255}},
		{"yellow at half", 0.5, color.RGBA{R: 255, G: 255, B: 0, A: 255}},
		{"floored three quarters", 0.75, color.RGBA{R: 255, G: 127, B: 0, A: 255}},
		{"red at top", 1.0, color.RGBA{R: 255, G: 0, B: 0, A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BoxColor(tt.ratio))
		})
	}
}

func TestBoxCount(t *testing.T) {
	assert.Equal(t, 0, boxCount(0))
	assert.Equal(t, 0, boxCount(11.99))
	assert.Equal(t, 1, boxCount(12))
	assert.Equal(t, 10, boxCount(122.4))
}
