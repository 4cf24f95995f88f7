package spectrum

import (
	"image/color"
	"math"
)

// MirrorIndex maps a bar position to its frequency bucket.
// The left half runs high to low (9..0), the right half low to high (0..9),
// which gives a symmetric low→high→low layout across the bars.
func MirrorIndex(i int) int {
	center := float64(VisibleBars-1) / 2
	if float64(i) <= center {
		return int(math.Floor(center)) - i
	}
	return i - int(math.Ceil(center))
}

// BucketBounds returns the half-open range [start, end) of frequency bins
// averaged into the bucket at mirrorIndex, for a snapshot of binCount bins.
func BucketBounds(mirrorIndex, binCount int) (start, end int) {
	buckets := VisibleBars / 2
	start = mirrorIndex * binCount / buckets
	end = (mirrorIndex + 1) * binCount / buckets
	return start, end
}

// emphasis boosts higher mapped frequencies, up to 1.5x for the last bucket.
func emphasis(mirrorIndex int) float64 {
	return 1 + (float64(mirrorIndex)/float64(VisibleBars/2))*0.5
}

// BoxColor returns the green→yellow→red color of a box at the given
// position ratio within its stack. Components are floored.
func BoxColor(ratio float64) color.RGBA {
	if ratio < 0.5 {
		return color.RGBA{R: uint8(math.Floor(255 * (ratio * 2))), G: 255, B: 0, A: 255}
	}
	return color.RGBA{R: 255, G: uint8(math.Floor(255 * (1 - (ratio-0.5)*2))), B: 0, A: 255}
}

// boxCount is how many whole boxes (with their gaps) fit in a pixel height.
func boxCount(height float64) int {
	return int(math.Floor(height / boxStep))
}
