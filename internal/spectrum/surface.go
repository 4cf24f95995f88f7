package spectrum

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"

	"github.com/tejashwikalptaru/eqplayer/internal/ports"
)

// ImageSurface is a fixed-size RGBA drawing surface.
// Rectangles are rasterized with sub-pixel coverage so fractional bar widths
// blend into their edge pixels.
//
// Drawing goes to a back buffer; Flush publishes it and Snapshot reads the
// published frame, so readers never see a half-painted frame.
type ImageSurface struct {
	mu     sync.Mutex
	img    *image.RGBA
	front  *image.RGBA
	raster *vector.Rasterizer
}

// NewImageSurface creates a transparent surface of the given pixel size.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		front:  image.NewRGBA(image.Rect(0, 0, width, height)),
		raster: vector.NewRasterizer(width, height),
	}
}

// Width returns the surface width in pixels.
func (s *ImageSurface) Width() float64 {
	return float64(s.img.Rect.Dx())
}

// Height returns the surface height in pixels.
func (s *ImageSurface) Height() float64 {
	return float64(s.img.Rect.Dy())
}

// Clear makes every pixel transparent.
func (s *ImageSurface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	draw.Draw(s.img, s.img.Rect, image.Transparent, image.Point{}, draw.Src)
}

// FillRect composites a rectangle over the existing pixels.
// Parts outside the surface are clipped.
func (s *ImageSurface) FillRect(x, y, w, h float64, c color.RGBA, alpha float64) {
	if w <= 0 || h <= 0 || alpha <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outer := image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(x+w)), int(math.Ceil(y+h)),
	)
	clip := outer.Intersect(s.img.Rect)
	if clip.Empty() {
		return
	}

	// Rasterizer coordinates are local to clip.
	x0 := float32(math.Max(x, float64(clip.Min.X)) - float64(clip.Min.X))
	y0 := float32(math.Max(y, float64(clip.Min.Y)) - float64(clip.Min.Y))
	x1 := float32(math.Min(x+w, float64(clip.Max.X)) - float64(clip.Min.X))
	y1 := float32(math.Min(y+h, float64(clip.Max.Y)) - float64(clip.Min.Y))

	s.raster.Reset(clip.Dx(), clip.Dy())
	s.raster.DrawOp = draw.Over
	s.raster.MoveTo(x0, y0)
	s.raster.LineTo(x1, y0)
	s.raster.LineTo(x1, y1)
	s.raster.LineTo(x0, y1)
	s.raster.ClosePath()

	a := math.Min(alpha, 1) * float64(c.A)
	src := image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a))})
	s.raster.Draw(s.img, clip, src, image.Point{})
}

// Flush publishes the back buffer.
func (s *ImageSurface) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.front.Pix, s.img.Pix)
}

// Snapshot returns a copy of the last published frame.
func (s *ImageSurface) Snapshot() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := image.NewRGBA(s.front.Rect)
	copy(out.Pix, s.front.Pix)
	return out
}

var _ ports.Surface = (*ImageSurface)(nil)
