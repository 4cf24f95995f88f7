package terminal

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// renderFrame downsamples img into cols x rows terminal cells. Each cell
// shows two vertical samples with an upper half block: the foreground is the
// upper sample and the background the lower one. Transparent pixels blend
// into bg.
func renderFrame(img *image.RGBA, cols, rows int, bg color.RGBA) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	bounds := img.Bounds()
	sample := func(col, halfRow int) color.RGBA {
		x := bounds.Min.X + (2*col+1)*bounds.Dx()/(2*cols)
		y := bounds.Min.Y + (2*halfRow+1)*bounds.Dy()/(4*rows)
		return blend(img.RGBAAt(x, y), bg)
	}

	var b strings.Builder
	for row := range rows {
		for col := range cols {
			top := sample(col, 2*row)
			bottom := sample(col, 2*row+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render(halfBlock))
		}
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// blend composites a premultiplied pixel over an opaque background.
func blend(px color.RGBA, bg color.RGBA) color.RGBA {
	inv := 255 - uint32(px.A)
	return color.RGBA{
		R: uint8(uint32(px.R) + uint32(bg.R)*inv/255),
		G: uint8(uint32(px.G) + uint32(bg.G)*inv/255),
		B: uint8(uint32(px.B) + uint32(bg.B)*inv/255),
		A: 255,
	}
}
