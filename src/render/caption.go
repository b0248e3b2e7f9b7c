package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawCaption draws a small footnote onto img near the bottom-left corner.
// The 7x13 bitmap face is drawn at 1x and scaled up by dpi/96 so the text
// keeps roughly the same physical size at any resolution.
func drawCaption(img image.Image, text string, dpi float64) image.Image {
	text = strings.TrimSpace(text)
	if img == nil || text == "" {
		return img
	}
	face := basicfont.Face7x13
	pad := 3
	dr := &font.Drawer{Face: face}
	tw := dr.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()

	// Label at 1x: light translucent box, dark text.
	label := image.NewRGBA(image.Rect(0, 0, tw+2*pad, ascent+descent+2*pad))
	draw.Draw(label, label.Bounds(), image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 220}), image.Point{}, draw.Src)
	dr.Dst = label
	dr.Src = image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255})
	dr.Dot = fixed.Point26_6{X: fixed.I(pad), Y: fixed.I(pad + ascent)}
	dr.DrawString(text)

	scale := int(math.Round(dpi / 96))
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	lw, lh := label.Bounds().Dx()*scale, label.Bounds().Dy()*scale
	margin := 4 * scale
	dst := image.Rect(b.Min.X+margin, b.Max.Y-margin-lh, b.Min.X+margin+lw, b.Max.Y-margin)
	xdraw.NearestNeighbor.Scale(out, dst, label, label.Bounds(), xdraw.Over, nil)
	return out
}
