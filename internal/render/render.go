// Package render draws the watch face into a 1-bit framebuffer.
//
// The canvas is the 144x168 WV-58A layout. Ink is image1bit.Off
// on an image1bit.On background; inversion flips every pixel as the last step,
// the same way an inverter layer on top of the whole window would.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Frame is everything one redraw needs.
type Frame struct {
	State     engine.DisplayState
	Battery   engine.BatteryState
	Connected bool
	Invert    bool
}

var (
	ink   = &image.Uniform{C: image1bit.Off}
	paper = &image.Uniform{C: image1bit.On}
)

// Bounds returns the canvas rectangle.
func Bounds() image.Rectangle {
	return image.Rect(0, 0, config.CanvasWidth, config.CanvasHeight)
}

// Render draws f onto a fresh canvas.
func Render(f Frame) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(Bounds())
	RenderInto(img, f)
	return img
}

// RenderInto redraws f onto img, which must cover Bounds().
func RenderInto(img *image1bit.VerticalLSB, f Frame) {
	draw.Draw(img, img.Bounds(), paper, image.Point{}, draw.Src)
	drawBackground(img)

	st := f.State
	drawText(img, rect(config.RectDate), st.DateText, config.TextScaleS)
	drawText(img, rect(config.RectYear), st.Year, config.TextScaleS)
	drawText(img, rect(config.RectTime), st.Time, config.TextScaleL)
	drawText(img, rect(config.RectSeconds), st.Seconds, config.TextScaleS)
	drawText(img, rect(config.RectWeekday), st.Weekday, config.TextScaleDay)

	if st.AMVisible {
		stamp(img, rect(config.RectAM).Min, glyphAM)
	}
	if st.PMVisible {
		stamp(img, rect(config.RectPM).Min, glyphPM)
	}
	if st.DSTVisible {
		r := rect(config.RectDST)
		draw.DrawMask(img, r, ink, image.Point{}, sheet, dstSpriteOrigin, draw.Over)
	}

	idx := engine.BatterySpriteIndex(f.Battery)
	r := rect(config.RectBattery)
	draw.DrawMask(img, r, ink, image.Point{}, sheet, image.Pt(0, idx*config.BatterySpriteHeight), draw.Over)

	if f.Connected {
		stamp(img, rect(config.RectRadio).Min, glyphRadio)
	}

	if f.Invert {
		invert(img)
	}
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrEncodePNG, err)
	}
	return buf.Bytes(), nil
}

func rect(r [4]int) image.Rectangle {
	return image.Rect(r[0], r[1], r[0]+r[2], r[1]+r[3])
}

// drawBackground draws the fixed LCD frame: an outer border and the rule
// between the date row and the time.
func drawBackground(img draw.Image) {
	b := img.Bounds()
	hline(img, b.Min.X, b.Max.X-1, b.Min.Y)
	hline(img, b.Min.X, b.Max.X-1, b.Max.Y-1)
	vline(img, b.Min.X, b.Min.Y, b.Max.Y-1)
	vline(img, b.Max.X-1, b.Min.Y, b.Max.Y-1)
	hline(img, b.Min.X+2, b.Max.X-3, 42)
	hline(img, b.Min.X+2, b.Max.X-3, 122)
}

// drawText renders s with the 7x13 base font, scales it by scale and centers
// it in r. Text wider than r is clipped on the right.
func drawText(img draw.Image, r image.Rectangle, s string, scale int) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Height
	if w <= 0 {
		return
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	sw, sh := w*scale, h*scale
	scaled := image.NewAlpha(image.Rect(0, 0, sw, sh))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)

	x := r.Min.X + max((r.Dx()-sw)/2, 0)
	y := r.Min.Y + max((r.Dy()-sh)/2, 0)
	target := image.Rect(x, y, x+sw, y+sh).Intersect(r)
	draw.DrawMask(img, target, ink, image.Point{}, scaled, image.Point{}, draw.Over)
}

func invert(img *image1bit.VerticalLSB) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetBit(x, y, !img.BitAt(x, y))
		}
	}
}

func hline(img draw.Image, x0, x1, y int) {
	for x := x0; x <= x1; x++ {
		img.Set(x, y, image1bit.Off)
	}
}

func vline(img draw.Image, x, y0, y1 int) {
	for y := y0; y <= y1; y++ {
		img.Set(x, y, image1bit.Off)
	}
}
