// Package contrast picks legible text colours against slide backgrounds,
// including backgrounds that are photographs.
package contrast

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/flanksource/commons/logger"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/model"
)

var log = logger.GetLogger("contrast")

// sample point weights; they sum to 10
const (
	centerWeight = 3.0
	cornerWeight = 1.0
	edgeWeight   = 1.5
	window       = 2 // 5x5 neighbourhood
)

// Engine is immutable and safe for concurrent use.
type Engine struct {
	cfg config.Contrast
}

func New(cfg config.Contrast) *Engine {
	return &Engine{cfg: cfg}
}

// ExtractBackgroundColor decodes data and returns its weighted dominant
// colour. Undecodable data yields the configured fallback gray.
func (e *Engine) ExtractBackgroundColor(data []byte) model.RGB {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("background decode failed, using %s: %v", e.cfg.Fallback, err)
		return e.cfg.Fallback
	}
	log.Debugf("sampling %s background %dx%d", format, img.Bounds().Dx(), img.Bounds().Dy())
	return e.Sample(img)
}

// Sample averages seven weighted points of img: the center, the four
// corners and the midpoints of the top and bottom edges.
func (e *Engine) Sample(img image.Image) model.RGB {
	b := img.Bounds()
	if b.Empty() {
		return e.cfg.Fallback
	}
	if edge := max(b.Dx(), b.Dy()); e.cfg.MaxSampleEdge > 0 && edge > e.cfg.MaxSampleEdge {
		img = downscale(img, float64(e.cfg.MaxSampleEdge)/float64(edge))
		b = img.Bounds()
	}

	cx := b.Min.X + b.Dx()/2
	cy := b.Min.Y + b.Dy()/2
	left, right := b.Min.X, b.Max.X-1
	top, bottom := b.Min.Y, b.Max.Y-1

	points := []struct {
		x, y   int
		weight float64
	}{
		{cx, cy, centerWeight},
		{left, top, cornerWeight},
		{right, top, cornerWeight},
		{left, bottom, cornerWeight},
		{right, bottom, cornerWeight},
		{cx, top, edgeWeight},
		{cx, bottom, edgeWeight},
	}

	var r, g, bl, total float64
	for _, p := range points {
		pr, pg, pb := neighbourhood(img, p.x, p.y)
		r += pr * p.weight
		g += pg * p.weight
		bl += pb * p.weight
		total += p.weight
	}
	return model.RGB{R: channel(r / total), G: channel(g / total), B: channel(bl / total)}
}

func downscale(img image.Image, factor float64) image.Image {
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// neighbourhood averages the window around (x, y), clamped to the bounds,
// in 8-bit channel units.
func neighbourhood(img image.Image, x, y int) (float64, float64, float64) {
	b := img.Bounds()
	var r, g, bl, n float64
	for dy := -window; dy <= window; dy++ {
		for dx := -window; dx <= window; dx++ {
			px := clamp(x+dx, b.Min.X, b.Max.X-1)
			py := clamp(y+dy, b.Min.Y, b.Max.Y-1)
			cr, cg, cb, _ := img.At(px, py).RGBA()
			r += float64(cr >> 8)
			g += float64(cg >> 8)
			bl += float64(cb >> 8)
			n++
		}
	}
	return r / n, g / n, bl / n
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// RelativeLuminance is the WCAG 2 relative luminance of c, from 0 to 1.
func RelativeLuminance(c model.RGB) float64 {
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

func linear(v uint8) float64 {
	c := float64(v) / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// TextColor returns the light colour for dark backgrounds and the dark
// colour otherwise.
func (e *Engine) TextColor(bg model.RGB) model.RGB {
	if RelativeLuminance(bg) < e.cfg.Threshold {
		return e.cfg.Light
	}
	return e.cfg.Dark
}

// Scheme fills in the scheme's derived contrast colour.
func (e *Engine) Scheme(s model.ColorScheme) model.ColorScheme {
	s.Contrast = e.TextColor(s.Background)
	return s
}

// Blend returns the colour seen when overlay is drawn over base with the
// given opacity.
func Blend(base, overlay model.RGB, alpha float64) model.RGB {
	alpha = math.Max(0, math.Min(1, alpha))
	mix := func(b, o uint8) uint8 {
		return channel(float64(o)*alpha + float64(b)*(1-alpha))
	}
	return model.RGB{R: mix(base.R, overlay.R), G: mix(base.G, overlay.G), B: mix(base.B, overlay.B)}
}

// ContrastRatio is the WCAG contrast ratio between two colours, from 1 to 21.
func ContrastRatio(a, b model.RGB) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}
