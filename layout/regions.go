package layout

import (
	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
)

// Region names a rectangle of a template.
type Region string

const (
	RegionCanvas      Region = "canvas"
	RegionTitle       Region = "title"
	RegionSubtitle    Region = "subtitle"
	RegionBody        Region = "body"
	RegionLeft        Region = "left"
	RegionRight       Region = "right"
	RegionMedia       Region = "media"
	RegionText        Region = "text"
	RegionCenter      Region = "center"
	RegionGlyph       Region = "glyph"
	RegionAttribution Region = "attribution"
)

// media sizes in inches
const (
	mediaOnlyW, mediaOnlyH   = 7.0, 4.5
	mediaSmallW, mediaSmallH = 3.0, 2.5
	mediaW, mediaH           = 4.0, 3.0
	longTextChars            = 200
)

const (
	titleHeight  = 1.2
	titleGap     = 0.1
	columnGap    = 0.3
	badgeSize    = 0.9
	glyphSize    = 1.2
	attribHeight = 0.6
)

// Smallest content area the templates are laid out for, and the slide size
// bounds a package may declare, in inches.
const (
	minContentW  = 3.0
	minContentH  = 3.0
	minSlideSize = 1.0
	maxSlideSize = 56.0
)

// FitCanvas grows a canvas until the safe area leaves the minimum content
// area and keeps both sides within the slide size bounds. changed reports
// whether the result differs from the input.
func FitCanvas(width, height int64, safe config.Margins) (w, h int64, changed bool) {
	lower := func(margins, content float64) int64 {
		return max(pptx.Inch(margins+content), pptx.Inch(minSlideSize))
	}
	w = min(max(width, lower(safe.Left+safe.Right, minContentW)), pptx.Inch(maxSlideSize))
	h = min(max(height, lower(safe.Top+safe.Bottom, minContentH)), pptx.Inch(maxSlideSize))
	return w, h, w != width || h != height
}

// geometry derives template rectangles from a canvas and safe area.
type geometry struct {
	width, height int64
	left, top     int64
	contentW      int64
	bottom        int64
}

func newGeometry(width, height int64, safe config.Margins) geometry {
	g := geometry{
		width:  width,
		height: height,
		left:   pptx.Inch(safe.Left),
		top:    pptx.Inch(safe.Top),
	}
	g.contentW = width - g.left - pptx.Inch(safe.Right)
	g.bottom = height - pptx.Inch(safe.Bottom)
	return g
}

func (g geometry) canvas() model.Rect {
	return model.Rect{W: g.width, H: g.height}
}

func (g geometry) title() model.Rect {
	return model.Rect{X: g.left, Y: g.top, W: g.contentW, H: pptx.Inch(titleHeight)}
}

func (g geometry) body() model.Rect {
	y := g.top + pptx.Inch(titleHeight+titleGap)
	return model.Rect{X: g.left, Y: y, W: g.contentW, H: g.bottom - y}
}

func (g geometry) columns(r model.Rect) (model.Rect, model.Rect) {
	gap := pptx.Inch(columnGap)
	w := max(0, (r.W-gap)/2)
	return model.Rect{X: r.X, Y: r.Y, W: w, H: r.H},
		model.Rect{X: r.X + w + gap, Y: r.Y, W: w, H: r.H}
}

// centered returns a w×h rectangle centered in r.
func centered(r model.Rect, w, h int64) model.Rect {
	return model.Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

func (g geometry) regions(t Template, spec *model.SlideSpec) map[Region]model.Rect {
	regions := map[Region]model.Rect{RegionCanvas: g.canvas(), RegionTitle: g.title()}
	body := g.body()

	switch t {
	case TemplateTitle:
		title := model.Rect{X: g.left, Y: g.height * 35 / 100, W: g.contentW, H: pptx.Inch(1.5)}
		regions[RegionTitle] = title
		regions[RegionSubtitle] = model.Rect{X: g.left, Y: title.Y + title.H + pptx.Inch(titleGap), W: g.contentW, H: pptx.Inch(1.0)}

	case TemplateSectionDivider:
		title := model.Rect{X: g.left, Y: g.height * 30 / 100, W: g.contentW, H: pptx.Inch(1.5)}
		regions[RegionTitle] = title
		y := title.Y + title.H + pptx.Inch(0.2)
		regions[RegionBody] = model.Rect{X: g.left + pptx.Inch(1), Y: y, W: g.contentW - pptx.Inch(2), H: g.bottom - y}

	case TemplateMedia:
		if !spec.HasText() {
			regions[RegionMedia] = centered(body, min(pptx.Inch(mediaOnlyW), body.W), min(pptx.Inch(mediaOnlyH), body.H))
			break
		}
		w, h := pptx.Inch(mediaW), pptx.Inch(mediaH)
		if len([]rune(spec.BodyText())) > longTextChars {
			w, h = pptx.Inch(mediaSmallW), pptx.Inch(mediaSmallH)
		}
		w, h = min(w, body.W/2), min(h, body.H)
		regions[RegionMedia] = model.Rect{X: body.X + body.W - w, Y: body.Y, W: w, H: h}
		regions[RegionText] = model.Rect{X: body.X, Y: body.Y, W: body.W - w - pptx.Inch(columnGap), H: body.H}

	case TemplateComparison, TemplateTwoColumn:
		left, right := g.columns(body)
		regions[RegionBody] = body
		regions[RegionLeft] = left
		regions[RegionRight] = right
		if t == TemplateComparison {
			size := pptx.Inch(badgeSize)
			regions[RegionCenter] = centered(body, size, size)
		}

	case TemplateQuote:
		glyph := pptx.Inch(glyphSize)
		attrib := pptx.Inch(attribHeight)
		regions[RegionGlyph] = model.Rect{X: body.X, Y: body.Y, W: glyph, H: glyph}
		regions[RegionBody] = model.Rect{X: body.X + glyph/2, Y: body.Y + glyph/2, W: body.W - glyph, H: body.H - glyph/2 - attrib}
		regions[RegionAttribution] = model.Rect{X: body.X + glyph/2, Y: body.Y + body.H - attrib, W: body.W - glyph, H: attrib}

	default:
		regions[RegionBody] = body
	}
	for name, r := range regions {
		regions[name] = r.Clamp()
	}
	return regions
}
