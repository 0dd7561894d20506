// Package compose places and styles the shapes of one slide from its spec,
// its layout assignment and the deck's colour scheme.
package compose

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/flanksource/commons/logger"

	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/contrast"
	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/media"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
	"github.com/VantageDataChat/GoDeck/textfit"
)

var log = logger.GetLogger("compose")

const bulletChar = "•"

// Frame is what the composer needs beyond the slide and its assignment.
type Frame struct {
	// Index is the zero-based position of the slide in the deck.
	Index  int
	Scheme model.ColorScheme

	Image         *media.Asset
	ImageErr      error
	Background    *media.Asset
	BackgroundErr error
}

// Composer is immutable and safe for concurrent use.
type Composer struct {
	cfg      *config.Config
	fit      *textfit.Estimator
	contrast *contrast.Engine
}

func New(cfg *config.Config, fit *textfit.Estimator, ce *contrast.Engine) *Composer {
	return &Composer{cfg: cfg, fit: fit, contrast: ce}
}

// Compose builds the slide and records every decision in spec.Adjustment.
// It never fails: a panic while composing yields an error slide and a
// compose_panic diagnostic.
func (c *Composer) Compose(spec *model.SlideSpec, a layout.Assignment, f Frame) (slide *pptx.Slide) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("compose panic on slide %d: %v", f.Index+1, r)
			log.Warnf("%v", err)
			spec.Adjustment.Record(err)
			slide = c.errorSlide(spec, a, f)
		}
	}()

	adj := &spec.Adjustment
	adj.Template = string(a.Template)
	for _, err := range a.Diagnostics {
		adj.Record(err)
	}

	slide = pptx.NewSlide()
	slide.SetName(spec.Title)

	d := &draw{
		Composer: c,
		slide:    slide,
		spec:     spec,
		a:        a,
		f:        f,
		scheme:   f.Scheme,
	}
	d.background()
	d.title()

	switch a.Template {
	case layout.TemplateTitle:
		d.subtitle()
	case layout.TemplateSectionDivider:
		d.highlights()
	case layout.TemplateTable:
		d.table()
	case layout.TemplateMedia:
		d.media()
	case layout.TemplateQuote:
		d.quote()
	case layout.TemplateTimeline:
		d.timeline()
	case layout.TemplateComparison:
		d.comparison()
	case layout.TemplateNarrative:
		d.narrative(a.Region(layout.RegionBody), c.fit.Full())
	default:
		d.bullets()
	}

	adj.Sparse = c.fit.IsSparse(spec.Bullets, spec.Paragraph)
	return slide
}

// errorSlide replaces a slide whose composition panicked.
func (c *Composer) errorSlide(spec *model.SlideSpec, a layout.Assignment, f Frame) *pptx.Slide {
	spec.Adjustment.Template = string(layout.TemplateError)
	slide := pptx.NewSlide()
	slide.SetName(fmt.Sprintf("Slide %d - Error", f.Index+1))

	bg := f.Scheme.Background
	slide.SetBackground(pptx.NewFill().SetSolid(rgb(bg)))
	text := c.contrast.TextColor(bg)
	spec.Adjustment.Background = bg
	spec.Adjustment.TextColor = text

	title := a.Region(layout.RegionTitle)
	ph := slide.CreatePlaceholderShape(pptx.PlaceholderTitle)
	ph.SetName("Title")
	ph.SetPosition(title.X, title.Y)
	ph.SetSize(title.W, title.H)
	ph.SetText(fmt.Sprintf("Slide %d - Error", f.Index+1)).GetFont().
		SetBold(true).SetSize(c.cfg.Compose.TitleSize).SetColor(rgb(text))

	body := a.Region(layout.RegionBody)
	if body.Empty() {
		body = title
	}
	box := slide.CreateAutoShape()
	box.SetName("Error")
	box.SetPosition(body.X, body.Y)
	box.SetSize(body.W, min(body.H, pptx.Inch(1.5)))
	box.SetSolidFill(rgb(f.Scheme.Secondary))
	box.SetText("This slide could not be rendered").GetFont().
		SetSize(18).SetColor(rgb(c.contrast.TextColor(f.Scheme.Secondary)))
	return slide
}

// draw carries one slide's composition state.
type draw struct {
	*Composer
	slide  *pptx.Slide
	spec   *model.SlideSpec
	a      layout.Assignment
	f      Frame
	scheme model.ColorScheme

	bg   model.RGB // resolved background behind body text
	text model.RGB // contrast colour for bg
}

func (d *draw) adj() *model.LayoutAdjustment { return &d.spec.Adjustment }

// background paints the slide background and resolves the colour text is
// drawn against.
func (d *draw) background() {
	d.bg = d.scheme.Background
	if d.a.Template == layout.TemplateSectionDivider {
		d.bg = d.scheme.Accent
	}
	d.slide.SetBackground(pptx.NewFill().SetSolid(rgb(d.bg)))

	if d.spec.BackgroundRef != "" {
		if d.f.BackgroundErr != nil {
			d.adj().Record(d.f.BackgroundErr)
		} else if d.f.Background != nil {
			d.imageBackground(d.f.Background)
		}
	}

	d.text = d.contrast.TextColor(d.bg)
	d.adj().Background = d.bg
	d.adj().TextColor = d.text
	d.adj().ContrastRatio = math.Round(contrast.ContrastRatio(d.text, d.bg)*100) / 100
}

// imageBackground draws the picture full-bleed under a translucent overlay;
// the resolved colour is the sampled image blended with that overlay.
func (d *draw) imageBackground(asset *media.Asset) {
	canvas := d.a.Region(layout.RegionCanvas)
	pic := d.slide.CreateDrawingShape()
	pic.SetName("Background")
	pic.SetDescription(asset.Ref)
	pic.SetPosition(canvas.X, canvas.Y)
	pic.SetSize(canvas.W, canvas.H)
	pic.SetImageData(asset.Data, asset.MIME)

	overlay, alpha := d.scheme.Background, d.cfg.Compose.BodyOverlayAlpha
	if d.a.Template == layout.TemplateTitle {
		overlay, alpha = model.Black, d.cfg.Compose.TitleOverlayAlpha
	}
	shade := d.slide.CreateAutoShape()
	shade.SetName("Overlay")
	shade.SetPosition(canvas.X, canvas.Y)
	shade.SetSize(canvas.W, canvas.H)
	shade.SetSolidFill(rgb(overlay).WithAlpha(uint8(math.Round(alpha * 255))))

	sampled := d.contrast.ExtractBackgroundColor(asset.Data)
	d.bg = contrast.Blend(sampled, overlay, alpha)
	log.Debugf("slide %d: background %s sampled %s, resolved %s", d.f.Index+1, asset.Ref, sampled, d.bg)
}

// titleSize picks the title point size.
func (d *draw) titleSize() int {
	cfg := d.cfg.Compose
	switch {
	case utf8.RuneCountInString(d.spec.Title) > cfg.LongTitleChars:
		return cfg.LongTitleSize
	case d.f.Index == 0 || d.a.Template == layout.TemplateSectionDivider:
		return cfg.FirstTitleSize
	default:
		return cfg.TitleSize
	}
}

func (d *draw) title() {
	r := d.a.Region(layout.RegionTitle)
	kind := pptx.PlaceholderTitle
	if d.a.Template == layout.TemplateTitle {
		kind = pptx.PlaceholderCtrTitle
	}
	ph := d.slide.CreatePlaceholderShape(kind)
	ph.SetName("Title")
	ph.SetPosition(r.X, r.Y)
	ph.SetSize(r.W, r.H)
	ph.SetTextAnchor(pptx.TextAnchorMiddle)

	size := d.titleSize()
	run := ph.SetText(d.spec.Title)
	run.GetFont().SetBold(true).SetSize(size).SetColor(rgb(d.text))
	if d.a.Template == layout.TemplateTitle || d.a.Template == layout.TemplateSectionDivider {
		ph.GetParagraphs()[0].GetAlignment().SetHorizontal(pptx.HorizontalCenter)
	}
	d.adj().TitleSize = size
}

// textBox creates a word-wrapped, top-anchored text box over r.
func (d *draw) textBox(name string, r model.Rect) *pptx.RichTextShape {
	box := d.slide.CreateRichTextShape()
	box.SetName(name)
	box.SetPosition(r.X, r.Y)
	box.SetSize(r.W, r.H)
	box.SetWordWrap(true)
	box.SetTextAnchor(pptx.TextAnchorTop)
	return box
}

func rgb(c model.RGB) pptx.Color {
	return pptx.NewColorRGB(c.R, c.G, c.B)
}
