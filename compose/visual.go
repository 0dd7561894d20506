package compose

import (
	"strings"

	"github.com/samber/lo"

	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
)

const (
	quoteGlyph       = "“"
	attributionDash  = "— "
	attributionSize  = 18
	timelineDateSize = 16
	timelineDescSize = 14
	markerSize       = 0.3 // in
	badgeText        = "VS"
	comparisonBorder = 2.0 // pt
)

// quote renders an oversized glyph, the fitted quote and its attribution.
func (d *draw) quote() {
	cfg := d.cfg.Compose
	text, attribution := quoteParts(d.spec)

	glyph := d.textBox("Glyph", d.a.Region(layout.RegionGlyph))
	glyph.CreateTextRun(quoteGlyph).GetFont().SetSize(cfg.QuoteGlyphSize).SetColor(rgb(d.text))

	fit := d.fit.FitParagraph(text, d.fit.Full())
	adj := d.adj()
	adj.BodySize = fit.Size
	adj.Truncated = adj.Truncated || fit.Truncated
	if fit.Overflow != nil {
		adj.Record(fit.Overflow)
	}

	body := d.textBox("Quote", d.a.Region(layout.RegionBody))
	body.SetTextAnchor(pptx.TextAnchorMiddle)
	p := body.CreateParagraph()
	p.GetAlignment().SetHorizontal(pptx.HorizontalCenter)
	p.CreateTextRun(fit.Text).GetFont().SetItalic(true).SetSize(fit.Size).SetColor(rgb(d.text))

	if attribution == "" {
		return
	}
	attrib := d.textBox("Attribution", d.a.Region(layout.RegionAttribution))
	ap := attrib.CreateParagraph()
	ap.GetAlignment().SetHorizontal(pptx.HorizontalRight)
	ap.CreateTextRun(attributionDash + attribution).GetFont().SetSize(attributionSize).SetColor(rgb(d.text))
}

// quoteParts returns the quote text and its attribution. The quote is the
// paragraph, else the first bullet. The attribution is explicit, else the
// second bullet, else the section title.
func quoteParts(spec *model.SlideSpec) (string, string) {
	text := strings.TrimSpace(spec.Paragraph)
	if text == "" && len(spec.Bullets) > 0 {
		text = spec.Bullets[0]
	}
	attribution := strings.TrimSpace(spec.Attribution)
	if attribution == "" && len(spec.Bullets) > 1 {
		attribution = spec.Bullets[1]
	}
	if attribution == "" {
		attribution = spec.SectionTitle
	}
	return text, attribution
}

type event struct {
	date, description string
}

// parseEvent splits "date: description" or "date - description".
func parseEvent(item string) event {
	if i := strings.Index(item, ":"); i > 0 {
		return event{strings.TrimSpace(item[:i]), strings.TrimSpace(item[i+1:])}
	}
	if i := strings.Index(item, " - "); i > 0 {
		return event{strings.TrimSpace(item[:i]), strings.TrimSpace(item[i+3:])}
	}
	return event{date: strings.TrimSpace(item)}
}

// timeline renders up to TimelineMaxEvents events along a horizontal axis
// with grouped markers, dates above and descriptions below.
func (d *draw) timeline() {
	cfg := d.cfg.Compose
	events := lo.Map(lo.Slice(d.spec.Bullets, 0, cfg.TimelineMaxEvents), func(item string, _ int) event {
		return parseEvent(item)
	})
	if len(events) == 0 {
		return
	}
	if len(d.spec.Bullets) > len(events) {
		d.adj().Truncated = true
	}

	r := d.a.Region(layout.RegionBody)
	axisY := r.Y + r.H/2
	axis := d.slide.CreateLineShape()
	axis.SetName("Axis")
	axis.SetPosition(r.X, axisY)
	axis.SetSize(r.W, 0)
	axis.SetLineWidth(3).SetLineColor(rgb(d.scheme.Secondary))

	step := r.W / int64(len(events))
	marker := pptx.Inch(markerSize)
	markers := d.slide.CreateGroupShape()
	markers.SetName("Markers")

	for i, ev := range events {
		left := r.X + step*int64(i)
		cx := left + step/2

		dot := pptx.NewAutoShape().SetAutoShapeType(pptx.AutoShapeEllipse).SetSolidFill(rgb(d.scheme.Accent))
		dot.SetName("Marker")
		dot.SetPosition(cx-marker/2, axisY-marker/2)
		dot.SetSize(marker, marker)
		markers.AddShape(dot)

		date := d.textBox("Date", model.Rect{X: left, Y: axisY - marker - pptx.Inch(0.6), W: step, H: pptx.Inch(0.5)})
		date.SetTextAnchor(pptx.TextAnchorBottom)
		dp := date.CreateParagraph()
		dp.GetAlignment().SetHorizontal(pptx.HorizontalCenter)
		dp.CreateTextRun(ev.date).GetFont().SetBold(true).SetSize(timelineDateSize).SetColor(rgb(d.text))

		if ev.description == "" {
			continue
		}
		desc := d.fit.Truncate(ev.description, cfg.HighlightWidth)
		if desc != ev.description {
			d.adj().Truncated = true
		}
		below := d.textBox("Description", model.Rect{X: left, Y: axisY + marker, W: step, H: pptx.Inch(1.5)})
		bp := below.CreateParagraph()
		bp.GetAlignment().SetHorizontal(pptx.HorizontalCenter)
		bp.CreateTextRun(desc).GetFont().SetSize(timelineDescSize).SetColor(rgb(d.text))
	}
	d.adj().BodySize = timelineDescSize
}

// comparison renders the bullets split into two bordered panels with a
// "VS" badge between them.
func (d *draw) comparison() {
	fit := d.fit.FitSplit(d.limited(d.spec.Bullets))
	d.recordFit(fit)

	border := d.scheme.Secondary
	for i, name := range []string{"Left", "Right"} {
		r := d.a.Region(lo.Ternary(i == 0, layout.RegionLeft, layout.RegionRight))
		panel := d.slide.CreateAutoShape()
		panel.SetName(name)
		panel.SetPosition(r.X, r.Y)
		panel.SetSize(r.W, r.H)
		panel.SetTextAnchor(pptx.TextAnchorTop)
		panel.SetBorder(pptx.NewBorder().SetSolid(rgb(border), comparisonBorder))
		if i < len(fit.Columns) {
			d.writeItems(panel, fit.Columns[i], fit.Size, d.text)
		}
	}

	c := d.a.Region(layout.RegionCenter)
	badge := d.slide.CreateAutoShape().SetAutoShapeType(pptx.AutoShapeEllipse).SetSolidFill(rgb(d.scheme.Accent))
	badge.SetName("Versus")
	badge.SetPosition(c.X, c.Y)
	badge.SetSize(c.W, c.H)
	badge.SetText(badgeText).GetFont().SetBold(true).SetSize(20).SetColor(rgb(d.contrast.TextColor(d.scheme.Accent)))
}
