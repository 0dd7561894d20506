package compose

import (
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
	"github.com/VantageDataChat/GoDeck/textfit"
)

const (
	bulletIndent   = 0.3 // in
	subtitleSize   = 24
	highlightSize  = 20
	narrativeSpace = -150000 // 150%
)

// limited applies the scheme's per-bullet word limit.
func (d *draw) limited(items []string) []string {
	n := d.cfg.MaxWords(d.scheme.Name)
	return lo.Map(items, func(item string, _ int) string {
		return d.fit.LimitWords(item, n)
	})
}

// bullets renders the bullet and two-column templates.
func (d *draw) bullets() {
	items := d.limited(d.spec.Bullets)
	var fit textfit.Fit
	if d.a.Template == layout.TemplateTwoColumn {
		fit = d.fit.FitSplit(items)
	} else {
		fit = d.fit.FitBullets(items)
	}
	d.recordFit(fit)

	if !fit.Split {
		d.writeItems(d.textBox("Body", d.a.Region(layout.RegionBody)), fit.Columns[0], fit.Size, d.text)
		return
	}
	left, right := d.a.Region(layout.RegionLeft), d.a.Region(layout.RegionRight)
	if left.Empty() {
		left, right = halves(d.a.Region(layout.RegionBody))
	}
	d.writeItems(d.textBox("Left", left), fit.Columns[0], fit.Size, d.text)
	d.writeItems(d.textBox("Right", right), fit.Columns[1], fit.Size, d.text)
}

func (d *draw) recordFit(fit textfit.Fit) {
	adj := d.adj()
	adj.BodySize = fit.Size
	adj.Split = adj.Split || fit.Split
	adj.Truncated = adj.Truncated || fit.Truncated
	if fit.Overflow != nil {
		adj.Record(fit.Overflow)
	}
}

// paragraphSpacing is the gap after each bullet in points.
func paragraphSpacing(n int) int {
	switch {
	case n <= 3:
		return 14
	case n <= 5:
		return 12
	default:
		return 10
	}
}

// paragraphs is the part of pptx shapes that can hold bullet paragraphs.
type paragraphs interface {
	CreateParagraph() *pptx.Paragraph
}

func (d *draw) writeItems(box paragraphs, items []string, size int, color model.RGB) {
	spacing := paragraphSpacing(len(items))
	for _, item := range items {
		p := box.CreateParagraph()
		p.SetBullet(pptx.NewCharBullet(bulletChar).SetColor(rgb(color)))
		p.GetAlignment().SetHanging(pptx.Inch(bulletIndent))
		p.SetSpaceAfter(spacing * 100)
		d.writeLabeled(p, item, size, color)
	}
}

// writeLabeled writes "Label: value" items with a bold label run.
func (d *draw) writeLabeled(p *pptx.Paragraph, item string, size int, color model.RGB) {
	if label, value, ok := splitLabel(item, d.cfg.Compose.LabelMaxChars); ok {
		p.CreateTextRun(label + ":").GetFont().SetBold(true).SetSize(size).SetColor(rgb(color))
		p.CreateTextRun(value).GetFont().SetSize(size).SetColor(rgb(color))
		return
	}
	p.CreateTextRun(item).GetFont().SetSize(size).SetColor(rgb(color))
}

// splitLabel splits at the first colon when the label is non-empty and
// shorter than maxLabel runes.
func splitLabel(item string, maxLabel int) (string, string, bool) {
	idx := strings.Index(item, ":")
	if idx <= 0 {
		return "", "", false
	}
	label := strings.TrimSpace(item[:idx])
	if label == "" || utf8.RuneCountInString(label) >= maxLabel {
		return "", "", false
	}
	return label, item[idx+1:], true
}

// narrative renders one justified paragraph at 150% line spacing into r.
func (d *draw) narrative(r model.Rect, region textfit.Region) {
	fit := d.fit.FitParagraph(d.spec.Paragraph, region)
	adj := d.adj()
	adj.BodySize = fit.Size
	adj.Truncated = adj.Truncated || fit.Truncated
	if fit.Overflow != nil {
		adj.Record(fit.Overflow)
	}

	box := d.textBox("Body", r)
	p := box.CreateParagraph()
	p.GetAlignment().SetHorizontal(pptx.HorizontalJustify)
	p.SetLineSpacing(narrativeSpace)
	p.CreateTextRun(fit.Text).GetFont().SetSize(fit.Size).SetColor(rgb(d.text))
}

// subtitle renders the title slide's subtitle: the first bullet or the
// paragraph.
func (d *draw) subtitle() {
	text := d.spec.Paragraph
	if len(d.spec.Bullets) > 0 {
		text = d.spec.Bullets[0]
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	r := d.a.Region(layout.RegionSubtitle)
	ph := d.slide.CreatePlaceholderShape(pptx.PlaceholderSubTitle)
	ph.SetName("Subtitle")
	ph.SetPosition(r.X, r.Y)
	ph.SetSize(r.W, r.H)
	ph.SetText(d.fit.Truncate(text, d.cfg.Compose.HighlightWidth*2)).GetFont().SetSize(subtitleSize).SetColor(rgb(d.text))
	ph.GetParagraphs()[0].GetAlignment().SetHorizontal(pptx.HorizontalCenter)
	d.adj().BodySize = subtitleSize
}

// highlights renders up to HighlightMax truncated bullets under a section
// divider title.
func (d *draw) highlights() {
	cfg := d.cfg.Compose
	items := lo.Map(lo.Slice(d.spec.Bullets, 0, cfg.HighlightMax), func(item string, _ int) string {
		return d.fit.Truncate(item, cfg.HighlightWidth)
	})
	if len(items) == 0 {
		return
	}
	if len(items) < len(d.spec.Bullets) || lo.SomeBy(items, func(s string) bool { return strings.HasSuffix(s, d.cfg.TextFit.Ellipsis) }) {
		d.adj().Truncated = true
	}

	box := d.textBox("Highlights", d.a.Region(layout.RegionBody))
	for _, item := range items {
		p := box.CreateParagraph()
		p.GetAlignment().SetHorizontal(pptx.HorizontalCenter)
		p.SetSpaceAfter(paragraphSpacing(len(items)) * 100)
		p.CreateTextRun(item).GetFont().SetSize(highlightSize).SetColor(rgb(d.text))
	}
	d.adj().BodySize = highlightSize
}

func halves(r model.Rect) (model.Rect, model.Rect) {
	gap := pptx.Inch(bulletIndent)
	w := max(0, (r.W-gap)/2)
	return model.Rect{X: r.X, Y: r.Y, W: w, H: r.H}, model.Rect{X: r.X + w + gap, Y: r.Y, W: w, H: r.H}
}
