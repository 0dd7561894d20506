package pptx

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// PreviewOptions configures slide thumbnails.
type PreviewOptions struct {
	// Width in pixels; the height follows the canvas aspect ratio. Default 960.
	Width int
	// DPI used to size text. Default 96.
	DPI float64
	// Fonts is shared across previews; nil scans the system font directories.
	Fonts *FontCache
}

// DefaultPreviewOptions returns 960px-wide previews.
func DefaultPreviewOptions() *PreviewOptions {
	return &PreviewOptions{Width: 960, DPI: 96}
}

// Preview rasterizes one slide. It approximates what a viewer draws: fills,
// borders, lines, pictures, tables, simple chart plots and wrapped text.
func (p *Presentation) Preview(index int, opts *PreviewOptions) (*image.RGBA, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, fmt.Errorf("slide index %d out of range (0-%d)", index, len(p.slides)-1)
	}
	if opts == nil {
		opts = DefaultPreviewOptions()
	}
	width := opts.Width
	if width <= 0 {
		width = 960
	}
	height := int(float64(width) * float64(p.layout.CY) / float64(p.layout.CX))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := color.NRGBA{255, 255, 255, 255}
	if b := p.slides[index].background; b != nil && b.Type == FillSolid {
		bg = nrgba(b.Color)
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	r := &previewer{
		img:   img,
		scale: float64(width) / float64(p.layout.CX),
		dpi:   opts.DPI,
		fonts: opts.Fonts,
	}
	if r.dpi <= 0 {
		r.dpi = 96
	}
	if r.fonts == nil {
		r.fonts = NewFontCache(false)
	}
	for _, shape := range p.slides[index].shapes {
		r.shape(shape)
	}
	return img, nil
}

// SavePreviews writes slideNN.png for every slide into dir and returns the
// paths in slide order.
func (p *Presentation) SavePreviews(dir string, opts *PreviewOptions) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if opts == nil {
		opts = DefaultPreviewOptions()
	}
	if opts.Fonts == nil {
		shared := *opts
		shared.Fonts = NewFontCache(false)
		opts = &shared
	}
	paths := make([]string, 0, len(p.slides))
	for i := range p.slides {
		img, err := p.Preview(i, opts)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, fmt.Sprintf("slide%02d.png", i+1))
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

type previewer struct {
	img   *image.RGBA
	scale float64 // px per EMU
	dpi   float64
	fonts *FontCache
}

func nrgba(c Color) color.NRGBA {
	return color.NRGBA{R: c.GetRed(), G: c.GetGreen(), B: c.GetBlue(), A: c.GetAlpha()}
}

func (r *previewer) px(emu int64) int { return int(math.Round(float64(emu) * r.scale)) }

func (r *previewer) rect(b *BaseShape) image.Rectangle {
	x, y := r.px(b.offsetX), r.px(b.offsetY)
	return image.Rect(x, y, x+r.px(b.width), y+r.px(b.height))
}

func (r *previewer) shape(shape Shape) {
	switch s := shape.(type) {
	case *PlaceholderShape:
		r.text(r.rect(&s.BaseShape), s.paragraphs, s.textAnchor)
	case *RichTextShape:
		rect := r.rect(&s.BaseShape)
		r.box(rect, s.fill, s.border, false)
		r.text(rect, s.paragraphs, s.textAnchor)
	case *AutoShape:
		rect := r.rect(&s.BaseShape)
		r.box(rect, s.fill, s.border, s.shapeType == AutoShapeEllipse)
		r.text(rect, s.paragraphs, s.textAnchor)
	case *DrawingShape:
		r.picture(r.rect(&s.BaseShape), s.data)
	case *LineShape:
		x1, y1 := r.px(s.offsetX), r.px(s.offsetY)
		r.line(x1, y1, x1+r.px(s.width), y1+r.px(s.height), nrgba(s.lineColor), max(1, r.px(Point(float64(s.lineWidth)))))
	case *TableShape:
		r.table(s)
	case *ChartShape:
		r.chart(r.rect(&s.BaseShape), s.plotArea.chartType)
	case *GroupShape:
		for _, child := range s.shapes {
			r.shape(child)
		}
	}
}

func (r *previewer) box(rect image.Rectangle, fill *Fill, border *Border, ellipse bool) {
	if fill != nil && fill.Type == FillSolid {
		if ellipse {
			r.ellipse(rect, nrgba(fill.Color))
		} else {
			draw.Draw(r.img, rect, image.NewUniform(nrgba(fill.Color)), image.Point{}, draw.Over)
		}
	}
	if border != nil && border.Style != BorderNone && !ellipse {
		r.outline(rect, nrgba(border.Color), max(1, r.px(int64(border.Width))))
	}
}

func (r *previewer) picture(rect image.Rectangle, data []byte) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		r.outline(rect, color.NRGBA{200, 200, 200, 255}, 1)
		return
	}
	draw.ApproxBiLinear.Scale(r.img, rect, src, src.Bounds(), draw.Over, nil)
}

func (r *previewer) table(t *TableShape) {
	if t.numRows == 0 || t.numCols == 0 {
		return
	}
	rect := r.rect(&t.BaseShape)
	cw, ch := rect.Dx()/t.numCols, rect.Dy()/t.numRows
	for row := range t.rows {
		for col, cell := range t.rows[row] {
			x, y := rect.Min.X+col*cw, rect.Min.Y+row*ch
			cr := image.Rect(x, y, x+cw, y+ch)
			r.box(cr, cell.fill, nil, false)
			r.outline(cr, color.NRGBA{160, 160, 160, 255}, 1)
			r.text(cr.Inset(2), cell.paragraphs, TextAnchorMiddle)
		}
	}
}

// chart draws bars or polylines scaled to the largest value; pies are a
// filled disc in the first series colour.
func (r *previewer) chart(rect image.Rectangle, ct ChartType) {
	r.outline(rect, color.NRGBA{200, 200, 200, 255}, 1)
	if ct == nil || len(ct.GetSeries()) == 0 {
		return
	}
	series := ct.GetSeries()
	if _, ok := ct.(*PieChart); ok {
		side := min(rect.Dx(), rect.Dy())
		r.ellipse(image.Rect(0, 0, side, side).Add(rect.Min.Add(image.Pt((rect.Dx()-side)/2, (rect.Dy()-side)/2))), nrgba(series[0].FillColor))
		return
	}

	peak := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			peak = math.Max(peak, v)
		}
	}
	if peak <= 0 {
		return
	}
	plot := rect.Inset(max(2, rect.Dx()/20))
	n := len(series[0].Values)
	if n == 0 {
		return
	}
	slot := plot.Dx() / n
	y := func(v float64) int { return plot.Max.Y - int(math.Max(0, v)/peak*float64(plot.Dy())) }

	for si, s := range series {
		c := nrgba(s.FillColor)
		for i, v := range s.Values {
			if _, ok := ct.(*LineChart); ok {
				if i > 0 {
					x0 := plot.Min.X + (i-1)*slot + slot/2
					r.line(x0, y(s.Values[i-1]), x0+slot, y(v), c, 2)
				}
				continue
			}
			bw := max(1, slot*2/3/len(series))
			x := plot.Min.X + i*slot + slot/6 + si*bw
			draw.Draw(r.img, image.Rect(x, y(v), x+bw, plot.Max.Y), image.NewUniform(c), image.Point{}, draw.Over)
		}
	}
}

func (r *previewer) outline(rect image.Rectangle, c color.NRGBA, width int) {
	u := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		{rect.Min, image.Pt(rect.Max.X, rect.Min.Y+width)},
		{image.Pt(rect.Min.X, rect.Max.Y-width), rect.Max},
		{rect.Min, image.Pt(rect.Min.X+width, rect.Max.Y)},
		{image.Pt(rect.Max.X-width, rect.Min.Y), rect.Max},
	} {
		draw.Draw(r.img, edge, u, image.Point{}, draw.Over)
	}
}

// line draws a straight segment of the given thickness.
func (r *previewer) line(x1, y1, x2, y2 int, c color.NRGBA, width int) {
	steps := max(abs(x2-x1), abs(y2-y1), 1)
	u := image.NewUniform(c)
	for i := 0; i <= steps; i++ {
		x := x1 + (x2-x1)*i/steps
		y := y1 + (y2-y1)*i/steps
		draw.Draw(r.img, image.Rect(x-width/2, y-width/2, x-width/2+width, y-width/2+width), u, image.Point{}, draw.Over)
	}
}

func (r *previewer) ellipse(rect image.Rectangle, c color.NRGBA) {
	rx, ry := float64(rect.Dx())/2, float64(rect.Dy())/2
	if rx <= 0 || ry <= 0 {
		return
	}
	cx, cy := float64(rect.Min.X)+rx, float64(rect.Min.Y)+ry
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		for px := rect.Min.X; px < rect.Max.X; px++ {
			dx := (float64(px) + 0.5 - cx) / rx
			dy := (float64(py) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1 && image.Pt(px, py).In(r.img.Bounds()) {
				r.img.Set(px, py, c)
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// --- text ---

type span struct {
	text  string
	face  font.Face
	color color.NRGBA
}

type line struct {
	spans  []span
	width  int
	height int
	align  HorizontalAlignment
}

func measure(spans []span) (int, int) {
	w, h := 0, 0
	for _, s := range spans {
		w += font.MeasureString(s.face, s.text).Ceil()
		h = max(h, s.face.Metrics().Height.Ceil())
	}
	return w, h
}

func (r *previewer) span(text string, f *Font) span {
	if f == nil {
		f = NewFont()
	}
	return span{text: text, face: r.face(f), color: nrgba(f.Color)}
}

func (r *previewer) face(f *Font) font.Face {
	size := float64(f.Size)
	if size <= 0 {
		size = 18
	}
	// points to EMU to pixels
	return r.fonts.Face(f.Name, float64(Point(size))*r.scale, f.Bold, f.Italic)
}

// text lays out paragraphs in rect with word wrapping, then anchors the
// block vertically.
func (r *previewer) text(rect image.Rectangle, paragraphs []*Paragraph, anchor TextAnchorType) {
	var lines []line
	for _, p := range paragraphs {
		align := HorizontalLeft
		if p.alignment != nil {
			align = p.alignment.Horizontal
		}
		var spans []span
		if p.bullet != nil && p.bullet.Type == BulletTypeChar && len(p.elements) > 0 {
			if tr, ok := p.elements[0].(*TextRun); ok {
				spans = append(spans, r.span(p.bullet.Char+" ", tr.font))
			}
		}
		for _, e := range p.elements {
			switch el := e.(type) {
			case *TextRun:
				spans = append(spans, r.span(el.text, el.font))
			case *BreakElement:
				lines = append(lines, wrap(spans, align, rect.Dx())...)
				spans = nil
			}
		}
		lines = append(lines, wrap(spans, align, rect.Dx())...)
	}

	total := 0
	for _, l := range lines {
		total += l.height
	}
	y := rect.Min.Y
	switch anchor {
	case TextAnchorMiddle:
		y += (rect.Dy() - total) / 2
	case TextAnchorBottom:
		y += rect.Dy() - total
	}

	for _, l := range lines {
		y += l.height
		if y > rect.Max.Y+l.height {
			break
		}
		x := rect.Min.X
		switch l.align {
		case HorizontalCenter:
			x += (rect.Dx() - l.width) / 2
		case HorizontalRight:
			x += rect.Dx() - l.width
		}
		for _, s := range l.spans {
			d := &font.Drawer{Dst: r.img, Src: image.NewUniform(s.color), Face: s.face, Dot: fixed.P(x, y)}
			d.DrawString(s.text)
			x += font.MeasureString(s.face, s.text).Ceil()
		}
	}
}

// wrap breaks spans into lines no wider than maxWidth at word boundaries.
func wrap(spans []span, align HorizontalAlignment, maxWidth int) []line {
	if len(spans) == 0 {
		return []line{{height: 14, align: align}}
	}
	var (
		out  []line
		cur  []span
		curW int
	)
	flush := func() {
		w, h := measure(cur)
		out = append(out, line{spans: cur, width: w, height: h, align: align})
		cur, curW = nil, 0
	}
	for _, s := range spans {
		for i, word := range strings.Fields(s.text) {
			if i > 0 || (len(cur) > 0 && strings.HasPrefix(s.text, " ")) {
				word = " " + word
			}
			ww := font.MeasureString(s.face, word).Ceil()
			if curW+ww > maxWidth && curW > 0 {
				flush()
				word = strings.TrimLeft(word, " ")
				ww = font.MeasureString(s.face, word).Ceil()
			}
			cur = append(cur, span{word, s.face, s.color})
			curW += ww
		}
	}
	if len(cur) > 0 {
		flush()
	}
	if len(out) == 0 {
		out = append(out, line{height: 14, align: align})
	}
	return out
}
