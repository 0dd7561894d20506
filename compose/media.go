package compose

import (
	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
)

const placeholderLabel = "[IMAGE PLACEHOLDER]"

// MediaRef returns the reference whose bytes the slide's media region
// shows, or "" when it draws a native chart or nothing.
func MediaRef(spec *model.SlideSpec) string {
	if spec.ImageRef != "" {
		return spec.ImageRef
	}
	if chartData(spec) != nil {
		return ""
	}
	return spec.ChartRef
}

// chartData returns the native chart for the slide: explicit chart data,
// or a numeric table when a chart was requested.
func chartData(spec *model.SlideSpec) *model.ChartData {
	if spec.Chart.Valid() {
		return spec.Chart
	}
	if spec.Layout == model.LayoutChart && layout.TableChart(spec) {
		chart, _ := model.ChartFromTable(spec.Table)
		return &chart
	}
	return nil
}

// media renders the picture, chart or placeholder, with the slide text
// beside it when there is any.
func (d *draw) media() {
	region := d.a.Region(layout.RegionMedia)

	switch chart := chartData(d.spec); {
	case d.spec.ImageRef == "" && chart != nil:
		d.chart(region, chart)
	case d.f.Image != nil:
		d.picture(region)
	default:
		if d.f.ImageErr != nil {
			d.adj().Record(d.f.ImageErr)
		}
		d.placeholder(region, MediaRef(d.spec))
	}

	text := d.a.Region(layout.RegionText)
	if text.Empty() || !d.spec.HasText() {
		return
	}
	if len(d.spec.Bullets) > 0 {
		fit := d.fit.FitColumn(d.limited(d.spec.Bullets), d.fit.Half())
		d.recordFit(fit)
		d.writeItems(d.textBox("Body", text), fit.Columns[0], fit.Size, d.text)
		return
	}
	d.narrative(text, d.fit.Half())
}

// picture fits the image into r keeping its aspect ratio, centered.
func (d *draw) picture(r model.Rect) {
	asset := d.f.Image
	fitted := fitAspect(r, asset.Aspect())
	pic := d.slide.CreateDrawingShape()
	pic.SetName("Picture")
	pic.SetDescription(asset.Ref)
	pic.SetPosition(fitted.X, fitted.Y)
	pic.SetSize(fitted.W, fitted.H)
	pic.SetImageData(asset.Data, asset.MIME)
	d.adj().Image = fitted
}

// fitAspect returns the largest rectangle of the given aspect ratio that
// fits r, centered in it. A zero aspect fills r.
func fitAspect(r model.Rect, aspect float64) model.Rect {
	if aspect <= 0 || r.Empty() {
		return r
	}
	w, h := r.W, int64(float64(r.W)/aspect)
	if h > r.H {
		w, h = int64(float64(r.H)*aspect), r.H
	}
	return model.Rect{X: r.X + (r.W-w)/2, Y: r.Y + (r.H-h)/2, W: w, H: h}
}

// placeholder stands in for an image that could not be loaded.
func (d *draw) placeholder(r model.Rect, description string) {
	fill := d.scheme.Secondary
	text := rgb(d.contrast.TextColor(fill))

	box := d.slide.CreateAutoShape()
	box.SetName("Placeholder")
	box.SetPosition(r.X, r.Y)
	box.SetSize(r.W, r.H)
	box.SetSolidFill(rgb(fill))
	box.SetText(placeholderLabel).GetFont().SetBold(true).SetSize(16).SetColor(text)
	if description != "" {
		p := box.CreateParagraph()
		p.GetAlignment().SetHorizontal(pptx.HorizontalCenter)
		p.CreateTextRun(d.fit.Truncate(description, d.cfg.Compose.HighlightWidth)).GetFont().SetSize(12).SetColor(text)
	}
	d.adj().Image = r
}

// chart draws data as a native chart filling r.
func (d *draw) chart(r model.Rect, data *model.ChartData) {
	shape := d.slide.CreateChartShape()
	shape.SetName("Chart")
	shape.SetPosition(r.X, r.Y)
	shape.SetSize(r.W, r.H)
	shape.GetTitle().SetVisible(false)
	shape.GetLegend().Visible = len(data.Series) > 1 || data.Kind == model.ChartPie

	palette := []model.RGB{d.scheme.Primary, d.scheme.Secondary, d.scheme.Accent}
	series := make([]*pptx.ChartSeries, 0, len(data.Series))
	for i, s := range data.Series {
		series = append(series, pptx.NewChartSeriesOrdered(s.Name, data.Categories, s.Values).
			SetFillColor(rgb(palette[i%len(palette)])))
	}

	switch data.Kind {
	case model.ChartLine:
		line := pptx.NewLineChart()
		for _, s := range series {
			line.AddSeries(s)
		}
		shape.GetPlotArea().SetType(line)
	case model.ChartPie:
		pie := pptx.NewPieChart()
		pie.AddSeries(series[0])
		shape.GetPlotArea().SetType(pie)
	default:
		bar := pptx.NewBarChart()
		for _, s := range series {
			bar.AddSeries(s)
		}
		shape.GetPlotArea().SetType(bar)
	}
	d.adj().Image = r
}
