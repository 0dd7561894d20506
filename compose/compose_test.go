package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/contrast"
	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/media"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
	"github.com/VantageDataChat/GoDeck/textfit"
)

type fixture struct {
	cfg      *config.Config
	selector *layout.Selector
	composer *Composer
	scheme   model.ColorScheme
}

func newFixture() *fixture {
	cfg := config.Default()
	fit := textfit.New(cfg.TextFit)
	ce := contrast.New(cfg.Contrast)
	return &fixture{
		cfg:      cfg,
		selector: layout.New(cfg, fit, model.DefaultCanvasWidth, model.DefaultCanvasHeight),
		composer: New(cfg, fit, ce),
		scheme:   ce.Scheme(cfg.Scheme("corporate")),
	}
}

func (fx *fixture) compose(spec *model.SlideSpec, f Frame) *pptx.Slide {
	f.Scheme = fx.scheme
	return fx.composer.Compose(spec, fx.selector.Select(spec), f)
}

func findShape(shapes []pptx.Shape, name string) pptx.Shape {
	for _, s := range shapes {
		if named, ok := s.(interface{ GetName() string }); ok && named.GetName() == name {
			return s
		}
		if g, ok := s.(*pptx.GroupShape); ok {
			if found := findShape(g.GetShapes(), name); found != nil {
				return found
			}
		}
	}
	return nil
}

func runs(p *pptx.Paragraph) []*pptx.TextRun {
	var out []*pptx.TextRun
	for _, e := range p.GetElements() {
		if r, ok := e.(*pptx.TextRun); ok {
			out = append(out, r)
		}
	}
	return out
}

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestComposeBullets(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Overview", Role: model.RoleDetail, Bullets: []string{"alpha", "beta", "gamma"}}
	slide := fx.compose(spec, Frame{Index: 1})

	adj := spec.Adjustment
	assert.Equal(t, "bullets", adj.Template)
	assert.Equal(t, 32, adj.TitleSize)
	assert.Equal(t, 22, adj.BodySize)
	assert.False(t, adj.Split)
	assert.True(t, adj.Sparse)
	assert.Empty(t, adj.Diagnostics)
	assert.Equal(t, model.White, adj.Background)
	assert.Equal(t, fx.cfg.Contrast.Dark, adj.TextColor)
	assert.Greater(t, adj.ContrastRatio, 4.5)

	body, ok := findShape(slide.GetShapes(), "Body").(*pptx.RichTextShape)
	require.True(t, ok)
	paras := body.GetParagraphs()
	require.Len(t, paras, 3)
	for i, p := range paras {
		assert.Equal(t, spec.Bullets[i], p.Text())
		require.NotNil(t, p.GetBullet())
		assert.Equal(t, bulletChar, p.GetBullet().Char)
		assert.Equal(t, 1400, p.GetSpaceAfter())
	}
}

func TestComposeTitleSizes(t *testing.T) {
	fx := newFixture()
	cases := []struct {
		name  string
		title string
		index int
		want  int
	}{
		{"first slide", "Welcome", 0, 44},
		{"detail slide", "Welcome", 3, 32},
		{"long title", strings.Repeat("word ", 11), 3, 28},
		{"long first title", strings.Repeat("word ", 11), 0, 28},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := &model.SlideSpec{Title: tc.title, Bullets: []string{"a"}}
			fx.compose(spec, Frame{Index: tc.index})
			assert.Equal(t, tc.want, spec.Adjustment.TitleSize)
		})
	}
}

func TestComposeBoldLabel(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Results", Bullets: []string{"Revenue: up 20%", "no label here"}}
	slide := fx.compose(spec, Frame{Index: 1})

	body := findShape(slide.GetShapes(), "Body").(*pptx.RichTextShape)
	labeled := runs(body.GetParagraphs()[0])
	require.Len(t, labeled, 2)
	assert.Equal(t, "Revenue:", labeled[0].GetText())
	assert.True(t, labeled[0].GetFont().Bold)
	assert.Equal(t, " up 20%", labeled[1].GetText())
	assert.False(t, labeled[1].GetFont().Bold)

	plain := runs(body.GetParagraphs()[1])
	require.Len(t, plain, 1)
	assert.False(t, plain[0].GetFont().Bold)
}

func TestSplitLabel(t *testing.T) {
	_, _, ok := splitLabel(": value", 50)
	assert.False(t, ok)
	_, _, ok = splitLabel(strings.Repeat("x", 50)+": value", 50)
	assert.False(t, ok)
	label, value, ok := splitLabel("Key: a: b", 50)
	assert.True(t, ok)
	assert.Equal(t, "Key", label)
	assert.Equal(t, " a: b", value)
}

func TestComposeTwoColumn(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Many", Bullets: []string{"1", "2", "3", "4", "5", "6"}}
	slide := fx.compose(spec, Frame{Index: 1})

	assert.Equal(t, "two_column", spec.Adjustment.Template)
	assert.True(t, spec.Adjustment.Split)
	left := findShape(slide.GetShapes(), "Left").(*pptx.RichTextShape)
	right := findShape(slide.GetShapes(), "Right").(*pptx.RichTextShape)
	assert.Len(t, left.GetParagraphs(), 3)
	assert.Len(t, right.GetParagraphs(), 3)
	assert.Less(t, left.GetOffsetX(), right.GetOffsetX())
}

func TestComposeTable(t *testing.T) {
	fx := newFixture()
	rows := make([][]string, 20)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("r%d", i), "v"}
	}
	spec := &model.SlideSpec{Title: "Data", Layout: model.LayoutTable, Table: &model.TableData{Headers: []string{"Name", "Value"}, Rows: rows}}
	slide := fx.compose(spec, Frame{Index: 1})

	table := findShape(slide.GetShapes(), "Table").(*pptx.TableShape)
	assert.Equal(t, 13, table.GetNumRows())
	assert.Equal(t, 2, table.GetNumCols())

	header := table.GetCell(0, 0)
	assert.Equal(t, "Name", header.Text())
	assert.Equal(t, pptx.FillSolid, header.GetFill().Type)
	assert.Equal(t, rgb(fx.scheme.Primary), header.GetFill().Color)
	assert.Equal(t, "r11", table.GetCell(12, 0).Text())

	assert.True(t, spec.Adjustment.Truncated)
	assert.True(t, spec.Adjustment.Has(model.DiagOverflow))
}

func TestComposeTableShortRow(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Data", Table: &model.TableData{Headers: []string{"A", "B", "C"}, Rows: [][]string{{"1"}, {"1", "2", "3", "4"}}}}
	slide := fx.compose(spec, Frame{Index: 1})

	table := findShape(slide.GetShapes(), "Table").(*pptx.TableShape)
	assert.Equal(t, 3, table.GetNumCols())
	assert.Equal(t, "", table.GetCell(1, 2).Text())
	assert.Equal(t, "3", table.GetCell(2, 2).Text())
	assert.False(t, spec.Adjustment.Truncated)
}

func TestComposePlaceholder(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Photo", Layout: model.LayoutImageContent, ImageRef: "missing.png"}
	err := &model.MediaFetchError{Ref: "missing.png", Err: fs.ErrNotExist}
	slide := fx.compose(spec, Frame{Index: 1, ImageErr: err})

	assert.Equal(t, "media", spec.Adjustment.Template)
	assert.True(t, spec.Adjustment.Has(model.DiagMediaFetch))
	box := findShape(slide.GetShapes(), "Placeholder").(*pptx.AutoShape)
	assert.Contains(t, box.Text(), placeholderLabel)
	assert.Contains(t, box.Text(), "missing.png")
	assert.Nil(t, findShape(slide.GetShapes(), "Picture"))
}

func TestComposePictureKeepsAspect(t *testing.T) {
	fx := newFixture()
	asset, err := media.Resolve("wide.png", solidPNG(t, 400, 200, color.RGBA{10, 20, 30, 255}))
	require.NoError(t, err)

	spec := &model.SlideSpec{Title: "Photo", ImageRef: "wide.png"}
	slide := fx.compose(spec, Frame{Index: 1, Image: asset})

	pic := findShape(slide.GetShapes(), "Picture").(*pptx.DrawingShape)
	assert.Equal(t, "image/png", pic.GetMimeType())
	assert.Equal(t, int64(6400800), pic.GetWidth())
	assert.Equal(t, int64(3200400), pic.GetHeight())
	assert.Equal(t, int64(1371600), pic.GetOffsetX())
	assert.Equal(t, spec.Adjustment.Image.W, pic.GetWidth())
	assert.Empty(t, spec.Adjustment.Diagnostics)
}

func TestFitAspect(t *testing.T) {
	r := model.Rect{X: 100, Y: 100, W: 1000, H: 1000}
	assert.Equal(t, model.Rect{X: 100, Y: 350, W: 1000, H: 500}, fitAspect(r, 2))
	assert.Equal(t, model.Rect{X: 350, Y: 100, W: 500, H: 1000}, fitAspect(r, 0.5))
	assert.Equal(t, r, fitAspect(r, 0))
}

func TestComposeChart(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{
		Title:  "Growth",
		Layout: model.LayoutChart,
		Table:  &model.TableData{Headers: []string{"Year", "Revenue"}, Rows: [][]string{{"2023", "1,200"}, {"2024", "1,800"}}},
	}
	slide := fx.compose(spec, Frame{Index: 1})

	assert.Equal(t, "media", spec.Adjustment.Template)
	chart := findShape(slide.GetShapes(), "Chart").(*pptx.ChartShape)
	bar, ok := chart.GetPlotArea().GetType().(*pptx.BarChart)
	require.True(t, ok)
	require.Len(t, bar.GetSeries(), 1)
	assert.False(t, chart.GetLegend().Visible)
	assert.Equal(t, "", MediaRef(spec))
}

func TestMediaRef(t *testing.T) {
	assert.Equal(t, "a.png", MediaRef(&model.SlideSpec{ImageRef: "a.png", ChartRef: "c.png"}))
	assert.Equal(t, "c.png", MediaRef(&model.SlideSpec{ChartRef: "c.png"}))
	assert.Equal(t, "", MediaRef(&model.SlideSpec{ChartRef: "c.png", Chart: &model.ChartData{Categories: []string{"a"}, Series: []model.ChartSeries{{Values: []float64{1}}}}}))
}

func TestComposeBackgroundOverlay(t *testing.T) {
	fx := newFixture()
	red := color.RGBA{200, 0, 0, 255}
	asset, err := media.Resolve("bg.png", solidPNG(t, 64, 64, red))
	require.NoError(t, err)

	spec := &model.SlideSpec{Title: "Backdrop", BackgroundRef: "bg.png", Bullets: []string{"a"}}
	slide := fx.compose(spec, Frame{Index: 1, Background: asset})

	want := contrast.Blend(model.RGB{R: 200}, fx.scheme.Background, fx.cfg.Compose.BodyOverlayAlpha)
	assert.Equal(t, model.RGB{R: 241, G: 191, B: 191}, want)
	assert.Equal(t, want, spec.Adjustment.Background)
	assert.Equal(t, fx.cfg.Contrast.Dark, spec.Adjustment.TextColor)

	shapes := slide.GetShapes()
	require.GreaterOrEqual(t, len(shapes), 2)
	assert.Equal(t, "Background", shapes[0].(*pptx.DrawingShape).GetName())
	overlay := shapes[1].(*pptx.AutoShape)
	assert.Equal(t, "Overlay", overlay.GetName())
	assert.Equal(t, uint8(191), overlay.GetFill().Color.GetAlpha())
}

func TestComposeTitleOverlayIsDark(t *testing.T) {
	fx := newFixture()
	asset, err := media.Resolve("bg.png", solidPNG(t, 64, 64, color.RGBA{255, 255, 255, 255}))
	require.NoError(t, err)

	spec := &model.SlideSpec{Title: "Deck", Role: model.RoleTitle, BackgroundRef: "bg.png", Bullets: []string{"subtitle"}}
	slide := fx.compose(spec, Frame{Index: 0, Background: asset})

	assert.Equal(t, "title", spec.Adjustment.Template)
	assert.Equal(t, model.RGB{R: 115, G: 115, B: 115}, spec.Adjustment.Background)
	assert.Equal(t, fx.cfg.Contrast.Light, spec.Adjustment.TextColor)
	sub := findShape(slide.GetShapes(), "Subtitle").(*pptx.PlaceholderShape)
	assert.Equal(t, pptx.PlaceholderSubTitle, sub.GetPlaceholderType())
}

func TestComposeBackgroundFetchFailure(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Backdrop", BackgroundRef: "gone.png", Bullets: []string{"a"}}
	slide := fx.compose(spec, Frame{Index: 1, BackgroundErr: &model.MediaFetchError{Ref: "gone.png", Err: fs.ErrNotExist}})

	assert.True(t, spec.Adjustment.Has(model.DiagMediaFetch))
	assert.Equal(t, fx.scheme.Background, spec.Adjustment.Background)
	assert.Nil(t, findShape(slide.GetShapes(), "Background"))
}

func TestComposeDivider(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{
		Title:       "Market",
		Role:        model.RoleOutline,
		SectionSize: 5,
		Bullets:     []string{"one", "two", "three", "four", "five", strings.Repeat("long ", 20)},
	}
	slide := fx.compose(spec, Frame{Index: 2})

	adj := spec.Adjustment
	assert.Equal(t, "section_divider", adj.Template)
	assert.Equal(t, fx.scheme.Accent, adj.Background)
	assert.Equal(t, fx.cfg.Contrast.Light, adj.TextColor)
	assert.Equal(t, 44, adj.TitleSize)
	assert.True(t, adj.Truncated)

	box := findShape(slide.GetShapes(), "Highlights").(*pptx.RichTextShape)
	assert.Len(t, box.GetParagraphs(), 4)
	assert.Equal(t, rgb(fx.scheme.Accent), slide.GetBackground().Color)
}

func TestComposeTimeline(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "History", Layout: model.LayoutTimeline, Bullets: []string{"2020: Founded", "2021: Seed round", "2022 - Launch"}}
	slide := fx.compose(spec, Frame{Index: 1})

	assert.Equal(t, "timeline", spec.Adjustment.Template)
	group := findShape(slide.GetShapes(), "Markers").(*pptx.GroupShape)
	assert.Equal(t, 3, group.GetShapeCount())
	for _, s := range group.GetShapes() {
		assert.Equal(t, pptx.AutoShapeEllipse, s.(*pptx.AutoShape).GetAutoShapeType())
	}
	axis := findShape(slide.GetShapes(), "Axis").(*pptx.LineShape)
	assert.Equal(t, rgb(fx.scheme.Secondary), axis.GetLineColor())

	var dates []string
	for _, s := range slide.GetShapes() {
		if box, ok := s.(*pptx.RichTextShape); ok && box.GetName() == "Date" {
			dates = append(dates, box.Text())
		}
	}
	assert.Equal(t, []string{"2020", "2021", "2022"}, dates)
}

func TestParseEvent(t *testing.T) {
	assert.Equal(t, event{"Q1", "Plan"}, parseEvent("Q1: Plan"))
	assert.Equal(t, event{"2024", "Ship it"}, parseEvent("2024 - Ship it"))
	assert.Equal(t, event{date: "Someday"}, parseEvent("Someday"))
}

func TestComposeQuote(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Vision", Layout: model.LayoutQuote, Paragraph: "Stay hungry.", SectionTitle: "Founders"}
	slide := fx.compose(spec, Frame{Index: 1})

	assert.Equal(t, "quote", spec.Adjustment.Template)
	glyph := findShape(slide.GetShapes(), "Glyph").(*pptx.RichTextShape)
	assert.Equal(t, quoteGlyph, glyph.Text())
	quote := findShape(slide.GetShapes(), "Quote").(*pptx.RichTextShape)
	assert.Equal(t, "Stay hungry.", quote.Text())
	assert.True(t, runs(quote.GetParagraphs()[0])[0].GetFont().Italic)
	attrib := findShape(slide.GetShapes(), "Attribution").(*pptx.RichTextShape)
	assert.Equal(t, "— Founders", attrib.Text())
}

func TestQuoteParts(t *testing.T) {
	text, by := quoteParts(&model.SlideSpec{Bullets: []string{"Be bold.", "A. Person"}, SectionTitle: "S"})
	assert.Equal(t, "Be bold.", text)
	assert.Equal(t, "A. Person", by)

	_, by = quoteParts(&model.SlideSpec{Paragraph: "p", Attribution: "Explicit", Bullets: []string{"x", "y"}})
	assert.Equal(t, "Explicit", by)
}

func TestComposeComparison(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Options", Layout: model.LayoutComparison, Bullets: []string{"Build", "Fast", "Buy", "Cheap"}}
	slide := fx.compose(spec, Frame{Index: 1})

	assert.Equal(t, "comparison", spec.Adjustment.Template)
	assert.True(t, spec.Adjustment.Split)
	badge := findShape(slide.GetShapes(), "Versus").(*pptx.AutoShape)
	assert.Equal(t, badgeText, badge.Text())
	assert.Equal(t, pptx.AutoShapeEllipse, badge.GetAutoShapeType())

	left := findShape(slide.GetShapes(), "Left").(*pptx.AutoShape)
	assert.Equal(t, pptx.BorderSolid, left.GetBorder().Style)
	assert.Equal(t, "Build\nFast", left.Text())
}

func TestComposeNarrative(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Story", Paragraph: strings.Repeat("The quick brown fox jumps. ", 12)}
	slide := fx.compose(spec, Frame{Index: 1})

	assert.Equal(t, "narrative", spec.Adjustment.Template)
	body := findShape(slide.GetShapes(), "Body").(*pptx.RichTextShape)
	p := body.GetParagraphs()[0]
	assert.Equal(t, pptx.HorizontalJustify, p.GetAlignment().Horizontal)
	assert.Equal(t, narrativeSpace, p.GetLineSpacing())
	assert.Nil(t, p.GetBullet())
}

func TestComposeRecoversFromPanic(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Broken", Table: &model.TableData{Headers: []string{"A"}, Rows: [][]string{{"1"}}}}
	a := fx.selector.Select(spec)
	require.Equal(t, layout.TemplateTable, a.Template)
	spec.Table = nil

	var slide *pptx.Slide
	require.NotPanics(t, func() {
		slide = fx.composer.Compose(spec, a, Frame{Index: 4, Scheme: fx.scheme})
	})
	require.NotNil(t, slide)
	assert.Equal(t, "Slide 5 - Error", slide.GetName())
	assert.Equal(t, "error", spec.Adjustment.Template)
	assert.True(t, spec.Adjustment.Has(model.DiagComposePanic))
	title := findShape(slide.GetShapes(), "Title").(*pptx.PlaceholderShape)
	assert.Equal(t, "Slide 5 - Error", title.Text())
}

func TestComposeRecordsLayoutDiagnostics(t *testing.T) {
	fx := newFixture()
	spec := &model.SlideSpec{Title: "Short", Layout: model.LayoutTimeline, Bullets: []string{"2020: only"}}
	fx.compose(spec, Frame{Index: 1})

	assert.Equal(t, "bullets", spec.Adjustment.Template)
	assert.True(t, spec.Adjustment.Has(model.DiagContentMismatch))
}
