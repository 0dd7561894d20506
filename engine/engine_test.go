package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VantageDataChat/GoDeck/blueprint"
	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/media"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{30, 60, 90, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sections() []model.Section {
	return []model.Section{
		{Title: "Market", Weight: 10, KeyPoints: []string{"Large and growing", "Fragmented vendors", "Rising demand", "Low switching costs"}},
		{Title: "Product", Weight: 8, KeyPoints: []string{"Fast setup", "Native integrations", "Usage pricing"}},
		{Title: "Team", Weight: 4, KeyPoints: []string{"Experienced founders", "Hiring plan"}},
	}
}

func readBack(t *testing.T, data []byte) *pptx.PackageInfo {
	t.Helper()
	info, err := pptx.ReadPackage(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	return info
}

func TestRenderBlueprintRoundTrip(t *testing.T) {
	e := New(nil)
	bp, _ := e.Blueprint("Pitch", sections(), 12, blueprint.Rotation{})
	doc := bp.Document("Founders", "startup")

	var buf bytes.Buffer
	res, err := e.Write(context.Background(), doc, &buf)
	require.NoError(t, err)
	assert.Equal(t, "startup", res.Scheme.Name)

	info := readBack(t, buf.Bytes())
	require.Len(t, info.Slides, len(doc.Slides))
	for i, s := range info.Slides {
		assert.Equal(t, doc.Slides[i].Title, s.Title, "slide %d", i+1)
	}
	assert.Equal(t, "Pitch", info.Title)
	assert.Equal(t, model.DefaultCanvasWidth, info.SlideWidth)

	for _, s := range res.Document.Slides {
		assert.NotEmpty(t, s.Adjustment.Template, s.Title)
		assert.NotZero(t, s.Adjustment.TitleSize, s.Title)
	}
	assert.Equal(t, "title", res.Document.Slides[0].Adjustment.Template)
	assert.Equal(t, 44, res.Document.Slides[0].Adjustment.TitleSize)
	assert.Empty(t, res.Degraded(), "planned slides only get layouts their content supports")
}

func TestRenderIsIdempotent(t *testing.T) {
	e := New(nil)
	bp, _ := e.Blueprint("Repeat", sections(), 10, blueprint.Rotation{})
	doc := bp.Document("", "")

	var first, second bytes.Buffer
	r1, err := e.Write(context.Background(), doc, &first)
	require.NoError(t, err)
	r2, err := e.Write(context.Background(), doc, &second)
	require.NoError(t, err)

	for i := range r1.Document.Slides {
		assert.Equal(t, r1.Document.Slides[i].Adjustment, r2.Document.Slides[i].Adjustment)
	}
	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestRenderDoesNotMutateInput(t *testing.T) {
	doc := &model.PresentationDocument{Title: "In", Slides: []model.SlideSpec{{Position: 1, Title: "One", Bullets: []string{"a"}}}}
	res, err := New(nil).Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, doc.Slides[0].Adjustment.Template)
	assert.Equal(t, "bullets", res.Document.Slides[0].Adjustment.Template)
}

func TestRenderSortsByPosition(t *testing.T) {
	doc := &model.PresentationDocument{Title: "Order", Slides: []model.SlideSpec{
		{Position: 3, Title: "Third", Bullets: []string{"c"}},
		{Position: 1, Title: "First", Role: model.RoleTitle},
		{Position: 2, Title: "Second", Bullets: []string{"b"}},
		{Position: 2, Title: "Second again", Bullets: []string{"b"}},
	}}
	var buf bytes.Buffer
	_, err := New(nil).Write(context.Background(), doc, &buf)
	require.NoError(t, err)

	info := readBack(t, buf.Bytes())
	titles := make([]string, 0, len(info.Slides))
	for _, s := range info.Slides {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"First", "Second", "Second again", "Third"}, titles)
}

func TestRenderMissingImageDegradesOneSlide(t *testing.T) {
	fetcher := media.MapFetcher{"chart.png": pngBytes(t, 300, 200)}
	doc := &model.PresentationDocument{Title: "Media", Slides: []model.SlideSpec{
		{Position: 1, Title: "Intro", Bullets: []string{"hello"}},
		{Position: 2, Title: "Missing", Layout: model.LayoutImageContent, ImageRef: "missing.png"},
		{Position: 3, Title: "Present", Layout: model.LayoutImageContent, ImageRef: "chart.png"},
	}}

	var buf bytes.Buffer
	res, err := New(nil, WithFetcher(fetcher)).Write(context.Background(), doc, &buf)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res.Degraded())

	slides := res.Document.Slides
	assert.True(t, slides[1].Adjustment.Has(model.DiagMediaFetch))
	assert.Empty(t, slides[0].Adjustment.Diagnostics)
	assert.Empty(t, slides[2].Adjustment.Diagnostics)

	info := readBack(t, buf.Bytes())
	assert.Zero(t, info.Slides[1].Pictures)
	assert.Contains(t, strings.Join(info.Slides[1].Texts, "\n"), "[IMAGE PLACEHOLDER]")
	assert.Equal(t, 1, info.Slides[2].Pictures)
}

func TestRenderDeduplicatesFetches(t *testing.T) {
	data := pngBytes(t, 40, 40)
	var calls atomic.Int32
	fetcher := media.FetcherFunc(func(ctx context.Context, ref string) ([]byte, error) {
		calls.Add(1)
		return data, nil
	})

	doc := &model.PresentationDocument{Title: "Shared"}
	for i := 1; i <= 8; i++ {
		doc.Slides = append(doc.Slides, model.SlideSpec{Position: i, Title: "Slide", ImageRef: "shared.png", BackgroundRef: "shared.png"})
	}
	res, err := New(nil, WithFetcher(fetcher)).Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, res.Degraded())
}

func TestRenderWithoutFetcher(t *testing.T) {
	doc := &model.PresentationDocument{Title: "Bare", Slides: []model.SlideSpec{{Position: 1, Title: "Pic", ImageRef: "a.png"}}}
	res, err := New(nil).Render(context.Background(), doc)
	require.NoError(t, err)

	adj := res.Document.Slides[0].Adjustment
	require.Len(t, adj.Diagnostics, 1)
	assert.Equal(t, model.DiagMediaFetch, adj.Diagnostics[0].Kind)
	assert.Contains(t, adj.Diagnostics[0].Message, media.ErrNoFetcher.Error())
}

func TestRenderUnknownSchemeFallsBack(t *testing.T) {
	doc := &model.PresentationDocument{Title: "S", Scheme: "neon", Slides: []model.SlideSpec{{Position: 1, Title: "x", Bullets: []string{"a"}}}}
	res, err := New(nil).Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "corporate", res.Scheme.Name)
	assert.Equal(t, res.Scheme.Contrast, res.Document.Slides[0].Adjustment.TextColor)
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(nil).Render(ctx, &model.PresentationDocument{Title: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderNilDocument(t *testing.T) {
	_, err := New(nil).Render(context.Background(), nil)
	var asmErr *model.AssemblyError
	assert.True(t, errors.As(err, &asmErr))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	doc := &model.PresentationDocument{Title: "Saved", Slides: []model.SlideSpec{{Position: 1, Title: "Only", Role: model.RoleTitle}}}
	_, err := New(nil).Save(context.Background(), doc, path)
	require.NoError(t, err)

	info, err := pptx.OpenPackage(path)
	require.NoError(t, err)
	require.Len(t, info.Slides, 1)
	assert.Equal(t, "Only", info.Slides[0].Title)
}

func TestRotationContinuesAcrossDecks(t *testing.T) {
	e := New(nil)
	first, rot := e.Blueprint("One", sections(), 10, blueprint.Rotation{})
	second, _ := e.Blueprint("Two", sections(), 10, rot)
	require.NotEmpty(t, first.Slides)
	require.NotEmpty(t, second.Slides)
	assert.NotEqual(t, first.Slides, second.Slides)
}

func TestRenderGrowsSmallCanvas(t *testing.T) {
	doc := &model.PresentationDocument{
		Title:  "Tiny",
		Width:  pptx.Inch(1.2),
		Height: pptx.Inch(2),
		Slides: []model.SlideSpec{
			{Position: 1, Title: "Tiny", Role: model.RoleTitle},
			{Position: 2, Title: "Said", Layout: model.LayoutQuote, Paragraph: "Small canvases still render.", Attribution: "Ops"},
			{Position: 3, Title: "Sides", Layout: model.LayoutComparison, Bullets: []string{"Left", "Right"}},
		},
	}

	var buf bytes.Buffer
	res, err := New(nil).Write(context.Background(), doc, &buf)
	require.NoError(t, err)
	assert.Equal(t, pptx.Inch(4), res.Document.Width)
	assert.Equal(t, pptx.Inch(3.7), res.Document.Height)

	info := readBack(t, buf.Bytes())
	assert.Equal(t, pptx.Inch(4), info.SlideWidth)
	assert.Equal(t, pptx.Inch(3.7), info.SlideHeight)
	require.Len(t, info.Slides, 3)
}

func TestRenderUsesConfiguredCanvas(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.Width = 13.333
	doc := &model.PresentationDocument{Title: "Wide", Slides: []model.SlideSpec{{Position: 1, Title: "Wide", Bullets: []string{"a"}}}}

	var buf bytes.Buffer
	res, err := New(cfg).Write(context.Background(), doc, &buf)
	require.NoError(t, err)
	assert.Equal(t, pptx.Inch(13.333), res.Document.Width)
	assert.Equal(t, model.DefaultCanvasHeight, res.Document.Height)

	info := readBack(t, buf.Bytes())
	assert.Equal(t, pptx.Inch(13.333), info.SlideWidth)
	assert.Zero(t, doc.Width)
}
