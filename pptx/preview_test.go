package pptx

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func previewDeck() *Presentation {
	p := New()
	slide := p.CreateSlide()
	slide.SetBackground(NewFill().SetSolid(NewColorRGB(10, 40, 90)))

	box := slide.CreateAutoShape()
	box.SetPosition(Inch(1), Inch(1))
	box.SetSize(Inch(2), Inch(1))
	box.SetSolidFill(NewColorRGB(250, 200, 0))
	box.SetText("Revenue")

	title := slide.CreateRichTextShape()
	title.SetPosition(Inch(0.5), Inch(5))
	title.SetSize(Inch(9), Inch(1))
	title.CreateTextRun("A long title that has to wrap across more than one line of the preview")

	chart := slide.CreateChartShape()
	chart.SetPosition(Inch(5), Inch(1))
	chart.SetSize(Inch(4), Inch(3))
	chart.GetPlotArea().SetType(NewBarChart().AddSeries(
		NewChartSeriesOrdered("2024", []string{"Q1", "Q2"}, []float64{3, 6}).SetFillColor(NewColorRGB(0, 160, 0))))

	second := p.CreateSlide()
	second.CreateLineShape().SetLineWidth(4)
	return p
}

func TestPreviewSize(t *testing.T) {
	img, err := previewDeck().Preview(0, &PreviewOptions{Fonts: NewFontCache(true)})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 960 || b.Dy() != 720 {
		t.Fatalf("expected 960x720, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestPreviewPixels(t *testing.T) {
	img, err := previewDeck().Preview(0, &PreviewOptions{Width: 960, Fonts: NewFontCache(true)})
	if err != nil {
		t.Fatalf("Preview failed: %v", err)
	}
	// 96 px per inch at 960 wide on a 10in canvas
	if c := img.RGBAAt(5, 5); c.R != 10 || c.G != 40 || c.B != 90 {
		t.Errorf("background pixel = %v", c)
	}
	if c := img.RGBAAt(100, 100); c.R != 250 || c.G != 200 || c.B != 0 {
		t.Errorf("auto shape pixel = %v", c)
	}
	// both bars cover this row of the plot area
	found := false
	for x := 480; x < 864 && !found; x++ {
		c := img.RGBAAt(x, 300)
		found = c.R == 0 && c.G == 160 && c.B == 0
	}
	if !found {
		t.Error("expected a bar pixel in the chart area")
	}
}

func TestPreviewOutOfRange(t *testing.T) {
	if _, err := previewDeck().Preview(2, nil); err == nil {
		t.Fatal("expected an error for a missing slide")
	}
	if _, err := New().Preview(0, nil); err == nil {
		t.Fatal("expected an error for an empty presentation")
	}
}

func TestSavePreviews(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "previews")
	paths, err := previewDeck().SavePreviews(dir, &PreviewOptions{Width: 320, Fonts: NewFontCache(true)})
	if err != nil {
		t.Fatalf("SavePreviews failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 previews, got %d", len(paths))
	}
	if filepath.Base(paths[1]) != "slide02.png" {
		t.Errorf("unexpected name %s", paths[1])
	}
	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("unexpected size %v", img.Bounds())
	}
}
