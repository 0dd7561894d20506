// Package model holds the data that flows through the deck pipeline:
// sections, slide descriptions, their layout adjustments and the error
// taxonomy shared by every stage.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Section is one topic of the deck. Treat it as immutable.
type Section struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description,omitempty"`
	Weight      int          `yaml:"weight,omitempty"`
	KeyPoints   []string     `yaml:"key_points,omitempty"`
	LayoutHints []LayoutType `yaml:"layout_hints,omitempty"`
}

// NormalizedWeight clamps Weight to 1..10; zero or missing is 1.
func (s Section) NormalizedWeight() int {
	return min(max(s.Weight, 1), 10)
}

// TableData is a header row plus data rows.
type TableData struct {
	Headers []string   `yaml:"headers"`
	Rows    [][]string `yaml:"rows"`
}

// Valid reports whether the table meets the table layout contract.
func (t *TableData) Valid() bool {
	return t != nil && len(t.Headers) > 0 && len(t.Rows) > 0
}

// ChartSeries is one named value series.
type ChartSeries struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

// ChartData is a native chart: categories plus parallel series.
type ChartData struct {
	Kind       ChartKind     `yaml:"kind,omitempty"`
	Categories []string      `yaml:"categories"`
	Series     []ChartSeries `yaml:"series"`
}

// Valid reports whether there is anything to plot.
func (c *ChartData) Valid() bool {
	return c != nil && len(c.Categories) > 0 && len(c.Series) > 0
}

// ChartFromTable converts a numeric table into bar chart data. Column 0
// holds category labels; every other column is a series named by its
// header. Thousands separators, percent and currency signs are ignored.
// ok is false when any data cell is not a number.
func ChartFromTable(t *TableData) (ChartData, bool) {
	if !t.Valid() || len(t.Headers) < 2 {
		return ChartData{}, false
	}
	chart := ChartData{Kind: ChartBar}
	for _, name := range t.Headers[1:] {
		chart.Series = append(chart.Series, ChartSeries{Name: name})
	}
	for _, row := range t.Rows {
		if len(row) < len(t.Headers) {
			return ChartData{}, false
		}
		chart.Categories = append(chart.Categories, row[0])
		for col := 1; col < len(t.Headers); col++ {
			v, err := parseNumber(row[col])
			if err != nil {
				return ChartData{}, false
			}
			chart.Series[col-1].Values = append(chart.Series[col-1].Values, v)
		}
	}
	return chart, true
}

var numberCleaner = strings.NewReplacer(",", "", "%", "", "$", "", " ", "")

// parseNumber rejects NaN and infinities, which have no chart encoding.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(numberCleaner.Replace(strings.TrimSpace(s)), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// Rect is an EMU rectangle on the slide canvas.
type Rect struct {
	X int64 `yaml:"x"`
	Y int64 `yaml:"y"`
	W int64 `yaml:"w"`
	H int64 `yaml:"h"`
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Clamp returns r with negative sizes set to zero.
func (r Rect) Clamp() Rect {
	r.W, r.H = max(0, r.W), max(0, r.H)
	return r
}

// LayoutAdjustment records every decision made while rendering a slide.
type LayoutAdjustment struct {
	Template      string       `yaml:"template"`
	TitleSize     int          `yaml:"title_size"`
	BodySize      int          `yaml:"body_size,omitempty"`
	Split         bool         `yaml:"split,omitempty"`
	Truncated     bool         `yaml:"truncated,omitempty"`
	Sparse        bool         `yaml:"sparse,omitempty"`
	Image         Rect         `yaml:"image,omitempty"`
	Background    RGB          `yaml:"background"`
	TextColor     RGB          `yaml:"text_color"`
	ContrastRatio float64      `yaml:"contrast_ratio,omitempty"`
	Diagnostics   []Diagnostic `yaml:"diagnostics,omitempty"`
}

// Record appends a diagnostic derived from err.
func (a *LayoutAdjustment) Record(err error) {
	if err == nil {
		return
	}
	a.Diagnostics = append(a.Diagnostics, DiagnosticFor(err))
}

// Has reports whether a diagnostic of the given kind was recorded.
func (a *LayoutAdjustment) Has(kind DiagnosticKind) bool {
	for _, d := range a.Diagnostics {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// SlideSpec is the normalized description of one slide. Everything except
// Adjustment is input; Adjustment is written during composition.
type SlideSpec struct {
	Position      int         `yaml:"position"`
	Title         string      `yaml:"title"`
	Role          ContentRole `yaml:"role"`
	Layout        LayoutType  `yaml:"layout"`
	SectionTitle  string      `yaml:"section_title,omitempty"`
	SectionSize   int         `yaml:"section_size,omitempty"`
	Bullets       []string    `yaml:"bullets,omitempty"`
	Paragraph     string      `yaml:"paragraph,omitempty"`
	Table         *TableData  `yaml:"table,omitempty"`
	ImageRef      string      `yaml:"image,omitempty"`
	ChartRef      string      `yaml:"chart,omitempty"`
	Chart         *ChartData  `yaml:"chart_data,omitempty"`
	BackgroundRef string      `yaml:"background,omitempty"`
	Attribution   string      `yaml:"attribution,omitempty"`

	Adjustment LayoutAdjustment `yaml:"adjustment,omitempty"`
}

// HasMedia reports whether the slide references an image or chart.
func (s *SlideSpec) HasMedia() bool {
	return s.ImageRef != "" || s.ChartRef != "" || s.Chart.Valid()
}

// HasText reports whether the slide has any body text.
func (s *SlideSpec) HasText() bool {
	return len(s.Bullets) > 0 || strings.TrimSpace(s.Paragraph) != ""
}

// BodyText returns the bullets and paragraph joined by newlines.
func (s *SlideSpec) BodyText() string {
	parts := append([]string{}, s.Bullets...)
	if s.Paragraph != "" {
		parts = append(parts, s.Paragraph)
	}
	return strings.Join(parts, "\n")
}

// Default canvas: 10 x 7.5 in.
const (
	DefaultCanvasWidth  int64 = 9144000
	DefaultCanvasHeight int64 = 6858000
)

// PresentationDocument is the unit of serialization.
type PresentationDocument struct {
	Title  string      `yaml:"title"`
	Author string      `yaml:"author,omitempty"`
	Scheme string      `yaml:"scheme,omitempty"`
	Width  int64       `yaml:"width,omitempty"`
	Height int64       `yaml:"height,omitempty"`
	Slides []SlideSpec `yaml:"slides"`
}

// Canvas returns the slide size, defaulting to 10 x 7.5 in.
func (d *PresentationDocument) Canvas() (int64, int64) {
	w, h := d.Width, d.Height
	if w <= 0 {
		w = DefaultCanvasWidth
	}
	if h <= 0 {
		h = DefaultCanvasHeight
	}
	return w, h
}
