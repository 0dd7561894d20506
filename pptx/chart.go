package pptx

// ChartShape represents a native chart embedded in a slide.
type ChartShape struct {
	BaseShape
	title    *ChartTitle
	plotArea *PlotArea
	legend   *ChartLegend
}

func (c *ChartShape) GetType() ShapeType { return ShapeTypeChart }

// NewChartShape creates a new chart shape.
func NewChartShape() *ChartShape {
	return &ChartShape{
		title:    NewChartTitle(),
		plotArea: NewPlotArea(),
		legend:   NewChartLegend(),
	}
}

// GetTitle returns the chart title.
func (c *ChartShape) GetTitle() *ChartTitle { return c.title }

// GetPlotArea returns the plot area.
func (c *ChartShape) GetPlotArea() *PlotArea { return c.plotArea }

// GetLegend returns the chart legend.
func (c *ChartShape) GetLegend() *ChartLegend { return c.legend }

// ChartTitle represents a chart title.
type ChartTitle struct {
	Text    string
	Visible bool
	Font    *Font
}

// NewChartTitle creates a new chart title.
func NewChartTitle() *ChartTitle {
	return &ChartTitle{
		Visible: true,
		Font:    NewFont().SetSize(14),
	}
}

// SetText sets the title text.
func (ct *ChartTitle) SetText(text string) *ChartTitle {
	ct.Text = text
	return ct
}

// SetVisible sets the title visibility.
func (ct *ChartTitle) SetVisible(v bool) *ChartTitle {
	ct.Visible = v
	return ct
}

// PlotArea represents the chart plot area.
type PlotArea struct {
	chartType ChartType
	axisX     *ChartAxis
	axisY     *ChartAxis
}

// NewPlotArea creates a new plot area.
func NewPlotArea() *PlotArea {
	return &PlotArea{
		axisX: NewChartAxis(),
		axisY: NewChartAxis(),
	}
}

// SetType sets the chart type.
func (pa *PlotArea) SetType(ct ChartType) { pa.chartType = ct }

// GetType returns the chart type.
func (pa *PlotArea) GetType() ChartType { return pa.chartType }

// GetAxisX returns the category axis.
func (pa *PlotArea) GetAxisX() *ChartAxis { return pa.axisX }

// GetAxisY returns the value axis.
func (pa *PlotArea) GetAxisY() *ChartAxis { return pa.axisY }

// ChartAxis represents a chart axis.
type ChartAxis struct {
	Title          string
	Visible        bool
	MajorGridlines bool
	Font           *Font
}

// NewChartAxis creates a new visible chart axis.
func NewChartAxis() *ChartAxis {
	return &ChartAxis{
		Visible: true,
		Font:    NewFont().SetSize(12),
	}
}

// ChartLegend represents a chart legend.
type ChartLegend struct {
	Visible  bool
	Position LegendPosition
}

// LegendPosition represents the legend position.
type LegendPosition string

const (
	LegendBottom LegendPosition = "b"
	LegendTop    LegendPosition = "t"
	LegendRight  LegendPosition = "r"
)

// NewChartLegend creates a new bottom legend.
func NewChartLegend() *ChartLegend {
	return &ChartLegend{
		Visible:  true,
		Position: LegendBottom,
	}
}

// ChartType is the interface for chart types.
type ChartType interface {
	GetChartTypeName() string
	GetSeries() []*ChartSeries
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Title      string
	Categories []string
	Values     []float64 // parallel to Categories
	FillColor  Color
	ShowValue  bool
}

// NewChartSeriesOrdered creates a series with ordered categories.
// If len(values) < len(categories), missing values default to 0.
// Extra values beyond len(categories) are ignored.
func NewChartSeriesOrdered(title string, categories []string, values []float64) *ChartSeries {
	vals := make([]float64, len(categories))
	copy(vals, values)
	return &ChartSeries{
		Title:      title,
		Categories: categories,
		Values:     vals,
	}
}

// SetFillColor sets the series fill color.
func (s *ChartSeries) SetFillColor(c Color) *ChartSeries {
	s.FillColor = c
	return s
}

// BarChart represents a bar/column chart.
type BarChart struct {
	Series          []*ChartSeries
	BarGrouping     string
	BarDirection    string
	GapWidthPercent int
}

// Bar grouping constants.
const (
	BarGroupingClustered = "clustered"
	BarGroupingStacked   = "stacked"
)

// Bar direction constants.
const (
	BarDirectionVertical   = "col"
	BarDirectionHorizontal = "bar"
)

func (b *BarChart) GetChartTypeName() string     { return "bar" }
func (b *BarChart) GetSeries() []*ChartSeries { return b.Series }

// NewBarChart creates a new clustered column chart.
func NewBarChart() *BarChart {
	return &BarChart{
		Series:          make([]*ChartSeries, 0),
		BarGrouping:     BarGroupingClustered,
		BarDirection:    BarDirectionVertical,
		GapWidthPercent: 150,
	}
}

// AddSeries adds a data series.
func (b *BarChart) AddSeries(s *ChartSeries) *BarChart {
	b.Series = append(b.Series, s)
	return b
}

// LineChart represents a line chart.
type LineChart struct {
	Series []*ChartSeries
}

func (l *LineChart) GetChartTypeName() string     { return "line" }
func (l *LineChart) GetSeries() []*ChartSeries { return l.Series }

// NewLineChart creates a new line chart.
func NewLineChart() *LineChart {
	return &LineChart{Series: make([]*ChartSeries, 0)}
}

// AddSeries adds a data series.
func (l *LineChart) AddSeries(s *ChartSeries) *LineChart {
	l.Series = append(l.Series, s)
	return l
}

// PieChart represents a pie chart. Only the first series is drawn by viewers.
type PieChart struct {
	Series []*ChartSeries
}

func (p *PieChart) GetChartTypeName() string     { return "pie" }
func (p *PieChart) GetSeries() []*ChartSeries { return p.Series }

// NewPieChart creates a new pie chart.
func NewPieChart() *PieChart {
	return &PieChart{Series: make([]*ChartSeries, 0)}
}

// AddSeries adds a data series.
func (p *PieChart) AddSeries(s *ChartSeries) *PieChart {
	p.Series = append(p.Series, s)
	return p
}
