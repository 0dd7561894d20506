package compose

import (
	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
)

// table renders a header row in the primary colour and as many data rows
// as fit the body region.
func (d *draw) table() {
	cfg := d.cfg.Compose
	data := d.spec.Table
	r := d.a.Region(layout.RegionBody)
	cols := len(data.Headers)

	rowHeight := pptx.Inch(cfg.TableRowHeight)
	capacity := max(1, int(r.H/rowHeight)-1)
	rows := data.Rows
	if len(rows) > capacity {
		d.adj().Record(&model.OverflowError{Lines: float64(len(rows) + 1), MaxLines: capacity + 1})
		d.adj().Truncated = true
		rows = rows[:capacity]
	}

	shape := d.slide.CreateTableShape(len(rows)+1, cols)
	shape.SetName("Table")
	shape.SetPosition(r.X, r.Y)
	shape.SetSize(r.W, rowHeight*int64(len(rows)+1))

	headerText := d.contrast.TextColor(d.scheme.Primary)
	for col, h := range data.Headers {
		cell := shape.GetCell(0, col)
		cell.GetFill().SetSolid(rgb(d.scheme.Primary))
		cell.CreateTextRun(h).GetFont().SetBold(true).SetSize(cfg.HeaderSize).SetColor(rgb(headerText))
		cell.GetParagraphs()[0].GetAlignment().SetHorizontal(pptx.HorizontalCenter)
	}

	for i, row := range rows {
		for col, value := range normalizeRow(row, cols) {
			shape.GetCell(i+1, col).CreateTextRun(value).GetFont().SetSize(cfg.CellSize).SetColor(rgb(d.text))
		}
	}
	d.adj().BodySize = cfg.CellSize
}

// normalizeRow pads or trims row to width cells.
func normalizeRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
