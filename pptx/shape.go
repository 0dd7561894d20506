package pptx

import "strings"

// Shape is the interface that all shapes implement.
type Shape interface {
	GetType() ShapeType
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	// base returns the underlying BaseShape (unexported, internal use only).
	base() *BaseShape
}

// ShapeType represents the type of shape.
type ShapeType int

const (
	ShapeTypeRichText ShapeType = iota
	ShapeTypeDrawing
	ShapeTypeTable
	ShapeTypeAutoShape
	ShapeTypeLine
	ShapeTypeChart
	ShapeTypeGroup
	ShapeTypePlaceholder
)

// BaseShape contains common shape properties.
type BaseShape struct {
	name        string
	description string
	offsetX     int64 // in EMU
	offsetY     int64 // in EMU
	width       int64 // in EMU
	height      int64 // in EMU
	fill        *Fill
	border      *Border
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetName(n string) *BaseShape { b.name = n; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

func (b *BaseShape) GetDescription() string  { return b.description }
func (b *BaseShape) SetDescription(d string) { b.description = d }

func (b *BaseShape) GetFill() *Fill {
	if b.fill == nil {
		b.fill = NewFill()
	}
	return b.fill
}

func (b *BaseShape) SetFill(f *Fill) { b.fill = f }

func (b *BaseShape) GetBorder() *Border {
	if b.border == nil {
		b.border = NewBorder()
	}
	return b.border
}

func (b *BaseShape) SetBorder(border *Border) { b.border = border }

// TextAnchorType represents the vertical anchoring of text within a shape.
type TextAnchorType string

const (
	TextAnchorTop    TextAnchorType = "t"
	TextAnchorMiddle TextAnchorType = "ctr"
	TextAnchorBottom TextAnchorType = "b"
	TextAnchorNone   TextAnchorType = ""
)

// RichTextShape represents a text box.
type RichTextShape struct {
	BaseShape
	paragraphs      []*Paragraph
	activeParagraph int
	wordWrap        bool
	textAnchor      TextAnchorType
}

func (r *RichTextShape) GetType() ShapeType { return ShapeTypeRichText }

// NewRichTextShape creates a new rich text shape with one empty paragraph.
func NewRichTextShape() *RichTextShape {
	return &RichTextShape{
		paragraphs: []*Paragraph{NewParagraph()},
		wordWrap:   true,
	}
}

// GetActiveParagraph returns the active paragraph.
func (r *RichTextShape) GetActiveParagraph() *Paragraph {
	if len(r.paragraphs) == 0 {
		r.paragraphs = append(r.paragraphs, NewParagraph())
	}
	return r.paragraphs[r.activeParagraph]
}

// CreateParagraph creates a new paragraph and makes it active. The initial
// empty paragraph is reused when nothing has been written to it yet.
func (r *RichTextShape) CreateParagraph() *Paragraph {
	if len(r.paragraphs) == 1 && len(r.paragraphs[0].elements) == 0 {
		r.activeParagraph = 0
		return r.paragraphs[0]
	}
	p := NewParagraph()
	r.paragraphs = append(r.paragraphs, p)
	r.activeParagraph = len(r.paragraphs) - 1
	return p
}

// GetParagraphs returns all paragraphs.
func (r *RichTextShape) GetParagraphs() []*Paragraph {
	return r.paragraphs
}

// CreateTextRun creates a text run in the active paragraph.
func (r *RichTextShape) CreateTextRun(text string) *TextRun {
	return r.GetActiveParagraph().CreateTextRun(text)
}

// SetWordWrap sets word wrap.
func (r *RichTextShape) SetWordWrap(wrap bool) {
	r.wordWrap = wrap
}

// SetTextAnchor sets the vertical position of text within the shape.
func (r *RichTextShape) SetTextAnchor(anchor TextAnchorType) {
	r.textAnchor = anchor
}

// GetTextAnchor returns the text anchoring type.
func (r *RichTextShape) GetTextAnchor() TextAnchorType {
	return r.textAnchor
}

// Text returns the plain text of all paragraphs joined by newlines.
func (r *RichTextShape) Text() string {
	return paragraphsText(r.paragraphs)
}

// Paragraph represents a text paragraph.
type Paragraph struct {
	elements    []ParagraphElement
	alignment   *Alignment
	bullet      *Bullet
	lineSpacing int // >0: points*100, <0: percent*1000
	spaceBefore int // points*100
	spaceAfter  int
}

// ParagraphElement is the interface for paragraph content.
type ParagraphElement interface {
	GetElementType() string
}

// NewParagraph creates a new paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{
		elements:  make([]ParagraphElement, 0),
		alignment: NewAlignment(),
	}
}

// GetAlignment returns the paragraph alignment.
func (p *Paragraph) GetAlignment() *Alignment { return p.alignment }

// SetAlignment sets the paragraph alignment.
func (p *Paragraph) SetAlignment(a *Alignment) { p.alignment = a }

// GetBullet returns the paragraph bullet.
func (p *Paragraph) GetBullet() *Bullet { return p.bullet }

// SetBullet sets the paragraph bullet.
func (p *Paragraph) SetBullet(b *Bullet) { p.bullet = b }

// GetLineSpacing returns the line spacing.
func (p *Paragraph) GetLineSpacing() int { return p.lineSpacing }

// SetLineSpacing sets the line spacing. Negative values are percentages
// in thousandths (-150000 is 150%), positive values are points*100.
func (p *Paragraph) SetLineSpacing(spacing int) { p.lineSpacing = spacing }

// GetSpaceBefore returns the space before the paragraph.
func (p *Paragraph) GetSpaceBefore() int { return p.spaceBefore }

// SetSpaceBefore sets the space before the paragraph in points*100.
func (p *Paragraph) SetSpaceBefore(v int) { p.spaceBefore = v }

// GetSpaceAfter returns the space after the paragraph.
func (p *Paragraph) GetSpaceAfter() int { return p.spaceAfter }

// SetSpaceAfter sets the space after the paragraph in points*100.
func (p *Paragraph) SetSpaceAfter(v int) { p.spaceAfter = v }

// GetElements returns all paragraph elements.
func (p *Paragraph) GetElements() []ParagraphElement { return p.elements }

// CreateTextRun creates a new text run.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{
		text: text,
		font: NewFont(),
	}
	p.elements = append(p.elements, tr)
	return tr
}

// CreateBreak creates a line break element.
func (p *Paragraph) CreateBreak() *BreakElement {
	br := &BreakElement{}
	p.elements = append(p.elements, br)
	return br
}

// Text returns the concatenated run text, with breaks as newlines.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, e := range p.elements {
		switch el := e.(type) {
		case *TextRun:
			sb.WriteString(el.text)
		case *BreakElement:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func paragraphsText(paras []*Paragraph) string {
	lines := make([]string, 0, len(paras))
	for _, p := range paras {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// TextRun represents a run of text with formatting.
type TextRun struct {
	text string
	font *Font
}

func (tr *TextRun) GetElementType() string { return "textrun" }

// GetText returns the text content.
func (tr *TextRun) GetText() string { return tr.text }

// SetText sets the text content.
func (tr *TextRun) SetText(text string) { tr.text = text }

// GetFont returns the font properties.
func (tr *TextRun) GetFont() *Font { return tr.font }

// SetFont sets the font properties.
func (tr *TextRun) SetFont(f *Font) { tr.font = f }

// BreakElement represents a line break.
type BreakElement struct{}

func (br *BreakElement) GetElementType() string { return "break" }

// DrawingShape represents a picture.
type DrawingShape struct {
	BaseShape
	data     []byte
	mimeType string
}

func (d *DrawingShape) GetType() ShapeType { return ShapeTypeDrawing }

// NewDrawingShape creates a new drawing shape.
func NewDrawingShape() *DrawingShape {
	return &DrawingShape{}
}

// SetImageData sets the raw image bytes and their MIME type.
func (d *DrawingShape) SetImageData(data []byte, mimeType string) *DrawingShape {
	d.data = data
	d.mimeType = mimeType
	return d
}

// GetImageData returns the raw image data.
func (d *DrawingShape) GetImageData() []byte { return d.data }

// GetMimeType returns the image MIME type.
func (d *DrawingShape) GetMimeType() string { return d.mimeType }

// AutoShape represents a preset geometry shape (rectangle, ellipse, etc.).
type AutoShape struct {
	BaseShape
	shapeType  AutoShapeType
	paragraphs []*Paragraph
	textAnchor TextAnchorType
}

// AutoShapeType is the DrawingML preset geometry name.
type AutoShapeType string

const (
	AutoShapeRectangle   AutoShapeType = "rect"
	AutoShapeRoundedRect AutoShapeType = "roundRect"
	AutoShapeEllipse     AutoShapeType = "ellipse"
	AutoShapeChevron     AutoShapeType = "chevron"
)

func (a *AutoShape) GetType() ShapeType { return ShapeTypeAutoShape }

// NewAutoShape creates a new rectangle auto shape.
func NewAutoShape() *AutoShape {
	return &AutoShape{
		shapeType:  AutoShapeRectangle,
		textAnchor: TextAnchorMiddle,
	}
}

// SetAutoShapeType sets the preset geometry.
func (a *AutoShape) SetAutoShapeType(t AutoShapeType) *AutoShape {
	a.shapeType = t
	return a
}

// GetAutoShapeType returns the preset geometry.
func (a *AutoShape) GetAutoShapeType() AutoShapeType {
	return a.shapeType
}

// SetSolidFill sets a solid fill on the auto shape.
func (a *AutoShape) SetSolidFill(c Color) *AutoShape {
	a.GetFill().SetSolid(c)
	return a
}

// SetText replaces the shape text with a single run and returns it for styling.
func (a *AutoShape) SetText(text string) *TextRun {
	p := NewParagraph()
	p.GetAlignment().SetHorizontal(HorizontalCenter)
	a.paragraphs = []*Paragraph{p}
	return p.CreateTextRun(text)
}

// CreateParagraph appends a paragraph to the shape text.
func (a *AutoShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	a.paragraphs = append(a.paragraphs, p)
	return p
}

// GetParagraphs returns the shape paragraphs.
func (a *AutoShape) GetParagraphs() []*Paragraph {
	return a.paragraphs
}

// SetTextAnchor sets the vertical text anchor.
func (a *AutoShape) SetTextAnchor(anchor TextAnchorType) *AutoShape {
	a.textAnchor = anchor
	return a
}

// Text returns the plain shape text.
func (a *AutoShape) Text() string {
	return paragraphsText(a.paragraphs)
}

// LineShape represents a straight connector.
type LineShape struct {
	BaseShape
	lineStyle BorderStyle
	lineWidth int // in points
	lineColor Color
}

func (l *LineShape) GetType() ShapeType { return ShapeTypeLine }

// NewLineShape creates a new 1pt black line.
func NewLineShape() *LineShape {
	return &LineShape{
		lineStyle: BorderSolid,
		lineWidth: 1,
		lineColor: ColorBlack,
	}
}

// SetLineStyle sets the line style.
func (l *LineShape) SetLineStyle(s BorderStyle) *LineShape {
	l.lineStyle = s
	return l
}

// SetLineWidth sets the line width in points.
func (l *LineShape) SetLineWidth(w int) *LineShape {
	l.lineWidth = w
	return l
}

// GetLineWidth returns the line width in points.
func (l *LineShape) GetLineWidth() int { return l.lineWidth }

// SetLineColor sets the line color.
func (l *LineShape) SetLineColor(c Color) *LineShape {
	l.lineColor = c
	return l
}

// GetLineColor returns the line color.
func (l *LineShape) GetLineColor() Color { return l.lineColor }

// TableShape represents a table graphic frame.
type TableShape struct {
	BaseShape
	rows    [][]*TableCell
	numRows int
	numCols int
}

func (t *TableShape) GetType() ShapeType { return ShapeTypeTable }

// NewTableShape creates a new table shape.
func NewTableShape(rows, cols int) *TableShape {
	table := &TableShape{
		numRows: rows,
		numCols: cols,
		rows:    make([][]*TableCell, rows),
	}
	for i := 0; i < rows; i++ {
		table.rows[i] = make([]*TableCell, cols)
		for j := 0; j < cols; j++ {
			table.rows[i][j] = NewTableCell()
		}
	}
	return table
}

// GetCell returns a cell at the given row and column, or nil when out of range.
func (t *TableShape) GetCell(row, col int) *TableCell {
	if row < 0 || row >= t.numRows || col < 0 || col >= t.numCols {
		return nil
	}
	return t.rows[row][col]
}

// GetRows returns all rows.
func (t *TableShape) GetRows() [][]*TableCell { return t.rows }

// GetNumRows returns the number of rows.
func (t *TableShape) GetNumRows() int { return t.numRows }

// GetNumCols returns the number of columns.
func (t *TableShape) GetNumCols() int { return t.numCols }

// TableCell represents a table cell.
type TableCell struct {
	paragraphs []*Paragraph
	fill       *Fill
}

// NewTableCell creates a new table cell.
func NewTableCell() *TableCell {
	return &TableCell{
		paragraphs: []*Paragraph{NewParagraph()},
		fill:       NewFill(),
	}
}

// CreateTextRun appends a run to the cell's first paragraph.
func (tc *TableCell) CreateTextRun(text string) *TextRun {
	if len(tc.paragraphs) == 0 {
		tc.paragraphs = append(tc.paragraphs, NewParagraph())
	}
	return tc.paragraphs[0].CreateTextRun(text)
}

// SetText sets the cell text (convenience method).
func (tc *TableCell) SetText(text string) *TableCell {
	tc.CreateTextRun(text)
	return tc
}

// GetParagraphs returns the cell paragraphs.
func (tc *TableCell) GetParagraphs() []*Paragraph { return tc.paragraphs }

// GetFill returns the cell fill.
func (tc *TableCell) GetFill() *Fill { return tc.fill }

// SetFill sets the cell fill.
func (tc *TableCell) SetFill(f *Fill) { tc.fill = f }

// Text returns the cell's plain text.
func (tc *TableCell) Text() string { return paragraphsText(tc.paragraphs) }
