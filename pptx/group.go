package pptx

// GroupShape represents a group of shapes positioned in slide coordinates.
type GroupShape struct {
	BaseShape
	shapes []Shape
}

func (g *GroupShape) GetType() ShapeType { return ShapeTypeGroup }

// NewGroupShape creates a new group shape.
func NewGroupShape() *GroupShape {
	return &GroupShape{
		shapes: make([]Shape, 0),
	}
}

// AddShape adds a shape to the group and grows the group bounds to contain it.
func (g *GroupShape) AddShape(s Shape) *GroupShape {
	if len(g.shapes) == 0 {
		g.offsetX, g.offsetY = s.GetOffsetX(), s.GetOffsetY()
		g.width, g.height = s.GetWidth(), s.GetHeight()
	} else {
		right := max(g.offsetX+g.width, s.GetOffsetX()+s.GetWidth())
		bottom := max(g.offsetY+g.height, s.GetOffsetY()+s.GetHeight())
		g.offsetX = min(g.offsetX, s.GetOffsetX())
		g.offsetY = min(g.offsetY, s.GetOffsetY())
		g.width = right - g.offsetX
		g.height = bottom - g.offsetY
	}
	g.shapes = append(g.shapes, s)
	return g
}

// GetShapes returns all shapes in the group.
func (g *GroupShape) GetShapes() []Shape {
	return g.shapes
}

// GetShapeCount returns the number of shapes in the group.
func (g *GroupShape) GetShapeCount() int {
	return len(g.shapes)
}

// PlaceholderShape represents a layout placeholder (title, body, etc.).
type PlaceholderShape struct {
	RichTextShape
	phType PlaceholderType
	phIdx  int
}

func (p *PlaceholderShape) GetType() ShapeType { return ShapeTypePlaceholder }

// PlaceholderType represents the type of placeholder.
type PlaceholderType string

const (
	PlaceholderTitle    PlaceholderType = "title"
	PlaceholderBody     PlaceholderType = "body"
	PlaceholderCtrTitle PlaceholderType = "ctrTitle"
	PlaceholderSubTitle PlaceholderType = "subTitle"
)

// NewPlaceholderShape creates a new placeholder shape.
func NewPlaceholderShape(phType PlaceholderType) *PlaceholderShape {
	return &PlaceholderShape{
		RichTextShape: *NewRichTextShape(),
		phType:        phType,
	}
}

// GetPlaceholderType returns the placeholder type.
func (p *PlaceholderShape) GetPlaceholderType() PlaceholderType {
	return p.phType
}

// SetText sets the placeholder text, replacing all existing content with a
// single run that is returned for styling.
func (p *PlaceholderShape) SetText(text string) *TextRun {
	p.paragraphs = []*Paragraph{NewParagraph()}
	p.activeParagraph = 0
	return p.paragraphs[0].CreateTextRun(text)
}
