package pptx

// Slide is a single slide: an ordered shape tree plus an optional background.
type Slide struct {
	name       string
	shapes     []Shape
	background *Fill
}

// NewSlide creates an empty slide.
func NewSlide() *Slide {
	return &Slide{shapes: make([]Shape, 0)}
}

// GetName returns the slide name.
func (s *Slide) GetName() string { return s.name }

// SetName sets the slide name written to cSld.
func (s *Slide) SetName(name string) { s.name = name }

// GetShapes returns the shapes in z-order (first is at the back).
func (s *Slide) GetShapes() []Shape { return s.shapes }

// AddShape appends a shape to the slide.
func (s *Slide) AddShape(shape Shape) { s.shapes = append(s.shapes, shape) }

// GetBackground returns the slide background fill, or nil to inherit the master.
func (s *Slide) GetBackground() *Fill { return s.background }

// SetBackground sets the slide background fill.
func (s *Slide) SetBackground(f *Fill) { s.background = f }

// CreateRichTextShape creates a text box on the slide.
func (s *Slide) CreateRichTextShape() *RichTextShape {
	shape := NewRichTextShape()
	s.AddShape(shape)
	return shape
}

// CreatePlaceholderShape creates a placeholder of the given type.
func (s *Slide) CreatePlaceholderShape(t PlaceholderType) *PlaceholderShape {
	shape := NewPlaceholderShape(t)
	s.AddShape(shape)
	return shape
}

// CreateDrawingShape creates a picture on the slide.
func (s *Slide) CreateDrawingShape() *DrawingShape {
	shape := NewDrawingShape()
	s.AddShape(shape)
	return shape
}

// CreateAutoShape creates a preset geometry shape on the slide.
func (s *Slide) CreateAutoShape() *AutoShape {
	shape := NewAutoShape()
	s.AddShape(shape)
	return shape
}

// CreateLineShape creates a line on the slide.
func (s *Slide) CreateLineShape() *LineShape {
	shape := NewLineShape()
	s.AddShape(shape)
	return shape
}

// CreateTableShape creates a rows x cols table on the slide.
func (s *Slide) CreateTableShape(rows, cols int) *TableShape {
	shape := NewTableShape(rows, cols)
	s.AddShape(shape)
	return shape
}

// CreateChartShape creates a chart on the slide.
func (s *Slide) CreateChartShape() *ChartShape {
	shape := NewChartShape()
	s.AddShape(shape)
	return shape
}

// CreateGroupShape creates an empty group on the slide.
func (s *Slide) CreateGroupShape() *GroupShape {
	shape := NewGroupShape()
	s.AddShape(shape)
	return shape
}

// walkShapes calls fn for every shape in z-order, descending into groups.
func walkShapes(shapes []Shape, fn func(Shape)) {
	for _, shape := range shapes {
		fn(shape)
		if g, ok := shape.(*GroupShape); ok {
			walkShapes(g.shapes, fn)
		}
	}
}
