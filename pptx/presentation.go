// Package pptx builds PresentationML (.pptx) packages: an in-memory slide and
// shape model, a writer that plans and validates the package relationship
// graph before serializing it, and a reader that inspects written packages.
package pptx

import (
	"errors"
	"io"
	"time"
)

// Presentation represents an in-memory presentation.
type Presentation struct {
	properties *DocumentProperties
	slides     []*Slide
	layout     *DocumentLayout
	theme      *Theme
}

// New creates an empty Presentation with a 4:3 canvas and the default theme.
func New() *Presentation {
	return &Presentation{
		properties: NewDocumentProperties(),
		slides:     make([]*Slide, 0),
		layout:     NewDocumentLayout(),
		theme:      NewTheme(),
	}
}

// GetDocumentProperties returns the document properties.
func (p *Presentation) GetDocumentProperties() *DocumentProperties {
	return p.properties
}

// GetLayout returns the document layout.
func (p *Presentation) GetLayout() *DocumentLayout {
	return p.layout
}

// SetLayout sets the document layout.
func (p *Presentation) SetLayout(layout *DocumentLayout) {
	p.layout = layout
}

// GetTheme returns the theme written to ppt/theme/theme1.xml.
func (p *Presentation) GetTheme() *Theme {
	return p.theme
}

// SetTheme replaces the theme.
func (p *Presentation) SetTheme(t *Theme) {
	p.theme = t
}

// CreateSlide creates a new slide and appends it to the presentation.
func (p *Presentation) CreateSlide() *Slide {
	slide := NewSlide()
	p.slides = append(p.slides, slide)
	return slide
}

// AddSlide appends an existing slide to the presentation.
func (p *Presentation) AddSlide(slide *Slide) *Slide {
	p.slides = append(p.slides, slide)
	return slide
}

// GetSlide returns a slide by index.
func (p *Presentation) GetSlide(index int) (*Slide, error) {
	if index < 0 || index >= len(p.slides) {
		return nil, errors.New("slide index out of range")
	}
	return p.slides[index], nil
}

// GetAllSlides returns all slides in presentation order.
func (p *Presentation) GetAllSlides() []*Slide {
	return p.slides
}

// GetSlideCount returns the number of slides.
func (p *Presentation) GetSlideCount() int {
	return len(p.slides)
}

// Save writes the presentation to a .pptx file.
func (p *Presentation) Save(path string) error {
	return NewWriter(p).Save(path)
}

// Write writes the presentation to w in .pptx format.
func (p *Presentation) Write(w io.Writer) error {
	return NewWriter(p).Write(w)
}

// DocumentProperties holds the core and extended document properties.
type DocumentProperties struct {
	Creator        string
	LastModifiedBy string
	Created        time.Time
	Modified       time.Time
	Title          string
	Subject        string
	Description    string
	Keywords       string
	Identifier     string
	Company        string
	Revision       string
}

// NewDocumentProperties creates new document properties with defaults.
func NewDocumentProperties() *DocumentProperties {
	now := time.Now()
	return &DocumentProperties{
		Creator:        "GoDeck",
		LastModifiedBy: "GoDeck",
		Created:        now,
		Modified:       now,
		Revision:       "1",
	}
}
