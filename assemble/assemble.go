// Package assemble turns composed slides into a presentation package.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/google/uuid"

	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
)

var log = logger.GetLogger("assemble")

// Namespace scopes deck identifiers: the same title always yields the same
// identifier.
var Namespace = uuid.MustParse("6f1c2f0e-52a4-4d7e-9a51-3b8c0e4d2a10")

// Epoch is the default creation time written to document properties, so
// that rendering the same deck twice yields identical packages.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const creator = "GoDeck"

type Option func(*Assembler)

// WithTime stamps documents with t instead of Epoch.
func WithTime(t time.Time) Option {
	return func(a *Assembler) { a.created = t }
}

// Assembler is immutable and safe for concurrent use.
type Assembler struct {
	created time.Time
}

func New(opts ...Option) *Assembler {
	a := &Assembler{created: Epoch}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Identifier returns the deterministic document identifier for a title.
func Identifier(title string) string {
	return "urn:uuid:" + uuid.NewSHA1(Namespace, []byte(title)).String()
}

// Assemble builds the presentation: canvas, properties, theme and the
// slides in order.
func (a *Assembler) Assemble(doc *model.PresentationDocument, slides []*pptx.Slide, scheme model.ColorScheme) (*pptx.Presentation, error) {
	if doc == nil {
		return nil, &model.AssemblyError{Err: errors.New("document is nil")}
	}
	pres := pptx.New()

	w, h := doc.Canvas()
	pres.GetLayout().SetCustomLayout(w, h)

	props := pres.GetDocumentProperties()
	props.Title = doc.Title
	props.Creator = creator
	if doc.Author != "" {
		props.Creator = doc.Author
	}
	props.LastModifiedBy = props.Creator
	props.Identifier = Identifier(doc.Title)
	props.Created = a.created
	props.Modified = a.created

	pres.SetTheme(Theme(scheme))

	for i, slide := range slides {
		if slide == nil {
			return nil, &model.AssemblyError{Err: fmt.Errorf("slide %d is missing", i+1)}
		}
		pres.AddSlide(slide)
	}
	log.Debugf("assembled %q: %d slides, %dx%d EMU", doc.Title, len(slides), w, h)
	return pres, nil
}

// Theme maps a colour scheme onto the package theme.
func Theme(scheme model.ColorScheme) *pptx.Theme {
	theme := pptx.NewTheme()
	if scheme.Name != "" {
		theme.Name = scheme.Name
	}
	theme.Dark1 = color(scheme.Text)
	theme.Light1 = color(scheme.Background)
	theme.Dark2 = color(scheme.Primary)
	theme.Accents[0] = color(scheme.Primary)
	theme.Accents[1] = color(scheme.Secondary)
	theme.Accents[2] = color(scheme.Accent)
	theme.Hyperlink = color(scheme.Secondary)
	return theme
}

func color(c model.RGB) pptx.Color {
	return pptx.NewColorRGB(c.R, c.G, c.B)
}

// Write serializes pres to w. Package errors are returned as
// *model.AssemblyError and leave w untouched.
func (a *Assembler) Write(ctx context.Context, pres *pptx.Presentation, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return wrap(pptx.NewWriter(pres).Write(w))
}

// Save writes pres to path. No file is left behind on failure.
func (a *Assembler) Save(ctx context.Context, pres *pptx.Presentation, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := wrap(pptx.NewWriter(pres).Save(path)); err != nil {
		return err
	}
	log.Infof("wrote %s (%d slides)", path, pres.GetSlideCount())
	return nil
}

func wrap(err error) error {
	var pkgErr *pptx.PackageError
	if errors.As(err, &pkgErr) {
		return &model.AssemblyError{Err: err}
	}
	return err
}
