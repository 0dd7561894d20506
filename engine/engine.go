// Package engine renders presentation documents: it resolves media,
// selects a template for each slide, composes the slides concurrently and
// assembles them into a package.
package engine

import (
	"context"
	"errors"
	"io"
	"slices"
	"sort"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/VantageDataChat/GoDeck/assemble"
	"github.com/VantageDataChat/GoDeck/blueprint"
	"github.com/VantageDataChat/GoDeck/compose"
	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/contrast"
	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/media"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
	"github.com/VantageDataChat/GoDeck/textfit"
)

var log = logger.GetLogger("engine")

type Option func(*Engine)

// WithFetcher sets the source of image, chart and background bytes.
// Without one every media reference renders as a placeholder.
func WithFetcher(f media.Fetcher) Option {
	return func(e *Engine) { e.fetcher = f }
}

// WithAssembler replaces the default assembler.
func WithAssembler(a *assemble.Assembler) Option {
	return func(e *Engine) { e.assembler = a }
}

// Engine holds only immutable collaborators; concurrent renders of
// different documents are safe.
type Engine struct {
	cfg       *config.Config
	fetcher   media.Fetcher
	fit       *textfit.Estimator
	contrast  *contrast.Engine
	composer  *compose.Composer
	allocator *blueprint.Allocator
	assembler *assemble.Assembler
}

// New creates an engine. A nil cfg uses the embedded defaults.
func New(cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	fit := textfit.New(cfg.TextFit)
	ce := contrast.New(cfg.Contrast)
	e := &Engine{
		cfg:       cfg,
		fit:       fit,
		contrast:  ce,
		composer:  compose.New(cfg, fit, ce),
		allocator: blueprint.New(cfg.Blueprint.RotationPool),
		assembler: assemble.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is a rendered deck.
type Result struct {
	// Document is a copy of the input with slides in render order and each
	// slide's Adjustment filled in. The input document is not modified.
	Document     *model.PresentationDocument
	Scheme       model.ColorScheme
	Presentation *pptx.Presentation
}

// Degraded returns the positions of slides that recorded diagnostics.
func (r *Result) Degraded() []int {
	return lo.FilterMap(r.Document.Slides, func(s model.SlideSpec, _ int) (int, bool) {
		return s.Position, len(s.Adjustment.Diagnostics) > 0
	})
}

// Blueprint plans a deck from sections. The returned rotation continues the
// layout cycle in the next call.
func (e *Engine) Blueprint(title string, sections []model.Section, target int, rot blueprint.Rotation) (blueprint.Blueprint, blueprint.Rotation) {
	return e.allocator.Allocate(title, sections, target, rot)
}

// Render composes every slide of doc. Per-slide problems degrade that slide
// and are recorded on its adjustment; the error is non-nil only when the
// context ends or the deck cannot be assembled.
func (e *Engine) Render(ctx context.Context, doc *model.PresentationDocument) (*Result, error) {
	if doc == nil {
		return nil, &model.AssemblyError{Err: errors.New("document is nil")}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := *doc
	out.Slides = slices.Clone(doc.Slides)
	sort.SliceStable(out.Slides, func(i, j int) bool {
		return out.Slides[i].Position < out.Slides[j].Position
	})

	scheme := e.contrast.Scheme(e.cfg.Scheme(doc.Scheme))
	out.Scheme = scheme.Name
	w, h := e.canvas(doc)
	out.Width, out.Height = w, h
	selector := layout.New(e.cfg, e.fit, w, h)
	cache := media.NewCache(e.fetcher, e.cfg.FetchTimeout)
	slides := make([]*pptx.Slide, len(out.Slides))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, e.cfg.Workers))
	for i := range out.Slides {
		g.Go(func() error {
			spec := &out.Slides[i]
			spec.Adjustment = model.LayoutAdjustment{}
			slides[i] = e.renderSlide(gctx, cache, selector, spec, compose.Frame{Index: i, Scheme: scheme})
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range out.Slides {
		for _, d := range out.Slides[i].Adjustment.Diagnostics {
			log.Warnf("slide %d %q: %s: %s", i+1, out.Slides[i].Title, d.Kind, d.Message)
		}
	}

	pres, err := e.assembler.Assemble(&out, slides, scheme)
	if err != nil {
		return nil, err
	}
	res := &Result{Document: &out, Scheme: scheme, Presentation: pres}
	log.Infof("rendered %q: %d slides, %d degraded, %d media references", out.Title, len(slides), len(res.Degraded()), cache.Len())
	return res, nil
}

// canvas resolves the document size: unset sides come from the configured
// canvas, and sizes too small for the safe area are grown to fit.
func (e *Engine) canvas(doc *model.PresentationDocument) (int64, int64) {
	w, h := doc.Width, doc.Height
	if w <= 0 {
		w = pptx.Inch(e.cfg.Canvas.Width)
	}
	if h <= 0 {
		h = pptx.Inch(e.cfg.Canvas.Height)
	}
	fw, fh, changed := layout.FitCanvas(w, h, e.cfg.SafeArea)
	if changed {
		log.Warnf("canvas %.2f x %.2f in does not fit the safe area, using %.2f x %.2f in",
			pptx.EMUToInch(w), pptx.EMUToInch(h), pptx.EMUToInch(fw), pptx.EMUToInch(fh))
	}
	return fw, fh
}

func (e *Engine) renderSlide(ctx context.Context, cache *media.Cache, selector *layout.Selector, spec *model.SlideSpec, f compose.Frame) *pptx.Slide {
	a := selector.Select(spec)
	if a.Template == layout.TemplateMedia {
		if ref := compose.MediaRef(spec); ref != "" {
			f.Image, f.ImageErr = cache.Get(ctx, ref)
		}
	}
	if spec.BackgroundRef != "" {
		f.Background, f.BackgroundErr = cache.Get(ctx, spec.BackgroundRef)
	}
	return e.composer.Compose(spec, a, f)
}

// Write renders doc and writes the package to w.
func (e *Engine) Write(ctx context.Context, doc *model.PresentationDocument, w io.Writer) (*Result, error) {
	res, err := e.Render(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := e.assembler.Write(ctx, res.Presentation, w); err != nil {
		return nil, err
	}
	return res, nil
}

// Save renders doc and writes the package to path.
func (e *Engine) Save(ctx context.Context, doc *model.PresentationDocument, path string) (*Result, error) {
	res, err := e.Render(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := e.assembler.Save(ctx, res.Presentation, path); err != nil {
		return nil, err
	}
	return res, nil
}
