// Package layout maps a slide to a visual template and the EMU regions the
// composer draws into. Selection is a fixed rule table evaluated in order.
package layout

import (
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/textfit"
)

var log = logger.GetLogger("layout")

// Template is the visual arrangement chosen for a slide.
type Template string

const (
	TemplateTitle          Template = "title"
	TemplateSectionDivider Template = "section_divider"
	TemplateTable          Template = "table"
	TemplateMedia          Template = "media"
	TemplateQuote          Template = "quote"
	TemplateTimeline       Template = "timeline"
	TemplateComparison     Template = "comparison"
	TemplateNarrative      Template = "narrative"
	TemplateBullets        Template = "bullets"
	TemplateTwoColumn      Template = "two_column"
	TemplateError          Template = "error"
)

// dividerMinimum is the section size from which outlines become dividers.
const dividerMinimum = 4

// Assignment is the selector's decision for one slide.
type Assignment struct {
	Template Template
	Regions  map[Region]model.Rect
	// Diagnostics holds *model.ContentMismatchError values for layout
	// requests whose data contract was not met.
	Diagnostics []error
}

// Region returns the named rectangle, or an empty one.
func (a Assignment) Region(name Region) model.Rect {
	return a.Regions[name]
}

// Selector is immutable and safe for concurrent use.
type Selector struct {
	fit  *textfit.Estimator
	geom geometry
}

// New creates a selector for a canvas of width×height EMU.
func New(cfg *config.Config, fit *textfit.Estimator, width, height int64) *Selector {
	return &Selector{fit: fit, geom: newGeometry(width, height, cfg.SafeArea)}
}

// Select applies the rule table to spec.
func (s *Selector) Select(spec *model.SlideSpec) Assignment {
	a := Assignment{Template: s.template(spec)}
	if reason := ContractViolation(spec); reason != "" {
		a.Diagnostics = append(a.Diagnostics, &model.ContentMismatchError{Layout: spec.Layout, Reason: reason})
	}
	a.Regions = s.geom.regions(a.Template, spec)
	log.Debugf("slide %d (%s/%s): %s", spec.Position, spec.Role, spec.Layout, a.Template)
	return a
}

func (s *Selector) template(spec *model.SlideSpec) Template {
	switch {
	case spec.Role == model.RoleTitle || spec.Layout == model.LayoutTitle:
		return TemplateTitle
	case spec.Layout == model.LayoutSectionDivider,
		spec.Role == model.RoleOutline && spec.SectionSize >= dividerMinimum:
		return TemplateSectionDivider
	case spec.Layout == model.LayoutChart && TableChart(spec):
		return TemplateMedia
	case spec.Table.Valid():
		return TemplateTable
	case spec.HasMedia():
		return TemplateMedia
	}

	if ContractViolation(spec) == "" {
		switch spec.Layout {
		case model.LayoutQuote:
			return TemplateQuote
		case model.LayoutTimeline:
			return TemplateTimeline
		case model.LayoutComparison:
			return TemplateComparison
		}
	}

	if strings.TrimSpace(spec.Paragraph) != "" {
		return TemplateNarrative
	}
	if s.fit.ShouldSplit(spec.Bullets) || spec.Layout == model.LayoutTwoColumn && len(spec.Bullets) > 1 {
		return TemplateTwoColumn
	}
	return TemplateBullets
}

// TableChart reports whether a chart request without chart data can be
// drawn from the slide's numeric table instead.
func TableChart(spec *model.SlideSpec) bool {
	if spec.ChartRef != "" || spec.Chart.Valid() {
		return false
	}
	_, ok := model.ChartFromTable(spec.Table)
	return ok
}

// ContractViolation returns why spec's requested layout cannot be honoured
// with its data, or "".
func ContractViolation(spec *model.SlideSpec) string {
	hasParagraph := strings.TrimSpace(spec.Paragraph) != ""
	switch spec.Layout {
	case model.LayoutTable:
		if !spec.Table.Valid() {
			return "table layout without headers and rows"
		}
	case model.LayoutChart:
		if spec.ChartRef == "" && !spec.Chart.Valid() && !TableChart(spec) {
			return "chart layout without a chart reference or data"
		}
	case model.LayoutImageContent:
		if spec.ImageRef == "" {
			return "image layout without an image reference"
		}
	case model.LayoutQuote:
		if !hasParagraph && len(spec.Bullets) == 0 {
			return "quote layout without quote text"
		}
	case model.LayoutTimeline:
		if len(spec.Bullets) < 2 {
			return "timeline layout needs at least 2 events"
		}
	case model.LayoutComparison:
		if len(spec.Bullets) < 2 {
			return "comparison layout needs at least 2 items"
		}
	}
	return ""
}
