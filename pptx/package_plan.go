package pptx

import (
	"fmt"
	"path"
	"strings"
)

// PackageError reports a structurally inconsistent package: a dangling or
// misnumbered relationship, or a slide list that disagrees with its parts.
// Nothing is written when a PackageError is returned.
type PackageError struct {
	Part   string
	Reason string
	Err    error
}

func (e *PackageError) Error() string {
	msg := fmt.Sprintf("inconsistent package at %s: %s", e.Part, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PackageError) Unwrap() error { return e.Err }

// relationship is one entry of a .rels part. Target is relative to the
// directory of the source part.
type relationship struct {
	ID     string
	Type   string
	Target string
}

type slidePlan struct {
	number   int
	name     string
	relsName string
	slide    *Slide
	rels     []relationship
	relIDs   map[Shape]string
}

type mediaPart struct {
	name        string
	ext         string
	contentType string
	data        []byte
}

type chartPart struct {
	name  string
	chart *ChartShape
}

// packagePlan is the complete part and relationship layout of a package,
// computed once so that XML parts and .rels parts agree on every id.
type packagePlan struct {
	parts      map[string]string // part name -> override content type ("" uses the extension default)
	extensions map[string]string // extension -> default content type
	rootRels   []relationship
	presRels   []relationship
	masterRels []relationship
	layoutRels []relationship
	slides     []*slidePlan
	media      []mediaPart
	charts     []chartPart
}

const (
	partPresentation = "ppt/presentation.xml"
	partPresProps    = "ppt/presProps.xml"
	partViewProps    = "ppt/viewProps.xml"
	partTableStyles  = "ppt/tableStyles.xml"
	partSlideMaster  = "ppt/slideMasters/slideMaster1.xml"
	partSlideLayout  = "ppt/slideLayouts/slideLayout1.xml"
	partTheme        = "ppt/theme/theme1.xml"
	partCoreProps    = "docProps/core.xml"
	partAppProps     = "docProps/app.xml"
)

func relID(n int) string { return fmt.Sprintf("rId%d", n) }

// buildPlan lays out every part of the presentation. It never fails; any
// inconsistency it produces is reported by validate.
func buildPlan(p *Presentation) *packagePlan {
	plan := &packagePlan{
		parts: map[string]string{
			partPresentation: ctPresentation,
			partPresProps:    ctPresProps,
			partViewProps:    ctViewProps,
			partTableStyles:  ctTableStyles,
			partSlideMaster:  ctSlideMaster,
			partSlideLayout:  ctSlideLayout,
			partTheme:        ctTheme,
			partCoreProps:    ctCoreProps,
			partAppProps:     ctExtProps,
		},
		extensions: map[string]string{},
		rootRels: []relationship{
			{ID: "rId1", Type: relTypeOfficeDoc, Target: partPresentation},
			{ID: "rId2", Type: relTypeCoreProps, Target: partCoreProps},
			{ID: "rId3", Type: relTypeExtProps, Target: partAppProps},
		},
		masterRels: []relationship{
			{ID: "rId1", Type: relTypeSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
			{ID: "rId2", Type: relTypeTheme, Target: "../theme/theme1.xml"},
		},
		layoutRels: []relationship{
			{ID: "rId1", Type: relTypeSlideMaster, Target: "../slideMasters/slideMaster1.xml"},
		},
	}

	plan.presRels = append(plan.presRels, relationship{ID: relID(1), Type: relTypeSlideMaster, Target: "slideMasters/slideMaster1.xml"})
	for i := range p.slides {
		plan.presRels = append(plan.presRels, relationship{
			ID:     relID(len(plan.presRels) + 1),
			Type:   relTypeSlide,
			Target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}
	for _, r := range []struct{ typ, target string }{
		{relTypePresProps, "presProps.xml"},
		{relTypeViewProps, "viewProps.xml"},
		{relTypeTableStyles, "tableStyles.xml"},
		{relTypeTheme, "theme/theme1.xml"},
	} {
		plan.presRels = append(plan.presRels, relationship{ID: relID(len(plan.presRels) + 1), Type: r.typ, Target: r.target})
	}

	imgIdx, chartIdx := 0, 0
	for i, slide := range p.slides {
		sp := &slidePlan{
			number:   i + 1,
			name:     fmt.Sprintf("ppt/slides/slide%d.xml", i+1),
			relsName: fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1),
			slide:    slide,
			relIDs:   make(map[Shape]string),
		}
		sp.rels = append(sp.rels, relationship{ID: relID(1), Type: relTypeSlideLayout, Target: "../slideLayouts/slideLayout1.xml"})
		plan.parts[sp.name] = ctSlide

		walkShapes(slide.shapes, func(shape Shape) {
			switch s := shape.(type) {
			case *DrawingShape:
				imgIdx++
				ext, ct := imageExtension(s.mimeType)
				name := fmt.Sprintf("ppt/media/image%d.%s", imgIdx, ext)
				if len(s.data) > 0 {
					plan.media = append(plan.media, mediaPart{name: name, ext: ext, contentType: ct, data: s.data})
					plan.parts[name] = ""
					plan.extensions[ext] = ct
				}
				id := relID(len(sp.rels) + 1)
				sp.rels = append(sp.rels, relationship{ID: id, Type: relTypeImage, Target: "../media/" + path.Base(name)})
				sp.relIDs[s] = id
			case *ChartShape:
				chartIdx++
				name := fmt.Sprintf("ppt/charts/chart%d.xml", chartIdx)
				if s.plotArea.chartType != nil {
					plan.charts = append(plan.charts, chartPart{name: name, chart: s})
					plan.parts[name] = ctChart
				}
				id := relID(len(sp.rels) + 1)
				sp.rels = append(sp.rels, relationship{ID: id, Type: relTypeChart, Target: "../charts/" + path.Base(name)})
				sp.relIDs[s] = id
			}
		})
		plan.slides = append(plan.slides, sp)
	}
	return plan
}

// resolveTarget resolves a relationship target against its source part.
func resolveTarget(source, target string) string {
	if source == "" {
		return path.Clean(target)
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// validate checks the relationship graph: ids are rId1..rIdN without gaps or
// duplicates, every target names a planned part, the presentation lists each
// slide part exactly once in order, and every shape reference has a relationship.
func (plan *packagePlan) validate() error {
	checks := []struct {
		source string
		rels   []relationship
	}{
		{"", plan.rootRels},
		{partPresentation, plan.presRels},
		{partSlideMaster, plan.masterRels},
		{partSlideLayout, plan.layoutRels},
	}
	for _, sp := range plan.slides {
		checks = append(checks, struct {
			source string
			rels   []relationship
		}{sp.name, sp.rels})
	}
	for _, c := range checks {
		if err := plan.checkRels(c.source, c.rels); err != nil {
			return err
		}
	}

	var slideTargets []string
	for _, r := range plan.presRels {
		if r.Type == relTypeSlide {
			slideTargets = append(slideTargets, resolveTarget(partPresentation, r.Target))
		}
	}
	if len(slideTargets) != len(plan.slides) {
		return &PackageError{
			Part:   partPresentation,
			Reason: fmt.Sprintf("lists %d slides but %d slide parts are planned", len(slideTargets), len(plan.slides)),
		}
	}
	for i, sp := range plan.slides {
		if slideTargets[i] != sp.name {
			return &PackageError{
				Part:   partPresentation,
				Reason: fmt.Sprintf("slide %d resolves to %s, expected %s", i+1, slideTargets[i], sp.name),
			}
		}
		if sp.number != i+1 {
			return &PackageError{Part: sp.name, Reason: fmt.Sprintf("numbered %d at position %d", sp.number, i+1)}
		}
		known := make(map[string]bool, len(sp.rels))
		for _, r := range sp.rels {
			known[r.ID] = true
		}
		for _, id := range sp.relIDs {
			if !known[id] {
				return &PackageError{Part: sp.name, Reason: "shape references unknown relationship " + id}
			}
		}
	}
	return nil
}

func (plan *packagePlan) checkRels(source string, rels []relationship) error {
	relsPart := relsPartName(source)
	seen := make(map[string]bool, len(rels))
	for i, r := range rels {
		if seen[r.ID] {
			return &PackageError{Part: relsPart, Reason: "duplicate relationship id " + r.ID}
		}
		seen[r.ID] = true
		if r.ID != relID(i+1) {
			return &PackageError{Part: relsPart, Reason: fmt.Sprintf("relationship %d has id %s, expected %s", i+1, r.ID, relID(i+1))}
		}
		target := resolveTarget(source, r.Target)
		if _, ok := plan.parts[target]; !ok {
			return &PackageError{Part: relsPart, Reason: fmt.Sprintf("relationship %s targets missing part %s", r.ID, target)}
		}
	}
	return nil
}

// relsPartName returns the .rels part name for a source part.
func relsPartName(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// imageExtension maps a MIME type to the media part extension and content type.
func imageExtension(mime string) (string, string) {
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg":
		return "jpeg", "image/jpeg"
	case "image/gif":
		return "gif", "image/gif"
	case "image/bmp", "image/x-ms-bmp":
		return "bmp", "image/bmp"
	case "image/svg+xml":
		return "svg", "image/svg+xml"
	default:
		return "png", "image/png"
	}
}
