// Package blueprint distributes a slide budget across weighted sections and
// fixes each slide's content role and layout type.
package blueprint

import (
	"fmt"
	"math"

	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"

	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/model"
)

var log = logger.GetLogger("blueprint")

const (
	ClosingTitle   = "Conclusion"
	summaryPoints  = 4
	dividerMinimum = 4
)

// Rotation is the layout pool cursor. It is threaded through Allocate so
// consecutive decks can continue the same rotation.
type Rotation struct {
	Index    int
	Previous model.LayoutType
}

// Blueprint is an ordered slide plan with roles, layouts and seed content.
type Blueprint struct {
	Title  string
	Budget int
	Slides []model.SlideSpec
	counts []int
}

// Counts returns the number of slides allocated to each section.
func (b Blueprint) Counts() []int {
	return append([]int(nil), b.counts...)
}

// Document wraps the blueprint as a renderable document.
func (b Blueprint) Document(author, scheme string) *model.PresentationDocument {
	return &model.PresentationDocument{
		Title:  b.Title,
		Author: author,
		Scheme: scheme,
		Slides: append([]model.SlideSpec(nil), b.Slides...),
	}
}

type Allocator struct {
	pool []model.LayoutType
}

// New creates an allocator cycling through pool.
func New(pool []model.LayoutType) *Allocator {
	return &Allocator{pool: append([]model.LayoutType(nil), pool...)}
}

// slot is a planned slide whose layout is either fixed by structure or
// picked from the section's hints and the rotation pool.
type slot struct {
	spec    model.SlideSpec
	fixed   bool
	section int
}

// Allocate plans a deck of roughly target slides: a title slide, the
// sections in order and a closing slide.
func (a *Allocator) Allocate(title string, sections []model.Section, target int, rot Rotation) (Blueprint, Rotation) {
	budget := max(2, target-2)
	total := lo.SumBy(sections, model.Section.NormalizedWeight)

	bp := Blueprint{Title: title, Budget: budget, counts: make([]int, len(sections))}
	slots := []slot{{
		fixed:   true,
		section: -1,
		spec: model.SlideSpec{
			Title:   title,
			Role:    model.RoleTitle,
			Layout:  model.LayoutTitle,
			Bullets: []string{sectionCount(len(sections))},
		},
	}}

	for i, s := range sections {
		share := float64(s.NormalizedWeight()) / float64(total) * float64(budget)
		n := max(1, int(math.RoundToEven(share)))
		bp.counts[i] = n
		log.Debugf("section %q: weight %d, %d slides", s.Title, s.NormalizedWeight(), n)
		slots = append(slots, sectionSlots(i, s, n)...)
	}
	slots = append(slots, slot{fixed: true, section: -1, spec: closing(sections)})

	hints := lo.Map(sections, func(s model.Section, _ int) []model.LayoutType {
		return append([]model.LayoutType(nil), s.LayoutHints...)
	})
	for i := range slots {
		sl := &slots[i]
		if !sl.fixed {
			if h := hints[sl.section]; len(h) > 0 {
				sl.spec.Layout, hints[sl.section] = h[0], h[1:]
			} else {
				var next model.LayoutType
				if i+1 < len(slots) && slots[i+1].fixed {
					next = slots[i+1].spec.Layout
				}
				sl.spec.Layout, rot = a.pick(rot, next, sl.spec)
			}
		}
		if sl.spec.Role == model.RoleClosing && sl.spec.Layout == rot.Previous {
			// a section summary table directly before the closing table
			sl.spec.Layout, sl.spec.Table = model.LayoutBulletPoints, nil
		}
		rot.Previous = sl.spec.Layout
		sl.spec.Position = i + 1
		bp.Slides = append(bp.Slides, sl.spec)
	}

	log.Debugf("blueprint %q: budget %d, %d slides", title, budget, len(bp.Slides))
	return bp, rot
}

// pick takes the next pool entry that differs from the previous layout and
// from the following slide's fixed layout, and whose data contract the
// seeded content meets. Skipped entries still advance the rotation.
func (a *Allocator) pick(rot Rotation, next model.LayoutType, spec model.SlideSpec) (model.LayoutType, Rotation) {
	for range a.pool {
		candidate := a.pool[rot.Index%len(a.pool)]
		rot.Index++
		spec.Layout = candidate
		if candidate != rot.Previous && candidate != next && layout.ContractViolation(&spec) == "" {
			return candidate, rot
		}
	}
	return model.LayoutBulletPoints, rot
}

func sectionSlots(index int, s model.Section, n int) []slot {
	outline := slot{section: index, spec: model.SlideSpec{
		Title:        s.Title,
		Role:         model.RoleOutline,
		SectionTitle: s.Title,
		SectionSize:  n,
		Bullets:      s.KeyPoints,
	}}
	if len(s.KeyPoints) == 0 {
		outline.spec.Paragraph = s.Description
	}
	if n >= dividerMinimum {
		outline.fixed = true
		outline.spec.Layout = model.LayoutSectionDivider
	}
	slots := []slot{outline}

	details := n - 1
	if n >= dividerMinimum {
		details = n - 2
	}
	for i := 0; i < details; i++ {
		slots = append(slots, slot{section: index, spec: model.SlideSpec{
			Title:        fmt.Sprintf("%s - Part %d", s.Title, i+1),
			Role:         model.RoleDetail,
			SectionTitle: s.Title,
			SectionSize:  n,
			Bullets:      detailPoints(s, i),
		}})
	}

	if n >= dividerMinimum {
		points := lo.Slice(s.KeyPoints, 0, summaryPoints)
		summary := model.SlideSpec{
			Title:        s.Title + " - Summary",
			Role:         model.RoleSummary,
			Layout:       model.LayoutTable,
			SectionTitle: s.Title,
			SectionSize:  n,
			Bullets:      points,
		}
		if len(points) > 0 {
			summary.Table = &model.TableData{
				Headers: []string{"#", "Key point"},
				Rows: lo.Map(points, func(p string, i int) []string {
					return []string{fmt.Sprint(i + 1), p}
				}),
			}
		}
		slots = append(slots, slot{fixed: true, section: index, spec: summary})
	}
	return slots
}

// detailPoints returns key points i and i+1, or the first two when the
// section has fewer points than details.
func detailPoints(s model.Section, i int) []string {
	if i < len(s.KeyPoints) {
		return lo.Slice(s.KeyPoints, i, i+2)
	}
	if len(s.KeyPoints) > 0 {
		return lo.Slice(s.KeyPoints, 0, 2)
	}
	return []string{"Exploration of " + s.Title}
}

func closing(sections []model.Section) model.SlideSpec {
	spec := model.SlideSpec{
		Title:  ClosingTitle,
		Role:   model.RoleClosing,
		Layout: model.LayoutBulletPoints,
	}
	withPoints := lo.Filter(sections, func(s model.Section, _ int) bool { return len(s.KeyPoints) > 0 })
	spec.Bullets = lo.Map(withPoints, func(s model.Section, _ int) string { return s.KeyPoints[0] })
	if len(withPoints) > 0 {
		spec.Layout = model.LayoutTable
		spec.Table = &model.TableData{
			Headers: []string{"Section", "Key takeaway"},
			Rows: lo.Map(withPoints, func(s model.Section, _ int) []string {
				return []string{s.Title, s.KeyPoints[0]}
			}),
		}
	}
	return spec
}

func sectionCount(n int) string {
	if n == 1 {
		return "1 section"
	}
	return fmt.Sprintf("%d sections", n)
}
