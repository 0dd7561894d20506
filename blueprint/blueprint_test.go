package blueprint

import (
	"fmt"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VantageDataChat/GoDeck/config"
	"github.com/VantageDataChat/GoDeck/layout"
	"github.com/VantageDataChat/GoDeck/model"
)

func newAllocator() *Allocator {
	return New(config.Default().Blueprint.RotationPool)
}

func weighted(weights ...int) []model.Section {
	return lo.Map(weights, func(w int, i int) model.Section {
		return model.Section{
			Title:     fmt.Sprintf("Section %d", i+1),
			Weight:    w,
			KeyPoints: []string{"alpha", "beta", "gamma", "delta", "epsilon"},
		}
	})
}

func TestAllocateWeightedScenario(t *testing.T) {
	bp, _ := newAllocator().Allocate("Annual Review", weighted(10, 8, 6, 4, 2), 20, Rotation{})

	assert.Equal(t, 18, bp.Budget)
	assert.Equal(t, []int{6, 5, 4, 2, 1}, bp.Counts())
	assert.Equal(t, 18, lo.Sum(bp.Counts()))
	require.Len(t, bp.Slides, 20)

	first := bp.Slides[0]
	assert.Equal(t, model.RoleTitle, first.Role)
	assert.Equal(t, model.LayoutTitle, first.Layout)
	assert.Equal(t, []string{"5 sections"}, first.Bullets)

	heavy := bp.Slides[1:7]
	assert.Equal(t, model.RoleOutline, heavy[0].Role)
	assert.Equal(t, model.LayoutSectionDivider, heavy[0].Layout)
	for _, s := range heavy[1:5] {
		assert.Equal(t, model.RoleDetail, s.Role)
		assert.Equal(t, 6, s.SectionSize)
	}
	assert.Equal(t, model.RoleSummary, heavy[5].Role)
	assert.Equal(t, model.LayoutTable, heavy[5].Layout)
	require.True(t, heavy[5].Table.Valid())
	assert.Len(t, heavy[5].Table.Rows, 4)

	last := bp.Slides[len(bp.Slides)-1]
	assert.Equal(t, model.RoleClosing, last.Role)
	assert.Equal(t, ClosingTitle, last.Title)
	assert.Len(t, last.Bullets, 5)

	for i, s := range bp.Slides {
		assert.Equal(t, i+1, s.Position)
		if i > 0 {
			assert.NotEqual(t, bp.Slides[i-1].Layout, s.Layout, "slides %d and %d share a layout", i, i+1)
		}
	}
}

func TestAllocatePatterns(t *testing.T) {
	cases := []struct {
		n     int
		roles []model.ContentRole
	}{
		{2, []model.ContentRole{model.RoleOutline, model.RoleDetail}},
		{3, []model.ContentRole{model.RoleOutline, model.RoleDetail, model.RoleDetail}},
		{5, []model.ContentRole{model.RoleOutline, model.RoleDetail, model.RoleDetail, model.RoleDetail, model.RoleSummary}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.n), func(t *testing.T) {
			bp, _ := newAllocator().Allocate("Deck", weighted(5), tc.n+2, Rotation{})
			require.Equal(t, []int{tc.n}, bp.Counts())
			body := bp.Slides[1 : len(bp.Slides)-1]
			assert.Equal(t, tc.roles, lo.Map(body, func(s model.SlideSpec, _ int) model.ContentRole { return s.Role }))
		})
	}
}

func TestAllocateEverySectionGetsASlide(t *testing.T) {
	sections := weighted(10, 1, 1, 1, 1, 1, 1, 1)
	bp, _ := newAllocator().Allocate("Deck", sections, 6, Rotation{})
	for i, n := range bp.Counts() {
		assert.GreaterOrEqual(t, n, 1, "section %d", i)
	}
	assert.InDelta(t, 6, lo.Sum(bp.Counts())+2, float64(len(sections)))

	// single-slide sections are just an outline
	assert.Equal(t, []int{2, 1, 1, 1, 1, 1, 1, 1}, bp.Counts())
	assert.Equal(t, model.RoleOutline, bp.Slides[3].Role)
	assert.Equal(t, "Section 2", bp.Slides[3].Title)
	assert.Equal(t, model.RoleOutline, bp.Slides[4].Role)
}

func TestAllocateDetailContent(t *testing.T) {
	bp, _ := newAllocator().Allocate("Deck", weighted(3), 5, Rotation{})
	require.Equal(t, []int{3}, bp.Counts())
	assert.Equal(t, []string{"alpha", "beta"}, bp.Slides[2].Bullets)
	assert.Equal(t, []string{"beta", "gamma"}, bp.Slides[3].Bullets)
	assert.Equal(t, "Section 1 - Part 2", bp.Slides[3].Title)
}

func TestAllocateHonorsHints(t *testing.T) {
	sections := weighted(1)
	sections[0].LayoutHints = []model.LayoutType{model.LayoutQuote, model.LayoutTimeline}
	bp, _ := newAllocator().Allocate("Deck", sections, 5, Rotation{})

	body := bp.Slides[1:4]
	assert.Equal(t, model.LayoutQuote, body[0].Layout)
	assert.Equal(t, model.LayoutTimeline, body[1].Layout)
	assert.Equal(t, model.LayoutBulletPoints, body[2].Layout, "hints exhausted, pool resumes")
}

func TestRotationIsThreaded(t *testing.T) {
	a := newAllocator()
	_, rot := a.Allocate("One", weighted(1), 4, Rotation{})
	assert.Equal(t, 2, rot.Index)
	assert.Equal(t, model.LayoutTable, rot.Previous)

	bp, _ := a.Allocate("Two", weighted(1), 3, rot)
	assert.Equal(t, model.LayoutTwoColumn, bp.Slides[1].Layout)

	again, _ := a.Allocate("Two", weighted(1), 3, rot)
	assert.Equal(t, bp, again, "allocation is a pure function of its inputs")
}

func TestAllocateNoSections(t *testing.T) {
	bp, _ := newAllocator().Allocate("Empty", nil, 10, Rotation{})
	require.Len(t, bp.Slides, 2)
	assert.Equal(t, []string{"0 sections"}, bp.Slides[0].Bullets)
	assert.Nil(t, bp.Slides[1].Table)
	assert.Equal(t, model.LayoutBulletPoints, bp.Slides[1].Layout)
	assert.Empty(t, bp.Counts())
}

func TestAllocatePicksLayoutsTheContentSupports(t *testing.T) {
	for _, target := range []int{4, 7, 10, 20, 30} {
		bp, _ := newAllocator().Allocate("Deck", weighted(10, 8, 6, 4, 2), target, Rotation{})
		for _, s := range bp.Slides {
			assert.Empty(t, layout.ContractViolation(&s), "target %d slide %d (%s)", target, s.Position, s.Layout)
		}
	}
}

func TestAllocateClosingAfterSummaryTable(t *testing.T) {
	bp, _ := newAllocator().Allocate("Deck", weighted(5), 7, Rotation{})
	require.Equal(t, []int{5}, bp.Counts())

	summary, last := bp.Slides[len(bp.Slides)-2], bp.Slides[len(bp.Slides)-1]
	assert.Equal(t, model.RoleSummary, summary.Role)
	assert.Equal(t, model.LayoutTable, summary.Layout)
	assert.Equal(t, model.RoleClosing, last.Role)
	assert.Equal(t, model.LayoutBulletPoints, last.Layout)
	assert.Nil(t, last.Table)
	assert.Len(t, last.Bullets, 1)

	// the closing table stays when an ordinary slide precedes it
	bp, _ = newAllocator().Allocate("Deck", weighted(5), 4, Rotation{})
	last = bp.Slides[len(bp.Slides)-1]
	assert.Equal(t, model.LayoutTable, last.Layout)
	assert.True(t, last.Table.Valid())
}
