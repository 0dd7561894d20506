package pptx

import (
	"errors"
	"strings"
	"testing"
)

func planFor(t *testing.T, slides int) *packagePlan {
	t.Helper()
	p := New()
	for i := 0; i < slides; i++ {
		s := p.CreateSlide()
		s.CreateDrawingShape().SetImageData(testPNG(), "image/png")
	}
	plan := buildPlan(p)
	if err := plan.validate(); err != nil {
		t.Fatalf("fresh plan should validate: %v", err)
	}
	return plan
}

func TestPlanRelationshipsAreSequential(t *testing.T) {
	plan := planFor(t, 3)
	for i, r := range plan.presRels {
		if r.ID != relID(i+1) {
			t.Errorf("presentation rel %d has id %s", i, r.ID)
		}
	}
	if len(plan.media) != 3 {
		t.Errorf("expected 3 media parts, got %d", len(plan.media))
	}
	if plan.slides[2].rels[1].Target != "../media/image3.png" {
		t.Errorf("unexpected media target %s", plan.slides[2].rels[1].Target)
	}
}

func TestPlanValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(*packagePlan)
		reason  string
	}{
		{"gap in ids", func(p *packagePlan) { p.presRels[2].ID = "rId9" }, "expected rId3"},
		{"duplicate id", func(p *packagePlan) { p.slides[0].rels[1].ID = "rId1" }, "duplicate"},
		{"missing media", func(p *packagePlan) { delete(p.parts, p.media[0].name) }, "missing part"},
		{"missing slide part", func(p *packagePlan) { p.presRels[1].Target = "slides/slide99.xml" }, "missing part"},
		{"dropped slide", func(p *packagePlan) { p.slides = p.slides[:1] }, "lists 2 slides"},
		{"misnumbered slide", func(p *packagePlan) { p.slides[1].number = 5 }, "numbered 5"},
		{"unknown shape rel", func(p *packagePlan) {
			for s := range p.slides[0].relIDs {
				p.slides[0].relIDs[s] = "rId42"
			}
		}, "unknown relationship"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan := planFor(t, 2)
			tc.corrupt(plan)
			err := plan.validate()
			var pkgErr *PackageError
			if !errors.As(err, &pkgErr) {
				t.Fatalf("expected PackageError, got %v", err)
			}
			if !strings.Contains(pkgErr.Error(), tc.reason) {
				t.Errorf("expected %q in %q", tc.reason, pkgErr.Error())
			}
		})
	}
}

func TestRelsPartName(t *testing.T) {
	cases := map[string]string{
		"":                      "_rels/.rels",
		"ppt/presentation.xml":  "ppt/_rels/presentation.xml.rels",
		"ppt/slides/slide3.xml": "ppt/slides/_rels/slide3.xml.rels",
	}
	for in, want := range cases {
		if got := relsPartName(in); got != want {
			t.Errorf("relsPartName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveTarget(t *testing.T) {
	if got := resolveTarget("ppt/slides/slide1.xml", "../media/image1.png"); got != "ppt/media/image1.png" {
		t.Errorf("got %s", got)
	}
	if got := resolveTarget("", "ppt/presentation.xml"); got != "ppt/presentation.xml" {
		t.Errorf("got %s", got)
	}
}

func TestImageExtension(t *testing.T) {
	for mime, want := range map[string]string{
		"image/jpeg": "jpeg",
		"image/gif":  "gif",
		"image/bmp":  "bmp",
		"image/png":  "png",
		"":           "png",
	} {
		if ext, _ := imageExtension(mime); ext != want {
			t.Errorf("imageExtension(%q) = %s, want %s", mime, ext, want)
		}
	}
}

func TestPartLessOrdersNumerically(t *testing.T) {
	if !partLess("ppt/slides/slide2.xml", "ppt/slides/slide10.xml") {
		t.Error("slide2 should sort before slide10")
	}
	if partLess("ppt/slides/slide10.xml", "ppt/slides/slide9.xml") {
		t.Error("slide10 should sort after slide9")
	}
}
