package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/VantageDataChat/GoDeck/blueprint"
	"github.com/VantageDataChat/GoDeck/engine"
	"github.com/VantageDataChat/GoDeck/model"
	"github.com/VantageDataChat/GoDeck/pptx"
)

// deckFile is the YAML deck description read by build and plan. When Slides
// is empty the slides are planned from Sections.
type deckFile struct {
	Title    string            `yaml:"title"`
	Author   string            `yaml:"author,omitempty"`
	Scheme   string            `yaml:"scheme,omitempty"`
	Target   int               `yaml:"target,omitempty"`
	Width    float64           `yaml:"width,omitempty"`  // in
	Height   float64           `yaml:"height,omitempty"` // in
	Sections []model.Section   `yaml:"sections,omitempty"`
	Slides   []model.SlideSpec `yaml:"slides,omitempty"`
}

const defaultTarget = 12

func loadDeck(path string) (*deckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	var deck deckFile
	if err := yaml.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("%s: failed to parse deck: %w", path, err)
	}
	if err := deck.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &deck, nil
}

func (d *deckFile) validate() error {
	if d.Title == "" {
		return fmt.Errorf("deck has no title")
	}
	if len(d.Sections) == 0 && len(d.Slides) == 0 {
		return fmt.Errorf("deck needs sections or slides")
	}
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("deck size must not be negative")
	}
	return nil
}

// document returns the renderable document: the explicit slides, or a
// blueprint planned from the sections.
func (d *deckFile) document(e *engine.Engine) *model.PresentationDocument {
	var doc *model.PresentationDocument
	if len(d.Slides) > 0 {
		doc = &model.PresentationDocument{Title: d.Title, Author: d.Author, Scheme: d.Scheme, Slides: d.Slides}
		for i := range doc.Slides {
			if doc.Slides[i].Position == 0 {
				doc.Slides[i].Position = i + 1
			}
		}
	} else {
		target := d.Target
		if target <= 0 {
			target = defaultTarget
		}
		bp, _ := e.Blueprint(d.Title, d.Sections, target, blueprint.Rotation{})
		doc = bp.Document(d.Author, d.Scheme)
	}
	if d.Width > 0 {
		doc.Width = pptx.Inch(d.Width)
	}
	if d.Height > 0 {
		doc.Height = pptx.Inch(d.Height)
	}
	return doc
}

// slideReport is the per-slide summary printed by build --report.
type slideReport struct {
	Position int                    `yaml:"position"`
	Title    string                 `yaml:"title"`
	Layout   model.LayoutType       `yaml:"layout,omitempty"`
	Result   model.LayoutAdjustment `yaml:"result"`
}

func report(doc *model.PresentationDocument) []slideReport {
	out := make([]slideReport, 0, len(doc.Slides))
	for _, s := range doc.Slides {
		out = append(out, slideReport{Position: s.Position, Title: s.Title, Layout: s.Layout, Result: s.Adjustment})
	}
	return out
}
