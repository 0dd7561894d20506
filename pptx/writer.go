package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer is the interface for presentation writers.
type Writer interface {
	Save(path string) error
	Write(w io.Writer) error
}

// PPTXWriter writes presentations in PresentationML format.
type PPTXWriter struct {
	presentation *Presentation
}

// NewWriter creates a writer for p.
func NewWriter(p *Presentation) *PPTXWriter {
	return &PPTXWriter{presentation: p}
}

// prepare validates the presentation and its relationship graph. It runs
// before any byte reaches the destination.
func (w *PPTXWriter) prepare() (*packagePlan, error) {
	if w.presentation == nil {
		return nil, fmt.Errorf("presentation is nil")
	}
	if err := w.presentation.Validate(); err != nil {
		return nil, &PackageError{Part: partPresentation, Reason: "presentation is not writable", Err: err}
	}
	plan := buildPlan(w.presentation)
	if err := plan.validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// Save writes the presentation to a file. The file is not created when the
// package fails validation, and is removed when writing fails midway.
func (w *PPTXWriter) Save(path string) error {
	plan, err := w.prepare()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := w.write(f, plan)
	closeErr := f.Close()

	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// Write writes the presentation to writer.
func (w *PPTXWriter) Write(writer io.Writer) error {
	plan, err := w.prepare()
	if err != nil {
		return err
	}
	return w.write(writer, plan)
}

func (w *PPTXWriter) write(writer io.Writer, plan *packagePlan) error {
	zw := zip.NewWriter(writer)

	steps := []func(*zip.Writer, *packagePlan) error{
		w.writeContentTypes,
		func(zw *zip.Writer, plan *packagePlan) error {
			return writeRelsPart(zw, "_rels/.rels", plan.rootRels)
		},
		w.writeAppProperties,
		w.writeCoreProperties,
		w.writePresentation,
		func(zw *zip.Writer, plan *packagePlan) error {
			return writeRelsPart(zw, relsPartName(partPresentation), plan.presRels)
		},
		w.writePresProps,
		w.writeViewProps,
		w.writeTableStyles,
		w.writeSlideMaster,
		w.writeSlideLayout,
		w.writeTheme,
	}
	for _, step := range steps {
		if err := step(zw, plan); err != nil {
			return err
		}
	}

	for _, sp := range plan.slides {
		if err := w.writeSlide(zw, sp); err != nil {
			return err
		}
		if err := writeRelsPart(zw, sp.relsName, sp.rels); err != nil {
			return err
		}
	}

	for _, m := range plan.media {
		fw, err := zw.Create(m.name)
		if err != nil {
			return fmt.Errorf("failed to create %s in zip: %w", m.name, err)
		}
		if _, err := fw.Write(m.data); err != nil {
			return err
		}
	}

	for _, c := range plan.charts {
		if err := w.writeChartPart(zw, c); err != nil {
			return err
		}
	}

	return zw.Close()
}
