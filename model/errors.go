package model

import (
	"errors"
	"fmt"
)

// MediaFetchError reports an image, chart or background reference that could
// not be fetched or decoded. The slide renders a placeholder instead.
type MediaFetchError struct {
	Ref string
	Err error
}

func (e *MediaFetchError) Error() string {
	return fmt.Sprintf("fetch media %q: %v", e.Ref, e.Err)
}

func (e *MediaFetchError) Unwrap() error { return e.Err }

// ContentMismatchError reports a layout whose data contract the slide does
// not meet. The slide falls back to a simpler template.
type ContentMismatchError struct {
	Layout LayoutType
	Reason string
}

func (e *ContentMismatchError) Error() string {
	return fmt.Sprintf("layout %s: %s", e.Layout, e.Reason)
}

// OverflowError reports text that still exceeds its region at the smallest
// font size. It is resolved by truncation and recorded, never returned.
type OverflowError struct {
	Lines    float64
	MaxLines int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("text needs %.1f lines, region holds %d", e.Lines, e.MaxLines)
}

// AssemblyError is fatal: the package could not be built or written.
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string {
	return "assemble presentation: " + e.Err.Error()
}

func (e *AssemblyError) Unwrap() error { return e.Err }

// Diagnostic is one recorded degradation on a slide.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Message string         `json:"message" yaml:"message"`
}

// DiagnosticFor maps a per-slide error to its diagnostic kind.
func DiagnosticFor(err error) Diagnostic {
	var (
		fetch    *MediaFetchError
		mismatch *ContentMismatchError
		overflow *OverflowError
	)
	kind := DiagComposePanic
	switch {
	case errors.As(err, &fetch):
		kind = DiagMediaFetch
	case errors.As(err, &mismatch):
		kind = DiagContentMismatch
	case errors.As(err, &overflow):
		kind = DiagOverflow
	}
	return Diagnostic{Kind: kind, Message: err.Error()}
}
