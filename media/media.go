// Package media loads slide images through an injected Fetcher and turns
// the bytes into assets the container accepts.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var log = logger.GetLogger("media")

var (
	ErrTooLarge    = errors.New("media exceeds size limit")
	ErrUnsupported = errors.New("unsupported media format")
	ErrNoFetcher   = errors.New("no media fetcher configured")
)

// Fetcher returns the raw bytes behind a media reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, ref string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, ref string) ([]byte, error) { return f(ctx, ref) }

// FileFetcher reads references as paths below Root. References cannot
// escape Root. MaxBytes <= 0 disables the size cap.
type FileFetcher struct {
	Root     string
	MaxBytes int64
}

func (f FileFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := f.path(ref)
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if f.MaxBytes > 0 {
		if info, err := file.Stat(); err == nil && info.Size() > f.MaxBytes {
			return nil, fmt.Errorf("%s is %d bytes: %w", ref, info.Size(), ErrTooLarge)
		}
	}

	var r io.Reader = file
	if f.MaxBytes > 0 {
		r = io.LimitReader(file, f.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return nil, fmt.Errorf("%s: %w", ref, ErrTooLarge)
	}
	return data, ctx.Err()
}

func (f FileFetcher) path(ref string) string {
	ref = strings.TrimPrefix(ref, "file://")
	clean := filepath.Clean(string(filepath.Separator) + filepath.FromSlash(ref))
	return filepath.Join(f.Root, clean)
}

// MapFetcher serves fixed bytes by reference.
type MapFetcher map[string][]byte

func (m MapFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, fs.ErrNotExist)
	}
	return bytes.Clone(data), nil
}

// Asset is a decoded-enough image ready for embedding.
type Asset struct {
	Ref    string
	Data   []byte
	MIME   string
	Width  int
	Height int
	// Converted is set when the source format was re-encoded as PNG.
	Converted bool
}

// Aspect returns width/height, or 0 when the size is unknown.
func (a *Asset) Aspect() float64 {
	if a == nil || a.Width <= 0 || a.Height <= 0 {
		return 0
	}
	return float64(a.Width) / float64(a.Height)
}

// Resolve sniffs data, reads its dimensions and converts formats slide
// viewers do not reliably display (WebP, TIFF, BMP) to PNG.
func Resolve(ref string, data []byte) (*Asset, error) {
	mt := mimetype.Detect(data)
	switch mt.String() {
	case "image/png", "image/jpeg", "image/gif":
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		return &Asset{Ref: ref, Data: data, MIME: mt.String(), Width: cfg.Width, Height: cfg.Height}, nil

	case "image/webp", "image/tiff", "image/bmp", "image/x-ms-bmp":
		src, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		b := src.Bounds()
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

		var buf bytes.Buffer
		if err := png.Encode(&buf, rgba); err != nil {
			return nil, fmt.Errorf("%s: re-encode %s: %w", ref, mt.String(), err)
		}
		log.Debugf("converted %s from %s to png", ref, mt.String())
		return &Asset{Ref: ref, Data: buf.Bytes(), MIME: "image/png", Width: b.Dx(), Height: b.Dy(), Converted: true}, nil
	}
	return nil, fmt.Errorf("%s is %s: %w", ref, mt.String(), ErrUnsupported)
}
