package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/VantageDataChat/GoDeck/model"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{0, 51, 102, 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func TestMapFetcher(t *testing.T) {
	m := MapFetcher{"logo.png": []byte{1, 2, 3}}
	data, err := m.Fetch(context.Background(), "logo.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	data[0] = 9
	again, _ := m.Fetch(context.Background(), "logo.png")
	assert.Equal(t, byte(1), again[0], "callers get a copy")

	_, err = m.Fetch(context.Background(), "missing.png")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileFetcher(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "img", "a.png"), []byte("0123456789"), 0o644))
	outside := filepath.Join(filepath.Dir(root), "outside.png")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))
	t.Cleanup(func() { os.Remove(outside) })

	f := FileFetcher{Root: root, MaxBytes: 100}
	data, err := f.Fetch(context.Background(), "img/a.png")
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))

	_, err = f.Fetch(context.Background(), "../outside.png")
	assert.ErrorIs(t, err, fs.ErrNotExist, "references cannot leave the root")

	small := FileFetcher{Root: root, MaxBytes: 4}
	_, err = small.Fetch(context.Background(), "img/a.png")
	assert.ErrorIs(t, err, ErrTooLarge)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx, "img/a.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolvePNG(t *testing.T) {
	asset, err := Resolve("a.png", pngBytes(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, "image/png", asset.MIME)
	assert.Equal(t, 40, asset.Width)
	assert.Equal(t, 20, asset.Height)
	assert.Equal(t, 2.0, asset.Aspect())
	assert.False(t, asset.Converted)
}

func TestResolveConvertsTIFF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, testImage(16, 8), nil))

	asset, err := Resolve("scan.tiff", buf.Bytes())
	require.NoError(t, err)
	assert.True(t, asset.Converted)
	assert.Equal(t, "image/png", asset.MIME)

	img, err := png.Decode(bytes.NewReader(asset.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
	r, g, b, _ := img.At(3, 3).RGBA()
	assert.Equal(t, []uint32{0, 51, 102}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestResolveConvertsBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage(10, 20)))

	asset, err := Resolve("legacy.bmp", buf.Bytes())
	require.NoError(t, err)
	assert.True(t, asset.Converted)
	assert.Equal(t, "image/png", asset.MIME)
	assert.Equal(t, 0.5, asset.Aspect())

	_, err = png.Decode(bytes.NewReader(asset.Data))
	require.NoError(t, err)
}

func TestResolveRejectsUnknown(t *testing.T) {
	_, err := Resolve("notes.txt", []byte("just some text"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Resolve("broken.png", []byte("\x89PNG\r\n\x1a\nbroken"))
	assert.Error(t, err)
}

func TestCacheDeduplicates(t *testing.T) {
	var calls atomic.Int32
	data := pngBytes(t, 8, 8)
	cache := NewCache(FetcherFunc(func(ctx context.Context, ref string) ([]byte, error) {
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return data, nil
	}), time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			asset, err := cache.Get(context.Background(), "shared.png")
			assert.NoError(t, err)
			assert.Equal(t, 8, asset.Width)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestCacheFailures(t *testing.T) {
	cache := NewCache(MapFetcher{"junk.bin": []byte("junk")}, time.Second)

	_, err := cache.Get(context.Background(), "missing.png")
	var fetchErr *model.MediaFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "missing.png", fetchErr.Ref)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = cache.Get(context.Background(), "junk.bin")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = NewCache(nil, 0).Get(context.Background(), "a.png")
	assert.ErrorIs(t, err, ErrNoFetcher)
}

func TestCacheTimeout(t *testing.T) {
	cache := NewCache(FetcherFunc(func(ctx context.Context, ref string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), 10*time.Millisecond)

	_, err := cache.Get(context.Background(), "slow.png")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, model.DiagMediaFetch, model.DiagnosticFor(err).Kind)
}
