package pptx

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// fallbackFonts are tried in order when a run's font is not installed.
var fallbackFonts = []string{"calibri", "arial", "helvetica", "dejavu sans", "liberation sans", "noto sans"}

type faceKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// FontCache finds OpenType fonts for previews. Directories are scanned
// lazily on first use; parsed fonts and faces are cached. Safe for
// concurrent use.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string
	fonts   map[string]*opentype.Font // lowercase file or family name
	faces   map[faceKey]font.Face
	scanned bool
}

// NewFontCache searches the OS font directories plus extraDirs. Pass
// noSystem to search only extraDirs.
func NewFontCache(noSystem bool, extraDirs ...string) *FontCache {
	var dirs []string
	if !noSystem {
		dirs = systemFontDirs()
	}
	return &FontCache{
		dirs:  append(dirs, extraDirs...),
		fonts: make(map[string]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns a face for the font at sizePt, falling back to common sans
// fonts and finally to the built-in bitmap face.
func (fc *FontCache) Face(name string, sizePt float64, bold, italic bool) font.Face {
	fc.ensureScanned()
	for _, candidate := range append([]string{strings.ToLower(name)}, fallbackFonts...) {
		if face := fc.face(faceKey{candidate, sizePt, bold, italic}); face != nil {
			return face
		}
	}
	return basicfont.Face7x13
}

func (fc *FontCache) face(key faceKey) font.Face {
	fc.mu.RLock()
	face, ok := fc.faces[key]
	fc.mu.RUnlock()
	if ok {
		return face
	}

	f := fc.find(key.name, key.bold, key.italic)
	if f == nil {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: key.size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil
	}
	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

// find tries style variants first: "arial bold", "arialbd" and so on.
func (fc *FontCache) find(lower string, bold, italic bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	var suffixes []string
	switch {
	case bold && italic:
		suffixes = []string{" bold italic", "bi", "z"}
	case bold:
		suffixes = []string{" bold", "bd", "b"}
	case italic:
		suffixes = []string{" italic", "i"}
	}
	for _, s := range append(suffixes, "") {
		if f, ok := fc.fonts[lower+s]; ok {
			return f
		}
	}
	return nil
}

// LoadFontData registers a font under name and its family names.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.register(f)
	fc.mu.Unlock()
	return nil
}

const (
	maxFontScanDepth = 3
	maxFontFileSize  = 20 << 20
)

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true
	for _, dir := range fc.dirs {
		fc.scan(dir, 0)
	}
}

func (fc *FontCache) scan(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			fc.scan(path, depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		ext := filepath.Ext(lower)
		if ext != ".ttf" && ext != ".otf" && ext != ".ttc" && ext != ".otc" {
			continue
		}
		if info, err := entry.Info(); err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(lower, ext)

		if ext == ".ttc" || ext == ".otc" {
			coll, err := opentype.ParseCollection(data)
			if err != nil {
				continue
			}
			for i := 0; i < coll.NumFonts(); i++ {
				f, err := coll.Font(i)
				if err != nil {
					continue
				}
				if i == 0 {
					fc.fonts[base] = f
				}
				fc.register(f)
			}
			continue
		}
		f, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		fc.fonts[base] = f
		fc.register(f)
	}
}

// register indexes f by its family and full names. Callers hold mu.
func (fc *FontCache) register(f *opentype.Font) {
	for _, id := range []sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDFull} {
		if name, err := f.Name(nil, id); err == nil && name != "" {
			fc.fonts[strings.ToLower(name)] = f
		}
	}
}

func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
