// Package fonts provides font faces for map labels.
//
// The reference maps were drawn with Arial, so [Load] first looks for a
// matching system font with go-findfont. When none is installed it falls back
// to the Go Regular font compiled into the binary, which keeps rendering
// working on minimal containers.
package fonts

import (
	"fmt"
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Preferred lists the system font files tried by Load, in order.
var Preferred = []string{
	"arial.ttf",
	"Arial.ttf",
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
}

// EmbeddedName is the Source of a Set backed by the embedded font.
const EmbeddedName = "goregular"

// Set is a parsed font. A Set may be shared between goroutines, but the
// faces it returns may not: font.Face keeps per-face scratch state.
type Set struct {
	// Source is the font file path, or EmbeddedName.
	Source string

	font *opentype.Font
}

// Load returns the first of names (Preferred when empty) found on the system,
// or the embedded font if none is found or parses.
func Load(names ...string) *Set {
	if len(names) == 0 {
		names = Preferred
	}
	for _, name := range names {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if s, err := parse(path, data); err == nil {
			return s
		}
	}
	return Embedded()
}

var (
	embedded     *Set
	embeddedOnce sync.Once
)

// Embedded returns the Set backed by the compiled-in Go Regular font.
// The result is shared and cached after first use.
func Embedded() *Set {
	embeddedOnce.Do(func() {
		s, err := parse(EmbeddedName, goregular.TTF)
		if err != nil {
			panic(fmt.Sprintf("fonts: embedded font: %v", err))
		}
		embedded = s
	})
	return embedded
}

func parse(source string, data []byte) (*Set, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return &Set{Source: source, font: f}, nil
}

// Face returns a new face of the given pixel size, owned by the caller.
func (s *Set) Face(size float64) (font.Face, error) {
	f, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("face %s@%v: %w", s.Source, size, err)
	}
	return f, nil
}
