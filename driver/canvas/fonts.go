package canvasdriver

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

// Resource supplies font bytes either inline or from a file path.
type Resource struct {
	Bytes []byte
	Path  string
}

// fontBook loads and caches font families by (family, style). Families for
// unknown family names fall back to the embedded Go fonts so a driver always
// has something to measure and draw with.
type fontBook struct {
	mu        sync.Mutex
	resources map[string]Resource
	families  map[string]*canvas.FontFamily
}

func newFontBook(resources map[string]Resource) *fontBook {
	b := &fontBook{
		resources: map[string]Resource{},
		families:  map[string]*canvas.FontFamily{},
	}
	for name, res := range resources {
		if name == "" {
			continue
		}
		b.resources[name] = res
	}
	return b
}

// face builds a font face for the given request. Size is in document units
// and converted to points at the canvas boundary.
func (b *fontBook) face(f scene.Font, col color.Color) (*canvas.FontFace, error) {
	style := canvasStyle(f)
	family, err := b.family(f.Family, style)
	if err != nil {
		return nil, err
	}
	return family.Face(f.Size*scene.MmToPt, col, style, canvas.FontNormal), nil
}

func (b *fontBook) family(name string, style canvas.FontStyle) (*canvas.FontFamily, error) {
	key := fmt.Sprintf("%s|%d", name, style)

	b.mu.Lock()
	defer b.mu.Unlock()

	if family, ok := b.families[key]; ok {
		return family, nil
	}

	data, err := b.fontBytes(name, style)
	if err != nil {
		return nil, err
	}
	familyName := name
	if familyName == "" {
		familyName = "default"
	}
	family := canvas.NewFontFamily(familyName)
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, fmt.Errorf("load font %s: %w", familyName, err)
	}
	b.families[key] = family
	return family, nil
}

func (b *fontBook) fontBytes(name string, style canvas.FontStyle) ([]byte, error) {
	if res, ok := b.resources[name]; ok {
		if len(res.Bytes) > 0 {
			return res.Bytes, nil
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				return nil, fmt.Errorf("read font %s: %w", name, err)
			}
			return data, nil
		}
	}
	return fallbackFont(style), nil
}

// fallbackFont picks the embedded Go font matching the requested style.
func fallbackFont(style canvas.FontStyle) []byte {
	bold := style&canvas.FontBold != 0
	italic := style&canvas.FontItalic != 0
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

func canvasStyle(f scene.Font) canvas.FontStyle {
	style := canvas.FontRegular
	if f.Weight == scene.WeightBold {
		style = canvas.FontBold
	}
	if f.Slant == scene.SlantItalic || f.Slant == scene.SlantOblique {
		style |= canvas.FontItalic
	}
	return style
}

// measure computes the bounding box of text in the given font, relative to
// the text origin with y growing downward. It is a pure query: it touches no
// surface path state.
func (b *fontBook) measure(f scene.Font, text string) (scene.Rect, error) {
	face, err := b.face(f, canvas.Black)
	if err != nil {
		return scene.Rect{}, err
	}
	line := canvas.NewTextLine(face, text, canvas.Left)
	bounds := line.Bounds()
	return scene.Rect{
		X: bounds.X0,
		Y: -bounds.Y1,
		W: bounds.W(),
		H: bounds.H(),
	}, nil
}

// lineHeight is the font's nominal baseline-to-baseline spacing.
func (b *fontBook) lineHeight(f scene.Font) (float64, error) {
	face, err := b.face(f, canvas.Black)
	if err != nil {
		return 0, err
	}
	m := face.Metrics()
	if m.LineHeight > 0 {
		return m.LineHeight, nil
	}
	return f.Size, nil
}
