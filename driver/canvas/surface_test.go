package canvasdriver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"png":        FormatPNG,
		"PNG":        FormatPNG,
		"pdf":        FormatPDF,
		"Pdf":        FormatPDF,
		"ps":         FormatPS,
		"postscript": FormatPS,
		"svg":        FormatSVG,
		" svg ":      FormatSVG,
	}
	for name, want := range cases {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestParseFormatUnknown(t *testing.T) {
	_, err := ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ParseFormat("")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatPaged(t *testing.T) {
	assert.False(t, FormatPNG.Paged())
	assert.True(t, FormatPDF.Paged())
	assert.True(t, FormatPS.Paged())
	assert.True(t, FormatSVG.Paged())
}

func TestSurfaceResizeUnchangedIsNoop(t *testing.T) {
	s := newSurface(FormatPNG, 50, 40, 1.0)
	c := s.c
	s.Resize(50, 40)
	assert.Same(t, c, s.c)

	s.Resize(60, 40)
	assert.NotSame(t, c, s.c)
}

func TestSurfaceSaveRestoreBalancesTranslation(t *testing.T) {
	s := newSurface(FormatPNG, 50, 40, 1.0)
	s.Save()
	s.Translate(10, 20)
	assert.Equal(t, 10.0, s.top().dx)
	s.Restore()
	assert.Equal(t, 0.0, s.top().dx)
	assert.Equal(t, 0.0, s.top().dy)

	// restore past the root frame is ignored
	s.Restore()
	assert.Len(t, s.frames, 1)
}
