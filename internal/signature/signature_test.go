package signature

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"recepcion/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvas_ExportEmpty(t *testing.T) {
	c := NewCanvas(0, 0)

	assert.True(t, c.IsEmpty())

	img, err := c.ExportImage()
	require.NoError(t, err)
	assert.Equal(t, "", img)
}

func TestCanvas_ExportAfterStroke(t *testing.T) {
	c := NewCanvas(100, 50)
	c.Stroke(Stroke{{X: 10, Y: 10}, {X: 60, Y: 30}})

	assert.False(t, c.IsEmpty())

	dataURL, err := c.ExportImage()
	require.NoError(t, err)
	require.True(t, IsDataURL(dataURL))

	raw, err := DecodeDataURL(dataURL)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	_, _, _, a := img.At(10, 10).RGBA()
	assert.NotZero(t, a, "stroke start should be painted")
	_, _, _, a = img.At(90, 45).RGBA()
	assert.Zero(t, a, "untouched area should stay transparent")
}

func TestCanvas_SinglePointIsADot(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Stroke(Stroke{{X: 5, Y: 5}})
	assert.False(t, c.IsEmpty())
}

func TestCanvas_OutOfBoundsStrokeLeavesCanvasEmpty(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Stroke(Stroke{{X: -100, Y: -100}, {X: -50, Y: -80}})
	assert.True(t, c.IsEmpty())
}

func TestCanvas_FarOffCanvasSegmentIsClipped(t *testing.T) {
	c := NewCanvas(50, 20)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Stroke(Stroke{{X: 0, Y: 10}, {X: 2e9, Y: 10}})
		c.Stroke(Stroke{{X: 25, Y: -1e12}, {X: 25, Y: 1e12}})
		c.Stroke(Stroke{{X: -3e9, Y: -3e9}, {X: -2e9, Y: 4e9}})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("rasterizing off-canvas segments did not finish")
	}

	assert.NotZero(t, c.img.NRGBAAt(49, 10).A, "clipped horizontal segment should reach the right edge")
	assert.NotZero(t, c.img.NRGBAAt(25, 0).A, "clipped vertical segment should cross the canvas")
	assert.Zero(t, c.img.NRGBAAt(10, 2).A)
}

func TestCanvas_ClipKeepsOnCanvasSegments(t *testing.T) {
	c := NewCanvas(50, 50)

	from, to, ok := c.clip(Point{X: 5, Y: 5}, Point{X: 40, Y: 30})
	require.True(t, ok)
	assert.Equal(t, Point{X: 5, Y: 5}, from)
	assert.Equal(t, Point{X: 40, Y: 30}, to)

	_, _, ok = c.clip(Point{X: -100, Y: 5}, Point{X: -60, Y: 45})
	assert.False(t, ok)

	from, to, ok = c.clip(Point{X: -1000, Y: 10}, Point{X: 1000, Y: 10})
	require.True(t, ok)
	assert.InDelta(t, -float64(DefaultPen), from.X, 1e-9)
	assert.InDelta(t, 50+float64(DefaultPen), to.X, 1e-9)
}

func TestCanvas_ClearIsIdempotent(t *testing.T) {
	c := NewCanvas(20, 20)
	c.Stroke(Stroke{{X: 1, Y: 1}, {X: 10, Y: 10}})
	require.False(t, c.IsEmpty())

	c.Clear()
	assert.True(t, c.IsEmpty())
	c.Clear()
	assert.True(t, c.IsEmpty())

	img, err := c.ExportImage()
	require.NoError(t, err)
	assert.Empty(t, img)
}

func TestPad_SignersAreIndependent(t *testing.T) {
	p := NewPad(50, 50)

	require.NoError(t, p.Draw(types.SignerIT, []Stroke{{{X: 1, Y: 1}, {X: 20, Y: 20}}}))

	assert.False(t, p.IsEmpty(types.SignerIT))
	assert.True(t, p.IsEmpty(types.SignerUser))

	it, err := p.ExportImage(types.SignerIT)
	require.NoError(t, err)
	assert.NotEmpty(t, it)

	user, err := p.ExportImage(types.SignerUser)
	require.NoError(t, err)
	assert.Empty(t, user)

	p.Clear(types.SignerIT)
	assert.True(t, p.IsEmpty(types.SignerIT))
}

func TestPad_UnknownSigner(t *testing.T) {
	p := NewPad(10, 10)

	err := p.Draw(types.Signer("mayor"), nil)
	assert.ErrorIs(t, err, ErrUnknownSigner)

	_, err = p.ExportImage(types.Signer("mayor"))
	assert.ErrorIs(t, err, ErrUnknownSigner)
	assert.True(t, p.IsEmpty(types.Signer("mayor")))
}

func TestParseStrokes(t *testing.T) {
	strokes, err := ParseStrokes(`[[[1,2],[3,4]],[[5,6]]]`)
	require.NoError(t, err)
	require.Len(t, strokes, 2)
	assert.Equal(t, Stroke{{X: 1, Y: 2}, {X: 3, Y: 4}}, strokes[0])
	assert.Equal(t, Stroke{{X: 5, Y: 6}}, strokes[1])

	strokes, err = ParseStrokes("  ")
	require.NoError(t, err)
	assert.Empty(t, strokes)

	_, err = ParseStrokes(`{"x":1}`)
	assert.Error(t, err)

	var b strings.Builder
	b.WriteString("[[")
	for i := 0; i <= maxPoints; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("[1,1]")
	}
	b.WriteString("]]")
	_, err = ParseStrokes(b.String())
	assert.ErrorContains(t, err, "too many points")
}

func TestDecodeDataURL_RejectsOtherSchemes(t *testing.T) {
	_, err := DecodeDataURL("data:image/jpeg;base64,AAAA")
	assert.ErrorIs(t, err, ErrInvalidDataURL)
}
