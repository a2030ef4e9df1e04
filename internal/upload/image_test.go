package upload

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		for y := 0; y < 48; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessEncodesSmallPNG(t *testing.T) {
	p := NewPipeline(nil)
	res, err := p.Process("", smallPNG(t), "image/png")
	require.NoError(t, err)
	require.Equal(t, StateEncoded, res.State)
	require.True(t, strings.HasPrefix(res.DataURI, "data:image/jpeg;base64,"))
}

func TestProcessRejectsOversizeBeforeCompression(t *testing.T) {
	p := NewPipeline(nil)
	// 200 KB of junk: the size gate fires before any decode/compress attempt,
	// so the payload does not need to be a real image.
	oversized := make([]byte, 200*1024)
	res, err := p.Process("data:prev", oversized, "image/png")
	require.ErrorIs(t, err, ErrTooLarge)
	require.Equal(t, StateRejected, res.State)
	require.Equal(t, "data:prev", res.DataURI, "prior photo value must be preserved")
}

func TestProcessRejectsUnsupportedType(t *testing.T) {
	p := NewPipeline(nil)
	res, err := p.Process("keep", []byte("GIF89a..."), "image/gif")
	require.ErrorIs(t, err, ErrUnsupportedType)
	require.Equal(t, "keep", res.DataURI)
}

func TestProcessRejectsCorruptImage(t *testing.T) {
	p := NewPipeline(nil)
	res, err := p.Process("keep", []byte("not actually a png"), "image/png")
	require.ErrorIs(t, err, ErrCompression)
	require.Equal(t, StateRejected, res.State)
	require.Equal(t, "keep", res.DataURI)
}

func TestRemoveClearsValue(t *testing.T) {
	require.Equal(t, "", Remove())
}
