package services

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
)

func newTestMemeService() *MemeService {
	// pin the bitmap face so renders don't depend on installed fonts
	return &MemeService{face: basicfont.Face7x13}
}

func testImagePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMemeRenderShrinksToStickerBox(t *testing.T) {
	svc := newTestMemeService()
	src := testImagePNG(t, 1024, 600)

	out, err := svc.Render(src, "top text")
	require.NoError(t, err)

	decoded, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 512, decoded.Bounds().Dx())
	assert.Equal(t, 300, decoded.Bounds().Dy())
}

func TestMemeRenderNeverUpscales(t *testing.T) {
	svc := newTestMemeService()
	src := testImagePNG(t, 100, 80)

	out, err := svc.Render(src, "tiny")
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 80, decoded.Bounds().Dy())
}

func TestMemeRenderDeterministic(t *testing.T) {
	svc := newTestMemeService()
	src := testImagePNG(t, 640, 480)

	first, err := svc.Render(src, "same caption")
	require.NoError(t, err)
	second, err := svc.Render(src, "same caption")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMemeRenderChangesBottomBand(t *testing.T) {
	svc := newTestMemeService()
	src := testImagePNG(t, 200, 200)

	out, err := svc.Render(src, "caption")
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// the light band must differ from the original gradient fill
	srcImg, _, err := image.Decode(bytes.NewReader(src))
	require.NoError(t, err)

	changed := false
	for x := 0; x < 200 && !changed; x++ {
		r1, g1, b1, _ := srcImg.At(x, 190).RGBA()
		r2, g2, b2, _ := decoded.At(x, 190).RGBA()
		if r1 != r2 || g1 != g2 || b1 != b2 {
			changed = true
		}
	}
	assert.True(t, changed)
}

func TestMemeRenderRejectsBadBytes(t *testing.T) {
	svc := newTestMemeService()

	_, err := svc.Render([]byte("definitely not an image"), "caption")
	assert.Error(t, err)
}

func TestMemeRenderNilFaceFallsBack(t *testing.T) {
	svc := &MemeService{}
	src := testImagePNG(t, 64, 64)

	out, err := svc.Render(src, "x")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
