package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/alphabatem/common/context"
	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	_ "golang.org/x/image/webp"
)

// MemeService renders a caption onto an image: the source is shrunk to fit
// a 512x512 sticker box, a light band is painted across the bottom and the
// caption is centered on it. Pure with respect to its inputs and the
// loaded font.
type MemeService struct {
	context.DefaultService

	fontPath string
	face     font.Face
}

const MEME_SVC = "meme_svc"

const (
	memeMaxSize    = 512
	memeBandHeight = 40
	memeMargin     = 14
	memeFontPoints = 30
)

// Probed when MEME_FONT_PATH is unset.
var defaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial.ttf",
}

func (svc MemeService) Id() string {
	return MEME_SVC
}

func (svc *MemeService) Configure(ctx *context.Context) error {
	svc.fontPath = os.Getenv("MEME_FONT_PATH")
	return svc.DefaultService.Configure(ctx)
}

// Start loads the caption font. A missing truetype font falls back to the
// built-in bitmap face and never fails the service.
func (svc *MemeService) Start() error {
	svc.face = svc.loadFace()
	return nil
}

func (svc *MemeService) loadFace() font.Face {
	paths := defaultFontPaths
	if svc.fontPath != "" {
		paths = []string{svc.fontPath}
	}

	for _, path := range paths {
		face, err := gg.LoadFontFace(path, memeFontPoints)
		if err == nil {
			log.Printf("Meme font loaded from %s", path)
			return face
		}
	}

	log.Println("No truetype font available, using built-in bitmap font for memes")
	return basicfont.Face7x13
}

// Render produces the captioned PNG. Undecodable source bytes are a hard
// error; no partial meme is ever returned.
func (svc *MemeService) Render(src []byte, caption string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}

	img = thumbnail(img, memeMaxSize, memeMaxSize)
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	dc := gg.NewContext(w, h)
	dc.DrawImage(img, 0, 0)

	bandHeight := memeBandHeight
	if bandHeight > h {
		bandHeight = h
	}
	dc.SetRGBA255(255, 255, 255, 200)
	dc.DrawRectangle(0, float64(h-bandHeight), float64(w), float64(bandHeight))
	dc.Fill()

	face := svc.face
	if face == nil {
		face = basicfont.Face7x13
	}
	dc.SetFontFace(face)
	dc.SetRGB255(0, 0, 0)

	textWidth, _ := dc.MeasureString(caption)
	x := (float64(w) - textWidth) / 2
	y := float64(h - memeMargin)
	dc.DrawString(caption, x, y)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode meme: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbnail shrinks img to fit within maxW x maxH preserving aspect ratio.
// Images already inside the box are returned untouched (no upscale).
func thumbnail(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxW && h <= maxH {
		return img
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	dstW := int(float64(w) * scale)
	dstH := int(float64(h) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
