package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette used when rendering stage outputs.
var (
	StrongEdgeColor   = mustHex("#FFFFFF")
	WeakEdgeColor     = mustHex("#780000")
	CircleColor       = mustHex("#15A0FF")
	CenterMarkerColor = mustHex("#00FFFF")
)

func mustHex(s string) RGB {
	c, err := ParseHexColor(s)
	if err != nil {
		panic(fmt.Sprintf("imaging: bad palette colour: %v", err))
	}
	return c
}

// ParseHexColor parses "#RRGGBB" (or "RRGGBB") into an RGB pixel.
func ParseHexColor(hex string) (RGB, error) {
	if len(hex) > 0 && hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// ScalarImage renders an intensity grid as an 8-bit gray image, clamping
// samples to [0, 255].
func ScalarImage(g *ScalarGrid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for i, v := range g.Pix {
		img.Pix[i] = clampUint8(v)
	}
	return img
}

// GradientImage renders a signed gradient grid as min(|v|, 255).
func GradientImage(g *ScalarGrid) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for i, v := range g.Pix {
		img.Pix[i] = clampUint8(absInt(v))
	}
	return img
}

// EdgeStateImage renders an EdgeState grid: strong edges in StrongEdgeColor,
// weak edges in WeakEdgeColor, everything else black.
func EdgeStateImage(g *ScalarGrid) *image.RGBA {
	return RGBImage(EdgeStateGrid(g))
}

// EdgeStateGrid converts an EdgeState grid into its RGB rendering.
func EdgeStateGrid(g *ScalarGrid) *RGBGrid {
	out := NewRGBGrid(g.Width, g.Height)
	for i, v := range g.Pix {
		switch EdgeState(v) {
		case EdgeStrong:
			out.Pix[i] = StrongEdgeColor
		case EdgeWeak:
			out.Pix[i] = WeakEdgeColor
		}
	}
	return out
}

// RGBImage converts an RGBGrid into an opaque *image.RGBA.
func RGBImage(g *RGBGrid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, c := range g.Pix {
		img.Pix[i*4+0] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// ToColor converts the pixel to color.RGBA.
func (c RGB) ToColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// EncodedImage is an image encoded as base64 PNG.
type EncodedImage struct {
	// Width of the image in pixels.
	Width int `json:"width"`

	// Height of the image in pixels.
	Height int `json:"height"`

	// ImageBase64 is the PNG-encoded image in standard base64.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EncodePNGBase64 encodes img as PNG and wraps it in an EncodedImage.
func EncodePNGBase64(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
