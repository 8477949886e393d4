package detection

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph metrics of basicfont.Face7x13.
const (
	labelCharWidth = 7
	labelAscent    = 11
)

// LabelCircles writes "#n r=R" next to every accepted circle on dst, numbering
// them from 1 in candidate order. Labels are placed to the right of the outline
// and pulled back inside the image when they would overflow.
func LabelCircles(dst *image.RGBA, candidates []CircleCandidate, col color.Color) {
	bounds := dst.Bounds()
	n := 0
	for _, c := range candidates {
		if !c.Accepted {
			continue
		}
		n++
		text := fmt.Sprintf("#%d r=%d", n, c.Radius)

		x := c.Center.X + c.Radius + 2
		y := c.Center.Y + labelAscent/2
		if maxX := bounds.Max.X - len(text)*labelCharWidth; x > maxX {
			x = maxX
		}
		x = max(x, bounds.Min.X)
		y = min(max(y, bounds.Min.Y+labelAscent), bounds.Max.Y-1)
		drawText(dst, x, y, text, col)
	}
}

// drawText draws text with its baseline at (x, y) using basicfont.
func drawText(img *image.RGBA, x, y int, text string, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
