package imaging

type pixel struct {
	x, y int
}

// Hysteresis links weak edges to strong ones.
//
// The classified grid (EdgeState values) is walked in row-major order.
// Strong pixels are copied to the output. Each unresolved weak pixel seeds a
// stack-based, 8-connected traversal over contiguous weak pixels; if any
// pixel of that component touches a strong pixel, the whole component is
// written as EdgeStrong, otherwise it is dropped. The output therefore holds
// only EdgeNone and EdgeStrong, and running Hysteresis on it again returns
// an identical grid.
//
// Resolution marks live in a private visited bitmap; classified is not modified.
func Hysteresis(classified *ScalarGrid) *ScalarGrid {
	w, h := classified.Width, classified.Height
	out := NewScalarGrid(w, h)
	resolved := make([]bool, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if resolved[i] {
				continue
			}
			switch EdgeState(classified.Pix[i]) {
			case EdgeStrong:
				out.Pix[i] = int(EdgeStrong)
				resolved[i] = true
			case EdgeWeak:
				component, linked := traceWeakComponent(classified, resolved, x, y)
				if !linked {
					continue
				}
				for _, p := range component {
					out.Pix[p.y*w+p.x] = int(EdgeStrong)
				}
			}
		}
	}
	return out
}

// traceWeakComponent collects the weak pixels 8-connected to (startX, startY),
// marking each as resolved, and reports whether any of them neighbours a
// strong pixel.
//
// Uses an explicit stack so component size is bounded by memory, not call depth.
func traceWeakComponent(classified *ScalarGrid, resolved []bool, startX, startY int) ([]pixel, bool) {
	w := classified.Width
	linked := false
	component := make([]pixel, 0, 16)

	stack := []pixel{{startX, startY}}
	resolved[startY*w+startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		component = append(component, p)

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.x+dx, p.y+dy
				if !classified.InBounds(nx, ny) {
					continue
				}
				switch EdgeState(classified.Pix[ny*w+nx]) {
				case EdgeStrong:
					linked = true
				case EdgeWeak:
					ni := ny*w + nx
					if !resolved[ni] {
						resolved[ni] = true
						stack = append(stack, pixel{nx, ny})
					}
				}
			}
		}
	}
	return component, linked
}
