package detection

// Line rasterises the segment from (x1, y1) towards (x2, y2) with an integer
// Bresenham walk and calls plot for every cell visited.
//
// The walk takes max(|dx|, |dy|) steps starting at (x1, y1), so the end point
// itself is not plotted. Steep segments are handled by swapping the roles of
// the axes. plot receives raw coordinates; bounds checks are the caller's.
func Line(x1, y1, x2, y2 int, plot func(x, y int)) {
	deltaX := absInt(x2 - x1)
	deltaY := absInt(y2 - y1)
	sx := sign(x2 - x1)
	sy := sign(y2 - y1)

	swap := false
	if deltaY > deltaX {
		deltaX, deltaY = deltaY, deltaX
		swap = true
	}

	x, y := x1, y1
	d := 2*deltaY - deltaX
	for i := 0; i < deltaX; i++ {
		plot(x, y)
		for d >= 0 {
			d -= 2 * deltaX
			if swap {
				x += sx
			} else {
				y += sy
			}
		}
		d += 2 * deltaY
		if swap {
			y += sy
		} else {
			x += sx
		}
	}
}

// Circle rasterises a circle outline with the midpoint (Bresenham) algorithm
// and calls plot for the eight symmetric points of every step.
//
// Points on octant boundaries are reported more than once; callers that count
// hits see every reported point. A radius of 0 reports the centre eight times.
func Circle(cx, cy, radius int, plot func(x, y int)) {
	d := 3 - 2*radius
	x, y := 0, radius
	for x <= y {
		plot(cx+x, cy+y)
		plot(cx+x, cy-y)
		plot(cx-x, cy+y)
		plot(cx-x, cy-y)
		plot(cx+y, cy+x)
		plot(cx+y, cy-x)
		plot(cx-y, cy+x)
		plot(cx-y, cy-x)

		if d < 0 {
			d += 4*x + 6
		} else {
			d += 4*(x-y) + 10
			y--
		}
		x++
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
