package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestNewScalarGrid(t *testing.T) {
	g := NewScalarGrid(4, 3)
	if g.Width != 4 || g.Height != 3 {
		t.Errorf("dimensions: got %dx%d, want 4x3", g.Width, g.Height)
	}
	if len(g.Pix) != 12 {
		t.Errorf("len(Pix): got %d, want 12", len(g.Pix))
	}

	neg := NewScalarGrid(-1, 5)
	if neg.Width != 0 || len(neg.Pix) != 0 {
		t.Errorf("negative width should give an empty grid, got %dx%d", neg.Width, neg.Height)
	}
}

func TestScalarGrid_Accessors(t *testing.T) {
	g := NewScalarGrid(3, 2)
	g.Set(2, 1, 7)

	if got := g.At(2, 1); got != 7 {
		t.Errorf("At(2,1): got %d, want 7", got)
	}
	if got := g.Pix[1*3+2]; got != 7 {
		t.Errorf("row-major layout broken: Pix[5] = %d", got)
	}

	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"inside", 2, 1, 7},
		{"left of grid", -1, 0, -9},
		{"right of grid", 3, 0, -9},
		{"above grid", 0, -1, -9},
		{"below grid", 0, 2, -9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.AtOr(tt.x, tt.y, -9); got != tt.want {
				t.Errorf("AtOr(%d,%d): got %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestScalarGrid_AtClamped(t *testing.T) {
	g := NewScalarGrid(3, 3)
	for i := range g.Pix {
		g.Pix[i] = i
	}

	tests := []struct {
		x, y int
		want int
	}{
		{-5, 0, 0},
		{5, 0, 2},
		{1, -3, 1},
		{1, 10, 7},
		{-1, -1, 0},
		{9, 9, 8},
	}
	for _, tt := range tests {
		if got := g.AtClamped(tt.x, tt.y); got != tt.want {
			t.Errorf("AtClamped(%d,%d): got %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestScalarGrid_AtPanicsOutOfRange(t *testing.T) {
	g := NewScalarGrid(2, 2)
	defer func() {
		if recover() == nil {
			t.Error("At(2,0) should panic on a 2x2 grid")
		}
	}()
	g.At(2, 0)
}

func TestScalarGrid_CloneAndEqual(t *testing.T) {
	g := NewScalarGrid(2, 2)
	g.Pix[3] = 42

	c := g.Clone()
	if !c.Equal(g) {
		t.Fatal("clone should equal original")
	}

	c.Pix[3] = 0
	if g.Pix[3] != 42 {
		t.Error("modifying the clone changed the original")
	}
	if c.Equal(g) {
		t.Error("Equal should report differing samples")
	}
	if g.Equal(NewScalarGrid(4, 1)) {
		t.Error("Equal should report differing dimensions")
	}
}

func TestScalarGrid_MinMax(t *testing.T) {
	g := &ScalarGrid{Width: 4, Height: 1, Pix: []int{3, -2, 9, 0}}
	lo, hi := g.MinMax()
	if lo != -2 || hi != 9 {
		t.Errorf("MinMax: got (%d,%d), want (-2,9)", lo, hi)
	}

	lo, hi = NewScalarGrid(0, 0).MinMax()
	if lo != 0 || hi != 0 {
		t.Errorf("empty MinMax: got (%d,%d), want (0,0)", lo, hi)
	}
}

func TestRGBGrid_Empty(t *testing.T) {
	var nilGrid *RGBGrid
	if !nilGrid.Empty() {
		t.Error("nil grid should be empty")
	}
	if !NewRGBGrid(0, 4).Empty() {
		t.Error("zero-width grid should be empty")
	}
	if NewRGBGrid(1, 1).Empty() {
		t.Error("1x1 grid should not be empty")
	}
}

func TestRGBGridFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(2, 1, color.RGBA{10, 20, 30, 255})

	g := RGBGridFromImage(img)
	if g.Width != 3 || g.Height != 2 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", g.Width, g.Height)
	}
	if got := g.At(0, 0); got != (RGB{255, 0, 0}) {
		t.Errorf("At(0,0): got %+v, want red", got)
	}
	if got := g.At(2, 1); got != (RGB{10, 20, 30}) {
		t.Errorf("At(2,1): got %+v, want {10 20 30}", got)
	}
}

func TestRGBGridFromImage_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 77})

	g := RGBGridFromImage(img)
	if got := g.At(1, 1); got != (RGB{77, 77, 77}) {
		t.Errorf("At(1,1): got %+v, want {77 77 77}", got)
	}
}

func TestRGBGridFromImage_SubImageOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 5, color.RGBA{0, 255, 0, 255})
	sub := img.SubImage(image.Rect(4, 4, 8, 8))

	g := RGBGridFromImage(sub)
	if g.Width != 4 || g.Height != 4 {
		t.Fatalf("dimensions: got %dx%d, want 4x4", g.Width, g.Height)
	}
	if got := g.At(1, 1); got != (RGB{0, 255, 0}) {
		t.Errorf("At(1,1): got %+v, want green (grid origin is the sub-image origin)", got)
	}
}

func TestRGBGridFromScalar(t *testing.T) {
	g := &ScalarGrid{Width: 3, Height: 1, Pix: []int{-5, 128, 300}}
	out := RGBGridFromScalar(g)

	want := []RGB{{0, 0, 0}, {128, 128, 128}, {255, 255, 255}}
	for i, w := range want {
		if out.Pix[i] != w {
			t.Errorf("Pix[%d]: got %+v, want %+v", i, out.Pix[i], w)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := clamp(tt.val, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%d, %d, %d) = %d, want %d", tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}
