package imaging

import (
	"testing"
)

func TestGradient_Horizontal(t *testing.T) {
	img, err := Gradient(256, 4, GradientSpec{
		Angle: 90,
		Stops: []GradientStop{{Color: "#000000"}, {Color: "#FFFFFF"}},
	})
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}

	if left := img.NRGBAAt(0, 2); left.R > 2 {
		t.Errorf("left edge should be black, got %v", left)
	}
	if right := img.NRGBAAt(255, 2); right.R < 253 {
		t.Errorf("right edge should be white, got %v", right)
	}
	for x := 1; x < 256; x++ {
		if img.NRGBAAt(x, 0).R < img.NRGBAAt(x-1, 0).R {
			t.Fatalf("gradient not monotonic at x=%d", x)
		}
	}
	// Rows are identical for a horizontal gradient.
	if img.NRGBAAt(100, 0) != img.NRGBAAt(100, 3) {
		t.Error("rows differ in a horizontal gradient")
	}
}

func TestGradient_Vertical(t *testing.T) {
	img, err := Gradient(4, 100, GradientSpec{
		Angle: 180,
		Stops: []GradientStop{{Color: "#FF0000"}, {Color: "#0000FF"}},
	})
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}

	top, bottom := img.NRGBAAt(2, 0), img.NRGBAAt(2, 99)
	if top.R < 240 || top.B > 15 {
		t.Errorf("top should be red, got %v", top)
	}
	if bottom.B < 240 || bottom.R > 15 {
		t.Errorf("bottom should be blue, got %v", bottom)
	}
}

func TestGradient_StopPositions(t *testing.T) {
	img, err := Gradient(100, 1, GradientSpec{
		Angle: 90,
		Stops: []GradientStop{
			{Color: "#FFFFFF", Position: 0.5},
			{Color: "#000000", Position: 0.25},
		},
	})
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}

	// Stops are sorted: black up to 25%, white from 50%.
	if c := img.NRGBAAt(10, 0); c.R != 0 {
		t.Errorf("x=10 should be solid black, got %v", c)
	}
	if c := img.NRGBAAt(80, 0); c.R != 255 {
		t.Errorf("x=80 should be solid white, got %v", c)
	}
}

func TestGradient_BlendSpaces(t *testing.T) {
	for _, space := range []string{"", "rgb", "lab", "HCL", "luv"} {
		t.Run(space, func(t *testing.T) {
			_, err := Gradient(10, 10, GradientSpec{
				Angle: 45,
				Stops: []GradientStop{{Color: "#FF8800"}, {Color: "#0088FF"}, {Color: "#00FF00"}},
				Space: space,
			})
			if err != nil {
				t.Errorf("Gradient failed: %v", err)
			}
		})
	}
}

func TestGradient_Errors(t *testing.T) {
	twoStops := []GradientStop{{Color: "#000"}, {Color: "#FFF"}}

	tests := []struct {
		name string
		w, h int
		spec GradientSpec
	}{
		{"zero width", 0, 10, GradientSpec{Stops: twoStops}},
		{"one stop", 10, 10, GradientSpec{Stops: twoStops[:1]}},
		{"bad color", 10, 10, GradientSpec{Stops: []GradientStop{{Color: "#000"}, {Color: "nope"}}}},
		{"bad space", 10, 10, GradientSpec{Stops: twoStops, Space: "cmyk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Gradient(tt.w, tt.h, tt.spec); err == nil {
				t.Error("expected error")
			}
		})
	}
}
