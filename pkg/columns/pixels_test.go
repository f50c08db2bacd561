package columns

import "testing"

func TestParsePixels(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Pixels
	}{
		{"positive", "12px", 12},
		{"negative", "-5px", 0},
		{"absent", "", 0},
		{"zero", "0px", 0},
		{"fraction", "2.5px", 2.5},
		{"no unit", "8", 8},
		{"padded", " 4 px", 4},
		{"garbage", "wide", 0},
		{"garbage with unit", "abcpx", 0},
		{"infinity", "Infpx", 0},
		{"nan", "NaN", 0},
		{"trailing text after unit", "3px solid", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePixels(tt.input); got != tt.want {
				t.Errorf("ParsePixels(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPixelsString(t *testing.T) {
	tests := []struct {
		p    Pixels
		want string
	}{
		{0, "0px"},
		{12, "12px"},
		{2.5, "2.5px"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("Pixels(%v).String() = %q, want %q", float64(tt.p), got, tt.want)
		}
	}
}

func TestParsePixelsIdempotent(t *testing.T) {
	for _, in := range []string{"", "12px", "-5px", "0.25px", "x", "100"} {
		first := ParsePixels(in)
		if second := ParsePixels(first.String()); second != first {
			t.Errorf("ParsePixels(%q): %v then %v", in, first, second)
		}
	}
}

func TestPixelsCells(t *testing.T) {
	tests := []struct {
		p         Pixels
		pxPerCell float64
		want      int
	}{
		{8, 0, 8},
		{8, 4, 2},
		{7, 4, 1},
		{0, 4, 0},
	}
	for _, tt := range tests {
		if got := tt.p.Cells(tt.pxPerCell); got != tt.want {
			t.Errorf("Pixels(%v).Cells(%v) = %d, want %d", float64(tt.p), tt.pxPerCell, got, tt.want)
		}
	}
}
