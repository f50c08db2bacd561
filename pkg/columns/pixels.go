package columns

import (
	"math"
	"strconv"
	"strings"
)

// Pixels is a non-negative gap size in pixels.
type Pixels float64

// pixelUnit is the suffix of pixel strings.
const pixelUnit = "px"

// ParsePixels parses a pixel string such as "12px". Everything from the
// first "px" on is ignored. Empty, unparseable, non-finite and non-positive
// values yield 0.
func ParsePixels(s string) Pixels {
	if i := strings.Index(s, pixelUnit); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return Pixels(v)
}

// String formats the magnitude with the px suffix, e.g. "12px" or "0px".
func (p Pixels) String() string {
	return strconv.FormatFloat(float64(p), 'f', -1, 64) + pixelUnit
}

// Cells converts the magnitude to whole terminal cells, rounding down.
// pxPerCell <= 0 means one pixel per cell.
func (p Pixels) Cells(pxPerCell float64) int {
	if pxPerCell <= 0 {
		pxPerCell = 1
	}
	return int(math.Floor(float64(p) / pxPerCell))
}
