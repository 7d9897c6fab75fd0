package region

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"
)

// Rectangle describes a screen region in global display coordinates.
// Values are copied into the clipper when registered and never mutated afterwards.
type Rectangle struct {
	X      int `mapstructure:"x" yaml:"x"`
	Y      int `mapstructure:"y" yaml:"y"`
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
}

// Bounds converts the rectangle to an image.Rectangle.
func (r Rectangle) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Empty reports whether the rectangle covers no pixels.
func (r Rectangle) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Validate checks that every field is non-negative and the area is non-zero.
func (r Rectangle) Validate() error {
	if r.X < 0 || r.Y < 0 {
		return fmt.Errorf("region: negative origin (%d,%d)", r.X, r.Y)
	}
	if r.Empty() {
		return fmt.Errorf("region: empty size %dx%d", r.Width, r.Height)
	}
	return nil
}

func (r Rectangle) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// FromBounds builds a Rectangle from an image.Rectangle.
func FromBounds(b image.Rectangle) Rectangle {
	b = b.Canon()
	return Rectangle{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
}

// Parse reads "x,y,width,height" into a validated Rectangle.
func Parse(s string) (Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rectangle{}, fmt.Errorf("region: want x,y,width,height, got %q", s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rectangle{}, fmt.Errorf("region: field %d of %q: %w", i+1, s, err)
		}
		vals[i] = v
	}
	r := Rectangle{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
	if err := r.Validate(); err != nil {
		return Rectangle{}, err
	}
	return r, nil
}

// geometryRe matches window geometry strings in the format "WIDTHxHEIGHT+X+Y".
var geometryRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// ParseGeometry reads a window manager geometry string, the inverse of String.
// The result is not validated; windows may sit partly off screen.
func ParseGeometry(g string) (Rectangle, bool) {
	m := geometryRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return Rectangle{}, false
	}
	return Rectangle{X: x, Y: y, Width: w, Height: h}, true
}
