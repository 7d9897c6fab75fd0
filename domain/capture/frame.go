package capture

import (
	"bytes"
	"image"
	"time"
)

// Frame is one snapshot of a registered region. Sequence records the order in
// which the clipper produced it; the image origin is always (0,0).
type Frame struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// Empty reports whether the frame carries no pixels.
func (f Frame) Empty() bool { return f.Image == nil || f.Image.Rect.Empty() }

// SamePixels reports whether both frames have identical dimensions and
// byte-identical pixel data.
func (f Frame) SamePixels(o Frame) bool {
	if f.Image == nil || o.Image == nil {
		return f.Image == o.Image
	}
	a, b := f.Image, o.Image
	if a.Rect.Dx() != b.Rect.Dx() || a.Rect.Dy() != b.Rect.Dy() {
		return false
	}
	w := a.Rect.Dx() * 4
	for y := 0; y < a.Rect.Dy(); y++ {
		oa := a.PixOffset(a.Rect.Min.X, a.Rect.Min.Y+y)
		ob := b.PixOffset(b.Rect.Min.X, b.Rect.Min.Y+y)
		if !bytes.Equal(a.Pix[oa:oa+w], b.Pix[ob:ob+w]) {
			return false
		}
	}
	return true
}

// Grabber captures the given global screen rectangle.
type Grabber func(image.Rectangle) (*image.RGBA, error)
