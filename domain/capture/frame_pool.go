package capture

import (
	"image"
	"sync"
)

// Frames are large and the buffer discards most of them (every unchanged tick
// is released). Released frames go back to this pool so the next capture of
// the same region reuses their backing slice instead of allocating.

var framePool sync.Pool // stores *image.RGBA

// acquireFrame returns an RGBA image with origin (0,0) sized w x h. Stride is w*4.
func acquireFrame(w, h int) *image.RGBA {
	rect := image.Rect(0, 0, w, h)
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := framePool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		return &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	}
	img.Stride = w * 4
	img.Rect = rect
	img.Pix = img.Pix[:needed]
	return img
}

// normalize returns src when it is already tightly packed at origin (0,0),
// otherwise a pooled copy that is.
func normalize(src *image.RGBA) *image.RGBA {
	b := src.Rect
	if b.Min == (image.Point{}) && src.Stride == b.Dx()*4 && len(src.Pix) == b.Dx()*b.Dy()*4 {
		return src
	}
	dst := acquireFrame(b.Dx(), b.Dy())
	row := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		so := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+row], src.Pix[so:so+row])
	}
	return dst
}

// RecycleFrame hands the frame's image back for reuse. The caller must not
// touch the image afterwards.
func RecycleFrame(f Frame) {
	if f.Image == nil || f.Image.Pix == nil {
		return
	}
	framePool.Put(f.Image)
}
