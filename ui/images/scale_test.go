package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestFitSize(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{100, 50, 400, 225, 100, 50},   // already fits
		{1920, 1080, 400, 225, 400, 225}, // same aspect
		{1000, 1000, 400, 225, 225, 225}, // height bound
		{4000, 100, 400, 225, 400, 10},   // width bound
		{10, 10, 0, 0, 1, 1},             // degenerate bounds
		{0, 10, 400, 225, 0, 0},          // empty source
	}
	for _, c := range cases {
		gw, gh := FitSize(c.w, c.h, c.maxW, c.maxH)
		if gw != c.wantW || gh != c.wantH {
			t.Errorf("FitSize(%d,%d,%d,%d) = %dx%d want %dx%d", c.w, c.h, c.maxW, c.maxH, gw, gh, c.wantW, c.wantH)
		}
	}
}

func TestScaleToFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 400))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	out := ScaleToFit(src, 200, 200)
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Fatalf("unexpected scaled size %v", out.Bounds())
	}
	if c := color.RGBAModel.Convert(out.At(100, 50)).(color.RGBA); c != (color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Fatalf("solid white lost after scaling: %v", c)
	}
	if small := image.NewRGBA(image.Rect(0, 0, 10, 10)); ScaleToFit(small, 200, 200) != image.Image(small) {
		t.Fatalf("image inside bounds should be returned unchanged")
	}
}

func TestEncodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	data := EncodePNG(img)
	dec, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.Bounds() != img.Bounds() {
		t.Fatalf("bounds %v want %v", dec.Bounds(), img.Bounds())
	}
	if EncodePNG(nil) != nil {
		t.Fatalf("nil image should encode to nil")
	}
}
