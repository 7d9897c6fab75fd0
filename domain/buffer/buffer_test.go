package buffer

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/captol-go/domain/capture"
	"github.com/soocke/captol-go/domain/storage"
)

func frame(v uint8) capture.Frame {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := range img.Pix {
		img.Pix[i] = v
		if i%4 == 3 {
			img.Pix[i] = 0xFF
		}
	}
	img.SetRGBA(0, 0, color.RGBA{v, 1, 2, 0xFF})
	return capture.Frame{Image: img}
}

func mustHold(t *testing.T, b *ImageBuffer, f capture.Frame) {
	t.Helper()
	if err := b.Hold(f); err != nil {
		t.Fatalf("hold: %v", err)
	}
}

func TestImageBuffer_CompareAtStartup(t *testing.T) {
	b := New()
	mustHold(t, b, frame(1))
	if _, err := b.CompareSimilarity(1); !errors.Is(err, ErrStepUnavailable) {
		t.Fatalf("expected ErrStepUnavailable, got %v", err)
	}
	if err := b.Hold(frame(2)); !errors.Is(err, ErrPendingOccupied) {
		t.Fatalf("expected ErrPendingOccupied, got %v", err)
	}
}

func TestImageBuffer_SaveShiftsHistory(t *testing.T) {
	dir := t.TempDir()
	b := New()
	for i, v := range []uint8{10, 20, 30} {
		mustHold(t, b, frame(v))
		if err := b.Save(filepath.Join(dir, string(rune('1'+i))+".png")); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if b.Len() != Depth {
		t.Fatalf("history len=%d want %d", b.Len(), Depth)
	}
	mustHold(t, b, frame(30))
	if same, err := b.CompareSimilarity(1); err != nil || !same {
		t.Fatalf("step1 compare: same=%v err=%v", same, err)
	}
	if same, err := b.CompareSimilarity(2); err != nil || same {
		t.Fatalf("step2 compare: same=%v err=%v", same, err)
	}
	if _, err := b.CompareSimilarity(3); !errors.Is(err, ErrStepUnavailable) {
		t.Fatalf("expected ErrStepUnavailable for step 3, got %v", err)
	}
	if err := b.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if b.Pending() || b.Len() != Depth {
		t.Fatalf("release changed history: pending=%v len=%d", b.Pending(), b.Len())
	}
	if err := b.Release(); !errors.Is(err, ErrNoPending) {
		t.Fatalf("expected ErrNoPending, got %v", err)
	}
}

func TestImageBuffer_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.png")
	f := frame(77)
	want := image.NewRGBA(f.Image.Rect)
	copy(want.Pix, f.Image.Pix)

	b := New()
	mustHold(t, b, f)
	if err := b.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := storage.ReadImage(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	reread := capture.Frame{Image: image.NewRGBA(got.Bounds())}
	for y := 0; y < got.Bounds().Dy(); y++ {
		for x := 0; x < got.Bounds().Dx(); x++ {
			reread.Image.Set(x, y, got.At(x, y))
		}
	}
	if !reread.SamePixels(capture.Frame{Image: want}) {
		t.Fatalf("saved image differs from held frame")
	}
}

func TestImageBuffer_SaveFailureKeepsPending(t *testing.T) {
	b := New()
	mustHold(t, b, frame(5))
	bad := filepath.Join(t.TempDir(), "missing", "1.png")
	if err := b.Save(bad); err == nil {
		t.Fatalf("expected save error")
	}
	if !b.Pending() {
		t.Fatalf("pending frame dropped after failed save")
	}
	if b.Len() != 0 {
		t.Fatalf("failed save entered history")
	}
}

func TestImageBuffer_DeleteTwiceFails(t *testing.T) {
	dir := t.TempDir()
	b := New()
	mustHold(t, b, frame(1))
	p := filepath.Join(dir, "1.png")
	if err := b.Save(p); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file not removed")
	}
	if err := b.Delete(1); !errors.Is(err, ErrStepUnavailable) {
		t.Fatalf("expected ErrStepUnavailable on empty slot, got %v", err)
	}
}

func TestImageBuffer_Correct(t *testing.T) {
	dir := t.TempDir()
	p1, p2 := filepath.Join(dir, "1.png"), filepath.Join(dir, "2.png")
	b := New()
	mustHold(t, b, frame(1))
	if err := b.Save(p1); err != nil {
		t.Fatal(err)
	}
	mustHold(t, b, frame(2))
	if err := b.Correct(p1); !errors.Is(err, ErrStepUnavailable) {
		t.Fatalf("expected ErrStepUnavailable with short history, got %v", err)
	}
	if err := b.Save(p2); err != nil {
		t.Fatal(err)
	}
	mustHold(t, b, frame(1))
	if err := b.Correct(p1); err != nil {
		t.Fatalf("correct: %v", err)
	}
	if b.Len() != 1 || b.Pending() {
		t.Fatalf("after correct: len=%d pending=%v", b.Len(), b.Pending())
	}
	if path, _ := b.Path(1); path != p1 {
		t.Fatalf("step1 path=%q want %q", path, p1)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "1.png" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
