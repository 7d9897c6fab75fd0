package storage

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

func testImage(seed uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetRGBA(x, y, color.RGBA{seed, uint8(x * 10), uint8(y * 20), 0xFF})
		}
	}
	return img
}

func sameRGBA(t *testing.T, want *image.RGBA, got image.Image) {
	t.Helper()
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds mismatch: got %v want %v", got.Bounds(), want.Bounds())
	}
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r1, g1, b1, a1 := want.At(x, y).RGBA()
			r2, g2, b2, a2 := got.At(x, y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				t.Fatalf("pixel (%d,%d) mismatch: got %v want %v", x, y, got.At(x, y), want.At(x, y))
			}
		}
	}
}

func TestCounter_NextSavePathUpDown(t *testing.T) {
	dir := t.TempDir()
	c := NewCounter(".PNG")
	if err := c.ChangeDir(dir); err != nil {
		t.Fatalf("change dir: %v", err)
	}
	if got, want := c.NextSavePath(), filepath.Join(dir, "1.png"); got != want {
		t.Fatalf("next path %q want %q", got, want)
	}
	c.Up(3)
	if got, want := c.NextSavePath(), filepath.Join(dir, "4.png"); got != want {
		t.Fatalf("next path %q want %q", got, want)
	}
	c.Down(2)
	if c.Total() != 1 || c.Today() != 1 {
		t.Fatalf("after down: total=%d today=%d", c.Total(), c.Today())
	}
	c.Down(5)
	if c.Total() != 0 || c.Today() != 0 {
		t.Fatalf("counts went negative: total=%d today=%d", c.Total(), c.Today())
	}
}

func TestCounter_Initialize(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.png", "2.png", "7.png", "notes.txt", "3.bmp", "x1.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().AddDate(0, 0, -3)
	if err := os.Chtimes(filepath.Join(dir, "1.png"), old, old); err != nil {
		t.Fatal(err)
	}
	c := NewCounter("png")
	if err := c.ChangeDir(dir); err != nil {
		t.Fatalf("change dir: %v", err)
	}
	if c.Total() != 7 {
		t.Fatalf("total=%d want 7", c.Total())
	}
	if c.Today() != 2 {
		t.Fatalf("today=%d want 2", c.Today())
	}
}

func TestWriteReadImage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range Extensions() {
		t.Run(ext, func(t *testing.T) {
			img := testImage(42)
			path := filepath.Join(dir, "1."+ext)
			if err := WriteImage(path, img); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := ReadImage(path)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			sameRGBA(t, img, got)
		})
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != len(Extensions()) {
		t.Fatalf("unexpected leftovers in dir: %d entries", len(entries))
	}
}

func TestCodecFor_Unsupported(t *testing.T) {
	if _, err := CodecFor("gif"); !errors.Is(err, ErrUnsupportedExtension) {
		t.Fatalf("expected ErrUnsupportedExtension, got %v", err)
	}
	if c, err := CodecFor(".TIF"); err != nil || c.Ext != "tiff" {
		t.Fatalf("tif alias: %v %v", c.Ext, err)
	}
	if err := WriteImage(filepath.Join(t.TempDir(), "a.gif"), testImage(1)); !errors.Is(err, ErrUnsupportedExtension) {
		t.Fatalf("expected ErrUnsupportedExtension from WriteImage, got %v", err)
	}
}

func TestReplaceImages(t *testing.T) {
	dir := t.TempDir()
	p1, p2 := filepath.Join(dir, "1.png"), filepath.Join(dir, "2.png")
	if err := WriteImage(p1, testImage(1)); err != nil {
		t.Fatal(err)
	}
	if err := WriteImage(p2, testImage(2)); err != nil {
		t.Fatal(err)
	}
	repl := testImage(3)
	if err := ReplaceImages([]string{p2, p1}, p1, repl); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if _, err := os.Stat(p2); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected %s removed, stat err=%v", p2, err)
	}
	got, err := ReadImage(p1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sameRGBA(t, repl, got)
	if _, err := os.Stat(filepath.Join(dir, JournalName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("journal left behind")
	}
}

func TestRecoverJournal_FinishesInterruptedCommit(t *testing.T) {
	dir := t.TempDir()
	p1, p2 := filepath.Join(dir, "1.png"), filepath.Join(dir, "2.png")
	for i, p := range []string{p1, p2} {
		if err := WriteImage(p, testImage(uint8(i))); err != nil {
			t.Fatal(err)
		}
	}
	repl := testImage(9)
	tmp, err := writeTemp(p1, repl)
	if err != nil {
		t.Fatal(err)
	}
	// Crash after the journal was written and one removal happened.
	if err := writeJournal(dir, Journal{Remove: []string{p2}, Temp: tmp, Target: p1}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(p2); err != nil {
		t.Fatal(err)
	}

	found, err := RecoverJournal(dir)
	if err != nil || !found {
		t.Fatalf("recover: found=%v err=%v", found, err)
	}
	got, err := ReadImage(p1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	sameRGBA(t, repl, got)
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only 1.png after recovery, got %d entries", len(entries))
	}

	found, err = RecoverJournal(dir)
	if err != nil || found {
		t.Fatalf("second recover: found=%v err=%v", found, err)
	}
}

func TestRecoverJournal_CorruptJournalDropped(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, JournalName), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	found, err := RecoverJournal(dir)
	if err != nil || !found {
		t.Fatalf("recover: found=%v err=%v", found, err)
	}
	if _, err := os.Stat(filepath.Join(dir, JournalName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("corrupt journal not removed")
	}
}

func TestCounter_RetireCountsTodayByDate(t *testing.T) {
	c := NewCounter("png")
	c.Up(3)
	yesterday := time.Now().AddDate(0, 0, -1)
	c.Retire(yesterday)
	if c.Total() != 2 || c.Today() != 3 {
		t.Fatalf("retiring an older image: total=%d today=%d want 2/3", c.Total(), c.Today())
	}
	c.Retire(time.Now())
	if c.Total() != 1 || c.Today() != 2 {
		t.Fatalf("retiring a fresh image: total=%d today=%d want 1/2", c.Total(), c.Today())
	}
}

func TestReplaceImages_RollsBackWhenNothingChanged(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "1.png")
	locked := filepath.Join(dir, "2.png")
	if err := WriteImage(keep, testImage(10)); err != nil {
		t.Fatal(err)
	}
	// a non-empty directory cannot be unlinked like a file
	if err := os.MkdirAll(filepath.Join(locked, "inner"), 0o755); err != nil {
		t.Fatal(err)
	}
	err := ReplaceImages([]string{locked, keep}, keep, testImage(20))
	if err == nil {
		t.Fatalf("expected removal failure")
	}
	if errors.Is(err, ErrCommitIncomplete) {
		t.Fatalf("untouched commit must roll back, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, JournalName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("journal left behind: %v", err)
	}
	for _, name := range dirNames(t, dir) {
		if strings.HasSuffix(name, ".tmp") {
			t.Fatalf("temp file left behind: %s", name)
		}
	}
	img, err := ReadImage(keep)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); uint8(r>>8) != 10 {
		t.Fatalf("target changed by a rolled back commit")
	}
}

func TestReplaceImages_IncompleteKeepsJournal(t *testing.T) {
	dir := t.TempDir()
	removed := filepath.Join(dir, "2.png")
	target := filepath.Join(dir, "1.png")
	if err := WriteImage(removed, testImage(20)); err != nil {
		t.Fatal(err)
	}
	// the rename onto a non-empty directory fails after the removal happened
	if err := os.MkdirAll(filepath.Join(target, "inner"), 0o755); err != nil {
		t.Fatal(err)
	}
	err := ReplaceImages([]string{removed, target}, target, testImage(30))
	if !errors.Is(err, ErrCommitIncomplete) {
		t.Fatalf("expected ErrCommitIncomplete, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, JournalName)); err != nil {
		t.Fatalf("journal must survive an incomplete commit: %v", err)
	}
	if err := os.RemoveAll(target); err != nil {
		t.Fatal(err)
	}
	found, err := RecoverJournal(dir)
	if !found || err != nil {
		t.Fatalf("recover found=%v err=%v", found, err)
	}
	if got := dirNames(t, dir); len(got) != 1 || got[0] != "1.png" {
		t.Fatalf("unexpected files after recovery %v", got)
	}
}

func TestRecoverJournal_KeepsForeignTempFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{".notes.tmp", ".3.png.123456.tmp", JournalName + ".tmp", "1.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if found, err := RecoverJournal(dir); found || err != nil {
		t.Fatalf("recover found=%v err=%v", found, err)
	}
	got := dirNames(t, dir)
	if len(got) != 2 || got[0] != ".notes.tmp" || got[1] != "1.png" {
		t.Fatalf("unexpected files after cleanup %v", got)
	}
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
