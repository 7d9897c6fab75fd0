package buffer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/soocke/captol-go/domain/capture"
	"github.com/soocke/captol-go/domain/storage"
)

// Depth is the number of committed frames kept for comparison.
const Depth = 2

var (
	// ErrStepUnavailable is returned when a past step is not (or no longer) held.
	ErrStepUnavailable = errors.New("buffer: step unavailable")
	// ErrNoPending is returned when an operation needs a held frame and there is none.
	ErrNoPending = errors.New("buffer: no pending frame")
	// ErrPendingOccupied is returned by Hold while an undecided frame is still held.
	ErrPendingOccupied = errors.New("buffer: pending frame not decided")
)

type entry struct {
	frame capture.Frame
	path  string
}

// ImageBuffer owns the pending frame (step 0) and the last Depth saved frames
// (step 1 is the most recent). Every Hold must be followed by exactly one of
// Save, Release or Correct before the next Hold.
type ImageBuffer struct {
	mu      sync.Mutex
	pending *capture.Frame
	history []entry // newest first
}

func New() *ImageBuffer { return &ImageBuffer{} }

// Hold takes ownership of f as the pending frame.
func (b *ImageBuffer) Hold(f capture.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		return ErrPendingOccupied
	}
	b.pending = &f
	return nil
}

// CompareSimilarity reports whether the pending frame is pixel-identical to
// the saved frame step entries back.
func (b *ImageBuffer) CompareSimilarity(step int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return false, ErrNoPending
	}
	e, err := b.at(step)
	if err != nil {
		return false, err
	}
	return b.pending.SamePixels(e.frame), nil
}

// Save writes the pending frame to path and makes it step 1. On failure the
// pending frame is kept so the caller can retry or release it.
func (b *ImageBuffer) Save(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return ErrNoPending
	}
	if err := storage.WriteImage(path, b.pending.Image); err != nil {
		return fmt.Errorf("buffer: save %s: %w", path, err)
	}
	b.push(entry{frame: *b.pending, path: path})
	b.pending = nil
	return nil
}

// Release discards the pending frame without writing it.
func (b *ImageBuffer) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return ErrNoPending
	}
	capture.RecycleFrame(*b.pending)
	b.pending = nil
	return nil
}

// Delete drops the saved frame at step from history and removes its file.
func (b *ImageBuffer) Delete(step int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, err := b.at(step)
	if err != nil {
		return err
	}
	if err := storage.Remove(e.path); err != nil {
		return err
	}
	b.history = append(b.history[:step-1], b.history[step:]...)
	capture.RecycleFrame(e.frame)
	return nil
}

// Correct replaces every saved frame in history with the pending frame,
// written to path, as a single journaled commit. Afterwards the pending frame
// is the only history entry. Used when a transient frame was saved between
// two identical ones.
func (b *ImageBuffer) Correct(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return ErrNoPending
	}
	if len(b.history) < Depth {
		return ErrStepUnavailable
	}
	remove := make([]string, 0, len(b.history))
	for _, e := range b.history {
		remove = append(remove, e.path)
	}
	if err := storage.ReplaceImages(remove, path, b.pending.Image); err != nil {
		return fmt.Errorf("buffer: correct %s: %w", path, err)
	}
	for _, e := range b.history {
		capture.RecycleFrame(e.frame)
	}
	b.history = append(b.history[:0], entry{frame: *b.pending, path: path})
	b.pending = nil
	return nil
}

// Flush forgets history and the pending frame. Files on disk are kept.
func (b *ImageBuffer) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending != nil {
		capture.RecycleFrame(*b.pending)
		b.pending = nil
	}
	for _, e := range b.history {
		capture.RecycleFrame(e.frame)
	}
	b.history = b.history[:0]
}

// Pending reports whether an undecided frame is held.
func (b *ImageBuffer) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending != nil
}

// Len returns the number of saved frames in history.
func (b *ImageBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.history)
}

// Path returns the file the frame at step was saved to.
func (b *ImageBuffer) Path(step int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, err := b.at(step)
	if err != nil {
		return "", err
	}
	return e.path, nil
}

func (b *ImageBuffer) at(step int) (entry, error) {
	if step < 1 || step > len(b.history) {
		return entry{}, fmt.Errorf("%w: %d (have %d)", ErrStepUnavailable, step, len(b.history))
	}
	return b.history[step-1], nil
}

func (b *ImageBuffer) push(e entry) {
	b.history = append([]entry{e}, b.history...)
	for len(b.history) > Depth {
		last := b.history[len(b.history)-1]
		capture.RecycleFrame(last.frame)
		b.history = b.history[:len(b.history)-1]
	}
}
