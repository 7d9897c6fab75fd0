package policy

import (
	"errors"

	"github.com/soocke/captol-go/domain/buffer"
)

// Decision is what to do with the pending frame.
type Decision int

const (
	// Discard releases the pending frame.
	Discard Decision = iota
	// Save stores the pending frame at the next path and counts it.
	Save
	// Correct replaces the last two saved frames with the pending one.
	Correct
)

func (d Decision) String() string {
	switch d {
	case Discard:
		return "discard"
	case Save:
		return "save"
	case Correct:
		return "correct"
	default:
		return "unknown"
	}
}

// Comparer is the part of the image buffer a policy may consult.
type Comparer interface {
	CompareSimilarity(step int) (bool, error)
}

// Policy decides the fate of the pending frame from buffer contents alone.
// Implementations keep no state between calls.
type Policy interface {
	Name() string
	Decide(c Comparer) (Decision, error)
}

// Manual always saves and never compares.
type Manual struct{}

func (Manual) Name() string                     { return "manual" }
func (Manual) Decide(Comparer) (Decision, error) { return Save, nil }

// NoDuplicate saves only frames that differ from the last saved one.
type NoDuplicate struct{}

func (NoDuplicate) Name() string { return "no-duplicate" }

func (NoDuplicate) Decide(c Comparer) (Decision, error) {
	same, err := similar(c, 1)
	if err != nil {
		return Discard, err
	}
	if same {
		return Discard, nil
	}
	return Save, nil
}

// Active behaves like NoDuplicate but also undoes a transient save: when the
// pending frame matches the frame saved before the last one, the last one was
// a flicker and both are replaced by the pending frame.
type Active struct{}

func (Active) Name() string { return "active" }

func (Active) Decide(c Comparer) (Decision, error) {
	same, err := similar(c, 1)
	if err != nil {
		return Discard, err
	}
	if same {
		return Discard, nil
	}
	same, err = similar(c, 2)
	if err != nil {
		return Discard, err
	}
	if same {
		return Correct, nil
	}
	return Save, nil
}

// ForConfig returns the periodic policy selected by enable_active_image_saver.
func ForConfig(activeSaver bool) Policy {
	if activeSaver {
		return Active{}
	}
	return NoDuplicate{}
}

// similar treats a missing history step as "not similar".
func similar(c Comparer, step int) (bool, error) {
	same, err := c.CompareSimilarity(step)
	if errors.Is(err, buffer.ErrStepUnavailable) {
		return false, nil
	}
	return same, err
}
