package model

import (
	"sync"
	"sync/atomic"
)

// CaptureModel tracks whether periodic capture is enabled and which named
// region is selected. The zero value is disabled and usable. Concurrency-safe
// because UI callbacks and presenter ticks may race.
type CaptureModel struct {
	enabled atomic.Bool
	mu      sync.Mutex
	region  string
}

// Enabled reports whether capture is currently enabled.
func (m *CaptureModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the enabled flag.
func (m *CaptureModel) SetEnabled(b bool) {
	if m == nil {
		return
	}
	m.enabled.Store(b)
}

// Region returns the selected region name ("" when a raw rectangle is used).
func (m *CaptureModel) Region() string {
	if m == nil {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.region
}

// SetRegion records the selected region name.
func (m *CaptureModel) SetRegion(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.region = name
	m.mu.Unlock()
}
